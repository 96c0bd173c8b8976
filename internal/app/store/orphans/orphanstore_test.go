package orphanstore

import (
	"testing"
	"time"

	"github.com/dalemusser/agencycms/internal/domain/models"
	"github.com/dalemusser/agencycms/internal/testutil"
)

func report(kind, filename string) models.OrphanReport {
	return models.OrphanReport{
		Kind:        kind,
		Filename:    filename,
		StoragePath: "serviceimg/" + filename,
		Operation:   models.OrphanOpDelete,
		OperationID: "op-1",
		Error:       "permission denied",
	}
}

func TestStore_InsertAndListOutstanding(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first, err := store.Insert(ctx, report("services", "1-a.png"))
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if first.ID.IsZero() || first.CreatedAt.IsZero() {
		t.Error("Insert() should assign ID and CreatedAt")
	}
	time.Sleep(5 * time.Millisecond)
	second, _ := store.Insert(ctx, report("services", "2-b.png"))

	list, err := store.ListOutstanding(ctx, 0)
	if err != nil {
		t.Fatalf("ListOutstanding() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].ID != second.ID {
		t.Error("ListOutstanding() should return newest first")
	}
}

func TestStore_MarkResolved(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r, _ := store.Insert(ctx, report("services", "1-a.png"))
	if err := store.MarkResolved(ctx, r.ID); err != nil {
		t.Fatalf("MarkResolved() error = %v", err)
	}

	got, err := store.GetByID(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.ResolvedAt == nil || got.IsOutstanding() {
		t.Error("report should be resolved")
	}
	if n, _ := store.CountOutstanding(ctx); n != 0 {
		t.Errorf("CountOutstanding = %d, want 0", n)
	}
}

func TestStore_RecordFailedAttempt_Abandons(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r, _ := store.Insert(ctx, report("services", "1-a.png"))

	abandoned, err := store.RecordFailedAttempt(ctx, r.ID, "still failing", 2)
	if err != nil {
		t.Fatalf("RecordFailedAttempt() error = %v", err)
	}
	if abandoned {
		t.Error("first attempt should not abandon")
	}
	abandoned, err = store.RecordFailedAttempt(ctx, r.ID, "still failing", 2)
	if err != nil {
		t.Fatalf("RecordFailedAttempt() error = %v", err)
	}
	if !abandoned {
		t.Error("second attempt should abandon with maxAttempts=2")
	}

	got, _ := store.GetByID(ctx, r.ID)
	if got.Attempts != 2 || got.AbandonedAt == nil || got.Error != "still failing" {
		t.Errorf("got %+v", got)
	}
}

func TestStore_CountOutstandingByKind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store.Insert(ctx, report("services", "1.png"))
	store.Insert(ctx, report("services", "2.png"))
	store.Insert(ctx, report("singleservices", "3.png"))
	resolved, _ := store.Insert(ctx, report("singleservices", "4.png"))
	store.MarkResolved(ctx, resolved.ID)

	counts, err := store.CountOutstandingByKind(ctx)
	if err != nil {
		t.Fatalf("CountOutstandingByKind() error = %v", err)
	}
	if counts["services"] != 2 || counts["singleservices"] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestStore_PruneClosed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	old := report("services", "old.png")
	old.CreatedAt = time.Now().UTC().Add(-40 * 24 * time.Hour)
	oldResolved, _ := store.Insert(ctx, old)
	store.MarkResolved(ctx, oldResolved.ID)

	oldOpen := report("services", "open.png")
	oldOpen.CreatedAt = time.Now().UTC().Add(-40 * 24 * time.Hour)
	store.Insert(ctx, oldOpen)

	recent, _ := store.Insert(ctx, report("services", "recent.png"))
	store.MarkResolved(ctx, recent.ID)

	n, err := store.PruneClosed(ctx, time.Now().UTC().Add(-30*24*time.Hour))
	if err != nil {
		t.Fatalf("PruneClosed() error = %v", err)
	}
	if n != 1 {
		t.Errorf("pruned %d, want 1", n)
	}
	if c, _ := store.CountOutstanding(ctx); c != 1 {
		t.Errorf("outstanding = %d, want 1 (old open report must stay)", c)
	}
}
