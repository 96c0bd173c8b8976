package content

import (
	"context"
	"net/http"
	"strings"
	"testing"

	errorsfeature "github.com/dalemusser/agencycms/internal/app/features/errors"
	contentstore "github.com/dalemusser/agencycms/internal/app/store/content"
	orphanstore "github.com/dalemusser/agencycms/internal/app/store/orphans"
	"github.com/dalemusser/agencycms/internal/app/system/orphanlog"
	"github.com/dalemusser/agencycms/internal/app/system/uploads"
	"github.com/dalemusser/agencycms/internal/domain/models"
	"github.com/dalemusser/agencycms/internal/testutil"
	"go.uber.org/zap"
)

type fixture struct {
	kind    models.ContentKind
	svc     *Service
	router  http.Handler
	files   *testutil.MemStorage
	orphans *orphanstore.Store
	store   *contentstore.Store
}

func newFixture(t *testing.T, kind models.ContentKind) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	files := testutil.NewMemStorage()
	images := uploads.New(files, kind.ImageDir, zap.NewNop())
	orphans := orphanstore.New(db)
	store := contentstore.New(db, kind)

	svc := NewService(kind, store, images, orphanlog.New(orphans, zap.NewNop(), orphanlog.ModeDB), zap.NewNop())
	svc.newOpID = func() string { return "op-test" }

	h := NewHandler(svc, images, errorsfeature.NewErrorLogger(zap.NewNop()), zap.NewNop(), 0)
	return &fixture{
		kind:    kind,
		svc:     svc,
		router:  Routes(h),
		files:   files,
		orphans: orphans,
		store:   store,
	}
}

func file(name, content string) uploads.File {
	return uploads.File{Filename: name, ContentType: "image/png", Reader: strings.NewReader(content)}
}

// seed creates a record through the service.
func (f *fixture) seed(t *testing.T, heading string, files ...uploads.File) models.ContentItem {
	t.Helper()
	item, err := f.svc.Create(context.Background(), CreateInput{
		Heading:     heading,
		Description: "<p>" + heading + "</p>",
		Files:       files,
	})
	if err != nil {
		t.Fatalf("seed Create() error = %v", err)
	}
	return item
}

func (f *fixture) path(name string) string {
	return f.kind.ImageDir + "/" + name
}

func (f *fixture) outstandingOrphans(t *testing.T) []models.OrphanReport {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	list, err := f.orphans.ListOutstanding(ctx, 100)
	if err != nil {
		t.Fatalf("ListOutstanding() error = %v", err)
	}
	return list
}
