package testutil

import (
	"context"
	"io"
	"sync"

	"github.com/dalemusser/waffle/pantry/storage"
)

// MemStorage wraps waffle's in-memory storage backend. Missing paths fail
// with storage.ErrNotFound exactly as the real backends do. On top of that it
// records every delete attempt and can be told to fail writes or deletes.
type MemStorage struct {
	*storage.Memory

	mu         sync.Mutex
	deletes    []string
	failPut    map[string]error
	failDelete map[string]error
	putErr     error
}

// NewMemStorage creates an empty MemStorage whose URLs start with /files.
func NewMemStorage() *MemStorage {
	return &MemStorage{
		Memory:     storage.NewMemory(storage.MemoryConfig{BaseURL: "/files"}),
		failPut:    make(map[string]error),
		failDelete: make(map[string]error),
	}
}

// Put stores the reader's content at path unless a failure is injected.
func (m *MemStorage) Put(ctx context.Context, path string, r io.Reader, opts *storage.PutOptions) error {
	m.mu.Lock()
	err := m.putErr
	if err == nil {
		err = m.failPut[path]
	}
	m.mu.Unlock()
	if err != nil {
		return err
	}
	return m.Memory.Put(ctx, path, r, opts)
}

// Delete records the attempt and removes path unless a failure is injected.
func (m *MemStorage) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	m.deletes = append(m.deletes, path)
	err := m.failDelete[path]
	m.mu.Unlock()
	if err != nil {
		return err
	}
	return m.Memory.Delete(ctx, path)
}

// Seed stores content at path directly.
func (m *MemStorage) Seed(path string, data []byte) {
	if err := m.Memory.PutBytes(context.Background(), path, data, nil); err != nil {
		panic("testutil: seed " + path + ": " + err.Error())
	}
}

// FailPut makes Put fail for path.
func (m *MemStorage) FailPut(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failPut[path] = err
}

// FailDelete makes Delete fail for path.
func (m *MemStorage) FailDelete(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failDelete[path] = err
}

// FailAllPuts makes every Put fail with err.
func (m *MemStorage) FailAllPuts(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putErr = err
}

// ClearFailures removes all injected failures.
func (m *MemStorage) ClearFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putErr = nil
	m.failPut = make(map[string]error)
	m.failDelete = make(map[string]error)
}

// Exists reports whether path is stored.
func (m *MemStorage) Exists(path string) bool {
	ok, err := m.Memory.Exists(context.Background(), path)
	return err == nil && ok
}

// Content returns the stored bytes for path, or nil if it is missing.
func (m *MemStorage) Content(path string) []byte {
	data, err := m.Memory.GetBytes(context.Background(), path)
	if err != nil {
		return nil
	}
	return data
}

// Paths returns all stored paths, sorted.
func (m *MemStorage) Paths() []string {
	res, err := m.Memory.List(context.Background(), "", &storage.ListOptions{MaxKeys: 10000})
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(res.Objects))
	for _, obj := range res.Objects {
		out = append(out, obj.Path)
	}
	return out
}

// Deletes returns every path Delete was called with, in call order.
func (m *MemStorage) Deletes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deletes...)
}
