package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/budgetbook/budgetbook/internal/domain"
	"github.com/budgetbook/budgetbook/internal/websocket"
)

// MockDocumentRepository is an in-memory implementation of domain.DocumentRepository
type MockDocumentRepository struct {
	mu        sync.Mutex
	Data      map[string][]byte
	PutCount  int
	GetErr    error
	PutErr    error
	DeleteErr error
}

// NewMockDocumentRepository creates a new MockDocumentRepository
func NewMockDocumentRepository() *MockDocumentRepository {
	return &MockDocumentRepository{
		Data: make(map[string][]byte),
	}
}

// Get returns the stored bytes for key
func (m *MockDocumentRepository) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	data, ok := m.Data[key]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return append([]byte(nil), data...), nil
}

// Put stores data under key unless PutErr is set
func (m *MockDocumentRepository) Put(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return m.PutErr
	}
	m.Data[key] = append([]byte(nil), data...)
	m.PutCount++
	return nil
}

// Delete removes key
func (m *MockDocumentRepository) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.Data, key)
	return nil
}

// Seed stores raw bytes under key (helper for tests)
func (m *MockDocumentRepository) Seed(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = data
}

// Stored returns the bytes under key and whether they exist
func (m *MockDocumentRepository) Stored(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Data[key]
	return data, ok
}

// MockBackupRepository is an in-memory implementation of domain.BackupRepository
type MockBackupRepository struct {
	mu        sync.Mutex
	Objects   map[string][]byte
	UploadErr error
}

// NewMockBackupRepository creates a new MockBackupRepository
func NewMockBackupRepository() *MockBackupRepository {
	return &MockBackupRepository{
		Objects: make(map[string][]byte),
	}
}

// Upload stores a backup object
func (m *MockBackupRepository) Upload(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UploadErr != nil {
		return m.UploadErr
	}
	m.Objects[name] = append([]byte(nil), data...)
	return nil
}

// Download returns a backup object
func (m *MockBackupRepository) Download(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Objects[name]
	if !ok {
		return nil, domain.ErrBackupNotFound
	}
	return data, nil
}

// List returns all backup objects sorted by name
func (m *MockBackupRepository) List(_ context.Context) ([]domain.BackupObject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	objects := make([]domain.BackupObject, 0, len(m.Objects))
	for name, data := range m.Objects {
		objects = append(objects, domain.BackupObject{
			Name:         name,
			Size:         int64(len(data)),
			LastModified: time.Time{},
		})
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Name < objects[j].Name })
	return objects, nil
}

// RecordingPublisher captures published events
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []websocket.Event
}

// Publish records the event
func (p *RecordingPublisher) Publish(event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
}

// Types returns the recorded event types in order
func (p *RecordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.Events))
	for i, e := range p.Events {
		types[i] = e.Type
	}
	return types
}

// FixedClock returns a clock that always reports t
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
