package api

import (
	"context"
	"sync"

	"github.com/diogo/aura/internal/models"
)

// MockBackend is a scripted Backend for tests
type MockBackend struct {
	mu sync.Mutex

	// Mock return values
	Response *models.Response
	Err      error
	Panic    any
	// Hook overrides Response/Err when set
	Hook func(req *models.Request) (*models.Response, error)

	// Call recorders
	Calls       int
	LastRequest *models.Request
	Closed      bool
}

// Ensure MockBackend implements Backend
var _ Backend = (*MockBackend)(nil)

func (m *MockBackend) Generate(ctx context.Context, req *models.Request) (*models.Response, error) {
	m.mu.Lock()
	m.Calls++
	m.LastRequest = req
	hook, resp, err, p := m.Hook, m.Response, m.Err, m.Panic
	m.mu.Unlock()

	if p != nil {
		panic(p)
	}
	if hook != nil {
		return hook(req)
	}
	return resp, err
}

func (m *MockBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// CallCount returns the number of Generate calls
func (m *MockBackend) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}
