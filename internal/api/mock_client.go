package api

import (
	"context"
	"sync"

	"github.com/diogo/bookchat/internal/models"
)

// MockClient is a mock implementation of QueryClient for testing
type MockClient struct {
	// QueryFunc, when set, decides the outcome of each query
	QueryFunc func(ctx context.Context, query string) (*models.QueryResponse, error)

	// Mock return values used when QueryFunc is nil
	QueryVal    *models.QueryResponse
	QueryErr    error
	EndpointVal string

	mu          sync.Mutex
	queries     []string
	closeCalled bool
}

// Ensure MockClient implements QueryClient
var _ QueryClient = (*MockClient)(nil)

func (m *MockClient) Query(ctx context.Context, query string) (*models.QueryResponse, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	fn := m.QueryFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, query)
	}
	return m.QueryVal, m.QueryErr
}

func (m *MockClient) Endpoint() string {
	if m.EndpointVal == "" {
		return models.DefaultEndpoint
	}
	return m.EndpointVal
}

func (m *MockClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCalled = true
}

func (m *MockClient) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalled
}

// Queries returns the queries received so far, in call order
func (m *MockClient) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.queries))
	copy(out, m.queries)
	return out
}
