package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/cinemetrics/internal/model"
)

// --- OMDb Mock ---

type mockOMDbClient struct {
	mock.Mock
}

func (m *mockOMDbClient) Lookup(ctx context.Context, title string) (*model.MovieRecord, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MovieRecord), args.Error(1)
}

// --- Lake Mock ---

type mockLake struct {
	mock.Mock
}

func (m *mockLake) Write(ctx context.Context, table model.Table) (string, error) {
	args := m.Called(ctx, table)
	return args.String(0), args.Error(1)
}
