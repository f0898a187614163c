// Package mocks provides testify mocks of the host platform client.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/host"
)

// Client is a mock implementation of host.Client
type Client struct {
	mock.Mock
}

var _ host.Client = (*Client)(nil)

func (m *Client) UpdatePrivateMetadata(ctx context.Context, id string, items []entity.MetadataItem) error {
	args := m.Called(ctx, id, items)
	return args.Error(0)
}

func (m *Client) ReportTransactionEvent(ctx context.Context, report *entity.TransactionEventReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

// ClientFactory returns Client for every tenant
type ClientFactory struct {
	Client *Client
	Err    error
}

func (f *ClientFactory) ForTenant(_ context.Context, _ string) (host.Client, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Client, nil
}
