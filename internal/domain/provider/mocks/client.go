// Package mocks provides testify mocks of the provider capability interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/provider"
)

// Client is a mock implementation of provider.Client
type Client struct {
	mock.Mock
}

var _ provider.Client = (*Client)(nil)

func (m *Client) CreateTransaction(ctx context.Context, req *provider.TransactionRequest) (*provider.TransactionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.TransactionResponse), args.Error(1)
}

func (m *Client) GetTransactionDetails(ctx context.Context, transID string) (*provider.TransactionDetails, error) {
	args := m.Called(ctx, transID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.TransactionDetails), args.Error(1)
}

func (m *Client) GetHostedPaymentPage(ctx context.Context, req *provider.HostedPaymentPageRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *Client) GetCustomerProfile(ctx context.Context, profileID string) (*provider.CustomerProfile, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.CustomerProfile), args.Error(1)
}

func (m *Client) CreateCustomerProfile(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *Client) ListWebhooks(ctx context.Context) ([]provider.Webhook, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.Webhook), args.Error(1)
}

func (m *Client) CreateWebhook(ctx context.Context, url string, eventTypes []string) (*provider.Webhook, error) {
	args := m.Called(ctx, url, eventTypes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Webhook), args.Error(1)
}

// ClientFactory hands out the same mock client for every account
type ClientFactory struct {
	Client   *Client
	Accounts []string
}

func (f *ClientFactory) NewClient(account *entity.ProviderAccount) provider.Client {
	f.Accounts = append(f.Accounts, account.ID)
	return f.Client
}
