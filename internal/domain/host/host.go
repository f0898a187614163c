package host

import (
	"context"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
)

// Client is the subset of the host platform's GraphQL API the app mutates through
type Client interface {
	// UpdatePrivateMetadata sets keys on the private metadata of a host object
	UpdatePrivateMetadata(ctx context.Context, id string, items []entity.MetadataItem) error

	// ReportTransactionEvent records a provider-side event on a host transaction
	ReportTransactionEvent(ctx context.Context, report *entity.TransactionEventReport) error
}

// ClientFactory returns a client authenticated for one tenant
type ClientFactory interface {
	ForTenant(ctx context.Context, tenant string) (Client, error)
}
