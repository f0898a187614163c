package gateway

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/authorize-net-app/internal/domain/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Registry looks gateways up by their type tag
type Registry struct {
	gateways map[entity.GatewayType]Gateway
	ordered  []Gateway
}

// NewRegistry registers gateways in the given order. Later duplicates replace earlier ones.
func NewRegistry(gateways ...Gateway) *Registry {
	r := &Registry{gateways: make(map[entity.GatewayType]Gateway, len(gateways))}
	for _, g := range gateways {
		if _, exists := r.gateways[g.Type()]; !exists {
			r.ordered = append(r.ordered, g)
		} else {
			for i := range r.ordered {
				if r.ordered[i].Type() == g.Type() {
					r.ordered[i] = g
				}
			}
		}
		r.gateways[g.Type()] = g
	}
	return r
}

// Get returns the gateway registered for t
func (r *Registry) Get(t entity.GatewayType) (Gateway, error) {
	g, ok := r.gateways[t]
	if !ok {
		return nil, domainErrors.NewUnsupportedGatewayError(string(t))
	}
	return g, nil
}

// ForData picks the gateway named by the data blob's type tag
func (r *Registry) ForData(data json.RawMessage) (Gateway, error) {
	t, err := entity.GatewayTypeOf(data)
	if err != nil {
		return nil, domainErrors.NewValidationError("data is malformed", err)
	}
	if t == "" {
		return nil, domainErrors.NewValidationError("data.type is required", nil)
	}
	return r.Get(t)
}

// All returns every gateway in registration order
func (r *Registry) All() []Gateway {
	return r.ordered
}
