package gateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Registry manages all configured gateway adapters.
type Registry struct {
	gateways map[Type]Gateway
	mu       sync.RWMutex
}

// NewRegistry creates an empty gateway registry.
func NewRegistry() *Registry {
	return &Registry{gateways: make(map[Type]Gateway)}
}

// Register adds a gateway to the registry.
func (r *Registry) Register(t Type, g Gateway) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gateways[t] = g
	log.Info().
		Str("gateway", string(t)).
		Str("name", g.Name()).
		Strs("actions", actionsToStrings(g.SupportedActions())).
		Msg("registered payment gateway")
}

// Get returns a gateway by type.
func (r *Registry) Get(t Type) (Gateway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.gateways[t]
	if !ok {
		return nil, &Error{
			Code:    ErrCodeGatewayNotFound,
			Message: fmt.Sprintf("gateway %s not registered", t),
		}
	}
	return g, nil
}

// List returns all registered gateway types.
func (r *Registry) List() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var types []Type
	for t := range r.gateways {
		types = append(types, t)
	}
	return types
}

// Dispatch routes an action to the named gateway. Unsupported actions fail
// before any network call is made.
func (r *Registry) Dispatch(ctx context.Context, t Type, action Action, req *TransactionRequest) (*TransactionResult, error) {
	g, err := r.Get(t)
	if err != nil {
		return nil, err
	}
	if !Supports(g, action) {
		return nil, &Error{
			Code:    ErrCodeActionNotSupported,
			Message: fmt.Sprintf("gateway %s does not support %s", g.Name(), action),
		}
	}

	switch action {
	case ActionPurchase:
		return g.Purchase(ctx, req)
	case ActionAuthorize:
		return g.Authorize(ctx, req)
	case ActionCapture:
		return g.Capture(ctx, req)
	case ActionRefund:
		return g.Refund(ctx, req)
	case ActionVoid:
		return g.Void(ctx, req)
	case ActionVerify:
		return g.Verify(ctx, req)
	default:
		return nil, &Error{
			Code:    ErrCodeActionNotSupported,
			Message: fmt.Sprintf("unknown action %s", action),
		}
	}
}

func actionsToStrings(actions []Action) []string {
	var strs []string
	for _, a := range actions {
		strs = append(strs, string(a))
	}
	return strs
}
