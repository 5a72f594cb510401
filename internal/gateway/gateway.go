package gateway

import (
	"context"
)

// Type identifies a payment processor adapter.
type Type string

const (
	TypeGetnet   Type = "getnet"
	TypeNuveiACH Type = "nuvei_ach"
	TypePagadito Type = "pagadito"
)

// Action is the logical operation performed against a processor.
type Action string

const (
	ActionPurchase  Action = "purchase"
	ActionAuthorize Action = "authorize"
	ActionCapture   Action = "capture"
	ActionRefund    Action = "refund"
	ActionVoid      Action = "void"
	ActionVerify    Action = "verify"
)

// ParseAction maps a wire-level action name to its Action. Unknown names
// return false.
func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionPurchase, ActionAuthorize, ActionCapture, ActionRefund, ActionVoid, ActionVerify:
		return Action(s), true
	}
	return "", false
}

// Gateway is the uniform transaction interface every processor adapter
// implements. Business declines come back as TransactionResult values with
// Success=false; only authentication and transport problems are errors.
type Gateway interface {
	Name() string
	SupportedActions() []Action

	Purchase(ctx context.Context, req *TransactionRequest) (*TransactionResult, error)
	Authorize(ctx context.Context, req *TransactionRequest) (*TransactionResult, error)
	Capture(ctx context.Context, req *TransactionRequest) (*TransactionResult, error)
	Refund(ctx context.Context, req *TransactionRequest) (*TransactionResult, error)
	Void(ctx context.Context, req *TransactionRequest) (*TransactionResult, error)
	Verify(ctx context.Context, req *TransactionRequest) (*TransactionResult, error)
}

// Supports checks whether a gateway advertises the given action.
func Supports(g Gateway, action Action) bool {
	for _, a := range g.SupportedActions() {
		if a == action {
			return true
		}
	}
	return false
}
