package getnet

import (
	"fmt"
	"net/url"
	"strings"

	"paybridge/internal/gateway"
)

const (
	sandboxURL    = "https://api-sandbox.getnet.com.br"
	productionURL = "https://api.getnet.com.br"
)

// action is the closed set of wire calls this adapter makes. Confirm and
// cancel templates embed the payment id being confirmed or cancelled.
type action string

const (
	actionOAuth                action = "oauth"
	actionTokenize             action = "tokenize"
	actionCreditPayment        action = "credit_payment"
	actionDebitPayment         action = "debit_payment"
	actionAuthenticatedPayment action = "authenticated_payment"
	actionAuthorize            action = "authorize"
	actionCapture              action = "capture"
	actionAuthenticatedCapture action = "authenticated_capture"
	actionVoid                 action = "void"
	actionAuthenticatedVoid    action = "authenticated_void"
	actionRefund               action = "refund"
	actionVerify               action = "verify"
)

var endpointTemplates = map[action]string{
	actionOAuth:                "/auth/oauth/v2/token",
	actionTokenize:             "/v1/tokens/card",
	actionCreditPayment:        "/v1/payments/credit",
	actionDebitPayment:         "/v1/payments/debit",
	actionAuthenticatedPayment: "/v1/payments/authenticated",
	actionAuthorize:            "/v1/payments/credit",
	actionCapture:              "/v1/payments/credit/%s/confirm",
	actionAuthenticatedCapture: "/v1/payments/authenticated/%s/confirm",
	actionVoid:                 "/v1/payments/credit/%s/cancel",
	actionAuthenticatedVoid:    "/v1/payments/authenticated/%s/cancel",
	actionRefund:               "/v1/payments/cancel/request",
	actionVerify:               "/v1/cards/verification",
}

// url resolves an action (plus the prior payment id, for confirm/cancel
// templates) to a concrete URL on the environment's base.
func (g *Gateway) url(a action, paymentID string) (string, error) {
	tmpl, ok := endpointTemplates[a]
	if !ok {
		return "", &gateway.Error{
			Code:    gateway.ErrCodeActionNotSupported,
			Message: fmt.Sprintf("no endpoint for action %s", a),
		}
	}

	base := sandboxURL
	if g.env == gateway.EnvironmentProduction {
		base = productionURL
	}
	if g.baseURL != "" {
		base = g.baseURL
	}

	if strings.Contains(tmpl, "%s") {
		if paymentID == "" {
			return "", &gateway.Error{
				Code:    gateway.ErrCodeInvalidRequest,
				Message: fmt.Sprintf("action %s requires a payment id", a),
			}
		}
		tmpl = fmt.Sprintf(tmpl, url.PathEscape(paymentID))
	}
	return base + tmpl, nil
}
