// Package getnet implements the Getnet card-payment adapter. Every
// top-level operation acquires a fresh OAuth bearer token, threads it
// through tokenization when needed, and submits the payment call.
package getnet

import (
	"context"
	"net/url"

	"paybridge/internal/gateway"
	"paybridge/internal/gateway/base"

	"github.com/rs/zerolog/log"
)

const defaultCurrency = "BRL"

// verifyAmount is the minor-unit amount used by the authorize-then-void
// verification sequence.
const verifyAmount = 100

// Gateway is the Getnet adapter. Secrets are set at construction and never
// mutated, so one instance is safe for concurrent operations.
type Gateway struct {
	username string
	password string
	seller   string
	env      gateway.Environment
	baseURL  string

	client    *base.HTTPClient
	validator *base.RequestValidator
}

// New creates a Getnet gateway for the given environment.
func New(username, password, sellerID string, env gateway.Environment) *Gateway {
	return &Gateway{
		username:  username,
		password:  password,
		seller:    sellerID,
		env:       env,
		client:    base.NewHTTPClient("getnet", 30),
		validator: base.NewRequestValidator(defaultCurrency, 1, 0),
	}
}

func (g *Gateway) Name() string { return "Getnet" }

func (g *Gateway) SupportedActions() []gateway.Action {
	return []gateway.Action{
		gateway.ActionPurchase,
		gateway.ActionAuthorize,
		gateway.ActionCapture,
		gateway.ActionRefund,
		gateway.ActionVoid,
		gateway.ActionVerify,
	}
}

// Purchase charges a card in one step.
func (g *Gateway) Purchase(ctx context.Context, req *gateway.TransactionRequest) (*gateway.TransactionResult, error) {
	return g.pay(ctx, req, false)
}

// Authorize places a hold to be captured later.
func (g *Gateway) Authorize(ctx context.Context, req *gateway.TransactionRequest) (*gateway.TransactionResult, error) {
	return g.pay(ctx, req, true)
}

func (g *Gateway) pay(ctx context.Context, req *gateway.TransactionRequest, delayed bool) (*gateway.TransactionResult, error) {
	if err := g.validator.ValidatePayment(req); err != nil {
		return nil, err
	}

	accessToken, err := g.acquireAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := g.buildPaymentPayload(ctx, req, accessToken, delayed)
	if err != nil {
		return nil, err
	}

	a := actionCreditPayment
	switch {
	case req.Options.ThreeDSecure != nil:
		a = actionAuthenticatedPayment
	case delayed:
		a = actionAuthorize
	case req.Options.Debit:
		a = actionDebitPayment
	}
	return g.commit(ctx, a, "", payload, accessToken)
}

// Capture confirms a previously authorized payment by its handle.
func (g *Gateway) Capture(ctx context.Context, req *gateway.TransactionRequest) (*gateway.TransactionResult, error) {
	if err := g.validator.ValidateFollowUp(req); err != nil {
		return nil, err
	}

	accessToken, err := g.acquireAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{}
	a := actionCapture
	if req.Options.ThreeDSecure != nil {
		a = actionAuthenticatedCapture
		payload["payment_method"] = paymentMethod(&req.Options)
	}
	return g.commit(ctx, a, req.Authorization, payload, accessToken)
}

// Void cancels a prior payment the same day it was made.
func (g *Gateway) Void(ctx context.Context, req *gateway.TransactionRequest) (*gateway.TransactionResult, error) {
	if err := g.validator.ValidateFollowUp(req); err != nil {
		return nil, err
	}

	accessToken, err := g.acquireAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{}
	a := actionVoid
	if req.Options.ThreeDSecure != nil {
		a = actionAuthenticatedVoid
		payload["payment_method"] = paymentMethod(&req.Options)
	}
	return g.commit(ctx, a, req.Authorization, payload, accessToken)
}

// Refund requests a cancellation of a settled payment. The returned handle
// is the cancel-request id, usable for tracking the refund.
func (g *Gateway) Refund(ctx context.Context, req *gateway.TransactionRequest) (*gateway.TransactionResult, error) {
	if err := g.validator.ValidateFollowUp(req); err != nil {
		return nil, err
	}

	accessToken, err := g.acquireAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"payment_id": req.Authorization,
	}
	if req.Money.Amount > 0 {
		payload["cancel_amount"] = req.Money.Amount
	}
	return g.commit(ctx, actionRefund, "", payload, accessToken)
}

// Verify checks a card by authorizing a nominal amount and then voiding the
// hold. The void is best-effort cleanup: its outcome never replaces the
// authorize outcome, and it runs whenever a handle exists.
func (g *Gateway) Verify(ctx context.Context, req *gateway.TransactionRequest) (*gateway.TransactionResult, error) {
	authReq := *req
	authReq.Money.Amount = verifyAmount

	primary, err := g.Authorize(ctx, &authReq)
	if err != nil {
		return nil, err
	}

	if primary.Authorization != "" {
		voidReq := gateway.TransactionRequest{
			Authorization: primary.Authorization,
			Options:       req.Options,
		}
		if _, err := g.Void(ctx, &voidReq); err != nil {
			log.Warn().
				Str("gateway", "getnet").
				Str("payment_id", primary.Authorization).
				Err(err).
				Msg("verification cleanup void failed")
		}
	}
	return primary, nil
}

// VerifyCard runs the processor's zero-auth card verification. On success
// the returned handle is the verification authorization code.
func (g *Gateway) VerifyCard(ctx context.Context, req *gateway.TransactionRequest) (*gateway.TransactionResult, error) {
	accessToken, err := g.acquireAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	card, err := g.buildCard(ctx, req, accessToken)
	if err != nil {
		return nil, err
	}
	return g.commit(ctx, actionVerify, "", card, accessToken)
}

// commit dispatches a built payload to the resolved endpoint and classifies
// whatever comes back, 2xx or not.
func (g *Gateway) commit(ctx context.Context, a action, paymentID string, payload map[string]any, accessToken string) (*gateway.TransactionResult, error) {
	endpoint, err := g.url(a, paymentID)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.PostJSON(ctx, endpoint, payload, g.apiHeaders(accessToken))
	if err != nil {
		return nil, err
	}

	doc, err := resp.Document()
	if err != nil {
		return nil, err
	}

	result := classify(a, doc)
	log.Info().
		Str("gateway", "getnet").
		Str("action", string(a)).
		Bool("success", result.Success).
		Int("status_code", resp.StatusCode).
		Msg("transaction dispatched")
	return result, nil
}

// acquireAccessToken performs the client-credentials grant. A response
// without an access token is an authentication failure that aborts the
// whole operation; it is never retried.
func (g *Gateway) acquireAccessToken(ctx context.Context) (string, error) {
	endpoint, err := g.url(actionOAuth, "")
	if err != nil {
		return "", err
	}

	form := url.Values{
		"scope":      {"oob"},
		"grant_type": {"client_credentials"},
	}
	headers := map[string]string{
		"Accept":        "*/*",
		"Authorization": base.BasicAuth(g.username, g.password),
	}

	resp, err := g.client.PostForm(ctx, endpoint, form, headers)
	if err != nil {
		return "", err
	}

	doc, err := resp.Document()
	if err != nil {
		return "", err
	}

	accessToken := doc.String("access_token")
	if accessToken == "" {
		return "", &gateway.Error{
			Code:    gateway.ErrCodeAuthFailed,
			Message: "unable to authenticate with Getnet",
		}
	}
	return accessToken, nil
}

// tokenizeCard exchanges a raw card number for a number token, reusing the
// operation's access token rather than re-authenticating.
func (g *Gateway) tokenizeCard(ctx context.Context, cc *gateway.CreditCard, customerID, accessToken string) (string, error) {
	endpoint, err := g.url(actionTokenize, "")
	if err != nil {
		return "", err
	}

	payload := map[string]any{"card_number": cc.Number}
	if customerID != "" {
		payload["customer_id"] = customerID
	}

	resp, err := g.client.PostJSON(ctx, endpoint, payload, g.apiHeaders(accessToken))
	if err != nil {
		return "", err
	}

	doc, err := resp.Document()
	if err != nil {
		return "", err
	}

	numberToken := doc.String("number_token")
	if numberToken == "" {
		return "", &gateway.Error{
			Code:    gateway.ErrCodeTokenizationFailed,
			Message: "card tokenization returned no number token",
		}
	}
	return numberToken, nil
}

func (g *Gateway) apiHeaders(accessToken string) map[string]string {
	headers := map[string]string{
		"Authorization": "Bearer " + accessToken,
	}
	if g.env == gateway.EnvironmentSandbox {
		headers["api_mode"] = "mocked"
	}
	return headers
}

func (g *Gateway) sellerID(opts *gateway.Options) string {
	if opts.SellerID != "" {
		return opts.SellerID
	}
	return g.seller
}
