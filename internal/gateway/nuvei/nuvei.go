// Package nuvei implements the Nuvei (SafeCharge) ACH adapter. Requests are
// authenticated by a locally computed SHA-256 checksum over the merchant
// identifiers, a timestamp, and the shared secret; no bearer token exists.
package nuvei

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"paybridge/internal/gateway"
	"paybridge/internal/gateway/base"
	"paybridge/internal/money"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	testURL         = "https://ppp-test.safecharge.com/ppp/api/v1/"
	liveURL         = "https://secure.safecharge.com/ppp/api/v1/"
	defaultCurrency = "USD"
	timestampLayout = "20060102150405"
)

const (
	actionSessionToken = "getSessionToken"
	actionOpenOrder    = "openOrder"
	actionPayment      = "payment"
	actionRefund       = "refundTransaction"
)

// Gateway is the Nuvei ACH adapter.
type Gateway struct {
	merchantID     string
	merchantSiteID string
	secret         string
	env            gateway.Environment
	baseURL        string

	client    *base.HTTPClient
	validator *base.RequestValidator
	now       func() time.Time
}

// New creates a Nuvei gateway for the given environment.
func New(merchantID, merchantSiteID, secret string, env gateway.Environment) *Gateway {
	return &Gateway{
		merchantID:     merchantID,
		merchantSiteID: merchantSiteID,
		secret:         secret,
		env:            env,
		client:         base.NewHTTPClient("nuvei", 30),
		validator:      base.NewRequestValidator(defaultCurrency, 1, 0),
		now:            time.Now,
	}
}

func (g *Gateway) Name() string { return "Nuvei" }

func (g *Gateway) SupportedActions() []gateway.Action {
	return []gateway.Action{
		gateway.ActionPurchase,
		gateway.ActionRefund,
	}
}

// Purchase debits a bank account: open a session, then submit the payment
// with a money-bearing checksum.
func (g *Gateway) Purchase(ctx context.Context, req *gateway.TransactionRequest) (*gateway.TransactionResult, error) {
	if err := g.validator.ValidatePayment(req); err != nil {
		return nil, err
	}

	sessionToken, err := g.openSession(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := g.timestamp()
	clientRequestID := clientRequestID(&req.Options)

	post := g.initPost()
	post["sessionToken"] = sessionToken
	addTransactionDetails(post, req, clientRequestID, timestamp)
	addDeviceDetails(post, &req.Options)
	addBillingAddress(post, req)
	addPaymentOption(post, req.BankAccount)
	post["checksum"] = g.paymentChecksum(clientRequestID, req.Money, timestamp)

	return g.commit(ctx, actionPayment, post)
}

// OpenOrder creates a processor-side order and session for a later
// client-completed payment.
func (g *Gateway) OpenOrder(ctx context.Context, req *gateway.TransactionRequest) (*gateway.TransactionResult, error) {
	timestamp := g.timestamp()
	clientRequestID := clientRequestID(&req.Options)

	post := g.initPost()
	if req.Options.UserTokenID != "" {
		post["userTokenId"] = req.Options.UserTokenID
	} else if req.Options.CustomerID != "" {
		post["userTokenId"] = req.Options.CustomerID
	}
	addTransactionDetails(post, req, clientRequestID, timestamp)
	addDeviceDetails(post, &req.Options)
	post["checksum"] = g.paymentChecksum(clientRequestID, req.Money, timestamp)

	return g.commit(ctx, actionOpenOrder, post)
}

// Refund cancels a settled payment by its transaction id. Handles produced
// by Purchase may carry a trailing |userPaymentOptionId segment; only the
// first segment identifies the transaction.
func (g *Gateway) Refund(ctx context.Context, req *gateway.TransactionRequest) (*gateway.TransactionResult, error) {
	if err := g.validator.ValidateFollowUp(req); err != nil {
		return nil, err
	}

	timestamp := g.timestamp()
	clientRequestID := clientRequestID(&req.Options)

	post := g.initPost()
	post["relatedTransactionId"] = transactionID(req.Authorization)
	post["clientRequestId"] = clientRequestID
	post["amount"] = req.Money.AmountString()
	post["currency"] = req.Money.CurrencyOr(defaultCurrency)
	post["timeStamp"] = timestamp
	post["checksum"] = g.paymentChecksum(clientRequestID, req.Money, timestamp)

	return g.commit(ctx, actionRefund, post)
}

func (g *Gateway) Authorize(ctx context.Context, req *gateway.TransactionRequest) (*gateway.TransactionResult, error) {
	return nil, g.unsupported(gateway.ActionAuthorize)
}

func (g *Gateway) Capture(ctx context.Context, req *gateway.TransactionRequest) (*gateway.TransactionResult, error) {
	return nil, g.unsupported(gateway.ActionCapture)
}

func (g *Gateway) Void(ctx context.Context, req *gateway.TransactionRequest) (*gateway.TransactionResult, error) {
	return nil, g.unsupported(gateway.ActionVoid)
}

func (g *Gateway) Verify(ctx context.Context, req *gateway.TransactionRequest) (*gateway.TransactionResult, error) {
	return nil, g.unsupported(gateway.ActionVerify)
}

func (g *Gateway) unsupported(a gateway.Action) error {
	return &gateway.Error{
		Code:    gateway.ErrCodeActionNotSupported,
		Message: fmt.Sprintf("Nuvei ACH does not support %s", a),
	}
}

// openSession acquires a session token. This is itself a dispatch through
// the endpoint resolver and transport, with a degenerate classifier: either
// the response carries a session token or authentication has failed.
func (g *Gateway) openSession(ctx context.Context) (string, error) {
	timestamp := g.timestamp()
	post := g.initPost()
	post["timeStamp"] = timestamp
	post["checksum"] = g.sessionChecksum(timestamp)

	resp, err := g.client.PostJSON(ctx, g.url(actionSessionToken), post, jsonHeaders())
	if err != nil {
		return "", err
	}
	doc, err := resp.Document()
	if err != nil {
		return "", err
	}

	sessionToken := doc.String("sessionToken")
	if sessionToken == "" {
		return "", &gateway.Error{
			Code:    gateway.ErrCodeAuthFailed,
			Message: "unable to open a Nuvei session",
		}
	}
	return sessionToken, nil
}

// sessionChecksum authenticates a plain session request.
func (g *Gateway) sessionChecksum(timestamp string) string {
	return sha256Hex(g.merchantID + g.merchantSiteID + timestamp + g.secret)
}

// paymentChecksum authenticates a money-bearing request; it additionally
// folds in the request id, amount, and currency.
func (g *Gateway) paymentChecksum(clientRequestID string, m money.Money, timestamp string) string {
	return sha256Hex(g.merchantID + g.merchantSiteID + clientRequestID +
		m.AmountString() + m.CurrencyOr(defaultCurrency) + timestamp + g.secret)
}

func sha256Hex(base string) string {
	sum := sha256.Sum256([]byte(base))
	return hex.EncodeToString(sum[:])
}

func (g *Gateway) commit(ctx context.Context, a string, post map[string]any) (*gateway.TransactionResult, error) {
	resp, err := g.client.PostJSON(ctx, g.url(a), post, jsonHeaders())
	if err != nil {
		return nil, err
	}
	doc, err := resp.Document()
	if err != nil {
		return nil, err
	}

	result := classify(a, doc)
	log.Info().
		Str("gateway", "nuvei").
		Str("action", a).
		Bool("success", result.Success).
		Int("status_code", resp.StatusCode).
		Msg("transaction dispatched")
	return result, nil
}

func (g *Gateway) url(a string) string {
	base := testURL
	if g.env == gateway.EnvironmentProduction {
		base = liveURL
	}
	if g.baseURL != "" {
		base = g.baseURL
	}
	return base + a + ".do"
}

func (g *Gateway) initPost() map[string]any {
	return map[string]any{
		"merchantId":     g.merchantID,
		"merchantSiteId": g.merchantSiteID,
	}
}

func (g *Gateway) timestamp() string {
	return g.now().UTC().Format(timestampLayout)
}

func addTransactionDetails(post map[string]any, req *gateway.TransactionRequest, clientRequestID, timestamp string) {
	post["amount"] = req.Money.AmountString()
	post["currency"] = req.Money.CurrencyOr(defaultCurrency)
	post["clientRequestId"] = clientRequestID
	if req.Options.TransactionID != "" {
		post["clientUniqueId"] = req.Options.TransactionID
	}
	post["timeStamp"] = timestamp
}

func addDeviceDetails(post map[string]any, opts *gateway.Options) {
	if opts.IPAddress == "" {
		return
	}
	post["deviceDetails"] = map[string]any{
		"ipAddress": opts.IPAddress,
	}
}

func addBillingAddress(post map[string]any, req *gateway.TransactionRequest) {
	billing := map[string]any{}
	if req.Options.Email != "" {
		billing["email"] = req.Options.Email
	}
	// Country must be an ISO 3166-1 alpha-2 code.
	if req.Address != nil && req.Address.Country != "" {
		billing["country"] = req.Address.Country
	}
	if len(billing) > 0 {
		post["billingAddress"] = billing
	}
}

func addPaymentOption(post map[string]any, account *gateway.BankAccount) {
	apm := map[string]any{}
	if account != nil {
		apm["paymentMethod"] = "apmgw_ACH"
		apm["AccountNumber"] = account.AccountNumber
		apm["RoutingNumber"] = account.RoutingNumber
	} else {
		apm["paymentMethod"] = "apmgw_Secure_Bank_Transfer"
	}
	post["paymentOption"] = map[string]any{
		"alternativePaymentMethod": apm,
	}
}

// clientRequestID uses the caller's order id when present; every request
// otherwise gets a fresh unique id, since the checksum binds to it.
func clientRequestID(opts *gateway.Options) string {
	if opts.OrderID != "" {
		return opts.OrderID
	}
	return uuid.NewString()
}

// transactionID strips the optional |userPaymentOptionId suffix from a
// purchase authorization handle.
func transactionID(authorization string) string {
	if i := strings.IndexByte(authorization, '|'); i >= 0 {
		return authorization[:i]
	}
	return authorization
}

func jsonHeaders() map[string]string {
	return map[string]string{"Content-Type": "application/json"}
}
