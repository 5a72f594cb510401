// Package pagadito implements the Pagadito card adapter. Authentication is
// a static Basic header; a purchase is tokenize-then-charge, with the
// customer token from the first call referenced by the second.
package pagadito

import (
	"context"
	"fmt"
	"strings"

	"paybridge/internal/gateway"
	"paybridge/internal/gateway/base"
	"paybridge/internal/money"

	"github.com/rs/zerolog/log"
)

const (
	testURL         = "https://sandbox-api.pagadito.com/v1/"
	liveURL         = "https://api.pagadito.com/v1/"
	defaultCurrency = "USD"
)

const (
	actionCustomer = "customer"
	actionCharge   = "charge"
)

// successCodePrefix marks approved operations; response codes look like
// "PG200-00" on success and "PG400-07" on decline.
const successCodePrefix = "PG200"

// Gateway is the Pagadito adapter.
type Gateway struct {
	username string
	wsk      string
	env      gateway.Environment
	baseURL  string

	client    *base.HTTPClient
	validator *base.RequestValidator
}

// New creates a Pagadito gateway for the given environment.
func New(username, wsk string, env gateway.Environment) *Gateway {
	return &Gateway{
		username:  username,
		wsk:       wsk,
		env:       env,
		client:    base.NewHTTPClient("pagadito", 30),
		validator: base.NewRequestValidator(defaultCurrency, 1, 0),
	}
}

func (g *Gateway) Name() string { return "Pagadito" }

func (g *Gateway) SupportedActions() []gateway.Action {
	return []gateway.Action{gateway.ActionPurchase}
}

// Purchase tokenizes the card and charges the resulting customer token. A
// declined tokenization is returned as-is; the charge never runs without a
// token.
func (g *Gateway) Purchase(ctx context.Context, req *gateway.TransactionRequest) (*gateway.TransactionResult, error) {
	if err := g.validator.ValidatePayment(req); err != nil {
		return nil, err
	}
	if req.Card == nil {
		return nil, &gateway.Error{
			Code:    gateway.ErrCodeInvalidRequest,
			Message: "Pagadito purchases require a credit card",
		}
	}

	tokenized, err := g.tokenize(ctx, req)
	if err != nil {
		return nil, err
	}
	if !tokenized.Success {
		return tokenized, nil
	}

	paymentToken := tokenized.Raw.String("customer_reply", "payment_token")
	if paymentToken == "" {
		return nil, &gateway.Error{
			Code:    gateway.ErrCodeTokenizationFailed,
			Message: "customer enrollment returned no payment token",
		}
	}
	return g.charge(ctx, req, paymentToken)
}

func (g *Gateway) Authorize(ctx context.Context, req *gateway.TransactionRequest) (*gateway.TransactionResult, error) {
	return nil, g.unsupported(gateway.ActionAuthorize)
}

func (g *Gateway) Capture(ctx context.Context, req *gateway.TransactionRequest) (*gateway.TransactionResult, error) {
	return nil, g.unsupported(gateway.ActionCapture)
}

func (g *Gateway) Refund(ctx context.Context, req *gateway.TransactionRequest) (*gateway.TransactionResult, error) {
	return nil, g.unsupported(gateway.ActionRefund)
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
		Message: fmt.Sprintf("Pagadito does not support %s", a),
	}
}

// tokenize enrolls the card as a customer, yielding a reusable payment
// token.
func (g *Gateway) tokenize(ctx context.Context, req *gateway.TransactionRequest) (*gateway.TransactionResult, error) {
	post := map[string]any{}
	addCard(post, req)
	addTransaction(post, req)
	addBrowserInfo(post, &req.Options)
	return g.commit(ctx, actionCustomer, post)
}

// charge debits the tokenized customer.
func (g *Gateway) charge(ctx context.Context, req *gateway.TransactionRequest, paymentToken string) (*gateway.TransactionResult, error) {
	post := map[string]any{
		"paymentToken": paymentToken,
		"totalAmount":  decimalAmount(req.Money),
		"currencyId":   req.Money.CurrencyOr(defaultCurrency),
	}
	if req.Options.OrderID != "" {
		post["merchantTransactionId"] = req.Options.OrderID
	}
	if req.Options.Description != "" {
		post["description"] = req.Options.Description
	}
	return g.commit(ctx, actionCharge, post)
}

func (g *Gateway) commit(ctx context.Context, a string, post map[string]any) (*gateway.TransactionResult, error) {
	resp, err := g.client.PostJSON(ctx, g.url(a), post, g.headers())
	if err != nil {
		return nil, err
	}
	doc, err := resp.Document()
	if err != nil {
		return nil, err
	}

	result := classify(doc)
	log.Info().
		Str("gateway", "pagadito").
		Str("action", a).
		Bool("success", result.Success).
		Int("status_code", resp.StatusCode).
		Msg("transaction dispatched")
	return result, nil
}

// classify reads the processor's response code. The authorization handle on
// success is the charge authorization from the customer reply.
func classify(doc gateway.Document) *gateway.TransactionResult {
	res := &gateway.TransactionResult{Raw: doc}
	res.Success = strings.HasPrefix(doc.String("response_code"), successCodePrefix)
	res.Message = doc.String("response_message")
	if res.Success {
		res.Authorization = doc.String("customer_reply", "authorization")
	}
	return res
}

func (g *Gateway) url(a string) string {
	base := testURL
	if g.env == gateway.EnvironmentProduction {
		base = liveURL
	}
	if g.baseURL != "" {
		base = g.baseURL
	}
	return base + a
}

// headers carries the static Basic credential; no token round trip exists
// for this processor.
func (g *Gateway) headers() map[string]string {
	return map[string]string{
		"Authorization": base.BasicAuth(g.username, g.wsk),
	}
}

func addCard(post map[string]any, req *gateway.TransactionRequest) {
	cc := req.Card
	card := map[string]any{
		"number":         cc.Number,
		"expirationDate": fmt.Sprintf("%02d/%d", cc.Month, cc.Year),
		"cvv":            cc.VerificationValue,
	}
	if req.Options.Email != "" {
		card["email"] = req.Options.Email
	}
	addCardName(card, cc)
	addBillingAddress(card, req.Address)
	post["card"] = card
}

func addCardName(card map[string]any, cc *gateway.CreditCard) {
	if cc.Name == "" {
		return
	}
	card["cardHolderName"] = cc.Name
	card["name"] = cc.Name
	card["firstName"] = cc.FirstName()
	if last := cc.LastName(); last != "" {
		card["lastName"] = last
	}
}

func addBillingAddress(card map[string]any, addr *gateway.Address) {
	billing := map[string]any{}
	if addr != nil {
		if addr.City != "" {
			billing["city"] = addr.City
		}
		if addr.State != "" {
			billing["state"] = addr.State
		}
		if addr.PostalCode != "" {
			billing["zip"] = addr.PostalCode
		}
		if code, ok := money.CountryNumericCode(addr.Country); ok {
			billing["countryId"] = code
		}
		if addr.Address1 != "" {
			billing["line1"] = addr.Address1
		}
		if addr.Phone != "" {
			billing["phone"] = addr.Phone
		}
	}
	card["billingAddress"] = billing
}

func addTransaction(post map[string]any, req *gateway.TransactionRequest) {
	transaction := map[string]any{
		"currencyId": req.Money.CurrencyOr(defaultCurrency),
	}
	if req.Options.OrderID != "" {
		transaction["merchantTransactionId"] = req.Options.OrderID
	}
	detail := map[string]any{
		"quantity": 1,
		"amount":   decimalAmount(req.Money),
	}
	if req.Options.Description != "" {
		detail["description"] = req.Options.Description
	}
	transaction["transactionDetails"] = []any{detail}
	post["transaction"] = transaction
}

func addBrowserInfo(post map[string]any, opts *gateway.Options) {
	browser := map[string]any{}
	if opts.IPAddress != "" {
		browser["customerIp"] = opts.IPAddress
	}
	if opts.DeviceID != "" {
		browser["deviceFingerprintID"] = opts.DeviceID
	}
	post["browserInfo"] = browser
}

// decimalAmount renders minor units as the two-decimal string this
// processor expects, e.g. 100 -> "1.00".
func decimalAmount(m money.Money) string {
	return fmt.Sprintf("%d.%02d", m.Amount/100, m.Amount%100)
}
