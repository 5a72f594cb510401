package pagadito

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"paybridge/internal/gateway"
	"paybridge/internal/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(srvURL string) *Gateway {
	g := New("pg-user", "wsk-secret", gateway.EnvironmentSandbox)
	if srvURL != "" {
		g.baseURL = srvURL + "/"
	}
	return g
}

func cardRequest() *gateway.TransactionRequest {
	return &gateway.TransactionRequest{
		Money: money.Money{Amount: 100, Currency: "USD"},
		Card: &gateway.CreditCard{
			Number:            "4111111111111111",
			Month:             9,
			Year:              2027,
			VerificationValue: "123",
			Name:              "Longbob Longsen",
		},
		Address: &gateway.Address{
			Address1:   "1 Calle Principal",
			City:       "San Salvador",
			Country:    "SV",
			PostalCode: "01101",
			Phone:      "+50325555555",
		},
		Options: gateway.Options{
			OrderID: "order-1",
			Email:   "joe@example.com",
		},
	}
}

func TestClassify(t *testing.T) {
	success := classify(gateway.Document{
		"response_code":    "PG200-00",
		"response_message": "Transaction approved",
		"customer_reply":   map[string]any{"authorization": "auth-1"},
	})
	assert.True(t, success.Success)
	assert.Equal(t, "Transaction approved", success.Message)
	assert.Equal(t, "auth-1", success.Authorization)

	decline := classify(gateway.Document{
		"response_code":    "PG400-07",
		"response_message": "Transaction declined",
		"customer_reply":   map[string]any{"authorization": "never-used"},
	})
	assert.False(t, decline.Success)
	assert.Equal(t, "Transaction declined", decline.Message)
	assert.Empty(t, decline.Authorization)
}

func TestPurchaseFlow(t *testing.T) {
	var paths []string
	var customerBody, chargeBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		assert.Equal(t, "Basic cGctdXNlcjp3c2stc2VjcmV0", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/customer":
			_ = json.NewDecoder(r.Body).Decode(&customerBody)
			w.Write([]byte(`{
				"response_code": "PG200-00",
				"response_message": "ok",
				"customer_reply": {"payment_token": "ptok-1"}
			}`))
		case "/charge":
			_ = json.NewDecoder(r.Body).Decode(&chargeBody)
			w.Write([]byte(`{
				"response_code": "PG200-05",
				"response_message": "Transaction approved",
				"customer_reply": {"authorization": "auth-9"}
			}`))
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	g := newTestGateway(srv.URL)

	res, err := g.Purchase(context.Background(), cardRequest())
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "Transaction approved", res.Message)
	assert.Equal(t, "auth-9", res.Authorization)
	assert.Equal(t, []string{"/customer", "/charge"}, paths)

	card := customerBody["card"].(map[string]any)
	assert.Equal(t, "4111111111111111", card["number"])
	assert.Equal(t, "09/2027", card["expirationDate"])
	assert.Equal(t, "123", card["cvv"])
	assert.Equal(t, "Longbob", card["firstName"])
	assert.Equal(t, "Longsen", card["lastName"])

	billing := card["billingAddress"].(map[string]any)
	assert.Equal(t, "222", billing["countryId"])
	assert.Equal(t, "1 Calle Principal", billing["line1"])

	transaction := customerBody["transaction"].(map[string]any)
	assert.Equal(t, "order-1", transaction["merchantTransactionId"])
	detail := transaction["transactionDetails"].([]any)[0].(map[string]any)
	assert.Equal(t, "1.00", detail["amount"])

	assert.Equal(t, "ptok-1", chargeBody["paymentToken"])
	assert.Equal(t, "1.00", chargeBody["totalAmount"])
	assert.Equal(t, "USD", chargeBody["currencyId"])
}

func TestPurchaseTokenizeDecline(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"response_code":"PG400-02","response_message":"Invalid card"}`))
	}))
	defer srv.Close()

	g := newTestGateway(srv.URL)

	res, err := g.Purchase(context.Background(), cardRequest())
	require.NoError(t, err, "a declined enrollment is a result, not an error")
	assert.False(t, res.Success)
	assert.Equal(t, "Invalid card", res.Message)
	assert.Equal(t, []string{"/customer"}, paths, "the charge never runs")
}

func TestPurchaseMissingPaymentToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response_code":"PG200-00","response_message":"ok"}`))
	}))
	defer srv.Close()

	g := newTestGateway(srv.URL)

	_, err := g.Purchase(context.Background(), cardRequest())
	assert.Equal(t, gateway.ErrCodeTokenizationFailed, gateway.ErrorCode(err))
}

func TestPurchaseRequiresCard(t *testing.T) {
	g := newTestGateway("")

	req := &gateway.TransactionRequest{
		Money:   money.Money{Amount: 100},
		Options: gateway.Options{Token: "tok-1"},
	}
	_, err := g.Purchase(context.Background(), req)
	assert.Equal(t, gateway.ErrCodeInvalidRequest, gateway.ErrorCode(err))
}

func TestUnsupportedActions(t *testing.T) {
	g := newTestGateway("")

	for _, op := range []func(context.Context, *gateway.TransactionRequest) (*gateway.TransactionResult, error){
		g.Authorize, g.Capture, g.Refund, g.Void, g.Verify,
	} {
		_, err := op(context.Background(), &gateway.TransactionRequest{})
		assert.Equal(t, gateway.ErrCodeActionNotSupported, gateway.ErrorCode(err))
	}
}

func TestDecimalAmount(t *testing.T) {
	assert.Equal(t, "1.00", decimalAmount(money.Money{Amount: 100}))
	assert.Equal(t, "0.05", decimalAmount(money.Money{Amount: 5}))
	assert.Equal(t, "12.34", decimalAmount(money.Money{Amount: 1234}))
}
