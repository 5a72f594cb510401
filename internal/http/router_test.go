package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"paybridge/internal/config"
	"paybridge/internal/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	result  *gateway.TransactionResult
	err     error
	lastReq *gateway.TransactionRequest
}

func (f *fakeGateway) Name() string { return "Fake" }

func (f *fakeGateway) SupportedActions() []gateway.Action {
	return []gateway.Action{gateway.ActionPurchase, gateway.ActionRefund}
}

func (f *fakeGateway) op(req *gateway.TransactionRequest) (*gateway.TransactionResult, error) {
	f.lastReq = req
	return f.result, f.err
}

func (f *fakeGateway) Purchase(_ context.Context, req *gateway.TransactionRequest) (*gateway.TransactionResult, error) {
	return f.op(req)
}
func (f *fakeGateway) Authorize(_ context.Context, req *gateway.TransactionRequest) (*gateway.TransactionResult, error) {
	return f.op(req)
}
func (f *fakeGateway) Capture(_ context.Context, req *gateway.TransactionRequest) (*gateway.TransactionResult, error) {
	return f.op(req)
}
func (f *fakeGateway) Refund(_ context.Context, req *gateway.TransactionRequest) (*gateway.TransactionResult, error) {
	return f.op(req)
}
func (f *fakeGateway) Void(_ context.Context, req *gateway.TransactionRequest) (*gateway.TransactionResult, error) {
	return f.op(req)
}
func (f *fakeGateway) Verify(_ context.Context, req *gateway.TransactionRequest) (*gateway.TransactionResult, error) {
	return f.op(req)
}

func newTestRouter(fake *fakeGateway) http.Handler {
	reg := gateway.NewRegistry()
	reg.Register(gateway.TypeGetnet, fake)

	return NewRouter(RouterDependencies{
		Config:   config.Cfg{Sec: config.SecurityCfg{APIToken: "test-token"}},
		Registry: reg,
	})
}

func authedPost(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer test-token")
	return req
}

func TestHealthIsPublic(t *testing.T) {
	r := newTestRouter(&fakeGateway{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestTransactRequiresToken(t *testing.T) {
	r := newTestRouter(&fakeGateway{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/getnet/purchase", strings.NewReader("{}")))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	bad := httptest.NewRequest(http.MethodPost, "/api/v1/getnet/purchase", strings.NewReader("{}"))
	bad.Header.Set("Authorization", "Bearer wrong-token")
	r.ServeHTTP(rec, bad)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTransactSuccess(t *testing.T) {
	fake := &fakeGateway{result: &gateway.TransactionResult{
		Success:       true,
		Message:       "transaction approved",
		Authorization: "pay-1",
	}}
	r := newTestRouter(fake)

	body := `{
		"amount": 1000,
		"currency": "BRL",
		"card": {"number":"4242424242424242","month":9,"year":2027,"name":"Maria da Silva"},
		"options": {"orderId":"order-1","debit":true}
	}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedPost("/api/v1/getnet/purchase", body))

	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "pay-1", out["authorization"])

	require.NotNil(t, fake.lastReq)
	assert.Equal(t, int64(1000), fake.lastReq.Money.Amount)
	assert.Equal(t, "BRL", fake.lastReq.Money.Currency)
	assert.Equal(t, "4242424242424242", fake.lastReq.Card.Number)
	assert.Equal(t, "order-1", fake.lastReq.Options.OrderID)
	assert.True(t, fake.lastReq.Options.Debit)
}

func TestTransactDeclineIsStill200(t *testing.T) {
	fake := &fakeGateway{result: &gateway.TransactionResult{
		Success: false,
		Message: "Not authorized",
	}}
	r := newTestRouter(fake)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedPost("/api/v1/getnet/purchase", `{"amount":1000}`))

	require.Equal(t, http.StatusOK, rec.Code)
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "Not authorized", out["message"])
}

func TestTransactErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{"invalid request", gateway.ErrCodeInvalidRequest, http.StatusBadRequest},
		{"auth failed", gateway.ErrCodeAuthFailed, http.StatusBadGateway},
		{"transport", gateway.ErrCodeTransport, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeGateway{err: &gateway.Error{Code: tt.code, Message: tt.name}}
			r := newTestRouter(fake)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, authedPost("/api/v1/getnet/purchase", `{"amount":1000}`))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestTransactUnknownAction(t *testing.T) {
	r := newTestRouter(&fakeGateway{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedPost("/api/v1/getnet/teleport", `{}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTransactUnknownGateway(t *testing.T) {
	r := newTestRouter(&fakeGateway{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedPost("/api/v1/braintree/purchase", `{}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTransactUnsupportedAction(t *testing.T) {
	r := newTestRouter(&fakeGateway{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedPost("/api/v1/getnet/void", `{}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTransactBadJSON(t *testing.T) {
	r := newTestRouter(&fakeGateway{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedPost("/api/v1/getnet/purchase", `{not json`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
