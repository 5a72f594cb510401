package getnet

import (
	"testing"

	"paybridge/internal/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLResolution(t *testing.T) {
	sandbox := New("u", "p", "s", gateway.EnvironmentSandbox)
	production := New("u", "p", "s", gateway.EnvironmentProduction)

	u, err := sandbox.url(actionCreditPayment, "")
	require.NoError(t, err)
	assert.Equal(t, "https://api-sandbox.getnet.com.br/v1/payments/credit", u)

	u, err = production.url(actionOAuth, "")
	require.NoError(t, err)
	assert.Equal(t, "https://api.getnet.com.br/auth/oauth/v2/token", u)
}

func TestURLEmbedsPaymentID(t *testing.T) {
	g := New("u", "p", "s", gateway.EnvironmentSandbox)

	u, err := g.url(actionCapture, "pay-123")
	require.NoError(t, err)
	assert.Equal(t, "https://api-sandbox.getnet.com.br/v1/payments/credit/pay-123/confirm", u)

	u, err = g.url(actionAuthenticatedVoid, "pay-456")
	require.NoError(t, err)
	assert.Equal(t, "https://api-sandbox.getnet.com.br/v1/payments/authenticated/pay-456/cancel", u)
}

func TestURLEscapesPaymentID(t *testing.T) {
	g := New("u", "p", "s", gateway.EnvironmentSandbox)

	u, err := g.url(actionVoid, "pay/../../etc")
	require.NoError(t, err)
	assert.NotContains(t, u, "/../")
}

func TestURLMissingPaymentID(t *testing.T) {
	g := New("u", "p", "s", gateway.EnvironmentSandbox)

	_, err := g.url(actionCapture, "")
	assert.Equal(t, gateway.ErrCodeInvalidRequest, gateway.ErrorCode(err))
}

func TestURLUnknownAction(t *testing.T) {
	g := New("u", "p", "s", gateway.EnvironmentSandbox)

	_, err := g.url(action("settle"), "")
	assert.Equal(t, gateway.ErrCodeActionNotSupported, gateway.ErrorCode(err))
}
