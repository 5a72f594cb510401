package getnet

import (
	"testing"

	"paybridge/internal/gateway"

	"github.com/stretchr/testify/assert"
)

func TestClassifySuccesses(t *testing.T) {
	tests := []struct {
		name    string
		action  action
		doc     gateway.Document
		message string
		handle  string
	}{
		{
			"credit payment approved",
			actionCreditPayment,
			gateway.Document{
				"status":     "APPROVED",
				"payment_id": "pay-1",
				"credit":     map[string]any{"reason_message": "transaction approved"},
			},
			"transaction approved",
			"pay-1",
		},
		{
			"debit payment approved",
			actionDebitPayment,
			gateway.Document{
				"status":     "APPROVED",
				"payment_id": "pay-2",
				"debit":      map[string]any{"reason_message": "transaction approved"},
			},
			"transaction approved",
			"pay-2",
		},
		{
			"authorize",
			actionAuthorize,
			gateway.Document{
				"status":     "AUTHORIZED",
				"payment_id": "pay-3",
				"credit":     map[string]any{"reason_message": "transaction approved"},
			},
			"transaction approved",
			"pay-3",
		},
		{
			"capture",
			actionCapture,
			gateway.Document{
				"status":         "CONFIRMED",
				"payment_id":     "pay-4",
				"credit_confirm": map[string]any{"message": "confirmed"},
			},
			"confirmed",
			"pay-4",
		},
		{
			"void",
			actionVoid,
			gateway.Document{
				"status":        "CANCELED",
				"credit_cancel": map[string]any{"message": "canceled"},
			},
			"canceled",
			"",
		},
		{
			"refund accepted",
			actionRefund,
			gateway.Document{
				"status":            "ACCEPTED",
				"cancel_request_id": "cr-1",
			},
			"Success",
			"cr-1",
		},
		{
			"card verification",
			actionVerify,
			gateway.Document{
				"status":             "VERIFIED",
				"authorization_code": "auth-1",
			},
			"Success",
			"auth-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := classify(tt.action, tt.doc)
			assert.True(t, res.Success)
			assert.Equal(t, tt.message, res.Message)
			assert.Equal(t, tt.handle, res.Authorization)
		})
	}
}

func TestClassifyStatusMismatchFails(t *testing.T) {
	// An AUTHORIZED status only succeeds for the authorize action.
	doc := gateway.Document{"status": "AUTHORIZED", "payment_id": "pay-1"}

	assert.True(t, classify(actionAuthorize, doc).Success)
	assert.False(t, classify(actionCreditPayment, doc).Success)
	assert.False(t, classify(actionCapture, doc).Success)
}

func TestClassifyAuthenticatedVariants(t *testing.T) {
	doc := gateway.Document{
		"status":         "APPROVED",
		"payment_id":     "pay-3ds",
		"reason_message": "authenticated transaction approved",
	}

	res := classify(actionAuthenticatedPayment, doc)
	assert.True(t, res.Success)
	assert.Equal(t, "authenticated transaction approved", res.Message)
	assert.Equal(t, "pay-3ds", res.Authorization)

	capDoc := gateway.Document{
		"status":         "CONFIRMED",
		"payment_id":     "pay-3ds",
		"reason_message": "confirmed",
	}
	capRes := classify(actionAuthenticatedCapture, capDoc)
	assert.True(t, capRes.Success)
	assert.Equal(t, "confirmed", capRes.Message, "falls back to top-level reason_message")
}

func TestClassifyFailureMessages(t *testing.T) {
	t.Run("single detail object", func(t *testing.T) {
		doc := gateway.Document{
			"status":  "DENIED",
			"details": map[string]any{"description": "Not authorized"},
		}
		res := classify(actionCreditPayment, doc)
		assert.False(t, res.Success)
		assert.Equal(t, "Not authorized", res.Message)
		assert.Empty(t, res.Authorization, "declines never carry a handle")
	})

	t.Run("one element detail array", func(t *testing.T) {
		doc := gateway.Document{
			"details": []any{map[string]any{"description": "Invalid card"}},
		}
		assert.Equal(t, "Invalid card", classify(actionVoid, doc).Message)
	})

	t.Run("multiple details degrade to fixed message", func(t *testing.T) {
		doc := gateway.Document{
			"details": []any{
				map[string]any{"description": "first"},
				map[string]any{"description": "second"},
			},
		}
		assert.Equal(t, "Failed", classify(actionCreditPayment, doc).Message)
	})

	t.Run("no details", func(t *testing.T) {
		assert.Equal(t, "Failed", classify(actionCreditPayment, gateway.Document{}).Message)
	})

	t.Run("unknown action", func(t *testing.T) {
		doc := gateway.Document{"status": "APPROVED"}
		res := classify(actionOAuth, doc)
		assert.False(t, res.Success)
	})
}
