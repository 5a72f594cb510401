package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentDig(t *testing.T) {
	doc := Document{
		"credit": map[string]any{
			"reason_message": "transaction approved",
		},
		"payment_id": "pay-123",
	}

	assert.Equal(t, "transaction approved", doc.Dig("credit", "reason_message"))
	assert.Equal(t, "pay-123", doc.Dig("payment_id"))
	assert.Nil(t, doc.Dig("missing"))
	assert.Nil(t, doc.Dig("payment_id", "deeper"))
	assert.Nil(t, doc.Dig("credit", "missing"))
}

func TestDocumentString(t *testing.T) {
	doc := Document{
		"name":   "value",
		"id":     float64(170063),
		"rate":   float64(1.5),
		"object": map[string]any{},
	}

	assert.Equal(t, "value", doc.String("name"))
	assert.Equal(t, "170063", doc.String("id"))
	assert.Equal(t, "1.5", doc.String("rate"))
	assert.Equal(t, "", doc.String("object"))
	assert.Equal(t, "", doc.String("missing"))
}

func TestDocumentDescriptions(t *testing.T) {
	t.Run("single object", func(t *testing.T) {
		doc := Document{"details": map[string]any{"description": "Not authorized"}}
		assert.Equal(t, []string{"Not authorized"}, doc.Descriptions("details"))
	})

	t.Run("one element array", func(t *testing.T) {
		doc := Document{"details": []any{
			map[string]any{"description": "Invalid card number"},
		}}
		assert.Equal(t, []string{"Invalid card number"}, doc.Descriptions("details"))
	})

	t.Run("multiple entries", func(t *testing.T) {
		doc := Document{"details": []any{
			map[string]any{"description": "first"},
			map[string]any{"description": "second"},
		}}
		assert.Len(t, doc.Descriptions("details"), 2)
	})

	t.Run("empty descriptions are skipped", func(t *testing.T) {
		doc := Document{"details": []any{
			map[string]any{"description": ""},
			map[string]any{"status": "DENIED"},
		}}
		assert.Empty(t, doc.Descriptions("details"))
	})

	t.Run("missing or scalar field", func(t *testing.T) {
		assert.Empty(t, Document{}.Descriptions("details"))
		assert.Empty(t, Document{"details": "oops"}.Descriptions("details"))
	})
}

func TestCreditCardNameSplit(t *testing.T) {
	cc := &CreditCard{Name: "Maria da Silva"}
	assert.Equal(t, "Maria", cc.FirstName())
	assert.Equal(t, "da Silva", cc.LastName())

	single := &CreditCard{Name: "Cher"}
	assert.Equal(t, "Cher", single.FirstName())
	assert.Equal(t, "", single.LastName())
}
