package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	m := Money{Amount: 125, Currency: "USD"}
	assert.Equal(t, "125", m.AmountString())
	assert.Equal(t, "USD", m.CurrencyOr("BRL"))
	assert.Equal(t, "1.25 USD", m.Format())

	empty := Money{Amount: 100}
	assert.Equal(t, "BRL", empty.CurrencyOr("BRL"))
}

func TestCountryNumericCode(t *testing.T) {
	for in, want := range map[string]string{
		"US":          "840",
		"us":          "840",
		"El Salvador": "222",
		"br":          "076",
		" mexico ":    "484",
	} {
		code, ok := CountryNumericCode(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, code, in)
	}

	_, ok := CountryNumericCode("atlantis")
	assert.False(t, ok)
}
