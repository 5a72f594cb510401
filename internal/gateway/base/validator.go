package base

import (
	"fmt"
	"strings"

	"paybridge/internal/gateway"
)

// AmountValidator validates payment amounts against adapter limits.
type AmountValidator struct {
	minAmount int64
	maxAmount int64
	currency  string
}

// NewAmountValidator creates an amount validator with limits in minor units.
// A maxAmount of 0 means unlimited.
func NewAmountValidator(currency string, minAmount, maxAmount int64) *AmountValidator {
	return &AmountValidator{
		minAmount: minAmount,
		maxAmount: maxAmount,
		currency:  currency,
	}
}

// ValidateAmount validates a minor-unit amount.
func (v *AmountValidator) ValidateAmount(amount int64) error {
	if amount <= 0 {
		return &gateway.Error{
			Code:    gateway.ErrCodeInvalidRequest,
			Message: "amount must be greater than zero",
		}
	}
	if amount < v.minAmount {
		return &gateway.Error{
			Code:    gateway.ErrCodeInvalidRequest,
			Message: fmt.Sprintf("amount must be at least %d %s", v.minAmount, v.currency),
		}
	}
	if v.maxAmount > 0 && amount > v.maxAmount {
		return &gateway.Error{
			Code:    gateway.ErrCodeInvalidRequest,
			Message: fmt.Sprintf("amount must not exceed %d %s", v.maxAmount, v.currency),
		}
	}
	return nil
}

// RequestValidator provides common pre-dispatch request validation.
type RequestValidator struct {
	amountValidator *AmountValidator
}

// NewRequestValidator creates a request validator.
func NewRequestValidator(currency string, minAmount, maxAmount int64) *RequestValidator {
	return &RequestValidator{
		amountValidator: NewAmountValidator(currency, minAmount, maxAmount),
	}
}

// ValidatePayment checks a payment-initiating request: positive amount plus
// a usable payment instrument (raw card, bank account, or token override).
func (v *RequestValidator) ValidatePayment(req *gateway.TransactionRequest) error {
	if err := v.amountValidator.ValidateAmount(req.Money.Amount); err != nil {
		return err
	}
	if req.Card == nil && req.BankAccount == nil && req.Options.Token == "" {
		return &gateway.Error{
			Code:    gateway.ErrCodeInvalidRequest,
			Message: "a payment instrument is required",
		}
	}
	if req.Card != nil {
		if strings.TrimSpace(req.Card.Number) == "" && req.Options.Token == "" {
			return &gateway.Error{
				Code:    gateway.ErrCodeInvalidRequest,
				Message: "card number is required",
			}
		}
		if req.Card.Month < 1 || req.Card.Month > 12 {
			return &gateway.Error{
				Code:    gateway.ErrCodeInvalidRequest,
				Message: fmt.Sprintf("invalid expiry month %d", req.Card.Month),
			}
		}
	}
	return nil
}

// ValidateFollowUp checks a capture/refund/void request referencing a prior
// authorization handle.
func (v *RequestValidator) ValidateFollowUp(req *gateway.TransactionRequest) error {
	if strings.TrimSpace(req.Authorization) == "" {
		return &gateway.Error{
			Code:    gateway.ErrCodeInvalidRequest,
			Message: "an authorization from a prior transaction is required",
		}
	}
	return nil
}
