package gateway

import (
	"paybridge/internal/money"
)

// Environment selects which of a processor's two fixed base URLs an adapter
// talks to. It is set at construction and never changes mid-operation.
type Environment string

const (
	EnvironmentSandbox    Environment = "sandbox"
	EnvironmentProduction Environment = "production"
)

// CreditCard is a raw card payment instrument.
type CreditCard struct {
	Number            string
	Month             int
	Year              int
	VerificationValue string
	Name              string
	Brand             string // lowercase scheme name, e.g. "mastercard"
}

// FirstName returns the holder's first name, split from Name.
func (c *CreditCard) FirstName() string {
	first, _ := splitName(c.Name)
	return first
}

// LastName returns the holder's last name, or "" for single-word names.
func (c *CreditCard) LastName() string {
	_, last := splitName(c.Name)
	return last
}

func splitName(name string) (string, string) {
	for i := 0; i < len(name); i++ {
		if name[i] == ' ' {
			return name[:i], name[i+1:]
		}
	}
	return name, ""
}

// BankAccount is an ACH payment instrument.
type BankAccount struct {
	AccountNumber string
	RoutingNumber string
	HolderName    string
}

// Address carries billing address fields. Street and HouseNumberOrName take
// precedence; when absent, adapters that need them derive both from
// Address1/Address2.
type Address struct {
	Street            string
	HouseNumberOrName string
	Address1          string
	Address2          string
	Complement        string
	City              string
	State             string
	Country           string
	PostalCode        string
	Phone             string
}

// ThreeDSecure carries cardholder-authentication values collected outside
// this library. When present, payment payloads switch to the authenticated
// shape.
type ThreeDSecure struct {
	XID             string
	UCAF            string
	ECI             string
	DSTransactionID string
	Version         string
	// PaymentMethod overrides the derived CREDIT/DEBIT method, e.g.
	// CREDIT_PRE_AUTHORIZATION for capturing an authenticated payment.
	PaymentMethod string
}

// Options enumerates every recognized per-transaction option. Unset fields
// are omitted from payloads, never sent as null or empty.
type Options struct {
	OrderID          string
	CustomerID       string
	UserTokenID      string
	TransactionID    string
	SellerID         string
	DeviceID         string
	IPAddress        string
	Email            string
	Description      string
	ProductType      string
	DynamicMCC       string
	Token            string // pre-tokenized card number; skips tokenization
	Debit            bool
	PreAuthorization bool
	ThreeDSecure     *ThreeDSecure
}

// TransactionRequest is the normalized input to any operation. It must be
// treated as immutable once handed to a gateway.
type TransactionRequest struct {
	Money money.Money

	// Exactly one payment instrument, or a prior handle for follow-ups.
	Card          *CreditCard
	BankAccount   *BankAccount
	Authorization string

	Address *Address
	Options Options
}

// TransactionResult is the normalized outcome of an operation. Authorization,
// when set, is sufficient on its own to drive a follow-up capture, refund,
// or void.
type TransactionResult struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message"`
	Authorization string   `json:"authorization,omitempty"`
	Raw           Document `json:"raw_response,omitempty"`
}
