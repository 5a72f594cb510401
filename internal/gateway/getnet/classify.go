package getnet

import "paybridge/internal/gateway"

// policy is the per-action success/message/authorization extraction triple.
type policy struct {
	successStatus string
	message       func(doc gateway.Document) string
	authorization func(doc gateway.Document) string
}

var policies = map[action]policy{
	actionCreditPayment: {"APPROVED", nestedMessage("credit", "reason_message"), field("payment_id")},
	actionDebitPayment:  {"APPROVED", nestedMessage("debit", "reason_message"), field("payment_id")},
	actionAuthorize:     {"AUTHORIZED", nestedMessage("credit", "reason_message"), field("payment_id")},
	actionCapture:       {"CONFIRMED", nestedMessage("credit_confirm", "message"), field("payment_id")},
	actionVoid:          {"CANCELED", nestedMessage("credit_cancel", "message"), nil},
	actionRefund:        {"ACCEPTED", fixedMessage("Success"), field("cancel_request_id")},
	actionVerify:        {"VERIFIED", fixedMessage("Success"), field("authorization_code")},
}

// policyKey folds the authenticated (3-D-Secure) endpoint variants onto the
// policies of their plain counterparts; only the endpoints differ.
func (a action) policyKey() action {
	switch a {
	case actionAuthenticatedPayment:
		return actionCreditPayment
	case actionAuthenticatedCapture:
		return actionCapture
	case actionAuthenticatedVoid:
		return actionVoid
	}
	return a
}

// classify turns a parsed response into a TransactionResult for the given
// action. Actions without a policy always classify as failures.
func classify(a action, doc gateway.Document) *gateway.TransactionResult {
	res := &gateway.TransactionResult{Raw: doc}

	p, ok := policies[a.policyKey()]
	if !ok {
		res.Message = failureMessage(doc)
		return res
	}

	res.Success = doc.String("status") == p.successStatus
	if !res.Success {
		res.Message = failureMessage(doc)
		return res
	}

	res.Message = p.message(doc)
	if p.authorization != nil {
		res.Authorization = p.authorization(doc)
	}
	return res
}

// failureMessage extracts a display message from an error body. The details
// field arrives as either an object or a one-element array of objects; any
// other shape degrades to a fixed literal.
func failureMessage(doc gateway.Document) string {
	if msgs := doc.Descriptions("details"); len(msgs) == 1 {
		return msgs[0]
	}
	return "Failed"
}

// nestedMessage reads the action's nested message field, falling back to the
// top-level reason_message carried by authenticated-payment responses.
func nestedMessage(keys ...string) func(gateway.Document) string {
	return func(doc gateway.Document) string {
		if m := doc.String(keys...); m != "" {
			return m
		}
		return doc.String("reason_message")
	}
}

func fixedMessage(msg string) func(gateway.Document) string {
	return func(gateway.Document) string { return msg }
}

func field(key string) func(gateway.Document) string {
	return func(doc gateway.Document) string { return doc.String(key) }
}
