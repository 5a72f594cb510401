package nuvei

import "paybridge/internal/gateway"

// classify applies the per-action success conditions. Money-moving actions
// require both the API-level status and the transaction status to pass;
// opening an order only needs the former.
func classify(a string, doc gateway.Document) *gateway.TransactionResult {
	res := &gateway.TransactionResult{Raw: doc}

	switch a {
	case actionOpenOrder:
		res.Success = doc.String("status") == "SUCCESS"
	case actionPayment, actionRefund:
		res.Success = doc.String("status") == "SUCCESS" &&
			doc.String("transactionStatus") == "APPROVED"
	}

	res.Message = messageFrom(res.Success, doc)
	if res.Success {
		res.Authorization = authorizationFrom(a, doc)
	}
	return res
}

func messageFrom(success bool, doc gateway.Document) string {
	if success {
		return "Succeeded"
	}
	if reason := doc.String("reason"); reason != "" {
		return reason
	}
	if reason := doc.String("gwErrorReason"); reason != "" {
		return reason
	}
	return "Failed"
}

// authorizationFrom extracts the follow-up handle. Payments append the
// userPaymentOptionId when one exists; it is required for charging the same
// account again later. Orders without a transaction id fall back to the
// internal request id.
func authorizationFrom(a string, doc gateway.Document) string {
	transactionID := doc.String("transactionId")

	if a == actionPayment {
		if upoID := doc.String("paymentOption", "userPaymentOptionId"); upoID != "" {
			return transactionID + "|" + upoID
		}
		return transactionID
	}
	if transactionID != "" {
		return transactionID
	}
	return doc.String("internalRequestId")
}
