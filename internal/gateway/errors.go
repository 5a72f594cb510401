package gateway

import "errors"

// Error codes for failures that interrupt an operation. Provider-reported
// declines never use these; they surface as unsuccessful TransactionResults.
const (
	ErrCodeAuthFailed         = "auth_failed"
	ErrCodeTransport          = "transport_failed"
	ErrCodeMalformedResponse  = "malformed_response"
	ErrCodeTokenizationFailed = "tokenization_failed"
	ErrCodeInvalidRequest     = "invalid_request"
	ErrCodeActionNotSupported = "action_not_supported"
	ErrCodeGatewayNotFound    = "gateway_not_found"
)

// Error is a fatal gateway error carrying a stable machine code.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// IsAuthError reports whether err is a credential-acquisition failure.
func IsAuthError(err error) bool {
	var ge *Error
	return errors.As(err, &ge) && ge.Code == ErrCodeAuthFailed
}

// ErrorCode extracts the machine code from a gateway error, or "" for
// foreign errors.
func ErrorCode(err error) string {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ""
}
