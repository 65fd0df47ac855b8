package model

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Reason identifies a failure on the wire and in ErrorResponse.Code.
type Reason string

const (
	ReasonNoWallet          Reason = "NoWallet"
	ReasonNoOpener          Reason = "NoOpener"
	ReasonKeyDecode         Reason = "KeyDecodeError"
	ReasonInvalidPayload    Reason = "InvalidPayloadError"
	ReasonTransactionDecode Reason = "TransactionDecodeError"
	ReasonNoPayload         Reason = "NoPayload"
	ReasonSignerMismatch    Reason = "SignerMismatch"
	ReasonInsufficientFunds Reason = "InsufficientFunds"
	ReasonNetwork           Reason = "NetworkError"
	ReasonInvalidAmount     Reason = "InvalidAmount"
	ReasonInvalidAddress    Reason = "InvalidAddress"
	ReasonCooldownActive    Reason = "CooldownActive"
	ReasonInternal          Reason = "InternalError"
)

// Codes that only appear in ErrorResponse
const (
	CodeInvalidRequest       Reason = "InvalidRequest"
	CodeSecretExportDisabled Reason = "SecretExportDisabled"
	CodeHandshakeNotFound    Reason = "HandshakeNotFound"
	CodeHandshakeClosed      Reason = "HandshakeClosed"
	CodeNotReady             Reason = "NotReady"
	CodeOriginNotAllowed     Reason = "OriginNotAllowed"
	CodeApprovalDenied       Reason = "ApprovalDenied"
	CodeUnsupportedMediaType Reason = "UnsupportedMediaType"
)
