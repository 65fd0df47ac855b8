package model

import "fmt"

// HandshakeType distinguishes connect and sign sessions
type HandshakeType string

const (
	HandshakeConnect HandshakeType = "connect"
	HandshakeSign    HandshakeType = "sign"
)

// HandshakeState is the state of a handshake state machine
type HandshakeState string

const (
	StateInit               HandshakeState = "init"
	StateAwaitingPayload    HandshakeState = "awaitingPayload"
	StateAwaitingUserChoice HandshakeState = "awaitingUserChoice"
	StateApproved           HandshakeState = "approved"
	StateSigned             HandshakeState = "signed"
	StateCancelled          HandshakeState = "cancelled"
	StateFailed             HandshakeState = "failed"
)

// Terminal reports whether no further transition is possible.
func (s HandshakeState) Terminal() bool {
	switch s {
	case StateApproved, StateSigned, StateCancelled, StateFailed:
		return true
	}
	return false
}

// PayloadKind tells the signer how a pending payload is framed
type PayloadKind string

const (
	PayloadMessage     PayloadKind = "message"
	PayloadTransaction PayloadKind = "transaction"
)

// ParsePayloadKind validates a kind tag
func ParsePayloadKind(s string) (PayloadKind, error) {
	switch PayloadKind(s) {
	case PayloadMessage, PayloadTransaction:
		return PayloadKind(s), nil
	}
	return "", fmt.Errorf("payload kind must be %q or %q", PayloadMessage, PayloadTransaction)
}

// PendingPayload is an unsigned transaction or message waiting for approval.
// Also the shape of the shared store record under "pendingPayload".
type PendingPayload struct {
	Kind PayloadKind `json:"kind"`
	Data Bytes       `json:"data"`
}

// Status is the envelope status sent to the opener
type Status string

const (
	StatusConnected Status = "connected"
	StatusSigned    Status = "signed"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

// Envelope is the one terminal message a handshake posts to its opener.
type Envelope struct {
	Status            Status `json:"status"`
	Address           string `json:"address,omitempty"`
	Signature         string `json:"signature,omitempty"`         // base58
	SignedTransaction string `json:"signedTransaction,omitempty"` // base64
	Reason            Reason `json:"reason,omitempty"`
}

// Connected builds {status:"connected", address}
func Connected(address string) Envelope {
	return Envelope{Status: StatusConnected, Address: address}
}

// Cancelled builds {status:"cancelled"}
func Cancelled() Envelope {
	return Envelope{Status: StatusCancelled}
}

// Failed builds {status:"failed", reason}
func Failed(reason Reason) Envelope {
	return Envelope{Status: StatusFailed, Reason: reason}
}

// Message types an opener may post into a handshake
const (
	MessageSignTransaction = "signTransaction"
	MessageSignMessage     = "signMessage"
)

// OpenerMessage is an inbound message from the opener: {type, data}
type OpenerMessage struct {
	Type string `json:"type"`
	Data Bytes  `json:"data"`
}

// HandshakeView is what the approval popup renders (GET /handshakes/{id})
type HandshakeView struct {
	ID          string             `json:"id"`
	Type        HandshakeType      `json:"type"`
	State       HandshakeState     `json:"state"`
	Dapp        DappRequestContext `json:"dapp"`
	DappName    string             `json:"dappName"`
	Address     string             `json:"address,omitempty"`
	PayloadKind PayloadKind        `json:"payloadKind,omitempty"`
	Payload     string             `json:"payload,omitempty"` // human readable rendering
	Notice      string             `json:"notice,omitempty"`
	Reason      Reason             `json:"reason,omitempty"`
}

// OpenResponse is returned to the opener when a handshake is opened.
// The approval link stays on the wallet side.
type OpenResponse struct {
	ID         string `json:"id"`
	ChannelURL string `json:"channelUrl"`
}
