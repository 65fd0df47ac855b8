package model

// TransferRequest represents request for POST /wallet/transfer
type TransferRequest struct {
	ToAddress string `json:"toAddress"`
	Amount    string `json:"amount"` // SOL, decimal string
}

// TransferResponse represents response for POST /wallet/transfer
type TransferResponse struct {
	Signature string `json:"signature"`
}
