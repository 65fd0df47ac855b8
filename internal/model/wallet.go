package model

// Wallet is the single keypair record persisted under the "wallet" key.
type Wallet struct {
	Address          string `json:"address"`          // base58 public key
	SecretKeyEncoded string `json:"secretKeyEncoded"` // base58 64-byte ed25519 secret key
}

// SealedRecord represents an encrypted store value (scrypt + AES-GCM)
type SealedRecord struct {
	Version    int    `json:"version"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

// WalletResponse represents response for GET/POST /wallet
type WalletResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Address string `json:"address,omitempty"`
	QR      string `json:"QR,omitempty"` // PNG, base64
}

// SecretResponse represents response for GET /wallet/secret
type SecretResponse struct {
	Address          string `json:"address"`
	SecretKeyEncoded string `json:"secretKeyEncoded"`
}
