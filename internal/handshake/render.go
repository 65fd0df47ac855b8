package handshake

import (
	"encoding/hex"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/AlexZinkM/wallet-connect/internal/model"
	"github.com/AlexZinkM/wallet-connect/internal/signer"

	"github.com/gagliardetto/solana-go/text"
)

func init() {
	// approval views and logs are plain text
	text.DisableColors = true
}

// Render returns a best-effort human readable form of p. Transactions are
// shown as an instruction tree, printable messages as text, anything else as hex.
func Render(p *model.PendingPayload) string {
	if p == nil {
		return ""
	}
	switch p.Kind {
	case model.PayloadTransaction:
		if out, ok := renderTransaction(p.Data); ok {
			return out
		}
	case model.PayloadMessage:
		if isPrintable(p.Data) {
			return string(p.Data)
		}
	}
	return hex.EncodeToString(p.Data)
}

func renderTransaction(data []byte) (out string, ok bool) {
	defer func() {
		// tree encoding of unknown programs can panic
		if recover() != nil {
			out, ok = "", false
		}
	}()

	tx, err := signer.DecodeTransaction(data)
	if err != nil {
		return "", false
	}
	out = strings.TrimSpace(tx.String())
	return out, out != ""
}

func isPrintable(data []byte) bool {
	if !utf8.Valid(data) {
		return false
	}
	for _, r := range string(data) {
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
