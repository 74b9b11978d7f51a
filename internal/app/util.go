package app

import (
	"github.com/mr-tron/base58"
)

const solanaPubkeyLen = 32

// shortID truncates long addresses and mints for readable logging.
func shortID(s string) string {
	if len(s) <= 14 {
		return s
	}
	return s[:6] + "…" + s[len(s)-6:]
}

// isValidAddress reports whether s decodes to a 32-byte Solana pubkey.
func isValidAddress(s string) bool {
	if s == "" {
		return false
	}
	decoded, err := base58.Decode(s)
	if err != nil {
		return false
	}
	return len(decoded) == solanaPubkeyLen
}
