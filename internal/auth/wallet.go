package auth

import (
	"crypto/rand"
	"math/big"
)

// Display-address chain styles. The generated strings are cosmetic account
// identifiers in the familiar formats; there is no key material behind them.
type Chain string

const (
	ChainBTC Chain = "BTC"
	ChainETH Chain = "ETH"
	ChainTRX Chain = "TRX"
)

const (
	hexChars      = "abcdef0123456789"
	referralChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateAddress produces a wallet-style display address for the chain:
// bech32-looking for BTC, 0x-hex for ETH (and ERC-20 USDT), T-prefixed for TRX.
func GenerateAddress(chain Chain) string {
	var prefix string
	var length int

	switch chain {
	case ChainBTC:
		prefix, length = "bc1", 39
	case ChainTRX:
		prefix, length = "T", 33
	default:
		prefix, length = "0x", 40
	}

	return prefix + randomString(hexChars, length)
}

// GenerateReferralCode returns "REF" plus five random upper alphanumerics.
func GenerateReferralCode() string {
	return "REF" + randomString(referralChars, 5)
}

func randomString(alphabet string, length int) string {
	out := make([]byte, length)
	max := big.NewInt(int64(len(alphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is broken;
			// fall back to a fixed character rather than panicking.
			out[i] = alphabet[0]
			continue
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out)
}
