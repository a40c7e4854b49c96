// =============================
// File: internal/tokens/token.go
// =============================
package tokens

import "strings"

// DefaultListURL is the public token list the directory is loaded from.
const DefaultListURL = "https://token.jup.ag/all"

// Extensions holds optional token metadata.
type Extensions struct {
	CoingeckoID string `json:"coingeckoId,omitempty"`
}

// Token is one entry of the token list.
type Token struct {
	Address    string     `json:"address"`
	ChainID    int        `json:"chainId"`
	Decimals   uint8      `json:"decimals"`
	Name       string     `json:"name"`
	Symbol     string     `json:"symbol"`
	LogoURI    string     `json:"logoURI,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
	Extensions Extensions `json:"extensions,omitempty"`
}

// Label returns the symbol, or the shortened address for unnamed tokens.
func (t Token) Label() string {
	if t.Symbol != "" {
		return t.Symbol
	}
	return ShortenAddress(t.Address, 4)
}

// FindByAddress returns the first token whose address matches exactly.
func FindByAddress(list []Token, address string) (Token, bool) {
	for _, t := range list {
		if t.Address == address {
			return t, true
		}
	}
	return Token{}, false
}

// ShortenAddress keeps n characters on each side of the address.
func ShortenAddress(address string, n int) string {
	if n <= 0 || len(address) <= 2*n+3 {
		return address
	}
	return address[:n] + "..." + address[len(address)-n:]
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
