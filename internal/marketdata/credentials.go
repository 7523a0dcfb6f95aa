package marketdata

import "strings"

// Credentials is the bag of optional API keys for the external sources.
// Blank fields simply exclude that source's adapters from the fallback
// chains; nothing here is required.
type Credentials struct {
	AlpacaKey     string
	AlpacaSecret  string
	FinnhubKey    string
	FMPKey        string
	TwelveDataKey string
}

// HasAlpaca reports whether the Alpaca key pair is complete. Alpaca
// requires both halves; a lone key or secret is treated as absent.
func (c Credentials) HasAlpaca() bool {
	return notBlank(c.AlpacaKey) && notBlank(c.AlpacaSecret)
}

// HasFinnhub reports whether a Finnhub key is configured.
func (c Credentials) HasFinnhub() bool {
	return notBlank(c.FinnhubKey)
}

// HasFMP reports whether a Financial Modeling Prep key is configured.
func (c Credentials) HasFMP() bool {
	return notBlank(c.FMPKey)
}

// HasTwelveData reports whether a Twelve Data key is configured.
func (c Credentials) HasTwelveData() bool {
	return notBlank(c.TwelveDataKey)
}

// HasAny reports whether at least one source is fully credentialed.
func (c Credentials) HasAny() bool {
	return c.HasAlpaca() || c.HasFinnhub() || c.HasFMP() || c.HasTwelveData()
}

func notBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}
