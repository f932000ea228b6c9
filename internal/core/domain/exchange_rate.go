package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Provenance tags for exchange rates.
const (
	SourceManual  = "manual"
	SourceDefault = "default"
)

// ExchangeRate states that 1 unit of From equals Rate units of To at Timestamp.
type ExchangeRate struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Rate      decimal.Decimal `json:"rate"`
	Timestamp time.Time       `json:"timestamp"`
	Source    string          `json:"source"`
}

// Pair identifies a directed currency pair.
type Pair struct {
	From string
	To   string
}

// Pair returns the directed pair of the rate.
func (r ExchangeRate) Pair() Pair {
	return Pair{From: r.From, To: r.To}
}

// ConversionMethod tags how a conversion was resolved.
type ConversionMethod string

const (
	MethodIdentity ConversionMethod = "identity"
	MethodDirect   ConversionMethod = "direct"
	MethodInverse  ConversionMethod = "inverse"
	MethodCross    ConversionMethod = "cross"
	MethodNone     ConversionMethod = "none"
)

// Conversion is the tagged result of converting an amount between currencies.
// When Method is MethodNone, Value is meaningless and Converted reports false.
type Conversion struct {
	Amount decimal.Decimal  `json:"amount"`
	From   string           `json:"from"`
	To     string           `json:"to"`
	Value  decimal.Decimal  `json:"value"`
	Method ConversionMethod `json:"method"`
	Pivot  string           `json:"pivot,omitempty"`
}

// Converted reports whether a rate path was found.
func (c Conversion) Converted() bool {
	return c.Method != MethodNone
}
