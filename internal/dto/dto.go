// Package dto holds the JSON request and response shapes of the /api surface.
package dto

import "github.com/shopspring/decimal"

func init() {
	// Browser modules call toFixed on money fields, so decimals go out as numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Fecha is the timestamp layout used in every response.
const Fecha = "2006-01-02 15:04:05"
