// Package renderer renders portfolio reports as markdown.
package renderer

import (
	"fmt"
	"math"

	"github.com/etnz/cryptofolio"
)

// money formats an amount in the reporting currency.
func money(v float64, currency string) string {
	return cryptofolio.M(v, currency).String()
}

// percent formats a return, an empty string when it is not available.
func percent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return fmt.Sprintf("%+.2f%%", 100*v)
}

// number formats a grouped value, an empty string when absent.
func number(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return fmt.Sprintf("%.2f", v)
}
