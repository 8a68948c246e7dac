// Package payroll turns worked time into money owed and renders both for people.
package payroll

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var hour = decimal.NewFromInt(int64(time.Hour))

var printer = message.NewPrinter(language.English)

// Hours converts a duration to fractional hours.
func Hours(d time.Duration) float64 {
	return d.Hours()
}

// Amount returns hours worked times rate, rounded to cents.
func Amount(d time.Duration, rate float64) decimal.Decimal {
	hours := decimal.NewFromInt(int64(d)).Div(hour)
	return hours.Mul(decimal.NewFromFloat(rate)).Round(2)
}

// Money renders an amount as dollars with grouped thousands, e.g. "$1,234.50".
// Cents are rounded half away from zero on the decimal value itself.
func Money(amount decimal.Decimal) string {
	digits := amount.StringFixed(2)
	sign := ""
	if rest, ok := strings.CutPrefix(digits, "-"); ok {
		sign, digits = "-", rest
	}
	whole, cents, _ := strings.Cut(digits, ".")
	return sign + "$" + groupThousands(whole) + "." + cents
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatHours renders fractional hours to two places, e.g. "1.50 hours".
func FormatHours(hours float64) string {
	return printer.Sprintf("%.2f hours", hours)
}

// FormatRate renders an hourly rate, e.g. "$20.00/hour".
func FormatRate(rate float64) string {
	return printer.Sprintf("$%.2f/hour", rate)
}

// FormatDuration renders a duration as H:MM:SS.
func FormatDuration(d time.Duration) string {
	neg := d < 0
	if neg {
		d = -d
	}
	d = d.Round(time.Second)
	h := int64(d / time.Hour)
	m := int64(d%time.Hour) / int64(time.Minute)
	s := int64(d%time.Minute) / int64(time.Second)

	out := fmt.Sprintf("%d:%02d:%02d", h, m, s)
	if neg {
		out = "-" + out
	}
	return out
}
