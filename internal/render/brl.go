// Package render formats engine reports for people and programs: BRL
// amounts, a terminal layout, Markdown, HTML and JSON.
package render

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BRL formats d as Brazilian reais: "R$ 1.234,56". Negative amounts are
// wrapped in parentheses: "(R$ 1.234,56)". Amounts are rounded to cents.
func BRL(d decimal.Decimal) string {
	cents := d.Mul(hundred).Round(0)
	s := money.New(cents.Abs().IntPart(), money.BRL).Display()
	s = strings.Replace(s, "R$", "R$ ", 1)
	if cents.IsNegative() {
		return "(" + s + ")"
	}
	return s
}

// Signed formats the display value of a tree node: outflows are shown
// negated so they read as money leaving the till.
func Signed(d decimal.Decimal, outflow bool) string {
	if outflow {
		return BRL(d.Neg())
	}
	return BRL(d)
}
