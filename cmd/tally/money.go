package main

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// formatAmount renders amount in the smallest unit of currency. Unknown
// currency codes fall back to the plain decimal string.
func formatAmount(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2)
	}
	factor, _ := decimal.NewFromInt(10).PowInt32(int32(cur.Fraction))
	return money.New(amount.Mul(factor).Round(0).IntPart(), cur.Code).Display()
}
