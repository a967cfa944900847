package service

import (
	"time"

	"github.com/shopspring/decimal"
)

func decimalFromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse(time.DateOnly, raw)
}
