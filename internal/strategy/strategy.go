package strategy

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Signal string

const (
	Hold Signal = "HOLD"
	Buy  Signal = "BUY"
	Sell Signal = "SELL"
)

// PricePoint is one daily close. Immutable once retrieved.
type PricePoint struct {
	Date  time.Time
	Close decimal.Decimal
}

// Series is an ordered run of daily closes, oldest first.
type Series []PricePoint

func (s Series) Validate() error {
	if len(s) == 0 {
		return errors.New("empty price series")
	}
	for i := 1; i < len(s); i++ {
		if !s[i].Date.After(s[i-1].Date) {
			return fmt.Errorf("price series not strictly increasing by date at index %d (%s)", i, s[i].Date.Format("2006-01-02"))
		}
	}
	return nil
}

func (s Series) LastClose() decimal.Decimal {
	if len(s) == 0 {
		return decimal.Zero
	}
	return s[len(s)-1].Close
}

// TradeIntent is the single action a run commits to. A Hold action carries
// no order.
type TradeIntent struct {
	Action Signal
	Qty    int
	Reason string
}
