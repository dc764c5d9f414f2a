package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Money struct {
	Currency string
	Amount   decimal.Decimal
}

type QuoteLine struct {
	ProductID string
	Name      string
	Quantity  int64
	UnitPrice Money
	LineTotal Money
	Attrs     map[string]string
}

type Quote struct {
	Lines []QuoteLine
	Total Money
}

// Receipt describes a persisted order.
type Receipt struct {
	OrderID   string
	Lines     []QuoteLine
	Total     Money
	CreatedAt time.Time
}
