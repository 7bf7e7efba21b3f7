package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotType tells whether a recorded balance opens or closes a period.
type SnapshotType string

const (
	SnapshotOpening SnapshotType = "Inicial"
	SnapshotClosing SnapshotType = "Final"
)

// BalanceSnapshot is a manually recorded cash balance.
type BalanceSnapshot struct {
	ID     int // insertion sequence, higher is more recent
	Date   time.Time
	Type   SnapshotType
	Amount decimal.Decimal
	Note   string
}
