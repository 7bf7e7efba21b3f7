package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus is the settlement state of a ledger entry.
type EntryStatus string

const (
	StatusToPay        EntryStatus = "A pagar"
	StatusToReceive    EntryStatus = "A receber"
	StatusOverdue      EntryStatus = "Atrasado"
	StatusRenegotiated EntryStatus = "Renegociado"
	StatusPaid         EntryStatus = "Pago"
	StatusReceived     EntryStatus = "Recebido"
)

// StatusesFor returns the status vocabulary for a nature, in workflow order.
func StatusesFor(n Nature) []EntryStatus {
	if n == NatureInflow {
		return []EntryStatus{StatusToReceive, StatusOverdue, StatusRenegotiated, StatusReceived}
	}
	return []EntryStatus{StatusToPay, StatusOverdue, StatusRenegotiated, StatusPaid}
}

// DefaultStatus returns the status a new entry of nature n starts in.
func DefaultStatus(n Nature) EntryStatus {
	if n == NatureInflow {
		return StatusToReceive
	}
	return StatusToPay
}

// SettledStatus returns the status that reconciles an entry of nature n.
func SettledStatus(n Nature) EntryStatus {
	if n == NatureInflow {
		return StatusReceived
	}
	return StatusPaid
}

// ValidFor reports whether s belongs to the vocabulary of nature n.
func (s EntryStatus) ValidFor(n Nature) bool {
	for _, v := range StatusesFor(n) {
		if v == s {
			return true
		}
	}
	return false
}

// Settles reports whether s marks an entry of nature n as reconciled:
// Recebido for inflows, Pago for outflows.
func (s EntryStatus) Settles(n Nature) bool {
	if n == NatureInflow {
		return s == StatusReceived
	}
	return s == StatusPaid
}

// Open reports whether s is a scheduled, not yet settled status.
func (s EntryStatus) Open() bool {
	return s == StatusToPay || s == StatusToReceive
}

// Entry is a single row in a month's entries.csv.
type Entry struct {
	ID             string // "YYYY-MM-NNN"
	CompetenceDate time.Time
	PaymentDate    time.Time // zero when unknown
	Amount         decimal.Decimal
	Status         EntryStatus
	AccountCode    string
	CostCenter     string
	Unit           string
	Project        string
	Notes          string
}
