package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a balance movement.
type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

// Transaction is one immutable entry in the append-only transaction log.
// AccountNumber references the account it belongs to; many transactions
// reference one account. CreatedAt is assigned by the store at insert time.
type Transaction struct {
	ID            int             `json:"id"`
	AccountNumber string          `json:"account_number"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     time.Time       `json:"date"`
}
