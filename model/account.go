package model

import "github.com/shopspring/decimal"

// Account is a ledger account. AccountNumber is the public identifier: a
// unique 10-digit string, immutable once assigned. PasswordHash holds the
// bcrypt hash of the credential and must never appear in output or logs.
type Account struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	AccountNumber string          `json:"account_number"`
	DateOfBirth   string          `json:"dob"`
	City          string          `json:"city"`
	Address       string          `json:"address"`
	ContactNumber string          `json:"contact_number"`
	Email         string          `json:"email"`
	PasswordHash  string          `json:"-"`
	Balance       decimal.Decimal `json:"balance"`
	IsActive      bool            `json:"is_active"`
}
