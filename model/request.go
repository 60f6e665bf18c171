// file: model/request.go

package model

import "github.com/shopspring/decimal"

// OpenAccountRequest defines the fields for creating a new account.
// The tags mirror the ledger's field validators so payloads can also be
// checked wholesale at the entry point.
type OpenAccountRequest struct {
	Name           string          `json:"name" validate:"required"`
	DateOfBirth    string          `json:"dob" validate:"required"`
	City           string          `json:"city" validate:"required"`
	Address        string          `json:"address" validate:"required"`
	ContactNumber  string          `json:"contact_number" validate:"required,contact"`
	Email          string          `json:"email" validate:"required,ledgeremail"`
	Password       string          `json:"password" validate:"required,strongpassword"`
	InitialBalance decimal.Decimal `json:"initial_balance" validate:"required"`
}

// LoginRequest defines the credentials for opening a session.
type LoginRequest struct {
	AccountNumber string `json:"account_number" validate:"required,len=10"`
	Password      string `json:"password" validate:"required"`
}

// TransferRequest defines a transfer out of the authenticated account.
type TransferRequest struct {
	ToAccountNumber string          `json:"to_account_number" validate:"required,len=10"`
	Amount          decimal.Decimal `json:"amount" validate:"required"`
}
