// Package menu is the console surface driving the ledger. It holds no
// business rules: every operation goes through the LedgerService and every
// failure is mapped from the ledger's error taxonomy to a user message.
package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"bank-ledger/common"
	"bank-ledger/model"
	"bank-ledger/service"

	"github.com/shopspring/decimal"
)

type SessionMenu struct {
	ledger *service.LedgerService
	in     *bufio.Scanner
	out    io.Writer
}

func New(ledger *service.LedgerService, in io.Reader, out io.Writer) *SessionMenu {
	return &SessionMenu{
		ledger: ledger,
		in:     bufio.NewScanner(in),
		out:    out,
	}
}

// Run drives the top-level menu until the operator exits, input ends or
// the context is cancelled.
func (m *SessionMenu) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Fprintln(m.out, "\n1. Open Account\n2. Show Accounts\n3. Login\n4. Exit")
		choice, ok := m.prompt("Enter your choice: ")
		if !ok {
			return
		}

		switch choice {
		case "1":
			m.openAccount(ctx)
		case "2":
			m.showAccounts(ctx)
		case "3":
			m.login(ctx)
		case "4":
			fmt.Fprintln(m.out, "Exiting application...")
			return
		default:
			fmt.Fprintln(m.out, "Invalid choice! Please try again.")
		}
	}
}

func (m *SessionMenu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *SessionMenu) promptAmount(label string) (decimal.Decimal, bool) {
	raw, ok := m.prompt(label)
	if !ok {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		fmt.Fprintln(m.out, "Invalid amount! Please enter a number.")
		return decimal.Zero, false
	}
	return amount, true
}

func (m *SessionMenu) openAccount(ctx context.Context) {
	var req model.OpenAccountRequest
	var ok bool

	if req.Name, ok = m.prompt("Enter Name: "); !ok {
		return
	}
	if req.DateOfBirth, ok = m.prompt("Enter Date of Birth (YYYY-MM-DD): "); !ok {
		return
	}
	if req.City, ok = m.prompt("Enter City: "); !ok {
		return
	}
	if req.Address, ok = m.prompt("Enter Address: "); !ok {
		return
	}
	if req.ContactNumber, ok = m.prompt("Enter Contact Number: "); !ok {
		return
	}
	if req.Email, ok = m.prompt("Enter Email ID: "); !ok {
		return
	}
	if req.Password, ok = m.prompt("Create Password: "); !ok {
		return
	}
	if req.InitialBalance, ok = m.promptAmount("Enter Initial Balance (Minimum 2000): "); !ok {
		return
	}

	account, err := m.ledger.OpenAccount(ctx, req)
	if err != nil {
		fmt.Fprintln(m.out, err)
		return
	}

	fmt.Fprintf(m.out, "Account created successfully!\n\nYour Details:\nName: %s\nAccount Number: %s\nDOB: %s\nCity: %s\nContact: %s\nEmail: %s\nAddress: %s\nBalance: %s\n",
		account.Name, account.AccountNumber, account.DateOfBirth, account.City,
		account.ContactNumber, account.Email, account.Address, account.Balance)
}

func (m *SessionMenu) showAccounts(ctx context.Context) {
	filter, ok := m.prompt("Enter Account Number to view details (leave blank to view all accounts): ")
	if !ok {
		return
	}

	accounts, err := m.ledger.Directory(ctx, filter)
	if err != nil {
		fmt.Fprintln(m.out, err)
		return
	}
	if len(accounts) == 0 {
		fmt.Fprintln(m.out, "No accounts found.")
		return
	}

	for _, account := range accounts {
		status := "Active"
		if !account.IsActive {
			status = "Inactive"
		}
		fmt.Fprintf(m.out, "\nName: %s\nAccount Number: %s\nDOB: %s\nCity: %s\nBalance: %s\nContact: %s\nEmail: %s\nAddress: %s\nStatus: %s\n",
			account.Name, account.AccountNumber, account.DateOfBirth, account.City,
			account.Balance, account.ContactNumber, account.Email, account.Address, status)
	}
}

func (m *SessionMenu) login(ctx context.Context) {
	var req model.LoginRequest
	var ok bool

	if req.AccountNumber, ok = m.prompt("Enter Account Number: "); !ok {
		return
	}
	if req.Password, ok = m.prompt("Enter Password: "); !ok {
		return
	}
	if err := common.ValidateStruct(req); err != nil {
		fmt.Fprintln(m.out, common.ErrAuthenticationFailed)
		return
	}

	token, account, err := m.ledger.Login(ctx, req.AccountNumber, req.Password)
	if err != nil {
		fmt.Fprintln(m.out, err)
		return
	}

	fmt.Fprintf(m.out, "Welcome %s!\n", account.Name)
	m.session(ctx, token)
}

func (m *SessionMenu) session(ctx context.Context, token string) {
	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Fprintln(m.out, "\n1. Show Balance\n2. Credit Amount\n3. Debit Amount\n4. Transfer Amount\n5. Change Password\n6. Transaction History\n7. Logout")
		choice, ok := m.prompt("Enter choice: ")
		if !ok {
			return
		}

		switch choice {
		case "1":
			balance, err := m.ledger.Balance(ctx, token)
			if err != nil {
				fmt.Fprintln(m.out, err)
				continue
			}
			fmt.Fprintf(m.out, "Current Balance: %s\n", balance)

		case "2":
			amount, ok := m.promptAmount("Enter amount to credit: ")
			if !ok {
				continue
			}
			if _, err := m.ledger.Credit(ctx, token, amount); err != nil {
				fmt.Fprintln(m.out, err)
				continue
			}
			fmt.Fprintln(m.out, "Amount credited successfully!")

		case "3":
			amount, ok := m.promptAmount("Enter amount to debit: ")
			if !ok {
				continue
			}
			if _, err := m.ledger.Debit(ctx, token, amount); err != nil {
				fmt.Fprintln(m.out, err)
				continue
			}
			fmt.Fprintln(m.out, "Amount debited successfully!")

		case "4":
			var req model.TransferRequest
			var ok bool
			if req.ToAccountNumber, ok = m.prompt("Enter destination account number: "); !ok {
				continue
			}
			if req.Amount, ok = m.promptAmount("Enter amount to transfer: "); !ok {
				continue
			}
			if err := common.ValidateStruct(req); err != nil {
				fmt.Fprintln(m.out, "Invalid transfer details!")
				continue
			}
			if err := m.ledger.Transfer(ctx, token, req.ToAccountNumber, req.Amount); err != nil {
				fmt.Fprintln(m.out, err)
				continue
			}
			fmt.Fprintln(m.out, "Amount transferred successfully!")

		case "5":
			oldPassword, ok := m.prompt("Enter current password: ")
			if !ok {
				continue
			}
			newPassword, ok := m.prompt("Enter new password: ")
			if !ok {
				continue
			}
			if err := m.ledger.ChangePassword(ctx, token, oldPassword, newPassword); err != nil {
				fmt.Fprintln(m.out, err)
				continue
			}
			fmt.Fprintln(m.out, "Password changed successfully!")

		case "6":
			transactions, err := m.ledger.TransactionHistory(ctx, token)
			if err != nil {
				fmt.Fprintln(m.out, err)
				continue
			}
			if len(transactions) == 0 {
				fmt.Fprintln(m.out, "No transactions yet.")
				continue
			}
			for _, t := range transactions {
				fmt.Fprintf(m.out, "%s  %-6s  %s\n", t.CreatedAt.Format("2006-01-02 15:04:05"), t.Type, t.Amount)
			}

		case "7":
			if err := m.ledger.Logout(ctx, token); err != nil && err != common.ErrAuthenticationFailed {
				fmt.Fprintln(m.out, err)
			}
			fmt.Fprintln(m.out, "Logging out...")
			return

		default:
			fmt.Fprintln(m.out, "Invalid choice!")
		}
	}
}
