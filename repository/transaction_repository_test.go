// repository/transaction_repository_test.go
package repository

import (
	"testing"
	"time"

	"bank-ledger/common"
	"bank-ledger/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionRepository_CreateTransaction(t *testing.T) {
	t.Run("rejects non-positive amount before touching storage", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := NewTransactionRepository(db)

		err = repo.CreateTransaction(nil, &model.Transaction{
			AccountNumber: "1234567890",
			Type:          model.TransactionCredit,
			Amount:        decimal.Zero,
		})

		assert.ErrorIs(t, err, common.ErrInvalidAmount)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("append assigns id and timestamp", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := NewTransactionRepository(db)
		now := time.Now()

		dbMock.ExpectBegin()
		dbMock.ExpectQuery("INSERT INTO transactions").
			WillReturnRows(sqlmock.NewRows([]string{"id", "date"}).AddRow(42, now))
		dbMock.ExpectCommit()

		tx, err := db.Begin()
		assert.NoError(t, err)

		transaction := &model.Transaction{
			AccountNumber: "1234567890",
			Type:          model.TransactionDebit,
			Amount:        decimal.NewFromInt(100),
		}
		err = repo.CreateTransaction(tx, transaction)

		assert.NoError(t, err)
		assert.Equal(t, 42, transaction.ID)
		assert.Equal(t, now, transaction.CreatedAt)
		assert.NoError(t, tx.Commit())
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestTransactionRepository_GetTransactionsByAccountNumber(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewTransactionRepository(db)

	earlier := time.Now().Add(-time.Hour)
	later := time.Now()

	rows := sqlmock.NewRows([]string{"id", "account_number", "type", "amount", "date"}).
		AddRow(1, "1234567890", "credit", "2500.00", earlier).
		AddRow(2, "1234567890", "debit", "500.00", later)

	dbMock.ExpectQuery("SELECT (.+) FROM transactions").
		WithArgs("1234567890").
		WillReturnRows(rows)

	transactions, err := repo.GetTransactionsByAccountNumber("1234567890")

	assert.NoError(t, err)
	assert.Len(t, transactions, 2)
	assert.Equal(t, model.TransactionCredit, transactions[0].Type)
	assert.Equal(t, model.TransactionDebit, transactions[1].Type)
	assert.True(t, transactions[0].CreatedAt.Before(transactions[1].CreatedAt))
	assert.True(t, transactions[1].Amount.Equal(decimal.NewFromInt(500)))
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
