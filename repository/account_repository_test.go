// repository/account_repository_test.go
package repository

import (
	"database/sql"
	"os"
	"testing"

	"bank-ledger/common"
	"bank-ledger/logger"
	"bank-ledger/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func newTestAccount() *model.Account {
	return &model.Account{
		Name:          "Ada Lovelace",
		AccountNumber: "1234567890",
		DateOfBirth:   "1990-12-10",
		City:          "London",
		Address:       "12 St James Square",
		ContactNumber: "9876543210",
		Email:         "ada.l@bank.com",
		PasswordHash:  "$2a$14$notarealhash",
		Balance:       decimal.NewFromInt(2500),
	}
}

func TestAccountRepository_CreateAccount(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := NewAccountRepository(db)
		account := newTestAccount()

		dbMock.ExpectQuery("INSERT INTO accounts").
			WillReturnRows(sqlmock.NewRows([]string{"id", "is_active"}).AddRow(7, true))

		err = repo.CreateAccount(account)

		assert.NoError(t, err)
		assert.Equal(t, 7, account.ID)
		assert.True(t, account.IsActive)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to duplicate account number", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := NewAccountRepository(db)

		dbMock.ExpectQuery("INSERT INTO accounts").
			WillReturnError(&pq.Error{Code: "23505"})

		err = repo.CreateAccount(newTestAccount())

		assert.ErrorIs(t, err, common.ErrDuplicateAccountNumber)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestAccountRepository_GetAccountByNumber(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := NewAccountRepository(db)

		rows := sqlmock.NewRows([]string{
			"id", "name", "account_number", "dob", "city", "password",
			"balance", "contact_number", "email", "address", "is_active",
		}).AddRow(
			1, "Ada Lovelace", "1234567890", "1990-12-10", "London",
			"$2a$14$notarealhash", "2500.00", "9876543210", "ada.l@bank.com",
			"12 St James Square", true,
		)
		dbMock.ExpectQuery("SELECT (.+) FROM accounts WHERE account_number").
			WithArgs("1234567890").
			WillReturnRows(rows)

		account, err := repo.GetAccountByNumber("1234567890")

		assert.NoError(t, err)
		assert.Equal(t, "1234567890", account.AccountNumber)
		assert.True(t, account.Balance.Equal(decimal.RequireFromString("2500.00")))
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := NewAccountRepository(db)

		dbMock.ExpectQuery("SELECT (.+) FROM accounts WHERE account_number").
			WithArgs("0000000000").
			WillReturnError(sql.ErrNoRows)

		_, err = repo.GetAccountByNumber("0000000000")

		assert.ErrorIs(t, err, common.ErrAccountNotFound)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestAccountRepository_UpdateAccountBalance(t *testing.T) {
	t.Run("success inside transaction", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := NewAccountRepository(db)

		dbMock.ExpectBegin()
		dbMock.ExpectExec("UPDATE accounts SET balance").
			WillReturnResult(sqlmock.NewResult(0, 1))
		dbMock.ExpectCommit()

		tx, err := db.Begin()
		assert.NoError(t, err)

		err = repo.UpdateAccountBalance(tx, "1234567890", decimal.NewFromInt(3000))
		assert.NoError(t, err)
		assert.NoError(t, tx.Commit())
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("unknown account", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := NewAccountRepository(db)

		dbMock.ExpectBegin()
		dbMock.ExpectExec("UPDATE accounts SET balance").
			WillReturnResult(sqlmock.NewResult(0, 0))
		dbMock.ExpectRollback()

		tx, err := db.Begin()
		assert.NoError(t, err)
		defer tx.Rollback()

		err = repo.UpdateAccountBalance(tx, "0000000000", decimal.NewFromInt(3000))
		assert.ErrorIs(t, err, common.ErrAccountNotFound)
	})
}

func TestAccountRepository_GetAccountForUpdate(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db)

	dbMock.ExpectBegin()
	dbMock.ExpectQuery("SELECT (.+) FROM accounts WHERE account_number = (.+) FOR UPDATE").
		WithArgs("1234567890").
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_number", "balance", "is_active"}).
			AddRow(1, "1234567890", "2500.00", true))
	dbMock.ExpectCommit()

	tx, err := db.Begin()
	assert.NoError(t, err)

	account, err := repo.GetAccountForUpdate(tx, "1234567890")

	assert.NoError(t, err)
	assert.Equal(t, "1234567890", account.AccountNumber)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(2500)))
	assert.NoError(t, tx.Commit())
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestAccountRepository_UpdatePassword(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db)

	dbMock.ExpectExec("UPDATE accounts SET password").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpdatePassword("1234567890", "$2a$14$rotatedhash")

	assert.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
