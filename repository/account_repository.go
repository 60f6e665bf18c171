package repository

import (
	"database/sql"

	"bank-ledger/common"
	"bank-ledger/logger"
	"bank-ledger/model"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// IAccountRepository defines the contract for account persistence.
// The unique index on account_number is the sole collision defense for
// generated account numbers; an insert racing past an application-level
// check still fails here.
type IAccountRepository interface {
	CreateAccount(account *model.Account) error
	GetAccountByNumber(number string) (*model.Account, error)
	GetAllAccounts() ([]*model.Account, error)
	GetAccountForUpdate(tx *sql.Tx, number string) (*model.Account, error)
	UpdateAccountBalance(tx *sql.Tx, number string, newBalance decimal.Decimal) error
	UpdatePassword(number string, passwordHash string) error
}

// AccountRepository implements IAccountRepository on Postgres.
type AccountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{DB: db}
}

const accountColumns = `id, name, account_number, dob, city, password, balance, contact_number, email, address, is_active`

// CreateAccount inserts a new account. A violation of the account_number
// unique constraint is reported as common.ErrDuplicateAccountNumber.
func (r *AccountRepository) CreateAccount(account *model.Account) error {
	log := logger.Log.WithField("account_number", account.AccountNumber)
	log.Info("Executing query to create a new account")

	query := `INSERT INTO accounts (name, account_number, dob, city, password, balance, contact_number, email, address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, is_active`
	err := r.DB.QueryRow(query,
		account.Name, account.AccountNumber, account.DateOfBirth, account.City,
		account.PasswordHash, account.Balance, account.ContactNumber,
		account.Email, account.Address,
	).Scan(&account.ID, &account.IsActive)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			log.Info("Account number collision on insert")
			return common.ErrDuplicateAccountNumber
		}
		log.WithError(err).Error("Failed to execute create account query")
		return err
	}
	return nil
}

// GetAccountByNumber retrieves a single account by its account number.
func (r *AccountRepository) GetAccountByNumber(number string) (*model.Account, error) {
	log := logger.Log.WithField("account_number", number)
	log.Info("Executing query to get account by number")

	account := &model.Account{}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`
	err := r.DB.QueryRow(query, number).Scan(
		&account.ID, &account.Name, &account.AccountNumber, &account.DateOfBirth,
		&account.City, &account.PasswordHash, &account.Balance,
		&account.ContactNumber, &account.Email, &account.Address, &account.IsActive,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, common.ErrAccountNotFound
		}
		log.WithError(err).Error("Failed to execute get account by number query")
		return nil, err
	}
	return account, nil
}

// GetAllAccounts retrieves every account in insertion order.
func (r *AccountRepository) GetAllAccounts() ([]*model.Account, error) {
	logger.Log.Info("Executing query to get all accounts")

	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY id`
	rows, err := r.DB.Query(query)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute query for all accounts")
		return nil, err
	}
	defer rows.Close()

	var accounts []*model.Account
	for rows.Next() {
		var acc model.Account
		if err := rows.Scan(
			&acc.ID, &acc.Name, &acc.AccountNumber, &acc.DateOfBirth,
			&acc.City, &acc.PasswordHash, &acc.Balance,
			&acc.ContactNumber, &acc.Email, &acc.Address, &acc.IsActive,
		); err != nil {
			logger.Log.WithError(err).Error("Failed to scan account row")
			return nil, err
		}
		accounts = append(accounts, &acc)
	}
	return accounts, rows.Err()
}

// GetAccountForUpdate locks and reads an account row inside the caller's
// transaction. The lock is held until the transaction ends, covering the
// whole read-modify-write-append sequence.
func (r *AccountRepository) GetAccountForUpdate(tx *sql.Tx, number string) (*model.Account, error) {
	log := logger.Log.WithField("account_number", number)
	log.Info("Executing query to get account for update")

	account := &model.Account{}
	query := `SELECT id, account_number, balance, is_active FROM accounts WHERE account_number = $1 FOR UPDATE`
	err := tx.QueryRow(query, number).Scan(&account.ID, &account.AccountNumber, &account.Balance, &account.IsActive)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Info("Account not found for update")
			return nil, common.ErrAccountNotFound
		}
		log.WithError(err).Error("Failed to execute get account for update query")
		return nil, err
	}
	return account, nil
}

// UpdateAccountBalance overwrites an account's balance inside the caller's
// transaction so it can commit together with the matching transaction record.
func (r *AccountRepository) UpdateAccountBalance(tx *sql.Tx, number string, newBalance decimal.Decimal) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_number": number,
		"new_balance":    newBalance,
	})
	log.Info("Executing query to update account balance")

	query := `UPDATE accounts SET balance = $1 WHERE account_number = $2`
	res, err := tx.Exec(query, newBalance, number)
	if err != nil {
		log.WithError(err).Error("Failed to execute update account balance query")
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return common.ErrAccountNotFound
	}
	return nil
}

// UpdatePassword overwrites an account's stored credential hash.
func (r *AccountRepository) UpdatePassword(number string, passwordHash string) error {
	log := logger.Log.WithField("account_number", number)
	log.Info("Executing query to update account password")

	query := `UPDATE accounts SET password = $1 WHERE account_number = $2`
	res, err := r.DB.Exec(query, passwordHash, number)
	if err != nil {
		log.WithError(err).Error("Failed to execute update password query")
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return common.ErrAccountNotFound
	}
	return nil
}
