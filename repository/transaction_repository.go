package repository

import (
	"database/sql"

	"bank-ledger/common"
	"bank-ledger/logger"
	"bank-ledger/model"

	"github.com/sirupsen/logrus"
)

// ITransactionRepository defines the contract for the append-only
// transaction log. Records are never updated or removed.
type ITransactionRepository interface {
	CreateTransaction(tx *sql.Tx, transaction *model.Transaction) error
	GetTransactionsByAccountNumber(number string) ([]*model.Transaction, error)
}

// TransactionRepository implements ITransactionRepository.
type TransactionRepository struct {
	DB *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

// CreateTransaction appends one record inside the caller's transaction so
// it commits together with the paired balance update. The store assigns
// the creation timestamp.
func (r *TransactionRepository) CreateTransaction(tx *sql.Tx, transaction *model.Transaction) error {
	if !transaction.Amount.IsPositive() {
		return common.ErrInvalidAmount
	}

	log := logger.Log.WithFields(logrus.Fields{
		"account_number": transaction.AccountNumber,
		"type":           transaction.Type,
		"amount":         transaction.Amount,
	})
	log.Info("Executing query to append a transaction record")

	query := `INSERT INTO transactions (account_number, type, amount) VALUES ($1, $2, $3) RETURNING id, date`
	err := tx.QueryRow(query, transaction.AccountNumber, transaction.Type, transaction.Amount).
		Scan(&transaction.ID, &transaction.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute append transaction query")
		return err
	}
	return nil
}

// GetTransactionsByAccountNumber retrieves the full history for one account,
// ordered by creation time ascending.
func (r *TransactionRepository) GetTransactionsByAccountNumber(number string) ([]*model.Transaction, error) {
	log := logger.Log.WithField("account_number", number)
	log.Info("Executing query to get transactions by account number")

	query := `
		SELECT id, account_number, type, amount, date
		FROM transactions
		WHERE account_number = $1
		ORDER BY date ASC, id ASC`

	rows, err := r.DB.Query(query, number)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for transactions by account number")
		return nil, err
	}
	defer rows.Close()

	var transactions []*model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.AccountNumber, &t.Type, &t.Amount, &t.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan transaction row")
			return nil, err
		}
		transactions = append(transactions, &t)
	}

	return transactions, rows.Err()
}
