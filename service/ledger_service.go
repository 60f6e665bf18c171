package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"bank-ledger/common"
	"bank-ledger/logger"
	"bank-ledger/model"
	"bank-ledger/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	// accountNumberAttempts bounds the regenerate-and-retry loop when a
	// freshly drawn account number collides with an existing one.
	accountNumberAttempts = 5

	directoryCacheKey = "accounts:directory"
	directoryCacheTTL = 10 * time.Minute
)

// LedgerService orchestrates every balance-affecting operation. Each
// balance mutation and its transaction record are written inside one
// database transaction, so either both commit or neither does.
type LedgerService struct {
	db              *sql.DB
	accountRepo     repository.IAccountRepository
	transactionRepo repository.ITransactionRepository
	auth            *AuthService
	cache           ICacheClient
}

func NewLedgerService(db *sql.DB, accountRepo repository.IAccountRepository, transactionRepo repository.ITransactionRepository, auth *AuthService, cache ICacheClient) *LedgerService {
	return &LedgerService{
		db:              db,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		auth:            auth,
		cache:           cache,
	}
}

func generateAccountNumber() string {
	digits := make([]byte, 10)
	for i := range digits {
		digits[i] = byte('0' + rand.Intn(10))
	}
	return string(digits)
}

// OpenAccount validates the request in a fixed order, generates an account
// number and persists the account. On a number collision it retries with a
// fresh number; the storage unique constraint is the collision authority.
func (s *LedgerService) OpenAccount(ctx context.Context, req model.OpenAccountRequest) (*model.Account, error) {
	if !common.ValidContact(req.ContactNumber) {
		return nil, common.ErrInvalidContact
	}
	if !common.ValidEmail(req.Email) {
		return nil, common.ErrInvalidEmail
	}
	if !common.ValidPassword(req.Password) {
		return nil, common.ErrWeakPassword
	}
	if !common.ValidInitialBalance(req.InitialBalance) {
		return nil, common.ErrInsufficientInitialBalance
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		Name:          req.Name,
		DateOfBirth:   req.DateOfBirth,
		City:          req.City,
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
		Email:         req.Email,
		PasswordHash:  hash,
		Balance:       req.InitialBalance,
	}

	for attempt := 1; attempt <= accountNumberAttempts; attempt++ {
		account.AccountNumber = generateAccountNumber()
		err = s.accountRepo.CreateAccount(account)
		if err == nil {
			logger.Log.WithFields(logrus.Fields{
				"account_number": account.AccountNumber,
				"attempt":        attempt,
			}).Info("Account created")
			s.invalidateDirectory(ctx)
			return account, nil
		}
		if !errors.Is(err, common.ErrDuplicateAccountNumber) {
			return nil, err
		}
	}
	return nil, common.ErrDuplicateAccountNumber
}

// Login checks the credential against the stored hash and, on success,
// moves the session to Authenticated by issuing a session token. Unknown
// accounts, inactive accounts and bad passwords are indistinguishable to
// the caller.
func (s *LedgerService) Login(ctx context.Context, accountNumber, password string) (string, *model.Account, error) {
	account, err := s.accountRepo.GetAccountByNumber(accountNumber)
	if err != nil {
		if errors.Is(err, common.ErrAccountNotFound) {
			return "", nil, common.ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if !account.IsActive || !s.auth.CheckPasswordHash(password, account.PasswordHash) {
		return "", nil, common.ErrAuthenticationFailed
	}

	token, err := s.auth.GenerateSessionToken(account.AccountNumber)
	if err != nil {
		return "", nil, err
	}

	logger.Log.WithField("account_number", account.AccountNumber).Info("Login successful")
	return token, account, nil
}

// Logout revokes the session token; the session is terminal afterwards.
func (s *LedgerService) Logout(ctx context.Context, token string) error {
	return s.auth.RevokeSessionToken(ctx, token)
}

// Credit adds amount to the authenticated account and appends the matching
// Credit record as one atomic unit.
func (s *LedgerService) Credit(ctx context.Context, token string, amount decimal.Decimal) (*model.Transaction, error) {
	claims, err := s.auth.ParseSessionToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, common.ErrInvalidAmount
	}

	log := logger.Log.WithFields(logrus.Fields{
		"account_number": claims.AccountNumber,
		"amount":         amount,
	})
	log.Info("Starting credit operation")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	account, err := s.accountRepo.GetAccountForUpdate(tx, claims.AccountNumber)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.UpdateAccountBalance(tx, account.AccountNumber, account.Balance.Add(amount)); err != nil {
		return nil, fmt.Errorf("could not update balance: %w", err)
	}

	transaction := &model.Transaction{
		AccountNumber: account.AccountNumber,
		Type:          model.TransactionCredit,
		Amount:        amount,
	}
	if err := s.transactionRepo.CreateTransaction(tx, transaction); err != nil {
		return nil, fmt.Errorf("could not create transaction record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	s.invalidateDirectory(ctx)
	log.Info("Credit completed successfully")
	return transaction, nil
}

// Debit subtracts amount from the authenticated account and appends the
// matching Debit record as one atomic unit. A debit larger than the
// balance fails with no effect.
func (s *LedgerService) Debit(ctx context.Context, token string, amount decimal.Decimal) (*model.Transaction, error) {
	claims, err := s.auth.ParseSessionToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, common.ErrInvalidAmount
	}

	log := logger.Log.WithFields(logrus.Fields{
		"account_number": claims.AccountNumber,
		"amount":         amount,
	})
	log.Info("Starting debit operation")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	account, err := s.accountRepo.GetAccountForUpdate(tx, claims.AccountNumber)
	if err != nil {
		return nil, err
	}

	if amount.GreaterThan(account.Balance) {
		return nil, common.ErrInsufficientFunds
	}

	if err := s.accountRepo.UpdateAccountBalance(tx, account.AccountNumber, account.Balance.Sub(amount)); err != nil {
		return nil, fmt.Errorf("could not update balance: %w", err)
	}

	transaction := &model.Transaction{
		AccountNumber: account.AccountNumber,
		Type:          model.TransactionDebit,
		Amount:        amount,
	}
	if err := s.transactionRepo.CreateTransaction(tx, transaction); err != nil {
		return nil, fmt.Errorf("could not create transaction record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	s.invalidateDirectory(ctx)
	log.Info("Debit completed successfully")
	return transaction, nil
}

// Transfer debits the authenticated account and credits the destination as
// a single atomic unit. If either leg cannot be satisfied the whole
// transfer aborts with no partial effect.
func (s *LedgerService) Transfer(ctx context.Context, token string, toAccountNumber string, amount decimal.Decimal) error {
	claims, err := s.auth.ParseSessionToken(ctx, token)
	if err != nil {
		return err
	}
	if claims.AccountNumber == toAccountNumber {
		return common.ErrSameAccountTransfer
	}
	if !amount.IsPositive() {
		return common.ErrInvalidAmount
	}

	log := logger.Log.WithFields(logrus.Fields{
		"from_account_number": claims.AccountNumber,
		"to_account_number":   toAccountNumber,
		"amount":              amount,
	})
	log.Info("Starting transfer operation")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock rows in account-number order so two concurrent transfers
	// between the same pair of accounts cannot deadlock.
	firstNumber, secondNumber := claims.AccountNumber, toAccountNumber
	if secondNumber < firstNumber {
		firstNumber, secondNumber = secondNumber, firstNumber
	}

	firstAccount, err := s.accountRepo.GetAccountForUpdate(tx, firstNumber)
	if err != nil {
		return err
	}
	secondAccount, err := s.accountRepo.GetAccountForUpdate(tx, secondNumber)
	if err != nil {
		return err
	}

	fromAccount, toAccount := firstAccount, secondAccount
	if fromAccount.AccountNumber != claims.AccountNumber {
		fromAccount, toAccount = toAccount, fromAccount
	}

	if amount.GreaterThan(fromAccount.Balance) {
		return common.ErrInsufficientFunds
	}

	if err := s.accountRepo.UpdateAccountBalance(tx, fromAccount.AccountNumber, fromAccount.Balance.Sub(amount)); err != nil {
		return fmt.Errorf("could not update sender balance: %w", err)
	}
	if err := s.transactionRepo.CreateTransaction(tx, &model.Transaction{
		AccountNumber: fromAccount.AccountNumber,
		Type:          model.TransactionDebit,
		Amount:        amount,
	}); err != nil {
		return fmt.Errorf("could not create debit record: %w", err)
	}

	if err := s.accountRepo.UpdateAccountBalance(tx, toAccount.AccountNumber, toAccount.Balance.Add(amount)); err != nil {
		return fmt.Errorf("could not update receiver balance: %w", err)
	}
	if err := s.transactionRepo.CreateTransaction(tx, &model.Transaction{
		AccountNumber: toAccount.AccountNumber,
		Type:          model.TransactionCredit,
		Amount:        amount,
	}); err != nil {
		return fmt.Errorf("could not create credit record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	s.invalidateDirectory(ctx)
	log.Info("Transfer completed successfully")
	return nil
}

// ChangePassword rotates the stored credential. The old password must
// verify against the stored hash and the new one must meet the strength
// rules.
func (s *LedgerService) ChangePassword(ctx context.Context, token string, oldPassword, newPassword string) error {
	claims, err := s.auth.ParseSessionToken(ctx, token)
	if err != nil {
		return err
	}

	account, err := s.accountRepo.GetAccountByNumber(claims.AccountNumber)
	if err != nil {
		return err
	}

	if !s.auth.CheckPasswordHash(oldPassword, account.PasswordHash) {
		return common.ErrAuthenticationFailed
	}
	if !common.ValidPassword(newPassword) {
		return common.ErrWeakPassword
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.accountRepo.UpdatePassword(account.AccountNumber, hash); err != nil {
		return err
	}

	logger.Log.WithField("account_number", account.AccountNumber).Info("Password changed")
	return nil
}

// Balance returns the current balance of the authenticated account.
func (s *LedgerService) Balance(ctx context.Context, token string) (decimal.Decimal, error) {
	claims, err := s.auth.ParseSessionToken(ctx, token)
	if err != nil {
		return decimal.Zero, err
	}

	account, err := s.accountRepo.GetAccountByNumber(claims.AccountNumber)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// TransactionHistory returns the authenticated account's transaction log,
// oldest first.
func (s *LedgerService) TransactionHistory(ctx context.Context, token string) ([]*model.Transaction, error) {
	claims, err := s.auth.ParseSessionToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.transactionRepo.GetTransactionsByAccountNumber(claims.AccountNumber)
}

// Directory is the deliberately public read path: all accounts, or the one
// matching filter. Keeping it in a single method means unauthenticated
// lookup can be withdrawn without touching any authenticated operation.
// The full listing uses a cache-aside strategy, invalidated on every write.
func (s *LedgerService) Directory(ctx context.Context, filter string) ([]*model.Account, error) {
	if filter != "" {
		account, err := s.accountRepo.GetAccountByNumber(filter)
		if err != nil {
			return nil, err
		}
		return []*model.Account{account}, nil
	}

	cached, err := s.cache.Get(ctx, directoryCacheKey).Result()
	if err == nil {
		var accounts []*model.Account
		if err := json.Unmarshal([]byte(cached), &accounts); err == nil {
			return accounts, nil
		}
	}

	accounts, err := s.accountRepo.GetAllAccounts()
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(accounts); err == nil {
		s.cache.Set(ctx, directoryCacheKey, data, directoryCacheTTL)
	}

	return accounts, nil
}

func (s *LedgerService) invalidateDirectory(ctx context.Context) {
	s.cache.Del(ctx, directoryCacheKey)
}
