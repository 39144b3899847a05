package ledger

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Engine applies deposits, withdrawals and transfers. Every mutating call runs
// as one storage transaction: the balance changes and the transaction record
// are committed together or not at all.
type Engine struct {
	logger logrus.FieldLogger
	store  Store
	clock  Clock
}

func NewEngine(logger logrus.FieldLogger, store Store, clock Clock) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Engine{
		logger: logger,
		store:  store,
		clock:  clock,
	}
}

func (e *Engine) CreateAccount(ctx context.Context, initialBalance int64) (Account, error) {
	logger := e.logger.WithFields(logrus.Fields{
		"method": "Engine.CreateAccount",
	})

	acc, err := e.store.Accounts().Create(ctx, initialBalance)
	if err != nil {
		e.logFailure(logger, err)
		return Account{}, err
	}
	logger.Infof("Created account %s with balance %d", acc.Number, acc.Balance)
	return acc, nil
}

func (e *Engine) GetAccount(ctx context.Context, number string) (Account, error) {
	return e.store.Accounts().FindByNumber(ctx, number)
}

func (e *Engine) ListAccounts(ctx context.Context, req PageRequest) (Page[Account], error) {
	return e.store.Accounts().List(ctx, req.Normalize())
}

// History lists the transactions touching an account, newest first.
func (e *Engine) History(ctx context.Context, number string, req PageRequest) (Page[Transaction], error) {
	if _, err := e.store.Accounts().FindByNumber(ctx, number); err != nil {
		return Page[Transaction]{}, err
	}
	return e.store.Transactions().ListByAccount(ctx, number, req.Normalize())
}

func (e *Engine) Deposit(ctx context.Context, number string, amount int64) (SingleTransactionView, error) {
	logger := e.logger.WithFields(logrus.Fields{
		"method":  "Engine.Deposit",
		"account": number,
	})
	if err := validateAmount(amount); err != nil {
		e.logFailure(logger, err)
		return SingleTransactionView{}, err
	}

	var recorded Transaction
	err := e.store.Do(ctx, func(accounts AccountStore, txLog TransactionLog) error {
		acc, err := accounts.IncreaseBalance(ctx, number, amount)
		if err != nil {
			return err
		}
		recorded, err = txLog.Append(ctx, e.newTransaction(nil, &acc, amount, TypeDeposit))
		return err
	})
	if err != nil {
		e.logFailure(logger, err)
		return SingleTransactionView{}, err
	}

	logger.Infof("Deposited %d, balance: %d", amount, recorded.To.Balance)
	return recorded.SingleView(), nil
}

func (e *Engine) Withdraw(ctx context.Context, number string, amount int64) (SingleTransactionView, error) {
	logger := e.logger.WithFields(logrus.Fields{
		"method":  "Engine.Withdraw",
		"account": number,
	})
	if err := validateAmount(amount); err != nil {
		e.logFailure(logger, err)
		return SingleTransactionView{}, err
	}

	var recorded Transaction
	err := e.store.Do(ctx, func(accounts AccountStore, txLog TransactionLog) error {
		acc, err := accounts.DecreaseBalance(ctx, number, amount)
		if err != nil {
			return err
		}
		recorded, err = txLog.Append(ctx, e.newTransaction(&acc, nil, amount, TypeWithdrawal))
		return err
	})
	if err != nil {
		e.logFailure(logger, err)
		return SingleTransactionView{}, err
	}

	logger.Infof("Withdrew %d, balance: %d", amount, recorded.From.Balance)
	return recorded.SingleView(), nil
}

// Transfer moves amount from one account to another. Both accounts are
// resolved in a single lookup so the error names exactly the missing side(s).
func (e *Engine) Transfer(ctx context.Context, fromNumber, toNumber string, amount int64) (TransferView, error) {
	logger := e.logger.WithFields(logrus.Fields{
		"method": "Engine.Transfer",
		"from":   fromNumber,
		"to":     toNumber,
	})
	if err := validateAmount(amount); err != nil {
		e.logFailure(logger, err)
		return TransferView{}, err
	}
	if fromNumber == toNumber {
		err := SameAccount(fromNumber)
		e.logFailure(logger, err)
		return TransferView{}, err
	}

	var recorded Transaction
	err := e.store.Do(ctx, func(accounts AccountStore, txLog TransactionLog) error {
		pair, err := accounts.FindPairForTransfer(ctx, fromNumber, toNumber)
		if err != nil {
			return err
		}
		if missing := pair.Missing(); len(missing) > 0 {
			return AccountNotFound(missing...)
		}

		from, err := accounts.DecreaseBalance(ctx, fromNumber, amount)
		if err != nil {
			return err
		}
		to, err := accounts.IncreaseBalance(ctx, toNumber, amount)
		if err != nil {
			return err
		}
		recorded, err = txLog.Append(ctx, e.newTransaction(&from, &to, amount, TypeTransfer))
		return err
	})
	if err != nil {
		e.logFailure(logger, err)
		return TransferView{}, err
	}

	logger.Infof("Transferred %d, balances: %d -> %d", amount, recorded.From.Balance, recorded.To.Balance)
	return recorded.TransferView(), nil
}

func (e *Engine) newTransaction(from, to *Account, amount int64, kind TransactionType) Transaction {
	return Transaction{
		From:      from,
		To:        to,
		Amount:    amount,
		Type:      kind,
		Timestamp: e.clock.Now(),
	}
}

// logFailure logs rejected requests quietly and storage failures loudly.
func (e *Engine) logFailure(logger logrus.FieldLogger, err error) {
	if KindOf(err) != "" {
		logger.WithError(err).Info("rejected")
		return
	}
	logger.Errorf("%+v", err)
}

func validateAmount(amount int64) error {
	if amount <= 0 {
		return InvalidAmount("amount must be greater than zero")
	}
	return nil
}
