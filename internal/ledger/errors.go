package ledger

import (
	"errors"
	"fmt"
)

// Kind classifies the errors raised by the ledger. Boundaries map kinds to
// their own status codes and pass the message through as is.
type Kind string

const (
	KindInvalidAmount     Kind = "InvalidAmount"
	KindAccountNotFound   Kind = "AccountNotFound"
	KindInsufficientFunds Kind = "InsufficientFunds"
	KindSameAccount       Kind = "SameAccount"
)

// Error is a domain error. Two errors are equal under errors.Is when they share
// the same kind, so the sentinels below match every error of their kind.
type Error struct {
	Kind    Kind
	Numbers []string
	msg     string
}

var (
	ErrInvalidAmount     = &Error{Kind: KindInvalidAmount, msg: "invalid amount"}
	ErrAccountNotFound   = &Error{Kind: KindAccountNotFound, msg: "account not found"}
	ErrInsufficientFunds = &Error{Kind: KindInsufficientFunds, msg: "insufficient funds"}
	ErrSameAccount       = &Error{Kind: KindSameAccount, msg: "cannot transfer to the same account"}
)

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of a domain error anywhere in err's chain, or "" for
// anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func InvalidAmount(msg string) error {
	return &Error{Kind: KindInvalidAmount, msg: msg}
}

// BalanceOverflow rejects a credit the account balance cannot hold.
func BalanceOverflow(number string) error {
	return &Error{
		Kind:    KindInvalidAmount,
		Numbers: []string{number},
		msg:     fmt.Sprintf("amount exceeds the balance limit of account %s", number),
	}
}

// AccountNotFound names every account number that could not be resolved.
func AccountNotFound(numbers ...string) error {
	msg := "account not found"
	switch len(numbers) {
	case 1:
		msg = fmt.Sprintf("account %s not found", numbers[0])
	case 2:
		msg = fmt.Sprintf("both accounts not found: %s and %s", numbers[0], numbers[1])
	}
	return &Error{Kind: KindAccountNotFound, Numbers: numbers, msg: msg}
}

func InsufficientFunds(number string) error {
	return &Error{
		Kind:    KindInsufficientFunds,
		Numbers: []string{number},
		msg:     fmt.Sprintf("insufficient funds in account %s", number),
	}
}

func SameAccount(number string) error {
	return &Error{Kind: KindSameAccount, Numbers: []string{number}, msg: ErrSameAccount.msg}
}
