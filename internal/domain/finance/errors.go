package finance

import "errors"

// Finance errors are always recovered locally: operations return them to the
// caller with no partial mutation, and the UI layer translates them into
// user-facing messages. Nothing here may crash the tick loop.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrActiveLoanExists    = errors.New("an active loan already exists")
	ErrNoActiveLoan        = errors.New("no active loan")
	ErrUnknownBank         = errors.New("unknown bank")
	ErrBankLocked          = errors.New("bank not unlocked")
	ErrUnknownLoanType     = errors.New("unknown loan type")
	ErrLoanTypeLocked      = errors.New("loan type not unlocked")
	ErrAmountOutOfRange    = errors.New("loan amount out of range")
	ErrDurationOutOfRange  = errors.New("loan duration out of range")
	ErrCollateralRequired  = errors.New("loan requires collateral")
	ErrInvalidEMI          = errors.New("computed EMI is invalid")
	ErrInsufficientBalance = errors.New("insufficient balance")
)
