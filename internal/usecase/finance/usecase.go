package finance

import (
	"context"
	"time"

	domain "tycoon-backend/internal/domain/finance"
	"tycoon-backend/internal/domain/game"
	"tycoon-backend/pkg/id"

	"go.uber.org/zap"
)

// Relationship and credit deltas applied by the lifecycle transitions.
const (
	relOnOriginate = 2
	relOnPayment   = 1
	relOnComplete  = 10
	relOnPreClose  = 5
	relOnMiss      = -5

	creditOnComplete = 15
	creditOnPreClose = 8
	creditOnStreak   = -30

	// missedPaymentStreak is the consecutive-miss count that triggers the
	// extra credit penalty and the loan-penalty signal.
	missedPaymentStreak = 3
)

// Lifecycle is the sole legal mutator of FinanceState: origination, scheduled
// (or manual) EMI payment, and pre-closure are the only state transitions.
// Everything else — the tick processor, the UI adapters — goes through these
// operations or reads snapshots.
type Lifecycle struct {
	catalog []domain.Bank
	state   *domain.FinanceState
	game    *game.State
	archive domain.Archive // optional write-through, may be nil
	log     *zap.Logger
	now     func() time.Time
}

func NewLifecycle(catalog []domain.Bank, st *domain.FinanceState, gs *game.State, archive domain.Archive, log *zap.Logger) *Lifecycle {
	if log == nil {
		log = zap.NewNop()
	}
	return &Lifecycle{
		catalog: catalog,
		state:   st,
		game:    gs,
		archive: archive,
		log:     log,
		now:     time.Now,
	}
}

// OriginateInput is the take-loan intent payload. InterestRate may be zero,
// in which case the adjusted catalog rate is used.
type OriginateInput struct {
	BankID         string
	LoanTypeID     string
	Amount         float64
	InterestRate   float64
	DurationMonths int
	CollateralID   string
}

// Originate creates the active loan, credits the principal to the player's
// balance and resets the EMI due-timer. All-or-nothing: every rejection path
// leaves FinanceState and the balance untouched.
func (u *Lifecycle) Originate(ctx context.Context, in OriginateInput) (*domain.Loan, error) {
	if u.state.ActiveLoan != nil {
		return nil, domain.ErrActiveLoanExists
	}

	bank, ok := domain.FindBank(u.catalog, in.BankID)
	if !ok {
		return nil, domain.ErrUnknownBank
	}
	if !u.state.UnlockedBanks[bank.ID] {
		return nil, domain.ErrBankLocked
	}
	lt, ok := bank.FindLoanType(in.LoanTypeID)
	if !ok {
		return nil, domain.ErrUnknownLoanType
	}
	if lt.Category == domain.CategoryDevelopment && !u.state.UnlockedLoanTypes[lt.ID] {
		return nil, domain.ErrLoanTypeLocked
	}

	if in.Amount < lt.MinAmount || in.Amount > lt.MaxAmountForLevel(u.game.Level) {
		return nil, domain.ErrAmountOutOfRange
	}
	if in.DurationMonths < lt.MinDuration || in.DurationMonths > lt.MaxDuration {
		return nil, domain.ErrDurationOutOfRange
	}
	if lt.RequiresCollateral && in.CollateralID == "" {
		return nil, domain.ErrCollateralRequired
	}

	rate := in.InterestRate
	if rate <= 0 {
		rate = domain.CalculateAdjustedInterestRate(
			lt.BaseRate, u.game.Level, u.state.CreditScore,
			u.state.RelationshipScore(bank.ID), lt.RelationshipDiscount)
	}

	emi := domain.CalculateEMI(in.Amount, rate, in.DurationMonths)
	if emi <= 0 {
		// A zero-payment loan would never amortize; abort entirely.
		u.log.Debug("EMI computed as zero, origination aborted",
			zap.Float64("amount", in.Amount),
			zap.Float64("rate", rate),
			zap.Int("months", in.DurationMonths),
		)
		return nil, domain.ErrInvalidEMI
	}

	now := u.now()
	loan := &domain.Loan{
		LoanID:          id.NewID32(),
		BankID:          bank.ID,
		BankName:        bank.Name,
		LoanTypeID:      lt.ID,
		LoanTypeName:    lt.Name,
		Category:        lt.Category,
		OriginalAmount:  in.Amount,
		RemainingAmount: in.Amount,
		InterestRate:    rate,
		DurationMonths:  in.DurationMonths,
		RemainingMonths: in.DurationMonths,
		EMIAmount:       emi,
		TotalInterest:   domain.CalculateTotalInterest(in.Amount, emi, in.DurationMonths),
		StartDate:       now,
		CollateralID:    in.CollateralID,
		Status:          domain.StateActive,
	}
	loan.RefreshPreCloseAmount()

	u.state.ActiveLoan = loan
	u.state.EMIDueTimer = 0
	u.game.Credit(in.Amount)
	u.state.EnsureRelationship(bank.ID, now).Adjust(relOnOriginate)

	u.log.Info("loan originated",
		zap.String("loan_id", loan.LoanID),
		zap.String("bank_id", bank.ID),
		zap.Float64("amount", in.Amount),
		zap.Float64("rate", rate),
		zap.Int("months", in.DurationMonths),
	)
	return loan, nil
}

// PaymentResult describes one ApplyScheduledPayment outcome, successful or
// not, including the post-mutation loan and relationship snapshots.
type PaymentResult struct {
	Success         bool
	Amount          float64
	PrincipalPaid   float64
	InterestPaid    float64
	RemainingAmount float64
	RemainingMonths int
	Balance         float64

	Completed bool

	// Miss bookkeeping, only set when Success is false.
	Shortfall      float64
	PenaltyAmount  float64
	PenaltyCount   int
	MultipleMissed bool

	Loan         domain.Loan
	Relationship domain.BankRelationship
}

// ApplyScheduledPayment services one EMI period against the active loan. On
// sufficient balance it debits the EMI, splits it into interest and
// principal, and completes the loan once fully amortized. On a shortfall it
// debits nothing, surcharges the outstanding principal and downgrades the
// relationship; three consecutive misses also hit the credit score.
func (u *Lifecycle) ApplyScheduledPayment(ctx context.Context) (*PaymentResult, error) {
	loan := u.state.ActiveLoan
	if loan == nil {
		return nil, domain.ErrNoActiveLoan
	}

	rel := u.state.EnsureRelationship(loan.BankID, u.now())
	emi := loan.EMIAmount
	interest := loan.RemainingAmount * domain.MonthlyRate(loan.InterestRate)
	principal := emi - interest

	if !u.game.Debit(emi) {
		penalty := emi * domain.LatePaymentPenaltyPct / 100.0
		loan.RemainingAmount += penalty
		loan.PenaltyCount++
		loan.RefreshPreCloseAmount()
		rel.Adjust(relOnMiss)
		rel.PaymentsMissed++

		multiple := loan.PenaltyCount >= missedPaymentStreak
		if multiple {
			u.state.AdjustCredit(creditOnStreak)
		}

		u.log.Warn("EMI missed",
			zap.String("loan_id", loan.LoanID),
			zap.Float64("emi", emi),
			zap.Float64("balance", u.game.Balance),
			zap.Int("penalty_count", loan.PenaltyCount),
		)
		return &PaymentResult{
			Success:         false,
			Amount:          emi,
			RemainingAmount: loan.RemainingAmount,
			RemainingMonths: loan.RemainingMonths,
			Balance:         u.game.Balance,
			Shortfall:       emi - u.game.Balance,
			PenaltyAmount:   penalty,
			PenaltyCount:    loan.PenaltyCount,
			MultipleMissed:  multiple,
			Loan:            *loan,
			Relationship:    *rel,
		}, nil
	}

	loan.RemainingAmount -= principal
	loan.RemainingMonths--
	loan.TotalInterestPaid += interest
	loan.PenaltyCount = 0
	loan.RefreshPreCloseAmount()
	rel.Adjust(relOnPayment)
	rel.PaymentsMade++

	res := &PaymentResult{
		Success:         true,
		Amount:          emi,
		PrincipalPaid:   principal,
		InterestPaid:    interest,
		RemainingAmount: loan.RemainingAmount,
		RemainingMonths: loan.RemainingMonths,
		Balance:         u.game.Balance,
	}

	if loan.RemainingMonths <= 0 || loan.RemainingAmount <= 0 {
		u.completeLoan(ctx, loan, rel, domain.CompletionFull, 0)
		res.Completed = true
		res.RemainingAmount = 0
	}

	res.Loan = *loan
	res.Relationship = *rel
	return res, nil
}

// PreCloseResult describes a successful early payoff.
type PreCloseResult struct {
	AmountPaid   float64
	Penalty      float64
	Balance      float64
	CreditScore  int
	Loan         domain.Loan
	Relationship domain.BankRelationship
}

// PreClose pays off the active loan early: outstanding principal plus the
// pre-closure penalty, in one debit. Rejected without mutation when the
// balance does not cover the full amount.
func (u *Lifecycle) PreClose(ctx context.Context) (*PreCloseResult, error) {
	loan := u.state.ActiveLoan
	if loan == nil {
		return nil, domain.ErrNoActiveLoan
	}

	required := domain.CalculatePreClosureAmount(loan.RemainingAmount, domain.DefaultPreClosurePenaltyPct)
	if !u.game.Debit(required) {
		return nil, domain.ErrInsufficientBalance
	}

	penalty := required - loan.RemainingAmount
	rel := u.state.EnsureRelationship(loan.BankID, u.now())
	u.completeLoan(ctx, loan, rel, domain.CompletionEarly, penalty)

	u.log.Info("loan pre-closed",
		zap.String("loan_id", loan.LoanID),
		zap.Float64("amount_paid", required),
		zap.Float64("penalty", penalty),
	)
	return &PreCloseResult{
		AmountPaid:   required,
		Penalty:      penalty,
		Balance:      u.game.Balance,
		CreditScore:  u.state.CreditScore,
		Loan:         *loan,
		Relationship: *rel,
	}, nil
}

// completeLoan runs the shared termination transition: terminal status,
// relationship and credit rewards, history append, archive write-through,
// active slot cleared.
func (u *Lifecycle) completeLoan(ctx context.Context, loan *domain.Loan, rel *domain.BankRelationship, completion domain.CompletionType, penaltyPaid float64) {
	if completion == domain.CompletionEarly {
		loan.Status = domain.StatePreClosed
		rel.Adjust(relOnPreClose)
		u.state.AdjustCredit(creditOnPreClose)
	} else {
		loan.Status = domain.StateCompleted
		rel.Adjust(relOnComplete)
		u.state.AdjustCredit(creditOnComplete)
	}
	rel.LoansCompleted++

	loan.RemainingAmount = 0
	loan.RemainingMonths = 0
	loan.PreCloseAmount = 0

	u.state.LoanHistory = append(u.state.LoanHistory, *loan)
	u.state.ActiveLoan = nil

	if u.archive == nil {
		return
	}
	closedAt := u.now()
	if err := u.archive.AppendLoan(ctx, domain.NewLoanRecord(loan, completion, penaltyPaid, closedAt)); err != nil {
		u.log.Warn("loan archive write failed", zap.String("loan_id", loan.LoanID), zap.Error(err))
	}
	if err := u.archive.SaveRelationship(ctx, domain.NewRelationshipRecord(rel)); err != nil {
		u.log.Warn("relationship snapshot write failed", zap.String("bank_id", rel.BankID), zap.Error(err))
	}
}

// Snapshot assembles the open-finance view: currently available banks plus
// the active loan, credit score and relationships. Loan and relationships are
// copied so the returned event never aliases live state; ticks keep mutating
// FinanceState after the snapshot crosses the engine boundary.
func (u *Lifecycle) Snapshot() domain.OpenFinanceEvent {
	snap := domain.OpenFinanceEvent{
		Banks: domain.AvailableBanks(u.catalog, u.state.UnlockedBanks, u.state.UnlockedLoanTypes,
			u.game.Level, u.state.Relationships),
		CreditScore:   u.state.CreditScore,
		Relationships: make(map[string]domain.BankRelationship, len(u.state.Relationships)),
	}
	if u.state.ActiveLoan != nil {
		loan := *u.state.ActiveLoan
		snap.ActiveLoan = &loan
	}
	for bankID, rel := range u.state.Relationships {
		snap.Relationships[bankID] = *rel
	}
	return snap
}

// History returns the in-memory record of terminated loans, newest last.
func (u *Lifecycle) History() []domain.Loan {
	return u.state.LoanHistory
}
