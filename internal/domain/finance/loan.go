package finance

import "time"

type State string

const (
	StateActive    State = "active"
	StateCompleted State = "completed"
	StatePreClosed State = "preclosed"
)

// CompletionType records how an archived loan ended.
type CompletionType string

const (
	CompletionFull  CompletionType = "full"
	CompletionEarly CompletionType = "early"
)

// Credit score bounds and the score a new player starts with.
const (
	MinCreditScore      = 300
	MaxCreditScore      = 850
	StartingCreditScore = 750
)

// NewRelationshipScore is the score seeded when a bank is first unlocked.
const NewRelationshipScore = 50

// DefaultEMIIntervalMS is the simulated length of one repayment month.
const DefaultEMIIntervalMS = 30_000

// Loan is the central mutable entity of the finance subsystem. At most one
// loan per player is in StateActive at any time; terminated loans are
// archived into FinanceState.LoanHistory with a terminal status.
type Loan struct {
	LoanID       string       `json:"loan_id"`
	BankID       string       `json:"bank_id"`
	BankName     string       `json:"bank_name"`
	LoanTypeID   string       `json:"loan_type_id"`
	LoanTypeName string       `json:"loan_type_name"`
	Category     LoanCategory `json:"category"`

	OriginalAmount  float64 `json:"original_amount"`
	RemainingAmount float64 `json:"remaining_amount"` // principal outstanding
	// InterestRate is the annual rate in percent, fixed at origination.
	InterestRate    float64 `json:"interest_rate"`
	DurationMonths  int     `json:"duration_months"`
	RemainingMonths int     `json:"remaining_months"`

	EMIAmount         float64 `json:"emi_amount"`
	TotalInterest     float64 `json:"total_interest"`
	TotalInterestPaid float64 `json:"total_interest_paid"`
	// PreCloseAmount is remaining principal plus the early-payoff penalty,
	// recomputed whenever RemainingAmount changes.
	PreCloseAmount float64 `json:"pre_close_amount"`

	StartDate time.Time `json:"start_date"`
	// PenaltyCount counts consecutive missed scheduled payments.
	PenaltyCount int    `json:"penalty_count"`
	CollateralID string `json:"collateral_id,omitempty"`

	Status State `json:"status"`
}

// RefreshPreCloseAmount recomputes the early payoff total from the current
// outstanding principal.
func (l *Loan) RefreshPreCloseAmount() {
	l.PreCloseAmount = CalculatePreClosureAmount(l.RemainingAmount, DefaultPreClosurePenaltyPct)
}

// BankRelationship tracks a player's standing with one bank. The score gates
// access to higher-tier banks and discounts offered rates.
type BankRelationship struct {
	BankID         string    `json:"bank_id"`
	Score          int       `json:"score"` // 0-100
	PaymentsMade   int       `json:"payments_made"`
	PaymentsMissed int       `json:"payments_missed"`
	LoansCompleted int       `json:"loans_completed"`
	FirstUnlocked  time.Time `json:"first_unlocked"`
}

// Adjust moves the score by delta, clamped to [0, 100].
func (r *BankRelationship) Adjust(delta int) {
	r.Score += delta
	if r.Score > 100 {
		r.Score = 100
	}
	if r.Score < 0 {
		r.Score = 0
	}
}

// FinanceState owns every mutable piece of the finance subsystem. Only the
// lifecycle operations and the tick processor may write to it; the
// surrounding game loop supplies balance, level and property count as inputs.
type FinanceState struct {
	UnlockedBanks     map[string]bool              `json:"unlocked_banks"`
	UnlockedLoanTypes map[string]bool              `json:"unlocked_loan_types"`
	ActiveLoan        *Loan                        `json:"active_loan,omitempty"`
	LoanHistory       []Loan                       `json:"loan_history"`
	CreditScore       int                          `json:"credit_score"`
	Relationships     map[string]*BankRelationship `json:"relationships"`

	// EMI due-timer accounting, in simulation milliseconds.
	EMIDueTimer float64 `json:"emi_due_timer"`
	EMIInterval float64 `json:"emi_interval"`

	LastCheckedLevel  int `json:"last_checked_level"`
	LastPropertyCount int `json:"last_property_count"`
}

// NewFinanceState seeds a fresh player: the starting bank unlocked with a
// neutral relationship, no loan, default credit score.
func NewFinanceState(now time.Time) *FinanceState {
	s := &FinanceState{
		UnlockedBanks:     map[string]bool{BankCity: true},
		UnlockedLoanTypes: map[string]bool{},
		LoanHistory:       make([]Loan, 0),
		CreditScore:       StartingCreditScore,
		Relationships:     map[string]*BankRelationship{},
		EMIInterval:       DefaultEMIIntervalMS,
		LastCheckedLevel:  1,
	}
	s.EnsureRelationship(BankCity, now)
	return s
}

// EnsureRelationship returns the relationship with the given bank, seeding a
// fresh one at NewRelationshipScore when the bank is met for the first time.
func (s *FinanceState) EnsureRelationship(bankID string, now time.Time) *BankRelationship {
	if rel, ok := s.Relationships[bankID]; ok {
		return rel
	}
	rel := &BankRelationship{BankID: bankID, Score: NewRelationshipScore, FirstUnlocked: now}
	s.Relationships[bankID] = rel
	return rel
}

// RelationshipScore returns the score with the given bank, 0 if none exists.
func (s *FinanceState) RelationshipScore(bankID string) int {
	if rel, ok := s.Relationships[bankID]; ok {
		return rel.Score
	}
	return 0
}

// AdjustCredit moves the credit score by delta, clamped to [300, 850].
func (s *FinanceState) AdjustCredit(delta int) {
	s.CreditScore += delta
	if s.CreditScore > MaxCreditScore {
		s.CreditScore = MaxCreditScore
	}
	if s.CreditScore < MinCreditScore {
		s.CreditScore = MinCreditScore
	}
}
