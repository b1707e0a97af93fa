package finance

// EventType tags each notification variant crossing to the UI layer.
type EventType string

const (
	EventOpenFinance      EventType = "open-finance"
	EventEMIPayment       EventType = "emi-payment"
	EventLoanCompleted    EventType = "loan-completed"
	EventLoanPenalty      EventType = "loan-penalty"
	EventBankUnlocked     EventType = "bank-unlocked"
	EventLoanTypeUnlocked EventType = "loan-type-unlocked"
	EventBalanceUpdate    EventType = "balance-update"
)

// Event is implemented by every notification the finance core emits. The set
// of variants is closed; consumers switch on the concrete type instead of
// string-comparing payload fields.
type Event interface {
	Type() EventType
}

// OpenFinanceEvent carries everything the finance screen renders. Loan and
// relationship fields are value snapshots: consumers marshal and read them off
// the engine goroutine, so nothing here may alias live FinanceState.
type OpenFinanceEvent struct {
	Banks         []Bank                      `json:"banks"`
	ActiveLoan    *Loan                       `json:"active_loan,omitempty"`
	CreditScore   int                         `json:"credit_score"`
	Relationships map[string]BankRelationship `json:"relationships"`
}

func (OpenFinanceEvent) Type() EventType { return EventOpenFinance }

// EMIPaymentEvent is the result of a scheduled or manual EMI attempt.
type EMIPaymentEvent struct {
	Success         bool    `json:"success"`
	Amount          float64 `json:"amount"`
	PrincipalPaid   float64 `json:"principal_paid,omitempty"`
	InterestPaid    float64 `json:"interest_paid,omitempty"`
	RemainingLoan   float64 `json:"remaining_loan"`
	RemainingMonths int     `json:"remaining_months"`
	Balance         float64 `json:"balance"`
	Shortfall       float64 `json:"shortfall,omitempty"`
}

func (EMIPaymentEvent) Type() EventType { return EventEMIPayment }

// LoanCompletedEvent fires when the active loan fully amortizes or is
// pre-closed.
type LoanCompletedEvent struct {
	Loan         Loan             `json:"loan"`
	Relationship BankRelationship `json:"relationship"`
	Message      string           `json:"message"`
}

func (LoanCompletedEvent) Type() EventType { return EventLoanCompleted }

// LoanPenaltyEvent fires after three or more consecutive missed payments.
type LoanPenaltyEvent struct {
	Message       string  `json:"message"`
	PenaltyAmount float64 `json:"penalty_amount"`
	PenaltyCount  int     `json:"penalty_count"`
}

func (LoanPenaltyEvent) Type() EventType { return EventLoanPenalty }

type BankUnlockedEvent struct {
	BankID  string `json:"bank_id"`
	Message string `json:"message"`
}

func (BankUnlockedEvent) Type() EventType { return EventBankUnlocked }

type LoanTypeUnlockedEvent struct {
	LoanTypeID string `json:"loan_type_id"`
	Message    string `json:"message"`
}

func (LoanTypeUnlockedEvent) Type() EventType { return EventLoanTypeUnlocked }

// BalanceUpdateEvent reports passive property income credits.
type BalanceUpdateEvent struct {
	Balance float64 `json:"balance"`
}

func (BalanceUpdateEvent) Type() EventType { return EventBalanceUpdate }

// Sink receives events for delivery to the UI collaborator.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

func (f SinkFunc) Emit(ev Event) { f(ev) }
