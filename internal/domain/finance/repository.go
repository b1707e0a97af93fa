package finance

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// LoanRecord is the archive row written when a loan terminates.
type LoanRecord struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// Public identifier (32-char lowercase hex), shared with the sim entity.
	LoanID       string `gorm:"column:loan_id;type:char(32);not null;uniqueIndex:ux_loan_records_loan_id" json:"loan_id"`
	BankID       string `gorm:"column:bank_id;size:32;not null;index" json:"bank_id"`
	BankName     string `gorm:"column:bank_name;size:64;not null" json:"bank_name"`
	LoanTypeID   string `gorm:"column:loan_type_id;size:32;not null" json:"loan_type_id"`
	LoanTypeName string `gorm:"column:loan_type_name;size:64;not null" json:"loan_type_name"`
	Category     string `gorm:"column:category;size:16;not null" json:"category"`

	OriginalAmount    float64 `gorm:"column:original_amount" json:"original_amount"`
	InterestRate      float64 `gorm:"column:interest_rate" json:"interest_rate"`
	DurationMonths    int     `gorm:"column:duration_months" json:"duration_months"`
	EMIAmount         float64 `gorm:"column:emi_amount" json:"emi_amount"`
	TotalInterestPaid float64 `gorm:"column:total_interest_paid" json:"total_interest_paid"`
	PenaltyPaid       float64 `gorm:"column:penalty_paid" json:"penalty_paid"`
	PenaltyCount      int     `gorm:"column:penalty_count" json:"penalty_count"`
	CompletionType    string  `gorm:"column:completion_type;size:8;not null" json:"completion_type"`

	StartedAt time.Time      `gorm:"column:started_at" json:"started_at"`
	ClosedAt  time.Time      `gorm:"column:closed_at;index" json:"closed_at"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (LoanRecord) TableName() string { return "loan_records" }

// NewLoanRecord builds the archive row for a terminated loan. penaltyPaid is
// the pre-closure surcharge, 0 for full-term completions.
func NewLoanRecord(l *Loan, completion CompletionType, penaltyPaid float64, closedAt time.Time) *LoanRecord {
	return &LoanRecord{
		LoanID:            l.LoanID,
		BankID:            l.BankID,
		BankName:          l.BankName,
		LoanTypeID:        l.LoanTypeID,
		LoanTypeName:      l.LoanTypeName,
		Category:          string(l.Category),
		OriginalAmount:    l.OriginalAmount,
		InterestRate:      l.InterestRate,
		DurationMonths:    l.DurationMonths,
		EMIAmount:         l.EMIAmount,
		TotalInterestPaid: l.TotalInterestPaid,
		PenaltyPaid:       penaltyPaid,
		PenaltyCount:      l.PenaltyCount,
		CompletionType:    string(completion),
		StartedAt:         l.StartDate,
		ClosedAt:          closedAt,
	}
}

// RelationshipRecord is the per-bank relationship snapshot, upserted whenever
// a loan terminates.
type RelationshipRecord struct {
	BankID         string    `gorm:"column:bank_id;type:char(32);primaryKey" json:"bank_id"`
	Score          int       `gorm:"column:score" json:"score"`
	PaymentsMade   int       `gorm:"column:payments_made" json:"payments_made"`
	PaymentsMissed int       `gorm:"column:payments_missed" json:"payments_missed"`
	LoansCompleted int       `gorm:"column:loans_completed" json:"loans_completed"`
	FirstUnlocked  time.Time `gorm:"column:first_unlocked" json:"first_unlocked"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (RelationshipRecord) TableName() string { return "relationship_records" }

// NewRelationshipRecord snapshots an in-sim relationship.
func NewRelationshipRecord(rel *BankRelationship) *RelationshipRecord {
	return &RelationshipRecord{
		BankID:         rel.BankID,
		Score:          rel.Score,
		PaymentsMade:   rel.PaymentsMade,
		PaymentsMissed: rel.PaymentsMissed,
		LoansCompleted: rel.LoansCompleted,
		FirstUnlocked:  rel.FirstUnlocked,
	}
}

// Archive persists terminated loans and relationship snapshots outside the
// simulation loop. A nil Archive is valid: the lifecycle then keeps history
// in memory only. Archive failures never roll back sim state.
type Archive interface {
	AppendLoan(ctx context.Context, rec *LoanRecord) error
	ListLoans(ctx context.Context, limit int) ([]LoanRecord, error)
	SaveRelationship(ctx context.Context, rec *RelationshipRecord) error
}
