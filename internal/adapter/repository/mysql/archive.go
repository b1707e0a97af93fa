package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tycoon-backend/internal/domain/finance"
)

// ArchiveRepository persists terminated loans and relationship snapshots.
type ArchiveRepository struct{ db *gorm.DB }

func NewArchiveRepository(db *gorm.DB) *ArchiveRepository { return &ArchiveRepository{db: db} }

var _ finance.Archive = (*ArchiveRepository)(nil)

func (r *ArchiveRepository) AppendLoan(ctx context.Context, rec *finance.LoanRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// ListLoans returns the most recently closed loans first. limit <= 0 means no limit.
func (r *ArchiveRepository) ListLoans(ctx context.Context, limit int) ([]finance.LoanRecord, error) {
	var out []finance.LoanRecord
	q := r.db.WithContext(ctx).Order("closed_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	res := q.Find(&out)
	return out, res.Error
}

// SaveRelationship upserts the per-bank snapshot keyed by bank_id.
func (r *ArchiveRepository) SaveRelationship(ctx context.Context, rec *finance.RelationshipRecord) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "bank_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"score", "payments_made", "payments_missed", "loans_completed", "updated_at",
			}),
		}).
		Create(rec).Error
}
