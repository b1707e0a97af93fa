package finance

// LoanCategory classifies a loan offer.
type LoanCategory string

const (
	CategoryStarter     LoanCategory = "starter"
	CategoryBusiness    LoanCategory = "business"
	CategoryAcquisition LoanCategory = "acquisition"
	CategoryDevelopment LoanCategory = "development"
	CategoryPremium     LoanCategory = "premium"
)

// LoanType is one offer within a bank's catalog. Immutable data; whether the
// player can see it depends on level and the unlocked-type set.
type LoanType struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Category      LoanCategory `json:"category"`
	MinLevel      int          `json:"min_level"`
	MinAmount     float64      `json:"min_amount"`
	BaseMaxAmount float64      `json:"base_max_amount"`
	// BaseRate is the annual rate in percent before adjustments.
	BaseRate    float64 `json:"base_rate"`
	MinDuration int     `json:"min_duration"` // months
	MaxDuration int     `json:"max_duration"` // months
	// RequiresCollateral marks offers that need a property pledged against them.
	RequiresCollateral bool `json:"requires_collateral"`
	// RelationshipDiscount is the rate reduction per relationship point.
	RelationshipDiscount float64 `json:"relationship_discount"`
}

// MaxAmountForLevel scales the offer ceiling with player level.
func (lt LoanType) MaxAmountForLevel(level int) float64 {
	if level < 1 {
		level = 1
	}
	return lt.BaseMaxAmount * float64(level)
}

// Bank is immutable catalog data. Which banks a player has unlocked is
// tracked separately in FinanceState.
type Bank struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Rating      int    `json:"rating"`
	UnlockLevel int    `json:"unlock_level"`
	// MinRelationship is the score below which the bank stops offering loans
	// to the player, even once unlocked.
	MinRelationship int        `json:"min_relationship"`
	LoanTypes       []LoanType `json:"loan_types"`
}

// FindLoanType looks up an offer by id.
func (b Bank) FindLoanType(id string) (LoanType, bool) {
	for _, lt := range b.LoanTypes {
		if lt.ID == id {
			return lt, true
		}
	}
	return LoanType{}, false
}

// FindBank looks up a bank by id in a catalog.
func FindBank(catalog []Bank, id string) (Bank, bool) {
	for _, b := range catalog {
		if b.ID == id {
			return b, true
		}
	}
	return Bank{}, false
}
