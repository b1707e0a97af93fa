package finance

// Bank ids of the built-in catalog.
const (
	BankCity       = "city"
	BankNational   = "national"
	BankInvestment = "investment"
	BankPremier    = "premier"
)

// LoanTypeDevelopment is the collateralized offer unlocked by owning property.
const LoanTypeDevelopment = "national-development"

// DefaultCatalog returns the built-in bank roster. City Bank is available
// from the start; the others are unlocked by the progression checkpoints in
// DefaultUnlockRules.
func DefaultCatalog() []Bank {
	return []Bank{
		{
			ID:          BankCity,
			Name:        "City Bank",
			Rating:      4,
			UnlockLevel: 1,
			LoanTypes: []LoanType{
				{ID: "city-quick", Name: "Quick Loan", Category: CategoryStarter, MinLevel: 1,
					MinAmount: 10_000, BaseMaxAmount: 100_000, BaseRate: 8.5,
					MinDuration: 6, MaxDuration: 12, RelationshipDiscount: 0.01},
				{ID: "city-property", Name: "Property Loan", Category: CategoryAcquisition, MinLevel: 2,
					MinAmount: 50_000, BaseMaxAmount: 100_000, BaseRate: 7.0,
					MinDuration: 12, MaxDuration: 24, RelationshipDiscount: 0.01},
				{ID: "city-business", Name: "Business Loan", Category: CategoryBusiness, MinLevel: 3,
					MinAmount: 80_000, BaseMaxAmount: 100_000, BaseRate: 6.0,
					MinDuration: 24, MaxDuration: 36, RelationshipDiscount: 0.015},
			},
		},
		{
			ID:          BankNational,
			Name:        "National Bank",
			Rating:      5,
			UnlockLevel: 3,
			LoanTypes: []LoanType{
				{ID: "national-starter", Name: "Starter Loan", Category: CategoryStarter, MinLevel: 3,
					MinAmount: 20_000, BaseMaxAmount: 150_000, BaseRate: 7.5,
					MinDuration: 6, MaxDuration: 12, RelationshipDiscount: 0.01},
				{ID: "national-growth", Name: "Growth Loan", Category: CategoryAcquisition, MinLevel: 3,
					MinAmount: 60_000, BaseMaxAmount: 150_000, BaseRate: 6.5,
					MinDuration: 12, MaxDuration: 24, RelationshipDiscount: 0.015},
				{ID: "national-enterprise", Name: "Enterprise Loan", Category: CategoryBusiness, MinLevel: 4,
					MinAmount: 100_000, BaseMaxAmount: 150_000, BaseRate: 5.5,
					MinDuration: 24, MaxDuration: 36, RelationshipDiscount: 0.02},
				{ID: LoanTypeDevelopment, Name: "Development Loan", Category: CategoryDevelopment, MinLevel: 2,
					MinAmount: 100_000, BaseMaxAmount: 200_000, BaseRate: 6.8,
					MinDuration: 12, MaxDuration: 36, RequiresCollateral: true, RelationshipDiscount: 0.015},
			},
		},
		{
			ID:          BankInvestment,
			Name:        "Investment Bank",
			Rating:      3,
			UnlockLevel: 5,
			LoanTypes: []LoanType{
				{ID: "investment-micro", Name: "Micro Loan", Category: CategoryStarter, MinLevel: 5,
					MinAmount: 10_000, BaseMaxAmount: 80_000, BaseRate: 9.0,
					MinDuration: 6, MaxDuration: 6, RelationshipDiscount: 0.005},
				{ID: "investment-standard", Name: "Standard Loan", Category: CategoryBusiness, MinLevel: 5,
					MinAmount: 40_000, BaseMaxAmount: 80_000, BaseRate: 8.0,
					MinDuration: 6, MaxDuration: 12, RelationshipDiscount: 0.01},
				{ID: "investment-premium", Name: "Premium Loan", Category: CategoryPremium, MinLevel: 6,
					MinAmount: 60_000, BaseMaxAmount: 80_000, BaseRate: 7.0,
					MinDuration: 12, MaxDuration: 18, RelationshipDiscount: 0.015},
			},
		},
		{
			ID:              BankPremier,
			Name:            "Premier Capital",
			Rating:          5,
			UnlockLevel:     8,
			MinRelationship: 60,
			LoanTypes: []LoanType{
				{ID: "premier-wealth", Name: "Wealth Line", Category: CategoryPremium, MinLevel: 8,
					MinAmount: 200_000, BaseMaxAmount: 300_000, BaseRate: 5.5,
					MinDuration: 12, MaxDuration: 36, RelationshipDiscount: 0.02},
				{ID: "premier-empire", Name: "Empire Loan", Category: CategoryPremium, MinLevel: 9,
					MinAmount: 300_000, BaseMaxAmount: 400_000, BaseRate: 5.0,
					MinDuration: 24, MaxDuration: 36, RequiresCollateral: true, RelationshipDiscount: 0.02},
			},
		},
	}
}

// AvailableBanks filters a catalog down to what the player can currently see:
// unlocked banks at or below the player's level whose relationship (if any)
// meets the bank's minimum, with each bank's offers narrowed to the player's
// level and the unlocked-type set. Pure function of its inputs.
func AvailableBanks(catalog []Bank, unlockedBanks, unlockedTypes map[string]bool, playerLevel int, relationships map[string]*BankRelationship) []Bank {
	out := make([]Bank, 0, len(catalog))
	for _, b := range catalog {
		if !unlockedBanks[b.ID] || playerLevel < b.UnlockLevel {
			continue
		}
		if rel, ok := relationships[b.ID]; ok && rel.Score < b.MinRelationship {
			continue
		}

		types := make([]LoanType, 0, len(b.LoanTypes))
		for _, lt := range b.LoanTypes {
			if lt.MinLevel > playerLevel {
				continue
			}
			if lt.Category == CategoryDevelopment && !unlockedTypes[lt.ID] {
				continue
			}
			types = append(types, lt)
		}
		b.LoanTypes = types
		out = append(out, b)
	}
	return out
}

// UnlockRule maps a progression threshold to an unlock action. The tick
// processor evaluates these each time level or property count changes; the
// catalog itself stays a pure filter over already-unlocked sets.
type UnlockRule struct {
	// Level unlocks when the player reaches this level (0 = not level-gated).
	Level int
	// MinProperties unlocks when the player owns at least this many
	// properties (0 = not property-gated).
	MinProperties int
	BankID        string
	LoanTypeID    string
	Message       string
}

// DefaultUnlockRules returns the progression checkpoints for the built-in
// catalog.
func DefaultUnlockRules() []UnlockRule {
	return []UnlockRule{
		{Level: 3, BankID: BankNational, Message: "National Bank is now available"},
		{Level: 5, BankID: BankInvestment, Message: "Investment Bank is now available"},
		{Level: 8, BankID: BankPremier, Message: "Premier Capital is now available"},
		{MinProperties: 1, LoanTypeID: LoanTypeDevelopment, Message: "Development loans are now available"},
	}
}
