package game

import "testing"

func TestDebit(t *testing.T) {
	s := &State{Balance: 100}

	if !s.Debit(60) {
		t.Fatal("debit within balance should succeed")
	}
	if s.Balance != 40 {
		t.Fatalf("balance = %v, want 40", s.Balance)
	}

	// Overdraft attempts leave the balance untouched
	if s.Debit(50) {
		t.Fatal("debit beyond balance should fail")
	}
	if s.Balance != 40 {
		t.Fatalf("balance = %v, want 40 after rejected debit", s.Balance)
	}

	// Exact balance is spendable
	if !s.Debit(40) {
		t.Fatal("debit of exact balance should succeed")
	}
	if s.Balance != 0 {
		t.Fatalf("balance = %v, want 0", s.Balance)
	}
}

func TestPassiveIncome(t *testing.T) {
	s := &State{Level: 2, PropertyCount: 3}
	if got := s.PassiveIncome(); got != 300 {
		t.Fatalf("income = %v, want 300", got)
	}
	s.PropertyCount = 0
	if got := s.PassiveIncome(); got != 0 {
		t.Fatalf("income with no properties = %v, want 0", got)
	}
}
