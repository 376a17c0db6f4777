package core

import (
	"strings"
	"testing"
	"time"
)

func TestComputeInsightsFlagsIncrease(t *testing.T) {
	// Mercado averaged 100.00 over the two prior months; 150.00 now is a
	// 1.5x jump, above the 1.2x threshold.
	history := []Transaction{
		{Type: Expense, Amount: Money{Cents: 10000}, Category: "Mercado", DueDate: "2024-01-10"},
		{Type: Expense, Amount: Money{Cents: 10000}, Category: "Mercado", DueDate: "2024-02-10"},
		{Type: Expense, Amount: Money{Cents: 15000}, Category: "Mercado", DueDate: "2024-03-10"},
	}
	got := ComputeInsights(history, Period{Year: 2024, Month: time.March})

	if len(got.Suggestions) != 1 {
		t.Fatalf("expected one suggestion, got %d: %+v", len(got.Suggestions), got.Suggestions)
	}
	s := got.Suggestions[0]
	if !strings.Contains(s.Title, "Mercado") {
		t.Fatalf("suggestion should name the category: %+v", s)
	}
	// Target is 0.9x the current spend: 135.00.
	if !strings.Contains(s.Text, "R$ 135,00") {
		t.Fatalf("suggestion should carry the reduction target: %q", s.Text)
	}
}

func TestComputeInsightsUnderThresholdFallsBack(t *testing.T) {
	// Stable spend: no category crosses the threshold, so the fallback
	// names the single largest one.
	history := []Transaction{
		{Type: Expense, Amount: Money{Cents: 10000}, Category: "Contas", DueDate: "2024-01-05"},
		{Type: Expense, Amount: Money{Cents: 10000}, Category: "Contas", DueDate: "2024-02-05"},
		{Type: Expense, Amount: Money{Cents: 10000}, Category: "Contas", DueDate: "2024-03-05"},
		{Type: Expense, Amount: Money{Cents: 2000}, Category: "Lazer", DueDate: "2024-01-07"},
		{Type: Expense, Amount: Money{Cents: 2000}, Category: "Lazer", DueDate: "2024-02-07"},
		{Type: Expense, Amount: Money{Cents: 2000}, Category: "Lazer", DueDate: "2024-03-07"},
	}
	got := ComputeInsights(history, Period{Year: 2024, Month: time.March})

	if len(got.Suggestions) != 1 {
		t.Fatalf("expected the generic fallback, got %+v", got.Suggestions)
	}
	if !strings.Contains(got.Suggestions[0].Title, "Contas") {
		t.Fatalf("fallback should name the top category: %+v", got.Suggestions[0])
	}
	if len(got.TopCategories) != 2 || got.TopCategories[0].Name != "Contas" {
		t.Fatalf("unexpected top categories: %+v", got.TopCategories)
	}
}

func TestComputeInsightsEmptyMonth(t *testing.T) {
	got := ComputeInsights(nil, Period{Year: 2024, Month: time.March})
	if len(got.Suggestions) != 0 || len(got.TopCategories) != 0 {
		t.Fatalf("expected empty insights, got %+v", got)
	}
}

func TestComputeInsightsMatchesPaddedCategoryHistory(t *testing.T) {
	// The prior months were stored with stray whitespace around the
	// category. They still count as history, so stable spend falls back
	// instead of being flagged as an increase.
	history := []Transaction{
		{Type: Expense, Amount: Money{Cents: 10000}, Category: " Mercado ", DueDate: "2024-01-10"},
		{Type: Expense, Amount: Money{Cents: 10000}, Category: "Mercado ", DueDate: "2024-02-10"},
		{Type: Expense, Amount: Money{Cents: 10000}, Category: "Mercado", DueDate: "2024-03-10"},
	}
	got := ComputeInsights(history, Period{Year: 2024, Month: time.March})

	if len(got.Suggestions) != 1 {
		t.Fatalf("expected the generic fallback, got %+v", got.Suggestions)
	}
	if strings.Contains(got.Suggestions[0].Title, "aumentou") {
		t.Fatalf("stable spend flagged as increase: %+v", got.Suggestions[0])
	}
}

func TestComputeInsightsNewCategoryIsAnIncrease(t *testing.T) {
	// No prior history at all: any current spend beats a zero average.
	history := []Transaction{
		{Type: Expense, Amount: Money{Cents: 5000}, Category: "Lazer", DueDate: "2024-03-15"},
	}
	got := ComputeInsights(history, Period{Year: 2024, Month: time.March})
	if len(got.Suggestions) != 1 || !strings.Contains(got.Suggestions[0].Title, "Lazer") {
		t.Fatalf("expected increase flag for new category: %+v", got.Suggestions)
	}
}
