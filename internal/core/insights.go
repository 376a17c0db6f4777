package core

import "fmt"

// Trend heuristic knobs: a category is flagged when the current month
// exceeds 1.2x its trailing average, and the suggested ceiling is 0.9x the
// current spend. These are policy, not statistics.
const (
	trailingMonths    = 2
	topCategories     = 6
	increaseThreshold = 1.2
	reductionTarget   = 0.9
)

// Suggestion is one spending insight for the summary view.
type Suggestion struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Insights holds the month's top categories and the derived suggestions.
type Insights struct {
	TopCategories []NamedAmount `json:"topCategories"`
	Suggestions   []Suggestion  `json:"suggestions"`
}

// ComputeInsights compares the current month's category spend against the
// average of the prior trailing months. Each of the top current categories
// whose spend exceeds the threshold gets a warning with a reduction target.
// When nothing crosses the threshold, a single generic suggestion names the
// largest category instead.
func ComputeInsights(history []Transaction, p Period) Insights {
	current := ByCategory(MonthItems(history, p))

	prior := MonthWindow(p, trailingMonths+1)[1:]
	prevTotals := make(map[string]int64)
	for _, it := range history {
		if it.Type != Expense {
			continue
		}
		hit := false
		for _, pm := range prior {
			if pm.Contains(it.DueDate) {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		prevTotals[CategoryKey(it.Category)] += it.Amount.Cents
	}

	insights := Insights{TopCategories: current}

	top := current
	if len(top) > topCategories {
		top = top[:topCategories]
	}
	for _, cat := range top {
		avg := float64(prevTotals[cat.Name]) / float64(len(prior))
		if float64(cat.Amount.Cents) <= avg*increaseThreshold {
			continue
		}
		target := Money{Cents: int64(float64(cat.Amount.Cents)*reductionTarget + 0.5)}
		insights.Suggestions = append(insights.Suggestions, Suggestion{
			Title: fmt.Sprintf("Você aumentou em %s", cat.Name),
			Text: fmt.Sprintf("Este mês: %s | média dos últimos %d meses: %s. Tente limitar para ~ %s.",
				cat.Amount.BRL(), trailingMonths, Money{Cents: int64(avg + 0.5)}.BRL(), target.BRL()),
		})
	}

	if len(insights.Suggestions) == 0 && len(current) > 0 {
		top1 := current[0]
		insights.Suggestions = append(insights.Suggestions, Suggestion{
			Title: fmt.Sprintf("Seu maior gasto foi em %s", top1.Name),
			Text: fmt.Sprintf("Você gastou %s em %s. Uma boa meta é reduzir 5–10%% no próximo mês.",
				top1.Amount.BRL(), top1.Name),
		})
	}

	return insights
}
