package core

import (
	"sort"
	"strings"
)

// Totals are the month's headline numbers. Balance = Income - Expense.
type Totals struct {
	Income  Money `json:"income"`
	Expense Money `json:"expense"`
	Balance Money `json:"balance"`
}

// PaidOpenStats counts the month's expenses by paid status. Income entries
// have no paid/open state and are excluded entirely.
type PaidOpenStats struct {
	Paid  int `json:"paid"`
	Open  int `json:"open"`
	Total int `json:"total"`
}

// NamedAmount is one bucket of a breakdown (category, card or person).
type NamedAmount struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
}

// GroupStatus is the tri-state paid classification of a set of related
// transactions.
type GroupStatus string

const (
	StatusPaid    GroupStatus = "paid"    // every member paid
	StatusOpen    GroupStatus = "open"    // no member paid
	StatusPartial GroupStatus = "partial" // mixed
)

// CardGroup is one row of the grouped card view: the card purchases sharing
// (card, person, type), with their member count and combined paid status.
type CardGroup struct {
	CardName string          `json:"cardName"`
	Person   string          `json:"person"`
	Type     TransactionType `json:"type"`
	Total    Money           `json:"total"`
	Count    int             `json:"count"`
	Status   GroupStatus     `json:"status"`
}

// PersonDisplay maps the empty "self" sentinel to a printable label.
func PersonDisplay(personName string) string {
	if name := strings.TrimSpace(personName); name != "" {
		return name
	}
	return SelfLabel
}

// ComputeTotals sums the month's income and expenses. Summation stays on
// cents; no intermediate rounding.
func ComputeTotals(items []Transaction) Totals {
	var income, expense int64
	for _, it := range items {
		if it.Type == Income {
			income += it.Amount.Cents
		} else {
			expense += it.Amount.Cents
		}
	}
	return Totals{
		Income:  Money{Cents: income},
		Expense: Money{Cents: expense},
		Balance: Money{Cents: income - expense},
	}
}

// ComputePaidOpenStats counts expense entries by paid status.
func ComputePaidOpenStats(items []Transaction) PaidOpenStats {
	var stats PaidOpenStats
	for _, it := range items {
		if it.Type != Expense {
			continue
		}
		stats.Total++
		if it.Paid {
			stats.Paid++
		} else {
			stats.Open++
		}
	}
	return stats
}

// ByCategory groups the month's expenses by category, blank categories
// falling into the Uncategorized bucket, sorted by amount descending.
func ByCategory(items []Transaction) []NamedAmount {
	sums := make(map[string]int64)
	for _, it := range items {
		if it.Type != Expense {
			continue
		}
		sums[CategoryKey(it.Category)] += it.Amount.Cents
	}
	return sortedBreakdown(sums)
}

/// CategoryKey normalizes a stored category for aggregation: surrounding
// whitespace never splits a bucket and blank means uncategorized.
func CategoryKey(category string) string {
	key := strings.TrimSpace(category)
	if key == "" {
		return UncategorizedLabel
	}
	return key
}

// ByCard groups the month's card-purchase expenses by card name. A blank
// card name on a card purchase lands in the "—" bucket.
func ByCard(items []Transaction) []NamedAmount {
	sums := make(map[string]int64)
	for _, it := range items {
		if it.Type != Expense || !it.IsCardPurchase {
			continue
		}
		key := strings.TrimSpace(it.CardName)
		if key == "" {
			key = BlankCardLabel
		}
		sums[key] += it.Amount.Cents
	}
	return sortedBreakdown(sums)
}

// CardGroupRollup groups card purchases by (card, person, type) and tracks
// the tri-state paid status per group. Toggling a group resolves to "set
// every member to the target boolean", never to flipping the tri-state.
func CardGroupRollup(items []Transaction) []CardGroup {
	type acc struct {
		total      int64
		count      int
		paid, open int
	}
	type key struct {
		card, person string
		typ          TransactionType
	}

	groups := make(map[key]*acc)
	for _, it := range items {
		if !it.IsCardPurchase {
			continue
		}
		card := strings.TrimSpace(it.CardName)
		if card == "" {
			card = BlankCardLabel
		}
		k := key{card: card, person: PersonDisplay(it.PersonName), typ: it.Type}
		g := groups[k]
		if g == nil {
			g = &acc{}
			groups[k] = g
		}
		g.total += it.Amount.Cents
		g.count++
		if it.Paid {
			g.paid++
		} else {
			g.open++
		}
	}

	out := make([]CardGroup, 0, len(groups))
	for k, g := range groups {
		status := StatusPartial
		switch {
		case g.open == 0:
			status = StatusPaid
		case g.paid == 0:
			status = StatusOpen
		}
		out = append(out, CardGroup{
			CardName: k.card,
			Person:   k.person,
			Type:     k.typ,
			Total:    Money{Cents: g.total},
			Count:    g.count,
			Status:   status,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CardName != out[j].CardName {
			return out[i].CardName < out[j].CardName
		}
		if out[i].Person != out[j].Person {
			return out[i].Person < out[j].Person
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// OwedByPerson is the "who owes me" ledger: unpaid card-purchase expenses
// summed by person, descending. The empty person sentinel means the owner's
// own spend and is excluded by definition.
func OwedByPerson(items []Transaction) []NamedAmount {
	sums := make(map[string]int64)
	for _, it := range items {
		if it.Type != Expense || !it.IsCardPurchase || it.Paid {
			continue
		}
		person := strings.TrimSpace(it.PersonName)
		if person == "" {
			continue
		}
		sums[person] += it.Amount.Cents
	}
	return sortedBreakdown(sums)
}

// CardDirectory returns the distinct trimmed card names observed across the
// whole transaction set, sorted. Cards are derived from usage, not stored.
func CardDirectory(items []Transaction) []string {
	seen := make(map[string]struct{})
	for _, it := range items {
		if !it.IsCardPurchase {
			continue
		}
		if name := strings.TrimSpace(it.CardName); name != "" {
			seen[name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// CardAutocomplete merges the default card suggestions with the names
// already in use.
func CardAutocomplete(items []Transaction) []string {
	seen := make(map[string]struct{}, len(CardSuggestions))
	out := make([]string, 0, len(CardSuggestions))
	for _, name := range CardSuggestions {
		seen[name] = struct{}{}
	}
	for _, name := range CardDirectory(items) {
		seen[name] = struct{}{}
	}
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// PeopleSuggestions extracts the trimmed non-empty names from the saved
// people records, preserving their stored order.
func PeopleSuggestions(people []Person) []string {
	out := make([]string, 0, len(people))
	for _, p := range people {
		if name := strings.TrimSpace(p.Name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// CardMonthItems is the card tab view: the month's purchases on one card,
// sorted by due date, optionally narrowed by a person filter. onlyMine
// keeps entries with the empty self attribution; a filter containing "meu"
// matches self entries as well as names containing the text.
func CardMonthItems(monthItems []Transaction, cardName, personFilter string, onlyMine bool) []Transaction {
	var out []Transaction
	for _, it := range monthItems {
		if !it.IsCardPurchase || strings.TrimSpace(it.CardName) != cardName {
			continue
		}
		out = append(out, it)
	}
	if onlyMine {
		kept := out[:0]
		for _, it := range out {
			if strings.TrimSpace(it.PersonName) == "" {
				kept = append(kept, it)
			}
		}
		out = kept
	}
	if pf := strings.ToLower(strings.TrimSpace(personFilter)); pf != "" {
		matchSelf := strings.Contains(pf, "meu")
		kept := out[:0]
		for _, it := range out {
			person := strings.ToLower(strings.TrimSpace(it.PersonName))
			if strings.Contains(person, pf) || (matchSelf && person == "") {
				kept = append(kept, it)
			}
		}
		out = kept
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate < out[j].DueDate
	})
	return out
}

func sortedBreakdown(sums map[string]int64) []NamedAmount {
	out := make([]NamedAmount, 0, len(sums))
	for name, cents := range sums {
		out = append(out, NamedAmount{Name: name, Amount: Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}
