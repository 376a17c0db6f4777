package core

import "sort"

// MonthItems selects the transactions whose due date falls in the period.
// Entries with an unparseable due date are skipped rather than failing the
// whole view. Input order is preserved.
func MonthItems(items []Transaction, p Period) []Transaction {
	out := make([]Transaction, 0, len(items))
	for _, it := range items {
		if p.Contains(it.DueDate) {
			out = append(out, it)
		}
	}
	return out
}

// MonthView is the ordered list the interface renders: the month's items
// ascending by due date, optionally restricted to open installments. The
// sort is stable so same-day entries keep their storage order and the list
// does not visually reorder between refreshes.
//
// Totals and paid/open statistics must be computed from MonthItems, not
// from this filtered view, so the display filter cannot skew them.
func MonthView(items []Transaction, p Period, onlyOpenInstallments bool) []Transaction {
	month := MonthItems(items, p)
	out := make([]Transaction, len(month))
	copy(out, month)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate < out[j].DueDate
	})
	if !onlyOpenInstallments {
		return out
	}
	filtered := out[:0]
	for _, it := range out {
		if it.Installment != nil && !it.Paid {
			filtered = append(filtered, it)
		}
	}
	return filtered
}

// GroupItems returns every member of an installment group, in storage order.
func GroupItems(items []Transaction, groupID string) []Transaction {
	var out []Transaction
	for _, it := range items {
		if it.Installment != nil && it.Installment.GroupID == groupID {
			out = append(out, it)
		}
	}
	return out
}

// OpenMonthInstallments returns the month's installment entries still open,
// the set targeted by "mark all installments of this month paid".
func OpenMonthInstallments(items []Transaction, p Period) []Transaction {
	var out []Transaction
	for _, it := range MonthItems(items, p) {
		if it.Installment != nil && !it.Paid {
			out = append(out, it)
		}
	}
	return out
}
