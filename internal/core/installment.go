package core

import (
	"time"

	"github.com/google/uuid"
)

// Installment count bounds for a split purchase.
const (
	MinInstallments = 2
	MaxInstallments = 48
)

// InstallmentPlan describes a purchase split over consecutive months.
// Shared carries the fields every sibling copies (type, category, note,
// card and person attribution); its Amount and DueDate are ignored.
type InstallmentPlan struct {
	Amount    Money
	Count     int
	Start     Period
	DueDay    int
	FirstPaid bool
	Shared    Transaction
}

// ExpandInstallments generates the plan's sibling transactions: one per
// month starting at the plan's period, each carrying the same fresh group
// id and an index in 1..Count.
//
// Every installment gets round-half-up(amount/count) cents except the last,
// which absorbs the rounding residual so the group sums exactly to the
// original amount (100.00 over 3 is 33.33 + 33.33 + 33.34, never 99.99).
//
// The due day is clamped into each target month, and month arithmetic rolls
// over year boundaries. Validation happens before any record is produced,
// so a bad amount never yields a partial expansion; an amount too small to
// give every sibling at least one cent is rejected the same way.
func ExpandInstallments(plan InstallmentPlan) ([]Transaction, error) {
	if plan.Amount.Cents <= 0 {
		return nil, ErrInvalidAmount
	}
	count := plan.Count
	if count < MinInstallments {
		count = MinInstallments
	}
	if count > MaxInstallments {
		count = MaxInstallments
	}

	per := (plan.Amount.Cents + int64(count)/2) / int64(count)
	last := plan.Amount.Cents - per*int64(count-1)
	if last < 1 {
		// Half-up overshoots on tiny amounts; fall back to a floor split.
		per = plan.Amount.Cents / int64(count)
		last = plan.Amount.Cents - per*int64(count-1)
	}
	if per < 1 || last < 1 {
		return nil, ErrInvalidAmount
	}

	groupID := uuid.NewString()

	now := time.Now().UTC()
	out := make([]Transaction, 0, count)
	for i := 0; i < count; i++ {
		due := ClampDayToMonth(plan.Start.Year, plan.Start.Month+time.Month(i), plan.DueDay)

		tx := plan.Shared
		tx.ID = ""
		tx.Amount = Money{Cents: per}
		if i == count-1 {
			tx.Amount = Money{Cents: last}
		}
		tx.DueDate = FormatISODate(due)
		tx.Paid = i == 0 && plan.FirstPaid
		tx.Installment = &Installment{GroupID: groupID, Index: i + 1, Total: count}
		tx.RecurringID = ""
		tx.CreatedAt = now
		out = append(out, tx)
	}
	return out, nil
}
