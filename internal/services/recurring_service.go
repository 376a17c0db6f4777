package services

import (
	"context"
	"errors"
	"fmt"

	"financas/internal/core"
	"financas/internal/log"
	"financas/internal/store"
)

// RecurringService materializes recurring bill templates into transactions,
// at most once per template per month.
type RecurringService struct {
	store  store.Store
	ledger *LedgerService
	logger *log.Logger
}

func NewRecurringService(st store.Store, ledger *LedgerService, logger *log.Logger) *RecurringService {
	return &RecurringService{
		store:  st,
		ledger: ledger,
		logger: logger.WithComponent(log.ComponentRecurring),
	}
}

// Apply materializes one template into the given month. For variable
// templates the caller supplies the amount; for fixed ones it is ignored.
// Returns core.ErrAlreadyApplied when the month already has this bill.
func (s *RecurringService) Apply(ctx context.Context, recurringID string, p core.Period, amount core.Money) (string, error) {
	rt, err := s.store.GetRecurring(ctx, recurringID)
	if err != nil {
		return "", err
	}

	if rt.IsVariable {
		if amount.Cents <= 0 {
			return "", core.ErrInvalidAmount
		}
	} else {
		amount = rt.Amount
	}

	dueDate := core.FormatISODate(core.ClampDayToMonth(p.Year, p.Month, rt.DueDay))

	applied, err := s.store.RecurringApplied(ctx, rt.ID, dueDate)
	if err != nil {
		return "", fmt.Errorf("check recurring applied: %w", err)
	}
	if applied {
		return "", core.ErrAlreadyApplied
	}

	tx := core.Transaction{
		Type:           rt.Type,
		Amount:         amount,
		Category:       rt.Category,
		Note:           rt.Name,
		DueDate:        dueDate,
		Paid:           false,
		IsCardPurchase: rt.IsCardPurchase,
		CardName:       rt.CardName,
		PersonName:     rt.PersonName,
		RecurringID:    rt.ID,
	}

	id, err := s.ledger.Add(ctx, tx)
	if err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "Applied recurring template",
		log.FieldRecurringID, rt.ID,
		log.FieldTransaction, id,
		log.FieldDueDate, dueDate)

	return id, nil
}

// ApplyAll materializes every fixed template into the month. Variable
// templates and already-applied months are skipped, not errors.
func (s *RecurringService) ApplyAll(ctx context.Context, p core.Period) (applied, skipped int, err error) {
	templates, err := s.store.ListRecurrings(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list recurrings: %w", err)
	}

	for _, rt := range templates {
		if rt.IsVariable {
			skipped++
			continue
		}
		_, err := s.Apply(ctx, rt.ID, p, core.Money{})
		if errors.Is(err, core.ErrAlreadyApplied) {
			skipped++
			continue
		}
		if err != nil {
			return applied, skipped, fmt.Errorf("apply recurring %s: %w", rt.ID, err)
		}
		applied++
	}
	return applied, skipped, nil
}
