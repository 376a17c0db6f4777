package services

import (
	"context"
	"errors"
	"fmt"

	"financas/internal/amqp"
	"financas/internal/log"
	"financas/internal/sheets"
	"financas/internal/store"
)

// MirrorProcessor replays store writes against the spreadsheet mirror. Create
// messages are treated as upserts: the old row (if any) is removed before the
// current state is appended, so toggles never duplicate rows.
type MirrorProcessor struct {
	store    store.TransactionStore
	appender sheets.TransactionAppender
	remover  sheets.TransactionRemover
	logger   *log.Logger
}

func NewMirrorProcessor(st store.TransactionStore, appender sheets.TransactionAppender, remover sheets.TransactionRemover, logger *log.Logger) *MirrorProcessor {
	return &MirrorProcessor{
		store:    st,
		appender: appender,
		remover:  remover,
		logger:   logger.WithComponent(log.ComponentMirror),
	}
}

// Handle processes one sync message. Returning an error requeues the message.
func (p *MirrorProcessor) Handle(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	switch msg.Action {
	case amqp.ActionDelete:
		if err := p.remover.RemoveTransaction(ctx, msg.ID); err != nil {
			return fmt.Errorf("remove mirrored transaction %s: %w", msg.ID, err)
		}
		return nil

	case amqp.ActionCreate:
		tx, err := p.store.GetTransaction(ctx, msg.ID)
		if errors.Is(err, store.ErrNotFound) {
			// Deleted between publish and consume. The delete message will
			// clean up the mirror, so this one is safe to drop.
			p.logger.WarnContext(ctx, "Transaction gone before mirror sync, dropping message",
				log.FieldTransaction, msg.ID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("load transaction %s: %w", msg.ID, err)
		}

		if err := p.remover.RemoveTransaction(ctx, msg.ID); err != nil {
			return fmt.Errorf("remove stale mirror row %s: %w", msg.ID, err)
		}
		ref, err := p.appender.AppendTransaction(ctx, tx)
		if err != nil {
			return fmt.Errorf("append transaction %s: %w", msg.ID, err)
		}

		p.logger.InfoContext(ctx, "Mirrored transaction",
			log.FieldTransaction, msg.ID,
			log.FieldMirrorRef, ref)
		return nil

	default:
		return fmt.Errorf("unknown sync action %q", msg.Action)
	}
}
