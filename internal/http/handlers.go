package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"financas/internal/core"
	"financas/internal/log"
)

func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	params := ParseMonthParams(r.URL.Query())
	onlyOpen := ParseBool(r.URL.Query(), "onlyOpen")

	key := fmt.Sprintf("%d-%02d-%t", params.Year, params.Month, onlyOpen)
	if snap, ok := s.snapshotCache.Get(key); ok {
		writeJSON(w, http.StatusOK, snap)
		return
	}

	snap, err := s.ledger.Snapshot(r.Context(), params.Period(), onlyOpen)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Month snapshot failed",
			log.FieldYear, params.Year,
			log.FieldMonth, int(params.Month),
			log.FieldError, err)
		writeDomainError(w, err)
		return
	}

	s.snapshotCache.Set(key, snap)
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	params := ParseMonthParams(r.URL.Query())

	insights, err := s.ledger.Insights(r.Context(), params.Period())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Insights failed",
			log.FieldYear, params.Year,
			log.FieldMonth, int(params.Month),
			log.FieldError, err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

type createTransactionRequest struct {
	Type           string `json:"type"`
	Amount         Amount `json:"amount"`
	Category       string `json:"category"`
	Note           string `json:"note"`
	DueDate        string `json:"dueDate"`
	Paid           bool   `json:"paid"`
	IsCardPurchase bool   `json:"isCardPurchase"`
	CardName       string `json:"cardName"`
	PersonName     string `json:"personName"`
	Installments   int    `json:"installments"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tx := core.Transaction{
		Type:           core.TransactionType(req.Type),
		Amount:         req.Amount.Money(),
		Category:       req.Category,
		Note:           req.Note,
		DueDate:        req.DueDate,
		Paid:           req.Paid,
		IsCardPurchase: req.IsCardPurchase,
		CardName:       req.CardName,
		PersonName:     req.PersonName,
	}

	if req.Installments >= 2 {
		start, err := core.ParseISODate(req.DueDate)
		if err != nil {
			writeDomainError(w, core.ErrInvalidDueDate)
			return
		}
		ids, err := s.ledger.AddInstallmentPlan(r.Context(), core.InstallmentPlan{
			Amount:    tx.Amount,
			Count:     req.Installments,
			Start:     core.PeriodOf(start),
			DueDay:    start.Day(),
			FirstPaid: req.Paid,
			Shared:    tx,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		s.snapshotCache.Clear()
		writeJSON(w, http.StatusCreated, map[string]any{"ids": ids})
		return
	}

	id, err := s.ledger.Add(r.Context(), tx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.snapshotCache.Clear()
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleTogglePaid(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	tx, err := s.ledger.TogglePaid(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.snapshotCache.Clear()
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.ledger.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	s.snapshotCache.Clear()
	w.WriteHeader(http.StatusNoContent)
}

type markGroupPaidRequest struct {
	Paid bool `json:"paid"`
}

func (s *Server) handleMarkGroupPaid(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")

	req := markGroupPaidRequest{Paid: true}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	updated, err := s.ledger.MarkGroupPaid(r.Context(), groupID, req.Paid)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.snapshotCache.Clear()
	writeJSON(w, http.StatusOK, map[string]int{"updated": updated})
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")

	deleted, err := s.ledger.DeleteGroup(r.Context(), groupID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.snapshotCache.Clear()
	writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

func (s *Server) handleMarkMonthInstallmentsPaid(w http.ResponseWriter, r *http.Request) {
	params := ParseMonthParams(r.URL.Query())

	updated, err := s.ledger.MarkMonthInstallmentsPaid(r.Context(), params.Period())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.snapshotCache.Clear()
	writeJSON(w, http.StatusOK, map[string]int{"updated": updated})
}
