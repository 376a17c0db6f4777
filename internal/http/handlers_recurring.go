package http

import (
	"errors"
	"net/http"
	"time"

	"financas/internal/core"
)

type createRecurringRequest struct {
	Name           string `json:"name"`
	Type           string `json:"type"`
	Amount         Amount `json:"amount"`
	Category       string `json:"category"`
	DueDay         int    `json:"dueDay"`
	IsCardPurchase bool   `json:"isCardPurchase"`
	CardName       string `json:"cardName"`
	PersonName     string `json:"personName"`
	IsVariable     bool   `json:"isVariable"`
}

func (s *Server) handleListRecurrings(w http.ResponseWriter, r *http.Request) {
	templates, err := s.store.ListRecurrings(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if templates == nil {
		templates = []core.RecurringTemplate{}
	}
	writeJSON(w, http.StatusOK, templates)
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req createRecurringRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := s.store.CreateRecurring(r.Context(), core.RecurringTemplate{
		Name:           req.Name,
		Type:           core.TransactionType(req.Type),
		Amount:         req.Amount.Money(),
		Category:       req.Category,
		DueDay:         req.DueDay,
		IsCardPurchase: req.IsCardPurchase,
		CardName:       req.CardName,
		PersonName:     req.PersonName,
		IsVariable:     req.IsVariable,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteRecurring(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type applyRecurringRequest struct {
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Amount Amount `json:"amount"`
}

func (s *Server) handleApplyRecurring(w http.ResponseWriter, r *http.Request) {
	var req applyRecurringRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	params := ParseMonthParams(r.URL.Query())
	p := params.Period()
	if req.Year != 0 && req.Month >= 1 && req.Month <= 12 {
		p = core.Period{Year: req.Year, Month: time.Month(req.Month)}
	}

	id, err := s.recurring.Apply(r.Context(), r.PathValue("id"), p, req.Amount.Money())
	if errors.Is(err, core.ErrAlreadyApplied) {
		// Already materialized this month; informational, not a failure.
		writeJSON(w, http.StatusOK, map[string]any{"applied": false})
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.snapshotCache.Clear()
	writeJSON(w, http.StatusCreated, map[string]any{"applied": true, "id": id})
}

func (s *Server) handleApplyAllRecurrings(w http.ResponseWriter, r *http.Request) {
	params := ParseMonthParams(r.URL.Query())

	applied, skipped, err := s.recurring.ApplyAll(r.Context(), params.Period())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.snapshotCache.Clear()
	writeJSON(w, http.StatusOK, map[string]int{"applied": applied, "skipped": skipped})
}
