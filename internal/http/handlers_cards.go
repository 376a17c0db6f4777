package http

import (
	"net/http"

	"financas/internal/core"
)

type cardsResponse struct {
	Directory    []string `json:"directory"`
	Autocomplete []string `json:"autocomplete"`
	People       []string `json:"people"`
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	directory, autocomplete, err := s.ledger.Cards(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	people, err := s.store.ListPeople(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := cardsResponse{
		Directory:    directory,
		Autocomplete: autocomplete,
		People:       core.PeopleSuggestions(people),
	}
	if resp.Directory == nil {
		resp.Directory = []string{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCardTab(w http.ResponseWriter, r *http.Request) {
	params := ParseMonthParams(r.URL.Query())
	cardName := r.PathValue("name")
	personFilter := r.URL.Query().Get("person")
	onlyMine := ParseBool(r.URL.Query(), "onlyMine")

	view, err := s.ledger.CardTab(r.Context(), params.Period(), cardName, personFilter, onlyMine)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
