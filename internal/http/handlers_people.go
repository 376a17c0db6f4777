package http

import (
	"net/http"

	"financas/internal/core"
)

func (s *Server) handleListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := s.store.ListPeople(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if people == nil {
		people = []core.Person{}
	}
	writeJSON(w, http.StatusOK, people)
}

type createPersonRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	var req createPersonRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := s.store.CreatePerson(r.Context(), core.Person{Name: req.Name})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeletePerson(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
