package http

import (
	"log/slog"
	"net/http"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.svc.ListCategories(r.Context())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeData(w, http.StatusOK, cats)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(r.Context(), w, err)
		return
	}

	name, err := s.svc.CreateCategory(r.Context(), req.Name)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	slog.InfoContext(r.Context(), "Category created", "name", name)

	writeData(w, http.StatusCreated, name)
}
