package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"plenio/internal/auth"
	"plenio/internal/core"
	"plenio/internal/icons"
)

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.GetUserID(r.Context())

	var category core.Category
	if err := readJSON(r, &category); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category.ID = uuid.NewString()
	category.UserID = uid
	category.Name = sanitizeInput(category.Name)
	category.CreatedAt = time.Now().UTC()
	if category.Icon == "" {
		category.Icon = icons.Suggest(category.Name)
	}

	if err := category.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.CreateCategory(r.Context(), category); err != nil {
		writeStoreError(w, r, err, "category")
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.GetUserID(r.Context())

	categories, err := s.store.ListCategories(r.Context(), uid)
	if err != nil {
		writeStoreError(w, r, err, "categories")
		return
	}
	if categories == nil {
		categories = []core.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.GetUserID(r.Context())
	id := r.PathValue("id")

	existing, err := s.store.GetCategory(r.Context(), uid, id)
	if err != nil {
		writeStoreError(w, r, err, "category")
		return
	}

	var patch core.Category
	if err := readJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	existing.Name = sanitizeInput(patch.Name)
	existing.Icon = patch.Icon
	existing.Type = patch.Type

	if err := existing.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.UpdateCategory(r.Context(), existing); err != nil {
		writeStoreError(w, r, err, "category")
		return
	}
	writeJSON(w, http.StatusOK, existing)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.GetUserID(r.Context())
	id := r.PathValue("id")

	if err := s.store.DeleteCategory(r.Context(), uid, id); err != nil {
		writeStoreError(w, r, err, "category")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}
