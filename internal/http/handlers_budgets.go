package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"plenio/internal/auth"
	"plenio/internal/core"
)

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.GetUserID(r.Context())

	var budget core.Budget
	if err := readJSON(r, &budget); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	budget.ID = uuid.NewString()
	budget.UserID = uid
	budget.CreatedAt = time.Now().UTC()

	if err := budget.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.CreateBudget(r.Context(), budget); err != nil {
		writeStoreError(w, r, err, "budget")
		return
	}
	s.invalidateUserCaches(uid)
	writeJSON(w, http.StatusOK, budget)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.GetUserID(r.Context())

	budgets, err := s.store.ListBudgets(r.Context(), uid)
	if err != nil {
		writeStoreError(w, r, err, "budgets")
		return
	}
	if budgets == nil {
		budgets = []core.Budget{}
	}
	writeJSON(w, http.StatusOK, budgets)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.GetUserID(r.Context())
	id := r.PathValue("id")

	existing, err := s.store.GetBudget(r.Context(), uid, id)
	if err != nil {
		writeStoreError(w, r, err, "budget")
		return
	}

	var patch core.Budget
	if err := readJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	existing.CategoryID = patch.CategoryID
	existing.Amount = patch.Amount
	existing.Period = patch.Period

	if err := existing.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.UpdateBudget(r.Context(), existing); err != nil {
		writeStoreError(w, r, err, "budget")
		return
	}
	s.invalidateUserCaches(uid)
	writeJSON(w, http.StatusOK, existing)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.GetUserID(r.Context())
	id := r.PathValue("id")

	if err := s.store.DeleteBudget(r.Context(), uid, id); err != nil {
		writeStoreError(w, r, err, "budget")
		return
	}
	s.invalidateUserCaches(uid)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Budget deleted"})
}
