package http

import (
	"errors"
	"net/http"
	"time"

	"plenio/internal/auth"
	"plenio/internal/core"
	"plenio/internal/store"
)

// listTransactionsLimit caps the transaction list response.
const listTransactionsLimit = 100

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.GetUserID(r.Context())

	var txn core.Transaction
	if err := readJSON(r, &txn); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	txn.ID = ""
	txn.UserID = uid
	txn.Description = sanitizeInput(txn.Description)
	if txn.Date == "" {
		txn.Date = time.Now().UTC().Format("2006-01-02")
	}

	if err := txn.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.txns.Create(r.Context(), txn)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusUnprocessableEntity, "unknown payment method")
		return
	default:
		writeStoreError(w, r, err, "transaction")
		return
	}

	s.invalidateUserCaches(uid)
	writeJSON(w, http.StatusOK, created)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.GetUserID(r.Context())

	txns, err := s.store.ListTransactions(r.Context(), uid, listTransactionsLimit)
	if err != nil {
		writeStoreError(w, r, err, "transactions")
		return
	}
	if txns == nil {
		txns = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txns)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.GetUserID(r.Context())
	id := r.PathValue("id")

	if err := s.txns.Delete(r.Context(), uid, id); err != nil {
		writeStoreError(w, r, err, "transaction")
		return
	}
	s.invalidateUserCaches(uid)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted"})
}
