package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"plenio/internal/auth"
	"plenio/internal/core"
)

func (s *Server) handleCreatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.GetUserID(r.Context())

	var method core.PaymentMethod
	if err := readJSON(r, &method); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	method.ID = uuid.NewString()
	method.UserID = uid
	method.Name = sanitizeInput(method.Name)
	method.CreatedAt = time.Now().UTC()

	if err := method.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.CreatePaymentMethod(r.Context(), method); err != nil {
		writeStoreError(w, r, err, "payment method")
		return
	}
	s.invalidateUserCaches(uid)
	writeJSON(w, http.StatusOK, method)
}

func (s *Server) handleListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.GetUserID(r.Context())

	methods, err := s.store.ListPaymentMethods(r.Context(), uid)
	if err != nil {
		writeStoreError(w, r, err, "payment methods")
		return
	}
	if methods == nil {
		methods = []core.PaymentMethod{}
	}
	writeJSON(w, http.StatusOK, methods)
}

func (s *Server) handleUpdatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.GetUserID(r.Context())
	id := r.PathValue("id")

	existing, err := s.store.GetPaymentMethod(r.Context(), uid, id)
	if err != nil {
		writeStoreError(w, r, err, "payment method")
		return
	}

	var patch core.PaymentMethod
	if err := readJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	existing.Name = sanitizeInput(patch.Name)
	existing.Icon = patch.Icon
	existing.Type = patch.Type
	existing.Balance = patch.Balance

	if err := existing.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.UpdatePaymentMethod(r.Context(), existing); err != nil {
		writeStoreError(w, r, err, "payment method")
		return
	}
	s.invalidateUserCaches(uid)
	writeJSON(w, http.StatusOK, existing)
}

func (s *Server) handleDeletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.GetUserID(r.Context())
	id := r.PathValue("id")

	if err := s.store.DeletePaymentMethod(r.Context(), uid, id); err != nil {
		writeStoreError(w, r, err, "payment method")
		return
	}
	s.invalidateUserCaches(uid)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Payment method deleted"})
}
