package http

import (
	"net/http"
	"time"

	"plenio/internal/auth"
	"plenio/internal/core"
	"plenio/internal/icons"
)

func (s *Server) handleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.GetUserID(r.Context())

	var profile core.UserProfile
	if err := readJSON(r, &profile); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if profile.UID != uid {
		writeError(w, http.StatusForbidden, "unauthorized")
		return
	}

	profile.Name = sanitizeInput(profile.Name)
	profile.Phone = sanitizeInput(profile.Phone)
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}

	// Verified token claims fill in what the client omitted.
	if info, ok := auth.GetInfo(r.Context()); ok {
		if profile.Email == "" {
			profile.Email = info.Email
		}
		if profile.Name == "" {
			profile.Name = info.Name
		}
	}

	if err := s.store.UpsertProfile(r.Context(), profile); err != nil {
		writeStoreError(w, r, err, "profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.GetUserID(r.Context())

	profile, err := s.store.GetProfile(r.Context(), uid)
	if err != nil {
		writeStoreError(w, r, err, "profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type iconSuggestionRequest struct {
	CategoryName string `json:"categoryName"`
}

type iconSuggestionResponse struct {
	SuggestedIcon string `json:"suggestedIcon"`
}

func (s *Server) handleSuggestIcon(w http.ResponseWriter, r *http.Request) {
	var req iconSuggestionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, iconSuggestionResponse{SuggestedIcon: icons.Suggest(req.CategoryName)})
}
