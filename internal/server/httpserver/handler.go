package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/greed/internal/common"
	"github.com/dmitrijs2005/greed/internal/server/models"
	"github.com/gorilla/mux"
)

const maxBodySize = 64 << 10

type verifyRequest struct {
	IDToken string `json:"id_token"`
}

type userResponse struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	FirstLogin bool   `json:"first_login"`
}

type verifyResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type completeOnboardingRequest struct {
	UserID int64 `json:"userId"`
}

type completeOnboardingResponse struct {
	Success bool `json:"success"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name, FirstLogin: u.FirstLogin}
}

func (s *HTTPServer) Health(w http.ResponseWriter, r *http.Request) {
	if err := s.health(r.Context()); err != nil {
		s.logger.Warn(r.Context(), "health check failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) VerifyIdentity(w http.ResponseWriter, r *http.Request) {
	provider := mux.Vars(r)["provider"]

	var req verifyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.IDToken) == "" {
		writeError(w, http.StatusBadRequest, "id_token is required")
		return
	}

	user, token, err := s.users.VerifyIdentity(r.Context(), provider, req.IDToken)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUnknownProvider):
			writeError(w, http.StatusNotFound, "unknown identity provider")
		case errors.Is(err, common.ErrInvalidToken):
			s.logger.Info(r.Context(), "identity token rejected", "provider", provider, "error", err)
			writeError(w, http.StatusUnauthorized, "invalid identity token")
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{Token: token, User: toUserResponse(user)})
}

func (s *HTTPServer) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	callerID, _ := userIDFromContext(r.Context())

	var req completeOnboardingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	if err := s.users.CompleteOnboarding(r.Context(), callerID, req.UserID); err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, completeOnboardingResponse{Success: true})
}

func (s *HTTPServer) UserStats(w http.ResponseWriter, r *http.Request) {
	callerID, _ := userIDFromContext(r.Context())

	userID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	stats, err := s.users.Stats(r.Context(), callerID, userID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
