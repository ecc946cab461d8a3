package handler

import (
	"dcasassess/internal/model"
	"dcasassess/internal/service"
	"dcasassess/internal/transport/rest/middleware"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

const sessionCookieMaxAge = 30 * 24 * 60 * 60

// SessionHandler handles the assessment session endpoints
type SessionHandler struct {
	sessionSvc *service.SessionService
	userSvc    *service.UserService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService, userSvc *service.UserService) *SessionHandler {
	return &SessionHandler{
		sessionSvc: sessionSvc,
		userSvc:    userSvc,
	}
}

// RegisterUser handles POST /v1/assessment/user
func (h *SessionHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userSvc.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// Start handles POST /v1/sessions
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req model.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.sessionSvc.Start(r.Context(), req, requestMetadata(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	setSessionCookie(w, resp.Token)
	writeJSON(w, http.StatusCreated, resp)
}

// SubmitDirect handles POST /v1/sessions/direct
func (h *SessionHandler) SubmitDirect(w http.ResponseWriter, r *http.Request) {
	var req model.DirectSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.sessionSvc.SubmitDirect(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	setSessionCookie(w, resp.Token)
	writeJSON(w, http.StatusCreated, resp)
}

// Get handles GET /v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	view, err := h.sessionSvc.Get(r.Context(), middleware.GetCaller(r.Context()), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Action handles POST /v1/sessions/{id} with action save_answer or complete
func (h *SessionHandler) Action(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	caller := middleware.GetCaller(r.Context())

	var req model.SessionActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch req.Action {
	case "save_answer":
		if err := h.sessionSvc.SaveAnswer(r.Context(), caller, id, req.QuestionID, req.Answer); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	case "complete":
		score, err := h.sessionSvc.Complete(r.Context(), caller, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"score":   score,
		})

	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}

// Abandon handles POST /v1/sessions/{id}/abandon (admin only)
func (h *SessionHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.sessionSvc.Abandon(r.Context(), middleware.GetCaller(r.Context()), id); err != nil {
		writeServiceError(w, err)
		return
	}
	log.Printf("[Session] %s abandoned by admin %s", id, middleware.GetAdminID(r.Context()))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func requestMetadata(r *http.Request) model.SessionMetadata {
	ip := r.Header.Get("X-Forwarded-For")
	if ip != "" {
		ip = strings.TrimSpace(strings.Split(ip, ",")[0])
	} else if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	return model.SessionMetadata{
		IP:        ip,
		UserAgent: r.UserAgent(),
	}
}
