// ABOUTME: HTTP handlers for auth, record access and derived analytics
// ABOUTME: Maps service errors to JSON responses and normalizes write payloads

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/focusflow/focusflow/internal/auth"
	"github.com/focusflow/focusflow/internal/records"
	"github.com/focusflow/focusflow/internal/store"
	"github.com/focusflow/focusflow/internal/streaks"
)

// credentialsRequest is the JSON body for register and login.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// listRequest is the JSON body for PUT on list keys. Items stays raw so a
// wrong-shaped payload can be coerced instead of rejected.
type listRequest struct {
	Items json.RawMessage `json:"items"`
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (s *Server) sendJSONError(w http.ResponseWriter, status int, message string) {
	s.sendJSON(w, status, map[string]string{"error": message})
}

// handleHealth handles GET /health. Liveness only.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleAuthStatus handles GET /auth/status.
func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	hasUsers, err := s.authSvc.HasUsers(r.Context())
	if err != nil {
		s.logger.Error("failed to check user count", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]bool{"hasUsers": hasUsers})
}

// handleRegister handles POST /auth/register. Only the very first caller
// may register; success issues a session cookie.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, auth.ErrValidation.Error())
		return
	}

	userID, err := s.authSvc.Register(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrValidation):
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, auth.ErrRegistrationClosed):
		s.sendJSONError(w, http.StatusForbidden, err.Error())
		return
	case errors.Is(err, store.ErrDuplicateEmail):
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	default:
		s.logger.Error("registration failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := s.issueSession(w, userID); err != nil {
		s.logger.Error("failed to issue session", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleLogin handles POST /auth/login. Unknown email and wrong password
// produce identical responses.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, auth.ErrValidation.Error())
		return
	}

	userID, err := s.authSvc.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrValidation):
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		s.sendJSONError(w, http.StatusUnauthorized, err.Error())
		return
	default:
		s.logger.Error("login failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := s.issueSession(w, userID); err != nil {
		s.logger.Error("failed to issue session", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleLogout handles POST /auth/logout. The server keeps no revocation
// list; logout just clears the cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, s.config.Cookie)
	s.sendJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// issueSession generates a session token for the user and sets the cookie.
func (s *Server) issueSession(w http.ResponseWriter, userID string) error {
	token, err := s.verifier.Generate(userID, auth.TokenTTL)
	if err != nil {
		return err
	}
	auth.SetSessionCookie(w, token, s.config.Cookie)
	return nil
}

// getList responds with {"items": [...]} for a list key, defaulting to the
// empty list on absence or unreadable state.
func getList[T any](s *Server, w http.ResponseWriter, r *http.Request, key records.Key) {
	userID := auth.UserFromContext(r.Context())
	items := records.Get(r.Context(), s.store, userID, key, []T{})
	s.sendJSON(w, http.StatusOK, map[string]any{"items": items})
}

// putList replaces a list key with the request's items. A missing or
// wrong-shaped payload is coerced to the empty list rather than rejected.
func putList[T any](s *Server, w http.ResponseWriter, r *http.Request, key records.Key) {
	var req listRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	items := []T{}
	if len(req.Items) > 0 {
		if err := json.Unmarshal(req.Items, &items); err != nil {
			items = []T{}
		}
	}

	userID := auth.UserFromContext(r.Context())
	if err := records.Put(r.Context(), s.store, userID, key, items); err != nil {
		s.logger.Error("failed to write record", "key", key, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]any{"ok": true, "count": len(items)})
}

// getObject responds with the stored object for an object key, defaulting
// to the zero record on absence or unreadable state.
func getObject[T any](s *Server, w http.ResponseWriter, r *http.Request, key records.Key) {
	userID := auth.UserFromContext(r.Context())
	var def T
	value := records.Get(r.Context(), s.store, userID, key, def)
	s.sendJSON(w, http.StatusOK, value)
}

// putObject replaces an object key with the request body. A missing or
// unreadable body is coerced to the zero record rather than rejected.
func putObject[T any](s *Server, w http.ResponseWriter, r *http.Request, key records.Key) {
	var value T
	_ = json.NewDecoder(r.Body).Decode(&value)

	userID := auth.UserFromContext(r.Context())
	if err := records.Put(r.Context(), s.store, userID, key, value); err != nil {
		s.logger.Error("failed to write record", "key", key, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleGetTasks(w http.ResponseWriter, r *http.Request) {
	getList[records.Task](s, w, r, records.KeyTasks)
}

func (s *Server) handlePutTasks(w http.ResponseWriter, r *http.Request) {
	putList[records.Task](s, w, r, records.KeyTasks)
}

func (s *Server) handleGetTags(w http.ResponseWriter, r *http.Request) {
	getList[records.Tag](s, w, r, records.KeyTags)
}

func (s *Server) handlePutTags(w http.ResponseWriter, r *http.Request) {
	putList[records.Tag](s, w, r, records.KeyTags)
}

func (s *Server) handleGetSessions(w http.ResponseWriter, r *http.Request) {
	getList[records.SessionRecord](s, w, r, records.KeySessions)
}

func (s *Server) handlePutSessions(w http.ResponseWriter, r *http.Request) {
	putList[records.SessionRecord](s, w, r, records.KeySessions)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	getObject[records.Settings](s, w, r, records.KeySettings)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	putObject[records.Settings](s, w, r, records.KeySettings)
}

func (s *Server) handleGetChallenge(w http.ResponseWriter, r *http.Request) {
	getObject[records.Challenge](s, w, r, records.KeyChallenge)
}

func (s *Server) handlePutChallenge(w http.ResponseWriter, r *http.Request) {
	putObject[records.Challenge](s, w, r, records.KeyChallenge)
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	getObject[records.Draft](s, w, r, records.KeyDraft)
}

func (s *Server) handlePutDraft(w http.ResponseWriter, r *http.Request) {
	putObject[records.Draft](s, w, r, records.KeyDraft)
}

// handleDeleteTag handles DELETE /tags/{id}. Tag removal is two
// independent writes: the shortened tag list first, then the sessions with
// nulled references. There is no transaction across the two; a crash in
// between can leave sessions pointing at the deleted tag.
func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	tagID := r.PathValue("id")
	if tagID == "" {
		s.sendJSONError(w, http.StatusBadRequest, "tag id required")
		return
	}

	ctx := r.Context()
	userID := auth.UserFromContext(ctx)

	tags := records.Get(ctx, s.store, userID, records.KeyTags, []records.Tag{})
	sessions := records.Get(ctx, s.store, userID, records.KeySessions, []records.SessionRecord{})

	keptTags, rewritten := records.RemoveTag(tags, sessions, tagID)

	if err := records.Put(ctx, s.store, userID, records.KeyTags, keptTags); err != nil {
		s.logger.Error("failed to write tags", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if err := records.Put(ctx, s.store, userID, records.KeySessions, rewritten); err != nil {
		s.logger.Error("failed to rewrite sessions after tag removal", "tag_id", tagID, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.sendJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleStatsStreaks handles GET /stats/streaks: the streak summary
// derived from the stored sessions and the user's streak threshold.
func (s *Server) handleStatsStreaks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := auth.UserFromContext(ctx)

	sessions := records.Get(ctx, s.store, userID, records.KeySessions, []records.SessionRecord{})
	settings := records.Get(ctx, s.store, userID, records.KeySettings, records.DefaultSettings())

	summary := streaks.Compute(sessions, settings.StreakThreshold, s.now())
	s.sendJSON(w, http.StatusOK, summary)
}

// handleStatsChallenge handles GET /stats/challenge: progress over the
// full grid of the stored challenge month.
func (s *Server) handleStatsChallenge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := auth.UserFromContext(ctx)

	sessions := records.Get(ctx, s.store, userID, records.KeySessions, []records.SessionRecord{})
	challenge := records.Get(ctx, s.store, userID, records.KeyChallenge, records.DefaultChallenge(s.now()))

	progress := streaks.ComputeChallenge(sessions, challenge.GoalMinutes, challenge.Year, time.Month(challenge.Month))
	s.sendJSON(w, http.StatusOK, progress)
}
