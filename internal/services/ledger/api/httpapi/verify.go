package httpapi

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/sproutbank/sproutbank/internal/platform/errors"
	"github.com/sproutbank/sproutbank/internal/platform/id"
	"github.com/sproutbank/sproutbank/internal/services/shared/authctx"
	"github.com/sproutbank/sproutbank/internal/services/verification/question"
)

// verifyCookie carries the opaque session key between quiz requests.
const verifyCookie = "sb_verify_session"

type verifyQuestionPayload struct {
	Index   int      `json:"index"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

func toVerifyQuestionPayload(index int, q question.Question) verifyQuestionPayload {
	return verifyQuestionPayload{
		Index:   index,
		Text:    q.Text,
		Options: q.Options[:],
	}
}

// handleVerifyStart begins a quiz for a parent. The session key is issued
// server-side and returned only as an HttpOnly cookie.
func (s *Server) handleVerifyStart(w http.ResponseWriter, r *http.Request) {
	actor, _ := authctx.FromContext(r.Context())
	if !actor.HasRole("PARENT") && !actor.HasRole("ADMIN") {
		s.writeError(w, apperrors.New(apperrors.CodePermissionDenied, "verification is for parents"))
		return
	}

	pool, err := s.questions.Questions(r.Context())
	if err != nil {
		err = apperrors.Wrap(apperrors.CodeUpstreamUnavailable, "question source unavailable", err)
		s.logf("httpapi: %v, using fallback pool", err)
		pool, _ = question.FallbackSource{}.Questions(r.Context())
	} else if poolErr := question.ValidatePool(pool); poolErr != nil {
		s.logf("httpapi: question source returned a bad pool: %v, using fallback pool", poolErr)
		pool, _ = question.FallbackSource{}.Questions(r.Context())
	}

	key, err := id.NewID()
	if err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.CodeUnknown, "issue session key", err))
		return
	}
	if err := s.sessions.Create(key, pool); err != nil {
		s.writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     verifyCookie,
		Value:    key,
		Path:     "/api/verify-parent",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	index, q, ok := s.sessions.NextQuestion(key)
	if !ok {
		s.writeError(w, apperrors.New(apperrors.CodeUnknown, "session vanished before first question"))
		return
	}
	writeJSON(w, http.StatusOK, toVerifyQuestionPayload(index, q))
}

func (s *Server) sessionKey(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(verifyCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (s *Server) handleVerifyNext(w http.ResponseWriter, r *http.Request) {
	key, ok := s.sessionKey(r)
	if !ok {
		s.writeError(w, apperrors.New(apperrors.CodeNotFound, "no verification session"))
		return
	}
	index, q, ok := s.sessions.NextQuestion(key)
	if !ok {
		s.writeError(w, apperrors.New(apperrors.CodeNotFound, "verification session has no questions left"))
		return
	}
	writeJSON(w, http.StatusOK, toVerifyQuestionPayload(index, q))
}

// handleVerifyCheck submits one answer. Terminal results clear the session
// so a finished quiz cannot be resumed.
func (s *Server) handleVerifyCheck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QuestionIndex  int `json:"questionIndex"`
		SelectedOption int `json:"selectedOption"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	key, _ := s.sessionKey(r)
	result, err := s.sessions.Submit(key, req.QuestionIndex, req.SelectedOption)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if result.Passed || result.Failed {
		s.sessions.Clear(key)
	}
	writeJSON(w, http.StatusOK, result)
}
