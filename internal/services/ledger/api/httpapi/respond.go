package httpapi

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/sproutbank/sproutbank/internal/platform/errors"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps a coded error to its HTTP status and a user-facing
// message. Uncoded errors surface as 500 with a generic body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	status := code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		s.logf("httpapi: internal error: %v", err)
	}
	writeJSON(w, status, errorBody{
		Error: apperrors.UserMessage(err),
		Code:  string(code),
	})
}
