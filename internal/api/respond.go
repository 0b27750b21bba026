package api

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"task-approvals/internal/errors"
)

type messageResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// StatusFor maps a task store error to its HTTP status. nil maps to 200.
func StatusFor(err error) int {
	switch errors.OutcomeOf(err) {
	case errors.OutcomeOK:
		return http.StatusOK
	case errors.OutcomeNotFound:
		return http.StatusNotFound
	case errors.OutcomeConflict:
		return http.StatusConflict
	case errors.OutcomeUnauthorized:
		return http.StatusUnauthorized
	case errors.OutcomeInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

func writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if !errors.IsAppError(err) {
		writeMessage(w, status, "internal server error")
		return
	}
	writeJSON(w, status, messageResponse{
		Message: errors.GetUserMessage(err),
		Code:    errors.GetErrorCode(err),
	})
}

// decodeJSON reads a single JSON object. An empty body leaves v untouched
// when optional is set.
func decodeJSON(r *http.Request, v interface{}, optional bool) error {
	if r.Body == nil {
		if optional {
			return nil
		}
		return errors.NewInvalidInputError("body", nil, "request body is required")
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if stderrors.Is(err, io.EOF) {
			if optional {
				return nil
			}
			return errors.NewInvalidInputError("body", nil, "request body is required")
		}
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.NewInvalidInputError("body", nil, "request body too large")
		}
		return errors.NewInvalidInputError("body", nil, "malformed JSON: "+err.Error())
	}
	return nil
}
