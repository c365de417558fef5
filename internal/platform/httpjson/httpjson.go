// Package httpjson centralizes JSON responses and the translation of coded
// domain errors into HTTP statuses, keeping handlers thin.
package httpjson

import (
	"encoding/json"
	"net/http"

	dErrors "agrotrace/pkg/domain-errors"
)

// ErrorBody is the wire shape of error responses.
type ErrorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

// Write encodes v as JSON with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps a coded domain error onto the response. Reasons are always
// surfaced verbatim; the pipeline never answers with a bare "bad request".
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	Write(w, statusFor(code), ErrorBody{Error: string(code), Reason: dErrors.ReasonOf(err)})
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation:
		return http.StatusUnprocessableEntity
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeDependency:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
