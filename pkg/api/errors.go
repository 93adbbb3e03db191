package api

import (
	"encoding/json"
	"errors"
	"net/http"

	sperrors "github.com/matzehuels/spore/pkg/errors"
	"github.com/matzehuels/spore/pkg/store"
)

// errorBody is the JSON shape of an error response.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    sperrors.Code `json:"code"`
	Message string        `json:"message"`
}

func errNotFound(path string) error {
	return sperrors.New(sperrors.ErrCodeNotFound, "no route for %s", path)
}

// statusFor maps an error to its HTTP status and code.
func statusFor(err error) (int, sperrors.Code) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, sperrors.ErrCodeInvalidInput
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, sperrors.ErrCodeRunNotFound
	}

	code := sperrors.GetCode(err)
	switch code {
	case sperrors.ErrCodeInvalidInput, sperrors.ErrCodeInvalidConfig,
		sperrors.ErrCodeInvalidFormat, sperrors.ErrCodeInvalidPath:
		return http.StatusBadRequest, code
	case sperrors.ErrCodeNotFound, sperrors.ErrCodeFileNotFound, sperrors.ErrCodeRunNotFound:
		return http.StatusNotFound, code
	case sperrors.ErrCodeDegenerateGeometry, sperrors.ErrCodeInternalConsistency:
		return http.StatusUnprocessableEntity, code
	case sperrors.ErrCodeUnsupported:
		return http.StatusNotImplemented, code
	case "":
		return http.StatusInternalServerError, sperrors.ErrCodeInternal
	}
	return http.StatusInternalServerError, code
}

func writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	msg := sperrors.UserMessage(err)
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
