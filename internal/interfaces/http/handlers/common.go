// Package handlers implements the HTTP handlers of the scoring API.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/turtacn/SAScore/pkg/errors"
)

// DefaultMaxBodyBytes bounds request bodies; corpus uploads need the most.
const DefaultMaxBodyBytes int64 = 32 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// writeAppError maps an error to its code's HTTP status.  Errors without a
// code and 500-class codes are masked.
func writeAppError(w http.ResponseWriter, err error) {
	var ae *errors.AppError
	if !errors.As(err, &ae) {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Code:    errors.CodeInternal.String(),
			Message: "internal server error",
		})
		return
	}
	status := ae.HTTPStatus()
	if status == http.StatusInternalServerError {
		writeJSON(w, status, ErrorResponse{Code: ae.Code.String(), Message: "internal server error"})
		return
	}
	writeJSON(w, status, ErrorResponse{Code: ae.Code.String(), Message: ae.Message, Detail: ae.Detail})
}

// decodeJSON reads a single JSON object of at most limit bytes into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errors.InvalidParam("request body too large")
		}
		if err == io.EOF {
			return errors.InvalidParam("request body is empty")
		}
		return errors.Wrap(err, errors.CodeInvalidParam, "malformed JSON body")
	}
	if dec.More() {
		return errors.InvalidParam("request body must hold a single JSON object")
	}
	return nil
}

//Personal.AI order the ending
