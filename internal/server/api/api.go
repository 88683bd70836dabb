// Package api provides the HTTP handlers of the gesture service.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/ayusman/mudra/internal/gesture"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// validatorInstance returns the shared validator, reporting fields by their
// JSON names.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})
	})
	return validate
}

type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decodeJSON reads a JSON body into dst and validates it. Failures are
// written to w and reported as false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "Request body is empty")
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}

	if err := validatorInstance().Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			writeError(w, http.StatusBadRequest, "Invalid request")
			return false
		}
		resp := errorResponse{Error: "Validation failed"}
		for _, fe := range verrs {
			resp.Fields = append(resp.Fields, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
		}
		writeJSON(w, http.StatusBadRequest, resp)
		return false
	}
	return true
}

// writeConfigError maps a rejected gesture setting to 400 or 404.
func writeConfigError(w http.ResponseWriter, err error) {
	var cfgErr *gesture.ConfigError
	switch {
	case errors.Is(err, gesture.ErrUnknownKind):
		writeError(w, http.StatusNotFound, "Gesture kind not found")
	case errors.As(err, &cfgErr):
		writeError(w, http.StatusBadRequest, cfgErr.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Failed to update gesture")
	}
}
