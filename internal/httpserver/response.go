package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"entrepreneur/backend/internal/validation"
)

const (
	internalErrorMessage = "An unexpected error occurred"
	maxBodyBytes         = 1 << 20

	defaultPageSize = 20
	maxPageSize     = 100
)

type apiError struct {
	Timestamp time.Time               `json:"timestamp"`
	Path      string                  `json:"path"`
	Error     string                  `json:"error"`
	Message   string                  `json:"message"`
	Fields    []validation.FieldError `json:"fields,omitempty"`
}

type pageResponse[T any] struct {
	Content       []T `json:"content"`
	Page          int `json:"page"`
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

func newPage[T any](content []T, p pageRequest, total int) pageResponse[T] {
	if content == nil {
		content = []T{}
	}
	return pageResponse[T]{
		Content:       content,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: total,
		TotalPages:    (total + p.Size - 1) / p.Size,
	}
}

type pageRequest struct {
	Page int
	Size int
}

func (p pageRequest) Offset() int {
	return p.Page * p.Size
}

func parsePage(r *http.Request) (pageRequest, error) {
	p := pageRequest{Page: 0, Size: defaultPageSize}
	q := r.URL.Query()

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			return p, fmt.Errorf("page must be a non-negative integer")
		}
		p.Page = page
	}
	if raw := q.Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return p, fmt.Errorf("size must be a positive integer")
		}
		p.Size = min(size, maxPageSize)
	}
	return p, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, apiError{
		Timestamp: time.Now().UTC(),
		Path:      r.URL.Path,
		Error:     http.StatusText(status),
		Message:   message,
	})
}

func writeValidationError(w http.ResponseWriter, r *http.Request, verr *validation.Error) {
	writeJSON(w, http.StatusBadRequest, apiError{
		Timestamp: time.Now().UTC(),
		Path:      r.URL.Path,
		Error:     http.StatusText(http.StatusBadRequest),
		Message:   verr.Error(),
		Fields:    verr.Fields,
	})
}

// writeInternal logs err and answers with a generic 500 body.
func (s *Server) writeInternal(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	writeError(w, r, http.StatusInternalServerError, internalErrorMessage)
}

// decodeAndValidate reads a JSON body into dst and runs its validation tags.
// It writes the 400 response itself and reports whether the caller may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decodeJSON(w, r, dst) && validateRequest(w, r, dst)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, r, http.StatusBadRequest, "request body is required")
		} else {
			writeError(w, r, http.StatusBadRequest, "invalid JSON payload")
		}
		return false
	}
	return true
}

func validateRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := validation.Struct(dst)
	if err == nil {
		return true
	}
	var verr *validation.Error
	if errors.As(err, &verr) {
		writeValidationError(w, r, verr)
	} else {
		writeError(w, r, http.StatusBadRequest, err.Error())
	}
	return false
}
