package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/fwojciec/linksum"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// maxRequestBody caps the size of decoded request bodies.
const maxRequestBody = 1 << 20

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	linksum.EINVALID:  http.StatusBadRequest,
	linksum.ENOTFOUND: http.StatusNotFound,
	linksum.ECONFIG:   http.StatusServiceUnavailable,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// errorLabels name the failing step for 500 responses.
var errorLabels = map[string]string{
	linksum.EFETCH:    "Failed to fetch URL",
	linksum.EEXTRACT:  "Failed to extract content",
	linksum.ECONFLICT: "Analysis already in progress",
	linksum.EDELIVERY: "Failed to deliver email",
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// errorResponse builds the body for err. Client errors carry their message
// in error; server errors carry a label in error and the detail in message.
func errorResponse(err error) ErrorResponse {
	code := linksum.ErrorCode(err)
	if ErrorStatusCode(code) != http.StatusInternalServerError {
		return ErrorResponse{Error: linksum.ErrorMessage(err)}
	}
	label, ok := errorLabels[code]
	if !ok {
		label = "Internal server error"
	}
	return ErrorResponse{Error: label, Message: linksum.ErrorMessage(err)}
}

// Error writes err as a JSON error reply. Internal errors are logged.
func Error(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	code := linksum.ErrorCode(err)
	if code == linksum.EINTERNAL {
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeJSON(w, r, logger, ErrorStatusCode(code), errorResponse(err))
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, logger *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encode response", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

// decodeJSON reads the request body into v. Malformed bodies return EINVALID.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return linksum.Errorf(linksum.EINVALID, "request body required")
		}
		return linksum.Errorf(linksum.EINVALID, "invalid JSON body: %v", err)
	}
	return nil
}

// validateRequest runs struct-tag validation and reports the first failing
// field as EINVALID.
func (s *Server) validateRequest(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return linksum.Errorf(linksum.EINVALID, "invalid request")
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return linksum.Errorf(linksum.EINVALID, "%s is required", fe.Field())
	case "url", "http_url":
		return linksum.Errorf(linksum.EINVALID, "%s must be a valid URL", fe.Field())
	case "email":
		return linksum.Errorf(linksum.EINVALID, "%s must be a valid email address", fe.Field())
	case "oneof":
		return linksum.Errorf(linksum.EINVALID, "%s must be one of: %s", fe.Field(), fe.Param())
	case "max":
		return linksum.Errorf(linksum.EINVALID, "%s must contain at most %s items", fe.Field(), fe.Param())
	case "min":
		return linksum.Errorf(linksum.EINVALID, "%s must contain at least %s items", fe.Field(), fe.Param())
	default:
		return linksum.Errorf(linksum.EINVALID, "invalid %s", fe.Field())
	}
}
