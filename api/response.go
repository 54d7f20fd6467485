package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ActraStride/xulcan/types"
)

// Response is the unified API envelope.
type Response struct {
	Success   bool       `json:"success"`
	Data      any        `json:"data,omitempty"`
	Error     *ErrorInfo `json:"error,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
	RequestID string     `json:"request_id,omitempty"`
}

// ErrorInfo is the structured error carried in a failure envelope.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// WriteJSON writes data as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)

	// The status line is already gone if encoding fails; nothing more can
	// be written.
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a success envelope around data.
func WriteSuccess(w http.ResponseWriter, r *http.Request, data any) {
	requestID, _ := types.RequestID(r.Context())
	WriteJSON(w, http.StatusOK, Response{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	})
}

// WriteError writes a failure envelope for err. Contract violations
// (types.ValidationError) map to 400 with field and rule preserved; any
// other error becomes an opaque 500 so internals never leak to clients.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger) {
	requestID, _ := types.RequestID(r.Context())

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		WriteJSON(w, http.StatusBadRequest, Response{
			Success:   false,
			Error:     &ErrorInfo{Code: "schema", Message: err.Error()},
			Timestamp: time.Now().UTC(),
			RequestID: requestID,
		})
		return
	}

	var ve *types.ValidationError
	if errors.As(err, &ve) {
		if logger != nil {
			logger.Info("request rejected",
				zap.String("field", ve.Field),
				zap.String("rule", ve.Rule),
				zap.String("request_id", requestID),
			)
		}
		WriteJSON(w, http.StatusBadRequest, Response{
			Success:   false,
			Error:     &ErrorInfo{Code: ve.Rule, Message: ve.Message, Field: ve.Field},
			Timestamp: time.Now().UTC(),
			RequestID: requestID,
		})
		return
	}

	if logger != nil {
		logger.Error("internal error",
			zap.Error(err),
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method),
			zap.String("request_id", requestID),
		)
	}
	WriteJSON(w, http.StatusInternalServerError, Response{
		Success:   false,
		Error:     &ErrorInfo{Code: "internal", Message: "Internal Server Error"},
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	})
}

// WriteErrorMessage writes a failure envelope with an explicit status and
// code, for errors that are neither contract violations nor internal
// faults (404s, 405s, 503s).
func WriteErrorMessage(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	requestID, _ := types.RequestID(r.Context())
	WriteJSON(w, status, Response{
		Success:   false,
		Error:     &ErrorInfo{Code: code, Message: message},
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	})
}
