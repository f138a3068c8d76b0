// Package response
package response

import (
	"encoding/json"
	"net/http"

	"portal/internal/logger"
)

type Response struct {
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type ResponseWriter interface {
	Write(w http.ResponseWriter, status int, res *Response)
	WriteValidationError(w http.ResponseWriter, errs map[string]string)
}

type JSONWriter struct {
	log logger.Logger
}

func NewJSONWriter(log logger.Logger) *JSONWriter {
	return &JSONWriter{log: log}
}

func (jw *JSONWriter) Write(w http.ResponseWriter, status int, res *Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if res == nil {
		res = &Response{}
	}
	if err := json.NewEncoder(w).Encode(res); err != nil {
		jw.log.Error("failed to encode response", "status", status, "error", err)
	}
}

func (jw *JSONWriter) WriteValidationError(w http.ResponseWriter, errs map[string]string) {
	jw.Write(w, http.StatusUnprocessableEntity, &Response{
		Message: "validation failed",
		Errors:  errs,
	})
}
