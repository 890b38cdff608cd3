package server

import (
	"bytes"
	"net/http"
)

// responseRecorder tees the response so the audit entry can keep it.
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	buffer     bytes.Buffer
}

func newResponseRecorder(w http.ResponseWriter) *responseRecorder {
	return &responseRecorder{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (w *responseRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseRecorder) Write(b []byte) (int, error) {
	if w.buffer.Len() < maxAuditBody {
		w.buffer.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

func (w *responseRecorder) StatusCode() int {
	return w.statusCode
}

func (w *responseRecorder) Body() []byte {
	return w.buffer.Bytes()
}
