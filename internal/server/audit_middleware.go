package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

const maxAuditBody = 8 << 10

// auditLogMiddleware records admin calls. For return updates it also keeps
// the status before and after the call.
func (s *Server) auditLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		entry := AuditLogEntry{
			Timestamp: start.UTC(),
			Method:    r.Method,
			Path:      r.URL.Path,
			Handler:   "unknown",
			ReturnID:  mux.Vars(r)["id"],
		}
		if route := mux.CurrentRoute(r); route != nil && route.GetName() != "" {
			entry.Handler = route.GetName()
		}
		if claims := claimsFrom(r.Context()); claims != nil {
			entry.Actor = claims.UserID
		}

		if r.Body != nil {
			requestBody, _ := io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewBuffer(requestBody))
			entry.Request = truncate(requestBody)

			var action struct {
				Action string `json:"action"`
			}
			if json.Unmarshal(requestBody, &action) == nil {
				entry.Action = action.Action
			}
		}

		if entry.ReturnID != "" && r.Method == http.MethodPut {
			if ret, err := s.reader.GetReturn(r.Context(), entry.ReturnID); err == nil {
				entry.OldStatus = string(ret.Status)
			}
		}

		rec := newResponseRecorder(w)
		next.ServeHTTP(rec, r)

		entry.StatusCode = rec.StatusCode()
		entry.Duration = time.Since(start)
		entry.Response = truncate(rec.Body())
		if r.Method == http.MethodPut && rec.StatusCode() == http.StatusOK {
			var updated struct {
				Status string `json:"status"`
			}
			if json.Unmarshal(rec.Body(), &updated) == nil {
				entry.NewStatus = updated.Status
			}
		}

		s.AuditManager.LogEntry(r.Context(), entry)
	})
}

func truncate(b []byte) string {
	if len(b) > maxAuditBody {
		return string(b[:maxAuditBody]) + "...(truncated)"
	}
	return string(b)
}
