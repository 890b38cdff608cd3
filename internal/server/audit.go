package server

import (
	"time"
)

// AuditLogEntry records one admin call.
type AuditLogEntry struct {
	Timestamp  time.Time     `json:"timestamp"`
	Handler    string        `json:"handler"`
	Method     string        `json:"method"`
	Path       string        `json:"path"`
	StatusCode int           `json:"status_code"`
	Duration   time.Duration `json:"duration"`
	Actor      string        `json:"actor,omitempty"`
	ReturnID   string        `json:"return_id,omitempty"`
	Action     string        `json:"action,omitempty"`
	OldStatus  string        `json:"old_status,omitempty"`
	NewStatus  string        `json:"new_status,omitempty"`
	Request    string        `json:"request,omitempty"`
	Response   string        `json:"response,omitempty"`
}
