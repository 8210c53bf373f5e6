package server

import (
	"net/http"

	"pico-editor/internal/logging"
)

// AuditAction names an editor action worth keeping a trail of.
type AuditAction string

const (
	AuditActionLogin  AuditAction = "login"
	AuditActionLogout AuditAction = "logout"
	AuditActionCreate AuditAction = "create"
	AuditActionSave   AuditAction = "save"
	AuditActionDelete AuditAction = "delete"
)

// auditor writes one line per audited action to its own logger, so the
// trail can be routed separately from the access log.
type auditor struct {
	log logging.Logger
}

func (a auditor) record(r *http.Request, action AuditAction, resource string, err error) {
	args := []any{
		"action", string(action),
		"rid", RequestIDFromContext(r.Context()),
		"ip", clientIP(r),
		"success", err == nil,
	}
	if resource != "" {
		args = append(args, "resource", resource)
	}
	if err != nil {
		args = append(args, "error", err.Error())
		a.log.Warn("audit", args...)
		return
	}
	a.log.Info("audit", args...)
}
