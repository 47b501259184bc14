package handler

import "github.com/t3ch-N/mAGICAL-clone-sub001/internal/service"

// Handler aggregates every HTTP handler.
type Handler struct {
	Auth       *AuthHandler
	Submission *SubmissionHandler
	Slot       *SlotHandler
	Reference  *ReferenceHandler
	Audit      *AuditHandler
	User       *UserHandler
	Settings   *SettingsHandler
	Module     *ModuleHandler
	Attendance *AttendanceHandler
}

// NewHandler creates the Handler aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Submission: NewSubmissionHandler(svc.Submission, svc.Assignment),
		Slot:       NewSlotHandler(svc.Assignment),
		Reference:  NewReferenceHandler(svc.Reference),
		Audit:      NewAuditHandler(svc.Audit),
		User:       NewUserHandler(svc.User),
		Settings:   NewSettingsHandler(svc.Settings),
		Module:     NewModuleHandler(svc.Module),
		Attendance: NewAttendanceHandler(svc.Attendance),
	}
}
