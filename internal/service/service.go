package service

import (
	"go.uber.org/zap"

	"github.com/t3ch-N/mAGICAL-clone-sub001/config"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/authz"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/event"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/repository"
	"github.com/t3ch-N/mAGICAL-clone-sub001/pkg/jwt"
)

// Service aggregates every service.
type Service struct {
	Submission SubmissionService
	Assignment AssignmentService
	Reference  ReferenceService
	Audit      AuditService
	Auth       AuthService
	User       UserService
	Settings   SettingsService
	Module     ModuleService
	Attendance AttendanceService
}

// NewService wires the services. blacklist may be nil; publisher may be event.Nop{}.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	policy *authz.Policy,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	publisher event.Publisher,
	logger *zap.Logger,
) *Service {
	audit := NewAuditService(repo, policy, logger)
	return &Service{
		Submission: NewSubmissionService(cfg, repo, policy, audit, publisher, logger),
		Assignment: NewAssignmentService(cfg, repo, policy, audit, publisher, logger),
		Reference:  NewReferenceService(repo, policy, audit, logger),
		Audit:      audit,
		Auth:       NewAuthService(cfg, repo, jwtMgr, blacklist, audit, logger),
		User:       NewUserService(cfg, repo, policy, audit, logger),
		Settings:   NewSettingsService(repo, policy, audit, logger),
		Module:     NewModuleService(repo, policy, audit, logger),
		Attendance: NewAttendanceService(repo, policy, audit, logger),
	}
}
