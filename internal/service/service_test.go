package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/t3ch-N/mAGICAL-clone-sub001/config"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/authz"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/dto"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/event"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/repository"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/testutil"
	"github.com/t3ch-N/mAGICAL-clone-sub001/pkg/jwt"
)

// ── fixtures ──

var (
	admin     = authz.Actor{ID: "admin-1", Role: authz.RoleAdmin, Status: authz.StatusApproved}
	director  = authz.Actor{ID: "director-1", Role: authz.RoleTournamentDirector, Status: authz.StatusApproved}
	mediaOff  = authz.Actor{ID: "media-1", Role: authz.RoleMediaOfficer, Status: authz.StatusApproved}
	proAmCoor = authz.Actor{ID: "proam-1", Role: authz.RoleProAmCoordinator, Status: authz.StatusApproved}
	areaSup   = authz.Actor{ID: "area-1", Role: authz.RoleAreaSupervisor, Status: authz.StatusApproved}
	viewer    = authz.Actor{ID: "viewer-1", Role: authz.RoleViewer, Status: authz.StatusApproved}
	webmaster = authz.Actor{ID: "web-1", Role: authz.RoleWebmaster, Status: authz.StatusApproved}
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []event.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]event.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func (p *recordingPublisher) last() event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}

type memBlacklist struct {
	mu   sync.Mutex
	jtis map[string]time.Duration
}

func (b *memBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.jtis == nil {
		b.jtis = make(map[string]time.Duration)
	}
	b.jtis[jti] = ttl
	return nil
}

type fixture struct {
	cfg       *config.Config
	repo      *repository.Repository
	svc       *Service
	jwtMgr    *jwt.Manager
	pub       *recordingPublisher
	blacklist *memBlacklist
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-key-for-unit-tests",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
		},
		Accreditation: config.AccreditationConfig{
			DefaultSlotCapacity:     3,
			VolunteerMarshalMinimum: 300,
			VolunteerScorerMaximum:  72,
			MaxPageSize:             100,
		},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testConfig()
	repo := repository.NewRepository(testutil.NewDB(t))
	jwtMgr := jwt.NewManager(&cfg.Auth)
	pub := &recordingPublisher{}
	bl := &memBlacklist{}
	return &fixture{
		cfg:       cfg,
		repo:      repo,
		svc:       NewService(cfg, repo, authz.DefaultPolicy(), jwtMgr, bl, pub, zap.NewNop()),
		jwtMgr:    jwtMgr,
		pub:       pub,
		blacklist: bl,
	}
}

func mediaForm(name string) model.FormData {
	return model.FormData{
		{Name: "full_name", Value: name},
		{Name: "organization", Value: "Daily Nation"},
		{Name: "email", Value: "press@example.com"},
	}
}

func proAmForm(name string) model.FormData {
	return model.FormData{
		{Name: "full_name", Value: name},
		{Name: "email", Value: "golfer@example.com"},
		{Name: "handicap", Value: "12"},
	}
}

func volunteerForm(role string) model.FormData {
	return model.FormData{
		{Name: "first_name", Value: "Amani"},
		{Name: "last_name", Value: "Otieno"},
		{Name: "email", Value: "amani@example.com"},
		{Name: "phone", Value: "+254712345678"},
		{Name: "consent_given", Value: true},
		{Name: "role", Value: role},
	}
}

// submit creates a submission through the public path and returns its id.
func (f *fixture) submit(t *testing.T, module model.ModuleType, form model.FormData) string {
	t.Helper()
	resp, err := f.svc.Submission.Create(context.Background(), &dto.CreateSubmissionRequest{
		ModuleType: string(module),
		FormData:   form,
	})
	require.NoError(t, err)
	return resp.SubmissionID
}

// approved creates a submission and approves it as admin.
func (f *fixture) approved(t *testing.T, module model.ModuleType, form model.FormData) string {
	t.Helper()
	id := f.submit(t, module, form)
	_, err := f.svc.Submission.Transition(context.Background(), admin, id, &dto.TransitionRequest{Status: string(model.StatusApproved)})
	require.NoError(t, err)
	return id
}

func (f *fixture) slot(t *testing.T, module model.ModuleType, capacity int) string {
	t.Helper()
	resp, err := f.svc.Assignment.CreateSlot(context.Background(), admin, &dto.CreateSlotRequest{
		ModuleType:  string(module),
		ResourceTag: "Tee 1 group A",
		TeeDate:     "2026-02-18",
		TeeTime:     "07:30",
		Capacity:    capacity,
	})
	require.NoError(t, err)
	return resp.ID
}

func (f *fixture) auditActions(t *testing.T, entityID string) []string {
	t.Helper()
	entries, err := f.repo.AuditLog.List(context.Background(), repository.AuditFilter{EntityID: entityID}, 100)
	require.NoError(t, err)
	out := make([]string, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, entries[i].Action)
	}
	return out
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int { return &n }
func boolPtr(b bool) *bool { return &b }
