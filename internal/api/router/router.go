package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/t3ch-N/mAGICAL-clone-sub001/config"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/api/handler"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/api/middleware"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/service"
	"github.com/t3ch-N/mAGICAL-clone-sub001/pkg/jwt"
	"github.com/t3ch-N/mAGICAL-clone-sub001/pkg/redis"
)

const maxBodyBytes = 1 << 20

// Setup builds the gin engine. rdb may be nil, in which case token revocation
// and rate limiting are skipped.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	var (
		tokens  middleware.TokenChecker
		limiter middleware.Limiter
	)
	if rdb != nil {
		tokens, limiter = rdb, rdb
	}

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── health ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	applyLimit := middleware.RateLimit(limiter, cfg.Accreditation.ApplyRateLimit, cfg.Accreditation.ApplyRateWindow)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// public
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		v1.GET("/accreditation/modules/public", h.Module.ListPublicModules)
		v1.POST("/accreditation/apply/:slug", applyLimit, h.Submission.Apply)
		v1.POST("/submissions", applyLimit, h.Submission.CreateSubmission)
		v1.POST("/volunteers/register", applyLimit, h.Submission.RegisterVolunteer)
		v1.GET("/volunteers/stats", h.Submission.VolunteerStats)
		v1.GET("/pro-am/tee-times/public", h.Slot.PublicTeeTimes)
		v1.GET("/pro-am/tee-times/public.ics", h.Slot.PublicTeeSheetICS)
		v1.GET("/settings", h.Settings.GetSettings)

		auth := v1.Group("/auth")
		{
			auth.POST("/login", applyLimit, h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
			auth.POST("/register", applyLimit, h.Auth.Register)
		}

		// authenticated; the service policy decides what each actor may do
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, tokens))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.POST("/auth/request-role", h.Auth.RequestRole)

			submissions := authorized.Group("/submissions")
			{
				submissions.GET("", h.Submission.ListSubmissions)
				submissions.GET("/stats", h.Submission.Stats)
				submissions.POST("/transition", h.Submission.TransitionMany)
				submissions.POST("/resources", h.Submission.AssignResourcesMany)
				submissions.GET("/:id", h.Submission.GetSubmission)
				submissions.PATCH("/:id", h.Submission.UpdateSubmission)
				submissions.POST("/:id/transition", h.Submission.Transition)
				submissions.PUT("/:id/resources", h.Submission.AssignResources)
			}

			slots := authorized.Group("/slots")
			{
				slots.GET("", h.Slot.ListSlots)
				slots.POST("", h.Slot.CreateSlot)
				slots.GET("/:id", h.Slot.GetSlot)
				slots.PUT("/:id", h.Slot.UpdateSlot)
				slots.DELETE("/:id", h.Slot.DeleteSlot)
				slots.POST("/:id/assign", h.Slot.Assign)
				slots.POST("/:id/unassign", h.Slot.Unassign)
			}

			attendance := authorized.Group("/volunteers/attendance")
			{
				attendance.POST("", h.Attendance.MarkAttendance)
				attendance.GET("/:date", h.Attendance.GetAttendance)
			}

			authorized.GET("/audit-logs", h.Audit.ListAuditLogs)

			for path, kind := range map[string]service.ReferenceKind{
				"/locations":     service.KindLocation,
				"/zones":         service.KindZone,
				"/access-levels": service.KindAccessLevel,
			} {
				g := authorized.Group(path)
				g.GET("", h.Reference.List(kind))
				g.POST("", h.Reference.Create(kind))
				g.PUT("/:id", h.Reference.Update(kind))
				g.DELETE("/:id", h.Reference.Delete(kind))
			}

			users := authorized.Group("/users")
			{
				users.GET("", h.User.ListUsers)
				users.POST("", h.User.CreateUser)
				users.PUT("/:id/approve-role", h.User.ApproveRole)
				users.PUT("/:id/reject-role", h.User.RejectRole)
				users.PUT("/:id/deactivate", h.User.Deactivate)
			}

			authorized.PUT("/settings", h.Settings.UpdateSettings)

			modules := authorized.Group("/accreditation/modules")
			{
				modules.GET("", h.Module.ListModules)
				modules.POST("", h.Module.CreateModule)
				modules.PUT("/:id", h.Module.UpdateModule)
			}
		}
	}

	return r
}
