package bootstrap

import (
	"cloud.google.com/go/firestore"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/mithibai-cc/ats-backend/internal/admin"
	httpapi "github.com/mithibai-cc/ats-backend/internal/api/http"
	"github.com/mithibai-cc/ats-backend/internal/audit"
	authhttp "github.com/mithibai-cc/ats-backend/internal/auth/http"
	authmw "github.com/mithibai-cc/ats-backend/internal/auth/middleware"
	"github.com/mithibai-cc/ats-backend/internal/checkin"
	"github.com/mithibai-cc/ats-backend/internal/events"
	"github.com/mithibai-cc/ats-backend/internal/guard"
	"github.com/mithibai-cc/ats-backend/internal/identity"
	"github.com/mithibai-cc/ats-backend/internal/ledger"
	"github.com/mithibai-cc/ats-backend/internal/middleware"
	"github.com/mithibai-cc/ats-backend/internal/profile"
	"github.com/mithibai-cc/ats-backend/internal/registration"
	"github.com/mithibai-cc/ats-backend/internal/stats"
)

type RouterDeps struct {
	ServiceName  string
	Version      string
	AllowOrigins string
	DB           *pgxpool.Pool
	Redis        *redis.Client
	AuthClient   *fbauth.Client
	Firestore    *firestore.Client
	Provider     identity.Provider
}

// BuildRouter wires every feature group. The returned snapshotter is
// shared with the cron scheduler.
func BuildRouter(dep RouterDeps) (*gin.Engine, *stats.Snapshotter) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())

	corsCfg := cors.DefaultConfig()
	if dep.AllowOrigins == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{dep.AllowOrigins}
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Request-Id")
	r.Use(cors.New(corsCfg))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	profiles := profile.NewFirestoreStore(dep.Firestore)
	ledgerRepo := ledger.NewRepository(dep.Redis)
	checkinRepo := checkin.NewRepository(dep.Redis)
	checkinSvc := checkin.NewService(ledgerRepo, checkinRepo)
	auditRepo := audit.NewRepository(dep.DB)
	statsRepo := stats.NewRepository(dep.DB)
	snapshotter := stats.NewSnapshotter(ledgerRepo, checkinRepo, statsRepo)

	requireAuth := authmw.FirebaseAuth(dep.AuthClient)
	staffOnly := guard.RequireAnyRole(profiles, profile.RoleCommittee, profile.RoleAdmin)

	api := r.Group("/api/v1")

	limiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	authGroup := api.Group("/auth")
	authGroup.Use(limiter.Middleware())
	authhttp.New(dep.Provider, profiles).Register(authGroup, requireAuth)

	events.Register(api.Group("/events"))

	regGroup := api.Group("/registrations", requireAuth)
	registration.New(ledgerRepo).Register(regGroup)

	checkinGroup := api.Group("/checkins", requireAuth, staffOnly)
	checkin.NewHandler(checkinSvc).Register(checkinGroup)

	statsGroup := api.Group("/stats", requireAuth, staffOnly)
	stats.NewHandler(statsRepo, snapshotter).Register(statsGroup)

	adminGroup := api.Group("/admin", requireAuth, guard.RequireRole(profiles, profile.RoleAdmin))
	admin.New(profiles, auditRepo).Register(adminGroup)

	return r, snapshotter
}
