// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	contentfeature "github.com/dalemusser/agencycms/internal/app/features/content"
	errorsfeature "github.com/dalemusser/agencycms/internal/app/features/errors"
	healthfeature "github.com/dalemusser/agencycms/internal/app/features/health"
	orphansfeature "github.com/dalemusser/agencycms/internal/app/features/orphans"
	contentstore "github.com/dalemusser/agencycms/internal/app/store/content"
	orphanstore "github.com/dalemusser/agencycms/internal/app/store/orphans"
	"github.com/dalemusser/agencycms/internal/app/system/apicors"
	"github.com/dalemusser/agencycms/internal/app/system/orphanlog"
	"github.com/dalemusser/agencycms/internal/app/system/uploads"
	"github.com/dalemusser/agencycms/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. Each content kind gets its own image
// directory, service and handler; all kinds share the storage root and the
// orphaned-file reporter.
//
// Content routes are mounted twice: under /api and at the root paths the
// existing frontend calls (/services, /single-service).
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()

	orphans := orphanstore.New(deps.MongoDatabase)
	reporter := orphanlog.New(orphans, logger, appCfg.OrphanReport)

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	// Request timeout middleware: prevents requests from hanging indefinitely.
	// Uploads are bounded by max_upload_mb, so one limit fits every route.
	r.Use(chimw.Timeout(60 * time.Second))

	// CORS middleware: must be early in the chain to handle preflight requests.
	r.Use(apicors.FromConfig(appCfg.CORSAllowedOrigins))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// ─────────────────────────────────────────────────────────────────────────────
	// Content Routes
	// ─────────────────────────────────────────────────────────────────────────────

	maxUpload := appCfg.MaxUploadMB << 20
	for _, kind := range contentKinds(appCfg) {
		images := uploads.New(deps.FileStorage, kind.ImageDir, logger)
		svc := contentfeature.NewService(kind, contentstore.New(deps.MongoDatabase, kind), images, reporter, logger)
		h := contentfeature.NewHandler(svc, images, errLog, logger, maxUpload)

		routes := contentfeature.Routes(h)
		r.Mount("/api"+kind.Route, routes)
		r.Mount(kind.Route, routes)

		logger.Info("mounted content routes",
			zap.String("kind", kind.Collection),
			zap.String("route", kind.Route),
			zap.String("image_dir", kind.ImageDir))
	}

	// Orphaned-file reports (read-only)
	orphansHandler := orphansfeature.NewHandler(orphans, errLog, logger)
	r.Mount("/api/orphans", orphansfeature.Routes(orphansHandler))

	// Health check endpoints for load balancers and orchestrators
	probes := []healthfeature.Probe{healthfeature.MongoProbe(deps.MongoClient)}
	if appCfg.StorageType == "local" {
		probes = append(probes, localStorageProbe(appCfg.StorageLocalPath))
	}
	healthHandler := healthfeature.NewHandler(logger, probes...)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// Uploaded files (local storage only)
	// S3 images are served from CloudFront URLs returned in imageUrls.
	if appCfg.StorageType == "local" {
		r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	}

	// JSON fallbacks for unmatched routes
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	return r, nil
}

// contentKinds returns the built-in kinds with image directories from config.
func contentKinds(appCfg AppConfig) []models.ContentKind {
	service := models.ServiceKind
	service.ImageDir = appCfg.ServiceImageDir

	single := models.SingleServiceKind
	single.ImageDir = appCfg.SingleServiceImageDir

	return []models.ContentKind{service, single}
}

// localStorageProbe checks that the storage root is a reachable directory.
func localStorageProbe(root string) healthfeature.Probe {
	return healthfeature.Probe{
		Name: "storage",
		Check: func(ctx context.Context) error {
			info, err := os.Stat(root)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", root)
			}
			return nil
		},
	}
}
