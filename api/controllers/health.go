package controllers

import (
	"context"
	"net/http"

	"github.com/asinwatch/asinwatch-backend/api/responses"
	"github.com/asinwatch/asinwatch-backend/pkg/config"
	pkgerrors "github.com/asinwatch/asinwatch-backend/pkg/errors"
	"github.com/asinwatch/asinwatch-backend/pkg/logger"
	"github.com/asinwatch/asinwatch-backend/pkg/redis"
)

// Pinger is the health-check surface shared by the datastores.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ASINWatch-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness: the database must answer, redis only when
// it is configured.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP Pinger, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ASINWatch-Env", cfg.App.Env)

		checks := map[string]string{}

		if dbP == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "database not configured"))
			return
		}
		if err := dbP.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
			return
		}
		checks["database"] = "ok"

		if redisClient != nil {
			if err := redisClient.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
				return
			}
			checks["redis"] = "ok"
		}

		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
