package controllers

import (
	"context"
	"net/http"

	"go.uber.org/multierr"

	"github.com/dcastellanos/hearthhide-backend/api/responses"
	"github.com/dcastellanos/hearthhide-backend/pkg/config"
	pkgerrors "github.com/dcastellanos/hearthhide-backend/pkg/errors"
	"github.com/dcastellanos/hearthhide-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-HearthHide-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every backing store and reports aggregate readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, db, cache pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-HearthHide-Env", cfg.App.Env)

		var err error
		if db != nil {
			err = multierr.Append(err, db.Ping(r.Context()))
		}
		if cache != nil {
			err = multierr.Append(err, cache.Ping(r.Context()))
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "readiness check"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
