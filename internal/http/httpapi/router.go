// Package httpapi exposes the bot's operational HTTP surface: liveness, the
// mode catalog, and Prometheus metrics. No user traffic flows through it.
package httpapi

import (
	"encoding/json"
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"avatarbot/internal/domain"
	"avatarbot/internal/infra"
	appmw "avatarbot/internal/middleware"
)

// Options carries the router's collaborators.
type Options struct {
	Registry *domain.Registry
	Metrics  *infra.Metrics
	Logger   infra.Logger
}

type modeView struct {
	Mode      string `json:"mode"`
	Label     string `json:"label"`
	Aux       string `json:"aux"`
	Generated bool   `json:"generated"`
	Overlay   string `json:"overlay"`
}

// NewRouter builds the ops router.
func NewRouter(opts Options) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP, chimw.Recoverer, appmw.RequestID, appmw.Logger(opts.Logger))

	r.Get("/healthz", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		writeJSON(w, stdhttp.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/modes", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		specs := opts.Registry.Modes()
		views := make([]modeView, 0, len(specs))
		for _, spec := range specs {
			views = append(views, modeView{
				Mode:      string(spec.Mode),
				Label:     spec.Label,
				Aux:       string(spec.Aux),
				Generated: spec.Generated,
				Overlay:   spec.OverlayFile,
			})
		}
		writeJSON(w, stdhttp.StatusOK, views)
	})

	if opts.Metrics != nil {
		r.Method(stdhttp.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	return r
}

func writeJSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
