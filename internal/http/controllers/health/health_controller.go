// Package health expone healthz y readyz.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dropDatabas3/kurso/internal/http/helpers"
)

// Pinger es lo único que readyz necesita saber de una dependencia.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Controller struct {
	deps map[string]Pinger
}

func New(deps map[string]Pinger) *Controller {
	return &Controller{deps: deps}
}

// Healthz: el proceso está vivo. No toca dependencias.
func (c *Controller) Healthz(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz: el proceso puede servir tráfico. Pinguea cada dependencia con un
// timeout corto; una sola caída alcanza para reportar 503.
func (c *Controller) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := map[string]string{}
	for name, dep := range c.deps {
		if err := dep.Ping(ctx); err != nil {
			checks[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	helpers.WriteJSON(w, status, checks)
}
