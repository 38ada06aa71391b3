package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/scout-cfb/scout/internal/groupctx"
	"github.com/scout-cfb/scout/internal/monitor"
	"github.com/scout-cfb/scout/internal/trigger"
)

// StatusResponse is the JSON response for GET /status. Sections are
// omitted when the corresponding service was not registered.
type StatusResponse struct {
	Uptime  string          `json:"uptime"`
	Model   string          `json:"model,omitempty"`
	Monitor *monitor.Stats  `json:"monitor,omitempty"`
	Parser  *trigger.Stats  `json:"parser,omitempty"`
	Tracker *groupctx.Stats `json:"tracker,omitempty"`
}

// handleStatus returns an http.HandlerFunc for GET /status.
func (g *Gateway) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := StatusResponse{
			Uptime: time.Since(g.startedAt).Truncate(time.Second).String(),
		}

		if g.monitor != nil {
			stats := g.monitor.Stats()
			resp.Monitor = &stats
		}
		if g.parser != nil {
			stats := g.parser.Stats()
			resp.Parser = &stats
		}
		if g.tracker != nil {
			stats := g.tracker.Stats()
			resp.Tracker = &stats
		}
		resp.Model = g.modelName

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
