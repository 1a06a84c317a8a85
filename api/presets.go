/*
presets.go - Built-in scenarios the dashboard can load in one click

PURPOSE:
  Lists the presets from the scenario package and stores one on demand.
  A preset is stored under its own id, so loading it again replaces the
  stored copy (including any edits made since).

USAGE VIA API:
  GET  /api/presets
  GET  /api/presets/template
  POST /api/presets/hiking/load

SEE ALSO:
  - scenario/defaults.go: Preset definitions
  - handlers.go: Scenario CRUD
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warp/stir-engine/scenario"
)

// Template is the default scenario re-dated onto the current meeting
// calendar, all meetings on hold. It is not stored.
// GET /api/presets/template
func (h *Handler) Template(w http.ResponseWriter, r *http.Request) {
	s := scenario.Default()
	s.ID = ""
	s.Name = "New Scenario"
	s.Meetings = h.Calendar.Meetings()
	writeJSON(w, http.StatusOK, s)
}

// ListPresets returns the built-in scenarios.
// GET /api/presets
func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, PresetListResponse{Presets: scenario.Presets()})
}

// LoadPreset stores a preset's scenario under the preset id.
// POST /api/presets/{id}/load
func (h *Handler) LoadPreset(w http.ResponseWriter, r *http.Request) {
	p, err := scenario.FindPreset(chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, "Unknown preset", err)
		return
	}

	s := p.Scenario
	if err := h.Store.Put(r.Context(), s); err != nil {
		h.writeStoreError(w, "Failed to load preset", err)
		return
	}

	h.logger.Info("preset loaded", zap.String("preset", p.ID))
	writeJSON(w, http.StatusOK, s)
}
