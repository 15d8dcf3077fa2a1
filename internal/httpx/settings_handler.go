package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-storefront/internal/settings"
)

type SettingsHandler struct {
	Settings *settings.Store
}

type SaveSettingsResp struct {
	Settings settings.SiteSettings `json:"settings"`
	Synced   bool                  `json:"synced"`
}

func (h *SettingsHandler) Register(r chi.Router) {
	r.Get("/settings", h.get)
	r.Patch("/settings", h.save)
	r.Patch("/settings/footer", h.saveFooter)
}

func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Settings.Current())
}

func (h *SettingsHandler) save(w http.ResponseWriter, r *http.Request) {
	var p settings.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := readCtx(r)
	defer cancel()
	res := h.Settings.Save(ctx, p)
	writeJSON(w, http.StatusOK, SaveSettingsResp{Settings: res.Settings, Synced: res.Synced})
}

func (h *SettingsHandler) saveFooter(w http.ResponseWriter, r *http.Request) {
	var p settings.FooterPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := readCtx(r)
	defer cancel()
	res := h.Settings.SaveFooter(ctx, p)
	writeJSON(w, http.StatusOK, SaveSettingsResp{Settings: res.Settings, Synced: res.Synced})
}
