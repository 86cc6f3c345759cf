package api

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"tankplan/internal/buildinfo"
)

func (s *Server) DebugJSON(w http.ResponseWriter, r *http.Request) {
	info := map[string]any{
		"build": buildinfo.Info(),
		"time":  time.Now().UTC().Format(time.RFC3339),
		"config": map[string]any{
			"PORT":             os.Getenv("PORT"),
			"REFDATA_PATH":     os.Getenv("REFDATA_PATH"),
			"RATE_RPS":         os.Getenv("RATE_RPS"),
			"RATE_BURST":       os.Getenv("RATE_BURST"),
			"HAS_DATABASE_URL": os.Getenv("DATABASE_URL") != "",
			"HAS_REDIS_URL":    os.Getenv("REDIS_URL") != "",
		},
		"refdata": map[string]any{
			"defaultAircraft": s.Cfg.DefaultAircraft,
			"aircraft":        len(s.Cfg.Aircraft),
			"routes":          len(s.Cfg.Routes),
		},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(info)
}
