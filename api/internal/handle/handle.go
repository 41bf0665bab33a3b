package handle

import (
	"encoding/json"
	"net/http"

	"comic-bot/api/internal/extract"
)

type Handle struct {
	engs extract.Engines
	def  string // имя дефолтного движка
}

func New(engs extract.Engines, defaultEngine string) *Handle {
	return &Handle{
		engs: engs,
		def:  defaultEngine,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
