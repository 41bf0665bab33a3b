package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"comic-bot/api/internal/config"
	"comic-bot/api/internal/extract"
	"comic-bot/api/internal/extract/gemini"
	"comic-bot/api/internal/extract/openai"
	handle "comic-bot/api/internal/handle"
)

func main() {
	cfg := config.Load()

	if p := strings.TrimSpace(os.Getenv("PORT")); p != "" {
		cfg.Port = p
	} else if strings.TrimSpace(cfg.Port) == "" {
		cfg.Port = "8000"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	engines := extract.Engines{
		Gemini: gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel),
		OpenAI: openai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel),
	}
	h := handle.New(engines, cfg.DefaultEngine)

	mux.HandleFunc("/v1/extract", h.Extract)

	addr := ":" + cfg.Port
	log.Printf("comic-proxy listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}
