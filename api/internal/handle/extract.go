package handle

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"comic-bot/api/internal/encode"
	"comic-bot/api/internal/marker"
	"comic-bot/api/internal/util"
)

type extractRequest struct {
	Image  string `json:"image"`  // base64 или data:URI
	Mime   string `json:"mime"`   // необязателен; перекрывает data:URI
	Engine string `json:"engine"` // "gemini" | "gpt"; пусто — дефолт
}

type classifiedLine struct {
	Marker string `json:"marker"` // "" — без категории
	Label  string `json:"label,omitempty"`
	Text   string `json:"text"`
}

type extractResponse struct {
	RequestID string           `json:"request_id"`
	Engine    string           `json:"engine"`
	Model     string           `json:"model"`
	Text      string           `json:"text"`
	Lines     []classifiedLine `json:"lines"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Extract — POST /v1/extract. Одно изображение на запрос, одна попытка,
// ответ целиком или ничего.
func (h *Handle) Extract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "POST only"})
		return
	}

	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad json"})
		return
	}
	if req.Image == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "image is required"})
		return
	}

	name := req.Engine
	if name == "" {
		name = h.def
	}
	eng := h.engs.ByName(name)
	if eng == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown engine: " + name})
		return
	}

	data, mimeHint, err := util.DecodeBase64MaybeDataURL(req.Image)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad base64 image"})
		return
	}

	id := uuid.NewString()
	src := encode.Bytes(id, util.PickMIME(req.Mime, mimeHint, data), data)

	img, err := encode.Encode(r.Context(), src)
	if err != nil {
		log.Printf("extract %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "encode failed"})
		return
	}

	text, err := eng.Extract(r.Context(), img)
	if err != nil {
		log.Printf("extract %s (%s/%s): %v", id, eng.Name(), eng.GetModel(), err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "extraction failed"})
		return
	}

	lines := marker.Classify(text)
	out := extractResponse{
		RequestID: id,
		Engine:    eng.Name(),
		Model:     eng.GetModel(),
		Text:      text,
		Lines:     make([]classifiedLine, 0, len(lines)),
	}
	for _, l := range lines {
		cl := classifiedLine{Label: l.Label, Text: l.Text}
		if l.Marker != 0 {
			cl.Marker = string(l.Marker)
		}
		out.Lines = append(out.Lines, cl)
	}
	writeJSON(w, http.StatusOK, out)
}
