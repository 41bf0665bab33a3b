package extract

import (
	"context"
	"sync"

	"comic-bot/api/internal/encode"
)

// Engine — внешняя extraction-способность: картинка → сырой транскрипт
// в маркер-протоколе (см. api/internal/marker). Один вызов — одна попытка.
type Engine interface {
	Name() string
	GetModel() string
	Extract(ctx context.Context, img encode.EncodedImage) (string, error)
}

// Engines — сконфигурированные движки для поверхностей.
type Engines struct {
	Gemini Engine
	OpenAI Engine
}

// ByName резолвит движок по имени из /engine или из HTTP-запроса.
func (e Engines) ByName(name string) Engine {
	switch name {
	case "gemini":
		return e.Gemini
	case "gpt", "openai":
		return e.OpenAI
	default:
		return nil
	}
}

// Manager хранит выбранный движок на чат, с дефолтом.
type Manager struct {
	def Engine
	m   sync.Map // chatID -> Engine
}

func NewManager(defaultEngine Engine) *Manager {
	return &Manager{def: defaultEngine}
}

func (m *Manager) Get(chatID int64) Engine {
	if v, ok := m.m.Load(chatID); ok {
		return v.(Engine)
	}
	return m.def
}

func (m *Manager) Set(chatID int64, e Engine) {
	m.m.Store(chatID, e)
}
