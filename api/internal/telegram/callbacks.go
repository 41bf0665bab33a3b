package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"comic-bot/api/internal/extract"
)

func (r *Router) handleCallback(cb tgbotapi.CallbackQuery) {
	cid := cb.Message.Chat.ID

	switch cb.Data {
	case "extract_go":
		_, _ = r.Bot.Request(tgbotapi.NewCallback(cb.ID, "")) // ack
		r.trigger(cid)
	case "copy_raw":
		r.onCopyRaw(cid, cb.ID)
	default:
		_, _ = r.Bot.Request(tgbotapi.NewCallback(cb.ID, ""))
	}
}

// onCopyRaw — «буфер обмена» чата: отправляем сырой транскрипт отдельным
// сообщением без разметки, чтобы его было удобно копировать целиком.
// Сам флаг «скопировано» живёт 2 секунды и на извлечение не влияет.
func (r *Router) onCopyRaw(cid int64, callbackID string) {
	sess := r.session(cid)
	st := sess.Status()
	if st.Phase != extract.Succeeded || st.RawText == "" {
		_, _ = r.Bot.Request(tgbotapi.NewCallback(callbackID, "Нечего копировать"))
		return
	}

	r.send(cid, truncate(st.RawText, 3900))
	sess.MarkCopied()
	_, _ = r.Bot.Request(tgbotapi.NewCallback(callbackID, "Скопировано ✅"))
}
