package telegram

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"comic-bot/api/internal/extract"
	"comic-bot/api/internal/marker"
)

type Router struct {
	Bot        *tgbotapi.BotAPI
	EngManager *extract.Manager
	Engines    extract.Engines

	sessions  sync.Map // chatID -> *extract.Orchestrator
	lastShown sync.Map // chatID -> "phase:requestID" — защита от повторного показа
	lastAlbum sync.Map // chatID -> mediaGroupID, берём только первую страницу альбома
}

// session — оркестратор сессии чата; создаётся лениво.
func (r *Router) session(chatID int64) *extract.Orchestrator {
	if v, ok := r.sessions.Load(chatID); ok {
		return v.(*extract.Orchestrator)
	}
	o := extract.NewOrchestrator(func(st extract.Status) { r.onStatus(chatID, st) })
	actual, _ := r.sessions.LoadOrStore(chatID, o)
	return actual.(*extract.Orchestrator)
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(*upd.CallbackQuery)
		return
	}
	if upd.Message == nil {
		return
	}
	msg := upd.Message
	cid := msg.Chat.ID

	if msg.IsCommand() {
		r.handleCommand(cid, msg)
		return
	}
	if len(msg.Photo) > 0 {
		r.acceptPhoto(*msg)
		return
	}
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		r.acceptDocument(*msg)
		return
	}
	if msg.Text != "" {
		r.send(cid, "Пришлите страницу комикса картинкой, затем нажмите «Извлечь текст».")
	}
}

func (r *Router) handleCommand(cid int64, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		r.send(cid, "Пришлите страницу комикса или манхвы — верну транскрипт с разметкой по типам текста.\n\n"+
			marker.LegendText()+"\n\nКоманды: /legend, /engine, /health")
	case "legend":
		r.send(cid, marker.LegendText())
	case "health":
		r.send(cid, "✅ OK")
	case "engine":
		r.handleEngineCommand(cid, msg.Text)
	default:
		r.send(cid, "Неизвестная команда")
	}
}

// handleEngineCommand парсит /engine и переключает движок для чата.
// Форматы:
//
//	/engine gemini [model]
//	/engine gpt [model]
func (r *Router) handleEngineCommand(chatID int64, cmd string) {
	args := strings.Fields(strings.TrimSpace(strings.TrimPrefix(cmd, "/engine")))
	if len(args) == 0 {
		cur := r.EngManager.Get(chatID)
		r.send(chatID, "Текущий движок: "+cur.Name()+" ("+cur.GetModel()+")\nИспользование:\n/engine gemini [model]\n/engine gpt [model]")
		return
	}
	name := strings.ToLower(args[0])
	var modelArg string
	if len(args) > 1 {
		modelArg = strings.TrimSpace(args[1])
	}

	type modelSetter interface{ SetModel(string) }

	eng := r.Engines.ByName(name)
	if eng == nil {
		r.send(chatID, "Неизвестный движок. Доступны: gemini | gpt")
		return
	}
	if modelArg != "" {
		if ms, ok := any(eng).(modelSetter); ok {
			ms.SetModel(modelArg)
		}
	}
	r.EngManager.Set(chatID, eng)
	r.send(chatID, "✅ Движок: "+eng.Name()+" ("+eng.GetModel()+").")
}

// onStatus — единственная точка, где переходы машины состояний становятся
// сообщениями в чате. Повторные снимки одного и того же запроса (например,
// эмиссии флага «скопировано») не перерисовываются.
func (r *Router) onStatus(chatID int64, st extract.Status) {
	switch st.Phase {
	case extract.Idle:
		if st.Message != "" {
			r.send(chatID, st.Message)
		}
	case extract.Loading:
		if !r.firstShow(chatID, st) {
			return
		}
		r.send(chatID, "🔍 Извлекаю текст…")
	case extract.Succeeded:
		if !r.firstShow(chatID, st) {
			return
		}
		lines := marker.Classify(st.RawText)
		if len(lines) == 0 {
			r.send(chatID, "На странице не нашлось читаемого текста.")
			return
		}
		r.sendResult(chatID, marker.FormatLines(lines))
	case extract.Failed:
		if !r.firstShow(chatID, st) {
			return
		}
		r.send(chatID, "⚠️ "+st.Message)
	}
}

func (r *Router) firstShow(chatID int64, st extract.Status) bool {
	key := st.Phase.String() + ":" + st.RequestID
	if v, ok := r.lastShown.Load(chatID); ok && v.(string) == key {
		return false
	}
	r.lastShown.Store(chatID, key)
	return true
}

func (r *Router) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	_, _ = r.Bot.Send(msg)
}

func (r *Router) sendResult(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "📝 Транскрипт страницы:\n\n"+truncate(text, 3900))
	msg.ReplyMarkup = makeResultKeyboard()
	_, _ = r.Bot.Send(msg)
}

// truncate обрезает текст до n байт по границе руны: резать кириллицу или
// эмодзи посередине нельзя, Telegram отклоняет битый UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}

// Trigger — запуск извлечения по кнопке.
func (r *Router) trigger(chatID int64) {
	sess := r.session(chatID)
	eng := r.EngManager.Get(chatID)
	if eng == nil {
		r.send(chatID, "⚠️ Движок извлечения не настроен.")
		return
	}
	sess.Trigger(context.Background(), eng)
}
