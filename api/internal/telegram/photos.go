package telegram

import (
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"comic-bot/api/internal/encode"
)

// acceptPhoto — пользователь прислал страницу сжатым фото. Telegram отдаёт
// фото всегда как JPEG, это и есть заявленный тип.
func (r *Router) acceptPhoto(msg tgbotapi.Message) {
	cid := msg.Chat.ID

	if !r.firstOfAlbum(cid, msg.MediaGroupID) {
		// остальные страницы альбома молча пропускаем
		return
	}
	if msg.MediaGroupID != "" {
		r.send(cid, "Обрабатываю одну страницу за раз — возьму первую из альбома.")
	}

	ph := msg.Photo[len(msg.Photo)-1]
	data, err := r.downloadFile(ph.FileID)
	if err != nil {
		r.sendSelectError(cid, err)
		return
	}

	name := fmt.Sprintf("photo-%s.jpg", ph.FileUniqueID)
	r.selectPage(cid, encode.Bytes(name, "image/jpeg", data))
}

// acceptDocument — страница файлом. MIME берём из метаданных документа,
// содержимое не сниффаем.
func (r *Router) acceptDocument(msg tgbotapi.Message) {
	cid := msg.Chat.ID
	doc := msg.Document

	// альбомы бывают и из документов — правило то же: одна страница
	if !r.firstOfAlbum(cid, msg.MediaGroupID) {
		return
	}
	if msg.MediaGroupID != "" {
		r.send(cid, "Обрабатываю одну страницу за раз — возьму первую из альбома.")
	}

	data, err := r.downloadFile(doc.FileID)
	if err != nil {
		r.sendSelectError(cid, err)
		return
	}

	name := doc.FileName
	if name == "" {
		name = "page-" + doc.FileUniqueID
	}
	r.selectPage(cid, encode.Bytes(name, doc.MimeType, data))
}

// firstOfAlbum — true, если сообщение вне альбома или это первая
// увиденная страница данного альбома. Остальные страницы не выбираются.
func (r *Router) firstOfAlbum(cid int64, mediaGroupID string) bool {
	if mediaGroupID == "" {
		return true
	}
	if v, ok := r.lastAlbum.Load(cid); ok && v.(string) == mediaGroupID {
		return false
	}
	r.lastAlbum.Store(cid, mediaGroupID)
	return true
}

func (r *Router) selectPage(cid int64, src encode.Source) {
	r.session(cid).Select(src)

	msg := tgbotapi.NewMessage(cid, "Страница принята: "+src.Name)
	msg.ReplyMarkup = makeExtractKeyboard()
	_, _ = r.Bot.Send(msg)
}

func (r *Router) sendSelectError(cid int64, err error) {
	r.send(cid, "⚠️ Не смог получить файл. Пришлите страницу ещё раз.")
	logErr(cid, err)
}

func (r *Router) downloadFile(fileID string) ([]byte, error) {
	file, err := r.Bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", r.Bot.Token, file.FilePath)
	return download(url)
}

func download(url string) ([]byte, error) {
	resp, err := httpClient().Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(resp.Body)
}

func httpClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}
