package extract

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"comic-bot/api/internal/encode"
)

// Phase — фаза запроса извлечения. Ровно одна фаза активна на сессию.
type Phase int

const (
	Idle Phase = iota
	Loading
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Статические сообщения для пользователя. Детали ошибок — только в лог.
const (
	MsgNoImage = "Сначала пришлите страницу комикса или манхвы."
	MsgFailed  = "Не получилось извлечь текст со страницы. Попробуйте ещё раз."
)

// Status — снимок состояния сессии для поверхности.
type Status struct {
	Phase     Phase
	RequestID string // uuid активного запроса, для корреляции в логах
	RawText   string // заполнен только в Succeeded
	Message   string // валидация (Idle) или статичный текст ошибки (Failed)
	Copied    bool   // транзиентный флаг «скопировано», сам сбрасывается
}

// Orchestrator ведёт жизненный цикл одного запроса извлечения:
// выбор изображения → кодирование → внешний вызов → показ. Устаревшие
// ответы (пришедшие после нового Select/Trigger) отбрасываются по счётчику
// поколений; сам внешний вызов не отменяется.
type Orchestrator struct {
	mu        sync.Mutex
	gen       uint64
	src       *encode.Source
	st        Status
	notify    func(Status)
	copiedTTL time.Duration
}

// NewOrchestrator создаёт сессию. notify дергается на каждый переход
// (может быть nil); вызывается без удержания внутреннего мьютекса.
func NewOrchestrator(notify func(Status)) *Orchestrator {
	return &Orchestrator{
		notify:    notify,
		copiedTTL: 2 * time.Second,
	}
}

// Select — пользователь выбрал новое изображение. Из любой фазы переходим
// в Idle, прежний результат/ошибка и летящий запрос становятся мусором.
func (o *Orchestrator) Select(src encode.Source) {
	o.mu.Lock()
	o.gen++
	o.src = &src
	o.st = Status{Phase: Idle}
	st := o.st
	o.mu.Unlock()
	o.emit(st)
}

// Selected — есть ли выбранное изображение.
func (o *Orchestrator) Selected() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.src != nil
}

// Trigger запускает извлечение. Без выбранного изображения остаёмся в Idle
// с валидационным сообщением — Loading не наступает. Иначе: Loading,
// кодирование и внешний вызов в горутине, результат применяется только
// если за время полёта не случился новый Select/Trigger.
func (o *Orchestrator) Trigger(ctx context.Context, eng Engine) {
	o.mu.Lock()
	if o.src == nil {
		o.st = Status{Phase: Idle, Message: MsgNoImage}
		st := o.st
		o.mu.Unlock()
		o.emit(st)
		return
	}
	o.gen++
	gen := o.gen
	src := *o.src
	id := uuid.NewString()
	o.st = Status{Phase: Loading, RequestID: id}
	st := o.st
	o.mu.Unlock()
	o.emit(st)

	go o.run(ctx, gen, id, src, eng)
}

func (o *Orchestrator) run(ctx context.Context, gen uint64, id string, src encode.Source, eng Engine) {
	img, err := encode.Encode(ctx, src)
	if err != nil {
		o.resolve(gen, id, "", err)
		return
	}
	text, err := eng.Extract(ctx, img)
	o.resolve(gen, id, text, err)
}

// resolve применяет результат, если запрос всё ещё активен.
func (o *Orchestrator) resolve(gen uint64, id, text string, err error) {
	o.mu.Lock()
	if gen != o.gen {
		o.mu.Unlock()
		log.Printf("extract %s: stale result dropped (err=%v)", id, err)
		return
	}
	if err != nil {
		o.st = Status{Phase: Failed, RequestID: id, Message: MsgFailed}
	} else {
		o.st = Status{Phase: Succeeded, RequestID: id, RawText: text}
	}
	st := o.st
	o.mu.Unlock()

	if err != nil {
		log.Printf("extract %s: %v", id, err)
	}
	o.emit(st)
}

// MarkCopied взводит флаг «скопировано» и сбрасывает его через copiedTTL.
// На фазу извлечения не влияет. Если за время TTL случился новый
// Select/Trigger, сброс не эмитится — флаг уже стёрт вместе со статусом.
func (o *Orchestrator) MarkCopied() {
	o.mu.Lock()
	o.st.Copied = true
	gen := o.gen
	st := o.st
	ttl := o.copiedTTL
	o.mu.Unlock()
	o.emit(st)

	time.AfterFunc(ttl, func() {
		o.mu.Lock()
		if gen != o.gen {
			o.mu.Unlock()
			return
		}
		o.st.Copied = false
		st := o.st
		o.mu.Unlock()
		o.emit(st)
	})
}

// Status возвращает текущий снимок.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.st
}

func (o *Orchestrator) emit(st Status) {
	if o.notify != nil {
		o.notify(st)
	}
}
