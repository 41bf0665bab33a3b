package marker

import "strings"

// Entry — строка легенды. Marker — ведущий символ строки транскрипта.
type Entry struct {
	Marker  byte
	Label   string
	Emoji   string
	DocOnly bool // присутствует в легенде, но структурно никогда не матчится
}

// Легенда фиксированная, порядок — порядок показа пользователю.
// Порядок НЕ влияет на матчинг: матчинг — точный lookup по первому символу.
var legend = []Entry{
	{Marker: '#', Label: "реплика (диалог)", Emoji: "💬"},
	{Marker: '$', Label: "мысль / шёпот", Emoji: "💭"},
	{Marker: '&', Label: "нарратив", Emoji: "📖"},
	{Marker: '(', Label: "звук (SFX)", Emoji: "🔊"},
	{Marker: ')', Label: "крик", Emoji: "💥"},
	{Marker: '/', Label: "системный текст", Emoji: "⚙️"},
	// «_» — только документация для пользователя: строки без известного
	// маркера показываются как есть, сам символ «_» не срезается.
	{Marker: '_', Label: "прочее (без категории)", Emoji: "❔", DocOnly: true},
}

var byMarker = func() map[byte]Entry {
	m := make(map[byte]Entry, len(legend))
	for _, e := range legend {
		if e.DocOnly {
			continue
		}
		m[e.Marker] = e
	}
	return m
}()

// Legend возвращает копию легенды в порядке показа.
func Legend() []Entry {
	out := make([]Entry, len(legend))
	copy(out, legend)
	return out
}

// Line — одна классифицированная строка транскрипта.
// Marker == 0 означает «маркер не распознан», текст тогда не триммится.
type Line struct {
	Marker byte
	Label  string
	Text   string
}

// Classify разбирает полный транскрипт страницы.
// Правила:
//  1. split строго по "\n" (без нормализации "\r\n");
//  2. точное сравнение первого символа с легендой;
//  3. при совпадении — срезаем ровно один символ и триммим пробелы;
//  4. без совпадения — строка возвращается как есть;
//  5. порядок строк сохраняется, количество строк сохраняется.
//
// Пустой транскрипт даёт пустой результат. Функция чистая и идемпотентная.
func Classify(transcript string) []Line {
	if transcript == "" {
		return nil
	}
	raw := strings.Split(transcript, "\n")
	out := make([]Line, 0, len(raw))
	for _, s := range raw {
		if s == "" {
			out = append(out, Line{})
			continue
		}
		if e, ok := byMarker[s[0]]; ok {
			out = append(out, Line{
				Marker: e.Marker,
				Label:  e.Label,
				Text:   strings.TrimSpace(s[1:]),
			})
			continue
		}
		out = append(out, Line{Text: s})
	}
	return out
}

// FormatLines — отображение для чата: маркированные строки получают
// эмодзи категории, немаркированные идут без префикса.
func FormatLines(lines []Line) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if l.Marker != 0 {
			if e, ok := byMarker[l.Marker]; ok {
				b.WriteString(e.Emoji)
				b.WriteByte(' ')
			}
		}
		b.WriteString(l.Text)
	}
	return b.String()
}

// LegendText — текст легенды для /legend и /start.
func LegendText() string {
	var b strings.Builder
	b.WriteString("Легенда маркеров:\n")
	for _, e := range legend {
		b.WriteString(e.Emoji)
		b.WriteByte(' ')
		b.WriteByte(e.Marker)
		b.WriteString(" — ")
		b.WriteString(e.Label)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
