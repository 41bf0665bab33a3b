package marker

import (
	"reflect"
	"strings"
	"testing"
)

func TestClassifyMarkedLines(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		marker byte
		text   string
	}{
		{"dialogue", "#Hello there  ", '#', "Hello there"},
		{"thought", "$a quiet thought", '$', "a quiet thought"},
		{"narration", "&Long ago...", '&', "Long ago..."},
		{"sfx", "(BOOM", '(', "BOOM"},
		{"scream", ")RUN!!", ')', "RUN!!"},
		{"system", "/LEVEL UP", '/', "LEVEL UP"},
		{"leading spaces trimmed", "#   padded   ", '#', "padded"},
		{"marker only", "(", '(', ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.in)
			if len(got) != 1 {
				t.Fatalf("lines = %d, want 1", len(got))
			}
			l := got[0]
			if l.Marker != tt.marker {
				t.Errorf("marker = %q, want %q", l.Marker, tt.marker)
			}
			if l.Text != tt.text {
				t.Errorf("text = %q, want %q", l.Text, tt.text)
			}
			if l.Label == "" {
				t.Error("label is empty for a matched marker")
			}
		})
	}
}

func TestClassifyUnmarkedLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		// «_» есть в легенде как «прочее», но это только документация:
		// структурно он не матчится и не срезается.
		{"underscore is not a structural marker", "_Random sfx"},
		{"plain text", "plain"},
		{"untrimmed stays untrimmed", "  spaced out  "},
		{"unknown punctuation", "!surprise"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.in)
			if len(got) != 1 {
				t.Fatalf("lines = %d, want 1", len(got))
			}
			l := got[0]
			if l.Marker != 0 {
				t.Errorf("marker = %q, want none", l.Marker)
			}
			if l.Label != "" {
				t.Errorf("label = %q, want empty", l.Label)
			}
			if l.Text != tt.in {
				t.Errorf("text = %q, want original %q", l.Text, tt.in)
			}
		})
	}
}

func TestClassifyLengthPreserving(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0}, // пустой транскрипт — пустой результат
		{"one", 1},
		{"a\nb", 2},
		{"a\n\nb", 3},
		{"\n", 2},
		{"#x\n#x\n#x", 3},
	}
	for _, tt := range tests {
		if got := Classify(tt.in); len(got) != tt.want {
			t.Errorf("Classify(%q): lines = %d, want %d", tt.in, len(got), tt.want)
		}
	}
}

func TestClassifyScenario(t *testing.T) {
	got := Classify("#Hi\n$thinking...\n&Long ago...\nplain")
	wantMarkers := []byte{'#', '$', '&', 0}
	wantTexts := []string{"Hi", "thinking...", "Long ago...", "plain"}
	if len(got) != 4 {
		t.Fatalf("lines = %d, want 4", len(got))
	}
	for i := range got {
		if got[i].Marker != wantMarkers[i] {
			t.Errorf("line %d: marker = %q, want %q", i, got[i].Marker, wantMarkers[i])
		}
		if got[i].Text != wantTexts[i] {
			t.Errorf("line %d: text = %q, want %q", i, got[i].Text, wantTexts[i])
		}
	}
}

func TestClassifyCRLFNotNormalized(t *testing.T) {
	// split только по "\n": хвостовой "\r" остаётся частью строки.
	// У немаркированной строки он виден как есть; у маркированной его
	// съедает трим вместе с остальными пробелами.
	got := Classify("plain\r\n#Hi\r\nend")
	if got[0].Text != "plain\r" {
		t.Errorf("unmarked line = %q, want %q", got[0].Text, "plain\r")
	}
	if got[1].Marker != '#' || got[1].Text != "Hi" {
		t.Errorf("marked line = %+v, want marker '#' text \"Hi\"", got[1])
	}
}

func TestClassifyEmptyLines(t *testing.T) {
	got := Classify("#a\n\n#b")
	if got[1].Marker != 0 || got[1].Label != "" || got[1].Text != "" {
		t.Errorf("empty line = %+v, want zero Line", got[1])
	}
}

func TestClassifyIdempotent(t *testing.T) {
	in := "#Hi\n$hm\n(WHAM\n_sfx\n\n)AAA\n/SYSTEM"
	a := Classify(in)
	b := Classify(in)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("second run differs:\n%+v\n%+v", a, b)
	}
}

func TestClassifyNoAggregation(t *testing.T) {
	got := Classify("#first\n#second")
	if len(got) != 2 {
		t.Fatalf("lines = %d, want 2 (no aggregation by marker)", len(got))
	}
	if got[0].Text == got[1].Text {
		t.Error("lines collapsed")
	}
}

func TestLegend(t *testing.T) {
	l := Legend()
	if len(l) != 7 {
		t.Fatalf("legend entries = %d, want 7", len(l))
	}
	seen := map[byte]bool{}
	for _, e := range l {
		if seen[e.Marker] {
			t.Errorf("duplicate marker %q", e.Marker)
		}
		seen[e.Marker] = true
		if e.Label == "" {
			t.Errorf("marker %q: empty label", e.Marker)
		}
	}
	last := l[len(l)-1]
	if last.Marker != '_' || !last.DocOnly {
		t.Errorf("last entry = %+v, want doc-only '_'", last)
	}
}

func TestLegendMutationDoesNotLeak(t *testing.T) {
	l := Legend()
	l[0].Label = "mutated"
	if Legend()[0].Label == "mutated" {
		t.Error("Legend returned shared backing array")
	}
}

func TestFormatLines(t *testing.T) {
	out := FormatLines(Classify("#Hi\nplain\n\n(WHAM"))
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("rendered lines = %d, want 4", len(lines))
	}
	if !strings.HasPrefix(lines[0], "💬 ") || !strings.HasSuffix(lines[0], "Hi") {
		t.Errorf("dialogue line = %q", lines[0])
	}
	if lines[1] != "plain" {
		t.Errorf("plain line = %q", lines[1])
	}
	if lines[2] != "" {
		t.Errorf("empty line = %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "🔊 ") {
		t.Errorf("sfx line = %q", lines[3])
	}
}

func TestLegendText(t *testing.T) {
	txt := LegendText()
	for _, m := range []string{"#", "$", "&", "(", ")", "/", "_"} {
		if !strings.Contains(txt, m) {
			t.Errorf("legend text misses marker %s", m)
		}
	}
}
