package util

import (
	"encoding/base64"
	"testing"
)

func TestDecodeBase64MaybeDataURL(t *testing.T) {
	raw := []byte{0xFF, 0xD8, 0x01, 0x02}
	std := base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name     string
		in       string
		wantMIME string
	}{
		{"plain std base64", std, ""},
		{"url-safe base64", base64.URLEncoding.EncodeToString(raw), ""},
		{"data url", "data:image/jpeg;base64," + std, "image/jpeg"},
		{"data url no params", "data:image/png," + std, "image/png"},
		{"padded whitespace", "  " + std + "  ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, mime, err := DecodeBase64MaybeDataURL(tt.in)
			if err != nil {
				t.Fatalf("err: %v", err)
			}
			if string(b) != string(raw) {
				t.Errorf("bytes = %v", b)
			}
			if mime != tt.wantMIME {
				t.Errorf("mime = %q, want %q", mime, tt.wantMIME)
			}
		})
	}

	if _, _, err := DecodeBase64MaybeDataURL("%%% not base64 %%%"); err == nil {
		t.Error("garbage input must fail")
	}
}

func TestPickMIME(t *testing.T) {
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0}

	tests := []struct {
		name           string
		explicit, hint string
		data           []byte
		want           string
	}{
		{"explicit wins", "image/webp", "image/png", png, "image/webp"},
		{"hint next", "", "image/png", nil, "image/png"},
		{"detect from bytes", "", "", png, "image/png"},
		{"fallback", "", "", nil, "image/jpeg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PickMIME(tt.explicit, tt.hint, tt.data); got != tt.want {
				t.Errorf("PickMIME = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"```text\n#Hi\n```", "#Hi"},
		{"```\n#Hi\n```", "#Hi"},
		{"#Hi", "#Hi"},
		{"  #Hi  ", "#Hi"},
	}
	for _, tt := range tests {
		if got := StripCodeFences(tt.in); got != tt.want {
			t.Errorf("StripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
