package paletteio

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/ditherum/internal/colorspace"
	"github.com/ironsheep/ditherum/internal/palette"
)

func samplePalette(t *testing.T) *palette.Palette {
	t.Helper()
	p, err := palette.New([]colorspace.RGB{
		{R: 255, G: 255, B: 255},
		{},
		{R: 18, G: 52, B: 86},
	})
	if err != nil {
		t.Fatalf("palette.New failed: %v", err)
	}
	return p
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	p := samplePalette(t)

	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"colors"`) {
		t.Errorf("encoded form lacks colors key: %s", buf.String())
	}

	back, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !back.Equal(p) {
		t.Errorf("round trip: got %v, want %v", back.Colors(), p.Colors())
	}
}

func TestDecode_FlatArray(t *testing.T) {
	p, err := Decode(strings.NewReader(`[[0,0,0],[255,128,1]]`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if p.Len() != 2 || p.At(1) != (colorspace.RGB{R: 255, G: 128, B: 1}) {
		t.Errorf("got %v", p.Colors())
	}
}

func TestDecode_InvalidData(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"malformed", `{"colors": [`},
		{"not json", `palette`},
		{"empty list", `{"colors": []}`},
		{"null list", `{"colors": null}`},
		{"missing channel", `{"colors": [{"r": 1, "g": 2}]}`},
		{"out of range", `{"colors": [{"r": 256, "g": 0, "b": 0}]}`},
		{"negative", `{"colors": [{"r": -1, "g": 0, "b": 0}]}`},
		{"fractional", `{"colors": [{"r": 1.5, "g": 0, "b": 0}]}`},
		{"duplicate", `{"colors": [{"r": 1, "g": 2, "b": 3}, {"r": 1, "g": 2, "b": 3}]}`},
		{"flat short triple", `[[1,2]]`},
		{"flat empty", `[]`},
		{"flat null channel", `[[1,null,3]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			if !errors.Is(err, ErrInvalidData) {
				t.Errorf("got %v, want ErrInvalidData", err)
			}
		})
	}
}

func TestEncode_Empty(t *testing.T) {
	if err := Encode(&bytes.Buffer{}, nil); !errors.Is(err, ErrInvalidData) {
		t.Errorf("got %v, want ErrInvalidData", err)
	}
}

func TestSaveLoad(t *testing.T) {
	p := samplePalette(t)

	for _, name := range []string{"palette.json", "palette.json.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := Save(path, p); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			back, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if !back.Equal(p) {
				t.Errorf("got %v, want %v", back.Colors(), p.Colors())
			}
		})
	}
}

func TestSave_Compresses(t *testing.T) {
	p := samplePalette(t)
	dir := t.TempDir()

	if err := Save(filepath.Join(dir, "p.json.zst"), p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "p.json.zst"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	// zstd frame magic
	if !bytes.HasPrefix(raw, []byte{0x28, 0xB5, 0x2F, 0xFD}) {
		t.Errorf("file does not start with a zstd frame: % x", raw[:min(4, len(raw))])
	}
}

func TestLoad_NonExistent(t *testing.T) {
	_, err := Load("/nonexistent/palette.json")
	if err == nil {
		t.Fatal("Load should fail for a missing file")
	}
	if errors.Is(err, ErrInvalidData) {
		t.Error("a missing file is not a data validation error")
	}
}

func TestLoad_CorruptCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json.zst")
	if err := os.WriteFile(path, []byte("definitely not zstd"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalidData) {
		t.Errorf("got %v, want ErrInvalidData", err)
	}
}

func TestIsPaletteFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.json", true},
		{"a.JSON", true},
		{"a.json.zst", true},
		{"a.png", false},
		{"a.zst", false},
		{"json", false},
	}
	for _, tt := range tests {
		if got := IsPaletteFile(tt.path); got != tt.want {
			t.Errorf("IsPaletteFile(%q): got %v, want %v", tt.path, got, tt.want)
		}
	}
}
