package paletteio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/ironsheep/ditherum/internal/colorspace"
	"github.com/ironsheep/ditherum/internal/palette"
)

// ErrInvalidData is returned when palette data fails validation.
var ErrInvalidData = errors.New("invalid palette data")

// CompressedExt marks zstd-compressed palette files.
const CompressedExt = ".zst"

type document struct {
	Colors []channels `json:"colors"`
}

// channels uses pointers so a missing key can be told apart from zero.
type channels struct {
	R *int `json:"r"`
	G *int `json:"g"`
	B *int `json:"b"`
}

// Decode reads a palette from JSON.
func Decode(r io.Reader) (*palette.Palette, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read palette: %w", err)
	}

	var triples [][3]*int
	switch trimmed := bytes.TrimSpace(data); {
	case len(trimmed) == 0:
		return nil, fmt.Errorf("%w: empty input", ErrInvalidData)
	case trimmed[0] == '[':
		var flat [][]*int
		if err := json.Unmarshal(trimmed, &flat); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
		}
		for i, t := range flat {
			if len(t) != 3 {
				return nil, fmt.Errorf("%w: color %d has %d channels, want 3", ErrInvalidData, i, len(t))
			}
			triples = append(triples, [3]*int{t[0], t[1], t[2]})
		}
	default:
		var doc document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
		}
		for _, c := range doc.Colors {
			triples = append(triples, [3]*int{c.R, c.G, c.B})
		}
	}

	colors, err := validate(triples)
	if err != nil {
		return nil, err
	}
	return palette.New(colors)
}

func validate(triples [][3]*int) ([]colorspace.RGB, error) {
	if len(triples) == 0 {
		return nil, fmt.Errorf("%w: no colors", ErrInvalidData)
	}

	seen := make(map[colorspace.RGB]int, len(triples))
	colors := make([]colorspace.RGB, len(triples))
	for i, t := range triples {
		var v [3]uint8
		for ch, p := range t {
			if p == nil {
				return nil, fmt.Errorf("%w: color %d is missing channel %q", ErrInvalidData, i, "rgb"[ch:ch+1])
			}
			if *p < 0 || *p > 255 {
				return nil, fmt.Errorf("%w: color %d channel %q = %d out of range 0-255", ErrInvalidData, i, "rgb"[ch:ch+1], *p)
			}
			v[ch] = uint8(*p)
		}
		c := colorspace.RGB{R: v[0], G: v[1], B: v[2]}
		if j, ok := seen[c]; ok {
			return nil, fmt.Errorf("%w: color %d duplicates color %d (%s)", ErrInvalidData, i, j, c.Hex())
		}
		seen[c] = i
		colors[i] = c
	}
	return colors, nil
}

// Encode writes a palette as indented JSON in its entry order.
func Encode(w io.Writer, p *palette.Palette) error {
	if p == nil || p.Len() == 0 {
		return fmt.Errorf("%w: empty palette", ErrInvalidData)
	}

	doc := document{Colors: make([]channels, p.Len())}
	for i, c := range p.Colors() {
		r, g, b := int(c.R), int(c.G), int(c.B)
		doc.Colors[i] = channels{R: &r, G: &g, B: &b}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode palette: %w", err)
	}
	return nil
}

// Load reads a palette file, decompressing it when the name ends in ".zst".
func Load(path string) (*palette.Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open palette: %w", err)
	}
	defer f.Close()

	if !IsCompressed(path) {
		return Decode(f)
	}

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	defer dec.Close()

	p, err := Decode(dec)
	if err != nil && !errors.Is(err, ErrInvalidData) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return p, err
}

// Save writes a palette file, compressing it when the name ends in ".zst".
func Save(path string, p *palette.Palette) error {
	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create palette file: %w", err)
	}

	if IsCompressed(path) {
		err = writeZstd(f, buf.Bytes())
	} else {
		_, err = f.Write(buf.Bytes())
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write palette: %w", err)
	}
	return nil
}

func writeZstd(w io.Writer, raw []byte) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderConcurrency(runtime.NumCPU()))
	if err != nil {
		return err
	}
	if _, err := enc.Write(raw); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// IsCompressed reports whether path names a zstd-compressed palette.
func IsCompressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), CompressedExt)
}

// IsPaletteFile reports whether path looks like a palette file rather than
// an image: ".json", or ".json.zst".
func IsPaletteFile(path string) bool {
	if IsCompressed(path) {
		path = strings.TrimSuffix(path, filepath.Ext(path))
	}
	return strings.EqualFold(filepath.Ext(path), ".json")
}
