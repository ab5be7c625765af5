package processor

import (
	"errors"
	"testing"

	"github.com/ironsheep/ditherum/internal/cluster"
	"github.com/ironsheep/ditherum/internal/colorspace"
	"github.com/ironsheep/ditherum/internal/dither"
	"github.com/ironsheep/ditherum/internal/imaging"
	"github.com/ironsheep/ditherum/internal/palette"
)

func testGrid() *imaging.Grid {
	return imaging.Gradient(64, 8, colorspace.RGB{R: 10, G: 40, B: 200}, colorspace.RGB{R: 250, G: 200, B: 20})
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		maxLen  int
		wantErr error
	}{
		{"fresh", Options{Colors: 6}, 6, nil},
		{"zero colors", Options{}, 0, palette.ErrInvalidParameter},
		{"zero colors dominant", Options{Method: MethodDominant}, 0, palette.ErrInvalidParameter},
		{"fresh and reduce", Options{Colors: 8, ReduceTo: 3}, 3, nil},
		{"given palette", Options{Palette: palette.Primary()}, 8, nil},
		{"given and reduce", Options{Palette: palette.Primary(), ReduceTo: 2}, 2, nil},
		{"reduce not smaller", Options{Palette: palette.BlackAndWhite(), ReduceTo: 2}, 0, palette.ErrInvalidParameter},
		{"negative reduce", Options{Colors: 4, ReduceTo: -1}, 0, palette.ErrInvalidParameter},
		{"negative colors", Options{Colors: -4}, 0, palette.ErrInvalidParameter},
		{"dominant", Options{Colors: 4, Method: MethodDominant}, 4, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Cluster = cluster.DefaultConfig()
			p, err := Extract(testGrid(), tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Extract failed: %v", err)
			}
			if p.Len() < 1 || p.Len() > tt.maxLen {
				t.Errorf("Len: got %d, want 1..%d", p.Len(), tt.maxLen)
			}
		})
	}
}

func TestExtract_DoesNotModifyGivenPalette(t *testing.T) {
	given := palette.Primary()
	if _, err := Extract(testGrid(), Options{Palette: given, ReduceTo: 4}); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if given.Len() != 8 {
		t.Errorf("given palette modified: Len %d", given.Len())
	}
}

func TestRun(t *testing.T) {
	src := testGrid()

	res, err := Run(src, Options{Colors: 4, Algorithm: dither.FloydSteinberg})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Image.Width != src.Width || res.Image.Height != src.Height {
		t.Fatalf("dimensions: got %dx%d", res.Image.Width, res.Image.Height)
	}
	for i, c := range res.Image.Pix {
		if idx, got := res.Palette.Nearest(c); got != c {
			t.Fatalf("pixel %d (%v) is not a palette entry (nearest %d)", i, c, idx)
		}
	}
	if res.Quality == nil || res.Quality.DistinctColors > 4 {
		t.Errorf("quality: got %+v", res.Quality)
	}
}

func TestRun_EmptyImageWithPalette(t *testing.T) {
	res, err := Run(imaging.NewGrid(0, 0), Options{Palette: palette.BlackAndWhite()})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Quality != nil {
		t.Error("empty image should have no quality report")
	}
}

func TestRun_EmptyImageWithoutPalette(t *testing.T) {
	_, err := Run(imaging.NewGrid(0, 0), Options{Colors: 4})
	if !errors.Is(err, palette.ErrInvalidParameter) {
		t.Errorf("got %v, want ErrInvalidParameter", err)
	}
}

func TestParseMethod(t *testing.T) {
	for in, want := range map[string]Method{"": MethodLab, "lab": MethodLab, "KMeans": MethodLab, "dominant": MethodDominant} {
		got, err := ParseMethod(in)
		if err != nil || got != want {
			t.Errorf("ParseMethod(%q): got %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseMethod("octree"); err == nil {
		t.Error("unknown method accepted")
	}
}
