package main

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/ironsheep/ditherum/internal/dither"
	"github.com/ironsheep/ditherum/internal/imaging"
	"github.com/ironsheep/ditherum/internal/palette"
	"github.com/ironsheep/ditherum/internal/paletteio"
	"github.com/ironsheep/ditherum/internal/processor"
)

// stem returns path without its extension, treating
// ".json.zst" as a single extension.
func stem(path string) string {
	if paletteio.IsCompressed(path) {
		path = strings.TrimSuffix(path, filepath.Ext(path))
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// defaultPaletteOutput is the input with a .json extension. A palette
// being reduced gets the target size appended so the input survives.
func defaultPaletteOutput(input string, fromPalette bool, colors int) string {
	if fromPalette {
		return fmt.Sprintf("%s-%d.json", stem(input), colors)
	}
	return stem(input) + ".json"
}

func defaultDitherOutput(input string) string {
	return stem(input) + "-dithered.png"
}

// loadPaletteArg resolves a preset name or a palette file.
func loadPaletteArg(ref string) (*palette.Palette, error) {
	if palette.IsPreset(ref) {
		return palette.Preset(ref)
	}
	p, err := paletteio.Load(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to load palette %s: %w", ref, err)
	}
	return p, nil
}

// showPalette logs the palette and, in verbose mode, prints its swatches.
func showPalette(label string, p *palette.Palette) {
	debugf("%s: %d colors", label, p.Len())
	if debug {
		fmt.Println(p.SortByLightness().ANSI())
	}
}

// SourceOptions selects the input image and its preprocessing.
type SourceOptions struct {
	Input  string `short:"i" long:"input" description:"Input image" required:"true"`
	Width  int    `long:"width" description:"Resize to this width before processing (0 keeps aspect)"`
	Height int    `long:"height" description:"Resize to this height before processing (0 keeps aspect)"`
	Crop   string `long:"crop" description:"Crop to x1,y1,x2,y2 before resizing"`
}

func (o SourceOptions) load() (*imaging.Grid, error) {
	img, err := imaging.Load(o.Input)
	if err != nil {
		return nil, err
	}

	var crop *imaging.Region
	if o.Crop != "" {
		r, err := imaging.ParseRegion(o.Crop)
		if err != nil {
			return nil, err
		}
		crop = &r
	}
	if img, err = imaging.Preprocess(img, crop, o.Width, o.Height); err != nil {
		return nil, err
	}

	g := imaging.FromImage(img)
	debugf("loaded %s as %dx%d (%d distinct colors)", o.Input, g.Width, g.Height, g.DistinctColors())
	return g, nil
}

type paletteCommand struct {
	SourceOptions
	Output  string `short:"o" long:"output" description:"Palette file to write (.json or .json.zst; default: input with .json)"`
	Colors  *int   `short:"c" long:"colors" description:"Palette size to extract (default 16), or to reduce an input palette to"`
	Method  string `long:"method" default:"lab" choice:"lab" choice:"dominant" description:"Extraction method"`
	Preview string `long:"preview" description:"Also write a swatch image of the palette to this path"`
}

func (c *paletteCommand) Execute(args []string) error {
	cfg, err := clusterConfig()
	if err != nil {
		return err
	}

	fromPalette := paletteio.IsPaletteFile(c.Input)
	var p *palette.Palette
	if fromPalette {
		if p, err = paletteio.Load(c.Input); err != nil {
			return err
		}
		showPalette("input palette", p)
		if c.Colors != nil {
			if p, err = p.TryReduce(*c.Colors, cfg); err != nil {
				return fmt.Errorf("failed to reduce palette: %w", err)
			}
		}
	} else {
		method, err := processor.ParseMethod(c.Method)
		if err != nil {
			return err
		}
		grid, err := c.SourceOptions.load()
		if err != nil {
			return err
		}
		colors := processor.DefaultColors
		if c.Colors != nil {
			colors = *c.Colors
		}
		if p, err = processor.Extract(grid, processor.Options{Colors: colors, Method: method, Cluster: cfg}); err != nil {
			return err
		}
	}
	showPalette("palette", p)

	output := c.Output
	if output == "" {
		output = defaultPaletteOutput(c.Input, fromPalette, p.Len())
	}
	if err := paletteio.Save(output, p); err != nil {
		return err
	}
	log.Printf("Palette with %d colors written to %s", p.Len(), output)

	if c.Preview != "" {
		swatch, err := imaging.Swatch(p.SortByLightness().Colors(), 0)
		if err != nil {
			return err
		}
		if err := imaging.Save(c.Preview, swatch); err != nil {
			return err
		}
		debugf("preview written to %s", c.Preview)
	}
	return nil
}

type ditherCommand struct {
	SourceOptions
	Output        string `short:"o" long:"output" description:"Output image (default: <input>-dithered.png)"`
	Palette       string `short:"p" long:"palette" description:"Palette file or preset (bw, primary, grayN); extracted from the image when omitted"`
	Colors        int    `short:"c" long:"colors" description:"Palette size to extract when no palette is given" default:"16"`
	ReduceTo      int    `long:"reduce" description:"Reduce the palette to this many colors before dithering"`
	PaletteOutput string `short:"r" long:"save-palette" description:"Write the palette actually used to this file"`
	Algorithm     string `short:"a" long:"algorithm" default:"floyd-steinberg" description:"floyd-steinberg, floyd-steinberg-lab, sierra-lite, threshold or threshold-rgb"`
}

func (c *ditherCommand) Execute(args []string) error {
	cfg, err := clusterConfig()
	if err != nil {
		return err
	}
	alg, err := dither.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return err
	}

	opts := processor.Options{
		Colors:    c.Colors,
		ReduceTo:  c.ReduceTo,
		Algorithm: alg,
		Cluster:   cfg,
	}
	if c.Palette != "" {
		if opts.Palette, err = loadPaletteArg(c.Palette); err != nil {
			return err
		}
	}

	grid, err := c.SourceOptions.load()
	if err != nil {
		return err
	}
	res, err := processor.Run(grid, opts)
	if err != nil {
		return err
	}
	showPalette("dither palette", res.Palette)

	output := c.Output
	if output == "" {
		output = defaultDitherOutput(c.Input)
	}
	if err := imaging.SaveGrid(output, res.Image); err != nil {
		return err
	}
	if c.PaletteOutput != "" {
		if err := paletteio.Save(c.PaletteOutput, res.Palette); err != nil {
			return err
		}
		debugf("palette written to %s", c.PaletteOutput)
	}

	if q := res.Quality; q != nil {
		debugf("quality: mean dE %.2f, stddev %.2f, PSNR %.2f dB, %d colors",
			q.MeanDeltaE, q.StdDevDeltaE, q.PSNR, q.DistinctColors)
	}
	log.Printf("Dithered %s with %s to %s", c.Input, alg, output)
	return nil
}

type gradientCommand struct {
	Output string `short:"o" long:"output" description:"Output image" required:"true"`
	Width  int    `long:"width" default:"256" description:"Image width"`
	Height int    `long:"height" default:"64" description:"Image height"`
	From   string `long:"from" default:"#000000" description:"Left edge color"`
	To     string `long:"to" default:"#FFFFFF" description:"Right edge color"`
}

func (c *gradientCommand) Execute(args []string) error {
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("gradient size must be positive, got %dx%d", c.Width, c.Height)
	}
	from, err := imaging.ParseHexColor(c.From)
	if err != nil {
		return err
	}
	to, err := imaging.ParseHexColor(c.To)
	if err != nil {
		return err
	}
	if err := imaging.SaveGrid(c.Output, imaging.Gradient(c.Width, c.Height, from, to)); err != nil {
		return err
	}
	log.Printf("Gradient %dx%d written to %s", c.Width, c.Height, c.Output)
	return nil
}
