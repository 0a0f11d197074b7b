package main

import (
	"flag"
	"fmt"
	"image/color"
	"math/rand/v2"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

type previewOptions struct {
	Effect EffectKind
	Glyph  string
	Frames int
	Every  int
	Seed   uint64
	Color  color.RGBA
}

const (
	previewPanel   = 240
	previewColumns = 4
	previewFont    = 18.0
)

// runPreview handles `vanish preview`. It only ever draws a sample glyph.
func runPreview(args []string) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	effect := fs.String("effect", "explode", "effect to render: "+strings.Join(effectNames[:], ", "))
	glyph := fs.String("glyph", "a", "glyph to launch")
	frames := fs.Int("frames", 8, "number of panels")
	every := fs.Int("every", 10, "ticks between panels")
	seed := fs.Uint64("seed", 1, "random seed")
	hex := fs.String("color", defaultColor, "glyph colour")
	out := fs.String("out", "", "output PNG (default <effect>.png)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	kind, ok := ParseEffectKind(*effect)
	if !ok {
		return fmt.Errorf("unknown effect %q", *effect)
	}
	filename := *out
	if filename == "" {
		filename = kind.String() + ".png"
	}
	if !strings.EqualFold(filepath.Ext(filename), ".png") {
		filename += ".png"
	}

	return exportEffectPNG(filename, previewOptions{
		Effect: kind,
		Glyph:  *glyph,
		Frames: *frames,
		Every:  *every,
		Seed:   *seed,
		Color:  mustRGBA(*hex),
	})
}

// simulateFrames runs one spawn forward and snapshots the particle set every
// opts.Every ticks, starting with the spawn itself.
func simulateFrames(opts previewOptions) [][]Particle {
	if opts.Frames < 1 {
		opts.Frames = 1
	}
	if opts.Every < 1 {
		opts.Every = 1
	}
	engine := NewParticleEngine(rand.New(rand.NewPCG(opts.Seed, opts.Seed)))
	engine.SetBounds(previewPanel, previewPanel)
	engine.Spawn(opts.Effect, opts.Glyph, previewPanel/2, previewPanel/2, opts.Color)

	frames := make([][]Particle, 0, opts.Frames)
	frames = append(frames, engine.Particles())
	for len(frames) < opts.Frames {
		for i := 0; i < opts.Every; i++ {
			engine.Step()
		}
		frames = append(frames, engine.Particles())
	}
	return frames
}

func exportEffectPNG(filename string, opts previewOptions) error {
	if !opts.Effect.Valid() {
		return fmt.Errorf("nothing to export")
	}
	frames := simulateFrames(opts)

	cols := previewColumns
	if len(frames) < cols {
		cols = len(frames)
	}
	rows := (len(frames) + cols - 1) / cols

	dc := gg.NewContext(cols*previewPanel, rows*previewPanel)
	dc.SetHexColor(darkBgColor)
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    previewFont,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)

	every := opts.Every
	if every < 1 {
		every = 1
	}
	for i, frame := range frames {
		ox := float64(i%cols) * previewPanel
		oy := float64(i/cols) * previewPanel
		drawPanelPNG(dc, frame, ox, oy, i*every)
	}

	if err := dc.SavePNG(filename); err != nil {
		return fmt.Errorf("save %s: %w", filename, err)
	}
	return nil
}

func drawPanelPNG(dc *gg.Context, particles []Particle, ox, oy float64, tick int) {
	dc.SetLineWidth(1)
	dc.SetRGBA(1, 1, 1, 0.15)
	dc.DrawRectangle(ox+0.5, oy+0.5, previewPanel-1, previewPanel-1)
	dc.Stroke()

	dc.SetRGBA(1, 1, 1, 0.4)
	dc.DrawString(fmt.Sprintf("t=%d", tick), ox+6, oy+previewFont)

	dc.DrawRectangle(ox, oy, previewPanel, previewPanel)
	dc.Clip()
	for _, p := range particles {
		drawParticlePNG(dc, p, ox, oy)
	}
	dc.ResetClip()
}

func drawParticlePNG(dc *gg.Context, p Particle, ox, oy float64) {
	if p.Scale <= 0 || p.Alpha <= 0 {
		return
	}
	x, y := ox+p.X, oy+p.Y
	dc.Push()
	dc.RotateAbout(p.Rotation, x, y)
	dc.ScaleAbout(p.Scale, p.Scale, x, y)
	dc.SetRGBA255(int(p.Color.R), int(p.Color.G), int(p.Color.B), int(p.Alpha*255))
	dc.DrawStringAnchored(p.Glyph, x, y, 0.5, 0.5)
	dc.Pop()
}
