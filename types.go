package main

import (
	"image/color"
	"time"
)

type model struct {
	width          int
	height         int
	layout         LayoutMode
	effect         EffectKind
	rate           float64
	config         *Config
	clock          Clock
	scheduler      *DeletionScheduler
	words          *WordFadeBuffer
	engine         *ParticleEngine
	textColor      color.RGBA
	background     color.RGBA
	placeholder    int
	frameInterval  time.Duration
	help           bool
	errorMessage   string
	successMessage string
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

type schedulerTickMsg time.Time

type frameTickMsg time.Time

// lineLayout is where the single-line text sits on screen for one frame.
type lineLayout struct {
	chars    []string
	startCol int
	row      int
	width    int
	height   int
}

type wordCell struct {
	glyph string
	alpha float64
}
