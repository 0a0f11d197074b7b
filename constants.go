package main

import (
	"strings"
	"time"
)

type LayoutMode int

const (
	LayoutSingle LayoutMode = iota
	LayoutMultiline
)

func (l LayoutMode) String() string {
	switch l {
	case LayoutSingle:
		return "single"
	case LayoutMultiline:
		return "multiline"
	default:
		return "unknown"
	}
}

// ParseLayoutMode falls back to single-line for anything it does not recognise.
func ParseLayoutMode(s string) LayoutMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "multiline", "multi", "multi-line", "words":
		return LayoutMultiline
	default:
		return LayoutSingle
	}
}

type EffectKind int

const (
	EffectExplode EffectKind = iota
	EffectSpiral
	EffectDissolve
	EffectGravity
	EffectFirework
	EffectScatter
	EffectFloat
	EffectWave
	EffectVortex
	EffectTypewriter
	effectCount
)

var effectNames = [effectCount]string{
	EffectExplode:    "explode",
	EffectSpiral:     "spiral",
	EffectDissolve:   "dissolve",
	EffectGravity:    "gravity",
	EffectFirework:   "firework",
	EffectScatter:    "scatter",
	EffectFloat:      "float",
	EffectWave:       "wave",
	EffectVortex:     "vortex",
	EffectTypewriter: "typewriter",
}

func (k EffectKind) Valid() bool {
	return k >= 0 && k < effectCount
}

func (k EffectKind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return effectNames[k]
}

// ParseEffectKind returns false for names outside the ten known effects.
func ParseEffectKind(s string) (EffectKind, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k := EffectKind(0); k < effectCount; k++ {
		if effectNames[k] == name {
			return k, true
		}
	}
	return EffectExplode, false
}

type SchedulerState int

const (
	SchedulerIdle SchedulerState = iota
	SchedulerPriming
	SchedulerSteady
)

func (s SchedulerState) String() string {
	switch s {
	case SchedulerIdle:
		return "idle"
	case SchedulerPriming:
		return "priming"
	case SchedulerSteady:
		return "steady"
	default:
		return "unknown"
	}
}

const (
	schedulerPollPeriod = 50 * time.Millisecond
	activeTypingWindow  = 500 * time.Millisecond
	firstDeletionDelay  = 200 * time.Millisecond
	wordFadeDuration    = time.Second
	neverInterval       = time.Duration(1<<63 - 1)
	defaultDeletionRate = 1.0
	defaultLineCapacity = 50
	defaultMaxLines     = 3
	defaultFPS          = 60
	fadeDelayMultiplier = 2
	minDeletionRate     = 0.0
	maxDeletionRate     = 50.0
	deletionRateStep    = 0.5
)

// Particles live in pixel space; the terminal renderer maps them onto cells
// of this size.
const (
	cellWidth  = 8.0
	cellHeight = 16.0
)

const (
	dotGlyph     = "•"
	softDotGlyph = "·"
	sparkGlyph   = "✦"
	spaceAlpha   = 0.5
	defaultColor = "#e8e6e3"
	lightBgColor = "#ffffff"
	darkBgColor  = "#000000"
	lightFgColor = "#1c1c1c"
	floorMargin  = 20.0
)

var placeholders = []string{
	"type something you want to let go of",
	"say it, then watch it leave",
	"nothing here is kept",
	"write it down. it won't stay.",
	"whatever it is, it can go",
}
