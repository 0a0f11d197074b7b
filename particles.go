package main

import (
	"image/color"
	"math"
	"math/rand/v2"
	"strings"
)

// Particle is one animated glyph. Which fields matter depends on Kind:
// linear kinds use VX/VY/Gravity, polar kinds orbit OriginX/OriginY.
type Particle struct {
	Kind  EffectKind
	X, Y  float64
	Alpha float64
	Decay float64
	Glyph string
	Color color.RGBA

	Rotation     float64
	RotationRate float64
	Scale        float64
	ScaleRate    float64

	VX, VY  float64
	Gravity float64
	Bounce  float64

	OriginX, OriginY float64
	Angle            float64
	AngleRate        float64
	Radius           float64
	RadiusRate       float64
	Expanding        bool

	Elapsed   float64
	Amplitude float64
	Frequency float64

	Exploded bool
}

type effect struct {
	spawn func(e *ParticleEngine, glyph string, x, y float64, c color.RGBA) []Particle
	step  func(e *ParticleEngine, p *Particle) []Particle
}

// effects is indexed by EffectKind. Adding a kind means adding a row here.
var effects = [effectCount]effect{
	EffectExplode:    {spawn: spawnExplode, step: stepLinear},
	EffectSpiral:     {spawn: spawnSpiral, step: stepSpiral},
	EffectDissolve:   {spawn: spawnDissolve, step: stepLinear},
	EffectGravity:    {spawn: spawnGravity, step: stepGravity},
	EffectFirework:   {spawn: spawnFirework, step: stepFirework},
	EffectScatter:    {spawn: spawnScatter, step: stepLinear},
	EffectFloat:      {spawn: spawnFloat, step: stepLinear},
	EffectWave:       {spawn: spawnWave, step: stepWave},
	EffectVortex:     {spawn: spawnVortex, step: stepVortex},
	EffectTypewriter: {spawn: spawnTypewriter, step: stepTypewriter},
}

const (
	explodeCount      = 8
	dissolveCount     = 12
	fireworkChildren  = 6
	dissolveJitter    = 20.0
	vortexFlipRadius  = -50.0
	vortexAccel       = 0.15
	vortexExpandRate  = 3.0
	gravityBounce     = 0.6
	fireworkBurstRate = 3.0
)

type ParticleEngine struct {
	particles []Particle
	scratch   []Particle
	rng       *rand.Rand
	width     float64
	height    float64
}

func NewParticleEngine(rng *rand.Rand) *ParticleEngine {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &ParticleEngine{
		particles: make([]Particle, 0, 64),
		scratch:   make([]Particle, 0, 64),
		rng:       rng,
		width:     80 * cellWidth,
		height:    24 * cellHeight,
	}
}

// SetBounds sets the pixel extent used for the gravity floor.
func (e *ParticleEngine) SetBounds(width, height float64) {
	if width > 0 {
		e.width = width
	}
	if height > 0 {
		e.height = height
	}
}

func (e *ParticleEngine) floor() float64 {
	return e.height - floorMargin
}

// Spawn emits the particles for one removed character and reports how many
// were created. Whitespace always produces a single faint dot whatever the kind.
func (e *ParticleEngine) Spawn(kind EffectKind, glyph string, x, y float64, c color.RGBA) int {
	if strings.TrimSpace(glyph) == "" {
		e.particles = append(e.particles, e.spaceDot(x, y, c))
		return 1
	}
	if !kind.Valid() {
		return 0
	}
	born := effects[kind].spawn(e, glyph, x, y, c)
	e.particles = append(e.particles, born...)
	return len(born)
}

// Step advances every particle once and returns the survivors. Children
// spawned by a firework are appended to the working set and stepped in the
// same call.
func (e *ParticleEngine) Step() []Particle {
	kept := e.scratch[:0]
	for i := 0; i < len(e.particles); i++ {
		p := e.particles[i]
		if p.Kind.Valid() {
			if children := effects[p.Kind].step(e, &p); len(children) > 0 {
				e.particles = append(e.particles, children...)
			}
		}
		p.Alpha -= p.Decay
		if p.Alpha < 0 {
			p.Alpha = 0
		}
		if p.Alpha > 0 {
			kept = append(kept, p)
		}
	}
	e.scratch = e.particles[:0]
	e.particles = kept
	return e.particles
}

// Particles returns a copy safe to hold across steps.
func (e *ParticleEngine) Particles() []Particle {
	out := make([]Particle, len(e.particles))
	copy(out, e.particles)
	return out
}

func (e *ParticleEngine) Len() int {
	return len(e.particles)
}

func (e *ParticleEngine) Clear() {
	e.particles = e.particles[:0]
}

func (e *ParticleEngine) between(lo, hi float64) float64 {
	return lo + e.rng.Float64()*(hi-lo)
}

func (e *ParticleEngine) spaceDot(x, y float64, c color.RGBA) Particle {
	return Particle{
		Kind:    EffectDissolve,
		X:       x,
		Y:       y,
		VX:      e.between(-1, 1),
		VY:      -2,
		Gravity: 0.1,
		Alpha:   spaceAlpha,
		Decay:   0.02,
		Glyph:   softDotGlyph,
		Color:   c,
		Scale:   1,
	}
}

func spawnExplode(e *ParticleEngine, glyph string, x, y float64, c color.RGBA) []Particle {
	out := make([]Particle, 0, explodeCount)
	for i := 0; i < explodeCount; i++ {
		angle := float64(i) * 2 * math.Pi / explodeCount
		speed := e.between(4, 6)
		out = append(out, Particle{
			Kind:         EffectExplode,
			X:            x,
			Y:            y,
			VX:           math.Cos(angle) * speed,
			VY:           math.Sin(angle) * speed,
			Gravity:      0.2,
			Alpha:        1,
			Decay:        0.015,
			Glyph:        glyph,
			Color:        c,
			Scale:        1,
			RotationRate: e.between(-0.2, 0.2),
		})
	}
	return out
}

func spawnDissolve(e *ParticleEngine, _ string, x, y float64, c color.RGBA) []Particle {
	out := make([]Particle, 0, dissolveCount)
	for i := 0; i < dissolveCount; i++ {
		angle := e.rng.Float64() * 2 * math.Pi
		speed := e.between(0.5, 2.0)
		out = append(out, Particle{
			Kind:    EffectDissolve,
			X:       x + e.between(-dissolveJitter, dissolveJitter),
			Y:       y + e.between(-dissolveJitter, dissolveJitter),
			VX:      math.Cos(angle) * speed,
			VY:      math.Sin(angle) * speed,
			Gravity: 0.05,
			Alpha:   1,
			Decay:   0.02,
			Glyph:   dotGlyph,
			Color:   c,
			Scale:   1,
		})
	}
	return out
}

func spawnSpiral(e *ParticleEngine, glyph string, x, y float64, c color.RGBA) []Particle {
	return []Particle{{
		Kind:         EffectSpiral,
		X:            x,
		Y:            y,
		OriginX:      x,
		OriginY:      y,
		Angle:        e.rng.Float64() * 2 * math.Pi,
		AngleRate:    0.15,
		RadiusRate:   2.5,
		Alpha:        1,
		Decay:        0.012,
		Glyph:        glyph,
		Color:        c,
		Scale:        1,
		RotationRate: 0.15,
	}}
}

func spawnVortex(e *ParticleEngine, glyph string, x, y float64, c color.RGBA) []Particle {
	return []Particle{{
		Kind:       EffectVortex,
		X:          x,
		Y:          y,
		OriginX:    x,
		OriginY:    y,
		Angle:      e.rng.Float64() * 2 * math.Pi,
		AngleRate:  0.3,
		RadiusRate: -1.5,
		Alpha:      1,
		Decay:      0.015,
		Glyph:      glyph,
		Color:      c,
		Scale:      1,
	}}
}

func spawnGravity(e *ParticleEngine, glyph string, x, y float64, c color.RGBA) []Particle {
	return []Particle{{
		Kind:    EffectGravity,
		X:       x,
		Y:       y,
		VX:           e.between(-1, 1),
		Gravity:      0.5,
		Bounce:       gravityBounce,
		Alpha:        1,
		Decay:        0.008,
		Glyph:        glyph,
		Color:        c,
		Scale:        1,
		RotationRate: e.between(-0.1, 0.1),
	}}
}

func spawnFirework(e *ParticleEngine, glyph string, x, y float64, c color.RGBA) []Particle {
	return []Particle{{
		Kind:         EffectFirework,
		X:            x,
		Y:            y,
		VX:           e.between(-1, 1),
		VY:           -8,
		Gravity:      0.15,
		Alpha:        1,
		Decay:        0.01,
		Glyph:        glyph,
		Color:        c,
		Scale:        1,
		RotationRate: e.between(-0.1, 0.1),
	}}
}

func spawnScatter(e *ParticleEngine, glyph string, x, y float64, c color.RGBA) []Particle {
	angle := e.rng.Float64() * 2 * math.Pi
	speed := e.between(2, 6)
	return []Particle{{
		Kind:         EffectScatter,
		X:            x,
		Y:            y,
		VX:           math.Cos(angle) * speed,
		VY:           math.Sin(angle)*speed - 2,
		Gravity:      0.25,
		Alpha:        1,
		Decay:        0.013,
		Glyph:        glyph,
		Color:        c,
		Scale:        1,
		Rotation:     e.rng.Float64() * 2 * math.Pi,
		RotationRate: e.between(-0.3, 0.3),
	}}
}

func spawnFloat(e *ParticleEngine, glyph string, x, y float64, c color.RGBA) []Particle {
	return []Particle{{
		Kind:    EffectFloat,
		X:       x,
		Y:       y,
		VX:           e.between(-0.25, 0.25),
		VY:           -3,
		Gravity:      0.05,
		Alpha:        1,
		Decay:        0.01,
		Glyph:        glyph,
		Color:        c,
		Scale:        1,
		RotationRate: e.between(-0.04, 0.04),
	}}
}

func spawnWave(_ *ParticleEngine, glyph string, x, y float64, c color.RGBA) []Particle {
	return []Particle{{
		Kind:      EffectWave,
		X:         x,
		Y:         y,
		VX:        3,
		Amplitude: 2,
		Frequency: 0.15,
		Alpha:     1,
		Decay:     0.012,
		Glyph:     glyph,
		Color:     c,
		Scale:     1,
	}}
}

func spawnTypewriter(_ *ParticleEngine, glyph string, x, y float64, c color.RGBA) []Particle {
	return []Particle{{
		Kind:      EffectTypewriter,
		X:         x,
		Y:         y,
		Alpha:     1,
		Decay:     0.03,
		Glyph:     glyph,
		Color:     c,
		Scale:     1,
		ScaleRate: -0.02,
	}}
}

func stepLinear(_ *ParticleEngine, p *Particle) []Particle {
	p.X += p.VX
	p.Y += p.VY
	p.VY += p.Gravity
	p.Rotation += p.RotationRate
	return nil
}

func stepGravity(e *ParticleEngine, p *Particle) []Particle {
	stepLinear(e, p)
	if floor := e.floor(); p.Y > floor {
		p.Y = floor
		p.VY = -p.VY * p.Bounce
	}
	return nil
}

func stepSpiral(_ *ParticleEngine, p *Particle) []Particle {
	p.Angle += p.AngleRate
	p.Radius += p.RadiusRate
	p.X = p.OriginX + math.Cos(p.Angle)*p.Radius
	p.Y = p.OriginY + math.Sin(p.Angle)*p.Radius
	p.Rotation += p.RotationRate
	return nil
}

// stepVortex contracts with growing speed until the radius passes the flip
// point, then expands at a constant rate.
func stepVortex(e *ParticleEngine, p *Particle) []Particle {
	if !p.Expanding {
		p.RadiusRate -= vortexAccel
	}
	stepSpiral(e, p)
	if !p.Expanding && p.Radius < vortexFlipRadius {
		p.Expanding = true
		p.RadiusRate = vortexExpandRate
	}
	return nil
}

func stepWave(_ *ParticleEngine, p *Particle) []Particle {
	p.Elapsed++
	p.X += p.VX
	p.Y += math.Sin(p.Elapsed*p.Frequency) * p.Amplitude
	return nil
}

func stepTypewriter(_ *ParticleEngine, p *Particle) []Particle {
	p.Scale += p.ScaleRate
	if p.Scale < 0 {
		p.Scale = 0
	}
	return nil
}

// stepFirework bursts once, on the tick vertical velocity stops being
// negative. Children inherit the parent's alpha before this tick's decay.
func stepFirework(e *ParticleEngine, p *Particle) []Particle {
	before := p.VY
	stepLinear(e, p)
	if p.Exploded || before >= 0 || p.VY < 0 {
		return nil
	}
	p.Exploded = true
	return fireworkBurst(p)
}

func fireworkBurst(p *Particle) []Particle {
	out := make([]Particle, 0, fireworkChildren)
	for i := 0; i < fireworkChildren; i++ {
		angle := float64(i) * 2 * math.Pi / fireworkChildren
		out = append(out, Particle{
			Kind:         EffectDissolve,
			X:            p.X,
			Y:            p.Y,
			VX:           math.Cos(angle) * fireworkBurstRate,
			VY:           math.Sin(angle) * fireworkBurstRate,
			Gravity:      0.1,
			Alpha:        p.Alpha,
			Decay:        0.02,
			Glyph:        sparkGlyph,
			Color:        p.Color,
			Scale:        1,
			RotationRate: 0.2,
		})
	}
	return out
}
