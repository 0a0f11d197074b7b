package main

import (
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

type cell struct {
	glyph string
	fg    color.RGBA
	alpha float64
	wide  bool
	cont  bool // right half of a wide glyph
}

// Canvas is one frame of terminal cells. Colours are blended toward the
// background by alpha at render time, which is how the terminal shows fade.
type Canvas struct {
	width  int
	height int
	cells  [][]cell
	bg     colorful.Color
	styles map[string]lipgloss.Style
}

func NewCanvas(width, height int, background color.RGBA) *Canvas {
	cells := make([][]cell, height)
	for y := range cells {
		cells[y] = make([]cell, width)
		for x := range cells[y] {
			cells[y][x] = cell{glyph: " "}
		}
	}
	bg, _ := colorful.MakeColor(background)
	return &Canvas{
		width:  width,
		height: height,
		cells:  cells,
		bg:     bg,
		styles: make(map[string]lipgloss.Style),
	}
}

func (c *Canvas) isValidPos(x, y int) bool {
	return y >= 0 && y < c.height && x >= 0 && x < c.width
}

// Set places a glyph, cleaning up any wide glyph it partly covers.
func (c *Canvas) Set(x, y int, glyph string, fg color.RGBA, alpha float64) {
	if !c.isValidPos(x, y) || glyph == "" {
		return
	}
	w := runewidth.StringWidth(glyph)
	if w > 1 && x+1 >= c.width {
		return
	}
	row := c.cells[y]
	if row[x].cont && x > 0 {
		row[x-1] = cell{glyph: " "}
	}
	if row[x].wide && x+1 < c.width {
		row[x+1] = cell{glyph: " "}
	}
	row[x] = cell{glyph: glyph, fg: fg, alpha: alpha, wide: w > 1}
	if w > 1 {
		if row[x+1].wide && x+2 < c.width {
			row[x+2] = cell{glyph: " "}
		}
		row[x+1] = cell{cont: true}
	}
}

// DrawChars writes characters left to right and returns the column after
// the last one.
func (c *Canvas) DrawChars(x, y int, chars []string, fg color.RGBA, alpha float64) int {
	for _, ch := range chars {
		w := runewidth.StringWidth(ch)
		if w < 1 {
			w = 1
		}
		c.Set(x, y, ch, fg, alpha)
		x += w
	}
	return x
}

func (c *Canvas) DrawParticles(particles []Particle) {
	for _, p := range particles {
		if p.Alpha < 0.05 || p.Scale < 0.25 {
			continue
		}
		x := int(math.Floor(p.X / cellWidth))
		y := int(math.Floor(p.Y / cellHeight))
		c.Set(x, y, p.Glyph, p.Color, p.Alpha)
	}
}

func (c *Canvas) colorHex(fg color.RGBA, alpha float64) string {
	f, _ := colorful.MakeColor(fg)
	if alpha > 1 {
		alpha = 1
	}
	if alpha < 0 {
		alpha = 0
	}
	return f.BlendRgb(c.bg, 1-alpha).Clamped().Hex()
}

func (c *Canvas) style(hex string) lipgloss.Style {
	if s, ok := c.styles[hex]; ok {
		return s
	}
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	c.styles[hex] = s
	return s
}

// Render returns one styled string per row, grouping runs of equal colour.
func (c *Canvas) Render() []string {
	lines := make([]string, 0, c.height)
	for _, row := range c.cells {
		var line strings.Builder
		var run strings.Builder
		runHex := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runHex == "" {
				line.WriteString(run.String())
			} else {
				line.WriteString(c.style(runHex).Render(run.String()))
			}
			run.Reset()
		}
		for _, cl := range row {
			if cl.cont {
				continue
			}
			hex := ""
			if cl.glyph != " " {
				hex = c.colorHex(cl.fg, cl.alpha)
			}
			if hex != runHex {
				flush()
				runHex = hex
			}
			run.WriteString(cl.glyph)
		}
		flush()
		lines = append(lines, line.String())
	}
	return lines
}

func (m model) textRow() int {
	rows := m.height - 1
	if rows < 1 {
		rows = 1
	}
	return rows / 2
}

// singleLineLayout centres the line; once it is wider than the screen the
// tail stays visible and the head runs off the left edge.
func (m model) singleLineLayout() lineLayout {
	chars := m.scheduler.Chars()
	lineWidth := 0
	for _, ch := range chars {
		lineWidth += runewidth.StringWidth(ch)
	}
	start := (m.width - lineWidth) / 2
	if lineWidth > m.width-2 {
		start = m.width - 2 - lineWidth
	}
	return lineLayout{
		chars:    chars,
		startCol: start,
		row:      m.textRow(),
		width:    m.width,
		height:   m.height,
	}
}

// position maps a character index to pixel space. Indexes off the line, and
// characters scrolled off screen, land on a fixed fallback point.
func (l lineLayout) position(index int) (float64, float64) {
	fallbackX := float64(l.width) * cellWidth / 2
	fallbackY := float64(l.height) * cellHeight / 2
	if index < 0 || index >= len(l.chars) {
		return fallbackX, fallbackY
	}
	col := l.startCol + runewidth.StringWidth(strings.Join(l.chars[:index], ""))
	if col < 0 || col >= l.width {
		return fallbackX, fallbackY
	}
	return float64(col) * cellWidth, float64(l.row) * cellHeight
}

func (m model) drawSingleLine(c *Canvas) {
	layout := m.singleLineLayout()
	if len(layout.chars) == 0 {
		m.drawPlaceholder(c)
		return
	}
	end := c.DrawChars(layout.startCol, layout.row, layout.chars, m.textColor, 1)
	c.Set(end, layout.row, "▏", m.textColor, 0.6)
}

func (m model) drawPlaceholder(c *Canvas) {
	text := placeholders[m.placeholder%len(placeholders)]
	chars := strings.Split(text, "")
	start := (m.width - len(chars)) / 2
	c.DrawChars(start, m.textRow(), chars, m.textColor, 0.3)
}

// wordLines wraps the committed words and the current word into lines of at
// most perLine cells, breaking inside a word only when it cannot fit alone.
func wordLines(words []Word, current string, perLine int, now time.Time) [][]wordCell {
	if perLine < 1 {
		perLine = 1
	}
	var lines [][]wordCell
	var line []wordCell
	place := func(chars []string, alpha float64) {
		if len(line) > 0 && len(line)+len(chars) > perLine {
			lines = append(lines, line)
			line = nil
		}
		for _, ch := range chars {
			if len(line) >= perLine {
				lines = append(lines, line)
				line = nil
			}
			line = append(line, wordCell{glyph: ch, alpha: alpha})
		}
	}
	for _, w := range words {
		place(graphemes(w.Text), wordAlpha(w, now))
	}
	if current != "" {
		place(graphemes(current), 1)
	}
	if len(line) > 0 {
		lines = append(lines, line)
	}
	return lines
}

// wordAlpha is 1 until the word starts fading, then falls to 0 over
// wordFadeDuration.
func wordAlpha(w Word, now time.Time) float64 {
	if !w.Fading {
		return 1
	}
	elapsed := now.Sub(w.FadedAt)
	if elapsed >= wordFadeDuration {
		return 0
	}
	if elapsed < 0 {
		return 1
	}
	return 1 - float64(elapsed)/float64(wordFadeDuration)
}

func (m model) drawWords(c *Canvas, now time.Time) {
	words := m.words.Words()
	current := m.words.Current()
	if len(words) == 0 && current == "" {
		m.drawPlaceholder(c)
		return
	}
	perLine := m.words.charsPerLine
	lines := wordLines(words, current, perLine, now)
	top := m.textRow() - len(lines)/2
	left := (m.width - perLine) / 2
	if left < 0 {
		left = 0
	}
	x, y := left, top
	for i, line := range lines {
		x = left
		y = top + i
		for _, wc := range line {
			if wc.alpha > 0 {
				c.Set(x, y, wc.glyph, m.textColor, wc.alpha)
			}
			w := runewidth.StringWidth(wc.glyph)
			if w < 1 {
				w = 1
			}
			x += w
		}
	}
	c.Set(x, y, "▏", m.textColor, 0.6)
}
