package main

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"strings"
	"time"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "preview" {
		if err := runPreview(os.Args[2:]); err != nil {
			log.Fatal(err)
		}
		return
	}

	config := loadConfig()
	if config.DebugLog != "" {
		f, err := tea.LogToFile(config.DebugLog, "vanish")
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	p := tea.NewProgram(
		initialModel(config, systemClock{}),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

func initialModel(config *Config, clock Clock) model {
	if config == nil {
		config = defaultConfig()
	}
	fps := config.FPS
	if fps < 1 {
		fps = defaultFPS
	}

	background := mustRGBA(lightBgColor)
	text := mustRGBA(lightFgColor)
	if lipgloss.HasDarkBackground() {
		background = mustRGBA(darkBgColor)
		text = mustRGBA(defaultColor)
	}
	if config.Color != "" {
		if c, err := colorful.Hex(config.Color); err == nil {
			text = toRGBA(c)
		}
	}

	capacity := config.LineCapacity
	if capacity < 1 {
		capacity = defaultLineCapacity
	}

	return model{
		layout:        config.Layout,
		effect:        config.Effect,
		rate:          normalizeRate(config.Rate),
		config:        config,
		clock:         clock,
		scheduler:     NewDeletionScheduler(config.Rate, capacity),
		words:         NewWordFadeBuffer(capacity, config.MaxLines, config.Rate),
		engine:        NewParticleEngine(rand.New(rand.NewPCG(uint64(clock.Now().UnixNano()), 0x5eed))),
		textColor:     text,
		background:    background,
		placeholder:   0,
		frameInterval: time.Second / time.Duration(fps),
	}
}

func mustRGBA(hex string) color.RGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{A: 255}
	}
	return toRGBA(c)
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.schedulerTick(), m.frameTick())
}

func (m model) schedulerTick() tea.Cmd {
	return tea.Tick(schedulerPollPeriod, func(t time.Time) tea.Msg {
		return schedulerTickMsg(t)
	})
}

func (m model) frameTick() tea.Cmd {
	return tea.Tick(m.frameInterval, func(t time.Time) tea.Msg {
		return frameTickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyBounds()
		return m, nil

	case schedulerTickMsg:
		m.onSchedulerTick(m.clock.Now())
		return m, m.schedulerTick()

	case frameTickMsg:
		m.engine.Step()
		return m, m.frameTick()

	case tea.KeyMsg:
		m.errorMessage = ""
		m.successMessage = ""
		if m.help {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			default:
				m.help = false
				return m, nil
			}
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "f1":
			m.help = true
			return m, nil
		case "tab":
			m.switchLayout()
			return m, nil
		case "left", "right", "up", "down":
			return m.handleNavigation(msg.String())
		case "backspace":
			m.backspaceChar()
			return m, nil
		case "ctrl+w", "alt+backspace":
			m.backspaceWord()
			return m, nil
		case "ctrl+u":
			m.clearText()
			return m, nil
		case "ctrl+v":
			m.pasteClipboard()
			return m, nil
		case "enter":
			m.typeInput(" ")
			return m, nil
		case " ":
			m.typeInput(" ")
			return m, nil
		}

		if msg.Type == tea.KeyRunes {
			m.typeInput(string(msg.Runes))
		}
		return m, nil
	}

	return m, nil
}

// onSchedulerTick runs the coarse 50ms source: deletions in single-line
// mode, fade deadlines in multiline mode.
func (m *model) onSchedulerTick(now time.Time) {
	switch m.layout {
	case LayoutSingle:
		layout := m.singleLineLayout()
		r, ok := m.scheduler.Tick(now)
		if !ok {
			return
		}
		x, y := layout.position(r.Index)
		m.engine.Spawn(m.effect, r.Char, x, y, m.textColor)
		if r.Emptied {
			m.rotatePlaceholder()
		}
	case LayoutMultiline:
		if n := m.words.Poll(now); n > 0 {
			log.Printf("words: %d started fading", n)
		}
	}
}

func (m *model) typeInput(input string) {
	if input == "" {
		return
	}
	now := m.clock.Now()
	if m.layout == LayoutSingle {
		m.scheduler.Append(input, now)
		return
	}

	g := uniseg.NewGraphemes(input)
	for g.Next() {
		s := g.Str()
		if strings.TrimFunc(s, unicode.IsSpace) == "" {
			if evicted, ok := m.words.CommitCurrent(" ", now); ok && evicted > 0 {
				log.Printf("words: evicted %d to stay within %d lines", evicted, m.words.maxLines)
			}
			if err := m.words.Validate(); err != nil {
				log.Printf("words: %v", err)
			}
			continue
		}
		m.words.Type(s)
	}
}

func (m *model) rotatePlaceholder() {
	m.placeholder = (m.placeholder + 1) % len(placeholders)
}

// switchLayout flips between single-line and multiline and starts clean.
func (m *model) switchLayout() {
	if m.layout == LayoutSingle {
		m.layout = LayoutMultiline
	} else {
		m.layout = LayoutSingle
	}
	m.reset()
	m.successMessage = fmt.Sprintf("layout: %s", m.layout)
	log.Printf("layout switched to %s", m.layout)
}

func (m *model) reset() {
	m.scheduler.Reset()
	m.words.Reset()
	m.engine.Clear()
}

func (m *model) clearText() {
	m.scheduler.Reset()
	m.words.Reset()
	m.rotatePlaceholder()
	log.Printf("text cleared")
}

// applyBounds recomputes everything that depends on the terminal size.
func (m *model) applyBounds() {
	rows := m.height - 1
	if rows < 1 {
		rows = 1
	}
	m.engine.SetBounds(float64(m.width)*cellWidth, float64(rows)*cellHeight)

	capacity := m.config.LineCapacity
	if capacity < 1 {
		capacity = estimateLineCapacity(m.width)
	}
	m.scheduler.SetCapacity(capacity)
	m.words.SetCapacity(capacity, m.config.MaxLines)
}

// estimateLineCapacity leaves a margin either side of the line and never
// goes past the default line width.
func estimateLineCapacity(width int) int {
	capacity := width * 3 / 4
	if capacity > defaultLineCapacity {
		capacity = defaultLineCapacity
	}
	if capacity < 10 {
		capacity = 10
	}
	return capacity
}

func (m model) View() string {
	if m.help {
		return m.helpView()
	}

	width := m.width
	if width < 1 {
		width = 1
	}
	height := m.height - 1
	if height < 1 {
		height = 1
	}

	canvas := NewCanvas(width, height, m.background)
	now := m.clock.Now()
	switch m.layout {
	case LayoutSingle:
		m.drawSingleLine(canvas)
	case LayoutMultiline:
		m.drawWords(canvas, now)
	}
	canvas.DrawParticles(m.engine.Particles())

	var result strings.Builder
	for _, line := range canvas.Render() {
		result.WriteString(line)
		result.WriteString("\n")
	}
	result.WriteString(m.statusLine(width))
	return result.String()
}

func (m model) modeString() string {
	switch m.layout {
	case LayoutSingle:
		return "SINGLE"
	case LayoutMultiline:
		return "MULTILINE"
	default:
		return "UNKNOWN"
	}
}

var (
	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252"))
	statusModeStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Bold(true).
			Padding(0, 1)
	statusErrorStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("236")).
				Foreground(lipgloss.Color("203"))
	helpTitleStyle = lipgloss.NewStyle().Bold(true)
	helpKeyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

func (m model) statusLine(width int) string {
	mode := statusModeStyle.Render(m.modeString())
	rate := "never"
	if m.rate > 0 {
		rate = fmt.Sprintf("%.1f c/s", m.rate)
	}
	info := fmt.Sprintf(" %s │ %s │ F1 help", m.effect, rate)
	style := statusStyle
	if m.errorMessage != "" {
		info = " " + m.errorMessage
		style = statusErrorStyle
	} else if m.successMessage != "" {
		info += " │ " + m.successMessage
	}
	rest := width - lipgloss.Width(mode)
	if rest < 0 {
		rest = 0
	}
	return mode + style.Width(rest).MaxWidth(rest).Render(info)
}

func (m model) helpView() string {
	helpLines := []string{
		"vanish",
		"======",
		"",
		"Type. It goes away.",
		"",
		"Keys:",
		"-----",
		"  any text          Type into the line (or the current word)",
		"  Space/Enter       Commit the current word (multiline)",
		"  Backspace         Delete a character, or take back the last word",
		"  Ctrl+W            Drop the current word, or take back the last word",
		"  Ctrl+U            Clear everything",
		"  Ctrl+V            Paste from the clipboard",
		"  Tab               Switch single-line / multiline (starts clean)",
		"  ←/→               Previous / next effect",
		"  ↑/↓               Faster / slower deletion",
		"  F1                Toggle this help",
		"  Esc/Ctrl+C        Quit",
		"",
		"Effects: " + strings.Join(effectNames[:], ", "),
		"",
		"Nothing you type is kept. Not on screen, not on disk.",
	}

	height := m.height
	if height < 1 {
		height = len(helpLines)
	}
	var result strings.Builder
	for i, line := range helpLines {
		if i >= height {
			break
		}
		switch {
		case i == 0:
			line = helpTitleStyle.Render(line)
		case strings.HasPrefix(line, "  "):
			line = helpKeyStyle.Render(line)
		}
		result.WriteString(line)
		if i < len(helpLines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
