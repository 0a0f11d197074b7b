package main

import (
	"fmt"
	"log"
	"math"

	tea "github.com/charmbracelet/bubbletea"
)

func (m model) handleNavigation(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "left", "right":
		m.cycleEffect(key)
	case "up", "down":
		m.adjustRate(key)
	}
	return m, nil
}

func (m *model) cycleEffect(key string) {
	step := EffectKind(1)
	if key == "left" {
		step = effectCount - 1
	}
	m.effect = (m.effect + step) % effectCount
	m.successMessage = fmt.Sprintf("effect: %s", m.effect)
}

// adjustRate moves the deletion rate by a fixed step. Going below the
// smallest non-zero step lands on 0, which stops deletion entirely.
func (m *model) adjustRate(key string) {
	rate := m.rate
	switch key {
	case "up":
		rate += deletionRateStep
	case "down":
		rate -= deletionRateStep
	}
	rate = math.Round(rate/deletionRateStep) * deletionRateStep
	if rate < minDeletionRate {
		rate = minDeletionRate
	}
	if rate > maxDeletionRate {
		rate = maxDeletionRate
	}
	m.setRate(rate)
}

func (m *model) setRate(rate float64) {
	m.rate = normalizeRate(rate)
	m.scheduler.SetRate(m.rate)
	m.words.SetRate(m.rate)
	if m.rate == 0 {
		m.successMessage = "deletion paused"
	} else {
		m.successMessage = fmt.Sprintf("rate: %.1f c/s", m.rate)
	}
	log.Printf("rate set to %.2f", m.rate)
}
