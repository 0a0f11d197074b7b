package main

import "log"

// backspaceChar only acts in multiline mode. The single line is eaten from
// the front by the scheduler and is never edited from the back.
func (m *model) backspaceChar() {
	if m.layout != LayoutMultiline {
		return
	}
	before := m.words.Len()
	if !m.words.BackspaceChar() {
		return
	}
	if m.words.Len() < before {
		log.Printf("words: took back last committed word")
	}
}

func (m *model) backspaceWord() {
	if m.layout != LayoutMultiline {
		return
	}
	m.words.BackspaceWord()
}
