package main

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"
)

func TestCommitEvictsOldestToFit(t *testing.T) {
	b := NewWordFadeBuffer(10, 1, 1)

	if evicted, ok := b.Commit("journal ", baseTime); !ok || evicted != 0 {
		t.Fatalf("Commit(journal) = %d, %v; want 0, true", evicted, ok)
	}
	evicted, ok := b.Commit("entry ", baseTime.Add(100*time.Millisecond))
	if !ok || evicted != 1 {
		t.Fatalf("Commit(entry) = %d, %v; want 1, true", evicted, ok)
	}

	words := b.Words()
	if len(words) != 1 || words[0].Text != "entry " {
		t.Fatalf("words = %+v, want only \"entry \"", words)
	}
	if b.TotalChars() != 6 {
		t.Errorf("TotalChars() = %d, want 6", b.TotalChars())
	}
	if err := b.Validate(); err != nil {
		t.Error(err)
	}
}

func TestCommitNeverExceedsLineBound(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	b := NewWordFadeBuffer(50, 3, 2)
	now := baseTime

	for i := 0; i < 2000; i++ {
		word := strings.Repeat("w", 1+rng.IntN(70)) + " "
		now = now.Add(time.Duration(rng.IntN(400)) * time.Millisecond)
		b.Commit(word, now)
		b.Poll(now)

		if lines := (b.TotalChars() + 49) / 50; lines > 3 {
			t.Fatalf("commit %d: %d lines after commit, want at most 3", i, lines)
		}
		if err := b.Validate(); err != nil {
			t.Fatalf("commit %d: %v", i, err)
		}
		if rng.IntN(10) == 0 {
			b.BackspaceChar()
		}
	}
}

func TestCommitOversizedWordEvictsItself(t *testing.T) {
	b := NewWordFadeBuffer(5, 1, 1)
	b.Commit("hi ", baseTime)
	evicted, ok := b.Commit("enormous ", baseTime)
	if !ok || evicted != 2 {
		t.Fatalf("Commit = %d, %v; want both words evicted", evicted, ok)
	}
	if b.Len() != 0 || b.TotalChars() != 0 || b.Pending() != 0 {
		t.Errorf("buffer = %d words %d chars %d pending, want empty", b.Len(), b.TotalChars(), b.Pending())
	}
}

func TestCommitIgnoresBlank(t *testing.T) {
	b := NewWordFadeBuffer(50, 3, 1)
	for _, text := range []string{"", " ", "\t \n", "   "} {
		if _, ok := b.Commit(text, baseTime); ok {
			t.Errorf("Commit(%q) accepted a blank word", text)
		}
	}
	if b.Len() != 0 || b.Pending() != 0 {
		t.Errorf("blank commits changed the buffer")
	}
}

func TestEvictionCancelsFade(t *testing.T) {
	b := NewWordFadeBuffer(10, 1, 1) // fade delay 2s
	b.Commit("journal ", baseTime)
	b.Commit("entry ", baseTime.Add(100*time.Millisecond))

	if b.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1 after eviction", b.Pending())
	}
	// Past journal's deadline but before entry's.
	if n := b.Poll(baseTime.Add(2050 * time.Millisecond)); n != 0 {
		t.Fatalf("Poll after evicted deadline started %d fades, want 0", n)
	}
	if b.Words()[0].Fading {
		t.Fatal("entry started fading early")
	}
	if n := b.Poll(baseTime.Add(2100 * time.Millisecond)); n != 1 {
		t.Fatalf("Poll at entry deadline started %d fades, want 1", n)
	}
	if w := b.Words()[0]; !w.Fading || w.Text != "entry " {
		t.Errorf("word = %+v, want entry fading", w)
	}
}

func TestPollFlipsAfterDeadline(t *testing.T) {
	b := NewWordFadeBuffer(50, 3, 4) // 250ms interval, 500ms fade delay
	if b.FadeDelay() != 500*time.Millisecond {
		t.Fatalf("FadeDelay() = %v, want 500ms", b.FadeDelay())
	}
	b.Commit("one ", baseTime)
	b.Commit("two ", baseTime.Add(100*time.Millisecond))

	if n := b.Poll(baseTime.Add(499 * time.Millisecond)); n != 0 {
		t.Errorf("Poll before deadline = %d, want 0", n)
	}
	if n := b.Poll(baseTime.Add(500 * time.Millisecond)); n != 1 {
		t.Errorf("Poll at first deadline = %d, want 1", n)
	}
	words := b.Words()
	if !words[0].Fading || words[1].Fading {
		t.Errorf("fading = %v %v, want true false", words[0].Fading, words[1].Fading)
	}
	if !words[0].FadedAt.Equal(baseTime.Add(500 * time.Millisecond)) {
		t.Errorf("FadedAt = %v", words[0].FadedAt)
	}

	// Fading words still count until evicted.
	if b.TotalChars() != 8 || b.Len() != 2 {
		t.Errorf("buffer = %d words %d chars, want 2 words 8 chars", b.Len(), b.TotalChars())
	}
}

func TestPollOrdersByDeadline(t *testing.T) {
	b := NewWordFadeBuffer(50, 3, 1) // 2s delay
	b.Commit("slow ", baseTime)
	b.SetRate(10) // 200ms delay for later commits
	b.Commit("fast ", baseTime)

	if n := b.Poll(baseTime.Add(300 * time.Millisecond)); n != 1 {
		t.Fatalf("Poll = %d, want 1", n)
	}
	words := b.Words()
	if words[0].Fading || !words[1].Fading {
		t.Errorf("expected only the later, shorter-delay word to fade")
	}
}

func TestZeroRateNeverFades(t *testing.T) {
	b := NewWordFadeBuffer(50, 3, 0)
	b.Commit("stay ", baseTime)
	if b.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", b.Pending())
	}
	if n := b.Poll(baseTime.Add(24 * time.Hour)); n != 0 {
		t.Errorf("Poll = %d, want 0", n)
	}
}

func TestBackspaceChar(t *testing.T) {
	b := NewWordFadeBuffer(50, 3, 1)
	b.Commit("first ", baseTime)
	b.Commit("second ", baseTime)
	b.Type("ab")

	if !b.BackspaceChar() || b.Current() != "a" {
		t.Fatalf("Current() = %q, want %q", b.Current(), "a")
	}
	b.BackspaceChar()
	if b.Current() != "" || b.Len() != 2 {
		t.Fatalf("after trimming current: %q, %d words", b.Current(), b.Len())
	}

	// Current word empty: the last committed word goes whole.
	if !b.BackspaceChar() {
		t.Fatal("BackspaceChar() = false, want true")
	}
	if b.Len() != 1 || b.TotalChars() != 6 || b.Pending() != 1 {
		t.Errorf("buffer = %d words %d chars %d pending, want 1 6 1", b.Len(), b.TotalChars(), b.Pending())
	}
	if n := b.Poll(baseTime.Add(3 * time.Second)); n != 1 {
		t.Errorf("Poll = %d, want only the remaining word", n)
	}

	b.BackspaceChar()
	if b.BackspaceChar() {
		t.Error("BackspaceChar() on empty buffer = true, want false")
	}
	if err := b.Validate(); err != nil {
		t.Error(err)
	}
}

func TestBackspaceWord(t *testing.T) {
	b := NewWordFadeBuffer(50, 3, 1)
	b.Commit("kept ", baseTime)
	b.Commit("gone ", baseTime)
	b.Type("partial")

	if !b.BackspaceWord() || b.Current() != "" || b.Len() != 2 {
		t.Fatalf("first BackspaceWord should only clear the current word")
	}
	if !b.BackspaceWord() || b.Len() != 1 || b.Words()[0].Text != "kept " {
		t.Fatalf("second BackspaceWord should drop the last committed word")
	}
	if b.TotalChars() != 5 {
		t.Errorf("TotalChars() = %d, want 5", b.TotalChars())
	}
}

func TestCommitCurrent(t *testing.T) {
	b := NewWordFadeBuffer(50, 3, 1)
	b.Type("naïve")
	if _, ok := b.CommitCurrent(" ", baseTime); !ok {
		t.Fatal("CommitCurrent() rejected a word")
	}
	if b.Current() != "" {
		t.Errorf("Current() = %q after commit", b.Current())
	}
	w := b.Words()[0]
	if w.Text != "naïve " || w.Length != 6 {
		t.Errorf("word = %+v, want \"naïve \" with 6 characters", w)
	}

	if _, ok := b.CommitCurrent(" ", baseTime); ok {
		t.Error("CommitCurrent() with empty current word committed something")
	}
}

func TestWordBufferReset(t *testing.T) {
	b := NewWordFadeBuffer(50, 3, 1)
	b.Commit("a ", baseTime)
	b.Type("b")
	b.Reset()

	if b.Len() != 0 || b.Current() != "" || b.TotalChars() != 0 || b.Pending() != 0 {
		t.Errorf("buffer not empty after Reset")
	}
	if n := b.Poll(baseTime.Add(time.Hour)); n != 0 {
		t.Errorf("Poll after Reset = %d, want 0", n)
	}
}

func TestValidateDetectsDrift(t *testing.T) {
	b := NewWordFadeBuffer(50, 3, 1)
	b.Commit("abc ", baseTime)
	b.totalChars++
	if err := b.Validate(); err == nil {
		t.Error("Validate() = nil for a corrupted total")
	}
}

func TestTinyRateNeverFades(t *testing.T) {
	for _, rate := range []float64{1.5e-10, 1e-11, 1e-300} {
		b := NewWordFadeBuffer(50, 3, rate)
		if b.FadeDelay() != neverInterval {
			t.Errorf("rate %v: FadeDelay() = %v, want never", rate, b.FadeDelay())
		}
		b.Commit("stay ", baseTime)
		if n := b.Poll(baseTime.Add(time.Hour)); n != 0 {
			t.Errorf("rate %v: Poll = %d, want 0", rate, n)
		}
	}
}
