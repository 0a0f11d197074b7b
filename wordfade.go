package main

import (
	"container/heap"
	"fmt"
	"strings"
	"time"

	"github.com/rivo/uniseg"
)

// Word is a committed fragment including its trailing delimiter.
type Word struct {
	ID       uint64
	Text     string
	Length   int
	Deadline time.Time
	Fading   bool
	FadedAt  time.Time

	fade *fadeEntry
}

type fadeEntry struct {
	word     *Word
	deadline time.Time
	index    int
}

// fadeQueue is a min-heap on deadline.
type fadeQueue []*fadeEntry

func (q fadeQueue) Len() int { return len(q) }

func (q fadeQueue) Less(i, j int) bool {
	if q[i].deadline.Equal(q[j].deadline) {
		return q[i].word.ID < q[j].word.ID
	}
	return q[i].deadline.Before(q[j].deadline)
}

func (q fadeQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *fadeQueue) Push(x any) {
	e := x.(*fadeEntry)
	e.index = len(*q)
	*q = append(*q, e)
}

func (q *fadeQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*q = old[:n-1]
	return e
}

// WordFadeBuffer holds the multiline words. Oldest words are evicted once
// the text would need more than maxLines lines of charsPerLine characters.
type WordFadeBuffer struct {
	words        []*Word
	current      []string
	totalChars   int
	charsPerLine int
	maxLines     int
	fadeDelay    time.Duration
	queue        fadeQueue
	nextID       uint64
}

func NewWordFadeBuffer(charsPerLine, maxLines int, rate float64) *WordFadeBuffer {
	b := &WordFadeBuffer{}
	b.SetCapacity(charsPerLine, maxLines)
	b.SetRate(rate)
	return b
}

// SetRate changes the fade delay for words committed from now on.
func (b *WordFadeBuffer) SetRate(rate float64) {
	iv := interval(rate)
	if iv > neverInterval/fadeDelayMultiplier {
		b.fadeDelay = neverInterval
		return
	}
	b.fadeDelay = fadeDelayMultiplier * iv
}

func (b *WordFadeBuffer) FadeDelay() time.Duration {
	return b.fadeDelay
}

// SetCapacity takes effect on the next commit.
func (b *WordFadeBuffer) SetCapacity(charsPerLine, maxLines int) {
	if charsPerLine < 1 {
		charsPerLine = defaultLineCapacity
	}
	if maxLines < 1 {
		maxLines = defaultMaxLines
	}
	b.charsPerLine = charsPerLine
	b.maxLines = maxLines
}

func (b *WordFadeBuffer) lines() int {
	return (b.totalChars + b.charsPerLine - 1) / b.charsPerLine
}

// Type adds input to the uncommitted word.
func (b *WordFadeBuffer) Type(input string) {
	g := uniseg.NewGraphemes(input)
	for g.Next() {
		b.current = append(b.current, g.Str())
	}
}

// CommitCurrent commits the word under construction followed by delim.
// A blank current word is dropped along with the delimiter.
func (b *WordFadeBuffer) CommitCurrent(delim string, now time.Time) (evicted int, ok bool) {
	word := strings.Join(b.current, "")
	b.current = nil
	return b.Commit(word+delim, now)
}

// Commit appends a word, schedules its fade and evicts the oldest words until
// the line bound holds again. Whitespace-only input is ignored.
func (b *WordFadeBuffer) Commit(text string, now time.Time) (evicted int, ok bool) {
	if strings.TrimSpace(text) == "" {
		return 0, false
	}
	b.nextID++
	w := &Word{
		ID:     b.nextID,
		Text:   text,
		Length: uniseg.GraphemeClusterCount(text),
	}
	b.words = append(b.words, w)
	b.totalChars += w.Length
	if b.fadeDelay != neverInterval {
		w.Deadline = now.Add(b.fadeDelay)
		w.fade = &fadeEntry{word: w, deadline: w.Deadline}
		heap.Push(&b.queue, w.fade)
	}

	for b.lines() > b.maxLines && len(b.words) > 0 {
		b.remove(0)
		evicted++
	}
	return evicted, true
}

// remove drops the word at i and cancels its pending fade.
func (b *WordFadeBuffer) remove(i int) *Word {
	w := b.words[i]
	if w.fade != nil && w.fade.index >= 0 {
		heap.Remove(&b.queue, w.fade.index)
	}
	w.fade = nil
	b.totalChars -= w.Length
	copy(b.words[i:], b.words[i+1:])
	b.words[len(b.words)-1] = nil
	b.words = b.words[:len(b.words)-1]
	return w
}

// Poll flips every word whose deadline has passed into the fading state and
// returns how many started fading.
func (b *WordFadeBuffer) Poll(now time.Time) int {
	started := 0
	for b.queue.Len() > 0 && !b.queue[0].deadline.After(now) {
		e := heap.Pop(&b.queue).(*fadeEntry)
		e.word.Fading = true
		e.word.FadedAt = now
		e.word.fade = nil
		started++
	}
	return started
}

// BackspaceChar trims the current word, or pops the last committed word
// whole when there is nothing uncommitted.
func (b *WordFadeBuffer) BackspaceChar() bool {
	if n := len(b.current); n > 0 {
		b.current = b.current[:n-1]
		return true
	}
	return b.popLast()
}

// BackspaceWord clears the current word, or pops the last committed word
// when there is nothing uncommitted.
func (b *WordFadeBuffer) BackspaceWord() bool {
	if len(b.current) > 0 {
		b.current = nil
		return true
	}
	return b.popLast()
}

func (b *WordFadeBuffer) popLast() bool {
	if len(b.words) == 0 {
		return false
	}
	b.remove(len(b.words) - 1)
	return true
}

// Words returns copies of the committed words, oldest first.
func (b *WordFadeBuffer) Words() []Word {
	out := make([]Word, len(b.words))
	for i, w := range b.words {
		out[i] = *w
		out[i].fade = nil
	}
	return out
}

func (b *WordFadeBuffer) Len() int {
	return len(b.words)
}

func (b *WordFadeBuffer) Current() string {
	return strings.Join(b.current, "")
}

func (b *WordFadeBuffer) TotalChars() int {
	return b.totalChars
}

// Pending is the number of words still waiting to start fading.
func (b *WordFadeBuffer) Pending() int {
	return b.queue.Len()
}

func (b *WordFadeBuffer) Lines() int {
	return b.lines()
}

// Validate checks the running total against the words actually held.
func (b *WordFadeBuffer) Validate() error {
	sum := 0
	for _, w := range b.words {
		sum += w.Length
	}
	if sum != b.totalChars {
		return fmt.Errorf("word buffer total is %d, words sum to %d", b.totalChars, sum)
	}
	if b.queue.Len() > len(b.words) {
		return fmt.Errorf("word buffer has %d pending fades for %d words", b.queue.Len(), len(b.words))
	}
	return nil
}

// Reset drops every word and pending fade.
func (b *WordFadeBuffer) Reset() {
	for _, w := range b.words {
		w.fade = nil
	}
	b.words = nil
	b.current = nil
	b.totalChars = 0
	b.queue = nil
}
