package relay

import (
	"math"
	"unicode/utf8"
)

// paceDivisor spreads a backlog over roughly this many ticks.
const paceDivisor = 60

// SliceSize returns how many characters one tick releases from a backlog.
func SliceSize(backlog int) int {
	return max(1, int(math.Round(float64(backlog)/paceDivisor)))
}

// StreamState accumulates streamed text. response has been shown to the
// caller; remain has arrived but is still waiting to be paced out.
// It is owned by a single goroutine.
type StreamState struct {
	response string
	remain   string
	finished bool
}

// Push queues delta for pacing. Deltas after Finish are ignored.
func (s *StreamState) Push(delta string) {
	if s.finished {
		return
	}
	s.remain += delta
}

// Tick moves the next slice from remain to response. ok is false when there
// is nothing to release.
func (s *StreamState) Tick() (partial, delta string, ok bool) {
	if s.finished || s.remain == "" {
		return "", "", false
	}
	delta = headRunes(s.remain, SliceSize(utf8.RuneCountInString(s.remain)))
	s.remain = s.remain[len(delta):]
	s.response += delta
	return s.response, delta, true
}

// Replace discards everything received and sets the final text, as done for
// plain-text replies and error diagnostics.
func (s *StreamState) Replace(text string) {
	if s.finished {
		return
	}
	s.response = text
	s.remain = ""
}

// Finish flushes remain into response and freezes the state. residue is the
// flushed text. Only the first call reports first=true.
func (s *StreamState) Finish() (final, residue string, first bool) {
	if s.finished {
		return s.response, "", false
	}
	residue = s.remain
	s.response += s.remain
	s.remain = ""
	s.finished = true
	return s.response, residue, true
}

// Finished reports whether Finish has been called.
func (s *StreamState) Finished() bool {
	return s.finished
}

// headRunes returns the first n runes of str.
func headRunes(str string, n int) string {
	i := 0
	for ; n > 0 && i < len(str); n-- {
		_, size := utf8.DecodeRuneInString(str[i:])
		i += size
	}
	return str[:i]
}
