// Package rand generates random test data: byte strings, and line-oriented
// texts with controlled repetition for diff tests.
package rand

import (
	"bytes"
	"math/rand"
	"strconv"
	"sync"
	"time"
)

// Bytes returns a random slice of bytes
func Bytes(n int) []byte {
	return randBytes(n)
}

// String returns a random string
func String(n int) string {
	return randString(n)
}

// LetterBytes returns a random slice of bytes picked in the [0-9]|[a-z] range
func LetterBytes(n int) []byte {
	return randLetterBytes(n)
}

// LetterString returns a random string picked in the [0-9]|[a-z] range
func LetterString(n int) string {
	return randLetterString(n)
}

var (
	onceSource  sync.Once
	rgen        *rand.Rand
	onceLetters sync.Once
	randMutex   sync.Mutex
)

func seed() {
	src := rand.NewSource(time.Now().UnixNano())
	rgen = rand.New(src) // #nosec
}

func randBytes(n int) []byte {
	onceSource.Do(seed)
	buf := make([]byte, n)
	randMutex.Lock()
	_, _ = rgen.Read(buf)
	randMutex.Unlock()
	return buf
}

func randString(n int) string {
	return string(randBytes(n))
}

var letters []byte

func makeLetters() {
	// adds "a" to pad over 256 locations (0-9 U a-z makes up to 252 only and we want to cover the range of uint8)
	letters = bytes.Repeat([]byte("abcdefghijklmnopqrstuvwxyz0123456789a"), 7)
}

func randLetterBytes(n int) []byte {
	onceLetters.Do(makeLetters)
	buf := randBytes(n)
	for i, b := range buf {
		buf[i] = letters[b]
	}
	return buf
}

func randLetterString(n int) string {
	return string(randLetterBytes(n))
}

// Corpus generates reproducible texts from a seed.
type Corpus struct {
	r          *rand.Rand
	vocabulary int
}

// NewCorpus builds a generator drawing lines from a vocabulary of the given
// size. Small vocabularies yield many repeated lines.
func NewCorpus(seed int64, vocabulary int) *Corpus {
	if vocabulary < 1 {
		vocabulary = 1
	}
	return &Corpus{r: rand.New(rand.NewSource(seed)), vocabulary: vocabulary} // #nosec
}

// Intn is a random int in [0, n).
func (c *Corpus) Intn(n int) int {
	return c.r.Intn(n)
}

// Line picks a line of the vocabulary.
func (c *Corpus) Line() string {
	return "line " + strconv.Itoa(c.r.Intn(c.vocabulary)) + "\n"
}

// Lines draws n lines.
func (c *Corpus) Lines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = c.Line()
	}
	return lines
}

// Mutate returns a copy of lines with about edits random insertions,
// deletions and replacements.
func (c *Corpus) Mutate(lines []string, edits int) []string {
	out := append([]string(nil), lines...)
	for e := 0; e < edits; e++ {
		pos := 0
		if len(out) > 0 {
			pos = c.r.Intn(len(out) + 1)
		}
		switch op := c.r.Intn(3); {
		case op == 0 || len(out) == 0 || pos == len(out):
			out = append(out[:pos], append([]string{c.Line()}, out[pos:]...)...)
		case op == 1:
			out = append(out[:pos], out[pos+1:]...)
		default:
			out[pos] = c.Line()
		}
	}
	return out
}
