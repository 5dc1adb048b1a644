package rand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandLetterBytes(t *testing.T) {
	name := randLetterBytes(20)
	assert.Len(t, name, 20)
	for _, b := range name {
		assert.Contains(t, "abcdefghijklmnopqrstuvwxyz0123456789", string(b))
	}
}

func TestCorpus(t *testing.T) {
	c1 := NewCorpus(42, 5)
	c2 := NewCorpus(42, 5)
	l1 := c1.Lines(50)
	assert.Equal(t, l1, c2.Lines(50))

	m := c1.Mutate(l1, 10)
	assert.NotEmpty(t, m)
	assert.Len(t, l1, 50, "mutation works on a copy")

	assert.NotEmpty(t, NewCorpus(1, 0).Mutate(nil, 3))
}

func benchmarkRandBytes(b *testing.B, size int) {
	for n := 0; n < b.N; n++ {
		_ = randBytes(size)
	}
}

func BenchmarkRandBytes20(b *testing.B)   { benchmarkRandBytes(b, 20) }
func BenchmarkRandBytes1000(b *testing.B) { benchmarkRandBytes(b, 1000) }

func benchmarkRandLetterBytes(b *testing.B, size int) {
	for n := 0; n < b.N; n++ {
		_ = randLetterBytes(size)
	}
}

func BenchmarkRandLetterBytes20(b *testing.B)   { benchmarkRandLetterBytes(b, 20) }
func BenchmarkRandLetterBytes1000(b *testing.B) { benchmarkRandLetterBytes(b, 1000) }
