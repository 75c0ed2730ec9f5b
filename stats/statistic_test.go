package stats

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatistic_Add(t *testing.T) {
	s := New(100)
	s.Add(-55)
	s.Add(200)

	assert.Equal(t, Statistic{Count: 3, Min: -55, Max: 200, Sum: 245}, s)
}

func TestCombine_CommutativeAssociative(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	random := func() Statistic {
		s := New(rng.Int63n(1999) - 999)
		for i := rng.Intn(20); i > 0; i-- {
			s.Add(rng.Int63n(1999) - 999)
		}
		return s
	}

	for i := 0; i < 100; i++ {
		a, b, c := random(), random(), random()
		assert.Equal(t, Combine(a, b), Combine(b, a))
		assert.Equal(t, Combine(Combine(a, b), c), Combine(a, Combine(b, c)))

		merged := a
		merged.Merge(b)
		assert.Equal(t, Combine(a, b), merged)
	}
}

func TestStatistic_MeanTruncates(t *testing.T) {
	// 0.5 + 0.6 + 0.6 = 1.7 over 3 values: 17/3 = 5 scaled, never rounded to 6.
	s := New(5)
	s.Add(6)
	s.Add(6)
	assert.Equal(t, int64(17), s.Sum)
	assert.Equal(t, int64(5), s.Mean())
	assert.Equal(t, "0.5/0.6/0.5", s.String())

	neg := New(-5)
	neg.Add(-6)
	neg.Add(-6)
	assert.Equal(t, int64(-5), neg.Mean())
	assert.Equal(t, "-0.6/-0.5/-0.5", neg.String())
}

func TestAppendScaled(t *testing.T) {
	cases := []struct {
		value    int64
		expected string
	}{
		{0, "0.0"},
		{5, "0.5"},
		{-5, "-0.5"},
		{150, "15.0"},
		{-234, "-23.4"},
		{999, "99.9"},
		{-999, "-99.9"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.expected, string(AppendScaled(nil, tc.value)))
	}
}
