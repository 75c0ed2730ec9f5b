package stats

import (
	"strconv"

	"stationsummary/parse"
)

// Statistic is the running aggregate of one key. Min, Max and Sum are scaled
// integers (see parse.Scale).
type Statistic struct {
	Count uint64
	Min   int64
	Max   int64
	Sum   int64
}

func New(value int64) Statistic {
	return Statistic{
		Count: 1,
		Min:   value,
		Max:   value,
		Sum:   value,
	}
}

func (s *Statistic) Add(value int64) {
	s.Min = min(s.Min, value)
	s.Max = max(s.Max, value)
	s.Sum += value
	s.Count++
}

// Merge folds other into s.
func (s *Statistic) Merge(other Statistic) {
	*s = Combine(*s, other)
}

// Combine is commutative and associative, so the order in which partial
// aggregates are merged never changes the result.
func Combine(a, b Statistic) Statistic {
	return Statistic{
		Count: a.Count + b.Count,
		Min:   min(a.Min, b.Min),
		Max:   max(a.Max, b.Max),
		Sum:   a.Sum + b.Sum,
	}
}

// Mean truncates toward zero on the scaled representation.
func (s Statistic) Mean() int64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / int64(s.Count)
}

// AppendScaled appends v / parse.Scale with exactly parse.FractionDigits
// digits after the point.
func AppendScaled(dst []byte, v int64) []byte {
	if v < 0 {
		dst = append(dst, '-')
		v = -v
	}
	dst = strconv.AppendInt(dst, v/parse.Scale, 10)
	dst = append(dst, '.')
	return strconv.AppendInt(dst, v%parse.Scale, 10)
}

// AppendSummary appends "min/max/mean".
func (s Statistic) AppendSummary(dst []byte) []byte {
	dst = AppendScaled(dst, s.Min)
	dst = append(dst, '/')
	dst = AppendScaled(dst, s.Max)
	dst = append(dst, '/')
	return AppendScaled(dst, s.Mean())
}

func (s Statistic) String() string {
	return string(s.AppendSummary(nil))
}
