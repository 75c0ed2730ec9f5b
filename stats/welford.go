package stats

import "math"

// Welford keeps a numerically stable running mean and variance.
type Welford struct {
	count uint64
	mean  float64
	m2    float64
}

func NewWelford() *Welford {
	return &Welford{}
}

func (welford *Welford) Update(value float64) {
	welford.count++
	delta := value - welford.mean
	welford.mean += delta / float64(welford.count)
	welford.m2 += delta * (value - welford.mean)
}

func (welford *Welford) Count() uint64 {
	return welford.count
}

func (welford *Welford) Mean() float64 {
	return welford.mean
}

func (welford *Welford) Variance() float64 {
	if welford.count < 2 {
		return 0
	}
	return welford.m2 / float64(welford.count)
}

func (welford *Welford) SampleVariance() float64 {
	if welford.count < 2 {
		return 0
	}
	return welford.m2 / float64(welford.count-1)
}

func (welford *Welford) SD() float64 {
	return math.Sqrt(welford.SampleVariance())
}
