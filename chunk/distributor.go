package chunk

import "sync/atomic"

// Distributor hands out every descriptor exactly once to whichever worker
// asks first.
type Distributor struct {
	chunks []Descriptor
	next   atomic.Int64
}

func NewDistributor(chunks []Descriptor) *Distributor {
	return &Distributor{chunks: chunks}
}

// Claim returns false once all chunks have been handed out.
func (d *Distributor) Claim() (Descriptor, bool) {
	i := d.next.Add(1) - 1
	if i >= int64(len(d.chunks)) {
		return Descriptor{}, false
	}
	return d.chunks[i], true
}

func (d *Distributor) Len() int {
	return len(d.chunks)
}
