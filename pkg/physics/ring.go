package physics

import "github.com/drumtwinlabs/drumtwin/pkg/domain"

// ring is a fixed-capacity FIFO of snapshots. When full, a push evicts the
// oldest entry.
type ring struct {
	buf   []domain.Snapshot
	start int
	count int
}

func newRing(capacity int) ring {
	return ring{buf: make([]domain.Snapshot, capacity)}
}

func (r *ring) push(s domain.Snapshot) {
	if r.count < len(r.buf) {
		r.buf[(r.start+r.count)%len(r.buf)] = s
		r.count++
		return
	}
	r.buf[r.start] = s
	r.start = (r.start + 1) % len(r.buf)
}

func (r *ring) reset() {
	r.start = 0
	r.count = 0
}

// slice returns the buffered snapshots oldest-first as a fresh slice.
func (r *ring) slice() []domain.Snapshot {
	out := make([]domain.Snapshot, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.buf[(r.start+i)%len(r.buf)]
	}
	return out
}
