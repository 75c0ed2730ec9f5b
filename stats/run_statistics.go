package stats

import "time"

// RunStatistics describes how work was spread over chunks during one run.
// It is not safe for concurrent use; mergers update it from a single
// goroutine or under their own lock.
type RunStatistics struct {
	Chunks       uint64
	Records      uint64
	Bytes        int64
	RecordsStats *Welford
	BytesStats   *Welford
	ParseStats   *Welford // seconds spent parsing each chunk
}

func NewRunStatistics() *RunStatistics {
	return &RunStatistics{
		RecordsStats: NewWelford(),
		BytesStats:   NewWelford(),
		ParseStats:   NewWelford(),
	}
}

func (rs *RunStatistics) Append(records uint64, bytes int64, elapsed time.Duration) {
	rs.Chunks++
	rs.Records += records
	rs.Bytes += bytes
	rs.RecordsStats.Update(float64(records))
	rs.BytesStats.Update(float64(bytes))
	rs.ParseStats.Update(elapsed.Seconds())
}
