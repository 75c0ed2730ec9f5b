package core

import (
	"errors"
	"time"

	"zombiezen.com/go/capnproto2"

	"stationsummary/stats"
)

// Values in the result store are single-segment capnp messages whose root
// is a flat struct of 64-bit words.
var (
	statisticSize  = capnp.ObjectSize{DataSize: 32}
	runSummarySize = capnp.ObjectSize{DataSize: 40}
)

// RunSummary is the run-level record stored next to the per-station values.
type RunSummary struct {
	Stations uint64
	Records  uint64
	Chunks   uint64
	Bytes    int64
	Elapsed  time.Duration
}

func newRoot(size capnp.ObjectSize) (*capnp.Message, capnp.Struct, error) {
	msg, seg, err := capnp.NewMessage(capnp.SingleSegment(nil))
	if err != nil {
		return nil, capnp.Struct{}, err
	}
	root, err := capnp.NewRootStruct(seg, size)
	if err != nil {
		return nil, capnp.Struct{}, err
	}
	return msg, root, nil
}

func readRoot(buf []byte, size capnp.ObjectSize) (capnp.Struct, error) {
	msg, err := capnp.Unmarshal(buf)
	if err != nil {
		return capnp.Struct{}, err
	}
	ptr, err := msg.RootPtr()
	if err != nil {
		return capnp.Struct{}, err
	}
	root := ptr.Struct()
	if root.Size().DataSize < size.DataSize {
		return capnp.Struct{}, errors.New("truncated record")
	}
	return root, nil
}

func StatisticToBytes(s stats.Statistic) ([]byte, error) {
	msg, root, err := newRoot(statisticSize)
	if err != nil {
		return nil, err
	}
	root.SetUint64(0, s.Count)
	root.SetUint64(8, uint64(s.Min))
	root.SetUint64(16, uint64(s.Max))
	root.SetUint64(24, uint64(s.Sum))
	return msg.Marshal()
}

func BytesToStatistic(buf []byte) (stats.Statistic, error) {
	root, err := readRoot(buf, statisticSize)
	if err != nil {
		return stats.Statistic{}, err
	}
	return stats.Statistic{
		Count: root.Uint64(0),
		Min:   int64(root.Uint64(8)),
		Max:   int64(root.Uint64(16)),
		Sum:   int64(root.Uint64(24)),
	}, nil
}

func RunSummaryToBytes(summary *RunSummary) ([]byte, error) {
	msg, root, err := newRoot(runSummarySize)
	if err != nil {
		return nil, err
	}
	root.SetUint64(0, summary.Stations)
	root.SetUint64(8, summary.Records)
	root.SetUint64(16, summary.Chunks)
	root.SetUint64(24, uint64(summary.Bytes))
	root.SetUint64(32, uint64(summary.Elapsed))
	return msg.Marshal()
}

func BytesToRunSummary(buf []byte) (*RunSummary, error) {
	root, err := readRoot(buf, runSummarySize)
	if err != nil {
		return nil, err
	}
	return &RunSummary{
		Stations: root.Uint64(0),
		Records:  root.Uint64(8),
		Chunks:   root.Uint64(16),
		Bytes:    int64(root.Uint64(24)),
		Elapsed:  time.Duration(root.Uint64(32)),
	}, nil
}
