package core

import (
	"bufio"
	"io"

	"stationsummary/stats"
)

// AppendLine appends "key=min/max/mean\n". Keys are written as raw bytes.
func AppendLine(dst []byte, key []byte, s stats.Statistic) []byte {
	dst = append(dst, key...)
	dst = append(dst, '=')
	dst = s.AppendSummary(dst)
	return append(dst, '\n')
}

// Emit writes one line per key of t in ascending byte order.
func Emit(w io.Writer, t *GlobalTable) error {
	bw := bufio.NewWriter(w)
	var line []byte
	var err error
	t.Ascend(func(key []byte, s stats.Statistic) bool {
		line = AppendLine(line[:0], key, s)
		_, err = bw.Write(line)
		return err == nil
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}

// EmitStore writes the same lines as Emit from an exported result store.
func EmitStore(w io.Writer, store *ResultStore) error {
	bw := bufio.NewWriter(w)
	var line []byte
	err := store.Ascend(func(station []byte, s stats.Statistic) error {
		line = AppendLine(line[:0], station, s)
		_, err := bw.Write(line)
		return err
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}
