package uploader

import "io"

// progressReader reports transfer progress as a monotonically
// non-decreasing percentage derived from bytes sent over bytes total.
type progressReader struct {
	reader io.Reader
	total  int64
	sent   int64
	last   float64
	report func(percent float64)
}

func newProgressReader(reader io.Reader, total int64, report func(percent float64)) *progressReader {
	return &progressReader{
		reader: reader,
		total:  total,
		report: report,
	}
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 && r.total > 0 && r.report != nil {
		r.sent += int64(n)
		percent := float64(r.sent) / float64(r.total) * 100
		if percent > 100 {
			percent = 100
		}
		if percent > r.last {
			r.last = percent
			r.report(percent)
		}
	}
	return n, err
}
