package service

import (
	"io"
	"math"
)

// UploadPercent converts transferred bytes into a whole percent in [0, 100].
func UploadPercent(loaded, total int64) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(loaded) * 100 / float64(total)))
	return max(0, min(100, pct))
}

// progressReader reports read progress against a known total. The callback
// fires only when the percent value changes.
type progressReader struct {
	r          io.Reader
	total      int64
	loaded     int64
	last       int
	onProgress func(int)
}

func newProgressReader(r io.Reader, total int64, onProgress func(int)) *progressReader {
	return &progressReader{r: r, total: total, last: -1, onProgress: onProgress}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.loaded += int64(n)
		p.report()
	}
	return n, err
}

func (p *progressReader) report() {
	if p.onProgress == nil || p.total <= 0 {
		return
	}
	pct := UploadPercent(p.loaded, p.total)
	if pct == p.last {
		return
	}
	p.last = pct
	p.onProgress(pct)
}
