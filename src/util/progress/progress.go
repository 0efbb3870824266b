package progress

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Interval is the minimum time between two progress lines.
const Interval = 250 * time.Millisecond

// Reader wraps an io.Reader and rewrites a single progress line on out
// as bytes flow through it.
type Reader struct {
	r     io.Reader
	out   io.Writer
	label string
	total int64

	mu       sync.Mutex
	read     int64
	last     time.Time
	finished bool
	now      func() time.Time
}

// NewReader creates a progress Reader. A total of 0 omits the percentage.
func NewReader(r io.Reader, total int64, label string, out io.Writer) *Reader {
	return &Reader{r: r, out: out, label: label, total: total, now: time.Now}
}

func (p *Reader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.mu.Lock()
	defer p.mu.Unlock()
	if n > 0 {
		p.read += int64(n)
		if t := p.now(); t.Sub(p.last) >= Interval {
			p.print()
			p.last = t
		}
	}
	if err == io.EOF && !p.finished {
		p.finished = true
		p.print()
		if p.out != nil {
			fmt.Fprint(p.out, "\n")
		}
	}
	return n, err
}

// Bytes returns the number of bytes read so far.
func (p *Reader) Bytes() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.read
}

func (p *Reader) print() {
	if p.out == nil {
		return
	}
	if p.total > 0 {
		pct := float64(p.read) / float64(p.total) * 100
		fmt.Fprintf(p.out, "\r[%s] %.1f%% (%s/%s)", p.label, pct, humanBytes(p.read), humanBytes(p.total))
		return
	}
	fmt.Fprintf(p.out, "\r[%s] %s", p.label, humanBytes(p.read))
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
