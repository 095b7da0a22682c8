package main

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// progress draws a bar of collected videos. The total is only known once
// the first page arrives, so the bar starts indeterminate.
type progress struct {
	bar *progressbar.ProgressBar
	w   io.Writer
}

func newProgress(w io.Writer) *progress {
	return &progress{
		bar: progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("collecting videos"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
		),
		w: w,
	}
}

// Update matches youtube.ProgressFunc. The reported total can be lower than
// what a playlist yields, so the bar never shrinks below collected.
func (p *progress) Update(collected int, total int64) {
	max := int(total)
	if max < collected {
		max = collected
	}
	if p.bar.GetMax() != max {
		p.bar.ChangeMax(max)
	}
	_ = p.bar.Set(collected)
}

// Finish completes the bar. It is a no-op on a nil progress.
func (p *progress) Finish() {
	if p == nil {
		return
	}
	_ = p.bar.Finish()
	io.WriteString(p.w, "\n")
}
