package ui

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

type MPBProgressManager struct {
	p *mpb.Progress
}

func NewProgressManager(out io.Writer) *MPBProgressManager {
	p := mpb.New(
		mpb.WithWidth(52),
		mpb.WithOutput(out),
		mpb.WithRefreshRate(120*time.Millisecond),
	)
	return &MPBProgressManager{p: p}
}

func (pm *MPBProgressManager) Close() {
	pm.p.Wait()
}

// Register adds a bar of total manga. foundLabel names the count of steps
// reported as found ("new", "saved").
func (pm *MPBProgressManager) Register(prefix string, total int, foundLabel string) *ProgressHandle {
	h := &ProgressHandle{
		prefix: prefix,
		start:  time.Now(),
	}

	h.bar = pm.p.New(
		int64(total),
		mpb.BarStyle().Rbound("]"),
		mpb.PrependDecorators(
			decor.Name(h.prefix+"  "),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WCSyncWidth),
			decor.CountersNoUnit(" | %d/%d manga", decor.WCSyncWidth),
			decor.Any(func(_ decor.Statistics) string {
				return fmt.Sprintf(" | %d %s", h.updated.Load(), foundLabel)
			}),
			decor.Any(func(_ decor.Statistics) string {
				return fmt.Sprintf(" | %ds", int(time.Since(h.start).Seconds()))
			}),
		),
	)

	return h
}

type ProgressHandle struct {
	prefix string
	bar    *mpb.Bar
	start  time.Time

	updated atomic.Int64
	final   atomic.Bool
}

// Step records one finished manga; found reports whether it had a newer
// chapter.
func (h *ProgressHandle) Step(found bool) {
	if h.final.Load() {
		return
	}
	if found {
		h.updated.Add(1)
	}
	h.bar.Increment()
}

func (h *ProgressHandle) MarkDone() {
	if h.final.Swap(true) {
		return
	}

	h.bar.SetTotal(-1, true)
}
