package report

import (
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// ProgressBar shows brute-force progress on a terminal bar and prints
// every found subdomain above it.
type ProgressBar struct {
	mu          sync.Mutex
	w           io.Writer
	printer     *Printer
	description string
	bar         *progressbar.ProgressBar
}

// NewProgressBar creates a progress reporter writing to w.
func NewProgressBar(w io.Writer, description string, noColor bool) *ProgressBar {
	return &ProgressBar{w: w, printer: NewPrinter(w, noColor), description: description}
}

// Progress moves the bar to checked out of total.
func (p *ProgressBar) Progress(checked, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		p.bar = progressbar.NewOptions64(int64(total),
			progressbar.OptionSetWriter(p.w),
			progressbar.OptionSetDescription(p.description),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionThrottle(0),
		)
	}
	_ = p.bar.Set64(int64(checked))
}

// Found prints a discovered subdomain with its addresses.
func (p *ProgressBar) Found(name string, addresses []string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		_ = p.bar.Clear()
	}
	p.printer.Found(name, addresses)
	if p.bar != nil {
		_ = p.bar.RenderBlank()
	}
}

// Finish leaves the bar at its last state and moves to a new line.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		return
	}
	_, _ = io.WriteString(p.w, "\n")
	p.bar = nil
}

// FoundPrinter prints found subdomains as they are discovered, without
// a progress bar.
type FoundPrinter struct {
	printer *Printer
}

// NewFoundPrinter creates a reporter printing through printer.
func NewFoundPrinter(printer *Printer) *FoundPrinter {
	return &FoundPrinter{printer: printer}
}

func (f *FoundPrinter) Progress(checked, total int) {}

func (f *FoundPrinter) Found(name string, addresses []string) {
	f.printer.Found(name, addresses)
}
