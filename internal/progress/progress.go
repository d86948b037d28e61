// Package progress draws a progress bar on stderr when it is a terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

var descLength = 20

// Bar counts finished items. It is safe for concurrent use; a disabled bar
// only counts.
type Bar struct {
	container *mpb.Progress
	bar       *mpb.Bar
	out       io.Writer

	mu          sync.Mutex
	done        int
	description string
}

// New creates a bar for total items. The bar is drawn only if enabled and
// stderr is a terminal.
func New(total int, enabled bool) *Bar {
	return newBar(total, enabled && isTerminal(), os.Stderr)
}

func newBar(total int, draw bool, out io.Writer) *Bar {
	p := &Bar{out: out}
	if !draw {
		return p
	}

	fmt.Fprintln(out)
	p.container = mpb.New(
		mpb.WithOutput(out),
		mpb.WithWidth(64),
		mpb.WithRefreshRate(100*time.Millisecond),
	)
	p.bar = p.container.New(int64(total),
		mpb.BarStyle().Lbound("[").Filler("█").Tip("█").Padding("░").Rbound("]"),
		mpb.PrependDecorators(
			decor.Any(func(decor.Statistics) string {
				p.mu.Lock()
				defer p.mu.Unlock()
				if len(p.description) > descLength {
					return p.description[:descLength-2] + ".."
				}
				return p.description
			}, decor.WC{W: descLength, C: decor.DindentRight}),
			decor.Name("  "),
			decor.CountersNoUnit("%d/%d", decor.WC{C: decor.DindentRight}),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
		),
	)
	return p
}

// Done marks one more item finished.
func (p *Bar) Done(description string) {
	p.mu.Lock()
	p.done++
	p.description = description
	p.mu.Unlock()

	if p.bar != nil {
		p.bar.Increment()
	}
}

func (p *Bar) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Finish waits for the bar to finish drawing.
func (p *Bar) Finish() {
	if p.container == nil {
		return
	}
	p.bar.SetTotal(-1, true)
	p.container.Wait()
	fmt.Fprintln(p.out)
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
