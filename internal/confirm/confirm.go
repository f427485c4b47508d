// Package confirm asks the user to acknowledge destructive or risky actions.
package confirm

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Confirmer asks a yes/no question and reports the answer.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// Func adapts an ordinary function to a Confirmer.
type Func func(ctx context.Context, message string) (bool, error)

func (f Func) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// Always accepts every question.
var Always Confirmer = Func(func(context.Context, string) (bool, error) { return true, nil })

// Never declines every question.
var Never Confirmer = Func(func(context.Context, string) (bool, error) { return false, nil })

// Gate answers with a fixed decision made up front, as HTTP requests do with
// a confirm flag. Questions it declines are kept so the caller can echo them.
type Gate struct {
	Accepted bool

	mu    sync.Mutex
	asked []string
}

func (g *Gate) Confirm(_ context.Context, message string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.Accepted {
		g.asked = append(g.asked, message)
	}
	return g.Accepted, nil
}

// Pending returns the first declined question, if any.
func (g *Gate) Pending() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.asked) == 0 {
		return ""
	}
	return g.asked[0]
}

// Prompt asks on a terminal and reads a y/N answer. Anything other than
// y or yes declines.
type Prompt struct {
	In  io.Reader
	Out io.Writer

	once   sync.Once
	reader *bufio.Reader
}

func (p *Prompt) Confirm(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	p.once.Do(func() { p.reader = bufio.NewReader(p.In) })

	fmt.Fprintf(p.Out, "%s [y/N]: ", message)
	line, err := p.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "s", "si", "sí":
		return true, nil
	default:
		return false, nil
	}
}
