package stream

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samsaffron/msgblocks/internal/blocks"
	"github.com/samsaffron/msgblocks/internal/render"
)

// Config controls how a Driver classifies and collapses its content.
type Config struct {
	Role    blocks.Role
	Options blocks.Options

	// CollapseLines collapses user text longer than this many lines.
	// Zero disables collapsing.
	CollapseLines int

	Logger *slog.Logger
}

// TickStats describes one growth step.
type TickStats struct {
	Blocks      int // blocks in the frame
	Reused      int // leading blocks recycled from the previous step
	Rendered    int // blocks passed to a collaborator
	Skipped     int // blocks drawn from the dispatcher's slots
	HiddenLines int // lines hidden by collapsing
}

// Tick is the result of feeding the driver.
type Tick struct {
	Frame     string
	Blocks    []blocks.Block
	Collapsed bool
	Stats     TickStats
}

// Driver owns the recycling state and dispatcher for one content stream at a
// time. It is not safe for concurrent use.
type Driver struct {
	cfg        Config
	dispatcher *render.Dispatcher
	stream     blocks.Stream

	id       string
	text     strings.Builder
	expanded bool
	ticks    int
}

// NewDriver creates a driver rendering through d.
func NewDriver(d *render.Dispatcher, cfg Config) *Driver {
	if cfg.Role == "" {
		cfg.Role = blocks.RoleAssistant
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Driver{cfg: cfg, dispatcher: d}
}

// ID returns the current content stream id.
func (dr *Driver) ID() string {
	return dr.id
}

// Text returns the full text received so far.
func (dr *Driver) Text() string {
	return dr.text.String()
}

// Switch moves the driver to another content stream. Recycling state, render
// slots and text are dropped when the id or role changes; switching to the
// current stream is a no-op. An empty role keeps the current one.
func (dr *Driver) Switch(id string, role blocks.Role) {
	if role == "" {
		role = dr.cfg.Role
	}
	if id == dr.id && role == dr.cfg.Role {
		return
	}
	dr.cfg.Logger.Debug("switching content stream", "from", dr.id, "to", id, "role", role)
	dr.id = id
	dr.cfg.Role = role
	dr.stream.Reset()
	dr.dispatcher.Reset()
	dr.text.Reset()
	dr.expanded = false
	dr.ticks = 0
}

// Append adds delta to the text and renders the grown text.
func (dr *Driver) Append(delta string) Tick {
	dr.text.WriteString(delta)
	return dr.Refresh()
}

// SetText replaces the whole text, as when a complete message is loaded.
func (dr *Driver) SetText(text string) Tick {
	dr.text.Reset()
	dr.text.WriteString(text)
	return dr.Refresh()
}

// SetExpanded toggles whether collapsed user text is shown in full.
func (dr *Driver) SetExpanded(expanded bool) Tick {
	dr.expanded = expanded
	return dr.Refresh()
}

// Expanded reports whether collapsing is suspended.
func (dr *Driver) Expanded() bool {
	return dr.expanded
}

// Resize changes the render width.
func (dr *Driver) Resize(width int) Tick {
	dr.dispatcher.Resize(width)
	return dr.Refresh()
}

// Refresh classifies and renders the current text without changing it.
func (dr *Driver) Refresh() Tick {
	c := blocks.Collapse(dr.text.String(), dr.cfg.Role, dr.cfg.CollapseLines, dr.expanded)
	bs := dr.stream.Classify(c.Text, dr.cfg.Role, dr.cfg.Options)
	frame, fs := dr.dispatcher.Render(bs)
	dr.ticks++

	tick := Tick{
		Frame:     frame,
		Blocks:    bs,
		Collapsed: c.IsCollapsed,
		Stats: TickStats{
			Blocks:      fs.Blocks,
			Reused:      dr.stream.Reused(),
			Rendered:    fs.Rendered,
			Skipped:     fs.Skipped,
			HiddenLines: c.HiddenLines,
		},
	}
	dr.cfg.Logger.Debug("tick",
		"stream", dr.id,
		"n", dr.ticks,
		"blocks", tick.Stats.Blocks,
		"reused", tick.Stats.Reused,
		"rendered", tick.Stats.Rendered)
	return tick
}

// Play feeds chunks to the driver, one per interval, calling fn after each.
// It stops early when ctx is done or fn returns an error. A zero interval
// feeds every chunk without waiting.
func Play(ctx context.Context, dr *Driver, chunks []string, interval time.Duration, fn func(Tick) error) error {
	var ticker *time.Ticker
	if interval > 0 {
		ticker = time.NewTicker(interval)
		defer ticker.Stop()
	}

	for i, chunk := range chunks {
		if ticker != nil && i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		if err := fn(dr.Append(chunk)); err != nil {
			return fmt.Errorf("tick %d: %w", i, err)
		}
	}
	return nil
}
