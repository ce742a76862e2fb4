// Package loop ties the X connection, the window tracker, and the
// renderer together into the single cooperative loop spec §4.4/§5
// describes: poll one event, apply it, always render.
package loop

import (
	"log/slog"

	"xcomp/internal/window"
	"xcomp/internal/xserver"
)

// Renderer is the capability the loop drives every iteration
// (internal/render.Compositor in production).
type Renderer interface {
	Render(screenWidth, screenHeight uint16, mapped []*window.Window, overlay xserver.WindowId) error
}

// Loop owns the event source, the tracker, and the renderer for the
// lifetime of the process (spec §5: single-threaded cooperative,
// entire core runs on the thread owning the X connection and GL
// context).
type Loop struct {
	Conn     xserver.Conn
	Tracker  *window.Tracker
	Renderer Renderer
	Overlay  xserver.WindowId

	ScreenWidth, ScreenHeight uint16

	Log *slog.Logger
}

// Run iterates until a fatal error is raised: poll one event (possibly
// none), apply it to the tracker, then always render (spec §4.4
// process_and_render, §7 propagation policy — a failing event aborts
// the loop with its error).
func (l *Loop) Run(stop <-chan struct{}) error {
	for {
		select {
		case <-stop:
			return nil
		default:
		}

		if err := l.tick(); err != nil {
			return err
		}
	}
}

// tick runs exactly one iteration: poll, apply, render. Exposed
// separately from Run so tests can drive a bounded number of
// iterations deterministically.
func (l *Loop) tick() error {
	evt, err := l.Conn.PollEvent()
	if err != nil {
		return err
	}

	if evt != nil {
		if l.Log != nil {
			if _, isDamage := evt.(xserver.DamageNotifyEvent); !isDamage {
				l.Log.Debug("event", "kind", eventKind(evt))
			}
		}
		if err := l.Tracker.Apply(evt); err != nil {
			return err
		}
	}

	return l.Renderer.Render(l.ScreenWidth, l.ScreenHeight, l.Tracker.MappedOrder(), l.Overlay)
}

func eventKind(evt xserver.Event) string {
	switch evt.(type) {
	case xserver.CreateNotifyEvent:
		return "CreateNotify"
	case xserver.MapNotifyEvent:
		return "MapNotify"
	case xserver.UnmapNotifyEvent:
		return "UnmapNotify"
	case xserver.ConfigureNotifyEvent:
		return "ConfigureNotify"
	case xserver.DestroyNotifyEvent:
		return "DestroyNotify"
	case xserver.PropertyNotifyEvent:
		return "PropertyNotify"
	case xserver.DamageNotifyEvent:
		return "DamageNotify"
	default:
		return "Other"
	}
}
