//go:build linux

// Command xcomp is an X11 compositing window manager front-end: it
// redirects top-level window rendering into server pixmaps, binds them
// as GL textures via GLX, and composites them into the composite
// overlay window (spec §1).
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"xcomp/internal/atoms"
	"xcomp/internal/glenv"
	"xcomp/internal/loop"
	"xcomp/internal/render"
	"xcomp/internal/window"
	"xcomp/internal/xserver"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "xcomp",
	Short: "X11 compositing window manager front-end",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log per-event and per-window startup detail")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// run performs the bootstrap sequence (spec §6.4, §9 "GL context and
// function loader are process-singletons... injected once in the
// bootstrap collaborator") and then drives the loop until a fatal
// CompError is raised.
func run() error {
	log := newLogger()

	conn, err := xserver.Connect()
	if err != nil {
		return fmt.Errorf("connect to X server: %w", err)
	}
	defer conn.Close()

	// Connect already redirected root's subwindows (MANUAL), fetched the
	// overlay window, and made it click-through (spec §6.1); a second
	// redirect of the same window would return BadAccess.
	root := conn.Root()
	overlay, err := conn.CompositeGetOverlayWindow(root)
	if err != nil {
		return fmt.Errorf("get composite overlay window: %w", err)
	}

	display, err := glenv.Open()
	if err != nil {
		return fmt.Errorf("open GLX display: %w", err)
	}
	defer display.Close()

	fbConfig, err := display.ChooseFBConfig()
	if err != nil {
		return fmt.Errorf("choose FB config: %w", err)
	}
	if _, err := display.CreateContext(fbConfig, overlay); err != nil {
		return fmt.Errorf("create GL context: %w", err)
	}

	backend, err := render.NewGLBackend()
	if err != nil {
		return fmt.Errorf("initialize GL backend: %w", err)
	}

	screenWidth, screenHeight := conn.ScreenSize()
	shaders, err := render.NewFileShaderLoader().Load()
	if err != nil {
		return fmt.Errorf("load shaders: %w", err)
	}
	dd, err := render.NewDrawDescription(backend, quadVerts, quadIndices, shaders, screenWidth, screenHeight)
	if err != nil {
		return fmt.Errorf("build draw pipeline: %w", err)
	}

	compositor := render.NewCompositor(dd, backend, display, fbConfig)

	tracker, err := window.New(conn, overlay, dd.QuadVAO(), compositor)
	if err != nil {
		return fmt.Errorf("build window tracker: %w", err)
	}

	if verbose {
		for _, w := range tracker.Windows()[1:] {
			log.Debug("tracking window", "id", w.ID, "mapped", w.Mapped, "rect", w.Rect,
				"name", atoms.OptionalUTF8Property(conn, w.ID, "_NET_WM_NAME"))
		}
	}

	l := &loop.Loop{
		Conn:         conn,
		Tracker:      tracker,
		Renderer:     compositor,
		Overlay:      overlay,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
		Log:          log,
	}

	log.Info("xcomp running", "screen", fmt.Sprintf("%dx%d", screenWidth, screenHeight))
	return l.Run(nil)
}

// quadVerts/quadIndices describe the single full-window quad every
// composite pass draws (spec §3 DrawDescription entities): 4 vertices
// of (x,y,u,v), 2 triangles.
var quadVerts = []float32{
	0, 0, 0, 0,
	1, 0, 1, 0,
	0, 1, 0, 1,
	1, 1, 1, 1,
}

var quadIndices = []uint32{0, 1, 2, 2, 1, 3}
