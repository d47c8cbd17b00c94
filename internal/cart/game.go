package cart

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-cart/internal/bridge"
	"github.com/vovakirdan/tui-cart/internal/core"
	"github.com/vovakirdan/tui-cart/internal/gfx"
	"github.com/vovakirdan/tui-cart/internal/registry"
	"github.com/vovakirdan/tui-cart/internal/script"
	"github.com/vovakirdan/tui-cart/internal/sound"
)

// RunStats summarizes one boot of a cart.
type RunStats struct {
	CartID     string
	Language   string
	Loaded     bool
	Frames     int
	HookErrors int
}

// Option configures a Game.
type Option func(*Game)

// WithLogger routes script failures to l.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.log = l
		}
	}
}

// WithChannels sets the mixer channel count.
func WithChannels(n int) Option {
	return func(g *Game) {
		if n > 0 {
			g.channels = n
		}
	}
}

// WithSink forwards every started voice to s.
func WithSink(s sound.Sink) Option {
	return func(g *Game) { g.sink = s }
}

// WithTimeSource replaces the wall clock behind unicorn_time.
func WithTimeSource(now func() time.Time) Option {
	return func(g *Game) { g.now = now }
}

// Game runs a cart inside the platform frame loop. Every Reset builds a
// fresh set of subsystems, wraps each in its own handle and wires a new
// bridge to them.
type Game struct {
	cart     *Cart
	log      *log.Logger
	channels int
	sink     sound.Sink
	now      func() time.Time

	surface core.Handle[*gfx.Surface]
	mixer   core.Handle[*sound.Mixer]
	players core.Handle[*core.Players]
	clock   core.Handle[*core.Clock]
	bridge  *bridge.Bridge

	err    error
	state  core.GameState
	frames int
}

var _ registry.Game = (*Game)(nil)

// NewGame prepares c for booting. Nothing runs until Reset.
func NewGame(c *Cart, opts ...Option) *Game {
	g := &Game{
		cart:     c,
		log:      log.New(io.Discard),
		channels: sound.DefaultChannels,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ID implements registry.Game.
func (g *Game) ID() string { return g.cart.ID }

// Title implements registry.Game.
func (g *Game) Title() string { return g.cart.Title }

// Language reports the cart's script language.
func (g *Game) Language() string { return string(g.cart.Language) }

// Cart returns the cart being run.
func (g *Game) Cart() *Cart { return g.cart }

// Reset boots the cart: it builds the subsystems, wires a bridge, loads the
// code and runs _init.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.shutdown()
	g.err = nil
	g.state = core.GameState{}
	g.frames = 0

	surface := gfx.NewSurface(cfg.ScreenW, cfg.ScreenH)
	surface.LoadSheet(g.cart.Sprites)

	mixerOpts := []sound.Option{sound.WithLogger(g.log)}
	if g.sink != nil {
		mixerOpts = append(mixerOpts, sound.WithSink(g.sink))
	}

	g.surface = core.NewHandle(surface)
	g.mixer = core.NewHandle(sound.NewMixer(g.channels, mixerOpts...))
	g.players = core.NewHandle(core.NewPlayers())
	g.clock = core.NewHandle(core.NewClockWith(g.now))

	interp, err := script.New(g.cart.Language)
	if err != nil {
		g.err = err
		return
	}
	b := bridge.New(interp, bridge.WithLogger(g.log.With("cart", g.cart.ID)))
	if err := b.Load(g.Resources()); err != nil {
		interp.Close()
		g.err = err
		return
	}
	g.bridge = b

	if !b.LoadCode(string(g.cart.Code)) {
		g.err = fmt.Errorf("cart %s: %w", g.cart.ID, b.Err())
		return
	}
	b.Init()
}

// Resources returns bridge views over the game's subsystem handles.
func (g *Game) Resources() bridge.Resources {
	return bridge.Resources{
		Screen:  core.Rebind(g.surface, func(s *gfx.Surface) bridge.Raster { return s }),
		Sound:   core.Rebind(g.mixer, func(m *sound.Mixer) bridge.Mixer { return m }),
		Players: core.Rebind(g.players, func(p *core.Players) bridge.Input { return p }),
		Info:    core.Rebind(g.clock, func(c *core.Clock) bridge.Clock { return c }),
	}
}

// Step runs _update then _draw for one frame.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionPause) {
		g.state.Paused = !g.state.Paused
	}
	if g.state.Paused || g.bridge == nil {
		return core.StepResult{State: g.state}
	}

	g.players.With(func(p *core.Players) { p.Apply(in) })
	attempted := g.bridge.Update()
	g.bridge.Draw()
	if attempted {
		g.frames++
		g.state.Score = g.frames
	}
	return core.StepResult{State: g.state}
}

// Render copies the last drawn frame into dst, or an error banner when the
// cart failed to boot.
func (g *Game) Render(dst *core.Screen) {
	if g.err != nil || !g.surface.Valid() {
		g.renderError(dst)
		return
	}
	g.surface.With(func(s *gfx.Surface) { s.Blit(dst, 0, 0) })
}

func (g *Game) renderError(dst *core.Screen) {
	mid := dst.Height() / 2
	dst.DrawBox(core.NewRect(1, mid-3, dst.Width()-2, 9))
	dst.DrawTextCentered(mid-2, "CART FAILED TO BOOT")
	msg := "not booted"
	if g.err != nil {
		msg = g.err.Error()
	}
	for i, line := range wrap(msg, dst.Width()-4, 3) {
		dst.DrawTextColor(2, mid+i, line, core.ColorRed)
	}
	dst.DrawTextCentered(mid+4, "R: retry  Q: quit")
}

// Bridge returns the bridge of the current boot, or nil before Reset or
// after a failed wiring.
func (g *Game) Bridge() *bridge.Bridge { return g.bridge }

// State implements registry.Game.
func (g *Game) State() core.GameState { return g.state }

// Err returns the boot error, if any.
func (g *Game) Err() error { return g.err }

// Stats reports the current boot for run history.
func (g *Game) Stats() RunStats {
	rs := RunStats{
		CartID:   g.cart.ID,
		Language: string(g.cart.Language),
		Frames:   g.frames,
	}
	if g.bridge != nil {
		rs.Loaded = g.bridge.Loaded()
		rs.HookErrors = g.bridge.Stats().HookErrors
	}
	return rs
}

// Voices returns what the mixer is currently playing.
func (g *Game) Voices() []sound.Voice {
	var voices []sound.Voice
	if g.mixer.Valid() {
		g.mixer.With(func(m *sound.Mixer) { voices = m.Voices() })
	}
	return voices
}

// Close releases the interpreter.
func (g *Game) Close() error {
	return g.shutdown()
}

func (g *Game) shutdown() error {
	if g.bridge == nil {
		return nil
	}
	err := g.bridge.Close()
	g.bridge = nil
	return err
}

// wrap splits s into at most maxLines lines of width w.
func wrap(s string, w, maxLines int) []string {
	if w <= 0 {
		return nil
	}
	s = strings.ReplaceAll(s, "\n", " ")
	var lines []string
	for len(s) > 0 && len(lines) < maxLines {
		n := min(w, len(s))
		lines = append(lines, s[:n])
		s = s[n:]
	}
	return lines
}
