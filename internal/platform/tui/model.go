package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-cart/internal/cart"
	"github.com/vovakirdan/tui-cart/internal/core"
	"github.com/vovakirdan/tui-cart/internal/registry"
	"github.com/vovakirdan/tui-cart/internal/storage"
)

// runReporter is implemented by games that can describe the current boot
// for run history.
type runReporter interface {
	Stats() cart.RunStats
}

// Model is the Bubble Tea model for running one cart.
type Model struct {
	game          registry.Game
	screen        *core.Screen
	store         *storage.Store
	config        core.RuntimeConfig
	player        string
	log           *log.Logger
	keyMapper     *KeyMapper
	inputFrame    core.InputFrame
	gameState     core.GameState
	screenshotDir string
	embedded      bool // Esc returns to the caller instead of quitting
	quitting      bool
	backToMenu    bool
	runSaved      bool
}

// NewModel creates a new Bubble Tea model for the given game.
// store may be nil, in which case runs are not recorded.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, player string) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}

	dir := ""
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".cart", "screenshots")
	}

	return Model{
		game:          game,
		screen:        core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:         store,
		config:        cfg,
		player:        player,
		log:           log.New(io.Discard),
		keyMapper:     NewKeyMapper(),
		inputFrame:    core.NewInputFrame(),
		screenshotDir: dir,
	}
}

// WithLogger returns a copy of m that logs run bookkeeping to l.
func (m Model) WithLogger(l *log.Logger) Model {
	if l != nil {
		m.log = l
	}
	return m
}

// Init boots the cart and starts the frame loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	case "esc":
		m.finish()
		m.backToMenu = true
		if m.embedded {
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.finish()
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleResize keeps the cart running; the surface is clipped or padded
// into the new screen size.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	return m, nil
}

// handleTick advances the cart by one frame.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}

	if m.inputFrame.Has(core.ActionRestart) {
		m.saveRun()
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.runSaved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// saveRun records the current boot once.
func (m *Model) saveRun() {
	if m.runSaved || m.store == nil {
		return
	}
	reporter, ok := m.game.(runReporter)
	if !ok {
		return
	}
	m.runSaved = true

	rs := reporter.Stats()
	id, err := m.store.SaveRun(storage.Run{
		CartID:     rs.CartID,
		Language:   rs.Language,
		Player:     m.player,
		Loaded:     rs.Loaded,
		Frames:     rs.Frames,
		HookErrors: rs.HookErrors,
	})
	if err != nil {
		m.log.Warn("could not save run", "cart", rs.CartID, "error", err)
		return
	}
	m.log.Debug("run saved", "id", id, "cart", rs.CartID, "frames", rs.Frames)
}

// finish saves the run and releases the cart's interpreter.
func (m *Model) finish() {
	m.saveRun()
	if c, ok := m.game.(io.Closer); ok {
		if err := c.Close(); err != nil {
			m.log.Warn("could not close cart", "cart", m.game.ID(), "error", err)
		}
	}
}

// saveScreenshot saves the current screen to a text file.
func (m *Model) saveScreenshot() {
	if m.screenshotDir == "" {
		return
	}
	m.screen.Clear()
	m.game.Render(m.screen)

	if err := os.MkdirAll(m.screenshotDir, 0o755); err != nil {
		m.log.Warn("could not create screenshot directory", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(m.screenshotDir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.log.Warn("could not save screenshot", "error", err)
		return
	}
	m.log.Info("screenshot saved", "path", path)
}

// View renders the last drawn frame.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	if m.gameState.Paused {
		m.screen.DrawTextColor(1, 0, " PAUSED ", core.ColorYellow)
	}
	return RenderScreen(m.screen)
}

// IsQuitting returns true if the user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user pressed Esc.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run plays game until the user quits.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, player string, logger *log.Logger) error {
	model := NewModel(game, store, cfg, player).WithLogger(logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
