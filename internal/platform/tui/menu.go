package tui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-cart/internal/cart"
	"github.com/vovakirdan/tui-cart/internal/core"
	"github.com/vovakirdan/tui-cart/internal/registry"
)

// MenuItem represents a selectable cart in the menu.
type MenuItem struct {
	CartID   string
	Title    string
	Language string
	Path     string // Empty for builtin carts
}

// Launcher turns a menu selection into a game ready to Reset.
type Launcher func(item MenuItem) (registry.Game, error)

// CartLauncher boots builtin carts by id and disk carts by path.
func CartLauncher(logger *log.Logger, opts ...cart.Option) Launcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return func(item MenuItem) (registry.Game, error) {
		ref := item.CartID
		if item.Path != "" {
			ref = item.Path
		}
		c, err := cart.Resolve(ref)
		if err != nil {
			return nil, err
		}
		all := append([]cart.Option{cart.WithLogger(logger)}, opts...)
		return cart.NewGame(c, all...), nil
	}
}

// MenuItems lists the registered carts followed by every cart found in dir.
// Carts in dir that fail to load are logged and skipped.
func MenuItems(dir string, logger *log.Logger) []MenuItem {
	carts := registry.List()
	items := make([]MenuItem, 0, len(carts))
	for _, c := range carts {
		items = append(items, MenuItem{CartID: c.ID, Title: c.Title, Language: c.Language})
	}

	if dir == "" {
		return items
	}
	found, errs := cart.Discover(dir)
	for _, err := range errs {
		if logger != nil {
			logger.Warn("skipping cart", "error", err)
		}
	}
	for _, c := range found {
		items = append(items, MenuItem{
			CartID:   c.ID,
			Title:    c.Title,
			Language: string(c.Language),
			Path:     c.Path,
		})
	}
	return items
}

// MenuModel is the Bubble Tea model for the cart picker.
type MenuModel struct {
	items       []MenuItem
	cursor      int
	width       int
	height      int
	config      core.RuntimeConfig
	keyMapper   *KeyMapper
	quitting    bool
	selected    *MenuItem
	openHistory bool
}

// NewMenuModel creates a new menu model over items.
func NewMenuModel(items []MenuItem, cfg core.RuntimeConfig) MenuModel {
	return MenuModel{
		items:     items,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionHistory:
		m.openHistory = true
		return m, tea.Quit
	}

	return m, nil
}

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF77A8"))
	menuCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFEC27"))
	menuDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	menuErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF004D"))
)

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("  C A R T  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a cart", m.width))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText(menuDimStyle.Render("No carts found."), m.width))
		b.WriteString("\n")
	}

	for i, item := range m.items {
		line := fmt.Sprintf("  %s [%s]", item.Title, item.Language)
		if i == m.cursor {
			line = menuCursorStyle.Render(fmt.Sprintf("> %s [%s]", item.Title, item.Language))
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Tab: History  |  Q: Quit"
	b.WriteString(centerText(menuDimStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsHistory returns true if user requested the run history.
func (m MenuModel) WantsHistory() bool {
	return m.openHistory
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
