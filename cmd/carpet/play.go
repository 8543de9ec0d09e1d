package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/carpet-solitaire/game/engine"
	"github.com/wricardo/carpet-solitaire/game/service"
)

// quickSaveName is the slot used by the save and load keys
const quickSaveName = "quicksave"

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "play Carpet Solitaire in the terminal",
		Flags: gameFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			// Logs would tear the alternate screen
			if cmd.Bool("debug") {
				f, err := os.OpenFile("carpet-debug.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
				if err != nil {
					return err
				}
				defer f.Close()
				log.SetOutput(f)
			} else {
				log.SetOutput(io.Discard)
			}

			alerts := &alertBuffer{}
			svc, err := newLocalService(localOptionsFrom(cmd), alerts)
			if err != nil {
				return err
			}

			model, err := newPlayModel(ctx, svc, alerts)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}
}

// alertBuffer is the Renderer for the terminal client. The model redraws
// from action results, so only the latest alert is kept.
type alertBuffer struct {
	event   string
	message string
}

func (a *alertBuffer) Redraw(*engine.GameState) {}

func (a *alertBuffer) Alert(event, message string) {
	a.event, a.message = event, message
}

// take returns and clears the pending alert
func (a *alertBuffer) take() (string, string) {
	event, message := a.event, a.message
	a.event, a.message = "", ""
	return event, message
}

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Select   key.Binding
	Cancel   key.Binding
	Undo     key.Binding
	Redo     key.Binding
	Shuffle  key.Binding
	NewGame  key.Binding
	Replay   key.Binding
	Save     key.Binding
	Load     key.Binding
	Stats    key.Binding
	Help     key.Binding
	Quit     key.Binding
	ShowHint key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Select:   key.NewBinding(key.WithKeys(" ", "space", "enter"), key.WithHelp("space", "pick/drop")),
	Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Undo:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
	Redo:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "redo")),
	Shuffle:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shuffle")),
	NewGame:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new game")),
	Replay:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "replay")),
	Save:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "save")),
	Load:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "load")),
	Stats:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "stats")),
	ShowHint: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "moves")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "rules")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// playModel is the bubbletea model. The cursor and pick stand in for
// dragging: picking a card remembers its slot, dropping reports the slot
// under the cursor as the target.
type playModel struct {
	ctx      context.Context
	svc      service.GameService
	alerts   *alertBuffer
	keys     keyMap
	state    *engine.GameState
	cursor   int
	picked   int
	status   string
	isError  bool
	showHelp bool
	width    int
	height   int
}

func newPlayModel(ctx context.Context, svc service.GameService, alerts *alertBuffer) (playModel, error) {
	state, err := svc.GetGameState(ctx)
	if err != nil {
		return playModel{}, err
	}
	return playModel{
		ctx:    ctx,
		svc:    svc,
		alerts: alerts,
		keys:   keys,
		state:  state,
		picked: -1,
		status: "Move the cursor and press space to pick up a card",
	}, nil
}

func (m playModel) Init() tea.Cmd {
	return nil
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.moveCursor(-1, 0)
		case key.Matches(msg, m.keys.Down):
			m.moveCursor(1, 0)
		case key.Matches(msg, m.keys.Left):
			m.moveCursor(0, -1)
		case key.Matches(msg, m.keys.Right):
			m.moveCursor(0, 1)
		case key.Matches(msg, m.keys.Select):
			m.selectSlot()
		case key.Matches(msg, m.keys.Cancel):
			m.picked = -1
			m.setStatus("Cancelled", false)
		case key.Matches(msg, m.keys.Undo):
			m.apply(m.svc.Undo(m.ctx))
		case key.Matches(msg, m.keys.Redo):
			m.apply(m.svc.Redo(m.ctx))
		case key.Matches(msg, m.keys.Shuffle):
			m.apply(m.svc.Shuffle(m.ctx))
		case key.Matches(msg, m.keys.NewGame):
			m.apply(m.svc.NewGame(m.ctx, ""))
		case key.Matches(msg, m.keys.Replay):
			m.apply(m.svc.Replay(m.ctx))
		case key.Matches(msg, m.keys.Save):
			m.save()
		case key.Matches(msg, m.keys.Load):
			m.apply(m.svc.Load(m.ctx, quickSaveName))
		case key.Matches(msg, m.keys.Stats):
			m.showStats()
		case key.Matches(msg, m.keys.ShowHint):
			m.showMoves()
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
		}
	}

	return m, nil
}

func (m *playModel) moveCursor(dr, dc int) {
	row := (engine.RowOf(m.cursor) + dr + engine.Rows) % engine.Rows
	col := (engine.ColumnOf(m.cursor) + dc + engine.Columns) % engine.Columns
	m.cursor = row*engine.Columns + col
}

// selectSlot picks up the card under the cursor, or drops the picked card
func (m *playModel) selectSlot() {
	if m.picked < 0 {
		if m.state.Slots[m.cursor].Card.IsBlank() {
			m.setStatus("Pick up a card, not a blank", true)
			return
		}
		m.picked = m.cursor
		m.setStatus(fmt.Sprintf("Picked %s, choose a blank to drop it on", m.state.Slots[m.cursor].Code), false)
		return
	}

	from := m.picked
	m.picked = -1
	if from == m.cursor {
		m.setStatus("Put back", false)
		return
	}

	result, err := m.svc.Move(m.ctx, service.MoveRequest{From: &from, Target: m.cursor})
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.state = result.GameState
	m.alerts.take()
	if !result.Success {
		m.setStatus(result.Message, true)
		return
	}
	if result.Won && result.Stats != nil {
		m.setStatus(fmt.Sprintf("%s %s", result.Message, formatStats(result.Stats)), false)
		return
	}
	m.setStatus(result.Message, false)
}

// apply shows the outcome of an action that returns an ActionResult
func (m *playModel) apply(result *service.ActionResult, err error) {
	m.picked = -1
	event, alert := m.alerts.take()
	if err != nil {
		refused := errors.Is(err, engine.ErrBudgetExhausted) || errors.Is(err, engine.ErrGameWon)
		if refused && alert != "" {
			m.setStatus(alert, true)
			return
		}
		m.setStatus(err.Error(), true)
		return
	}
	m.state = result.GameState
	if event == service.EventGameWon {
		m.setStatus(alert, false)
		return
	}
	m.setStatus(result.Message, !result.Success)
}

func (m *playModel) save() {
	info, err := m.svc.Save(m.ctx, quickSaveName)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus(fmt.Sprintf("Saved to %s", info.Path), false)
}

func (m *playModel) showStats() {
	stats, err := m.svc.Stats(m.ctx)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus(formatStats(stats), false)
}

func (m *playModel) showMoves() {
	moves, err := m.svc.LegalMoves(m.ctx)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	if len(moves) == 0 {
		m.setStatus("No legal moves, shuffle or start a new game", true)
		return
	}
	hints := make([]string, 0, len(moves))
	for _, mv := range moves {
		hints = append(hints, fmt.Sprintf("%s→%d", mv.Card.Code(), mv.Target))
	}
	m.setStatus("Moves: "+strings.Join(hints, " "), false)
}

func (m *playModel) setStatus(status string, isError bool) {
	m.status = status
	m.isError = isError
}

func formatStats(stats *service.Stats) string {
	return fmt.Sprintf("Played %d, won %d (%.0f%%)", stats.GamesPlayed, stats.GamesWon, stats.WinPercent)
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD700"))
	cellStyle   = lipgloss.NewStyle().Width(4).Align(lipgloss.Center)
	redStyle    = cellStyle.Foreground(lipgloss.Color("#FF5555"))
	blackStyle  = cellStyle.Foreground(lipgloss.Color("#EEEEEE"))
	blankStyle  = cellStyle.Foreground(lipgloss.Color("#555555"))
	solvedStyle = cellStyle.Foreground(lipgloss.Color("#50FA7B"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BE9FD"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#777777"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func (m playModel) View() string {
	if m.showHelp {
		return m.place(boxStyle.Render(service.RulesText + "\n\n" + helpStyle.Render("press any key")))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Carpet Solitaire"))
	b.WriteString(fmt.Sprintf("  rules: %s  solved: %d/%d  shuffles: %d\n\n",
		m.state.Rules, m.state.SolvedCount, engine.GridSize, m.state.ShufflesRemaining))

	for r := 0; r < engine.Rows; r++ {
		cells := make([]string, engine.Columns)
		for c := 0; c < engine.Columns; c++ {
			cells[c] = m.renderSlot(r*engine.Columns + c)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.state.Status == engine.Won {
		b.WriteString(titleStyle.Render("You have won Carpet Solitaire!") + "\n")
	} else if m.state.Stuck {
		b.WriteString(errorStyle.Render("No legal moves.") + "\n")
	}
	if m.isError {
		b.WriteString(errorStyle.Render(m.status))
	} else {
		b.WriteString(infoStyle.Render(m.status))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(m.helpLine()))

	return m.place(boxStyle.Render(b.String()))
}

func (m playModel) renderSlot(i int) string {
	slot := m.state.Slots[i]
	style := blackStyle
	switch {
	case slot.Card.IsBlank():
		style = blankStyle
	case slot.Solved:
		style = solvedStyle
	case slot.Card.Suit.Red():
		style = redStyle
	}

	text := slot.Card.String()
	if slot.Card.IsBlank() {
		text = "··"
	}
	if i == m.picked {
		style = style.Underline(true).Bold(true)
	}
	if i == m.cursor {
		style = style.Reverse(true)
	}
	return style.Render(text)
}

func (m playModel) helpLine() string {
	bindings := []key.Binding{
		m.keys.Select, m.keys.Undo, m.keys.Redo, m.keys.Shuffle, m.keys.NewGame,
		m.keys.Replay, m.keys.Save, m.keys.Load, m.keys.Stats, m.keys.ShowHint,
		m.keys.Help, m.keys.Quit,
	}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

func (m playModel) place(s string) string {
	if m.width == 0 || m.height == 0 {
		return s
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}
