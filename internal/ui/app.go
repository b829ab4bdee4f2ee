package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/marquee/internal/autocomplete"
	"github.com/abelbrown/marquee/internal/logging"
	"github.com/abelbrown/marquee/internal/otel"
	"github.com/abelbrown/marquee/internal/suggest"
)

// Region names the parts of the screen that take part in hit-testing.
// FormRegion is the union of InputRegion and ResultsRegion; regionAt never
// returns it, and a click anywhere outside it dismisses the panel.
type Region string

const (
	FormRegion    Region = "movie-form"
	InputRegion   Region = "movie-input"
	ResultsRegion Region = "autocomplete-results"
)

// Fixed rows of the layout. The results panel starts right under the input.
const (
	inputRow     = 2
	panelTopRow  = 3
	statusRows   = 1
	inputPadding = 4
)

const submitHint = "Please enter a movie title"

var keys = struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Escape key.Binding
	Quit   key.Binding
	Debug  key.Binding
}{
	Up:     key.NewBinding(key.WithKeys("up", "ctrl+p")),
	Down:   key.NewBinding(key.WithKeys("down", "ctrl+n")),
	Enter:  key.NewBinding(key.WithKeys("enter")),
	Escape: key.NewBinding(key.WithKeys("esc")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c")),
	Debug:  key.NewBinding(key.WithKeys("f2")),
}

// fetcher is implemented by suggesters that can report why a request failed.
type fetcher interface {
	Fetch(ctx context.Context, query string) ([]string, error)
}

// ObsConfig holds observability wiring. Both fields may be nil.
type ObsConfig struct {
	Logger *otel.Logger
	Ring   *otel.RingBuffer
}

// AppConfig configures NewAppWithConfig.
type AppConfig struct {
	Context    context.Context
	Suggester  suggest.Suggester
	Options    autocomplete.Options
	MaxVisible int
	Prompt     string
	Endpoint   string // shown in the header
	Obs        ObsConfig
}

// App is the root Bubble Tea model. The controller owns the autocomplete
// state; App translates terminal events into controller calls and runs the
// fetches it asks for.
type App struct {
	ctx       context.Context
	suggester suggest.Suggester
	ctl       *autocomplete.Controller
	obs       ObsConfig

	input   textinput.Model
	spinner spinner.Model

	maxVisible int
	endpoint   string

	width        int
	height       int
	ready        bool
	hint         string
	chosen       string
	debugVisible bool
}

// NewAppWithConfig creates the App.
func NewAppWithConfig(cfg AppConfig) App {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.MaxVisible < 1 {
		cfg.MaxVisible = 8
	}
	if cfg.Prompt == "" {
		cfg.Prompt = "› "
	}

	ti := textinput.New()
	ti.Placeholder = "Search for a movie..."
	ti.Prompt = cfg.Prompt
	ti.PromptStyle = InputPrompt
	ti.TextStyle = InputText
	ti.Cursor.Style = InputPrompt
	ti.CharLimit = 200
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = InputPrompt

	return App{
		ctx:        cfg.Context,
		suggester:  cfg.Suggester,
		ctl:        autocomplete.New(cfg.Options),
		obs:        cfg.Obs,
		input:      ti,
		spinner:    s,
		maxVisible: cfg.MaxVisible,
		endpoint:   cfg.Endpoint,
	}
}

// Init starts the cursor blinking.
func (a App) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if otel.TraceEnabled() {
		if _, tick := msg.(spinner.TickMsg); !tick {
			a.emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindMsgReceived, Msg: fmt.Sprintf("%T", msg)})
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.resizeInput()
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.MouseMsg:
		return a.handleMouseMsg(msg)

	case debounceElapsed:
		return a.handleDebounce(msg)

	case SuggestionsLoaded:
		return a.handleSuggestions(msg)

	case ConfigReloaded:
		return a.applyConfig(msg)

	case spinner.TickMsg:
		if a.ctl.State() != autocomplete.StateFetching {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// handleKeyMsg processes keyboard input. Navigation keys go to the
// suggestion list first; whatever it does not consume falls through to the
// form.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, keys.Debug):
		a.debugVisible = !a.debugVisible
		return a, nil
	}

	if a.debugVisible {
		if key.Matches(msg, keys.Escape) {
			a.debugVisible = false
		}
		return a, nil
	}

	var nav autocomplete.Key
	switch {
	case key.Matches(msg, keys.Down):
		nav = autocomplete.KeyDown
	case key.Matches(msg, keys.Up):
		nav = autocomplete.KeyUp
	case key.Matches(msg, keys.Enter):
		nav = autocomplete.KeyEnter
	case key.Matches(msg, keys.Escape):
		nav = autocomplete.KeyEscape
	default:
		return a.handleTyping(msg)
	}

	handled, chosen := a.ctl.Key(nav)
	if handled {
		switch {
		case nav == autocomplete.KeyEnter:
			a.selected(chosen, "keyboard")
		case nav == autocomplete.KeyEscape:
			a.emit(otel.Event{Kind: otel.KindDismiss, Msg: "escape"})
		}
		return a, nil
	}

	switch nav {
	case autocomplete.KeyEnter:
		return a.submit()
	case autocomplete.KeyEscape:
		return a, tea.Quit
	}
	return a, nil
}

// handleTyping lets the text input edit the value and starts a new debounce
// when it changed.
func (a App) handleTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	before := a.input.Value()

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)

	value := a.input.Value()
	if value == before {
		return a, cmd
	}
	a.hint = ""

	gen := a.ctl.Input(value)
	a.emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindKeystroke, Query: value})

	delay := a.ctl.Options().Delay
	tick := tea.Tick(delay, func(time.Time) tea.Msg {
		return debounceElapsed{gen: gen}
	})
	return a, tea.Batch(cmd, tick)
}

// handleMouseMsg maps a left click onto the layout.
func (a App) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.debugVisible || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return a, nil
	}

	region, item := a.regionAt(msg.X, msg.Y)
	switch region {
	case ResultsRegion:
		if item < 0 {
			return a, nil
		}
		if title, ok := a.ctl.Click(item); ok {
			a.selected(title, "mouse")
		}
	case InputRegion:
	default:
		if a.ctl.Visible() {
			a.ctl.OutsideClick()
			a.emit(otel.Event{Kind: otel.KindDismiss, Msg: "click outside " + string(FormRegion)})
		}
	}
	return a, nil
}

// regionAt reports which region contains the cell (x, y). For ResultsRegion
// the suggestion index is returned, or -1 on a scroll indicator row. Rows
// span the full terminal width.
func (a App) regionAt(_, y int) (Region, int) {
	if y == inputRow {
		return InputRegion, -1
	}
	rows := a.panelRows()
	if y >= panelTopRow && y < panelTopRow+len(rows) {
		return ResultsRegion, rows[y-panelTopRow].item
	}
	return "", -1
}

func (a App) panelRows() []panelRow {
	if !a.ctl.Visible() {
		return nil
	}
	return renderResults(a.ctl.Suggestions(), a.ctl.Highlighted(), a.ctl.Value(), a.maxVisible)
}

// selected mirrors a chosen suggestion into the text input.
func (a *App) selected(title, via string) {
	a.input.SetValue(a.ctl.Value())
	a.input.CursorEnd()
	a.hint = ""
	a.emit(otel.Event{Kind: otel.KindSelect, Query: title, Msg: via})
}

func (a App) submit() (tea.Model, tea.Cmd) {
	title, ok := a.ctl.Submit()
	if !ok {
		a.hint = submitHint
		a.emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindSubmitBlocked, Msg: "empty input"})
		return a, nil
	}
	a.chosen = title
	a.emit(otel.Event{Kind: otel.KindSubmit, Query: title})
	logging.Info("submit", "title", title)
	return a, tea.Quit
}

func (a App) handleDebounce(msg debounceElapsed) (tea.Model, tea.Cmd) {
	current := msg.gen == a.ctl.Generation() && a.ctl.State() == autocomplete.StateDebouncing

	req, ok := a.ctl.Elapsed(msg.gen)
	if !ok {
		if current {
			a.emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindTooShort, Query: a.ctl.Value()})
		}
		return a, nil
	}

	a.emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindDebounced, Seq: req.Seq, Query: req.Query})
	a.emit(otel.Event{Kind: otel.KindFetchStart, Seq: req.Seq, Query: req.Query})
	return a, tea.Batch(a.fetch(req), a.spinner.Tick)
}

// fetch runs the request off the update goroutine.
func (a App) fetch(req autocomplete.Request) tea.Cmd {
	ctx := a.ctx
	s := a.suggester
	return func() tea.Msg {
		start := time.Now()
		msg := SuggestionsLoaded{Seq: req.Seq, Query: req.Query, Titles: []string{}}
		switch {
		case s == nil:
		case isFetcher(s):
			titles, err := s.(fetcher).Fetch(ctx, req.Query)
			if err != nil {
				logging.Warn("suggest: fetch failed", "query", req.Query, "seq", req.Seq, "err", err)
				msg.Err = err
			} else {
				msg.Titles = titles
			}
		default:
			msg.Titles = s.Suggest(ctx, req.Query)
		}
		msg.Dur = time.Since(start)
		return msg
	}
}

func isFetcher(s suggest.Suggester) bool {
	_, ok := s.(fetcher)
	return ok
}

func (a App) handleSuggestions(msg SuggestionsLoaded) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		ev := otel.Event{Level: otel.LevelError, Kind: otel.KindFetchError, Seq: msg.Seq, Query: msg.Query, Dur: msg.Dur, Err: msg.Err.Error()}
		var se *suggest.StatusError
		if errors.As(msg.Err, &se) {
			ev.Status = se.Code
		}
		a.emit(ev)
	}

	titles := msg.Titles
	if msg.Err != nil {
		titles = []string{}
	}
	if !a.ctl.Deliver(msg.Seq, titles) {
		a.emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindFetchStale, Seq: msg.Seq, Query: msg.Query, Dur: msg.Dur})
		return a, nil
	}
	if msg.Err == nil {
		a.emit(otel.Event{Kind: otel.KindFetchComplete, Seq: msg.Seq, Query: msg.Query, Dur: msg.Dur, Count: len(titles)})
	}
	return a, nil
}

func (a App) applyConfig(msg ConfigReloaded) (tea.Model, tea.Cmd) {
	cfg := msg.Config
	if cfg == nil {
		return a, nil
	}
	a.ctl.SetOptions(autocomplete.Options{Delay: cfg.Debounce(), MinChars: cfg.MinChars})
	if cfg.UI.MaxVisible > 0 {
		a.maxVisible = cfg.UI.MaxVisible
	}
	if cfg.UI.Prompt != "" {
		a.input.Prompt = cfg.UI.Prompt
		a.resizeInput()
	}
	a.emit(otel.Event{Kind: otel.KindConfigReload, Msg: fmt.Sprintf("debounce=%dms min_chars=%d", cfg.DebounceMs, cfg.MinChars)})
	return a, nil
}

// resizeInput fits the text field between the prompt and the right edge.
func (a *App) resizeInput() {
	if a.width == 0 {
		return
	}
	a.input.Width = max(a.width-lipgloss.Width(a.input.Prompt)-inputPadding, 1)
}

func (a App) emit(e otel.Event) {
	if e.Level == "" {
		e.Level = otel.LevelInfo
	}
	e.Comp = "ui"
	a.obs.Logger.Emit(e)
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}
	if a.debugVisible {
		overlay := debugOverlay(a.obs.Ring, a.width, a.height-statusRows)
		return lipgloss.JoinVertical(lipgloss.Left, overlay, debugStatusBar(a.width))
	}

	lines := make([]string, 0, a.height)
	lines = append(lines, a.renderHeader(), "", a.input.View())
	for _, row := range a.panelRows() {
		lines = append(lines, row.text)
	}

	body := a.height - statusRows
	for len(lines) < body {
		lines = append(lines, "")
	}
	if body > 0 && len(lines) > body {
		lines = lines[:body]
	}
	lines = append(lines, a.renderStatusBar())
	return strings.Join(lines, "\n")
}

func (a App) renderHeader() string {
	h := HeaderStyle.Render("marquee")
	if a.endpoint != "" {
		h += HeaderDim.Render(a.endpoint)
	}
	return h
}

func (a App) renderStatusBar() string {
	var left string
	switch {
	case a.hint != "":
		left = HintStyle.Render(a.hint)
	case a.ctl.State() == autocomplete.StateFetching:
		left = a.spinner.View() + StatusBarText.Render(" searching")
	case a.ctl.Visible():
		left = StatusBarText.Render(fmt.Sprintf("%d suggestions", len(a.ctl.Suggestions())))
	}

	hints := []string{
		StatusBarKey.Render("↑/↓") + StatusBarText.Render(":nav"),
		StatusBarKey.Render("Enter") + StatusBarText.Render(":choose"),
		StatusBarKey.Render("Esc") + StatusBarText.Render(":close"),
		StatusBarKey.Render("F2") + StatusBarText.Render(":debug"),
	}
	right := strings.Join(hints, " ")

	padding := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}
	return StatusBar.Width(a.width).Render(left + strings.Repeat(" ", padding) + right)
}

// Chosen returns the submitted title, or "" if the user quit without one.
func (a App) Chosen() string {
	return a.chosen
}

// Controller exposes the autocomplete state (for testing).
func (a App) Controller() *autocomplete.Controller {
	return a.ctl
}

// Value returns the text input value.
func (a App) Value() string {
	return a.input.Value()
}
