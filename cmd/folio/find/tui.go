package findcmder

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/foliohq/folio/api"
	searchcmder "github.com/foliohq/folio/cmd/folio/search"
	"github.com/foliohq/folio/pkg/cliui"
	"github.com/foliohq/folio/pkg/search"
)

func init() {
	// Force TrueColor profile to fix lipgloss color detection issue
	// See: https://github.com/charmbracelet/lipgloss/issues/439
	renderer := lipgloss.NewRenderer(os.Stdout, termenv.WithProfile(termenv.TrueColor))
	renderer.SetColorProfile(termenv.TrueColor)
	lipgloss.SetDefaultRenderer(renderer)
}

// debounceDelay is how long after the last keystroke a query waits before
// being sent to the API.
const debounceDelay = 300 * time.Millisecond

type findView int

const (
	viewSearch findView = iota
	viewDocument
)

var (
	findTitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	findMutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	findModeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("235")).Background(lipgloss.Color("214")).Bold(true)
	findSlugStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	findTitleRowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	findSnippetStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	findScoreStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	findHighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("235")).Background(lipgloss.Color("214")).Bold(true)
	findErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	findDividerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
)

type findKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Mode  key.Binding
	Enter key.Binding
	Back  key.Binding
	Quit  key.Binding
}

func (k findKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Mode, k.Enter, k.Back, k.Quit}
}

func (k findKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Down, k.Up, k.Enter}, {k.Mode, k.Back, k.Quit}}
}

func defaultKeyMap() findKeyMap {
	return findKeyMap{
		Up:    key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "down")),
		Mode:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "mode")),
		Enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// debounceMsg fires after the debounce delay. The generation tag lets the
// model drop ticks made stale by further typing.
type debounceMsg struct {
	generation int
}

// resultsMsg carries a finished search. Stale generations are discarded so
// a slow response never overwrites results for newer input.
type resultsMsg struct {
	generation int
	output     *search.Output
	err        error
}

type documentLoadedMsg struct {
	doc      *api.DocumentResponse
	rendered string
	err      error
}

type findModel struct {
	apiTarget  string
	semanticOK bool

	input      textinput.Model
	mode       string
	results    []search.Result
	cursor     int
	generation int
	searching  bool
	searchErr  error

	view     findView
	document *api.DocumentResponse
	rendered string

	width  int
	height int
	keys   findKeyMap
	help   help.Model
}

func runFindTUI(ctx context.Context, apiTarget string, semanticOK bool) error {
	program := bubbletea.NewProgram(newFindModel(apiTarget, semanticOK),
		bubbletea.WithContext(ctx),
		bubbletea.WithAltScreen(),
	)
	_, err := program.Run()
	return err
}

func newFindModel(apiTarget string, semanticOK bool) findModel {
	input := textinput.New()
	input.Placeholder = "type to search"
	input.Prompt = "> "
	input.Focus()

	return findModel{
		apiTarget:  apiTarget,
		semanticOK: semanticOK,
		input:      input,
		mode:       api.ModeKeyword,
		view:       viewSearch,
		keys:       defaultKeyMap(),
		help:       help.New(),
	}
}

func (m findModel) Init() bubbletea.Cmd {
	return textinput.Blink
}

func (m findModel) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case bubbletea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case debounceMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		query := strings.TrimSpace(m.input.Value())
		if query == "" {
			return m, nil
		}
		m.searching = true
		return m, searchCmd(m.apiTarget, query, m.mode, m.generation)

	case resultsMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		m.searching = false
		if msg.err != nil {
			m.searchErr = msg.err
			m.results = nil
			m.cursor = 0
			return m, nil
		}
		m.searchErr = nil
		m.results = msg.output.Results
		m.cursor = 0
		return m, nil

	case documentLoadedMsg:
		if msg.err != nil {
			m.searchErr = msg.err
			return m, nil
		}
		m.document = msg.doc
		m.rendered = msg.rendered
		m.view = viewDocument
		return m, nil

	case bubbletea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m findModel) handleKey(msg bubbletea.KeyMsg) (bubbletea.Model, bubbletea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, bubbletea.Quit
	}

	if m.view == viewDocument {
		switch msg.String() {
		case "esc", "q", "h":
			m.view = viewSearch
			m.document = nil
			m.rendered = ""
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m, bubbletea.Quit
	case "tab":
		return m.toggleMode()
	case "up", "ctrl+p":
		m.moveCursor(-1)
		return m, nil
	case "down", "ctrl+n":
		m.moveCursor(1)
		return m, nil
	case "enter":
		return m.openSelected()
	}

	before := m.input.Value()
	var cmd bubbletea.Cmd
	m.input, cmd = m.input.Update(msg)

	if m.input.Value() != before {
		m.generation++
		query := strings.TrimSpace(m.input.Value())
		if query == "" {
			m.results = nil
			m.cursor = 0
			m.searching = false
			m.searchErr = nil
			return m, cmd
		}

		// Keyword search is cheap enough to run on every keystroke.
		// Semantic queries cost an embedding call each, so they wait out
		// the debounce window first.
		if m.mode == api.ModeKeyword {
			m.searching = true
			return m, bubbletea.Batch(cmd, searchCmd(m.apiTarget, query, m.mode, m.generation))
		}
		return m, bubbletea.Batch(cmd, debounceTick(m.generation))
	}

	return m, cmd
}

// toggleMode switches between keyword and semantic search. Scores from the
// two modes are not comparable, so the result list is cleared rather than
// left showing rankings from the other mode.
func (m findModel) toggleMode() (bubbletea.Model, bubbletea.Cmd) {
	if !m.semanticOK {
		return m, nil
	}

	if m.mode == api.ModeKeyword {
		m.mode = api.ModeSemantic
	} else {
		m.mode = api.ModeKeyword
	}

	m.results = nil
	m.cursor = 0
	m.searchErr = nil
	m.generation++

	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		return m, nil
	}

	m.searching = true
	return m, searchCmd(m.apiTarget, query, m.mode, m.generation)
}

// moveCursor wraps around both ends of the result list.
func (m *findModel) moveCursor(delta int) {
	n := len(m.results)
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor = ((m.cursor+delta)%n + n) % n
}

func (m findModel) openSelected() (bubbletea.Model, bubbletea.Cmd) {
	if len(m.results) == 0 {
		return m, nil
	}

	result := m.results[m.cursor]
	return m, loadDocumentCmd(m.apiTarget, string(result.Kind), result.Slug)
}

// selectedLink builds the site path for the selected result. Keyword
// results carry a highlight hint for the front end; semantic matches have
// no matched terms to highlight.
func (m findModel) selectedLink() string {
	if len(m.results) == 0 {
		return ""
	}

	result := m.results[m.cursor]
	path := "/" + string(result.Kind) + "s/" + result.Slug

	if m.mode == api.ModeKeyword {
		if query := strings.TrimSpace(m.input.Value()); query != "" {
			path += "?highlight=" + url.QueryEscape(query)
		}
	}

	return path
}

func (m findModel) View() string {
	if m.view == viewDocument {
		return m.viewDocument()
	}
	return m.viewSearch()
}

func (m findModel) viewSearch() string {
	lines := make([]string, 0, 8+len(m.results)*3)

	header := findTitleStyle.Render("folio find")
	modeTag := findModeStyle.Render(" " + m.mode + " ")
	if m.semanticOK {
		modeTag += findMutedStyle.Render("  tab to switch")
	}
	lines = append(lines, header+"  "+modeTag, m.renderRule(), "")

	lines = append(lines, m.input.View(), "")

	switch {
	case m.searchErr != nil:
		lines = append(lines, findErrorStyle.Render("error: "+m.searchErr.Error()))
	case m.searching:
		lines = append(lines, findMutedStyle.Render("searching..."))
	case len(m.results) == 0 && strings.TrimSpace(m.input.Value()) != "":
		lines = append(lines, findMutedStyle.Render("no results"))
	default:
		lines = append(lines, m.renderResults()...)
	}

	lines = append(lines, "", m.renderFooter())

	return strings.Join(lines, "\n")
}

func (m findModel) renderResults() []string {
	lines := make([]string, 0, len(m.results)*3)
	for i, result := range m.results {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		title := fmt.Sprintf("%s%s %s %s",
			cursor,
			findTitleRowStyle.Render(result.Title),
			findSlugStyle.Render("/"+string(result.Kind)+"s/"+result.Slug),
			findScoreStyle.Render(fmt.Sprintf("%.3f", result.Score)),
		)
		if i == m.cursor {
			title = findHighlightStyle.Render(fmt.Sprintf("%s%s  /%ss/%s  %.3f",
				cursor, result.Title, result.Kind, result.Slug, result.Score))
		}
		lines = append(lines, title)

		snippet := strings.ReplaceAll(result.Snippet, "\n", " ")
		if snippet != "" {
			lines = append(lines, "    "+findSnippetStyle.Render(snippet))
		}
	}
	return lines
}

func (m findModel) renderFooter() string {
	hint := ""
	if m.mode == api.ModeKeyword && len(m.results) > 0 {
		hint = findMutedStyle.Render("snippets show matched passages") + "\n"
	}
	return hint + findMutedStyle.Render(m.help.View(m.keys))
}

func (m findModel) viewDocument() string {
	if m.document == nil {
		return findMutedStyle.Render("no document")
	}

	header := findTitleStyle.Render("folio find › " + m.document.Title)
	lines := []string{header}
	if link := m.selectedLink(); link != "" {
		lines = append(lines, findMutedStyle.Render(link))
	}
	lines = append(lines, m.renderRule(), "")
	lines = append(lines, m.rendered)
	lines = append(lines, findMutedStyle.Render("esc back · ctrl+c quit"))

	return strings.Join(lines, "\n")
}

func (m findModel) renderRule() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	return findDividerStyle.Render(strings.Repeat("─", width))
}

func debounceTick(generation int) bubbletea.Cmd {
	return bubbletea.Tick(debounceDelay, func(time.Time) bubbletea.Msg {
		return debounceMsg{generation: generation}
	})
}

func searchCmd(apiTarget, query, mode string, generation int) bubbletea.Cmd {
	return func() bubbletea.Msg {
		output, err := searchcmder.SearchAPI(context.Background(), apiTarget, query, mode)
		return resultsMsg{generation: generation, output: output, err: err}
	}
}

func loadDocumentCmd(apiTarget, kind, slug string) bubbletea.Cmd {
	return func() bubbletea.Msg {
		doc, err := searchcmder.FetchDocument(context.Background(), apiTarget, kind, slug)
		if err != nil {
			return documentLoadedMsg{err: err}
		}

		rendered, err := cliui.RenderMarkdown(doc.Content)
		if err != nil {
			rendered = doc.Content
		}

		return documentLoadedMsg{doc: doc, rendered: rendered}
	}
}
