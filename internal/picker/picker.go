// Package picker is the interactive list UI: browse with a live filter, or
// select from quick-search results.
package picker

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/cm/internal/model"
	"github.com/nikbrunner/cm/internal/query"
	"github.com/nikbrunner/cm/internal/search"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("110"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true).
			MarginBottom(1)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// DataReloadedMsg replaces the picker's data set. Sent from outside the
// program when another process changed the storage file.
type DataReloadedMsg struct {
	Data *model.AppData
}

// debounceMsg re-runs the filter once the input has settled. Only the
// message carrying the latest sequence number is honored.
type debounceMsg struct {
	seq int
}

// Picker is the list selection model.
type Picker struct {
	browse bool

	// Browse mode state.
	data    *model.AppData
	input   textinput.Model
	applied string // debounced query driving the visible list
	scope   string // collection ID, "" = all bookmarks
	seq     int

	visible   []model.Bookmark
	cursor    int
	selected  bool
	cancelled bool
	status    string
	width     int
	height    int
}

// NewBrowse creates a Picker over the full data set with a live filter input.
func NewBrowse(data *model.AppData) Picker {
	input := textinput.New()
	input.Placeholder = "type to filter..."
	input.Prompt = "/ "
	input.Focus()

	p := Picker{
		browse: true,
		data:   data,
		input:  input,
		width:  80,
		height: 24,
	}
	p.refilter()
	return p
}

// NewSearch creates a Picker over fuzzy quick-search results.
func NewSearch(results []search.Result, queryText string) Picker {
	visible := make([]model.Bookmark, len(results))
	for i, r := range results {
		visible[i] = *r.Bookmark
	}
	return Picker{
		data:    &model.AppData{Bookmarks: visible},
		applied: queryText,
		visible: visible,
		width:   80,
		height:  24,
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	if p.browse {
		return textinput.Blink
	}
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case DataReloadedMsg:
		p.data = msg.Data
		p.refilter()
		p.status = "reloaded after external change"
		return p, nil

	case debounceMsg:
		if msg.seq != p.seq {
			return p, nil // superseded by later input
		}
		p.applied = p.input.Value()
		p.refilter()
		return p, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			p.cancelled = true
			return p, tea.Quit

		case tea.KeyEnter:
			if len(p.visible) > 0 {
				p.selected = true
				return p, tea.Quit
			}
			return p, nil

		case tea.KeyDown, tea.KeyCtrlN:
			if p.cursor < len(p.visible)-1 {
				p.cursor++
			}
			return p, nil

		case tea.KeyUp, tea.KeyCtrlP:
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil

		case tea.KeyTab:
			if p.browse {
				p.cycleScope()
			}
			return p, nil

		case tea.KeyCtrlY:
			if b := p.SelectedBookmark(); b != nil {
				if err := clipboard.WriteAll(b.URL); err != nil {
					p.status = "clipboard unavailable"
				} else {
					p.status = "copied " + b.URL
				}
			}
			return p, nil
		}

		if !p.browse {
			// Quick-search results also take vim keys.
			if msg.Type == tea.KeyRunes {
				switch string(msg.Runes) {
				case "j":
					if p.cursor < len(p.visible)-1 {
						p.cursor++
					}
				case "k":
					if p.cursor > 0 {
						p.cursor--
					}
				case "q":
					p.cancelled = true
					return p, tea.Quit
				}
			}
			return p, nil
		}

		// Browse mode: remaining keys feed the filter input, re-running the
		// filter only after keystrokes settle.
		before := p.input.Value()
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		if p.input.Value() != before {
			p.seq++
			seq := p.seq
			return p, tea.Batch(cmd, tea.Tick(query.DefaultSettle, func(time.Time) tea.Msg {
				return debounceMsg{seq: seq}
			}))
		}
		return p, cmd
	}

	if p.browse {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}
	return p, nil
}

// refilter recomputes the visible list and clamps the cursor.
func (p *Picker) refilter() {
	p.visible = query.Filter(p.data.Bookmarks, p.data.Collections, p.scope, p.applied)
	if p.cursor >= len(p.visible) {
		p.cursor = len(p.visible) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// cycleScope steps all -> first collection -> ... -> last -> all.
func (p *Picker) cycleScope() {
	ids := make([]string, len(p.data.Collections))
	for i, c := range p.data.Collections {
		ids[i] = c.ID
	}

	next := ""
	if p.scope == "" {
		if len(ids) > 0 {
			next = ids[0]
		}
	} else {
		for i, id := range ids {
			if id == p.scope && i+1 < len(ids) {
				next = ids[i+1]
				break
			}
		}
	}
	p.scope = next
	p.refilter()
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(p.headerText()))
	b.WriteString("\n\n")

	if p.browse {
		b.WriteString(p.input.View())
		b.WriteString("\n\n")
	}

	if len(p.visible) == 0 {
		b.WriteString(urlStyle.Render("no bookmarks match"))
		b.WriteString("\n")
	}

	for i, bookmark := range p.visible {
		cursor := "  "
		style := normalStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedStyle
		}

		line := style.Render(bookmark.Title)
		if tag := p.collectionTag(bookmark); tag != "" {
			line += " " + tagStyle.Render("["+tag+"]")
		}

		b.WriteString(cursor + line + "\n")
		b.WriteString("   " + urlStyle.Render(bookmark.URL) + "\n")
	}

	b.WriteString("\n")
	if p.status != "" {
		b.WriteString(footerStyle.Render(p.status))
		b.WriteString("\n")
	}
	b.WriteString(footerStyle.Render(p.hints()))

	return b.String()
}

func (p Picker) headerText() string {
	if !p.browse {
		return fmt.Sprintf("Search: %s (%d results)", p.applied, len(p.visible))
	}
	scope := "All Bookmarks"
	if c := p.data.CollectionByID(p.scope); c != nil {
		scope = c.Name
	}
	return fmt.Sprintf("%s (%d items)", scope, len(p.visible))
}

// collectionTag names the bookmark's collection in unscoped views.
// A dangling reference renders as no tag at all, never an error.
func (p Picker) collectionTag(b model.Bookmark) string {
	if !p.browse || p.scope != "" {
		return ""
	}
	if c := p.data.CollectionByID(b.CollectionID); c != nil {
		return c.Name
	}
	return ""
}

func (p Picker) hints() string {
	if p.browse {
		return "↑/↓: move  tab: collection  ctrl+y: copy URL  Enter: open  Esc: quit"
	}
	return "j/k: move  ctrl+y: copy URL  Enter: open  q/Esc: cancel"
}

// SelectedBookmark returns the bookmark under the cursor, or nil.
func (p Picker) SelectedBookmark() *model.Bookmark {
	if p.cancelled {
		return nil
	}
	if p.cursor >= 0 && p.cursor < len(p.visible) {
		b := p.visible[p.cursor]
		return &b
	}
	return nil
}

// Selected returns true if the user confirmed a selection.
func (p Picker) Selected() bool {
	return p.selected && !p.cancelled
}

// Cancelled returns true if the user cancelled the selection.
func (p Picker) Cancelled() bool {
	return p.cancelled
}
