package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lepinkainen/dupleter/dupe"
)

// reviewGroup is an exact duplicate group with the user's selection state
type reviewGroup struct {
	dupe.DuplicateGroup
	Selected []bool // which files are marked for deletion
	Removed  []bool // which files are already gone
	Survivor int    // index the keep policy picked
}

// reset marks every remaining file except the survivor. If the survivor is
// already gone the first remaining file is kept instead.
func (g *reviewGroup) reset() {
	keep := g.Survivor
	if keep < 0 || keep >= len(g.Files) || g.Removed[keep] {
		keep = -1
		for i := range g.Files {
			if !g.Removed[i] {
				keep = i
				break
			}
		}
	}
	for i := range g.Selected {
		g.Selected[i] = i != keep && !g.Removed[i]
	}
}

type keyMap struct {
	Up, Down, Prev, Next key.Binding
	Toggle, Reset, Clear key.Binding
	Skip, Delete, Help   key.Binding
	Quit, Yes, No        key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Prev:   key.NewBinding(key.WithKeys("left", "p")),
	Next:   key.NewBinding(key.WithKeys("right", "n")),
	Toggle: key.NewBinding(key.WithKeys(" ")),
	Reset:  key.NewBinding(key.WithKeys("r")),
	Clear:  key.NewBinding(key.WithKeys("c")),
	Skip:   key.NewBinding(key.WithKeys("s")),
	Delete: key.NewBinding(key.WithKeys("enter")),
	Help:   key.NewBinding(key.WithKeys("h", "?")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c")),
	Yes:    key.NewBinding(key.WithKeys("y", "Y")),
	No:     key.NewBinding(key.WithKeys("n", "N", "ctrl+c", "esc")),
}

// DuplicatesModel lets the user review exact duplicate groups and choose what
// to delete. Every group starts with all members except the one the keep
// policy picked marked for deletion.
type DuplicatesModel struct {
	groups       []reviewGroup
	resolver     *dupe.Resolver
	currentGroup int
	currentFile  int

	confirmingDeletion bool
	pendingDeletion    []dupe.FileEntry
	showHelp           bool
	lastErrors         []string

	tally    dupe.Tally
	quitting bool
}

// NewDuplicatesModel creates a review model. Deletions go through resolver,
// so a dry-run resolver only reports what would be removed.
func NewDuplicatesModel(groups []dupe.DuplicateGroup, keep dupe.KeepPolicy, resolver *dupe.Resolver) DuplicatesModel {
	if keep == nil {
		keep = dupe.KeepFirst
	}

	review := make([]reviewGroup, 0, len(groups))
	for _, g := range groups {
		rg := reviewGroup{
			DuplicateGroup: g,
			Selected:       make([]bool, len(g.Files)),
			Removed:        make([]bool, len(g.Files)),
			Survivor:       keep(g),
		}
		rg.reset()
		review = append(review, rg)
	}

	return DuplicatesModel{
		groups:   review,
		resolver: resolver,
		showHelp: true,
	}
}

// Tally returns the deletions made so far
func (m DuplicatesModel) Tally() dupe.Tally {
	return m.tally
}

// Init implements tea.Model
func (m DuplicatesModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m DuplicatesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmingDeletion {
			return m.handleConfirmationInput(msg)
		}
		return m.handleNormalInput(msg)

	case DeletionCompleteMsg:
		m.handleDeletionComplete(msg)
	}

	return m, nil
}

func (m DuplicatesModel) handleNormalInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	if len(m.groups) == 0 {
		return m, nil
	}

	group := &m.groups[m.currentGroup]
	switch {
	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp

	case key.Matches(msg, keys.Up):
		if m.currentFile > 0 {
			m.currentFile--
		}

	case key.Matches(msg, keys.Down):
		if m.currentFile < len(group.Files)-1 {
			m.currentFile++
		}

	case key.Matches(msg, keys.Prev):
		if m.currentGroup > 0 {
			m.currentGroup--
			m.currentFile = 0
		}

	case key.Matches(msg, keys.Next):
		if m.currentGroup < len(m.groups)-1 {
			m.currentGroup++
			m.currentFile = 0
		}

	case key.Matches(msg, keys.Toggle):
		if !group.Removed[m.currentFile] {
			group.Selected[m.currentFile] = !group.Selected[m.currentFile]
		}

	case key.Matches(msg, keys.Clear):
		for i := range group.Selected {
			group.Selected[i] = false
		}

	case key.Matches(msg, keys.Reset):
		group.reset()

	case key.Matches(msg, keys.Skip):
		for i := range group.Selected {
			group.Selected[i] = false
		}
		if m.currentGroup == len(m.groups)-1 {
			m.quitting = true
			return m, tea.Quit
		}
		m.currentGroup++
		m.currentFile = 0

	case key.Matches(msg, keys.Delete):
		return m.handleDeleteCommand()
	}

	return m, nil
}

func (m DuplicatesModel) handleConfirmationInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Yes):
		m.confirmingDeletion = false
		return m, m.executeDeleteCommand()

	case key.Matches(msg, keys.No):
		m.confirmingDeletion = false
		m.pendingDeletion = nil
	}

	return m, nil
}

// handleDeleteCommand collects the selected files of all groups. A group
// with every member selected is refused: at least one copy must survive.
func (m DuplicatesModel) handleDeleteCommand() (tea.Model, tea.Cmd) {
	var selected []dupe.FileEntry
	m.lastErrors = nil

	for _, group := range m.groups {
		remaining := 0
		var marked []dupe.FileEntry
		for i, f := range group.Files {
			if group.Removed[i] {
				continue
			}
			remaining++
			if group.Selected[i] {
				marked = append(marked, f)
			}
		}
		if len(marked) == remaining && remaining > 0 {
			m.lastErrors = append(m.lastErrors, fmt.Sprintf("refusing to delete every copy of %s", filepath.Base(group.Files[0].Path)))
			continue
		}
		selected = append(selected, marked...)
	}

	if len(selected) == 0 {
		return m, nil
	}

	m.pendingDeletion = selected
	m.confirmingDeletion = true
	return m, nil
}

func (m DuplicatesModel) executeDeleteCommand() tea.Cmd {
	pending := m.pendingDeletion
	resolver := m.resolver
	return func() tea.Msg {
		msg := DeletionCompleteMsg{}
		for _, f := range pending {
			if err := resolver.Remove(f); err != nil {
				msg.Failed = append(msg.Failed, DeletionFailure{Path: f.Path, Error: err})
				continue
			}
			msg.Removed = append(msg.Removed, f.Path)
		}
		return msg
	}
}

func (m *DuplicatesModel) handleDeletionComplete(msg DeletionCompleteMsg) {
	removed := make(map[string]bool, len(msg.Removed))
	for _, path := range msg.Removed {
		removed[path] = true
	}

	m.tally.Deleted += len(msg.Removed) + len(msg.Failed)
	m.tally.Failed += len(msg.Failed)
	for _, failure := range msg.Failed {
		m.lastErrors = append(m.lastErrors, failure.Error.Error())
	}

	// Drop groups that no longer have anything left to decide
	kept := m.groups[:0]
	for _, group := range m.groups {
		remaining := 0
		for i, f := range group.Files {
			if removed[f.Path] {
				group.Removed[i] = true
				group.Selected[i] = false
			}
			if !group.Removed[i] {
				remaining++
			}
		}
		if remaining > 1 {
			kept = append(kept, group)
		}
	}
	m.groups = kept
	m.pendingDeletion = nil

	if len(m.groups) == 0 {
		m.quitting = true
		return
	}
	if m.currentGroup >= len(m.groups) {
		m.currentGroup = len(m.groups) - 1
	}
	if m.currentFile >= len(m.groups[m.currentGroup].Files) {
		m.currentFile = len(m.groups[m.currentGroup].Files) - 1
	}
}

// View implements tea.Model
func (m DuplicatesModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	if len(m.groups) == 0 {
		return m.renderNoGroups()
	}

	if m.confirmingDeletion {
		return m.renderConfirmationDialog()
	}

	return m.renderMainView()
}

func (m DuplicatesModel) renderNoGroups() string {
	style := SuccessStyle.MarginTop(2).MarginLeft(2)
	return style.Render("✅ All duplicates have been processed!\n\nPress 'q' to quit.")
}

func (m DuplicatesModel) renderConfirmationDialog() string {
	var content strings.Builder

	content.WriteString(HeaderStyle.Render("⚠️  Confirm Deletion"))
	content.WriteString("\n\n")
	content.WriteString(fmt.Sprintf("Are you sure you want to delete %d file(s)?\n\n", len(m.pendingDeletion)))

	for _, f := range m.pendingDeletion {
		content.WriteString(fmt.Sprintf("  • %s\n", f.Path))
	}

	content.WriteString("\n")
	if m.resolver.Commit {
		content.WriteString(ErrorStyle.Render("This action cannot be undone!"))
	} else {
		content.WriteString(InfoStyle.Render("Dry run: nothing will be removed (pass --delete to commit)."))
	}
	content.WriteString("\n\n")
	content.WriteString("Press 'y' to confirm, 'n' to cancel")

	return content.String()
}

func (m DuplicatesModel) renderMainView() string {
	var content strings.Builder

	header := fmt.Sprintf("Dupleter - Duplicate Review (Group %d of %d)", m.currentGroup+1, len(m.groups))
	content.WriteString(HeaderStyle.Render(header))
	content.WriteString("\n\n")

	group := m.groups[m.currentGroup]
	groupInfo := fmt.Sprintf("%d files of %d bytes, sha256 %s", len(group.Files), group.Size, shortDigest(group.Digest))
	content.WriteString(InfoStyle.Render(groupInfo))
	content.WriteString("\n\n")

	content.WriteString(m.renderFileList(group))
	content.WriteString("\n")

	for _, e := range m.lastErrors {
		content.WriteString(ErrorStyle.Render("❌ " + e))
		content.WriteString("\n")
	}

	if m.showHelp {
		content.WriteString(m.renderHelp())
	} else {
		content.WriteString("Press 'h' for help")
	}

	return content.String()
}

func (m DuplicatesModel) renderFileList(group reviewGroup) string {
	var content strings.Builder

	paths := make([]string, len(group.Files))
	for i, f := range group.Files {
		paths[i] = f.Path
	}
	displayPaths := optimizePaths(paths)

	for i, f := range group.Files {
		var line strings.Builder

		switch {
		case group.Removed[i]:
			line.WriteString("[-] ")
		case group.Selected[i]:
			line.WriteString("[✓] ")
		default:
			line.WriteString("[ ] ")
		}

		name := filepath.Base(f.Path)
		style := lipgloss.NewStyle()
		if group.Selected[i] {
			style = DeleteStyle
		} else if group.Removed[i] {
			style = TraceStyle
		}
		if i == m.currentFile {
			style = style.Reverse(true)
		}
		line.WriteString(style.Render(name))

		line.WriteString(fmt.Sprintf(" (%s)", displayPaths[i]))
		content.WriteString(line.String())
		content.WriteString("\n")
	}

	return content.String()
}

// optimizePaths strips the directory prefix shared by all paths, keeping one
// level of it for context
func optimizePaths(paths []string) []string {
	if len(paths) <= 1 {
		return paths
	}

	split := make([][]string, len(paths))
	shortest := -1
	for i, path := range paths {
		split[i] = strings.Split(filepath.Clean(path), string(filepath.Separator))
		if shortest < 0 || len(split[i]) < shortest {
			shortest = len(split[i])
		}
	}

	common := 0
	for common < shortest-1 {
		same := true
		for _, parts := range split[1:] {
			if parts[common] != split[0][common] {
				same = false
				break
			}
		}
		if !same {
			break
		}
		common++
	}

	result := make([]string, len(paths))
	for i, parts := range split {
		if common <= 1 {
			result[i] = paths[i]
			continue
		}
		result[i] = "..." + string(filepath.Separator) + filepath.Join(parts[common-1:]...)
	}
	return result
}

func (m DuplicatesModel) renderHelp() string {
	help := []string{
		"",
		"Navigation:",
		"  ↑/↓ or j/k   Navigate files in current group",
		"  ←/→ or p/n   Previous/Next duplicate group",
		"",
		"Selection:",
		"  Space        Toggle file selection",
		"  r            Select every file except the one to keep",
		"  c            Clear all selections in group",
		"",
		"Actions:",
		"  Enter        Delete selected files from all groups (with confirmation)",
		"  s            Skip current group",
		"  h/?          Toggle this help",
		"  q            Quit",
		"",
	}

	return strings.Join(help, "\n")
}
