// Package tui provides a terminal user interface for rc0patch
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/james-see/rc0patch/pkg/converter"
	"github.com/james-see/rc0patch/pkg/rc0"
)

// Pedal-panel color scheme
var (
	ledRed     = lipgloss.Color("#FF3B30")
	ledAmber   = lipgloss.Color("#FFB000")
	silverGray = lipgloss.Color("#C0C0C0")
	darkGray   = lipgloss.Color("#333333")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ledRed).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(ledRed).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(ledAmber).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(ledRed).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(ledAmber).
			Width(10)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ledRed).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateFilePicker
	StateConverting
	StateResult
)

// MenuItem represents a menu option. An empty ToFormat means inspect.
type MenuItem struct {
	Title       string
	Description string
	FromFormat  converter.Format
	ToFormat    converter.Format
}

var menuItems = []MenuItem{
	{Title: "Inspect patch", Description: "Show tracks, rhythm and effects of a .RC0 memory", FromFormat: converter.FormatRC0},
	{Title: "RC0 → JSON", Description: "Export a memory as JSON", FromFormat: converter.FormatRC0, ToFormat: converter.FormatJSON},
	{Title: "RC0 → YAML", Description: "Export a memory as YAML", FromFormat: converter.FormatRC0, ToFormat: converter.FormatYAML},
	{Title: "RC0 → MIDI", Description: "Write a MIDI file that recalls the memory", FromFormat: converter.FormatRC0, ToFormat: converter.FormatMIDI},
	{Title: "JSON → RC0", Description: "Build a .RC0 memory from JSON", FromFormat: converter.FormatJSON, ToFormat: converter.FormatRC0},
	{Title: "YAML → RC0", Description: "Build a .RC0 memory from YAML", FromFormat: converter.FormatYAML, ToFormat: converter.FormatRC0},
	{Title: "Exit", Description: "Exit the application"},
}

func allowedTypes(f converter.Format) []string {
	switch f {
	case converter.FormatRC0:
		return []string{".RC0", ".rc0"}
	case converter.FormatJSON:
		return []string{".json"}
	case converter.FormatYAML:
		return []string{".yaml", ".yml"}
	}
	return nil
}

// Model represents the TUI model
type Model struct {
	conv         *converter.Converter
	state        State
	menuIndex    int
	filePicker   filepicker.Model
	spinner      spinner.Model
	selectedFile string
	outputFile   string
	summary      string
	conversion   MenuItem
	err          error
	width        int
	height       int
}

// conversionDoneMsg signals conversion completion
type conversionDoneMsg struct {
	outputFile string
	summary    string
	err        error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model that starts browsing in dir. An empty dir
// means the working directory.
func New(conv *converter.Converter, dir string) Model {
	if conv == nil {
		conv = converter.New(nil)
	}

	fp := filepicker.New()
	fp.AllowedTypes = allowedTypes(converter.FormatRC0)
	if dir == "" {
		dir, _ = os.Getwd()
	}
	fp.CurrentDirectory = dir

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ledRed)

	return Model{
		conv:       conv,
		state:      StateMenu,
		filePicker: fp,
		spinner:    s,
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The file picker needs to receive every message while it is open
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = StateConverting
			return m, tea.Batch(m.spinner.Tick, m.performConversion())
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case conversionDoneMsg:
		m.state = StateResult
		m.outputFile = msg.outputFile
		m.summary = msg.summary
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		if m.menuIndex == len(menuItems)-1 {
			return m, tea.Quit
		}
		m.conversion = menuItems[m.menuIndex]
		m.state = StateFilePicker
		m.filePicker.AllowedTypes = allowedTypes(m.conversion.FromFormat)
		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.err = nil
		m.selectedFile = ""
		m.outputFile = ""
		m.summary = ""
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) performConversion() tea.Cmd {
	item, input, conv := m.conversion, m.selectedFile, m.conv
	return func() tea.Msg {
		return runConversion(conv, item, input)
	}
}

func runConversion(conv *converter.Converter, item MenuItem, input string) conversionDoneMsg {
	data, err := os.ReadFile(input)
	if err != nil {
		return conversionDoneMsg{err: err}
	}

	if item.ToFormat == "" {
		p, err := conv.Decode(data, item.FromFormat)
		if err != nil {
			return conversionDoneMsg{err: err}
		}
		return conversionDoneMsg{summary: Summary(p)}
	}

	base := strings.TrimSuffix(input, filepath.Ext(input))
	res := conv.Convert(data, item.FromFormat, item.ToFormat, base+item.ToFormat.Extension())
	if res.Error != nil {
		return conversionDoneMsg{err: res.Error}
	}
	if err := os.WriteFile(res.Filename, res.Data, 0644); err != nil {
		return conversionDoneMsg{err: err}
	}
	return conversionDoneMsg{outputFile: res.Filename}
}

// Summary renders the settings of a patch worth seeing at a glance
func Summary(p *rc0.Patch) string {
	var s strings.Builder

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label))
		s.WriteString(value)
		s.WriteString("\n")
	}

	name := p.Name
	if name == "" {
		name = "(unnamed)"
	}
	row("Memory", fmt.Sprintf("%d  %s", p.ID+1, name))
	row("Count", p.Count)
	row("Rhythm", fmt.Sprintf("genre %s pattern %s variation %s kit %s", p.Rhythm.Genre, p.Rhythm.Pattern, p.Rhythm.Variation, p.Rhythm.Kit))

	for i, t := range p.Tracks {
		flags := []string{fmt.Sprintf("lvl %d", t.Level), fmt.Sprintf("pan %+d", t.Pan)}
		if t.Reverse {
			flags = append(flags, "rev")
		}
		if t.OneShot {
			flags = append(flags, "1shot")
		}
		if !t.FXEnabled {
			flags = append(flags, "fx off")
		}
		row(fmt.Sprintf("Track %d", i+1), strings.Join(flags, "  "))
	}

	row("Input FX", rackSummary(&p.InputFX))
	row("Track FX", rackSummary(&p.TrackFX))

	for _, a := range p.Assigns {
		if !a.Enabled {
			continue
		}
		row(fmt.Sprintf("Assign %d", a.Number), fmt.Sprintf("%s → %s", a.SourceName(), a.TargetName()))
	}
	return s.String()
}

// rackSummary lists the selected effect of every slot, bank by bank
func rackSummary(r *rc0.EffectRack) string {
	banks := make([]string, 0, len(r.Banks))
	for b, bank := range r.Banks {
		slots := make([]string, 0, len(bank.Slots))
		for _, slot := range bank.Slots {
			name := rc0.EffectName(slot.EffectID)
			if !slot.Enabled {
				name = strings.ToLower(name)
			}
			slots = append(slots, name)
		}
		banks = append(banks, rc0.BankLetter(b)+": "+strings.Join(slots, " "))
	}
	return strings.Join(banks, " | ")
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateConverting:
		s.WriteString(m.viewConverting())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT ACTION "))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(ledAmber).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf(" SELECT %s FILE ", strings.ToUpper(string(m.conversion.FromFormat)))))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewConverting() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" WORKING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Reading %s...\n", m.spinner.View(), filepath.Base(m.selectedFile)))
	if m.conversion.ToFormat != "" {
		s.WriteString(statusStyle.Render(fmt.Sprintf("  %s → %s", m.conversion.FromFormat, m.conversion.ToFormat)))
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	switch {
	case m.err != nil:
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Failed: %s", m.err.Error())))
	case m.summary != "":
		s.WriteString(titleStyle.Render(" " + filepath.Base(m.selectedFile) + " "))
		s.WriteString("\n\n")
		s.WriteString(m.summary)
	default:
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ Conversion complete!"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Input:  %s\n", filepath.Base(m.selectedFile)))
		s.WriteString(fmt.Sprintf("Output: %s", filepath.Base(m.outputFile)))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func asciiLogo() string {
	logo := `
   ____   ____ ___  ____   _  _____ ____ _   _
  |  _ \ / ___/ _ \|  _ \ / \|_   _/ ___| | | |
  | |_) | |  | | | | |_) / _ \ | || |   | |_| |
  |  _ <| |__| |_| |  __/ ___ \| || |___|  _  |
  |_| \_\\____\___/|_| /_/   \_\_| \____|_| |_|
`
	return lipgloss.NewStyle().Foreground(ledRed).Render(logo)
}

// Run starts the TUI application
func Run(conv *converter.Converter, dir string) error {
	p := tea.NewProgram(New(conv, dir), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
