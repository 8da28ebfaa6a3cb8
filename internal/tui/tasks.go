package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const tickInterval = 150 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// tickMsg drives the spinner.
type tickMsg time.Time

type task struct {
	key    string
	label  string
	status string
	detail string
}

// TaskModel is a bubbletea model listing a fixed set of tasks with a status
// and a free-form detail column.
type TaskModel struct {
	title string
	tasks []task
	index map[string]int
	done  bool
	err   error
	tick  int
}

// NewTaskModel creates an empty model with the given title.
func NewTaskModel(title string) TaskModel {
	return TaskModel{title: title, index: make(map[string]int)}
}

// AddTask pre-populates a pending task. Call this before the program starts.
func (m *TaskModel) AddTask(key, label string) {
	m.index[key] = len(m.tasks)
	m.tasks = append(m.tasks, task{key: key, label: label, status: "pending"})
}

func scheduleTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init satisfies the tea.Model interface.
func (m TaskModel) Init() tea.Cmd {
	return scheduleTick()
}

// Update satisfies the tea.Model interface.
func (m TaskModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.tick++
		if m.done {
			return m, nil
		}
		return m, scheduleTick()

	case TaskUpdateMsg:
		if idx, ok := m.index[msg.Key]; ok {
			m.tasks[idx].status = msg.Status
			if msg.Detail != "" {
				m.tasks[idx].detail = msg.Detail
			}
		}
		return m, nil

	case WorkDoneMsg:
		m.done = true
		return m, tea.Quit

	case ErrorMsg:
		m.err = msg.Err
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View satisfies the tea.Model interface.
func (m TaskModel) View() string {
	if m.done && m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	labelWidth, statusWidth := len("TOOL"), len("STATUS")
	for _, t := range m.tasks {
		labelWidth = max(labelWidth, len(t.label))
		statusWidth = max(statusWidth, len(t.status))
	}

	var b strings.Builder
	if m.title != "" {
		b.WriteString(HeaderStyle.Render(m.title))
		b.WriteString("\n\n")
	}
	b.WriteString(HeaderStyle.Render(pad("TOOL", labelWidth) + "  " + pad("STATUS", statusWidth) + "  DETAIL"))
	b.WriteByte('\n')
	for _, t := range m.tasks {
		b.WriteString(pad(t.label, labelWidth))
		b.WriteString("  ")
		b.WriteString(StatusStyle(t.status).Render(pad(t.status, statusWidth)))
		b.WriteString("  ")
		b.WriteString(FaintStyle.Render(NonEmptyOrDash(t.detail)))
		b.WriteByte('\n')
	}

	if !m.done {
		processed := 0
		for _, t := range m.tasks {
			if t.status != "pending" && t.status != "downloading" && t.status != "extracting" {
				processed++
			}
		}
		spinner := spinnerFrames[m.tick%len(spinnerFrames)]
		fmt.Fprintf(&b, "\n%s Processing %d/%d...\n", spinner, processed, len(m.tasks))
	}
	return b.String()
}

// Done returns whether the model has finished (work done or error).
func (m TaskModel) Done() bool {
	return m.done
}

// Err returns any fatal error that occurred.
func (m TaskModel) Err() error {
	return m.err
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func fmtStage(index, total int) string {
	return fmt.Sprintf("[%d/%d]", index, total)
}

// NonEmptyOrDash returns "-" for empty/whitespace strings.
func NonEmptyOrDash(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "-"
	}
	return value
}
