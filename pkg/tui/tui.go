/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package tui renders the harness state in the terminal: the current
// reading, the bounded history log, and the bounded error log. It is a pure
// consumer of pipeline snapshots and controller status; it never mutates
// harness state.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/carverauto/nfcbench/pkg/arming"
	"github.com/carverauto/nfcbench/pkg/models"
	"github.com/carverauto/nfcbench/pkg/pipeline"
)

// Dracula theme colors.
const (
	draculaForeground = "#F8F8F2"
	draculaCyan       = "#8BE9FD"
	draculaGreen      = "#50FA7B"
	draculaPink       = "#FF79C6"
	draculaPurple     = "#BD93F9"
	draculaRed        = "#FF5555"
	draculaYellow     = "#F1FA8C"
	draculaComment    = "#6272A4"
)

const (
	tabCurrent = iota
	tabHistory
	tabErrors
	tabCount
)

const refreshInterval = 250 * time.Millisecond

var tabNames = [tabCount]string{"Current", "History", "Errors"}

type styles struct {
	title     lipgloss.Style
	tabActive lipgloss.Style
	tabIdle   lipgloss.Style
	armed     lipgloss.Style
	warning   lipgloss.Style
	faulted   lipgloss.Style
	uid       lipgloss.Style
	caps      lipgloss.Style
	dim       lipgloss.Style
	errEntry  lipgloss.Style
	help      lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(draculaPurple)),
		tabActive: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(draculaPink)),
		tabIdle:   lipgloss.NewStyle().Foreground(lipgloss.Color(draculaComment)),
		armed:     lipgloss.NewStyle().Foreground(lipgloss.Color(draculaGreen)),
		warning:   lipgloss.NewStyle().Foreground(lipgloss.Color(draculaYellow)),
		faulted:   lipgloss.NewStyle().Foreground(lipgloss.Color(draculaRed)),
		uid:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(draculaCyan)),
		caps:      lipgloss.NewStyle().Foreground(lipgloss.Color(draculaForeground)),
		dim:       lipgloss.NewStyle().Foreground(lipgloss.Color(draculaComment)),
		errEntry:  lipgloss.NewStyle().Foreground(lipgloss.Color(draculaRed)),
		help:      lipgloss.NewStyle().Foreground(lipgloss.Color(draculaComment)),
	}
}

type tickMsg time.Time

// Model is the bubbletea model for the harness dashboard.
type Model struct {
	pipe       *pipeline.Pipeline
	controller *arming.Controller

	styles styles
	tab    int

	// vp scrolls the history and error tabs; the current tab never needs it.
	vp viewport.Model

	snap   pipeline.Snapshot
	status arming.Status
}

// NewModel creates the dashboard model.
func NewModel(pipe *pipeline.Pipeline, controller *arming.Controller) Model {
	return Model{
		pipe:       pipe,
		controller: controller,
		styles:     newStyles(),
		vp:         viewport.New(80, 20),
	}
}

// Run renders the dashboard until the user quits.
func Run(pipe *pipeline.Pipeline, controller *arming.Controller) error {
	_, err := tea.NewProgram(NewModel(pipe, controller), tea.WithAltScreen()).Run()
	return err
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.snap = m.pipe.Snapshot()
		m.status = m.controller.Status()
		m.syncViewport()

		return m, tick()

	case tea.WindowSizeMsg:
		m.vp.Width = msg.Width

		if msg.Height > 8 {
			m.vp.Height = msg.Height - 8
		}

		m.syncViewport()

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "right", "l":
			m.tab = (m.tab + 1) % tabCount
			m.syncViewport()
			m.vp.GotoTop()
		case "shift+tab", "left", "h":
			m.tab = (m.tab + tabCount - 1) % tabCount
			m.syncViewport()
			m.vp.GotoTop()
		default:
			if m.tab != tabCurrent {
				var cmd tea.Cmd
				m.vp, cmd = m.vp.Update(msg)

				return m, cmd
			}
		}
	}

	return m, nil
}

// syncViewport refreshes the scroll content for the active log tab.
func (m *Model) syncViewport() {
	switch m.tab {
	case tabHistory:
		m.vp.SetContent(m.renderEntries(m.snap.History, "no reads yet"))
	case tabErrors:
		m.vp.SetContent(m.renderEntries(m.snap.Errors, "no errors"))
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("nfcbench"))
	b.WriteString("  ")
	b.WriteString(m.renderArmingState())
	b.WriteString("  ")
	b.WriteString(m.styles.dim.Render(fmt.Sprintf("reads: %d", m.snap.Sequence)))
	b.WriteString("\n\n")

	for i, name := range tabNames {
		if i > 0 {
			b.WriteString("  ")
		}

		if i == m.tab {
			b.WriteString(m.styles.tabActive.Render("[" + name + "]"))
		} else {
			b.WriteString(m.styles.tabIdle.Render(" " + name + " "))
		}
	}

	b.WriteString("\n\n")

	if m.tab == tabCurrent {
		b.WriteString(m.renderCurrent())
	} else {
		b.WriteString(m.vp.View())
	}

	b.WriteString("\n")
	b.WriteString(m.styles.help.Render("tab: switch view  up/down: scroll  q: quit"))

	return b.String()
}

func (m Model) renderArmingState() string {
	if m.status.RadioOff {
		return m.styles.faulted.Render("RADIO OFF — enable NFC to continue")
	}

	switch m.status.State {
	case models.StateArmed:
		return m.styles.armed.Render("armed")
	case models.StateResetting:
		return m.styles.warning.Render("resetting")
	default:
		return m.styles.dim.Render("disarmed")
	}
}

func (m Model) renderCurrent() string {
	if m.snap.Current.Error != nil {
		e := m.snap.Current.Error

		return m.styles.errEntry.Render(fmt.Sprintf("#%d  %s", e.Sequence, e.Text)) +
			"\n" + m.styles.dim.Render(e.Timestamp)
	}

	if m.snap.Current.Event == nil {
		return m.styles.dim.Render("waiting for a tag...")
	}

	ev := m.snap.Current.Event

	return fmt.Sprintf("%s\n%s\n%s",
		m.styles.uid.Render(fmt.Sprintf("#%d  %s", ev.Sequence, ev.UID)),
		m.styles.caps.Render(ev.CapabilityLabel()),
		m.styles.dim.Render(ev.Timestamp))
}

func (m Model) renderEntries(entries []models.LogEntry, empty string) string {
	if len(entries) == 0 {
		return m.styles.dim.Render(empty)
	}

	var b strings.Builder

	for _, e := range entries {
		line := fmt.Sprintf("#%-6d %s  %s", e.Sequence, e.Timestamp, e.Text)

		if e.IsError {
			b.WriteString(m.styles.errEntry.Render(line))
		} else {
			b.WriteString(m.styles.caps.Render(line))
		}

		b.WriteString("\n")
	}

	return b.String()
}
