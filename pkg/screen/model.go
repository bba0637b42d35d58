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

package screen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/carverauto/adscreen/pkg/models"
	"github.com/carverauto/adscreen/pkg/pairing"
	"github.com/carverauto/adscreen/pkg/remoteinput"
)

// Dracula theme colors.
const (
	draculaForeground = "#F8F8F2"
	draculaCyan       = "#8BE9FD"
	draculaGreen      = "#50FA7B"
	draculaOrange     = "#FFB86C"
	draculaPink       = "#FF79C6"
	draculaPurple     = "#BD93F9"
	draculaRed        = "#FF5555"
	draculaYellow     = "#F1FA8C"
	draculaComment    = "#6272A4"
)

const (
	codePadding      = 2
	codePaddingSides = 4
	inputWidth       = 12
)

type styles struct {
	title, label, help, hint, success, error, code, panel, app lipgloss.Style
}

func newStyles() styles {
	return styles{
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaPink)).
			Bold(true),
		label: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaYellow)),
		help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaComment)),
		hint: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaOrange)),
		success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaGreen)),
		error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaRed)).
			Bold(true),
		code: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaGreen)).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(draculaPurple)),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(draculaCyan)).
			Padding(0, 1),
		app: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color(draculaCyan)).
			Foreground(lipgloss.Color(draculaForeground)),
	}
}

type tickMsg time.Time

type pairResultMsg struct {
	result *models.PairingResult
	err    error
}

type disconnectResultMsg struct {
	err error
}

type model struct {
	ctx     context.Context
	device  Device
	player  Player
	input   *remoteinput.Dispatcher
	canCopy bool
	now     func() time.Time

	session  models.DeviceSession
	playback models.PlaybackState

	codeInput  textinput.Model
	editing    bool
	pairing    bool
	message    string
	err        error
	lastAction remoteinput.Action
	showInfo   bool

	unsubscribe func()

	styles styles
}

func newModel(ctx context.Context, device Device, player Player, input *remoteinput.Dispatcher, canCopy bool) *model {
	ci := textinput.New()
	ci.Placeholder = "ABC123"
	ci.CharLimit = pairing.CodeLength
	ci.Width = inputWidth
	ci.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaCyan))
	ci.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaForeground))
	ci.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaComment))

	m := &model{
		ctx:       ctx,
		device:    device,
		player:    player,
		input:     input,
		canCopy:   canCopy,
		now:       time.Now,
		codeInput: ci,
		styles:    newStyles(),
	}

	m.unsubscribe = input.Subscribe(m.onAction)
	m.refresh()

	return m
}

func (m *model) close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (*model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *model) refresh() {
	m.session = m.device.Session()
	m.playback = m.player.Snapshot()

	if m.session.Connected() && m.editing {
		m.stopEditing()
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.refresh()
		return m, tick()
	case pairResultMsg:
		return m.handlePairResult(msg)
	case disconnectResultMsg:
		return m.handleDisconnectResult(msg)
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m *model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.editing {
		return m.handleEditing(msg)
	}

	if !m.session.Connected() {
		return m.handleUnpaired(msg)
	}

	return m.handlePaired(msg)
}

func (m *model) handleEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	//nolint:exhaustive // Default case handles all unlisted keys
	switch msg.Type {
	case tea.KeyEsc, tea.KeyTab:
		m.stopEditing()
		return m, nil
	case tea.KeyEnter:
		return m.submitCode()
	default:
		var cmd tea.Cmd
		m.codeInput, cmd = m.codeInput.Update(msg)

		return m, cmd
	}
}

func (m *model) handleUnpaired(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		if m.pairing {
			return m, nil
		}

		m.editing = true
		m.err = nil
		m.message = ""

		return m, m.codeInput.Focus()
	case "c":
		m.copyCode()
	}

	return m, nil
}

func (m *model) stopEditing() {
	m.editing = false
	m.codeInput.Blur()
	m.codeInput.Reset()
}

func (m *model) copyCode() {
	if !m.canCopy || m.session.ConnectionCode == "" {
		return
	}

	if err := writeClipboard(m.session.ConnectionCode); err != nil {
		m.message = "Failed to copy to clipboard"
		return
	}

	m.message = "Connection code copied to clipboard!"
}

func (m *model) submitCode() (tea.Model, tea.Cmd) {
	code, err := pairing.NormalizeCode(m.codeInput.Value())
	if err != nil {
		m.err = err
		return m, nil
	}

	m.stopEditing()
	m.pairing = true
	m.err = nil
	m.message = "Connecting..."

	device, ctx := m.device, m.ctx

	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, pairTimeout)
		defer cancel()

		result, err := device.Pair(ctx, code)

		return pairResultMsg{result: result, err: err}
	}
}

func (m *model) handlePairResult(msg pairResultMsg) (tea.Model, tea.Cmd) {
	m.pairing = false
	m.refresh()

	switch {
	case errors.Is(msg.err, pairing.ErrCodeNotFound):
		m.err = nil
		m.message = "Code not recognised. Check the code and try again."
	case msg.err != nil:
		m.err = msg.err
		m.message = ""
	default:
		m.err = nil
		m.message = fmt.Sprintf("Connected to %s", screenLabel(msg.result.Name, msg.result.ScreenID))
	}

	return m, nil
}

func (m *model) handlePaired(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "u":
		return m, m.disconnect()
	}

	if !m.input.Dispatch(remoteinput.Event{Key: msg.String(), At: m.now()}) {
		return m, nil
	}

	m.playback = m.player.Snapshot()

	return m, nil
}

func (m *model) onAction(action remoteinput.Action) {
	m.lastAction = action
	m.err = m.apply(action)
}

func (m *model) disconnect() tea.Cmd {
	m.message = "Disconnecting..."
	device, ctx := m.device, m.ctx

	return func() tea.Msg {
		return disconnectResultMsg{err: device.Disconnect(ctx)}
	}
}

func (m *model) handleDisconnectResult(msg disconnectResultMsg) (tea.Model, tea.Cmd) {
	m.refresh()
	m.lastAction = remoteinput.ActionNone
	m.showInfo = false

	if msg.err != nil {
		m.err = msg.err
		m.message = ""

		return m, nil
	}

	m.err = nil
	m.message = "Screen disconnected"

	return m, nil
}

func (m *model) apply(action remoteinput.Action) error {
	//nolint:exhaustive // navigation actions only change the view
	switch action {
	case remoteinput.ActionPlayPause, remoteinput.ActionSelect:
		return m.player.Toggle(m.ctx)
	case remoteinput.ActionPlay:
		return m.player.Play(m.ctx)
	case remoteinput.ActionPause:
		return m.player.Pause(m.ctx)
	case remoteinput.ActionVolumeUp:
		return m.player.SetVolume(m.ctx, m.playback.Volume+volumeStep)
	case remoteinput.ActionVolumeDown:
		return m.player.SetVolume(m.ctx, m.playback.Volume-volumeStep)
	case remoteinput.ActionMute:
		return m.player.SetVolume(m.ctx, 0)
	case remoteinput.ActionInfo, remoteinput.ActionMenu:
		m.showInfo = !m.showInfo
	case remoteinput.ActionBack:
		m.showInfo = false
	}

	return nil
}

func (m *model) View() string {
	var content strings.Builder

	content.WriteString(m.styles.title.Render("Screen Agent") + "\n\n")

	if m.session.Connected() {
		content.WriteString(m.renderPaired())
	} else {
		content.WriteString(m.renderUnpaired())
	}

	if m.message != "" {
		style := m.styles.success
		if strings.HasPrefix(m.message, "Failed") || strings.HasPrefix(m.message, "Code not") {
			style = m.styles.hint
		}

		content.WriteString("\n\n" + style.Render(m.message))
	}

	if m.err != nil {
		content.WriteString("\n\n" + m.styles.error.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	return m.styles.app.Align(lipgloss.Left).Render(content.String())
}

func (m *model) renderUnpaired() string {
	var content strings.Builder

	code := m.session.ConnectionCode
	if code == "" {
		code = strings.Repeat("-", pairing.CodeLength)
	}

	codeBox := m.styles.code.
		Width(len(code) + codePaddingSides).
		Padding(0, codePadding).
		Render(code)

	content.WriteString(lipgloss.JoinVertical(
		lipgloss.Left,
		m.styles.label.Render("Connection code:"),
		codeBox,
	))
	content.WriteString("\n\n")

	content.WriteString(m.styles.help.Render("Enter this code in the dashboard to connect this screen."))
	content.WriteString("\n")

	if m.editing {
		content.WriteString("\n" + lipgloss.JoinVertical(
			lipgloss.Left,
			m.styles.label.Render("Screen code:"),
			m.codeInput.View(),
		))
		content.WriteString("\n" + m.styles.help.Render("Enter → connect | Esc → cancel"))

		return content.String()
	}

	hint := "Tab → enter a screen code | q → quit"
	if m.canCopy {
		hint = "C → copy code | " + hint
	}

	content.WriteString(m.styles.hint.Render(hint))

	return content.String()
}

func (m *model) renderPaired() string {
	state := "Paused"
	if m.playback.IsPlaying {
		state = "Playing"
	}

	content := m.playback.CurrentContent
	if content == "" {
		content = "Waiting for content"
		state = "Idle"
	}

	rows := []string{
		m.styles.label.Render("Screen: ") + screenLabel(m.session.ScreenName, m.session.ScreenID),
		m.styles.label.Render("Now playing: ") + content,
		m.styles.label.Render("State: ") + state,
		m.styles.label.Render("Volume: ") + fmt.Sprintf("%d", m.playback.Volume),
	}

	if m.showInfo {
		rows = append(rows,
			m.styles.label.Render("Device: ")+m.session.DeviceID,
			m.styles.label.Render("Brightness: ")+fmt.Sprintf("%d", m.playback.Brightness),
		)
	}

	if m.lastAction != remoteinput.ActionNone {
		rows = append(rows, m.styles.help.Render("Last input: "+string(m.lastAction)))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.styles.panel.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)),
		"",
		m.styles.help.Render("Space → play/pause | +/- → volume | i → info | u → unpair | q → quit"),
	)
}

func screenLabel(name, id string) string {
	if name == "" {
		return id
	}

	return fmt.Sprintf("%s (%s)", name, id)
}
