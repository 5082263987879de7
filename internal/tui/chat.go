package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/caresync/caresync/internal/api"
)

// ChatPartner identifies the other side of a conversation.
type ChatPartner struct {
	DoctorID int64
	ClientID int64
	Name     string
}

// ChatModel is the live conversation view: a scrolling transcript above
// a compose box. Enter sends, ctrl+r reloads, esc leaves.
type ChatModel struct {
	client  *api.Client
	viewer  api.Role
	partner ChatPartner

	viewport viewport.Model
	textarea textarea.Model
	messages []api.Message

	ownStyle   lipgloss.Style
	otherStyle lipgloss.Style
	mutedStyle lipgloss.Style
	errStyle   lipgloss.Style

	width  int
	height int
	ready  bool
	errMsg string
}

type transcriptMsg []api.Message

type sentMsg *api.Message

type chatErrMsg struct{ err error }

// NewChatModel creates the conversation view for the given partner.
func NewChatModel(client *api.Client, viewer api.Role, partner ChatPartner) ChatModel {
	ta := textarea.New()
	ta.Placeholder = "Write a message..."
	ta.CharLimit = 1000
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.Focus()

	return ChatModel{
		client:     client,
		viewer:     viewer,
		partner:    partner,
		textarea:   ta,
		ownStyle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		otherStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		mutedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		errStyle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
}

// Init loads the transcript.
func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.loadTranscript())
}

func (m ChatModel) loadTranscript() tea.Cmd {
	return func() tea.Msg {
		messages, err := m.client.Conversation(context.Background(), m.partner.DoctorID, m.partner.ClientID)
		if err != nil {
			return chatErrMsg{err}
		}
		return transcriptMsg(messages)
	}
}

func (m ChatModel) sendMessage(content string) tea.Cmd {
	receiverID := m.partner.DoctorID
	receiverType := api.RoleDoctor
	if m.viewer == api.RoleDoctor {
		receiverID = m.partner.ClientID
		receiverType = api.RoleClient
	}
	return func() tea.Msg {
		sent, err := m.client.SendMessage(context.Background(), receiverID, receiverType, content)
		if err != nil {
			return chatErrMsg{err}
		}
		return sentMsg(sent)
	}
}

// Update handles input and transcript updates.
func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		taCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlR:
			return m, m.loadTranscript()
		case tea.KeyEnter:
			content := strings.TrimSpace(m.textarea.Value())
			if content == "" {
				return m, nil
			}
			m.textarea.Reset()
			m.errMsg = ""
			return m, m.sendMessage(content)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		transcriptHeight := msg.Height - m.textarea.Height() - 3
		if !m.ready {
			m.viewport = viewport.New(msg.Width, transcriptHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = transcriptHeight
		}
		m.textarea.SetWidth(msg.Width)
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()

	case transcriptMsg:
		m.messages = msg
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()

	case sentMsg:
		if msg != nil {
			m.messages = append(m.messages, *msg)
		}
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()

	case chatErrMsg:
		m.errMsg = msg.err.Error()
	}

	m.textarea, taCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(taCmd, vpCmd)
}

func (m ChatModel) renderTranscript() string {
	if len(m.messages) == 0 {
		return m.mutedStyle.Render("No messages yet.")
	}

	var b strings.Builder
	for _, message := range m.messages {
		who := m.partner.Name
		style := m.otherStyle
		if message.SenderType == m.viewer {
			who = "You"
			style = m.ownStyle
		}
		b.WriteString(style.Render(who))
		b.WriteString(" ")
		b.WriteString(m.mutedStyle.Render(message.CreatedAt))
		b.WriteString("\n")
		b.WriteString(message.MessageContent)
		b.WriteString("\n\n")
	}
	return b.String()
}

// View renders the transcript, the compose box, and the help line.
func (m ChatModel) View() string {
	if !m.ready {
		return "Loading conversation..."
	}

	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.textarea.View())
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(m.errStyle.Render("Error: " + m.errMsg))
	} else {
		b.WriteString(m.mutedStyle.Render("enter: send • ctrl+r: reload • esc: quit"))
	}
	return b.String()
}

// RunChat starts the conversation view and blocks until the user leaves.
func RunChat(client *api.Client, viewer api.Role, partner ChatPartner) error {
	program := tea.NewProgram(NewChatModel(client, viewer, partner), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("conversation view failed: %w", err)
	}
	return nil
}
