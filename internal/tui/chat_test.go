package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caresync/caresync/internal/api"
)

func newTestChat() ChatModel {
	m := NewChatModel(nil, api.RoleClient, ChatPartner{DoctorID: 7, ClientID: 5, Name: "Dr. Who"})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(ChatModel)
}

func TestChatTranscriptRendering(t *testing.T) {
	m := newTestChat()

	updated, _ := m.Update(transcriptMsg([]api.Message{
		{SenderType: api.RoleDoctor, MessageContent: "Hello, how are you feeling?", CreatedAt: "2026-08-30 09:00"},
		{SenderType: api.RoleClient, MessageContent: "Much better, thanks.", CreatedAt: "2026-08-30 09:05"},
	}))
	m = updated.(ChatModel)

	transcript := m.renderTranscript()
	assert.Contains(t, transcript, "Dr. Who")
	assert.Contains(t, transcript, "You")
	assert.Contains(t, transcript, "Much better, thanks.")
}

func TestChatEmptyTranscript(t *testing.T) {
	m := newTestChat()
	assert.Contains(t, m.renderTranscript(), "No messages yet")
}

func TestChatQuitKeys(t *testing.T) {
	m := newTestChat()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestChatEnterWithEmptyComposeDoesNothing(t *testing.T) {
	m := newTestChat()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "an empty compose box sends nothing")
}

func TestChatErrorShownInView(t *testing.T) {
	m := newTestChat()

	updated, _ := m.Update(chatErrMsg{err: assert.AnError})
	m = updated.(ChatModel)

	assert.Contains(t, m.View(), "Error:")
}
