package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/diogo/bookchat/internal/models"
)

// transcript is the scrolling message list. It implements widget.View and
// is shared by pointer so every copy of the bubbletea model sees it.
type transcript struct {
	messages []models.Message
	viewport viewport.Model
}

func newTranscript(width, height int) *transcript {
	return &transcript{viewport: viewport.New(width, height)}
}

// Append adds a message and redraws. Messages are never removed.
func (t *transcript) Append(msg models.Message) {
	t.messages = append(t.messages, msg)
	t.refresh()
}

// ScrollToBottom shows the newest message.
func (t *transcript) ScrollToBottom() {
	t.viewport.GotoBottom()
}

// Messages returns the messages shown so far.
func (t *transcript) Messages() []models.Message {
	return t.messages
}

// LastBotMessage returns the newest bot reply.
func (t *transcript) LastBotMessage() (models.Message, bool) {
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].Role == models.RoleBot {
			return t.messages[i], true
		}
	}
	return models.Message{}, false
}

func (t *transcript) resize(width, height int) {
	t.viewport.Width = width
	t.viewport.Height = height
	t.refresh()
}

// bubbleWidth is the inner width available to a message bubble.
func (t *transcript) bubbleWidth() int {
	w := t.viewport.Width - 8
	if w < 20 {
		w = 20
	}
	return w
}

func (t *transcript) refresh() {
	t.viewport.SetContent(t.render())
}

func (t *transcript) render() string {
	var content strings.Builder
	width := t.bubbleWidth()

	for i, msg := range t.messages {
		if i > 0 {
			content.WriteString("\n")
		}

		label := msg.Role.Glyph() + " " + msg.Role.Label()
		text := msg.Display()

		if msg.Role == models.RoleUser {
			content.WriteString(userLabelStyle.Render(label) + "\n")
			content.WriteString(userBubbleStyle.Width(width).Render(text))
		} else {
			content.WriteString(botLabelStyle.Render(label) + "\n")
			content.WriteString(botBubbleStyle.Width(width).Render(text))
		}
		content.WriteString("\n")
	}

	return content.String()
}
