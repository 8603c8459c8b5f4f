package models

// Role identifies who authored a message
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Icon returns the glyph name used for the role ("user" or "robot")
func (r Role) Icon() string {
	if r == RoleBot {
		return "robot"
	}
	return "user"
}

// Glyph returns the terminal symbol drawn next to the role's messages
func (r Role) Glyph() string {
	if r == RoleBot {
		return "🤖"
	}
	return "👤"
}

// Label returns the display name of the role
func (r Role) Label() string {
	if r == RoleBot {
		return "Bot"
	}
	return "You"
}

// Message is a transient view entity. It lives only as long as the view
// holding it; there is no identifier, timestamp, or persistence.
type Message struct {
	Role Role
	// Text is the plain user text or, for bot messages, the markdown source
	Text string
	// Rendered is the formatted bot content; empty for user messages
	Rendered string
}

// NewUserMessage creates a plain-text user message
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Text: text}
}

// NewBotMessage creates a bot message from markdown and its rendering
func NewBotMessage(markdown, rendered string) Message {
	return Message{Role: RoleBot, Text: markdown, Rendered: rendered}
}

// Display returns the content a view should draw for this message
func (m Message) Display() string {
	if m.Role == RoleBot && m.Rendered != "" {
		return m.Rendered
	}
	return m.Text
}
