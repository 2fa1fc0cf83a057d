// Package chat holds the in-memory conversation state shared by the TUI and
// the one-shot query command.
package chat

import "strings"

// Role identifies who produced a message.
type Role string

const (
	// RoleUser marks messages typed by the user.
	RoleUser Role = "user"
	// RoleSystem marks messages produced by the backend.
	RoleSystem Role = "system"
)

// FailureText is the single user-facing string shown when a request fails
// before any reply text arrives.
const FailureText = "Something went wrong. Please try later."

// TruncatedNotice is appended to a reply whose stream died mid-way.
const TruncatedNotice = "\n\n*[response truncated: connection lost]*"

// Message is one entry in a conversation.
type Message struct {
	Role Role
	Text string
}

// Conversation is an ordered sequence of messages. Messages are append-only
// except for the reply of the current exchange, which is replaced in place as
// streamed text accumulates. A Conversation is not safe for concurrent use;
// the TUI only ever touches it from the update loop.
type Conversation struct {
	messages []Message

	// streaming is true between BeginReply/AppendChunk and EndReply. While
	// set, the last message is the in-progress system reply.
	streaming bool
	reply     strings.Builder
}

// Messages returns the current message sequence. The returned slice is shared;
// callers must not mutate it.
func (c *Conversation) Messages() []Message {
	return c.messages
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Last returns the most recent message, or a zero Message when empty.
func (c *Conversation) Last() Message {
	if len(c.messages) == 0 {
		return Message{}
	}
	return c.messages[len(c.messages)-1]
}

// Streaming reports whether a reply is currently being accumulated.
func (c *Conversation) Streaming() bool {
	return c.streaming
}

// AddUser appends a user message with the given text as-is.
func (c *Conversation) AddUser(text string) {
	c.messages = append(c.messages, Message{Role: RoleUser, Text: text})
}

// AppendChunk accumulates one chunk of streamed reply text. The first chunk
// of an exchange appends a new system message; later chunks replace it in
// place with the full accumulated text.
func (c *Conversation) AppendChunk(chunk string) {
	c.reply.WriteString(chunk)
	if c.streaming {
		c.messages[len(c.messages)-1].Text = c.reply.String()
		return
	}
	c.streaming = true
	c.messages = append(c.messages, Message{Role: RoleSystem, Text: c.reply.String()})
}

// EndReply finalizes the current exchange. The in-progress reply, if any,
// becomes immutable.
func (c *Conversation) EndReply() {
	c.streaming = false
	c.reply.Reset()
}

// Fail records a failed exchange: exactly one system message carrying the
// fixed failure text. Any partial reply is discarded first so the failure
// message never trails streamed text from the same exchange.
func (c *Conversation) Fail() {
	if c.streaming {
		c.messages = c.messages[:len(c.messages)-1]
	}
	c.EndReply()
	c.messages = append(c.messages, Message{Role: RoleSystem, Text: FailureText})
}

// Truncate marks the in-progress reply as cut short and finalizes it. When no
// reply text arrived at all it degrades to Fail.
func (c *Conversation) Truncate() {
	if !c.streaming {
		c.Fail()
		return
	}
	c.messages[len(c.messages)-1].Text = c.reply.String() + TruncatedNotice
	c.EndReply()
}

// LastReply returns the text of the most recent system message, or "" when
// none exists. Used for clipboard copy.
func (c *Conversation) LastReply() string {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == RoleSystem {
			return c.messages[i].Text
		}
	}
	return ""
}
