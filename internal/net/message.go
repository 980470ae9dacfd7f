package net

import (
	"fmt"
	"strings"

	"StudioIntake/internal/intake"
)

// URLScheme prefixes share links that point a kiosk at a desk.
const URLScheme = "studiointake://"

// MessageType names a kiosk/desk message.
type MessageType string

const (
	MsgSubmit MessageType = "submit"
	MsgAck    MessageType = "ack"
	MsgError  MessageType = "error"
)

// Message is the JSON envelope exchanged over the websocket. Replies carry
// the ID of the request they answer.
type Message struct {
	Type       MessageType        `json:"type"`
	ID         string             `json:"id"`
	Submission *intake.Submission `json:"submission,omitempty"`
	RecordID   string             `json:"record_id,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// ShareLink builds the link a kiosk is launched with.
func ShareLink(host string, port int) string {
	return fmt.Sprintf("%s%s:%d", URLScheme, host, port)
}

// ParseShareLink extracts host:port from a share link.
func ParseShareLink(link string) (string, bool) {
	if !strings.HasPrefix(link, URLScheme) {
		return "", false
	}
	addr := strings.TrimSuffix(strings.TrimPrefix(link, URLScheme), "/")
	if addr == "" {
		return "", false
	}
	return addr, true
}
