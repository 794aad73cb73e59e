package domain

import (
	"sort"
	"time"
)

// Message represents a single platform message entering the summary pipeline
type Message struct {
	ID          string
	Timestamp   time.Time
	Author      Author
	Text        string
	ReplyToID   string
	Attachments []string // Attachment filenames/kinds, rendered as bracketed notes
	Reactions   int      // Total reaction count across all emoji
}

// IsAfter checks if the message is after the specified time
func (m *Message) IsAfter(t time.Time) bool {
	return m.Timestamp.After(t)
}

// IsBefore checks if the message is before the specified time
func (m *Message) IsBefore(t time.Time) bool {
	return m.Timestamp.Before(t)
}

// SortMessages orders messages ascending by timestamp.
// The sort is stable so same-timestamp messages keep their input order.
func SortMessages(msgs []Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
}

// StoredMessage represents a message held in the short-term conversation buffer
type StoredMessage struct {
	MsgID         string
	Text          string
	Timestamp     time.Time
	AuthorID      string
	AuthorDisplay string
	ReplyToID     string
	ReactionCount int
}

// ToMessage converts a buffered message to a pipeline message
func (s *StoredMessage) ToMessage() Message {
	return Message{
		ID:        s.MsgID,
		Timestamp: s.Timestamp,
		Author:    Author{ID: s.AuthorID, DisplayName: s.AuthorDisplay},
		Text:      s.Text,
		ReplyToID: s.ReplyToID,
		Reactions: s.ReactionCount,
	}
}
