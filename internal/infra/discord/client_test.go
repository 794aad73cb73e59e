package discord

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

// fakeSession serves canned history pages keyed by the cursor that
// requested them
type fakeSession struct {
	pagesByBefore map[string][]*discordgo.Message
	pagesByAfter  map[string][]*discordgo.Message
	messages      map[string]*discordgo.Message
	err           error

	beforeCursors []string
	afterCursors  []string
	sent          []string
}

func (f *fakeSession) ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	if afterID != "" {
		f.afterCursors = append(f.afterCursors, afterID)
		return f.pagesByAfter[afterID], nil
	}
	f.beforeCursors = append(f.beforeCursors, beforeID)
	return f.pagesByBefore[beforeID], nil
}

func (f *fakeSession) ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	m, ok := f.messages[messageID]
	if !ok {
		return nil, errors.New("unknown message")
	}
	return m, nil
}

func (f *fakeSession) ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, content)
	return &discordgo.Message{Content: content}, nil
}

func (f *fakeSession) Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &discordgo.Channel{ID: channelID, Name: "general"}, nil
}

func fakeMessage(id int, ts time.Time) *discordgo.Message {
	return &discordgo.Message{
		ID:        fmt.Sprintf("%d", id),
		Content:   fmt.Sprintf("message %d", id),
		Timestamp: ts,
		Author:    &discordgo.User{ID: "u1", Username: "alice"},
	}
}

func TestGetMessagesSinceStopsAtCutoff(t *testing.T) {
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	// Newest first, as the API returns them
	session := &fakeSession{pagesByBefore: map[string][]*discordgo.Message{
		"": {
			fakeMessage(5, base.Add(5*time.Minute)),
			fakeMessage(4, base.Add(4*time.Minute)),
			fakeMessage(3, base.Add(3*time.Minute)),
			fakeMessage(2, base.Add(-10*time.Minute)), // past the cutoff
			fakeMessage(1, base.Add(-20*time.Minute)),
		},
	}}
	c := &Client{session: session}

	got, err := c.GetMessagesSince(context.Background(), "chan-1", base)
	if err != nil {
		t.Fatalf("GetMessagesSince failed: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(got))
	}
	// Oldest first after the reversal
	if got[0].ID != "3" || got[1].ID != "4" || got[2].ID != "5" {
		t.Errorf("wrong order: %s %s %s", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestGetMessagesSincePagesBackward(t *testing.T) {
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	// First page is full (pageSize entries), second page finishes the window
	firstPage := make([]*discordgo.Message, 0, pageSize)
	for i := 0; i < pageSize; i++ {
		firstPage = append(firstPage, fakeMessage(1000-i, base.Add(time.Duration(1000-i)*time.Second)))
	}
	secondPage := []*discordgo.Message{
		fakeMessage(900, base.Add(900*time.Second)),
		fakeMessage(899, base.Add(-time.Hour)), // past the cutoff
	}

	session := &fakeSession{pagesByBefore: map[string][]*discordgo.Message{
		"":    firstPage,
		"901": secondPage,
	}}
	c := &Client{session: session}

	got, err := c.GetMessagesSince(context.Background(), "chan-1", base)
	if err != nil {
		t.Fatalf("GetMessagesSince failed: %v", err)
	}

	if len(session.beforeCursors) != 2 {
		t.Fatalf("expected 2 page fetches, got %d", len(session.beforeCursors))
	}
	// The cursor is the oldest message of the previous page
	if session.beforeCursors[1] != "901" {
		t.Errorf("before cursor = %q, want %q", session.beforeCursors[1], "901")
	}
	if len(got) != pageSize+1 {
		t.Errorf("expected %d messages, got %d", pageSize+1, len(got))
	}
	if got[0].ID != "900" {
		t.Errorf("oldest message = %s, want 900", got[0].ID)
	}
}

func TestGetMessagesBetweenIncludesBothMarkers(t *testing.T) {
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	session := &fakeSession{
		messages: map[string]*discordgo.Message{
			"10": fakeMessage(10, base),
		},
		pagesByAfter: map[string][]*discordgo.Message{
			"10": {
				fakeMessage(14, base.Add(4*time.Minute)),
				fakeMessage(13, base.Add(3*time.Minute)),
				fakeMessage(12, base.Add(2*time.Minute)),
				fakeMessage(11, base.Add(1*time.Minute)),
			},
		},
	}
	c := &Client{session: session}

	got, err := c.GetMessagesBetween(context.Background(), "chan-1", "10", "13")
	if err != nil {
		t.Fatalf("GetMessagesBetween failed: %v", err)
	}

	if len(got) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(got))
	}
	// The "after" cursor excludes its own message, so the start marker is
	// fetched separately and must still lead the result.
	if got[0].ID != "10" {
		t.Errorf("range start = %s, want 10", got[0].ID)
	}
	if got[3].ID != "13" {
		t.Errorf("range end = %s, want 13", got[3].ID)
	}
}

func TestGetMessagesBetweenSingleMessage(t *testing.T) {
	session := &fakeSession{
		messages: map[string]*discordgo.Message{
			"10": fakeMessage(10, time.Now()),
		},
	}
	c := &Client{session: session}

	got, err := c.GetMessagesBetween(context.Background(), "chan-1", "10", "10")
	if err != nil {
		t.Fatalf("GetMessagesBetween failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "10" {
		t.Errorf("got %d messages, want just the marker", len(got))
	}
	if len(session.afterCursors) != 0 {
		t.Errorf("unexpected paging for a single-message range: %v", session.afterCursors)
	}
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	session := &fakeSession{err: errors.New("missing access")}
	c := &Client{session: session}

	if _, err := c.GetMessagesSince(context.Background(), "chan-1", time.Now()); err == nil {
		t.Error("GetMessagesSince swallowed the API error")
	}
	if _, err := c.GetMessagesBetween(context.Background(), "chan-1", "1", "2"); err == nil {
		t.Error("GetMessagesBetween swallowed the API error")
	}
	if err := c.CreateMessage(context.Background(), "chan-1", "hi"); err == nil {
		t.Error("CreateMessage swallowed the API error")
	}
}

func TestCreateMessage(t *testing.T) {
	session := &fakeSession{}
	c := &Client{session: session}

	if err := c.CreateMessage(context.Background(), "chan-1", "summary text"); err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}
	if len(session.sent) != 1 || session.sent[0] != "summary text" {
		t.Errorf("sent = %v", session.sent)
	}
}
