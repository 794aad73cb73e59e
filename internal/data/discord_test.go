package data

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

func TestConvertDiscordMessages(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	msgs := []*discordgo.Message{
		{
			ID:        "101",
			Content:   "here is the report",
			Timestamp: ts,
			Author:    &discordgo.User{ID: "u1", Username: "alice", GlobalName: "Alice A"},
			Attachments: []*discordgo.MessageAttachment{
				{Filename: "report.pdf"},
			},
			Reactions: []*discordgo.MessageReactions{
				{Count: 2}, {Count: 1},
			},
			MessageReference: &discordgo.MessageReference{MessageID: "100"},
		},
		{
			ID:        "102",
			Content:   "thanks",
			Timestamp: ts.Add(time.Minute),
			Author:    &discordgo.User{ID: "u2", Username: "bob"},
		},
	}

	got := convertDiscordMessages(msgs)
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}

	first := got[0]
	if first.ID != "101" || first.Text != "here is the report" {
		t.Errorf("first message = %+v", first)
	}
	if first.Author.DisplayName != "Alice A" || first.Author.Username != "alice" {
		t.Errorf("author = %+v", first.Author)
	}
	if first.Reactions != 3 {
		t.Errorf("reactions = %d, want 3", first.Reactions)
	}
	if first.ReplyToID != "100" {
		t.Errorf("reply-to = %q", first.ReplyToID)
	}
	if len(first.Attachments) != 1 || first.Attachments[0] != "report.pdf" {
		t.Errorf("attachments = %v", first.Attachments)
	}
	if !first.Timestamp.Equal(ts) {
		t.Errorf("timestamp = %v, want %v", first.Timestamp, ts)
	}

	second := got[1]
	if second.Author.DisplayName != "" || second.Author.Username != "bob" {
		t.Errorf("author without global name = %+v", second.Author)
	}
	if second.ReplyToID != "" || second.Reactions != 0 {
		t.Errorf("second message = %+v", second)
	}
}

func TestDiscordAuthorPrefersServerNickname(t *testing.T) {
	m := &discordgo.Message{
		Author: &discordgo.User{ID: "u1", Username: "alice", GlobalName: "Alice A"},
		Member: &discordgo.Member{Nick: "Ally"},
	}

	author := discordAuthor(m)
	if author.DisplayName != "Ally" {
		t.Errorf("display name = %q, want server nickname", author.DisplayName)
	}
	if author.Username != "alice" {
		t.Errorf("username = %q", author.Username)
	}

	m.Member = nil
	if got := discordAuthor(m).DisplayName; got != "Alice A" {
		t.Errorf("display without nick = %q, want global name", got)
	}
}

func TestTelegramRepoRejectsRanges(t *testing.T) {
	r := NewTelegramMessageRepo(nil, NewConversationStore())

	_, err := r.FetchRange(context.Background(), "42", "1", "2")
	if err != ErrRangeUnsupported {
		t.Errorf("err = %v, want ErrRangeUnsupported", err)
	}
}
