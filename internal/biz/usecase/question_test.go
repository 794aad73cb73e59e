package usecase

import (
	"testing"

	"github.com/anthropics/recap-bot/internal/biz/domain"
)

func TestRewriteQuestionAnswered(t *testing.T) {
	tests := []struct {
		name     string
		speaker  string
		question string
		entries  []domain.ConversationEntry
		want     string
	}{
		{
			name:     "affirmative reply to did-we question",
			speaker:  "Alice",
			question: "Did we fix the bug?",
			entries: []domain.ConversationEntry{
				{Speaker: "Alice", Content: "Did we fix the bug?"},
				{Speaker: "Bob", Content: "Yes, deployed an hour ago."},
			},
			want: "Bob confirmed that we have fixed the bug.",
		},
		{
			name:     "negative reply to did-we question",
			speaker:  "Alice",
			question: "Did we fix the bug?",
			entries: []domain.ConversationEntry{
				{Speaker: "Alice", Content: "Did we fix the bug?"},
				{Speaker: "Bob", Content: "Not yet, still debugging."},
			},
			want: "Bob reported that we did not fix the bug.",
		},
		{
			name:     "have question affirmed",
			speaker:  "Alice",
			question: "Have they merged the patch?",
			entries: []domain.ConversationEntry{
				{Speaker: "Alice", Content: "Have they merged the patch?"},
				{Speaker: "Carol", Content: "yep, landed this morning"},
			},
			want: "Carol confirmed that they have merged the patch.",
		},
		{
			name:     "addressee restricts the responder",
			speaker:  "Alice",
			question: "Can you deploy tonight, Bob?",
			entries: []domain.ConversationEntry{
				{Speaker: "Alice", Content: "Can you deploy tonight, Bob?"},
				{Speaker: "Carol", Content: "yes I could do it"},
				{Speaker: "Bob", Content: "sure, after dinner"},
			},
			want: "Bob confirmed that you can deploy tonight.",
		},
		{
			name:     "reply outside the lookahead window is ignored",
			speaker:  "Alice",
			question: "Did we ship the release?",
			entries: []domain.ConversationEntry{
				{Speaker: "Alice", Content: "Did we ship the release?"},
				{Speaker: "Bob", Content: "checking the dashboard"},
				{Speaker: "Bob", Content: "the graphs look fine"},
				{Speaker: "Bob", Content: "one moment"},
				{Speaker: "Bob", Content: "still looking"},
				{Speaker: "Bob", Content: "almost there"},
				{Speaker: "Bob", Content: "yes, it shipped"},
			},
			want: "Alice asked whether we ship the release.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rewriteQuestion(tt.speaker, tt.question, tt.entries); got != tt.want {
				t.Errorf("rewriteQuestion = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRewriteQuestionUnanswered(t *testing.T) {
	tests := []struct {
		name     string
		speaker  string
		question string
		want     string
	}{
		{
			name:     "yes-no question",
			speaker:  "Alice",
			question: "Did we fix the bug?",
			want:     "Alice asked whether we fix the bug.",
		},
		{
			name:     "how question gains a topic",
			speaker:  "Alice",
			question: "How is the migration going?",
			want:     "Alice asked about the migration going.",
		},
		{
			name:     "how question with existing article",
			speaker:  "Alice",
			question: "How did the demo go?",
			want:     "Alice asked about the demo go.",
		},
		{
			name:     "wh question passes through",
			speaker:  "Alice",
			question: "When does the launch start?",
			want:     "Alice asked when does the launch start.",
		},
		{
			name:     "addressee without an answer",
			speaker:  "Alice",
			question: "Can you review the patch, Bob?",
			want:     "Alice asked Bob whether you review the patch.",
		},
		{
			name:     "first person yes-no question is neutralized",
			speaker:  "Alice",
			question: "Can I deploy it today?",
			want:     "Alice asked whether Alice deploy it today.",
		},
		{
			name:     "first person wh question is neutralized",
			speaker:  "Alice",
			question: "When should I send my draft?",
			want:     "Alice asked when should Alice send their draft.",
		},
		{
			name:     "bare question mark",
			speaker:  "Alice",
			question: "?",
			want:     "Alice asked a question.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rewriteQuestion(tt.speaker, tt.question, nil); got != tt.want {
				t.Errorf("rewriteQuestion = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPastTense(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"fix the bug", "fixed the bug"},
		{"do the review", "done the review"},
		{"ship it", "shipped it"},
		{"merge the branch", "merged the branch"},
		{"try the workaround", "tried the workaround"},
		{"deploy", "deployed"},
		{"send the invite", "sent the invite"},
	}

	for _, tt := range tests {
		if got := pastTense(tt.in); got != tt.want {
			t.Errorf("pastTense(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFuzzyKeyMatching(t *testing.T) {
	a := fuzzyKey("Did we fix the bug?")
	b := fuzzyKey("did we FIX the bug")
	if a != b {
		t.Errorf("fuzzy keys differ: %q vs %q", a, b)
	}
	if fuzzyKey("?!") != "" {
		t.Errorf("punctuation-only text should produce an empty key")
	}
}
