package usecase

import "testing"

func TestScoreBullet(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{
			name: "action item with deadline",
			// +4 action, +3 status, +1 letters
			text: "Alice needs to follow up on the release before the deadline",
			want: 8,
		},
		{
			name: "resolution with inflected vocabulary",
			// +3 status (fix), +3 resolution (confirmed), +1 letters
			text: "Bob confirmed that we have fixed the login problem",
			want: 7,
		},
		{
			name: "clock time counts as a specific",
			// +1 number/time, +1 letters
			text: "the standup moved to 14:30 tomorrow morning",
			want: 2,
		},
		{
			name: "laughter fragment",
			// -3 short, -4 laughter, -2 few words, +1 letters
			text: "Bob hahaha.",
			want: -8,
		},
		{
			name: "lone token",
			// -3 short, -4 lone token, -2 few words, +1 letters
			text: "thanks",
			want: -8,
		},
		{
			name: "emoji only",
			// -3 short, -5 all emoji, -2 few words
			text: "😂😂",
			want: -10,
		},
		{
			name: "overlong line",
			text: "the meeting covered the quarterly planning cycle in exhaustive detail including the hiring roadmap and the office move and the travel policy and more besides",
			// +3 status (plan), +1 letters, -1 overlong
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoreBullet(tt.text); got != tt.want {
				t.Errorf("scoreBullet(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestScoreBulletSubstanceBeatsNoise(t *testing.T) {
	substantive := "Alice confirmed the deploy task is done and the fix ships at 17:00"
	noise := "lol nice"
	if scoreBullet(substantive) <= scoreBullet(noise) {
		t.Errorf("substantive line scored %d, noise scored %d", scoreBullet(substantive), scoreBullet(noise))
	}
}

func TestFilterBulletsKeepsNonNegative(t *testing.T) {
	texts := []string{
		"Alice confirmed the release plan for Friday morning",
		"lol",
		"Bob will follow up on the deadline question tomorrow",
	}
	kept := filterBullets(texts)
	if len(kept) != 2 {
		t.Fatalf("expected 2 kept bullets, got %d: %v", len(kept), kept)
	}
	if kept[0].Text != texts[0] || kept[1].Text != texts[2] {
		t.Errorf("kept wrong bullets or wrong order: %v", kept)
	}
}

func TestFilterBulletsBestOfWhenAllNegative(t *testing.T) {
	texts := []string{"lol", "thanks", "😂😂"}
	kept := filterBullets(texts)
	if len(kept) != 1 {
		t.Fatalf("expected exactly 1 surviving bullet, got %d", len(kept))
	}
	// "thanks" avoids the laughter penalty, so it outscores the others
	if kept[0].Text != "thanks" {
		t.Errorf("survivor = %q, want %q", kept[0].Text, "thanks")
	}
}

func TestFilterBulletsEmpty(t *testing.T) {
	if got := filterBullets(nil); got != nil {
		t.Errorf("filterBullets(nil) = %v, want nil", got)
	}
}

func TestIsAllEmoji(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"😂😂", true},
		{"👍 🎉", true},
		{"done 👍", false},
		{"", false},
		{"   ", false},
		{"ok", false},
	}

	for _, tt := range tests {
		if got := isAllEmoji(tt.in); got != tt.want {
			t.Errorf("isAllEmoji(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
