package server

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in       string
		wantCmd  string
		wantArgs string
		wantOK   bool
	}{
		{"/recap", "recap", "", true},
		{"/recap 90", "recap", "90", true},
		{"/recap@RecapBot 90", "recap", "90", true},
		{"/RECAP 90", "recap", "90", true},
		{"  /recap 90  ", "recap", "90", true},
		{"/start", "start", "", true},
		{"recap 90", "", "", false},
		{"hello there", "", "", false},
		{"/", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		cmd, args, ok := parseCommand(tt.in)
		if cmd != tt.wantCmd || args != tt.wantArgs || ok != tt.wantOK {
			t.Errorf("parseCommand(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.in, cmd, args, ok, tt.wantCmd, tt.wantArgs, tt.wantOK)
		}
	}
}

func TestUpdateDeduplication(t *testing.T) {
	s := NewTelegramServer(nil, nil, nil, false, 60)

	if s.isSeen(100) {
		t.Error("fresh update reported as seen")
	}
	s.markSeen(100)
	if !s.isSeen(100) {
		t.Error("marked update not reported as seen")
	}
	if s.isSeen(101) {
		t.Error("unrelated update reported as seen")
	}
}
