package domain

// UnknownSpeaker is the fallback speaker label when a message carries no
// usable author name.
const UnknownSpeaker = "Unknown user"

// Author represents a message author (value object)
type Author struct {
	ID          string
	DisplayName string // Server nickname / chat display name
	Username    string // Global username
}

// SpeakerName resolves the name used for transcript attribution.
// Preference order: display name, then username, then a fallback literal.
func (a Author) SpeakerName() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	if a.Username != "" {
		return a.Username
	}
	return UnknownSpeaker
}
