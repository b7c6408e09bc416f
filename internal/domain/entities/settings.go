package entities

// UserSettings stores per-identity preferences.
type UserSettings struct {
	Onboarded     bool     `json:"isOnboarded"`
	SelectedTrack *TrackID `json:"selectedTrack"`
	CustomTopic   *string  `json:"customTopic"`
	DarkMode      bool     `json:"isDarkMode"`
}

// NewUserSettings returns the settings of a user who has not onboarded yet.
func NewUserSettings() UserSettings {
	return UserSettings{}
}

// Track returns the currently selected track, if any.
func (s UserSettings) Track() (Track, bool) {
	if s.SelectedTrack == nil {
		return Track{}, false
	}
	topic := ""
	if s.CustomTopic != nil {
		topic = *s.CustomTopic
	}
	return NewTrack(*s.SelectedTrack, topic), true
}

// WithOnboarding marks the user onboarded on the given track.
func (s UserSettings) WithOnboarding(t Track) UserSettings {
	s.Onboarded = true
	s.SelectedTrack = ptr(t.ID)
	s.CustomTopic = nil
	if t.Topic != "" {
		s.CustomTopic = ptr(t.Topic)
	}
	return s
}

// WithTrack switches the selected track. A custom switch without a topic keeps
// the previously selected custom topic; non-custom tracks clear it.
func (s UserSettings) WithTrack(t Track) UserSettings {
	s.SelectedTrack = ptr(t.ID)
	switch {
	case t.Topic != "":
		s.CustomTopic = ptr(t.Topic)
	case !t.IsCustom():
		s.CustomTopic = nil
	}
	return s
}

// WithToggledTheme flips dark mode.
func (s UserSettings) WithToggledTheme() UserSettings {
	s.DarkMode = !s.DarkMode
	return s
}

func ptr[T any](v T) *T {
	return &v
}
