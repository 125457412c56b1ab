package playback

type PlayChapterPayload struct {
	// StartVerse is the 1-based verse number to start from.
	StartVerse int `json:"start_verse" validate:"omitempty,min=1"`
	ReciterID  int `json:"reciter_id" validate:"omitempty,min=1"`
}

type PlayWordPayload struct {
	AudioURL string `json:"audio_url" validate:"required,url"`
}
