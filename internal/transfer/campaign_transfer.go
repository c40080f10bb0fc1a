package transfer

type CreateCampaignDTO struct {
	Title              string   `json:"title"`
	Topic              string   `json:"topic"`
	TargetAudience     string   `json:"targetAudience"`
	PostsPerDay        int      `json:"postsPerDay"`
	DurationDays       int      `json:"durationDays"`
	Platforms          []string `json:"platforms"`
	ReferenceImage     string   `json:"referenceImage,omitempty"`
	ReferenceImageType string   `json:"referenceImageType,omitempty"`
}

// PlanEntry is one structured post draft as returned by the generation
// backend, before ids and scheduling are assigned.
type PlanEntry struct {
	Day         int      `json:"day"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Hashtags    []string `json:"hashtags"`
	ImagePrompt string   `json:"imagePrompt"`
}

type HashtagRequest struct {
	Tag string `json:"tag"`
}

type ShareRequest struct {
	Platform string `json:"platform"`
}

// ShareInstructions tells the browser client which best-effort hand-off
// steps to perform for one post. Fields are empty when the step does not
// apply to the platform.
type ShareInstructions struct {
	Platform      string `json:"platform"`
	ClipboardText string `json:"clipboardText,omitempty"`
	ImageURL      string `json:"imageUrl,omitempty"`
	IntentURL     string `json:"intentUrl,omitempty"`
	Notice        string `json:"notice,omitempty"`
}
