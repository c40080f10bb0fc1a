package models

import "strings"

type Campaign struct {
	ID                 string   `json:"id"`
	UserID             string   `json:"userId"`
	Title              string   `json:"title"`
	Topic              string   `json:"topic"`
	TargetAudience     string   `json:"targetAudience"`
	PostsPerDay        int      `json:"postsPerDay"`
	DurationDays       int      `json:"durationDays"`
	State              string   `json:"state"`
	CreatedAt          string   `json:"createdAt"`
	Posts              []Post   `json:"posts"`
	Platforms          []string `json:"platforms"`
	ReferenceImage     string   `json:"referenceImage,omitempty"`
	ReferenceImageType string   `json:"referenceImageType,omitempty"`
}

type Post struct {
	ID            string   `json:"id"`
	Day           int      `json:"day"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Hashtags      []string `json:"hashtags,omitempty"`
	ImagePrompt   string   `json:"imagePrompt,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	Status        string   `json:"status"`
	ScheduledTime string   `json:"scheduledTime,omitempty"`
}

const (
	CampaignStateCreated   = "created"
	CampaignStateActive    = "active"
	CampaignStateCompleted = "completed"
	CampaignStatePaused    = "paused"
)

const (
	PostStatusPending   = "pending"
	PostStatusPublished = "published"
	// PostStatusFailed is reachable only through a real publishing
	// integration; the share dispatch flow never sets it.
	PostStatusFailed = "failed"
)

const (
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
	PlatformTwitter   = "twitter"
	PlatformLinkedin  = "linkedin"
)

const (
	ReferenceImageLogo       = "logo"
	ReferenceImageCharacter  = "character"
	ReferenceImageBusiness   = "business"
	ReferenceImageExpressive = "expressive"
	ReferenceImageOther      = "other"
)

func IsValidPlatform(platform string) bool {
	switch platform {
	case PlatformFacebook, PlatformInstagram, PlatformTwitter, PlatformLinkedin:
		return true
	}
	return false
}

func IsValidReferenceImageType(imageType string) bool {
	switch imageType {
	case ReferenceImageLogo, ReferenceImageCharacter, ReferenceImageBusiness,
		ReferenceImageExpressive, ReferenceImageOther:
		return true
	}
	return false
}

// NormalizeHashtag trims surrounding whitespace and guarantees a single
// leading # so tag comparisons stay case-sensitive exact matches.
func NormalizeHashtag(tag string) string {
	trimmed := strings.TrimSpace(tag)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}
	return "#" + trimmed
}
