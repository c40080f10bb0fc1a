package service

import (
	"strings"
	"testing"
	"time"

	"github.com/autoposterhub/autoposter/internal/models"
	"github.com/autoposterhub/autoposter/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCampaignPrompt(t *testing.T) {
	dto := &transfer.CreateCampaignDTO{
		Title:          "Launch week",
		Topic:          "developer tools",
		TargetAudience: "backend engineers",
		PostsPerDay:    2,
		DurationDays:   3,
		Platforms:      []string{models.PlatformTwitter, models.PlatformLinkedin},
	}

	prompt := BuildCampaignPrompt(dto)

	assert.Contains(t, prompt, `"Launch week"`)
	assert.Contains(t, prompt, `"developer tools"`)
	assert.Contains(t, prompt, `"backend engineers"`)
	assert.Contains(t, prompt, "twitter, linkedin")
	assert.Contains(t, prompt, "exactly 6 posts spread over 3 days (2 per day)")
	assert.NotContains(t, prompt, "VISUAL CONTEXT")
}

func TestBuildCampaignPromptWithReferenceImage(t *testing.T) {
	dto := &transfer.CreateCampaignDTO{
		Title:              "t",
		Topic:              "x",
		PostsPerDay:        1,
		DurationDays:       1,
		Platforms:          []string{models.PlatformInstagram},
		ReferenceImage:     "data:image/png;base64,cmVm",
		ReferenceImageType: models.ReferenceImageCharacter,
	}

	prompt := BuildCampaignPrompt(dto)

	assert.Contains(t, prompt, "VISUAL CONTEXT")
	assert.Contains(t, prompt, "MAIN CHARACTER/MASCOT")
	assert.Contains(t, prompt, "CRITICAL")
}

func TestReferenceImageInstruction(t *testing.T) {
	tests := []struct {
		imageType string
		want      string
	}{
		{models.ReferenceImageLogo, "BRAND LOGO"},
		{models.ReferenceImageCharacter, "MAIN CHARACTER/MASCOT"},
		{models.ReferenceImageBusiness, "BUSINESS ENVIRONMENT"},
		{models.ReferenceImageExpressive, "ARTISTIC VIBE"},
		{models.ReferenceImageOther, "general visual reference"},
		{"", "general visual reference"},
	}

	for _, tt := range tests {
		assert.Contains(t, ReferenceImageInstruction(tt.imageType), tt.want)
	}
}

func TestBuildPosts(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entries := []transfer.PlanEntry{
		{Day: 1, Title: "a", Content: "ca", Hashtags: []string{"#x"}, ImagePrompt: "pa"},
		{Day: 3, Title: "b", Content: "cb"},
	}

	posts := BuildPosts(entries, now)
	require.Len(t, posts, 2)

	assert.True(t, strings.HasPrefix(posts[0].ID, "post-"))
	assert.True(t, strings.HasPrefix(posts[1].ID, "post-"))
	assert.NotEqual(t, posts[0].ID, posts[1].ID)

	assert.Equal(t, models.PostStatusPending, posts[0].Status)
	assert.Equal(t, models.PostStatusPending, posts[1].Status)

	assert.Equal(t, "2025-06-02T12:00:00Z", posts[0].ScheduledTime)
	assert.Equal(t, "2025-06-04T12:00:00Z", posts[1].ScheduledTime)

	// Absent hashtags serialize as an empty list, never null.
	assert.NotNil(t, posts[1].Hashtags)
	assert.Empty(t, posts[1].Hashtags)
}

func TestBuildPostsEmptyPlan(t *testing.T) {
	posts := BuildPosts(nil, time.Now())
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}
