package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	config "github.com/autoposterhub/autoposter/configs"
	apperrors "github.com/autoposterhub/autoposter/internal/errors"
	"github.com/autoposterhub/autoposter/internal/models"
	"github.com/autoposterhub/autoposter/internal/transfer"
	"github.com/autoposterhub/autoposter/pkg/utils"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"google.golang.org/genai"
)

type GeminiService interface {
	GenerateCampaignContent(ctx context.Context, dto *transfer.CreateCampaignDTO) ([]models.Post, error)
	GeneratePostImage(ctx context.Context, prompt, referenceImage string) (string, error)
}

type geminiService struct {
	client     *genai.Client
	model      string
	imageModel string
}

func NewGeminiService(ctx context.Context, cfg config.Config) (GeminiService, error) {
	if cfg.GeminiAPIKey == "" {
		err := errors.New("API key is required, set GEMINI_API_KEY or API_KEY")
		slog.Error(err.Error())
		return nil, apperrors.NewGenerationError(err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		slog.Error(err.Error())
		return nil, apperrors.NewGenerationError(err)
	}

	return &geminiService{
		client:     client,
		model:      cfg.GeminiModel,
		imageModel: cfg.ImageModel,
	}, nil
}

// GenerateCampaignContent asks the backend for the full multi-day plan in one
// structured call. An empty or unparseable plan yields an empty post list, a
// usable-but-empty campaign; only transport and auth failures are errors.
func (s *geminiService) GenerateCampaignContent(ctx context.Context, dto *transfer.CreateCampaignDTO) ([]models.Post, error) {
	parts := []*genai.Part{genai.NewPartFromText(BuildCampaignPrompt(dto))}

	if dto.ReferenceImage != "" {
		mimeType, data, err := utils.DecodeDataURL(dto.ReferenceImage)
		if err != nil {
			return nil, apperrors.NewGenerationError(err)
		}
		parts = append(parts, genai.NewPartFromBytes(data, mimeType))
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   planResponseSchema(),
	})
	if err != nil {
		slog.Error(err.Error())
		return nil, apperrors.NewGenerationError(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		slog.Info("generation returned no content")
		return []models.Post{}, nil
	}

	var entries []transfer.PlanEntry
	if err := json.Unmarshal([]byte(text), &entries); err != nil {
		slog.Info("generation returned unparseable plan", "error", err)
		return []models.Post{}, nil
	}

	return BuildPosts(entries, time.Now()), nil
}

// GeneratePostImage returns the first inline image of the response as a data
// URL, or "" when the model produced no image. Transport errors propagate.
func (s *geminiService) GeneratePostImage(ctx context.Context, prompt, referenceImage string) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(prompt)}

	if referenceImage != "" {
		mimeType, data, err := utils.DecodeDataURL(referenceImage)
		if err != nil {
			return "", apperrors.NewGenerationError(err)
		}
		parts = append(parts, genai.NewPartFromBytes(data, mimeType))
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := s.client.Models.GenerateContent(ctx, s.imageModel, contents, nil)
	if err != nil {
		slog.Error(err.Error())
		return "", apperrors.NewGenerationError(err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mimeType := part.InlineData.MIMEType
				if mimeType == "" {
					mimeType = "image/png"
				}
				return utils.EncodeDataURL(mimeType, part.InlineData.Data), nil
			}
		}
	}

	return "", nil
}

// ReferenceImageInstruction maps the declared reference-image type to the
// instruction embedded in the plan prompt.
func ReferenceImageInstruction(imageType string) string {
	switch imageType {
	case models.ReferenceImageLogo:
		return "The attached image is the BRAND LOGO. Generated image prompts must explicitly mention incorporating the brand colors and style shown in the logo."
	case models.ReferenceImageCharacter:
		return "The attached image is the MAIN CHARACTER/MASCOT. Generated image prompts MUST describe this character in detail so it appears in every post image."
	case models.ReferenceImageBusiness:
		return "The attached image is the BUSINESS ENVIRONMENT. Use it as the aesthetic setting for the content."
	case models.ReferenceImageExpressive:
		return "The attached image is the ARTISTIC VIBE. Use its mood, lighting, and style as the main inspiration for all generated image prompts."
	default:
		return "Use the attached image as a general visual reference for the style."
	}
}

func BuildCampaignPrompt(dto *transfer.CreateCampaignDTO) string {
	totalPosts := dto.DurationDays * dto.PostsPerDay

	var imageContext string
	if dto.ReferenceImage != "" {
		imageContext = ReferenceImageInstruction(dto.ReferenceImageType)
	}

	var b strings.Builder
	b.WriteString("You are an expert social media manager and growth hacker acting as the content engine.\n\n")
	b.WriteString("CAMPAIGN DETAILS:\n")
	fmt.Fprintf(&b, "- Campaign Title: %q\n", dto.Title)
	fmt.Fprintf(&b, "- Core Topic: %q\n", dto.Topic)
	fmt.Fprintf(&b, "- Target Audience: %q\n", dto.TargetAudience)
	fmt.Fprintf(&b, "- Target Platforms: %s\n", strings.Join(dto.Platforms, ", "))
	if imageContext != "" {
		b.WriteString("\nVISUAL CONTEXT:\n")
		b.WriteString(imageContext)
		b.WriteString("\n")
	}
	b.WriteString("\nTASK:\n")
	fmt.Fprintf(&b, "Generate a content plan of exactly %d posts spread over %d days (%d per day), optimized for virality and trend algorithms.\n\n", totalPosts, dto.DurationDays, dto.PostsPerDay)
	b.WriteString("GUIDELINES:\n")
	b.WriteString("1. Start each post with a hook that grabs attention in the first seconds, use short punchy sentences, and end with a call to action or question to drive comments.\n")
	b.WriteString("2. Include 5-10 high-traffic, relevant trending hashtags for each post.\n")
	b.WriteString("3. Provide a creative, high-quality AI image generation prompt in English for each post.\n")
	if dto.ReferenceImage != "" {
		b.WriteString("4. CRITICAL: every image prompt MUST be influenced by the attached reference image as per the instructions above.\n")
	}

	return b.String()
}

// BuildPosts turns raw plan entries into posts: fresh ids, pending status,
// and a scheduled time of now + day*24h.
func BuildPosts(entries []transfer.PlanEntry, now time.Time) []models.Post {
	posts := make([]models.Post, 0, len(entries))
	for _, entry := range entries {
		id, err := gonanoid.New()
		if err != nil {
			slog.Error(err.Error())
			continue
		}

		hashtags := entry.Hashtags
		if hashtags == nil {
			hashtags = []string{}
		}

		posts = append(posts, models.Post{
			ID:            "post-" + id,
			Day:           entry.Day,
			Title:         entry.Title,
			Content:       entry.Content,
			Hashtags:      hashtags,
			ImagePrompt:   entry.ImagePrompt,
			Status:        models.PostStatusPending,
			ScheduledTime: now.Add(time.Duration(entry.Day) * 24 * time.Hour).Format(time.RFC3339),
		})
	}
	return posts
}

func planResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"day":         {Type: genai.TypeInteger, Description: "Day number (1 to N)"},
				"title":       {Type: genai.TypeString, Description: "Catchy headline or hook"},
				"content":     {Type: genai.TypeString, Description: "Main post content optimized for engagement"},
				"hashtags":    {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "List of 5-10 trending hashtags"},
				"imagePrompt": {Type: genai.TypeString, Description: "Detailed AI image generation prompt in English"},
			},
			Required: []string{"day", "title", "content", "hashtags", "imagePrompt"},
		},
	}
}
