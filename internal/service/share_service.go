package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/autoposterhub/autoposter/internal/models"
	"github.com/autoposterhub/autoposter/internal/transfer"
)

// ShareService computes the best-effort manual hand-off for one post. There
// is no real platform API here: the browser client performs the clipboard
// copy, the image download, and opens the composer window.
type ShareService interface {
	ShareContent(ctx context.Context, platform string, post *models.Post) (*transfer.ShareInstructions, bool)
}

type shareService struct {
	assets      *AssetService
	referrerURL string
}

// NewShareService takes an optional asset service (nil means data-URL
// passthrough) and the referrer URL used by sharer endpoints that only accept
// a link.
func NewShareService(assets *AssetService, referrerURL string) ShareService {
	return &shareService{assets: assets, referrerURL: referrerURL}
}

// ShareContent always reports success; no failure path is modeled for the
// manual hand-off, and callers mark the post published unconditionally.
func (s *shareService) ShareContent(ctx context.Context, platform string, post *models.Post) (*transfer.ShareInstructions, bool) {
	fullText := ShareText(post)
	instructions := &transfer.ShareInstructions{Platform: strings.ToLower(platform)}

	switch instructions.Platform {
	case models.PlatformTwitter, "x":
		instructions.ImageURL = s.imageURL(ctx, post)
		instructions.IntentURL = "https://twitter.com/intent/tweet?text=" + url.QueryEscape(fullText)

	case models.PlatformLinkedin:
		// LinkedIn no longer accepts prefilled text, only a feed window.
		instructions.ClipboardText = fullText
		instructions.ImageURL = s.imageURL(ctx, post)
		instructions.IntentURL = "https://www.linkedin.com/feed/"
		instructions.Notice = "Text copied. Paste it and upload the image in the LinkedIn window."

	case models.PlatformFacebook:
		instructions.ImageURL = s.imageURL(ctx, post)
		instructions.ClipboardText = fullText
		instructions.IntentURL = "https://www.facebook.com/sharer/sharer.php?u=" + url.QueryEscape(s.referrerURL)
		instructions.Notice = "Text copied. Facebook does not allow prefilled posts, paste the text and upload the image manually."

	case models.PlatformInstagram:
		instructions.ImageURL = s.imageURL(ctx, post)
		instructions.ClipboardText = fullText
		instructions.Notice = "Text copied and image ready. Publish via the mobile app or an Instagram management tool."

	default:
		instructions.ClipboardText = fullText
		instructions.Notice = "Text copied to clipboard."
	}

	return instructions, true
}

// ShareText joins the post body and its hashtags the way the composer
// windows expect them.
func ShareText(post *models.Post) string {
	if len(post.Hashtags) == 0 {
		return post.Content
	}
	return post.Content + "\n\n" + strings.Join(post.Hashtags, " ")
}

func (s *shareService) imageURL(ctx context.Context, post *models.Post) string {
	if post.ImageURL == "" {
		return ""
	}
	if s.assets == nil {
		return post.ImageURL
	}

	uploaded, err := s.assets.UploadImage(ctx, fmt.Sprintf("autoposter-%s", post.ID), post.ImageURL)
	if err != nil {
		slog.Info("image upload failed, falling back to embedded payload", "post_id", post.ID, "error", err)
		return post.ImageURL
	}
	return uploaded
}
