package handlers

import (
	"log/slog"

	"github.com/autoposterhub/autoposter/internal/models"
	"github.com/autoposterhub/autoposter/internal/service"
	"github.com/autoposterhub/autoposter/internal/transfer"
	"github.com/gofiber/fiber/v2"
)

type PostHandler struct {
	s     service.CampaignService
	share service.ShareService
}

func NewPostHandler(service service.CampaignService, share service.ShareService) *PostHandler {
	return &PostHandler{s: service, share: share}
}

func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	campaignID := c.Params("id")
	postID := c.Params("postId")

	var post models.Post
	if err := c.BodyParser(&post); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}
	post.ID = postID

	h.s.UpdatePost(c.Context(), userID, campaignID, post)
	return c.SendStatus(fiber.StatusOK)
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	campaignID := c.Params("id")
	postID := c.Params("postId")

	h.s.DeletePost(c.Context(), userID, campaignID, postID)
	return c.SendStatus(fiber.StatusOK)
}

func (h *PostHandler) AddHashtag(c *fiber.Ctx) error {
	userID := GetUserID(c)
	campaignID := c.Params("id")
	postID := c.Params("postId")

	var req transfer.HashtagRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	h.s.AddHashtag(c.Context(), userID, campaignID, postID, req.Tag)
	return c.SendStatus(fiber.StatusOK)
}

func (h *PostHandler) RemoveHashtag(c *fiber.Ctx) error {
	userID := GetUserID(c)
	campaignID := c.Params("id")
	postID := c.Params("postId")

	var req transfer.HashtagRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	h.s.RemoveHashtag(c.Context(), userID, campaignID, postID, req.Tag)
	return c.SendStatus(fiber.StatusOK)
}

// Share computes the platform hand-off instructions for one post and applies
// the dispatch result to its status.
func (h *PostHandler) Share(c *fiber.Ctx) error {
	userID := GetUserID(c)
	campaignID := c.Params("id")
	postID := c.Params("postId")

	var req transfer.ShareRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	campaign, found := h.s.Get(c.Context(), userID, campaignID)
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Campaign not found",
		})
	}

	var post *models.Post
	for i := range campaign.Posts {
		if campaign.Posts[i].ID == postID {
			post = &campaign.Posts[i]
			break
		}
	}
	if post == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Post not found",
		})
	}

	instructions, ok := h.share.ShareContent(c.Context(), req.Platform, post)
	h.s.ApplyShareResult(c.Context(), userID, campaignID, postID, ok)

	return c.Status(fiber.StatusOK).JSON(instructions)
}
