package handlers

import (
	"errors"
	"log/slog"

	apperrors "github.com/autoposterhub/autoposter/internal/errors"
	"github.com/autoposterhub/autoposter/internal/queue"
	"github.com/autoposterhub/autoposter/internal/service"
	"github.com/autoposterhub/autoposter/internal/transfer"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
)

type CampaignHandler struct {
	s           service.CampaignService
	AsynqClient *asynq.Client
}

func NewCampaignHandler(service service.CampaignService, asynqClient *asynq.Client) *CampaignHandler {
	return &CampaignHandler{s: service, AsynqClient: asynqClient}
}

func (h *CampaignHandler) CreateCampaign(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var dto transfer.CreateCampaignDTO
	if err := c.BodyParser(&dto); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	campaign, err := h.s.Create(c.Context(), userID, &dto)
	if err != nil {
		var validationErr *apperrors.ValidationError
		if errors.As(err, &validationErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  validationErr.Error(),
				"fields": validationErr.Fields,
			})
		}

		var generationErr *apperrors.GenerationError
		if errors.As(err, &generationErr) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Content generation failed, check the API key",
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(campaign)
}

func (h *CampaignHandler) ListCampaigns(c *fiber.Ctx) error {
	userID := GetUserID(c)

	campaigns := h.s.List(c.Context(), userID)
	return c.Status(fiber.StatusOK).JSON(campaigns)
}

func (h *CampaignHandler) GetCampaign(c *fiber.Ctx) error {
	userID := GetUserID(c)
	campaignID := c.Params("id")

	campaign, found := h.s.Get(c.Context(), userID, campaignID)
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Campaign not found",
		})
	}

	return c.Status(fiber.StatusOK).JSON(campaign)
}

func (h *CampaignHandler) RemoveCampaign(c *fiber.Ctx) error {
	userID := GetUserID(c)
	campaignID := c.Params("id")

	h.s.Delete(c.Context(), userID, campaignID)
	return c.SendStatus(fiber.StatusOK)
}

// BackfillImages enqueues the image backfill task; the backfill queue worker
// runs it with a single request in flight.
func (h *CampaignHandler) BackfillImages(c *fiber.Ctx) error {
	userID := GetUserID(c)
	campaignID := c.Params("id")

	if _, found := h.s.Get(c.Context(), userID, campaignID); !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Campaign not found",
		})
	}

	err := queue.EnqueueBackfill(h.AsynqClient, queue.BackfillImagesPayload{CampaignID: campaignID})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error scheduling image backfill",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Image backfill scheduled",
	})
}
