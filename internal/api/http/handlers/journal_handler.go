package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/serenity-care/wellness-api/internal/api/dto"
	"github.com/serenity-care/wellness-api/internal/service"
)

// JournalHandler exposes the mood journal.
type JournalHandler struct {
	journal *service.JournalService
}

// NewJournalHandler constructs handler.
func NewJournalHandler(journal *service.JournalService) *JournalHandler {
	return &JournalHandler{journal: journal}
}

// Create handles POST /api/mood-entries.
func (h *JournalHandler) Create(c *fiber.Ctx) error {
	claims, err := claimsOf(c)
	if err != nil {
		return err
	}
	var req dto.CreateMoodEntryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	entry, err := h.journal.Add(c.UserContext(), claims, req.Score, req.Note, req.Tags)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewMoodEntryResponse(*entry)})
}

// List handles GET /api/mood-entries.
func (h *JournalHandler) List(c *fiber.Ctx) error {
	claims, err := claimsOf(c)
	if err != nil {
		return err
	}
	entries, err := h.journal.List(c.UserContext(), claims)
	if err != nil {
		return err
	}
	out := make([]dto.MoodEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.NewMoodEntryResponse(e))
	}
	return c.JSON(fiber.Map{"data": out})
}
