package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/wallboard/internal/media"
	"github.com/yourorg/wallboard/internal/utils"
)

// LastMedia handles GET /last-media. Each viewer (keyed by client IP)
// receives the current item at most once: a hit is immediately marked
// viewed. The read and the mark are two separate store calls; the
// store re-validates the filename on the mark, so a replace landing in
// between converges to a harmless no-op.
func (h *Handler) LastMedia(c *fiber.Ctx) error {
	viewer := c.IP()

	item := h.store.GetCurrentForViewer(viewer)
	if item == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	h.store.MarkViewed(item.Filename, viewer)
	h.log.Infow("media served", "file", item.Filename, "viewer", viewer)

	resp := fiber.Map{
		"filename":         item.Filename,
		"kind":             item.Kind,
		"url":              "/uploads/" + url.PathEscape(item.Filename),
		"duration_seconds": item.DurationSeconds,
	}
	if item.Caption != "" {
		resp["caption"] = item.Caption
	}
	if item.Kind == media.KindImage && item.Thumbnail != "" {
		resp["thumbnail_url"] = "/uploads/" + url.PathEscape(item.Thumbnail)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, resp)
}

// LastSound handles GET /last-sound. Unlike media, sounds are not
// consumed per viewer: the endpoint lets a display that connected
// after the broadcast still pick up the current sound.
func (h *Handler) LastSound(c *fiber.Ctx) error {
	item := h.store.CurrentSound()
	if item == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{
		"filename": item.Filename,
		"url":      "/sounds/" + url.PathEscape(item.Filename),
	})
}
