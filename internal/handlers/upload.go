package handlers

import (
	"bytes"
	"image"
	"io"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yourorg/wallboard/internal/config"
	"github.com/yourorg/wallboard/internal/hub"
	"github.com/yourorg/wallboard/internal/media"
	"github.com/yourorg/wallboard/internal/store"
	"github.com/yourorg/wallboard/internal/utils"
)

const (
	defaultDurationSeconds = 5
	minDurationSeconds     = 1
	maxDurationSeconds     = 60
	thumbWidth             = 320
)

type Handler struct {
	store *store.Store
	hub   *hub.Hub
	cfg   *config.Config
	log   *zap.SugaredLogger
}

func New(st *store.Store, h *hub.Hub, cfg *config.Config, log *zap.SugaredLogger) *Handler {
	return &Handler{store: st, hub: h, cfg: cfg, log: log}
}

// Upload handles POST /upload (multipart fields: image, duration,
// caption). On success the media slot is replaced and every connected
// viewer is notified; video uploads additionally get a dedicated
// "video" event so displays can start playback instead of refreshing.
func (h *Handler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "media file missing")
	}
	if fh.Size > h.cfg.MaxUploadBytes {
		return utils.JSONError(c, fiber.StatusRequestEntityTooLarge, "media file too large")
	}

	filename, ok := utils.SanitizeFilename(fh.Filename)
	if !ok {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid filename")
	}
	if !media.AllowedMedia(filename) {
		return utils.JSONError(c, fiber.StatusBadRequest, "only images and videos are allowed")
	}

	data, err := readMultipartFile(fh)
	if err != nil {
		h.log.Errorw("failed to read upload", "file", filename, "error", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "cannot read uploaded file")
	}
	if !media.ValidMediaContent(filename, data) {
		return utils.JSONError(c, fiber.StatusBadRequest, "file content does not match extension")
	}

	if err := writeFile(h.cfg.Media.UploadsDir, filename, data); err != nil {
		h.log.Errorw("failed to save upload", "file", filename, "error", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "cannot save uploaded file")
	}

	kind := media.DetectKind(filename)
	duration := parseDuration(c.FormValue("duration"))
	if kind == media.KindVideo {
		// videos play to completion, no refresh timer
		duration = 0
	}

	thumb := ""
	if kind == media.KindImage {
		if name, err := h.writeThumbnail(filename, data); err != nil {
			h.log.Warnw("thumbnail generation failed", "file", filename, "error", err)
		} else {
			thumb = name
		}
	}

	item := media.MediaItem{
		ID:              uuid.NewString(),
		Filename:        filename,
		Kind:            kind,
		Thumbnail:       thumb,
		Caption:         strings.TrimSpace(c.FormValue("caption")),
		DurationSeconds: duration,
		CreatedAt:       time.Now().UTC(),
	}
	h.store.SetMedia(item)
	h.log.Infow("media uploaded", "file", filename, "kind", kind, "size", len(data))

	h.hub.Publish(hub.Event{Name: hub.EventMedia, URL: "/last-media"})
	if kind == media.KindVideo {
		h.hub.Publish(hub.Event{Name: hub.EventVideo, URL: "/uploads/" + url.PathEscape(filename)})
	}

	return utils.JSONSuccess(c, fiber.StatusCreated, item)
}

// UploadSound handles POST /upload-sound (multipart field: sound).
func (h *Handler) UploadSound(c *fiber.Ctx) error {
	fh, err := c.FormFile("sound")
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "sound file missing")
	}
	if fh.Size > h.cfg.MaxSoundBytes {
		return utils.JSONError(c, fiber.StatusRequestEntityTooLarge, "sound file too large")
	}

	filename, ok := utils.SanitizeFilename(fh.Filename)
	if !ok {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid filename")
	}
	if !media.AllowedSound(filename) {
		return utils.JSONError(c, fiber.StatusBadRequest, "only mp3, wav, ogg, flac and m4a are allowed")
	}

	data, err := readMultipartFile(fh)
	if err != nil {
		h.log.Errorw("failed to read sound upload", "file", filename, "error", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "cannot read uploaded file")
	}
	if !media.ValidSoundContent(filename, data) {
		return utils.JSONError(c, fiber.StatusBadRequest, "file content does not match extension")
	}

	if err := writeFile(h.cfg.Media.SoundsDir, filename, data); err != nil {
		h.log.Errorw("failed to save sound", "file", filename, "error", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "cannot save uploaded file")
	}

	item := media.SoundItem{
		ID:        uuid.NewString(),
		Filename:  filename,
		CreatedAt: time.Now().UTC(),
	}
	h.store.SetSound(item)
	h.log.Infow("sound uploaded", "file", filename, "size", len(data))

	h.hub.Publish(hub.Event{Name: hub.EventSong, URL: "/sounds/" + url.PathEscape(filename)})

	return utils.JSONSuccess(c, fiber.StatusCreated, item)
}

// PushURL handles POST /push-url (form field: url) and relays an
// arbitrary URL to every connected display.
func (h *Handler) PushURL(c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.FormValue("url"))
	if raw == "" {
		return utils.JSONError(c, fiber.StatusBadRequest, "url missing")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid url")
	}
	h.hub.Publish(hub.Event{Name: hub.EventRawURL, URL: raw})
	h.log.Infow("raw url pushed", "url", raw)
	return utils.JSONSuccess(c, fiber.StatusAccepted, fiber.Map{"url": raw})
}

func (h *Handler) writeThumbnail(filename string, data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG); err != nil {
		return "", err
	}
	name := media.ThumbFilename(filename)
	if err := writeFile(h.cfg.Media.UploadsDir, name, buf.Bytes()); err != nil {
		return "", err
	}
	return name, nil
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func writeFile(dir, filename string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, filename), data, 0o644)
}

func parseDuration(s string) int {
	d, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return defaultDurationSeconds
	}
	if d < minDurationSeconds {
		return minDurationSeconds
	}
	if d > maxDurationSeconds {
		return maxDurationSeconds
	}
	return d
}
