package handler

import (
	"github.com/gofiber/fiber/v2"

	"pastebin/internal/hash"
	"pastebin/internal/http/middleware"
	"pastebin/internal/model"
	"pastebin/internal/service"
)

// createPasteRequest is the JSON body accepted by CreatePaste.
type createPasteRequest struct {
	Content        string `json:"content"`
	Title          string `json:"title"`
	Language       string `json:"language"`
	ExpiresIn      string `json:"expires_in"`
	BurnAfter      bool   `json:"burn_after"`
	IsEncrypted    bool   `json:"is_encrypted"`
	EncryptionIV   string `json:"encryption_iv"`
	EncryptionSalt string `json:"encryption_salt"`
}

type createPasteResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreatePaste accepts a new paste and returns its id.
func CreatePaste(svc service.PasteService, hasher *hash.IPHasher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createPasteRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}

		in := model.CreatePasteInput{
			Content:        req.Content,
			Title:          req.Title,
			Language:       req.Language,
			ExpiresIn:      model.ExpiresIn(req.ExpiresIn),
			BurnAfter:      req.BurnAfter,
			IsEncrypted:    req.IsEncrypted,
			EncryptionIV:   req.EncryptionIV,
			EncryptionSalt: req.EncryptionSalt,
		}
		if in.ExpiresIn == "" {
			in.ExpiresIn = model.ExpiresNever
		}

		pasteID, err := svc.Create(c.UserContext(), in, hasher.Hash(middleware.ClientIP(c)))
		if err != nil {
			return writeServiceError(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(createPasteResponse{
			ID:  pasteID,
			URL: c.BaseURL() + "/pastes/" + pasteID,
		})
	}
}

// GetPaste returns a paste with its content, counting the view.
func GetPaste(svc service.PasteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := svc.Retrieve(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(view)
	}
}

// GetPasteMeta returns paste metadata without content and without counting a view.
func GetPasteMeta(svc service.PasteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		meta, err := svc.RetrieveMetadata(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(meta)
	}
}

// GetRawPaste serves the content as plain text. Raw responses are cacheable
// because this path never mutates lifecycle state.
func GetRawPaste(svc service.PasteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		content, err := svc.RetrieveRaw(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
		c.Set(fiber.HeaderCacheControl, "public, max-age=300")
		return c.SendString(content)
	}
}
