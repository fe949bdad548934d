package server

import (
	"io"
	"net/http"

	"quill/internal/middleware"
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

// acceptedImageExts maps sniffed content types to the stored file extension.
// Anything outside this set is dropped without an error.
var acceptedImageExts = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
}

// UploadImage handles PUT /api/upload-image. The upload channel is independent
// of the dispatch pipeline and always requires a bearer token.
func (s *Server) UploadImage(c *fiber.Ctx) error {
	if _, ok := s.identityFromRequest(c); !ok {
		return models.RespondWithError(c, models.NewUnauthenticatedError("Authentication required"))
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "No file provided"})
	}

	src, err := file.Open()
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	// Sniff the real content type; the client-declared one is not trusted.
	ext, ok := acceptedImageExts[http.DetectContentType(content)]
	if !ok {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "No file provided"})
	}

	path, err := s.files.Save(content, ext)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	// Replacing an image: the previous file is removed best-effort, after the
	// new one is already on disk.
	if oldPath := c.FormValue("oldPath"); oldPath != "" {
		if err := s.files.Remove(oldPath); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "failed to remove replaced image",
				"path", oldPath, "error", err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "File stored",
		"filePath": path,
	})
}
