package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"planviewer/internal/textures/service"
)

// ============================================================
// Texture Handler
// ============================================================

type TextureHandler struct {
	textures *service.Textures
}

func NewTextureHandler(textures *service.Textures) *TextureHandler {
	return &TextureHandler{textures: textures}
}

func (h *TextureHandler) Register(r fiber.Router) {
	r.Get("/textures", h.List)
	r.Post("/textures", h.Upload)
}

// List возвращает каталог текстур с URL.
func (h *TextureHandler) List(c fiber.Ctx) error {
	list, err := h.textures.List(context.Background())
	if err != nil {
		slog.Error("[TEXTURES] list failed", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list textures"})
	}
	return c.JSON(list)
}

// Upload сохраняет файл текстуры под handle. Повторный handle отдает
// существующую запись с кодом 200.
func (h *TextureHandler) Upload(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "cannot open file"})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "cannot read file"})
	}

	tex, created, err := h.textures.Create(context.Background(), service.Upload{
		Handle:      c.FormValue("handle"),
		Filename:    fileHeader.Filename,
		MimeType:    fileHeader.Header.Get(fiber.HeaderContentType),
		Description: c.FormValue("description"),
		Data:        data,
	})
	if errors.Is(err, service.ErrInvalidHandle) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		slog.Error("[TEXTURES] upload failed", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store texture"})
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		slog.Info("[TEXTURES] stored", "handle", tex.Handle, "file", tex.Filename)
	}
	return c.Status(status).JSON(tex)
}
