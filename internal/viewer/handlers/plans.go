package handlers

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"planviewer/internal/viewer/engine"
	"planviewer/internal/viewer/importer"
	"planviewer/internal/viewer/models"
	"planviewer/internal/viewer/render"
	"planviewer/internal/viewer/scene"
	"planviewer/internal/viewer/schema"
	"planviewer/internal/viewer/service"
	"planviewer/internal/viewer/summary"
)

// ============================================================
// Viewer Handler
// ============================================================

type ViewerHandler struct {
	sessions *service.SessionManager
	textures scene.TextureResolver
}

// NewViewerHandler serves stateless plan endpoints and viewer sessions.
// textures may be nil.
func NewViewerHandler(sessions *service.SessionManager, textures scene.TextureResolver) *ViewerHandler {
	return &ViewerHandler{sessions: sessions, textures: textures}
}

// Register mounts every viewer route on r.
func (h *ViewerHandler) Register(r fiber.Router) {
	r.Get("/schema", h.Schema)
	r.Post("/validate", h.Validate)
	r.Post("/render", h.Render)
	r.Post("/summary", h.Summary)
	r.Post("/import/svg", h.ImportSVG)

	r.Post("/sessions", h.CreateSession)
	r.Get("/sessions/:id", h.GetSession)
	r.Delete("/sessions/:id", h.DeleteSession)
	r.Get("/sessions/:id/plan", h.GetPlan)
	r.Put("/sessions/:id/plan", h.PutPlan)
	r.Post("/sessions/:id/intents", h.Dispatch)
	r.Get("/sessions/:id/render", h.RenderSession)
	r.Get("/sessions/:id/summary", h.SessionSummary)
}

func (h *ViewerHandler) engineOptions() []engine.Option {
	if h.textures == nil {
		return nil
	}
	return []engine.Option{engine.WithTextures(h.textures)}
}

// Schema отдает JSON Schema документа плана.
func (h *ViewerHandler) Schema(c fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "application/schema+json")
	return c.Send(schema.Schema())
}

// Validate проверяет тело запроса по схеме.
func (h *ViewerHandler) Validate(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "empty body"})
	}

	err := schema.Validate(c.Body())
	var verr *schema.ValidationError
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"valid": true})
	case errors.As(err, &verr):
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"valid": false, "problems": verr.Problems})
	default:
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
}

// Render строит кадр по плану из тела запроса (без сессии).
func (h *ViewerHandler) Render(c fiber.Ctx) error {
	backend, err := render.ForFormat(c.Query("format", "svg"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	plan, ok, err := decodePlan(c)
	if !ok {
		return err
	}

	frame := engine.New(plan, nil, h.engineOptions()...).Render()
	slog.Debug("[RENDER] frame built", "elements", len(plan.Elements), "objects", len(plan.Objects3D))
	return send(c, backend, frame)
}

// Summary возвращает сводку по плану: JSON или текст (?format=text).
func (h *ViewerHandler) Summary(c fiber.Ctx) error {
	plan, ok, err := decodePlan(c)
	if !ok {
		return err
	}
	return sendSummary(c, summary.Build(plan))
}

// ImportSVG конвертирует размеченный SVG в документ плана.
// Файл берется из multipart-поля "file", иначе из тела запроса.
func (h *ViewerHandler) ImportSVG(c fiber.Ctx) error {
	var opts []importer.Option
	if v := c.Query("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "scale must be a positive number"})
		}
		opts = append(opts, importer.WithScale(scale))
	}
	if v := c.Query("ceiling"); v != "" {
		ceiling, err := strconv.ParseFloat(v, 64)
		if err != nil || ceiling <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "ceiling must be a positive number"})
		}
		opts = append(opts, importer.WithCeilingHeight(ceiling))
	}
	if v := c.Query("join"); v != "" {
		tol, err := strconv.ParseFloat(v, 64)
		if err != nil || tol < 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "join must be a non-negative number"})
		}
		opts = append(opts, importer.WithWallJoin(tol))
	}

	var src io.Reader
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "cannot open file"})
		}
		defer f.Close()
		src = f
	} else if len(c.Body()) > 0 {
		src = bytes.NewReader(c.Body())
	} else {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "svg file required"})
	}

	plan, err := importer.New(opts...).Import(src)
	if err != nil {
		slog.Warn("[IMPORT] svg rejected", "error", err)
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	slog.Info("[IMPORT] svg converted", "elements", len(plan.Elements))
	return c.JSON(plan)
}

// decodePlan reads a schema-checked plan from the body. When ok is false
// the error response has already been written and err is its result.
func decodePlan(c fiber.Ctx) (plan models.PlanDocument, ok bool, err error) {
	if len(c.Body()) == 0 {
		return plan, false, c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "empty body"})
	}

	plan, err = schema.Decode(c.Body())
	if err == nil {
		return plan, true, nil
	}

	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		return plan, false, c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid plan", "problems": verr.Problems})
	}
	return plan, false, c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
}

func send(c fiber.Ctx, backend render.Backend, frame engine.Frame) error {
	out, err := backend.Render(frame)
	if err != nil {
		slog.Error("[RENDER] backend failed", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set(fiber.HeaderContentType, backend.ContentType())
	return c.Send(out)
}

func sendSummary(c fiber.Ctx, s summary.Summary) error {
	if c.Query("format") == "text" {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(s.String())
	}
	return c.JSON(s)
}
