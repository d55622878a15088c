package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"planviewer/internal/viewer/controller"
	"planviewer/internal/viewer/engine"
	"planviewer/internal/viewer/models"
	"planviewer/internal/viewer/render"
	"planviewer/internal/viewer/service"
	"planviewer/internal/viewer/summary"
)

// ============================================================
// Sessions
// ============================================================

const headerPlanVersion = "X-Plan-Version"

type dispatchResponse struct {
	Committed  bool                `json:"committed"`
	Version    int                 `json:"version"`
	Controller controller.Snapshot `json:"controller"`
}

// CreateSession открывает сессию. Тело (план) необязательно.
func (h *ViewerHandler) CreateSession(c fiber.Ctx) error {
	var plan models.PlanDocument
	if len(c.Body()) > 0 {
		var ok bool
		var err error
		if plan, ok, err = decodePlan(c); !ok {
			return err
		}
	}

	s := h.sessions.Create(plan)
	slog.Info("[SESSION] created", "id", s.ID, "elements", len(plan.Elements))
	return c.Status(http.StatusCreated).JSON(s.View())
}

func (h *ViewerHandler) GetSession(c fiber.Ctx) error {
	s, ok := h.session(c)
	if !ok {
		return notFound(c)
	}
	return c.JSON(s.View())
}

func (h *ViewerHandler) DeleteSession(c fiber.Ctx) error {
	if !h.sessions.Delete(c.Params("id")) {
		return notFound(c)
	}
	slog.Info("[SESSION] closed", "id", c.Params("id"))
	return c.SendStatus(http.StatusNoContent)
}

// GetPlan возвращает текущий план сессии; версия в заголовке.
func (h *ViewerHandler) GetPlan(c fiber.Ctx) error {
	s, ok := h.session(c)
	if !ok {
		return notFound(c)
	}
	plan, version := s.Plan()
	c.Set(headerPlanVersion, strconv.Itoa(version))
	return c.JSON(plan)
}

// PutPlan заменяет план целиком (например, после правки на клиенте).
func (h *ViewerHandler) PutPlan(c fiber.Ctx) error {
	s, ok := h.session(c)
	if !ok {
		return notFound(c)
	}
	plan, ok, err := decodePlan(c)
	if !ok {
		return err
	}

	version := s.SetPlan(plan)
	c.Set(headerPlanVersion, strconv.Itoa(version))
	return c.JSON(fiber.Map{"version": version})
}

// Dispatch применяет одно намерение пользователя к сессии.
func (h *ViewerHandler) Dispatch(c fiber.Ctx) error {
	s, ok := h.session(c)
	if !ok {
		return notFound(c)
	}
	if len(c.Body()) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "empty body"})
	}

	var in engine.Intent
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	committed, err := s.Dispatch(in)
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, engine.ErrUnknownIntent) && !errors.Is(err, engine.ErrMissingPoint) {
			status = http.StatusUnprocessableEntity
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	version, snap := s.Status()
	if committed {
		slog.Debug("[SESSION] plan committed", "id", s.ID, "intent", in.Kind, "version", version)
	}
	c.Set(headerPlanVersion, strconv.Itoa(version))
	return c.JSON(dispatchResponse{
		Committed:  committed,
		Version:    version,
		Controller: snap,
	})
}

// RenderSession рисует текущий кадр сессии (?format=svg|json).
func (h *ViewerHandler) RenderSession(c fiber.Ctx) error {
	s, ok := h.session(c)
	if !ok {
		return notFound(c)
	}
	backend, err := render.ForFormat(c.Query("format", "svg"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return send(c, backend, s.Render())
}

func (h *ViewerHandler) SessionSummary(c fiber.Ctx) error {
	s, ok := h.session(c)
	if !ok {
		return notFound(c)
	}
	plan, _ := s.Plan()
	return sendSummary(c, summary.Build(plan))
}

func (h *ViewerHandler) session(c fiber.Ctx) (*service.Session, bool) {
	return h.sessions.Get(c.Params("id"))
}

func notFound(c fiber.Ctx) error {
	return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
}
