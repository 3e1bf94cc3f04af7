package api

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/javiermolinar/congrid/internal/db"
	"github.com/javiermolinar/congrid/internal/render"
	"github.com/javiermolinar/congrid/internal/schedule"
)

// --- Huma Input/Output types ---

type GetScheduleOutput struct {
	Body *schedule.Snapshot
}

type SaveItemInput struct {
	Body schedule.Assignment
}

type SaveItemResponse struct {
	ID     int64  `json:"id" doc:"Saved game ID"`
	Status string `json:"status" doc:"Always ok"`
}

type SaveItemOutput struct {
	Body SaveItemResponse
}

type RenderInput struct {
	Width float64 `query:"width" minimum:"0" doc:"Canvas width in pixels; values below the minimum are raised to it"`
}

type RenderOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// --- Handler ---

type ScheduleHandler struct {
	store        Store
	renderer     *render.Renderer
	defaultWidth float64
	logger       *slog.Logger
}

func NewScheduleHandler(store Store, renderer *render.Renderer, defaultWidth float64, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{store: store, renderer: renderer, defaultWidth: defaultWidth, logger: logger}
}

func registerScheduleRoutes(api huma.API, h *ScheduleHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-schedule",
		Method:      http.MethodGet,
		Path:        "/v1/schedule",
		Summary:     "Get the schedule snapshot",
		Tags:        []string{"schedule"},
	}, h.GetSchedule)

	huma.Register(api, huma.Operation{
		OperationID: "save-item",
		Method:      http.MethodPost,
		Path:        "/v1/schedule/items",
		Summary:     "Save one item's location, time block and time slot",
		Tags:        []string{"schedule"},
	}, h.SaveItem)

	huma.Register(api, huma.Operation{
		OperationID: "render-schedule",
		Method:      http.MethodGet,
		Path:        "/v1/schedule.svg",
		Summary:     "Render the schedule grid as SVG",
		Tags:        []string{"schedule"},
	}, h.Render)
}

func (h *ScheduleHandler) GetSchedule(ctx context.Context, _ *struct{}) (*GetScheduleOutput, error) {
	snap, err := h.store.LoadSnapshot(ctx)
	if err != nil {
		h.logger.Error("failed to load schedule", "error", err)
		return nil, huma.Error500InternalServerError("failed to load schedule")
	}
	return &GetScheduleOutput{Body: snap}, nil
}

func (h *ScheduleHandler) SaveItem(ctx context.Context, input *SaveItemInput) (*SaveItemOutput, error) {
	a := input.Body
	if err := h.store.SaveAssignment(ctx, a); err != nil {
		switch {
		case errors.Is(err, db.ErrGameNotFound):
			return nil, huma.Error404NotFound("game not found")
		case errors.Is(err, db.ErrUnknownReference):
			return nil, huma.Error400BadRequest(err.Error())
		}
		h.logger.Error("failed to save item", "id", a.ID, "error", err)
		return nil, huma.Error500InternalServerError("failed to save item")
	}
	h.logger.Debug("item saved", "id", a.ID)
	return &SaveItemOutput{Body: SaveItemResponse{ID: a.ID, Status: "ok"}}, nil
}

func (h *ScheduleHandler) Render(ctx context.Context, input *RenderInput) (*RenderOutput, error) {
	snap, err := h.store.LoadSnapshot(ctx)
	if err != nil {
		h.logger.Error("failed to load schedule", "error", err)
		return nil, huma.Error500InternalServerError("failed to load schedule")
	}
	s, err := schedule.FromSnapshot(snap)
	if err != nil {
		h.logger.Error("invalid schedule snapshot", "error", err)
		return nil, huma.Error500InternalServerError("invalid schedule")
	}

	width := input.Width
	if width == 0 {
		width = h.defaultWidth
	}

	var buf bytes.Buffer
	if _, err := h.renderer.Render(width, s).WriteTo(&buf); err != nil {
		h.logger.Error("failed to encode svg", "error", err)
		return nil, huma.Error500InternalServerError("failed to render schedule")
	}
	return &RenderOutput{ContentType: "image/svg+xml", Body: buf.Bytes()}, nil
}
