package http

import (
	"context"
	"net/http"

	"tycoon-backend/internal/domain/game"

	"github.com/labstack/echo/v4"
)

// GameService is the slice of the engine the game-state routes dispatch into.
type GameService interface {
	GameSnapshot(ctx context.Context) (game.State, error)
	BuyProperty(ctx context.Context, price float64) (game.State, error)
	SetLevel(ctx context.Context, level int) (game.State, error)
}

type StateHandler struct{ svc GameService }

func NewStateHandler(svc GameService) *StateHandler { return &StateHandler{svc: svc} }

func (h *StateHandler) GetState(c echo.Context) error {
	st, err := h.svc.GameSnapshot(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, st)
}

type buyPropertyReq struct {
	Price float64 `json:"price" validate:"required,gt=0,dec2"`
}

func (h *StateHandler) BuyProperty(c echo.Context) error {
	var req buyPropertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	st, err := h.svc.BuyProperty(c.Request().Context(), req.Price)
	if err != nil {
		return c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, st)
}

type setLevelReq struct {
	Level int `json:"level" validate:"required,gte=1,lte=99"`
}

func (h *StateHandler) SetLevel(c echo.Context) error {
	var req setLevelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	st, err := h.svc.SetLevel(c.Request().Context(), req.Level)
	if err != nil {
		return c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, st)
}
