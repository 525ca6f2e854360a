package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bloodlaac/fabricat/internal/api/metrics"
	"github.com/bloodlaac/fabricat/internal/core/ports"
)

type HistoryHandler struct {
	historyService ports.HistoryService
	recorder       HistoryRecorder
}

// HistoryRecorder abstracts the queue that serializes history writes.
type HistoryRecorder interface {
	Enqueue(input ports.RecordSessionInput)
}

func NewHistoryHandler(historyService ports.HistoryService, recorder HistoryRecorder) *HistoryHandler {
	return &HistoryHandler{historyService: historyService, recorder: recorder}
}

type playerGameStatsList struct {
	Items []ports.PlayerGameStats `json:"items"`
}

// MyGameStats returns the caller's stats for one session code.
//
// @Summary      Stats for a single game
// @Tags         history
// @Produce      json
// @Security     BearerAuth
// @Param        session_code  path  string  true  "Session code"
// @Success      200  {object}  ports.PlayerGameStats
// @Failure      404  {object}  map[string]string
// @Router       /history/games/{session_code}/me [get]
func (h *HistoryHandler) MyGameStats(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	stats, err := h.historyService.StatsForSession(c.Request().Context(), userID, c.Param("session_code"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// MyRecentGames returns the caller's most recent games, newest first.
//
// @Summary      Recent games
// @Tags         history
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query  int  false  "Max results (1-100, default 10)"
// @Success      200  {object}  playerGameStatsList
// @Router       /history/games/me [get]
func (h *HistoryHandler) MyRecentGames(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	limit := 10
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer between 1 and 100")
		}
		limit = parsed
	}

	items, err := h.historyService.RecentGames(c.Request().Context(), userID, limit)
	if err != nil {
		return err
	}
	if items == nil {
		items = []ports.PlayerGameStats{}
	}
	return c.JSON(http.StatusOK, playerGameStatsList{Items: items})
}

type recordPlayerStats struct {
	UserID       string  `json:"user_id"`
	PlayerSlotID int     `json:"player_slot_id"`
	Capital      float64 `json:"capital"`
	Place        int     `json:"place" validate:"min=1"`
	IsBankrupt   bool    `json:"is_bankrupt"`
	IsTop1       bool    `json:"is_top1"`
	HasDebt      bool    `json:"has_debt"`
	TotalDebt    float64 `json:"total_debt"`

	FactoriesBasic       int `json:"factories_basic"`
	FactoriesAuto        int `json:"factories_auto"`
	FactoriesBuildsBasic int `json:"factories_builds_basic"`
	FactoriesBuildsAuto  int `json:"factories_builds_auto"`
	FactoriesUpgrades    int `json:"factories_upgrades"`
}

type recordSessionRequest struct {
	SessionCode string              `json:"session_code" validate:"required,max=32"`
	FinishedAt  string              `json:"finished_at"`
	Players     []recordPlayerStats `json:"players" validate:"required,dive"`
}

// RecordSession accepts a finished session from the game engine and enqueues
// it for persistence. Writes for the same session code are applied in order.
//
// @Summary      Record a finished game session
// @Tags         history
// @Accept       json
// @Success      202
// @Failure      400  {object}  map[string]string
// @Router       /internal/history/sessions [post]
func (h *HistoryHandler) RecordSession(c echo.Context) error {
	var req recordSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.RecordSessionInput{SessionCode: req.SessionCode}
	if req.FinishedAt != "" {
		finished, err := time.Parse(time.RFC3339, req.FinishedAt)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "finished_at must be RFC 3339")
		}
		input.FinishedAt = finished
	}
	for _, p := range req.Players {
		input.Players = append(input.Players, ports.PlayerStatsInput{
			UserID:               p.UserID,
			PlayerSlotID:         p.PlayerSlotID,
			Capital:              p.Capital,
			Place:                p.Place,
			IsBankrupt:           p.IsBankrupt,
			IsTop1:               p.IsTop1,
			HasDebt:              p.HasDebt,
			TotalDebt:            p.TotalDebt,
			FactoriesBasic:       p.FactoriesBasic,
			FactoriesAuto:        p.FactoriesAuto,
			FactoriesBuildsBasic: p.FactoriesBuildsBasic,
			FactoriesBuildsAuto:  p.FactoriesBuildsAuto,
			FactoriesUpgrades:    p.FactoriesUpgrades,
		})
	}

	h.recorder.Enqueue(input)
	metrics.HistorySessionsRecordedTotal.Inc()

	return c.NoContent(http.StatusAccepted)
}
