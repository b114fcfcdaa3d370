package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appgame "github.com/lifeos/backend/internal/application/game"
)

// PlayerHandler serves gamification endpoints
type PlayerHandler struct {
	BaseHandler
	playerService *appgame.PlayerService
}

// NewPlayerHandler creates a new PlayerHandler
func NewPlayerHandler(playerService *appgame.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerService: playerService}
}

// Me returns the caller's player profile
func (h *PlayerHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.playerService.Me(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Leaderboard returns the top players by experience
func (h *PlayerHandler) Leaderboard(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			h.BadRequest(c, "Limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	entries, err := h.playerService.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// RegisterRoutes registers gamification routes
func (h *PlayerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	game := rg.Group("/game")
	{
		game.GET("/me", h.Me)
		game.GET("/leaderboard", h.Leaderboard)
	}
}
