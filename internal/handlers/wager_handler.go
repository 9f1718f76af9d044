package handlers

import (
	"errors"
	"net/http"

	"betting-platform/internal/auth"
	"betting-platform/internal/models"
	"betting-platform/internal/repository"
	"betting-platform/internal/services"
	"betting-platform/internal/valuation"

	"github.com/gin-gonic/gin"
)

type WagerHandler struct {
	wagers *services.WagerService
}

func NewWagerHandler(wagers *services.WagerService) *WagerHandler {
	return &WagerHandler{wagers: wagers}
}

// PlaceWager places a bet for the authenticated user
func (h *WagerHandler) PlaceWager(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		GameType   models.GameType `json:"game_type" binding:"required"`
		MarketID   *uint           `json:"market_id"`
		MatchID    *uint           `json:"match_id"`
		BetAmount  int64           `json:"bet_amount" binding:"required"`
		Prediction string          `json:"prediction" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wager, err := h.wagers.PlaceWager(c.Request.Context(), services.PlaceWagerInput{
		UserID:     userID,
		GameType:   req.GameType,
		MarketID:   req.MarketID,
		MatchID:    req.MatchID,
		BetAmount:  req.BetAmount,
		Prediction: req.Prediction,
	})
	if err != nil {
		switch {
		case errors.Is(err, valuation.ErrInvalidWager),
			errors.Is(err, services.ErrMissingGameReference):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrMarketNotOpen),
			errors.Is(err, services.ErrInsufficientBalance):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrMarketNotFound),
			errors.Is(err, repository.ErrMatchNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place wager"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    wager,
	})
}

// GetActiveWagers returns the user's pending wagers with potential payouts
func (h *WagerHandler) GetActiveWagers(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, offset := listParams(c)
	wagers, err := h.wagers.ListActiveWagers(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wagers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    wagers,
		"count":   len(wagers),
	})
}

// GetWagerHistory returns the user's wager history
func (h *WagerHandler) GetWagerHistory(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, offset := listParams(c)
	wagers, err := h.wagers.ListWagerHistory(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wager history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    wagers,
		"count":   len(wagers),
	})
}
