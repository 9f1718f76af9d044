package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"betting-platform/internal/models"
	"betting-platform/internal/repository"
	"betting-platform/internal/services"
	"betting-platform/internal/valuation"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	repo       *repository.Repository
	settlement *services.SettlementService
}

func NewAdminHandler(repo *repository.Repository, settlement *services.SettlementService) *AdminHandler {
	return &AdminHandler{repo: repo, settlement: settlement}
}

// CreateMarket creates a new market round
func (h *AdminHandler) CreateMarket(c *gin.Context) {
	var req struct {
		Name               string    `json:"name" binding:"required"`
		Type               string    `json:"type" binding:"required"`
		CloseTime          time.Time `json:"close_time" binding:"required"`
		JodiMultiplier     int64     `json:"jodi_multiplier"`
		HarfMultiplier     int64     `json:"harf_multiplier"`
		CrossingMultiplier int64     `json:"crossing_multiplier"`
		OddEvenMultiplier  int64     `json:"odd_even_multiplier"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	market := &models.Market{
		Name:               req.Name,
		Type:               req.Type,
		CloseTime:          req.CloseTime,
		Status:             models.MarketStatusOpen,
		JodiMultiplier:     req.JodiMultiplier,
		HarfMultiplier:     req.HarfMultiplier,
		CrossingMultiplier: req.CrossingMultiplier,
		OddEvenMultiplier:  req.OddEvenMultiplier,
	}

	if err := h.repo.CreateMarket(c.Request.Context(), market); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create market"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    market,
	})
}

// CreateMatch creates a new team-vs-team round
func (h *AdminHandler) CreateMatch(c *gin.Context) {
	var req struct {
		TeamA     string    `json:"team_a" binding:"required"`
		TeamB     string    `json:"team_b" binding:"required"`
		OddTeamA  int64     `json:"odd_team_a" binding:"required"`
		OddTeamB  int64     `json:"odd_team_b" binding:"required"`
		CloseTime time.Time `json:"close_time" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	match := &models.Match{
		TeamA:     req.TeamA,
		TeamB:     req.TeamB,
		OddTeamA:  req.OddTeamA,
		OddTeamB:  req.OddTeamB,
		CloseTime: req.CloseTime,
		Status:    models.MarketStatusOpen,
	}

	if err := h.repo.CreateMatch(c.Request.Context(), match); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create match"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    match,
	})
}

// ResultMarket declares a market result and settles its wagers
func (h *AdminHandler) ResultMarket(c *gin.Context) {
	marketID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid market id"})
		return
	}

	var req struct {
		Result string `json:"result" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.settlement.ResultMarket(c.Request.Context(), uint(marketID), req.Result); err != nil {
		if errors.Is(err, repository.ErrMarketNotFound) {
			c.JSON(http.StatusConflict, gin.H{"error": "Market not found or not closed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to result market"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ResultMatch declares a match winner and settles its wagers
func (h *AdminHandler) ResultMatch(c *gin.Context) {
	matchID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid match id"})
		return
	}

	var req struct {
		Winner string `json:"winner" binding:"required"` // team_a or team_b
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.settlement.ResultMatch(c.Request.Context(), uint(matchID), req.Winner); err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Match not found"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SettleWager settles one wager as won or lost
func (h *AdminHandler) SettleWager(c *gin.Context) {
	wagerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wager id"})
		return
	}

	var req struct {
		Won *bool `json:"won" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wager, err := h.settlement.SettleWager(c.Request.Context(), uint(wagerID), *req.Won)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrWagerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Wager not found"})
		case errors.Is(err, services.ErrWagerNotActive):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, valuation.ErrInvalidWager):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to settle wager"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    wager,
	})
}

// CancelWager voids a pending wager and refunds the stake
func (h *AdminHandler) CancelWager(c *gin.Context) {
	wagerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wager id"})
		return
	}

	var req struct {
		Remark string `json:"remark"`
	}
	_ = c.ShouldBindJSON(&req)

	wager, err := h.settlement.CancelWager(c.Request.Context(), uint(wagerID), req.Remark)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrWagerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Wager not found"})
		case errors.Is(err, services.ErrWagerNotActive):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel wager"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    wager,
	})
}
