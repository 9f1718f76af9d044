package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"betting-platform/internal/models"
	"betting-platform/internal/repository"

	"github.com/gin-gonic/gin"
)

type MarketHandler struct {
	repo *repository.Repository
}

func NewMarketHandler(repo *repository.Repository) *MarketHandler {
	return &MarketHandler{repo: repo}
}

func listParams(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}

// GetMarkets returns markets filtered by status (default open)
func (h *MarketHandler) GetMarkets(c *gin.Context) {
	status := models.MarketStatus(c.DefaultQuery("status", string(models.MarketStatusOpen)))
	limit, offset := listParams(c)

	markets, err := h.repo.ListMarketsByStatus(c.Request.Context(), status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch markets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    markets,
		"count":   len(markets),
	})
}

// GetMarketByID returns a specific market
func (h *MarketHandler) GetMarketByID(c *gin.Context) {
	marketID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid market id"})
		return
	}

	market, err := h.repo.GetMarketByID(c.Request.Context(), uint(marketID))
	if err != nil {
		if errors.Is(err, repository.ErrMarketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Market not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch market"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    market,
	})
}

// GetMatches returns matches filtered by status (default open)
func (h *MarketHandler) GetMatches(c *gin.Context) {
	status := models.MarketStatus(c.DefaultQuery("status", string(models.MarketStatusOpen)))
	limit, offset := listParams(c)

	matches, err := h.repo.ListMatchesByStatus(c.Request.Context(), status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch matches"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    matches,
		"count":   len(matches),
	})
}

// GetMatchByID returns a specific match
func (h *MarketHandler) GetMatchByID(c *gin.Context) {
	matchID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid match id"})
		return
	}

	match, err := h.repo.GetMatchByID(c.Request.Context(), uint(matchID))
	if err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Match not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch match"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    match,
	})
}
