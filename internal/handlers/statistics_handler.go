package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"storefront-cms-backend/internal/constants"
	"storefront-cms-backend/internal/models"
	"storefront-cms-backend/pkg/cache"
	"storefront-cms-backend/pkg/logger"
)

// GetStatistics reports catalog and page counts for the admin dashboard.
func GetStatistics(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sevenDaysAgo := time.Now().UTC().AddDate(0, 0, -7)

		var stats struct {
			TotalPages       int64 `json:"total_pages"`
			PublishedPages   int64 `json:"published_pages"`
			LandingPages     int64 `json:"landing_pages"`
			PagesLast7Days   int64 `json:"pages_updated_last_7_days"`
			TotalCategories  int64 `json:"total_categories"`
			ActiveCategories int64 `json:"active_categories"`
			TotalProducts    int64 `json:"total_products"`
			ActiveProducts   int64 `json:"active_products"`
		}

		queries := []struct {
			query *gorm.DB
			dest  *int64
		}{
			{db.WithContext(ctx).Model(&models.Page{}), &stats.TotalPages},
			{db.WithContext(ctx).Model(&models.Page{}).Where("published = ?", true), &stats.PublishedPages},
			{db.WithContext(ctx).Model(&models.Page{}).Where("type = ?", constants.PageTypeLanding), &stats.LandingPages},
			{db.WithContext(ctx).Model(&models.Page{}).Where("updated_at >= ?", sevenDaysAgo), &stats.PagesLast7Days},
			{db.WithContext(ctx).Model(&models.Category{}), &stats.TotalCategories},
			{db.WithContext(ctx).Model(&models.Category{}).Where("is_active = ?", true), &stats.ActiveCategories},
			{db.WithContext(ctx).Model(&models.Product{}), &stats.TotalProducts},
			{db.WithContext(ctx).Model(&models.Product{}).Where("is_active = ?", true), &stats.ActiveProducts},
		}

		for _, q := range queries {
			if err := q.query.Count(q.dest).Error; err != nil {
				logger.Error(err, "Failed to collect statistics", nil)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to collect statistics"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"stats": stats})
	}
}

// ClearCache drops every cached page and listing.
func ClearCache(cacheService *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := cacheService.FlushAll(c.Request.Context()); err != nil {
			logger.Error(err, "Failed to clear cache", nil)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear cache"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "cache cleared"})
	}
}
