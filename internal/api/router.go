package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"presence-monitor-backend/config"
	"presence-monitor-backend/internal/mw"
	"presence-monitor-backend/internal/registry"
	"presence-monitor-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, reg *registry.Client) *gin.Engine {
	r := gin.Default()

	zones := make([]string, 0, len(cfg.Tracker.Zones))
	for _, z := range cfg.Tracker.Zones {
		zones = append(zones, z.ID)
	}

	handler := NewHandler(s, reg, zones, cfg.Blacklist.SiteLabel)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/zones", handler.GetZones)
		api.GET("/zones/:zone", caching, handler.GetZone)

		api.GET("/blacklist", caching, handler.GetBlacklist)

		api.GET("/departments", caching, handler.GetDepartments)
		api.POST("/register", handler.PostRegister)
	}

	return r
}
