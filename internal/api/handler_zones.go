package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// zoneListEntry is one row of the GET /api/zones response.
type zoneListEntry struct {
	Zone      string     `json:"zone"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

// GetZones lists the configured zones and when each snapshot was last
// refreshed. Zones with no snapshot yet report a null timestamp.
func (h *Handler) GetZones(c *gin.Context) {
	entries := make([]zoneListEntry, 0, len(h.zones))
	for _, zone := range h.zones {
		entry := zoneListEntry{Zone: zone}
		if _, updatedAt, err := h.store.GetSnapshot(c.Request.Context(), zone); err == nil {
			entry.UpdatedAt = &updatedAt
		}
		entries = append(entries, entry)
	}
	c.JSON(http.StatusOK, entries)
}

// GetZone serves the stored summary for a zone. The tracker is never
// invoked from here: requests read the last-known snapshot only.
func (h *Handler) GetZone(c *gin.Context) {
	zone := c.Param("zone")

	summary, updatedAt, err := h.store.GetSnapshot(c.Request.Context(), zone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown zone"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to read snapshot"})
		return
	}

	c.Header("Last-Modified", updatedAt.UTC().Format(http.TimeFormat))
	c.JSON(http.StatusOK, summary)
}
