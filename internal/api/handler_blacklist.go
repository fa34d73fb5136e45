package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"presence-monitor-backend/internal/blacklist"
)

// GetBlacklist serves the disabled-badge report.
func (h *Handler) GetBlacklist(c *gin.Context) {
	report, err := blacklist.BuildReport(c.Request.Context(), h.store.DB(), h.siteLabel)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
