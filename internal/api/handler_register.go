package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"presence-monitor-backend/internal/registry"
)

// GetDepartments lists the upstream departments for the registration form.
func (h *Handler) GetDepartments(c *gin.Context) {
	departments := h.registry.Departments(c.Request.Context())
	if len(departments) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "upstream department API is unreachable"})
		return
	}
	c.JSON(http.StatusOK, departments)
}

type registerRequest struct {
	Name       string `json:"name" binding:"required"`
	EmployeeNo string `json:"nipeg"`
	DeptCode   string `json:"dept" binding:"required"`
	Plate      string `json:"plat"`
	Gender     string `json:"gender" binding:"required,oneof=M F"`
	Photo      string `json:"photo" binding:"required"` // base64-encoded image
}

// PostRegister provisions a new person and badge via the upstream API.
func (h *Handler) PostRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pin, err := h.registry.RegisterPerson(c.Request.Context(), registry.Registration{
		Name:       req.Name,
		EmployeeNo: req.EmployeeNo,
		DeptCode:   req.DeptCode,
		Plate:      req.Plate,
		Gender:     req.Gender,
		PhotoB64:   req.Photo,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"pin": pin})
}
