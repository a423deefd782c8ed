package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tracontent/pkg/services"
)

func (h *Handlers) ListMedia(c *gin.Context) {
	site := h.siteFromRequest(c)
	if site == nil {
		return
	}
	files, err := services.ListMediaFiles(site)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list media: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, files)
}

func (h *Handlers) UploadMedia(c *gin.Context) {
	site := h.siteFromRequest(c)
	if site == nil {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	info, err := services.SaveMediaFile(site, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *Handlers) DeleteMedia(c *gin.Context) {
	site := h.siteFromRequest(c)
	if site == nil {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	if err := services.DeleteMediaFile(site, req.Name); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
