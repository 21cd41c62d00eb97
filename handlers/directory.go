package handlers

import (
	"net/http"

	"courtflow/models"
	"courtflow/services/directory"
	"courtflow/utils"

	"github.com/gin-gonic/gin"
)

// DirectoryHandler exposes the read-only directory lookups.
type DirectoryHandler struct {
	Service directory.DirectoryService
}

// NewDirectoryHandler builds the handler.
func NewDirectoryHandler(service directory.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{Service: service}
}

// SearchVenues lists active venues, optionally filtered by name.
func (h *DirectoryHandler) SearchVenues(c *gin.Context) {
	page := models.Page{
		Number: queryInt(c, "page", 1),
		Size:   queryInt(c, "size", 20),
	}

	venues, err := h.Service.SearchVenues(c.Request.Context(), c.Query("query"), page)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to search venues", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"venues": venues, "page": page.Clamp()})
}

// ListVenueResources lists the bookable resources of a venue.
func (h *DirectoryHandler) ListVenueResources(c *gin.Context) {
	resources, err := h.Service.ListVenueResources(c.Request.Context(), c.Param("venueID"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "venue not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"resources": resources})
}

// SearchCounterparties matches directory entries by name or phone prefix.
func (h *DirectoryHandler) SearchCounterparties(c *gin.Context) {
	page := models.Page{
		Number: queryInt(c, "page", 1),
		Size:   queryInt(c, "size", 20),
	}

	counterparties, err := h.Service.SearchCounterparties(c.Request.Context(), c.Query("query"), page)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to search counterparties", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"counterparties": counterparties, "page": page.Clamp()})
}
