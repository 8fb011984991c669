package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"hoopstats/api/filters"
	profileservice "hoopstats/api/services/profile"
	"hoopstats/pkg/profile"

	"github.com/gin-gonic/gin"
)

// ProfileService is what the profile handler needs from the service.
type ProfileService interface {
	GetProfile(ctx context.Context, filter *filters.ProfileFilter) (*profile.Profile, error)
	RenderShotChart(ctx context.Context, filter *filters.ProfileFilter, w io.Writer) error
}

// ProfileHandler is the handler for the player profile endpoints.
type ProfileHandler struct {
	profileService ProfileService
}

type ProfileHandlerDependencies struct {
	ProfileService ProfileService
}

// NewProfileHandler creates a new instance of the profile handler.
func NewProfileHandler(deps *ProfileHandlerDependencies) *ProfileHandler {
	return &ProfileHandler{
		profileService: deps.ProfileService,
	}
}

// GetProfile handles requests for the profile of a player.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	filter, ok := bindProfileFilter(c)
	if !ok {
		return
	}

	result, err := h.profileService.GetProfile(c.Request.Context(), filter)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// GetShotChart handles requests for the SVG shot chart of a player.
func (h *ProfileHandler) GetShotChart(c *gin.Context) {
	filter, ok := bindProfileFilter(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.profileService.RenderShotChart(c.Request.Context(), filter, &buf); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

// bindProfileFilter reads the path and query params, answering 400 on failure.
func bindProfileFilter(c *gin.Context) (*filters.ProfileFilter, bool) {
	var params filters.ProfileParams
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	var query filters.ProfileQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	return filters.NewProfileFilter(params, query), true
}

// Map the service errors to the HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, profileservice.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, profileservice.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, profileservice.ErrFetchInProgress):
		return http.StatusTooManyRequests
	case errors.Is(err, profileservice.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
