package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/prayer-api/internal/domain/prayer"
)

// Handler wires the HTTP transport to the prayer service.
type Handler struct {
	prayerSvc prayer.Service
	logger    *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(prayerSvc prayer.Service, logger *slog.Logger) *Handler {
	return &Handler{
		prayerSvc: prayerSvc,
		logger:    logger.With("component", "http.handler"),
	}
}

// Locations lists the known cities.
func (h *Handler) Locations(c *gin.Context) {
	resp, err := h.prayerSvc.Locations(c.Request.Context())
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PrayerTimes returns today's full schedule for the requested location.
func (h *Handler) PrayerTimes(c *gin.Context) {
	req, httpErr := locationRequest(c)
	if httpErr != nil {
		abortWithError(c, httpErr)
		return
	}

	resp, err := h.prayerSvc.PrayerTimes(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PrayerTime returns a single prayer by name or alias.
func (h *Handler) PrayerTime(c *gin.Context) {
	req, httpErr := locationRequest(c)
	if httpErr != nil {
		abortWithError(c, httpErr)
		return
	}

	resp, err := h.prayerSvc.PrayerTime(c.Request.Context(), c.Param("name"), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LocationInfo describes the coordinates and conventions in use.
func (h *Handler) LocationInfo(c *gin.Context) {
	req, httpErr := locationRequest(c)
	if httpErr != nil {
		abortWithError(c, httpErr)
		return
	}

	resp, err := h.prayerSvc.LocationInfo(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Qiblah returns the bearing to the Kaaba.
func (h *Handler) Qiblah(c *gin.Context) {
	req, httpErr := locationRequest(c)
	if httpErr != nil {
		abortWithError(c, httpErr)
		return
	}

	resp, err := h.prayerSvc.Qiblah(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Health is the liveness probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "message": "Prayer API server is running"})
}

// locationRequest reads city, latitude and longitude from the query string.
// Blank coordinates count as absent.
func locationRequest(c *gin.Context) (prayer.LocationRequest, *HTTPError) {
	req := prayer.LocationRequest{City: strings.TrimSpace(c.Query("city"))}

	lat, err := optionalFloat(c.Query("latitude"))
	if err != nil {
		return prayer.LocationRequest{}, NewHTTPError(http.StatusBadRequest, prayer.CodeInvalidInput, "latitude must be a number", err)
	}
	lon, err := optionalFloat(c.Query("longitude"))
	if err != nil {
		return prayer.LocationRequest{}, NewHTTPError(http.StatusBadRequest, prayer.CodeInvalidInput, "longitude must be a number", err)
	}
	req.Latitude = lat
	req.Longitude = lon
	return req, nil
}

func optionalFloat(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
