package server

import (
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/prayer-board/internal/api"
	"github.com/smokyabdulrahman/prayer-board/internal/calc"
	"github.com/smokyabdulrahman/prayer-board/internal/prayer"
)

// apiError is a failure with the HTTP status to report it under.
type apiError struct {
	Code    int
	Message string
}

type handlerFunc func(c *gin.Context) (any, *apiError)

// resolve adapts a handler returning (result, error) to gin, writing either
// the JSON result or an api.ErrorResponse.
func resolve(h handlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, apiErr := h(c)
		if apiErr != nil {
			c.JSON(apiErr.Code, api.ErrorResponse{Error: apiErr.Message})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/methods", resolve(s.getMethods))
	s.engine.GET("/prayers", resolve(s.getPrayers))
	s.engine.GET("/prayers/state", resolve(s.getState))
}

type scheduleQuery struct {
	Lat    *float64 `form:"lat" binding:"required,min=-90,max=90"`
	Lng    *float64 `form:"lng" binding:"required,min=-180,max=180"`
	Method string   `form:"method"`
	School string   `form:"school"`
	Date   string   `form:"date"`
}

func (s *Server) getPrayers(c *gin.Context) (any, *apiError) {
	schedule, _, apiErr := s.schedule(c)
	if apiErr != nil {
		return nil, apiErr
	}
	return api.FromSchedule(schedule), nil
}

func (s *Server) getState(c *gin.Context) (any, *apiError) {
	schedule, now, apiErr := s.schedule(c)
	if apiErr != nil {
		return nil, apiErr
	}
	return api.FromState(prayer.Derive(schedule, now)), nil
}

func (s *Server) getMethods(c *gin.Context) (any, *apiError) {
	return api.FromMethods(calc.Methods), nil
}

// schedule computes the schedule a request asks for. It also returns the
// server's current time in the schedule's timezone.
func (s *Server) schedule(c *gin.Context) ([]prayer.Prayer, time.Time, *apiError) {
	var q scheduleQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return nil, time.Time{}, &apiError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	loc := s.opts.Location
	if loc == nil {
		loc = calc.LocationFor(*q.Lat, *q.Lng)
	}
	now := s.opts.Now().In(loc)

	date := now
	if q.Date != "" {
		d, err := time.ParseInLocation("2006-01-02", q.Date, loc)
		if err != nil {
			return nil, time.Time{}, &apiError{Code: http.StatusBadRequest, Message: "date must be YYYY-MM-DD"}
		}
		date = d
	}

	params := calc.Params{
		Latitude:  *q.Lat,
		Longitude: *q.Lng,
		Date:      date,
		Method:    firstNonEmpty(q.Method, s.opts.Method),
		School:    firstNonEmpty(q.School, s.opts.School),
		Location:  loc,
	}
	results, err := calc.Compute(params)
	if err != nil {
		if errors.IsAny(err, calc.ErrUnknownMethod, calc.ErrUnknownSchool, calc.ErrInvalidCoordinates) {
			return nil, time.Time{}, &apiError{Code: http.StatusBadRequest, Message: err.Error()}
		}
		log.Error().Err(err).Float64("lat", params.Latitude).Float64("lng", params.Longitude).Msg("computing schedule")
		return nil, time.Time{}, &apiError{Code: http.StatusInternalServerError, Message: "could not compute prayer times"}
	}
	return calc.Schedule(results), now, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
