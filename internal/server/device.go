package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/smokyabdulrahman/salat/internal/geomath"
	"github.com/smokyabdulrahman/salat/internal/model"
	"github.com/smokyabdulrahman/salat/internal/mosque"
	"github.com/smokyabdulrahman/salat/internal/store"
	"github.com/smokyabdulrahman/salat/internal/tasbih"
)

func device(c *gin.Context) (string, error) {
	id := strings.TrimSpace(c.Param("device"))
	if id == "" {
		return "", errors.New("device id is required")
	}
	return id, nil
}

// storeError maps store failures to a status code.
func storeError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		abort(c, http.StatusNotFound, err)
		return
	}
	abort(c, http.StatusInternalServerError, err)
}

func (s *Server) getPreferences(c *gin.Context) {
	id, err := device(c)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	p, err := s.store.GetPreferences(c.Request.Context(), id)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type preferencesRequest struct {
	Latitude     *float64 `json:"location_latitude"`
	Longitude    *float64 `json:"location_longitude"`
	LocationName *string  `json:"location_name"`
}

func (s *Server) putPreferences(c *gin.Context) {
	id, err := device(c)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		abort(c, http.StatusBadRequest, errors.New("location_latitude and location_longitude must be given together"))
		return
	}
	if req.Latitude != nil {
		if _, err := geomath.NewCoordinate(*req.Latitude, *req.Longitude); err != nil {
			abort(c, http.StatusBadRequest, err)
			return
		}
	}

	p := &model.Preferences{
		UserID:       id,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		LocationName: req.LocationName,
	}
	if err := s.store.SavePreferences(c.Request.Context(), p); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// listMosques sorts by distance from ?latitude&longitude, or from the saved
// location when none is given.
func (s *Server) listMosques(c *gin.Context) {
	id, err := device(c)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	coord, present, err := queryCoordinate(c)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	var from *geomath.Coordinate
	if present {
		from = &coord
	} else if p, err := s.store.GetPreferences(c.Request.Context(), id); err == nil {
		if saved, ok := p.Coordinate(); ok {
			from = &saved
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		storeError(c, err)
		return
	}

	mosques, err := s.mosques.Nearby(c.Request.Context(), id, from)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mosques)
}

type mosqueRequest struct {
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (s *Server) addMosque(c *gin.Context) {
	id, err := device(c)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	var req mosqueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		abort(c, http.StatusBadRequest, errors.New("latitude and longitude are required"))
		return
	}

	at := geomath.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
	m, err := s.mosques.Add(c.Request.Context(), id, req.Name, req.Address, at)
	switch {
	case errors.Is(err, mosque.ErrNameRequired), errors.Is(err, geomath.ErrInvalidCoordinate):
		abort(c, http.StatusBadRequest, err)
		return
	case err != nil:
		storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (s *Server) deleteMosque(c *gin.Context) {
	id, err := device(c)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	if err := s.mosques.Remove(c.Request.Context(), id, c.Param("id")); err != nil {
		storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type tasbihResponse struct {
	Count         int     `json:"count"`
	Target        int     `json:"target"`
	Current       int     `json:"current"`
	CompletedSets int     `json:"completed_sets"`
	Progress      float64 `json:"progress"`
	Feedback      string  `json:"feedback,omitempty"`
}

func toTasbihResponse(c tasbih.Counter) tasbihResponse {
	return tasbihResponse{
		Count:         c.Count,
		Target:        c.Target,
		Current:       c.Current(),
		CompletedSets: c.CompletedSets(),
		Progress:      c.Progress(),
	}
}

// loadCounter returns the saved counter, or a fresh one if none is saved.
func (s *Server) loadCounter(c *gin.Context, id string) (tasbih.Counter, error) {
	saved, err := s.store.GetTasbih(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return tasbih.New(0, tasbih.DefaultTarget), nil
	}
	if err != nil {
		return tasbih.Counter{}, err
	}
	return tasbih.New(saved.Count, saved.Target), nil
}

func (s *Server) saveCounter(c *gin.Context, id string, counter tasbih.Counter) error {
	return s.store.SaveTasbih(c.Request.Context(), &model.TasbihCount{
		UserID: id,
		Count:  counter.Count,
		Target: counter.Target,
	})
}

func (s *Server) getTasbih(c *gin.Context) {
	id, err := device(c)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	counter, err := s.loadCounter(c, id)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTasbihResponse(counter))
}

type tasbihRequest struct {
	Count  *int `json:"count"`
	Target *int `json:"target"`
}

func (s *Server) putTasbih(c *gin.Context) {
	id, err := device(c)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	var req tasbihRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	s.tasbihMu.Lock()
	defer s.tasbihMu.Unlock()

	counter, err := s.loadCounter(c, id)
	if err != nil {
		storeError(c, err)
		return
	}
	if req.Count != nil {
		if *req.Count < 0 {
			abort(c, http.StatusBadRequest, fmt.Errorf("count must not be negative"))
			return
		}
		counter.Count = *req.Count
	}
	if req.Target != nil {
		if err := counter.SetTarget(*req.Target); err != nil {
			abort(c, http.StatusBadRequest, err)
			return
		}
	}
	if err := s.saveCounter(c, id, counter); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTasbihResponse(counter))
}

func (s *Server) incrementTasbih(c *gin.Context) {
	id, err := device(c)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	s.tasbihMu.Lock()
	defer s.tasbihMu.Unlock()

	counter, err := s.loadCounter(c, id)
	if err != nil {
		storeError(c, err)
		return
	}
	fb := counter.Increment()
	if err := s.saveCounter(c, id, counter); err != nil {
		storeError(c, err)
		return
	}
	resp := toTasbihResponse(counter)
	resp.Feedback = fb.String()
	c.JSON(http.StatusOK, resp)
}
