// Package server exposes the calculators and per-device data over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/salat/internal/model"
	"github.com/smokyabdulrahman/salat/internal/mosque"
	"github.com/smokyabdulrahman/salat/internal/prayer"
)

// Store is the persistence behind the /devices routes.
type Store interface {
	mosque.Store
	GetPreferences(ctx context.Context, userID string) (*model.Preferences, error)
	SavePreferences(ctx context.Context, p *model.Preferences) error
	GetTasbih(ctx context.Context, userID string) (*model.TasbihCount, error)
	SaveTasbih(ctx context.Context, c *model.TasbihCount) error
}

// Server holds the handlers' dependencies.
type Server struct {
	store    Store
	mosques  *mosque.Service
	defaults prayer.CalculationParameters
	now      func() time.Time

	// serializes tasbih read-modify-write
	tasbihMu sync.Mutex
}

// New returns a server. A nil store disables the /devices routes.
func New(store Store, defaults prayer.CalculationParameters) *Server {
	s := &Server{store: store, defaults: defaults, now: time.Now}
	if store != nil {
		s.mosques = mosque.NewService(store)
	}
	return s
}

// Router builds the gin engine with all routes mounted under /api/v1.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		AllowCredentials: false,
	}))

	v1 := r.Group("/api/v1")
	v1.GET("/timings", s.getTimings)
	v1.GET("/methods", s.getMethods)
	v1.GET("/qibla", s.getQibla)
	v1.GET("/hijri", s.getHijri)
	v1.GET("/observances", s.getObservances)

	if s.store != nil {
		dev := v1.Group("/devices/:device")
		dev.GET("/preferences", s.getPreferences)
		dev.PUT("/preferences", s.putPreferences)
		dev.GET("/mosques", s.listMosques)
		dev.POST("/mosques", s.addMosque)
		dev.DELETE("/mosques/:id", s.deleteMosque)
		dev.GET("/tasbih", s.getTasbih)
		dev.PUT("/tasbih", s.putTasbih)
		dev.POST("/tasbih/increment", s.incrementTasbih)
	}
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		log.Info().Msg("server stopped")
		return nil
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func abort(c *gin.Context, status int, err error) {
	if status >= 500 {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.AbortWithStatusJSON(status, gin.H{"error": "internal error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
