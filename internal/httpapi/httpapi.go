// Package httpapi serves the HTTP trigger API of the lectern daemon.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"libdb.so/lectern/internal/scheduler"
)

// Controller is what the API drives.
type Controller interface {
	// Trigger queues a pattern and reports whether it was accepted.
	Trigger(k scheduler.Kind, id string) bool
	// Status returns the current scheduler state.
	Status() scheduler.Snapshot
}

// Response is the body of every API response.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// StatusData is the data of a status response.
type StatusData struct {
	Active  string `json:"active"`
	Phase   string `json:"phase,omitempty"`
	Elapsed string `json:"elapsed,omitempty"`
	Color   string `json:"color"`
}

// TriggerData is the data of an accepted trigger.
type TriggerData struct {
	ID      string `json:"id"`
	Pattern string `json:"pattern"`
}

type server struct {
	ctrl   Controller
	logger *slog.Logger
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// New returns the API handler.
func New(ctrl Controller, logger *slog.Logger) http.Handler {
	s := &server{
		ctrl:   ctrl,
		logger: logger,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.logRequests)
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.GET("/status", s.handleStatus)
		api.POST("/patterns/:name", s.handleTrigger)
		api.POST("/stop", s.handleStop)
	}

	return r
}

func (s *server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()

	s.logger.Debug(
		"handled HTTP request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"took", time.Since(start))
}

func (s *server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Status: "success"})
}

func (s *server) handleStatus(c *gin.Context) {
	snap := s.ctrl.Status()

	data := StatusData{
		Active: snap.Active.String(),
		Color:  snap.Color.Hex(),
	}
	if snap.Active != scheduler.Off {
		data.Phase = snap.Phase.String()
		data.Elapsed = snap.Elapsed.String()
	}

	c.JSON(http.StatusOK, Response{
		Status: "success",
		Data:   data,
	})
}

func (s *server) handleTrigger(c *gin.Context) {
	name := c.Param("name")

	k, err := scheduler.ParseKind(name)
	if err != nil || k == scheduler.Off {
		c.JSON(http.StatusNotFound, Response{
			Status: "error",
			Error:  "unknown pattern " + name,
		})
		return
	}

	s.trigger(c, k)
}

func (s *server) handleStop(c *gin.Context) {
	s.trigger(c, scheduler.Off)
}

func (s *server) trigger(c *gin.Context, k scheduler.Kind) {
	id := uuid.NewString()

	if !s.ctrl.Trigger(k, id) {
		c.JSON(http.StatusServiceUnavailable, Response{
			Status: "error",
			Error:  "too many pending triggers",
		})
		return
	}

	c.JSON(http.StatusAccepted, Response{
		Status: "success",
		Data: TriggerData{
			ID:      id,
			Pattern: k.String(),
		},
	})
}
