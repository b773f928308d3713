// Package api exposes the operator HTTP surface: health, current status,
// recent access events and allow-list management.
package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/arsenicprojects/police-plate-gate/internal/gate"
	"github.com/arsenicprojects/police-plate-gate/internal/recognize"
	"github.com/arsenicprojects/police-plate-gate/internal/version"
)

// Server holds the handlers' dependencies.
type Server struct {
	controller *gate.Controller

	mu   sync.RWMutex
	last *recognize.Result
}

// NewServer creates the API server around a gate controller.
func NewServer(controller *gate.Controller) *Server {
	return &Server{controller: controller}
}

// SetLastResult publishes the most recent recognition for /status.
func (s *Server) SetLastResult(r *recognize.Result) {
	s.mu.Lock()
	s.last = r
	s.mu.Unlock()
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", s.health)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/status", s.status)
		v1.GET("/events", s.events)
		v1.GET("/plates", s.listPlates)
		v1.POST("/plates", s.addPlate)
		v1.DELETE("/plates/:plate", s.removePlate)
	}
	return router
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version.Version,
	})
}

func (s *Server) status(c *gin.Context) {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()

	resp := gin.H{"recognition": nil, "decision": nil}
	if last != nil {
		resp["recognition"] = gin.H{
			"raw_text":     last.RawText,
			"cleaned_text": last.CleanedText,
			"valid":        last.Valid,
			"confidence":   last.Confidence,
		}
	}
	if d := s.controller.LastDecision(); d != nil {
		resp["decision"] = gin.H{
			"granted": d.Granted,
			"type":    d.Type,
			"plate":   d.Plate,
			"message": d.Message,
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) events(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"events": s.controller.Events().Recent(50)})
}

func (s *Server) listPlates(c *gin.Context) {
	homeowners, guests := s.controller.Plates()
	c.JSON(http.StatusOK, gin.H{"homeowners": homeowners, "guests": guests})
}

type addPlateRequest struct {
	Plate string `json:"plate" binding:"required"`
	Guest bool   `json:"guest"`
}

func (s *Server) addPlate(c *gin.Context) {
	var req addPlateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.controller.AddPlate(req.Plate, req.Guest)
	c.JSON(http.StatusCreated, gin.H{"plate": req.Plate, "guest": req.Guest})
}

func (s *Server) removePlate(c *gin.Context) {
	plate := c.Param("plate")
	if !s.controller.RemovePlate(plate) {
		c.JSON(http.StatusNotFound, gin.H{"error": "plate not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plate": plate})
}
