// Package api provides the REST API server for snowflake2midi
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/james-see/snowflake2midi/pkg/config"
	"github.com/james-see/snowflake2midi/pkg/converter"
	"github.com/james-see/snowflake2midi/pkg/converter/voices"
	"github.com/james-see/snowflake2midi/pkg/fractal"
	"github.com/james-see/snowflake2midi/pkg/score"
)

// @title Snowflake2MIDI API
// @version 1.0
// @description API for turning a fractal snowflake curve into a two-track score
// @host localhost:8080
// @BasePath /api/v1

// Server holds the settings requests are validated against.
type Server struct {
	settings *config.Settings
}

// NewServer creates a server using settings for defaults and limits.
func NewServer(settings *config.Settings) *Server {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	return &Server{settings: settings}
}

// StartServer starts the API server on the specified port
func StartServer(port int, settings *config.Settings) error {
	return NewServer(settings).Router().Run(fmt.Sprintf(":%d", port))
}

// Router builds the gin engine with all routes.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware())
	r.Use(requestID())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/formats", listFormats)
		v1.GET("/palette", listPalette)
		v1.GET("/voices", listVoices)
		v1.POST("/curve", s.handleCurve)
		v1.POST("/score", s.handleScore)
		v1.POST("/midi", s.handleMIDI)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requestID tags each request with a UUID, reusing the client's
// X-Request-ID only when it is one. The id ends up in download file names.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()
		if u, err := uuid.Parse(c.GetHeader("X-Request-ID")); err == nil {
			id = u.String()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "snowflake2midi",
	})
}

// listFormats godoc
// @Summary List supported formats
// @Description Returns the output formats a generation run can be rendered as
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/formats [get]
func listFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"formats": converter.GetSupportedFormats(),
	})
}

// listPalette godoc
// @Summary List the chord palette
// @Description Returns the seed triads used for periodic chord punctuation, and the tempo
// @Tags info
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/palette [get]
func listPalette(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"palette": score.Palette,
		"tempo":   score.Tempo,
	})
}

// listVoices godoc
// @Summary List voice presets
// @Description Returns the instrument presets tracks can be realized with
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/voices [get]
func listVoices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"voices": voices.Names(),
	})
}

// generateRequest is the JSON body accepted by the generation endpoints.
// Omitted fields fall back to the server settings.
type generateRequest struct {
	Order           *int     `json:"order"`
	Scale           *float64 `json:"scale"`
	DurationSeconds *float64 `json:"duration_seconds"`
	ClampHarmony    *bool    `json:"clamp_harmony"`
	Lead            string   `json:"lead"`
	Harmony         string   `json:"harmony"`
}

func (s *Server) bind(c *gin.Context) (*converter.Result, *converter.Converter, bool) {
	var body generateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return nil, nil, false
		}
	}

	req := converter.Request{
		Order:           s.settings.Order,
		Scale:           s.settings.Scale,
		DurationSeconds: s.settings.DurationSeconds,
		ClampHarmony:    s.settings.ClampHarmony,
	}
	if body.Order != nil {
		req.Order = *body.Order
	}
	if body.Scale != nil {
		req.Scale = *body.Scale
	}
	if body.DurationSeconds != nil {
		req.DurationSeconds = *body.DurationSeconds
	}
	if body.ClampHarmony != nil {
		req.ClampHarmony = *body.ClampHarmony
	}

	if s.settings.MaxOrder > 0 && req.Order > s.settings.MaxOrder {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("order %d exceeds the maximum of %d", req.Order, s.settings.MaxOrder),
		})
		return nil, nil, false
	}

	lead := voices.New("Lead", s.settings.LeadProgram, voices.LeadChannel)
	harmony := voices.New("Harmony", s.settings.HarmonyProgram, voices.HarmonyChannel)
	if body.Lead != "" {
		v, ok := voices.Lookup(body.Lead)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown lead voice"})
			return nil, nil, false
		}
		lead = voices.New(v.Name(), v.Program(), voices.LeadChannel)
	}
	if body.Harmony != "" {
		v, ok := voices.Lookup(body.Harmony)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown harmony voice"})
			return nil, nil, false
		}
		harmony = voices.New(v.Name(), v.Program(), voices.HarmonyChannel)
	}

	res, err := converter.Build(req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, fractal.ErrInvalidArgument) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return nil, nil, false
	}

	conv := converter.New(lead, harmony)
	conv.SetTicksPerQuarter(s.settings.TicksPerQuarter)
	return res, conv, true
}

// handleCurve godoc
// @Summary Generate the fractal curve
// @Description Returns the curve points for the given order and scale
// @Tags generate
// @Accept json
// @Produce json
// @Param request body generateRequest false "Generation parameters"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/curve [post]
func (s *Server) handleCurve(c *gin.Context) {
	res, _, ok := s.bind(c)
	if !ok {
		return
	}

	points := make([][2]float64, res.Curve.Len())
	for i := range points {
		p := res.Curve.At(i)
		points[i] = [2]float64{p.X, p.Y}
	}

	lo, hi := res.Curve.Bounds()
	c.JSON(http.StatusOK, gin.H{
		"order":  res.Curve.Order(),
		"scale":  res.Curve.Scale(),
		"points": points,
		"bounds": [2][2]float64{{lo.X, lo.Y}, {hi.X, hi.Y}},
	})
}

// handleScore godoc
// @Summary Compose the score
// @Description Returns the ordered two-track score for the generated curve
// @Tags generate
// @Accept json
// @Produce json
// @Param request body generateRequest false "Generation parameters"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/score [post]
func (s *Server) handleScore(c *gin.Context) {
	res, conv, ok := s.bind(c)
	if !ok {
		return
	}
	s.render(c, conv, res, converter.FormatJSON)
}

// handleMIDI godoc
// @Summary Render the score as MIDI
// @Description Returns a format 1 MIDI file with lead and harmony tracks
// @Tags generate
// @Accept json
// @Produce application/octet-stream
// @Param request body generateRequest false "Generation parameters"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/midi [post]
func (s *Server) handleMIDI(c *gin.Context) {
	res, conv, ok := s.bind(c)
	if !ok {
		return
	}
	s.render(c, conv, res, converter.FormatMIDI)
}

func (s *Server) render(c *gin.Context, conv *converter.Converter, res *converter.Result, f converter.Format) {
	data, err := conv.Encode(res, f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if f != converter.FormatJSON {
		outputName := fmt.Sprintf("snowflake-%s%s", c.GetString("request_id"), f.Extension())
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outputName))
	}
	c.Data(http.StatusOK, f.ContentType(), data)
}
