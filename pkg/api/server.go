// Package api provides the REST API server for rc0patch
package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Southclaws/fault/ftag"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/james-see/rc0patch/pkg/converter"
	"github.com/james-see/rc0patch/pkg/library"
	"github.com/james-see/rc0patch/pkg/rc0"
)

// @title rc0patch API
// @version 1.0
// @description API for reading, writing and converting looper patch (.RC0) files
// @host localhost:8080
// @BasePath /api/v1

// Server holds the collaborators the handlers share
type Server struct {
	conv *converter.Converter
	lib  *library.Library
}

// NewServer creates a Server. lib may be nil, in which case the patch
// library routes answer 404.
func NewServer(conv *converter.Converter, lib *library.Library) *Server {
	if conv == nil {
		conv = converter.New(nil)
	}
	return &Server{conv: conv, lib: lib}
}

// StartServer starts the API server on the specified port
func StartServer(port int, conv *converter.Converter, lib *library.Library) error {
	return NewServer(conv, lib).Router().Run(fmt.Sprintf(":%d", port))
}

// Router builds the gin engine with every route registered
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/effects", listEffects)
		v1.GET("/formats", listFormats)
		v1.POST("/decode", s.handleDecode)
		v1.POST("/encode", s.handleEncode)
		v1.POST("/convert/rc02json", s.handleRC0ToJSON)
		v1.POST("/convert/rc02yaml", s.handleRC0ToYAML)
		v1.POST("/convert/rc02midi", s.handleRC0ToMIDI)
		v1.POST("/convert/json2rc0", s.handleJSONToRC0)
		v1.POST("/convert/yaml2rc0", s.handleYAMLToRC0)
		v1.GET("/patches", s.listPatches)
		v1.GET("/patches/:file", s.getPatch)
		v1.GET("/system", s.getSystem)
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
		"service": "rc0patch",
	})
}

// listEffects godoc
// @Summary List effect types
// @Description Returns the effect registry in canonical order
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]rc0.EffectInfo
// @Router /api/v1/effects [get]
func listEffects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"effects": rc0.Effects()})
}

// listFormats godoc
// @Summary List supported formats
// @Description Returns a list of supported file formats
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/formats [get]
func listFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"formats":     []string{"rc0", "json", "yaml", "midi"},
		"conversions": converter.GetSupportedConversions(),
	})
}

// handleDecode godoc
// @Summary Decode an .RC0 file
// @Description Upload a patch file and receive the decoded patch as JSON
// @Tags patch
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true ".RC0 file to decode"
// @Success 200 {object} rc0.Patch
// @Failure 400 {object} map[string]string
// @Router /api/v1/decode [post]
func (s *Server) handleDecode(c *gin.Context) {
	data, _, ok := readUpload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.conv.GetCodec().DecodePatch(string(data)))
}

// handleEncode godoc
// @Summary Encode a patch
// @Description Post a patch as JSON and receive the .RC0 document
// @Tags patch
// @Accept json
// @Produce application/xml
// @Param patch body rc0.Patch true "Patch to encode"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/encode [post]
func (s *Server) handleEncode(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}
	p, err := s.conv.Decode(body, converter.FormatJSON)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := s.conv.Encode(p, converter.FormatRC0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", "attachment; filename=patch.RC0")
	c.Data(http.StatusOK, contentType(converter.FormatRC0), out)
}

// handleRC0ToJSON godoc
// @Summary Convert .RC0 to JSON
// @Description Upload a patch file and receive a JSON file
// @Tags convert
// @Accept multipart/form-data
// @Produce application/octet-stream
// @Param file formData file true ".RC0 file to convert"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/convert/rc02json [post]
func (s *Server) handleRC0ToJSON(c *gin.Context) {
	s.handleConversion(c, converter.FormatRC0, converter.FormatJSON)
}

// handleRC0ToYAML godoc
// @Summary Convert .RC0 to YAML
// @Description Upload a patch file and receive a YAML file
// @Tags convert
// @Accept multipart/form-data
// @Produce application/octet-stream
// @Param file formData file true ".RC0 file to convert"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/convert/rc02yaml [post]
func (s *Server) handleRC0ToYAML(c *gin.Context) {
	s.handleConversion(c, converter.FormatRC0, converter.FormatYAML)
}

// handleRC0ToMIDI godoc
// @Summary Build a MIDI recall file
// @Description Upload a patch file and receive a MIDI file that selects its memory
// @Tags convert
// @Accept multipart/form-data
// @Produce audio/midi
// @Param file formData file true ".RC0 file"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/convert/rc02midi [post]
func (s *Server) handleRC0ToMIDI(c *gin.Context) {
	s.handleConversion(c, converter.FormatRC0, converter.FormatMIDI)
}

// handleJSONToRC0 godoc
// @Summary Convert JSON to .RC0
// @Description Upload a JSON patch and receive a .RC0 file
// @Tags convert
// @Accept multipart/form-data
// @Produce application/octet-stream
// @Param file formData file true "JSON patch"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/convert/json2rc0 [post]
func (s *Server) handleJSONToRC0(c *gin.Context) {
	s.handleConversion(c, converter.FormatJSON, converter.FormatRC0)
}

// handleYAMLToRC0 godoc
// @Summary Convert YAML to .RC0
// @Description Upload a YAML patch and receive a .RC0 file
// @Tags convert
// @Accept multipart/form-data
// @Produce application/octet-stream
// @Param file formData file true "YAML patch"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/convert/yaml2rc0 [post]
func (s *Server) handleYAMLToRC0(c *gin.Context) {
	s.handleConversion(c, converter.FormatYAML, converter.FormatRC0)
}

func (s *Server) handleConversion(c *gin.Context, from, to converter.Format) {
	data, filename, ok := readUpload(c)
	if !ok {
		return
	}

	outputName := strings.TrimSuffix(filename, filepath.Ext(filename))
	if outputName == "" {
		outputName = "converted"
	}
	outputName += to.Extension()

	res := s.conv.Convert(data, from, to, outputName)
	if res.Error != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": res.Error.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", res.Filename))
	c.Data(http.StatusOK, contentType(to), res.Data)
}

// listPatches godoc
// @Summary List patch files
// @Description Lists the .RC0 files of the configured DATA directory
// @Tags library
// @Produce json
// @Success 200 {object} map[string][]library.Entry
// @Failure 404 {object} map[string]string
// @Router /api/v1/patches [get]
func (s *Server) listPatches(c *gin.Context) {
	if !s.requireLibrary(c) {
		return
	}
	entries, err := s.lib.List()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dir": s.lib.Dir(), "patches": entries})
}

// getPatch godoc
// @Summary Read a patch file
// @Description Decodes one file of the DATA directory. format=rc0 returns the re-encoded document.
// @Tags library
// @Produce json
// @Param file path string true "File name, e.g. MEMORY001A.RC0"
// @Param format query string false "json (default), yaml or rc0"
// @Success 200 {object} rc0.Patch
// @Failure 404 {object} map[string]string
// @Router /api/v1/patches/{file} [get]
func (s *Server) getPatch(c *gin.Context) {
	if !s.requireLibrary(c) {
		return
	}
	p, err := s.lib.Load(c.Param("file"))
	if err != nil {
		writeError(c, err)
		return
	}

	format := converter.Format(c.DefaultQuery("format", string(converter.FormatJSON)))
	if format == converter.FormatJSON {
		c.JSON(http.StatusOK, p)
		return
	}
	out, err := s.conv.Encode(p, format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, contentType(format), out)
}

// getSystem godoc
// @Summary Read the system settings
// @Description Returns the control groups of the SYSTEM file with the higher count
// @Tags library
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/v1/system [get]
func (s *Server) getSystem(c *gin.Context) {
	if !s.requireLibrary(c) {
		return
	}
	name, err := s.lib.AuthoritativeSystemFile()
	if err != nil {
		writeError(c, err)
		return
	}
	data, err := os.ReadFile(filepath.Join(s.lib.Dir(), name))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	count, _ := rc0.ParseCount(string(data))
	c.JSON(http.StatusOK, gin.H{
		"file":    name,
		"count":   count,
		"control": rc0.DecodeControlSettings(string(data)),
	})
}

func (s *Server) requireLibrary(c *gin.Context) bool {
	if s.lib == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No data directory configured"})
		return false
	}
	return true
}

func readUpload(c *gin.Context) ([]byte, string, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return nil, "", false
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return nil, "", false
	}
	return data, header.Filename, true
}

// writeError maps tagged errors onto status codes
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch ftag.Get(err) {
	case ftag.NotFound:
		status = http.StatusNotFound
	case ftag.InvalidArgument:
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func contentType(f converter.Format) string {
	switch f {
	case converter.FormatMIDI:
		return "audio/midi"
	case converter.FormatJSON:
		return "application/json"
	case converter.FormatYAML:
		return "application/yaml"
	case converter.FormatRC0:
		return "application/xml"
	default:
		return "application/octet-stream"
	}
}
