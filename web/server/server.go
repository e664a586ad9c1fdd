package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Request limits
const (
	DefaultScene    = "default"
	DefaultWidth    = 400
	MinImageSize    = 16
	MaxImageSize    = 2000
	MaxRenderDepth  = 20
	DefaultTileSize = 32

	// SceneDepth is the MaxDepth of a request without maxDepth: the scene's suggestion
	SceneDepth = -1
)

// Server handles web requests for the raytracer
type Server struct {
	port      int
	staticDir string
	console   *ConsoleLog
}

// Options configures a Server beyond its port
type Options struct {
	StaticDir      string // Directory served at /, "static/" when empty
	ConsoleHistory int    // Log lines kept for /api/console, DefaultConsoleHistory when 0
}

// NewServer creates a new web server with default options
func NewServer(port int) *Server {
	return NewServerWithOptions(port, Options{})
}

// NewServerWithOptions creates a new web server
func NewServerWithOptions(port int, opts Options) *Server {
	if opts.StaticDir == "" {
		opts.StaticDir = "static/"
	}
	return &Server{
		port:      port,
		staticDir: opts.StaticDir,
		console:   NewConsoleLog(opts.ConsoleHistory),
	}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene    string  `json:"scene"`    // Scene id (e.g., "cornell-box" or "file:glass-spheres")
	Width    int     `json:"width"`    // Image width
	Height   int     `json:"height"`   // Image height, 0 keeps the scene's aspect ratio
	FOV      float64 `json:"fov"`      // Field of view in degrees, 0 keeps the scene's
	MaxDepth int     `json:"maxDepth"` // Reflection/refraction depth, SceneDepth uses the scene's suggestion
	TileSize int     `json:"tileSize"` // Tile edge length for streamed renders
	Format   string  `json:"format"`   // Image format for /api/image
}

// Handler returns the router serving the API and the static front-end
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))

	// API endpoints
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/image", s.handleImage)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/console", s.handleConsole)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// writeJSON writes v with the given status code
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeError writes a JSON error body
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes and the scene files found on disk
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleConsole returns the most recent log lines of all renders
func (s *Server) handleConsole(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": s.console.Recent()})
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = DefaultScene
	}

	sceneObj, err := scene.Create(sceneName)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	config := sceneObj.CameraConfig
	response := map[string]interface{}{
		"scene": sceneName,
		"name":  sceneObj.Name,
		"defaults": map[string]interface{}{
			"width":          config.Width,
			"height":         config.Height,
			"fov":            config.FieldOfView * 180 / math.Pi,
			"maxDepth":       sceneObj.MaxDepth,
			"primitiveCount": sceneObj.GetPrimitiveCount(),
		},
		"limits": map[string]interface{}{
			"width":    map[string]int{"min": MinImageSize, "max": MaxImageSize},
			"height":   map[string]int{"min": MinImageSize, "max": MaxImageSize},
			"maxDepth": map[string]int{"min": 0, "max": MaxRenderDepth},
		},
	}
	writeJSON(w, http.StatusOK, response)
}

// parseCommonSceneParams parses the scene selection and image size shared by all scene endpoints
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) error {
	query := r.URL.Query()
	if req.Scene = query.Get("scene"); req.Scene == "" {
		req.Scene = DefaultScene
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", DefaultWidth, MinImageSize, MaxImageSize); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(query, "height", 0, MinImageSize, MaxImageSize); err != nil {
		return err
	}
	if req.FOV, err = parseFloatParam(query, "fov", 0, 1, 179); err != nil {
		return err
	}
	return nil
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, req); err != nil {
		return nil, err
	}

	query := r.URL.Query()
	var err error
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", SceneDepth, 0, MaxRenderDepth); err != nil {
		return nil, err
	}
	if req.TileSize, err = parseIntParam(query, "tileSize", DefaultTileSize, 8, 256); err != nil {
		return nil, err
	}
	if req.Format = query.Get("format"); req.Format == "" {
		req.Format = "png"
	}
	if !renderer.SupportedFormat(req.Format) {
		return nil, fmt.Errorf("unsupported format: %s", req.Format)
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene builds the requested scene at the requested size
func (s *Server) createScene(req *RenderRequest, logger core.Logger) (*scene.Scene, error) {
	sceneObj, err := scene.Create(req.Scene, scene.CameraConfig{
		Width:       req.Width,
		Height:      req.Height,
		FieldOfView: req.FOV * math.Pi / 180,
	})
	if err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Printf("Scene %s: %d primitives, %dx%d\n",
			sceneObj.Name, sceneObj.GetPrimitiveCount(), sceneObj.Camera.HSize, sceneObj.Camera.VSize)
	}
	return sceneObj, nil
}

// sceneErrorStatus maps scene creation errors to HTTP status codes
func sceneErrorStatus(err error) int {
	if errors.Is(err, scene.ErrUnknownScene) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
