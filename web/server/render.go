package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// TileUpdate represents a single tile update sent via SSE
type TileUpdate struct {
	TileX      int    `json:"tileX"`
	TileY      int    `json:"tileY"`
	X          int    `json:"x"` // Pixel position of the tile's top left corner
	Y          int    `json:"y"`
	ImageData  string `json:"imageData"`  // Base64 encoded PNG of just this tile
	TileNumber int    `json:"tileNumber"` // Tiles finished so far (1-based)
	TotalTiles int    `json:"totalTiles"` // Total number of tiles in the image
}

// RenderComplete is the final SSE event of a successful render
type RenderComplete struct {
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	TotalPixels    int     `json:"totalPixels"`
	Tiles          int     `json:"tiles"`
	Workers        int     `json:"workers"`
	ElapsedMs      int64   `json:"elapsedMs"`
	PixelsPerSec   float64 `json:"pixelsPerSecond"`
	PrimitiveCount int     `json:"primitiveCount"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "tile", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// RenderingPipeline contains the configured scene and raytracer
type RenderingPipeline struct {
	Scene     *scene.Scene
	Raytracer *renderer.Raytracer
}

// handleRender renders a scene, streaming finished tiles and log lines via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	ctx := r.Context()

	// Single writer goroutine; it drains the channel until it is closed
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		s.writeSSEEvents(w, ctx, sseEventChan)
		close(writerDone)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Setup console logging and streaming
	consoleChan, webLogger := s.setupConsoleLogging()
	consoleDone := make(chan struct{})
	go func() {
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
		close(consoleDone)
	}()
	defer func() {
		close(consoleChan)
		<-consoleDone
	}()

	pipeline, err := s.setupRenderingPipeline(req, webLogger)
	if err != nil {
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	_, stats, err := pipeline.Raytracer.Render(ctx, func(tile renderer.TileCompletionResult) {
		s.handleTileUpdate(ctx, sseEventChan, tile)
	})
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	s.handleRenderComplete(ctx, sseEventChan, pipeline, stats)
}

// handleImage renders a scene and responds with the encoded image
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	logger := NewWebLogger(newRenderID(), nil, s.console)
	pipeline, err := s.setupRenderingPipeline(req, logger)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	canvas, _, err := pipeline.Raytracer.Render(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "Rendering failed: "+err.Error())
		return
	}

	var buf bytes.Buffer
	if err := canvas.Encode(&buf, req.Format); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", imageContentType(req.Format))
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// imageContentType returns the MIME type of a canvas format
func imageContentType(format string) string {
	switch strings.ToLower(format) {
	case "png":
		return "image/png"
	case "bmp":
		return "image/bmp"
	case "tif", "tiff":
		return "image/tiff"
	case "ppm":
		return "image/x-portable-pixmap"
	default:
		return "application/octet-stream"
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

func newRenderID() string {
	return fmt.Sprintf("render-%d", time.Now().UnixNano())
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	webLogger := NewWebLogger(newRenderID(), consoleChan, s.console)
	return consoleChan, webLogger
}

// writeSSEEvents writes every event in a single goroutine (thread-safe).
// Once the client is gone or a write fails, remaining events are discarded.
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan <-chan SSEEvent) {
	failed := false
	for event := range sseEventChan {
		if failed || ctx.Err() != nil {
			continue
		}

		// SSE data lines cannot contain newlines
		data := strings.ReplaceAll(event.Data, "\n", " ")
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data); err != nil {
			failed = true
			continue
		}
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
	}
}

// streamConsoleMessages forwards console messages to the SSE channel until consoleChan is closed
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}

		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		default:
			// Channel full, skip message to avoid blocking
		}
	}
}

// setupRenderingPipeline creates and configures the scene and raytracer
func (s *Server) setupRenderingPipeline(req *RenderRequest, logger core.Logger) (*RenderingPipeline, error) {
	sceneObj, err := s.createScene(req, logger)
	if err != nil {
		return nil, err
	}

	config := renderer.DefaultRenderConfig()
	config.MaxDepth = sceneObj.MaxDepth
	if req.MaxDepth >= 0 {
		config.MaxDepth = req.MaxDepth
	}
	if req.TileSize > 0 {
		config.TileSize = req.TileSize
	}

	return &RenderingPipeline{
		Scene:     sceneObj,
		Raytracer: renderer.NewRaytracer(sceneObj.World, sceneObj.Camera, config, logger),
	}, nil
}

// handleTileUpdate processes and sends tile update events
func (s *Server) handleTileUpdate(ctx context.Context, sseEventChan chan<- SSEEvent, tile renderer.TileCompletionResult) {
	if ctx.Err() != nil {
		return
	}

	tileData, err := s.imageToBase64PNG(tile.TileImage)
	if err != nil {
		log.Printf("Error encoding tile image (%d, %d): %v", tile.TileX, tile.TileY, err)
		return
	}

	update := TileUpdate{
		TileX:      tile.TileX,
		TileY:      tile.TileY,
		X:          tile.Bounds.Min.X,
		Y:          tile.Bounds.Min.Y,
		ImageData:  tileData,
		TileNumber: tile.TileNumber,
		TotalTiles: tile.TotalTiles,
	}
	s.sendJSONEvent(ctx, sseEventChan, "tile", update)
}

// handleRenderComplete sends the final statistics of a render
func (s *Server) handleRenderComplete(ctx context.Context, sseEventChan chan<- SSEEvent, pipeline *RenderingPipeline, stats renderer.RenderStats) {
	camera := pipeline.Scene.Camera
	s.sendJSONEvent(ctx, sseEventChan, "complete", RenderComplete{
		Width:          camera.HSize,
		Height:         camera.VSize,
		TotalPixels:    stats.TotalPixels,
		Tiles:          stats.Tiles,
		Workers:        stats.Workers,
		ElapsedMs:      stats.Elapsed.Milliseconds(),
		PixelsPerSec:   stats.PixelsPerSecond(),
		PrimitiveCount: pipeline.Scene.GetPrimitiveCount(),
	})
}

// sendJSONEvent marshals v and queues it, giving up if the client disconnects
func (s *Server) sendJSONEvent(ctx context.Context, sseEventChan chan<- SSEEvent, eventType string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error marshaling %s event: %v", eventType, err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: eventType, Data: string(data)}:
	case <-ctx.Done():
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan<- SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}
