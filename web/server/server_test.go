package server

import (
	"bufio"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func newTestServer() *Server {
	s := NewServer(0)
	s.staticDir = ""
	return s
}

type silentLogger struct{}

func (silentLogger) Printf(format string, args ...interface{}) {}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Expected JSON response, got content type %q", ct)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
}

// sseEvents parses a Server-Sent Events body into (event, data) pairs
func sseEvents(t *testing.T, body string) [][2]string {
	t.Helper()
	var events [][2]string
	var event string
	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 1<<20), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			events = append(events, [2]string{event, strings.TrimPrefix(line, "data: ")})
		}
	}
	return events
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, newTestServer(), "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	decodeJSON(t, rec, &body)
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body)
	}
}

func TestHandleScenes(t *testing.T) {
	rec := get(t, newTestServer(), "/api/scenes")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body struct {
		Groups []struct {
			Name   string `json:"name"`
			Scenes []struct {
				ID string `json:"id"`
			} `json:"scenes"`
		} `json:"groups"`
	}
	decodeJSON(t, rec, &body)
	if len(body.Groups) == 0 || body.Groups[0].Name != "Built-in Scenes" {
		t.Fatalf("Expected built-in scenes first, got %+v", body.Groups)
	}
	found := false
	for _, sc := range body.Groups[0].Scenes {
		if sc.ID == "cornell-box" {
			found = true
		}
	}
	if !found {
		t.Error("Expected cornell-box in built-in scenes")
	}
}

func TestHandleSceneConfig(t *testing.T) {
	s := newTestServer()

	t.Run("known scene", func(t *testing.T) {
		rec := get(t, s, "/api/scene-config?scene=glass")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var body struct {
			Scene    string `json:"scene"`
			Defaults struct {
				Width    int `json:"width"`
				MaxDepth int `json:"maxDepth"`
			} `json:"defaults"`
		}
		decodeJSON(t, rec, &body)
		if body.Scene != "glass" || body.Defaults.Width <= 0 || body.Defaults.MaxDepth != 8 {
			t.Errorf("Unexpected scene config %+v", body)
		}
	})

	t.Run("unknown scene", func(t *testing.T) {
		rec := get(t, s, "/api/scene-config?scene=nonexistent")
		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", rec.Code)
		}
	})
}

func TestHandleImage(t *testing.T) {
	s := newTestServer()

	t.Run("png", func(t *testing.T) {
		rec := get(t, s, "/api/image?scene=default&width=32&height=16")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("Expected image/png, got %q", ct)
		}
		img, err := png.Decode(rec.Body)
		if err != nil {
			t.Fatalf("Failed to decode PNG: %v", err)
		}
		if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 16 {
			t.Errorf("Expected 32x16 image, got %v", b)
		}
	})

	t.Run("ppm", func(t *testing.T) {
		rec := get(t, s, "/api/image?scene=default&width=16&format=ppm")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !strings.HasPrefix(rec.Body.String(), "P3\n16 8\n255\n") {
			t.Errorf("Unexpected PPM header: %q", rec.Body.String()[:12])
		}
	})

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"width too small", "width=2", http.StatusBadRequest},
		{"width not a number", "width=wide", http.StatusBadRequest},
		{"depth too large", "maxDepth=99", http.StatusBadRequest},
		{"fov out of range", "fov=200", http.StatusBadRequest},
		{"unsupported format", "format=gif", http.StatusBadRequest},
		{"unknown scene", "scene=nonexistent&width=16", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, "/api/image?"+tt.query)
			if rec.Code != tt.status {
				t.Errorf("Expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}

	t.Run("logs to console", func(t *testing.T) {
		rec := get(t, s, "/api/console")
		var body struct {
			Messages []ConsoleMessage `json:"messages"`
		}
		decodeJSON(t, rec, &body)
		if len(body.Messages) == 0 {
			t.Error("Expected renders to leave console messages")
		}
	})
}

func TestHandleRender(t *testing.T) {
	s := newTestServer()

	t.Run("streams tiles", func(t *testing.T) {
		rec := get(t, s, "/api/render?scene=default&width=40&height=20&tileSize=16")
		if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
			t.Fatalf("Expected event stream, got %q", ct)
		}

		var tiles []TileUpdate
		var complete *RenderComplete
		for _, ev := range sseEvents(t, rec.Body.String()) {
			switch ev[0] {
			case "tile":
				var tile TileUpdate
				if err := json.Unmarshal([]byte(ev[1]), &tile); err != nil {
					t.Fatalf("Bad tile event %q: %v", ev[1], err)
				}
				tiles = append(tiles, tile)
			case "complete":
				complete = &RenderComplete{}
				if err := json.Unmarshal([]byte(ev[1]), complete); err != nil {
					t.Fatalf("Bad complete event %q: %v", ev[1], err)
				}
			case "error":
				t.Fatalf("Unexpected error event: %s", ev[1])
			}
		}

		// 40x20 in 16 pixel tiles is 3x2 tiles
		if len(tiles) != 6 {
			t.Errorf("Expected 6 tile events, got %d", len(tiles))
		}
		for _, tile := range tiles {
			if tile.ImageData == "" || tile.TotalTiles != 6 {
				t.Errorf("Unexpected tile %+v", tile)
			}
		}
		if complete == nil {
			t.Fatal("Expected a complete event")
		}
		if complete.TotalPixels != 800 || complete.Tiles != 6 || complete.Width != 40 {
			t.Errorf("Unexpected completion stats %+v", complete)
		}
	})

	t.Run("invalid request", func(t *testing.T) {
		rec := get(t, s, "/api/render?width=1")
		events := sseEvents(t, rec.Body.String())
		if len(events) != 1 || events[0][0] != "error" {
			t.Errorf("Expected a single error event, got %v", events)
		}
	})

	t.Run("unknown scene", func(t *testing.T) {
		rec := get(t, s, "/api/render?scene="+url.QueryEscape("file:nonexistent"))
		events := sseEvents(t, rec.Body.String())
		if len(events) == 0 || events[len(events)-1][0] != "error" {
			t.Errorf("Expected an error event, got %v", events)
		}
	})
}

func TestHandleInspect(t *testing.T) {
	s := newTestServer()

	t.Run("hit", func(t *testing.T) {
		// The center of the default scene looks at the large middle sphere
		rec := get(t, s, "/api/inspect?scene=default&width=40&height=20&x=18&y=10")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var body InspectResponse
		decodeJSON(t, rec, &body)
		if !body.Hit || body.GeometryType != "sphere" {
			t.Fatalf("Expected a sphere hit, got %+v", body)
		}
		if body.Distance <= 0 || body.Inside {
			t.Errorf("Expected an outside hit in front of the camera, got %+v", body)
		}
		if body.N1 != 1 || body.N2 != 1 {
			t.Errorf("Expected vacuum indices for an opaque sphere, got n1=%v n2=%v", body.N1, body.N2)
		}
		if _, ok := body.Properties["material"]; !ok {
			t.Error("Expected material properties")
		}
	})

	t.Run("infinite bounds encode", func(t *testing.T) {
		// Bottom row of the cylinders scene sees the ground plane
		rec := get(t, s, "/api/inspect?scene=cylinders&width=40&height=20&x=20&y=19")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var body InspectResponse
		decodeJSON(t, rec, &body)
		if !body.Hit {
			t.Errorf("Expected a hit, got %+v", body)
		}
	})

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"missing x", "y=1", http.StatusBadRequest},
		{"bad y", "x=1&y=up", http.StatusBadRequest},
		{"out of bounds", "width=40&height=20&x=40&y=0", http.StatusBadRequest},
		{"negative", "width=40&height=20&x=-1&y=0", http.StatusBadRequest},
		{"unknown scene", "scene=nonexistent&x=0&y=0", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, "/api/inspect?"+tt.query)
			if rec.Code != tt.status {
				t.Errorf("Expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSetupRenderingPipeline_Depth(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name     string
		query    string
		expected int
	}{
		{"scene default", "scene=glass&width=16", 8},
		{"no bounces", "scene=glass&width=16&maxDepth=0", 0},
		{"explicit depth", "scene=glass&width=16&maxDepth=3", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/image?"+tt.query, nil)
			req, err := s.parseRenderRequest(r)
			if err != nil {
				t.Fatalf("parseRenderRequest: %v", err)
			}
			pipeline, err := s.setupRenderingPipeline(req, silentLogger{})
			if err != nil {
				t.Fatalf("setupRenderingPipeline: %v", err)
			}
			if got := pipeline.Raytracer.Config().MaxDepth; got != tt.expected {
				t.Errorf("Expected depth %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestParseIntParam(t *testing.T) {
	values := url.Values{"n": {"7"}, "bad": {"x"}}
	if v, err := parseIntParam(values, "n", 1, 0, 10); err != nil || v != 7 {
		t.Errorf("Expected 7, got %d (%v)", v, err)
	}
	if v, err := parseIntParam(values, "missing", 3, 0, 10); err != nil || v != 3 {
		t.Errorf("Expected default 3, got %d (%v)", v, err)
	}
	if _, err := parseIntParam(values, "bad", 0, 0, 10); err == nil {
		t.Error("Expected error for non-numeric value")
	}
	if _, err := parseIntParam(values, "n", 0, 0, 5); err == nil {
		t.Error("Expected error for out of range value")
	}
	if v, err := parseFloatParam(url.Values{"f": {"0.5"}}, "f", 0, 0, 1); err != nil || v != 0.5 {
		t.Errorf("Expected 0.5, got %v (%v)", v, err)
	}
}

func TestNewServerWithOptions(t *testing.T) {
	s := NewServerWithOptions(9000, Options{ConsoleHistory: 3})
	if s.staticDir != "static/" {
		t.Errorf("Expected default static dir, got %q", s.staticDir)
	}
	if s.console.limit != 3 {
		t.Errorf("Expected console history 3, got %d", s.console.limit)
	}

	s = NewServerWithOptions(9000, Options{StaticDir: "public/"})
	if s.staticDir != "public/" {
		t.Errorf("Expected static dir public/, got %q", s.staticDir)
	}
	if s.console.limit != DefaultConsoleHistory {
		t.Errorf("Expected default console history, got %d", s.console.limit)
	}
}
