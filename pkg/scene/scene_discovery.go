package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/loaders"
)

// ErrUnknownScene is returned by Create for ids that name no scene
var ErrUnknownScene = errors.New("unknown scene")

const (
	builtinGroup     = "Built-in Scenes"
	defaultFileGroup = "Scene Files"
	fileIDPrefix     = "file:"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to the JSON scene file (file type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

type builtinScene struct {
	info  SceneInfo
	build func(overrides ...CameraConfig) *Scene
}

var builtinScenes = []builtinScene{
	{SceneInfo{ID: "default", Name: "Default Scene", Description: "Three spheres in a corner of flattened-sphere walls"}, NewDefaultScene},
	{SceneInfo{ID: "patterns", Name: "Patterns", Description: "Stripe, gradient, ring and checker patterns"}, NewPatternScene},
	{SceneInfo{ID: "glass", Name: "Glass", Description: "Refraction and Fresnel reflection over a mirrored floor"}, NewGlassScene},
	{SceneInfo{ID: "cornell-box", Name: "Cornell Box", Description: "Cornell box with a mirror and a glass sphere"}, NewCornellScene},
	{SceneInfo{ID: "cylinders", Name: "Cylinders and Cones", Description: "Open and capped cylinders, cones and frustums"}, NewCylinderScene},
	{SceneInfo{ID: "csg", Name: "Constructive Solid Geometry", Description: "Union, intersection and difference"}, NewCSGScene},
	{SceneInfo{ID: "group", Name: "Hexagon Group", Description: "Nested groups forming a hexagon"}, NewGroupScene},
	{SceneInfo{ID: "sphere-grid", Name: "Sphere Grid", Description: "20x20 grid of reflective rainbow spheres in a divided group"}, func(overrides ...CameraConfig) *Scene {
		return NewSphereGridScene(DefaultGridSize, overrides...)
	}},
	{SceneInfo{ID: "triangle-mesh", Name: "Triangle Mesh", Description: "Flat and smooth triangle meshes"}, NewTriangleMeshScene},
}

// ListBuiltinScenes returns the scenes compiled into the binary
func ListBuiltinScenes() []SceneInfo {
	infos := make([]SceneInfo, len(builtinScenes))
	for i, b := range builtinScenes {
		info := b.info
		info.DisplayName = info.Name
		info.Group = builtinGroup
		info.Type = "builtin"
		infos[i] = info
	}
	return infos
}

// findScenesDir returns the first scenes directory found from the working directory
func findScenesDir() string {
	for _, path := range []string{"scenes", "../scenes"} {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path
		}
	}
	return ""
}

// ListFileScenes scans dir for JSON scene files. An empty dir means the
// scenes directory next to the working directory; a missing one yields no scenes.
func ListFileScenes(dir string) ([]SceneInfo, error) {
	if dir == "" {
		dir = findScenesDir()
		if dir == "" {
			return []SceneInfo{}, nil
		}
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		sceneInfo, err := ParseSceneMetadata(filePath)
		if err != nil {
			// Skip unreadable files; the rest of the directory is still usable
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes, nil
}

// ParseSceneMetadata reads the name, description and group of a JSON scene file,
// falling back to values derived from the file name
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	nameWithoutExt := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	sceneInfo := SceneInfo{
		ID:       fileIDPrefix + nameWithoutExt,
		Name:     titleCase(nameWithoutExt),
		Group:    defaultFileGroup,
		Type:     "file",
		FilePath: filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return sceneInfo, err
	}
	var meta struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Group       string `json:"group"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return sceneInfo, err
	}

	if meta.Name != "" {
		sceneInfo.Name = meta.Name
	}
	if meta.Group != "" {
		sceneInfo.Group = meta.Group
	}
	sceneInfo.Description = meta.Description
	sceneInfo.DisplayName = sceneInfo.Name
	return sceneInfo, nil
}

// ListAllScenes returns both built-in and file scenes, grouped by category
func ListAllScenes() (ScenesResponse, error) {
	var response ScenesResponse

	fileScenes, err := ListFileScenes("")
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}
	allScenes := append(ListBuiltinScenes(), fileScenes...)

	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtinGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	response.Groups = append(response.Groups, SceneGroup{Name: builtinGroup, Scenes: groupMap[builtinGroup]})
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{Name: groupName, Scenes: groupMap[groupName]})
	}

	return response, nil
}

// Create builds the scene with the given id: a built-in id, "file:<name>"
// for a scene file in the scenes directory, or a path to a .json file.
func Create(id string, cameraOverrides ...CameraConfig) (*Scene, error) {
	for _, b := range builtinScenes {
		if b.info.ID == id {
			return b.build(cameraOverrides...), nil
		}
	}

	var path string
	switch {
	case strings.HasPrefix(id, fileIDPrefix):
		dir := findScenesDir()
		if dir == "" {
			return nil, fmt.Errorf("%q: no scenes directory: %w", id, ErrUnknownScene)
		}
		path = filepath.Join(dir, strings.TrimPrefix(id, fileIDPrefix)+".json")
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%q: %w", id, ErrUnknownScene)
		}
	case strings.HasSuffix(strings.ToLower(id), ".json"):
		path = id
	default:
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownScene)
	}

	return LoadFileScene(path, cameraOverrides...)
}

// LoadFileScene loads a JSON scene file; camera overrides replace the file's camera settings
func LoadFileScene(path string, cameraOverrides ...CameraConfig) (*Scene, error) {
	sf, err := loaders.LoadSceneFile(path)
	if err != nil {
		return nil, err
	}
	applyCameraOverrides(&sf.Camera, cameraOverrides)

	world, camera, err := sf.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	name := sf.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	c := sf.Camera
	return &Scene{
		Name:   name,
		World:  world,
		Camera: camera,
		CameraConfig: CameraConfig{
			Width:       c.Width,
			Height:      c.Height,
			FieldOfView: c.FieldOfView * math.Pi / 180,
			From:        c.From.Vec3(),
			To:          c.To.Vec3(),
			Up:          c.Up.Vec3(),
		},
		MaxDepth: sf.MaxDepth,
	}, nil
}

// applyCameraOverrides folds the size and field of view of an override into a file camera
func applyCameraOverrides(cam *loaders.CameraConfig, cameraOverrides []CameraConfig) {
	if len(cameraOverrides) == 0 {
		return
	}
	o := cameraOverrides[0]
	if o.Width > 0 {
		if o.Height <= 0 {
			cam.Height = max(1, int(math.Round(float64(o.Width)*float64(cam.Height)/float64(cam.Width))))
		}
		cam.Width = o.Width
	}
	if o.Height > 0 {
		cam.Height = o.Height
	}
	if o.FieldOfView > 0 {
		cam.FieldOfView = o.FieldOfView * 180 / math.Pi
	}
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
