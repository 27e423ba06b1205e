package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/oak/errors"
	"github.com/wippyai/oak/value"
)

// Backends lists the accepted values of Config.Backend.
var Backends = []string{"lua", "wasm"}

// Config is the decoded configuration file.
type Config struct {
	Script          string    `hcl:"script,optional"`
	Backend         string    `hcl:"backend,optional"`
	LogLevel        string    `hcl:"log_level,optional"`
	LogFormat       string    `hcl:"log_format,optional"`
	BackgroundColor []float64 `hcl:"background_color,optional"`
	Worlds          []*World  `hcl:"world,block"`
	FrameRate       int       `hcl:"frame_rate,optional"`
	Sandbox         bool      `hcl:"sandbox,optional"`

	// BaseFolder is the folder scripts resolve against. Load sets it to the
	// folder of the configuration file.
	BaseFolder string
}

// World declares a world and its initial content.
type World struct {
	Name     string    `hcl:"name,label"`
	Entities []*Entity `hcl:"entity,block"`
	Views    []*View   `hcl:"view,block"`
}

// Entity declares an entity with its transform and components.
type Entity struct {
	Name       string    `hcl:"name,label"`
	Components []string  `hcl:"components,optional"`
	Position   []float64 `hcl:"position,optional"`
	Rotation   []float64 `hcl:"rotation,optional"`
}

// View declares a view of the enclosing world.
type View struct {
	Name     string `hcl:"name,label"`
	Camera   string `hcl:"camera,optional"`
	Priority int    `hcl:"priority,optional"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Script:          "main.lua",
		Backend:         "lua",
		FrameRate:       30,
		LogLevel:        "info",
		LogFormat:       "console",
		BackgroundColor: []float64{0.4, 0.6, 0.7},
		BaseFolder:      ".",
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, errors.ParseFailed(path, diags)
	}
	return decode(file, path)
}

// Parse decodes and validates src. filename labels diagnostics and
// determines the base folder.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.ParseFailed(filename, diags)
	}
	return decode(file, filename)
}

func decode(file *hcl.File, filename string) (*Config, error) {
	cfg := Default()
	cfg.BaseFolder = filepath.Dir(filename)

	if diags := gohcl.DecodeBody(file.Body, evalContext(cfg.BaseFolder), cfg); diags.HasErrors() {
		return nil, errors.ParseFailed(filename, diags)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func evalContext(baseFolder string) *hcl.EvalContext {
	env := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		name, val, ok := strings.Cut(kv, "=")
		if ok && name != "" {
			env[name] = cty.StringVal(val)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env":         cty.ObjectVal(env),
			"base_folder": cty.StringVal(baseFolder),
		},
	}
}

// Validate checks the values a file can get wrong. The first problem found
// is returned.
func (c *Config) Validate() error {
	if c.Script == "" {
		return invalid("script cannot be empty")
	}
	if !slices.Contains(Backends, c.Backend) {
		return invalid("backend %q is not one of %s", c.Backend, strings.Join(Backends, ", "))
	}
	if c.FrameRate <= 0 {
		return invalid("frame_rate must be positive, got %d", c.FrameRate)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return invalid("log_level %q is not a level", c.LogLevel)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return invalid("log_format %q is not console or json", c.LogFormat)
	}
	if len(c.BackgroundColor) != 3 {
		return invalid("background_color needs 3 components, got %d", len(c.BackgroundColor))
	}

	seen := make(map[string]bool)
	for _, w := range c.Worlds {
		if seen[w.Name] {
			return invalid("world %q is declared twice", w.Name)
		}
		seen[w.Name] = true
		if err := w.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (w *World) validate() error {
	entities := make(map[string]bool)
	for _, e := range w.Entities {
		if n := len(e.Position); n != 0 && n != 3 {
			return invalid("world %q entity %q: position needs 3 components, got %d", w.Name, e.Name, n)
		}
		if n := len(e.Rotation); n != 0 && n != 4 {
			return invalid("world %q entity %q: rotation needs 4 components, got %d", w.Name, e.Name, n)
		}
		entities[e.Name] = true
	}
	for _, v := range w.Views {
		if v.Camera != "" && !entities[v.Camera] {
			return invalid("world %q view %q: camera %q is not an entity of the world", w.Name, v.Name, v.Camera)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf(format, args...))
}

// Background returns the clear colour.
func (c *Config) Background() value.Vec3 {
	return vec3(c.BackgroundColor)
}

// FrameInterval returns the time between two frames.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}

// Transform returns the declared position and rotation. Missing values are
// the origin and the identity rotation.
func (e *Entity) Transform() (value.Vec3, value.Quat) {
	rot := value.Identity()
	if len(e.Rotation) == 4 {
		rot = value.Quat{W: e.Rotation[0], X: e.Rotation[1], Y: e.Rotation[2], Z: e.Rotation[3]}
	}
	return vec3(e.Position), rot
}

func vec3(f []float64) value.Vec3 {
	if len(f) != 3 {
		return value.Vec3{}
	}
	return value.Vec3{X: f[0], Y: f[1], Z: f[2]}
}
