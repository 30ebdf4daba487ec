package boardkit

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

const (
	defaultWheelZoomSpeed  = 0.0025
	defaultAnchorThreshold = 20.0
	defaultDragDeadZone    = 4.0 // pixels
)

// Config holds the tunables of a Board. Zero-valued numeric fields fall back
// to their defaults in WithDefaults.
type Config struct {
	// MinZoom and MaxZoom bound every camera change made through the board.
	// They may narrow the kernel's [MinZoom, MaxZoom] range, never widen it.
	MinZoom float64 `toml:"min_zoom"`
	MaxZoom float64 `toml:"max_zoom"`
	// WheelZoomSpeed converts wheel deltaY (pixels) into a zoom exponent.
	WheelZoomSpeed float64 `toml:"wheel_zoom_speed"`
	// AnchorThreshold is the default snap distance for FindNearestAnchor, in
	// world units.
	AnchorThreshold float64 `toml:"anchor_threshold"`
	// DragDeadZone is the screen distance a drag must travel before
	// DraggingMode.IsDragStarted flips.
	DragDeadZone float64 `toml:"drag_dead_zone"`
	// DPR is the device pixel ratio used for canvas transforms when the host
	// does not report one.
	DPR float64 `toml:"dpr"`
	// Debug enables debug logging of transitions and graph rebuilds.
	Debug bool `toml:"debug"`

	// Logger receives warnings and debug output. Nil uses a stderr logger.
	Logger *log.Logger `toml:"-"`
}

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() Config {
	return Config{}.WithDefaults()
}

// WithDefaults returns a copy of c with zero-valued fields filled in.
func (c Config) WithDefaults() Config {
	if c.MinZoom == 0 {
		c.MinZoom = MinZoom
	}
	if c.MaxZoom == 0 {
		c.MaxZoom = MaxZoom
	}
	if c.WheelZoomSpeed == 0 {
		c.WheelZoomSpeed = defaultWheelZoomSpeed
	}
	if c.AnchorThreshold == 0 {
		c.AnchorThreshold = defaultAnchorThreshold
	}
	if c.DragDeadZone == 0 {
		c.DragDeadZone = defaultDragDeadZone
	}
	if c.DPR == 0 {
		c.DPR = 1
	}
	if c.Logger == nil {
		c.Logger = NewLogger(os.Stderr, log.WarnLevel)
	}
	return c
}

// Validate reports the first field that violates its constraint.
func (c Config) Validate() error {
	switch {
	case !(c.MinZoom >= MinZoom):
		return NewError(ErrCodeInvalidConfig, "min_zoom must be >= %g, got %g", MinZoom, c.MinZoom)
	case !(c.MaxZoom <= MaxZoom):
		return NewError(ErrCodeInvalidConfig, "max_zoom must be <= %g, got %g", MaxZoom, c.MaxZoom)
	case c.MaxZoom < c.MinZoom:
		return NewError(ErrCodeInvalidConfig, "max_zoom %g is below min_zoom %g", c.MaxZoom, c.MinZoom)
	case !(c.WheelZoomSpeed > 0):
		return NewError(ErrCodeInvalidConfig, "wheel_zoom_speed must be > 0, got %g", c.WheelZoomSpeed)
	case c.AnchorThreshold < 0:
		return NewError(ErrCodeInvalidConfig, "anchor_threshold must be >= 0, got %g", c.AnchorThreshold)
	case c.DragDeadZone < 0:
		return NewError(ErrCodeInvalidConfig, "drag_dead_zone must be >= 0, got %g", c.DragDeadZone)
	case !(c.DPR > 0):
		return NewError(ErrCodeInvalidConfig, "dpr must be > 0, got %g", c.DPR)
	}
	return nil
}

// ParseConfig decodes TOML, applies defaults, and validates the result.
func ParseConfig(data []byte) (Config, error) {
	var c Config
	if _, err := toml.Decode(string(data), &c); err != nil {
		return Config{}, WrapError(ErrCodeInvalidConfig, err, "decode config")
	}
	c = c.WithDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadConfig reads and parses a TOML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, WrapError(ErrCodeInvalidConfig, err, "read %s", path)
	}
	c, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}
	return c, nil
}
