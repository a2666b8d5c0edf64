package engine

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/rlgo/engine/renderer"
)

type ApplicationConfig struct {
	// The application name, used in the logs.
	Name string `toml:"name"`
	// Framebuffer width in pixels.
	Width int32 `toml:"width"`
	// Framebuffer height in pixels.
	Height int32 `toml:"height"`
	// Frames rendered by Run, 0 renders until the application quits.
	Frames int `toml:"frames"`
	// BMP file receiving the last frame, if set.
	OutputPath string `toml:"output_path"`
	LogLevel   string `toml:"log_level"`
	// BMFont descriptor loaded as the "default" font, if set.
	FontPath string `toml:"font_path"`
	// Directory indexed by the asset manager, if set.
	AssetsDir string `toml:"assets_dir"`
	// Reload the [renderer] table when the config file changes.
	WatchConfig bool            `toml:"watch_config"`
	Renderer    renderer.Config `toml:"renderer"`
}

func DefaultApplicationConfig() ApplicationConfig {
	return ApplicationConfig{
		Name:     "rlgo",
		Width:    800,
		Height:   450,
		LogLevel: "info",
		Renderer: renderer.DefaultConfig(),
	}
}

// ParseApplicationConfig decodes a TOML document on top of the default values.
func ParseApplicationConfig(data []byte) (ApplicationConfig, error) {
	c := DefaultApplicationConfig()
	if err := toml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("application config: %w", err)
	}
	return c, c.Validate()
}

func LoadApplicationConfig(path string) (ApplicationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultApplicationConfig(), err
	}
	return ParseApplicationConfig(data)
}

func (c ApplicationConfig) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("application config: invalid size %dx%d", c.Width, c.Height)
	case c.Frames < 0:
		return fmt.Errorf("application config: frames must not be negative, got %d", c.Frames)
	}
	return c.Renderer.Validate()
}
