package engine

import (
	"github.com/spaghettifunk/rlgo/engine/renderer"
	"github.com/spaghettifunk/rlgo/engine/systems"
)

type Game struct {
	ApplicationConfig *ApplicationConfig
	// Path of the config file, watched when ApplicationConfig.WatchConfig is set.
	ConfigPath   string
	State        interface{}
	FnInitialize Initialize
	FnUpdate     Update
	FnRender     Render
	FnShutdown   Shutdown
}

// Frame is what the render callback draws with.
type Frame struct {
	Context  *renderer.RenderContext
	Fonts    *systems.FontSystem
	Textures *systems.TextureSystem
	Width    int32
	Height   int32
	Index    int
}

type Initialize func(frame *Frame) error
type Update func(deltaTime float64) error
type Render func(frame *Frame, deltaTime float64) error
type Shutdown func() error
