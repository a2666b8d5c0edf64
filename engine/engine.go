package engine

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"github.com/spaghettifunk/rlgo/engine/assets"
	"github.com/spaghettifunk/rlgo/engine/core"
	"github.com/spaghettifunk/rlgo/engine/math"
	"github.com/spaghettifunk/rlgo/engine/renderer"
	"github.com/spaghettifunk/rlgo/engine/renderer/components"
	"github.com/spaghettifunk/rlgo/engine/renderer/metadata"
	"github.com/spaghettifunk/rlgo/engine/renderer/software"
	"github.com/spaghettifunk/rlgo/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine completed boot process and is ready to be initialized
	EngineStageBootComplete
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

/** @brief Name the font of ApplicationConfig.FontPath is loaded under. */
const DEFAULT_FONT_NAME string = "default"

type Engine struct {
	currentStage Stage
	gameInstance *Game
	config       ApplicationConfig
	isRunning    atomic.Bool

	backend       *software.SoftwareRenderer
	context       *renderer.RenderContext
	assetManager  *assets.AssetManager
	jobSystem     *systems.JobSystem
	fontSystem    *systems.FontSystem
	textureSystem *systems.TextureSystem

	clock    *core.Clock
	metrics  *core.Metrics
	lastTime float64
	frame    int

	// renderer config waiting for the next frame boundary
	pendingConfig atomic.Pointer[renderer.Config]
}

func New(g *Game) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		return nil, errors.New("engine: game has no application config")
	}
	config := *g.ApplicationConfig
	if err := config.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	if config.LogLevel != "" {
		if err := core.SetLogLevel(config.LogLevel); err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
	}

	backend := software.New(0)
	rc, err := renderer.NewRenderContext(backend, config.Renderer)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	js, err := systems.NewJobSystem(runtime.NumCPU(), 2*runtime.NumCPU())
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	e := &Engine{
		currentStage: EngineStageBooting,
		gameInstance: g,
		config:       config,
		backend:      backend,
		context:      rc,
		assetManager: am,
		jobSystem:    js,
		clock:        core.NewClock(),
		metrics:      core.NewMetrics(),
	}
	e.currentStage = EngineStageBootComplete
	return e, nil
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageBootComplete {
		return fmt.Errorf("engine: cannot initialize from stage %d", e.currentStage)
	}
	e.currentStage = EngineStageInitializing

	// initialize events
	if !core.EventInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	core.EventRegister(core.EVENT_CODE_CONFIG_RELOADED, e, e.onConfigReloaded)

	if err := e.context.Initialize(e.config.Width, e.config.Height); err != nil {
		return err
	}
	e.setupViewport(e.config.Width, e.config.Height)

	if e.config.AssetsDir != "" {
		if err := e.assetManager.Initialize(e.config.AssetsDir); err != nil {
			return err
		}
	}
	if e.config.WatchConfig && e.gameInstance.ConfigPath != "" {
		if err := e.assetManager.WatchConfig(e.gameInstance.ConfigPath); err != nil {
			return err
		}
	}

	fs, err := systems.NewFontSystem(&systems.FontSystemConfig{MaxFontCount: systems.DEFAULT_MAX_FONT_COUNT}, e.context)
	if err != nil {
		return err
	}
	e.fontSystem = fs
	if e.config.FontPath != "" {
		if _, err := fs.Load(DEFAULT_FONT_NAME, e.config.FontPath); err != nil {
			return err
		}
	}

	ts, err := systems.NewTextureSystem(&systems.TextureSystemConfig{MaxTextureCount: systems.DEFAULT_MAX_TEXTURE_COUNT}, e.jobSystem, e.assetManager, e.context)
	if err != nil {
		return err
	}
	e.textureSystem = ts
	if e.config.AssetsDir != "" {
		e.preloadImages()
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(e.newFrame()); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	core.LogInfo("%s initialized (%dx%d)", e.config.Name, e.config.Width, e.config.Height)
	return nil
}

// setupViewport makes one unit one pixel with the origin at the top-left corner.
func (e *Engine) setupViewport(width, height int32) {
	rc := e.context
	rc.Viewport(0, 0, width, height)
	rc.MatrixMode(metadata.PROJECTION)
	rc.LoadIdentity()
	rc.Ortho(0, float64(width), float64(height), 0, 0, 1)
	rc.MatrixMode(metadata.MODELVIEW)
	rc.LoadIdentity()
}

// preloadImages uploads every indexed image asset. Broken images are logged
// and skipped.
func (e *Engine) preloadImages() {
	infos := e.assetManager.Assets(assets.ASSET_TYPE_IMAGE)
	sort.Slice(infos, func(i, j int) bool { return infos[i].Path < infos[j].Path })
	if len(infos) > systems.DEFAULT_MAX_TEXTURE_COUNT {
		core.LogWarn("%d images found in %s, only the first %d are preloaded", len(infos), e.config.AssetsDir, systems.DEFAULT_MAX_TEXTURE_COUNT)
		infos = infos[:systems.DEFAULT_MAX_TEXTURE_COUNT]
	}
	paths := make([]string, len(infos))
	for i, info := range infos {
		paths[i] = info.Path
	}
	if err := e.textureSystem.Preload(paths, false); err != nil {
		core.LogWarn("Image preload: %s", err)
	}
	core.LogInfo("%d textures preloaded from %s", len(e.textureSystem.Names()), e.config.AssetsDir)
}

func (e *Engine) newFrame() *Frame {
	return &Frame{
		Context:  e.context,
		Fonts:    e.fontSystem,
		Textures: e.textureSystem,
		Width:    e.config.Width,
		Height:   e.config.Height,
		Index:    e.frame,
	}
}

// Run renders frames until the configured frame count is reached or the
// application quits. Every frame ends with a flush of the active batch.
func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine: cannot run from stage %d", e.currentStage)
	}
	e.currentStage = EngineStageRunning
	e.isRunning.Store(true)

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning.Load() {
		if e.config.Frames > 0 && e.frame >= e.config.Frames {
			break
		}
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStart := time.Now()

		e.applyPendingConfig()

		rc := e.context
		rc.ClearScreenBuffers()
		rc.LoadIdentity()

		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(delta); err != nil {
				core.LogError("Game update failed, shutting down: %s", err)
				e.isRunning.Store(false)
				return err
			}
		}
		if e.gameInstance.FnRender != nil {
			if err := e.gameInstance.FnRender(e.newFrame(), delta); err != nil {
				core.LogError("Game render failed, shutting down: %s", err)
				e.isRunning.Store(false)
				return err
			}
		}
		rc.DrawRenderBatchActive()

		e.metrics.Update(time.Since(frameStart).Seconds())
		if e.frame%int(core.AVG_COUNT) == int(core.AVG_COUNT)-1 {
			fps, ms := e.metrics.Frame()
			core.LogDebug("frame %d: %.0f fps, %.3f ms", e.frame, fps, ms)
		}

		e.lastTime = currentTime
		e.frame++
	}
	e.isRunning.Store(false)

	if e.config.OutputPath != "" {
		if err := e.backend.SaveBMP(e.config.OutputPath); err != nil {
			return err
		}
		core.LogInfo("Last frame written to %s", e.config.OutputPath)
	}
	stats := e.context.Stats()
	core.LogInfo("%d frames, %d flushes, %d draw submissions, %d vertices", e.frame, stats.Flushes, stats.DrawSubmissions, stats.VerticesUploaded)
	e.currentStage = EngineStageInitialized
	return nil
}

// Quit stops Run after the current frame. Safe to call from any goroutine.
func (e *Engine) Quit() {
	core.EventFire(core.EVENT_CODE_APPLICATION_QUIT, e, core.EventContext{})
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	var errs []error
	if e.gameInstance.FnShutdown != nil {
		errs = append(errs, e.gameInstance.FnShutdown())
	}
	if e.fontSystem != nil {
		errs = append(errs, e.fontSystem.Shutdown())
	}
	if e.textureSystem != nil {
		errs = append(errs, e.textureSystem.Shutdown())
	}
	errs = append(errs, e.jobSystem.Shutdown())
	errs = append(errs, e.assetManager.Shutdown())
	if err := e.context.Shutdown(); err != nil && !errors.Is(err, core.ErrNotInitialized) {
		errs = append(errs, err)
	}
	errs = append(errs, core.EventShutdown())
	e.currentStage = EngineStageUninitialized
	return errors.Join(errs...)
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) Context() *renderer.RenderContext {
	return e.context
}

func (e *Engine) Backend() *software.SoftwareRenderer {
	return e.backend
}

func (e *Engine) Fonts() *systems.FontSystem {
	return e.fontSystem
}

func (e *Engine) Textures() *systems.TextureSystem {
	return e.textureSystem
}

func (e *Engine) Metrics() *core.Metrics {
	return e.metrics
}

// FrameCount returns the number of frames rendered so far.
func (e *Engine) FrameCount() int {
	return e.frame
}

func (e *Engine) GetFramebufferSize() (int32, int32) {
	return e.config.Width, e.config.Height
}

// applyPendingConfig recreates the default batch when the config file changed.
func (e *Engine) applyPendingConfig() {
	config := e.pendingConfig.Swap(nil)
	if config == nil {
		return
	}
	if err := e.context.ReloadDefaultRenderBatch(*config); err != nil {
		core.LogError("Renderer config reload failed: %s", err)
		return
	}
	core.LogInfo("Default render batch recreated: %d buffers of %d quads, %d draw calls", config.BatchBuffers, config.BatchBufferElements, config.BatchDrawCalls)
}

func (e *Engine) onEvent(code core.SystemEventCode, sender, listener interface{}, data core.EventContext) bool {
	switch code {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning.Store(false)
		return true
	}
	return false
}

// onConfigReloaded runs on the watcher goroutine; the renderer part of the
// new config is applied by the next frame.
func (e *Engine) onConfigReloaded(code core.SystemEventCode, sender, listener interface{}, data core.EventContext) bool {
	path := data.Data.C[0]
	config, err := LoadApplicationConfig(path)
	if err != nil {
		core.LogError("Config reload of %s failed: %s", path, err)
		return false
	}
	if config.LogLevel != "" {
		if err := core.SetLogLevel(config.LogLevel); err != nil {
			core.LogWarn("Config reload: %s", err)
		}
	}
	e.pendingConfig.Store(&config.Renderer)
	return true
}

// BeginMode2D flushes the pending vertices and draws the following ones
// through the camera view.
func (f *Frame) BeginMode2D(camera *components.Camera2D) {
	rc := f.Context
	rc.DrawRenderBatchActive()
	rc.LoadIdentity()
	rc.MultMatrixf(camera.GetView().Data)
}

// EndMode2D flushes the vertices drawn through the camera and resets the view.
func (f *Frame) EndMode2D() {
	rc := f.Context
	rc.DrawRenderBatchActive()
	rc.LoadIdentity()
}

// BeginPerspective flushes the pending vertices and draws the following ones
// through a perspective projection of fovy degrees, clipped at the cull
// distances of the renderer config.
func (f *Frame) BeginPerspective(fovy float32) {
	rc := f.Context
	rc.DrawRenderBatchActive()

	config := rc.Config()
	projection := math.NewMat4Perspective(math.DegToRad(fovy), float32(f.Width)/float32(f.Height), float32(config.CullDistanceNear), float32(config.CullDistanceFar))

	rc.MatrixMode(metadata.PROJECTION)
	rc.PushMatrix()
	rc.LoadIdentity()
	rc.MultMatrixf(projection.Data)
	rc.MatrixMode(metadata.MODELVIEW)
	rc.LoadIdentity()
}

// EndPerspective flushes the vertices drawn in perspective and restores the
// previous projection.
func (f *Frame) EndPerspective() {
	rc := f.Context
	rc.DrawRenderBatchActive()

	rc.MatrixMode(metadata.PROJECTION)
	rc.PopMatrix()
	rc.MatrixMode(metadata.MODELVIEW)
	rc.LoadIdentity()
}
