package testbed

import (
	"github.com/chewxy/math32"
	"github.com/spaghettifunk/rlgo/engine"
	"github.com/spaghettifunk/rlgo/engine/core"
	"github.com/spaghettifunk/rlgo/engine/math"
	"github.com/spaghettifunk/rlgo/engine/renderer"
	"github.com/spaghettifunk/rlgo/engine/renderer/components"
	"github.com/spaghettifunk/rlgo/engine/renderer/metadata"
)

/** @brief Quads drawn by the stress scene, enough to overflow the default buffer. */
const STRESS_QUAD_COUNT int = 10000

type TestGame struct {
	*engine.Game
}

type gameState struct {
	Camera   *components.Camera2D
	Rotation float32
	// positions of the stress quads, generated once
	particles []math.Vec2
	colors    []math.Color
}

func NewTestGame(config *engine.ApplicationConfig, configPath string) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			ConfigPath:        configPath,
			State: &gameState{
				Camera: components.NewCamera2D(),
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnShutdown = tg.Shutdown
	return tg
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *TestGame) Initialize(frame *engine.Frame) error {
	core.LogInfo("initializing testbed...")
	s := g.state()

	s.Camera.SetOffset(math.NewVec2(float32(frame.Width)/2, float32(frame.Height)/2))
	s.Camera.SetTarget(math.NewVec2(float32(frame.Width)/2, float32(frame.Height)/2))

	s.particles = make([]math.Vec2, STRESS_QUAD_COUNT)
	s.colors = make([]math.Color, STRESS_QUAD_COUNT)
	for i := range s.particles {
		s.particles[i] = math.NewVec2(
			math.FRandomInRange(0, float32(frame.Width)),
			math.FRandomInRange(0, float32(frame.Height)),
		)
		s.colors[i] = math.Color{
			R: uint8(math.RandomInRange(64, 255)),
			G: uint8(math.RandomInRange(64, 255)),
			B: uint8(math.RandomInRange(64, 255)),
			A: 96,
		}
	}
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	s := g.state()
	s.Rotation += float32(45 * deltaTime)
	s.Camera.SetRotation(math32.Sin(math.DegToRad(s.Rotation)) * 5)
	return nil
}

func (g *TestGame) Render(frame *engine.Frame, deltaTime float64) error {
	s := g.state()
	rc := frame.Context

	drawStress(rc, s)
	drawGrid(rc, frame.Width, frame.Height)

	frame.BeginMode2D(s.Camera)
	drawTriangles(rc, frame.Width)
	drawTransforms(rc, s.Rotation)
	frame.EndMode2D()

	frame.BeginPerspective(60)
	drawSpinningQuad(rc, s.Rotation)
	frame.EndPerspective()

	drawLines(rc, frame.Width, frame.Height)
	drawTextures(frame)

	if _, ok := frame.Fonts.Get(engine.DEFAULT_FONT_NAME); ok {
		if err := frame.Fonts.DrawText(engine.DEFAULT_FONT_NAME, "rlgo testbed\nbatched text", math.NewVec2(10, 10), 20, math.ColorWhite); err != nil {
			return err
		}
	}
	return nil
}

func (g *TestGame) Shutdown() error {
	core.LogInfo("shutting down testbed...")
	return nil
}

func drawRect(rc *renderer.RenderContext, x, y, w, h float32, c math.Color) {
	rc.Begin(metadata.QUADS)
	rc.SetColor(c)
	rc.TexCoord2f(0, 0)
	rc.Vertex2f(x, y)
	rc.TexCoord2f(0, 1)
	rc.Vertex2f(x, y+h)
	rc.TexCoord2f(1, 1)
	rc.Vertex2f(x+w, y+h)
	rc.TexCoord2f(1, 0)
	rc.Vertex2f(x+w, y)
	rc.End()
}

// drawStress submits more quads than a vertex buffer holds with the default config.
func drawStress(rc *renderer.RenderContext, s *gameState) {
	for i, p := range s.particles {
		drawRect(rc, p.X, p.Y, 4, 4, s.colors[i])
	}
}

func drawGrid(rc *renderer.RenderContext, width, height int32) {
	const cell = 32
	for y := int32(0); y < height/cell; y++ {
		for x := int32(0); x < width/cell; x++ {
			c := math.ColorDarkGray
			if (x+y)%2 == 0 {
				c = math.ColorLightGray
			}
			drawRect(rc, float32(x*cell+cell/4), float32(y*cell+cell/4), cell/2, cell/2, c)
		}
	}
}

func drawTriangles(rc *renderer.RenderContext, width int32) {
	rc.Begin(metadata.TRIANGLES)
	for i := int32(0); i < 8; i++ {
		x := float32(width) * float32(i+1) / 10
		rc.Color4ub(255, uint8(i*32), 0, 255)
		rc.Vertex2f(x, 60)
		rc.Vertex2f(x-20, 100)
		rc.Vertex2f(x+20, 100)
	}
	rc.End()
}

// drawTransforms nests push/pop scopes: a rotating square with satellites.
func drawTransforms(rc *renderer.RenderContext, rotation float32) {
	rc.PushMatrix()
	rc.Translatef(200, 250, 0)
	rc.Rotatef(rotation, 0, 0, 1)
	drawRect(rc, -40, -40, 80, 80, math.ColorRed)

	for i := 0; i < 4; i++ {
		rc.PushMatrix()
		rc.Rotatef(float32(i)*90, 0, 0, 1)
		rc.Translatef(80, 0, 0)
		rc.Scalef(0.5, 0.5, 1)
		drawRect(rc, -20, -20, 40, 40, math.ColorYellow)
		rc.PopMatrix()
	}
	rc.PopMatrix()
}

// drawTextures shows the preloaded images as thumbnails along the right edge.
func drawTextures(frame *engine.Frame) {
	const size = 48
	y := float32(8)
	for _, name := range frame.Textures.Names() {
		tex, _ := frame.Textures.Get(name)
		frame.Textures.Draw(tex, math.Rectangle{X: float32(frame.Width) - size - 8, Y: y, Width: size, Height: size}, math.ColorWhite)
		y += size + 8
	}
}

// drawSpinningQuad turns a unit quad around the y axis four units in front of the eye.
func drawSpinningQuad(rc *renderer.RenderContext, rotation float32) {
	rc.Translatef(0, 0, -4)
	rc.Rotatef(rotation, 0, 1, 0)
	rc.Begin(metadata.QUADS)
	rc.SetColor(math.ColorBlue)
	rc.Vertex3f(-1, 1, 0)
	rc.Vertex3f(-1, -1, 0)
	rc.Vertex3f(1, -1, 0)
	rc.Vertex3f(1, 1, 0)
	rc.End()
}

func drawLines(rc *renderer.RenderContext, width, height int32) {
	rc.Begin(metadata.LINES)
	rc.SetColor(math.ColorGreen)
	for x := int32(0); x <= width; x += 64 {
		rc.Vertex2f(float32(x), float32(height)-40)
		rc.Vertex2f(float32(x)+32, float32(height)-8)
	}
	rc.End()
}
