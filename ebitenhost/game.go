package ebitenhost

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/boardkit"
)

// Game runs a board as an ebiten.Game: the whole window is the canvas
// container.
type Game struct {
	Host     *Host
	Gestures *Gestures
	Renderer *Renderer

	// ShowStatus draws the mode, camera, and graph summary in a corner.
	ShowStatus bool

	// Script, when set, replays scripted input before each host update.
	Script *Script
	// ScreenshotDir receives PNGs queued with Screenshot.
	ScreenshotDir string

	width, height int
	shots         []string
	saved         []string
}

// NewGame wires a host, gesture layer, and renderer for board, reading
// input from src (EbitenSource{} for a real window).
func NewGame(board *boardkit.Board, src Source) *Game {
	gestures := NewGestures(board)
	host := NewHost(board, src)
	host.AddHandler(gestures)
	return &Game{
		Host:          host,
		Gestures:      gestures,
		Renderer:      NewRenderer(board, gestures),
		ShowStatus:    true,
		ScreenshotDir: "screenshots",
	}
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if g.Script != nil {
		g.Script.step(g)
	}
	dt := float32(1.0 / float64(ebiten.TPS()))
	return g.Host.Update(dt)
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.Renderer.Draw(screen)
	if g.ShowStatus {
		g.drawStatus(screen)
	}
	g.flushScreenshots(screen)
}

func (g *Game) drawStatus(screen *ebiten.Image) {
	b := g.Host.Board()
	cam := b.Camera()
	st := b.Graph().Stats()
	ct := b.CanvasTransform(deviceScale(), float64(g.width), float64(g.height))
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf(
		"tool: %s  mode: %s  zoom: %.2f\nnodes: %d  edges: %d  backing: %dx%d @%.1fx\nFPS: %.0f",
		g.Gestures.Tool(), b.Interaction().ModeKind(), cam.Zoom,
		st.NodeCount, st.EdgeCount, ct.BackingWidth, ct.BackingHeight, ct.DPR,
		ebiten.ActualFPS()), 4, 4)
}

// Layout implements ebiten.Game. The window's logical size becomes the
// container rectangle.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.Host.Board().SetContainerRect(boardkit.Rect{Width: float64(outsideWidth), Height: float64(outsideHeight)})
	}
	return outsideWidth, outsideHeight
}

func deviceScale() float64 {
	if m := ebiten.Monitor(); m != nil {
		return m.DeviceScaleFactor()
	}
	return 0
}
