// Package window runs the CHIP-8 display and keypad in a desktop window.
package window

import (
	"context"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/image/font/basicfont"
)

// DefaultScale is the default size of a CHIP-8 pixel in window pixels.
const DefaultScale = 10

const title = "retrochip8"

var statusColor = color.RGBA{R: 0xFF, G: 0x40, B: 0x40, A: 0xFF}

// runeKeys maps the characters of keypad.Layout to their ebiten keys.
var runeKeys = map[rune]ebiten.Key{
	'1': ebiten.Key1, '2': ebiten.Key2, '3': ebiten.Key3, '4': ebiten.Key4,
	'q': ebiten.KeyQ, 'w': ebiten.KeyW, 'e': ebiten.KeyE, 'r': ebiten.KeyR,
	'a': ebiten.KeyA, 's': ebiten.KeyS, 'd': ebiten.KeyD, 'f': ebiten.KeyF,
	'z': ebiten.KeyZ, 'x': ebiten.KeyX, 'c': ebiten.KeyC, 'v': ebiten.KeyV,
}

// keyMap maps ebiten keys to the hex keypad using keypad.Layout.
var keyMap = newKeyMap(keypad.Layout)

func newKeyMap(layout map[rune]uint8) map[ebiten.Key]uint8 {
	m := make(map[ebiten.Key]uint8, len(layout))
	for r, hex := range layout {
		if key, ok := runeKeys[r]; ok {
			m[key] = hex
		}
	}
	return m
}

// FrameRunner executes the instructions of a single frame.
type FrameRunner interface {
	RunFrame() error
}

// FrameSource provides the last flushed frame.
type FrameSource interface {
	Frame() (display.Rows, uint64)
}

// Game implements ebiten.Game for a CHIP-8 machine. Ebiten calls Update at
// 60 ticks per second, every tick runs one frame of instructions unless the
// game is paused with the P key.
type Game struct {
	ctx    context.Context
	logger *log.Logger
	runner FrameRunner
	frames FrameSource
	keys   *keypad.State
	scale  int

	image     *ebiten.Image
	pixels    []byte
	lastFrame uint64
	paused    bool
}

// New returns a game that runs frames of the runner and shows the frames
// of the source.
func New(ctx context.Context, logger *log.Logger, runner FrameRunner, frames FrameSource,
	keys *keypad.State, scale int) *Game {

	if scale < 1 {
		scale = DefaultScale
	}
	return &Game{
		ctx:    ctx,
		logger: logger,
		runner: runner,
		frames: frames,
		keys:   keys,
		scale:  scale,
		pixels: make([]byte, display.Width*display.Height*4),
	}
}

// Run opens the window and blocks until it is closed, the context is
// cancelled or the machine fails.
func (g *Game) Run() error {
	ebiten.SetWindowSize(display.Width*g.scale, display.Height*g.scale)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)

	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("running window: %w", err)
	}
	return nil
}

// Update polls the keyboard and runs a frame of instructions.
func (g *Game) Update() error {
	if ebiten.IsWindowBeingClosed() || g.ctx.Err() != nil {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.logger.Debug("Escape pressed, closing window")
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
		g.logger.Debug("Pause toggled", log.String("state", pauseState(g.paused)))
	}
	if g.paused {
		return nil
	}

	g.keys.Set(keyMask(ebiten.IsKeyPressed))

	return g.runner.RunFrame()
}

// Draw shows the last flushed frame.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.image == nil {
		g.image = ebiten.NewImage(display.Width, display.Height)
	}

	rows, count := g.frames.Frame()
	if count != g.lastFrame || count == 0 {
		framePixels(rows, g.pixels)
		g.image.WritePixels(g.pixels)
		g.lastFrame = count
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.image, op)

	if g.paused {
		face := basicfont.Face7x13
		text.Draw(screen, "PAUSED", face, 4, 4+face.Ascent, statusColor)
	}
}

// Layout returns the scaled CHIP-8 resolution, ebiten fits it into the
// window.
func (g *Game) Layout(_, _ int) (int, int) {
	return display.Width * g.scale, display.Height * g.scale
}

func pauseState(paused bool) string {
	if paused {
		return "paused"
	}
	return "running"
}

// keyMask returns the pressed keypad keys as bit mask.
func keyMask(pressed func(ebiten.Key) bool) uint16 {
	var mask uint16
	for key, hex := range keyMap {
		if pressed(key) {
			mask |= 1 << hex
		}
	}
	return mask
}

// framePixels converts the frame to RGBA pixels, set pixels are white.
func framePixels(rows display.Rows, pixels []byte) {
	for y, row := range rows {
		for x := range display.Width {
			var c byte
			if row>>x&1 != 0 {
				c = 0xFF
			}
			i := (y*display.Width + x) * 4
			pixels[i] = c
			pixels[i+1] = c
			pixels[i+2] = c
			pixels[i+3] = 0xFF
		}
	}
}
