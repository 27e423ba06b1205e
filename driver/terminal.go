package driver

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/oak/graphics"
	"github.com/wippyai/oak/value"
)

// Glyphs used for rasterised primitives.
const (
	CubeGlyph  = '█'
	QuadGlyph  = '▒'
	EmptyGlyph = ' '
)

// cellAspect is the height of a character cell relative to its width.
const cellAspect = 2.0

type cell struct {
	color value.Vec3
	glyph rune
}

// Terminal rasterises draw calls into character cells. Geometry is
// projected with a pinhole camera looking down the eye's -Z axis.
type Terminal struct {
	cells      []cell
	depth      []float64
	eye        graphics.Eye
	clearColor value.Vec3
	clearDepth float64
	width      int
	height     int
}

// NewTerminal creates a width x height raster.
func NewTerminal(width, height int) *Terminal {
	t := &Terminal{clearDepth: 1, eye: graphics.DefaultEye()}
	t.Resize(width, height)
	return t
}

// Resize changes the raster size and clears it.
func (t *Terminal) Resize(width, height int) {
	t.width = max(width, 0)
	t.height = max(height, 0)
	t.cells = make([]cell, t.width*t.height)
	t.depth = make([]float64, t.width*t.height)
	t.Clear()
}

func (t *Terminal) Size() (int, int) { return t.width, t.height }

func (t *Terminal) SetClearColor(c value.Vec3) { t.clearColor = c }
func (t *Terminal) SetClearDepth(d float64) { t.clearDepth = d }

func (t *Terminal) Clear() {
	for i := range t.cells {
		t.cells[i] = cell{glyph: EmptyGlyph, color: t.clearColor}
		t.depth[i] = t.clearDepth
	}
}

// BeginView sets the eye. Each view starts with a cleared depth buffer so
// it draws over lower priorities.
func (t *Terminal) BeginView(_ int, eye graphics.Eye) {
	t.eye = eye
	for i := range t.depth {
		t.depth[i] = t.clearDepth
	}
}

func (t *Terminal) EndView() {}

func (t *Terminal) DrawCube(center value.Vec3, rotation value.Quat, size float64, color value.Vec3) {
	t.fillSquare(center, rotation, size, color, CubeGlyph)
}

func (t *Terminal) DrawQuad(center value.Vec3, rotation value.Quat, size float64, color value.Vec3) {
	t.fillSquare(center, rotation, size, color, QuadGlyph)
}

// fillSquare samples a size x size square in its local XY plane densely
// enough to touch every covered cell.
func (t *Terminal) fillSquare(center value.Vec3, rotation value.Quat, size float64, color value.Vec3, glyph rune) {
	if t.width == 0 || t.height == 0 || size <= 0 {
		return
	}
	_, _, dist, ok := t.project(center)
	if !ok {
		return
	}
	cellsPerUnit := float64(t.height) / (2 * dist * t.tanHalfFOV())
	samples := int(math.Ceil(size*cellsPerUnit*cellAspect)) + 1
	samples = min(max(samples, 2), 512)

	half := size / 2
	step := size / float64(samples-1)
	for i := range samples {
		for j := range samples {
			local := value.Vec3{X: -half + float64(i)*step, Y: -half + float64(j)*step}
			t.plot(center.Add(rotation.Rotate(local)), color, glyph)
		}
	}
}

func (t *Terminal) tanHalfFOV() float64 {
	fov := t.eye.FOV
	if fov <= 0 || fov >= 180 {
		fov = graphics.DefaultFOV
	}
	return math.Tan(fov * math.Pi / 360)
}

// project maps a world point to cell coordinates and its distance along
// the view axis.
func (t *Terminal) project(p value.Vec3) (float64, float64, float64, bool) {
	rel := t.eye.Rotation.Conjugate().Rotate(p.Sub(t.eye.Position))
	dist := -rel.Z
	if dist < t.eye.Near || dist > t.eye.Far || dist <= 0 {
		return 0, 0, 0, false
	}
	tanHalf := t.tanHalfFOV()
	aspect := float64(t.width) / (cellAspect * float64(t.height))
	nx := rel.X / (dist * tanHalf * aspect)
	ny := rel.Y / (dist * tanHalf)
	x := (nx + 1) / 2 * float64(t.width)
	y := (1 - ny) / 2 * float64(t.height)
	return x, y, dist, true
}

func (t *Terminal) plot(p value.Vec3, color value.Vec3, glyph rune) {
	x, y, dist, ok := t.project(p)
	if !ok {
		return
	}
	cx, cy := int(math.Floor(x)), int(math.Floor(y))
	if cx < 0 || cy < 0 || cx >= t.width || cy >= t.height {
		return
	}
	d := (dist - t.eye.Near) / (t.eye.Far - t.eye.Near)
	i := cy*t.width + cx
	if d >= t.depth[i] {
		return
	}
	t.depth[i] = d
	t.cells[i] = cell{glyph: glyph, color: color}
}

// Lines returns the raster as plain glyph rows.
func (t *Terminal) Lines() []string {
	lines := make([]string, t.height)
	for y := range t.height {
		row := t.cells[y*t.width : (y+1)*t.width]
		var b strings.Builder
		for _, c := range row {
			b.WriteRune(c.glyph)
		}
		lines[y] = b.String()
	}
	return lines
}

// Frame renders the raster with colours, one styled run per stretch of
// equal cells.
func (t *Terminal) Frame() string {
	bg := lipgloss.Color(hexColor(t.clearColor))
	rows := make([]string, t.height)
	for y := range t.height {
		row := t.cells[y*t.width : (y+1)*t.width]
		var b strings.Builder
		for start := 0; start < len(row); {
			end := start + 1
			for end < len(row) && row[end] == row[start] {
				end++
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexColor(row[start].color))).
				Background(bg)
			b.WriteString(style.Render(strings.Repeat(string(row[start].glyph), end-start)))
			start = end
		}
		rows[y] = b.String()
	}
	return strings.Join(rows, "\n")
}

func hexColor(c value.Vec3) string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.X), channel(c.Y), channel(c.Z))
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Min(math.Max(v, 0), 1) * 255))
}

var _ graphics.Driver = (*Terminal)(nil)
