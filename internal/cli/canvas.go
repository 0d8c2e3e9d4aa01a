package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/floatpos/pkg/geom"
	"github.com/matzehuels/floatpos/pkg/middleware"
	"github.com/matzehuels/floatpos/pkg/pipeline"
	"github.com/matzehuels/floatpos/pkg/scene"
)

const (
	defaultCanvasCols = 64
	minCanvasCols     = 16
	maxCanvasCols     = 240
)

type cellKind uint8

const (
	kindEmpty cellKind = iota
	kindElement
	kindReference
	kindFloating
	kindHidden
	kindArrow
)

var cellStyles = map[cellKind]lipgloss.Style{
	kindEmpty:     lipgloss.NewStyle().Foreground(colorDim),
	kindElement:   lipgloss.NewStyle().Foreground(colorGray),
	kindReference: lipgloss.NewStyle().Foreground(colorBlue).Bold(true),
	kindFloating:  lipgloss.NewStyle().Foreground(colorCyan),
	kindHidden:    lipgloss.NewStyle().Foreground(colorYellow),
	kindArrow:     lipgloss.NewStyle().Foreground(colorWhite).Bold(true),
}

type cell struct {
	r    rune
	kind cellKind
}

// canvas maps a viewport onto a grid of terminal cells. Cells are about
// twice as tall as they are wide, so rows use half the horizontal scale.
type canvas struct {
	viewport   geom.Rect
	cols, rows int
	sx, sy     float64
	cells      [][]cell
}

func newCanvas(viewport geom.Rect, cols int) *canvas {
	cols = max(minCanvasCols, min(cols, maxCanvasCols))
	c := &canvas{viewport: viewport, cols: cols, rows: 1}
	if viewport.Width > 0 {
		c.sx = float64(cols) / viewport.Width
		c.rows = max(1, int(math.Round(viewport.Height*c.sx/2)))
	}
	if viewport.Height > 0 {
		c.sy = float64(c.rows) / viewport.Height
	}
	c.cells = make([][]cell, c.rows)
	for y := range c.cells {
		c.cells[y] = make([]cell, cols)
		for x := range c.cells[y] {
			c.cells[y][x] = cell{'·', kindEmpty}
		}
	}
	return c
}

// span returns the cells r covers as [x0, x1) × [y0, y1). A rect smaller
// than a cell still covers one. ok is false when r is off the canvas.
func (c *canvas) span(r geom.Rect) (x0, y0, x1, y1 int, ok bool) {
	x0 = int(math.Floor((r.X - c.viewport.X) * c.sx))
	y0 = int(math.Floor((r.Y - c.viewport.Y) * c.sy))
	x1 = max(x0+1, int(math.Ceil((r.Right()-c.viewport.X)*c.sx)))
	y1 = max(y0+1, int(math.Ceil((r.Bottom()-c.viewport.Y)*c.sy)))
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, c.cols), min(y1, c.rows)
	return x0, y0, x1, y1, x0 < x1 && y0 < y1
}

func (c *canvas) set(x, y int, r rune, kind cellKind) {
	if x >= 0 && x < c.cols && y >= 0 && y < c.rows {
		c.cells[y][x] = cell{r, kind}
	}
}

// box outlines r and writes label into its top edge.
func (c *canvas) box(r geom.Rect, label string, kind cellKind) {
	x0, y0, x1, y1, ok := c.span(r)
	if !ok {
		return
	}
	if x1-x0 < 2 || y1-y0 < 2 {
		c.fill(r, label, '■', kind)
		return
	}
	for x := x0; x < x1; x++ {
		c.set(x, y0, '─', kind)
		c.set(x, y1-1, '─', kind)
	}
	for y := y0; y < y1; y++ {
		c.set(x0, y, '│', kind)
		c.set(x1-1, y, '│', kind)
	}
	c.set(x0, y0, '┌', kind)
	c.set(x1-1, y0, '┐', kind)
	c.set(x0, y1-1, '└', kind)
	c.set(x1-1, y1-1, '┘', kind)
	c.label(x0+1, y0, x1-1, label, kind)
}

// fill paints r with ch and writes label at its top left.
func (c *canvas) fill(r geom.Rect, label string, ch rune, kind cellKind) {
	x0, y0, x1, y1, ok := c.span(r)
	if !ok {
		return
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c.set(x, y, ch, kind)
		}
	}
	c.label(x0, y0, x1, label, kind)
}

func (c *canvas) label(x0, y, x1 int, label string, kind cellKind) {
	for i, r := range []rune(label) {
		if x0+i >= x1 {
			return
		}
		c.set(x0+i, y, r, kind)
	}
}

// String renders the grid, one styled run per stretch of equal kind.
func (c *canvas) String() string {
	lines := make([]string, c.rows)
	for y, row := range c.cells {
		var b, run strings.Builder
		kind := row[0].kind
		for _, cl := range row {
			if cl.kind != kind {
				b.WriteString(cellStyles[kind].Render(run.String()))
				run.Reset()
				kind = cl.kind
			}
			run.WriteRune(cl.r)
		}
		b.WriteString(cellStyles[kind].Render(run.String()))
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

// renderScene draws the scene's elements as outlines and every positioned
// floating element as a filled block labeled with its job ID. Children of
// floating elements are left out.
func renderScene(s *scene.Scene, res *pipeline.Result, cols int) string {
	c := newCanvas(s.Viewport, cols)

	floating := map[string]bool{}
	reference := map[string]bool{}
	for _, j := range res.Jobs {
		floating[j.Floating] = true
		reference[j.Reference] = true
	}

	for _, name := range s.ElementNames() {
		if floating[name] || floating[s.Elements[name].Parent] {
			continue
		}
		kind := kindElement
		if reference[name] {
			kind = kindReference
		}
		c.box(s.Elements[name].Rect, name, kind)
	}

	for _, j := range res.Jobs {
		r := s.Place(j.Floating, j.Strategy, j.Coords())
		kind, ch := kindFloating, '▓'
		if h, ok := decodeData[middleware.HideData](j.MiddlewareData, middleware.NameHide); ok && (h.ReferenceHidden || h.Escaped) {
			kind, ch = kindHidden, '░'
		}
		c.fill(r, j.ID, ch, kind)
		c.arrow(r, j)
	}

	return c.String()
}

// arrow marks where a job's arrow meets the edge facing the reference.
func (c *canvas) arrow(r geom.Rect, j pipeline.JobResult) {
	a, ok := decodeData[middleware.ArrowData](j.MiddlewareData, middleware.NameArrow)
	if !ok {
		return
	}
	x0, y0, x1, y1, ok := c.span(r)
	if !ok {
		return
	}
	switch j.Placement.Side {
	case geom.Top, geom.Bottom:
		if a.X == nil {
			return
		}
		x := int(math.Floor((r.X + *a.X - c.viewport.X) * c.sx))
		if j.Placement.Side == geom.Top {
			c.set(x, y1-1, '▼', kindArrow)
		} else {
			c.set(x, y0, '▲', kindArrow)
		}
	case geom.Left, geom.Right:
		if a.Y == nil {
			return
		}
		y := int(math.Floor((r.Y + *a.Y - c.viewport.Y) * c.sy))
		if j.Placement.Side == geom.Left {
			c.set(x1-1, y, '▶', kindArrow)
		} else {
			c.set(x0, y, '◀', kindArrow)
		}
	}
}
