package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/lifesim/internal/viz"
	"github.com/san-kum/lifesim/internal/world"
)

// palette colours species modulo its length.
var palette = []string{
	"#00ffff", "#ff00ff", "#ffcc00", "#00ff88",
	"#ff4444", "#8888ff", "#ff8800", "#cccccc",
}

func SpeciesColor(species uint8) string {
	return palette[int(species)%len(palette)]
}

// AtomsSVG draws atoms as circles on a width x height plane scaled by scale.
// Atoms straddling an edge are drawn again on the opposite side so the
// picture tiles like the plane.
func AtomsSVG(atoms []world.Snapshot, width, height, scale float64) string {
	w, h := width*scale, height*scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, w, h, w, h)

	for _, a := range atoms {
		r := a.Diameter / 2
		for _, x := range images(a.X, r, width) {
			for _, y := range images(a.Y, r, height) {
				fmt.Fprintf(&sb, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" data-id="%d" data-state="%d"/>
`, x*scale, y*scale, r*scale, SpeciesColor(a.Species), a.ID, a.State)
			}
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// images returns the coordinate plus its periodic copy when the circle
// crosses 0 or size.
func images(c, r, size float64) []float64 {
	switch {
	case c-r < 0:
		return []float64{c, c + size}
	case c+r > size:
		return []float64{c, c - size}
	default:
		return []float64{c}
	}
}

// CanvasToSVG converts a braille canvas to SVG dots.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	bits := [4][2]rune{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			pattern := canvas.Grid[row][col] - 0x2800
			if pattern <= 0 {
				continue
			}
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&bits[dy][dx] == 0 {
						continue
					}
					cx := baseX + float64(dx)*scale + scale/2
					cy := baseY + float64(dy)*scale + scale/2
					fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius)
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}
