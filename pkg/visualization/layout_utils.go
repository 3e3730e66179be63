package visualization

import "math"

const defaultPadding = 50

func applyDefaults(config *LayoutConfig) {
	if config.Padding == 0 {
		config.Padding = defaultPadding
	}
}

// normalizePositions scales positions to fit within bounds
func normalizePositions(positions map[string]Position, width, height, padding float64) map[string]Position {
	if len(positions) == 0 {
		return positions
	}

	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	minY, maxY := math.MaxFloat64, -math.MaxFloat64

	for _, pos := range positions {
		minX = math.Min(minX, pos.X)
		maxX = math.Max(maxX, pos.X)
		minY = math.Min(minY, pos.Y)
		maxY = math.Max(maxY, pos.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY

	// Degenerate axes collapse to the centre line
	targetWidth := width - 2*padding
	targetHeight := height - 2*padding

	normalized := make(map[string]Position, len(positions))
	for id, pos := range positions {
		x, y := width/2, height/2
		if rangeX >= 0.01 {
			x = padding + ((pos.X-minX)/rangeX)*targetWidth
		}
		if rangeY >= 0.01 {
			y = padding + ((pos.Y-minY)/rangeY)*targetHeight
		}
		normalized[id] = Position{X: x, Y: y}
	}

	return normalized
}

// ring places n points evenly on a circle
func ring(center Position, radius float64, n int) []Position {
	out := make([]Position, n)
	if n == 1 {
		out[0] = center
		return out
	}
	step := 2 * math.Pi / float64(n)
	for i := range out {
		angle := float64(i) * step
		out[i] = Position{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		}
	}
	return out
}
