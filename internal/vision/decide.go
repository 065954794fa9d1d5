package vision

import (
	"github.com/eleven-am/vision-nav/internal/navigation"
)

// Decide maps a detection set onto a steering command for a frame of the
// given dimensions. It is deterministic and performs no I/O.
//
// The frame is split into three vertical bands. An obstacle in the center
// band steers toward the less-occupied side, or stops when both sides are
// equally blocked. Side bands react at a higher threshold so that partial
// occlusion at the frame edges does not cause needless turns.
func Decide(detections []Detection, height, width int, obstacleThreshold float64) navigation.Command {
	if height <= 0 || width <= 0 {
		return navigation.CommandMoveForward
	}

	occ, any := buildOccupancy(detections, height, width)
	if !any {
		return navigation.CommandMoveForward
	}

	left := bandMean(occ, height, width, 0, width/3)
	center := bandMean(occ, height, width, width/3, 2*width/3)
	right := bandMean(occ, height, width, 2*width/3, width)

	if center > obstacleThreshold {
		if left < right {
			return navigation.CommandTurnLeft
		}
		if right < left {
			return navigation.CommandTurnRight
		}
		return navigation.CommandStop
	}

	if left > obstacleThreshold*1.2 {
		return navigation.CommandTurnRight
	}
	if right > obstacleThreshold*1.2 {
		return navigation.CommandTurnLeft
	}
	return navigation.CommandMoveForward
}

// buildOccupancy ORs every detection into a single height×width grid.
// Detections with a mask are resampled to frame resolution with
// nearest-neighbor interpolation; detections without one fall back to
// filling their bounding box.
func buildOccupancy(detections []Detection, height, width int) ([]bool, bool) {
	occ := make([]bool, height*width)
	any := false

	masked := false
	for _, d := range detections {
		if d.Mask != nil {
			masked = true
			break
		}
	}

	for _, d := range detections {
		if masked {
			if d.Mask == nil {
				continue
			}
			if orMask(occ, d.Mask, height, width) {
				any = true
			}
			continue
		}
		if fillBox(occ, d.Box, height, width) {
			any = true
		}
	}

	return occ, any
}

func orMask(occ []bool, m *Mask, height, width int) bool {
	if m.Width <= 0 || m.Height <= 0 {
		return false
	}
	any := false
	for y := 0; y < height; y++ {
		sy := y * m.Height / height
		for x := 0; x < width; x++ {
			sx := x * m.Width / width
			if m.Bits[sy*m.Width+sx] {
				occ[y*width+x] = true
				any = true
			}
		}
	}
	return any
}

func fillBox(occ []bool, b Box, height, width int) bool {
	x0, y0 := max(b.X0, 0), max(b.Y0, 0)
	x1, y1 := min(b.X1, width), min(b.Y1, height)
	if x0 >= x1 || y0 >= y1 {
		return false
	}
	for y := y0; y < y1; y++ {
		row := occ[y*width : (y+1)*width]
		for x := x0; x < x1; x++ {
			row[x] = true
		}
	}
	return true
}

// bandMean returns the fraction of occupied pixels over columns [x0, x1).
func bandMean(occ []bool, height, width, x0, x1 int) float64 {
	if x0 >= x1 {
		return 0
	}
	occupied := 0
	for y := 0; y < height; y++ {
		row := occ[y*width : (y+1)*width]
		for x := x0; x < x1; x++ {
			if row[x] {
				occupied++
			}
		}
	}
	return float64(occupied) / float64(height*(x1-x0))
}
