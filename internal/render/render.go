// Package render draws landmark skeletons onto frames for display.
package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
)

// Drawing colors and sizes, matching MediaPipe's default drawing style.
var (
	LandmarkColor   = color.RGBA{R: 255, G: 0, B: 0, A: 0}
	ConnectionColor = color.RGBA{R: 255, G: 255, B: 255, A: 0}
	FaceColor       = color.RGBA{R: 80, G: 200, B: 80, A: 0}
)

const (
	landmarkRadius = 2
	faceRadius     = 1
	lineThickness  = 2
)

// ToPixel converts a normalized point to pixel coordinates. Points outside
// the frame report false and are not drawn.
func ToPixel(p detector.Point3D, cols, rows int) (image.Point, bool) {
	if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
		return image.Point{}, false
	}
	x := int(p.X * float64(cols))
	y := int(p.Y * float64(rows))
	if x >= cols {
		x = cols - 1
	}
	if y >= rows {
		y = rows - 1
	}
	return image.Point{X: x, Y: y}, true
}

// DrawLandmarks draws connections first, then a dot per landmark.
func DrawLandmarks(img *gocv.Mat, points []detector.Point3D, connections []Connection) {
	if img == nil || img.Empty() || len(points) == 0 {
		return
	}
	cols, rows := img.Cols(), img.Rows()

	for _, c := range connections {
		if c[0] >= len(points) || c[1] >= len(points) {
			continue
		}
		p1, ok1 := ToPixel(points[c[0]], cols, rows)
		p2, ok2 := ToPixel(points[c[1]], cols, rows)
		if !ok1 || !ok2 {
			continue
		}
		gocv.Line(img, p1, p2, ConnectionColor, lineThickness)
	}

	for _, p := range points {
		if px, ok := ToPixel(p, cols, rows); ok {
			gocv.Circle(img, px, landmarkRadius, LandmarkColor, lineThickness)
		}
	}
}

// DrawHand draws a hand skeleton.
func DrawHand(img *gocv.Mat, hand *detector.HandLandmarks) {
	if hand == nil {
		return
	}
	DrawLandmarks(img, hand.Points[:], HandConnections)
}

// DrawPose draws the body pose skeleton.
func DrawPose(img *gocv.Mat, pose []detector.Point3D) {
	DrawLandmarks(img, pose, PoseConnections)
}

// DrawFace draws face mesh points without the tesselation.
func DrawFace(img *gocv.Mat, face []detector.Point3D) {
	if img == nil || img.Empty() {
		return
	}
	cols, rows := img.Cols(), img.Rows()
	for _, p := range face {
		if px, ok := ToPixel(p, cols, rows); ok {
			gocv.Circle(img, px, faceRadius, FaceColor, -1)
		}
	}
}

// DrawHolistic draws face, both hands and pose, in that order.
func DrawHolistic(img *gocv.Mat, h *detector.Holistic) {
	if h == nil {
		return
	}
	DrawFace(img, h.Face)
	DrawHand(img, h.RightHand)
	DrawHand(img, h.LeftHand)
	DrawPose(img, h.Pose)
}

// DrawLabel writes a short status text in the top-left corner.
func DrawLabel(img *gocv.Mat, text string) {
	if img == nil || img.Empty() || text == "" {
		return
	}
	gocv.PutText(img, text, image.Point{X: 10, Y: 30}, gocv.FontHersheySimplex, 0.8, ConnectionColor, 2)
}
