package render

import "github.com/ayusman/mudra/internal/detector"

// Connection joins two landmark indices.
type Connection [2]int

// HandConnections is the MediaPipe hand skeleton.
var HandConnections = []Connection{
	// Palm
	{detector.Wrist, detector.ThumbCMC},
	{detector.Wrist, detector.IndexMCP},
	{detector.IndexMCP, detector.MiddleMCP},
	{detector.MiddleMCP, detector.RingMCP},
	{detector.RingMCP, detector.PinkyMCP},
	{detector.Wrist, detector.PinkyMCP},
	// Thumb
	{detector.ThumbCMC, detector.ThumbMCP},
	{detector.ThumbMCP, detector.ThumbIP},
	{detector.ThumbIP, detector.ThumbTip},
	// Index
	{detector.IndexMCP, detector.IndexPIP},
	{detector.IndexPIP, detector.IndexDIP},
	{detector.IndexDIP, detector.IndexTip},
	// Middle
	{detector.MiddleMCP, detector.MiddlePIP},
	{detector.MiddlePIP, detector.MiddleDIP},
	{detector.MiddleDIP, detector.MiddleTip},
	// Ring
	{detector.RingMCP, detector.RingPIP},
	{detector.RingPIP, detector.RingDIP},
	{detector.RingDIP, detector.RingTip},
	// Pinky
	{detector.PinkyMCP, detector.PinkyPIP},
	{detector.PinkyPIP, detector.PinkyDIP},
	{detector.PinkyDIP, detector.PinkyTip},
}

// PoseConnections is the MediaPipe body pose skeleton over 33 landmarks.
var PoseConnections = []Connection{
	// Face
	{0, 1}, {1, 2}, {2, 3}, {3, 7}, {0, 4}, {4, 5}, {5, 6}, {6, 8}, {9, 10},
	// Torso
	{11, 12}, {11, 23}, {12, 24}, {23, 24},
	// Left arm and hand
	{11, 13}, {13, 15}, {15, 17}, {15, 19}, {15, 21}, {17, 19},
	// Right arm and hand
	{12, 14}, {14, 16}, {16, 18}, {16, 20}, {16, 22}, {18, 20},
	// Legs
	{23, 25}, {24, 26}, {25, 27}, {26, 28}, {27, 29}, {28, 30},
	{29, 31}, {30, 32}, {27, 31}, {28, 32},
}
