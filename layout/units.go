package layout

// This file defines the unit conventions shared by the planner and the renderer.
//
// The canvas backend measures in millimetres and sizes fonts in points. Captions
// are rasterized at one dot per millimetre, so a canvas millimetre is exactly one
// output pixel and pixel lengths can be handed to the backend unchanged. Only
// font sizes need converting.

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// DotsPerMM is the rasterization resolution used for every caption layer.
const DotsPerMM = 1.0

// PxToPt converts a pixel length (== canvas mm) to points for font faces.
func PxToPt(px float64) float64 { return px / DotsPerMM * MmToPt }

// PtToPx converts a point size back to pixels.
func PtToPx(pt float64) float64 { return pt * PtToMm * DotsPerMM }
