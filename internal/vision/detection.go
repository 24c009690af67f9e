package vision

// Box is an axis-aligned bounding box in pixel coordinates.
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Width returns the box width in pixels.
func (b Box) Width() float64 { return b.Right - b.Left }

// Height returns the box height in pixels.
func (b Box) Height() float64 { return b.Bottom - b.Top }

// Area returns the box area in square pixels.
func (b Box) Area() float64 { return b.Width() * b.Height() }

// NormBox is a bounding box in normalized [0,1] image coordinates,
// resolution independent.
type NormBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// CenterX returns the horizontal box center in [0,1].
func (b NormBox) CenterX() float64 { return (b.Left + b.Right) / 2.0 }

// CenterY returns the vertical box center in [0,1].
func (b NormBox) CenterY() float64 { return (b.Top + b.Bottom) / 2.0 }

// Detection is a single detector output for one frame. Detections are
// produced by the external object-detection collaborator and are read-only
// to this package.
type Detection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"` // detector confidence in [0,1]
	Pixel      Box     `json:"pixel"`
	Norm       NormBox `json:"norm"`
}

// Normalize fills the normalized box from the pixel box and image size.
// Detector backends that only report pixel coordinates call this once at
// the boundary.
func (d *Detection) Normalize(imageWidth, imageHeight float64) {
	if imageWidth <= 0 || imageHeight <= 0 {
		return
	}
	d.Norm = NormBox{
		Left:   d.Pixel.Left / imageWidth,
		Top:    d.Pixel.Top / imageHeight,
		Right:  d.Pixel.Right / imageWidth,
		Bottom: d.Pixel.Bottom / imageHeight,
	}
}
