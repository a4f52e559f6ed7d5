package transform

// Transform describes the orientation adjustment applied to an image:
// RotateSteps clockwise 90° rotations followed by the optional flips.
// Values are never mutated in place, every operation returns a new one.
type Transform struct {
	RotateSteps int  `json:"rotate_steps"` // always kept in 0..3
	FlipH       bool `json:"flip_h"`
	FlipV       bool `json:"flip_v"`
}

// Identity returns the neutral transform.
func Identity() Transform {
	return Transform{}
}

// IsIdentity reports whether the transform leaves the image untouched.
func (t Transform) IsIdentity() bool {
	return t.RotateSteps%4 == 0 && !t.FlipH && !t.FlipV
}

// RotateCW adds a clockwise 90° step.
func (t Transform) RotateCW() Transform {
	t.RotateSteps = (t.RotateSteps + 1) % 4
	return t
}

// RotateCCW removes a clockwise 90° step.
func (t Transform) RotateCCW() Transform {
	t.RotateSteps = (t.RotateSteps + 3) % 4
	return t
}

// WithFlipH toggles the horizontal flip.
func (t Transform) WithFlipH() Transform {
	t.FlipH = !t.FlipH
	return t
}

// WithFlipV toggles the vertical flip.
func (t Transform) WithFlipV() Transform {
	t.FlipV = !t.FlipV
	return t
}

// DimensionsAfter maps image dimensions through the transform. An odd
// number of 90° steps exchanges width and height, flips never change them.
func (t Transform) DimensionsAfter(width, height int) (int, int) {
	if t.RotateSteps%2 == 1 {
		return height, width
	}
	return width, height
}

// Equal reports structural equality with rotation taken mod 4.
func Equal(a, b Transform) bool {
	return a.RotateSteps%4 == b.RotateSteps%4 && a.FlipH == b.FlipH && a.FlipV == b.FlipV
}

// Compose returns the transform equivalent to applying first, then second.
// Rotations add mod 4. When second carries an odd rotation the semantic
// meaning of the horizontal and vertical axes is exchanged, so first's flip
// pair is swapped before each flag is XOR-combined with second's.
func Compose(first, second Transform) Transform {
	flipH, flipV := first.FlipH, first.FlipV
	if second.RotateSteps%2 == 1 {
		flipH, flipV = flipV, flipH
	}

	return Transform{
		RotateSteps: (first.RotateSteps + second.RotateSteps) % 4,
		FlipH:       flipH != second.FlipH,
		FlipV:       flipV != second.FlipV,
	}
}
