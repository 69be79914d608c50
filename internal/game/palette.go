package game

// RGB is an 8-bit per channel colour.
type RGB struct {
	R, G, B uint8
}

func (c RGB) Mul(k uint8) RGB {
	return RGB{
		R: uint8((uint16(c.R) * uint16(k)) / 255),
		G: uint8((uint16(c.G) * uint16(k)) / 255),
		B: uint8((uint16(c.B) * uint16(k)) / 255),
	}
}

func (c RGB) Add(dr, dg, db int) RGB {
	r := int(c.R) + dr
	g := int(c.G) + dg
	b := int(c.B) + db
	if r < 0 {
		r = 0
	} else if r > 255 {
		r = 255
	}
	if g < 0 {
		g = 0
	} else if g > 255 {
		g = 255
	}
	if b < 0 {
		b = 0
	} else if b > 255 {
		b = 255
	}
	return RGB{R: uint8(r), G: uint8(g), B: uint8(b)}
}

// FromFloat converts a 0..1 colour.
func FromFloat(c [3]float32) RGB {
	conv := func(v float32) uint8 {
		switch {
		case v <= 0:
			return 0
		case v >= 1:
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return RGB{R: conv(c[0]), G: conv(c[1]), B: conv(c[2])}
}

var Palette = struct {
	Sky     RGB
	Road    RGB
	FinishA RGB
	FinishB RGB
	Text    RGB
	TextDim RGB
	Title   RGB
	Win     RGB
	Lose    RGB
}{
	Sky:     RGB{R: 150, G: 190, B: 215},
	Road:    RGB{R: 60, G: 66, B: 79},
	FinishA: RGB{R: 240, G: 240, B: 240},
	FinishB: RGB{R: 20, G: 20, B: 20},
	Text:    RGB{R: 255, G: 255, B: 255},
	TextDim: RGB{R: 190, G: 196, B: 205},
	Title:   RGB{R: 255, G: 200, B: 90},
	Win:     RGB{R: 110, G: 230, B: 120},
	Lose:    RGB{R: 255, G: 90, B: 70},
}
