package dgeom

import (
	"math"

	"opendwg/dwg/dobject"
)

// Palette is the 256-entry AutoCAD color index.
var Palette [256]RGB

var paletteLevels = [5]float64{255, 189, 129, 104, 79}

func init() {
	Palette[0] = RGB{0, 0, 0}
	Palette[1] = RGB{255, 0, 0}
	Palette[2] = RGB{255, 255, 0}
	Palette[3] = RGB{0, 255, 0}
	Palette[4] = RGB{0, 255, 255}
	Palette[5] = RGB{0, 0, 255}
	Palette[6] = RGB{255, 0, 255}
	Palette[7] = RGB{255, 255, 255}
	Palette[8] = RGB{128, 128, 128}
	Palette[9] = RGB{192, 192, 192}
	for i := 10; i < 250; i++ {
		hue := float64((i-10)/10) * 15
		value := paletteLevels[((i-10)%10)/2]
		saturation := 1.0
		if i%2 == 1 {
			saturation = 1.0 / 3
		}
		Palette[i] = hsv(hue, saturation, value)
	}
	for i, gray := range []uint8{51, 80, 105, 130, 190, 255} {
		Palette[250+i] = RGB{gray, gray, gray}
	}
}

func hsv(hue float64, saturation float64, value float64) RGB {
	sector := math.Floor(hue / 60)
	fraction := hue/60 - sector
	p := value * (1 - saturation)
	q := value * (1 - saturation*fraction)
	t := value * (1 - saturation*(1-fraction))
	var r, g, b float64
	switch int(sector) % 6 {
	case 0:
		r, g, b = value, t, p
	case 1:
		r, g, b = q, value, p
	case 2:
		r, g, b = p, value, t
	case 3:
		r, g, b = p, q, value
	case 4:
		r, g, b = t, p, value
	default:
		r, g, b = value, p, q
	}
	return RGB{
		R: uint8(math.Round(r)),
		G: uint8(math.Round(g)),
		B: uint8(math.Round(b)),
	}
}

// ResolveColor picks the palette entry for an entity color. BYLAYER takes
// the layer color, whose sign only says whether the layer is off. Indices
// outside the palette mean no override.
func ResolveColor(entityColor int16, layerColor int16) *RGB {
	index := int(entityColor)
	if entityColor == dobject.ColorByLayer {
		index = int(layerColor)
		if index < 0 {
			index = -index
		}
	}
	if index < 0 || index >= len(Palette) {
		return nil
	}
	color := Palette[index]
	return &color
}
