package round

import (
	"math"
	"strings"
)

// CarModel is a drivable car. Scale and BaseHeading orient the body the
// way the imported models were oriented; the body box is in world units
// before scaling.
type CarModel struct {
	Name        string
	Scale       float64
	BaseHeading float64
	Length      float64
	Width       float64
	Height      float64
	Color       [3]float32
}

// Lane start positions across the first road tile (x, for a width-30 road).
var LaneX = [3]float64{5, 15, 25}

// PlayerLane is the lane the selected car starts in.
const PlayerLane = 1

const DefaultCar = "aventador"

var CarModels = []CarModel{
	{Name: "viper", Scale: 0.6, BaseHeading: math.Pi, Length: 7.5, Width: 3.4, Height: 2.0, Color: [3]float32{0.80, 0.10, 0.12}},
	{Name: "aventador", Scale: 1.7, BaseHeading: math.Pi / 2, Length: 2.8, Width: 1.2, Height: 0.7, Color: [3]float32{0.95, 0.75, 0.10}},
	{Name: "shelby1967", Scale: 1, BaseHeading: 0, Length: 4.7, Width: 1.8, Height: 1.3, Color: [3]float32{0.15, 0.30, 0.75}},
}

// LookupCar finds a model by name, case-insensitively.
func LookupCar(name string) (CarModel, bool) {
	for _, m := range CarModels {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return CarModel{}, false
}

// Dimensions returns the scaled body box (length, width, height).
func (m CarModel) Dimensions() (l, w, h float64) {
	return m.Length * m.Scale, m.Width * m.Scale, m.Height * m.Scale
}

// StartX scales a lane position to the road width.
func StartX(lane int, roadWidth float64) float64 {
	if lane < 0 || lane >= len(LaneX) {
		lane = PlayerLane
	}
	return LaneX[lane] * roadWidth / 30
}
