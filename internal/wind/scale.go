package wind

// Beaufort force upper bounds in km/h, indexed by force number. Source:
// the RMetS Beaufort scale reference.
var beaufortBoundsKMH = [13]float64{1, 5, 11, 19, 28, 38, 49, 61, 74, 88, 102, 117, 118}

const maxBeaufort = 12

// BeaufortNumber returns the Beaufort force for a wind speed in m/s.
func BeaufortNumber(speedMS float64) int {
	for force, kmh := range beaufortBoundsKMH {
		if speedMS <= kmh*1000/3600 {
			return force
		}
	}
	return maxBeaufort
}

var cardinals = [8]string{"NE", "E", "SE", "S", "SW", "W", "NW", "N"}

// DegreesToCardinal returns the 8-point compass direction for a bearing
// in degrees. Bearings within 22.5° of north map to "N".
func DegreesToCardinal(deg float64) string {
	lower := 22.5
	for _, dir := range cardinals[:len(cardinals)-1] {
		upper := lower + 45
		if deg > lower && deg <= upper {
			return dir
		}
		lower = upper
	}
	return cardinals[len(cardinals)-1]
}
