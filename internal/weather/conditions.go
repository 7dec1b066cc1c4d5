package weather

import "math"

// Romanian condition labels.
const (
	ConditionStorm        = "Furtună"
	ConditionDrizzle      = "Burniță"
	ConditionRain         = "Ploios"
	ConditionSnow         = "Ninsoare"
	ConditionFog          = "Ceață"
	ConditionClear        = "Senin"
	ConditionPartlyCloudy = "Parțial noros"
	ConditionCloudy       = "Noros"
	ConditionUnknown      = "Necunoscut"
)

var compass = [...]string{
	"N", "NNE", "NE", "ENE",
	"E", "ESE", "SE", "SSE",
	"S", "SSV", "SV", "VSV",
	"V", "VNV", "NV", "NNV",
}

// WindDirection maps degrees to a 16-point Romanian compass label.
func WindDirection(degrees float64) string {
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	return compass[int(math.Round(d/22.5))%len(compass)]
}

// openWeatherCondition maps OpenWeatherMap condition ids.
func openWeatherCondition(id int) string {
	switch {
	case id >= 200 && id < 300:
		return ConditionStorm
	case id >= 300 && id < 400:
		return ConditionDrizzle
	case id >= 500 && id < 600:
		return ConditionRain
	case id >= 600 && id < 700:
		return ConditionSnow
	case id >= 700 && id < 800:
		return ConditionFog
	case id == 800:
		return ConditionClear
	case id == 801:
		return ConditionPartlyCloudy
	case id >= 802:
		return ConditionCloudy
	default:
		return ConditionUnknown
	}
}

// openMeteoDescribe maps WMO weather codes to a condition and description.
func openMeteoDescribe(code int) (string, string) {
	switch code {
	case 0:
		return ConditionClear, "cer senin"
	case 1:
		return ConditionPartlyCloudy, "predominant senin"
	case 2:
		return ConditionPartlyCloudy, "parțial noros"
	case 3:
		return ConditionCloudy, "cer acoperit"
	case 45, 48:
		return ConditionFog, "ceață"
	case 51, 53, 55, 56, 57:
		return ConditionDrizzle, "burniță"
	case 61, 63, 65, 66, 67:
		return ConditionRain, "ploaie"
	case 71, 73, 75, 77:
		return ConditionSnow, "ninsoare"
	case 80, 81, 82:
		return ConditionRain, "averse de ploaie"
	case 85, 86:
		return ConditionSnow, "averse de ninsoare"
	case 95:
		return ConditionStorm, "furtună"
	case 96, 99:
		return ConditionStorm, "furtună cu grindină"
	default:
		return ConditionUnknown, "condiții necunoscute"
	}
}
