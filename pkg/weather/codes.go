package weather

// Condition is a human description of a WMO weather code.
type Condition struct {
	Description string
	Icon        string
}

var conditions = map[int]Condition{
	0:  {"Clear sky", "01d"},
	1:  {"Mainly clear", "02d"},
	2:  {"Partly cloudy", "03d"},
	3:  {"Overcast", "04d"},
	45: {"Foggy", "50d"},
	48: {"Depositing rime fog", "50d"},
	51: {"Light drizzle", "09d"},
	53: {"Moderate drizzle", "09d"},
	55: {"Dense drizzle", "09d"},
	61: {"Slight rain", "10d"},
	63: {"Moderate rain", "10d"},
	65: {"Heavy rain", "10d"},
	71: {"Slight snow", "13d"},
	73: {"Moderate snow", "13d"},
	75: {"Heavy snow", "13d"},
	95: {"Thunderstorm", "11d"},
}

// Describe maps a WMO code to its description. Unlisted codes are "Unknown".
func Describe(code int) Condition {
	if c, ok := conditions[code]; ok {
		return c
	}
	return Condition{Description: "Unknown", Icon: "03d"}
}
