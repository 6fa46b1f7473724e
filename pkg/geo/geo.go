// Package geo places zones on the map and estimates travel between them.
package geo

import (
	"math"
	"strings"
)

const earthRadiusKm = 6371

// Coordinates is a point in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type city struct {
	zone   string
	coords Coordinates
}

// cities approximates each zone by its best-known city. Order matters: lookups
// take the first match.
var cities = []city{
	// Africa
	{"Africa/Abidjan", Coordinates{Lat: 5.3600, Lon: -4.0083}},
	{"Africa/Accra", Coordinates{Lat: 5.6037, Lon: -0.1870}},
	{"Africa/Addis_Ababa", Coordinates{Lat: 9.0320, Lon: 38.7421}},
	{"Africa/Algiers", Coordinates{Lat: 36.7538, Lon: 3.0588}},
	{"Africa/Asmara", Coordinates{Lat: 15.3229, Lon: 38.9251}},
	{"Africa/Bamako", Coordinates{Lat: 12.6392, Lon: -8.0029}},
	{"Africa/Bangui", Coordinates{Lat: 4.3947, Lon: 18.5582}},
	{"Africa/Banjul", Coordinates{Lat: 13.4549, Lon: -16.5790}},
	{"Africa/Bissau", Coordinates{Lat: 11.8636, Lon: -15.5846}},
	{"Africa/Blantyre", Coordinates{Lat: -15.7861, Lon: 35.0058}},
	{"Africa/Brazzaville", Coordinates{Lat: -4.2634, Lon: 15.2429}},
	{"Africa/Bujumbura", Coordinates{Lat: -3.3614, Lon: 29.3599}},
	{"Africa/Cairo", Coordinates{Lat: 30.0444, Lon: 31.2357}},
	{"Africa/Casablanca", Coordinates{Lat: 33.5731, Lon: -7.5898}},
	{"Africa/Ceuta", Coordinates{Lat: 35.8894, Lon: -5.3213}},
	{"Africa/Conakry", Coordinates{Lat: 9.6412, Lon: -13.5784}},
	{"Africa/Dakar", Coordinates{Lat: 14.7167, Lon: -17.4677}},
	{"Africa/Dar_es_Salaam", Coordinates{Lat: -6.7924, Lon: 39.2083}},
	{"Africa/Djibouti", Coordinates{Lat: 11.8251, Lon: 42.5903}},
	{"Africa/Douala", Coordinates{Lat: 4.0511, Lon: 9.7679}},
	{"Africa/El_Aaiun", Coordinates{Lat: 27.1536, Lon: -13.2033}},
	{"Africa/Freetown", Coordinates{Lat: 8.4849, Lon: -13.2343}},
	{"Africa/Gaborone", Coordinates{Lat: -24.6282, Lon: 25.9231}},
	{"Africa/Harare", Coordinates{Lat: -17.8292, Lon: 31.0522}},
	{"Africa/Johannesburg", Coordinates{Lat: -26.2041, Lon: 28.0473}},
	{"Africa/Juba", Coordinates{Lat: 4.8517, Lon: 31.5825}},
	{"Africa/Kampala", Coordinates{Lat: 0.3476, Lon: 32.5825}},
	{"Africa/Khartoum", Coordinates{Lat: 15.5007, Lon: 32.5599}},
	{"Africa/Kigali", Coordinates{Lat: -1.9441, Lon: 30.0619}},
	{"Africa/Kinshasa", Coordinates{Lat: -4.4419, Lon: 15.2663}},
	{"Africa/Lagos", Coordinates{Lat: 6.5244, Lon: 3.3792}},
	{"Africa/Libreville", Coordinates{Lat: 0.4162, Lon: 9.4673}},
	{"Africa/Lome", Coordinates{Lat: 6.1375, Lon: 1.2123}},
	{"Africa/Luanda", Coordinates{Lat: -8.8147, Lon: 13.2302}},
	{"Africa/Lubumbashi", Coordinates{Lat: -11.6876, Lon: 27.5026}},
	{"Africa/Lusaka", Coordinates{Lat: -15.3875, Lon: 28.3228}},
	{"Africa/Malabo", Coordinates{Lat: 3.7523, Lon: 8.7742}},
	{"Africa/Maputo", Coordinates{Lat: -25.9692, Lon: 32.5732}},
	{"Africa/Maseru", Coordinates{Lat: -29.3167, Lon: 27.4833}},
	{"Africa/Mbabane", Coordinates{Lat: -26.3054, Lon: 31.1367}},
	{"Africa/Mogadishu", Coordinates{Lat: 2.0469, Lon: 45.3182}},
	{"Africa/Monrovia", Coordinates{Lat: 6.3004, Lon: -10.7969}},
	{"Africa/Nairobi", Coordinates{Lat: -1.2921, Lon: 36.8219}},
	{"Africa/Ndjamena", Coordinates{Lat: 12.1348, Lon: 15.0557}},
	{"Africa/Niamey", Coordinates{Lat: 13.5137, Lon: 2.1098}},
	{"Africa/Nouakchott", Coordinates{Lat: 18.0735, Lon: -15.9582}},
	{"Africa/Ouagadougou", Coordinates{Lat: 12.3714, Lon: -1.5197}},
	{"Africa/Porto-Novo", Coordinates{Lat: 6.4969, Lon: 2.6283}},
	{"Africa/Sao_Tome", Coordinates{Lat: 0.3302, Lon: 6.7333}},
	{"Africa/Tripoli", Coordinates{Lat: 32.8872, Lon: 13.1913}},
	{"Africa/Tunis", Coordinates{Lat: 36.8065, Lon: 10.1815}},
	{"Africa/Windhoek", Coordinates{Lat: -22.5609, Lon: 17.0658}},

	// America
	{"America/New_York", Coordinates{Lat: 40.7128, Lon: -74.0060}},
	{"America/Los_Angeles", Coordinates{Lat: 34.0522, Lon: -118.2437}},
	{"America/Chicago", Coordinates{Lat: 41.8781, Lon: -87.6298}},
	{"America/Toronto", Coordinates{Lat: 43.6532, Lon: -79.3832}},
	{"America/Vancouver", Coordinates{Lat: 49.2827, Lon: -123.1207}},
	{"America/Mexico_City", Coordinates{Lat: 19.4326, Lon: -99.1332}},
	{"America/Phoenix", Coordinates{Lat: 33.4484, Lon: -112.0740}},
	{"America/Denver", Coordinates{Lat: 39.7392, Lon: -104.9903}},
	{"America/Sao_Paulo", Coordinates{Lat: -23.5505, Lon: -46.6333}},
	{"America/Buenos_Aires", Coordinates{Lat: -34.6037, Lon: -58.3816}},
	{"America/Santiago", Coordinates{Lat: -33.4489, Lon: -70.6693}},
	{"America/Adak", Coordinates{Lat: 51.8800, Lon: -176.6580}},
	{"America/Anchorage", Coordinates{Lat: 61.2181, Lon: -149.9003}},
	{"America/Anguilla", Coordinates{Lat: 18.2206, Lon: -63.0686}},
	{"America/Antigua", Coordinates{Lat: 17.1274, Lon: -61.8468}},
	{"America/Araguaina", Coordinates{Lat: -7.1919, Lon: -48.2029}},
	{"America/Asuncion", Coordinates{Lat: -25.2867, Lon: -57.3333}},
	{"America/Atikokan", Coordinates{Lat: 48.7597, Lon: -91.6225}},
	{"America/Bahia", Coordinates{Lat: -12.9711, Lon: -38.5108}},
	{"America/Barbados", Coordinates{Lat: 13.1939, Lon: -59.5432}},
	{"America/Belize", Coordinates{Lat: 17.5046, Lon: -88.1962}},
	{"America/Bogota", Coordinates{Lat: 4.7110, Lon: -74.0721}},
	{"America/Caracas", Coordinates{Lat: 10.4806, Lon: -66.9036}},
	{"America/Costa_Rica", Coordinates{Lat: 9.9281, Lon: -84.0907}},

	// Asia
	{"Asia/Tokyo", Coordinates{Lat: 35.6762, Lon: 139.6503}},
	{"Asia/Dubai", Coordinates{Lat: 25.2048, Lon: 55.2708}},
	{"Asia/Shanghai", Coordinates{Lat: 31.2304, Lon: 121.4737}},
	{"Asia/Singapore", Coordinates{Lat: 1.3521, Lon: 103.8198}},
	{"Asia/Hong_Kong", Coordinates{Lat: 22.3193, Lon: 114.1694}},
	{"Asia/Seoul", Coordinates{Lat: 37.5665, Lon: 126.9780}},
	{"Asia/Bangkok", Coordinates{Lat: 13.7563, Lon: 100.5018}},
	{"Asia/Kolkata", Coordinates{Lat: 22.5726, Lon: 88.3639}},
	{"Asia/Jakarta", Coordinates{Lat: -6.2088, Lon: 106.8456}},
	{"Asia/Almaty", Coordinates{Lat: 43.2220, Lon: 76.8512}},
	{"Asia/Amman", Coordinates{Lat: 31.9454, Lon: 35.9284}},
	{"Asia/Baghdad", Coordinates{Lat: 33.3152, Lon: 44.3661}},
	{"Asia/Baku", Coordinates{Lat: 40.4093, Lon: 49.8671}},
	{"Asia/Beirut", Coordinates{Lat: 33.8938, Lon: 35.5018}},
	{"Asia/Dhaka", Coordinates{Lat: 23.8103, Lon: 90.4125}},
	{"Asia/Jerusalem", Coordinates{Lat: 31.7683, Lon: 35.2137}},
	{"Asia/Karachi", Coordinates{Lat: 24.8607, Lon: 67.0011}},
	{"Asia/Manila", Coordinates{Lat: 14.5995, Lon: 120.9842}},
	{"Asia/Tashkent", Coordinates{Lat: 41.2995, Lon: 69.2401}},

	// Europe
	{"Europe/London", Coordinates{Lat: 51.5074, Lon: -0.1278}},
	{"Europe/Paris", Coordinates{Lat: 48.8566, Lon: 2.3522}},
	{"Europe/Berlin", Coordinates{Lat: 52.5200, Lon: 13.4050}},
	{"Europe/Rome", Coordinates{Lat: 41.9028, Lon: 12.4964}},
	{"Europe/Madrid", Coordinates{Lat: 40.4168, Lon: -3.7038}},
	{"Europe/Amsterdam", Coordinates{Lat: 52.3676, Lon: 4.9041}},
	{"Europe/Moscow", Coordinates{Lat: 55.7558, Lon: 37.6173}},
	{"Europe/Istanbul", Coordinates{Lat: 41.0082, Lon: 28.9784}},
	{"Europe/Athens", Coordinates{Lat: 37.9838, Lon: 23.7275}},
	{"Europe/Brussels", Coordinates{Lat: 50.8503, Lon: 4.3517}},
	{"Europe/Copenhagen", Coordinates{Lat: 55.6761, Lon: 12.5683}},
	{"Europe/Dublin", Coordinates{Lat: 53.3498, Lon: -6.2603}},
	{"Europe/Helsinki", Coordinates{Lat: 60.1699, Lon: 24.9384}},
	{"Europe/Kiev", Coordinates{Lat: 50.4501, Lon: 30.5234}},
	{"Europe/Oslo", Coordinates{Lat: 59.9139, Lon: 10.7522}},
	{"Europe/Stockholm", Coordinates{Lat: 59.3293, Lon: 18.0686}},
	{"Europe/Vienna", Coordinates{Lat: 48.2082, Lon: 16.3738}},
	{"Europe/Warsaw", Coordinates{Lat: 52.2297, Lon: 21.0122}},
	{"Europe/Zurich", Coordinates{Lat: 47.3769, Lon: 8.5417}},

	// Oceania
	{"Australia/Sydney", Coordinates{Lat: -33.8688, Lon: 151.2093}},
	{"Australia/Melbourne", Coordinates{Lat: -37.8136, Lon: 144.9631}},
	{"Australia/Perth", Coordinates{Lat: -31.9505, Lon: 115.8605}},
	{"Pacific/Auckland", Coordinates{Lat: -36.8485, Lon: 174.7633}},
	{"Pacific/Fiji", Coordinates{Lat: -18.1416, Lon: 178.4419}},
	{"Pacific/Guam", Coordinates{Lat: 13.4443, Lon: 144.7937}},
	{"Pacific/Honolulu", Coordinates{Lat: 21.3069, Lon: -157.8583}},
	{"Pacific/Port_Moresby", Coordinates{Lat: -9.4438, Lon: 147.1803}},
	{"Pacific/Samoa", Coordinates{Lat: -13.7590, Lon: -172.1046}},

	// Additional Regions
	{"Atlantic/Reykjavik", Coordinates{Lat: 64.1265, Lon: -21.8174}},
	{"Indian/Maldives", Coordinates{Lat: 4.1755, Lon: 73.5093}},
}

// Lookup returns approximate coordinates for zone. The last path segment of the
// zone is matched case-insensitively as a substring of the table's zone ids, so
// "America/Argentina/Buenos_Aires" finds "America/Buenos_Aires".
func Lookup(zone string) (Coordinates, bool) {
	seg := zone
	if i := strings.LastIndex(zone, "/"); i >= 0 {
		seg = zone[i+1:]
	}
	seg = strings.ToLower(seg)
	if seg == "" {
		return Coordinates{}, false
	}
	for _, c := range cities {
		if strings.Contains(strings.ToLower(c.zone), seg) {
			return c.coords, true
		}
	}
	return Coordinates{}, false
}

// Distance is the great-circle distance between a and b, rounded to whole kilometers.
func Distance(a, b Coordinates) int {
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return int(math.Round(earthRadiusKm * c))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
