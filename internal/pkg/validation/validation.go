package validation

import "regexp"

// phoneRe accepts E.164-style numbers: optional +, 10 to 15 digits.
var phoneRe = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// nameRe: letters, spaces, hyphens, apostrophes only.
var nameRe = regexp.MustCompile(`^[A-Za-z\s\-']+$`)

func IsValidPhone(phone string) bool {
	return phoneRe.MatchString(phone)
}

func IsValidName(name string) bool {
	return name != "" && nameRe.MatchString(name)
}

// IsValidLatLng bounds-checks a geotag.
func IsValidLatLng(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
