package prayer

import "github.com/yanqian/prayer-api/internal/domain/location"

// LocationRequest carries the optional location hints of a request.
type LocationRequest struct {
	City      string
	Latitude  *float64
	Longitude *float64
}

// PrayerEntry is one row of the bilingual prayer table.
type PrayerEntry struct {
	Name       string `json:"name"`
	NameArabic string `json:"nameArabic"`
	Time       string `json:"time"`
}

// AdditionalTimes groups the night markers and the Qiblah bearing.
type AdditionalTimes struct {
	Midnight           string `json:"midnight"`
	SecondThirdOfNight string `json:"secondThirdOfNight"`
	LastThirdOfNight   string `json:"lastThirdOfNight"`
	QiblahDirection    string `json:"qiblahDirection"`
}

// LocationInfo describes the coordinates and conventions used for a request.
type LocationInfo struct {
	Longitude      float64 `json:"longitude"`
	Latitude       float64 `json:"latitude"`
	Timezone       string  `json:"timezone"`
	FajrIshaMethod string  `json:"fajr_isha_method"`
	AsrMadhab      string  `json:"asr_madhab"`
}

// FullResponse is the payload of GET /prayer-times.
type FullResponse struct {
	PrayerTimes     []PrayerEntry   `json:"prayerTimes"`
	Location        string          `json:"location"`
	HijriDate       string          `json:"hijriDate"`
	GregorianDate   string          `json:"gregorianDate"`
	AdditionalTimes AdditionalTimes `json:"additionalTimes"`
	LocationInfo    LocationInfo    `json:"locationInfo"`
}

// SingleTimeResponse is the payload of GET /prayer-times/:name.
type SingleTimeResponse struct {
	Prayer string `json:"prayer"`
	Time   string `json:"time"`
	Date   string `json:"date"`
}

// LocationsResponse lists the registry.
type LocationsResponse struct {
	Locations []location.Location `json:"locations"`
	Count     int                 `json:"count"`
}

// QiblahResponse carries the formatted bearing.
type QiblahResponse struct {
	QiblahDirection string `json:"qiblahDirection"`
}
