package prayer

import (
	"time"

	apperrors "github.com/yanqian/prayer-api/pkg/errors"
	"github.com/yanqian/prayer-api/pkg/util"
)

const dateLayout = "2006-01-02"

// Assembler maps computed values onto the public response shapes.
type Assembler struct{}

// NewAssembler returns a stateless assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// BuildFullResponse renders the full day view.
func (a Assembler) BuildFullResponse(set TimeSet, hijri HijriDate, label string, date time.Time, cfg CalculationConfig) FullResponse {
	entries := make([]PrayerEntry, 0, len(Labels))
	for _, l := range Labels {
		entries = append(entries, PrayerEntry{
			Name:       l.English,
			NameArabic: l.Arabic,
			Time:       set.TimeOf(l.Name),
		})
	}
	return FullResponse{
		PrayerTimes:   entries,
		Location:      label,
		HijriDate:     hijri.String(),
		GregorianDate: date.Format(dateLayout),
		AdditionalTimes: AdditionalTimes{
			Midnight:           set.Midnight,
			SecondThirdOfNight: set.SecondThirdOfNight,
			LastThirdOfNight:   set.LastThirdOfNight,
			QiblahDirection:    set.QiblahDirection,
		},
		LocationInfo: a.BuildLocationInfo(cfg),
	}
}

// BuildSingleTime returns one prayer time. The prayer field echoes the name
// exactly as requested.
func (Assembler) BuildSingleTime(set TimeSet, requested string, date time.Time) (SingleTimeResponse, error) {
	name, ok := Canonicalize(requested)
	if !ok {
		return SingleTimeResponse{}, invalidPrayerName(requested)
	}
	return SingleTimeResponse{
		Prayer: requested,
		Time:   set.TimeOf(name),
		Date:   date.Format(dateLayout),
	}, nil
}

// BuildLocationInfo describes cfg.
func (Assembler) BuildLocationInfo(cfg CalculationConfig) LocationInfo {
	info := LocationInfo{
		Longitude: cfg.Longitude,
		Latitude:  cfg.Latitude,
		Timezone:  util.GMTLabel(cfg.TimezoneOffset),
		AsrMadhab: cfg.School.Label(),
	}
	if spec, ok := cfg.Method.Spec(); ok {
		info.FajrIshaMethod = spec.Organization
	}
	return info
}

func invalidPrayerName(requested string) error {
	return apperrors.Wrap(CodeInvalidPrayerName, "invalid prayer name: "+requested, nil)
}
