package prayer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownMethod is returned when a method ID has no preset.
var ErrUnknownMethod = errors.New("unknown calculation method")

// ErrInvalidParameters is returned for angles or intervals that cannot produce a schedule.
var ErrInvalidParameters = errors.New("invalid calculation parameters")

// Madhab selects the Asr shadow rule.
type Madhab int

const (
	// Standard is the Shafi'i, Maliki and Hanbali rule: shadow length equals object length.
	Standard Madhab = iota
	// Hanafi waits until the shadow is twice the object length.
	Hanafi
)

// ShadowFactor returns 1 for Standard and 2 for Hanafi.
func (m Madhab) ShadowFactor() float64 {
	if m == Hanafi {
		return 2
	}
	return 1
}

func (m Madhab) String() string {
	if m == Hanafi {
		return "hanafi"
	}
	return "standard"
}

// ParseMadhab accepts "standard", "shafi" or "hanafi" (case-insensitive).
func ParseMadhab(s string) (Madhab, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard", "shafi", "shafii", "0":
		return Standard, nil
	case "hanafi", "1":
		return Hanafi, nil
	default:
		return Standard, fmt.Errorf("unknown madhab %q (want standard or hanafi)", s)
	}
}

// Offsets are per-prayer adjustments in whole minutes.
type Offsets struct {
	Fajr    int `json:"fajr"`
	Dhuhr   int `json:"dhuhr"`
	Asr     int `json:"asr"`
	Maghrib int `json:"maghrib"`
	Isha    int `json:"isha"`
}

// Method is a named set of twilight angles. IDs follow the Al Adhan API.
type Method struct {
	ID           int
	Name         string
	FajrAngle    float64
	IshaAngle    float64
	IshaInterval int     // minutes after Maghrib; replaces IshaAngle when > 0
	MaghribAngle float64 // 0 means standard sunset
}

// CalculationParameters drive ComputeSchedule.
type CalculationParameters struct {
	Method       int
	FajrAngle    float64
	IshaAngle    float64
	IshaInterval int
	MaghribAngle float64
	Madhab       Madhab
	Offsets      Offsets
}

// Karachi is the University of Islamic Sciences, Karachi method.
const Karachi = 1

var methods = map[int]Method{
	0:  {ID: 0, Name: "Shia Ithna-Ashari, Leva Institute, Qum", FajrAngle: 16, IshaAngle: 14, MaghribAngle: 4},
	1:  {ID: 1, Name: "University of Islamic Sciences, Karachi", FajrAngle: 18, IshaAngle: 18},
	2:  {ID: 2, Name: "Islamic Society of North America", FajrAngle: 15, IshaAngle: 15},
	3:  {ID: 3, Name: "Muslim World League", FajrAngle: 18, IshaAngle: 17},
	4:  {ID: 4, Name: "Umm Al-Qura University, Makkah", FajrAngle: 18.5, IshaInterval: 90},
	5:  {ID: 5, Name: "Egyptian General Authority of Survey", FajrAngle: 19.5, IshaAngle: 17.5},
	7:  {ID: 7, Name: "Institute of Geophysics, University of Tehran", FajrAngle: 17.7, IshaAngle: 14, MaghribAngle: 4.5},
	8:  {ID: 8, Name: "Gulf Region", FajrAngle: 19.5, IshaInterval: 90},
	9:  {ID: 9, Name: "Kuwait", FajrAngle: 18, IshaAngle: 17.5},
	10: {ID: 10, Name: "Qatar", FajrAngle: 18, IshaInterval: 90},
	11: {ID: 11, Name: "Majlis Ugama Islam Singapura, Singapore", FajrAngle: 20, IshaAngle: 18},
	12: {ID: 12, Name: "Union Organization Islamic de France", FajrAngle: 12, IshaAngle: 12},
	13: {ID: 13, Name: "Diyanet İşleri Başkanlığı, Turkey", FajrAngle: 18, IshaAngle: 17},
	14: {ID: 14, Name: "Spiritual Administration of Muslims of Russia", FajrAngle: 16, IshaAngle: 15},
	16: {ID: 16, Name: "Dubai", FajrAngle: 18.2, IshaAngle: 18.2},
	17: {ID: 17, Name: "Jabatan Kemajuan Islam Malaysia (JAKIM)", FajrAngle: 20, IshaAngle: 18},
	18: {ID: 18, Name: "Tunisia", FajrAngle: 18, IshaAngle: 18},
	19: {ID: 19, Name: "Algeria", FajrAngle: 18, IshaAngle: 17},
	20: {ID: 20, Name: "Kementerian Agama Republik Indonesia", FajrAngle: 20, IshaAngle: 18},
	21: {ID: 21, Name: "Morocco", FajrAngle: 19, IshaAngle: 17},
	22: {ID: 22, Name: "Comunidade Islamica de Lisboa", FajrAngle: 18, IshaInterval: 77},
	23: {ID: 23, Name: "Ministry of Awqaf, Islamic Affairs and Holy Places, Jordan", FajrAngle: 18, IshaAngle: 18},
}

// MethodByID returns a copy of the preset with the given ID.
func MethodByID(id int) (Method, error) {
	m, ok := methods[id]
	if !ok {
		return Method{}, fmt.Errorf("%w: %d", ErrUnknownMethod, id)
	}
	return m, nil
}

// Methods returns every preset ordered by ID.
func Methods() []Method {
	out := make([]Method, 0, len(methods))
	for _, m := range methods {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Params builds calculation parameters for the method with the Standard
// madhab and no offsets.
func (m Method) Params() CalculationParameters {
	return CalculationParameters{
		Method:       m.ID,
		FajrAngle:    m.FajrAngle,
		IshaAngle:    m.IshaAngle,
		IshaInterval: m.IshaInterval,
		MaghribAngle: m.MaghribAngle,
		Madhab:       Standard,
	}
}

// DefaultParameters is Karachi with the Hanafi Asr rule.
func DefaultParameters() CalculationParameters {
	p := methods[Karachi].Params()
	p.Madhab = Hanafi
	return p
}

// Validate checks that the angles describe a reachable, ordered day.
func (p CalculationParameters) Validate() error {
	if p.FajrAngle <= 0 || p.FajrAngle >= 90 {
		return fmt.Errorf("%w: fajr angle %v", ErrInvalidParameters, p.FajrAngle)
	}
	if p.IshaInterval < 0 {
		return fmt.Errorf("%w: isha interval %d", ErrInvalidParameters, p.IshaInterval)
	}
	if p.IshaInterval == 0 && (p.IshaAngle <= 0 || p.IshaAngle >= 90) {
		return fmt.Errorf("%w: isha angle %v", ErrInvalidParameters, p.IshaAngle)
	}
	if p.MaghribAngle < 0 || p.MaghribAngle >= 90 {
		return fmt.Errorf("%w: maghrib angle %v", ErrInvalidParameters, p.MaghribAngle)
	}
	if p.Madhab != Standard && p.Madhab != Hanafi {
		return fmt.Errorf("%w: madhab %d", ErrInvalidParameters, p.Madhab)
	}
	return nil
}
