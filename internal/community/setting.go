package community

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	forkTravel    = "170mm"
	forkWheelsize = `29"`
	shockStroke   = "65mm"
)

// Tune is a set of damper and spring adjustments. Values are stored as strings the way riders enter them in the app.
type Tune struct {
	Sag        string
	SpringRate string
	Preload    *string
	HSC        string
	LSC        string
	HSR        string
	LSR        string
	Spacers    string
}

func (t Tune) fields() map[string]interface{} {
	var preload interface{}
	if t.Preload != nil {
		preload = *t.Preload
	}
	return map[string]interface{}{
		"sag":        t.Sag,
		"springRate": t.SpringRate,
		"preload":    preload,
		"HSC":        t.HSC,
		"LSC":        t.LSC,
		"HSR":        t.HSR,
		"LSR":        t.LSR,
		"spacers":    t.Spacers,
	}
}

// Location is where a setup was dialed in. Only Pro users share one.
type Location struct {
	Name      string
	Geohash   string
	Lat       float64
	Lng       float64
	TrailType string
}

// Setting is one community-shared suspension setup.
type Setting struct {
	User          User
	Fork          Component
	Shock         Component
	ForkSettings  Tune
	ShockSettings Tune
	FrontTire     string
	RearTire      string
	RiderWeight   string
	Notes         string
	Bike          Bike
	Location      *Location

	Upvotes   int
	Downvotes int
	Imports   int
	Views     int

	Created time.Time
}

// Fields returns the document payload for the setting.
func (s Setting) Fields() map[string]interface{} {
	m := map[string]interface{}{
		"userId":   s.User.ID,
		"userName": s.User.Name,
		"isPro":    s.User.IsPro,
		"fork": map[string]interface{}{
			"brand":     s.Fork.Brand,
			"model":     s.Fork.Model,
			"year":      s.Fork.Year,
			"travel":    forkTravel,
			"wheelsize": forkWheelsize,
		},
		"shock": map[string]interface{}{
			"brand":  s.Shock.Brand,
			"model":  s.Shock.Model,
			"year":   s.Shock.Year,
			"stroke": shockStroke,
		},
		"forkSettings":  s.ForkSettings.fields(),
		"shockSettings": s.ShockSettings.fields(),
		"frontTire":     s.FrontTire,
		"rearTire":      s.RearTire,
		"riderWeight":   s.RiderWeight,
		"notes":         s.Notes,
		"bikeMake":      s.Bike.Make,
		"bikeModel":     s.Bike.Model,
		"upvotes":       s.Upvotes,
		"downvotes":     s.Downvotes,
		"imports":       s.Imports,
		"views":         s.Views,
		"created":       s.Created,
		"updated":       nil,
	}
	if s.Location != nil {
		m["location"] = map[string]interface{}{
			"name":      s.Location.Name,
			"geohash":   s.Location.Geohash,
			"lat":       s.Location.Lat,
			"lng":       s.Location.Lng,
			"trailType": s.Location.TrailType,
		}
	}
	return m
}

func (s Setting) String() string {
	return fmt.Sprintf("%s - %s %s (%s %s / %s %s)", s.User.Name, s.Bike.Make, s.Bike.Model, s.Fork.Brand, s.Fork.Model, s.Shock.Brand, s.Shock.Model)
}

// CategoryFor guesses the riding style of a bike from its suspension.
func CategoryFor(fork, shock Component) Category {
	// long-travel forks and big coil/air shocks go on DH bikes
	if strings.Contains(fork.Model, "40") || strings.Contains(shock.Model, "DHX2") || strings.Contains(shock.Model, "X2") {
		return Downhill
	}
	if strings.Contains(fork.Model, "38") || strings.Contains(fork.Model, "ZEB") ||
		strings.Contains(shock.Model, "Super Deluxe") || strings.Contains(shock.Model, "TTX") {
		return Enduro
	}
	return Trail
}

// Geohash is a coarse 8-digit cell key: the first four digits of latitude and longitude at four decimal places, with signs and points removed.
// It is good enough to group nearby setups and is not a standard geohash.
func Geohash(lat, lng float64) string {
	return digits(lat) + digits(lng)
}

func digits(x float64) string {
	s := strconv.FormatFloat(x, 'f', 4, 64)
	s = strings.NewReplacer(".", "", "-", "").Replace(s)
	if len(s) > 4 {
		s = s[:4]
	}
	return s
}
