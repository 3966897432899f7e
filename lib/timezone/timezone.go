package timezone

import "time"

// Location is the fixed UTC+8 offset the upstream portal publishes in.
// It is a fixed zone rather than a tz database entry so the service does
// not depend on tzdata being installed on the host.
var Location = time.FixedZone("UTC+8", 8*60*60)

// Now returns the current time in Location. Servers tend to run in UTC,
// which would otherwise shift Year() around new year's eve.
func Now() time.Time {
	return time.Now().In(Location)
}

// CurrentYear is the calendar year of Now().
func CurrentYear() int {
	return Now().Year()
}

// Clock is the interface that anything depending on the system clock should use.
type Clock interface {
	Now() time.Time
}

// StandardClock implements Clock with Now().
type StandardClock struct{}

func (StandardClock) Now() time.Time {
	return Now()
}

// FixedClock always returns the same instant, converted to Location.
type FixedClock struct {
	Time time.Time
}

func (c FixedClock) Now() time.Time {
	return c.Time.In(Location)
}
