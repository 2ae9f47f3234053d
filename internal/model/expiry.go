package model

import "time"

// ExpiresIn is a symbolic expiry duration tag. The set is closed;
// anything outside it fails validation rather than silently defaulting.
type ExpiresIn string

const (
	ExpiresNever ExpiresIn = "never"
	Expires10m   ExpiresIn = "10m"
	Expires1h    ExpiresIn = "1h"
	Expires1d    ExpiresIn = "1d"
	Expires1w    ExpiresIn = "1w"
	Expires1M    ExpiresIn = "1M"
)

var expiryDurations = map[ExpiresIn]time.Duration{
	Expires10m: 10 * time.Minute,
	Expires1h:  time.Hour,
	Expires1d:  24 * time.Hour,
	Expires1w:  7 * 24 * time.Hour,
	Expires1M:  30 * 24 * time.Hour,
}

// Valid reports whether the tag is one of the accepted expiry values.
func (e ExpiresIn) Valid() bool {
	if e == ExpiresNever {
		return true
	}
	_, ok := expiryDurations[e]
	return ok
}

// ExpiresAt resolves the tag against now. "never" yields nil.
func (e ExpiresIn) ExpiresAt(now time.Time) *time.Time {
	d, ok := expiryDurations[e]
	if !ok {
		return nil
	}
	t := now.Add(d)
	return &t
}
