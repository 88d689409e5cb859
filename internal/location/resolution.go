// Package location decides which coordinates an uploaded photo is saved with.
//
// EXIF coordinates win and are final. Without them the user must supply a point
// (map click or typed values) before a save is allowed. There is no default location.
package location

import (
	"errors"

	"photo-map/internal/extraction"
	"photo-map/internal/models"
)

var (
	// ErrNoLocation is returned when a save is attempted before any location is known.
	ErrNoLocation = errors.New("no location: pick a point on the map or enter coordinates")
	// ErrLocationLocked is returned when a user point is offered for a photo located by EXIF.
	ErrLocationLocked = errors.New("location already taken from EXIF data")
	// ErrInvalidCoordinates is returned for NaN or out of range points.
	ErrInvalidCoordinates = errors.New("coordinates out of range")
)

// State is the resolution state of one upload.
type State string

const (
	NoLocation   State = "no_location"
	ExifLocation State = "exif_location"
	UserLocation State = "user_location"
)

// Source names where saved coordinates came from.
func (s State) Source() string {
	switch s {
	case ExifLocation:
		return "exif"
	case UserLocation:
		return "user"
	}
	return "none"
}

// Resolution tracks the location of a single upload. It is not safe for concurrent use.
type Resolution struct {
	state       State
	coordinates models.Coordinates
}

// NewResolution starts a resolution from extracted metadata. EXIF coordinates outside the
// valid range are ignored.
func NewResolution(meta extraction.Metadata) *Resolution {
	if meta.Coordinates != nil && meta.Coordinates.Valid() {
		return &Resolution{state: ExifLocation, coordinates: *meta.Coordinates}
	}
	return &Resolution{state: NoLocation}
}

// State returns the current state.
func (r *Resolution) State() State {
	return r.state
}

// Ready reports whether a save may proceed.
func (r *Resolution) Ready() bool {
	return r.state == ExifLocation || r.state == UserLocation
}

// SelectPoint records a user supplied point, replacing any earlier selection.
func (r *Resolution) SelectPoint(c models.Coordinates) error {
	if r.state == ExifLocation {
		return ErrLocationLocked
	}
	if !c.Valid() {
		return ErrInvalidCoordinates
	}
	r.state = UserLocation
	r.coordinates = c
	return nil
}

// Coordinates returns the current point, or nil in NoLocation.
func (r *Resolution) Coordinates() *models.Coordinates {
	if !r.Ready() {
		return nil
	}
	c := r.coordinates
	return &c
}

// Resolve returns the coordinates to persist.
func (r *Resolution) Resolve() (models.Coordinates, error) {
	if !r.Ready() {
		return models.Coordinates{}, ErrNoLocation
	}
	return r.coordinates, nil
}
