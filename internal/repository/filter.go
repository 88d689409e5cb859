package repository

import (
	"strings"
	"time"

	"photo-map/internal/models"
	"photo-map/internal/utils"
)

// GalleryOrder sorts newest capture first; photos without a capture time go last,
// ordered by upload time.
const GalleryOrder = "CASE WHEN date_taken IS NULL THEN 1 ELSE 0 END, date_taken DESC, upload_time DESC, id"

// GalleryFilter narrows the gallery. Zero values disable a condition.
type GalleryFilter struct {
	Filename     string
	From         *time.Time
	To           *time.Time
	Near         *models.Coordinates
	RadiusMeters float64
}

// Predicate is a parameterized WHERE fragment. Values only ever travel in Args.
type Predicate struct {
	Clause string
	Args   []interface{}
}

// Empty reports whether the predicate matches everything.
func (p Predicate) Empty() bool {
	return p.Clause == ""
}

// BuildPredicate turns a filter into a WHERE fragment with bound parameters.
func BuildPredicate(f GalleryFilter) Predicate {
	var clauses []string
	var args []interface{}

	if f.Filename != "" {
		clauses = append(clauses, `filename LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(f.Filename)+"%")
	}
	if f.From != nil {
		clauses = append(clauses, "date_taken >= ?")
		args = append(args, StartOfDay(*f.From))
	}
	if f.To != nil {
		clauses = append(clauses, "date_taken <= ?")
		args = append(args, EndOfDay(*f.To))
	}
	if f.Near != nil && f.RadiusMeters > 0 {
		box := utils.CalculateBoundingBox(f.Near.Latitude, f.Near.Longitude, f.RadiusMeters)
		clauses = append(clauses, "latitude BETWEEN ? AND ?")
		args = append(args, box.MinLat, box.MaxLat)
		switch {
		case box.AllLongitudes:
		case box.WrapsAntimeridian():
			clauses = append(clauses, "(longitude >= ? OR longitude <= ?)")
			args = append(args, box.MinLng, box.MaxLng)
		default:
			clauses = append(clauses, "longitude BETWEEN ? AND ?")
			args = append(args, box.MinLng, box.MaxLng)
		}
	}

	return Predicate{Clause: strings.Join(clauses, " AND "), Args: args}
}

// StartOfDay returns 00:00:00.000 UTC of t's calendar date.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns 23:59:59.999 UTC of t's calendar date.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), time.UTC)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
