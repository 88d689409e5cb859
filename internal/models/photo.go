package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInvalidPhoto is returned when a record is rejected before creation.
var ErrInvalidPhoto = errors.New("invalid photo record")

// Photo represents the metadata of an uploaded photograph stored in the database.
// Records are immutable: the store assigns ID and UploadTime and nothing updates them afterwards.
type Photo struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Filename     string     `gorm:"not null" json:"filename"`
	Latitude     float64    `gorm:"not null" json:"latitude"`
	Longitude    float64    `gorm:"not null" json:"longitude"`
	BlobURL      string     `gorm:"column:blob_url;not null" json:"blob_url"`
	StorageKey   string     `gorm:"not null" json:"storage_key"`
	ThumbnailKey string     `json:"thumbnail_key,omitempty"`
	ContentType  string     `json:"content_type"`
	Size         int64      `json:"size"`
	DateTaken    *time.Time `gorm:"index" json:"date_taken,omitempty"`
	UploadTime   time.Time  `gorm:"not null;index" json:"upload_time"`
}

// Coordinates returns the location of the photo.
func (p *Photo) Coordinates() Coordinates {
	return Coordinates{Latitude: p.Latitude, Longitude: p.Longitude}
}

// Validate checks the fields a caller is responsible for.
func (p *Photo) Validate() error {
	if strings.TrimSpace(p.Filename) == "" {
		return errors.Join(ErrInvalidPhoto, errors.New("filename is required"))
	}
	if !p.Coordinates().Valid() {
		return errors.Join(ErrInvalidPhoto, errors.New("coordinates out of range"))
	}
	if p.BlobURL == "" {
		return errors.Join(ErrInvalidPhoto, errors.New("blob url is required"))
	}
	return nil
}

// BeforeCreate validates the record and assigns the store-owned fields.
func (p *Photo) BeforeCreate(_ *gorm.DB) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.ID = uuid.New()
	p.UploadTime = time.Now().UTC()
	return nil
}
