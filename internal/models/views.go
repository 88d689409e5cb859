package models

import "github.com/google/uuid"

// PhotoView is a photo record together with time-limited links to its image data.
// ImageURL is empty when the object store could not sign a link.
type PhotoView struct {
	Photo
	ImageURL     string `json:"image_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// GalleryPage is one page of filtered gallery results.
type GalleryPage struct {
	Items    []PhotoView `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// Marker is a single photo pin on the map.
type Marker struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
}

// MapView is everything a map surface needs to render the photo pins.
type MapView struct {
	Center  Coordinates `json:"center"`
	Zoom    int         `json:"zoom"`
	Markers []Marker    `json:"markers"`
}
