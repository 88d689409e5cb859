package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"photo-map/internal/models"
	"photo-map/internal/utils"
)

// PhotoRepository defines the metadata store. There is deliberately no update.
type PhotoRepository interface {
	EnsureSchema() error
	Create(ctx context.Context, photo *models.Photo) error
	Get(ctx context.Context, id uuid.UUID) (*models.Photo, error)
	Query(ctx context.Context, filter GalleryFilter, page Page) ([]models.Photo, int64, error)
	ListForMap(ctx context.Context) ([]models.Photo, error)
}

// Page selects a slice of an ordered result. Number is 1-based.
type Page struct {
	Number int
	Size   int
}

func (p Page) offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// PhotoRepositoryImpl provides methods to interact with the Photo model in the database.
type PhotoRepositoryImpl struct {
	db *gorm.DB
}

// NewPhotoRepository creates a new PhotoRepositoryImpl with the provided GORM connection.
func NewPhotoRepository(db *gorm.DB) *PhotoRepositoryImpl {
	return &PhotoRepositoryImpl{db: db}
}

// EnsureSchema creates the photos table if it does not exist yet.
func (r *PhotoRepositoryImpl) EnsureSchema() error {
	return r.db.AutoMigrate(&models.Photo{})
}

// Create inserts a new photo. ID and UploadTime are assigned here, whatever the caller set.
func (r *PhotoRepositoryImpl) Create(ctx context.Context, photo *models.Photo) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

// Get retrieves a photo by its ID.
func (r *PhotoRepositoryImpl) Get(ctx context.Context, id uuid.UUID) (*models.Photo, error) {
	var photo models.Photo
	err := r.db.WithContext(ctx).First(&photo, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// Query returns one page of photos matching the filter plus the total match count.
func (r *PhotoRepositoryImpl) Query(ctx context.Context, filter GalleryFilter, page Page) ([]models.Photo, int64, error) {
	pred := BuildPredicate(filter)
	q := r.db.WithContext(ctx).Model(&models.Photo{})
	if !pred.Empty() {
		q = q.Where(pred.Clause, pred.Args...)
	}
	base := q.Session(&gorm.Session{})

	// The bounding box is only a prefilter; exact distance is checked here, so paging happens in memory.
	if filter.Near != nil && filter.RadiusMeters > 0 {
		var candidates []models.Photo
		if err := base.Order(GalleryOrder).Find(&candidates).Error; err != nil {
			return nil, 0, err
		}
		var within []models.Photo
		for _, p := range candidates {
			d := utils.HaversineDistance(filter.Near.Latitude, filter.Near.Longitude, p.Latitude, p.Longitude)
			if d <= filter.RadiusMeters {
				within = append(within, p)
			}
		}
		return paginate(within, page), int64(len(within)), nil
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var photos []models.Photo
	find := base.Order(GalleryOrder)
	if page.Size > 0 {
		find = find.Offset(page.offset()).Limit(page.Size)
	}
	if err := find.Find(&photos).Error; err != nil {
		return nil, 0, err
	}
	return photos, total, nil
}

// ListForMap returns every photo, most recently uploaded first.
func (r *PhotoRepositoryImpl) ListForMap(ctx context.Context) ([]models.Photo, error) {
	var photos []models.Photo
	err := r.db.WithContext(ctx).Order("upload_time DESC").Find(&photos).Error
	return photos, err
}

func paginate(photos []models.Photo, page Page) []models.Photo {
	if page.Size <= 0 {
		return photos
	}
	start := page.offset()
	if start >= len(photos) {
		return []models.Photo{}
	}
	end := start + page.Size
	if end > len(photos) {
		end = len(photos)
	}
	return photos[start:end]
}
