package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrCategoryNotFound = errors.New("event category not found")
	ErrSlugTaken        = errors.New("event slug already in use")
)

type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)

	// GetActiveBySlugTx resolves an active event inside the caller's
	// transaction; the registration workflow uses it so the event it
	// validated cannot be deactivated under its feet.
	GetActiveBySlugTx(tx *gorm.DB, slug string) (*Event, error)

	// ResolveActiveID is the cheap slug lookup other packages use when
	// they only need the event's identity.
	ResolveActiveID(ctx context.Context, slug string) (uuid.UUID, error)

	ListActive(ctx context.Context, query EventListQuery) ([]Event, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Event, error)
	Deactivate(ctx context.Context, id uuid.UUID) error

	GetCategoryBySlug(ctx context.Context, slug string) (*EventCategory, error)
	CreateCategory(ctx context.Context, category *EventCategory) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	err := r.db.WithContext(ctx).Create(event).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSlugTaken
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).Preload("Category").Where("slug = ?", slug).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *repository) GetActiveBySlugTx(tx *gorm.DB, slug string) (*Event, error) {
	var event Event
	err := tx.Where("slug = ? AND is_active = ?", slug, true).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *repository) ResolveActiveID(ctx context.Context, slug string) (uuid.UUID, error) {
	var event Event
	err := r.db.WithContext(ctx).Select("id").Where("slug = ? AND is_active = ?", slug, true).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrEventNotFound
		}
		return uuid.Nil, err
	}
	return event.ID, nil
}

func (r *repository) ListActive(ctx context.Context, query EventListQuery) ([]Event, error) {
	db := r.db.WithContext(ctx).
		Preload("Category").
		Where("is_active = ?", true)

	if query.Category != "" {
		db = db.Joins("JOIN event_categories ON event_categories.id = events.category_id").
			Where("event_categories.slug = ?", query.Category)
	}
	if query.From != "" {
		if from, err := time.Parse("2006-01-02", query.From); err == nil {
			db = db.Where("start_at >= ?", from)
		}
	}
	if query.To != "" {
		if to, err := time.Parse("2006-01-02", query.To); err == nil {
			db = db.Where("start_at <= ?", to.Add(23*time.Hour+59*time.Minute+59*time.Second))
		}
	}

	var events []Event
	err := db.Order("start_at ASC").Find(&events).Error
	return events, err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Event, error) {
	var event Event
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	if err := r.db.WithContext(ctx).Model(&event).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *repository) GetCategoryBySlug(ctx context.Context, slug string) (*EventCategory, error) {
	var category EventCategory
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *repository) CreateCategory(ctx context.Context, category *EventCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}
