package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"
)

// ModuleRepository accreditation module data access.
type ModuleRepository interface {
	Create(ctx context.Context, m *model.AccreditationModule) error
	GetByID(ctx context.Context, id string) (*model.AccreditationModule, error)
	GetBySlug(ctx context.Context, slug string) (*model.AccreditationModule, error)
	List(ctx context.Context, publicOnly bool) ([]model.AccreditationModule, error)
	Update(ctx context.Context, m *model.AccreditationModule) error
}

type moduleRepo struct {
	db *gorm.DB
}

// NewModuleRepo creates a ModuleRepository.
func NewModuleRepo(db *gorm.DB) ModuleRepository {
	return &moduleRepo{db: db}
}

func (r *moduleRepo) Create(ctx context.Context, m *model.AccreditationModule) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *moduleRepo) GetByID(ctx context.Context, id string) (*model.AccreditationModule, error) {
	var m model.AccreditationModule
	if err := r.db.WithContext(ctx).Where("module_id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *moduleRepo) GetBySlug(ctx context.Context, slug string) (*model.AccreditationModule, error) {
	var m model.AccreditationModule
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *moduleRepo) List(ctx context.Context, publicOnly bool) ([]model.AccreditationModule, error) {
	var out []model.AccreditationModule
	db := r.db.WithContext(ctx)
	if publicOnly {
		db = db.Where("is_active = ? AND is_public = ?", true, true)
	}
	err := db.Order("name ASC").Find(&out).Error
	return out, err
}

func (r *moduleRepo) Update(ctx context.Context, m *model.AccreditationModule) error {
	return r.db.WithContext(ctx).Save(m).Error
}
