package floorplan

import (
	"github.com/yeremiapane/restaurant-layout/models"
	"gorm.io/gorm"
)

// Store adalah sumber kebenaran sesi editor. Implementasi produksi memakai
// gorm; test memakai fake untuk mensimulasikan kegagalan per-entity.
type Store interface {
	Layout(id uint) (models.Layout, error)
	TablesByLayout(layoutID uint) ([]models.Table, error)
	CreateTable(t *models.Table) error
	UpdateTable(t *models.Table) error
	DeleteTable(id uint) error
}

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Layout(id uint) (models.Layout, error) {
	var layout models.Layout
	err := s.DB.First(&layout, id).Error
	return layout, err
}

func (s *GormStore) TablesByLayout(layoutID uint) ([]models.Table, error) {
	var tables []models.Table
	err := s.DB.Where("layout_id = ?", layoutID).Find(&tables).Error
	return tables, err
}

func (s *GormStore) CreateTable(t *models.Table) error {
	return s.DB.Create(t).Error
}

func (s *GormStore) UpdateTable(t *models.Table) error {
	return s.DB.Save(t).Error
}

func (s *GormStore) DeleteTable(id uint) error {
	return s.DB.Delete(&models.Table{}, id).Error
}
