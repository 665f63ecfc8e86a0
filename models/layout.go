package models

import "time"

// Layout merepresentasikan satu ruangan (area makan) beserta ukuran canvas-nya.
// Semua koordinat meja mengacu pada canvas layout dalam satuan pixel.
type Layout struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Width     float64   `gorm:"not null;default:800" json:"width"`
	Height    float64   `gorm:"not null;default:600" json:"height"`
	Tables    []Table   `gorm:"foreignKey:LayoutID;constraint:OnDelete:CASCADE" json:"tables,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
