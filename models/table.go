package models

import "time"

const (
	TableShapeRectangle = "rectangle"
	TableShapeRound     = "round"
)

// Batas ukuran meja pada editor (pixel).
const (
	TableMinSize = 40.0
	TableMaxSize = 200.0
)

// Table adalah satu meja di dalam layout. Status okupansi (free/occupied/reserved)
// tidak pernah disimpan di sini; selalu dihitung ulang dari orders & reservations.
type Table struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	LayoutID    uint    `gorm:"not null;index" json:"layout_id"`
	Layout      Layout  `gorm:"foreignKey:LayoutID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	TableNumber int     `gorm:"not null" json:"table_number"`
	PosX        float64 `gorm:"not null;default:0" json:"x"`
	PosY        float64 `gorm:"not null;default:0" json:"y"`
	Width       float64 `gorm:"not null;default:80" json:"width"`
	Height      float64 `gorm:"not null;default:80" json:"height"`
	Shape       string  `gorm:"type:varchar(20);not null;default:'rectangle'" json:"shape"`
	Rotation    int     `gorm:"not null;default:0" json:"rotation"`
	ChairCount  int     `gorm:"not null;default:4" json:"chair_count"`
	ChairTop    bool    `gorm:"not null;default:true" json:"chair_top"`
	ChairRight  bool    `gorm:"not null;default:true" json:"chair_right"`
	ChairBottom bool    `gorm:"not null;default:true" json:"chair_bottom"`
	ChairLeft   bool    `gorm:"not null;default:true" json:"chair_left"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
