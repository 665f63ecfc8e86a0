package models

import "time"

const (
	ReservationStatusBooked    = "booked"
	ReservationStatusSeated    = "seated"
	ReservationStatusCancelled = "cancelled"
)

type Reservation struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TableID      uint      `gorm:"not null;index" json:"table_id"`
	Table        Table     `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CustomerName string    `gorm:"type:varchar(100);not null" json:"customer_name"`
	Phone        string    `gorm:"type:varchar(30)" json:"phone"`
	GuestCount   int       `gorm:"not null;default:2" json:"guest_count"`
	StartsAt     time.Time `gorm:"not null;index" json:"starts_at"`
	EndsAt       time.Time `gorm:"not null" json:"ends_at"`
	Status       string    `gorm:"type:varchar(20);not null;default:'booked'" json:"status"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

// IsActiveAt -> reservasi menandai meja hanya selama window-nya berjalan
// dan belum dibatalkan.
func (r *Reservation) IsActiveAt(t time.Time) bool {
	if r.Status == ReservationStatusCancelled {
		return false
	}
	return !t.Before(r.StartsAt) && t.Before(r.EndsAt)
}
