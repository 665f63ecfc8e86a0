package models

import "time"

const (
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusInProgress     = "in_progress"
	OrderStatusReady          = "ready"
	OrderStatusCompleted      = "completed"
	OrderStatusCancelled      = "cancelled"
)

// Order bisa mereferensikan lebih dari satu meja (rombongan yang digabung),
// karena itu relasinya many2many lewat tabel order_tables.
type Order struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CustomerName string    `gorm:"type:varchar(100)" json:"customer_name"`
	Status       string    `gorm:"type:varchar(20);not null;default:'pending_payment'" json:"status"`
	TotalAmount  float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	Tables       []Table   `gorm:"many2many:order_tables" json:"tables"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

// IsOpen -> order masih menduduki meja selama belum completed/cancelled.
func (o *Order) IsOpen() bool {
	return o.Status != OrderStatusCompleted && o.Status != OrderStatusCancelled
}
