package services

import (
	"time"

	"github.com/yeremiapane/restaurant-layout/events"
	"github.com/yeremiapane/restaurant-layout/models"
	"github.com/yeremiapane/restaurant-layout/utils"
	"gorm.io/gorm"
)

// ChangeMonitor memantau feed db_changes (diisi trigger database) dan
// menyiarkan perubahan layout/table/order/reservation lewat hub, sehingga
// tulisan langsung ke database pun sampai ke client yang terhubung.
type ChangeMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration
}

func NewChangeMonitor(db *gorm.DB) *ChangeMonitor {
	return &ChangeMonitor{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: 1 * time.Second,
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.checkChanges()
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

func (cm *ChangeMonitor) checkChanges() {
	var changes []models.DBChange

	// Transaction mencegah dua polling memproses perubahan yang sama
	tx := cm.DB.Begin()

	if err := tx.Where("processed = ?", false).
		Order("changed_at ASC").
		Limit(100).
		Find(&changes).Error; err != nil {
		tx.Rollback()
		utils.ErrorLogger.Printf("Error fetching changes: %v", err)
		return
	}

	for _, change := range changes {
		switch change.TableName {
		case "layouts":
			cm.processLayoutChange(change)
		case "tables":
			cm.processTableChange(change)
		case "orders":
			cm.processOrderChange(change)
		case "reservations":
			cm.processReservationChange(change)
		}

		if err := tx.Model(&models.DBChange{}).
			Where("id = ?", change.ID).
			Update("processed", true).Error; err != nil {
			tx.Rollback()
			utils.ErrorLogger.Printf("Error marking change as processed: %v", err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.ErrorLogger.Printf("Error committing transaction: %v", err)
		tx.Rollback()
		return
	}

	if len(changes) > 0 {
		utils.InfoLogger.Printf("Processed %d database changes", len(changes))
	}
}

func (cm *ChangeMonitor) processLayoutChange(change models.DBChange) {
	if change.ActionType == "DELETE" {
		events.BroadcastLayoutDelete(uint(change.RecordID))
		return
	}

	var layout models.Layout
	if err := cm.DB.First(&layout, change.RecordID).Error; err != nil {
		utils.ErrorLogger.Printf("Error fetching layout %d: %v", change.RecordID, err)
		return
	}

	switch change.ActionType {
	case "INSERT":
		events.BroadcastLayoutCreate(layout)
	case "UPDATE":
		events.BroadcastLayoutUpdate(layout)
	}
}

func (cm *ChangeMonitor) processTableChange(change models.DBChange) {
	if change.ActionType == "DELETE" {
		events.BroadcastTableDelete(models.Table{ID: uint(change.RecordID)})
		return
	}

	var table models.Table
	if err := cm.DB.First(&table, change.RecordID).Error; err != nil {
		utils.ErrorLogger.Printf("Error fetching table %d: %v", change.RecordID, err)
		return
	}

	switch change.ActionType {
	case "INSERT":
		events.BroadcastTableCreate(table)
	case "UPDATE":
		events.BroadcastTableUpdate(table)
	}
}

func (cm *ChangeMonitor) processOrderChange(change models.DBChange) {
	if change.ActionType == "DELETE" {
		events.BroadcastOrderDelete(uint(change.RecordID))
		return
	}

	var order models.Order
	if err := cm.DB.Preload("Tables").First(&order, change.RecordID).Error; err != nil {
		utils.ErrorLogger.Printf("Error fetching order %d: %v", change.RecordID, err)
		return
	}

	switch change.ActionType {
	case "INSERT":
		events.BroadcastOrderCreate(order)
	case "UPDATE":
		events.BroadcastOrderUpdate(order)
	}
}

func (cm *ChangeMonitor) processReservationChange(change models.DBChange) {
	if change.ActionType == "DELETE" {
		events.BroadcastReservationUpdate(models.Reservation{ID: uint(change.RecordID)})
		return
	}

	var reservation models.Reservation
	if err := cm.DB.First(&reservation, change.RecordID).Error; err != nil {
		utils.ErrorLogger.Printf("Error fetching reservation %d: %v", change.RecordID, err)
		return
	}
	events.BroadcastReservationUpdate(reservation)
}
