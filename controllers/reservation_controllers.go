package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-layout/events"
	"github.com/yeremiapane/restaurant-layout/models"
	"github.com/yeremiapane/restaurant-layout/utils"
	"gorm.io/gorm"
)

type ReservationController struct {
	DB *gorm.DB
}

func NewReservationController(db *gorm.DB) *ReservationController {
	return &ReservationController{DB: db}
}

// CreateReservation -> reservasi meja untuk window waktu tertentu.
// Reservasi aktif membuat meja berstatus "reserved" selama tidak ada
// order terbuka di meja yang sama.
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req struct {
		TableID      uint      `json:"table_id" binding:"required"`
		CustomerName string    `json:"customer_name" binding:"required"`
		Phone        string    `json:"phone"`
		GuestCount   int       `json:"guest_count"`
		StartsAt     time.Time `json:"starts_at" binding:"required"`
		EndsAt       time.Time `json:"ends_at" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !req.EndsAt.After(req.StartsAt) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("ends_at must be after starts_at"))
		return
	}

	var table models.Table
	if err := rc.DB.First(&table, req.TableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	reservation := models.Reservation{
		TableID:      req.TableID,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		GuestCount:   req.GuestCount,
		StartsAt:     req.StartsAt,
		EndsAt:       req.EndsAt,
		Status:       models.ReservationStatusBooked,
	}
	if reservation.GuestCount <= 0 {
		reservation.GuestCount = 2
	}

	if err := rc.DB.Create(&reservation).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastReservationUpdate(reservation)
	utils.InfoLogger.Printf("Reservation %d created for table %d (%s)",
		reservation.ID, reservation.TableID, reservation.CustomerName)
	utils.RespondJSON(c, http.StatusCreated, "Reservation created successfully", reservation)
}

// GetAllReservations -> daftar reservasi, bisa difilter per meja atau status
func (rc *ReservationController) GetAllReservations(c *gin.Context) {
	query := rc.DB
	if tableID := c.Query("table_id"); tableID != "" {
		query = query.Where("table_id = ?", tableID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var reservations []models.Reservation
	if err := query.Order("starts_at ASC").Find(&reservations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", reservations)
}

// GetReservationByID -> detail satu reservasi
func (rc *ReservationController) GetReservationByID(c *gin.Context) {
	var reservation models.Reservation
	if err := rc.DB.First(&reservation, c.Param("reservation_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", reservation)
}

// UpdateReservation -> ubah window, status, atau jumlah tamu
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	var req struct {
		CustomerName *string    `json:"customer_name"`
		Phone        *string    `json:"phone"`
		GuestCount   *int       `json:"guest_count"`
		StartsAt     *time.Time `json:"starts_at"`
		EndsAt       *time.Time `json:"ends_at"`
		Status       *string    `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var reservation models.Reservation
	if err := rc.DB.First(&reservation, c.Param("reservation_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if req.CustomerName != nil {
		reservation.CustomerName = *req.CustomerName
	}
	if req.Phone != nil {
		reservation.Phone = *req.Phone
	}
	if req.GuestCount != nil && *req.GuestCount > 0 {
		reservation.GuestCount = *req.GuestCount
	}
	if req.StartsAt != nil {
		reservation.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		reservation.EndsAt = *req.EndsAt
	}
	if !reservation.EndsAt.After(reservation.StartsAt) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("ends_at must be after starts_at"))
		return
	}
	if req.Status != nil {
		switch *req.Status {
		case models.ReservationStatusBooked, models.ReservationStatusSeated, models.ReservationStatusCancelled:
			reservation.Status = *req.Status
		default:
			utils.RespondError(c, http.StatusBadRequest, errors.New("unknown reservation status"))
			return
		}
	}

	if err := rc.DB.Save(&reservation).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastReservationUpdate(reservation)
	utils.RespondJSON(c, http.StatusOK, "Reservation updated", reservation)
}

// DeleteReservation -> hapus reservasi
func (rc *ReservationController) DeleteReservation(c *gin.Context) {
	var reservation models.Reservation
	if err := rc.DB.First(&reservation, c.Param("reservation_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := rc.DB.Delete(&reservation).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastReservationUpdate(reservation)
	utils.RespondJSON(c, http.StatusOK, "Reservation deleted", gin.H{"id": reservation.ID})
}
