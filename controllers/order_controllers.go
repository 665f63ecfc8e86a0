package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-layout/events"
	"github.com/yeremiapane/restaurant-layout/models"
	"github.com/yeremiapane/restaurant-layout/utils"
	"gorm.io/gorm"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

// CreateOrder -> order baru untuk satu atau beberapa meja sekaligus
// (rombongan yang digabung). Meja bisa dirujuk lewat ID atau nomor meja.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req struct {
		CustomerName string  `json:"customer_name"`
		TotalAmount  float64 `json:"total_amount"`
		TableIDs     []uint  `json:"table_ids"`
		TableNumbers []int   `json:"table_numbers"`
		LayoutID     uint    `json:"layout_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var tables []models.Table
	switch {
	case len(req.TableIDs) > 0:
		if err := oc.DB.Where("id IN ?", req.TableIDs).Find(&tables).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		if len(tables) != len(req.TableIDs) {
			utils.RespondError(c, http.StatusNotFound, errors.New("one or more tables not found"))
			return
		}
	case len(req.TableNumbers) > 0:
		if req.LayoutID == 0 {
			utils.RespondError(c, http.StatusBadRequest,
				errors.New("layout_id is required when referencing tables by number"))
			return
		}
		if err := oc.DB.Where("layout_id = ? AND table_number IN ?", req.LayoutID, req.TableNumbers).
			Find(&tables).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		if len(tables) != len(req.TableNumbers) {
			utils.RespondError(c, http.StatusNotFound, errors.New("one or more tables not found"))
			return
		}
	default:
		utils.RespondError(c, http.StatusBadRequest, errors.New("table_ids or table_numbers is required"))
		return
	}

	order := models.Order{
		CustomerName: req.CustomerName,
		Status:       models.OrderStatusPendingPayment,
		TotalAmount:  req.TotalAmount,
		Tables:       tables,
	}
	if err := oc.DB.Create(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastOrderCreate(order)
	oc.broadcastStats(order.Tables)
	utils.InfoLogger.Printf("Order %d created for %d table(s), total Rp %s",
		order.ID, len(tables), utils.FormatCurrency(order.TotalAmount))
	utils.RespondJSON(c, http.StatusCreated, "Order created successfully", order)
}

// GetAllOrders -> seluruh order beserta meja yang direferensikan
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	query := oc.DB.Preload("Tables")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByID -> detail satu order
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	orderID := c.Param("order_id")
	var order models.Order
	if err := oc.DB.Preload("Tables").First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrderStatus -> transisi status order (menutup order membebaskan meja)
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	orderID := c.Param("order_id")
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	valid := map[string]bool{
		models.OrderStatusPendingPayment: true,
		models.OrderStatusInProgress:     true,
		models.OrderStatusReady:          true,
		models.OrderStatusCompleted:      true,
		models.OrderStatusCancelled:      true,
	}
	if !valid[req.Status] {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown order status %q", req.Status))
		return
	}

	var order models.Order
	if err := oc.DB.Preload("Tables").First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	order.Status = req.Status
	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastOrderUpdate(order)
	oc.broadcastStats(order.Tables)
	utils.InfoLogger.Printf("Order %d status changed to %s", order.ID, order.Status)
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// DeleteOrder -> menghapus order (khusus admin)
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	if role, _ := c.Get("role"); role != "admin" {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	orderID := c.Param("order_id")
	var order models.Order
	if err := oc.DB.Preload("Tables").First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := oc.DB.Select("Tables").Delete(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastOrderDelete(order.ID)
	oc.broadcastStats(order.Tables)
	utils.InfoLogger.Printf("Order %d deleted", order.ID)
	utils.RespondJSON(c, http.StatusOK, "Order deleted", gin.H{"id": order.ID})
}

// broadcastStats menyiarkan ringkasan okupansi setiap layout yang mejanya
// terpengaruh order ini. Status tidak disimpan, jadi setiap mutasi order
// memicu rekonsiliasi ulang di client.
func (oc *OrderController) broadcastStats(tables []models.Table) {
	seen := make(map[uint]bool)
	for _, t := range tables {
		if t.LayoutID == 0 || seen[t.LayoutID] {
			continue
		}
		seen[t.LayoutID] = true
		events.BroadcastMessage(events.Message{
			Event: events.EventStatsUpdate,
			Data:  occupancyStats(oc.DB, t.LayoutID),
		})
	}
}
