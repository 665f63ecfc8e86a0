package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-layout/events"
	"github.com/yeremiapane/restaurant-layout/floorplan"
	"github.com/yeremiapane/restaurant-layout/models"
	"github.com/yeremiapane/restaurant-layout/utils"
	"gorm.io/gorm"
)

type LayoutController struct {
	DB      *gorm.DB
	Manager *floorplan.Manager
}

func NewLayoutController(db *gorm.DB, manager *floorplan.Manager) *LayoutController {
	return &LayoutController{DB: db, Manager: manager}
}

// CreateLayout -> menambahkan ruangan baru
func (lc *LayoutController) CreateLayout(c *gin.Context) {
	var req struct {
		Name   string  `json:"name" binding:"required"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	layout := models.Layout{Name: req.Name, Width: 800, Height: 600}
	if req.Width > 0 {
		layout.Width = req.Width
	}
	if req.Height > 0 {
		layout.Height = req.Height
	}

	if err := lc.DB.Create(&layout).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastLayoutCreate(layout)
	utils.InfoLogger.Printf("New layout created: %s (%gx%g)", layout.Name, layout.Width, layout.Height)
	utils.RespondJSON(c, http.StatusCreated, "Layout created successfully", layout)
}

// GetAllLayouts -> menampilkan seluruh ruangan
func (lc *LayoutController) GetAllLayouts(c *gin.Context) {
	var layouts []models.Layout
	if err := lc.DB.Find(&layouts).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of layouts", layouts)
}

// GetLayoutByID -> detail satu ruangan beserta meja-mejanya
func (lc *LayoutController) GetLayoutByID(c *gin.Context) {
	layoutID := c.Param("layout_id")
	var layout models.Layout
	if err := lc.DB.Preload("Tables").First(&layout, layoutID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Layout detail", layout)
}

// UpdateLayout -> ubah nama atau ukuran canvas
func (lc *LayoutController) UpdateLayout(c *gin.Context) {
	layoutID := c.Param("layout_id")
	var req struct {
		Name   *string  `json:"name"`
		Width  *float64 `json:"width"`
		Height *float64 `json:"height"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var layout models.Layout
	if err := lc.DB.First(&layout, layoutID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if req.Name != nil {
		layout.Name = *req.Name
	}
	if req.Width != nil && *req.Width > 0 {
		layout.Width = *req.Width
	}
	if req.Height != nil && *req.Height > 0 {
		layout.Height = *req.Height
	}

	if err := lc.DB.Save(&layout).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastLayoutUpdate(layout)
	utils.RespondJSON(c, http.StatusOK, "Layout updated", layout)
}

// DeleteLayout -> hapus ruangan beserta seluruh mejanya. Sesi editor untuk
// layout tersebut ditutup; client diarahkan memilih layout lain yang tersisa.
func (lc *LayoutController) DeleteLayout(c *gin.Context) {
	layoutID := c.Param("layout_id")
	var layout models.Layout
	if err := lc.DB.First(&layout, layoutID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := lc.DB.Where("layout_id = ?", layout.ID).Delete(&models.Table{}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := lc.DB.Delete(&layout).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	lc.Manager.Close(layout.ID)
	events.BroadcastLayoutDelete(layout.ID)

	// Kandidat layout berikutnya supaya editor tidak tergantung di layout mati
	var next models.Layout
	remaining := lc.DB.Order("id ASC").First(&next).Error == nil

	utils.InfoLogger.Printf("Layout %d deleted", layout.ID)
	resp := gin.H{"id": layout.ID}
	if remaining {
		resp["next_layout_id"] = next.ID
	}
	utils.RespondJSON(c, http.StatusOK, "Layout deleted", resp)
}

// GetLayoutStatus -> rekonsiliasi okupansi seluruh meja dalam layout.
// Status tidak pernah disimpan; selalu dihitung ulang dari orders & reservasi.
func (lc *LayoutController) GetLayoutStatus(c *gin.Context) {
	layoutID := c.Param("layout_id")
	var layout models.Layout
	if err := lc.DB.First(&layout, layoutID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var tables []models.Table
	if err := lc.DB.Where("layout_id = ?", layout.ID).Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var orders []models.Order
	if err := lc.DB.Preload("Tables").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var reservations []models.Reservation
	if err := lc.DB.Joins("JOIN tables ON tables.id = reservations.table_id").
		Where("tables.layout_id = ?", layout.ID).
		Find(&reservations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	statuses := floorplan.ComputeStatuses(tables, orders, reservations, layout.ID, time.Now())
	utils.RespondJSON(c, http.StatusOK, "Layout status", statuses)
}
