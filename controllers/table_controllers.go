package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-layout/events"
	"github.com/yeremiapane/restaurant-layout/floorplan"
	"github.com/yeremiapane/restaurant-layout/geometry"
	"github.com/yeremiapane/restaurant-layout/models"
	"github.com/yeremiapane/restaurant-layout/utils"
	"gorm.io/gorm"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// CreateTable -> menambahkan meja baru langsung (di luar sesi editor)
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		LayoutID    uint    `json:"layout_id" binding:"required"`
		TableNumber int     `json:"table_number" binding:"required"`
		X           float64 `json:"x"`
		Y           float64 `json:"y"`
		Width       float64 `json:"width"`
		Height      float64 `json:"height"`
		Shape       string  `json:"shape"`
		Rotation    int     `json:"rotation"`
		ChairCount  *int    `json:"chair_count"`
		ChairTop    *bool   `json:"chair_top"`
		ChairRight  *bool   `json:"chair_right"`
		ChairBottom *bool   `json:"chair_bottom"`
		ChairLeft   *bool   `json:"chair_left"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var layout models.Layout
	if err := tc.DB.First(&layout, req.LayoutID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	// Nomor meja harus unik di dalam layout
	var count int64
	tc.DB.Model(&models.Table{}).
		Where("layout_id = ? AND table_number = ?", req.LayoutID, req.TableNumber).
		Count(&count)
	if count > 0 {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("table number %d already in use", req.TableNumber))
		return
	}

	table := models.Table{
		LayoutID:    req.LayoutID,
		TableNumber: req.TableNumber,
		PosX:        req.X,
		PosY:        req.Y,
		Width:       80,
		Height:      80,
		Shape:       models.TableShapeRectangle,
		Rotation:    ((req.Rotation % 360) + 360) % 360,
		ChairCount:  4,
		ChairTop:    true,
		ChairRight:  true,
		ChairBottom: true,
		ChairLeft:   true,
	}
	if req.Width != 0 {
		table.Width = req.Width
	}
	if req.Height != 0 {
		table.Height = req.Height
	}
	if req.Shape == models.TableShapeRound {
		table.Shape = models.TableShapeRound
	}
	if req.ChairCount != nil && *req.ChairCount >= 0 {
		table.ChairCount = *req.ChairCount
	}
	if req.ChairTop != nil {
		table.ChairTop = *req.ChairTop
	}
	if req.ChairRight != nil {
		table.ChairRight = *req.ChairRight
	}
	if req.ChairBottom != nil {
		table.ChairBottom = *req.ChairBottom
	}
	if req.ChairLeft != nil {
		table.ChairLeft = *req.ChairLeft
	}

	if table.Width < models.TableMinSize || table.Width > models.TableMaxSize ||
		table.Height < models.TableMinSize || table.Height > models.TableMaxSize {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("table size must be between %g and %g", models.TableMinSize, models.TableMaxSize))
		return
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastTableCreate(table)
	events.BroadcastMessage(events.Message{
		Event: events.EventStatsUpdate,
		Data:  occupancyStats(tc.DB, table.LayoutID),
	})
	utils.InfoLogger.Printf("New table #%d created in layout %d", table.TableNumber, table.LayoutID)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> menampilkan seluruh meja, bisa difilter per layout
func (tc *TableController) GetAllTables(c *gin.Context) {
	query := tc.DB
	if layoutID := c.Query("layout_id"); layoutID != "" {
		query = query.Where("layout_id = ?", layoutID)
	}

	var tables []models.Table
	if err := query.Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID -> detail satu meja
func (tc *TableController) GetTableByID(c *gin.Context) {
	tableID := c.Param("table_id")
	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// GetTableChairs -> posisi kursi meja, dihitung dari konfigurasi saat ini.
// Query param scale menskalakan seluruh dimensi linier.
func (tc *TableController) GetTableChairs(c *gin.Context) {
	tableID := c.Param("table_id")
	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	scale := 1.0
	if raw := c.Query("scale"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
			scale = parsed
		}
	}

	chairs := geometry.ChairPositions(geometry.TableShape{
		Shape:       table.Shape,
		Width:       table.Width,
		Height:      table.Height,
		ChairCount:  table.ChairCount,
		ChairTop:    table.ChairTop,
		ChairRight:  table.ChairRight,
		ChairBottom: table.ChairBottom,
		ChairLeft:   table.ChairLeft,
	}, scale)

	utils.RespondJSON(c, http.StatusOK, "Chair positions", gin.H{
		"table_id": table.ID,
		"chairs":   chairs,
	})
}

// UpdateTable -> update langsung satu meja (di luar sesi editor)
func (tc *TableController) UpdateTable(c *gin.Context) {
	tableID := c.Param("table_id")
	var req struct {
		TableNumber *int     `json:"table_number"`
		X           *float64 `json:"x"`
		Y           *float64 `json:"y"`
		Width       *float64 `json:"width"`
		Height      *float64 `json:"height"`
		Shape       *string  `json:"shape"`
		Rotation    *int     `json:"rotation"`
		ChairCount  *int     `json:"chair_count"`
		ChairTop    *bool    `json:"chair_top"`
		ChairRight  *bool    `json:"chair_right"`
		ChairBottom *bool    `json:"chair_bottom"`
		ChairLeft   *bool    `json:"chair_left"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if req.TableNumber != nil {
		var count int64
		tc.DB.Model(&models.Table{}).
			Where("layout_id = ? AND table_number = ? AND id != ?", table.LayoutID, *req.TableNumber, table.ID).
			Count(&count)
		if count > 0 {
			utils.RespondError(c, http.StatusBadRequest,
				fmt.Errorf("table number %d already in use", *req.TableNumber))
			return
		}
		table.TableNumber = *req.TableNumber
	}
	if req.X != nil {
		table.PosX = *req.X
	}
	if req.Y != nil {
		table.PosY = *req.Y
	}
	if req.Width != nil {
		table.Width = *req.Width
	}
	if req.Height != nil {
		table.Height = *req.Height
	}
	if req.Shape != nil {
		table.Shape = *req.Shape
	}
	if req.Rotation != nil {
		table.Rotation = ((*req.Rotation % 360) + 360) % 360
	}
	if req.ChairCount != nil && *req.ChairCount >= 0 {
		table.ChairCount = *req.ChairCount
	}
	if req.ChairTop != nil {
		table.ChairTop = *req.ChairTop
	}
	if req.ChairRight != nil {
		table.ChairRight = *req.ChairRight
	}
	if req.ChairBottom != nil {
		table.ChairBottom = *req.ChairBottom
	}
	if req.ChairLeft != nil {
		table.ChairLeft = *req.ChairLeft
	}

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastTableUpdate(table)
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// DeleteTable -> menghapus meja
func (tc *TableController) DeleteTable(c *gin.Context) {
	tableID := c.Param("table_id")
	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastTableDelete(table)
	events.BroadcastMessage(events.Message{
		Event: events.EventStatsUpdate,
		Data:  occupancyStats(tc.DB, table.LayoutID),
	})
	utils.InfoLogger.Printf("Table %d deleted", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{
		"id": table.ID,
	})
}

// occupancyStats menghitung ringkasan okupansi sebuah layout untuk
// broadcast dashboard. Dipakai controller meja dan order; keduanya
// mengubah hasil rekonsiliasi.
func occupancyStats(db *gorm.DB, layoutID uint) map[string]interface{} {
	var tables []models.Table
	db.Where("layout_id = ?", layoutID).Find(&tables)

	var orders []models.Order
	db.Preload("Tables").Find(&orders)

	var reservations []models.Reservation
	db.Joins("JOIN tables ON tables.id = reservations.table_id").
		Where("tables.layout_id = ?", layoutID).
		Find(&reservations)

	statuses := floorplan.ComputeStatuses(tables, orders, reservations, layoutID, time.Now())

	counts := map[string]int{}
	for _, st := range statuses {
		counts[st.Status]++
	}
	return map[string]interface{}{
		"free":     counts[floorplan.StatusFree],
		"occupied": counts[floorplan.StatusOccupied],
		"reserved": counts[floorplan.StatusReserved],
		"total":    len(statuses),
	}
}
