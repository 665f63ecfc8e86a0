package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-layout/controllers"
	"github.com/yeremiapane/restaurant-layout/floorplan"
	"github.com/yeremiapane/restaurant-layout/models"
	"github.com/yeremiapane/restaurant-layout/utils"
)

func setupTestDBForLayouts() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:layouts_test?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(
		&models.Layout{},
		&models.Table{},
		&models.Order{},
		&models.Reservation{},
	)
	if err != nil {
		panic(err)
	}
	db.Exec("DELETE FROM order_tables")
	db.Exec("DELETE FROM reservations")
	db.Exec("DELETE FROM orders")
	db.Exec("DELETE FROM tables")
	db.Exec("DELETE FROM layouts")
	return db
}

func setupLayoutRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	manager := floorplan.NewManager(floorplan.NewGormStore(db))
	layoutCtrl := controllers.NewLayoutController(db, manager)
	router.POST("/layouts", layoutCtrl.CreateLayout)
	router.GET("/layouts", layoutCtrl.GetAllLayouts)
	router.GET("/layouts/:layout_id", layoutCtrl.GetLayoutByID)
	router.PATCH("/layouts/:layout_id", layoutCtrl.UpdateLayout)
	router.DELETE("/layouts/:layout_id", layoutCtrl.DeleteLayout)
	router.GET("/layouts/:layout_id/status", layoutCtrl.GetLayoutStatus)
	return router
}

func TestCreateLayoutUsesDefaultCanvas(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForLayouts()
	router := setupLayoutRouter(db)

	payload := map[string]interface{}{"name": "Terrace"}
	payloadBytes, err := json.Marshal(payload)
	assert.NoError(t, err)

	req, err := http.NewRequest("POST", "/layouts", bytes.NewBuffer(payloadBytes))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Layout created successfully", response["message"])

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Terrace", data["name"])
	assert.Equal(t, 800.0, data["width"])
	assert.Equal(t, 600.0, data["height"])
}

func TestUpdateLayoutCanvas(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForLayouts()
	layout := models.Layout{Name: "Main", Width: 800, Height: 600}
	db.Create(&layout)

	router := setupLayoutRouter(db)

	payload := map[string]interface{}{"width": 1024.0, "height": 768.0}
	payloadBytes, _ := json.Marshal(payload)
	url := "/layouts/" + strconv.Itoa(int(layout.ID))
	req, _ := http.NewRequest("PATCH", url, bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, 1024.0, data["width"])
	assert.Equal(t, "Main", data["name"])
}

func TestDeleteLayoutCascadesAndSuggestsNext(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForLayouts()
	first := models.Layout{Name: "Main", Width: 800, Height: 600}
	second := models.Layout{Name: "Terrace", Width: 800, Height: 600}
	db.Create(&first)
	db.Create(&second)
	db.Create(&models.Table{LayoutID: second.ID, TableNumber: 1, Width: 80, Height: 80})

	router := setupLayoutRouter(db)
	url := "/layouts/" + strconv.Itoa(int(second.ID))
	req, _ := http.NewRequest("DELETE", url, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Layout deleted", response["message"])
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(first.ID), data["next_layout_id"])

	// Meja milik layout ikut terhapus
	var count int64
	db.Model(&models.Table{}).Where("layout_id = ?", second.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestGetLayoutStatus(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForLayouts()
	layout := models.Layout{Name: "Main", Width: 800, Height: 600}
	db.Create(&layout)

	occupied := models.Table{LayoutID: layout.ID, TableNumber: 1, Width: 80, Height: 80}
	free := models.Table{LayoutID: layout.ID, TableNumber: 2, Width: 80, Height: 80}
	db.Create(&occupied)
	db.Create(&free)

	order := models.Order{
		CustomerName: "Budi",
		Status:       models.OrderStatusInProgress,
		Tables:       []models.Table{occupied},
	}
	db.Create(&order)

	router := setupLayoutRouter(db)
	url := "/layouts/" + strconv.Itoa(int(layout.ID)) + "/status"
	req, err := http.NewRequest("GET", url, nil)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Layout status", response["message"])

	data := response["data"].(map[string]interface{})
	occupiedStatus := data[strconv.Itoa(int(occupied.ID))].(map[string]interface{})
	freeStatus := data[strconv.Itoa(int(free.ID))].(map[string]interface{})
	assert.Equal(t, "occupied", occupiedStatus["status"])
	assert.Equal(t, "free", freeStatus["status"])
}
