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
	"github.com/yeremiapane/restaurant-layout/models"
	"github.com/yeremiapane/restaurant-layout/utils"
)

// setupTestDBForTables menggunakan SQLite in-memory khusus untuk TableController
func setupTestDBForTables() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:tables_test?mode=memory&cache=shared"), &gorm.Config{})
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
	// Mulai dari state bersih; DSN shared dipakai ulang antar test
	db.Exec("DELETE FROM order_tables")
	db.Exec("DELETE FROM reservations")
	db.Exec("DELETE FROM orders")
	db.Exec("DELETE FROM tables")
	db.Exec("DELETE FROM layouts")
	return db
}

func setupTableRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	tableCtrl := controllers.NewTableController(db)
	router.GET("/tables", tableCtrl.GetAllTables)
	router.POST("/tables", tableCtrl.CreateTable)
	router.GET("/tables/:table_id", tableCtrl.GetTableByID)
	router.GET("/tables/:table_id/chairs", tableCtrl.GetTableChairs)
	router.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
	router.DELETE("/tables/:table_id", tableCtrl.DeleteTable)
	return router
}

func seedLayout(db *gorm.DB) models.Layout {
	layout := models.Layout{Name: "Room A", Width: 800, Height: 600}
	db.Create(&layout)
	return layout
}

func TestCreateTable(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables()
	layout := seedLayout(db)
	router := setupTableRouter(db)

	payload := map[string]interface{}{
		"layout_id":    layout.ID,
		"table_number": 1,
		"x":            100.0,
		"y":            120.0,
		"shape":        "round",
	}
	payloadBytes, err := json.Marshal(payload)
	assert.NoError(t, err)

	req, err := http.NewRequest("POST", "/tables", bytes.NewBuffer(payloadBytes))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Table created successfully", response["message"])

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "round", data["shape"])
	// Default yang tidak dikirim ikut terisi
	assert.Equal(t, 80.0, data["width"])
	assert.Equal(t, 4.0, data["chair_count"])
	assert.Equal(t, true, data["chair_top"])
}

func TestCreateTableNormalizesNegativeRotation(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables()
	layout := seedLayout(db)
	router := setupTableRouter(db)

	payload := map[string]interface{}{
		"layout_id":    layout.ID,
		"table_number": 1,
		"rotation":     -90,
	}
	payloadBytes, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", "/tables", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	data := response["data"].(map[string]interface{})
	// Rotasi dinormalkan ke 0-359
	assert.Equal(t, 270.0, data["rotation"])
}

func TestCreateTableRejectsDuplicateNumber(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables()
	layout := seedLayout(db)
	db.Create(&models.Table{LayoutID: layout.ID, TableNumber: 5, Width: 80, Height: 80})

	router := setupTableRouter(db)

	payload := map[string]interface{}{
		"layout_id":    layout.ID,
		"table_number": 5,
	}
	payloadBytes, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", "/tables", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "table number 5 already in use", response["message"])
}

func TestCreateTableRejectsSizeOutOfRange(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables()
	layout := seedLayout(db)
	router := setupTableRouter(db)

	payload := map[string]interface{}{
		"layout_id":    layout.ID,
		"table_number": 1,
		"width":        500.0,
	}
	payloadBytes, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", "/tables", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAllTablesFilteredByLayout(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables()
	layoutA := seedLayout(db)
	layoutB := models.Layout{Name: "Room B", Width: 800, Height: 600}
	db.Create(&layoutB)

	db.Create(&models.Table{LayoutID: layoutA.ID, TableNumber: 1, Width: 80, Height: 80})
	db.Create(&models.Table{LayoutID: layoutA.ID, TableNumber: 2, Width: 80, Height: 80})
	db.Create(&models.Table{LayoutID: layoutB.ID, TableNumber: 1, Width: 80, Height: 80})

	router := setupTableRouter(db)
	req, err := http.NewRequest("GET", "/tables?layout_id="+strconv.Itoa(int(layoutA.ID)), nil)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "List of tables", response["message"])

	data := response["data"].([]interface{})
	assert.Len(t, data, 2)
}

func TestGetTableChairs(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables()
	layout := seedLayout(db)

	table := models.Table{
		LayoutID: layout.ID, TableNumber: 1,
		Width: 80, Height: 80, Shape: models.TableShapeRectangle,
		ChairCount: 6,
		ChairTop:   true, ChairRight: true, ChairBottom: true, ChairLeft: true,
	}
	db.Create(&table)

	router := setupTableRouter(db)
	url := "/tables/" + strconv.Itoa(int(table.ID)) + "/chairs"
	req, err := http.NewRequest("GET", url, nil)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Chair positions", response["message"])

	data := response["data"].(map[string]interface{})
	chairs := data["chairs"].([]interface{})
	assert.Len(t, chairs, 6)
}

func TestUpdateTable(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables()
	layout := seedLayout(db)
	table := models.Table{LayoutID: layout.ID, TableNumber: 1, Width: 80, Height: 80}
	db.Create(&table)

	router := setupTableRouter(db)

	payload := map[string]interface{}{
		"x":        250.0,
		"rotation": 450,
	}
	payloadBytes, _ := json.Marshal(payload)
	url := "/tables/" + strconv.Itoa(int(table.ID))
	req, _ := http.NewRequest("PATCH", url, bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, 250.0, data["x"])
	// Rotasi dinormalkan ke 0-359
	assert.Equal(t, 90.0, data["rotation"])
}

func TestDeleteTable(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables()
	layout := seedLayout(db)
	table := models.Table{LayoutID: layout.ID, TableNumber: 1, Width: 80, Height: 80}
	db.Create(&table)

	router := setupTableRouter(db)
	url := "/tables/" + strconv.Itoa(int(table.ID))
	req, _ := http.NewRequest("DELETE", url, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Table{}).Where("id = ?", table.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}
