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

func setupTestDBForOrders() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:orders_test?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(&models.Layout{}, &models.Table{}, &models.Order{})
	if err != nil {
		panic(err)
	}
	db.Exec("DELETE FROM order_tables")
	db.Exec("DELETE FROM orders")
	db.Exec("DELETE FROM tables")
	db.Exec("DELETE FROM layouts")
	return db
}

func setupOrderRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	orderCtrl := controllers.NewOrderController(db)
	router.POST("/orders", orderCtrl.CreateOrder)
	router.GET("/orders", orderCtrl.GetAllOrders)
	router.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	router.PATCH("/orders/:order_id", orderCtrl.UpdateOrderStatus)
	// DeleteOrder membaca role dari context; di produksi diisi AuthMiddleware
	router.DELETE("/orders/:order_id", func(c *gin.Context) {
		c.Set("role", "admin")
		orderCtrl.DeleteOrder(c)
	})
	return router
}

func orderRequest(t *testing.T, router *gin.Engine, method, url string, payload interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var body *bytes.Buffer
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		assert.NoError(t, err)
		body = bytes.NewBuffer(payloadBytes)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	return w, response
}

func TestCreateOrderByTableNumbers(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders()
	layout := models.Layout{Name: "Main", Width: 800, Height: 600}
	db.Create(&layout)
	db.Create(&models.Table{LayoutID: layout.ID, TableNumber: 1, Width: 80, Height: 80})
	db.Create(&models.Table{LayoutID: layout.ID, TableNumber: 2, Width: 80, Height: 80})

	router := setupOrderRouter(db)

	// Rombongan menempati dua meja sekaligus
	w, response := orderRequest(t, router, "POST", "/orders", map[string]interface{}{
		"customer_name": "Siti",
		"total_amount":  150000.0,
		"table_numbers": []int{1, 2},
		"layout_id":     layout.ID,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Order created successfully", response["message"])

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "pending_payment", data["status"])
	tables := data["tables"].([]interface{})
	assert.Len(t, tables, 2)
}

func TestCreateOrderUnknownTable(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders()
	layout := models.Layout{Name: "Main", Width: 800, Height: 600}
	db.Create(&layout)

	router := setupOrderRouter(db)

	w, _ := orderRequest(t, router, "POST", "/orders", map[string]interface{}{
		"table_numbers": []int{42},
		"layout_id":     layout.ID,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateOrderRequiresTables(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders()
	router := setupOrderRouter(db)

	w, response := orderRequest(t, router, "POST", "/orders", map[string]interface{}{
		"customer_name": "Tanpa Meja",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "table_ids or table_numbers is required", response["message"])
}

func TestUpdateOrderStatus(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders()
	layout := models.Layout{Name: "Main", Width: 800, Height: 600}
	db.Create(&layout)
	table := models.Table{LayoutID: layout.ID, TableNumber: 1, Width: 80, Height: 80}
	db.Create(&table)

	order := models.Order{Status: models.OrderStatusInProgress, Tables: []models.Table{table}}
	db.Create(&order)

	router := setupOrderRouter(db)
	url := "/orders/" + strconv.Itoa(int(order.ID))

	// Status tidak dikenal ditolak
	w, _ := orderRequest(t, router, "PATCH", url, map[string]string{"status": "eaten"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Menutup order membebaskan meja
	w, response := orderRequest(t, router, "PATCH", url, map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Order status updated", response["message"])
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "completed", data["status"])
}

func TestGetAllOrdersFilteredByStatus(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders()
	layout := models.Layout{Name: "Main", Width: 800, Height: 600}
	db.Create(&layout)
	table := models.Table{LayoutID: layout.ID, TableNumber: 1, Width: 80, Height: 80}
	db.Create(&table)

	db.Create(&models.Order{Status: models.OrderStatusInProgress, Tables: []models.Table{table}})
	db.Create(&models.Order{Status: models.OrderStatusCompleted, Tables: []models.Table{table}})

	router := setupOrderRouter(db)

	w, response := orderRequest(t, router, "GET", "/orders?status=in_progress", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := response["data"].([]interface{})
	assert.Len(t, data, 1)
}

func TestDeleteOrderRequiresAdmin(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders()

	gin.SetMode(gin.TestMode)
	router := gin.Default()
	orderCtrl := controllers.NewOrderController(db)
	router.DELETE("/orders/:order_id", func(c *gin.Context) {
		c.Set("role", "staff")
		orderCtrl.DeleteOrder(c)
	})

	w, _ := orderRequest(t, router, "DELETE", "/orders/1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteOrder(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders()
	layout := models.Layout{Name: "Main", Width: 800, Height: 600}
	db.Create(&layout)
	table := models.Table{LayoutID: layout.ID, TableNumber: 1, Width: 80, Height: 80}
	db.Create(&table)

	order := models.Order{Status: models.OrderStatusInProgress, Tables: []models.Table{table}}
	db.Create(&order)

	router := setupOrderRouter(db)
	w, _ := orderRequest(t, router, "DELETE", "/orders/"+strconv.Itoa(int(order.ID)), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Order{}).Where("id = ?", order.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	// Mejanya sendiri tidak ikut terhapus
	db.Model(&models.Table{}).Where("id = ?", table.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}
