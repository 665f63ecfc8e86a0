package main

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-layout/floorplan"
	"github.com/yeremiapane/restaurant-layout/models"
	"github.com/yeremiapane/restaurant-layout/router"
	"github.com/yeremiapane/restaurant-layout/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// TestEndToEndIntegration menguji flow utama:
// 0. Seed admin + layout, lalu login -> token
// 1. Buka editor, tambah meja (pending), save -> ID backend
// 2. Create order untuk meja itu -> status layout = occupied
// 3. Complete order -> status layout = free
func TestEndToEndIntegration(t *testing.T) {
	db := setupIntegrationDB()
	manager := floorplan.NewManager(floorplan.NewGormStore(db))
	r := router.SetupRouter(db, manager)

	token := loginTest(t, r)

	layoutID := seedLayoutID(t, db)
	tableID := editorAddAndSaveTest(t, r, token, layoutID)

	orderID := createOrderTest(t, r, tableID)
	checkLayoutStatusTest(t, r, layoutID, tableID, "occupied")

	completeOrderTest(t, r, token, orderID)
	checkLayoutStatusTest(t, r, layoutID, tableID, "free")
}

// setupIntegrationDB -> migrasi model di SQLite in-memory + seed data
func setupIntegrationDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Layout{},
		&models.Table{},
		&models.Order{},
		&models.Reservation{},
		&models.MenuCategory{},
		&models.Menu{},
	)
	if err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	db.Create(&models.User{
		Name:     "Test Admin",
		Email:    "admin@example.com",
		Password: string(hashedPassword),
		Role:     "admin",
	})

	db.Create(&models.Layout{Name: "Main Room", Width: 800, Height: 600})

	return db
}

func seedLayoutID(t *testing.T, db *gorm.DB) uint {
	var layout models.Layout
	if err := db.First(&layout).Error; err != nil {
		t.Fatalf("seedLayoutID: %v", err)
	}
	return layout.ID
}

func loginTest(t *testing.T, r *gin.Engine) string {
	body := map[string]string{
		"email":    "admin@example.com",
		"password": "secret123",
	}
	bodyBytes, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("loginTest fail: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)

	if !resp.Status || resp.Data.Token == "" {
		t.Fatalf("loginTest: status=%v, msg=%s", resp.Status, resp.Message)
	}
	return resp.Data.Token
}

// editorAddAndSaveTest -> tambah meja lewat sesi editor, save, dan kembalikan
// ID backend hasil remap
func editorAddAndSaveTest(t *testing.T, r *gin.Engine, token string, layoutID uint) uint {
	base := "/admin/layouts/" + intToString(layoutID) + "/editor"

	// Buka sesi
	reqOpen := httptest.NewRequest(http.MethodPost, base+"/open", nil)
	reqOpen.Header.Set("Authorization", "Bearer "+token)
	wOpen := httptest.NewRecorder()
	r.ServeHTTP(wOpen, reqOpen)
	if wOpen.Code != http.StatusOK {
		t.Fatalf("editor open: code=%d, body=%s", wOpen.Code, wOpen.Body.String())
	}

	// Tambah meja (masih pending, belum di database)
	bodyBytes, _ := json.Marshal(map[string]string{"shape": "round"})
	reqAdd := httptest.NewRequest(http.MethodPost, base+"/tables", bytes.NewBuffer(bodyBytes))
	reqAdd.Header.Set("Content-Type", "application/json")
	reqAdd.Header.Set("Authorization", "Bearer "+token)
	wAdd := httptest.NewRecorder()
	r.ServeHTTP(wAdd, reqAdd)
	if wAdd.Code != http.StatusCreated {
		t.Fatalf("editor add table: code=%d, body=%s", wAdd.Code, wAdd.Body.String())
	}

	var addResp struct {
		Status bool `json:"status"`
		Data   struct {
			ID          string `json:"id"`
			TableNumber int    `json:"table_number"`
		} `json:"data"`
	}
	json.Unmarshal(wAdd.Body.Bytes(), &addResp)
	if !addResp.Status || addResp.Data.ID == "" {
		t.Fatalf("editor add table: bad response %s", wAdd.Body.String())
	}
	tempID := addResp.Data.ID

	// Save -> semua pending di-flush, ID sementara di-remap
	reqSave := httptest.NewRequest(http.MethodPost, base+"/save", nil)
	reqSave.Header.Set("Authorization", "Bearer "+token)
	wSave := httptest.NewRecorder()
	r.ServeHTTP(wSave, reqSave)
	if wSave.Code != http.StatusOK {
		t.Fatalf("editor save: code=%d, body=%s", wSave.Code, wSave.Body.String())
	}

	var saveResp struct {
		Status bool `json:"status"`
		Data   struct {
			IDMap map[string]uint `json:"id_map"`
			Dirty bool            `json:"dirty"`
		} `json:"data"`
	}
	json.Unmarshal(wSave.Body.Bytes(), &saveResp)
	if saveResp.Data.Dirty {
		t.Fatalf("editor save: session still dirty after save")
	}
	tableID, ok := saveResp.Data.IDMap[tempID]
	if !ok || tableID == 0 {
		t.Fatalf("editor save: temp id %s not in id_map %v", tempID, saveResp.Data.IDMap)
	}
	return tableID
}

// createOrderTest -> POST /orders (public, tanpa token) => 201
func createOrderTest(t *testing.T, r *gin.Engine, tableID uint) uint {
	bodyData := map[string]interface{}{
		"customer_name": "Walk-in",
		"total_amount":  55000,
		"table_ids":     []uint{tableID},
	}
	bodyBytes, _ := json.Marshal(bodyData)

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("createOrderTest: expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			ID     uint   `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Status {
		t.Fatalf("createOrderTest: status=false, msg=%s", resp.Message)
	}
	if resp.Data.Status != "pending_payment" {
		t.Fatalf("createOrderTest: expected 'pending_payment', got %s", resp.Data.Status)
	}
	return resp.Data.ID
}

// checkLayoutStatusTest -> status meja hasil rekonsiliasi harus sesuai harapan
func checkLayoutStatusTest(t *testing.T, r *gin.Engine, layoutID, tableID uint, want string) {
	req := httptest.NewRequest(http.MethodGet,
		"/layouts/"+intToString(layoutID)+"/status", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("checkLayoutStatusTest: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Status bool `json:"status"`
		Data   map[string]struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)

	got, ok := resp.Data[intToString(tableID)]
	if !ok {
		t.Fatalf("checkLayoutStatusTest: table %d missing from %s", tableID, w.Body.String())
	}
	if got.Status != want {
		t.Fatalf("checkLayoutStatusTest: want %q, got %q", want, got.Status)
	}
}

// completeOrderTest -> PATCH /admin/orders/:id => 'completed'
func completeOrderTest(t *testing.T, r *gin.Engine, token string, orderID uint) {
	bodyBytes, _ := json.Marshal(map[string]string{"status": "completed"})
	req := httptest.NewRequest(http.MethodPatch,
		"/admin/orders/"+intToString(orderID), bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("completeOrderTest: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.Status != "completed" {
		t.Fatalf("completeOrderTest: want 'completed', got %s", resp.Data.Status)
	}
}

// Helper intToString
func intToString(num uint) string {
	return strconv.FormatUint(uint64(num), 10)
}
