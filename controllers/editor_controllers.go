package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-layout/floorplan"
	"github.com/yeremiapane/restaurant-layout/utils"
	"gorm.io/gorm"
)

// EditorController membuka sesi editing layout: semua mutasi ditampung di
// pending-change tracker dan baru dikirim ke database saat save.
type EditorController struct {
	DB      *gorm.DB
	Manager *floorplan.Manager
}

func NewEditorController(db *gorm.DB, manager *floorplan.Manager) *EditorController {
	return &EditorController{DB: db, Manager: manager}
}

func (ec *EditorController) layoutID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("layout_id"), 10, 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return 0, false
	}
	return uint(id), true
}

func (ec *EditorController) session(c *gin.Context) (*floorplan.Session, bool) {
	id, ok := ec.layoutID(c)
	if !ok {
		return nil, false
	}
	session, err := ec.Manager.Open(id)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return nil, false
	}
	return session, true
}

// OpenEditor -> buka (atau lanjutkan) sesi editor untuk satu layout
func (ec *EditorController) OpenEditor(c *gin.Context) {
	session, ok := ec.session(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Editor session opened", gin.H{
		"layout_id": session.LayoutID,
		"tables":    session.Tables(),
		"dirty":     session.Dirty(),
	})
}

// CloseEditor -> tutup sesi. Perubahan yang belum di-save hilang.
func (ec *EditorController) CloseEditor(c *gin.Context) {
	id, ok := ec.layoutID(c)
	if !ok {
		return
	}
	ec.Manager.Close(id)
	utils.RespondJSON(c, http.StatusOK, "Editor session closed", gin.H{"layout_id": id})
}

// AddTable -> tempatkan meja baru (nomor terkecil bebas + grid anti-tabrakan)
func (ec *EditorController) AddTable(c *gin.Context) {
	session, ok := ec.session(c)
	if !ok {
		return
	}

	var req struct {
		Shape string `json:"shape"`
	}
	// Body kosong berarti meja kotak default
	_ = c.ShouldBindJSON(&req)

	table := session.AddTable(req.Shape)
	utils.InfoLogger.Printf("Editor layout %d: table #%d staged", session.LayoutID, table.TableNumber)
	utils.RespondJSON(c, http.StatusCreated, "Table staged", table)
}

// MoveTable -> pindahkan meja, posisi di-clamp ke batas canvas
func (ec *EditorController) MoveTable(c *gin.Context) {
	session, ok := ec.session(c)
	if !ok {
		return
	}

	var req struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := session.MoveTable(c.Param("table_id"), req.X, req.Y)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table moved", table)
}

// ResizeTable -> ubah ukuran meja dalam rentang yang diizinkan
func (ec *EditorController) ResizeTable(c *gin.Context) {
	session, ok := ec.session(c)
	if !ok {
		return
	}

	var req struct {
		Width  float64 `json:"width" binding:"required"`
		Height float64 `json:"height" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := session.ResizeTable(c.Param("table_id"), req.Width, req.Height)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table resized", table)
}

// UpdateTable -> partial update properti meja di sesi
func (ec *EditorController) UpdateTable(c *gin.Context) {
	session, ok := ec.session(c)
	if !ok {
		return
	}

	var upd floorplan.TableUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := session.UpdateTable(c.Param("table_id"), upd)
	if err != nil {
		if err == floorplan.ErrTableNotFound {
			utils.RespondError(c, http.StatusNotFound, err)
		} else {
			utils.RespondError(c, http.StatusBadRequest, err)
		}
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// DuplicateTable -> salin meja dengan nomor dan identitas baru
func (ec *EditorController) DuplicateTable(c *gin.Context) {
	session, ok := ec.session(c)
	if !ok {
		return
	}

	table, err := session.DuplicateTable(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table duplicated", table)
}

// DeleteTable -> hapus meja dari sesi; backend baru disentuh saat save
func (ec *EditorController) DeleteTable(c *gin.Context) {
	session, ok := ec.session(c)
	if !ok {
		return
	}

	if err := session.DeleteTable(c.Param("table_id")); err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table removed from session", gin.H{
		"id": c.Param("table_id"),
	})
}

// SelectTable -> catat meja yang sedang dipilih di editor
func (ec *EditorController) SelectTable(c *gin.Context) {
	session, ok := ec.session(c)
	if !ok {
		return
	}

	var req struct {
		TableID string `json:"table_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	session.Select(req.TableID)
	utils.RespondJSON(c, http.StatusOK, "Selection updated", gin.H{"table_id": req.TableID})
}

// GetPending -> isi tracker perubahan yang belum di-save
func (ec *EditorController) GetPending(c *gin.Context) {
	session, ok := ec.session(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Pending changes", gin.H{
		"dirty":   session.Dirty(),
		"pending": session.Pending(),
	})
}

// SaveEditor -> flush semua perubahan. Kegagalan sebagian tidak membatalkan
// yang sudah sukses; entri yang gagal tetap pending untuk dicoba lagi.
func (ec *EditorController) SaveEditor(c *gin.Context) {
	session, ok := ec.session(c)
	if !ok {
		return
	}

	idMap, err := session.Flush()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  false,
			"message": err.Error(),
			"data": gin.H{
				"id_map": idMap,
				"dirty":  session.Dirty(),
			},
		})
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Layout saved", gin.H{
		"id_map": idMap,
		"dirty":  session.Dirty(),
	})
}

// DiscardEditor -> buang semua perubahan lokal dan muat ulang dari database
func (ec *EditorController) DiscardEditor(c *gin.Context) {
	session, ok := ec.session(c)
	if !ok {
		return
	}

	if err := session.Discard(); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Changes discarded", gin.H{
		"tables": session.Tables(),
	})
}
