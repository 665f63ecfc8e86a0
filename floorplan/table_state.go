package floorplan

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/yeremiapane/restaurant-layout/models"
)

// TempIDPrefix menandai meja yang belum pernah disimpan ke backend.
// ID seperti ini tidak boleh dipakai sebagai target update; hanya create.
const TempIDPrefix = "tmp-"

// TableState adalah bentuk meja di dalam sesi editor. ID berupa string:
// angka desimal untuk meja yang sudah persisted, atau "tmp-<uuid>" untuk
// meja baru yang belum di-flush.
type TableState struct {
	ID          string  `json:"id"`
	TableNumber int     `json:"table_number"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Shape       string  `json:"shape"`
	Rotation    int     `json:"rotation"`
	ChairCount  int     `json:"chair_count"`
	ChairTop    bool    `json:"chair_top"`
	ChairRight  bool    `json:"chair_right"`
	ChairBottom bool    `json:"chair_bottom"`
	ChairLeft   bool    `json:"chair_left"`
}

// IsNew -> true jika meja belum punya ID backend.
func (t TableState) IsNew() bool {
	return strings.HasPrefix(t.ID, TempIDPrefix)
}

// PersistedID mengembalikan ID backend, atau 0 untuk meja baru.
func (t TableState) PersistedID() uint {
	if t.IsNew() {
		return 0
	}
	id, err := strconv.ParseUint(t.ID, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

func newTempID() string {
	return TempIDPrefix + uuid.NewString()
}

func stateID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// FromModel menormalkan record database ke bentuk sesi.
func FromModel(m models.Table) TableState {
	return TableState{
		ID:          stateID(m.ID),
		TableNumber: m.TableNumber,
		X:           m.PosX,
		Y:           m.PosY,
		Width:       m.Width,
		Height:      m.Height,
		Shape:       m.Shape,
		Rotation:    m.Rotation,
		ChairCount:  m.ChairCount,
		ChairTop:    m.ChairTop,
		ChairRight:  m.ChairRight,
		ChairBottom: m.ChairBottom,
		ChairLeft:   m.ChairLeft,
	}
}

// ToModel membangun record database dari state sesi. ID hanya diisi
// untuk meja yang sudah persisted.
func (t TableState) ToModel(layoutID uint) models.Table {
	return models.Table{
		ID:          t.PersistedID(),
		LayoutID:    layoutID,
		TableNumber: t.TableNumber,
		PosX:        t.X,
		PosY:        t.Y,
		Width:       t.Width,
		Height:      t.Height,
		Shape:       t.Shape,
		Rotation:    t.Rotation,
		ChairCount:  t.ChairCount,
		ChairTop:    t.ChairTop,
		ChairRight:  t.ChairRight,
		ChairBottom: t.ChairBottom,
		ChairLeft:   t.ChairLeft,
	}
}
