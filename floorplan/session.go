package floorplan

import (
	"errors"
	"fmt"
	"sync"

	"github.com/yeremiapane/restaurant-layout/models"
	"github.com/yeremiapane/restaurant-layout/utils"
)

var ErrTableNotFound = errors.New("table not found in session")

// PendingChange adalah satu entri perubahan lokal yang belum sampai ke backend.
// Entri selalu berisi state meja lengkap (last-write-wins), bukan diff.
type PendingChange struct {
	Table   TableState `json:"table"`
	IsNew   bool       `json:"is_new"`
	Deleted bool       `json:"deleted"`
}

// Session adalah sesi editor untuk satu layout: model penempatan meja di
// memori plus tracker perubahan tertunda. Model adalah state yang di-render;
// tracker hanyalah indeks "apa yang masih harus dikirim ke backend".
//
// Semua mutasi ditunda sampai Flush, termasuk delete meja persisted, supaya
// Discard punya semantik yang utuh (delete yang belum di-flush ikut batal).
type Session struct {
	mu sync.Mutex

	LayoutID uint
	layoutW  float64
	layoutH  float64

	store    Store
	tables   []TableState
	pending  map[string]PendingChange
	selected string
	dirty    bool
}

// NewSession memuat state awal sesi dari store.
func NewSession(store Store, layoutID uint) (*Session, error) {
	layout, err := store.Layout(layoutID)
	if err != nil {
		return nil, err
	}
	rows, err := store.TablesByLayout(layoutID)
	if err != nil {
		return nil, err
	}

	tables := make([]TableState, 0, len(rows))
	for _, row := range rows {
		tables = append(tables, FromModel(row))
	}
	return &Session{
		LayoutID: layoutID,
		layoutW:  layout.Width,
		layoutH:  layout.Height,
		store:    store,
		tables:   tables,
		pending:  make(map[string]PendingChange),
	}, nil
}

// Tables mengembalikan salinan daftar meja saat ini.
func (s *Session) Tables() []TableState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TableState, len(s.tables))
	copy(out, s.tables)
	return out
}

// Pending mengembalikan salinan tracker.
func (s *Session) Pending() map[string]PendingChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]PendingChange, len(s.pending))
	for id, p := range s.pending {
		out[id] = p
	}
	return out
}

func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

func (s *Session) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = id
}

func (s *Session) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// AddTable menempatkan meja baru: nomor terkecil yang bebas, posisi dari
// grid-scan anti-tabrakan, 4 kursi dengan semua sisi aktif.
func (s *Session) AddTable(shape string) TableState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if shape != models.TableShapeRound {
		shape = models.TableShapeRectangle
	}

	x, y := findFreeSpot(s.tables, defaultTableSize, s.layoutW, s.layoutH)
	table := TableState{
		ID:          newTempID(),
		TableNumber: lowestFreeNumber(s.tables),
		X:           x,
		Y:           y,
		Width:       defaultTableSize,
		Height:      defaultTableSize,
		Shape:       shape,
		ChairCount:  defaultChairs,
		ChairTop:    true,
		ChairRight:  true,
		ChairBottom: true,
		ChairLeft:   true,
	}

	s.tables = append(s.tables, table)
	s.record(table, true)
	return table
}

// MoveTable memindahkan meja, di-clamp ke dalam batas canvas.
func (s *Session) MoveTable(id string, x, y float64) (TableState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return TableState{}, ErrTableNotFound
	}
	t := s.tables[idx]
	t.X, t.Y = clampPosition(x, y, t.Width, t.Height, s.layoutW, s.layoutH)
	s.tables[idx] = t
	s.record(t, t.IsNew())
	return t, nil
}

// ResizeTable mengubah ukuran meja dalam rentang 40-200px dan menjaga
// posisinya tetap di dalam canvas.
func (s *Session) ResizeTable(id string, width, height float64) (TableState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return TableState{}, ErrTableNotFound
	}
	t := s.tables[idx]
	t.Width = clampSize(width)
	t.Height = clampSize(height)
	t.X, t.Y = clampPosition(t.X, t.Y, t.Width, t.Height, s.layoutW, s.layoutH)
	s.tables[idx] = t
	s.record(t, t.IsNew())
	return t, nil
}

// TableUpdate adalah partial update untuk properti meja; field nil tidak diubah.
type TableUpdate struct {
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

func (s *Session) UpdateTable(id string, upd TableUpdate) (TableState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return TableState{}, ErrTableNotFound
	}
	t := s.tables[idx]

	if upd.TableNumber != nil {
		for _, other := range s.tables {
			if other.ID != id && other.TableNumber == *upd.TableNumber {
				return TableState{}, fmt.Errorf("table number %d already in use", *upd.TableNumber)
			}
		}
		t.TableNumber = *upd.TableNumber
	}
	if upd.Shape != nil {
		t.Shape = *upd.Shape
	}
	if upd.Rotation != nil {
		t.Rotation = normalizeRotation(*upd.Rotation)
	}
	if upd.ChairCount != nil && *upd.ChairCount >= 0 {
		t.ChairCount = *upd.ChairCount
	}
	if upd.ChairTop != nil {
		t.ChairTop = *upd.ChairTop
	}
	if upd.ChairRight != nil {
		t.ChairRight = *upd.ChairRight
	}
	if upd.ChairBottom != nil {
		t.ChairBottom = *upd.ChairBottom
	}
	if upd.ChairLeft != nil {
		t.ChairLeft = *upd.ChairLeft
	}
	if upd.Width != nil {
		t.Width = clampSize(*upd.Width)
	}
	if upd.Height != nil {
		t.Height = clampSize(*upd.Height)
	}
	x, y := t.X, t.Y
	if upd.X != nil {
		x = *upd.X
	}
	if upd.Y != nil {
		y = *upd.Y
	}
	t.X, t.Y = clampPosition(x, y, t.Width, t.Height, s.layoutW, s.layoutH)

	s.tables[idx] = t
	s.record(t, t.IsNew())
	return t, nil
}

// DuplicateTable menyalin semua properti kecuali identitas dan nomor meja.
func (s *Session) DuplicateTable(id string) (TableState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return TableState{}, ErrTableNotFound
	}

	copyT := s.tables[idx]
	copyT.ID = newTempID()
	copyT.TableNumber = lowestFreeNumber(s.tables)
	copyT.X, copyT.Y = clampPosition(
		copyT.X+duplicateOffset, copyT.Y+duplicateOffset,
		copyT.Width, copyT.Height, s.layoutW, s.layoutH)

	s.tables = append(s.tables, copyT)
	s.record(copyT, true)
	return copyT, nil
}

// DeleteTable menghapus meja dari model. Meja yang belum pernah persisted
// cukup dibuang beserta entri pending-nya; meja persisted dicatat sebagai
// pending delete dan baru dihapus di backend saat Flush.
func (s *Session) DeleteTable(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrTableNotFound
	}
	t := s.tables[idx]
	s.tables = append(s.tables[:idx], s.tables[idx+1:]...)
	if s.selected == id {
		s.selected = ""
	}

	if t.IsNew() {
		delete(s.pending, id)
		s.dirty = len(s.pending) > 0
		return nil
	}

	s.pending[id] = PendingChange{Table: t, Deleted: true}
	s.dirty = true
	return nil
}

// Flush mengirim semua entri pending secara concurrent. Create yang sukses
// me-remap ID sementara ke ID backend di seluruh sesi. Tidak ada jaminan
// transaksional: entri yang gagal tetap tersimpan agar bisa dicoba ulang,
// entri yang sukses dibersihkan.
func (s *Session) Flush() (map[string]uint, error) {
	s.mu.Lock()
	snapshot := make(map[string]PendingChange, len(s.pending))
	for id, p := range s.pending {
		snapshot[id] = p
	}
	layoutID := s.LayoutID
	s.mu.Unlock()

	if len(snapshot) == 0 {
		return map[string]uint{}, nil
	}

	type result struct {
		oldID string
		newID uint
		err   error
	}

	var wg sync.WaitGroup
	results := make(chan result, len(snapshot))

	for id, change := range snapshot {
		wg.Add(1)
		go func(id string, change PendingChange) {
			defer wg.Done()

			switch {
			case change.Deleted:
				err := s.store.DeleteTable(change.Table.PersistedID())
				results <- result{oldID: id, err: err}
			case change.IsNew:
				row := change.Table.ToModel(layoutID)
				if err := s.store.CreateTable(&row); err != nil {
					results <- result{oldID: id, err: err}
					return
				}
				results <- result{oldID: id, newID: row.ID}
			default:
				row := change.Table.ToModel(layoutID)
				results <- result{oldID: id, err: s.store.UpdateTable(&row)}
			}
		}(id, change)
	}
	wg.Wait()
	close(results)

	idMap := make(map[string]uint)
	var errs []error

	s.mu.Lock()
	defer s.mu.Unlock()
	for res := range results {
		if res.err != nil {
			errs = append(errs, fmt.Errorf("table %s: %w", res.oldID, res.err))
			continue
		}
		// Entri dibersihkan hanya kalau masih sama dengan snapshot yang
		// dikirim; edit yang masuk di tengah flush tetap pending (dan
		// untuk create ikut ter-remap ke ID backend di bawah).
		if cur, ok := s.pending[res.oldID]; ok && cur == snapshot[res.oldID] {
			delete(s.pending, res.oldID)
		}
		if res.newID != 0 {
			idMap[res.oldID] = res.newID
			s.remapLocked(res.oldID, stateID(res.newID))
		}
	}
	s.dirty = len(s.pending) > 0

	if len(errs) > 0 {
		utils.ErrorLogger.Printf("Flush layout %d: %d of %d changes failed", layoutID, len(errs), len(snapshot))
		return idMap, errors.Join(errs...)
	}
	utils.InfoLogger.Printf("Flush layout %d: %d changes saved", layoutID, len(snapshot))
	return idMap, nil
}

// Discard membuang semua perubahan lokal dan memuat ulang dari store.
func (s *Session) Discard() error {
	rows, err := s.store.TablesByLayout(s.LayoutID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = s.tables[:0]
	for _, row := range rows {
		s.tables = append(s.tables, FromModel(row))
	}
	s.pending = make(map[string]PendingChange)
	s.selected = ""
	s.dirty = false
	return nil
}

// record menimpa entri pending untuk meja yang sama (last-write-wins)
// dan menandai sesi dirty. Dipanggil dengan lock terpegang.
func (s *Session) record(t TableState, isNew bool) {
	s.pending[t.ID] = PendingChange{Table: t, IsNew: isNew}
	s.dirty = true
}

func (s *Session) indexOf(id string) int {
	for i, t := range s.tables {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// remapLocked mengganti ID sementara dengan ID backend di daftar meja,
// pending tracker, dan selection. Dipanggil dengan lock terpegang.
func (s *Session) remapLocked(oldID, newID string) {
	for i := range s.tables {
		if s.tables[i].ID == oldID {
			s.tables[i].ID = newID
		}
	}
	if p, ok := s.pending[oldID]; ok {
		p.Table.ID = newID
		p.IsNew = false
		delete(s.pending, oldID)
		s.pending[newID] = p
	}
	if s.selected == oldID {
		s.selected = newID
	}
}
