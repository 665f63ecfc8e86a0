package floorplan

import "github.com/yeremiapane/restaurant-layout/models"

// ApplyTableUpsert melipat event create/update dari hub ke dalam sesi:
// replace kalau ID-nya sudah ada, append kalau belum. Operasi ini idempoten;
// menerima ulang event untuk meja yang baru saja di-flush tidak mengubah apa-apa.
func (s *Session) ApplyTableUpsert(row models.Table) {
	if row.LayoutID != s.LayoutID {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state := FromModel(row)
	if idx := s.indexOf(state.ID); idx >= 0 {
		s.tables[idx] = state
		return
	}
	s.tables = append(s.tables, state)
}

// ApplyTableDelete menghapus meja berdasarkan identitas dan membersihkan
// selection yang menunjuk ke meja itu. Pending entry-nya ikut dibuang;
// tidak ada gunanya mengirim update untuk meja yang sudah hilang.
func (s *Session) ApplyTableDelete(id uint) {
	key := stateID(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(key); idx >= 0 {
		s.tables = append(s.tables[:idx], s.tables[idx+1:]...)
	}
	if s.selected == key {
		s.selected = ""
	}
	delete(s.pending, key)
	s.dirty = len(s.pending) > 0
}

// ApplyLayoutUpdate menyerap perubahan ukuran canvas dan men-clamp ulang
// posisi meja yang jadi berada di luar batas baru.
func (s *Session) ApplyLayoutUpdate(layout models.Layout) {
	if layout.ID != s.LayoutID {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.layoutW = layout.Width
	s.layoutH = layout.Height
	for i, t := range s.tables {
		x, y := clampPosition(t.X, t.Y, t.Width, t.Height, s.layoutW, s.layoutH)
		if x != t.X || y != t.Y {
			s.tables[i].X = x
			s.tables[i].Y = y
		}
	}
}
