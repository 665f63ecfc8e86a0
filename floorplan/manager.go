package floorplan

import (
	"sync"

	"github.com/yeremiapane/restaurant-layout/events"
	"github.com/yeremiapane/restaurant-layout/models"
	"github.com/yeremiapane/restaurant-layout/utils"
)

// Manager memegang sesi editor yang sedang terbuka, satu per layout.
// Selama ada sesi terbuka, manager men-subscribe ke hub dan melipat event
// yang masuk ke sesi yang bersangkutan; subscription dilepas lagi saat
// sesi terakhir ditutup (setiap subscribe punya pasangan unsubscribe).
type Manager struct {
	mu       sync.Mutex
	store    Store
	sessions map[uint]*Session
	sub      chan events.Message
}

func NewManager(store Store) *Manager {
	return &Manager{
		store:    store,
		sessions: make(map[uint]*Session),
	}
}

// Open mengembalikan sesi untuk layout tersebut, memuat dari store kalau
// belum ada yang terbuka.
func (m *Manager) Open(layoutID uint) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[layoutID]; ok {
		return s, nil
	}

	s, err := NewSession(m.store, layoutID)
	if err != nil {
		return nil, err
	}
	m.sessions[layoutID] = s

	if m.sub == nil {
		m.sub = events.Subscribe()
		go m.listen(m.sub)
	}
	return s, nil
}

// Get mengembalikan sesi yang sudah terbuka, tanpa membuat yang baru.
func (m *Manager) Get(layoutID uint) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[layoutID]
	return s, ok
}

// Close menutup sesi layout. Perubahan yang belum di-flush hilang.
func (m *Manager) Close(layoutID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, layoutID)
	if len(m.sessions) == 0 && m.sub != nil {
		events.Unsubscribe(m.sub)
		m.sub = nil
	}
}

// listen melipat event hub ke sesi yang terbuka. Loop berhenti saat
// channel ditutup oleh Unsubscribe.
func (m *Manager) listen(ch chan events.Message) {
	for msg := range ch {
		switch msg.Event {
		case events.EventTableCreate, events.EventTableUpdate:
			table, ok := msg.Data.(models.Table)
			if !ok {
				continue
			}
			if s, open := m.Get(table.LayoutID); open {
				s.ApplyTableUpsert(table)
			}
		case events.EventTableDelete:
			table, ok := msg.Data.(models.Table)
			if !ok {
				continue
			}
			m.mu.Lock()
			sessions := make([]*Session, 0, len(m.sessions))
			for _, s := range m.sessions {
				sessions = append(sessions, s)
			}
			m.mu.Unlock()
			// Event delete bisa datang tanpa layout_id; semua sesi dicek.
			for _, s := range sessions {
				s.ApplyTableDelete(table.ID)
			}
		case events.EventLayoutUpdate:
			layout, ok := msg.Data.(models.Layout)
			if !ok {
				continue
			}
			if s, open := m.Get(layout.ID); open {
				s.ApplyLayoutUpdate(layout)
			}
		case events.EventLayoutDelete:
			layout, ok := msg.Data.(models.Layout)
			if !ok {
				continue
			}
			if _, open := m.Get(layout.ID); open {
				utils.InfoLogger.Printf("Layout %d deleted, closing editor session", layout.ID)
				m.Close(layout.ID)
			}
		}
	}
}
