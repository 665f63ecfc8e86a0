package floorplan

import (
	"fmt"
	"sort"
	"time"

	"github.com/yeremiapane/restaurant-layout/models"
)

const (
	StatusFree     = "free"
	StatusOccupied = "occupied"
	StatusReserved = "reserved"
)

// Palet warna untuk grup order multi-meja. Berulang kalau grupnya lebih
// banyak dari palet.
var groupPalette = []string{
	"#e6194b", "#3cb44b", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#808000",
}

// TableStatus adalah hasil rekonsiliasi untuk satu meja.
type TableStatus struct {
	Status     string `json:"status"`
	GroupColor string `json:"group_color,omitempty"`
	OrderIDs   []uint `json:"order_ids,omitempty"`
}

// ComputeStatuses menurunkan status okupansi setiap meja dari daftar order
// dan reservasi. Dihitung dari nol setiap event relevan; jumlah meja/order
// kecil sehingga ketepatan lebih penting daripada efisiensi.
//
// Meja occupied jika ada order terbuka yang mereferensikannya (lewat ID atau
// nomor meja). Meja reserved jika ada reservasi aktif dan tidak ada order
// terbuka. Order multi-meja mendapat satu warna grup per himpunan meja unik.
// Meja dan order milik layout lain disaring lebih dulu.
func ComputeStatuses(tables []models.Table, orders []models.Order, reservations []models.Reservation, layoutID uint, now time.Time) map[uint]TableStatus {
	inLayout := make(map[uint]bool, len(tables))
	byNumber := make(map[int]uint, len(tables))
	for _, t := range tables {
		if t.LayoutID != layoutID {
			continue
		}
		inLayout[t.ID] = true
		byNumber[t.TableNumber] = t.ID
	}

	statuses := make(map[uint]TableStatus, len(inLayout))
	for id := range inLayout {
		statuses[id] = TableStatus{Status: StatusFree}
	}

	// Urutkan order berdasarkan ID supaya penetapan warna deterministik.
	open := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.IsOpen() {
			open = append(open, o)
		}
	}
	sort.Slice(open, func(i, j int) bool { return open[i].ID < open[j].ID })

	groupColors := make(map[string]string)
	for _, order := range open {
		ids := referencedTables(order, inLayout, byNumber)
		if len(ids) == 0 {
			continue
		}

		color := ""
		if len(ids) > 1 {
			key := groupKey(ids)
			if _, ok := groupColors[key]; !ok {
				groupColors[key] = groupPalette[len(groupColors)%len(groupPalette)]
			}
			color = groupColors[key]
		}

		for _, id := range ids {
			st := statuses[id]
			st.Status = StatusOccupied
			st.OrderIDs = append(st.OrderIDs, order.ID)
			if color != "" {
				st.GroupColor = color
			}
			statuses[id] = st
		}
	}

	for _, r := range reservations {
		if !inLayout[r.TableID] || !r.IsActiveAt(now) {
			continue
		}
		st := statuses[r.TableID]
		if st.Status == StatusFree {
			st.Status = StatusReserved
			statuses[r.TableID] = st
		}
	}

	return statuses
}

// referencedTables mengumpulkan ID meja dalam layout yang disebut order,
// terurut dan tanpa duplikat.
func referencedTables(order models.Order, inLayout map[uint]bool, byNumber map[int]uint) []uint {
	seen := make(map[uint]bool)
	for _, t := range order.Tables {
		id := t.ID
		if id == 0 {
			id = byNumber[t.TableNumber]
		}
		if inLayout[id] {
			seen[id] = true
		}
	}

	ids := make([]uint, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func groupKey(ids []uint) string {
	key := ""
	for _, id := range ids {
		key += fmt.Sprintf("%d,", id)
	}
	return key
}
