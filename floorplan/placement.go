package floorplan

import "github.com/yeremiapane/restaurant-layout/models"

const (
	defaultTableSize = 80.0
	defaultChairs    = 4

	placementGrid    = 10
	placementSpacing = 20.0
	duplicateOffset  = 30.0

	// Posisi cadangan kalau seluruh grid penuh.
	fallbackX = 40.0
	fallbackY = 40.0
)

// clampPosition menjaga meja tetap di dalam canvas layout.
func clampPosition(x, y, w, h, layoutW, layoutH float64) (float64, float64) {
	maxX := layoutW - w
	maxY := layoutH - h
	if maxX < 0 {
		maxX = 0
	}
	if maxY < 0 {
		maxY = 0
	}
	if x < 0 {
		x = 0
	}
	if x > maxX {
		x = maxX
	}
	if y < 0 {
		y = 0
	}
	if y > maxY {
		y = maxY
	}
	return x, y
}

func clampSize(v float64) float64 {
	if v < models.TableMinSize {
		return models.TableMinSize
	}
	if v > models.TableMaxSize {
		return models.TableMaxSize
	}
	return v
}

// findFreeSpot memindai grid 10x10 mencari sel yang tidak bertabrakan dengan
// meja lain. Uji tabrakannya aproksimasi (jarak antar titik tengah < ukuran
// meja pada kedua sumbu), cukup untuk penempatan awal, bukan geometri eksak.
func findFreeSpot(tables []TableState, size, layoutW, layoutH float64) (float64, float64) {
	pitch := size + placementSpacing

	for row := 0; row < placementGrid; row++ {
		for col := 0; col < placementGrid; col++ {
			x := placementSpacing + float64(col)*pitch
			y := placementSpacing + float64(row)*pitch
			if x+size > layoutW || y+size > layoutH {
				continue
			}

			cx := x + size/2
			cy := y + size/2
			free := true
			for _, t := range tables {
				tcx := t.X + t.Width/2
				tcy := t.Y + t.Height/2
				if abs(tcx-cx) < size && abs(tcy-cy) < size {
					free = false
					break
				}
			}
			if free {
				return x, y
			}
		}
	}
	return fallbackX, fallbackY
}

// lowestFreeNumber mencari nomor meja terkecil yang belum terpakai,
// scan linier mulai dari 1.
func lowestFreeNumber(tables []TableState) int {
	used := make(map[int]bool, len(tables))
	for _, t := range tables {
		used[t.TableNumber] = true
	}
	for n := 1; ; n++ {
		if !used[n] {
			return n
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func normalizeRotation(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg
}
