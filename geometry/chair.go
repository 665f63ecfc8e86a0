package geometry

import "math"

// chairOffset adalah jarak dasar kursi dari tepi meja (pixel).
const chairOffset = 14.0

const (
	SideTop    = "top"
	SideRight  = "right"
	SideBottom = "bottom"
	SideLeft   = "left"
	SideRound  = "round"
)

// ChairPosition adalah posisi satu kursi relatif terhadap titik tengah meja.
// Kursi tidak punya identitas; seluruh daftar dihitung ulang setiap kali
// konfigurasi meja berubah.
type ChairPosition struct {
	DX    float64 `json:"dx"`
	DY    float64 `json:"dy"`
	Angle float64 `json:"angle"`
	Side  string  `json:"side"`
}

// TableShape adalah input minimum yang dibutuhkan perhitungan kursi.
type TableShape struct {
	Shape       string
	Width       float64
	Height      float64
	ChairCount  int
	ChairTop    bool
	ChairRight  bool
	ChairBottom bool
	ChairLeft   bool
}

// ChairPositions menghitung posisi semua kursi di sekeliling meja.
// Fungsi ini pure: input sama selalu menghasilkan output yang sama.
func ChairPositions(t TableShape, scale float64) []ChairPosition {
	if scale <= 0 {
		scale = 1
	}
	if t.ChairCount <= 0 {
		return []ChairPosition{}
	}
	if t.Shape == "round" || t.Shape == "circle" {
		return roundChairs(t, scale)
	}
	return rectChairs(t, scale)
}

// roundChairs membagi kursi merata di lingkaran, mulai dari atas (-90 derajat)
// searah jarum jam. Kursi menghadap ke tengah meja (angle posisi + 90).
func roundChairs(t TableShape, scale float64) []ChairPosition {
	radius := math.Max(t.Width, t.Height)/2*scale + chairOffset
	step := 360.0 / float64(t.ChairCount)

	chairs := make([]ChairPosition, 0, t.ChairCount)
	for i := 0; i < t.ChairCount; i++ {
		angle := -90 + step*float64(i)
		rad := angle * math.Pi / 180
		chairs = append(chairs, ChairPosition{
			DX:    radius * math.Cos(rad),
			DY:    radius * math.Sin(rad),
			Angle: angle + 90,
			Side:  SideRound,
		})
	}
	return chairs
}

// rectChairs membagi kursi ke sisi-sisi yang aktif, serata mungkin.
// Sisa pembagian jatuh ke sisi lebih awal dalam urutan top, right, bottom, left.
func rectChairs(t TableShape, scale float64) []ChairPosition {
	sides := enabledSides(t)
	if len(sides) == 0 {
		return []ChairPosition{}
	}

	base := t.ChairCount / len(sides)
	rem := t.ChairCount % len(sides)

	halfW := t.Width * scale / 2
	halfH := t.Height * scale / 2
	off := chairOffset * scale

	chairs := make([]ChairPosition, 0, t.ChairCount)
	for idx, side := range sides {
		n := base
		if idx < rem {
			n++
		}
		if n == 0 {
			continue
		}

		sideLen := t.Width * scale
		if side == SideRight || side == SideLeft {
			sideLen = t.Height * scale
		}
		spacing := sideLen / float64(n+1)

		for i := 0; i < n; i++ {
			along := spacing * float64(i+1)
			var c ChairPosition
			switch side {
			case SideTop:
				c = ChairPosition{DX: -halfW + along, DY: -halfH - off, Angle: 0, Side: SideTop}
			case SideRight:
				c = ChairPosition{DX: halfW + off, DY: -halfH + along, Angle: 90, Side: SideRight}
			case SideBottom:
				c = ChairPosition{DX: -halfW + along, DY: halfH + off, Angle: 180, Side: SideBottom}
			case SideLeft:
				c = ChairPosition{DX: -halfW - off, DY: -halfH + along, Angle: 270, Side: SideLeft}
			}
			chairs = append(chairs, c)
		}
	}
	return chairs
}

func enabledSides(t TableShape) []string {
	sides := make([]string, 0, 4)
	if t.ChairTop {
		sides = append(sides, SideTop)
	}
	if t.ChairRight {
		sides = append(sides, SideRight)
	}
	if t.ChairBottom {
		sides = append(sides, SideBottom)
	}
	if t.ChairLeft {
		sides = append(sides, SideLeft)
	}
	return sides
}
