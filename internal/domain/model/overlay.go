package model

import "fmt"

// Overlay はモーダルの種類
type Overlay string

const (
	OverlayProduct Overlay = "product"
	OverlayCart    Overlay = "cart"
	OverlayOrder   Overlay = "order"
)

var Overlays = []Overlay{OverlayProduct, OverlayCart, OverlayOrder}

// OverlayState は表示状態
type OverlayState int

const (
	Closed OverlayState = iota
	Opening
	Open
	Closing
)

func (s OverlayState) String() string {
	switch s {
	case Opening:
		return "opening"
	case Open:
		return "open"
	case Closing:
		return "closing"
	default:
		return "closed"
	}
}

func (s OverlayState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *OverlayState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "closed":
		*s = Closed
	case "opening":
		*s = Opening
	case "open":
		*s = Open
	case "closing":
		*s = Closing
	default:
		return fmt.Errorf("unknown overlay state %q", b)
	}
	return nil
}

// Visible は Opening か Open
func (s OverlayState) Visible() bool {
	return s == Opening || s == Open
}
