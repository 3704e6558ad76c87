package usecase

import (
	"sync"
	"time"

	"storefront/internal/domain/model"
)

const (
	// DefaultFrameDelay は Opening から Open までの「次の描画」
	DefaultFrameDelay = 16 * time.Millisecond
	// DefaultCloseDelay は閉じるアニメーションの時間。過ぎてから Closed にする。
	DefaultCloseDelay = 250 * time.Millisecond
)

// Timer は止められる予約
type Timer interface {
	Stop() bool
}

// Scheduler は遅延実行。テストでは手で進める実装に差し替える。
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler は time.AfterFunc を使う
func RealScheduler() Scheduler {
	return realScheduler{}
}

type overlaySlot struct {
	state model.OverlayState
	timer Timer
	// gen は発火済みで lock 待ちの古いタイマーを無視するため
	gen uint64
}

func (s *overlaySlot) cancel() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

// overlayMachine は3つのモーダルの表示状態を持つ。
// タイマーのコールバックは lock を取ってから状態を変える。
type overlayMachine struct {
	slots      map[model.Overlay]*overlaySlot
	sched      Scheduler
	frameDelay time.Duration
	closeDelay time.Duration
	lock       sync.Locker
	onChange   func()
}

func newOverlayMachine(sched Scheduler, frameDelay, closeDelay time.Duration, lock sync.Locker, onChange func()) *overlayMachine {
	m := &overlayMachine{
		slots:      make(map[model.Overlay]*overlaySlot, len(model.Overlays)),
		sched:      sched,
		frameDelay: frameDelay,
		closeDelay: closeDelay,
		lock:       lock,
		onChange:   onChange,
	}
	for _, o := range model.Overlays {
		m.slots[o] = &overlaySlot{state: model.Closed}
	}
	return m
}

func (m *overlayMachine) state(o model.Overlay) model.OverlayState {
	return m.slots[o].state
}

// open は Closed/Closing から Opening に入り、次のフレームで Open にする。
// Closing 中の閉じタイマーは取り消す。
func (m *overlayMachine) open(o model.Overlay) {
	s := m.slots[o]
	if s.state.Visible() {
		return
	}

	s.cancel()
	s.state = model.Opening
	gen := s.gen
	s.timer = m.sched.AfterFunc(m.frameDelay, func() {
		m.fire(s, gen, model.Open)
	})
}

// close は Opening/Open から Closing に入り、closeDelay 後に Closed にする。
func (m *overlayMachine) close(o model.Overlay) bool {
	s := m.slots[o]
	if !s.state.Visible() {
		return false
	}

	s.cancel()
	s.state = model.Closing
	gen := s.gen
	s.timer = m.sched.AfterFunc(m.closeDelay, func() {
		m.fire(s, gen, model.Closed)
	})
	return true
}

func (m *overlayMachine) fire(s *overlaySlot, gen uint64, next model.OverlayState) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if s.gen != gen {
		return
	}
	s.state = next
	s.timer = nil
	if m.onChange != nil {
		m.onChange()
	}
}

// closeAll は見えているものを全部閉じる（背景タップ）。
func (m *overlayMachine) closeAll() []model.Overlay {
	var closed []model.Overlay
	for _, o := range model.Overlays {
		if m.close(o) {
			closed = append(closed, o)
		}
	}
	return closed
}

// dimmer は各モーダルから導く。1つでも Open/Opening なら表示。
func (m *overlayMachine) dimmer() model.OverlayState {
	var opening, closing bool
	for _, o := range model.Overlays {
		switch m.slots[o].state {
		case model.Open:
			return model.Open
		case model.Opening:
			opening = true
		case model.Closing:
			closing = true
		}
	}
	switch {
	case opening:
		return model.Opening
	case closing:
		return model.Closing
	default:
		return model.Closed
	}
}

func (m *overlayMachine) anyVisible() bool {
	return m.dimmer().Visible()
}

func (m *overlayMachine) states() map[model.Overlay]model.OverlayState {
	out := make(map[model.Overlay]model.OverlayState, len(m.slots))
	for o, s := range m.slots {
		out[o] = s.state
	}
	return out
}

// stop は残っているタイマーを全部止める（セッション破棄時）。
func (m *overlayMachine) stop() {
	for _, s := range m.slots {
		s.cancel()
	}
}
