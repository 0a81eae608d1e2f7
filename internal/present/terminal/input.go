package terminal

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Key names reported for non-rune keys.
const (
	KeyEscape = "esc"
	KeyEnter  = "enter"
	KeyLeft   = "left"
	KeyRight  = "right"
	KeyUp     = "up"
	KeyDown   = "down"
)

// Keyboard records keys pressed since the last Reset. It is written by the
// event goroutine and read by the frame goroutine.
type Keyboard struct {
	mu      sync.Mutex
	pressed map[string]bool
	quit    bool
}

func NewKeyboard() *Keyboard {
	return &Keyboard{pressed: make(map[string]bool)}
}

// Press marks key as pressed in the current frame.
func (k *Keyboard) Press(key string) {
	k.mu.Lock()
	k.pressed[key] = true
	k.mu.Unlock()
}

// Pressed reports whether key went down since the last Reset.
func (k *Keyboard) Pressed(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.pressed[key]
}

// Reset clears the per-frame state.
func (k *Keyboard) Reset() {
	k.mu.Lock()
	clear(k.pressed)
	k.mu.Unlock()
}

// QuitRequested reports whether Escape or Ctrl-C was seen.
func (k *Keyboard) QuitRequested() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.quit
}

// HandleEvent translates a tcell event. It reports false for quit keys.
func (k *Keyboard) HandleEvent(ev tcell.Event) bool {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return true
	}
	switch key.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		k.mu.Lock()
		k.quit = true
		k.mu.Unlock()
		return false
	case tcell.KeyEnter:
		k.Press(KeyEnter)
	case tcell.KeyLeft:
		k.Press(KeyLeft)
	case tcell.KeyRight:
		k.Press(KeyRight)
	case tcell.KeyUp:
		k.Press(KeyUp)
	case tcell.KeyDown:
		k.Press(KeyDown)
	case tcell.KeyRune:
		k.Press(string(key.Rune()))
	}
	return true
}

// Poller is the event source side of tcell.Screen.
type Poller interface {
	PollEvent() tcell.Event
}

// Pump feeds screen events into k until ctx is done, a quit key arrives or
// the screen is finalized. onQuit runs once when a quit key is seen.
func Pump(ctx context.Context, p Poller, k *Keyboard, onQuit func()) {
	events := make(chan tcell.Event, 16)
	go func() {
		defer close(events)
		for {
			ev := p.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if !k.HandleEvent(ev) {
				if onQuit != nil {
					onQuit()
				}
				return
			}
		}
	}
}
