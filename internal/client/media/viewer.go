package media

import (
	"context"
	"sync"
	"time"
)

// AdvanceInterval is the auto-advance period of the viewer.
const AdvanceInterval = 3 * time.Second

// Item is one entry of the playback sequence.
type Item struct {
	URL  string
	Kind Kind
}

// Viewer cycles through a combined image/video sequence. Auto-advance is
// suspended while the viewer is zoomed or hovered and resumes from the
// current index once both clear. A sequence of length <= 1 never advances.
type Viewer struct {
	mu      sync.Mutex
	items   []Item
	index   int
	zoomed  bool
	hovered bool
}

// NewViewer builds the playback sequence: images first, then videos, in the
// given order.
func NewViewer(images, videos []string) *Viewer {
	items := make([]Item, 0, len(images)+len(videos))
	for _, u := range images {
		items = append(items, Item{URL: u, Kind: KindImage})
	}
	for _, u := range videos {
		items = append(items, Item{URL: u, Kind: KindVideo})
	}
	return &Viewer{items: items}
}

// Len returns the sequence length.
func (v *Viewer) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.items)
}

// Items returns a copy of the sequence.
func (v *Viewer) Items() []Item {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]Item(nil), v.items...)
}

// SelectedIndex returns the current 0-based position.
func (v *Viewer) SelectedIndex() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.index
}

// Selected returns the current item, if the sequence is non-empty.
func (v *Viewer) Selected() (Item, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.items) == 0 {
		return Item{}, false
	}
	return v.items[v.index], true
}

// Select jumps to index i. Out-of-range selections are ignored. Selecting
// does not reset the auto-advance timer's future firing.
func (v *Viewer) Select(i int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if i < 0 || i >= len(v.items) {
		return
	}
	v.index = i
}

// Advance moves to the next item, wrapping at the end. It is a no-op while
// zoomed or hovered, or when the sequence has at most one item.
func (v *Viewer) Advance() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.zoomed || v.hovered || len(v.items) <= 1 {
		return
	}
	v.index = (v.index + 1) % len(v.items)
}

// SetHovered records pointer presence; hovering suspends auto-advance.
func (v *Viewer) SetHovered(h bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.hovered = h
}

// Hovered reports the hover state.
func (v *Viewer) Hovered() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.hovered
}

// SetZoomed opens or closes the full-size view. Closing keeps the current
// index.
func (v *Viewer) SetZoomed(z bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.zoomed = z
}

// Zoomed reports the full-size view state.
func (v *Viewer) Zoomed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.zoomed
}

// ShowsThumbnails reports whether the thumbnail strip is rendered: only for
// sequences longer than one item.
func (v *Viewer) ShowsThumbnails() bool {
	return v.Len() > 1
}

// Start runs auto-advance until ctx is cancelled. The ticker is owned by the
// goroutine and stopped on teardown, so a dismissed viewer never fires
// against a stale view.
func (v *Viewer) Start(ctx context.Context) {
	v.start(ctx, AdvanceInterval)
}

func (v *Viewer) start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				v.Advance()
			}
		}
	}()
}
