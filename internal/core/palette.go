package core

import "sync/atomic"

// palette holds the display colors handed to joining participants.
var palette = [...]string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#FFA07A",
	"#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E2",
}

// paletteIndex only grows within a process lifetime; colors are not
// reclaimed when a participant leaves.
var paletteIndex atomic.Uint64

// NextColor returns the next display color, round-robin over the palette.
func NextColor() string {
	n := paletteIndex.Add(1) - 1
	return palette[n%uint64(len(palette))]
}
