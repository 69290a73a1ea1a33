// Package scroll keeps a selected row visible inside a fixed-height pane.
package scroll

// Align returns the row offset that keeps sel inside a window of h rows out
// of total, nudging the current offset off only as far as needed to leave a
// small margin above and below the selection.
func Align(sel, off, h, total int) int {
	if h <= 0 || total <= 0 {
		return 0
	}
	sel = clamp(sel, 0, total-1)
	if h > total {
		h = total
	}
	maxOff := total - h
	off = clamp(off, 0, maxOff)
	if sel == total-1 {
		return maxOff
	}

	margin := max(h/4, 1)
	switch {
	case sel < off+margin:
		return clamp(sel-margin, 0, maxOff)
	case sel > off+h-1-margin:
		return clamp(sel-(h-1-margin), 0, maxOff)
	}
	return off
}

// Window returns the half-open row range [start, end) to draw.
func Window(sel, off, h, total int) (start, end int) {
	start = Align(sel, off, h, total)
	end = min(start+max(h, 0), total)
	return start, end
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
