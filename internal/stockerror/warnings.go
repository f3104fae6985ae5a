package stockerror

import "errors"

// Warnings collects non-fatal findings. A nil *Warnings discards everything.
type Warnings struct {
	items []error
}

// Add appends a warning.
func (w *Warnings) Add(err error) {
	if w == nil || err == nil {
		return
	}
	w.items = append(w.items, err)
}

// List returns the collected warnings in arrival order.
func (w *Warnings) List() []error {
	if w == nil {
		return nil
	}
	return w.items
}

// Len returns the number of collected warnings.
func (w *Warnings) Len() int {
	if w == nil {
		return 0
	}
	return len(w.items)
}

// Validation returns the collected ValidationWarnings.
func (w *Warnings) Validation() []*ValidationWarning {
	var out []*ValidationWarning
	for _, err := range w.List() {
		var vw *ValidationWarning
		if errors.As(err, &vw) {
			out = append(out, vw)
		}
	}
	return out
}

// Skips returns the collected ParseSkips.
func (w *Warnings) Skips() []*ParseSkip {
	var out []*ParseSkip
	for _, err := range w.List() {
		var ps *ParseSkip
		if errors.As(err, &ps) {
			out = append(out, ps)
		}
	}
	return out
}
