package view

import "context"

// AddressBar is the browser's current path as seen by the views.
type AddressBar interface {
	// Replace updates the address without re-dispatching the router.
	Replace(path string)

	// Push updates the address and re-enters the router.
	Push(path string)
}

// NavigationContext ties a detail view to the gallery state the user came
// from. Page is carried explicitly and never recomputed from the item
// position.
type NavigationContext struct {
	// Category is the category label key, e.g. "CG".
	Category string

	// Parent is the display name of the parent collection, e.g. a group name.
	Parent string

	// Page is the gallery page the detail view was entered from.
	Page int
}

// Preloader issues best-effort image loads. Implementations must not block
// and must swallow failures.
type Preloader interface {
	Preload(ctx context.Context, urls []string)
}

// PreloadFunc adapts a function to Preloader.
type PreloadFunc func(ctx context.Context, urls []string)

func (f PreloadFunc) Preload(ctx context.Context, urls []string) {
	f(ctx, urls)
}

// NopPreloader discards preload requests.
type NopPreloader struct{}

func (NopPreloader) Preload(context.Context, []string) {}

// RecordingAddressBar keeps every address update. Useful in tests and for
// rendering without a browser.
type RecordingAddressBar struct {
	Current  string
	Replaced []string
	Pushed   []string
}

func (a *RecordingAddressBar) Replace(path string) {
	a.Current = path
	a.Replaced = append(a.Replaced, path)
}

func (a *RecordingAddressBar) Push(path string) {
	a.Current = path
	a.Pushed = append(a.Pushed, path)
}

// Key is a directional or dismiss key press.
type Key string

const (
	KeyLeft   Key = "ArrowLeft"
	KeyRight  Key = "ArrowRight"
	KeyEscape Key = "Escape"
)
