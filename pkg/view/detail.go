package view

import (
	"context"
	"errors"
)

// ErrItemNotInCollection is returned when a detail view is entered with an
// id its collection does not contain.
var ErrItemNotInCollection = errors.New("item not in collection")

// DefaultPreloadRadius is how many neighbours on each side are preloaded.
const DefaultPreloadRadius = 3

// LoadState is the image state of a detail view.
type LoadState int

const (
	// Loading shows the spinner until the current image reports loaded.
	Loading LoadState = iota
	// Displayed shows the image.
	Displayed
)

func (s LoadState) String() string {
	if s == Displayed {
		return "displayed"
	}
	return "loading"
}

// DetailConfig configures a Detail view.
type DetailConfig[T any] struct {
	Collection []T
	Adapter    Adapter[T]
	Nav        NavigationContext

	// Image resolves an item's raw asset path to the displayed image URL.
	Image func(rawPath string) string

	// Address receives the detail path on every item change.
	Address AddressBar

	// PathFor builds the address of item. Nil disables address sync.
	PathFor func(item T, nav NavigationContext) string

	Preloader     Preloader
	PreloadRadius int

	// OnBack is called with the original navigation context.
	OnBack func(ctx context.Context, nav NavigationContext)
}

// Detail shows one item of a collection with prev/next traversal.
type Detail[T any] struct {
	cfg   DetailConfig[T]
	index int
	state LoadState
	modal bool
}

// NewDetail creates a detail view. Call Enter to select the first item.
func NewDetail[T any](cfg DetailConfig[T]) *Detail[T] {
	if cfg.Image == nil {
		cfg.Image = func(string) string { return "" }
	}
	if cfg.Preloader == nil {
		cfg.Preloader = NopPreloader{}
	}
	if cfg.PreloadRadius < 0 {
		cfg.PreloadRadius = 0
	}
	if cfg.Nav.Page < 1 {
		cfg.Nav.Page = 1
	}
	return &Detail[T]{cfg: cfg, index: -1}
}

// Enter selects the item with id. The rest of the chrome updates at once
// while the image re-enters Loading.
func (d *Detail[T]) Enter(ctx context.Context, id int) error {
	i := IndexOf(d.cfg.Collection, d.cfg.Adapter, id)
	if i < 0 {
		return ErrItemNotInCollection
	}
	d.show(ctx, i)
	return nil
}

func (d *Detail[T]) show(ctx context.Context, i int) {
	d.index = i
	d.state = Loading
	d.modal = false

	item := d.cfg.Collection[i]
	if d.cfg.Address != nil && d.cfg.PathFor != nil {
		d.cfg.Address.Replace(d.cfg.PathFor(item, d.cfg.Nav))
	}
	d.preload(ctx)
}

// preload requests the images in [index-radius, index+radius] except the
// current one.
func (d *Detail[T]) preload(ctx context.Context) {
	r := d.cfg.PreloadRadius
	if r == 0 {
		return
	}
	start := max(0, d.index-r)
	end := min(len(d.cfg.Collection)-1, d.index+r)
	current := d.cfg.Adapter.ID(d.cfg.Collection[d.index])

	urls := make([]string, 0, end-start)
	for i := start; i <= end; i++ {
		item := d.cfg.Collection[i]
		if d.cfg.Adapter.ID(item) == current {
			continue
		}
		if u := d.cfg.Image(d.cfg.Adapter.AssetPath(item)); u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) > 0 {
		d.cfg.Preloader.Preload(ctx, urls)
	}
}

// Entered reports whether an item is selected.
func (d *Detail[T]) Entered() bool {
	return d.index >= 0
}

// Current returns the selected item.
func (d *Detail[T]) Current() T {
	if d.index < 0 {
		var zero T
		return zero
	}
	return d.cfg.Collection[d.index]
}

// Index returns the position of the selected item, or -1.
func (d *Detail[T]) Index() int { return d.index }

// Len returns the collection size.
func (d *Detail[T]) Len() int { return len(d.cfg.Collection) }

// Nav returns the navigation context the view was entered with.
func (d *Detail[T]) Nav() NavigationContext { return d.cfg.Nav }

// State returns the image load state.
func (d *Detail[T]) State() LoadState { return d.state }

// ImageURL returns the resolved image of the selected item. It may be empty
// for an item without a resolvable asset.
func (d *Detail[T]) ImageURL() string {
	if d.index < 0 {
		return ""
	}
	return d.cfg.Image(d.cfg.Adapter.AssetPath(d.Current()))
}

// Prev returns the previous item, if any.
func (d *Detail[T]) Prev() (T, bool) {
	var zero T
	if d.index <= 0 {
		return zero, false
	}
	return d.cfg.Collection[d.index-1], true
}

// Next returns the following item, if any.
func (d *Detail[T]) Next() (T, bool) {
	var zero T
	if d.index < 0 || d.index >= len(d.cfg.Collection)-1 {
		return zero, false
	}
	return d.cfg.Collection[d.index+1], true
}

// GoPrev moves to the previous item. It is a no-op at the first item.
func (d *Detail[T]) GoPrev(ctx context.Context) bool {
	if _, ok := d.Prev(); !ok {
		return false
	}
	d.show(ctx, d.index-1)
	return true
}

// GoNext moves to the following item. It is a no-op at the last item.
func (d *Detail[T]) GoNext(ctx context.Context) bool {
	if _, ok := d.Next(); !ok {
		return false
	}
	d.show(ctx, d.index+1)
	return true
}

// Key maps directional keys to traversal.
func (d *Detail[T]) Key(ctx context.Context, k Key) bool {
	switch k {
	case KeyLeft:
		return d.GoPrev(ctx)
	case KeyRight:
		return d.GoNext(ctx)
	}
	return false
}

// Back returns to the gallery page the view was entered from.
func (d *Detail[T]) Back(ctx context.Context) {
	if d.cfg.OnBack != nil {
		d.cfg.OnBack(ctx, d.cfg.Nav)
	}
}

// ImageLoaded marks the image of item id as displayed. Completions for an
// item that is no longer selected are ignored.
func (d *Detail[T]) ImageLoaded(id int) bool {
	if d.index < 0 || d.state != Loading {
		return false
	}
	if d.cfg.Adapter.ID(d.Current()) != id {
		return false
	}
	d.state = Displayed
	return true
}

// OpenModal shows the full-size image overlay.
func (d *Detail[T]) OpenModal() bool {
	if d.index < 0 || d.ImageURL() == "" {
		return false
	}
	d.modal = true
	return true
}

// CloseModal hides the overlay.
func (d *Detail[T]) CloseModal() bool {
	was := d.modal
	d.modal = false
	return was
}

// ModalOpen reports whether the overlay is shown.
func (d *Detail[T]) ModalOpen() bool { return d.modal }
