package view

import (
	"context"
	"strconv"

	"github.com/wgaamuseum/museum/pkg/pageindex"
)

// GalleryConfig configures a Gallery.
type GalleryConfig[T any] struct {
	// Category is the category label key, Parent the display name of the
	// parent collection. The heading reads "Category/Parent".
	Category string
	Parent   string

	Items    []T
	PageSize int
	Page     int
	Adapter  Adapter[T]

	// Thumbnail resolves an item's raw asset path to an image URL. An
	// empty result hides the item from the grid.
	Thumbnail func(rawPath string) string

	// Caption overrides the cell caption. Defaults to Adapter.Name.
	Caption func(item T) string

	// HideCaptions suppresses captions entirely (comic pages).
	HideCaptions bool

	// OnActivate is called when a cell is activated. It decides whether
	// to open a detail view or push a new address.
	OnActivate func(ctx context.Context, item T, nav NavigationContext)

	// OnPageChange is called after the page changed through the controls.
	OnPageChange func(ctx context.Context, page int)
}

// Cell is one visible grid entry.
type Cell struct {
	ID      int
	Name    string
	Caption string
	Thumb   string
}

// Controls describes the pagination bar.
type Controls struct {
	Visible bool
	Page    int
	Total   int

	// Input is the text shown in the page-jump field.
	Input string

	First, Prev, Next, Last bool
}

// Gallery is a paginated grid over one collection.
type Gallery[T any] struct {
	cfg    GalleryConfig[T]
	window pageindex.Window
	input  string
}

// NewGallery creates a gallery. The requested page is clamped into range.
func NewGallery[T any](cfg GalleryConfig[T]) *Gallery[T] {
	if cfg.PageSize < 1 {
		cfg.PageSize = 1
	}
	if cfg.Thumbnail == nil {
		cfg.Thumbnail = func(string) string { return "" }
	}
	g := &Gallery[T]{cfg: cfg}
	g.setPage(cfg.Page)
	return g
}

func (g *Gallery[T]) setPage(page int) {
	total := pageindex.TotalPages(len(g.cfg.Items), g.cfg.PageSize)
	page = pageindex.Clamp(page, total)
	g.window = pageindex.Compute(len(g.cfg.Items), g.cfg.PageSize, page)
	g.input = strconv.Itoa(page)
}

// Category returns the category label key.
func (g *Gallery[T]) Category() string { return g.cfg.Category }

// Parent returns the parent collection name.
func (g *Gallery[T]) Parent() string { return g.cfg.Parent }

// Page returns the current page.
func (g *Gallery[T]) Page() int { return g.window.Page }

// Window returns the current pagination window.
func (g *Gallery[T]) Window() pageindex.Window { return g.window }

// Items returns the full collection.
func (g *Gallery[T]) Items() []T { return g.cfg.Items }

// Visible returns the items on the current page, including ones without a
// resolvable asset.
func (g *Gallery[T]) Visible() []T {
	return g.cfg.Items[g.window.Start:g.window.End]
}

// Cells returns the grid entries for the current page. Items without a
// resolvable thumbnail are skipped.
func (g *Gallery[T]) Cells() []Cell {
	visible := g.Visible()
	cells := make([]Cell, 0, len(visible))
	for _, item := range visible {
		thumb := g.cfg.Thumbnail(g.cfg.Adapter.AssetPath(item))
		if thumb == "" {
			continue
		}
		cell := Cell{
			ID:    g.cfg.Adapter.ID(item),
			Name:  g.cfg.Adapter.Name(item),
			Thumb: thumb,
		}
		if !g.cfg.HideCaptions {
			if g.cfg.Caption != nil {
				cell.Caption = g.cfg.Caption(item)
			} else {
				cell.Caption = cell.Name
			}
		}
		cells = append(cells, cell)
	}
	return cells
}

// Controls returns the pagination bar state. It is visible only when the
// collection spans more than one page.
func (g *Gallery[T]) Controls() Controls {
	w := g.window
	return Controls{
		Visible: w.Total > 1,
		Page:    w.Page,
		Total:   w.Pages(),
		Input:   g.input,
		First:   w.HasPrev(),
		Prev:    w.HasPrev(),
		Next:    w.HasNext(),
		Last:    w.HasNext(),
	}
}

// GoTo moves to page if it is in range. It reports whether the page changed.
func (g *Gallery[T]) GoTo(ctx context.Context, page int) bool {
	if page < 1 || page > g.window.Pages() || page == g.window.Page {
		g.input = strconv.Itoa(g.window.Page)
		return false
	}
	g.setPage(page)
	if g.cfg.OnPageChange != nil {
		g.cfg.OnPageChange(ctx, page)
	}
	return true
}

// First moves to page 1.
func (g *Gallery[T]) First(ctx context.Context) bool { return g.GoTo(ctx, 1) }

// Prev moves one page back.
func (g *Gallery[T]) Prev(ctx context.Context) bool { return g.GoTo(ctx, g.window.Page-1) }

// Next moves one page forward.
func (g *Gallery[T]) Next(ctx context.Context) bool { return g.GoTo(ctx, g.window.Page+1) }

// Last moves to the final page.
func (g *Gallery[T]) Last(ctx context.Context) bool { return g.GoTo(ctx, g.window.Pages()) }

// Jump applies direct page entry. Non-numeric or out-of-range input is
// rejected and the field reverts to the current page.
func (g *Gallery[T]) Jump(ctx context.Context, input string) bool {
	page, ok := pageindex.ParseJump(input, g.window.Pages())
	if !ok {
		g.input = strconv.Itoa(g.window.Page)
		return false
	}
	return g.GoTo(ctx, page)
}

// Activate activates the item with id if it is on the collection. The
// navigation context carries the current page.
func (g *Gallery[T]) Activate(ctx context.Context, id int) bool {
	i := IndexOf(g.cfg.Items, g.cfg.Adapter, id)
	if i < 0 || g.cfg.OnActivate == nil {
		return false
	}
	g.cfg.OnActivate(ctx, g.cfg.Items[i], NavigationContext{
		Category: g.cfg.Category,
		Parent:   g.cfg.Parent,
		Page:     g.window.Page,
	})
	return true
}
