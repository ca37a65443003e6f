package view

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"testing"
)

type item struct {
	ID    int
	Order int
	Group string
	Path  string
}

var itemAdapter = AdapterFuncs[item]{
	GetID:        func(i item) int { return i.ID },
	GetOrder:     func(i item) int { return i.Order },
	GetParentKey: func(i item) string { return i.Group },
	GetAssetPath: func(i item) string { return i.Path },
	GetName:      func(i item) string { return "item-" + strconv.Itoa(i.ID) },
}

func makeItems(n int) []item {
	items := make([]item, n)
	for i := range items {
		items[i] = item{ID: i + 1, Order: i + 1, Group: "g", Path: fmt.Sprintf("Assets/G/%d.png", i+1)}
	}
	return items
}

func urlOf(raw string) string {
	if raw == "" {
		return ""
	}
	return "https://img/" + raw
}

func TestSortByOrder_Stable(t *testing.T) {
	items := []item{{ID: 1, Order: 2}, {ID: 2, Order: 1}, {ID: 3, Order: 2}, {ID: 4, Order: 0}}
	got := SortByOrder(items, itemAdapter)

	var ids []int
	for _, it := range got {
		ids = append(ids, it.ID)
	}
	if want := []int{4, 2, 1, 3}; !slices.Equal(ids, want) {
		t.Errorf("expected %v, got %v", want, ids)
	}
	if items[0].ID != 1 {
		t.Error("expected input to be left untouched")
	}
}

func TestIndexOf(t *testing.T) {
	items := []item{{ID: 5}, {ID: 9}, {ID: 5}}
	if got := IndexOf(items, itemAdapter, 5); got != 0 {
		t.Errorf("expected first match 0, got %d", got)
	}
	if got := IndexOf(items, itemAdapter, 7); got != -1 {
		t.Errorf("expected -1, got %d", got)
	}
}

func TestGallery_Pages(t *testing.T) {
	items := []item{{ID: 1, Order: 1, Path: "a"}, {ID: 2, Order: 2, Path: "b"}, {ID: 3, Order: 3, Path: "c"}}
	g := NewGallery(GalleryConfig[item]{Items: items, PageSize: 2, Page: 1, Adapter: itemAdapter, Thumbnail: urlOf})

	if got := len(g.Cells()); got != 2 {
		t.Fatalf("expected 2 cells on page 1, got %d", got)
	}
	c := g.Controls()
	if !c.Visible || c.Total != 2 || c.Prev || !c.Next {
		t.Errorf("unexpected controls on page 1: %+v", c)
	}

	if !g.Next(context.Background()) {
		t.Fatal("expected Next to move")
	}
	cells := g.Cells()
	if len(cells) != 1 || cells[0].ID != 3 {
		t.Errorf("expected item 3 alone on page 2, got %+v", cells)
	}
	if g.Next(context.Background()) {
		t.Error("expected Next to stop at the last page")
	}
}

func TestGallery_ClampsRequestedPage(t *testing.T) {
	g := NewGallery(GalleryConfig[item]{Items: makeItems(5), PageSize: 2, Page: 9, Adapter: itemAdapter})
	if g.Page() != 3 {
		t.Errorf("expected page 3, got %d", g.Page())
	}
	g = NewGallery(GalleryConfig[item]{Items: makeItems(5), PageSize: 2, Page: -1, Adapter: itemAdapter})
	if g.Page() != 1 {
		t.Errorf("expected page 1, got %d", g.Page())
	}
}

func TestGallery_SinglePageHidesControls(t *testing.T) {
	g := NewGallery(GalleryConfig[item]{Items: makeItems(3), PageSize: 16, Adapter: itemAdapter})
	if g.Controls().Visible {
		t.Error("expected controls hidden for one page")
	}
	empty := NewGallery(GalleryConfig[item]{PageSize: 16, Adapter: itemAdapter})
	if empty.Controls().Visible || empty.Page() != 1 || len(empty.Cells()) != 0 {
		t.Errorf("unexpected empty gallery state: page=%d controls=%+v", empty.Page(), empty.Controls())
	}
}

func TestGallery_SkipsUnresolvableAssets(t *testing.T) {
	items := []item{{ID: 1, Path: "a"}, {ID: 2}, {ID: 3, Path: "c"}}
	g := NewGallery(GalleryConfig[item]{Items: items, PageSize: 10, Adapter: itemAdapter, Thumbnail: urlOf})

	cells := g.Cells()
	if len(cells) != 2 || cells[0].ID != 1 || cells[1].ID != 3 {
		t.Errorf("expected items 1 and 3, got %+v", cells)
	}
	if len(g.Visible()) != 3 {
		t.Errorf("expected Visible to keep all items, got %d", len(g.Visible()))
	}
}

func TestGallery_Captions(t *testing.T) {
	items := []item{{ID: 1, Path: "a"}}
	g := NewGallery(GalleryConfig[item]{Items: items, PageSize: 10, Adapter: itemAdapter, Thumbnail: urlOf})
	if got := g.Cells()[0].Caption; got != "item-1" {
		t.Errorf("expected default caption from name, got %q", got)
	}

	g = NewGallery(GalleryConfig[item]{Items: items, PageSize: 10, Adapter: itemAdapter, Thumbnail: urlOf, HideCaptions: true})
	if got := g.Cells()[0].Caption; got != "" {
		t.Errorf("expected no caption, got %q", got)
	}

	g = NewGallery(GalleryConfig[item]{
		Items: items, PageSize: 10, Adapter: itemAdapter, Thumbnail: urlOf,
		Caption: func(i item) string { return "#" + strconv.Itoa(i.ID) },
	})
	if got := g.Cells()[0].Caption; got != "#1" {
		t.Errorf("expected custom caption, got %q", got)
	}
}

func TestGallery_Jump(t *testing.T) {
	var changes []int
	g := NewGallery(GalleryConfig[item]{
		Items: makeItems(50), PageSize: 10, Page: 2, Adapter: itemAdapter,
		OnPageChange: func(_ context.Context, p int) { changes = append(changes, p) },
	})
	ctx := context.Background()

	for _, bad := range []string{"abc", "0", "6", "-1", ""} {
		if g.Jump(ctx, bad) {
			t.Errorf("expected %q to be rejected", bad)
		}
		if g.Controls().Input != "2" || g.Page() != 2 {
			t.Errorf("expected revert to page 2 after %q, got page=%d input=%q", bad, g.Page(), g.Controls().Input)
		}
	}

	if !g.Jump(ctx, " 5 ") {
		t.Fatal("expected jump to 5")
	}
	if g.Page() != 5 || g.Controls().Input != "5" {
		t.Errorf("expected page 5, got %d", g.Page())
	}
	if !g.First(ctx) || g.Page() != 1 {
		t.Errorf("expected First to reach page 1, got %d", g.Page())
	}
	if !g.Last(ctx) || g.Page() != 5 {
		t.Errorf("expected Last to reach page 5, got %d", g.Page())
	}
	if want := []int{5, 1, 5}; !slices.Equal(changes, want) {
		t.Errorf("expected page changes %v, got %v", want, changes)
	}
}

func TestGallery_ActivateCarriesPage(t *testing.T) {
	var got NavigationContext
	var activated item
	g := NewGallery(GalleryConfig[item]{
		Category: "CG", Parent: "Main", Items: makeItems(40), PageSize: 16, Page: 2, Adapter: itemAdapter,
		OnActivate: func(_ context.Context, it item, nav NavigationContext) {
			activated = it
			got = nav
		},
	})

	if !g.Activate(context.Background(), 20) {
		t.Fatal("expected activation")
	}
	if activated.ID != 20 {
		t.Errorf("expected item 20, got %d", activated.ID)
	}
	if got != (NavigationContext{Category: "CG", Parent: "Main", Page: 2}) {
		t.Errorf("unexpected navigation context: %+v", got)
	}
	if g.Activate(context.Background(), 999) {
		t.Error("expected unknown id to be ignored")
	}
}

type preloads struct{ calls [][]string }

func (p *preloads) Preload(_ context.Context, urls []string) {
	p.calls = append(p.calls, slices.Clone(urls))
}

func newDetail(items []item, page int, addr AddressBar, pre Preloader) *Detail[item] {
	return NewDetail(DetailConfig[item]{
		Collection:    items,
		Adapter:       itemAdapter,
		Nav:           NavigationContext{Category: "CG", Parent: "Main", Page: page},
		Image:         urlOf,
		Address:       addr,
		PathFor:       func(it item, nav NavigationContext) string { return "/cg/" + nav.Parent + "/" + strconv.Itoa(it.ID) },
		Preloader:     pre,
		PreloadRadius: DefaultPreloadRadius,
	})
}

func TestDetail_Boundaries(t *testing.T) {
	items := makeItems(4)
	d := newDetail(items, 1, nil, nil)
	ctx := context.Background()

	for i, it := range items {
		if err := d.Enter(ctx, it.ID); err != nil {
			t.Fatalf("Enter(%d): %v", it.ID, err)
		}
		_, hasPrev := d.Prev()
		_, hasNext := d.Next()
		if hasPrev != (i > 0) {
			t.Errorf("index %d: expected prev=%v, got %v", i, i > 0, hasPrev)
		}
		if hasNext != (i < len(items)-1) {
			t.Errorf("index %d: expected next=%v, got %v", i, i < len(items)-1, hasNext)
		}
	}

	if d.GoNext(ctx) {
		t.Error("expected GoNext to stop at the last item")
	}
	if d.Index() != 3 {
		t.Errorf("expected index 3, got %d", d.Index())
	}
	_ = d.Enter(ctx, 1)
	if d.GoPrev(ctx) || d.Key(ctx, KeyLeft) {
		t.Error("expected no movement before the first item")
	}
}

func TestDetail_EnterUnknown(t *testing.T) {
	d := newDetail(makeItems(3), 1, nil, nil)
	if err := d.Enter(context.Background(), 42); err != ErrItemNotInCollection {
		t.Errorf("expected ErrItemNotInCollection, got %v", err)
	}
	if d.Entered() || d.ImageURL() != "" {
		t.Error("expected no selection after failed Enter")
	}
}

func TestDetail_BackReturnsToOriginalPage(t *testing.T) {
	var back NavigationContext
	items := makeItems(60)
	d := NewDetail(DetailConfig[item]{
		Collection: items,
		Adapter:    itemAdapter,
		Nav:        NavigationContext{Category: "CG", Parent: "Main", Page: 2},
		OnBack:     func(_ context.Context, nav NavigationContext) { back = nav },
	})
	ctx := context.Background()

	if err := d.Enter(ctx, 17); err != nil {
		t.Fatal(err)
	}
	// Cross two page boundaries of a 16-item grid.
	for range 20 {
		d.GoNext(ctx)
	}
	for range 3 {
		d.Key(ctx, KeyLeft)
	}
	if d.Current().ID != 34 {
		t.Fatalf("expected item 34, got %d", d.Current().ID)
	}
	d.Back(ctx)
	if back.Page != 2 || back.Parent != "Main" {
		t.Errorf("expected back to page 2 of Main, got %+v", back)
	}
}

func TestDetail_ReplacesAddress(t *testing.T) {
	addr := &RecordingAddressBar{}
	d := newDetail(makeItems(3), 1, addr, nil)
	ctx := context.Background()

	_ = d.Enter(ctx, 2)
	d.Key(ctx, KeyRight)
	d.Key(ctx, KeyEscape)

	if want := []string{"/cg/Main/2", "/cg/Main/3"}; !slices.Equal(addr.Replaced, want) {
		t.Errorf("expected replaced %v, got %v", want, addr.Replaced)
	}
	if len(addr.Pushed) != 0 {
		t.Errorf("expected no pushes, got %v", addr.Pushed)
	}
}

func TestDetail_PreloadWindow(t *testing.T) {
	pre := &preloads{}
	items := makeItems(10)
	items[6].Path = ""
	d := newDetail(items, 1, nil, pre)

	_ = d.Enter(context.Background(), 5)
	if len(pre.calls) != 1 {
		t.Fatalf("expected one preload call, got %d", len(pre.calls))
	}
	var want []string
	for _, id := range []int{2, 3, 4, 6, 8} {
		want = append(want, urlOf(fmt.Sprintf("Assets/G/%d.png", id)))
	}
	if !slices.Equal(pre.calls[0], want) {
		t.Errorf("expected %v, got %v", want, pre.calls[0])
	}

	_ = d.Enter(context.Background(), 1)
	if got := len(pre.calls[1]); got != 3 {
		t.Errorf("expected 3 urls at the first item, got %d", got)
	}
}

func TestDetail_StaleImageLoad(t *testing.T) {
	d := newDetail(makeItems(3), 1, nil, nil)
	ctx := context.Background()

	_ = d.Enter(ctx, 1)
	if d.State() != Loading {
		t.Fatalf("expected loading, got %v", d.State())
	}
	d.GoNext(ctx)

	if d.ImageLoaded(1) {
		t.Error("expected completion for item 1 to be ignored")
	}
	if d.State() != Loading {
		t.Error("expected stale completion to leave the view loading")
	}
	if !d.ImageLoaded(2) || d.State() != Displayed {
		t.Error("expected item 2 to be displayed")
	}
	if d.ImageLoaded(2) {
		t.Error("expected duplicate completion to be ignored")
	}

	d.GoNext(ctx)
	if d.State() != Loading {
		t.Error("expected traversal to re-enter loading")
	}
}

func TestDetail_Modal(t *testing.T) {
	items := makeItems(2)
	items[1].Path = ""
	d := newDetail(items, 1, nil, nil)
	ctx := context.Background()

	_ = d.Enter(ctx, 1)
	if !d.OpenModal() || !d.ModalOpen() {
		t.Fatal("expected modal to open")
	}
	d.GoNext(ctx)
	if d.ModalOpen() {
		t.Error("expected traversal to close the modal")
	}
	if d.OpenModal() {
		t.Error("expected modal to stay closed without an image")
	}
	if d.CloseModal() {
		t.Error("expected CloseModal to report nothing to close")
	}
}
