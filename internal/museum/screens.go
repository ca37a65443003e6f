package museum

import (
	"context"
	"fmt"
	"html/template"

	"github.com/wgaamuseum/museum/pkg/catalog"
	"github.com/wgaamuseum/museum/pkg/i18n"
	"github.com/wgaamuseum/museum/pkg/view"
)

// screen is what the main panel currently shows. Screens are rebuilt on
// every navigation and discarded on the next one.
type screen interface {
	template() string
	model(p *Page) any
}

// activator is a screen with activatable cells.
type activator interface {
	activate(ctx context.Context, id int) bool
}

// pager is a screen with pagination controls.
type pager interface {
	turn(ctx context.Context, action string) bool
	jump(ctx context.Context, input string) bool
}

// traverser is a screen showing one item of a collection.
type traverser interface {
	goPrev(ctx context.Context) bool
	goNext(ctx context.Context) bool
	key(ctx context.Context, k view.Key) bool
	back(ctx context.Context)
	imageLoaded(id int) bool
	openModal(index int) bool
	closeModal() bool
	modalOpen() bool
}

// View models. Every model carries the translator so templates can look up
// labels with {{.T.T "key"}}.

type shellView struct {
	Title   string
	Lang    string
	LiveURL string
	Script  string
	Region  string
}

type pageView struct {
	T       *i18n.Translator
	Title   string
	Region  string
	Regions []string
	Sidebar sidebarView
	Main    template.HTML
}

type sidebarView struct {
	T           *i18n.Translator
	Search      string
	Section     string
	CGGroups    []navGroup
	MangaGroups []navGroup
	EmojiPacks  []navLink
}

type navGroup struct {
	Name  string
	Href  string
	Open  bool
	Links []navLink
}

type navLink struct {
	Name   string
	Href   string
	Active bool
}

type homeView struct {
	T           *i18n.Translator
	Landing     template.HTML
	Versions    []catalog.VersionRow
	VersionsErr bool
}

type messageView struct {
	T     *i18n.Translator
	Text  string
	Error bool
}

type galleryView struct {
	T        *i18n.Translator
	Heading  string
	Cells    []view.Cell
	Controls view.Controls
	Dense    bool
	Filters  []filterView
	Empty    string
}

type filterView struct {
	Field   string
	Label   string
	Search  bool
	Value   string
	Options []string
}

type chaptersView struct {
	T        *i18n.Translator
	Heading  string
	Chapters []chapterCell
}

type chapterCell struct {
	ID     int
	Name   string
	Thumb  string
	Active bool
}

// itemChrome is the part of every single-item view that comes from the
// detail state machine.
type itemChrome struct {
	ID      int
	Image   string
	Loading bool
	HasPrev bool
	HasNext bool
	Modal   bool
}

type detailView struct {
	T *i18n.Translator
	itemChrome
	Path        string
	Title       string
	Description string
}

type overlayView struct {
	Gallery galleryView
	Card    cardView
}

type cardView struct {
	T *i18n.Translator
	itemChrome
	Heading string
	Name    string
	Stars   int
	Quote   string
	Lines   []cardLine
}

type cardLine struct {
	Label  string
	Text   string
	Italic bool
}

type memoryView struct {
	T *i18n.Translator
	itemChrome
	Path          string
	Name          string
	Stars         int
	Description   string
	Artist        string
	Set2          string
	Set4          string
	Illustrations []string
	Backstory     []storyEntry
	ModalImage    string
}

type storyEntry struct {
	Title string
	Text  string
}

// Simple screens.

type blankScreen struct{}

func (blankScreen) template() string { return "blank" }
func (blankScreen) model(*Page) any  { return nil }

type messageScreen struct {
	key   string
	args  []any
	error bool
}

func (s messageScreen) template() string { return "message" }

func (s messageScreen) model(p *Page) any {
	return messageView{T: p.tr, Text: p.tr.T(s.key, s.args...), Error: s.error}
}

type homeScreen struct {
	versions catalog.Versions
	err      error
}

func (homeScreen) template() string { return "home" }

func (s homeScreen) model(p *Page) any {
	v := homeView{T: p.tr, Landing: p.m.landing, VersionsErr: s.err != nil}
	if s.err == nil {
		v.Versions = s.versions.Rows()
	}
	return v
}

// gridScreen is a paginated gallery.
type gridScreen[T any] struct {
	gallery *view.Gallery[T]
	dense   bool
	filters []filterView
	empty   string
}

func (s *gridScreen[T]) template() string  { return "gallery" }
func (s *gridScreen[T]) model(p *Page) any { return s.view(p) }

func (s *gridScreen[T]) view(p *Page) galleryView {
	g := s.gallery
	v := galleryView{
		T:        p.tr,
		Heading:  heading(p, g.Category(), g.Parent()),
		Cells:    g.Cells(),
		Controls: g.Controls(),
		Dense:    s.dense,
		Filters:  s.filters,
	}
	if len(g.Items()) == 0 && s.empty != "" {
		v.Empty = p.tr.T(s.empty)
	}
	return v
}

func (s *gridScreen[T]) activate(ctx context.Context, id int) bool {
	return s.gallery.Activate(ctx, id)
}

func (s *gridScreen[T]) turn(ctx context.Context, action string) bool {
	switch action {
	case "first":
		return s.gallery.First(ctx)
	case "prev":
		return s.gallery.Prev(ctx)
	case "next":
		return s.gallery.Next(ctx)
	case "last":
		return s.gallery.Last(ctx)
	}
	return false
}

func (s *gridScreen[T]) jump(ctx context.Context, input string) bool {
	return s.gallery.Jump(ctx, input)
}

// chapterScreen is the chapter grid of a comic series. Chapters without
// pages are listed but cannot be opened.
type chapterScreen struct {
	heading  string
	chapters []chapterCell
	open     func(ctx context.Context, id int)
}

func (s *chapterScreen) template() string { return "chapters" }

func (s *chapterScreen) model(p *Page) any {
	return chaptersView{T: p.tr, Heading: s.heading, Chapters: s.chapters}
}

func (s *chapterScreen) activate(ctx context.Context, id int) bool {
	for _, c := range s.chapters {
		if c.ID == id && c.Active {
			s.open(ctx, id)
			return true
		}
	}
	return false
}

// detailNav implements traverser over a view.Detail.
type detailNav[T any] struct {
	detail  *view.Detail[T]
	adapter view.Adapter[T]
}

func (n detailNav[T]) goPrev(ctx context.Context) bool          { return n.detail.GoPrev(ctx) }
func (n detailNav[T]) goNext(ctx context.Context) bool          { return n.detail.GoNext(ctx) }
func (n detailNav[T]) key(ctx context.Context, k view.Key) bool { return n.detail.Key(ctx, k) }
func (n detailNav[T]) back(ctx context.Context)                 { n.detail.Back(ctx) }
func (n detailNav[T]) imageLoaded(id int) bool                  { return n.detail.ImageLoaded(id) }
func (n detailNav[T]) openModal(int) bool                       { return n.detail.OpenModal() }
func (n detailNav[T]) closeModal() bool                         { return n.detail.CloseModal() }
func (n detailNav[T]) modalOpen() bool                          { return n.detail.ModalOpen() }

func (n detailNav[T]) chrome() itemChrome {
	d := n.detail
	_, hasPrev := d.Prev()
	_, hasNext := d.Next()
	return itemChrome{
		ID:      n.adapter.ID(d.Current()),
		Image:   d.ImageURL(),
		Loading: d.State() == view.Loading,
		HasPrev: hasPrev,
		HasNext: hasNext,
		Modal:   d.ModalOpen(),
	}
}

// position renders "Category/Parent (i / n)".
func (n detailNav[T]) position(p *Page) string {
	nav := n.detail.Nav()
	return fmt.Sprintf("%s (%d / %d)", heading(p, nav.Category, nav.Parent), n.detail.Index()+1, n.detail.Len())
}

// detailScreen shows one image full width. A nil title hides the title and
// description lines.
type detailScreen[T any] struct {
	detailNav[T]
	title func(T) string
	desc  func(T) string
}

func (s *detailScreen[T]) template() string { return "detail" }

func (s *detailScreen[T]) model(p *Page) any {
	item := s.detail.Current()
	v := detailView{T: p.tr, itemChrome: s.chrome(), Path: s.position(p)}
	if s.title != nil {
		v.Title = s.title(item)
	}
	if s.desc != nil {
		v.Description = s.desc(item)
	}
	return v
}

// overlayScreen shows one item as a card above the gallery page it was
// opened from.
type overlayScreen[T any] struct {
	detailNav[T]
	grid *gridScreen[T]
	card func(item T) cardView
}

func (s *overlayScreen[T]) template() string { return "overlay" }

func (s *overlayScreen[T]) model(p *Page) any {
	c := s.card(s.detail.Current())
	c.T = p.tr
	c.itemChrome = s.chrome()
	c.Heading = fmt.Sprintf("%s (%d / %d)", p.tr.T(s.detail.Nav().Category), s.detail.Index()+1, s.detail.Len())
	return overlayView{Gallery: s.grid.view(p), Card: c}
}

// memoryScreen shows one memory set. Its modal shows one of the set's
// illustrations instead of the icon.
type memoryScreen struct {
	detailNav[catalog.EquipSuit]
	build func(suit catalog.EquipSuit) memoryView
	modal string
}

func (s *memoryScreen) template() string { return "memory" }

func (s *memoryScreen) model(p *Page) any {
	v := s.build(s.detail.Current())
	v.T = p.tr
	v.itemChrome = s.chrome()
	v.Modal = s.modal != ""
	v.ModalImage = s.modal
	return v
}

func (s *memoryScreen) moved(ok bool) bool {
	if ok {
		s.modal = ""
	}
	return ok
}

func (s *memoryScreen) goPrev(ctx context.Context) bool {
	return s.moved(s.detailNav.goPrev(ctx))
}

func (s *memoryScreen) goNext(ctx context.Context) bool {
	return s.moved(s.detailNav.goNext(ctx))
}

func (s *memoryScreen) key(ctx context.Context, k view.Key) bool {
	return s.moved(s.detailNav.key(ctx, k))
}

func (s *memoryScreen) openModal(index int) bool {
	images := s.build(s.detail.Current()).Illustrations
	if index < 0 || index >= len(images) || images[index] == "" {
		return false
	}
	s.modal = images[index]
	return true
}

func (s *memoryScreen) closeModal() bool {
	was := s.modal != ""
	s.modal = ""
	return was
}

func (s *memoryScreen) modalOpen() bool { return s.modal != "" }

// heading renders "Category/Parent" with a translated category.
func heading(p *Page, category, parent string) string {
	h := p.tr.T(category)
	if parent != "" {
		h += "/" + parent
	}
	return h
}
