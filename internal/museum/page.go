package museum

import (
	"context"
	"errors"
	"strconv"

	"github.com/wgaamuseum/museum/pkg/assets"
	"github.com/wgaamuseum/museum/pkg/catalog"
	"github.com/wgaamuseum/museum/pkg/core"
	"github.com/wgaamuseum/museum/pkg/hashroute"
	"github.com/wgaamuseum/museum/pkg/i18n"
	"github.com/wgaamuseum/museum/pkg/logging"
	"github.com/wgaamuseum/museum/pkg/pageindex"
	"github.com/wgaamuseum/museum/pkg/view"
)

var (
	// ErrUnknownEvent is returned for a client event the page does not
	// handle.
	ErrUnknownEvent = errors.New("unknown event")

	// ErrUnknownRegion is returned when switching to a region the data
	// repository does not publish.
	ErrUnknownRegion = errors.New("unknown region")

	// ErrUnknownFilter is returned for a filter field no gallery has.
	ErrUnknownFilter = errors.New("unknown filter")
)

// Page is the component of one browser tab. All of its methods run on the
// session goroutine.
type Page struct {
	m      *Museum
	logger logging.Logger
	tr     *i18n.Translator

	region  string
	snap    *catalog.Snapshot
	loadErr error

	router    *hashroute.Router
	address   view.AddressBar
	preloader view.Preloader

	// path is the address the browser shows. pushed is a path sent with
	// push_address whose echo navigate must not re-dispatch.
	path   string
	pushed string
	screen screen

	search       string
	memoryDesc   string
	memorySearch string
	character    string
}

func newPage(m *Museum) *Page {
	return &Page{
		m:         m,
		logger:    m.logger,
		tr:        m.bundle.Translator(m.locale),
		region:    m.region,
		snap:      catalog.Empty(m.region),
		address:   &view.RecordingAddressBar{},
		preloader: view.NopPreloader{},
		path:      "/",
	}
}

// Name implements core.Component.
func (p *Page) Name() string { return "museum" }

// Mount loads the requested region and dispatches the initial path. A
// region that fails to load renders an error panel instead of failing the
// connection.
func (p *Page) Mount(ctx context.Context, params core.Params) error {
	if l := logging.LoggerFromContext(ctx); l != nil {
		p.logger = l
	}
	p.tr = p.m.bundle.Translator(params.GetDefault("locale", p.m.locale))

	if socket := core.SocketFromContext(ctx); socket != nil {
		p.address = socketAddress{socket: socket}
		p.preloader = socketPreloader{socket: socket, observer: p.m.observer}
	}
	p.address = trackedAddress{current: &p.path, bar: p.address}

	opts := []hashroute.Option{
		hashroute.WithLogger(p.logger),
		hashroute.WithNotFound(p.notFound),
	}
	if p.m.observer != nil {
		opts = append(opts, hashroute.WithObserver(p.m.observer))
	}
	p.router = NewRouter(p.handlers(), opts...)

	region := params.GetDefault("region", p.m.region)
	if !catalog.ValidRegion(region) {
		region = p.m.region
	}
	p.loadRegion(ctx, region)
	p.navigate(ctx, params.GetDefault("path", "/"))
	return nil
}

// Terminate implements core.Component.
func (p *Page) Terminate(ctx context.Context, reason core.TerminateReason) error {
	p.logger.Debug("page closed", logging.String("path", p.path), logging.String("reason", reason.String()))
	return nil
}

// Path returns the address the browser currently shows.
func (p *Page) Path() string { return p.path }

// Region returns the region being browsed.
func (p *Page) Region() string { return p.region }

func (p *Page) loadRegion(ctx context.Context, region string) {
	snap, err := p.m.store.Get(ctx, region)
	p.region = region
	if err != nil {
		p.logger.Warn("region unavailable", logging.String("region", region), logging.Err(err))
		p.loadErr = err
		p.snap = catalog.Empty(region)
		return
	}
	p.loadErr = nil
	p.snap = snap
}

// navigate dispatches path. A path without a matching entity leaves the
// panel blank.
func (p *Page) navigate(ctx context.Context, path string) {
	path = hashroute.Normalize(path)
	if p.pushed != "" && path == p.pushed {
		p.pushed = ""
		if path == p.path {
			return
		}
	}
	p.path = path
	p.screen = blankScreen{}
	p.router.Dispatch(ctx, path)
}

// push moves to path and asks the browser to show it. The browser echoes
// the change back as a navigate event, which is then skipped.
func (p *Page) push(ctx context.Context, path string) {
	p.navigate(ctx, path)
	p.pushed = p.path
	p.address.Push(p.path)
}

func (p *Page) notFound(ctx context.Context, path string) {
	p.screen = messageScreen{key: "notFound", error: true}
}

func (p *Page) handlers() map[string]hashroute.Handler {
	return map[string]hashroute.Handler{
		RouteHome:             p.routeHome,
		RouteCGGroup:          p.routeCGGroup,
		RouteCGDetail:         p.routeCGDetail,
		RouteMangaGroup:       p.routeMangaGroup,
		RouteMangaChapter:     p.routeMangaChapter,
		RouteMangaDetail:      p.routeMangaDetail,
		RouteEmojiDetail:      p.routeEmojiDetail,
		RouteEmojiPack:        p.routeEmojiPack,
		RouteEmoji:            p.routeEmoji,
		RouteSprites:          p.routeSprites,
		RouteSpriteDetail:     p.routeSpriteDetail,
		RouteMemory:           p.routeMemory,
		RouteMemoryDetail:     p.routeMemoryDetail,
		RouteConstructDetail:  p.routeConstructDetail,
		RouteWeaponDetail:     p.routeWeaponDetail,
		RouteConstructGallery: p.routeConstructGallery,
		RouteWeaponGallery:    p.routeWeaponGallery,
	}
}

// enter builds a detail view with the page's address bar and preloader and
// selects id. It returns nil when the collection does not hold id.
func enter[T any](ctx context.Context, p *Page, cfg view.DetailConfig[T], id int) *view.Detail[T] {
	cfg.Address = p.address
	cfg.Preloader = p.preloader
	cfg.PreloadRadius = p.m.preloadRadius
	d := view.NewDetail(cfg)
	if err := d.Enter(ctx, id); err != nil {
		p.logger.Debug("detail not entered", logging.Int("id", id), logging.Err(err))
		return nil
	}
	return d
}

// pageParam reads an optional page segment. Absent or malformed values
// mean page 1.
func pageParam(params hashroute.Params, name string) int {
	page, _ := params.Int(name, 1)
	return page
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (p *Page) routeHome(ctx context.Context, _ hashroute.Params) {
	versions, err := p.m.versions(ctx)
	if err != nil {
		p.logger.Debug("versions unavailable", logging.Err(err))
	}
	p.screen = homeScreen{versions: versions, err: err}
}

// Illustrations.

func (p *Page) routeCGGroup(ctx context.Context, params hashroute.Params) {
	group, ok := p.snap.CGGroupByName(params.Get("groupName"))
	if !ok {
		return
	}
	p.screen = p.cgGrid(group, p.snap.CGsInGroup(group.ID), 1)
}

func (p *Page) routeCGDetail(ctx context.Context, params hashroute.Params) {
	group, ok := p.snap.CGGroupByName(params.Get("groupName"))
	if !ok {
		return
	}
	id, ok := params.Int("cgId", 0)
	if !ok {
		return
	}
	items := p.snap.CGsInGroup(group.ID)
	i := view.IndexOf(items, cgAdapter, id)
	if i < 0 {
		return
	}
	p.showCG(ctx, group, items, id, view.NavigationContext{
		Category: CategoryCG,
		Parent:   group.Name,
		Page:     pageindex.PageOf(i, PageSizeCG),
	})
}

func (p *Page) cgGrid(group catalog.CGGroup, items []catalog.CGDetail, page int) *gridScreen[catalog.CGDetail] {
	return &gridScreen[catalog.CGDetail]{gallery: view.NewGallery(view.GalleryConfig[catalog.CGDetail]{
		Category:  CategoryCG,
		Parent:    group.Name,
		Items:     items,
		PageSize:  PageSizeCG,
		Page:      page,
		Adapter:   cgAdapter,
		Thumbnail: p.m.resolver(assets.Thumbnail),
		Caption: func(d catalog.CGDetail) string {
			return firstNonEmpty(d.Name, group.Name, p.tr.T("unknown"))
		},
		OnActivate: func(ctx context.Context, d catalog.CGDetail, nav view.NavigationContext) {
			p.showCG(ctx, group, items, d.ID, nav)
		},
	})}
}

func (p *Page) showCG(ctx context.Context, group catalog.CGGroup, items []catalog.CGDetail, id int, nav view.NavigationContext) {
	d := enter(ctx, p, view.DetailConfig[catalog.CGDetail]{
		Collection: items,
		Adapter:    cgAdapter,
		Nav:        nav,
		Image:      p.m.resolver(assets.Full),
		PathFor: func(d catalog.CGDetail, _ view.NavigationContext) string {
			return hashroute.Join("cg", group.Name, strconv.Itoa(d.ID))
		},
		OnBack: func(ctx context.Context, nav view.NavigationContext) {
			p.screen = p.cgGrid(group, items, nav.Page)
			p.address.Replace(hashroute.Join("cg", group.Name))
		},
	}, id)
	if d == nil {
		return
	}
	p.screen = &detailScreen[catalog.CGDetail]{
		detailNav: detailNav[catalog.CGDetail]{detail: d, adapter: cgAdapter},
		title: func(d catalog.CGDetail) string {
			return firstNonEmpty(d.Name, group.Name, p.tr.T("unknown"))
		},
		desc: func(d catalog.CGDetail) string { return p.m.clean(d.Desc) },
	}
}

// Comics.

func (p *Page) comicChapter(params hashroute.Params) (catalog.ComicGroup, catalog.ComicChapter, bool) {
	group, ok := p.snap.ComicGroupByName(params.Get("groupName"))
	if !ok {
		return group, catalog.ComicChapter{}, false
	}
	chapter, ok := p.snap.ChapterByName(group.ID, params.Get("chapterName"))
	return group, chapter, ok
}

func (p *Page) routeMangaGroup(ctx context.Context, params hashroute.Params) {
	group, ok := p.snap.ComicGroupByName(params.Get("groupName"))
	if !ok {
		return
	}
	thumb := p.m.resolver(assets.Thumbnail)
	chapters := p.snap.ChaptersInGroup(group.ID)
	cells := make([]chapterCell, 0, len(chapters))
	for _, c := range chapters {
		cell := chapterCell{ID: c.ID, Name: c.Name}
		if pages := p.snap.PagesInChapter(c.ID); len(pages) > 0 {
			cell.Thumb = thumb(pages[0].Bg)
			cell.Active = true
		}
		cells = append(cells, cell)
	}
	p.screen = &chapterScreen{
		heading:  heading(p, "mangaSection", group.Name),
		chapters: cells,
		open: func(ctx context.Context, id int) {
			for _, c := range chapters {
				if c.ID == id {
					p.push(ctx, hashroute.Join("manga", group.Name, c.Name))
					return
				}
			}
		},
	}
}

func (p *Page) routeMangaChapter(ctx context.Context, params hashroute.Params) {
	group, chapter, ok := p.comicChapter(params)
	if !ok {
		return
	}
	p.screen = p.comicGrid(group, chapter, p.snap.PagesInChapter(chapter.ID), 1)
}

func (p *Page) routeMangaDetail(ctx context.Context, params hashroute.Params) {
	group, chapter, ok := p.comicChapter(params)
	if !ok {
		return
	}
	id, ok := params.Int("mangaId", 0)
	if !ok {
		return
	}
	items := p.snap.PagesInChapter(chapter.ID)
	i := view.IndexOf(items, comicAdapter, id)
	if i < 0 {
		return
	}
	p.showComic(ctx, group, chapter, items, id, view.NavigationContext{
		Category: CategoryManga,
		Parent:   group.Name + "/" + chapter.Name,
		Page:     pageindex.PageOf(i, PageSizeComic),
	})
}

func (p *Page) comicGrid(group catalog.ComicGroup, chapter catalog.ComicChapter, items []catalog.ComicDetail, page int) *gridScreen[catalog.ComicDetail] {
	return &gridScreen[catalog.ComicDetail]{
		empty: "noChapterPages",
		gallery: view.NewGallery(view.GalleryConfig[catalog.ComicDetail]{
			Category:     CategoryManga,
			Parent:       group.Name + "/" + chapter.Name,
			Items:        items,
			PageSize:     PageSizeComic,
			Page:         page,
			Adapter:      comicAdapter,
			Thumbnail:    p.m.resolver(assets.Thumbnail),
			HideCaptions: true,
			OnActivate: func(ctx context.Context, d catalog.ComicDetail, nav view.NavigationContext) {
				p.showComic(ctx, group, chapter, items, d.ID, nav)
			},
		}),
	}
}

func (p *Page) showComic(ctx context.Context, group catalog.ComicGroup, chapter catalog.ComicChapter, items []catalog.ComicDetail, id int, nav view.NavigationContext) {
	d := enter(ctx, p, view.DetailConfig[catalog.ComicDetail]{
		Collection: items,
		Adapter:    comicAdapter,
		Nav:        nav,
		Image:      p.m.resolver(assets.Full),
		PathFor: func(d catalog.ComicDetail, _ view.NavigationContext) string {
			return hashroute.Join("manga", group.Name, chapter.Name, strconv.Itoa(d.ID))
		},
		OnBack: func(ctx context.Context, nav view.NavigationContext) {
			p.screen = p.comicGrid(group, chapter, items, nav.Page)
			p.address.Replace(hashroute.Join("manga", group.Name, chapter.Name))
		},
	}, id)
	if d == nil {
		return
	}
	p.screen = &detailScreen[catalog.ComicDetail]{
		detailNav: detailNav[catalog.ComicDetail]{detail: d, adapter: comicAdapter},
	}
}

// Stickers. Pack 0 holds the stickers that belong to no pack.

// emojiPath is the gallery address of pack at page. Unpacked pages past
// the first live under pack 0 because "/emoji/:page?" only matches "/emoji".
func emojiPath(packID, page int) string {
	switch {
	case page > 1:
		return hashroute.Join("emoji", strconv.Itoa(packID), strconv.Itoa(page))
	case packID == 0:
		return "/emoji"
	default:
		return hashroute.Join("emoji", strconv.Itoa(packID))
	}
}

// emojiPack returns the stickers and display name of a pack.
func (p *Page) emojiPack(packID int) ([]catalog.Emoji, string, bool) {
	if packID == 0 {
		return p.snap.EmojisInPack(0), "", true
	}
	pack, ok := p.snap.EmojiPackByID(packID)
	if !ok {
		return nil, "", false
	}
	return p.snap.EmojisInPack(pack.ID), pack.Name, true
}

func (p *Page) routeEmoji(ctx context.Context, params hashroute.Params) {
	p.showEmojis(0, pageParam(params, "page"))
}

func (p *Page) routeEmojiPack(ctx context.Context, params hashroute.Params) {
	packID, ok := params.Int("packId", 0)
	if !ok {
		return
	}
	p.showEmojis(packID, pageParam(params, "page"))
}

// routeEmojiDetail also serves pack pages: "/emoji/:packId/:emojiId" is
// registered first and shadows "/emoji/:packId/:page?", so a second segment
// naming no sticker of the pack is read as a page number.
func (p *Page) routeEmojiDetail(ctx context.Context, params hashroute.Params) {
	packID, ok := params.Int("packId", 0)
	if !ok {
		return
	}
	id, ok := params.Int("emojiId", 0)
	if !ok {
		return
	}
	items, name, ok := p.emojiPack(packID)
	if !ok {
		return
	}
	i := view.IndexOf(items, emojiAdapter, id)
	if i < 0 {
		p.showEmojis(packID, id)
		return
	}
	p.showEmoji(ctx, packID, items, id, view.NavigationContext{
		Category: CategoryEmoji,
		Parent:   name,
		Page:     pageindex.PageOf(i, PageSizeEmoji),
	})
}

func (p *Page) showEmojis(packID, page int) {
	items, name, ok := p.emojiPack(packID)
	if !ok {
		return
	}
	p.screen = p.emojiGrid(packID, name, items, page)
}

func (p *Page) emojiGrid(packID int, name string, items []catalog.Emoji, page int) *gridScreen[catalog.Emoji] {
	return &gridScreen[catalog.Emoji]{
		dense: true,
		gallery: view.NewGallery(view.GalleryConfig[catalog.Emoji]{
			Category:  CategoryEmoji,
			Parent:    name,
			Items:     items,
			PageSize:  PageSizeEmoji,
			Page:      page,
			Adapter:   emojiAdapter,
			Thumbnail: p.m.resolver(assets.Raw),
			Caption:   func(e catalog.Emoji) string { return p.m.clean(e.ConnotationDesc) },
			OnActivate: func(ctx context.Context, e catalog.Emoji, nav view.NavigationContext) {
				p.showEmoji(ctx, packID, items, e.ID, nav)
			},
			OnPageChange: func(ctx context.Context, page int) {
				p.address.Replace(emojiPath(packID, page))
			},
		}),
	}
}

func (p *Page) showEmoji(ctx context.Context, packID int, items []catalog.Emoji, id int, nav view.NavigationContext) {
	d := enter(ctx, p, view.DetailConfig[catalog.Emoji]{
		Collection: items,
		Adapter:    emojiAdapter,
		Nav:        nav,
		Image:      p.m.resolver(assets.Raw),
		PathFor: func(e catalog.Emoji, _ view.NavigationContext) string {
			return hashroute.Join("emoji", strconv.Itoa(packID), strconv.Itoa(e.ID))
		},
		OnBack: func(ctx context.Context, nav view.NavigationContext) {
			p.screen = p.emojiGrid(packID, nav.Parent, items, nav.Page)
			p.address.Replace(emojiPath(packID, nav.Page))
		},
	}, id)
	if d == nil {
		return
	}
	p.screen = &overlayScreen[catalog.Emoji]{
		detailNav: detailNav[catalog.Emoji]{detail: d, adapter: emojiAdapter},
		grid:      p.emojiGrid(packID, nav.Parent, items, nav.Page),
		card: func(e catalog.Emoji) cardView {
			return cardView{
				Name: p.m.clean(e.ConnotationDesc),
				Lines: []cardLine{
					{Text: p.m.clean(e.WorldDesc), Italic: true},
					{Text: p.m.clean(e.Description)},
				},
			}
		},
	}
}

// Story portraits.

func (p *Page) routeSprites(ctx context.Context, _ hashroute.Params) {
	p.screen = p.spriteGrid(p.snap.Sprites(), 1)
}

func (p *Page) routeSpriteDetail(ctx context.Context, params hashroute.Params) {
	id, ok := params.Int("spriteId", 0)
	if !ok {
		return
	}
	items := p.snap.Sprites()
	i := view.IndexOf(items, spriteAdapter, id)
	if i < 0 {
		return
	}
	p.showSprite(ctx, items, id, view.NavigationContext{
		Category: CategorySprite,
		Page:     pageindex.PageOf(i, PageSizeSprite),
	})
}

func (p *Page) spriteGrid(items []catalog.StorySprite, page int) *gridScreen[catalog.StorySprite] {
	return &gridScreen[catalog.StorySprite]{gallery: view.NewGallery(view.GalleryConfig[catalog.StorySprite]{
		Category:  CategorySprite,
		Items:     items,
		PageSize:  PageSizeSprite,
		Page:      page,
		Adapter:   spriteAdapter,
		Thumbnail: p.m.resolver(assets.Raw),
		OnActivate: func(ctx context.Context, s catalog.StorySprite, nav view.NavigationContext) {
			p.showSprite(ctx, items, s.RoleID, nav)
		},
	})}
}

func (p *Page) showSprite(ctx context.Context, items []catalog.StorySprite, id int, nav view.NavigationContext) {
	d := enter(ctx, p, view.DetailConfig[catalog.StorySprite]{
		Collection: items,
		Adapter:    spriteAdapter,
		Nav:        nav,
		Image:      p.m.resolver(assets.Raw),
		PathFor: func(s catalog.StorySprite, _ view.NavigationContext) string {
			return hashroute.Join("story-sprite", strconv.Itoa(s.RoleID))
		},
		OnBack: func(ctx context.Context, nav view.NavigationContext) {
			p.screen = p.spriteGrid(items, nav.Page)
			p.address.Replace(RouteSprites)
		},
	}, id)
	if d == nil {
		return
	}
	p.screen = &overlayScreen[catalog.StorySprite]{
		detailNav: detailNav[catalog.StorySprite]{detail: d, adapter: spriteAdapter},
		grid:      p.spriteGrid(items, nav.Page),
		card:      func(s catalog.StorySprite) cardView { return cardView{Name: s.Name} },
	}
}

// Memories.

var memoryDetailAdapter = view.AdapterFuncs[catalog.EquipSuit]{
	GetID:        memoryAdapter.GetID,
	GetOrder:     memoryAdapter.GetOrder,
	GetParentKey: memoryAdapter.GetParentKey,
	GetAssetPath: func(m catalog.EquipSuit) string { return m.ClearIconPath },
	GetName:      memoryAdapter.GetName,
}

func (p *Page) routeMemory(ctx context.Context, _ hashroute.Params) {
	p.screen = p.memoryGrid(1)
}

func (p *Page) routeMemoryDetail(ctx context.Context, params hashroute.Params) {
	id, ok := params.Int("memoryId", 0)
	if !ok {
		return
	}
	if _, ok := p.snap.MemoryByID(id); !ok {
		return
	}
	items := p.snap.Memories(p.memoryDesc, p.memorySearch)
	i := view.IndexOf(items, memoryAdapter, id)
	if i < 0 {
		p.memoryDesc, p.memorySearch = "", ""
		items = p.snap.Memories("", "")
		i = view.IndexOf(items, memoryAdapter, id)
	}
	p.showMemory(ctx, items, id, view.NavigationContext{
		Category: CategoryMemory,
		Page:     pageindex.PageOf(i, PageSizeMemory),
	})
}

func (p *Page) memoryGrid(page int) *gridScreen[catalog.EquipSuit] {
	items := p.snap.Memories(p.memoryDesc, p.memorySearch)
	return &gridScreen[catalog.EquipSuit]{
		filters: []filterView{
			{Field: "description", Label: p.tr.T("all"), Value: p.memoryDesc, Options: p.snap.MemoryDescriptions()},
			{Field: "name", Label: p.tr.T("search"), Value: p.memorySearch, Search: true},
		},
		gallery: view.NewGallery(view.GalleryConfig[catalog.EquipSuit]{
			Category:  CategoryMemory,
			Items:     items,
			PageSize:  PageSizeMemory,
			Page:      page,
			Adapter:   memoryAdapter,
			Thumbnail: p.m.resolver(assets.Raw),
			OnActivate: func(ctx context.Context, m catalog.EquipSuit, nav view.NavigationContext) {
				p.showMemory(ctx, items, m.ID, nav)
			},
		}),
	}
}

func (p *Page) showMemory(ctx context.Context, items []catalog.EquipSuit, id int, nav view.NavigationContext) {
	d := enter(ctx, p, view.DetailConfig[catalog.EquipSuit]{
		Collection: items,
		Adapter:    memoryDetailAdapter,
		Nav:        nav,
		Image:      p.m.resolver(assets.Raw),
		PathFor: func(m catalog.EquipSuit, _ view.NavigationContext) string {
			return hashroute.Join("memory", strconv.Itoa(m.ID))
		},
		OnBack: func(ctx context.Context, nav view.NavigationContext) {
			p.screen = p.memoryGrid(nav.Page)
			p.address.Replace(RouteMemory)
		},
	}, id)
	if d == nil {
		return
	}
	p.screen = &memoryScreen{
		detailNav: detailNav[catalog.EquipSuit]{detail: d, adapter: memoryDetailAdapter},
		build:     p.memoryView,
	}
}

// memoryView collects a set's pieces: the quality and painter of its first
// piece, up to three illustrations and the ordered backstory.
func (p *Page) memoryView(suit catalog.EquipSuit) memoryView {
	raw := p.m.resolver(assets.Raw)
	v := memoryView{
		Path:        "memory/" + suit.Name,
		Name:        suit.Name,
		Description: suit.Description,
		Artist:      "N/A",
		Set2:        "N/A",
		Set4:        "N/A",
	}
	if len(suit.EquipIDs) > 0 {
		if e, ok := p.snap.EquipByID(suit.EquipIDs[0]); ok {
			v.Stars = e.Quality
		}
		if r, ok := p.snap.EquipResByID(suit.EquipIDs[0]); ok && r.PainterName != "" {
			v.Artist = r.PainterName
		}
	}
	if len(suit.SkillDescription) > 0 && suit.SkillDescription[0] != "" {
		v.Set2 = p.m.clean(suit.SkillDescription[0])
	}
	if len(suit.SkillDescription) > 1 && suit.SkillDescription[1] != "" {
		v.Set4 = p.m.clean(suit.SkillDescription[1])
	}
	for i, id := range suit.EquipIDs {
		if i == 3 {
			break
		}
		url := ""
		if r, ok := p.snap.EquipResByID(id); ok {
			url = raw(r.LiHuiPath)
		}
		v.Illustrations = append(v.Illustrations, url)
	}
	for _, a := range p.snap.Backstory(suit.ID) {
		v.Backstory = append(v.Backstory, storyEntry{Title: p.m.clean(a.Title), Text: p.m.clean(a.Text)})
	}
	return v
}

// Coatings.

// coatingPath is the gallery address of a coating kind at page.
func coatingPath(kind string, page int) string {
	if page > 1 {
		return hashroute.Join("coating", kind, strconv.Itoa(page))
	}
	return hashroute.Join("coating", kind)
}

func (p *Page) coatingCard(name string, quality int, description, world string) cardView {
	return cardView{
		Name:  name,
		Stars: quality,
		Quote: p.m.clean(description),
		Lines: []cardLine{{Label: p.tr.T("worldDescription"), Text: p.m.clean(world)}},
	}
}

func (p *Page) routeConstructGallery(ctx context.Context, params hashroute.Params) {
	p.screen = p.constructGrid(pageParam(params, "page"))
}

// routeConstructDetail reads an id that names no coating as a page
// number, since it shadows "/coating/construct/:page?".
func (p *Page) routeConstructDetail(ctx context.Context, params hashroute.Params) {
	id, ok := params.Int("id", 0)
	if !ok {
		return
	}
	items := p.snap.ConstructCoatings(p.character)
	i := view.IndexOf(items, fashionAdapter, id)
	if i < 0 && p.character != "" {
		all := p.snap.ConstructCoatings("")
		if j := view.IndexOf(all, fashionAdapter, id); j >= 0 {
			p.character, items, i = "", all, j
		}
	}
	if i < 0 {
		p.screen = p.constructGrid(id)
		return
	}
	p.showConstruct(ctx, items, id, view.NavigationContext{
		Category: CategoryConstructCoating,
		Page:     pageindex.PageOf(i, PageSizeCoating),
	})
}

func (p *Page) constructGrid(page int) *gridScreen[catalog.Fashion] {
	items := p.snap.ConstructCoatings(p.character)
	return &gridScreen[catalog.Fashion]{
		filters: []filterView{
			{Field: "character", Label: p.tr.T("all"), Value: p.character, Options: p.snap.CharacterNames()},
		},
		gallery: view.NewGallery(view.GalleryConfig[catalog.Fashion]{
			Category:  CategoryConstructCoating,
			Items:     items,
			PageSize:  PageSizeCoating,
			Page:      page,
			Adapter:   fashionAdapter,
			Thumbnail: p.m.resolver(assets.Raw),
			OnActivate: func(ctx context.Context, f catalog.Fashion, nav view.NavigationContext) {
				p.showConstruct(ctx, items, f.ID, nav)
			},
			OnPageChange: func(ctx context.Context, page int) {
				p.address.Replace(coatingPath("construct", page))
			},
		}),
	}
}

func (p *Page) showConstruct(ctx context.Context, items []catalog.Fashion, id int, nav view.NavigationContext) {
	d := enter(ctx, p, view.DetailConfig[catalog.Fashion]{
		Collection: items,
		Adapter:    fashionAdapter,
		Nav:        nav,
		Image:      p.m.resolver(assets.Raw),
		PathFor: func(f catalog.Fashion, _ view.NavigationContext) string {
			return hashroute.Join("coating", "construct", strconv.Itoa(f.ID))
		},
		OnBack: func(ctx context.Context, nav view.NavigationContext) {
			p.screen = p.constructGrid(nav.Page)
			p.address.Replace(coatingPath("construct", nav.Page))
		},
	}, id)
	if d == nil {
		return
	}
	p.screen = &overlayScreen[catalog.Fashion]{
		detailNav: detailNav[catalog.Fashion]{detail: d, adapter: fashionAdapter},
		grid:      p.constructGrid(nav.Page),
		card: func(f catalog.Fashion) cardView {
			c := p.coatingCard(f.Name, f.Quality, f.Description, f.WorldDescription)
			if name := p.snap.CharacterName(f.CharacterID); name != "" {
				c.Lines = append([]cardLine{{Label: p.tr.T("character"), Text: name}}, c.Lines...)
			}
			return c
		},
	}
}

func (p *Page) routeWeaponGallery(ctx context.Context, params hashroute.Params) {
	p.screen = p.weaponGrid(pageParam(params, "page"))
}

// routeWeaponDetail reads an id that names no coating as a page number.
func (p *Page) routeWeaponDetail(ctx context.Context, params hashroute.Params) {
	id, ok := params.Int("id", 0)
	if !ok {
		return
	}
	items := p.snap.WeaponCoatings()
	i := view.IndexOf(items, weaponAdapter, id)
	if i < 0 {
		p.screen = p.weaponGrid(id)
		return
	}
	p.showWeapon(ctx, items, id, view.NavigationContext{
		Category: CategoryWeaponCoating,
		Page:     pageindex.PageOf(i, PageSizeCoating),
	})
}

func (p *Page) weaponGrid(page int) *gridScreen[catalog.WeaponFashion] {
	items := p.snap.WeaponCoatings()
	return &gridScreen[catalog.WeaponFashion]{gallery: view.NewGallery(view.GalleryConfig[catalog.WeaponFashion]{
		Category:  CategoryWeaponCoating,
		Items:     items,
		PageSize:  PageSizeCoating,
		Page:      page,
		Adapter:   weaponAdapter,
		Thumbnail: p.m.resolver(assets.Raw),
		OnActivate: func(ctx context.Context, f catalog.WeaponFashion, nav view.NavigationContext) {
			p.showWeapon(ctx, items, f.ID, nav)
		},
		OnPageChange: func(ctx context.Context, page int) {
			p.address.Replace(coatingPath("weapon", page))
		},
	})}
}

func (p *Page) showWeapon(ctx context.Context, items []catalog.WeaponFashion, id int, nav view.NavigationContext) {
	d := enter(ctx, p, view.DetailConfig[catalog.WeaponFashion]{
		Collection: items,
		Adapter:    weaponAdapter,
		Nav:        nav,
		Image:      p.m.resolver(assets.Raw),
		PathFor: func(f catalog.WeaponFashion, _ view.NavigationContext) string {
			return hashroute.Join("coating", "weapon", strconv.Itoa(f.ID))
		},
		OnBack: func(ctx context.Context, nav view.NavigationContext) {
			p.screen = p.weaponGrid(nav.Page)
			p.address.Replace(coatingPath("weapon", nav.Page))
		},
	}, id)
	if d == nil {
		return
	}
	p.screen = &overlayScreen[catalog.WeaponFashion]{
		detailNav: detailNav[catalog.WeaponFashion]{detail: d, adapter: weaponAdapter},
		grid:      p.weaponGrid(nav.Page),
		card: func(f catalog.WeaponFashion) cardView {
			return p.coatingCard(f.Name, f.Quality, f.Description, f.WorldDescription)
		},
	}
}
