package museum

import (
	"context"

	"github.com/wgaamuseum/museum/pkg/hashroute"
)

// Route patterns, in registration order. Longer patterns come before the
// optional-trailing variants that would otherwise shadow them.
const (
	RouteHome             = "/"
	RouteCGGroup          = "/cg/:groupName"
	RouteCGDetail         = "/cg/:groupName/:cgId"
	RouteMangaGroup       = "/manga/:groupName"
	RouteMangaChapter     = "/manga/:groupName/:chapterName"
	RouteMangaDetail      = "/manga/:groupName/:chapterName/:mangaId"
	RouteEmojiDetail      = "/emoji/:packId/:emojiId"
	RouteEmojiPack        = "/emoji/:packId/:page?"
	RouteEmoji            = "/emoji/:page?"
	RouteSprites          = "/story-sprite"
	RouteSpriteDetail     = "/story-sprite/:spriteId"
	RouteMemory           = "/memory"
	RouteMemoryDetail     = "/memory/:memoryId"
	RouteConstructDetail  = "/coating/construct/:id"
	RouteWeaponDetail     = "/coating/weapon/:id"
	RouteConstructGallery = "/coating/construct/:page?"
	RouteWeaponGallery    = "/coating/weapon/:page?"
)

// Routes is the route table in registration order.
var Routes = []string{
	RouteHome,
	RouteCGGroup,
	RouteCGDetail,
	RouteMangaGroup,
	RouteMangaChapter,
	RouteMangaDetail,
	RouteEmojiDetail,
	RouteEmojiPack,
	RouteEmoji,
	RouteSprites,
	RouteSpriteDetail,
	RouteMemory,
	RouteMemoryDetail,
	RouteConstructDetail,
	RouteWeaponDetail,
	RouteConstructGallery,
	RouteWeaponGallery,
}

// NewRouter builds a router over the route table. Patterns missing from
// handlers are registered with a no-op handler so matching stays faithful
// to the full table.
func NewRouter(handlers map[string]hashroute.Handler, opts ...hashroute.Option) *hashroute.Router {
	r := hashroute.New(opts...)
	for _, pattern := range Routes {
		h := handlers[pattern]
		if h == nil {
			h = func(context.Context, hashroute.Params) {}
		}
		r.Handle(pattern, h)
	}
	return r
}

// MatchRoute matches path against the route table without running any
// handler.
func MatchRoute(path string) (*hashroute.Match, bool) {
	return NewRouter(nil).Match(path)
}
