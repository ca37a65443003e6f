package museum

import (
	"bytes"
	"context"
	"html/template"
	"io"
	"strconv"

	"github.com/wgaamuseum/museum/pkg/catalog"
	"github.com/wgaamuseum/museum/pkg/core"
	"github.com/wgaamuseum/museum/pkg/hashroute"
)

// Render implements core.Component. The main panel is rendered first and
// then placed into the page layout with the sidebar.
func (p *Page) Render(ctx context.Context) core.Renderer {
	return core.RendererFunc(func(ctx context.Context, w io.Writer) error {
		s := p.screen
		if p.loadErr != nil {
			s = messageScreen{key: "failedLoad", args: []any{p.region}, error: true}
		}
		if s == nil {
			s = blankScreen{}
		}

		var main bytes.Buffer
		if err := p.m.templates.ExecuteTemplate(&main, s.template(), s.model(p)); err != nil {
			return err
		}
		return p.m.templates.ExecuteTemplate(w, "page", pageView{
			T:       p.tr,
			Title:   p.tr.T("siteTitle"),
			Region:  p.region,
			Regions: catalog.Regions,
			Sidebar: p.sidebar(),
			Main:    template.HTML(main.String()),
		})
	})
}

func href(segments ...string) string {
	return "#" + hashroute.Join(segments...)
}

// sidebar lists the navigation tree. A group shows its entries when the
// current path is inside it, and every group with a match shows its
// entries while a search is active.
func (p *Page) sidebar() sidebarView {
	segs := hashroute.Split(p.path)
	at := func(i int) string {
		if i < len(segs) {
			return segs[i]
		}
		return ""
	}
	v := sidebarView{T: p.tr, Search: p.search, Section: at(0)}

	for _, g := range p.snap.SortedCGGroups() {
		open := v.Section == "cg" && at(1) == g.Name
		group := navGroup{Name: g.Name, Href: href("cg", g.Name), Open: open}

		var items []catalog.CGDetail
		switch {
		case p.search != "":
			items = p.snap.SearchCGs(g.ID, p.search)
			if len(items) == 0 {
				continue
			}
			group.Open = true
		case open:
			items = p.snap.CGsInGroup(g.ID)
		}
		for _, d := range items {
			id := strconv.Itoa(d.ID)
			group.Links = append(group.Links, navLink{
				Name:   firstNonEmpty(d.Name, g.Name),
				Href:   href("cg", g.Name, id),
				Active: open && at(2) == id,
			})
		}
		v.CGGroups = append(v.CGGroups, group)
	}

	for _, g := range p.snap.SortedComicGroups() {
		open := v.Section == "manga" && at(1) == g.Name
		group := navGroup{Name: g.Name, Href: href("manga", g.Name), Open: open}
		if open {
			for _, c := range p.snap.ChaptersInGroup(g.ID) {
				group.Links = append(group.Links, navLink{
					Name:   c.Name,
					Href:   href("manga", g.Name, c.Name),
					Active: at(2) == c.Name,
				})
			}
		}
		v.MangaGroups = append(v.MangaGroups, group)
	}

	inEmoji := v.Section == "emoji"
	v.EmojiPacks = append(v.EmojiPacks, navLink{
		Name:   p.tr.T("all"),
		Href:   "#/emoji",
		Active: inEmoji && (at(1) == "" || at(1) == "0"),
	})
	for _, pack := range p.snap.SortedEmojiPacks() {
		id := strconv.Itoa(pack.ID)
		v.EmojiPacks = append(v.EmojiPacks, navLink{
			Name:   pack.Name,
			Href:   href("emoji", id),
			Active: inEmoji && at(1) == id,
		})
	}
	return v
}
