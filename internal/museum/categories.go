package museum

import (
	"strconv"

	"github.com/wgaamuseum/museum/pkg/assets"
	"github.com/wgaamuseum/museum/pkg/catalog"
	"github.com/wgaamuseum/museum/pkg/view"
)

// Page sizes per category. Deep links compute their page with the same
// size the grid uses.
const (
	PageSizeCG      = 16
	PageSizeComic   = 16
	PageSizeEmoji   = 24
	PageSizeSprite  = 18
	PageSizeMemory  = 18
	PageSizeCoating = 15
)

// Category label keys. They double as i18n keys.
const (
	CategoryCG               = "CG"
	CategoryManga            = "Manga"
	CategoryEmoji            = "emojiSection"
	CategorySprite           = "storySpriteSection"
	CategoryMemory           = "memorySection"
	CategoryConstructCoating = "constructCoating"
	CategoryWeaponCoating    = "weaponCoating"
)

var cgAdapter = view.AdapterFuncs[catalog.CGDetail]{
	GetID:        func(d catalog.CGDetail) int { return d.ID },
	GetOrder:     func(d catalog.CGDetail) int { return d.Order },
	GetParentKey: func(d catalog.CGDetail) string { return strconv.Itoa(d.GroupID) },
	GetAssetPath: func(d catalog.CGDetail) string { return d.Bg },
	GetName:      func(d catalog.CGDetail) string { return d.Name },
}

var comicAdapter = view.AdapterFuncs[catalog.ComicDetail]{
	GetID:        func(d catalog.ComicDetail) int { return d.ID },
	GetOrder:     func(d catalog.ComicDetail) int { return d.Order },
	GetParentKey: func(d catalog.ComicDetail) string { return strconv.Itoa(d.ChapterID) },
	GetAssetPath: func(d catalog.ComicDetail) string { return d.Bg },
}

var emojiAdapter = view.AdapterFuncs[catalog.Emoji]{
	GetID:        func(e catalog.Emoji) int { return e.ID },
	GetOrder:     func(e catalog.Emoji) int { return e.Order },
	GetParentKey: func(e catalog.Emoji) string { return strconv.Itoa(e.PackageID) },
	GetAssetPath: func(e catalog.Emoji) string { return e.Path },
	GetName:      func(e catalog.Emoji) string { return e.Name },
}

var spriteAdapter = view.AdapterFuncs[catalog.StorySprite]{
	GetID:        func(s catalog.StorySprite) int { return s.RoleID },
	GetOrder:     func(s catalog.StorySprite) int { return s.Order },
	GetAssetPath: func(s catalog.StorySprite) string { return s.RoleIcon },
	GetName:      func(s catalog.StorySprite) string { return s.Name },
}

var memoryAdapter = view.AdapterFuncs[catalog.EquipSuit]{
	GetID:        func(m catalog.EquipSuit) int { return m.ID },
	GetOrder:     func(m catalog.EquipSuit) int { return m.Order },
	GetParentKey: func(m catalog.EquipSuit) string { return m.Description },
	GetAssetPath: func(m catalog.EquipSuit) string { return m.WaferBagPath },
	GetName:      func(m catalog.EquipSuit) string { return m.Name },
}

var fashionAdapter = view.AdapterFuncs[catalog.Fashion]{
	GetID:        func(f catalog.Fashion) int { return f.ID },
	GetOrder:     func(f catalog.Fashion) int { return f.Order },
	GetParentKey: func(f catalog.Fashion) string { return strconv.Itoa(f.CharacterID) },
	GetAssetPath: func(f catalog.Fashion) string {
		if f.CharacterIcon != "" {
			return f.CharacterIcon
		}
		return f.ShopIcon
	},
	GetName: func(f catalog.Fashion) string { return f.Name },
}

var weaponAdapter = view.AdapterFuncs[catalog.WeaponFashion]{
	GetID:        func(f catalog.WeaponFashion) int { return f.ID },
	GetOrder:     func(f catalog.WeaponFashion) int { return f.Order },
	GetAssetPath: func(f catalog.WeaponFashion) string { return f.ShopIcon },
	GetName:      func(f catalog.WeaponFashion) string { return f.Name },
}

// resolver returns a raw-path resolver for purpose.
func (m *Museum) resolver(purpose assets.Purpose) func(string) string {
	return func(raw string) string {
		return m.locator.Resolve(raw, purpose)
	}
}
