package catalog

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Snapshot is the full set of records for one region. It is built once by
// the loader and must not be modified after it is published; every scoping
// helper returns a fresh slice.
type Snapshot struct {
	Region   string
	LoadedAt time.Time

	CGGroups  []CGGroup
	CGDetails []CGDetail

	ComicGroups   []ComicGroup
	ComicChapters []ComicChapter
	ComicDetails  []ComicDetail

	Emojis     []Emoji
	EmojiPacks []EmojiPack

	StorySprites []StorySprite

	EquipSuits        []EquipSuit
	Equips            []Equip
	EquipRes          []EquipRes
	AwarenessSettings []AwarenessSetting

	Fashions       []Fashion
	Characters     []Character
	WeaponFashions []WeaponFashion
}

// Empty returns a snapshot with no records.
func Empty(region string) *Snapshot {
	return &Snapshot{Region: region}
}

func find[T any](items []T, match func(T) bool) (T, bool) {
	for _, it := range items {
		if match(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func scope[T any](items []T, keep func(T) bool, order func(T) int) []T {
	out := make([]T, 0)
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	if order != nil {
		slices.SortStableFunc(out, func(a, b T) int { return cmp.Compare(order(a), order(b)) })
	}
	return out
}

func distinctSorted(values []string) []string {
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}

// SortedCGGroups returns the illustration groups by Order.
func (s *Snapshot) SortedCGGroups() []CGGroup {
	return scope(s.CGGroups, func(CGGroup) bool { return true }, func(g CGGroup) int { return g.Order })
}

// CGGroupByName returns the first group named name.
func (s *Snapshot) CGGroupByName(name string) (CGGroup, bool) {
	return find(s.CGGroups, func(g CGGroup) bool { return g.Name == name })
}

// CGsInGroup returns the illustrations of a group by Order.
func (s *Snapshot) CGsInGroup(groupID int) []CGDetail {
	return scope(s.CGDetails, func(d CGDetail) bool { return d.GroupID == groupID }, func(d CGDetail) int { return d.Order })
}

// CGByID returns the illustration with id.
func (s *Snapshot) CGByID(id int) (CGDetail, bool) {
	return find(s.CGDetails, func(d CGDetail) bool { return d.ID == id })
}

// SearchCGs returns the illustrations of a group whose name contains query,
// ignoring case. An empty query matches everything.
func (s *Snapshot) SearchCGs(groupID int, query string) []CGDetail {
	q := strings.ToLower(strings.TrimSpace(query))
	items := s.CGsInGroup(groupID)
	if q == "" {
		return items
	}
	return scope(items, func(d CGDetail) bool { return strings.Contains(strings.ToLower(d.Name), q) }, nil)
}

// SortedComicGroups returns the comic series by Order.
func (s *Snapshot) SortedComicGroups() []ComicGroup {
	return scope(s.ComicGroups, func(ComicGroup) bool { return true }, func(g ComicGroup) int { return g.Order })
}

// ComicGroupByName returns the first series named name.
func (s *Snapshot) ComicGroupByName(name string) (ComicGroup, bool) {
	return find(s.ComicGroups, func(g ComicGroup) bool { return g.Name == name })
}

// ChaptersInGroup returns the chapters of a series by Order.
func (s *Snapshot) ChaptersInGroup(groupID int) []ComicChapter {
	return scope(s.ComicChapters, func(c ComicChapter) bool { return c.GroupID == groupID }, func(c ComicChapter) int { return c.Order })
}

// ChapterByName returns the chapter named name within a series.
func (s *Snapshot) ChapterByName(groupID int, name string) (ComicChapter, bool) {
	return find(s.ComicChapters, func(c ComicChapter) bool { return c.GroupID == groupID && c.Name == name })
}

// PagesInChapter returns the pages of a chapter by Order.
func (s *Snapshot) PagesInChapter(chapterID int) []ComicDetail {
	return scope(s.ComicDetails, func(d ComicDetail) bool { return d.ChapterID == chapterID }, func(d ComicDetail) int { return d.Order })
}

// SortedEmojiPacks returns the sticker packs by Order.
func (s *Snapshot) SortedEmojiPacks() []EmojiPack {
	return scope(s.EmojiPacks, func(EmojiPack) bool { return true }, func(p EmojiPack) int { return p.Order })
}

// EmojiPackByID returns the pack with id.
func (s *Snapshot) EmojiPackByID(id int) (EmojiPack, bool) {
	return find(s.EmojiPacks, func(p EmojiPack) bool { return p.ID == id })
}

// EmojisInPack returns the stickers of a pack by Order. Pack 0 holds the
// stickers without a pack.
func (s *Snapshot) EmojisInPack(packID int) []Emoji {
	return scope(s.Emojis, func(e Emoji) bool { return e.PackageID == packID }, func(e Emoji) int { return e.Order })
}

// Sprites returns the story portraits by Order.
func (s *Snapshot) Sprites() []StorySprite {
	return scope(s.StorySprites, func(StorySprite) bool { return true }, func(sp StorySprite) int { return sp.Order })
}

// Memories returns the listable memory sets filtered by description and a
// case-insensitive name search. Empty arguments do not filter.
func (s *Snapshot) Memories(description, search string) []EquipSuit {
	q := strings.ToLower(strings.TrimSpace(search))
	return scope(s.EquipSuits, func(m EquipSuit) bool {
		if m.ID == 0 {
			return false
		}
		if description != "" && m.Description != description {
			return false
		}
		return q == "" || strings.Contains(strings.ToLower(m.Name), q)
	}, func(m EquipSuit) int { return m.Order })
}

// MemoryByID returns the memory set with id. ID 0 is never found.
func (s *Snapshot) MemoryByID(id int) (EquipSuit, bool) {
	if id == 0 {
		return EquipSuit{}, false
	}
	return find(s.EquipSuits, func(m EquipSuit) bool { return m.ID == id })
}

// MemoryDescriptions returns the distinct set descriptions, sorted.
func (s *Snapshot) MemoryDescriptions() []string {
	var values []string
	for _, m := range s.EquipSuits {
		if m.ID != 0 && m.Description != "" {
			values = append(values, m.Description)
		}
	}
	return distinctSorted(values)
}

// EquipByID returns the memory piece with id.
func (s *Snapshot) EquipByID(id int) (Equip, bool) {
	return find(s.Equips, func(e Equip) bool { return e.ID == id })
}

// EquipResByID returns the artwork of the memory piece with id.
func (s *Snapshot) EquipResByID(id int) (EquipRes, bool) {
	return find(s.EquipRes, func(r EquipRes) bool { return r.ID == id })
}

// Backstory returns the backstory entries of a set by Order.
func (s *Snapshot) Backstory(suitID int) []AwarenessSetting {
	return scope(s.AwarenessSettings, func(a AwarenessSetting) bool { return a.SuitID == suitID }, func(a AwarenessSetting) int { return a.Order })
}

func listedCoating(description string) bool {
	return description != "" && !strings.Contains(description, "Default")
}

// ConstructCoatings returns the listable character coatings, optionally
// restricted to the character named character.
func (s *Snapshot) ConstructCoatings(character string) []Fashion {
	charID := -1
	if character != "" {
		if c, ok := find(s.Characters, func(c Character) bool { return c.Name == character }); ok {
			charID = c.ID
		}
	}
	return scope(s.Fashions, func(f Fashion) bool {
		if !listedCoating(f.Description) {
			return false
		}
		return charID < 0 || f.CharacterID == charID
	}, func(f Fashion) int { return f.Order })
}

// WeaponCoatings returns the listable weapon coatings.
func (s *Snapshot) WeaponCoatings() []WeaponFashion {
	return scope(s.WeaponFashions, func(f WeaponFashion) bool { return listedCoating(f.Description) }, func(f WeaponFashion) int { return f.Order })
}

// CharacterNames returns the distinct character names, sorted.
func (s *Snapshot) CharacterNames() []string {
	values := make([]string, 0, len(s.Characters))
	for _, c := range s.Characters {
		if c.Name != "" {
			values = append(values, c.Name)
		}
	}
	return distinctSorted(values)
}

// CharacterName returns the name of the character with id.
func (s *Snapshot) CharacterName(id int) string {
	c, _ := find(s.Characters, func(c Character) bool { return c.ID == id })
	return c.Name
}

// Counts returns the number of records per collection.
func (s *Snapshot) Counts() map[string]int {
	return map[string]int{
		CollectionCGGroup:          len(s.CGGroups),
		CollectionCGDetail:         len(s.CGDetails),
		CollectionComicGroup:       len(s.ComicGroups),
		CollectionComicChapter:     len(s.ComicChapters),
		CollectionComicDetail:      len(s.ComicDetails),
		CollectionEmoji:            len(s.Emojis),
		CollectionEmojiPack:        len(s.EmojiPacks),
		CollectionStorySprite:      len(s.StorySprites),
		CollectionEquipSuit:        len(s.EquipSuits),
		CollectionEquip:            len(s.Equips),
		CollectionEquipRes:         len(s.EquipRes),
		CollectionAwarenessSetting: len(s.AwarenessSettings),
		CollectionFashion:          len(s.Fashions),
		CollectionCharacter:        len(s.Characters),
		CollectionWeaponFashion:    len(s.WeaponFashions),
	}
}
