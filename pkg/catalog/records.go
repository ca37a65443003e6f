// Package catalog holds the read-only game records the museum displays,
// the immutable Snapshot they are published in and the loader that
// fetches them from the data repository.
package catalog

// CGGroup is a named set of illustrations.
type CGGroup struct {
	ID    int    `json:"Id"`
	Name  string `json:"Name"`
	Order int    `json:"Order"`
}

// CGDetail is one illustration.
type CGDetail struct {
	ID      int    `json:"Id"`
	GroupID int    `json:"GroupId"`
	Name    string `json:"Name"`
	Order   int    `json:"Order"`
	Bg      string `json:"Bg"`
	Desc    string `json:"Desc"`
}

// ComicGroup is a comic series.
type ComicGroup struct {
	ID    int    `json:"Id"`
	Name  string `json:"Name"`
	Order int    `json:"Order"`
}

// ComicChapter is a chapter of a comic series.
type ComicChapter struct {
	ID      int    `json:"Id"`
	GroupID int    `json:"GroupId"`
	Name    string `json:"Name"`
	Order   int    `json:"Order"`
	Bg      string `json:"Bg"`
}

// ComicDetail is one comic page.
type ComicDetail struct {
	ID        int    `json:"Id"`
	ChapterID int    `json:"ChapterId"`
	Order     int    `json:"Order"`
	Bg        string `json:"Bg"`
}

// Emoji is a sticker. PackageID 0 means the sticker belongs to no pack.
type Emoji struct {
	ID              int    `json:"Id"`
	PackageID       int    `json:"PackageId"`
	Name            string `json:"Name"`
	Order           int    `json:"Order"`
	Path            string `json:"Path"`
	ConnotationDesc string `json:"ConnotationDesc"`
	WorldDesc       string `json:"WorldDesc"`
	Description     string `json:"Description"`
}

// EmojiPack is a named group of stickers.
type EmojiPack struct {
	ID    int    `json:"Id"`
	Name  string `json:"Name"`
	Order int    `json:"Order"`
	Icon  string `json:"Icon"`
}

// StorySprite is a character portrait, keyed by RoleID.
type StorySprite struct {
	RoleID   int    `json:"RoleId"`
	Name     string `json:"Name"`
	Order    int    `json:"Order"`
	RoleIcon string `json:"RoleIcon"`
}

// EquipSuit is a memory set. ID 0 is a placeholder row and never listed.
type EquipSuit struct {
	ID               int      `json:"Id"`
	Name             string   `json:"Name"`
	Description      string   `json:"Description"`
	EquipIDs         []int    `json:"EquipIds"`
	SkillDescription []string `json:"SkillDescription"`
	WaferBagPath     string   `json:"WaferBagPath"`
	ClearIconPath    string   `json:"ClearIconPath"`
	Order            int      `json:"Order"`
}

// Equip is one memory piece.
type Equip struct {
	ID      int    `json:"Id"`
	SuitID  int    `json:"SuitId"`
	Name    string `json:"Name"`
	Quality int    `json:"Quality"`
}

// EquipRes holds the artwork of a memory piece.
type EquipRes struct {
	ID          int    `json:"Id"`
	LiHuiPath   string `json:"LiHuiPath"`
	PainterName string `json:"PainterName"`
}

// AwarenessSetting is a backstory entry of a memory set.
type AwarenessSetting struct {
	ID     int    `json:"Id"`
	SuitID int    `json:"SuitId"`
	Order  int    `json:"Order"`
	Title  string `json:"Title"`
	Text   string `json:"Text"`
}

// Fashion is a character coating.
type Fashion struct {
	ID               int    `json:"Id"`
	CharacterID      int    `json:"CharacterId"`
	Name             string `json:"Name"`
	Description      string `json:"Description"`
	WorldDescription string `json:"WorldDescription"`
	Quality          int    `json:"Quality"`
	CharacterIcon    string `json:"CharacterIcon"`
	ShopIcon         string `json:"ShopIcon"`
	Order            int    `json:"Order"`
}

// Character is a playable construct, used to filter coatings.
type Character struct {
	ID   int    `json:"Id"`
	Name string `json:"Name"`
}

// WeaponFashion is a weapon coating.
type WeaponFashion struct {
	ID               int    `json:"Id"`
	Name             string `json:"Name"`
	Description      string `json:"Description"`
	WorldDescription string `json:"WorldDescription"`
	Quality          int    `json:"Quality"`
	ShopIcon         string `json:"ShopIcon"`
	Order            int    `json:"Order"`
}
