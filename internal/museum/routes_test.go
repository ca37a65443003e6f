package museum

import "testing"

func TestMatchRoute(t *testing.T) {
	tests := []struct {
		path    string
		pattern string
		params  map[string]string
	}{
		{"/", RouteHome, nil},
		{"#/cg/Events", RouteCGGroup, map[string]string{"groupName": "Events"}},
		{"/cg/Main%20Story/12", RouteCGDetail, map[string]string{"groupName": "Main Story", "cgId": "12"}},
		{"/manga/Side/Ch1/3", RouteMangaDetail, map[string]string{"chapterName": "Ch1", "mangaId": "3"}},
		{"/emoji", RouteEmoji, nil},
		{"/emoji/5", RouteEmojiPack, map[string]string{"packId": "5"}},
		{"/emoji/5/7", RouteEmojiDetail, map[string]string{"packId": "5", "emojiId": "7"}},
		{"/story-sprite", RouteSprites, nil},
		{"/story-sprite/3", RouteSpriteDetail, map[string]string{"spriteId": "3"}},
		{"/memory/8", RouteMemoryDetail, map[string]string{"memoryId": "8"}},
		{"/coating/construct", RouteConstructGallery, nil},
		{"/coating/construct/4", RouteConstructDetail, map[string]string{"id": "4"}},
		{"/coating/weapon", RouteWeaponGallery, nil},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			m, ok := MatchRoute(tt.path)
			if !ok {
				t.Fatalf("expected %s to match", tt.path)
			}
			if m.Route.Name != tt.pattern {
				t.Errorf("expected pattern %s, got %s", tt.pattern, m.Route.Name)
			}
			for name, want := range tt.params {
				if got := m.Params.Get(name); got != want {
					t.Errorf("expected %s=%q, got %q", name, want, got)
				}
			}
		})
	}

	if _, ok := MatchRoute("/cg"); ok {
		t.Error("expected /cg not to match")
	}
}

func TestGalleryPaths(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{emojiPath(0, 1), "/emoji"},
		{emojiPath(0, 3), "/emoji/0/3"},
		{emojiPath(5, 1), "/emoji/5"},
		{emojiPath(5, 2), "/emoji/5/2"},
		{coatingPath("weapon", 1), "/coating/weapon"},
		{coatingPath("construct", 4), "/coating/construct/4"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("expected %s, got %s", tt.want, tt.got)
		}
	}

	// Every gallery path routes back to its gallery.
	for path, pattern := range map[string]string{
		emojiPath(0, 3):              RouteEmojiDetail,
		emojiPath(5, 1):              RouteEmojiPack,
		coatingPath("construct", 1): RouteConstructGallery,
	} {
		m, ok := MatchRoute(path)
		if !ok || m.Route.Name != pattern {
			t.Errorf("expected %s to route to %s", path, pattern)
		}
	}
}
