package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/wgaamuseum/museum/pkg/logging"
	"github.com/wgaamuseum/museum/pkg/retry"
)

// Collection names.
const (
	CollectionCGGroup          = "CGGroup"
	CollectionCGDetail         = "CGDetail"
	CollectionComicGroup       = "ComicGroup"
	CollectionComicChapter     = "ComicChapter"
	CollectionComicDetail      = "ComicDetail"
	CollectionEmoji            = "Emoji"
	CollectionEmojiPack        = "EmojiPack"
	CollectionStorySprite      = "StorySprite"
	CollectionEquipSuit        = "EquipSuit"
	CollectionEquip            = "Equip"
	CollectionEquipRes         = "EquipRes"
	CollectionAwarenessSetting = "AwarenessSetting"
	CollectionFashion          = "Fashion"
	CollectionCharacter        = "Character"
	CollectionWeaponFashion    = "WeaponFashion"
)

// DefaultDataBaseURL is the CDN root of the data repository.
const DefaultDataBaseURL = "https://cdn.jsdelivr.net/gh/myssal/PGR_Data@master"

var (
	// ErrUnknownCollection is returned for a collection name the loader
	// does not know.
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrRegionLoad wraps the failure of a required collection.
	ErrRegionLoad = errors.New("failed to load data for region")
)

// DefaultFiles maps each collection to its archive file name, without the
// .json extension.
func DefaultFiles() map[string]string {
	return map[string]string{
		CollectionCGGroup:          "CGGroup",
		CollectionCGDetail:         "CGDetail",
		CollectionComicGroup:       "ArchiveComicGroup",
		CollectionComicChapter:     "ArchiveComicChapter",
		CollectionComicDetail:      "ArchiveComicDetail",
		CollectionEmoji:            "Emoji",
		CollectionEmojiPack:        "EmojiPack",
		CollectionStorySprite:      "StorySprite",
		CollectionEquipSuit:        "EquipSuit",
		CollectionEquip:            "Equip",
		CollectionEquipRes:         "EquipRes",
		CollectionAwarenessSetting: "AwarenessSetting",
		CollectionFashion:          "Fashion",
		CollectionCharacter:        "Character",
		CollectionWeaponFashion:    "WeaponFashion",
	}
}

// DataBaseURL builds the CDN root for repo at branch.
func DataBaseURL(repo, branch string) string {
	return fmt.Sprintf("https://cdn.jsdelivr.net/gh/%s@%s", repo, branch)
}

// Regions lists the data regions the repository publishes.
var Regions = []string{"en", "cn", "jp", "kr", "tw"}

// ValidRegion reports whether region is one of Regions.
func ValidRegion(region string) bool {
	return slices.Contains(Regions, region)
}

// Observer receives one call per fetched collection.
type Observer interface {
	CollectionFetched(region, collection string, took time.Duration, err error)
}

// Loader fetches every collection of a region and publishes them as one
// Snapshot. All fetches run concurrently and are joined before Load returns.
type Loader struct {
	client   *http.Client
	baseURL  string
	files    map[string]string
	required map[string]bool
	retry    *retry.Config
	breaker  *retry.Breaker
	logger   logging.Logger
	observer Observer
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) { l.client = c }
}

// WithBaseURL sets the data repository root.
func WithBaseURL(u string) LoaderOption {
	return func(l *Loader) { l.baseURL = strings.TrimRight(u, "/") }
}

// WithFiles overrides archive file names per collection.
func WithFiles(files map[string]string) LoaderOption {
	return func(l *Loader) {
		for k, v := range files {
			if _, ok := l.files[k]; ok && v != "" {
				l.files[k] = v
			}
		}
	}
}

// WithRetry sets the per-collection retry policy.
func WithRetry(c *retry.Config) LoaderOption {
	return func(l *Loader) { l.retry = c }
}

// WithBreaker guards every request with b, so an unreachable data
// repository fails fast instead of exhausting retries per collection.
func WithBreaker(b *retry.Breaker) LoaderOption {
	return func(l *Loader) { l.breaker = b }
}

// WithLoaderLogger sets the logger.
func WithLoaderLogger(logger logging.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// WithObserver sets the fetch observer.
func WithObserver(o Observer) LoaderOption {
	return func(l *Loader) { l.observer = o }
}

// NewLoader creates a loader for the default data repository.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: DefaultDataBaseURL,
		files:   DefaultFiles(),
		required: map[string]bool{
			CollectionCGGroup:  true,
			CollectionCGDetail: true,
		},
		retry:  retry.DefaultConfig(),
		logger: logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.retry == nil {
		l.retry = retry.DefaultConfig()
	}
	return l
}

// URL returns the address of collection for region.
func (l *Loader) URL(region, collection string) (string, error) {
	file, ok := l.files[collection]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
	return fmt.Sprintf("%s/%s/bytes/share/archive/%s.json", l.baseURL, region, file), nil
}

// Load fetches region. A failure of a required collection fails the whole
// load; optional collections that cannot be fetched are left empty.
func (l *Loader) Load(ctx context.Context, region string) (*Snapshot, error) {
	start := time.Now()
	snap := &Snapshot{Region: region}

	targets := map[string]any{
		CollectionCGGroup:          &snap.CGGroups,
		CollectionCGDetail:         &snap.CGDetails,
		CollectionComicGroup:       &snap.ComicGroups,
		CollectionComicChapter:     &snap.ComicChapters,
		CollectionComicDetail:      &snap.ComicDetails,
		CollectionEmoji:            &snap.Emojis,
		CollectionEmojiPack:        &snap.EmojiPacks,
		CollectionStorySprite:      &snap.StorySprites,
		CollectionEquipSuit:        &snap.EquipSuits,
		CollectionEquip:            &snap.Equips,
		CollectionEquipRes:         &snap.EquipRes,
		CollectionAwarenessSetting: &snap.AwarenessSettings,
		CollectionFashion:          &snap.Fashions,
		CollectionCharacter:        &snap.Characters,
		CollectionWeaponFashion:    &snap.WeaponFashions,
	}

	g, gctx := errgroup.WithContext(ctx)
	for name, dst := range targets {
		g.Go(func() error {
			err := l.fetchInto(gctx, region, name, dst)
			if err == nil {
				return nil
			}
			if l.required[name] {
				return fmt.Errorf("%w %s: %s: %w", ErrRegionLoad, region, name, err)
			}
			l.logger.Warn("optional collection unavailable",
				logging.String("region", region),
				logging.String("collection", name),
				logging.Err(err),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap.LoadedAt = time.Now()
	l.logger.Info("region loaded",
		logging.String("region", region),
		logging.Int("cg_details", len(snap.CGDetails)),
		logging.Duration("took", time.Since(start)),
	)
	return snap, nil
}

// fetchInto downloads one collection and decodes it into dst, a pointer to
// a record slice.
func (l *Loader) fetchInto(ctx context.Context, region, name string, dst any) error {
	url, err := l.URL(region, name)
	if err != nil {
		return err
	}

	start := time.Now()
	cfg := *l.retry
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		l.logger.Warn("retrying collection fetch",
			logging.String("collection", name),
			logging.Int("attempt", attempt),
			logging.Duration("delay", delay),
			logging.Err(err),
		)
	}

	body, err := retry.Do(ctx, &cfg, func(ctx context.Context) ([]byte, error) {
		return retry.Guard(l.breaker, func() ([]byte, error) {
			return l.get(ctx, url)
		})
	})
	if l.observer != nil {
		l.observer.CollectionFetched(region, name, time.Since(start), err)
	}
	if err != nil {
		return err
	}

	if err := decodeInto(body, dst); err != nil {
		return err
	}
	l.logger.Debug("collection fetched",
		logging.String("collection", name),
		logging.String("url", url),
		logging.Int("bytes", len(body)),
	)
	return nil
}

func (l *Loader) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("GET %s: %s", url, resp.Status)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, retry.Permanent(err)
		}
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func decodeInto(body []byte, dst any) error {
	switch p := dst.(type) {
	case *[]CGGroup:
		*p = DecodeList[CGGroup](body)
	case *[]CGDetail:
		*p = DecodeList[CGDetail](body)
	case *[]ComicGroup:
		*p = DecodeList[ComicGroup](body)
	case *[]ComicChapter:
		*p = DecodeList[ComicChapter](body)
	case *[]ComicDetail:
		*p = DecodeList[ComicDetail](body)
	case *[]Emoji:
		*p = DecodeList[Emoji](body)
	case *[]EmojiPack:
		*p = DecodeList[EmojiPack](body)
	case *[]StorySprite:
		*p = DecodeList[StorySprite](body)
	case *[]EquipSuit:
		*p = DecodeList[EquipSuit](body)
	case *[]Equip:
		*p = DecodeList[Equip](body)
	case *[]EquipRes:
		*p = DecodeList[EquipRes](body)
	case *[]AwarenessSetting:
		*p = DecodeList[AwarenessSetting](body)
	case *[]Fashion:
		*p = DecodeList[Fashion](body)
	case *[]Character:
		*p = DecodeList[Character](body)
	case *[]WeaponFashion:
		*p = DecodeList[WeaponFashion](body)
	default:
		return json.Unmarshal(body, dst)
	}
	return nil
}

// Store caches one snapshot per region and loads missing regions on
// demand. Concurrent requests for the same region share one load.
type Store struct {
	loader *Loader
	group  singleflight.Group

	mu    sync.RWMutex
	snaps map[string]*Snapshot
}

// NewStore creates an empty store.
func NewStore(loader *Loader) *Store {
	return &Store{loader: loader, snaps: make(map[string]*Snapshot)}
}

// Get returns the snapshot of region, loading it if needed. Failed loads
// are not cached.
func (s *Store) Get(ctx context.Context, region string) (*Snapshot, error) {
	if snap, ok := s.Cached(region); ok {
		return snap, nil
	}

	ch := s.group.DoChan(region, func() (any, error) {
		snap, err := s.loader.Load(context.WithoutCancel(ctx), region)
		if err != nil {
			return nil, err
		}
		s.Put(snap)
		return snap, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Put publishes snap for its region, replacing any cached one.
func (s *Store) Put(snap *Snapshot) {
	s.mu.Lock()
	s.snaps[snap.Region] = snap
	s.mu.Unlock()
}

// Cached returns the snapshot of region without loading.
func (s *Store) Cached(region string) (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snaps[region]
	return snap, ok
}

// Invalidate drops the cached snapshot of region.
func (s *Store) Invalidate(region string) {
	s.mu.Lock()
	delete(s.snaps, region)
	s.mu.Unlock()
}
