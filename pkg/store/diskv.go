package store

import (
	"context"
	"encoding/base32"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/navtree/pkg/item"
)

// Document is the persisted form of one catalog instance.
type Document struct {
	Label string       `json:"label"`
	Tree  []*item.Node `json:"tree"`
}

// Backend loads and saves catalog documents.
type Backend interface {
	// Load returns ErrDocumentNotFound when the catalog has never been saved.
	Load(ctx context.Context, catalogID string) (*Document, error)
	Save(ctx context.Context, doc *Document) error
	Keys(ctx context.Context) ([]string, error)
}

const (
	documentsDir    = "catalogs"
	documentSuffix  = ".json"
	tempDir         = ".tmp"
	documentKeySep  = "-"
	cacheSizeMaxDoc = 1024 * 1024 // 1MB
)

var keyEncoding = base32.HexEncoding.WithPadding(base32.NoPadding)

// DiskvBackend stores one JSON document per catalog under a base path.
type DiskvBackend struct {
	d        *diskv.Diskv
	basePath string
}

// NewDiskvBackend creates a backend rooted at basePath.
func NewDiskvBackend(basePath string) *DiskvBackend {
	return &DiskvBackend{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			TempDir:           filepath.Join(basePath, tempDir),
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      cacheSizeMaxDoc,
		}),
		basePath: basePath,
	}
}

// BasePath returns the directory documents are written under.
func (b *DiskvBackend) BasePath() string { return b.basePath }

func (b *DiskvBackend) Load(ctx context.Context, catalogID string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := toKey(catalogID)
	if !b.d.Has(key) {
		return nil, ErrDocumentNotFound
	}
	val, err := b.d.Read(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	doc := &Document{}
	if err := json.Unmarshal(val, doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", catalogID, err)
	}
	if doc.Label == "" {
		doc.Label = catalogID
	}
	return doc, nil
}

func (b *DiskvBackend) Save(ctx context.Context, doc *Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc == nil || doc.Label == "" {
		return errors.New("store: document label required")
	}
	if doc.Tree == nil {
		doc.Tree = []*item.Node{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return b.d.Write(toKey(doc.Label), data)
}

func (b *DiskvBackend) Keys(ctx context.Context) ([]string, error) {
	ids := make([]string, 0)
	for key := range b.d.Keys(ctx.Done()) {
		id, ok := fromKey(key)
		if !ok {
			continue
		}
		ids = append(ids, id)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, documentKeySep)
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1] + documentSuffix,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	name := strings.TrimSuffix(pathKey.FileName, documentSuffix)
	return fmt.Sprintf("%s%s%s", strings.Join(pathKey.Path, documentKeySep), documentKeySep, name)
}

// toKey makes `catalogs-<encoded id>`
func toKey(catalogID string) string {
	return documentsDir + documentKeySep + keyEncoding.EncodeToString([]byte(catalogID))
}

func fromKey(key string) (string, bool) {
	prefix := documentsDir + documentKeySep
	if !strings.HasPrefix(key, prefix) {
		return "", false
	}
	return decodeCatalog(strings.TrimPrefix(key, prefix))
}

func decodeCatalog(s string) (string, bool) {
	raw, err := keyEncoding.DecodeString(s)
	if err != nil {
		return "", false
	}
	return string(raw), true
}
