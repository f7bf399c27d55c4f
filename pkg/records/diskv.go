package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"
)

const (
	keySep     = "-"
	fileSuffix = ".json"
)

// Diskv stores one JSON file per record at <base>/<model>/<id>.json.
type Diskv struct {
	d *diskv.Diskv
	// mu makes Update's read-modify-write atomic with respect to Create.
	mu sync.Mutex
}

var _ Store = (*Diskv)(nil)

// NewDiskv creates a record store rooted at basePath.
func NewDiskv(basePath string) *Diskv {
	return &Diskv{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	})}
}

func (s *Diskv) FindOne(ctx context.Context, model string, c Criteria) (Record, error) {
	found, err := s.find(ctx, model, c, 1)
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return found[0], nil
}

func (s *Diskv) Find(ctx context.Context, model string, c Criteria) ([]Record, error) {
	return s.find(ctx, model, c, 0)
}

func (s *Diskv) Create(ctx context.Context, model string, r Record) (Record, error) {
	model, err := validModel(model)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec := r.clone()
	if rec.ID() == "" {
		rec[IDField] = uuid.NewString()
	}
	id := rec.ID()
	if !ValidID(id) {
		return nil, fmt.Errorf("records: invalid id %q", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := toKey(model, id)
	if s.d.Has(key) {
		return nil, fmt.Errorf("records: %s %q already exists", model, id)
	}
	if err := s.write(key, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Diskv) Update(ctx context.Context, model string, c Criteria, patch Record) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	found, err := s.find(ctx, model, c, 0)
	if err != nil {
		return nil, err
	}
	model = ModelName(model)
	out := make([]Record, 0, len(found))
	for _, rec := range found {
		id := rec.ID()
		if !ValidID(id) {
			continue
		}
		for k, v := range patch {
			if k == IDField {
				continue
			}
			rec[k] = v
		}
		if err := s.write(toKey(model, id), rec); err != nil {
			return out, fmt.Errorf("update %s %q: %w", model, id, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// find scans the records of model; limit 0 means no limit.
func (s *Diskv) find(ctx context.Context, model string, c Criteria, limit int) ([]Record, error) {
	model, err := validModel(model)
	if err != nil {
		return nil, err
	}
	// A lookup by id alone does not need a scan.
	if len(c) == 1 {
		if id, ok := c[IDField]; ok {
			// An id that cannot name a file matches nothing.
			if !ValidID(fmt.Sprint(id)) {
				return []Record{}, nil
			}
			key := toKey(model, fmt.Sprint(id))
			if !s.d.Has(key) {
				return []Record{}, nil
			}
			rec, err := s.read(key)
			if err != nil {
				return nil, err
			}
			return []Record{rec}, nil
		}
	}

	var keys []string
	for key := range s.d.KeysPrefix(model+keySep, ctx.Done()) {
		keys = append(keys, key)
	}
	out := make([]Record, 0)
	for _, key := range keys {
		rec, err := s.read(key)
		if err != nil {
			return nil, err
		}
		if c.Match(rec) {
			out = append(out, rec)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Diskv) read(key string) (Record, error) {
	val, err := s.d.Read(key)
	if err != nil {
		return nil, err
	}
	rec := Record{}
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return rec, nil
}

func (s *Diskv) write(key string, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.d.Write(key, data)
}

func validModel(model string) (string, error) {
	model = ModelName(model)
	if model == "" {
		return "", errors.New("records: model name required")
	}
	if strings.ContainsAny(model, keySep+`/\`) {
		return "", fmt.Errorf("records: invalid model name %q", model)
	}
	return model, nil
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.SplitN(s, keySep, 2)
	if len(parts) < 2 {
		return &diskv.PathKey{FileName: s + fileSuffix}
	}
	return &diskv.PathKey{
		Path:     parts[:1],
		FileName: parts[1] + fileSuffix,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	name := strings.TrimSuffix(pathKey.FileName, fileSuffix)
	return fmt.Sprintf("%s%s%s", strings.Join(pathKey.Path, keySep), keySep, name)
}

// toKey makes `model-id`
func toKey(model, id string) string {
	return model + keySep + id
}
