package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"tableflip.dev/navtree/pkg/catalog"
	"tableflip.dev/navtree/pkg/item"
	"tableflip.dev/navtree/pkg/records"
	"tableflip.dev/navtree/pkg/store"
)

const (
	ModelType = "model"

	// DefaultTitleField is the record field a model item takes its name from.
	DefaultTitleField = "title"
)

// Model is a leaf that mirrors a record of an external model, for example a
// CMS page. The node keeps its own position in the tree; its name follows
// the record's title field.
type Model struct {
	treeNodes
	records    records.Store
	model      string
	titleField string
	logger     *zap.Logger
}

var _ catalog.Handler = (*Model)(nil)

// ModelOption configures a Model handler.
type ModelOption func(*Model)

func WithTitleField(field string) ModelOption {
	return func(m *Model) {
		if field != "" {
			m.titleField = field
		}
	}
}

func WithModelLogger(l *zap.Logger) ModelOption {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewModel returns a handler for items backed by records of model.
func NewModel(stores *store.Registry, recs records.Store, model string, opts ...ModelOption) *Model {
	m := &Model{
		treeNodes: treeNodes{
			Base:      catalog.Base{TypeName: ModelType, DisplayName: "Model item", IconName: "description"},
			stores:    stores,
			container: GroupType,
		},
		records:    recs,
		model:      records.ModelName(model),
		titleField: DefaultTitleField,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create links a new node to data.ModelID, or creates the record first when
// no model id is given.
func (m *Model) Create(ctx context.Context, catalogID string, data *item.Item) (*item.Item, error) {
	it := data.Strip()
	it.URLPath, it.TargetBlank = "", false

	if it.ModelID == "" {
		if it.Name == "" {
			return nil, catalog.ValidationError{Field: "name", Reason: "required"}
		}
		rec, err := m.records.Create(ctx, m.model, records.Record{m.titleField: it.Name})
		if err != nil {
			return nil, fmt.Errorf("create %s record: %w", m.model, err)
		}
		it.ModelID = rec.ID()
	} else {
		rec, err := m.record(ctx, it.ModelID)
		if err != nil {
			return nil, err
		}
		if it.Name == "" {
			it.Name = rec.String(m.titleField)
		}
	}
	return m.create(ctx, catalogID, it)
}

// Update moves or renames the node. A rename is written through to the
// record and to every other node that mirrors it.
func (m *Model) Update(ctx context.Context, catalogID string, id item.ID, data *item.Item) (*item.Item, error) {
	old, err := m.Find(ctx, catalogID, id)
	if err != nil {
		return nil, err
	}
	if old == nil {
		return nil, catalog.NotFoundError{Kind: ModelType, ID: string(id)}
	}
	it := data.Strip()
	it.URLPath, it.TargetBlank = "", false
	if it.ModelID == "" {
		it.ModelID = old.ModelID
	}
	if it.ModelID != old.ModelID {
		if _, err := m.record(ctx, it.ModelID); err != nil {
			return nil, err
		}
	}

	updated, err := m.update(ctx, catalogID, id, it)
	if err != nil {
		return nil, err
	}
	if updated.Name != old.Name && updated.ModelID == old.ModelID {
		if _, err := m.UpdateModelItems(ctx, catalogID, updated.ModelID, updated); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// UpdateModelItems writes the name of data to the record modelID and to
// every node of catalogID that mirrors it.
func (m *Model) UpdateModelItems(ctx context.Context, catalogID string, modelID string, data *item.Item) ([]*item.Item, error) {
	if data == nil {
		return nil, catalog.ValidationError{Reason: "missing item"}
	}
	s, err := m.store(catalogID)
	if err != nil {
		return nil, err
	}
	if _, err := m.record(ctx, modelID); err != nil {
		return nil, err
	}
	if data.Name != "" {
		if _, err := m.records.Update(ctx, m.model, records.ByID(modelID), records.Record{m.titleField: data.Name}); err != nil {
			return nil, fmt.Errorf("update %s record %q: %w", m.model, modelID, err)
		}
	}

	mirrors := s.FindElementsByModelID(modelID)
	out := make([]*item.Item, 0, len(mirrors))
	for _, it := range mirrors {
		if it.Type != m.TypeName {
			continue
		}
		if data.Name != "" {
			it.Name = data.Name
		}
		if data.Icon != "" {
			it.Icon = data.Icon
		}
		saved, err := s.SetElement(ctx, it.ID, it)
		if err != nil {
			return out, err
		}
		out = append(out, saved)
	}
	m.logger.Debug("propagated record change",
		zap.String("catalog", catalogID),
		zap.String("model", m.model),
		zap.String("modelId", modelID),
		zap.Int("items", len(out)))
	return out, nil
}

// AddTemplate points the UI at the model's own create form.
func (m *Model) AddTemplate(_ context.Context, _ string) (*catalog.Template, error) {
	return &catalog.Template{
		Kind: catalog.TemplateModel,
		Path: "model/" + m.model + "/add",
		Data: map[string]any{"model": m.model},
	}, nil
}

func (m *Model) EditTemplate(ctx context.Context, catalogID string, id item.ID) (*catalog.Template, error) {
	it, err := m.Find(ctx, catalogID, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, catalog.NotFoundError{Kind: ModelType, ID: string(id)}
	}
	return &catalog.Template{
		Kind: catalog.TemplateModel,
		Path: "model/" + m.model + "/edit/" + it.ModelID,
		Data: map[string]any{"model": m.model, "id": it.ID, "modelId": it.ModelID},
	}, nil
}

func (m *Model) record(ctx context.Context, modelID string) (records.Record, error) {
	if !records.ValidID(modelID) {
		return nil, catalog.ValidationError{Field: "modelId", Reason: fmt.Sprintf("invalid record id %q", modelID)}
	}
	rec, err := m.records.FindOne(ctx, m.model, records.ByID(modelID))
	if err != nil {
		return nil, fmt.Errorf("find %s record %q: %w", m.model, modelID, err)
	}
	if rec == nil {
		return nil, catalog.NotFoundError{Kind: m.model, ID: modelID}
	}
	return rec, nil
}
