package catalog

import (
	"context"

	"tableflip.dev/navtree/pkg/item"
)

// ActionKind tells the UI what to do with an action's result.
type ActionKind string

const (
	ActionBasic    ActionKind = "basic"
	ActionLink     ActionKind = "link"
	ActionExternal ActionKind = "external"
)

// Action is an operation offered on a selection of items.
type Action interface {
	ID() string
	Name() string
	Icon() string
	Kind() ActionKind
	Handle(ctx context.Context, catalogID string, items []*item.Item, data map[string]any) (any, error)
}

// ActionFunc adapts a function to the Action interface.
type ActionFunc struct {
	ActionID   string
	ActionName string
	IconName   string
	ActionKind ActionKind
	Fn         func(ctx context.Context, catalogID string, items []*item.Item, data map[string]any) (any, error)
}

func (a ActionFunc) ID() string   { return a.ActionID }
func (a ActionFunc) Name() string { return a.ActionName }
func (a ActionFunc) Icon() string { return a.IconName }

func (a ActionFunc) Kind() ActionKind {
	if a.ActionKind == "" {
		return ActionBasic
	}
	return a.ActionKind
}

func (a ActionFunc) Handle(ctx context.Context, catalogID string, items []*item.Item, data map[string]any) (any, error) {
	return a.Fn(ctx, catalogID, items, data)
}

// ActionInfo is the transport projection of an Action.
type ActionInfo struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Icon string     `json:"icon,omitempty"`
	Kind ActionKind `json:"type"`
}

// Describe projects actions for the UI.
func Describe(actions []Action) []ActionInfo {
	out := make([]ActionInfo, 0, len(actions))
	for _, a := range actions {
		out = append(out, ActionInfo{ID: a.ID(), Name: a.Name(), Icon: a.Icon(), Kind: a.Kind()})
	}
	return out
}
