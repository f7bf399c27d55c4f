package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/navtree/pkg/frontend"
	"tableflip.dev/navtree/pkg/item"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	t := tools{svc: svc}
	srv.AddTool(catalogTool("get_catalog",
		mcp.WithDescription("Describe a catalog: node kinds, group type and the root level."),
	), t.getCatalog)
	srv.AddTool(catalogTool("get_childs",
		mcp.WithDescription("List the children of a node ordered by sortOrder."),
		mcp.WithString("parent", mcp.Description("Parent node id. Empty or 0 lists the root level.")),
	), t.getChilds)
	srv.AddTool(catalogTool("search",
		mcp.WithDescription("Find nodes whose name contains a term; hits are nested under their ancestors."),
		mcp.WithString("term", mcp.Required(), mcp.Description("Case-insensitive search text.")),
	), t.search)
	srv.AddTool(catalogTool("create_item",
		mcp.WithDescription("Create a node. The type selects the node kind."),
		mcp.WithObject("item", mcp.Required(), mcp.Description("Item with name, type, parentId and kind specific fields.")),
	), t.createItem)
	srv.AddTool(catalogTool("update_tree",
		mcp.WithDescription("Commit a drag and drop: the siblings are moved under parent and renumbered in the given order."),
		mcp.WithObject("parent", mcp.Description("New parent; omit for the root level.")),
		mcp.WithArray("siblings", mcp.Required(), mcp.Items(map[string]any{"type": "object"}),
			mcp.Description("Complete child list of the parent in display order.")),
	), t.updateTree)
	srv.AddTool(catalogTool("update_item",
		mcp.WithDescription("Save changes to a node, or to every node mirroring a record when modelId is set."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Node id.")),
		mcp.WithObject("data", mcp.Required(), mcp.Description("New values.")),
		mcp.WithString("modelId", mcp.Description("Record id of a model-backed node.")),
	), t.updateItem)
	srv.AddTool(catalogTool("delete_item",
		mcp.WithDescription("Delete a node and everything below it."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Node id.")),
	), t.deleteItem)
	srv.AddTool(catalogTool("get_actions",
		mcp.WithDescription("List the actions offered for the selected nodes."),
		mcp.WithArray("ids", mcp.WithStringItems(), mcp.Description("Selected node ids.")),
	), t.getActions)
	srv.AddTool(catalogTool("handle_action",
		mcp.WithDescription("Run an action against the selected nodes."),
		mcp.WithString("action", mcp.Required(), mcp.Description("Action id.")),
		mcp.WithArray("ids", mcp.WithStringItems(), mcp.Description("Selected node ids.")),
		mcp.WithObject("data", mcp.Description("Action input.")),
	), t.handleAction)
	srv.AddTool(catalogTool("get_add_template",
		mcp.WithDescription("Return the form used to add a node of a type."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Node type.")),
	), t.addTemplate)
	srv.AddTool(catalogTool("get_edit_template",
		mcp.WithDescription("Return the form used to edit a node."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Node id.")),
	), t.editTemplate)
}

func catalogTool(name string, opts ...mcp.ToolOption) mcp.Tool {
	opts = append(opts, mcp.WithString("catalog",
		mcp.Description("Catalog id; the default catalog when omitted."),
	))
	return mcp.NewTool(name, opts...)
}

type tools struct {
	svc *Service
}

func (t tools) getCatalog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cat, err := t.svc.GetCatalog(ctx, request.GetString("catalog", ""))
	if err != nil {
		return toolError(err), nil
	}
	return toJSONResult(cat)
}

func (t tools) getChilds(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	parent := item.ParseID(request.GetString("parent", ""))
	nodes, err := t.svc.GetChilds(ctx, request.GetString("catalog", ""), parent)
	if err != nil {
		return toolError(err), nil
	}
	return toJSONResult(map[string]any{"nodes": nodes, "count": len(nodes)})
}

func (t tools) search(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	term, err := request.RequireString("term")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sync, err := t.svc.Sync(request.GetString("catalog", ""))
	if err != nil {
		return toolError(err), nil
	}
	nodes, err := sync.Search(ctx, term)
	if err != nil {
		return toolError(err), nil
	}
	return toJSONResult(map[string]any{"term": term, "nodes": nodes})
}

func (t tools) createItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Catalog string     `json:"catalog"`
		Item    *item.Item `json:"item"`
	}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.Item == nil {
		return mcp.NewToolResultError("item is required"), nil
	}
	sync, err := t.svc.Sync(args.Catalog)
	if err != nil {
		return toolError(err), nil
	}
	node, err := sync.CreateItem(ctx, args.Item)
	if err != nil {
		return toolError(err), nil
	}
	return toJSONResult(node)
}

func (t tools) updateTree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Catalog string `json:"catalog"`
		frontend.UpdateTreeRequest
	}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	sync, err := t.svc.Sync(args.Catalog)
	if err != nil {
		return toolError(err), nil
	}
	if args.Parent != nil && args.Parent.Type == "" && !args.Parent.ID.IsRoot() {
		parent, err := t.svc.Lookup(ctx, args.Catalog, args.Parent.ID)
		if err != nil {
			return toolError(err), nil
		}
		args.Parent = parent
	}
	siblings, err := t.svc.Resolve(ctx, args.Catalog, args.Siblings)
	if err != nil {
		return toolError(err), nil
	}
	args.Siblings = siblings
	nodes, err := sync.UpdateTree(ctx, args.UpdateTreeRequest)
	if err != nil {
		return toolError(err), nil
	}
	return toJSONResult(map[string]any{"nodes": nodes})
}

func (t tools) updateItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Catalog string     `json:"catalog"`
		ID      item.ID    `json:"id"`
		ModelID string     `json:"modelId"`
		Data    *item.Item `json:"data"`
	}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	sync, err := t.svc.Sync(args.Catalog)
	if err != nil {
		return toolError(err), nil
	}
	it, err := t.svc.Lookup(ctx, args.Catalog, args.ID)
	if err != nil {
		return toolError(err), nil
	}
	nodes, err := sync.UpdateItem(ctx, it, args.ModelID, args.Data)
	if err != nil {
		return toolError(err), nil
	}
	return toJSONResult(map[string]any{"nodes": nodes})
}

func (t tools) deleteItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cat := request.GetString("catalog", "")
	sync, err := t.svc.Sync(cat)
	if err != nil {
		return toolError(err), nil
	}
	it, err := t.svc.Lookup(ctx, cat, item.ParseID(id))
	if err != nil {
		return toolError(err), nil
	}
	res, err := sync.DeleteItem(ctx, it)
	if err != nil {
		return toolError(err), nil
	}
	return toJSONResult(res)
}

func (t tools) selection(ctx context.Context, request mcp.CallToolRequest) ([]*item.Item, error) {
	ids := request.GetStringSlice("ids", nil)
	items := make([]*item.Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, &item.Item{ID: item.ParseID(id)})
	}
	return t.svc.Resolve(ctx, request.GetString("catalog", ""), items)
}

func (t tools) getActions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sync, err := t.svc.Sync(request.GetString("catalog", ""))
	if err != nil {
		return toolError(err), nil
	}
	items, err := t.selection(ctx, request)
	if err != nil {
		return toolError(err), nil
	}
	return toJSONResult(map[string]any{"actions": sync.GetActions(ctx, items)})
}

func (t tools) handleAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action, err := request.RequireString("action")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sync, err := t.svc.Sync(request.GetString("catalog", ""))
	if err != nil {
		return toolError(err), nil
	}
	items, err := t.selection(ctx, request)
	if err != nil {
		return toolError(err), nil
	}
	data, _ := request.GetArguments()["data"].(map[string]any)
	res, err := sync.HandleAction(ctx, action, items, data)
	if err != nil {
		return toolError(err), nil
	}
	return toJSONResult(map[string]any{"action": action, "result": res})
}

func (t tools) addTemplate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typ, err := request.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sync, err := t.svc.Sync(request.GetString("catalog", ""))
	if err != nil {
		return toolError(err), nil
	}
	tpl, err := sync.AddTemplate(ctx, typ)
	if err != nil {
		return toolError(err), nil
	}
	return toJSONResult(tpl)
}

func (t tools) editTemplate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cat := request.GetString("catalog", "")
	sync, err := t.svc.Sync(cat)
	if err != nil {
		return toolError(err), nil
	}
	it, err := t.svc.Lookup(ctx, cat, item.ParseID(id))
	if err != nil {
		return toolError(err), nil
	}
	tpl, err := sync.EditTemplate(ctx, it)
	if err != nil {
		return toolError(err), nil
	}
	return toJSONResult(tpl)
}

// toolError reports err to the client as JSON so it can tell retryable
// failures apart.
func toolError(err error) *mcp.CallToolResult {
	fe, ok := frontend.AsError(err)
	if !ok {
		return mcp.NewToolResultError(err.Error())
	}
	data, merr := json.Marshal(fe)
	if merr != nil {
		return mcp.NewToolResultError(fe.Error())
	}
	return mcp.NewToolResultError(string(data))
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
