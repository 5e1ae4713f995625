package storage

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/service"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

// Provider exposes the storage tree to window content
type Provider struct {
	tree *Tree
}

// NewProvider creates a storage provider
func NewProvider(tree *Tree) *Provider {
	return &Provider{tree: tree}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	pathParam := types.Parameter{Name: "path", Type: "array", Description: "Folder ids from the root", Required: false}

	return types.Service{
		ID:          "storage",
		Name:        "Storage Service",
		Description: "Folder tree browsed by the file manager",
		Category:    types.CategoryStorage,
		Capabilities: []string{
			"list",
			"create",
			"delete",
			"search",
		},
		Tools: []types.Tool{
			{
				ID:          "storage.list",
				Name:        "List Folder",
				Description: "List the items of a folder",
				Parameters:  []types.Parameter{pathParam},
				Returns:     "array",
			},
			{
				ID:          "storage.create_folder",
				Name:        "Create Folder",
				Description: "Create an empty folder",
				Parameters: []types.Parameter{
					pathParam,
					{Name: "name", Type: "string", Description: "Folder name", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "storage.create_file",
				Name:        "Create File",
				Description: "Create a file with text content",
				Parameters: []types.Parameter{
					pathParam,
					{Name: "name", Type: "string", Description: "File name", Required: true},
					{Name: "content", Type: "string", Description: "File content", Required: false},
				},
				Returns: "object",
			},
			{
				ID:          "storage.delete",
				Name:        "Delete Item",
				Description: "Delete an item from a folder",
				Parameters: []types.Parameter{
					pathParam,
					{Name: "id", Type: "string", Description: "Item id", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "storage.search",
				Name:        "Search",
				Description: "Find items whose slash-joined path matches a glob",
				Parameters: []types.Parameter{
					{Name: "pattern", Type: "string", Description: "Glob such as **/*.log", Required: true},
				},
				Returns: "array",
			},
		},
	}
}

// Execute runs a storage operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "storage.list":
		return p.list(params)
	case "storage.create_folder":
		return p.createFolder(params)
	case "storage.create_file":
		return p.createFile(params)
	case "storage.delete":
		return p.delete(params)
	case "storage.search":
		return p.search(params)
	default:
		return service.Failure(fmt.Sprintf("unknown tool: %s", toolID)), nil
	}
}

func (p *Provider) list(params map[string]interface{}) (*types.Result, error) {
	path, err := service.Path(params, "path")
	if err != nil {
		return service.Failure(err.Error()), nil
	}
	return service.Success(map[string]interface{}{"items": p.tree.Children(path)}), nil
}

func (p *Provider) createFolder(params map[string]interface{}) (*types.Result, error) {
	path, err := service.Path(params, "path")
	if err != nil {
		return service.Failure(err.Error()), nil
	}
	name, _ := service.String(params, "name")

	item, err := p.tree.CreateFolder(path, name)
	if err != nil {
		return service.Failure(err.Error()), nil
	}
	return service.Success(map[string]interface{}{"item": item}), nil
}

func (p *Provider) createFile(params map[string]interface{}) (*types.Result, error) {
	path, err := service.Path(params, "path")
	if err != nil {
		return service.Failure(err.Error()), nil
	}
	name, _ := service.String(params, "name")
	content, _ := service.String(params, "content")

	item, err := p.tree.CreateFile(path, name, content)
	if err != nil {
		return service.Failure(err.Error()), nil
	}
	return service.Success(map[string]interface{}{"item": item}), nil
}

func (p *Provider) delete(params map[string]interface{}) (*types.Result, error) {
	path, err := service.Path(params, "path")
	if err != nil {
		return service.Failure(err.Error()), nil
	}
	itemID, ok := service.String(params, "id")
	if !ok || itemID == "" {
		return service.Failure("id required"), nil
	}

	deleted, err := p.tree.DeleteItem(path, itemID)
	if err != nil {
		return service.Failure(err.Error()), nil
	}
	return service.Success(map[string]interface{}{"deleted": deleted}), nil
}

func (p *Provider) search(params map[string]interface{}) (*types.Result, error) {
	pattern, ok := service.String(params, "pattern")
	if !ok || pattern == "" {
		return service.Failure("pattern required"), nil
	}

	matches, err := p.tree.Search(pattern)
	if err != nil {
		return service.Failure(err.Error()), nil
	}
	return service.Success(map[string]interface{}{"matches": matches}), nil
}
