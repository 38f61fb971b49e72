package tools

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
)

type listDirectoryParams struct {
	Path string `json:"path" jsonschema:"description=Repository-relative path of the directory to list; use . for the repository root"`
}

func listDirectory(_ context.Context, params *listDirectoryParams) (string, error) {
	full, err := resolveInRoot(params.Path)
	if err != nil {
		return "", err
	}
	entries, err := os.ReadDir(full)
	if err != nil {
		return "", fmt.Errorf("failed to list %s: %w", params.Path, err)
	}

	var b strings.Builder
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() {
			name += "/"
		}
		b.WriteString(name)
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return "(empty directory)", nil
	}
	return b.String(), nil
}

// NewListDirectoryTool exposes repository directory listings to the agent.
func NewListDirectoryTool() (tool.InvokableTool, error) {
	return utils.InferTool(listDirectoryToolName, listDirectoryToolDesc, listDirectory)
}
