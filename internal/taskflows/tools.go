package taskflows

import (
	"context"
	"fmt"
	"time"

	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/registry"
)

func argString(args map[string]any, key string) string {
	if v, ok := args[key]; ok && v != nil {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// Tools returns the board-backed tool implementations keyed by name.
func (b *Board) Tools() map[string]registry.ToolFunc {
	return map[string]registry.ToolFunc{
		"find_client": func(ctx context.Context, args map[string]any) (any, error) {
			query := argString(args, "query")
			if query == "" {
				query = argString(args, "clientId")
			}
			client, err := b.FindClient(query)
			if err != nil {
				return nil, err
			}
			return map[string]any{"id": client.ID, "name": client.Name}, nil
		},

		"create_task": func(ctx context.Context, args map[string]any) (any, error) {
			var due time.Time
			if t, ok := args["due"].(time.Time); ok {
				due = t
			}
			task, err := b.CreateTask(
				argString(args, "title"),
				argString(args, "client"),
				argString(args, "assignee"),
				due,
			)
			if err != nil {
				return nil, err
			}
			return map[string]any{"id": task.ID, "title": task.Title, "client": task.ClientID}, nil
		},

		"archive_task": func(ctx context.Context, args map[string]any) (any, error) {
			id := argString(args, "taskId")
			if err := b.Archive(id); err != nil {
				return nil, err
			}
			return map[string]any{"id": id, "archived": true}, nil
		},

		"team_workload": func(ctx context.Context, args map[string]any) (any, error) {
			return b.Workload(), nil
		},
	}
}
