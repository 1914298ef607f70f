package taskflows

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/domain"
)

// CreateTaskDefinition builds the task-creation process: collect title and
// client, resolve the client through a lookup tool, confirm, create, respond.
func CreateTaskDefinition() *domain.ProcessDefinition {
	return &domain.ProcessDefinition{
		ID:          "create_task",
		Name:        "Crear tarea",
		Description: "Crea una tarea para un cliente del equipo.",
		Version:     "1",
		InitialStep: "collect_info",
		Config: domain.ProcessConfig{
			RequiresConfirmation: true,
			AllowCancel:          true,
			Timeout:              10 * time.Minute,
		},
		Slots: []domain.ProcessSlot{
			{
				Name:            "title",
				Type:            domain.SlotString,
				Required:        true,
				ExtractFrom:     domain.SourceMessage,
				PromptIfMissing: "¿Cómo se llama la tarea?",
			},
			{
				Name:            "clientId",
				Type:            domain.SlotString,
				Required:        true,
				ExtractFrom:     domain.SourceMessage,
				PromptIfMissing: "¿Para qué cliente es esta tarea?",
			},
			{
				Name:        "dueDate",
				Type:        domain.SlotDate,
				ExtractFrom: domain.SourceMessage,
			},
		},
		Triggers: []domain.Trigger{
			{
				Kind:     domain.TriggerKeyword,
				Keywords: []string{"crear tarea", "nueva tarea", "create task"},
				Priority: 10,
			},
			{
				Kind:     domain.TriggerCommand,
				Commands: []string{"/tarea"},
				Priority: 20,
			},
		},
		Steps: []domain.Step{
			&domain.CollectStep{
				StepBase: domain.StepBase{ID: "collect_info", Next: "lookup_client"},
				Slots:    []string{"title", "clientId"},
			},
			&domain.ExecuteStep{
				StepBase: domain.StepBase{ID: "lookup_client", Next: "confirm_create"},
				Tool:     "find_client",
				Args:     map[string]any{"query": "$clientId"},
			},
			&domain.ConfirmStep{
				StepBase: domain.StepBase{ID: "confirm_create", Next: "create"},
				BuildMessage: func(pctx *domain.ProcessContext) string {
					name := clientName(pctx)
					return fmt.Sprintf("¿Confirmas crear la tarea '%v' para el cliente %s?", pctx.Slots["title"], name)
				},
			},
			&domain.ExecuteStep{
				StepBase: domain.StepBase{ID: "create", Next: "done"},
				Tool:     "create_task",
				BuildArgs: func(pctx *domain.ProcessContext) map[string]any {
					args := map[string]any{
						"title":  pctx.Slots["title"],
						"client": resolvedClientID(pctx),
					}
					if due, ok := pctx.Slots["dueDate"]; ok {
						args["due"] = due
					}
					return args
				},
			},
			&domain.RespondStep{
				StepBase: domain.StepBase{ID: "done"},
				Text:     "Tarea creada correctamente.",
			},
		},
	}
}

// TeamWorkloadDefinition builds the workload report process: one tool call,
// one rendered response.
func TeamWorkloadDefinition() *domain.ProcessDefinition {
	return &domain.ProcessDefinition{
		ID:          "team_workload",
		Name:        "Carga de trabajo",
		Description: "Muestra cuántas tareas abiertas tiene cada persona.",
		Version:     "1",
		InitialStep: "compute",
		Config: domain.ProcessConfig{
			AllowCancel: true,
			Timeout:     5 * time.Minute,
		},
		Triggers: []domain.Trigger{
			{
				Kind:     domain.TriggerKeyword,
				Keywords: []string{"carga de trabajo", "workload"},
				Priority: 10,
			},
		},
		Steps: []domain.Step{
			&domain.ExecuteStep{
				StepBase: domain.StepBase{ID: "compute", Next: "report"},
				Tool:     "team_workload",
				Args:     map[string]any{},
			},
			&domain.RespondStep{
				StepBase: domain.StepBase{ID: "report"},
				Build:    workloadReport,
			},
		},
	}
}

// ArchiveTaskDefinition builds the archive process, admin-gated by a trigger
// condition.
func ArchiveTaskDefinition() *domain.ProcessDefinition {
	return &domain.ProcessDefinition{
		ID:          "archive_task",
		Name:        "Archivar tarea",
		Description: "Archiva una tarea existente.",
		Version:     "1",
		InitialStep: "collect_task",
		Config: domain.ProcessConfig{
			RequiresConfirmation: true,
			AllowCancel:          true,
			Timeout:              5 * time.Minute,
		},
		Slots: []domain.ProcessSlot{
			{
				Name:            "taskId",
				Type:            domain.SlotID,
				Required:        true,
				ExtractFrom:     domain.SourceMessage,
				PromptIfMissing: "¿Qué tarea quieres archivar?",
			},
		},
		Triggers: []domain.Trigger{
			{
				Kind:     domain.TriggerPattern,
				Patterns: []string{`\barchivar?\b.*\btarea\b`, `\barchive\b.*\btask\b`},
				Priority: 10,
				Condition: func(user domain.UserContext) bool {
					return user.IsAdmin
				},
			},
		},
		Steps: []domain.Step{
			&domain.CollectStep{
				StepBase: domain.StepBase{ID: "collect_task", Next: "confirm_archive"},
				Slots:    []string{"taskId"},
			},
			&domain.ConfirmStep{
				StepBase: domain.StepBase{ID: "confirm_archive", Next: "archive"},
				Message:  "¿Confirmas archivar la tarea {taskId}?",
			},
			&domain.ExecuteStep{
				StepBase: domain.StepBase{ID: "archive", Next: "done"},
				Tool:     "archive_task",
				Args:     map[string]any{"taskId": "$taskId"},
			},
			&domain.RespondStep{
				StepBase: domain.StepBase{ID: "done"},
				Text:     "He archivado la tarea {taskId}.",
			},
		},
	}
}

func clientName(pctx *domain.ProcessContext) string {
	if res, ok := pctx.ToolResults["find_client"].(map[string]any); ok {
		if name, ok := res["name"].(string); ok {
			return name
		}
	}
	return fmt.Sprintf("%v", pctx.Slots["clientId"])
}

func resolvedClientID(pctx *domain.ProcessContext) any {
	if res, ok := pctx.ToolResults["find_client"].(map[string]any); ok {
		if id, ok := res["id"]; ok {
			return id
		}
	}
	return pctx.Slots["clientId"]
}

func workloadReport(pctx *domain.ProcessContext) string {
	counts, ok := pctx.ToolResults["team_workload"].(map[string]int)
	if !ok {
		return "No hay tareas registradas."
	}
	if len(counts) == 0 {
		return "No hay tareas registradas."
	}

	people := make([]string, 0, len(counts))
	for who := range counts {
		people = append(people, who)
	}
	sort.Strings(people)

	var sb strings.Builder
	sb.WriteString("Carga de trabajo del equipo:\n")
	for _, who := range people {
		fmt.Fprintf(&sb, "- %s: %d tareas\n", who, counts[who])
	}
	return strings.TrimRight(sb.String(), "\n")
}
