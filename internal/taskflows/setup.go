package taskflows

import (
	aurin "github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/domain"
)

// Setup registers the board's tools and the built-in definitions with an
// engine. The returned board backs every tool.
func Setup(engine *aurin.Engine) (*Board, error) {
	board := NewBoard()
	for name, fn := range board.Tools() {
		if err := engine.RegisterTool(name, fn); err != nil {
			return nil, err
		}
	}

	definitions := []*domain.ProcessDefinition{
		CreateTaskDefinition(),
		TeamWorkloadDefinition(),
		ArchiveTaskDefinition(),
	}
	for _, def := range definitions {
		if err := engine.RegisterProcess(def); err != nil {
			return nil, err
		}
	}
	return board, nil
}
