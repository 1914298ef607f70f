// Package aurin implements a structured process executor for conversational
// assistants: a deterministic, session-scoped state machine that handles
// well-defined multi-turn tasks (create a task, show team workload) without
// invoking a language model on every turn.
//
// Incoming text is first offered to the executor via Engine.ProcessMessage;
// only when no registered process claims the message (nil result) does the
// caller route the turn to its language-model fallback.
//
// A minimal host looks like this:
//
//	engine := aurin.New(aurin.WithLogger(logger))
//	engine.RegisterTool("create_task", createTask)
//	if err := engine.RegisterProcess(createTaskDefinition()); err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := engine.ProcessMessage(ctx, domain.IncomingMessage{
//		Message:   "crear tarea revisión para aurin",
//		SessionID: "s1",
//		UserID:    "u1",
//	})
//	if result == nil && err == nil {
//		// defer to the LLM loop
//	}
package aurin
