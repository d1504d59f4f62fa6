// Package ports defines the interfaces the application layer depends
// on. Implementations live in infrastructure; the UI receives them by
// injection rather than looking anything up globally.
package ports

import (
	"context"

	"voyager/infrastructure/persistence/jsondoc"
)

// DocumentStore reads and writes flow documents
type DocumentStore interface {
	Read(path string) (*jsondoc.Document, error)
	Write(path string, doc *jsondoc.Document) error
}

// Planner converts an assembled ask — free text plus the serialized
// graph — into a natural-language execution plan. The editor displays
// the result verbatim and never interprets it.
type Planner interface {
	ConvertToPlan(ctx context.Context, ask string) (string, error)
}

// PlanSink receives plan text for display. The shell's plan pane
// implements this; injecting it keeps the conversion path free of
// global window lookups.
type PlanSink interface {
	ShowPlan(text string)
}

// Notifier surfaces user-facing notices and errors as dialogs
type Notifier interface {
	Info(title, message string)
	Warn(title, message string)
}
