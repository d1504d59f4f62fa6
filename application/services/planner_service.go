package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"voyager/application/ports"
	pkgerrors "voyager/pkg/errors"
)

// askTemplate frames the serialized graph for the plan converter. The
// gating instruction keeps the model from planning anything outside
// SAP GUI automation.
const askTemplate = `
Your task is to convert the tasks into step by step instructions in text format.
- If you find the instructions are related to SAP GUI then proceed.
- Else you must respond blank.

Here is the json data which contains nodal links.
%s
`

// conversionTimeout bounds a single plan-conversion call
const conversionTimeout = 120 * time.Second

// PlannerService drives the run trigger: it serializes the current
// flow, hands it to the planner, and pushes the returned text into the
// injected display sink. It never interprets the plan.
type PlannerService struct {
	editor  *EditorService
	planner ports.Planner
	sink    ports.PlanSink
	logger  *zap.Logger
}

// NewPlannerService creates a planner service
func NewPlannerService(
	editor *EditorService,
	planner ports.Planner,
	sink ports.PlanSink,
	logger *zap.Logger,
) *PlannerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlannerService{
		editor:  editor,
		planner: planner,
		sink:    sink,
		logger:  logger,
	}
}

// SetPlanner swaps the planner, e.g. after the provider changes in
// settings. A nil planner disables conversion.
func (p *PlannerService) SetPlanner(planner ports.Planner) {
	p.planner = planner
}

// SetSink binds the display sink once the window exists
func (p *PlannerService) SetSink(sink ports.PlanSink) {
	p.sink = sink
}

// ConvertFlow serializes the scene, builds the ask, and returns the
// converted plan. The scene is serialized in memory; the conversion
// path deliberately does not write the export file as a side effect.
func (p *PlannerService) ConvertFlow(ctx context.Context) (string, error) {
	if p.planner == nil {
		return "", pkgerrors.NewValidationError("no planner configured; select a provider in settings")
	}

	doc := p.editor.ExportDocument()
	ask := fmt.Sprintf(askTemplate, doc.PromptText())

	ctx, cancel := context.WithTimeout(ctx, conversionTimeout)
	defer cancel()

	p.logger.Info("converting flow to instructions",
		zap.Int("nodes", len(doc.Nodes)),
		zap.Int("edges", len(doc.Edges)),
	)

	plan, err := p.planner.ConvertToPlan(ctx, ask)
	if err != nil {
		return "", pkgerrors.Wrap(err, "convert flow")
	}

	return plan, nil
}

// ConvertAndShow runs ConvertFlow and pushes the result into the plan
// pane. Used by the toolbar action.
func (p *PlannerService) ConvertAndShow(ctx context.Context) error {
	plan, err := p.ConvertFlow(ctx)
	if err != nil {
		return err
	}

	if p.sink != nil {
		p.sink.ShowPlan(plan)
	}
	p.logger.Info("instructions updated")
	return nil
}

// RunAgent hands the current plan text to the automation side. Actual
// SAP GUI execution is outside this application; the handoff stops at
// logging what would run.
func (p *PlannerService) RunAgent(planText string) {
	p.logger.Info("agent start requested", zap.Int("plan_chars", len(planText)))
}
