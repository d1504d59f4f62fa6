// Package di wires the application object graph. The container is
// built once at startup; the UI shell receives its pieces from here
// instead of looking anything up globally.
package di

import (
	"go.uber.org/zap"

	"voyager/application/ports"
	"voyager/application/services"
	domainconfig "voyager/domain/config"
	"voyager/domain/core/aggregates"
	"voyager/infrastructure/config"
	"voyager/infrastructure/llm"
	"voyager/infrastructure/persistence/jsondoc"
	"voyager/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	ConsoleSink *observability.PaneSink
	Scene       *aggregates.Scene
	Codec       *jsondoc.Codec
	Store       ports.DocumentStore
	Editor      *services.EditorService
	Planner     ports.Planner
	PlannerSvc  *services.PlannerService
	Watcher     *jsondoc.Watcher
}

// ProvideEditorConfig supplies the editor layout and interaction rules
func ProvideEditorConfig() *domainconfig.EditorConfig {
	return domainconfig.DefaultEditorConfig()
}

// ProvideConsoleSink creates the sink that feeds the UI console pane
func ProvideConsoleSink() *observability.PaneSink {
	return observability.NewPaneSink()
}

// ProvideLogger creates the application logger: console, newest-first
// log file, and the console pane sink.
func ProvideLogger(cfg *config.Config, sink *observability.PaneSink) (*zap.Logger, error) {
	return observability.NewLogger(observability.LogConfig{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
		FilePath:    cfg.LogFile,
	}, sink)
}

// ProvideScene creates the empty scene
func ProvideScene(editorCfg *domainconfig.EditorConfig) *aggregates.Scene {
	return aggregates.NewScene(editorCfg)
}

// ProvideCodec creates the document codec
func ProvideCodec(logger *zap.Logger) *jsondoc.Codec {
	return jsondoc.NewCodec(logger)
}

// ProvideStore creates the document store
func ProvideStore(logger *zap.Logger) ports.DocumentStore {
	return jsondoc.NewStore(logger)
}

// ProvideEditorService creates the editor service
func ProvideEditorService(
	scene *aggregates.Scene,
	codec *jsondoc.Codec,
	store ports.DocumentStore,
	logger *zap.Logger,
) *services.EditorService {
	return services.NewEditorService(scene, codec, store, logger)
}

// ProvidePlanner builds the planner for the configured provider. With
// no provider selected this is nil and conversion reports a notice.
func ProvidePlanner(cfg *config.Config, logger *zap.Logger) (ports.Planner, error) {
	return llm.NewPlannerFromConfig(cfg, logger)
}

// ProvidePlannerService creates the planner service. The display sink
// attaches later, once the window exists.
func ProvidePlannerService(
	editor *services.EditorService,
	planner ports.Planner,
	logger *zap.Logger,
) *services.PlannerService {
	return services.NewPlannerService(editor, planner, nil, logger)
}

// ProvideWatcher creates the document file watcher
func ProvideWatcher(cfg *config.Config, logger *zap.Logger) (*jsondoc.Watcher, error) {
	return jsondoc.NewWatcher(cfg.DocumentPath, logger)
}
