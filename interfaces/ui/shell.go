package ui

import (
	"context"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"voyager/application/services"
	"voyager/domain/core/valueobjects"
	appconfig "voyager/infrastructure/config"
	"voyager/infrastructure/persistence/jsondoc"
	pkgerrors "voyager/pkg/errors"
	"voyager/pkg/observability"
)

// PlanPane implements ports.PlanSink without touching the toolkit. The
// widget attaches after the window exists; plan text arriving earlier
// is kept and replayed on attach.
type PlanPane struct {
	mu   sync.Mutex
	show func(text string)
	last string
}

// NewPlanPane creates an unattached pane
func NewPlanPane() *PlanPane {
	return &PlanPane{}
}

// ShowPlan implements ports.PlanSink
func (p *PlanPane) ShowPlan(text string) {
	p.mu.Lock()
	p.last = text
	show := p.show
	p.mu.Unlock()

	if show != nil {
		show(text)
	}
}

// Attach binds the display function and replays the last plan
func (p *PlanPane) Attach(show func(text string)) {
	p.mu.Lock()
	p.show = show
	last := p.last
	p.mu.Unlock()

	if show != nil && last != "" {
		show(last)
	}
}

// Last returns the most recent plan text
func (p *PlanPane) Last() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Shell is the desktop window: the flow canvas on the left, the plan
// and console panes on the right, and the toolbar across the top.
type Shell struct {
	cfg     *appconfig.Config
	editor  *services.EditorService
	planner *services.PlannerService

	planPane    *PlanPane
	consoleSink *observability.PaneSink
	watcher     *jsondoc.Watcher
	logger      *zap.Logger

	fyneApp    fyne.App
	window     fyne.Window
	flowCanvas *FlowCanvas
	controller *Controller
}

// NewShell assembles the shell. Run must be called on the main goroutine.
func NewShell(
	cfg *appconfig.Config,
	editor *services.EditorService,
	planner *services.PlannerService,
	planPane *PlanPane,
	consoleSink *observability.PaneSink,
	watcher *jsondoc.Watcher,
	logger *zap.Logger,
) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shell{
		cfg:         cfg,
		editor:      editor,
		planner:     planner,
		planPane:    planPane,
		consoleSink: consoleSink,
		watcher:     watcher,
		logger:      logger,
	}
}

// Run builds the window and blocks until it closes
func (s *Shell) Run() {
	s.fyneApp = app.NewWithID("voyager")
	s.window = s.fyneApp.NewWindow("Voyager Flow Builder")
	s.window.Resize(fyne.NewSize(1280, 800))

	scene := s.editor.Scene()

	// Deferred callbacks (the highlight flash) land back on the event
	// loop through fyne.Do; the id liveness check happens inside the
	// scheduled callback itself.
	scheduler := func(delay time.Duration, fn func()) {
		time.AfterFunc(delay, func() {
			fyne.Do(func() {
				fn()
				s.flowCanvas.Refresh()
			})
		})
	}

	s.controller = NewController(scene, scheduler, s.logger)
	s.flowCanvas = NewFlowCanvas(scene, s.controller, s.logger)
	s.flowCanvas.OnEditNode = s.showEditNodeDialog

	scene.SetTextMeasurer(fyneTextMeasurer(scene.Config().LineHeight))

	planView := widget.NewLabel("")
	planView.Wrapping = fyne.TextWrapWord
	s.planPane.Attach(func(text string) {
		fyne.Do(func() {
			planView.SetText(text)
		})
	})

	consoleView := widget.NewLabel("")
	consoleView.Wrapping = fyne.TextWrapWord
	consoleView.TextStyle = fyne.TextStyle{Monospace: true}
	s.consoleSink.Attach(func(line string) {
		fyne.Do(func() {
			consoleView.SetText(consoleView.Text + line)
		})
	})

	right := container.NewVSplit(
		container.NewScroll(planView),
		container.NewScroll(consoleView),
	)
	right.SetOffset(0.65)

	split := container.NewHSplit(s.flowCanvas, right)
	split.SetOffset(0.7)

	s.window.SetContent(container.NewBorder(s.buildToolbar(), nil, nil, nil, split))

	s.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyDelete || ev.Name == fyne.KeyBackspace {
			s.deleteSelection()
		}
	})

	s.startWatcher()

	s.window.ShowAndRun()
}

func (s *Shell) buildToolbar() *widget.Toolbar {
	return widget.NewToolbar(
		widget.NewToolbarAction(theme.SettingsIcon(), s.showSettingsDialog),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentAddIcon(), s.addNode),
		widget.NewToolbarAction(theme.DeleteIcon(), s.deleteSelection),
		widget.NewToolbarAction(theme.ContentClearIcon(), s.clearScene),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), s.exportDocument),
		widget.NewToolbarAction(theme.FolderOpenIcon(), s.importDocument),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.MediaPlayIcon(), s.convertFlow),
		widget.NewToolbarAction(theme.MediaSkipNextIcon(), s.runAgent),
	)
}

// Toolbar actions

func (s *Shell) addNode() {
	if _, err := s.editor.AddNode(s.flowCanvas.ViewCenterScene()); err != nil {
		s.notifyError(err)
		return
	}
	s.flowCanvas.Refresh()
}

func (s *Shell) deleteSelection() {
	s.editor.DeleteNodes(s.flowCanvas.SelectedNodes())
	s.editor.DeleteEdges(s.flowCanvas.SelectedEdges())
	s.flowCanvas.ClearSelection()
}

func (s *Shell) clearScene() {
	dialog.ShowConfirm("Clear flow", "Remove every node and edge?", func(confirmed bool) {
		if !confirmed {
			return
		}
		s.editor.Clear()
		s.flowCanvas.ClearSelection()
	}, s.window)
}

func (s *Shell) exportDocument() {
	if err := s.editor.Export(s.cfg.DocumentPath); err != nil {
		s.notifyError(err)
		return
	}
	s.Info("Export", "Flow written to "+s.cfg.DocumentPath)
}

func (s *Shell) importDocument() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			s.notifyError(err)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()
		s.importFrom(path)
	}, s.window)
}

func (s *Shell) importFrom(path string) {
	result, err := s.editor.Import(path)
	if err != nil {
		s.notifyError(err)
		return
	}
	s.flowCanvas.ClearSelection()
	if result.EdgesSkipped > 0 {
		s.Warn("Import", "Some edges referenced missing nodes and were skipped.")
	}
}

func (s *Shell) convertFlow() {
	go func() {
		err := s.planner.ConvertAndShow(context.Background())
		fyne.Do(func() {
			if err != nil {
				s.notifyError(err)
			}
		})
	}()
}

func (s *Shell) runAgent() {
	plan := s.planPane.Last()
	if plan == "" {
		s.Info("Run agent", "Convert the flow to instructions first.")
		return
	}
	s.planner.RunAgent(plan)
}

// Dialogs

func (s *Shell) showEditNodeDialog(id valueobjects.NodeID) {
	scene := s.editor.Scene()
	node, err := scene.Node(id)
	if err != nil {
		return
	}

	titleEntry := widget.NewEntry()
	titleEntry.SetText(node.Content().Title())
	descEntry := widget.NewMultiLineEntry()
	descEntry.SetText(node.Content().Description())

	form := []*widget.FormItem{
		widget.NewFormItem("Title", titleEntry),
		widget.NewFormItem("Description", descEntry),
	}

	dialog.ShowForm("Edit node", "Save", "Cancel", form, func(confirmed bool) {
		if !confirmed {
			return
		}
		content, err := valueobjects.NewNodeContent(titleEntry.Text, descEntry.Text)
		if err != nil {
			s.notifyError(err)
			return
		}
		if err := scene.EditNodeContent(id, content); err != nil {
			s.notifyError(err)
			return
		}
		s.flowCanvas.Refresh()
	}, s.window)
}

// Watcher

func (s *Shell) startWatcher() {
	if s.watcher == nil {
		return
	}
	err := s.watcher.Start(func(path string) {
		fyne.Do(func() {
			dialog.ShowConfirm("Document changed",
				"The flow file changed on disk. Reload it?",
				func(confirmed bool) {
					if confirmed {
						s.importFrom(path)
						s.flowCanvas.Refresh()
					}
				}, s.window)
		})
	})
	if err != nil {
		s.logger.Warn("document watcher not started", zap.Error(err))
	}
}

// Notifier

// Info implements ports.Notifier
func (s *Shell) Info(title, message string) {
	dialog.ShowInformation(title, message, s.window)
}

// Warn implements ports.Notifier
func (s *Shell) Warn(title, message string) {
	dialog.ShowInformation(title, message, s.window)
}

// notifyError logs an error and raises a dialog when the error carries
// user-facing text.
func (s *Shell) notifyError(err error) {
	s.logger.Error("operation failed", zap.Error(err))
	if notice := pkgerrors.UserNotice(err); notice != "" {
		dialog.ShowError(err, s.window)
		return
	}
	if pkgerrors.IsValidation(err) || pkgerrors.IsNotFound(err) {
		dialog.ShowError(err, s.window)
	}
}

// fyneTextMeasurer measures text with real font metrics. Width comes
// from the rendered string; height stays on the fixed line grid so text
// offsets and the bounding rectangle agree.
func fyneTextMeasurer(lineHeight float64) func(text string) valueobjects.Size {
	return func(text string) valueobjects.Size {
		lines := 1
		widest := float32(0)
		start := 0
		measure := func(line string) {
			size := fyne.MeasureText(line, float32(lineHeight)*0.75, fyne.TextStyle{})
			if size.Width > widest {
				widest = size.Width
			}
		}
		for i, r := range text {
			if r == '\n' {
				measure(text[start:i])
				start = i + 1
				lines++
			}
		}
		measure(text[start:])
		return valueobjects.Size{
			Width:  float64(widest),
			Height: float64(lines) * lineHeight,
		}
	}
}
