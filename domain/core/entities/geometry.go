package entities

import (
	"voyager/domain/config"
	"voyager/domain/core/valueobjects"
)

// HandleIndex identifies one of a node's two fixed connection points
type HandleIndex int

const (
	// HandleInput is the top-center handle (index 0)
	HandleInput HandleIndex = 0
	// HandleOutput is the bottom-center handle (index 1)
	HandleOutput HandleIndex = 1
)

// IsValid reports whether the index names a real handle
func (h HandleIndex) IsValid() bool {
	return h == HandleInput || h == HandleOutput
}

// TextMeasurer computes the rendered size of a block of text.
// The core ships a deterministic monospace approximation; the UI layer
// substitutes real font metrics.
type TextMeasurer func(text string) valueobjects.Size

// DefaultTextMeasurer returns the cell-based measurer: the longest line
// times CharWidth wide, the line count times LineHeight tall.
func DefaultTextMeasurer(cfg *config.EditorConfig) TextMeasurer {
	return func(text string) valueobjects.Size {
		lines := 1
		longest := 0
		current := 0
		for _, r := range text {
			if r == '\n' {
				lines++
				current = 0
				continue
			}
			current++
			if current > longest {
				longest = current
			}
		}
		return valueobjects.Size{
			Width:  float64(longest) * cfg.CharWidth,
			Height: float64(lines) * cfg.LineHeight,
		}
	}
}

// Layout bundles the editor constants with a text measurer. Geometry is
// recomputed on every query because node text can change live.
type Layout struct {
	Config  *config.EditorConfig
	Measure TextMeasurer
}

// NewLayout creates a layout with the default measurer
func NewLayout(cfg *config.EditorConfig) Layout {
	return Layout{Config: cfg, Measure: DefaultTextMeasurer(cfg)}
}

// BoundingRect returns the node-local bounding rectangle:
// max(title width, description width) plus horizontal padding wide,
// title height plus description height plus vertical padding tall.
func (l Layout) BoundingRect(content valueobjects.NodeContent) valueobjects.Rect {
	title := l.Measure(content.Title())
	desc := l.Measure(content.Description())

	width := title.Width
	if desc.Width > width {
		width = desc.Width
	}
	width += l.Config.HorizontalPadding
	height := title.Height + desc.Height + l.Config.VerticalPadding

	return valueobjects.NewRect(0, 0, width, height)
}

// HandlePosition returns a handle position in node-local coordinates:
// input at top-center, output at bottom-center of the bounding rect.
func (l Layout) HandlePosition(content valueobjects.NodeContent, index HandleIndex) valueobjects.Position {
	rect := l.BoundingRect(content)
	switch index {
	case HandleInput:
		return rect.TopCenter()
	case HandleOutput:
		return rect.BottomCenter()
	}
	return valueobjects.Position{}
}

// TitleOffset returns the node-local position of the title text
func (l Layout) TitleOffset() valueobjects.Position {
	return valueobjects.NewPosition(l.Config.TitleInsetX, l.Config.TitleInsetY)
}

// DescriptionOffset returns the node-local position of the description
// text, directly below the title with a fixed gap.
func (l Layout) DescriptionOffset(content valueobjects.NodeContent) valueobjects.Position {
	title := l.Measure(content.Title())
	return valueobjects.NewPosition(
		l.Config.TitleInsetX,
		l.Config.TitleInsetY+title.Height+l.Config.TitleDescGap,
	)
}
