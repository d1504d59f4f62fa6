package config

import "time"

// EditorConfig holds all configurable editor rules and layout constants
type EditorConfig struct {
	// Node layout
	HorizontalPadding float64
	VerticalPadding   float64
	TitleInsetX       float64
	TitleInsetY       float64
	TitleDescGap      float64
	CornerRadius      float64

	// Text metrics used by the default measurer
	CharWidth  float64
	LineHeight float64

	// Interaction
	HandleHitRadius   float64
	ZoomStepFactor    float64
	HighlightDuration time.Duration

	// Edge shape
	CurveControlOffset float64

	// Scene constraints
	MaxNodesPerScene int
	MaxEdgesPerScene int

	// Validation settings
	AllowSelfConnections bool
	AllowDuplicateEdges  bool
}

// DefaultEditorConfig returns the default editor configuration
func DefaultEditorConfig() *EditorConfig {
	return &EditorConfig{
		// Node layout
		HorizontalPadding: 20,
		VerticalPadding:   30,
		TitleInsetX:       10,
		TitleInsetY:       10,
		TitleDescGap:      10,
		CornerRadius:      10,

		// Text metrics
		CharWidth:  8,
		LineHeight: 18,

		// Interaction
		HandleHitRadius:   20,
		ZoomStepFactor:    1.2,
		HighlightDuration: 500 * time.Millisecond,

		// Edge shape
		CurveControlOffset: 100,

		// Scene constraints
		MaxNodesPerScene: 10000,
		MaxEdgesPerScene: 50000,

		// Validation settings
		AllowSelfConnections: false,
		AllowDuplicateEdges:  true,
	}
}

// Validate checks if the configuration is valid
func (c *EditorConfig) Validate() error {
	return nil
}
