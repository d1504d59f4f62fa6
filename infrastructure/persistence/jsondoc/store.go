package jsondoc

import (
	"os"

	"go.uber.org/zap"

	pkgerrors "voyager/pkg/errors"
)

// Store reads and writes document files. Operations are synchronous;
// the editor blocks on file-system latency and nothing else.
type Store struct {
	logger *zap.Logger
}

// NewStore creates a document store
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{logger: logger}
}

// Read loads and decodes a document file. Any failure — missing file,
// unreadable file, malformed JSON — is reported without the caller's
// scene having been touched.
func (s *Store) Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.NewIOError("read document", err)
	}

	doc, err := Decode(data)
	if err != nil {
		return nil, err
	}

	s.logger.Info("loaded document",
		zap.String("path", path),
		zap.Int("nodes", len(doc.Nodes)),
		zap.Int("edges", len(doc.Edges)),
	)
	return doc, nil
}

// Write encodes the document as indented JSON and writes it to path
func (s *Store) Write(path string, doc *Document) error {
	data, err := doc.Encode()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return pkgerrors.NewIOError("write document", err)
	}

	s.logger.Info("exported document",
		zap.String("path", path),
		zap.Int("nodes", len(doc.Nodes)),
		zap.Int("edges", len(doc.Edges)),
	)
	return nil
}
