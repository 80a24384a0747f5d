package excel

import (
	"sync"

	"github.com/example/ballethq/pkg/logger"
	"github.com/example/ballethq/pkg/models"
	"go.uber.org/zap"
)

// Store serves the questions of one workbook, reading each sheet at most once.
// Failed loads are not cached so a fixed workbook is picked up on the next request.
type Store struct {
	path   string
	mu     sync.Mutex
	sheets map[string][]models.Question
}

// NewStore creates a store over the workbook at path
func NewStore(path string) *Store {
	return &Store{
		path:   path,
		sheets: make(map[string][]models.Question),
	}
}

// Path returns the workbook location
func (s *Store) Path() string {
	return s.path
}

// Questions returns the questions of a sheet. The returned slice must not be modified.
func (s *Store) Questions(sheet string) ([]models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qs, ok := s.sheets[sheet]; ok {
		return qs, nil
	}

	qs, err := LoadQuestions(ImportConfig{FilePath: s.path, SheetName: sheet})
	if err != nil {
		logger.Log.Error("Failed to load sheet", zap.String("sheet", sheet), zap.String("workbook", s.path), zap.Error(err))
		return nil, err
	}

	logger.Log.Info("Loaded sheet", zap.String("sheet", sheet), zap.Int("questions", len(qs)))
	s.sheets[sheet] = qs
	return qs, nil
}

// Reload drops every cached sheet
func (s *Store) Reload() {
	s.mu.Lock()
	s.sheets = make(map[string][]models.Question)
	s.mu.Unlock()
}
