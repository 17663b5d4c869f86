package counts

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"stocktake-manager/core/snapshot"
	"stocktake-manager/core/workspace"

	"go.uber.org/zap"
)

// Service ingests operator count files into the active workspace.
type Service struct {
	ws     *workspace.Workspace
	logger *zap.Logger
}

// NewService creates a new count ingestion service.
func NewService(ws *workspace.Workspace, logger *zap.Logger) *Service {
	return &Service{ws: ws, logger: logger}
}

// Ingest normalizes a raw count file and persists the result as a new
// immutable, timestamp-named snapshot. The raw upload is also kept verbatim
// in the workspace imports directory for auditing. Returns the snapshot name.
func (s *Service) Ingest(name string, data []byte) (string, Report, error) {
	rows, err := ReadTable(name, data)
	if err != nil {
		return "", Report{}, err
	}

	records, report, err := Normalize(rows)
	if err != nil {
		return "", report, err
	}

	if err := s.ws.Ensure(); err != nil {
		return "", report, err
	}

	if err := s.keepOriginal(name, data); err != nil {
		return "", report, err
	}

	snapName, err := snapshot.WriteCountSnapshot(s.ws.CountSnapshotDir(), records)
	if err != nil {
		return "", report, err
	}

	s.logger.Info("Count snapshot ingested",
		zap.String("snapshot", snapName),
		zap.Int("rows", report.Rows),
		zap.Int("accepted", report.Accepted),
		zap.Int("skipped", report.Skipped),
	)
	return snapName, report, nil
}

// IngestFile ingests a count file from disk.
func (s *Service) IngestFile(path string) (string, Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", Report{}, fmt.Errorf("failed to read count file %s: %w", path, err)
	}
	return s.Ingest(filepath.Base(path), data)
}

func (s *Service) keepOriginal(name string, data []byte) error {
	stamp := time.Now().UTC().Format("20060102_150405")
	dest := filepath.Join(s.ws.ImportsDir(), fmt.Sprintf("import_%s_%s", stamp, filepath.Base(name)))
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("failed to keep original count file: %w", err)
	}
	return nil
}
