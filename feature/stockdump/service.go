package stockdump

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"

	"stocktake-manager/core/snapshot"
	"stocktake-manager/core/workspace"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

// Service ingests stock dumps into the active workspace.
type Service struct {
	ws     *workspace.Workspace
	logger *zap.Logger
}

// NewService creates a new stock dump ingestion service.
func NewService(ws *workspace.Workspace, logger *zap.Logger) *Service {
	return &Service{ws: ws, logger: logger}
}

// Ingest parses raw dump bytes and atomically replaces the workspace's stock
// snapshot. Dumps from the retailer's POS export arrive in Latin-1; anything
// that is not valid UTF-8 is decoded as such.
func (s *Service) Ingest(data []byte) (Report, error) {
	if !utf8.Valid(data) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return Report{}, fmt.Errorf("failed to decode stock dump: %w", err)
		}
		data = decoded
	}

	records, report, err := Parse(bytes.NewReader(data))
	if err != nil {
		return report, err
	}

	if err := s.ws.Ensure(); err != nil {
		return report, err
	}
	if err := snapshot.WriteStock(s.ws.StockFile(), records); err != nil {
		return report, err
	}

	s.logger.Info("Stock snapshot replaced",
		zap.Int("lines", report.Lines),
		zap.Int("records", report.Records),
		zap.Int("malformed", report.Malformed),
	)
	return report, nil
}

// IngestFile ingests a stock dump from disk.
func (s *Service) IngestFile(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read stock dump %s: %w", path, err)
	}
	return s.Ingest(data)
}
