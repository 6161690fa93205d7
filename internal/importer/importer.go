package importer

import (
	"context"

	"github.com/alexivanou/weather-requests-api/internal/model"
	"go.uber.org/zap"
)

// Sink stores parsed rows for a user.
type Sink interface {
	ImportWeatherRequests(ctx context.Context, userID int64, rows []model.ImportRow) (*model.ImportResult, error)
}

// Importer feeds a parsed file into a Sink batch by batch.
type Importer struct {
	parser *Parser
	sink   Sink
	logger *zap.Logger
}

func NewImporter(parser *Parser, sink Sink, logger *zap.Logger) *Importer {
	return &Importer{parser: parser, sink: sink, logger: logger}
}

// Run imports path for userID. Parse and resolution failures are collected
// in the result; storage errors abort the run.
func (i *Importer) Run(ctx context.Context, path string, userID int64) (*model.ImportResult, error) {
	total := &model.ImportResult{Failures: []model.ImportFailure{}}

	parseFailures, err := i.parser.ProcessFile(path, func(batch []model.ImportRow) error {
		res, err := i.sink.ImportWeatherRequests(ctx, userID, batch)
		if err != nil {
			return err
		}
		total.Imported += res.Imported
		total.Failures = append(total.Failures, res.Failures...)
		i.logger.Info("Imported batch",
			zap.Int("rows", len(batch)),
			zap.Int("imported", res.Imported),
			zap.Int("failed", len(res.Failures)),
		)
		return nil
	})
	total.Failures = append(total.Failures, parseFailures...)
	if err != nil {
		return total, err
	}

	for _, f := range total.Failures {
		i.logger.Warn("Skipped line", zap.Int("line", f.Line), zap.String("error", f.Error))
	}
	return total, nil
}
