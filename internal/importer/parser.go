// Package importer loads weather requests in bulk from tab-separated files.
//
// Each line is: location_name, start_date, end_date and optionally notes,
// latitude and longitude. Blank lines, lines starting with '#' and a
// location_name header are skipped. A .zip holding one such file is read
// transparently.
package importer

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexivanou/weather-requests-api/internal/config"
	"github.com/alexivanou/weather-requests-api/internal/model"
)

const (
	defaultBatchSize = 100
	minColumns       = 3
)

// Parser parses import files
type Parser struct {
	batchSize int
}

// NewParser creates a new parser instance with config
func NewParser(cfg config.ImporterConfig) *Parser {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Parser{batchSize: batchSize}
}

// ProcessFile streams path in batches to callback. Lines that cannot be
// parsed are returned as failures; they never reach callback.
func (p *Parser) ProcessFile(path string, callback func(batch []model.ImportRow) error) ([]model.ImportFailure, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return p.processZip(path, callback)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	return p.Process(file, callback)
}

func (p *Parser) processZip(path string, callback func(batch []model.ImportRow) error) ([]model.ImportFailure, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if strings.HasSuffix(f.Name, ".tsv") || strings.HasSuffix(f.Name, ".txt") {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("failed to open file in zip: %w", err)
			}
			defer rc.Close()
			return p.Process(rc, callback)
		}
	}

	return nil, fmt.Errorf("no .tsv or .txt file found in zip")
}

// Process streams reader in batches to callback
func (p *Parser) Process(reader io.Reader, callback func(batch []model.ImportRow) error) ([]model.ImportFailure, error) {
	scanner := bufio.NewScanner(reader)
	batch := make([]model.ImportRow, 0, p.batchSize)
	failures := []model.ImportFailure{}

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "location_name\t") {
			continue
		}

		req, err := parseLine(line)
		if err != nil {
			failures = append(failures, model.ImportFailure{Line: lineNo, Error: err.Error()})
			continue
		}
		batch = append(batch, model.ImportRow{Line: lineNo, Request: req})

		if len(batch) >= p.batchSize {
			if err := callback(batch); err != nil {
				return failures, fmt.Errorf("batch callback error: %w", err)
			}
			batch = make([]model.ImportRow, 0, p.batchSize)
		}
	}

	if err := scanner.Err(); err != nil {
		return failures, fmt.Errorf("failed to scan import file: %w", err)
	}

	if len(batch) > 0 {
		if err := callback(batch); err != nil {
			return failures, fmt.Errorf("batch callback error: %w", err)
		}
	}

	return failures, nil
}

func parseLine(line string) (model.CreateWeatherRequest, error) {
	parts := strings.Split(line, "\t")
	if len(parts) < minColumns {
		return model.CreateWeatherRequest{}, fmt.Errorf("expected at least %d columns, got %d", minColumns, len(parts))
	}

	req := model.CreateWeatherRequest{LocationName: strings.TrimSpace(parts[0])}
	if req.LocationName == "" {
		return req, fmt.Errorf("location_name is empty")
	}

	var err error
	if req.StartDate, err = model.ParseDate(strings.TrimSpace(parts[1])); err != nil {
		return req, err
	}
	if req.EndDate, err = model.ParseDate(strings.TrimSpace(parts[2])); err != nil {
		return req, err
	}
	if len(parts) > 3 {
		req.Notes = strings.TrimSpace(parts[3])
	}

	if len(parts) > 5 && parts[4] != "" && parts[5] != "" {
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[4]), 64)
		if err != nil {
			return req, fmt.Errorf("invalid latitude %q", parts[4])
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[5]), 64)
		if err != nil {
			return req, fmt.Errorf("invalid longitude %q", parts[5])
		}
		req.Latitude, req.Longitude = &lat, &lon
	}

	return req, nil
}
