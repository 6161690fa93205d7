package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/alexivanou/weather-requests-api/internal/config"
	"github.com/alexivanou/weather-requests-api/internal/database"
	"github.com/alexivanou/weather-requests-api/internal/openmeteo"
	"github.com/alexivanou/weather-requests-api/internal/stats"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	db, err := database.Connect(context.Background(), cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	logger.Info("Collecting statistics...", zap.String("db_type", string(cfg.DB.Type)))

	client := openmeteo.NewClient(cfg.Weather, logger.Named("openmeteo"))
	collector := stats.NewCollector(db, cfg.DB).WithUpstream(client)

	ctx := context.Background()
	statistics, err := collector.Collect(ctx)
	if err != nil {
		logger.Fatal("Failed to collect statistics", zap.Error(err))
	}

	outputFormat := os.Getenv("OUTPUT_FORMAT")
	if outputFormat == "" {
		outputFormat = "json"
	}

	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(statistics); err != nil {
			logger.Fatal("Failed to encode statistics", zap.Error(err))
		}
	case "text", "human":
		printHumanReadable(os.Stdout, statistics)
	default:
		logger.Fatal("Unknown output format", zap.String("format", outputFormat))
	}
}

func printHumanReadable(w io.Writer, s *stats.Stats) {
	fmt.Fprintln(w, "=== Application Statistics ===")
	fmt.Fprintf(w, "Timestamp: %s\n", s.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "--- Memory Statistics ---")
	fmt.Fprintf(w, "Allocated:        %s\n", formatBytes(s.Memory.Alloc))
	fmt.Fprintf(w, "Total Allocated:  %s\n", formatBytes(s.Memory.TotalAlloc))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "--- Database Statistics ---")
	fmt.Fprintf(w, "Type:            %s\n", s.Database.Type)
	fmt.Fprintf(w, "Total Records:   %d\n", s.Database.TotalRecords)
	fmt.Fprintf(w, "Active Sessions: %d\n", s.Database.ActiveSessions)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Table Statistics:")
	for _, ts := range s.Database.TableStats {
		fmt.Fprintf(w, "  %-25s: %10d rows", ts.Name, ts.RowCount)
		if ts.SizeBytes > 0 {
			fmt.Fprintf(w, " (%s)", formatBytes(uint64(ts.SizeBytes)))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "--- Open-Meteo Circuit Breakers ---")
	names := make([]string, 0, len(s.Upstream))
	for name := range s.Upstream {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-25s: %s\n", name, s.Upstream[name])
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "--- Runtime Statistics ---")
	fmt.Fprintf(w, "Goroutines:      %d\n", s.Runtime.NumGoroutines)
	fmt.Fprintf(w, "Uptime:          %ds\n", s.Runtime.UptimeSeconds)
}

func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
