package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"finbot/internal/insights"
)

var header = []string{"generated_at", "symbol", "price_summary", "fundamentals", "news", "insights"}

// WriteCSV exports one insights report as a single-row CSV file, creating
// or truncating the file at path.
func WriteCSV(path string, rep insights.Report) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := []string{
		rep.GeneratedAt.Format(time.RFC3339),
		rep.Symbol,
		rep.PriceSummary,
		rep.Fundamentals,
		rep.News,
		rep.Insights,
	}
	if err := writer.Write(row); err != nil {
		return fmt.Errorf("write row: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return file.Close()
}
