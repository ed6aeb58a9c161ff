package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"finbot/internal/insights"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "financial_insights_AAPL.csv")

	rep := insights.Report{
		Symbol:       "AAPL",
		GeneratedAt:  time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC),
		PriceSummary: "Price trend (60d): uptrend, change: 4.20%",
		Fundamentals: "Company: Apple Inc.\nIndustry: Consumer Electronics",
		News:         "Recent news:\n- headline (site) 2024-01-04",
		Insights:     "1) Market summary\n2) Key risks\n3) Opportunities",
	}
	require.NoError(t, WriteCSV(path, rep))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() {
		_ = file.Close()
	}()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, header, rows[0])
	assert.Equal(t, "2024-01-05T12:00:00Z", rows[1][0])
	assert.Equal(t, "AAPL", rows[1][1])
	// Multi-line fields survive the quoting round trip.
	assert.Contains(t, rows[1][3], "Consumer Electronics")
}
