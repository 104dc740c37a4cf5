package outwriter

import (
	"io"

	"github.com/huangsam/learnstat/internal/parquet"
	"github.com/huangsam/learnstat/schema"
)

// writeParquetDashboard writes the day series as Parquet rows.
func writeParquetDashboard(w io.Writer, dash schema.Dashboard) error {
	return parquet.WriteSeries(w, dash.Points)
}
