package store

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/rijenmdr/Web-Performance-Datasets/internal/psi"
)

// csvHeader is the stable column set; every record carries the same schema,
// so the union of fields across records is exactly this list. Absent metrics
// render as empty cells.
var csvHeader = []string{
	"requested_url",
	"final_url",
	"ttfb_ms",
	"fcp_ms",
	"lcp_ms",
	"speed_index_ms",
	"tbt_ms",
	"tti_ms",
	"requests",
	"page_size_kb",
	"js_execution_ms",
	"load_time_ms",
}

func (d *Dataset) writeCSV(records []psi.Record) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(csvRow(rec)); err != nil {
			return fmt.Errorf("write csv row for %s: %w", rec.RequestedURL, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	if err := writeFileAtomic(d.csvPath, buf.Bytes()); err != nil {
		return fmt.Errorf("write csv dataset: %w", err)
	}
	return nil
}

func csvRow(rec psi.Record) []string {
	return []string{
		rec.RequestedURL,
		rec.FinalURL,
		formatMetric(rec.TTFBMs),
		formatMetric(rec.FCPMs),
		formatMetric(rec.LCPMs),
		formatMetric(rec.SpeedIndexMs),
		formatMetric(rec.TBTMs),
		formatMetric(rec.TTIMs),
		strconv.Itoa(rec.Requests),
		formatMetric(rec.PageSizeKB),
		formatMetric(rec.JSExecutionMs),
		formatMetric(rec.LoadTimeMs),
	}
}

func formatMetric(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
