package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"angelone-connect/internal/types"
)

var ist = time.FixedZone("IST", 19800)

// Result summarizes one CSV export.
type Result struct {
	Path    string
	Written int
	Skipped int
}

// WriteCandlesCSV decodes records and writes them to path, one row per candle.
// Records that do not have the usual OHLCV shape are skipped and counted.
// Nothing is written when no record decodes.
func WriteCandlesCSV(path, symbol string, records []types.CandleRecord) (Result, error) {
	res := Result{Path: path}

	candles := make([]types.Candle, 0, len(records))
	for _, rec := range records {
		c, err := types.DecodeCandle(rec)
		if err != nil {
			res.Skipped++
			continue
		}
		candles = append(candles, c)
	}
	if len(candles) == 0 {
		res.Path = ""
		return res, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return res, err
	}
	out, err := os.Create(path)
	if err != nil {
		return res, err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write([]string{"symbol", "timestamp", "open", "high", "low", "close", "volume"}); err != nil {
		return res, err
	}
	for _, c := range candles {
		rec := []string{
			symbol,
			time.Unix(c.Ts, 0).In(ist).Format(time.RFC3339),
			formatPrice(c.Open),
			formatPrice(c.High),
			formatPrice(c.Low),
			formatPrice(c.Close),
			strconv.FormatFloat(c.Vol, 'f', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return res, err
		}
		res.Written++
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return res, err
	}
	return res, out.Close()
}

// formatPrice keeps every digit the upstream sent; CDS quotes tick in 0.0025.
func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
