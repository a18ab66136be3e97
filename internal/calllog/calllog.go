package calllog

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var mu sync.Mutex

var ist = time.FixedZone("IST", 19800)

// Entry is one journaled API call. Tokens and credentials never go here.
type Entry struct {
	Time       string
	Op         string
	Exchange   string  `json:",omitempty"`
	Symbol     string  `json:",omitempty"`
	Status     string
	Message    string  `json:",omitempty"`
	DurationMs int64
	Count      int     `json:",omitempty"`
	Value      float64 `json:",omitempty"`
}

const (
	StatusOK     = "OK"
	StatusEmpty  = "EMPTY"
	StatusFailed = "FAILED"
)

func logDir() string {
	if v := os.Getenv("ANGEL_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

func dailyFilepath(t time.Time) string {
	return filepath.Join(logDir(), t.In(ist).Format("2006-01-02")+".txt")
}

// Append writes e as one JSON line to today's journal (IST day) and returns the path.
func Append(e Entry) (string, error) {
	mu.Lock()
	defer mu.Unlock()

	now := time.Now().In(ist)
	e.Time = now.Format("2006-01-02 15:04:05")
	p := dailyFilepath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	b, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	_, err = fmt.Fprintln(f, string(b))
	return p, err
}

// CompressOlder gzips journals last modified more than retentionDays ago.
// Every file is attempted; failures are joined into the returned error.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	var errs []error
	walkErr := filepath.WalkDir(logDir(), func(p string, d os.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		if !info.ModTime().Before(cutoff) {
			return nil
		}
		if err := compressFile(p); err != nil {
			errs = append(errs, err)
		}
		return nil
	})
	if walkErr != nil {
		errs = append(errs, walkErr)
	}
	return errors.Join(errs...)
}

func compressFile(p string) error {
	gz := p + ".gz"
	// a previous run may have left a complete archive behind
	if archiveComplete(gz) {
		if err := os.Remove(p); err != nil {
			return fmt.Errorf("remove %s: %w", p, err)
		}
		return nil
	}

	in, err := os.Open(p)
	if err != nil {
		return fmt.Errorf("open %s: %w", p, err)
	}
	defer in.Close()

	out, err := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", gz, err)
	}

	gw := gzip.NewWriter(out)
	_, copyErr := io.Copy(gw, in)
	closeErr := gw.Close()
	if err := out.Close(); closeErr == nil {
		closeErr = err
	}
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(gz)
		return fmt.Errorf("compress %s: %w", p, err)
	}

	in.Close()
	if err := os.Remove(p); err != nil {
		return fmt.Errorf("remove %s: %w", p, err)
	}
	return nil
}

// archiveComplete reports whether gz exists and decompresses to its end.
func archiveComplete(gz string) bool {
	f, err := os.Open(gz)
	if err != nil {
		return false
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return false
	}
	_, err = io.Copy(io.Discard, gr)
	return err == nil
}
