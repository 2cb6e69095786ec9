package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"goldwatch/internal/quote"
)

// TimeLayout is the timestamp format used in journal lines.
const TimeLayout = "2006-01-02 15:04:05"

const dayLayout = "2006-01-02"

// Journal appends quotes for one source to a per-day CSV file under
// dir/<day>/<source>_gold_price.log. The file switches when the quote's
// date changes.
type Journal struct {
	mu     sync.Mutex
	dir    string
	source string

	day string
	f   *os.File
}

func New(dir, source string) *Journal {
	return &Journal{dir: dir, source: source}
}

// Append writes one `"time","price"` line, rolling the file over on a date
// change first.
func (j *Journal) Append(q quote.Quote) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	day := q.Timestamp.Format(dayLayout)
	if j.f == nil || day != j.day {
		if err := j.open(day); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(j.f, "%q,%q\n",
		q.Timestamp.Format(TimeLayout),
		strconv.FormatFloat(q.Price, 'f', -1, 64))
	return err
}

func (j *Journal) open(day string) error {
	if j.f != nil {
		_ = j.f.Close()
		j.f = nil
	}

	path := Path(j.dir, j.source, day)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	j.f = f
	j.day = day
	return nil
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.f == nil {
		return nil
	}
	err := j.f.Close()
	j.f = nil
	return err
}

// Path returns the journal file location for a source on a given day.
func Path(dir, source, day string) string {
	return filepath.Join(dir, day, source+"_gold_price.log")
}

// LoadDay reads a day's journal back into quotes, sorted by timestamp.
// A missing file yields an empty slice; malformed lines are skipped.
func LoadDay(dir, source string, day time.Time) ([]quote.Quote, error) {
	f, err := os.Open(Path(dir, source, day.Format(dayLayout)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var out []quote.Quote
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if len(rec) < 2 {
			continue
		}

		ts, err := time.ParseInLocation(TimeLayout, rec[0], time.Local)
		if err != nil {
			continue
		}
		price, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			continue
		}

		out = append(out, quote.Quote{Source: source, Price: price, Timestamp: ts})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}
