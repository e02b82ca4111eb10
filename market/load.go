package market

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ulikunitz/xz"
)

const barTimeLayout = "20060102 150405"

// LoadBars reads a bar-history file: one bar per line in the form
// "time;open;high;low;close;volume" with the time in "20060102 150405"
// UTC. Files ending in .xz are decompressed transparently.
func LoadBars(path string) ([]Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open xz %s: %w", path, err)
		}
		r = xr
	}

	bars, err := ReadBars(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bars, nil
}

// ReadBars parses semicolon-separated bar lines, skipping header and
// blank lines.
func ReadBars(r io.Reader) ([]Bar, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var bars []Bar
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(strings.ToLower(text), "time;") {
			continue
		}

		parts := strings.Split(text, ";")
		if len(parts) < 6 {
			return nil, fmt.Errorf("line %d: want 6 fields, got %d", line, len(parts))
		}

		ts, err := time.ParseInLocation(barTimeLayout, parts[0], time.UTC)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad time %q: %w", line, parts[0], err)
		}

		var vals [5]decimal.Decimal
		for i, p := range parts[1:6] {
			v, err := decimal.NewFromString(strings.TrimSpace(p))
			if err != nil {
				return nil, fmt.Errorf("line %d: bad number %q: %w", line, p, err)
			}
			vals[i] = v
		}

		bars = append(bars, Bar{
			Time:   ts,
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return bars, nil
}
