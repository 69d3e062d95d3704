package market

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/date"
)

// ImportCSV reads the daily closes of symbol from a CSV file with a header line,
// such as the "Date,Open,High,Low,Close,Volume" exports of price history sites.
//
// It returns the number of closes added to prices.
func ImportCSV(r io.Reader, symbol string, prices cryptofolio.Prices) (int, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("cannot read csv header: %w", err)
	}
	dateCol := slices.IndexFunc(header, func(s string) bool { return strings.EqualFold(s, "date") })
	closeCol := slices.IndexFunc(header, func(s string) bool { return strings.EqualFold(s, "close") })
	if dateCol < 0 || closeCol < 0 {
		return 0, fmt.Errorf("csv header %q must have a Date and a Close column", header)
	}

	n := 0
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		on, err := parseDay(record[dateCol])
		if err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		if record[closeCol] == "" {
			continue // no trading that day.
		}
		price, err := strconv.ParseFloat(record[closeCol], 64)
		if err != nil {
			return n, fmt.Errorf("line %d: invalid close %q: %w", line, record[closeCol], err)
		}
		prices.Set(symbol, on, price)
		n++
	}
	return n, nil
}

// parseDay accepts dates with a time of day such as "2021-12-01 00:00:00+00:00".
func parseDay(s string) (date.Date, error) {
	on, err := date.Parse(s)
	if err == nil || len(s) < len(date.DateFormat) {
		return on, err
	}
	return date.Parse(s[:len(date.DateFormat)])
}

// Check reports every symbol whose closes do not cover the window.
func Check(prices cryptofolio.Prices, symbols []string, window date.Range) error {
	var errs []error
	for _, symbol := range symbols {
		if err := prices.Check(symbol, window); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
