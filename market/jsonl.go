// Package market persists daily close prices in a folder, in a way that is still
// human-readable and git-friendly.
//
// Prices are stored in one JSONL file per year, named after the year. Each line holds the
// closes of a single day:
//
//	{"on":"2024-01-02","BTC":42000.5,"ETH":2210.3}
package market

import (
	"bufio"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/date"
)

const attrOn = "on"
const filesGlob = "[0-9][0-9][0-9][0-9].jsonl"

// Decode reads all the price files of folder. A missing folder is an empty market.
func Decode(folder string) (cryptofolio.Prices, error) {
	prices := make(cryptofolio.Prices)
	filenames, err := filepath.Glob(filepath.Join(folder, filesGlob))
	if err != nil {
		return nil, fmt.Errorf("load error: cannot scan folder %q for market data files: %w", folder, err)
	}
	for _, filename := range filenames {
		if err := decodeFile(prices, filename); err != nil {
			return nil, err
		}
	}
	return prices, nil
}

func decodeFile(prices cryptofolio.Prices, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("cannot open %q for reading: %w", filename, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	i := 0
	for scanner.Scan() {
		i++
		if err := decodeLine(prices, scanner.Text()); err != nil {
			return fmt.Errorf("parse error %s:%v: %w", filename, i, err)
		}
	}
	return scanner.Err()
}

// decodeLine adds the closes of a single line to prices.
func decodeLine(prices cryptofolio.Prices, txt string) error {
	if strings.TrimSpace(txt) == "" {
		return nil
	}
	jobj := make(map[string]any)
	if err := json.Unmarshal([]byte(txt), &jobj); err != nil {
		return fmt.Errorf("not a correct json: %w", err)
	}

	jstring, ok := jobj[attrOn].(string)
	if !ok {
		return fmt.Errorf("missing the property %q with a date", attrOn)
	}
	on, err := date.Parse(jstring)
	if err != nil {
		return fmt.Errorf("property %q must be a valid date: %w", attrOn, err)
	}

	// all other attributes are (symbol, close) pairs.
	for symbol, price := range jobj {
		if symbol == attrOn {
			continue
		}
		p, ok := price.(float64)
		if !ok {
			return fmt.Errorf("property %q must be of type 'number'", symbol)
		}
		prices.Set(symbol, on, p)
	}
	return nil
}

// Encode writes prices into folder, one file per year, and deletes the files of years
// that have no price anymore.
func Encode(folder string, prices cryptofolio.Prices, log zerolog.Logger) error {
	symbols := slices.Sorted(maps.Keys(prices))

	// every day with at least one close, in order.
	daySet := make(map[date.Date]struct{})
	for _, h := range prices {
		for day := range h.Values() {
			daySet[day] = struct{}{}
		}
	}
	days := slices.SortedFunc(maps.Keys(daySet), date.Date.Compare)

	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("persist error: cannot create folder %q: %w", folder, err)
	}

	created := make(map[string]struct{})
	var current *os.File
	closeCurrent := func() error {
		if current == nil {
			return nil
		}
		return current.Close()
	}
	for _, day := range days {
		filename := filepath.Join(folder, fmt.Sprintf("%d.jsonl", day.Year()))
		if _, ok := created[filename]; !ok {
			if err := closeCurrent(); err != nil {
				return fmt.Errorf("persist error: %w", err)
			}
			var err error
			current, err = os.Create(filename)
			if err != nil {
				return fmt.Errorf("persist error: cannot create file %q: %w", filename, err)
			}
			created[filename] = struct{}{}
			log.Debug().Str("name", filename).Msg("create-market-data-file")
		}
		if err := encodeLine(current, prices, day, symbols); err != nil {
			closeCurrent()
			return fmt.Errorf("persist error: write error on file %q: %w", filename, err)
		}
	}
	if err := closeCurrent(); err != nil {
		return fmt.Errorf("persist error: %w", err)
	}

	filenames, err := filepath.Glob(filepath.Join(folder, filesGlob))
	if err != nil {
		return fmt.Errorf("persist error: cannot scan folder %q for market data files to be deleted: %w", folder, err)
	}
	for _, filename := range filenames {
		if _, ok := created[filename]; ok {
			continue
		}
		if err := os.Remove(filename); err != nil {
			return fmt.Errorf("persist error: cannot delete file %q: %w", filename, err)
		}
		log.Debug().Str("name", filename).Msg("delete-market-data-file")
	}
	return nil
}

// encodeLine writes the closes of day, symbols in alphabetical order.
func encodeLine(f *os.File, prices cryptofolio.Prices, day date.Date, symbols []string) error {
	var jw jsonObjectWriter
	jw.Append(attrOn, day.String())
	for _, symbol := range symbols {
		// json does not support NaN.
		if p, ok := prices.Price(symbol, day); ok && !math.IsNaN(p) {
			jw.Append(symbol, p)
		}
	}
	b, err := jw.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = f.Write(append(b, '\n'))
	return err
}
