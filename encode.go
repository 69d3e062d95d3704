package cryptofolio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DecodeRawTransactions reads brokerage rows from a JSONL stream, one row per line.
func DecodeRawTransactions(r io.Reader) ([]RawTransaction, error) {
	var rows []RawTransaction
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	i := 0
	for scanner.Scan() {
		i++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue // Skip empty lines
		}
		var row RawTransaction
		if err := json.Unmarshal(line, &row); err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// EncodeRawTransactions writes rows as JSONL.
func EncodeRawTransactions(w io.Writer, rows []RawTransaction) error {
	enc := json.NewEncoder(w)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("cannot encode row %q: %w", row.ID, err)
		}
	}
	return nil
}
