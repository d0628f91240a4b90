package evalflow

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/askiada/go-evalflow/pkg/evalflow/model"
)

const maxLineSize = 16 * 1024 * 1024

// loadData reads a newline-delimited JSON file into a table. The row
// index is the 0-based order of the lines, the column set is the union
// of the keys across all lines in first-seen order. Numbers decode as
// json.Number so integer columns survive a round-trip.
func loadData(path string) (*model.Table, error) {
	if path == "" {
		return nil, ErrNoData
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: err}
	}
	defer file.Close()

	var (
		columns []string
		rows    []model.Record
	)

	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		rec := model.Record{}

		dec := json.NewDecoder(bytes.NewReader(line))
		dec.UseNumber()

		err := dec.Decode(&rec)
		if err != nil {
			return nil, &DataLoadError{Path: path, Err: errors.Wrapf(err, "line %d", lineNo)}
		}

		if dec.More() {
			return nil, &DataLoadError{Path: path, Err: errors.Errorf("line %d: trailing data after object", lineNo)}
		}

		keys, err := objectKeys(line)
		if err != nil {
			return nil, &DataLoadError{Path: path, Err: errors.Wrapf(err, "line %d", lineNo)}
		}

		for _, key := range keys {
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				columns = append(columns, key)
			}
		}

		rows = append(rows, rec)
	}

	err = scanner.Err()
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: err}
	}

	table := model.NewTable(columns...)
	for _, rec := range rows {
		table.AppendRow(rec)
	}

	return table, nil
}

// objectKeys returns the top-level keys of one JSON object in file
// order. Decoding into a map loses that order, so the tokens are walked
// a second time.
func objectKeys(line []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(line))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("expected a JSON object")
	}

	var keys []string

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		key, ok := keyTok.(string)
		if !ok {
			return nil, errors.Errorf("expected an object key, got %v", keyTok)
		}

		keys = append(keys, key)

		err = skipValue(dec)
		if err != nil {
			return nil, err
		}
	}

	return keys, nil
}

func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	delim, ok := tok.(json.Delim)
	if !ok || (delim != '{' && delim != '[') {
		return nil
	}

	for dec.More() {
		if delim == '{' {
			_, err := dec.Token()
			if err != nil {
				return err
			}
		}

		err := skipValue(dec)
		if err != nil {
			return err
		}
	}

	_, err = dec.Token()

	return err
}
