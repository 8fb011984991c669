// Package resultset reads the tabular responses of the stats provider.
//
// Every endpoint answers with named tables:
//
//	{"resultSets": [{"name": "...", "headers": ["PLAYER_ID", ...], "rowSet": [[201939, ...], ...]}]}
//
// Cells are read by header name. Missing or mistyped cells read as zero values.
package resultset

import (
	"fmt"
	"math"
	"strconv"

	"hoopstats/pkg/messages"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Response is the whole body of an endpoint.
type Response struct {
	Resource   string  `json:"resource"`
	ResultSets []Table `json:"resultSets"`

	// A few endpoints send a single table instead of the list.
	ResultSet *Table `json:"resultSet"`
}

// Table is a single named result set.
type Table struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`

	index map[string]int
}

// Row is a row of a table, read by header name.
type Row struct {
	table  *Table
	values []any
}

// Decode parses the body of an endpoint.
func Decode(body []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", messages.FailedToParseMsg, err)
	}

	if resp.ResultSet != nil {
		resp.ResultSets = append(resp.ResultSets, *resp.ResultSet)
		resp.ResultSet = nil
	}

	for i := range resp.ResultSets {
		resp.ResultSets[i].buildIndex()
	}

	return &resp, nil
}

// Set returns the table with the given name.
func (r *Response) Set(name string) (*Table, error) {
	for i := range r.ResultSets {
		if r.ResultSets[i].Name == name {
			return &r.ResultSets[i], nil
		}
	}
	return nil, fmt.Errorf(messages.MissingResultSet, name)
}

func (t *Table) buildIndex() {
	t.index = make(map[string]int, len(t.Headers))
	for i, header := range t.Headers {
		t.index[header] = i
	}
}

// Require verifies that the table has every column.
func (t *Table) Require(columns ...string) error {
	var missing []string
	for _, column := range columns {
		if _, ok := t.index[column]; !ok {
			missing = append(missing, column)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf(messages.MissingColumns, t.Name, missing)
	}
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.RowSet)
}

// Row returns the row at the position.
func (t *Table) Row(i int) Row {
	return Row{table: t, values: t.RowSet[i]}
}

// Rows returns every row of the table.
func (t *Table) Rows() []Row {
	rows := make([]Row, len(t.RowSet))
	for i, values := range t.RowSet {
		rows[i] = Row{table: t, values: values}
	}
	return rows
}

// Find returns the first row whose integer column equals the id.
func (t *Table) Find(column string, id int) (Row, bool) {
	for i := range t.RowSet {
		row := t.Row(i)
		if row.Int(column) == id {
			return row, true
		}
	}
	return Row{}, false
}

// Value returns the raw cell, nil when the column doesn't exist.
func (r Row) Value(column string) any {
	if r.table == nil {
		return nil
	}

	i, ok := r.table.index[column]
	if !ok || i >= len(r.values) {
		return nil
	}
	return r.values[i]
}

// Float reads a numeric cell. Numeric strings are accepted.
func (r Row) Float(column string) float64 {
	switch v := r.Value(column).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

// Int reads a numeric cell as an integer.
func (r Row) Int(column string) int {
	return int(math.Round(r.Float(column)))
}

// String reads a text cell. Numbers are formatted without exponent.
func (r Row) String(column string) string {
	switch v := r.Value(column).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}
