// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serializer

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

const (
	tableEmpty  = "<empty>"
	tablePad    = 2
	fieldHeader = "FIELD"
	valueHeader = "VALUE"
)

// TableRenderer is implemented by values that provide their own rows for
// table output instead of the flattened field/value view.
type TableRenderer interface {
	TableHeader() []string
	TableRows() [][]string
}

func writeTable(w io.Writer, data any) error {
	if tr, ok := data.(TableRenderer); ok {
		return renderTable(w, tr.TableHeader(), tr.TableRows())
	}

	rows, err := flatten(data)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		rows = [][]string{{tableEmpty, ""}}
	}
	return renderTable(w, []string{fieldHeader, valueHeader}, rows)
}

// flatten converts data to sorted dotted-path rows via its JSON form so
// table keys match the json field names.
func flatten(data any) ([][]string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return nil, err
	}

	var rows [][]string
	var walk func(prefix string, v any)
	walk = func(prefix string, v any) {
		switch t := v.(type) {
		case map[string]any:
			if len(t) == 0 {
				if prefix != "" {
					rows = append(rows, []string{prefix, "{}"})
				}
				return
			}
			keys := make([]string, 0, len(t))
			for k := range t {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				key := k
				if prefix != "" {
					key = prefix + "." + k
				}
				walk(key, t[k])
			}
		case []any:
			if len(t) == 0 {
				if prefix != "" {
					rows = append(rows, []string{prefix, "[]"})
				}
				return
			}
			for i, item := range t {
				walk(fmt.Sprintf("%s[%d]", prefix, i), item)
			}
		default:
			rows = append(rows, []string{prefix, scalar(t)})
		}
	}
	walk("", generic)
	return rows, nil
}

func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func renderTable(w io.Writer, header []string, rows [][]string) error {
	cols := len(header)
	widths := make([]int, cols)
	for i, h := range header {
		widths[i] = displayWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			if dw := displayWidth(row[i]); dw > widths[i] {
				widths[i] = dw
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			sb.WriteString(cell)
			if i < cols-1 {
				sb.WriteString(strings.Repeat(" ", widths[i]-displayWidth(cell)+tablePad))
			}
		}
		sb.WriteString("\n")
	}

	writeRow(header)
	for _, row := range rows {
		writeRow(row)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// displayWidth counts terminal cells, two for East Asian wide runes.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
