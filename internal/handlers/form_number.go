package handlers

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FormNumber accepts a JSON number, a numeric string, or null. Form clients
// post text-input values verbatim, so "3.5", 3.5 and null must all decode.
// Unparseable values decode to NaN, matching parseFloat semantics.
type FormNumber float64

func (n *FormNumber) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*n = FormNumber(math.NaN())
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			*n = FormNumber(math.NaN())
			return nil
		}
		*n = FormNumber(f)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*n = FormNumber(f)
	return nil
}

func (n FormNumber) Float64() float64 { return float64(n) }

func (n FormNumber) IsNaN() bool { return math.IsNaN(float64(n)) }

// FlexStringList accepts either a JSON array of strings or a single
// comma-separated string. Entries are trimmed and empties dropped.
type FlexStringList []string

func (l *FlexStringList) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*l = nil
		return nil
	}
	if len(s) >= 1 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*l = splitAndTrim(str, ",")
		return nil
	}
	var arr []string
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*l = out
	return nil
}

func splitAndTrim(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
