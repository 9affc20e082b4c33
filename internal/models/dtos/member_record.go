package dtos

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"trainingorg/quizdesk/internal/constants"
)

// FlexString accepts a JSON string or number. Spreadsheet exports routinely
// turn numeric member ids into numbers. A numeric zero reads as empty.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	raw, err := decodeScalar(b)
	if err != nil {
		return err
	}
	if isZeroNumber(b) {
		raw = ""
	}
	*s = FlexString(raw)
	return nil
}

func (s FlexString) String() string { return string(s) }

// Trimmed returns the value without surrounding whitespace.
func (s FlexString) Trimmed() string { return strings.TrimSpace(string(s)) }

// FlexInt accepts a JSON number or a numeric string. The raw text is kept so
// an unparsable value can be reported against its row.
type FlexInt string

func (i *FlexInt) UnmarshalJSON(b []byte) error {
	raw, err := decodeScalar(b)
	if err != nil {
		return err
	}
	*i = FlexInt(raw)
	return nil
}

// Int parses the value; empty means 0.
func (i FlexInt) Int() (int, error) {
	s := strings.TrimSpace(string(i))
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("invalid classes_count %q", s)
	}
	return int(f), nil
}

func (i FlexInt) String() string { return string(i) }

func (i FlexInt) MarshalJSON() ([]byte, error) {
	if n, err := i.Int(); err == nil {
		return []byte(strconv.Itoa(n)), nil
	}
	return json.Marshal(string(i))
}

func decodeScalar(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return "", nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return "", fmt.Errorf("must be a string or a number, got %s", b)
	}
	return n.String(), nil
}

func isZeroNumber(b []byte) bool {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] == '"' || bytes.Equal(b, []byte("null")) {
		return false
	}
	f, err := strconv.ParseFloat(string(b), 64)
	return err == nil && f == 0
}

// recordFields lists the JSON keys of MemberRecord in declaration order.
var recordFields = []string{"member_id", "name", "level_code", "classes_count", "coach_username"}

// MemberRecord is one row of a bulk import batch.
type MemberRecord struct {
	MemberID      FlexString `json:"member_id,omitempty"`
	Name          FlexString `json:"name,omitempty"`
	LevelCode     FlexString `json:"level_code,omitempty"`
	ClassesCount  FlexInt    `json:"classes_count,omitempty"`
	CoachUsername FlexString `json:"coach_username,omitempty"`

	invalidField string
	invalidErr   error
}

// UnmarshalJSON reads a row without failing the batch. A field holding an
// array, object or boolean is left empty and reported by InvalidField. An
// element that is not an object decodes to an empty record.
func (r *MemberRecord) UnmarshalJSON(b []byte) error {
	type plain MemberRecord
	var p plain
	if err := json.Unmarshal(b, &p); err == nil {
		*r = MemberRecord(p)
		return nil
	}

	var rec MemberRecord
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		*r = rec
		return nil
	}

	targets := map[string]json.Unmarshaler{
		"member_id":      &rec.MemberID,
		"name":           &rec.Name,
		"level_code":     &rec.LevelCode,
		"classes_count":  &rec.ClassesCount,
		"coach_username": &rec.CoachUsername,
	}
	for _, key := range recordFields {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if err := targets[key].UnmarshalJSON(raw); err != nil && rec.invalidField == "" {
			rec.invalidField, rec.invalidErr = key, err
		}
	}
	*r = rec
	return nil
}

// InvalidField returns the first field whose value could not be read, if any.
func (r MemberRecord) InvalidField() (string, error) {
	return r.invalidField, r.invalidErr
}

// DisplayName is the label used when reporting a row's failure.
func (r MemberRecord) DisplayName() string {
	if name := r.Name.Trimmed(); name != "" {
		return name
	}
	return constants.UnknownMemberName
}

// JSON renders the record for error messages.
func (r MemberRecord) JSON() string {
	b, err := json.Marshal(r)
	if err != nil {
		return "{}"
	}
	return string(b)
}

type ImportMembersRequest struct {
	Members []MemberRecord `json:"members"`
	// StrictLookups overrides the server's lookup-miss policy for this batch.
	StrictLookups *bool `json:"strict_lookups,omitempty"`
}
