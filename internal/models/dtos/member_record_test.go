package dtos

import (
	"encoding/json"
	"testing"
)

func TestMemberRecord_AcceptsNumbersAndStrings(t *testing.T) {
	var rec MemberRecord
	body := `{"member_id": 1042, "name": " Alice ", "level_code": "B1", "classes_count": "12", "coach_username": null}`
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.MemberID.String() != "1042" {
		t.Errorf("member_id = %q, want 1042", rec.MemberID)
	}
	if rec.Name.Trimmed() != "Alice" {
		t.Errorf("name = %q, want Alice", rec.Name.Trimmed())
	}
	n, err := rec.ClassesCount.Int()
	if err != nil || n != 12 {
		t.Errorf("classes_count = %d (%v), want 12", n, err)
	}
	if rec.CoachUsername != "" {
		t.Errorf("coach_username = %q, want empty", rec.CoachUsername)
	}
}

func TestMemberRecord_ReportsNonScalarFields(t *testing.T) {
	cases := []struct {
		body      string
		wantField string
	}{
		{`{"member_id": "B", "name": "Bob", "classes_count": true}`, "classes_count"},
		{`{"member_id": "B", "name": {"first": "A"}}`, "name"},
		{`{"member_id": ["x"], "name": "Bob", "level_code": false}`, "member_id"},
	}
	for _, tc := range cases {
		var rec MemberRecord
		if err := json.Unmarshal([]byte(tc.body), &rec); err != nil {
			t.Errorf("%s: unexpected error: %v", tc.body, err)
			continue
		}
		field, err := rec.InvalidField()
		if err == nil || field != tc.wantField {
			t.Errorf("%s: InvalidField = %q, %v; want %q", tc.body, field, err, tc.wantField)
		}
	}
}

func TestMemberRecord_ValidRowsInBatchSurviveBadCell(t *testing.T) {
	var req ImportMembersRequest
	body := `{"members": [{"member_id": "A", "name": "Ann"}, {"member_id": "B", "name": "Bob", "classes_count": true}, 7]}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(req.Members) != 3 {
		t.Fatalf("len(members) = %d, want 3", len(req.Members))
	}
	if _, err := req.Members[0].InvalidField(); err != nil {
		t.Errorf("first row: unexpected invalid field: %v", err)
	}
	if req.Members[1].Name.Trimmed() != "Bob" {
		t.Errorf("second row name = %q, want Bob", req.Members[1].Name)
	}
	if req.Members[2].MemberID != "" || req.Members[2].Name != "" {
		t.Errorf("non-object row = %+v, want empty", req.Members[2])
	}
}

func TestFlexString_NumericZeroIsEmpty(t *testing.T) {
	var rec MemberRecord
	if err := json.Unmarshal([]byte(`{"member_id": 0, "name": "0"}`), &rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.MemberID != "" {
		t.Errorf("member_id = %q, want empty", rec.MemberID)
	}
	if rec.Name != "0" {
		t.Errorf("name = %q, want the string 0 kept", rec.Name)
	}
}

func TestFlexInt(t *testing.T) {
	cases := []struct {
		in      FlexInt
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"7", 7, false},
		{" 8 ", 8, false},
		{"3.0", 3, false},
		{"3.5", 0, true},
		{"many", 0, true},
	}
	for _, tc := range cases {
		got, err := tc.in.Int()
		if (err != nil) != tc.wantErr {
			t.Errorf("FlexInt(%q) err = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("FlexInt(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestMemberRecord_DisplayNameAndJSON(t *testing.T) {
	rec := MemberRecord{MemberID: "SH2"}
	if rec.DisplayName() != "Unknown member" {
		t.Errorf("DisplayName = %q", rec.DisplayName())
	}
	if got := rec.JSON(); got != `{"member_id":"SH2"}` {
		t.Errorf("JSON = %s", got)
	}

	rec = MemberRecord{MemberID: "SH3", Name: "Bo", ClassesCount: "4"}
	if got := rec.JSON(); got != `{"member_id":"SH3","name":"Bo","classes_count":4}` {
		t.Errorf("JSON = %s", got)
	}
}
