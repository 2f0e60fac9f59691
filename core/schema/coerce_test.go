package schema

import (
	"testing"
	"time"

	"github.com/relabs-tech/docstore/core"
)

func TestCoerce_String(t *testing.T) {
	testCases := []struct {
		in    interface{}
		out   interface{}
		valid bool
	}{
		{"hello", "hello", true},
		{"", "", true},
		// numbers are not auto-stringified, a numeric value for a string
		// field is invalid
		{42, "", false},
		{42.5, "", false},
		{true, "", false},
		{[]interface{}{"a"}, "", false},
	}
	for _, tc := range testCases {
		out, valid := Coerce(TypeString, tc.in)
		if out != tc.out || valid != tc.valid {
			t.Fatalf("Coerce(string, %v): got (%v,%v), want (%v,%v)", tc.in, out, valid, tc.out, tc.valid)
		}
	}
}

func TestCoerce_Integer(t *testing.T) {
	testCases := []struct {
		typ   FieldType
		in    interface{}
		out   int64
		valid bool
	}{
		{TypeInteger, "42", 42, true},
		{TypeInteger, 42, 42, true},
		{TypeInteger, 42.7, 42, true},
		{TypeInteger, "12.7", 12, true},
		// parse failure coerces to 0 and stays valid
		{TypeInteger, "not a number", 0, true},
		{TypeInteger, "-17", -17, true},
		{TypeUInteger, "17", 17, true},
		{TypeUInteger, "garbage", 0, true},
		// only the range violation is invalid
		{TypeUInteger, -17, 0, false},
		{TypeUInteger, "-17", 0, false},
	}
	for _, tc := range testCases {
		out, valid := Coerce(tc.typ, tc.in)
		if out != tc.out || valid != tc.valid {
			t.Fatalf("Coerce(%s, %v): got (%v,%v), want (%v,%v)", tc.typ, tc.in, out, valid, tc.out, tc.valid)
		}
	}
}

func TestCoerce_Float(t *testing.T) {
	testCases := []struct {
		typ   FieldType
		in    interface{}
		out   float64
		valid bool
	}{
		{TypeFloat, "42.5", 42.5, true},
		{TypeFloat, 42, 42, true},
		{TypeFloat, "junk", 0, true},
		{TypeFloat, "-1.25", -1.25, true},
		{TypeUFloat, "1.25", 1.25, true},
		{TypeUFloat, -1.25, 0, false},
		{TypeUFloat, "junk", 0, true},
	}
	for _, tc := range testCases {
		out, valid := Coerce(tc.typ, tc.in)
		if out != tc.out || valid != tc.valid {
			t.Fatalf("Coerce(%s, %v): got (%v,%v), want (%v,%v)", tc.typ, tc.in, out, valid, tc.out, tc.valid)
		}
	}
}

func TestCoerce_Boolean(t *testing.T) {
	testCases := []struct {
		in  interface{}
		out bool
	}{
		{true, true},
		{false, false},
		{nil, false},
		{0, false},
		{0.0, false},
		{"", false},
		{1, true},
		{-1, true},
		{"false", true}, // any non-empty string is truthy
		{"0", true},
		{map[string]interface{}{}, true},
		{[]interface{}{}, true},
	}
	for _, tc := range testCases {
		out, valid := Coerce(TypeBoolean, tc.in)
		if !valid {
			t.Fatalf("Coerce(boolean, %v): boolean coercion is always valid", tc.in)
		}
		if out != tc.out {
			t.Fatalf("Coerce(boolean, %v): got %v, want %v", tc.in, out, tc.out)
		}
	}
}

func TestCoerce_Timestamp(t *testing.T) {
	testCases := []struct {
		in    interface{}
		out   int64
		valid bool
	}{
		// millisecond resolution, at least 12 decimal digits
		{int64(1412804866321), 1412804866321, true},
		{"1412804866321", 1412804866321, true},
		{1412804866321.0, 1412804866321, true},
		// second resolution is not a valid millisecond timestamp
		{int64(1412804866), 0, false},
		{int64(-1412804866321), 0, false},
		{"garbage", 0, false},
		{nil, 0, false},
	}
	for _, tc := range testCases {
		out, valid := Coerce(TypeTimestamp, tc.in)
		if out != tc.out || valid != tc.valid {
			t.Fatalf("Coerce(timestamp, %v): got (%v,%v), want (%v,%v)", tc.in, out, valid, tc.out, tc.valid)
		}
	}
}

func TestCoerce_Date(t *testing.T) {
	out, valid := Coerce(TypeDate, "2014-10-08T22:27:46.321Z")
	if !valid {
		t.Fatal("strict ISO-8601 string rejected")
	}
	ts, ok := out.(time.Time)
	if !ok {
		t.Fatalf("expected time.Time, got %T", out)
	}
	if ts.UnixMilli() != 1412807266321 {
		t.Fatalf("unexpected date value: %v", ts)
	}

	now := time.Now()
	out, valid = Coerce(TypeDate, now)
	if !valid || out != now {
		t.Fatal("date value not passed through")
	}

	invalid := []interface{}{"2014-10-08", "2014-10-08T22:27:46Z",
		"2014-10-08T22:27:46.321+02:00", 1412804866321, nil}
	for _, in := range invalid {
		if _, valid := Coerce(TypeDate, in); valid {
			t.Fatalf("invalid date accepted: %v", in)
		}
	}
}

func TestCoerce_ID(t *testing.T) {
	id := core.NewID()
	out, valid := Coerce(TypeID, id)
	if !valid || out != id {
		t.Fatal("ID value not passed through")
	}
	out, valid = Coerce(TypeID, id.String())
	if !valid || out != id {
		t.Fatal("hex string not coerced to ID")
	}
	invalid := []interface{}{"507f1f77", "zzzzzzzzzzzzzzzzzzzzzzzz", 42, nil}
	for _, in := range invalid {
		if _, valid := Coerce(TypeID, in); valid {
			t.Fatalf("invalid identifier accepted: %v", in)
		}
	}
}
