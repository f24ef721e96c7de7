package records

import (
	"reflect"
	"testing"
	"time"
)

func TestAsFloat(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"nil", nil, 0, false},
		{"float", 12.5, 12.5, true},
		{"int", 40, 40, true},
		{"int64", int64(-3), -3, true},
		{"numeric_string", "600000", 600000, true},
		{"bad_string", "n/a", 0, false},
		{"empty_string", "", 0, false},
		{"bool", true, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AsFloat(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("AsFloat(%v) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestAsTime(t *testing.T) {
	want := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	got, ok := AsTime("2024-05-01")
	if !ok || !got.Equal(want) {
		t.Fatalf("AsTime(2024-05-01) = (%v, %v)", got, ok)
	}
	if _, ok := AsTime("not-a-date"); ok {
		t.Fatal("AsTime accepted garbage")
	}
	if _, ok := AsTime(nil); ok {
		t.Fatal("AsTime accepted nil")
	}
	if _, ok := AsTime(time.Time{}); ok {
		t.Fatal("AsTime accepted zero time")
	}
}

func TestColumnsUnionSorted(t *testing.T) {
	in := []Record{
		{"b": 1, "a": 2},
		{"c": nil},
	}
	want := []string{"a", "b", "c"}
	if got := Columns(in); !reflect.DeepEqual(got, want) {
		t.Fatalf("Columns = %v, want %v", got, want)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	r := Record{"a": 1}
	c := r.Clone()
	c["a"] = 2
	if r["a"] != 1 {
		t.Fatal("Clone shares storage with original")
	}
}
