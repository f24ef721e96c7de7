package aggregate

import (
	"reflect"
	"testing"

	"projex/pkg/records"
)

func sample() []records.Record {
	return []records.Record{
		{"ProjectID": 1, "CustomerRegion": "A", "ProjectStatus_Flag": "X", "DiasRetraso": float64(10), "ImpactoVenta": float64(100)},
		{"ProjectID": 2, "CustomerRegion": "A", "ProjectStatus_Flag": "Y", "DiasRetraso": float64(20), "ImpactoVenta": float64(300)},
		{"ProjectID": 3, "CustomerRegion": "B", "ProjectStatus_Flag": "X", "DiasRetraso": float64(30), "ImpactoVenta": float64(300)},
	}
}

func TestGroupByOps(t *testing.T) {
	got := GroupBy(sample(), []string{"CustomerRegion"}, []Metric{
		{Field: "ProjectID", Op: OpCount, As: "Cantidad"},
		{Field: "DiasRetraso", Op: OpMean, As: "Retraso_Prom"},
		{Field: "DiasRetraso", Op: OpMax, As: "Retraso_Max"},
		{Field: "ImpactoVenta", Op: OpSum, As: "Impacto_Total"},
	})
	want := []records.Record{
		{"CustomerRegion": "A", "Cantidad": int64(2), "Retraso_Prom": float64(15), "Retraso_Max": float64(20), "Impacto_Total": float64(400)},
		{"CustomerRegion": "B", "Cantidad": int64(1), "Retraso_Prom": float64(30), "Retraso_Max": float64(30), "Impacto_Total": float64(300)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("GroupBy = %v, want %v", got, want)
	}
}

func TestGroupByMultipleDimsSortedByKeyTuple(t *testing.T) {
	got := GroupBy(sample(), []string{"CustomerRegion", "ProjectStatus_Flag"}, []Metric{
		{Field: "ProjectID", Op: OpCount, As: "n"},
	})
	if len(got) != 3 {
		t.Fatalf("got %d groups, want 3", len(got))
	}
	order := []string{"A/X", "A/Y", "B/X"}
	for i, row := range got {
		key := row["CustomerRegion"].(string) + "/" + row["ProjectStatus_Flag"].(string)
		if key != order[i] {
			t.Fatalf("group %d = %s, want %s", i, key, order[i])
		}
	}
}

func TestTopNStableOnTies(t *testing.T) {
	in := sample() // rows 2 and 3 tie on ImpactoVenta=300
	got := TopN(in, "ImpactoVenta", 2)
	if got[0]["ProjectID"] != 2 || got[1]["ProjectID"] != 3 {
		t.Fatalf("tie order broken: got %v, %v; want 2, 3", got[0]["ProjectID"], got[1]["ProjectID"])
	}
}

func TestTopNLargerThanTable(t *testing.T) {
	if got := TopN(sample(), "DiasRetraso", 10); len(got) != 3 {
		t.Fatalf("got %d rows, want 3", len(got))
	}
}

func TestValueCountsTieBreaksLexicographically(t *testing.T) {
	in := []records.Record{
		{"Estado": "Pausado"}, {"Estado": "Activo"}, {"Estado": "Pausado"}, {"Estado": "Cerrado"},
	}
	got := ValueCounts(in, "Estado")
	want := []records.Record{
		{"Estado": "Pausado", "Cantidad": int64(2)},
		{"Estado": "Activo", "Cantidad": int64(1)},
		{"Estado": "Cerrado", "Cantidad": int64(1)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ValueCounts = %v, want %v", got, want)
	}
}

func TestMaxKeyPicksLexicographicallySmallestOnTie(t *testing.T) {
	in := []records.Record{
		{"CustomerRegion": "B", "DiasRetraso": float64(25)},
		{"CustomerRegion": "A", "DiasRetraso": float64(25)},
	}
	key, val, ok := MaxKey(in, "CustomerRegion", Metric{Field: "DiasRetraso", Op: OpSum})
	if !ok || key != "A" || val != 25 {
		t.Fatalf("MaxKey = (%q, %v, %v), want (A, 25, true)", key, val, ok)
	}
}

func TestMaxKeyEmptyTable(t *testing.T) {
	if _, _, ok := MaxKey(nil, "CustomerRegion", Metric{Field: "DiasRetraso", Op: OpSum}); ok {
		t.Fatal("MaxKey reported ok on empty table")
	}
}

func TestPivotCountWithMargins(t *testing.T) {
	// Regions {A,A,B}, statuses {X,Y,X}: A/X=1, A/Y=1, B/X=1, totals 3.
	p := PivotCount(sample(), "CustomerRegion", "ProjectStatus_Flag")

	if want := []string{"A", "B", "Total"}; !reflect.DeepEqual(p.RowKeys, want) {
		t.Fatalf("RowKeys = %v, want %v", p.RowKeys, want)
	}
	if want := []string{"X", "Y", "Total"}; !reflect.DeepEqual(p.ColKeys, want) {
		t.Fatalf("ColKeys = %v, want %v", p.ColKeys, want)
	}

	checks := []struct {
		row, col string
		want     int64
	}{
		{"A", "X", 1}, {"A", "Y", 1}, {"B", "X", 1}, {"B", "Y", 0},
		{"A", "Total", 2}, {"B", "Total", 1},
		{"Total", "X", 2}, {"Total", "Y", 1},
		{"Total", "Total", 3},
	}
	for _, c := range checks {
		if got := p.Cell(c.row, c.col); got != c.want {
			t.Errorf("Cell(%s,%s) = %d, want %d", c.row, c.col, got, c.want)
		}
	}
}

func TestSortDescDoesNotMutateInput(t *testing.T) {
	in := sample()
	SortDesc(in, "DiasRetraso")
	if in[0]["ProjectID"] != 1 {
		t.Fatal("input order changed")
	}
}
