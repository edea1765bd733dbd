package transform

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/ruslano69/datatransformer/pkg/core/schema"
	"github.com/ruslano69/datatransformer/pkg/core/table"
)

func salesTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.FromRecords("sales",
		[]string{"Region", "Sales"},
		[][]any{
			{"North", 10},
			{"South", 20},
			{"North", 5},
		})
	if err != nil {
		t.Fatalf("FromRecords failed: %v", err)
	}
	return tbl
}

// rowsOf переводит строки таблицы в строковый вид для сравнения
func rowsOf(tbl *table.Table) [][]string {
	out := make([][]string, len(tbl.Rows))
	for i, row := range tbl.Rows {
		out[i] = make([]string, len(row))
		for j, v := range row {
			if v.IsNull() {
				out[i][j] = "<null>"
			} else {
				out[i][j] = v.String()
			}
		}
	}
	return out
}

func assertRows(t *testing.T, tbl *table.Table, want [][]string) {
	t.Helper()
	got := rowsOf(tbl)
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if fmt.Sprint(got[i]) != fmt.Sprint(want[i]) {
			t.Errorf("row %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func assertColumns(t *testing.T, tbl *table.Table, want ...string) {
	t.Helper()
	if got := tbl.ColumnNames(); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("expected columns %v, got %v", want, got)
	}
}

func TestTransformExampleSum(t *testing.T) {
	req := NewRequest("Region", "Sales").WithAggregation(AggSum, "Sales").WithGrouping(true)

	result, err := Transform(salesTable(t), req)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	assertColumns(t, result, "Region", "Sales")
	assertRows(t, result, [][]string{{"North", "15"}, {"South", "20"}})
	if result.Columns[1].Type != schema.TypeInteger {
		t.Errorf("expected INTEGER sum column, got %s", result.Columns[1].Type)
	}
}

func TestTransformExampleMax(t *testing.T) {
	req := NewRequest("Region", "Sales").WithAggregation(AggMax, "Sales").WithGrouping(true)

	result, err := Transform(salesTable(t), req)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	assertRows(t, result, [][]string{{"North", "10"}, {"South", "20"}})
}

func TestTransformExampleMin(t *testing.T) {
	req := NewRequest("Region", "Sales").WithAggregation(AggMin, "Sales").WithGrouping(true)

	result, err := Transform(salesTable(t), req)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	assertRows(t, result, [][]string{{"North", "5"}, {"South", "20"}})
}

func TestTransformExampleSortDescending(t *testing.T) {
	req := NewRequest("Region", "Sales").WithSort("Sales", Descending)

	result, err := Transform(salesTable(t), req)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	assertRows(t, result, [][]string{{"South", "20"}, {"North", "10"}, {"North", "5"}})
}

func TestTransformExampleEmptySelection(t *testing.T) {
	_, err := Transform(salesTable(t), NewRequest())
	if err == nil {
		t.Fatal("expected error for empty selection")
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if vErr.Reason != "No columns selected" {
		t.Errorf("unexpected reason: %q", vErr.Reason)
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("expected errors.Is(err, ErrValidation)")
	}
}

func TestTransformExampleEmptyGroupKey(t *testing.T) {
	req := NewRequest("Sales").WithAggregation(AggSum, "Sales").WithGrouping(true)

	result, err := Transform(salesTable(t), req)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	assertColumns(t, result, "Sales")
	assertRows(t, result, [][]string{{"35"}})
}

func TestTransformAggregationThenSort(t *testing.T) {
	req := NewRequest("Region", "Sales").
		WithAggregation(AggSum, "Sales").
		WithGrouping(true).
		WithSort("Sales", Descending)

	result, err := Transform(salesTable(t), req)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	assertRows(t, result, [][]string{{"South", "20"}, {"North", "15"}})
}

func TestTransformGroupingInactive(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"group flag off", NewRequest("Region", "Sales").WithAggregation(AggSum, "Sales")},
		{"function none", NewRequest("Region", "Sales").WithAggregation(AggNone, "Sales").WithGrouping(true)},
		{"no aggregation column", NewRequest("Region", "Sales").WithAggregation(AggSum, "").WithGrouping(true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Transform(salesTable(t), tt.req)
			if err != nil {
				t.Fatalf("Transform failed: %v", err)
			}
			if result.Len() != 3 {
				t.Errorf("expected rows untouched, got %d rows", result.Len())
			}
		})
	}
}

func TestProjection(t *testing.T) {
	tbl, err := table.FromRecords("t",
		[]string{"a", "b", "c"},
		[][]any{{1, "x", true}, {2, "y", false}})
	if err != nil {
		t.Fatalf("FromRecords failed: %v", err)
	}

	result, err := Transform(tbl, NewRequest("c", "a"))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	assertColumns(t, result, "c", "a")
	assertRows(t, result, [][]string{{"true", "1"}, {"false", "2"}})
	if result.Columns[0].Type != schema.TypeBoolean {
		t.Errorf("projection must keep column type, got %s", result.Columns[0].Type)
	}
}

func TestValidationOrder(t *testing.T) {
	tests := []struct {
		name   string
		req    Request
		reason string
	}{
		{
			name:   "empty selection wins over everything",
			req:    NewRequest().WithAggregation(AggSum, "Nope").WithSort("Nope", Ascending),
			reason: "No columns selected",
		},
		{
			name:   "missing column before aggregation check",
			req:    NewRequest("Region", "Missing").WithAggregation(AggSum, "Other").WithGrouping(true),
			reason: "Column 'Missing' not found in table",
		},
		{
			name:   "duplicate selection",
			req:    NewRequest("Region", "Region"),
			reason: "Column 'Region' selected more than once",
		},
		{
			name:   "aggregation column not selected",
			req:    NewRequest("Region").WithAggregation(AggSum, "Sales").WithGrouping(true).WithSort("Nope", Ascending),
			reason: "Aggregation column 'Sales' is not among the selected columns",
		},
		{
			name:   "aggregation column not selected without grouping",
			req:    NewRequest("Region").WithAggregation(AggMax, "Sales"),
			reason: "Aggregation column 'Sales' is not among the selected columns",
		},
		{
			name:   "sort column not selected",
			req:    NewRequest("Region").WithSort("Sales", Ascending),
			reason: "Sort column 'Sales' not found in result",
		},
		{
			name:   "unknown function",
			req:    NewRequest("Region").WithAggregation(AggFunc(42), "Region"),
			reason: "Unknown aggregation function 42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Transform(salesTable(t), tt.req)
			if err == nil {
				t.Fatal("expected error")
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected *ValidationError, got %T: %v", err, err)
			}
			if vErr.Reason != tt.reason {
				t.Errorf("expected reason %q, got %q", tt.reason, vErr.Reason)
			}
		})
	}
}

func TestSortColumnMustExistAfterAggregation(t *testing.T) {
	tbl, err := table.FromRecords("t",
		[]string{"Region", "Rep", "Sales"},
		[][]any{{"North", "Ann", 1}, {"South", "Bob", 2}})
	if err != nil {
		t.Fatalf("FromRecords failed: %v", err)
	}

	// Rep есть в исходной таблице, но не выбран и после агрегации отсутствует
	req := NewRequest("Region", "Sales").
		WithAggregation(AggSum, "Sales").
		WithGrouping(true).
		WithSort("Rep", Ascending)

	_, err = Transform(tbl, req)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if vErr.Reason != "Sort column 'Rep' does not exist after aggregation" {
		t.Errorf("unexpected reason: %q", vErr.Reason)
	}
}

func TestTransformDoesNotMutateInput(t *testing.T) {
	tbl := salesTable(t)
	before := fmt.Sprint(rowsOf(tbl), tbl.ColumnNames())

	req := NewRequest("Sales", "Region").WithSort("Sales", Ascending)
	result, err := Transform(tbl, req)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	if after := fmt.Sprint(rowsOf(tbl), tbl.ColumnNames()); after != before {
		t.Errorf("input table changed:\nbefore %s\nafter  %s", before, after)
	}

	// Результат не разделяет память строк с исходной таблицей
	result.Rows[0][0] = table.Int(999)
	for _, row := range tbl.Rows {
		if row[1].Equal(table.Int(999)) {
			t.Fatal("result aliases input rows")
		}
	}

	// Выбор колонок без изменений тоже возвращает копию
	same, err := Transform(tbl, NewRequest("Region", "Sales"))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	same.Rows[0][0] = table.String("changed")
	if v, _ := tbl.Value(0, "Region"); !v.Equal(table.String("North")) {
		t.Error("identity projection aliases input rows")
	}
}

func TestSortStability(t *testing.T) {
	tbl, err := table.FromRecords("t",
		[]string{"k", "id"},
		[][]any{{2, "a"}, {1, "b"}, {2, "c"}, {1, "d"}, {2, "e"}})
	if err != nil {
		t.Fatalf("FromRecords failed: %v", err)
	}

	asc, err := Transform(tbl, NewRequest("k", "id").WithSort("k", Ascending))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	assertRows(t, asc, [][]string{{"1", "b"}, {"1", "d"}, {"2", "a"}, {"2", "c"}, {"2", "e"}})

	desc, err := Transform(tbl, NewRequest("k", "id").WithSort("k", Descending))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	assertRows(t, desc, [][]string{{"2", "a"}, {"2", "c"}, {"2", "e"}, {"1", "b"}, {"1", "d"}})
}

func TestSortNullsLast(t *testing.T) {
	tbl, err := table.FromRecords("t",
		[]string{"v"},
		[][]any{{nil}, {3}, {1}, {nil}, {2}})
	if err != nil {
		t.Fatalf("FromRecords failed: %v", err)
	}

	for _, dir := range []Direction{Ascending, Descending} {
		result, err := Transform(tbl, NewRequest("v").WithSort("v", dir))
		if err != nil {
			t.Fatalf("Transform failed: %v", err)
		}
		got := rowsOf(result)
		if got[3][0] != "<null>" || got[4][0] != "<null>" {
			t.Errorf("%s: nulls must be last, got %v", dir, got)
		}
		if dir == Ascending && got[0][0] != "1" {
			t.Errorf("ascending: expected 1 first, got %v", got)
		}
		if dir == Descending && got[0][0] != "3" {
			t.Errorf("descending: expected 3 first, got %v", got)
		}
	}
}

func TestSortReverseRoundTrip(t *testing.T) {
	tbl, err := table.FromRecords("t",
		[]string{"name", "score"},
		[][]any{{"a", 3.5}, {"b", -1}, {"c", 10}, {"d", 0}, {"e", 7.25}})
	if err != nil {
		t.Fatalf("FromRecords failed: %v", err)
	}

	asc, err := Transform(tbl, NewRequest("name", "score").WithSort("score", Ascending))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	desc, err := Transform(tbl, NewRequest("name", "score").WithSort("score", Descending))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	reversed := rowsOf(asc)
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	assertRows(t, desc, reversed)
}

func TestSortMixedKinds(t *testing.T) {
	tbl, err := table.FromRecords("t",
		[]string{"v"},
		[][]any{{true}, {"b"}, {2}, {nil}, {"a"}, {1.5}})
	if err != nil {
		t.Fatalf("FromRecords failed: %v", err)
	}

	result, err := Transform(tbl, NewRequest("v").WithSort("v", Ascending))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	assertRows(t, result, [][]string{{"1.5"}, {"2"}, {"a"}, {"b"}, {"true"}, {"<null>"}})
}

func TestAggregationSingletonIdempotence(t *testing.T) {
	tbl, err := table.FromRecords("t",
		[]string{"k", "v"},
		[][]any{{"a", 1.25}, {"b", 7}, {"c", "text"}})
	if err != nil {
		t.Fatalf("FromRecords failed: %v", err)
	}

	numeric := tbl.Head(2)
	for _, fn := range []AggFunc{AggSum, AggMax, AggMin} {
		result, err := Transform(numeric, NewRequest("k", "v").WithAggregation(fn, "v").WithGrouping(true))
		if err != nil {
			t.Fatalf("%s: Transform failed: %v", fn, err)
		}
		for i, row := range result.Rows {
			if !row[1].Equal(numeric.Rows[i][1]) {
				t.Errorf("%s: singleton group %d changed value %v -> %v", fn, i, numeric.Rows[i][1], row[1])
			}
		}
	}
}

func TestAggregationMixedTypes(t *testing.T) {
	tbl, err := table.FromRecords("t",
		[]string{"k", "v"},
		[][]any{{"a", 1}, {"a", "x"}})
	if err != nil {
		t.Fatalf("FromRecords failed: %v", err)
	}

	for _, fn := range []AggFunc{AggSum, AggMax, AggMin} {
		_, err := Transform(tbl, NewRequest("k", "v").WithAggregation(fn, "v").WithGrouping(true))
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("%s: expected *ValidationError, got %v", fn, err)
		}
	}
}

func TestAggregationSumNonNumeric(t *testing.T) {
	tbl, err := table.FromRecords("t",
		[]string{"k", "v"},
		[][]any{{"a", "x"}, {"a", "y"}})
	if err != nil {
		t.Fatalf("FromRecords failed: %v", err)
	}

	_, err = Transform(tbl, NewRequest("k", "v").WithAggregation(AggSum, "v").WithGrouping(true))
	var tErr *TypeError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected *TypeError, got %v", err)
	}
	if tErr.Column != "v" || tErr.Func != AggSum {
		t.Errorf("unexpected error details: %+v", tErr)
	}
	if !errors.Is(err, ErrType) || !errors.Is(err, ErrValidation) {
		t.Error("TypeError must match ErrType and ErrValidation")
	}

	// Max/Min по строкам допустимы
	result, err := Transform(tbl, NewRequest("k", "v").WithAggregation(AggMax, "v").WithGrouping(true))
	if err != nil {
		t.Fatalf("Max over strings failed: %v", err)
	}
	assertRows(t, result, [][]string{{"a", "y"}})
}

func TestAggregationNulls(t *testing.T) {
	tbl, err := table.FromRecords("t",
		[]string{"k", "v"},
		[][]any{{"a", nil}, {"a", 2}, {nil, 5}, {"b", nil}, {nil, 1}})
	if err != nil {
		t.Fatalf("FromRecords failed: %v", err)
	}

	sum, err := Transform(tbl, NewRequest("k", "v").WithAggregation(AggSum, "v").WithGrouping(true))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	assertRows(t, sum, [][]string{{"a", "2"}, {"<null>", "6"}, {"b", "0"}})

	maxResult, err := Transform(tbl, NewRequest("k", "v").WithAggregation(AggMax, "v").WithGrouping(true))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	assertRows(t, maxResult, [][]string{{"a", "2"}, {"<null>", "5"}, {"b", "<null>"}})
}

func TestAggregationMultiColumnKey(t *testing.T) {
	tbl, err := table.FromRecords("t",
		[]string{"Year", "Region", "Sales"},
		[][]any{
			{2023, "North", 1},
			{2023, "South", 2},
			{2024, "North", 3},
			{2023.0, "North", 4},
		})
	if err != nil {
		t.Fatalf("FromRecords failed: %v", err)
	}

	// Колонки ключа сохраняют исходный относительный порядок, агрегат последний
	req := NewRequest("Sales", "Region", "Year").WithAggregation(AggSum, "Sales").WithGrouping(true)
	result, err := Transform(tbl, req)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	assertColumns(t, result, "Region", "Year", "Sales")
	assertRows(t, result, [][]string{{"North", "2023", "5"}, {"South", "2023", "2"}, {"North", "2024", "3"}})
}

func TestAggregationFloatsAndOverflow(t *testing.T) {
	tbl, err := table.FromRecords("t",
		[]string{"v"},
		[][]any{{1}, {2.5}})
	if err != nil {
		t.Fatalf("FromRecords failed: %v", err)
	}
	result, err := Transform(tbl, NewRequest("v").WithAggregation(AggSum, "v").WithGrouping(true))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	assertRows(t, result, [][]string{{"3.5"}})
	if result.Columns[0].Type != schema.TypeReal {
		t.Errorf("expected REAL, got %s", result.Columns[0].Type)
	}

	big, err := table.FromRecords("t", []string{"v"}, [][]any{{int64(math.MaxInt64)}, {int64(1)}})
	if err != nil {
		t.Fatalf("FromRecords failed: %v", err)
	}
	result, err = Transform(big, NewRequest("v").WithAggregation(AggSum, "v").WithGrouping(true))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if k := result.Rows[0][0].Kind(); k != table.KindFloat {
		t.Errorf("overflowing sum must become float, got %s", k)
	}
}

func TestAggregateEmptyTable(t *testing.T) {
	tbl := table.New("t", table.Column{Name: "k", Type: schema.TypeText}, table.Column{Name: "v", Type: schema.TypeInteger})

	grouped, err := Transform(tbl, NewRequest("k", "v").WithAggregation(AggSum, "v").WithGrouping(true))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if grouped.Len() != 0 {
		t.Errorf("expected no groups, got %d", grouped.Len())
	}

	total, err := Transform(tbl, NewRequest("v").WithAggregation(AggSum, "v").WithGrouping(true))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	assertRows(t, total, [][]string{{"0"}})
}

func TestTransformConcurrent(t *testing.T) {
	tbl := salesTable(t)
	req := NewRequest("Region", "Sales").WithAggregation(AggSum, "Sales").WithGrouping(true).WithSort("Sales", Ascending)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := NewEngine().Transform(tbl, req)
			if err != nil {
				errs <- err
				return
			}
			if fmt.Sprint(rowsOf(result)) != "[[North 15] [South 20]]" {
				errs <- fmt.Errorf("unexpected result %v", rowsOf(result))
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
