package transform

import (
	"strconv"

	"github.com/ruslano69/datatransformer/pkg/core/schema"
	"github.com/ruslano69/datatransformer/pkg/core/table"
)

// partition строки с одинаковым значением ключа группировки
type partition struct {
	key  table.Row
	rows []table.Row
}

// Aggregate группирует строки по колонкам groupKey и вычисляет агрегат по agg.Column.
// Группы следуют в порядке первого появления. Пустой groupKey дает одну строку.
// Null в колонке ключа образует отдельную группу.
func Aggregate(t *table.Table, groupKey []string, agg Aggregation) (*table.Table, error) {
	aggIdx := t.ColumnIndex(agg.Column)
	if aggIdx < 0 {
		return nil, validationErrorf("Aggregation column '%s' not found in table", agg.Column)
	}

	if err := checkAggregationColumn(t, aggIdx, agg); err != nil {
		return nil, err
	}

	keyIdx := make([]int, len(groupKey))
	cols := make([]table.Column, 0, len(groupKey)+1)
	for i, name := range groupKey {
		keyIdx[i] = t.ColumnIndex(name)
		if keyIdx[i] < 0 {
			return nil, validationErrorf("Group column '%s' not found in table", name)
		}
		cols = append(cols, t.Columns[keyIdx[i]])
	}

	partitions := partitionRows(t.Rows, keyIdx)

	out := table.New(t.Name, append(cols, table.Column{Name: agg.Column})...)
	out.Rows = make([]table.Row, 0, len(partitions))
	kinds := make([]table.Kind, 0, len(partitions))

	for _, p := range partitions {
		value, err := aggregateValues(p.rows, aggIdx, agg)
		if err != nil {
			return nil, err
		}
		row := make(table.Row, 0, len(cols)+1)
		row = append(row, p.key...)
		row = append(row, value)
		out.Rows = append(out.Rows, row)
		kinds = append(kinds, value.Kind())
	}

	out.Columns[len(cols)].Type = aggregatedType(t.Columns[aggIdx].Type, agg.Func, kinds)
	return out, nil
}

func partitionRows(rows []table.Row, keyIdx []int) []*partition {
	// Пустой ключ: одна группа на всю таблицу, даже если строк нет
	if len(keyIdx) == 0 {
		return []*partition{{rows: rows}}
	}

	var order []*partition
	byKey := make(map[string]*partition)

	for _, row := range rows {
		key := make(table.Row, len(keyIdx))
		encoded := make([]byte, 0, 32)
		for i, idx := range keyIdx {
			key[i] = row[idx]
			part := key[i].Key()
			encoded = strconv.AppendInt(encoded, int64(len(part)), 10)
			encoded = append(encoded, ':')
			encoded = append(encoded, part...)
		}

		p, ok := byKey[string(encoded)]
		if !ok {
			p = &partition{key: key}
			byKey[string(encoded)] = p
			order = append(order, p)
		}
		p.rows = append(p.rows, row)
	}

	return order
}

// checkAggregationColumn отклоняет колонки со значениями разных видов
// (числа, строки, bool) и нечисловые значения для Sum.
func checkAggregationColumn(t *table.Table, aggIdx int, agg Aggregation) error {
	var first table.Value
	for _, row := range t.Rows {
		v := row[aggIdx]
		if v.IsNull() {
			continue
		}
		if first.IsNull() {
			first = v
			continue
		}
		if v.IsNumeric() != first.IsNumeric() || (!v.IsNumeric() && v.Kind() != first.Kind()) {
			return validationErrorf("Aggregation column '%s' contains mixed value types (%s and %s)",
				agg.Column, first.Kind(), v.Kind())
		}
	}

	if agg.Func == AggSum && !first.IsNull() && !first.IsNumeric() {
		return &TypeError{Func: agg.Func, Column: agg.Column, Value: first.String()}
	}
	return nil
}

func aggregateValues(rows []table.Row, idx int, agg Aggregation) (table.Value, error) {
	switch agg.Func {
	case AggSum:
		return sumValues(rows, idx, agg)
	case AggMax:
		return extremeValue(rows, idx, 1), nil
	case AggMin:
		return extremeValue(rows, idx, -1), nil
	}
	return table.Null(), validationErrorf("Unknown aggregation function %d", uint8(agg.Func))
}

// sumValues суммирует числа, пропуская Null. Целая сумма остается целой,
// при переполнении переходит в float. Сумма без значений равна 0.
func sumValues(rows []table.Row, idx int, agg Aggregation) (table.Value, error) {
	var (
		intSum   int64
		floatSum float64
		isFloat  bool
	)

	for _, row := range rows {
		v := row[idx]
		switch v.Kind() {
		case table.KindNull:
			continue
		case table.KindInt:
			n, _ := v.Int64()
			if !isFloat {
				if s, ok := addInt64(intSum, n); ok {
					intSum = s
					continue
				}
				isFloat = true
				floatSum = float64(intSum)
			}
			floatSum += float64(n)
		case table.KindFloat:
			f, _ := v.Float64()
			if !isFloat {
				isFloat = true
				floatSum = float64(intSum)
			}
			floatSum += f
		default:
			return table.Null(), &TypeError{Func: agg.Func, Column: agg.Column, Value: v.String()}
		}
	}

	if isFloat {
		return table.Float(floatSum), nil
	}
	return table.Int(intSum), nil
}

func addInt64(a, b int64) (int64, bool) {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		return 0, false
	}
	return s, true
}

// extremeValue возвращает максимум (sign = 1) или минимум (sign = -1), пропуская Null.
// При равенстве остается первое значение.
func extremeValue(rows []table.Row, idx int, sign int) table.Value {
	best := table.Null()
	for _, row := range rows {
		v := row[idx]
		if v.IsNull() {
			continue
		}
		if best.IsNull() || table.Compare(v, best)*sign > 0 {
			best = v
		}
	}
	return best
}

// aggregatedType тип колонки агрегата: Sum по целым остается INTEGER,
// Sum с дробными дает REAL, Max/Min сохраняют тип исходной колонки.
func aggregatedType(source schema.DataType, fn AggFunc, kinds []table.Kind) schema.DataType {
	if fn != AggSum {
		if source == "" {
			return schema.TypeText
		}
		return source
	}
	for _, k := range kinds {
		if k == table.KindFloat {
			return schema.TypeReal
		}
	}
	if source != "" && schema.NormalizeType(source) != schema.TypeInteger && schema.IsNumericType(source) {
		return source
	}
	return schema.TypeInteger
}
