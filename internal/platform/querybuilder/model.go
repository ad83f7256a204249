package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel builds an insert from the exported `db`-tagged fields of a
// struct, in declaration order.
func InsertModel(table string, model any) (string, []any, error) {
	value := reflect.Indirect(reflect.ValueOf(model))
	if !value.IsValid() {
		return "", nil, fmt.Errorf("model cannot be nil")
	}
	if value.Kind() != reflect.Struct {
		return "", nil, fmt.Errorf("model must be a struct, got %s", value.Kind())
	}

	var (
		cols []string
		vals []any
	)
	typ := value.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		col, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		col = strings.TrimSpace(col)
		if col == "" || col == "-" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}
	if len(cols) == 0 {
		return "", nil, fmt.Errorf("model %s has no db columns", typ.Name())
	}

	return InsertInto(table).Columns(cols...).Values(vals...).ToSQL()
}
