package memory

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
	"unicode"

	"fittrack/internal/repository"
)

// snakeCase maps a Go field name to its store column name, the same way the
// relational backend names columns (OwnerID -> owner_id, URL -> url).
func snakeCase(name string) string {
	rs := []rune(name)
	var b strings.Builder
	for i, r := range rs {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(rs[i-1]) || (i+1 < len(rs) && unicode.IsLower(rs[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// fieldByColumn finds the struct field backing a column, walking embedded
// structs (Model) along the way.
func fieldByColumn(v reflect.Value, column string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			if fv, ok := fieldByColumn(v.Field(i), column); ok {
				return fv, true
			}
			continue
		}
		if snakeCase(f.Name) == column {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func looseEqual(a, b any) bool { return fmt.Sprint(a) == fmt.Sprint(b) }

// matches evaluates the AND-composed predicate against one row.
func matches[T any](row *T, pred repository.Predicate) bool {
	v := reflect.ValueOf(row).Elem()
	for _, c := range pred.Conds {
		fv, ok := fieldByColumn(v, c.Column)
		if !ok {
			return false
		}
		switch c.Op {
		case repository.OpIsNull:
			if fv.Kind() != reflect.Pointer || !fv.IsNil() {
				return false
			}
		case repository.OpEq:
			if fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					return false
				}
				fv = fv.Elem()
			}
			if !looseEqual(fv.Interface(), c.Value) {
				return false
			}
		case repository.OpContains:
			s, _ := fv.Interface().(string)
			if !strings.Contains(strings.ToLower(s), strings.ToLower(fmt.Sprint(c.Value))) {
				return false
			}
		case repository.OpIn:
			vals := reflect.ValueOf(c.Value)
			if vals.Kind() != reflect.Slice {
				return false
			}
			found := false
			for i := 0; i < vals.Len(); i++ {
				if looseEqual(fv.Interface(), vals.Index(i).Interface()) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

func compareValues(a, b reflect.Value) int {
	for a.Kind() == reflect.Pointer {
		if a.IsNil() {
			return -1
		}
		a = a.Elem()
	}
	for b.Kind() == reflect.Pointer {
		if b.IsNil() {
			return 1
		}
		b = b.Elem()
	}
	switch a.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(a.Int() - b.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		switch {
		case a.Uint() < b.Uint():
			return -1
		case a.Uint() > b.Uint():
			return 1
		}
		return 0
	case reflect.Float32, reflect.Float64:
		switch {
		case a.Float() < b.Float():
			return -1
		case a.Float() > b.Float():
			return 1
		}
		return 0
	case reflect.String:
		return strings.Compare(a.String(), b.String())
	}
	if at, ok := a.Interface().(time.Time); ok {
		bt := b.Interface().(time.Time)
		switch {
		case at.Before(bt):
			return -1
		case at.After(bt):
			return 1
		}
		return 0
	}
	return strings.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
}

// sortRows applies the requested ordering, falling back to id order so
// results stay deterministic.
func sortRows[T any](rows []T, orders []repository.Order) {
	sort.SliceStable(rows, func(i, j int) bool {
		vi := reflect.ValueOf(&rows[i]).Elem()
		vj := reflect.ValueOf(&rows[j]).Elem()
		for _, o := range orders {
			fi, oki := fieldByColumn(vi, o.Column)
			fj, okj := fieldByColumn(vj, o.Column)
			if !oki || !okj {
				continue
			}
			c := compareValues(fi, fj)
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		fi, _ := fieldByColumn(vi, "id")
		fj, _ := fieldByColumn(vj, "id")
		return compareValues(fi, fj) < 0
	})
}
