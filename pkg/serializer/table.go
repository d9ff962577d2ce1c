package serializer

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tabular is implemented by values with a natural row/column layout.
type Tabular interface {
	TableHeader() []string
	TableRows() [][]string
}

var headerCaser = cases.Upper(language.English)

func writeTable(out io.Writer, v any) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	if t, ok := v.(Tabular); ok {
		header := t.TableHeader()
		cols := make([]string, len(header))
		for i, h := range header {
			cols[i] = headerCaser.String(h)
		}
		fmt.Fprintln(tw, strings.Join(cols, "\t"))
		for _, row := range t.TableRows() {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		return tw.Flush()
	}

	rows := map[string]string{}
	flatten("", reflect.ValueOf(v), rows)

	fmt.Fprintln(tw, "FIELD\tVALUE")
	if len(rows) == 0 {
		fmt.Fprintln(tw, "<empty>\t")
		return tw.Flush()
	}

	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%s\n", k, rows[k])
	}
	return tw.Flush()
}

// flatten walks v and records leaf values under dotted keys ("Inner.Field",
// "[0].Name", "map.key").
func flatten(prefix string, v reflect.Value, out map[string]string) {
	if !v.IsValid() {
		if prefix != "" {
			out[prefix] = "<nil>"
		}
		return
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			if prefix != "" {
				out[prefix] = "<nil>"
			}
			return
		}
		flatten(prefix, v.Elem(), out)
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			flatten(join(prefix, t.Field(i).Name), v.Field(i), out)
		}
	case reflect.Map:
		for _, k := range v.MapKeys() {
			flatten(join(prefix, fmt.Sprint(k.Interface())), v.MapIndex(k), out)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			flatten(fmt.Sprintf("%s[%d]", prefix, i), v.Index(i), out)
		}
	default:
		out[prefix] = fmt.Sprint(v.Interface())
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
