package eplite

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// APIKeyParam is the parameter name the credential is sent under.
const APIKeyParam = "apikey"

// Arg is one named argument of a remote call.
type Arg struct {
	Name  string
	Value any
}

// Args is an ordered argument list. Encoding follows insertion order.
// A nil Value (or nil pointer) is absent and is not sent at all.
type Args []Arg

// Set replaces the value of name in place, or appends it.
func (a Args) Set(name string, value any) Args {
	for i := range a {
		if a[i].Name == name {
			a[i].Value = value
			return a
		}
	}
	return append(a, Arg{Name: name, Value: value})
}

// Get returns the value stored under name.
func (a Args) Get(name string) (any, bool) {
	for _, arg := range a {
		if arg.Name == name {
			return arg.Value, true
		}
	}
	return nil, false
}

// Encode turns args into a form-encoded string with the credential first.
// The same string serves as the GET query and the POST body.
func Encode(args Args, apiKey string) string {
	var b strings.Builder
	b.WriteString(APIKeyParam)
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(apiKey))

	for _, arg := range args {
		if arg.Name == APIKeyParam {
			continue
		}
		value, ok := formatValue(arg.Value)
		if !ok {
			continue
		}
		b.WriteByte('&')
		b.WriteString(url.QueryEscape(arg.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}
	return b.String()
}

// formatValue renders a single argument value. ok is false for absent values.
func formatValue(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		return formatValue(rv.Elem().Interface())
	}

	switch val := v.(type) {
	case string:
		return val, true
	case []byte:
		return string(val), true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case time.Time:
		return strconv.FormatInt(val.Unix(), 10), true
	case fmt.Stringer:
		return val.String(), true
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	default:
		return fmt.Sprint(v), true
	}
}
