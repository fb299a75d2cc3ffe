package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Angles is a list of rotation angles in degrees. The config file, env vars
// and flags may also give it as a comma separated string such as "0,45,90".
type Angles []float64

func DefaultRotationAngles() Angles {
	return Angles{0, 45, 90, 135, 180, 225, 270, 315}
}

// ParseRotationAngles parses a comma separated list of degrees. Any token
// that is not a number, or an empty list, yields DefaultRotationAngles.
func ParseRotationAngles(s string) Angles {
	var res Angles
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return DefaultRotationAngles()
		}
		res = append(res, v)
	}
	if len(res) == 0 {
		return DefaultRotationAngles()
	}
	return res
}

func (a Angles) String() string {
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

var anglesType = reflect.TypeOf(Angles{})

// anglesHook lets env vars and flags carry angle lists as plain strings.
func anglesHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != anglesType || from.Kind() != reflect.String {
			return data, nil
		}
		return ParseRotationAngles(reflect.ValueOf(data).String()), nil
	}
}

// listHook splits comma separated strings into numeric arrays and slices, so
// that SLGEN_RENDER_RESOLUTION=800,600 or SLGEN_CAMERA_POSITION=1,2,3 work.
// Arrays need exactly as many values as they hold.
func listHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}
		if to.Kind() != reflect.Array && to.Kind() != reflect.Slice {
			return data, nil
		}
		elem := to.Elem().Kind()
		isFloat := elem == reflect.Float32 || elem == reflect.Float64
		isInt := elem >= reflect.Int && elem <= reflect.Int64
		if !isFloat && !isInt {
			return data, nil
		}

		raw := reflect.ValueOf(data).String()
		var toks []string
		for _, tok := range strings.Split(raw, ",") {
			if tok = strings.TrimSpace(tok); tok != "" {
				toks = append(toks, tok)
			}
		}

		var out reflect.Value
		if to.Kind() == reflect.Array {
			if len(toks) != to.Len() {
				return nil, fmt.Errorf("%q: want %d comma separated values, got %d", raw, to.Len(), len(toks))
			}
			out = reflect.New(to).Elem()
		} else {
			out = reflect.MakeSlice(to, len(toks), len(toks))
		}

		for i, tok := range toks {
			if isFloat {
				f, err := strconv.ParseFloat(tok, 64)
				if err != nil {
					return nil, fmt.Errorf("%q: %w", raw, err)
				}
				out.Index(i).SetFloat(f)
				continue
			}
			n, err := strconv.ParseInt(tok, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%q: %w", raw, err)
			}
			out.Index(i).SetInt(n)
		}
		return out.Interface(), nil
	}
}
