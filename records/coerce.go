package records

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/theoremus-urban-solutions/rail-router/geometry"
)

var errNotNumber = errors.New("not a number")

// boolWords are the textual flags strconv.ParseBool does not know.
var boolWords = map[string]bool{
	"yes": true, "y": true, "on": true,
	"no": false, "n": false, "off": false, "": false,
}

// toString renders scalar ids and names; integral floats drop the fraction.
func toString(v any) (string, bool) {
	switch t := v.(type) {
	case nil, bool:
		return "", false
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return "", false
		}
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// toFloat rejects the blank and boolean values cast would read as zero or one.
func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case nil, bool:
		return 0, errNotNumber
	case string:
		t = strings.TrimSpace(t)
		if t == "" {
			return 0, errNotNumber
		}
		v = t
	}
	return cast.ToFloat64E(v)
}

func toInt(v any) (int, error) {
	f, err := toFloat(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= 1<<53 {
		return 0, errNotNumber
	}
	return cast.ToIntE(f)
}

// toBool accepts booleans, numbers and the usual textual spellings.
func toBool(v any) (bool, bool) {
	switch t := v.(type) {
	case nil:
		return false, false
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		if b, ok := boolWords[s]; ok {
			return b, true
		}
		if b, err := cast.ToBoolE(s); err == nil {
			return b, true
		}
		if f, err := toFloat(s); err == nil {
			return f != 0, true
		}
		return false, false
	}
	b, err := cast.ToBoolE(v)
	return b, err == nil
}

func boolField(r Record, keys []string, fallback bool) bool {
	v, ok := lookup(r, keys)
	if !ok {
		return fallback
	}
	b, ok := toBool(v)
	if !ok {
		return fallback
	}
	return b
}

func stringField(r Record, keys []string) string {
	v, ok := lookup(r, keys)
	if !ok {
		return ""
	}
	s, _ := toString(v)
	return s
}

// NormalizeColor converts the accepted colour encodings into "#rrggbb".
func NormalizeColor(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		s = strings.TrimPrefix(s, "#")
		s = strings.TrimPrefix(s, "0x")
		if len(s) == 3 {
			s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
		}
		if len(s) != 6 {
			return "", false
		}
		if _, err := strconv.ParseUint(s, 16, 32); err != nil {
			return "", false
		}
		return "#" + s, true
	}
	n, err := toInt(v)
	if err != nil || n < 0 || n > 0xffffff {
		return "", false
	}
	return fmt.Sprintf("#%06x", n), true
}

// toCoord accepts [x,y,z], [x,z], {x,y,z} maps and "x,y,z" / "x y z" strings.
func toCoord(v any) (Coord, bool) {
	switch t := v.(type) {
	case []any:
		return coordFromList(t)
	case []float64:
		l := make([]any, len(t))
		for i, f := range t {
			l[i] = f
		}
		return coordFromList(l)
	case map[string]any:
		x, errX := toFloat(t["x"])
		z, errZ := toFloat(t["z"])
		if errX != nil || errZ != nil {
			return Coord{}, false
		}
		y, _ := toFloat(t["y"])
		return Coord{X: x, Y: y, Z: z}, true
	case string:
		parts := strings.FieldsFunc(t, func(r rune) bool { return r == ',' || r == ' ' || r == ';' })
		l := make([]any, len(parts))
		for i, p := range parts {
			l[i] = p
		}
		return coordFromList(l)
	}
	return Coord{}, false
}

func coordFromList(l []any) (Coord, bool) {
	vals := make([]float64, 0, len(l))
	for _, e := range l {
		f, err := toFloat(e)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return Coord{}, false
		}
		vals = append(vals, f)
	}
	switch len(vals) {
	case 2:
		return Coord{X: vals[0], Z: vals[1]}, true
	case 3:
		return Coord{X: vals[0], Y: vals[1], Z: vals[2]}, true
	}
	return Coord{}, false
}

// toPointList parses a list of coordinates, skipping malformed entries.
func toPointList(v any) []geometry.Point {
	l, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]geometry.Point, 0, len(l))
	for _, e := range l {
		if c, ok := toCoord(e); ok {
			out = append(out, c.Planar())
		}
	}
	return out
}

// toIDList accepts arrays of ids or a delimiter-separated string. Entries of
// a mixed array that are not scalars are skipped.
func toIDList(v any) []string {
	switch t := v.(type) {
	case nil, bool:
		return nil
	case string:
		return dedupeStrings(strings.FieldsFunc(t, func(r rune) bool {
			return r == ',' || r == ';' || r == '|' || r == ' ' || r == '\t' || r == '\n'
		}))
	}
	raw, err := cast.ToStringSliceE(v)
	if err != nil {
		l, ok := v.([]any)
		if !ok {
			return nil
		}
		for _, e := range l {
			if s, ok := toString(e); ok {
				raw = append(raw, s)
			}
		}
	}
	return dedupeStrings(raw)
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
