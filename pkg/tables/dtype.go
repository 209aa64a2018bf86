package tables

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mergetab/mergetab/pkg/errors"
)

// DType identifies a cell type a column can be cast to.
type DType string

// Supported cell types.
const (
	String DType = "string"
	Int    DType = "int"
	Float  DType = "float"
	Bool   DType = "bool"
	Time   DType = "time"
)

// ParseDType converts a type token into a DType, rejecting unknown values.
func ParseDType(s string) (DType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "string", "str":
		return String, nil
	case "int", "int64", "integer":
		return Int, nil
	case "float", "float64", "double":
		return Float, nil
	case "bool", "boolean":
		return Bool, nil
	case "time", "timestamp", "datetime", "date":
		return Time, nil
	default:
		return "", errors.NewValidationError("dtype", s, "unknown dtype")
	}
}

// TimeLayouts are the layouts tried, in order, when parsing cells as
// timestamps.
var TimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

// Cast converts every cell of the column to the target type. Null cells stay
// null. The cast is column-level: the first cell that cannot be converted
// fails the whole cast and the original column is left for the caller to keep,
// matching the loader's warn-and-continue contract.
func (c Column) Cast(to DType) (Column, error) {
	out := Column{Name: c.Name, Values: make([]Value, len(c.Values))}
	for i, v := range c.Values {
		if v == nil {
			continue
		}
		converted, err := castValue(v, to)
		if err != nil {
			return Column{}, errors.NewCastError(c.Name, string(to), i, err)
		}
		out.Values[i] = converted
	}
	return out, nil
}

// ParseTimes converts the column to timestamps cell by cell. Cells that cannot
// be parsed become null rather than failing the column, mirroring a
// coerce-style date parse. The second return value is the number of cells
// nulled out.
func (c Column) ParseTimes() (Column, int) {
	out := Column{Name: c.Name, Values: make([]Value, len(c.Values))}
	coerced := 0
	for i, v := range c.Values {
		switch cell := v.(type) {
		case nil:
		case time.Time:
			out.Values[i] = cell
		case string:
			if ts, ok := parseTime(cell); ok {
				out.Values[i] = ts
			} else {
				coerced++
			}
		default:
			coerced++
		}
	}
	return out, coerced
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range TimeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func castValue(v Value, to DType) (Value, error) {
	switch to {
	case String:
		return castString(v)
	case Int:
		return castInt(v)
	case Float:
		return castFloat(v)
	case Bool:
		return castBool(v)
	case Time:
		return castTime(v)
	default:
		return nil, errors.NewValidationError("dtype", string(to), "unknown dtype")
	}
}

func castString(v Value) (Value, error) {
	switch cell := v.(type) {
	case string:
		return cell, nil
	case int64:
		return strconv.FormatInt(cell, 10), nil
	case float64:
		return strconv.FormatFloat(cell, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(cell), nil
	case time.Time:
		return cell.Format(time.RFC3339), nil
	default:
		return nil, errors.NewValidationError("value", v, "unsupported cell type")
	}
}

func castInt(v Value) (Value, error) {
	switch cell := v.(type) {
	case int64:
		return cell, nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(cell), 10, 64)
		if err != nil {
			return nil, err
		}
		return n, nil
	case float64:
		if cell != math.Trunc(cell) || math.IsInf(cell, 0) || math.IsNaN(cell) {
			return nil, errors.NewValidationError("value", cell, "not an integral value")
		}
		return int64(cell), nil
	case bool:
		if cell {
			return int64(1), nil
		}
		return int64(0), nil
	default:
		return nil, errors.NewValidationError("value", v, "cannot convert to int")
	}
}

func castFloat(v Value) (Value, error) {
	switch cell := v.(type) {
	case float64:
		return cell, nil
	case int64:
		return float64(cell), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, errors.NewValidationError("value", v, "cannot convert to float")
	}
}

func castBool(v Value) (Value, error) {
	switch cell := v.(type) {
	case bool:
		return cell, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(cell))
		if err != nil {
			return nil, err
		}
		return b, nil
	case int64:
		switch cell {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
		return nil, errors.NewValidationError("value", cell, "cannot convert to bool")
	default:
		return nil, errors.NewValidationError("value", v, "cannot convert to bool")
	}
}

func castTime(v Value) (Value, error) {
	switch cell := v.(type) {
	case time.Time:
		return cell, nil
	case string:
		if ts, ok := parseTime(cell); ok {
			return ts, nil
		}
		return nil, errors.NewValidationError("value", cell, "unparseable timestamp")
	default:
		return nil, errors.NewValidationError("value", v, "cannot convert to time")
	}
}
