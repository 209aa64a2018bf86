package tables

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RowKey builds a deterministic, collision-free identity string for a key
// tuple. Each cell is encoded with a type tag and a length prefix so that
// distinct tuples never collide, regardless of cell contents. Null cells
// participate as an explicit null token, so two null keys match each other,
// which is the behavior of a hash join over nullable keys.
func RowKey(cells []Value) string {
	var b strings.Builder
	for i, v := range cells {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		writeKeyCell(&b, v)
	}
	return b.String()
}

func writeKeyCell(b *strings.Builder, v Value) {
	switch cell := v.(type) {
	case nil:
		b.WriteString("n")
	case string:
		b.WriteString("s")
		b.WriteString(strconv.Itoa(len(cell)))
		b.WriteString(":")
		b.WriteString(cell)
	case int64:
		b.WriteString("i")
		b.WriteString(strconv.FormatInt(cell, 10))
	case float64:
		b.WriteString("f")
		b.WriteString(strconv.FormatFloat(cell, 'g', -1, 64))
	case bool:
		if cell {
			b.WriteString("b1")
		} else {
			b.WriteString("b0")
		}
	case time.Time:
		b.WriteString("t")
		b.WriteString(strconv.FormatInt(cell.UnixNano(), 10))
	default:
		// Unknown cell types fall back to their string form; the loader only
		// produces the five supported scalar types so this is a safety net.
		b.WriteString("x")
		s := FormatValue(cell)
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteString(":")
		b.WriteString(s)
	}
}

// KeysOf extracts the key tuple identity of a row over the named columns.
// All named columns must exist; callers validate presence beforehand.
func (t *Table) KeysOf(row int, keys []string) string {
	cells := make([]Value, len(keys))
	for i, k := range keys {
		idx := t.index[k]
		cells[i] = t.cols[idx].Values[row]
	}
	return RowKey(cells)
}

// FormatValue renders a cell for human-readable output. Nulls render as the
// empty string, which is also the CSV null marker.
func FormatValue(v Value) string {
	switch cell := v.(type) {
	case nil:
		return ""
	case string:
		return cell
	case int64:
		return strconv.FormatInt(cell, 10)
	case float64:
		return strconv.FormatFloat(cell, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(cell)
	case time.Time:
		return cell.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", cell)
	}
}
