package scan

import (
	"strings"
)

// Type enumerates the value types a scan column can produce.
type Type uint

// The different column types. List types hold []interface{} values
// whose elements are the corresponding scalar type, VarcharMap holds
// utils.StringMap values.
const (
	InvalidType Type = iota
	Int64
	Double
	Boolean
	Varchar
	Int64List
	DoubleList
	VarcharList
	VarcharMap
)

func (t Type) String() string {
	switch t {
	case Int64:
		return "BIGINT"
	case Double:
		return "DOUBLE"
	case Boolean:
		return "BOOLEAN"
	case Varchar:
		return "VARCHAR"
	case Int64List:
		return "BIGINT[]"
	case DoubleList:
		return "DOUBLE[]"
	case VarcharList:
		return "VARCHAR[]"
	case VarcharMap:
		return "MAP(VARCHAR, VARCHAR)"
	default:
		return "INVALID"
	}
}

// ParseType maps a scalar type name to its Type, accepting both the
// SQL spellings Type.String produces and a few common aliases. It
// reports whether the name was recognized.
func ParseType(name string) (Type, bool) {
	switch strings.ToUpper(name) {
	case "BIGINT", "INTEGER", "INT64":
		return Int64, true
	case "DOUBLE", "FLOAT":
		return Double, true
	case "BOOLEAN", "BOOL":
		return Boolean, true
	case "VARCHAR", "STRING", "TEXT":
		return Varchar, true
	default:
		return InvalidType, false
	}
}

// A ColumnSpec describes one column a scan produces.
type ColumnSpec struct {
	Name     string
	Type     Type
	Nullable bool
}

// A Schema is the ordered list of columns a scan produces. Row values
// returned by a Scanner line up with it positionally.
type Schema []ColumnSpec

// Find returns the index of the column with the given name, or -1.
func (s Schema) Find(name string) int {
	for i, col := range s {
		if col.Name == name {
			return i
		}
	}
	return -1
}

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, col := range s {
		names[i] = col.Name
	}
	return names
}
