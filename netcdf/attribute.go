package netcdf

import (
	"github.com/robert-malhotra/go-netcdf/internal/header"
)

// Attribute is a named, typed value attached to the file or to a variable.
type Attribute struct {
	att *header.Attribute
}

// Name returns the attribute name.
func (a *Attribute) Name() string {
	return a.att.Name
}

// Type returns the external type of the attribute values.
func (a *Attribute) Type() Type {
	return a.att.Type
}

// Len returns the number of elements: characters for NC_CHAR attributes,
// scalars otherwise.
func (a *Attribute) Len() int {
	return a.att.Len()
}

// Values returns the decoded values. Numeric attributes yield one native
// scalar per element (int8, int16, int32, float32, float64); character
// attributes yield a single string.
func (a *Attribute) Values() []interface{} {
	return a.att.Values
}

// Text returns the value of an NC_CHAR attribute.
func (a *Attribute) Text() (string, bool) {
	return a.att.Text()
}

// Float64 returns the first value of a numeric attribute as float64.
func (a *Attribute) Float64() (float64, bool) {
	if len(a.att.Values) == 0 {
		return 0, false
	}
	switch v := a.att.Values[0].(type) {
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
