package hashroute

import "strconv"

// Param is one extracted route parameter. Present is false only for an
// optional trailing parameter that the path did not supply.
type Param struct {
	Name    string
	Value   string
	Present bool
}

// Params holds extracted parameters in pattern order.
type Params []Param

// At returns the value at position i and whether it was supplied.
func (p Params) At(i int) (string, bool) {
	if i < 0 || i >= len(p) {
		return "", false
	}
	return p[i].Value, p[i].Present
}

// Get returns the value of the named parameter, or "" when absent.
func (p Params) Get(name string) string {
	for _, param := range p {
		if param.Name == name {
			return param.Value
		}
	}
	return ""
}

// Has reports whether the named parameter was supplied by the path.
func (p Params) Has(name string) bool {
	for _, param := range p {
		if param.Name == name {
			return param.Present
		}
	}
	return false
}

// Int parses the named parameter as an integer. Absent or non-numeric
// values return def and false.
func (p Params) Int(name string, def int) (int, bool) {
	if !p.Has(name) {
		return def, false
	}
	n, err := strconv.Atoi(p.Get(name))
	if err != nil {
		return def, false
	}
	return n, true
}

// Values returns the supplied values positionally; absent optional
// parameters are omitted.
func (p Params) Values() []string {
	out := make([]string, 0, len(p))
	for _, param := range p {
		if param.Present {
			out = append(out, param.Value)
		}
	}
	return out
}
