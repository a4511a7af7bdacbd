package schema

// IDKey is the wire name of the store-assigned record identifier.
// Identifiers are never part of a create schema; a client-supplied
// value under this key is stripped, not honored.
const IDKey = "_id"

// Record declares the shape of one resource type.
// The field list is ordered; violations are reported in declaration order.
type Record struct {
	// Name is the resource name (e.g. "product", "view").
	Name string

	// Fields are the declared fields, in order.
	Fields []Field
}

// Extend returns a new record schema built from this one by appending
// additional fields. The receiver is not modified.
func (r Record) Extend(name string, fields ...Field) Record {
	out := Record{
		Name:   name,
		Fields: make([]Field, 0, len(r.Fields)+len(fields)),
	}
	out.Fields = append(out.Fields, r.Fields...)
	out.Fields = append(out.Fields, fields...)
	return out
}

// Field returns the declared field with the given name.
func (r Record) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// ReferenceFields returns the names of fields holding record identifiers.
func (r Record) ReferenceFields() []string {
	var refs []string
	for _, f := range r.Fields {
		if f.IsReference() {
			refs = append(refs, f.Name)
		}
	}
	return refs
}
