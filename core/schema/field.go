package schema

// Field declares one field of a record schema.
type Field struct {
	// Name is the wire name of the field (e.g. "price", "categoryIds").
	Name string

	// Type is the field type. See FieldType constants.
	Type FieldType

	// Required indicates this field must be present on create.
	Required bool

	// Constraints defines refinement rules for this field.
	Constraints []Constraint
}

// FieldType represents the type of a schema field.
type FieldType string

const (
	// Primitive types
	FieldTypeString    FieldType = "string"
	FieldTypeInt       FieldType = "int"
	FieldTypeFloat     FieldType = "float"
	FieldTypeBool      FieldType = "bool"
	FieldTypeTimestamp FieldType = "timestamp"

	// Structured types
	FieldTypeMap     FieldType = "map"     // Open-ended key/value object
	FieldTypeStrings FieldType = "strings" // Array of strings
	FieldTypeIDs     FieldType = "ids"     // Array of record identifiers
)

// IsReference reports whether the field holds identifiers of other records.
func (f Field) IsReference() bool {
	return f.Type == FieldTypeIDs
}
