// Package analytics declares the view, action and goal resources.
//
// All three land in a single collection; records are distinguished only by
// which optional fields are present, with no explicit discriminator. The
// action and goal schemas are derived from the view schema by extension.
package analytics

import "github.com/shopstream/shopstream/core/schema"

// Collection holds every analytics record.
const Collection = "analytics"

// View returns the create schema for a page view.
func View() schema.Record {
	return schema.Record{
		Name: "view",
		Fields: []schema.Field{
			{Name: "source", Type: schema.FieldTypeString, Required: true},
			{Name: "url", Type: schema.FieldTypeString, Required: true},
			{Name: "visitor", Type: schema.FieldTypeString, Required: true},
			{Name: "createdAt", Type: schema.FieldTypeTimestamp, Required: true},
			{Name: "meta", Type: schema.FieldTypeMap, Required: true},
		},
	}
}

// Action returns the view schema extended with a required action field.
func Action() schema.Record {
	return View().Extend("action",
		schema.Field{Name: "action", Type: schema.FieldTypeString, Required: true},
	)
}

// Goal returns the view schema extended with a required goal field.
func Goal() schema.Record {
	return View().Extend("goal",
		schema.Field{Name: "goal", Type: schema.FieldTypeString, Required: true},
	)
}
