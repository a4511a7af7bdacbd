// Package catalog declares the product and category resources.
package catalog

import "github.com/shopstream/shopstream/core/schema"

// Collection names within the catalog database.
const (
	ProductsCollection   = "products"
	CategoriesCollection = "categories"
)

// Push event names broadcast on successful creation.
const (
	NewProductEvent  = "newProduct"
	NewCategoryEvent = "newCategory"
)

// Product returns the create schema for a product. The identifier is
// omitted entirely: it is assigned by the store, never by the client.
// A product may reference zero or more categories; dangling references
// are accepted.
func Product() schema.Record {
	return schema.Record{
		Name: "product",
		Fields: []schema.Field{
			{Name: "name", Type: schema.FieldTypeString, Required: true},
			{Name: "about", Type: schema.FieldTypeString, Required: true},
			{Name: "price", Type: schema.FieldTypeFloat, Required: true, Constraints: []schema.Constraint{
				{Type: schema.ConstraintGreaterThan, Value: 0},
			}},
			{Name: "categoryIds", Type: schema.FieldTypeIDs, Required: true},
		},
	}
}

// Category returns the create schema for a category.
func Category() schema.Record {
	return schema.Record{
		Name: "category",
		Fields: []schema.Field{
			{Name: "name", Type: schema.FieldTypeString, Required: true},
		},
	}
}
