package catalog

import (
	"testing"

	"github.com/shopstream/shopstream/core/schema"
	"github.com/shopstream/shopstream/core/validation"
)

func TestProductSchema(t *testing.T) {
	p := Product()

	if p.Name != "product" {
		t.Errorf("name = %q", p.Name)
	}
	for _, name := range []string{"name", "about", "price", "categoryIds"} {
		f, ok := p.Field(name)
		if !ok {
			t.Fatalf("missing field %q", name)
		}
		if !f.Required {
			t.Errorf("field %q should be required", name)
		}
	}

	refs := p.ReferenceFields()
	if len(refs) != 1 || refs[0] != "categoryIds" {
		t.Errorf("reference fields = %v", refs)
	}
}

func TestProductPriceMustBePositive(t *testing.T) {
	for _, price := range []float64{0, -1} {
		_, result := validation.Validate(Product(), map[string]any{
			"name":        "Keyboard",
			"about":       "Mechanical",
			"price":       price,
			"categoryIds": []string{},
		})
		if result.Valid {
			t.Errorf("price %v accepted, want rejection", price)
		}
	}
}

func TestCategorySchema(t *testing.T) {
	c := Category()

	if c.Name != "category" {
		t.Errorf("name = %q", c.Name)
	}
	f, ok := c.Field("name")
	if !ok || !f.Required || f.Type != schema.FieldTypeString {
		t.Errorf("name field = %+v (found %v)", f, ok)
	}
	if len(c.ReferenceFields()) != 0 {
		t.Errorf("category has no reference fields")
	}
}
