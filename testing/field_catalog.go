package testing

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mergefield/fieldclip"
)

// FieldCatalogFields will include the field names to seed the catalog with.
type FieldCatalogFields struct {
	Fields []string
}

type fieldCatalogF func(
	init func(FieldCatalogFields, *testing.T) (fieldclip.FieldCatalog, func()),
	t *testing.T,
)

// FieldCatalog tests all the catalog functions.
func FieldCatalog(
	init func(FieldCatalogFields, *testing.T) (fieldclip.FieldCatalog, func()),
	t *testing.T,
) {
	tests := []struct {
		name string
		fn   fieldCatalogF
	}{
		{
			name: "ListFields",
			fn:   ListFields,
		},
		{
			name: "ImportFields",
			fn:   ImportFields,
		},
		{
			name: "ClearFields",
			fn:   ClearFields,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(init, t)
		})
	}
}

// ListFields testing
func ListFields(
	init func(FieldCatalogFields, *testing.T) (fieldclip.FieldCatalog, func()),
	t *testing.T,
) {
	tests := []struct {
		name   string
		fields FieldCatalogFields
		wants  []string
	}{
		{
			name:  "empty catalog",
			wants: []string{},
		},
		{
			name: "keeps import order",
			fields: FieldCatalogFields{
				Fields: []string{"Zip", "Address", "City"},
			},
			wants: []string{"Zip", "Address", "City"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, done := init(tt.fields, t)
			defer done()

			names, err := s.ListFields(context.Background())
			diffErrors(tt.name, err, nil, t)

			if diff := cmp.Diff(tt.wants, names); diff != "" {
				t.Errorf("fields are different -want/+got\ndiff %s", diff)
			}
		})
	}
}

// ImportFields testing
func ImportFields(
	init func(FieldCatalogFields, *testing.T) (fieldclip.FieldCatalog, func()),
	t *testing.T,
) {
	type wants struct {
		err    error
		count  int
		fields []string
	}

	tests := []struct {
		name   string
		fields FieldCatalogFields
		names  []string
		wants  wants
	}{
		{
			name:  "import into empty catalog",
			names: []string{"First", "Last"},
			wants: wants{
				count:  2,
				fields: []string{"First", "Last"},
			},
		},
		{
			name: "import replaces catalog",
			fields: FieldCatalogFields{
				Fields: []string{"Old1", "Old2", "Old3"},
			},
			names: []string{"New"},
			wants: wants{
				count:  1,
				fields: []string{"New"},
			},
		},
		{
			name:  "trims and removes duplicates",
			names: []string{" Email ", "", "Phone", "Email", "   "},
			wants: wants{
				count:  2,
				fields: []string{"Email", "Phone"},
			},
		},
		{
			name: "blank import is rejected and keeps catalog",
			fields: FieldCatalogFields{
				Fields: []string{"Keep"},
			},
			names: []string{"", "  "},
			wants: wants{
				err:    fieldclip.ErrEmptyFieldList,
				fields: []string{"Keep"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, done := init(tt.fields, t)
			defer done()
			ctx := context.Background()

			n, err := s.ImportFields(ctx, tt.names)
			diffErrors(tt.name, err, tt.wants.err, t)
			if n != tt.wants.count {
				t.Errorf("expected %d fields imported, got %d", tt.wants.count, n)
			}

			names, err := s.ListFields(ctx)
			diffErrors(tt.name, err, nil, t)
			if diff := cmp.Diff(tt.wants.fields, names); diff != "" {
				t.Errorf("fields are different -want/+got\ndiff %s", diff)
			}
		})
	}
}

// ClearFields testing
func ClearFields(
	init func(FieldCatalogFields, *testing.T) (fieldclip.FieldCatalog, func()),
	t *testing.T,
) {
	tests := []struct {
		name   string
		fields FieldCatalogFields
	}{
		{
			name: "clear empty catalog",
		},
		{
			name: "clear populated catalog",
			fields: FieldCatalogFields{
				Fields: []string{"A", "B"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, done := init(tt.fields, t)
			defer done()
			ctx := context.Background()

			err := s.ClearFields(ctx)
			diffErrors(tt.name, err, nil, t)

			names, err := s.ListFields(ctx)
			diffErrors(tt.name, err, nil, t)
			if diff := cmp.Diff([]string{}, names); diff != "" {
				t.Errorf("fields are different -want/+got\ndiff %s", diff)
			}

			// The catalog accepts new names after a clear.
			n, err := s.ImportFields(ctx, []string{"C"})
			diffErrors(tt.name, err, nil, t)
			if n != 1 {
				t.Errorf("expected 1 field imported, got %d", n)
			}
		})
	}
}
