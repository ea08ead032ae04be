package mapping

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beanmapper/internal/analyze"
	"beanmapper/internal/classmap"
	"beanmapper/internal/diagnostic"
	"beanmapper/internal/fixture/store"
	"beanmapper/internal/fixture/warehouse"
)

func fixtureGraph() *analyze.TypeGraph {
	g := analyze.NewTypeGraph()
	g.AddValue(store.Order{})
	g.AddValue(store.Customer{})
	g.AddValue(warehouse.Order{})
	g.AddValue(warehouse.Customer{})
	g.AddValue(&warehouse.Record{})

	return g
}

func compileYAML(t *testing.T, src string) *classmap.MappingFileData {
	t.Helper()

	mf, err := Parse([]byte(src))
	require.NoError(t, err)

	data, diags := Compile(mf, "test.yaml")
	require.False(t, diags.HasErrors(), diags.Errors)

	return data
}

func TestValidate_ResolvesTypes(t *testing.T) {
	data := compileYAML(t, `
configuration:
  custom_converters:
    - converter: cents
      source: int64
      target: float64
mappings:
  - source: store.Order
    target: warehouse.Order
    fields:
      - source: TotalCents
        target: Amount
        converter: cents
      - target: Note
        default: "n/a"
`)

	diags := Validate(data, fixtureGraph(), Checks{
		Converter: func(id string) bool { return id == "cents" },
	})
	require.False(t, diags.HasErrors(), diags.Errors)

	cm := data.ClassMaps[0]
	assert.Equal(t, "beanmapper/internal/fixture/store.Order", cm.A.Name)
	assert.Equal(t, reflect.TypeFor[store.Order](), cm.A.Type)
	assert.Equal(t, reflect.TypeFor[warehouse.Order](), cm.B.Type)

	cc := data.Configuration.CustomConverters[0]
	assert.Equal(t, reflect.TypeFor[int64](), cc.AType)
	assert.Equal(t, reflect.TypeFor[float64](), cc.BType)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		checks      Checks
		code        string
		suggestions []string
	}{
		{
			name:        "unknown type",
			yaml:        "mappings:\n  - source: store.Ordr\n    target: warehouse.Order\n",
			code:        diagnostic.CodeUnknownType,
			suggestions: []string{"store.Order"},
		},
		{
			name:        "unknown field",
			yaml:        "mappings:\n  - source: store.Order\n    target: warehouse.Order\n    121:\n      CustomerNam: Customer\n",
			code:        diagnostic.CodeUnknownField,
			suggestions: []string{"CustomerName"},
		},
		{
			name:        "unknown source field of a typed target",
			yaml:        "mappings:\n  - source: store.Order\n    target: warehouse.Order\n    fields:\n      - source: TotalCent\n        target: Amount\n",
			code:        diagnostic.CodeUnknownField,
			suggestions: []string{"TotalCents"},
		},
		{
			name:   "unknown converter",
			yaml:   "mappings:\n  - source: store.Order\n    target: warehouse.Order\n    fields:\n      - source: TotalCents\n        target: Amount\n        converter: nope\n",
			checks: Checks{Converter: func(string) bool { return false }},
			code:   diagnostic.CodeUnknownConverter,
		},
		{
			name: "default not convertible",
			yaml: "mappings:\n  - source: store.Order\n    target: warehouse.Order\n    fields:\n      - target: Items\n        default: \"x\"\n",
			code: diagnostic.CodeInvalidDefault,
		},
		{
			name: "missing create method",
			yaml: "mappings:\n  - source: store.Order\n    target: warehouse.Order\n    target_def:\n      create_method: Build\n",
			code: diagnostic.CodeInvalidOption,
		},
		{
			name:   "unknown bean factory",
			yaml:   "mappings:\n  - source: store.Order\n    target: warehouse.Order\n    target_def:\n      bean_factory: orders\n",
			checks: Checks{Factory: func(string) bool { return false }},
			code:   diagnostic.CodeInvalidOption,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := compileYAML(t, tt.yaml)

			diags := Validate(data, fixtureGraph(), tt.checks)
			require.True(t, diags.HasErrors())
			assert.Equal(t, tt.code, diags.Errors[0].Code)

			for _, want := range tt.suggestions {
				assert.Contains(t, diags.Errors[0].Suggestions, want)
			}
		})
	}
}

func TestValidate_MapBackedSkipsPaths(t *testing.T) {
	data := compileYAML(t, `
mappings:
  - source: store.Customer
    target: warehouse.Record
    target_def:
      map_get_method: Get
      map_set_method: Set
    121:
      FullName: full_name
`)

	diags := Validate(data, fixtureGraph(), Checks{})
	assert.False(t, diags.HasErrors(), diags.Errors)
}

func TestValidate_IncompatibleFieldWarns(t *testing.T) {
	data := compileYAML(t, `
mappings:
  - source: store.Order
    target: warehouse.Order
    121:
      Items: Customer
`)

	diags := Validate(data, fixtureGraph(), Checks{})
	assert.False(t, diags.HasErrors())
	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, diagnostic.CodeIncompatibleField, diags.Warnings[0].Code)
}

func TestValidate_NilInputs(t *testing.T) {
	assert.True(t, Validate(nil, fixtureGraph(), Checks{}).HasErrors())
	assert.True(t, Validate(&classmap.MappingFileData{}, nil, Checks{}).HasErrors())
}
