package loader

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"beanmapper/internal/analyze"
	"beanmapper/internal/classmap"
	"beanmapper/internal/diagnostic"
	"beanmapper/internal/fixture/store"
	"beanmapper/internal/fixture/warehouse"
	"beanmapper/internal/mapping"
)

func testdata(name string) string {
	return filepath.Join("testdata", name)
}

func newLoader(t *testing.T, opts ...Option) *FileLoader {
	t.Helper()

	base := []Option{
		WithLogger(zaptest.NewLogger(t)),
		WithTypes(store.Order{}, store.Customer{}, warehouse.Order{}, &warehouse.Record{}),
		WithTypes(reflect.TypeFor[warehouse.Customer]()),
	}

	return New(append(base, opts...)...)
}

func idOf[T any]() string {
	return analyze.IDOf(reflect.TypeFor[T]()).String()
}

func TestLoad_Files(t *testing.T) {
	l := newLoader(t)

	res, err := l.Load(context.Background(), []string{testdata("orders.yaml"), testdata("customers.yaml")}, nil)
	require.NoError(t, err)

	orderID, whOrderID := idOf[store.Order](), idOf[warehouse.Order]()

	cm := res.Mappings.Find(orderID, whOrderID, "")
	require.NotNil(t, cm)
	assert.Equal(t, reflect.TypeFor[store.Order](), cm.A.Type)
	assert.Equal(t, testdata("orders.yaml"), cm.Source)
	require.Len(t, cm.Fields, 5)
	assert.Equal(t, "Customer", cm.Fields[0].B)

	reverse := res.Mappings.Find(whOrderID, orderID, "")
	require.NotNil(t, reverse)
	assert.True(t, reverse.Reversed)

	record := res.Mappings.Find(idOf[store.Customer](), idOf[warehouse.Record](), "record")
	require.NotNil(t, record)
	assert.True(t, record.B.IsMapBacked())
	assert.Nil(t, res.Mappings.Find(idOf[warehouse.Record](), idOf[store.Customer](), "record"), "one-way")

	// orders: one class map and its reverse; customers: two class maps and one reverse.
	assert.Equal(t, 5, res.Mappings.Len())

	assert.Equal(t, testdata("orders.yaml"), res.Global.Source)
	assert.Equal(t, "2006-01-02", res.Global.DateFormat)
	require.Len(t, res.Global.CustomConverters, 1)
	assert.Equal(t, reflect.TypeFor[int64](), res.Global.CustomConverters[0].AType)
	assert.Equal(t, reflect.TypeFor[float64](), res.Global.CustomConverters[0].BType)
}

func TestLoad_BuilderData(t *testing.T) {
	l := New()

	data := &classmap.MappingFileData{
		Source: classmap.SourceBuilder,
		ClassMaps: []*classmap.ClassMap{{
			A:      classmap.ClassDef{Name: "store.Order"},
			B:      classmap.ClassDef{Name: "warehouse.Order"},
			Fields: []classmap.FieldMap{{A: "CustomerName", B: "Customer"}},
		}},
		Types: []reflect.Type{reflect.TypeFor[store.Order](), reflect.TypeFor[warehouse.Order]()},
	}

	res, err := l.Load(context.Background(), nil, []*classmap.MappingFileData{nil, data})
	require.NoError(t, err)

	cm := res.Mappings.Find(idOf[store.Order](), idOf[warehouse.Order](), "")
	require.NotNil(t, cm)
	assert.Equal(t, classmap.SourceBuilder, cm.Source)
	assert.Equal(t, classmap.DefaultConfiguration().Wildcard, res.Global.Wildcard)
	assert.Empty(t, res.Global.Source)
}

func TestLoad_ExplicitMapWinsOverReverse(t *testing.T) {
	l := newLoader(t)

	explicit := &classmap.MappingFileData{
		Source: classmap.SourceBuilder,
		ClassMaps: []*classmap.ClassMap{{
			A: classmap.ClassDef{Name: "warehouse.Order"},
			B: classmap.ClassDef{Name: "store.Order"},
		}},
	}

	res, err := l.Load(context.Background(), []string{testdata("orders.yaml")}, []*classmap.MappingFileData{explicit})
	require.NoError(t, err)

	cm := res.Mappings.Find(idOf[warehouse.Order](), idOf[store.Order](), "")
	require.NotNil(t, cm)
	assert.False(t, cm.Reversed)
	assert.Equal(t, classmap.SourceBuilder, cm.Source)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		data     []*classmap.MappingFileData
		checks   mapping.Checks
		wantCode string
		contains string
	}{
		{
			name:     "duplicate configuration",
			files:    []string{testdata("orders.yaml"), testdata("duplicate_config.yaml")},
			wantCode: diagnostic.CodeDuplicateGlobal,
			contains: "declared more than once",
		},
		{
			name:     "unknown type",
			files:    []string{testdata("unknown_type.yaml")},
			wantCode: diagnostic.CodeUnknownType,
			contains: "did you mean",
		},
		{
			name:     "unknown converter",
			files:    []string{testdata("orders.yaml")},
			checks:   mapping.Checks{Converter: func(string) bool { return false }},
			wantCode: diagnostic.CodeUnknownConverter,
			contains: `"cents"`,
		},
		{
			name:  "duplicate class map",
			files: []string{testdata("orders.yaml")},
			data: []*classmap.MappingFileData{{
				Source: classmap.SourceBuilder,
				ClassMaps: []*classmap.ClassMap{{
					A: classmap.ClassDef{Name: "store.Order"},
					B: classmap.ClassDef{Name: "warehouse.Order"},
				}},
			}},
			wantCode: diagnostic.CodeDuplicateMapping,
			contains: "builder",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLoader(t, WithChecks(tt.checks))

			_, err := l.Load(context.Background(), tt.files, tt.data)
			require.Error(t, err)
			require.ErrorIs(t, err, diagnostic.ErrInvalidMapping)
			assert.Contains(t, err.Error(), tt.contains)

			var verr *diagnostic.ValidationError
			require.ErrorAs(t, err, &verr)

			codes := make([]string, 0, len(verr.Errors))
			for _, d := range verr.Errors {
				codes = append(codes, d.Code)
			}

			assert.Contains(t, codes, tt.wantCode)
		})
	}
}

func TestLoad_FileErrors(t *testing.T) {
	l := newLoader(t)

	_, err := l.Load(context.Background(), []string{testdata("missing.yaml")}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read mapping file")

	_, err = l.Load(context.Background(), []string{testdata("orders.yaml"), testdata("malformed.yaml")}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed.yaml")
}

func TestLoad_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newLoader(t).Load(ctx, []string{testdata("orders.yaml")}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLoad_ManyFilesKeepOrder(t *testing.T) {
	l := newLoader(t, WithParallelism(2))

	files := []string{testdata("customers.yaml"), testdata("orders.yaml")}

	res, err := l.Load(context.Background(), files, nil)
	require.NoError(t, err)

	all := res.Mappings.All()
	require.NotEmpty(t, all)
	assert.Equal(t, testdata("customers.yaml"), all[0].Source)
}

func TestCheck(t *testing.T) {
	l := New(WithLogger(zaptest.NewLogger(t)))

	res, diags, err := l.Check(context.Background(), []string{testdata("orders.yaml"), testdata("unknown_type.yaml")})
	require.NoError(t, err)
	assert.False(t, diags.HasErrors(), "type names are not resolved")
	assert.Equal(t, testdata("orders.yaml"), res.Global.Source)
	assert.NotNil(t, res.Mappings.Find("store.Order", "warehouse.Order", ""))

	_, diags, err = l.Check(context.Background(), []string{testdata("orders.yaml"), testdata("duplicate_config.yaml")})
	require.NoError(t, err)
	require.True(t, diags.HasErrors())
	assert.Equal(t, diagnostic.CodeDuplicateGlobal, diags.Errors[0].Code)

	_, _, err = l.Check(context.Background(), []string{testdata("malformed.yaml")})
	require.Error(t, err)
}
