package analyze

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beanmapper/internal/fixture/store"
	"beanmapper/internal/fixture/warehouse"
)

const (
	storePkg     = "beanmapper/internal/fixture/store"
	warehousePkg = "beanmapper/internal/fixture/warehouse"
)

func TestTypeGraph_AddValue(t *testing.T) {
	graph := NewTypeGraph()
	graph.AddValue(&store.Order{})
	graph.AddValue(warehouse.Order{})

	assert.Contains(t, graph.Types, TypeID{PkgPath: storePkg, Name: "Order"})
	assert.Contains(t, graph.Types, TypeID{PkgPath: warehousePkg, Name: "Order"})

	// Reachable through fields
	assert.Contains(t, graph.Types, TypeID{PkgPath: storePkg, Name: "OrderItem"})
	assert.Contains(t, graph.Types, TypeID{PkgPath: storePkg, Name: "OrderStatus"})
	assert.Contains(t, graph.Types, TypeID{PkgPath: "time", Name: "Time"})
}

func TestTypeGraph_StoreOrderFields(t *testing.T) {
	graph := NewTypeGraph()
	order := graph.AddValue(store.Order{})
	require.NotNil(t, order)
	assert.Equal(t, TypeKindStruct, order.Kind)

	fieldNames := make(map[string]bool)
	for _, f := range order.Fields {
		fieldNames[f.Name] = true
	}

	assert.True(t, fieldNames["ID"], "Order should have ID field")
	assert.True(t, fieldNames["Status"], "Order should have Status field")
	assert.True(t, fieldNames["Items"], "Order should have Items field")

	items := order.Field("Items")
	require.NotNil(t, items)
	assert.Equal(t, TypeKindSlice, items.Type.Kind)
	assert.Equal(t, "OrderItem", items.Type.ElemType.ID.Name)

	assert.Equal(t, TypeKindExternal, order.Field("OrderedAt").Type.Kind)
	assert.Equal(t, TypeKindPointer, order.Field("Note").Type.Kind)
	assert.Equal(t, TypeKindBasic, order.Field("Status").Type.Kind)
}

type node struct {
	Name     string
	Children []*node
	Parent   *node
}

func TestTypeGraph_RecursiveType(t *testing.T) {
	graph := NewTypeGraph()
	info := graph.AddValue(node{})
	require.NotNil(t, info)

	parent := info.Field("Parent")
	require.NotNil(t, parent)
	assert.Same(t, info, parent.Type.ElemType)
	assert.Same(t, info, info.Field("Children").Type.ElemType.ElemType)
}

func TestTypeGraph_Resolve(t *testing.T) {
	graph := NewTypeGraph()
	graph.AddValue(store.Order{})
	graph.AddValue(warehouse.Order{})

	tests := []struct {
		name    string
		input   string
		wantPkg string
		wantNil bool
	}{
		{name: "full path", input: storePkg + ".Order", wantPkg: storePkg},
		{name: "short path", input: "warehouse.Order", wantPkg: warehousePkg},
		{name: "pointer prefix", input: "*store.Order", wantPkg: storePkg},
		{name: "bare name unique", input: "OrderStatus", wantPkg: storePkg},
		{name: "predeclared", input: "int64", wantPkg: ""},
		{name: "time", input: "time.Time", wantPkg: "time"},
		{name: "unknown", input: "store.Invoice", wantNil: true},
		{name: "empty", input: "", wantNil: true},
		{name: "trailing dot", input: "store.", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.Resolve(tt.input)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}

			require.NotNil(t, got)
			assert.Equal(t, tt.wantPkg, got.ID.PkgPath)
		})
	}
}

func TestTypeGraph_Names(t *testing.T) {
	graph := NewTypeGraph()
	graph.AddValue(store.Customer{})

	names := graph.Names()
	assert.Contains(t, names, "store.Customer")
	assert.Contains(t, names, "string")
}

func TestIDOf(t *testing.T) {
	assert.Equal(t, TypeID{PkgPath: storePkg, Name: "Order"}, IDOf(reflect.TypeOf(store.Order{})))
	assert.True(t, IDOf(reflect.TypeOf(&store.Order{})).IsZero())
	assert.True(t, IDOf(nil).IsZero())
	assert.Equal(t, "store.Order", IDOf(reflect.TypeOf(store.Order{})).Short())
}

func TestTypeGraph_Merge(t *testing.T) {
	a := NewTypeGraph()
	b := NewTypeGraph()
	b.AddValue(warehouse.Customer{})

	a.Merge(b)
	assert.NotNil(t, a.Resolve("warehouse.Customer"))
	a.Merge(nil)
}
