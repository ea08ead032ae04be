package engine

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beanmapper/internal/cache"
	"beanmapper/internal/classmap"
	"beanmapper/internal/fixture/store"
	"beanmapper/internal/fixture/warehouse"
	"beanmapper/internal/stats"
)

func TestMap_Wildcard(t *testing.T) {
	p := newProcessor(t, Config{})

	src := &store.Customer{
		ID:         42,
		Email:      "ada@example.com",
		FullName:   "Ada Lovelace",
		Address:    ptr("London"),
		IsActive:   true,
		Tags:       []string{"vip"},
		Attributes: map[string]string{"tier": "gold"},
	}

	var dst warehouse.Customer
	require.NoError(t, p.Map(src, &dst))

	assert.Equal(t, warehouse.Customer{
		ID:         42,
		Email:      "ada@example.com",
		FullName:   "Ada Lovelace",
		Address:    "London",
		IsActive:   true,
		Tags:       []string{"vip"},
		Attributes: map[string]string{"tier": "gold"},
	}, dst)

	src.Tags[0] = "changed"
	src.Attributes["tier"] = "changed"
	assert.Equal(t, "vip", dst.Tags[0], "slices are copied deeply")
	assert.Equal(t, "gold", dst.Attributes["tier"], "maps are copied deeply")
}

func TestMap_ClassMap(t *testing.T) {
	p := newProcessor(t, Config{
		ConvertersByID: map[string]CustomConverter{"cents": MustFuncConverter(centsToAmount)},
	}, orderClassMap())

	var dst warehouse.Order
	require.NoError(t, p.Map(sampleOrder(), &dst))

	assert.Equal(t, uint(7), dst.ID)
	assert.Equal(t, "Ada", dst.Customer)
	assert.Equal(t, "PAID", dst.Status)
	assert.InDelta(t, 12.5, dst.Amount, 1e-9)
	assert.Equal(t, "2024-03-09", dst.PlacedAt)
	assert.Equal(t, "n/a", dst.Note, "nil source takes the default")
	assert.Empty(t, dst.Internal, "excluded field")
	require.Len(t, dst.Items, 2)
	assert.Equal(t, warehouse.OrderItem{ProductID: 2, Name: "ink", Quantity: 1, UnitPrice: 950}, dst.Items[1])
}

func TestMap_Reverse(t *testing.T) {
	p := newProcessor(t, Config{
		ConvertersByID: map[string]CustomConverter{"cents": MustFuncConverter(centsToAmount)},
	}, orderClassMap())

	src := &warehouse.Order{
		ID:       3,
		Customer: "Bob",
		Status:   "SHIPPED",
		Amount:   99.5,
		PlacedAt: "2024-01-02",
		Note:     "fragile",
		Internal: "x",
	}

	var dst store.Order
	require.NoError(t, p.Map(src, &dst))

	assert.Equal(t, int64(3), dst.ID)
	assert.Equal(t, "Bob", dst.CustomerName)
	assert.Equal(t, store.StatusShipped, dst.Status)
	assert.Zero(t, dst.TotalCents, "one-way field is not reversed")
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), dst.OrderedAt)
	require.NotNil(t, dst.Note)
	assert.Equal(t, "fragile", *dst.Note)
	assert.Empty(t, dst.Internal)
}

func TestMap_NullAndEmptyStringHandling(t *testing.T) {
	type src struct {
		Name  *string
		Label string
	}

	type dst struct {
		Name  string
		Label string
	}

	cm := &classmap.ClassMap{A: classDef[src](), B: classDef[dst](), MapNull: ptr(false), MapEmptyString: ptr(false)}
	p := newProcessor(t, Config{}, cm)

	out := dst{Name: "keep", Label: "keep"}
	require.NoError(t, p.Map(&src{}, &out))
	assert.Equal(t, dst{Name: "keep", Label: "keep"}, out)

	implicit := newProcessor(t, Config{})
	require.NoError(t, implicit.Map(&src{}, &out))
	assert.Equal(t, dst{}, out, "defaults map nil and empty values")
}

func TestMap_TrimStrings(t *testing.T) {
	type bean struct{ Name string }

	cfg := classmap.DefaultConfiguration()
	cfg.TrimStrings = true
	p := newProcessor(t, Config{Global: cfg})

	var out bean
	require.NoError(t, p.Map(&bean{Name: "  ada \t"}, &out))
	assert.Equal(t, "ada", out.Name)
}

func TestMap_CaseInsensitiveWildcard(t *testing.T) {
	type src struct{ FULLNAME string }

	type dst struct{ FullName string }

	cfg := classmap.DefaultConfiguration()
	p := newProcessor(t, Config{Global: cfg})

	var out dst
	require.NoError(t, p.Map(&src{FULLNAME: "Ada"}, &out))
	assert.Empty(t, out.FullName)

	cfg.WildcardCaseInsensitive = true
	p = newProcessor(t, Config{Global: cfg})
	require.NoError(t, p.Map(&src{FULLNAME: "Ada"}, &out))
	assert.Equal(t, "Ada", out.FullName)
}

func TestMap_WildcardOff(t *testing.T) {
	cm := orderClassMap()
	cm.Wildcard = ptr(false)
	p := newProcessor(t, Config{
		ConvertersByID: map[string]CustomConverter{"cents": MustFuncConverter(centsToAmount)},
	}, cm)

	var dst warehouse.Order
	require.NoError(t, p.Map(sampleOrder(), &dst))
	assert.Equal(t, "Ada", dst.Customer)
	assert.Zero(t, dst.ID, "only explicit fields are mapped")
	assert.Empty(t, dst.Items)
}

func TestMap_StopOnErrors(t *testing.T) {
	cm := &classmap.ClassMap{
		A: classDef[store.Order](),
		B: classDef[warehouse.Order](),
		Fields: []classmap.FieldMap{
			{A: "Items", B: "Customer"},
		},
	}

	p := newProcessor(t, Config{}, cm)

	var dst warehouse.Order
	err := p.Map(sampleOrder(), &dst)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrIncompatibleTypes)

	var merr *MappingError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "Customer", merr.Field)
	assert.Equal(t, typeKey(reflect.TypeFor[store.Order]()), merr.SrcType)

	cm.StopOnErrors = ptr(false)
	mgr := stats.NewManager(true)
	p = newProcessor(t, Config{Stats: mgr}, cm)

	dst = warehouse.Order{}
	require.NoError(t, p.Map(sampleOrder(), &dst))
	assert.Equal(t, uint(7), dst.ID, "other fields are still mapped")
	assert.InDelta(t, 1, mgr.Value(stats.FieldMappingFailureCount), 0)
	assert.Positive(t, mgr.Value(stats.FieldMappingSuccessCount))
}

func TestMap_NestedErrorPath(t *testing.T) {
	type srcItem struct{ Qty string }

	type src struct{ Items []srcItem }

	type dstItem struct{ Qty int }

	type dst struct{ Items []dstItem }

	p := newProcessor(t, Config{})

	err := p.Map(&src{Items: []srcItem{{Qty: "1"}, {Qty: "x"}}}, &dst{})
	require.Error(t, err)

	var merr *MappingError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "Items[1].Qty", merr.Field)
	assert.Contains(t, err.Error(), "field Items[1].Qty")
}

func TestMapID(t *testing.T) {
	summary := &classmap.ClassMap{
		A:        classDef[store.Order](),
		B:        classDef[warehouse.Order](),
		MapID:    "summary",
		OneWay:   true,
		Wildcard: ptr(false),
		Fields:   []classmap.FieldMap{{A: "CustomerName", B: "Customer"}},
	}

	p := newProcessor(t, Config{}, summary)

	var dst warehouse.Order
	require.NoError(t, p.MapID(sampleOrder(), &dst, "summary"))
	assert.Equal(t, "Ada", dst.Customer)
	assert.Zero(t, dst.ID)

	err := p.MapID(sampleOrder(), &dst, "missing")
	require.ErrorIs(t, err, ErrMapIDNotFound)

	res, err := p.MapTypeID(sampleOrder(), nil, "summary")
	require.NoError(t, err)
	assert.Equal(t, warehouse.Order{Customer: "Ada"}, res)
}

func TestMapType(t *testing.T) {
	p := newProcessor(t, Config{})

	res, err := p.MapType(&store.Customer{FullName: "Ada"}, reflect.TypeFor[warehouse.Customer]())
	require.NoError(t, err)
	assert.Equal(t, warehouse.Customer{FullName: "Ada"}, res)

	res, err = p.MapType(store.Customer{FullName: "Ada"}, reflect.TypeFor[*warehouse.Customer]())
	require.NoError(t, err)
	assert.Equal(t, &warehouse.Customer{FullName: "Ada"}, res)

	_, err = p.MapType(&store.Customer{}, nil)
	require.ErrorIs(t, err, ErrNilDestinationType)
}

func TestMap_InvalidArguments(t *testing.T) {
	p := newProcessor(t, Config{})

	var nilOrder *store.Order

	tests := []struct {
		name string
		src  any
		dst  any
		want error
	}{
		{name: "nil source", src: nil, dst: &warehouse.Order{}, want: ErrNilSource},
		{name: "nil pointer source", src: nilOrder, dst: &warehouse.Order{}, want: ErrNilSource},
		{name: "non-pointer destination", src: sampleOrder(), dst: warehouse.Order{}, want: ErrInvalidDestination},
		{name: "nil destination", src: sampleOrder(), dst: (*warehouse.Order)(nil), want: ErrInvalidDestination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Map(tt.src, tt.dst)
			require.ErrorIs(t, err, tt.want)

			var merr *MappingError
			assert.ErrorAs(t, err, &merr)
		})
	}
}

func TestMap_ConvertersByType(t *testing.T) {
	type src struct{ Total int64 }

	type dst struct{ Total float64 }

	global := classmap.DefaultConfiguration()
	global.CustomConverters = []classmap.ConverterDef{{
		ID:    "cents",
		AType: reflect.TypeFor[int64](),
		BType: reflect.TypeFor[float64](),
	}}

	caches := newCaches(t)
	mgr := stats.NewManager(true)
	p := newProcessor(t, Config{
		Global:         global,
		Caches:         caches,
		Stats:          mgr,
		ConvertersByID: map[string]CustomConverter{"cents": MustFuncConverter(centsToAmount)},
	})

	var out dst
	require.NoError(t, p.Map(&src{Total: 250}, &out))
	assert.InDelta(t, 2.5, out.Total, 1e-9)

	require.NoError(t, p.Map(&src{Total: 100}, &out))
	assert.InDelta(t, 1.0, out.Total, 1e-9)

	region := caches.Cache(cache.ConverterByDestType)
	assert.Positive(t, region.Len())
	assert.Positive(t, region.Hits(), "second lookup is served from the cache")
	assert.Positive(t, caches.Cache(cache.SuperTypeCheck).Len())
	assert.InDelta(t, 2, mgr.Value(stats.CustomConverterSuccessCount), 0)
	assert.Positive(t, mgr.ValueFor(stats.CacheHitCount, cache.ConverterByDestType))
}

func TestMap_ConverterList(t *testing.T) {
	type src struct{ At time.Time }

	type dst struct{ At int64 }

	p := newProcessor(t, Config{
		Converters: []CustomConverter{MustFuncConverter(func(t time.Time) int64 { return t.UnixMilli() })},
	})

	var out dst
	require.NoError(t, p.Map(&src{At: time.UnixMilli(1234)}, &out))
	assert.Equal(t, int64(1234), out.At)
}

func TestMap_UnknownConverterID(t *testing.T) {
	p := newProcessor(t, Config{}, orderClassMap())

	err := p.Map(sampleOrder(), &warehouse.Order{})
	require.ErrorIs(t, err, ErrUnknownConverter)
}

func TestMap_MapBacked(t *testing.T) {
	toRecord := &classmap.ClassMap{
		A:      classDef[store.Customer](),
		B:      classDef[warehouse.Record](),
		OneWay: true,
	}
	toRecord.B.MapGetMethod = "Get"
	toRecord.B.MapSetMethod = "Set"

	fromRecord := &classmap.ClassMap{
		A:      classDef[warehouse.Record](),
		B:      classDef[warehouse.Customer](),
		OneWay: true,
		Fields: []classmap.FieldMap{{A: "name", B: "FullName"}},
	}
	fromRecord.A.MapGetMethod = "Get"
	fromRecord.A.MapSetMethod = "Set"

	p := newProcessor(t, Config{}, toRecord, fromRecord)

	rec := warehouse.NewRecord()
	require.NoError(t, p.Map(&store.Customer{ID: 1, FullName: "Ada", Email: "a@b"}, rec))
	assert.Equal(t, "Ada", rec.Get("FullName"))
	assert.Equal(t, int64(1), rec.Get("id"))

	rec.Set("name", "Grace")

	var out warehouse.Customer
	require.NoError(t, p.Map(rec, &out))
	assert.Equal(t, "Grace", out.FullName)
	assert.Equal(t, "a@b", out.Email)
	assert.Equal(t, uint(1), out.ID)
}

type account struct {
	Name   string
	Status string
}

func (a *account) Init() {
	a.Status = "new"
}

func TestMapType_CreateMethodAndFactory(t *testing.T) {
	type src struct{ Name string }

	cm := &classmap.ClassMap{A: classDef[src](), B: classDef[account]()}
	cm.B.CreateMethod = "Init"
	p := newProcessor(t, Config{}, cm)

	res, err := p.MapType(&src{Name: "ada"}, reflect.TypeFor[*account]())
	require.NoError(t, err)
	assert.Equal(t, &account{Name: "ada", Status: "new"}, res)

	var gotID string

	cm2 := &classmap.ClassMap{A: classDef[src](), B: classDef[account]()}
	cm2.B.BeanFactory = "accounts"
	cm2.B.FactoryBeanID = "account-bean"
	p = newProcessor(t, Config{
		Factories: map[string]BeanFactory{
			"accounts": BeanFactoryFunc(func(_ any, _ reflect.Type, beanID string) (any, error) {
				gotID = beanID

				return &account{Status: "factory"}, nil
			}),
		},
	}, cm2)

	res, err = p.MapType(&src{Name: "ada"}, reflect.TypeFor[account]())
	require.NoError(t, err)
	assert.Equal(t, account{Name: "ada", Status: "factory"}, res)
	assert.Equal(t, "account-bean", gotID)

	cm2.B.BeanFactory = "missing"
	p = newProcessor(t, Config{}, cm2)
	_, err = p.MapType(&src{}, reflect.TypeFor[account]())
	require.ErrorIs(t, err, ErrUnknownFactory)
}

func TestMap_Listeners(t *testing.T) {
	type bean struct {
		A string
		B int
	}

	rec := &recorder{}
	p := newProcessor(t, Config{Listeners: []EventListener{rec}})

	require.NoError(t, p.Map(&bean{A: "x", B: 1}, &bean{}))

	assert.Equal(t, []EventType{
		EventMappingStarted,
		EventPreWritingDestinationValue, EventPostWritingDestinationValue,
		EventPreWritingDestinationValue, EventPostWritingDestinationValue,
		EventMappingFinished,
	}, rec.events)
	assert.Equal(t, []string{"A", "B"}, rec.fields)
}

type upperFieldMapper struct{}

func (upperFieldMapper) MapField(_, dst, value any, _ *classmap.ClassMap, fm *classmap.FieldMap) (bool, error) {
	if fm.B != "Customer" {
		return false, nil
	}

	if value == "fail" {
		return false, errors.New("refused")
	}

	dst.(*warehouse.Order).Customer = "custom:" + value.(string)

	return true, nil
}

func TestMap_CustomFieldMapper(t *testing.T) {
	cm := orderClassMap()
	cm.Fields = cm.Fields[:1]
	p := newProcessor(t, Config{FieldMapper: upperFieldMapper{}}, cm)

	var dst warehouse.Order
	require.NoError(t, p.Map(sampleOrder(), &dst))
	assert.Equal(t, "custom:Ada", dst.Customer)
	assert.Equal(t, uint(7), dst.ID)

	order := sampleOrder()
	order.CustomerName = "fail"
	require.Error(t, p.Map(order, &dst))
}

func TestMap_CopyByReference(t *testing.T) {
	type inner struct{ V int }

	type bean struct{ In *inner }

	cm := &classmap.ClassMap{
		A:      classDef[bean](),
		B:      classDef[bean](),
		Fields: []classmap.FieldMap{{A: "In", B: "In", CopyByReference: true}},
	}
	p := newProcessor(t, Config{}, cm)

	src := &bean{In: &inner{V: 1}}
	var dst bean
	require.NoError(t, p.Map(src, &dst))
	assert.Same(t, src.In, dst.In)

	implicit := newProcessor(t, Config{})
	dst = bean{}
	require.NoError(t, implicit.Map(src, &dst))
	assert.NotSame(t, src.In, dst.In)
	assert.Equal(t, src.In, dst.In)
}

func TestMap_DisabledConversionCategory(t *testing.T) {
	type src struct{ N string }

	type dst struct{ N int }

	global := classmap.DefaultConfiguration()
	p := newProcessor(t, Config{Global: global})

	var out dst
	require.NoError(t, p.Map(&src{N: "12"}, &out))
	assert.Equal(t, 12, out.N)

	global.Conversions = 0
	p = newProcessor(t, Config{Global: global})
	require.ErrorIs(t, p.Map(&src{N: "12"}, &dst{}), ErrIncompatibleTypes)
}
