package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"beanmapper/internal/cache"
	"beanmapper/internal/classmap"
	"beanmapper/internal/fixture/store"
	"beanmapper/internal/fixture/warehouse"
	"beanmapper/internal/stats"
)

func ptr[T any](v T) *T { return &v }

func classDef[T any]() classmap.ClassDef {
	t := reflect.TypeFor[T]()

	return classmap.ClassDef{Name: typeKey(t), Type: t}
}

func newCaches(t *testing.T) *cache.Manager {
	t.Helper()

	m := cache.NewManager()
	require.NoError(t, m.AddCache(cache.ConverterByDestType, 100))
	require.NoError(t, m.AddCache(cache.SuperTypeCheck, 100))

	return m
}

func newProcessor(t *testing.T, cfg Config, maps ...*classmap.ClassMap) *Processor {
	t.Helper()

	mappings := classmap.NewClassMappings()
	for _, cm := range maps {
		require.NoError(t, mappings.Add(cm))

		if !cm.OneWay {
			mappings.AddDefault(cm.Reverse())
		}
	}

	cfg.Mappings = mappings
	if cfg.Global.DateFormat == "" {
		cfg.Global = classmap.DefaultConfiguration()
	}

	if cfg.Caches == nil {
		cfg.Caches = newCaches(t)
	}

	if cfg.Stats == nil {
		cfg.Stats = stats.NewManager(true)
	}

	cfg.Logger = zaptest.NewLogger(t)

	return New(cfg)
}

func centsToAmount(c int64) float64 { return float64(c) / 100 }

func orderClassMap() *classmap.ClassMap {
	return &classmap.ClassMap{
		A:          classDef[store.Order](),
		B:          classDef[warehouse.Order](),
		DateFormat: time.DateOnly,
		Fields: []classmap.FieldMap{
			{A: "CustomerName", B: "Customer"},
			{A: "TotalCents", B: "Amount", ConverterID: "cents", OneWay: true},
			{A: "OrderedAt", B: "PlacedAt"},
			{A: "Note", B: "Note", Default: ptr("n/a")},
			{A: "Internal", B: "Internal", Exclude: true},
		},
	}
}

func sampleOrder() *store.Order {
	return &store.Order{
		ID:           7,
		CustomerName: "Ada",
		Status:       store.StatusPaid,
		TotalCents:   1250,
		Items: []store.OrderItem{
			{ProductID: 1, Name: "pen", Quantity: 2, UnitPrice: 150},
			{ProductID: 2, Name: "ink", Quantity: 1, UnitPrice: 950},
		},
		OrderedAt: time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC),
		Internal:  "secret",
	}
}

// recorder collects listener events.
type recorder struct {
	events []EventType
	fields []string
}

func (r *recorder) MappingStarted(ev Event) { r.events = append(r.events, ev.Type) }

func (r *recorder) PreWritingDestinationValue(ev Event) {
	r.events = append(r.events, ev.Type)
	r.fields = append(r.fields, ev.FieldMap.B)
}

func (r *recorder) PostWritingDestinationValue(ev Event) { r.events = append(r.events, ev.Type) }

func (r *recorder) MappingFinished(ev Event) { r.events = append(r.events, ev.Type) }
