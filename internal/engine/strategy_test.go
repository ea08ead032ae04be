package engine

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"beanmapper/internal/fixture/store"
	"beanmapper/internal/fixture/warehouse"
	"beanmapper/internal/match"
	"beanmapper/primitive"
)

func TestSelectStrategy(t *testing.T) {
	tests := []struct {
		name     string
		src, dst reflect.Type
		beanPair bool
		want     Strategy
	}{
		{name: "identical", src: reflect.TypeFor[string](), dst: reflect.TypeFor[string](), want: StrategyDirectAssign},
		{name: "pointer source", src: reflect.TypeFor[*string](), dst: reflect.TypeFor[string](), want: StrategyPointerDeref},
		{name: "pointer destination", src: reflect.TypeFor[string](), dst: reflect.TypeFor[*string](), want: StrategyPointerWrap},
		{name: "interface", src: reflect.TypeFor[time.Duration](), dst: reflect.TypeFor[fmt.Stringer](), want: StrategyInterface},
		{name: "interface not implemented", src: reflect.TypeFor[int](), dst: reflect.TypeFor[fmt.Stringer](), want: StrategyIncompatible},
		{name: "nested bean", src: reflect.TypeFor[store.OrderItem](), dst: reflect.TypeFor[warehouse.OrderItem](), beanPair: true, want: StrategyNestedBean},
		{name: "slice", src: reflect.TypeFor[[]int](), dst: reflect.TypeFor[[]int64](), want: StrategySliceMap},
		{name: "array to slice", src: reflect.TypeFor[[2]int](), dst: reflect.TypeFor[[]int](), want: StrategySliceMap},
		{name: "map", src: reflect.TypeFor[map[string]int](), dst: reflect.TypeFor[map[string]int](), want: StrategyMapCopy},
		{name: "number widening", src: reflect.TypeFor[int32](), dst: reflect.TypeFor[int64](), want: StrategyPrimitive},
		{name: "enum to string", src: reflect.TypeFor[store.OrderStatus](), dst: reflect.TypeFor[string](), want: StrategyPrimitive},
		{name: "time to string", src: reflect.TypeFor[time.Time](), dst: reflect.TypeFor[string](), want: StrategyPrimitive},
		{name: "slice to string", src: reflect.TypeFor[[]int](), dst: reflect.TypeFor[string](), want: StrategyIncompatible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compat := match.ScoreTypeCompatibility(tt.src, tt.dst).Compatibility
			got, reason := selectStrategy(tt.src, tt.dst, compat, tt.beanPair, primitive.CategoryAll)
			assert.Equal(t, tt.want, got, reason)
		})
	}
}

func TestSelectStrategy_ConvertWithoutPrimitives(t *testing.T) {
	type celsius float64

	src, dst := reflect.TypeFor[celsius](), reflect.TypeFor[float64]()
	compat := match.ScoreTypeCompatibility(src, dst).Compatibility

	got, _ := selectStrategy(src, dst, compat, false, 0)
	assert.Equal(t, StrategyConvert, got)
}

func TestIsBeanType(t *testing.T) {
	assert.True(t, isBeanType(reflect.TypeFor[store.Order]()))
	assert.False(t, isBeanType(reflect.TypeFor[time.Time]()))
	assert.False(t, isBeanType(reflect.TypeFor[warehouse.Record]()), "no exported fields")
	assert.False(t, isBeanType(reflect.TypeFor[*store.Order]()))
	assert.False(t, isBeanType(reflect.TypeFor[string]()))
}

func TestStrategy_String(t *testing.T) {
	assert.Equal(t, "direct", StrategyDirectAssign.String())
	assert.Equal(t, "nested_bean", StrategyNestedBean.String())
	assert.Equal(t, "incompatible", Strategy(99).String())
}
