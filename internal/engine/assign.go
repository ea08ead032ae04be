package engine

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"beanmapper/internal/cache"
	"beanmapper/internal/classmap"
	"beanmapper/internal/match"
	"beanmapper/internal/stats"
	"beanmapper/primitive"
)

// fieldRule carries the per-field options into assign.
type fieldRule struct {
	mapID     string
	copyByRef bool
	eff       classmap.Effective
}

// assign writes src into dst, which must be settable.
func (p *Processor) assign(st *state, src, dst reflect.Value, rule fieldRule) error {
	if !src.IsValid() {
		return assignNull(dst, rule.eff)
	}

	if src.Kind() == reflect.Interface {
		if src.IsNil() {
			return assignNull(dst, rule.eff)
		}

		return p.assign(st, src.Elem(), dst, rule)
	}

	if src.Kind() == reflect.String {
		s := src.String()
		if rule.eff.TrimStrings {
			s = strings.TrimSpace(s)
			trimmed := reflect.New(src.Type()).Elem()
			trimmed.SetString(s)
			src = trimmed
		}

		if s == "" && !rule.eff.MapEmptyString {
			return nil
		}
	}

	if conv := p.converterFor(src.Type(), dst.Type()); conv != nil {
		return p.applyConverter(conv, src, dst)
	}

	if rule.copyByRef && src.Type().AssignableTo(dst.Type()) {
		dst.Set(src)

		return nil
	}

	compat := p.compatibility(src.Type(), dst.Type())
	strategy, reason := selectStrategy(src.Type(), dst.Type(), compat,
		p.isBeanPair(src.Type(), dst.Type(), rule.mapID), rule.eff.Conversions)

	switch strategy {
	case StrategyPointerDeref:
		if src.IsNil() {
			return assignNull(dst, rule.eff)
		}

		return p.assign(st, src.Elem(), dst, rule)

	case StrategyPointerWrap:
		if !dst.IsNil() {
			return p.assign(st, src, dst.Elem(), rule)
		}

		ptr, err := p.newBean(src, dst.Type().Elem(), rule.mapID)
		if err != nil {
			return err
		}

		if err := p.assign(st, src, ptr.Elem(), rule); err != nil {
			return err
		}

		dst.Set(ptr)

		return nil

	case StrategyDirectAssign, StrategyInterface:
		dst.Set(src)

		return nil

	case StrategyConvert:
		dst.Set(src.Convert(dst.Type()))

		return nil

	case StrategyPrimitive:
		v, err := primitive.Convert(src, dst.Type(), rule.eff.Conversions, rule.eff.DateFormat)
		if err != nil {
			return err
		}

		dst.Set(v)

		return nil

	case StrategyNestedBean:
		return p.mapBean(st, src, dst, rule.mapID)

	case StrategySliceMap:
		return p.assignSequence(st, src, dst, rule)

	case StrategyMapCopy:
		return p.assignMap(st, src, dst, rule)

	default:
		return fmt.Errorf("%w: %s to %s (%s)", ErrIncompatibleTypes, src.Type(), dst.Type(), reason)
	}
}

func assignNull(dst reflect.Value, eff classmap.Effective) error {
	if eff.MapNull {
		dst.Set(reflect.Zero(dst.Type()))
	}

	return nil
}

// assignDefault converts a literal default into dst.
func (p *Processor) assignDefault(literal string, dst reflect.Value, eff classmap.Effective) error {
	for dst.Kind() == reflect.Pointer {
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}

		dst = dst.Elem()
	}

	switch dst.Kind() {
	case reflect.String:
		dst.SetString(literal)

		return nil
	case reflect.Interface:
		dst.Set(reflect.ValueOf(literal))

		return nil
	}

	v, err := primitive.Convert(reflect.ValueOf(literal), dst.Type(), primitive.CategoryAll, eff.DateFormat)
	if err != nil {
		return fmt.Errorf("failed to apply default %q: %w", literal, err)
	}

	dst.Set(v)

	return nil
}

func (p *Processor) assignSequence(st *state, src, dst reflect.Value, rule fieldRule) error {
	n := src.Len()

	if dst.Kind() == reflect.Slice {
		if src.Kind() == reflect.Slice && src.IsNil() {
			return assignNull(dst, rule.eff)
		}

		dst.Set(reflect.MakeSlice(dst.Type(), n, n))
	} else {
		n = min(n, dst.Len())
	}

	elemRule := fieldRule{eff: rule.eff, mapID: rule.mapID}

	for i := range n {
		if err := p.assign(st, src.Index(i), dst.Index(i), elemRule); err != nil {
			return atIndex(i, err)
		}
	}

	return nil
}

func (p *Processor) assignMap(st *state, src, dst reflect.Value, rule fieldRule) error {
	if src.IsNil() {
		return assignNull(dst, rule.eff)
	}

	out := reflect.MakeMapWithSize(dst.Type(), src.Len())
	keyType, elemType := dst.Type().Key(), dst.Type().Elem()
	elemRule := fieldRule{eff: rule.eff, mapID: rule.mapID}

	iter := src.MapRange()
	for iter.Next() {
		k := reflect.New(keyType).Elem()
		if err := p.assign(st, iter.Key(), k, elemRule); err != nil {
			return fmt.Errorf("key %v: %w", iter.Key(), err)
		}

		v := reflect.New(elemType).Elem()
		if err := p.assign(st, iter.Value(), v, elemRule); err != nil {
			return fmt.Errorf("value of %v: %w", iter.Key(), err)
		}

		out.SetMapIndex(k, v)
	}

	dst.Set(out)

	return nil
}

// applyConverter runs conv for src and stores the result in dst.
func (p *Processor) applyConverter(conv CustomConverter, src, dst reflect.Value) error {
	var (
		srcIface any
		srcType  reflect.Type
	)

	if src.IsValid() {
		srcIface, srcType = iface(src), src.Type()
	}

	out, err := conv.Convert(iface(dst), srcIface, dst.Type(), srcType)
	if errors.Is(err, ErrSkipField) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("custom converter %T failed: %w", conv, err)
	}

	p.stats.IncrementKey(stats.CustomConverterSuccessCount, fmt.Sprintf("%T", conv))

	return setResult(dst, out)
}

// setResult stores a converter result, adapting pointers and named types.
func setResult(dst reflect.Value, out any) error {
	v := reflect.ValueOf(out)

	switch {
	case !v.IsValid():
		dst.Set(reflect.Zero(dst.Type()))
	case v.Type().AssignableTo(dst.Type()):
		dst.Set(v)
	case v.Kind() == reflect.Pointer && !v.IsNil() && v.Elem().Type().AssignableTo(dst.Type()):
		dst.Set(v.Elem())
	case dst.Kind() == reflect.Pointer && v.Type().AssignableTo(dst.Type().Elem()):
		ptr := reflect.New(dst.Type().Elem())
		ptr.Elem().Set(v)
		dst.Set(ptr)
	case v.Kind() == dst.Kind() && v.Type().ConvertibleTo(dst.Type()):
		dst.Set(v.Convert(dst.Type()))
	default:
		return fmt.Errorf("%w: converter returned %s for %s", ErrIncompatibleTypes, v.Type(), dst.Type())
	}

	return nil
}

type typePair struct {
	src, dst reflect.Type
}

type converterEntry struct {
	conv CustomConverter
}

// converterFor returns the custom converter for the pair, or nil.
func (p *Processor) converterFor(srcT, dstT reflect.Type) CustomConverter {
	if len(p.converters) == 0 && len(p.global.CustomConverters) == 0 {
		return nil
	}

	key := typePair{src: srcT, dst: dstT}
	if v, ok := p.cacheGet(p.converterCache, key); ok {
		return v.(converterEntry).conv
	}

	conv := p.findConverter(srcT, dstT)
	p.cachePut(p.converterCache, key, converterEntry{conv: conv})

	return conv
}

// findConverter checks the configured pairs (either direction), then the
// converters that select themselves by type.
func (p *Processor) findConverter(srcT, dstT reflect.Type) CustomConverter {
	for _, def := range p.global.CustomConverters {
		if def.AType == nil || def.BType == nil {
			continue
		}

		forward := p.isSuperType(def.AType, srcT) && p.isSuperType(def.BType, dstT)
		backward := p.isSuperType(def.BType, srcT) && p.isSuperType(def.AType, dstT)

		if forward || backward {
			if conv, ok := p.byID[def.ID]; ok {
				return conv
			}
		}
	}

	for _, conv := range p.converters {
		if m, ok := conv.(ConverterMatcher); ok && m.Accepts(srcT, dstT) {
			return conv
		}
	}

	return nil
}

type superKey struct {
	super, sub reflect.Type
}

func (p *Processor) isSuperType(super, sub reflect.Type) bool {
	key := superKey{super: super, sub: sub}
	if v, ok := p.cacheGet(p.superTypeCache, key); ok {
		return v.(bool)
	}

	res := match.IsSuperType(super, sub)
	p.cachePut(p.superTypeCache, key, res)

	return res
}

func (p *Processor) compatibility(srcT, dstT reflect.Type) match.TypeCompatibility {
	key := typePair{src: srcT, dst: dstT}
	if v, ok := p.cacheGet(p.superTypeCache, key); ok {
		return v.(match.TypeCompatibility)
	}

	res := match.ScoreTypeCompatibility(srcT, dstT).Compatibility
	p.cachePut(p.superTypeCache, key, res)

	return res
}

func (p *Processor) cacheGet(region *cache.Region, key any) (any, bool) {
	if region == nil {
		return nil, false
	}

	v, ok := region.Get(key)
	if ok {
		p.stats.IncrementKey(stats.CacheHitCount, region.Name())
	} else {
		p.stats.IncrementKey(stats.CacheMissCount, region.Name())
	}

	return v, ok
}

func (p *Processor) cachePut(region *cache.Region, key, value any) {
	if region != nil {
		region.Put(key, value)
	}
}
