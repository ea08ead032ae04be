package engine

import (
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/zap"

	"beanmapper/internal/classmap"
	"beanmapper/internal/match"
	"beanmapper/internal/stats"
)

// mapBean maps the fields of src into dst. dst must be settable.
func (p *Processor) mapBean(st *state, src, dst reflect.Value, mapID string) error {
	if st.depth >= maxDepth {
		return ErrMaxDepth
	}

	st.depth++
	defer func() { st.depth-- }()

	cm, err := p.classMapFor(src.Type(), dst.Type(), mapID)
	if err != nil {
		return err
	}

	eff := p.global.EffectiveFor(cm)
	bean := beanPair{cm: cm, eff: eff, src: src, dst: dst}

	p.fire(Event{Type: EventMappingStarted, ClassMap: cm, Source: iface(src), Destination: addrIface(dst)})

	written := make(map[string]bool, len(cm.Fields))

	for i := range cm.Fields {
		fm := &cm.Fields[i]
		written[rootOf(fm.B)] = true

		if fm.Exclude {
			continue
		}

		if err := p.finishField(bean, fm.B, p.mapField(st, bean, fm)); err != nil {
			return err
		}
	}

	if eff.Wildcard {
		if err := p.mapWildcard(st, bean, written); err != nil {
			return err
		}
	}

	p.fire(Event{Type: EventMappingFinished, ClassMap: cm, Source: iface(src), Destination: addrIface(dst)})

	return nil
}

// beanPair is one bean mapping in progress.
type beanPair struct {
	cm       *classmap.ClassMap
	eff      classmap.Effective
	src, dst reflect.Value
}

// finishField records the outcome of one field. The error is returned only
// when the mapping must stop.
func (p *Processor) finishField(b beanPair, field string, err error) error {
	if err == nil {
		p.stats.Increment(stats.FieldMappingSuccessCount)

		return nil
	}

	p.stats.Increment(stats.FieldMappingFailureCount)

	merr := withField(b.cm.A.Name, b.cm.B.Name, b.cm.MapID, field, err)
	if b.eff.StopOnErrors {
		return merr
	}

	p.log.Warn("Field mapping failed, continuing", zap.Error(merr))

	return nil
}

func (p *Processor) mapField(st *state, b beanPair, fm *classmap.FieldMap) error {
	var (
		val reflect.Value
		err error
	)

	if fm.A != "" {
		val, err = p.readField(b.cm.A, b.src, fm.A)
		if err != nil {
			return err
		}
	}

	useDefault := fm.Default != nil && (fm.A == "" || isNilOrZero(val))

	if p.fieldMapper != nil && fm.A != "" && !useDefault {
		handled, err := p.fieldMapper.MapField(iface(b.src), addrIface(b.dst), iface(val), b.cm, fm)
		if err != nil || handled {
			return err
		}
	}

	rule := fieldRule{mapID: fm.MapID, copyByRef: fm.CopyByReference, eff: b.eff}

	return p.writeField(b, fm, func(target reflect.Value) error {
		switch {
		case useDefault:
			return p.assignDefault(*fm.Default, target, b.eff)
		case fm.ConverterID != "":
			conv, ok := p.byID[fm.ConverterID]
			if !ok {
				return fmt.Errorf("%w: %s", ErrUnknownConverter, fm.ConverterID)
			}

			return p.applyConverter(conv, val, target)
		default:
			return p.assign(st, val, target, rule)
		}
	})
}

// mapWildcard maps the fields no explicit rule has written, by name.
func (p *Processor) mapWildcard(st *state, b beanPair, written map[string]bool) error {
	rule := fieldRule{eff: b.eff}

	for _, name := range p.wildcardFields(b) {
		if written[name] || b.cm.Excludes(name) {
			continue
		}

		val, ok := p.lookupWildcard(b, name)
		if !ok {
			continue
		}

		fm := &classmap.FieldMap{A: name, B: name}

		if p.fieldMapper != nil {
			handled, err := p.fieldMapper.MapField(iface(b.src), addrIface(b.dst), iface(val), b.cm, fm)
			if err != nil || handled {
				if err := p.finishField(b, name, err); err != nil {
					return err
				}

				continue
			}
		}

		err := p.writeField(b, fm, func(target reflect.Value) error {
			return p.assign(st, val, target, rule)
		})
		if err := p.finishField(b, name, err); err != nil {
			return err
		}
	}

	return nil
}

// wildcardFields lists the destination names wildcard mapping considers.
// A map-backed destination takes the source field names.
func (p *Processor) wildcardFields(b beanPair) []string {
	t := b.dst.Type()
	if b.cm.B.MapSetMethod != "" {
		t = b.src.Type()
	}

	if t.Kind() != reflect.Struct {
		return nil
	}

	names := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		if f := t.Field(i); f.IsExported() {
			names = append(names, f.Name)
		}
	}

	return names
}

func (p *Processor) lookupWildcard(b beanPair, name string) (reflect.Value, bool) {
	if b.cm.A.MapGetMethod != "" {
		v, err := p.readField(b.cm.A, b.src, name)
		if err != nil || !v.IsValid() {
			return reflect.Value{}, false
		}

		return v, true
	}

	if b.src.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}

	if f, ok := b.src.Type().FieldByName(name); ok && f.IsExported() {
		v, err := b.src.FieldByIndexErr(f.Index)

		return v, err == nil
	}

	if !b.eff.WildcardCaseInsensitive {
		return reflect.Value{}, false
	}

	t := b.src.Type()
	for i := range t.NumField() {
		if f := t.Field(i); f.IsExported() && match.EqualIdent(f.Name, name) {
			return b.src.Field(i), true
		}
	}

	return reflect.Value{}, false
}

// readField reads a dotted path from src. A nil pointer along the way yields
// an invalid value.
func (p *Processor) readField(def classmap.ClassDef, src reflect.Value, path string) (reflect.Value, error) {
	if def.MapGetMethod != "" {
		return callGetter(src, def.MapGetMethod, path)
	}

	cur := src
	for _, seg := range strings.Split(path, ".") {
		for cur.Kind() == reflect.Pointer || cur.Kind() == reflect.Interface {
			if cur.IsNil() {
				return reflect.Value{}, nil
			}

			cur = cur.Elem()
		}

		if cur.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("%w: %s on %s", ErrUnknownField, seg, cur.Type())
		}

		f, ok := cur.Type().FieldByName(seg)
		if !ok || !f.IsExported() {
			return reflect.Value{}, fmt.Errorf("%w: %s on %s", ErrUnknownField, seg, cur.Type())
		}

		next, err := cur.FieldByIndexErr(f.Index)
		if err != nil {
			return reflect.Value{}, nil
		}

		cur = next
	}

	return cur, nil
}

// writeField resolves fm.B on the destination and lets write fill it. Nil
// pointers along a nested path are allocated.
func (p *Processor) writeField(b beanPair, fm *classmap.FieldMap, write func(target reflect.Value) error) error {
	if b.cm.B.MapSetMethod != "" {
		return p.writeAccessor(b, fm, write)
	}

	cur := b.dst
	segs := strings.Split(fm.B, ".")

	for i, seg := range segs {
		for cur.Kind() == reflect.Pointer {
			if cur.IsNil() {
				cur.Set(reflect.New(cur.Type().Elem()))
			}

			cur = cur.Elem()
		}

		if cur.Kind() != reflect.Struct {
			return fmt.Errorf("%w: %s on %s", ErrUnknownField, seg, cur.Type())
		}

		f, ok := cur.Type().FieldByName(seg)
		if !ok || !f.IsExported() {
			return fmt.Errorf("%w: %s on %s", ErrUnknownField, seg, cur.Type())
		}

		next, err := cur.FieldByIndexErr(f.Index)
		if err != nil {
			return fmt.Errorf("%w: %s on %s: %w", ErrUnknownField, seg, cur.Type(), err)
		}

		cur = next

		if i == len(segs)-1 {
			return p.writeTarget(b, fm, cur, write)
		}
	}

	return nil
}

func (p *Processor) writeTarget(b beanPair, fm *classmap.FieldMap, target reflect.Value, write func(reflect.Value) error) error {
	ev := Event{ClassMap: b.cm, FieldMap: fm, Source: iface(b.src), Destination: addrIface(b.dst)}

	ev.Type = EventPreWritingDestinationValue
	ev.Value = iface(target)
	p.fire(ev)

	if err := write(target); err != nil {
		return err
	}

	ev.Type = EventPostWritingDestinationValue
	ev.Value = iface(target)
	p.fire(ev)

	return nil
}

// writeAccessor maps into a temporary of the setter's value type and passes
// it to the setter.
func (p *Processor) writeAccessor(b beanPair, fm *classmap.FieldMap, write func(reflect.Value) error) error {
	setter, err := accessor(b.dst, b.cm.B.MapSetMethod)
	if err != nil {
		return err
	}

	if setter.Type().NumIn() != 2 || setter.Type().In(0).Kind() != reflect.String {
		return fmt.Errorf("%w: %s must take (string, value)", ErrInvalidBean, b.cm.B.MapSetMethod)
	}

	tmp := reflect.New(setter.Type().In(1)).Elem()
	if err := p.writeTarget(b, fm, tmp, write); err != nil {
		return err
	}

	if tmp.IsZero() && !b.eff.MapNull {
		return nil
	}

	setter.Call([]reflect.Value{reflect.ValueOf(fm.B), tmp})

	return nil
}

func callGetter(src reflect.Value, method, name string) (reflect.Value, error) {
	getter, err := accessor(src, method)
	if err != nil {
		return reflect.Value{}, err
	}

	if getter.Type().NumIn() != 1 || getter.Type().In(0).Kind() != reflect.String || getter.Type().NumOut() == 0 {
		return reflect.Value{}, fmt.Errorf("%w: %s must take a string and return a value", ErrInvalidBean, method)
	}

	out := getter.Call([]reflect.Value{reflect.ValueOf(name)})[0]
	if out.Kind() == reflect.Interface {
		if out.IsNil() {
			return reflect.Value{}, nil
		}

		out = out.Elem()
	}

	return out, nil
}

// accessor finds method on v or on its address.
func accessor(v reflect.Value, method string) (reflect.Value, error) {
	if !v.CanAddr() {
		cp := reflect.New(v.Type()).Elem()
		cp.Set(v)
		v = cp
	}

	if m := v.Addr().MethodByName(method); m.IsValid() {
		return m, nil
	}

	return reflect.Value{}, fmt.Errorf("%w: no method %s on %s", ErrInvalidBean, method, v.Type())
}

func (p *Processor) fire(ev Event) {
	for _, l := range p.listeners {
		switch ev.Type {
		case EventMappingStarted:
			l.MappingStarted(ev)
		case EventPreWritingDestinationValue:
			l.PreWritingDestinationValue(ev)
		case EventPostWritingDestinationValue:
			l.PostWritingDestinationValue(ev)
		case EventMappingFinished:
			l.MappingFinished(ev)
		}
	}
}

func rootOf(path string) string {
	root, _, _ := strings.Cut(path, ".")

	return root
}

func isNilOrZero(v reflect.Value) bool {
	return !v.IsValid() || v.IsZero()
}

func iface(v reflect.Value) any {
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}

	return v.Interface()
}

// addrIface returns a pointer to v when possible so listeners see the live bean.
func addrIface(v reflect.Value) any {
	if v.IsValid() && v.CanAddr() && v.Addr().CanInterface() {
		return v.Addr().Interface()
	}

	return iface(v)
}
