package engine

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"beanmapper/internal/analyze"
	"beanmapper/internal/cache"
	"beanmapper/internal/classmap"
	"beanmapper/internal/logger"
	"beanmapper/internal/stats"
)

const maxDepth = 64

// Config holds everything a Processor maps with.
type Config struct {
	Mappings       *classmap.ClassMappings
	Global         classmap.Configuration
	Caches         *cache.Manager
	Stats          *stats.Manager
	Converters     []CustomConverter
	ConvertersByID map[string]CustomConverter
	Listeners      []EventListener
	FieldMapper    CustomFieldMapper
	Factories      map[string]BeanFactory
	Logger         *zap.Logger
}

// Processor maps beans according to a merged rule set.
type Processor struct {
	mappings    *classmap.ClassMappings
	global      classmap.Configuration
	converters  []CustomConverter
	byID        map[string]CustomConverter
	listeners   []EventListener
	fieldMapper CustomFieldMapper
	factories   map[string]BeanFactory

	converterCache *cache.Region
	superTypeCache *cache.Region
	stats          *stats.Manager
	log            *zap.Logger
}

// New creates a processor. Missing collaborators are replaced by empty ones.
func New(cfg Config) *Processor {
	p := &Processor{
		mappings:    cfg.Mappings,
		global:      cfg.Global,
		converters:  cfg.Converters,
		byID:        cfg.ConvertersByID,
		listeners:   cfg.Listeners,
		fieldMapper: cfg.FieldMapper,
		factories:   cfg.Factories,
		stats:       cfg.Stats,
		log:         cfg.Logger,
	}

	if p.mappings == nil {
		p.mappings = classmap.NewClassMappings()
	}

	if p.stats == nil {
		p.stats = stats.NewManager(false)
	}

	if p.log == nil {
		p.log = zap.NewNop()
	}

	p.log = p.log.Named(logger.ComponentEngine)

	if cfg.Caches != nil {
		p.converterCache = cfg.Caches.Cache(cache.ConverterByDestType)
		p.superTypeCache = cfg.Caches.Cache(cache.SuperTypeCheck)
	}

	return p
}

// state is carried through one top-level call.
type state struct {
	depth int
}

// Map maps src into the bean dst points to.
func (p *Processor) Map(src, dst any) error {
	return p.MapID(src, dst, "")
}

// MapID maps src into dst with the class map registered under mapID.
func (p *Processor) MapID(src, dst any, mapID string) error {
	dstPtr := reflect.ValueOf(dst)

	srcV, err := sourceValue(src)
	if err != nil {
		return &MappingError{SrcType: typeString(src), DstType: typeString(dst), MapID: mapID, Err: err}
	}

	if !dstPtr.IsValid() || dstPtr.Kind() != reflect.Pointer || dstPtr.IsNil() {
		return &MappingError{SrcType: typeString(src), DstType: typeString(dst), MapID: mapID, Err: ErrInvalidDestination}
	}

	return p.mapTop(srcV, dstPtr.Elem(), mapID)
}

// MapType creates a dstType value and maps src into it.
func (p *Processor) MapType(src any, dstType reflect.Type) (any, error) {
	return p.MapTypeID(src, dstType, "")
}

// MapTypeID creates a dstType value and maps src into it with the class map
// registered under mapID. A nil dstType is taken from the class map found by
// mapID alone.
func (p *Processor) MapTypeID(src any, dstType reflect.Type, mapID string) (any, error) {
	srcV, err := sourceValue(src)
	if err != nil {
		return nil, &MappingError{SrcType: typeString(src), DstType: fmt.Sprint(dstType), MapID: mapID, Err: err}
	}

	if dstType == nil {
		if cm := p.mappings.FindByMapID(typeKey(srcV.Type()), mapID); cm != nil && cm.B.Type != nil {
			dstType = cm.B.Type
		} else {
			return nil, &MappingError{SrcType: typeString(src), DstType: "<nil>", MapID: mapID, Err: ErrNilDestinationType}
		}
	}

	elemType := dstType
	if elemType.Kind() == reflect.Pointer {
		elemType = elemType.Elem()
	}

	ptr, err := p.newBean(srcV, elemType, mapID)
	if err != nil {
		return nil, &MappingError{SrcType: typeString(src), DstType: typeKey(elemType), MapID: mapID, Err: err}
	}

	if err := p.mapTop(srcV, ptr.Elem(), mapID); err != nil {
		return nil, err
	}

	if dstType.Kind() == reflect.Pointer {
		return ptr.Interface(), nil
	}

	return ptr.Elem().Interface(), nil
}

func (p *Processor) mapTop(src, dst reflect.Value, mapID string) error {
	st := &state{}

	var err error
	if mapID != "" || p.isBeanPair(src.Type(), dst.Type(), "") {
		err = p.mapBean(st, src, dst, mapID)
	} else {
		eff := p.global.EffectiveFor(nil)
		err = p.assign(st, src, dst, fieldRule{eff: eff})
	}

	if err == nil {
		return nil
	}

	if me, ok := err.(*MappingError); ok {
		return me
	}

	return &MappingError{SrcType: typeKey(src.Type()), DstType: typeKey(dst.Type()), MapID: mapID, Err: err}
}

// classMapFor returns the registered class map of the pair or an implicit
// one. An explicit mapID that matches nothing fails.
func (p *Processor) classMapFor(srcT, dstT reflect.Type, mapID string) (*classmap.ClassMap, error) {
	s, d := typeKey(srcT), typeKey(dstT)
	if cm := p.mappings.Find(s, d, mapID); cm != nil {
		return cm, nil
	}

	if mapID != "" {
		return nil, fmt.Errorf("%w: %s", ErrMapIDNotFound, mapID)
	}

	return &classmap.ClassMap{
		A: classmap.ClassDef{Name: s, Type: srcT},
		B: classmap.ClassDef{Name: d, Type: dstT},
	}, nil
}

func (p *Processor) isBeanPair(srcT, dstT reflect.Type, mapID string) bool {
	if isBeanType(srcT) && isBeanType(dstT) {
		return true
	}

	return p.mappings.Find(typeKey(srcT), typeKey(dstT), mapID) != nil
}

// newBean allocates a dstType bean for src and returns a pointer to it. The
// destination class definition decides between a bean factory, a create
// method, and reflect.New.
func (p *Processor) newBean(src reflect.Value, dstType reflect.Type, mapID string) (reflect.Value, error) {
	var def classmap.ClassDef
	if src.IsValid() {
		if cm := p.mappings.Find(typeKey(src.Type()), typeKey(dstType), mapID); cm != nil {
			def = cm.B
		}
	}

	factory := def.BeanFactory
	if factory == "" && isBeanType(dstType) {
		factory = p.global.BeanFactory
	}

	switch {
	case factory != "":
		return p.beanFromFactory(factory, def, src, dstType)
	case def.CreateMethod != "":
		return beanFromMethod(def.CreateMethod, dstType)
	default:
		return reflect.New(dstType), nil
	}
}

func (p *Processor) beanFromFactory(name string, def classmap.ClassDef, src reflect.Value, dstType reflect.Type) (reflect.Value, error) {
	f, ok := p.factories[name]
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnknownFactory, name)
	}

	beanID := def.FactoryBeanID
	if beanID == "" {
		beanID = typeKey(dstType)
	}

	var (
		srcIface any
		srcType  reflect.Type
	)

	if src.IsValid() {
		srcIface, srcType = src.Interface(), src.Type()
	}

	bean, err := f.CreateBean(srcIface, srcType, beanID)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("failed to create bean %s with factory %s: %w", beanID, name, err)
	}

	return asBeanPointer(reflect.ValueOf(bean), dstType)
}

// beanFromMethod calls the no-argument method name on a new *T. A returned
// T or *T replaces the allocated bean; otherwise the method initializes it
// in place.
func beanFromMethod(name string, dstType reflect.Type) (reflect.Value, error) {
	ptr := reflect.New(dstType)

	method := ptr.MethodByName(name)
	if !method.IsValid() || method.Type().NumIn() != 0 {
		return reflect.Value{}, fmt.Errorf("%w: no create method %s() on %s", ErrInvalidBean, name, dstType)
	}

	out := method.Call(nil)
	if len(out) == 0 {
		return ptr, nil
	}

	if last := out[len(out)-1]; last.Type() == errorType && !last.IsNil() {
		return reflect.Value{}, fmt.Errorf("failed to create %s with %s: %w", dstType, name, last.Interface().(error))
	}

	if out[0].Type() == errorType {
		return ptr, nil
	}

	return asBeanPointer(out[0], dstType)
}

func asBeanPointer(v reflect.Value, dstType reflect.Type) (reflect.Value, error) {
	switch {
	case !v.IsValid():
		return reflect.Value{}, fmt.Errorf("%w: nil bean for %s", ErrInvalidBean, dstType)
	case v.Type() == reflect.PointerTo(dstType):
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: nil bean for %s", ErrInvalidBean, dstType)
		}

		return v, nil
	case v.Type() == dstType:
		ptr := reflect.New(dstType)
		ptr.Elem().Set(v)

		return ptr, nil
	default:
		return reflect.Value{}, fmt.Errorf("%w: got %s, want %s", ErrInvalidBean, v.Type(), dstType)
	}
}

func sourceValue(src any) (reflect.Value, error) {
	v := reflect.ValueOf(src)
	for v.IsValid() && v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, ErrNilSource
		}

		v = v.Elem()
	}

	if !v.IsValid() {
		return reflect.Value{}, ErrNilSource
	}

	return v, nil
}

// typeKey names t the way class maps are keyed.
func typeKey(t reflect.Type) string {
	if t.Name() == "" {
		return t.String()
	}

	return analyze.IDOf(t).String()
}

func typeString(v any) string {
	if v == nil {
		return "<nil>"
	}

	return reflect.TypeOf(v).String()
}
