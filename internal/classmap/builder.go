package classmap

// ClassDefBuilder records type-level attributes onto a ClassDef.
type ClassDefBuilder struct {
	def *ClassDef
}

// NewClassDefBuilder returns a builder writing into def.
func NewClassDefBuilder(def *ClassDef) *ClassDefBuilder {
	return &ClassDefBuilder{def: def}
}

func (b *ClassDefBuilder) BeanFactory(name string) { b.def.BeanFactory = name }

func (b *ClassDefBuilder) CreateMethod(name string) { b.def.CreateMethod = name }

func (b *ClassDefBuilder) FactoryBeanID(id string) { b.def.FactoryBeanID = id }

func (b *ClassDefBuilder) MapEmptyString(v *bool) { b.def.MapEmptyString = v }

func (b *ClassDefBuilder) MapNull(v *bool) { b.def.MapNull = v }

func (b *ClassDefBuilder) MapGetMethod(name string) { b.def.MapGetMethod = name }

func (b *ClassDefBuilder) MapSetMethod(name string) { b.def.MapSetMethod = name }
