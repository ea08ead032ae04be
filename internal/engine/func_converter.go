package engine

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
)

var (
	ErrNotAConverterFunc = errors.New("provided function is not a recognizable converter")
	ErrConverterNotFunc  = errors.New("provided converter is not a function")
	ErrDoublePointer     = errors.New("converter function does not support double pointers")
)

var errorType = reflect.TypeFor[error]()

// FuncConverter turns a plain function into a CustomConverter.
type FuncConverter struct {
	fn       reflect.Value
	Src, Dst reflect.Type
	Name     string
	HasBool  bool
	HasErr   bool
}

var (
	_ CustomConverter  = (*FuncConverter)(nil)
	_ ConverterMatcher = (*FuncConverter)(nil)
)

// NewFuncConverter inspects fn and wraps it.
//
// Supports signatures:
//   - func(src S) D
//   - func(src S) (D, bool), where false leaves the destination untouched
//   - func(src S) (D, error)
//   - func(src S) (D, bool, error)
func NewFuncConverter(fn any) (*FuncConverter, error) {
	fnVal := reflect.ValueOf(fn)
	if !fnVal.IsValid() || fnVal.Kind() != reflect.Func {
		return nil, ErrConverterNotFunc
	}

	fnType := fnVal.Type()
	if fnType.NumIn() != 1 || fnType.NumOut() == 0 || fnType.IsVariadic() {
		return nil, ErrNotAConverterFunc
	}

	src, dst := fnType.In(0), fnType.Out(0)
	if isDoublePointer(src) || isDoublePointer(dst) {
		return nil, ErrDoublePointer
	}

	fc := &FuncConverter{
		fn:   fnVal,
		Src:  src,
		Dst:  dst,
		Name: runtime.FuncForPC(fnVal.Pointer()).Name(),
	}

	switch fnType.NumOut() {
	case 1:
	case 2:
		switch last := fnType.Out(1); {
		case last.Kind() == reflect.Bool:
			fc.HasBool = true
		case last == errorType:
			fc.HasErr = true
		default:
			return nil, ErrNotAConverterFunc
		}
	case 3:
		if fnType.Out(1).Kind() != reflect.Bool || fnType.Out(2) != errorType {
			return nil, ErrNotAConverterFunc
		}

		fc.HasBool = true
		fc.HasErr = true
	default:
		return nil, ErrNotAConverterFunc
	}

	return fc, nil
}

// MustFuncConverter is like NewFuncConverter but panics on a bad signature.
func MustFuncConverter(fn any) *FuncConverter {
	fc, err := NewFuncConverter(fn)
	if err != nil {
		panic(fmt.Sprintf("invalid converter %T: %v", fn, err))
	}

	return fc
}

// Accepts reports whether the function takes srcType and returns dstType.
func (c *FuncConverter) Accepts(srcType, dstType reflect.Type) bool {
	return srcType != nil && dstType != nil &&
		srcType.AssignableTo(c.Src) && c.Dst.AssignableTo(dstType)
}

func (c *FuncConverter) Convert(_, src any, _, _ reflect.Type) (any, error) {
	in := reflect.ValueOf(src)
	if !in.IsValid() {
		in = reflect.Zero(c.Src)
	}

	if !in.Type().AssignableTo(c.Src) {
		if !in.Type().ConvertibleTo(c.Src) {
			return nil, fmt.Errorf("%w: %s does not take %s", ErrIncompatibleTypes, c.Name, in.Type())
		}

		in = in.Convert(c.Src)
	}

	out := c.fn.Call([]reflect.Value{in})

	if c.HasErr {
		if err, _ := out[len(out)-1].Interface().(error); err != nil {
			return nil, err
		}
	}

	if c.HasBool && !out[1].Bool() {
		return nil, ErrSkipField
	}

	return out[0].Interface(), nil
}

func isDoublePointer(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Pointer
}
