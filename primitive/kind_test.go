package primitive_test

import (
	"fmt"
	"reflect"
	"time"

	"beanmapper/primitive"
)

func Example() {
	type IntEnum int
	type StringEnum string
	type Empty struct{}

	fmt.Println(primitive.FromReflectType(reflect.TypeOf(int(0))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf("")))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(IntEnum(0))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(StringEnum(""))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(time.Duration(0))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(time.Time{})))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(Empty{})))
	// Output:
	// KindInt
	// KindString
	// KindPrimitiveEnum
	// KindPrimitiveEnum
	// KindDuration
	// KindTime
	// KindEnum(0)
}

func ExampleBaseKind() {
	type Cents int64

	fmt.Println(primitive.FromReflectType(reflect.TypeOf(Cents(0))))
	fmt.Println(primitive.BaseKind(reflect.TypeOf(Cents(0))))
	fmt.Println(primitive.BaseKind(reflect.TypeOf(time.Duration(0))))
	// Output:
	// KindEnum(0)
	// KindInt64
	// KindDuration
}
