// Package primitive converts values between Go primitive kinds at runtime.
//
// Conversions are grouped into categories (CategoryEnum) so a mapping
// configuration can enable, for example, textual numbers while keeping lossy
// number narrowing off. Convert performs a single conversion; Supports reports
// whether a pair of types is convertible under a category set.
package primitive
