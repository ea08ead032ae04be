package mapping

import (
	"errors"
	"fmt"
	"reflect"

	"beanmapper/internal/analyze"
	"beanmapper/internal/classmap"
	"beanmapper/internal/diagnostic"
	"beanmapper/internal/match"
	"beanmapper/primitive"
)

// Checks reports which ids and names the running mapper can satisfy. A nil
// function skips the corresponding check.
type Checks struct {
	Converter func(id string) bool
	Factory   func(name string) bool
}

// Validate resolves every type name of data against graph and checks field
// paths, accessor methods, defaults and references. Resolved class defs get
// their Type set and their Name replaced by the fully qualified type name.
func Validate(data *classmap.MappingFileData, graph *analyze.TypeGraph, checks Checks) diagnostic.Diagnostics {
	var res diagnostic.Diagnostics

	if data == nil {
		res.AddError(diagnostic.CodeParse, "mapping data is nil", "", "")

		return res
	}

	if graph == nil {
		res.AddError(diagnostic.CodeParse, "type graph is nil", "", "")

		return res
	}

	if data.Configuration != nil {
		validateConfiguration(&res, data.Configuration, graph, checks)
	}

	for _, cm := range data.ClassMaps {
		validateClassMap(&res, cm, graph, checks)
	}

	return res
}

func validateConfiguration(res *diagnostic.Diagnostics, cfg *classmap.Configuration, graph *analyze.TypeGraph, checks Checks) {
	if cfg.BeanFactory != "" && checks.Factory != nil && !checks.Factory(cfg.BeanFactory) {
		res.AddError(diagnostic.CodeInvalidOption,
			fmt.Sprintf("bean factory %q is not registered", cfg.BeanFactory), "", "bean_factory")
	}

	for i := range cfg.CustomConverters {
		cc := &cfg.CustomConverters[i]
		tp := cc.A + "->" + cc.B

		if a := resolveType(res, graph, cc.A, tp); a != nil {
			cc.A, cc.AType = a.ID.String(), a.Type
		}

		if b := resolveType(res, graph, cc.B, tp); b != nil {
			cc.B, cc.BType = b.ID.String(), b.Type
		}

		if checks.Converter != nil && !checks.Converter(cc.ID) {
			res.AddError(diagnostic.CodeUnknownConverter,
				fmt.Sprintf("converter %q is not registered", cc.ID), tp, "")
		}
	}
}

func validateClassMap(res *diagnostic.Diagnostics, cm *classmap.ClassMap, graph *analyze.TypeGraph, checks Checks) {
	tp := cm.TypePair()

	srcT := resolveClassDef(res, graph, &cm.A, tp, checks)
	dstT := resolveClassDef(res, graph, &cm.B, tp, checks)

	if srcT == nil || dstT == nil {
		return
	}

	for _, fm := range cm.Fields {
		validateFieldMap(res, tp, cm, srcT, dstT, fm, checks)
	}
}

func resolveClassDef(
	res *diagnostic.Diagnostics,
	graph *analyze.TypeGraph,
	def *classmap.ClassDef,
	tp string,
	checks Checks,
) *analyze.TypeInfo {
	info := resolveType(res, graph, def.Name, tp)
	if info == nil {
		return nil
	}

	def.Name = info.ID.String()
	def.Type = info.Type

	ptr := reflect.PointerTo(info.Type)
	for _, method := range []string{def.CreateMethod, def.MapGetMethod, def.MapSetMethod} {
		if method == "" {
			continue
		}

		if _, ok := ptr.MethodByName(method); !ok {
			res.AddError(diagnostic.CodeInvalidOption,
				fmt.Sprintf("method %s not found on %s", method, def.Name), tp, method)
		}
	}

	if def.BeanFactory != "" && checks.Factory != nil && !checks.Factory(def.BeanFactory) {
		res.AddError(diagnostic.CodeInvalidOption,
			fmt.Sprintf("bean factory %q is not registered", def.BeanFactory), tp, "")
	}

	return info
}

func resolveType(res *diagnostic.Diagnostics, graph *analyze.TypeGraph, name, tp string) *analyze.TypeInfo {
	if info := graph.Resolve(name); info != nil {
		return info
	}

	res.AddError(diagnostic.CodeUnknownType,
		fmt.Sprintf("type %q not found", name), tp, "",
		match.Suggest(name, graph.Names(), match.DefaultLimit)...)

	return nil
}

func validateFieldMap(
	res *diagnostic.Diagnostics,
	tp string,
	cm *classmap.ClassMap,
	srcT, dstT *analyze.TypeInfo,
	fm classmap.FieldMap,
	checks Checks,
) {
	var srcField, dstField *analyze.TypeInfo

	if fm.B != "" && !cm.B.IsMapBacked() {
		dstField = validatePath(res, tp, fm.B, dstT, nil)
	}

	if fm.A != "" && !cm.A.IsMapBacked() {
		var want reflect.Type
		if dstField != nil {
			want = dstField.Type
		}

		srcField = validatePath(res, tp, fm.A, srcT, want)
	}

	if fm.ConverterID != "" && checks.Converter != nil && !checks.Converter(fm.ConverterID) {
		res.AddError(diagnostic.CodeUnknownConverter,
			fmt.Sprintf("converter %q is not registered", fm.ConverterID), tp, fm.B)
	}

	if fm.Default != nil && dstField != nil && dstField.Type != nil {
		if !defaultAssignable(dstField.Type) {
			res.AddError(diagnostic.CodeInvalidDefault,
				fmt.Sprintf("default %q cannot be converted to %s", *fm.Default, dstField.Type), tp, fm.B)
		}
	}

	if srcField != nil && dstField != nil && fm.ConverterID == "" && !fm.Exclude {
		compat := match.ScorePointerCompatibility(srcField.Type, dstField.Type)
		if compat.Compatibility == match.TypeIncompatible {
			res.AddWarning(diagnostic.CodeIncompatibleField,
				fmt.Sprintf("%s is not convertible to %s without a custom converter", compat.SourceType, compat.TargetType),
				tp, fm.A+" -> "+fm.B)
		}
	}
}

// validatePath resolves raw on root. want is the type the path should have,
// if known; it ranks the suggestions of an unknown top-level field.
func validatePath(res *diagnostic.Diagnostics, tp, raw string, root *analyze.TypeInfo, want reflect.Type) *analyze.TypeInfo {
	path, err := ParsePath(raw)
	if err != nil {
		res.AddError(diagnostic.CodeInvalidOption, err.Error(), tp, raw)

		return nil
	}

	info, err := ResolvePath(path, root)
	if err != nil {
		var perr *PathError
		if errors.As(err, &perr) {
			res.AddError(diagnostic.CodeUnknownField, err.Error(), tp, raw, suggestFields(perr, path, root, want)...)
		} else {
			res.AddError(diagnostic.CodeUnknownField, err.Error(), tp, raw)
		}

		return nil
	}

	return info
}

// suggestFields puts the field that matches both the name and the wanted type
// in front of the name-based suggestions.
func suggestFields(perr *PathError, path FieldPath, root *analyze.TypeInfo, want reflect.Type) []string {
	if want == nil || !path.IsSimple() || root == nil {
		return perr.Suggestions
	}

	best := match.RankFields(path.Root(), want, root.Fields).HighConfidence(match.DefaultMinScore, match.DefaultMinGap)
	if best == nil {
		return perr.Suggestions
	}

	out := []string{best.Name}
	for _, s := range perr.Suggestions {
		if s != best.Name {
			out = append(out, s)
		}
	}

	return out
}

// defaultAssignable reports whether a string default can be turned into t.
func defaultAssignable(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() == reflect.String || t.Kind() == reflect.Interface {
		return true
	}

	return primitive.Supports(reflect.TypeFor[string](), t, primitive.CategoryAll)
}
