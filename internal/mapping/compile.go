package mapping

import (
	"fmt"
	"time"

	"beanmapper/internal/classmap"
	"beanmapper/internal/diagnostic"
	"beanmapper/primitive"
)

// namedLayouts lets date_format name a time package layout instead of spelling it.
var namedLayouts = map[string]string{
	"RFC3339":     time.RFC3339,
	"RFC3339Nano": time.RFC3339Nano,
	"RFC1123":     time.RFC1123,
	"RFC822":      time.RFC822,
	"DateTime":    time.DateTime,
	"DateOnly":    time.DateOnly,
	"TimeOnly":    time.TimeOnly,
	"Kitchen":     time.Kitchen,
}

// ResolveLayout maps a layout name ("RFC3339") to its layout; anything else is
// returned unchanged.
func ResolveLayout(format string) string {
	if layout, ok := namedLayouts[format]; ok {
		return layout
	}

	return format
}

// Compile turns a parsed mapping file into rule-set data. Type names are kept
// as written; the loader resolves them later. source names the file in
// diagnostics and in the produced class maps.
func Compile(mf *MappingFile, source string) (*classmap.MappingFileData, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	data := &classmap.MappingFileData{Source: source}
	if mf == nil {
		diags.AddError(diagnostic.CodeParse, "mapping file is nil", "", "")

		return data, diags
	}

	if mf.Configuration != nil {
		data.Configuration = compileConfiguration(mf.Configuration, source, &diags)
	}

	for i := range mf.TypeMappings {
		tm := mf.TypeMappings[i]
		NormalizeTypeMapping(&tm)

		if cm := compileTypeMapping(&tm, source, &diags); cm != nil {
			data.ClassMaps = append(data.ClassMaps, cm)
		}
	}

	return data, diags
}

func compileConfiguration(sec *ConfigSection, source string, diags *diagnostic.Diagnostics) *classmap.Configuration {
	cfg := classmap.DefaultConfiguration()
	cfg.Source = source

	setBool(&cfg.StopOnErrors, sec.StopOnErrors)
	setBool(&cfg.Wildcard, sec.Wildcard)
	setBool(&cfg.WildcardCaseInsensitive, sec.WildcardCaseInsensitive)
	setBool(&cfg.MapNull, sec.MapNull)
	setBool(&cfg.MapEmptyString, sec.MapEmptyString)
	setBool(&cfg.TrimStrings, sec.TrimStrings)

	if sec.DateFormat != "" {
		cfg.DateFormat = ResolveLayout(sec.DateFormat)
	}

	cfg.BeanFactory = sec.BeanFactory

	if !sec.Conversions.IsEmpty() {
		categories, err := primitive.ParseCategories(sec.Conversions)
		if err != nil {
			diags.AddError(diagnostic.CodeInvalidOption, err.Error(), "", "conversions", primitive.CategoryNames()...)
		} else {
			cfg.Conversions = categories
		}
	}

	for _, cc := range sec.CustomConverters {
		if cc.Converter == "" || cc.Source == "" || cc.Target == "" {
			diags.AddError(diagnostic.CodeInvalidOption,
				"custom converter needs converter, source and target", "", "custom_converters")

			continue
		}

		cfg.CustomConverters = append(cfg.CustomConverters, classmap.ConverterDef{
			ID:     cc.Converter,
			A:      cc.Source,
			B:      cc.Target,
			Source: source,
		})
	}

	return &cfg
}

func compileTypeMapping(tm *TypeMapping, source string, diags *diagnostic.Diagnostics) *classmap.ClassMap {
	tp := tm.TypePair()
	if tm.Source == "" || tm.Target == "" {
		diags.AddError(diagnostic.CodeInvalidOption, "mapping must specify source and target", tp, "")

		return nil
	}

	cm := &classmap.ClassMap{
		A:                       compileClassDef(tm.Source, tm.SourceDef),
		B:                       compileClassDef(tm.Target, tm.TargetDef),
		MapID:                   tm.MapID,
		OneWay:                  tm.OneWay,
		Wildcard:                tm.Wildcard,
		WildcardCaseInsensitive: tm.WildcardCaseInsensitive,
		MapNull:                 tm.MapNull,
		MapEmptyString:          tm.MapEmptyString,
		TrimStrings:             tm.TrimStrings,
		StopOnErrors:            tm.StopOnErrors,
		DateFormat:              ResolveLayout(tm.DateFormat),
		Source:                  source,
	}

	for i := range tm.Fields {
		cm.Fields = append(cm.Fields, compileFieldMapping(&tm.Fields[i], tp, diags)...)
	}

	for _, ig := range tm.Ignore {
		if _, err := ParsePath(ig); err != nil {
			diags.AddError(diagnostic.CodeInvalidOption, fmt.Sprintf("invalid ignore path: %v", err), tp, ig)

			continue
		}

		cm.Fields = append(cm.Fields, classmap.FieldMap{A: ig, B: ig, Exclude: true})
	}

	return cm
}

func compileClassDef(name string, sec *ClassDefSection) classmap.ClassDef {
	def := classmap.ClassDef{Name: name}
	if sec == nil {
		return def
	}

	b := classmap.NewClassDefBuilder(&def)
	b.BeanFactory(sec.BeanFactory)
	b.CreateMethod(sec.CreateMethod)
	b.FactoryBeanID(sec.FactoryBeanID)
	b.MapNull(sec.MapNull)
	b.MapEmptyString(sec.MapEmptyString)
	b.MapGetMethod(sec.MapGetMethod)
	b.MapSetMethod(sec.MapSetMethod)

	return def
}

func compileFieldMapping(fm *FieldMapping, tp string, diags *diagnostic.Diagnostics) []classmap.FieldMap {
	card := fm.GetCardinality()
	if card == CardinalityManyToOne || card == CardinalityManyToMany {
		diags.AddError(diagnostic.CodeInvalidOption,
			card.String()+" field mappings are not supported; use a custom converter on the parent type",
			tp, fm.Target.First())

		return nil
	}

	if fm.Target.IsEmpty() {
		diags.AddError(diagnostic.CodeInvalidOption, "field mapping must specify target", tp, fm.Source.First())

		return nil
	}

	if fm.Source.IsEmpty() && fm.Default == nil {
		diags.AddError(diagnostic.CodeInvalidOption, "field mapping must specify source (or default)", tp, fm.Target.First())

		return nil
	}

	for _, ref := range append(append(FieldRefArray{}, fm.Source...), fm.Target...) {
		if !ref.Hint.IsValid() {
			diags.AddError(diagnostic.CodeInvalidOption, fmt.Sprintf("invalid hint %q", ref.Hint), tp, ref.Path)

			return nil
		}

		path, err := ParsePath(ref.Path)
		if err != nil {
			diags.AddError(diagnostic.CodeInvalidOption, err.Error(), tp, ref.Path)

			return nil
		}

		if path.HasSlice() {
			diags.AddError(diagnostic.CodeInvalidOption,
				"element paths are not supported; map the collection field itself", tp, ref.Path)

			return nil
		}
	}

	copyByRef := fm.CopyByReference || fm.EffectiveHint() == HintFinal

	out := make([]classmap.FieldMap, 0, len(fm.Target))
	for _, target := range fm.Target {
		out = append(out, classmap.FieldMap{
			A:               fm.Source.First(),
			B:               target.Path,
			OneWay:          fm.OneWay || fm.Source.IsEmpty() || len(fm.Target) > 1,
			ConverterID:     fm.Converter,
			CopyByReference: copyByRef,
			MapID:           fm.MapID,
			Default:         fm.Default,
		})
	}

	return out
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
