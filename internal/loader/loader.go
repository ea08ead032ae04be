package loader

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"beanmapper/internal/analyze"
	"beanmapper/internal/classmap"
	"beanmapper/internal/diagnostic"
	"beanmapper/internal/logger"
	"beanmapper/internal/mapping"
)

// Loader produces the merged rule set of a mapper.
type Loader interface {
	Load(ctx context.Context, files []string, data []*classmap.MappingFileData) (*Result, error)
}

// Result is the merged rule set and the global configuration.
type Result struct {
	Mappings *classmap.ClassMappings
	Global   classmap.Configuration
	// Warnings are findings that did not prevent the load.
	Warnings []diagnostic.Diagnostic
}

// Option configures a FileLoader.
type Option func(*FileLoader)

// WithTypes registers the types of values so that mapping files can refer to
// them by name.
func WithTypes(values ...any) Option {
	return func(l *FileLoader) {
		for _, v := range values {
			if t, ok := v.(reflect.Type); ok {
				l.graph.Add(t)

				continue
			}

			l.graph.AddValue(v)
		}
	}
}

// WithChecks sets the converter and factory checks run during validation.
func WithChecks(checks mapping.Checks) Option {
	return func(l *FileLoader) {
		l.checks = checks
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(l *FileLoader) {
		if log != nil {
			l.log = log
		}
	}
}

// WithParallelism bounds the number of files parsed at once.
func WithParallelism(n int) Option {
	return func(l *FileLoader) {
		if n > 0 {
			l.parallelism = n
		}
	}
}

// FileLoader reads YAML mapping files from disk.
type FileLoader struct {
	graph       *analyze.TypeGraph
	checks      mapping.Checks
	parallelism int
	log         *zap.Logger
}

var _ Loader = (*FileLoader)(nil)

// New creates a FileLoader.
func New(opts ...Option) *FileLoader {
	l := &FileLoader{
		graph:       analyze.NewTypeGraph(),
		parallelism: runtime.GOMAXPROCS(0),
		log:         zap.NewNop(),
	}

	for _, opt := range opts {
		opt(l)
	}

	l.log = l.log.Named(logger.ComponentLoader)

	return l
}

// Load parses files, appends data and merges everything into one rule set.
// All validation errors are reported together.
func (l *FileLoader) Load(ctx context.Context, files []string, data []*classmap.MappingFileData) (*Result, error) {
	parsed, diags, err := l.compileFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	sources := make([]*classmap.MappingFileData, 0, len(parsed)+len(data))
	sources = append(sources, parsed...)

	for _, d := range data {
		if d != nil {
			sources = append(sources, d)
		}
	}

	graph := analyze.NewTypeGraph()
	graph.Merge(l.graph)

	for _, src := range sources {
		for _, t := range src.Types {
			graph.Add(t)
		}
	}

	for _, src := range sources {
		diags.Merge(mapping.Validate(src, graph, l.checks), src.Source)
	}

	global := globalConfiguration(sources, &diags)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to validate mappings: %w", diags.Err())
	}

	mappings := merge(sources, &diags)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to merge mappings: %w", diags.Err())
	}

	for _, w := range diags.Warnings {
		l.log.Warn("Mapping warning", zap.String("diagnostic", w.String()))
	}

	l.log.Info("Mappings loaded",
		zap.Int("files", len(files)),
		zap.Int("sources", len(sources)),
		zap.Int("class_maps", mappings.Len()))

	return &Result{Mappings: mappings, Global: global, Warnings: diags.Warnings}, nil
}

// Check parses and merges files without resolving type names, for tooling
// that runs outside the program owning the types. Every finding is returned,
// errors included; only read and parse failures yield an error.
func (l *FileLoader) Check(ctx context.Context, files []string) (*Result, diagnostic.Diagnostics, error) {
	sources, diags, err := l.compileFiles(ctx, files)
	if err != nil {
		return nil, diagnostic.Diagnostics{}, err
	}

	global := globalConfiguration(sources, &diags)
	mappings := merge(sources, &diags)

	return &Result{Mappings: mappings, Global: global, Warnings: diags.Warnings}, diags, nil
}

// compileFiles parses and compiles files concurrently. Read and parse
// failures abort the load; compile findings are returned as diagnostics.
func (l *FileLoader) compileFiles(ctx context.Context, files []string) ([]*classmap.MappingFileData, diagnostic.Diagnostics, error) {
	out := make([]*classmap.MappingFileData, len(files))
	found := make([]diagnostic.Diagnostics, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.parallelism)

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			mf, err := mapping.LoadFile(file)
			if err != nil {
				return fmt.Errorf("failed to load mapping file: %w", err)
			}

			out[i], found[i] = mapping.Compile(mf, file)
			l.log.Debug("Mapping file compiled", zap.String("file", file), zap.Int("class_maps", len(out[i].ClassMaps)))

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, diagnostic.Diagnostics{}, err
	}

	var diags diagnostic.Diagnostics
	for i, d := range found {
		diags.Merge(d, files[i])
	}

	return out, diags, nil
}

// globalConfiguration returns the single declared configuration, or the
// defaults. A second declaration is an error.
func globalConfiguration(sources []*classmap.MappingFileData, diags *diagnostic.Diagnostics) classmap.Configuration {
	var declared []string

	global := classmap.DefaultConfiguration()

	for _, src := range sources {
		if src.Configuration == nil {
			continue
		}

		declared = append(declared, src.Source)
		if len(declared) == 1 {
			global = *src.Configuration
			global.Source = src.Source
		}
	}

	if len(declared) > 1 {
		diags.AddError(diagnostic.CodeDuplicateGlobal,
			"global configuration declared more than once: "+strings.Join(declared, ", "), "", "")
	}

	return global
}

// merge registers every explicit class map, then the reverse of every
// bi-directional one where the key is still free.
func merge(sources []*classmap.MappingFileData, diags *diagnostic.Diagnostics) *classmap.ClassMappings {
	mappings := classmap.NewClassMappings()

	for _, src := range sources {
		for _, cm := range src.ClassMaps {
			if cm.Source == "" {
				cm.Source = src.Source
			}

			if err := mappings.Add(cm); err != nil {
				diags.Add(diagnostic.Diagnostic{
					Severity: diagnostic.SeverityError,
					Code:     diagnostic.CodeDuplicateMapping,
					Message:  err.Error(),
					Source:   src.Source,
					TypePair: cm.TypePair(),
				})
			}
		}
	}

	for _, src := range sources {
		for _, cm := range src.ClassMaps {
			if !cm.OneWay {
				mappings.AddDefault(cm.Reverse())
			}
		}
	}

	return mappings
}
