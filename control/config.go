// Package control implements the configuration and control-factory
// layer of §4.11/§6: INI-like property-map parsing via gopkg.in/ini.v1,
// a rank-gated slog logger, the hard-coded --test 1/--test 2 regression
// presets, and the DAG-resolving control-factory that wires a fully
// configured solver.Method tree against a MatrixStock.
package control

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Config wraps a parsed property-map file (§6): root sections like
// ApplicationSettings, DomainControl, and arbitrarily-named solver
// sections (HyperelasticityDefault, NLCG, PCG-MG, ...) referencing each
// other by precon=/smoother=/coarse= section names.
type Config struct {
	file *ini.File
}

// LoadConfig parses the INI-like property map at path.
func LoadConfig(path string) (*Config, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("control: load config %q: %w", path, err)
	}
	return &Config{file: f}, nil
}

// ParseConfig parses an in-memory property map, e.g. the hard-coded
// --test 1/--test 2 presets (presets.go).
func ParseConfig(data []byte) (*Config, error) {
	f, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("control: parse config: %w", err)
	}
	return &Config{file: f}, nil
}

// Section returns the named section, or an error if absent.
func (c *Config) Section(name string) (*Section, error) {
	if !c.file.HasSection(name) {
		return nil, fmt.Errorf("control: %w: section %q", ErrMissingSection, name)
	}
	return &Section{sec: c.file.Section(name)}, nil
}

// Section is one `[Name]` block of key=value pairs.
type Section struct {
	sec *ini.Section
}

func (s *Section) Name() string { return s.sec.Name() }

func (s *Section) String(key, def string) string {
	if !s.sec.HasKey(key) {
		return def
	}
	return s.sec.Key(key).String()
}

func (s *Section) Float(key string, def float64) float64 {
	if !s.sec.HasKey(key) {
		return def
	}
	v, err := s.sec.Key(key).Float64()
	if err != nil {
		return def
	}
	return v
}

func (s *Section) Int(key string, def int) int {
	if !s.sec.HasKey(key) {
		return def
	}
	v, err := s.sec.Key(key).Int()
	if err != nil {
		return def
	}
	return v
}

func (s *Section) Bool(key string, def bool) bool {
	if !s.sec.HasKey(key) {
		return def
	}
	v, err := s.sec.Key(key).Bool()
	if err != nil {
		return def
	}
	return v
}

// Has reports whether key is present in the section.
func (s *Section) Has(key string) bool { return s.sec.HasKey(key) }

// Error is control's fatal-error sentinel kind, following the same
// sentinel-string convention as lafem.Error.
type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrMissingSection Error = "missing config section"
	ErrUnknownType    Error = "unknown solver type"
	ErrCycle          Error = "solver reference cycle"
)
