package settings

// settings.go loads tether configuration from .tether/settings.yaml.
//
// Every field is optional. Command-line flags override settings, and
// settings override the built-in defaults below. Parameter exclusion uses
// glob patterns over slash-separated parameter paths:
//
//	parameters:
//	  exclude:
//	    - "Fixtures/**"      # the Fixtures subtree
//	    - "*/Scratch*"       # single * stays inside one segment

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"tether/internal/bound"
)

// Default document locations, relative to the working directory.
const (
	DefaultRequirements = "requirements.json"
	DefaultParameters   = "parameters.json"
	DefaultPayload      = "update_parameters.json"
)

// Settings holds tether configuration from .tether/settings.yaml.
type Settings struct {
	Documents  Documents  `yaml:"documents"`
	Repair     Repair     `yaml:"repair"`
	Values     Values     `yaml:"values"`
	Parameters Parameters `yaml:"parameters"`
}

// Documents names the input exports and the output payload.
type Documents struct {
	Requirements string `yaml:"requirements"`
	Parameters   string `yaml:"parameters"`
	Payload      string `yaml:"payload"`
}

// Repair configures value repair.
type Repair struct {
	// Mode is "nextafter" (default) or "legacy-epsilon".
	Mode string `yaml:"mode"`
}

// Values configures parameter value parsing.
type Values struct {
	// Strict rejects values without a leading number.
	Strict bool `yaml:"strict"`
}

// Parameters filters the parameters export before association.
type Parameters struct {
	Exclude []string `yaml:"exclude"`
}

// Path returns the settings file location under root.
func Path(root string) string {
	return filepath.Join(root, ".tether", "settings.yaml")
}

// Load reads .tether/settings.yaml relative to root.
// Returns nil (not an error) if the file does not exist.
func Load(root string) (*Settings, error) {
	return LoadFile(Path(root))
}

// LoadFile reads settings from an explicit path. A missing file yields nil
// settings and no error.
func LoadFile(file string) (*Settings, error) {
	data, err := os.ReadFile(file)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", file, err)
	}
	if _, err := bound.ParseMode(s.Repair.Mode); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	for _, p := range s.Parameters.Exclude {
		if _, err := path.Match(normalizePattern(p), ""); err != nil {
			return nil, fmt.Errorf("%s: exclude pattern %q: %w", file, p, err)
		}
	}
	return &s, nil
}

// ---------------------------------------------------------------------------
// Accessors. All are safe to call on a nil *Settings receiver.
// ---------------------------------------------------------------------------

// RequirementsPath returns the configured requirements export path.
func (s *Settings) RequirementsPath() string {
	if s == nil || s.Documents.Requirements == "" {
		return DefaultRequirements
	}
	return s.Documents.Requirements
}

// ParametersPath returns the configured parameters export path.
func (s *Settings) ParametersPath() string {
	if s == nil || s.Documents.Parameters == "" {
		return DefaultParameters
	}
	return s.Documents.Parameters
}

// PayloadPath returns the configured update payload path.
func (s *Settings) PayloadPath() string {
	if s == nil || s.Documents.Payload == "" {
		return DefaultPayload
	}
	return s.Documents.Payload
}

// RepairMode returns the configured repair mode. Load has already
// validated the name.
func (s *Settings) RepairMode() bound.Mode {
	if s == nil {
		return bound.NextAfter
	}
	m, _ := bound.ParseMode(s.Repair.Mode)
	return m
}

// StrictValues reports whether values without a number are errors.
func (s *Settings) StrictValues() bool {
	return s != nil && s.Values.Strict
}

// IsExcluded reports whether a parameter path matches any exclude pattern.
// Backslash separators in paramPath are treated as "/".
func (s *Settings) IsExcluded(paramPath string) bool {
	if s == nil {
		return false
	}
	p := strings.ReplaceAll(paramPath, `\`, "/")
	for _, pattern := range s.Parameters.Exclude {
		if matchPattern(normalizePattern(pattern), p) {
			return true
		}
	}
	return false
}

// normalizePattern rewrites backslashes and drops a leading "/" or "./".
//
//	`Fixtures\**` → "Fixtures/**"
//	"./Fixtures/**" → "Fixtures/**"
func normalizePattern(pattern string) string {
	pattern = strings.ReplaceAll(pattern, `\`, "/")
	pattern = strings.TrimPrefix(pattern, "./")
	return strings.TrimPrefix(pattern, "/")
}

// matchPattern reports whether p matches an exclude glob.
//
// "prefix/**" matches the prefix itself and every path beneath it; the
// prefix may contain globs. All other patterns use path.Match semantics
// (single * does not cross /).
func matchPattern(pattern, p string) bool {
	if strings.HasSuffix(pattern, "/**") {
		prefix := strings.TrimSuffix(pattern, "/**")
		n := strings.Count(prefix, "/") + 1
		segs := strings.SplitN(p, "/", n+1)
		if len(segs) < n {
			return false
		}
		matched, _ := path.Match(prefix, strings.Join(segs[:n], "/"))
		return matched
	}
	matched, _ := path.Match(pattern, p)
	return matched
}
