package loader

import (
	"os"
	"sort"
	"strings"
)

// DefaultEnvPrefix prefixes every keypad environment variable.
const DefaultEnvPrefix = "KEYPAD_"

// EnvLoader reads setting overrides from environment variables.
//
// Mapped variables name a setting path directly. Any other variable with the
// prefix is read as PREFIX_SECTION_NAME and maps to "section.name" in lower
// case, so KEYPAD_BEEPER_LINE sets "beeper.line".
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "KEYPAD_")
	mapping map[string]string // Env var -> setting path
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "KEYPAD_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(),
		environ: os.Environ,
	}
}

// NewEnvLoaderFrom creates a loader reading a fixed environment, given as
// KEY=VALUE strings.
func NewEnvLoaderFrom(prefix string, env []string) *EnvLoader {
	l := NewEnvLoader(prefix)
	l.environ = func() []string { return env }
	return l
}

// defaultEnvMapping returns the default environment variable mappings.
func defaultEnvMapping() map[string]string {
	return map[string]string{
		"KEYPAD_MODE":            "keypad.mode",
		"KEYPAD_DEBOUNCE_WINDOW": "keypad.debounce_window",
		"KEYPAD_TAP_TIMEOUT":     "keypad.tap_timeout",
		"KEYPAD_LONG_PRESS":      "keypad.long_press",
		"KEYPAD_MAX_TEXT_LENGTH": "keypad.max_text_length",
		"KEYPAD_LOG_LEVEL":       "logging.level",
	}
}

// Load returns setting path to raw value for every override present.
// Empty values are kept; they are valid for settings such as key labels.
func (l *EnvLoader) Load() map[string]string {
	out := make(map[string]string)

	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		if path, mapped := l.mapping[name]; mapped {
			out[path] = value
			continue
		}
		if path := l.envToPath(name); path != "" {
			// explicit mappings win over derived paths
			if _, taken := out[path]; !taken {
				out[path] = value
			}
		}
	}

	return out
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, path string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = path
}

// RemoveMapping removes an environment variable mapping.
func (l *EnvLoader) RemoveMapping(envVar string) {
	delete(l.mapping, envVar)
}

// Mapped returns the mapped variable names in sorted order.
func (l *EnvLoader) Mapped() []string {
	names := make([]string, 0, len(l.mapping))
	for name := range l.mapping {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// envToPath converts KEYPAD_BEEPER_LINE to beeper.line. Names without a
// section part yield "".
func (l *EnvLoader) envToPath(env string) string {
	name := strings.ToLower(strings.TrimPrefix(env, l.prefix))
	section, setting, ok := strings.Cut(name, "_")
	if !ok || section == "" || setting == "" {
		return ""
	}
	return section + "." + setting
}
