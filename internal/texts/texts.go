// Package texts holds the bilingual message catalog shown to end users.
// Every user-visible string lives here; handlers never embed literals.
package texts

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Language selects the message set for a session.
type Language string

const (
	// LangRO is Romanian, the default until the user picks a language.
	LangRO Language = "ro"
	// LangRU is Russian.
	LangRU Language = "ru"
)

//go:embed texts.yaml
var textsYAML []byte

var tables map[Language]map[string]string

func init() {
	if err := yaml.Unmarshal(textsYAML, &tables); err != nil {
		panic(fmt.Sprintf("texts: embedded catalog is invalid: %v", err))
	}
}

// ParseLanguage normalizes a raw language code, defaulting to Romanian.
func ParseLanguage(code string) Language {
	if Language(code) == LangRU {
		return LangRU
	}
	return LangRO
}

// T resolves a message key for the given language. Missing translations
// fall back to Romanian; a key absent from both tables is returned
// verbatim so the gap is visible instead of silent.
func T(lang Language, key string) string {
	if table, ok := tables[lang]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := tables[LangRO][key]; ok {
		return msg
	}
	return key
}

// Tf resolves a key and applies fmt.Sprintf with the given arguments.
func Tf(lang Language, key string, args ...any) string {
	return fmt.Sprintf(T(lang, key), args...)
}

// Keys returns all keys defined for the given language.
func Keys(lang Language) []string {
	table := tables[lang]
	out := make([]string, 0, len(table))
	for k := range table {
		out = append(out, k)
	}
	return out
}
