// Package catalog maps concepts to icon identifiers through a fixed chain of
// resolution tiers. Resolution is total: every input yields a descriptor.
package catalog

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Category records which resolution tier produced a descriptor. It is
// diagnostic metadata only; rendering never reads it.
type Category string

const (
	CategoryDirect   Category = "direct"
	CategorySemantic Category = "semantic"
	CategoryLetter   Category = "letter"
	CategoryKeyword  Category = "keyword"
	CategoryFallback Category = "fallback"
	CategoryDefault  Category = "default"
)

// DefaultIcon is the universal icon used when nothing else matches
const DefaultIcon = "auto_awesome"

// IconDescriptor is a resolved icon plus the tier that produced it
type IconDescriptor struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

// SemanticRule maps concepts matching Pattern to Icon
type SemanticRule struct {
	Pattern *regexp.Regexp
	Icon    string
}

// Matches reports whether the rule applies to concept
func (r SemanticRule) Matches(concept string) bool {
	return r.Pattern.MatchString(concept)
}

// Catalog resolves concepts to icons
type Catalog struct {
	direct      map[string]string
	rules       []SemanticRule
	letters     map[rune]string
	defaultIcon string
}

// New creates a catalog with the built-in tables
func New() *Catalog {
	return &Catalog{
		direct:      directIcons,
		rules:       semanticRules,
		letters:     letterIcons,
		defaultIcon: DefaultIcon,
	}
}

// Resolve maps a concept to an icon. Tiers are tried in order: exact match,
// semantic rules (first match wins), first letter, universal default.
func (c *Catalog) Resolve(concept string) IconDescriptor {
	concept = strings.ToLower(strings.TrimSpace(concept))

	if icon, ok := c.direct[concept]; ok {
		return IconDescriptor{Name: icon, Category: CategoryDirect}
	}

	if concept != "" {
		for _, rule := range c.rules {
			if rule.Matches(concept) {
				return IconDescriptor{Name: rule.Icon, Category: CategorySemantic}
			}
		}
	}

	return c.resolveLetter(concept)
}

// ResolvePinned resolves a concept whose source already suggests an icon.
// A direct entry still wins; otherwise the pinned icon is used.
func (c *Catalog) ResolvePinned(concept, icon string) IconDescriptor {
	key := strings.ToLower(strings.TrimSpace(concept))
	if direct, ok := c.direct[key]; ok {
		return IconDescriptor{Name: direct, Category: CategoryDirect}
	}
	if icon != "" {
		return IconDescriptor{Name: icon, Category: CategoryKeyword}
	}
	return c.Resolve(concept)
}

// ResolveAll resolves every concept in order
func (c *Catalog) ResolveAll(concepts []string) []IconDescriptor {
	icons := make([]IconDescriptor, 0, len(concepts))
	for _, concept := range concepts {
		icons = append(icons, c.Resolve(concept))
	}
	return icons
}

// Rules returns a copy of the semantic rules in priority order
func (c *Catalog) Rules() []SemanticRule {
	rules := make([]SemanticRule, len(c.rules))
	copy(rules, c.rules)
	return rules
}

// Direct returns a copy of the direct concept table
func (c *Catalog) Direct() map[string]string {
	direct := make(map[string]string, len(c.direct))
	for concept, icon := range c.direct {
		direct[concept] = icon
	}
	return direct
}

func (c *Catalog) resolveLetter(concept string) IconDescriptor {
	if concept == "" {
		return c.Default()
	}
	first, _ := utf8.DecodeRuneInString(concept)
	if icon, ok := c.letters[first]; ok {
		return IconDescriptor{Name: icon, Category: CategoryLetter}
	}
	return c.Default()
}

// Default returns the universal default descriptor
func (c *Catalog) Default() IconDescriptor {
	return IconDescriptor{Name: c.defaultIcon, Category: CategoryDefault}
}

// Fallback wraps configured icon names as fallback descriptors, skipping blanks
func Fallback(names []string) []IconDescriptor {
	icons := make([]IconDescriptor, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		icons = append(icons, IconDescriptor{Name: name, Category: CategoryFallback})
	}
	return icons
}

// Names extracts icon names from descriptors
func Names(icons []IconDescriptor) []string {
	names := make([]string, len(icons))
	for i, icon := range icons {
		names[i] = icon.Name
	}
	return names
}

// Humanize turns an icon identifier into a label ("account_balance" -> "Account balance")
func Humanize(name string) string {
	label := strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
	if label == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(label)
	return strings.ToUpper(string(first)) + label[size:]
}
