package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yildizm/glyphloader/internal/catalog"
	"github.com/yildizm/glyphloader/internal/glyph"
	"github.com/yildizm/glyphloader/internal/keywords"
)

func newIconsCommand() *cobra.Command {
	var (
		showRules  bool
		showDirect bool
	)

	cmd := &cobra.Command{
		Use:   "icons [concept...]",
		Short: "Resolve concepts to icons",
		Long: `Show which icon each concept resolves to and which catalog tier matched.

Tiers are tried in order: direct match, keyword vocabulary, semantic rule,
first letter, universal default.

Examples:
  glyphloader icons finance cloud quantum
  glyphloader icons --rules
  glyphloader icons --direct`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cat := catalog.New()

			switch {
			case showRules:
				printRules(out, cat)
				return nil
			case showDirect:
				printDirect(out, cat)
				return nil
			case len(args) == 0:
				return fmt.Errorf("give at least one concept, or use --rules / --direct")
			}

			printResolved(out, cat, keywords.NewExtractor(), args)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showRules, "rules", false, "list the semantic rules in priority order")
	cmd.Flags().BoolVar(&showDirect, "direct", false, "list the direct concept table")

	return cmd
}

func printResolved(out io.Writer, cat *catalog.Catalog, kw *keywords.Extractor, concepts []string) {
	for _, concept := range concepts {
		var icon catalog.IconDescriptor
		if pinned, ok := kw.IconFor(concept); ok {
			icon = cat.ResolvePinned(concept, pinned)
		} else {
			icon = cat.Resolve(concept)
		}
		fmt.Fprintf(out, "  %-16s %s %-26s (%s)\n", concept, glyph.For(icon.Name), icon.Name, icon.Category)
	}
}

func printRules(out io.Writer, cat *catalog.Catalog) {
	fmt.Fprintln(out, "Semantic rules (first match wins):")
	for i, rule := range cat.Rules() {
		pattern := strings.TrimPrefix(rule.Pattern.String(), "(?i)")
		fmt.Fprintf(out, "  %d. %-30s %s %s\n", i+1, pattern, glyph.For(rule.Icon), rule.Icon)
	}
}

func printDirect(out io.Writer, cat *catalog.Catalog) {
	direct := cat.Direct()
	concepts := make([]string, 0, len(direct))
	for concept := range direct {
		concepts = append(concepts, concept)
	}
	sort.Strings(concepts)

	fmt.Fprintf(out, "Direct concepts (%d):\n", len(concepts))
	for _, concept := range concepts {
		fmt.Fprintf(out, "  %-12s %s %s\n", concept, glyph.For(direct[concept]), direct[concept])
	}
}
