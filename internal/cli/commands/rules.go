package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dia3-labs/brief/internal/cli/output"
	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/lint"
	"github.com/dia3-labs/brief/pkg/lint/corpus"
	_ "github.com/dia3-labs/brief/pkg/lint/corpus/rules" // register corpus rules
	_ "github.com/dia3-labs/brief/pkg/lint/rules"        // register document rules
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group   string // Filter by group
	Type    string // Filter by type: document, corpus
	Verbose bool   // Show full documentation
	Format  string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available lint rules",
		Long: `List all available lint rules with their documentation.

Rules are organized by type (document or corpus) and group (structure,
metrics, convention, consistency). Document rules check one report
against its profile; corpus rules check cross-report concerns like
conflicting figures and dead links.

Use --verbose for descriptions and rationale inline, or name a rule for
its full documentation.`,
		Example: `  # List all rules
  brief rules

  # Show details for one rule
  brief rules ST01

  # List corpus rules only
  brief rules --type corpus

  # List the metrics group
  brief rules --group metrics

  # Output as JSON
  brief rules --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().StringVar(&opts.Type, "type", "", "Filter by type: document, corpus")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show full documentation")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

// allRuleInfos collects document and corpus rule metadata.
func allRuleInfos() []core.RuleInfo {
	var infos []core.RuleInfo
	for _, def := range lint.GetAll() {
		infos = append(infos, lint.GetRuleInfo(def))
	}
	for _, def := range corpus.GetAll() {
		infos = append(infos, corpus.GetRuleInfo(def))
	}
	return infos
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	rules := filterRulesByOptions(allRuleInfos(), opts)

	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Type != rules[j].Type {
			return rules[i].Type < rules[j].Type
		}
		if rules[i].Group != rules[j].Group {
			return rules[i].Group < rules[j].Group
		}
		return rules[i].ID < rules[j].ID
	})

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return listRulesJSON(r, rules)
	case output.ModeMarkdown:
		return listRulesMarkdown(r, rules, opts.Verbose)
	default:
		return listRulesText(r, rules, opts.Verbose)
	}
}

func filterRulesByOptions(rules []core.RuleInfo, opts *RulesOptions) []core.RuleInfo {
	if opts.Group == "" && opts.Type == "" {
		return rules
	}

	var filtered []core.RuleInfo
	for _, r := range rules {
		if opts.Group != "" && r.Group != opts.Group {
			continue
		}
		if opts.Type != "" && r.Type != opts.Type {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

func showRule(cmd *cobra.Command, ruleID string, opts *RulesOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	var rule *core.RuleInfo
	for _, ri := range allRuleInfos() {
		if strings.EqualFold(ri.ID, ruleID) {
			info := ri
			rule = &info
			break
		}
	}
	if rule == nil {
		return fmt.Errorf("rule %q not found", ruleID)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(rule)
	case output.ModeMarkdown:
		return showRuleMarkdown(r, rule)
	default:
		return showRuleText(r, rule)
	}
}

func typeLabel(t string) string {
	if t == "corpus" {
		return "Corpus Rules"
	}
	return "Document Rules"
}

// listRulesText outputs rules in styled text format.
func listRulesText(r *output.Renderer, rules []core.RuleInfo, verbose bool) error {
	styles := r.Styles()

	docCount, corpusCount := 0, 0
	for _, rule := range rules {
		if rule.Type == "corpus" {
			corpusCount++
		} else {
			docCount++
		}
	}

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Lint Rules (%d document, %d corpus)", docCount, corpusCount)))
	r.Println("")

	currentType := ""
	currentGroup := ""
	for _, rule := range rules {
		if rule.Type != currentType {
			currentType = rule.Type
			currentGroup = ""
			r.Println(styles.Header2.Render(typeLabel(currentType)))
			r.Println("")
		}
		if rule.Group != currentGroup {
			currentGroup = rule.Group
			r.Println(styles.Bold.Render("  " + capitalizeFirst(currentGroup)))
		}

		severityStyle := severityStyleFor(styles, rule.DefaultSeverity)
		r.Printf("    %s  %s - %s\n",
			styles.Muted.Render(rule.ID),
			rule.Name,
			severityStyle.Render(rule.DefaultSeverity.String()),
		)
		if verbose {
			r.Println(styles.Muted.Render("        " + rule.Description))
			if rule.Rationale != "" {
				r.Println(styles.Muted.Render("        Why: " + truncateOneLine(rule.Rationale, 80)))
			}
			r.Println("")
		}
	}

	r.Println("")
	r.Println(styles.Muted.Render("Use 'brief rules <rule-id>' for detailed documentation"))
	r.Println("")
	return nil
}

// listRulesMarkdown outputs rules in markdown format.
func listRulesMarkdown(r *output.Renderer, rules []core.RuleInfo, verbose bool) error {
	r.Println("# Lint Rules")
	r.Println("")

	currentType := ""
	currentGroup := ""
	for _, rule := range rules {
		if rule.Type != currentType {
			currentType = rule.Type
			currentGroup = ""
			r.Println("## " + typeLabel(currentType))
			r.Println("")
		}
		if rule.Group != currentGroup {
			currentGroup = rule.Group
			r.Println("### " + capitalizeFirst(currentGroup))
			r.Println("")
		}

		r.Printf("- **%s** - %s (`%s`)\n", rule.ID, rule.Name, rule.DefaultSeverity.String())
		if verbose {
			r.Println("  " + rule.Description)
			if rule.Rationale != "" {
				r.Println("  > " + rule.Rationale)
			}
		}
	}

	r.Println("")
	return nil
}

// RulesJSONOutput is the JSON payload of the rules listing.
type RulesJSONOutput struct {
	Rules []core.RuleInfo `json:"rules"`
	Count struct {
		Document int `json:"document"`
		Corpus   int `json:"corpus"`
		Total    int `json:"total"`
	} `json:"count"`
}

func listRulesJSON(r *output.Renderer, rules []core.RuleInfo) error {
	out := RulesJSONOutput{Rules: rules}
	for _, rule := range rules {
		if rule.Type == "corpus" {
			out.Count.Corpus++
		} else {
			out.Count.Document++
		}
	}
	out.Count.Total = len(rules)
	return r.JSON(out)
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, rule *core.RuleInfo) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("%s - %s", rule.ID, rule.Name)))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Type"), rule.Type)
	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), rule.Group)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), rule.DefaultSeverity.String())
	if len(rule.Profiles) > 0 {
		r.Printf("  %s: %s\n", styles.Bold.Render("Profiles"), strings.Join(rule.Profiles, ", "))
	}
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println(styles.Bold.Render("Why This Matters"))
		r.Println("  " + rule.Rationale)
		r.Println("")
	}
	if rule.BadExample != "" {
		r.Println(styles.Bold.Render("Bad Example"))
		for _, line := range strings.Split(rule.BadExample, "\n") {
			r.Println(styles.Muted.Render("  " + line))
		}
		r.Println("")
	}
	if rule.GoodExample != "" {
		r.Println(styles.Bold.Render("Good Example"))
		for _, line := range strings.Split(rule.GoodExample, "\n") {
			r.Println(styles.Success.Render("  " + line))
		}
		r.Println("")
	}
	if rule.Fix != "" {
		r.Println(styles.Bold.Render("How To Fix"))
		r.Println("  " + rule.Fix)
		r.Println("")
	}
	if len(rule.ConfigKeys) > 0 {
		r.Println(styles.Bold.Render("Configuration"))
		r.Printf("  Keys: %s\n", strings.Join(rule.ConfigKeys, ", "))
		r.Println("")
	}
	return nil
}

// showRuleMarkdown displays detailed rule info in markdown format.
func showRuleMarkdown(r *output.Renderer, rule *core.RuleInfo) error {
	r.Printf("# %s - %s\n\n", rule.ID, rule.Name)
	r.Println(output.FormatKeyValue("Type", rule.Type))
	r.Println(output.FormatKeyValue("Group", rule.Group))
	r.Println(output.FormatKeyValue("Severity", rule.DefaultSeverity.String()))
	r.Println("")
	r.Println(rule.Description)

	if rule.Rationale != "" {
		r.Println("")
		r.Println("## Why This Matters")
		r.Println("")
		r.Println(rule.Rationale)
	}
	if rule.BadExample != "" {
		r.Println("")
		r.Println("## Bad Example")
		r.Println("")
		r.Println(output.FormatCodeBlock("markdown", rule.BadExample))
	}
	if rule.GoodExample != "" {
		r.Println("")
		r.Println("## Good Example")
		r.Println("")
		r.Println(output.FormatCodeBlock("markdown", rule.GoodExample))
	}
	if rule.Fix != "" {
		r.Println("")
		r.Println("## How To Fix")
		r.Println("")
		r.Println(rule.Fix)
	}
	return nil
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func truncateOneLine(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func severityStyleFor(styles *output.Styles, sev core.Severity) lipgloss.Style {
	switch sev {
	case core.SeverityError:
		return styles.Error
	case core.SeverityWarning:
		return styles.Warning
	case core.SeverityInfo:
		return styles.Info
	default:
		return styles.Muted
	}
}
