// Package report renders a ValidationResult for the CLI: styled
// terminal output, Markdown, or JSON, selected by the configured output
// formats.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bookwright/bookwright/pkg/models"
)

// Formatter renders validation results in the supported output formats.
type Formatter struct {
	headerStyle   lipgloss.Style
	labelStyle    lipgloss.Style
	passStyle     lipgloss.Style
	failStyle     lipgloss.Style
	reviewStyle   lipgloss.Style
	severityStyle map[models.Severity]lipgloss.Style
}

// NewFormatter creates a formatter with the default styles.
func NewFormatter() *Formatter {
	return &Formatter{
		headerStyle: lipgloss.NewStyle().Bold(true),
		labelStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		passStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		failStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		reviewStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		severityStyle: map[models.Severity]lipgloss.Style{
			models.SeverityInfo:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			models.SeverityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
			models.SeverityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
			models.SeverityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
			models.SeverityCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		},
	}
}

// Render renders the result in the named format: "terminal",
// "markdown", or "json".
func (f *Formatter) Render(result *models.ValidationResult, format string) (string, error) {
	switch format {
	case "terminal":
		return f.Terminal(result), nil
	case "markdown":
		return f.Markdown(result), nil
	case "json":
		return f.JSON(result)
	default:
		return "", fmt.Errorf("unknown output format %q (want terminal, markdown, or json)", format)
	}
}

// Terminal renders a styled terminal report.
func (f *Formatter) Terminal(result *models.ValidationResult) string {
	var sb strings.Builder

	sb.WriteString(f.headerStyle.Render("Validation Report"))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("%s %s\n", f.labelStyle.Render("Validation:"), result.ValidationID))
	if result.ProjectID != "" {
		sb.WriteString(fmt.Sprintf("%s %s\n", f.labelStyle.Render("Project:"), result.ProjectID))
	}
	sb.WriteString(fmt.Sprintf("%s %s\n", f.labelStyle.Render("Status:"), f.statusBadge(result.Status)))
	sb.WriteString(fmt.Sprintf("%s %.1f/100\n", f.labelStyle.Render("Quality score:"), result.OverallQualityScore))
	sb.WriteString(fmt.Sprintf("%s %t\n", f.labelStyle.Render("Human review required:"), result.HumanReviewRequired))
	sb.WriteString(fmt.Sprintf("%s %d validators, %d findings, %s\n",
		f.labelStyle.Render("Run:"),
		result.Summary.ValidatorsRun, result.Summary.TotalFindings,
		result.TotalExecutionTime.Round(time.Millisecond)))

	if result.TotalAIUsage.Calls > 0 {
		sb.WriteString(fmt.Sprintf("%s %d calls, %d tokens, $%.4f\n",
			f.labelStyle.Render("AI usage:"),
			result.TotalAIUsage.Calls, result.TotalAIUsage.TokensUsed, result.TotalAIUsage.Cost))
	}

	findings := result.AllFindings()
	if len(findings) > 0 {
		sb.WriteString("\n")
		sb.WriteString(f.headerStyle.Render("Findings"))
		sb.WriteString("\n")
		for _, finding := range findings {
			badge := f.severityStyle[finding.Severity].Render(strings.ToUpper(string(finding.Severity)))
			sb.WriteString(fmt.Sprintf("  [%s] %s: %s\n", badge, finding.Title, finding.Message))
			if finding.Location != nil && finding.Location.Line > 0 {
				sb.WriteString(fmt.Sprintf("         at %s:%d\n", finding.Location.ContentType, finding.Location.Line))
			}
			if finding.Remediation != "" {
				sb.WriteString(fmt.Sprintf("         fix: %s\n", finding.Remediation))
			}
		}
	}

	return sb.String()
}

// Markdown renders a Markdown report suitable for committing alongside
// the generated content.
func (f *Formatter) Markdown(result *models.ValidationResult) string {
	var sb strings.Builder

	sb.WriteString("# Validation Report\n\n")
	sb.WriteString(fmt.Sprintf("- **Validation:** `%s`\n", result.ValidationID))
	if result.ProjectID != "" {
		sb.WriteString(fmt.Sprintf("- **Project:** `%s`\n", result.ProjectID))
	}
	sb.WriteString(fmt.Sprintf("- **Status:** %s\n", result.Status))
	sb.WriteString(fmt.Sprintf("- **Quality score:** %.1f/100\n", result.OverallQualityScore))
	sb.WriteString(fmt.Sprintf("- **Human review required:** %t\n", result.HumanReviewRequired))
	sb.WriteString(fmt.Sprintf("- **Execution time:** %s\n", result.TotalExecutionTime.Round(time.Millisecond)))
	if result.TotalAIUsage.Calls > 0 {
		sb.WriteString(fmt.Sprintf("- **AI usage:** %d calls, %d tokens, $%.4f\n",
			result.TotalAIUsage.Calls, result.TotalAIUsage.TokensUsed, result.TotalAIUsage.Cost))
	}

	if result.Summary.TotalFindings > 0 {
		sb.WriteString("\n## Findings by severity\n\n")
		for _, sev := range severityOrder(result.Summary.BySeverity) {
			sb.WriteString(fmt.Sprintf("- %s: %d\n", sev, result.Summary.BySeverity[sev]))
		}

		sb.WriteString("\n## Findings\n\n")
		sb.WriteString("| Severity | Validator | Title | Message |\n")
		sb.WriteString("|---|---|---|---|\n")
		for _, finding := range result.AllFindings() {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				finding.Severity, finding.ValidatorID,
				escapeCell(finding.Title), escapeCell(finding.Message)))
		}
	}

	return sb.String()
}

// JSON renders the full result document.
func (f *Formatter) JSON(result *models.ValidationResult) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	return string(data), nil
}

// statusBadge colors the run status.
func (f *Formatter) statusBadge(status models.ValidationStatus) string {
	switch status {
	case models.ValidationCompleted:
		return f.passStyle.Render(string(status))
	case models.ValidationNeedsHumanReview:
		return f.reviewStyle.Render(string(status))
	default:
		return f.failStyle.Render(string(status))
	}
}

// severityOrder returns the severities present, worst first.
func severityOrder(counts map[models.Severity]int) []models.Severity {
	ranked := []models.Severity{
		models.SeverityCritical,
		models.SeverityHigh,
		models.SeverityMedium,
		models.SeverityLow,
		models.SeverityInfo,
	}
	present := make([]models.Severity, 0, len(counts))
	for _, sev := range ranked {
		if counts[sev] > 0 {
			present = append(present, sev)
		}
	}
	// Unknown severities trail in lexical order.
	var extra []models.Severity
	for sev := range counts {
		if !sev.Valid() && counts[sev] > 0 {
			extra = append(extra, sev)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(present, extra...)
}

// escapeCell keeps finding text from breaking the Markdown table.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
