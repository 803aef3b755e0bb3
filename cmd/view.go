package cmd

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/mittwald/healthd/pkg/health"
)

var colorSuccess = lipgloss.Color("#00B785")

var (
	StyleHealthy   = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	StyleDegraded  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e08dff")).Bold(true)
	StyleFailed    = lipgloss.NewStyle().Foreground(lipgloss.Color("#e1244c")).Bold(true)
	StyleHighlight = lipgloss.NewStyle().Foreground(lipgloss.Color("#407FF8")).Bold(true)
	StyleNotSet    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5D689C"))
)

var (
	styleMainLine   = lipgloss.NewStyle().Margin(1, 0)
	styleDetails    = lipgloss.NewStyle().PaddingLeft(2)
	styleLeftColumn = lipgloss.NewStyle().Width(20)
	styleAddendum   = lipgloss.NewStyle().PaddingLeft(3)
)

var styleErrorWrapper = lipgloss.NewStyle().Padding(0, 0).BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#E1244C"))
var styleErrorHeading = lipgloss.NewStyle().Foreground(lipgloss.Color("#E1244C")).Bold(true)
var styleErrorBody = lipgloss.NewStyle().PaddingLeft(3).Foreground(lipgloss.Color("#E1244C")).Width(80).MaxWidth(80)

func statusStyle(status string) lipgloss.Style {
	switch status {
	case health.StatusHealthy, health.StatusReady, health.StatusAlive, health.StatusPass:
		return StyleHealthy
	case health.StatusDegraded, health.StatusNotReady:
		return StyleDegraded
	default:
		return StyleFailed
	}
}

func statusMarker(status string) string {
	switch status {
	case health.StatusHealthy, health.StatusReady, health.StatusAlive, health.StatusPass:
		return statusStyle(status).Render("▶︎")
	default:
		return statusStyle(status).Render("◼︎")
	}
}

func line(name, status, message string) string {
	return lipgloss.JoinHorizontal(lipgloss.Left,
		statusMarker(status), " ",
		styleLeftColumn.Render(StyleHighlight.Render(name)),
		statusStyle(status).Render(status),
		styleAddendum.Render(wrapNotSet(message)),
	)
}

// RenderReadiness renders one line per check below the overall verdict.
func RenderReadiness(res health.ReadinessResponse) string {
	lines := make([]string, 0, len(res.Checks))
	for _, c := range res.Checks {
		lines = append(lines, line(c.Name, c.Status, c.Message))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styleMainLine.Render(lipgloss.JoinHorizontal(lipgloss.Left,
			statusMarker(res.Status), " service is ", statusStyle(res.Status).Render(res.Status),
			styleAddendum.Render("(at "+res.Timestamp+")"),
		)),
		styleDetails.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)),
	)
}

// RenderDetailed renders the detailed report including metrics, details
// and the environment descriptors.
func RenderDetailed(res health.DetailedResponse) string {
	header := lipgloss.JoinHorizontal(lipgloss.Left,
		statusMarker(res.Status), " ",
		StyleHighlight.Render(res.Service), " ", res.Version, " (",
		statusStyle(res.Status).Render(res.Status), "; uptime=",
		StyleHighlight.Render(res.Uptime.HumanReadable), ")",
	)

	var components []string
	for _, c := range res.Components {
		components = append(components, line(c.Name, c.Status, c.Message))
		if c.HasMetrics {
			components = append(components, styleAddendum.Render(metricsLine(c)))
		}
		if c.HasDetails {
			components = append(components, styleAddendum.Render(detailsLine(c)))
		}
	}

	env := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Left, styleLeftColumn.Render("deployment mode:"), wrapNotSet(res.Environment.DeploymentMode)),
		lipgloss.JoinHorizontal(lipgloss.Left, styleLeftColumn.Render("storage backend:"), wrapNotSet(res.Environment.StorageBackend)),
		lipgloss.JoinHorizontal(lipgloss.Left, styleLeftColumn.Render("cache host:"), wrapNotSet(res.Environment.CacheHost)),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		styleMainLine.Render(header),
		styleDetails.Render(lipgloss.JoinVertical(lipgloss.Left, components...)),
		styleMainLine.Render(styleDetails.Render(env)),
	)
}

func metricsLine(c health.Component) string {
	if c.Metrics == nil {
		return "metrics: " + StyleNotSet.Render("<unavailable>")
	}
	out := "metrics:"
	for _, entity := range c.Metrics.Entities() {
		count, _ := c.Metrics.Count(entity)
		out += fmt.Sprintf(" %s=%s", entity, StyleHighlight.Render(fmt.Sprintf("%d", count)))
	}
	return out
}

func detailsLine(c health.Component) string {
	if c.Details == nil {
		return "details: " + StyleNotSet.Render("<unavailable>")
	}
	keys := make([]string, 0, len(c.Details))
	for key := range c.Details {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := "details:"
	for _, key := range keys {
		out += fmt.Sprintf(" %s=%s", key, StyleHighlight.Render(fmt.Sprintf("%v", c.Details[key])))
	}
	return out
}

func RenderError(err error) string {
	return styleErrorWrapper.Render(
		lipgloss.JoinVertical(
			lipgloss.Left,
			styleErrorHeading.Render("💥 AN ERROR OCCURRED WHILE HANDLING YOUR COMMAND"),
			styleErrorBody.Render(err.Error()),
		),
	)
}

func wrapNotSet(s string) string {
	if s == "" {
		return StyleNotSet.Render("<not set>")
	}

	return s
}
