package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"task-approvals/internal/domain"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	authorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	decidedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
)

const (
	listNameWidth   = 24
	listStatusWidth = 12
)

// renderTask draws a single task record as a bordered panel.
func renderTask(task *domain.Task) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(task.TaskName))
	b.WriteString("\n\n")

	if task.TaskDescription != "" {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Description:"), task.TaskDescription)
	}
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Approvers:"), strings.Join(task.Approvers(), ", "))

	if task.HasRecommendation() {
		fmt.Fprintf(&b, "%s %s %s\n",
			labelStyle.Render("Recommendation:"),
			decidedStyle.Render(task.Recommendation),
			mutedStyle.Render("by "+task.DecisionMaker))
	} else {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Recommendation:"), pendingStyle.Render("pending"))
	}

	fmt.Fprintf(&b, "%s", labelStyle.Render(fmt.Sprintf("Comments (%d):", len(task.Comments))))
	if len(task.Comments) == 0 {
		fmt.Fprintf(&b, " %s", mutedStyle.Render("none"))
	}
	for _, c := range task.Comments {
		fmt.Fprintf(&b, "\n  %s %s", authorStyle.Render(c.Author+":"), c.Text)
	}

	return panelStyle.Render(b.String())
}

// renderTaskRow draws one line of the task list.
func renderTaskRow(task *domain.Task) string {
	status := pendingStyle.Render(padRight("pending", listStatusWidth))
	if task.HasRecommendation() {
		status = decidedStyle.Render(padRight("decided", listStatusWidth))
	}
	return fmt.Sprintf("%s %s %s",
		padRight(task.TaskName, listNameWidth),
		status,
		mutedStyle.Render(strings.Join(task.Approvers(), ", ")))
}

// renderTaskHeader draws the column headings for the task list.
func renderTaskHeader() string {
	return headerStyle.Render(fmt.Sprintf("%s %s %s",
		padRight("TASK", listNameWidth),
		padRight("STATUS", listStatusWidth),
		"APPROVERS"))
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
