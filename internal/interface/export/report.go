// Package export renders computed study data into shareable formats.
// The report is plain text so it survives any channel (download,
// clipboard, chat paste) without a viewer.
package export

import (
	"fmt"
	"strings"

	"github.com/study-hub/study-tracker-hub/internal/application/query"
	"github.com/study-hub/study-tracker-hub/internal/domain/tracker"
	"github.com/study-hub/study-tracker-hub/pkg/timeutil"
)

const (
	heavyRule = "══════════════════════════════════════════"
	lightRule = "──────────────────────────────────────────"
)

// statusEmoji maps a topic lifecycle status onto the report marker.
func statusEmoji(status tracker.TopicStatus) string {
	switch status {
	case tracker.StatusCompleted:
		return "✅"
	case tracker.StatusInProgress:
		return "🔄"
	default:
		return "📝"
	}
}

// RenderReport formats report data into the plain-text study report.
// The output is deterministic for a given input: the generation stamp
// comes from the data, never from the wall clock.
func RenderReport(data *query.ReportData) string {
	var b strings.Builder

	section := func(title string) {
		b.WriteString(lightRule + "\n")
		b.WriteString(title + "\n")
		b.WriteString(lightRule + "\n\n")
	}

	b.WriteString(heavyRule + "\n")
	b.WriteString("📚 RELATÓRIO DE ESTUDOS\n")
	b.WriteString(heavyRule + "\n\n")

	b.WriteString("Gerado em: " + data.GeneratedAt.Format(timeutil.FormatReportStamp) + "\n")
	fmt.Fprintf(&b, "Período: Últimos %d dias\n\n", data.PeriodDays)

	section("📊 ESTATÍSTICAS GERAIS")
	fmt.Fprintf(&b, "✓ Dias de estudo: %d\n", data.PeriodTotals.TotalDays)
	fmt.Fprintf(&b, "✓ Sessões: %d\n", data.PeriodSessions)
	fmt.Fprintf(&b, "✓ Total de horas: %s\n", timeutil.FormatHours(data.PeriodTotals.TotalHours))
	fmt.Fprintf(&b, "✓ Exercícios resolvidos: %d\n\n", data.PeriodTotals.TotalExercises)

	section("🔥 SEQUÊNCIA (STREAK)")
	fmt.Fprintf(&b, "• Sequência atual: %d dias\n", data.Streak.Current)
	fmt.Fprintf(&b, "• Melhor sequência: %d dias\n\n", data.Streak.Best)

	section("📖 TÓPICOS MAIS ESTUDADOS")
	if len(data.TopTopics) == 0 {
		b.WriteString("Nenhuma sessão registrada.\n")
	}
	for i, topic := range data.TopTopics {
		fmt.Fprintf(&b, "%d. %s: %.1fh\n", i+1, topic.Name, topic.Hours)
	}
	b.WriteString("\n")

	section("📋 LISTA DE TÓPICOS")
	if len(data.Topics) == 0 {
		b.WriteString("Nenhum tópico cadastrado.\n")
	}
	for _, topic := range data.Topics {
		category := topic.Category
		if category == "" {
			category = "Sem categoria"
		}
		fmt.Fprintf(&b, "%s %s - %s\n", statusEmoji(topic.Status), topic.Name, category)
	}
	b.WriteString("\n")

	b.WriteString(heavyRule + "\n")
	b.WriteString("Continue estudando e evoluindo! 🚀\n")
	b.WriteString(heavyRule + "\n")

	return b.String()
}

// ReportFileName returns the suggested download file name for a report
// generated at the given time.
func ReportFileName(data *query.ReportData) string {
	return "relatorio-estudos-" + data.GeneratedAt.Format(timeutil.FormatDate) + ".txt"
}
