package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/study-hub/study-tracker-hub/internal/application/query"
	"github.com/study-hub/study-tracker-hub/internal/domain/tracker"
)

func sampleReportData() *query.ReportData {
	return &query.ReportData{
		GeneratedAt:    time.Date(2026, 1, 15, 14, 30, 0, 0, time.UTC),
		PeriodDays:     30,
		PeriodSessions: 12,
		PeriodTotals: tracker.Totals{
			TotalDays:      8,
			TotalHours:     10.5,
			TotalMinutes:   630,
			TotalSessions:  12,
			TotalExercises: 47,
		},
		Streak: tracker.StreakResult{Current: 3, Best: 6},
		TopTopics: []tracker.TopicSlice{
			{Name: "Álgebra Linear", Hours: 5.5, Minutes: 330},
			{Name: "Sem tópico", Hours: 5.0, Minutes: 300},
		},
		Topics: []tracker.Topic{
			{ID: 1, Name: "Álgebra Linear", Category: "Matemática", Status: tracker.StatusInProgress},
			{ID: 2, Name: "Redação", Status: tracker.StatusCompleted},
			{ID: 3, Name: "Física", Category: "Ciências", Status: tracker.StatusTodo},
		},
	}
}

func TestRenderReportSections(t *testing.T) {
	report := RenderReport(sampleReportData())

	assert.Contains(t, report, "📚 RELATÓRIO DE ESTUDOS")
	assert.Contains(t, report, "Gerado em: 15/01/2026 14:30")
	assert.Contains(t, report, "Período: Últimos 30 dias")
	assert.Contains(t, report, "✓ Dias de estudo: 8")
	assert.Contains(t, report, "✓ Sessões: 12")
	assert.Contains(t, report, "✓ Total de horas: 10h 30m")
	assert.Contains(t, report, "✓ Exercícios resolvidos: 47")
	assert.Contains(t, report, "• Sequência atual: 3 dias")
	assert.Contains(t, report, "• Melhor sequência: 6 dias")
	assert.Contains(t, report, "1. Álgebra Linear: 5.5h")
	assert.Contains(t, report, "2. Sem tópico: 5.0h")
	assert.Contains(t, report, "Continue estudando e evoluindo! 🚀")
}

func TestRenderReportTopicList(t *testing.T) {
	report := RenderReport(sampleReportData())

	assert.Contains(t, report, "🔄 Álgebra Linear - Matemática")
	assert.Contains(t, report, "✅ Redação - Sem categoria")
	assert.Contains(t, report, "📝 Física - Ciências")
}

func TestRenderReportEmptyState(t *testing.T) {
	data := &query.ReportData{
		GeneratedAt: time.Date(2026, 1, 15, 14, 30, 0, 0, time.UTC),
		PeriodDays:  30,
	}

	report := RenderReport(data)

	assert.Contains(t, report, "Nenhuma sessão registrada.")
	assert.Contains(t, report, "Nenhum tópico cadastrado.")
	assert.Contains(t, report, "✓ Total de horas: 0h")
}

func TestRenderReportDeterministic(t *testing.T) {
	data := sampleReportData()

	assert.Equal(t, RenderReport(data), RenderReport(data))
}

func TestRenderReportLineOrder(t *testing.T) {
	report := RenderReport(sampleReportData())

	stats := strings.Index(report, "📊 ESTATÍSTICAS GERAIS")
	streak := strings.Index(report, "🔥 SEQUÊNCIA (STREAK)")
	topics := strings.Index(report, "📖 TÓPICOS MAIS ESTUDADOS")
	list := strings.Index(report, "📋 LISTA DE TÓPICOS")

	assert.True(t, stats < streak)
	assert.True(t, streak < topics)
	assert.True(t, topics < list)
}

func TestReportFileName(t *testing.T) {
	name := ReportFileName(sampleReportData())

	assert.Equal(t, "relatorio-estudos-2026-01-15.txt", name)
}
