package tracker

import (
	"math"
	"sort"
	"time"

	"github.com/study-hub/study-tracker-hub/internal/domain/shared"
	"github.com/study-hub/study-tracker-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ANALYTICS (Аналитические представления)
// ══════════════════════════════════════════════════════════════════════════════

// NoTopicLabel - метка для сессий без темы или с "висячей" ссылкой.
const NoTopicLabel = "Sem tópico"

// Окна аналитических представлений.
const (
	weekSeriesDays = 7
	heatmapDays    = 91
	maxIntensity   = 4
)

// DayPoint - точка семидневного графика.
type DayPoint struct {
	// Date - календарный день.
	Date shared.Day `json:"date"`

	// Label - короткая подпись дня (например, "02/01").
	Label string `json:"label"`

	// Hours - часы учёбы, округлённые до одного знака.
	Hours float64 `json:"hours"`

	// Exercises - упражнения за день.
	Exercises int `json:"exercises"`
}

// WeekSeries возвращает статистику за последние 7 дней, включая сегодня,
// от старых дней к новым.
func WeekSeries(sessions []Session, now time.Time) []DayPoint {
	today := shared.DayOf(now)

	minutesByDay := make(map[shared.Day]int)
	exercisesByDay := make(map[shared.Day]int)
	for _, s := range sessions {
		minutesByDay[s.Date] += s.DurationMinutes
		exercisesByDay[s.Date] += s.Exercises
	}

	points := make([]DayPoint, 0, weekSeriesDays)
	for i := weekSeriesDays - 1; i >= 0; i-- {
		day := today.AddDays(-i)
		points = append(points, DayPoint{
			Date:      day,
			Label:     day.Time().Format("02/01"),
			Hours:     timeutil.RoundHours(minutesByDay[day]),
			Exercises: exercisesByDay[day],
		})
	}
	return points
}

// TopicSlice - доля одной темы в распределении учебного времени.
type TopicSlice struct {
	// Name - название темы либо NoTopicLabel.
	Name string `json:"name"`

	// Hours - часы, округлённые до одного знака.
	Hours float64 `json:"hours"`

	// Minutes - точные минуты, по которым сортируется распределение.
	Minutes int `json:"minutes"`
}

// TopicDistribution возвращает распределение времени по темам,
// отсортированное по убыванию. Сессии с "висячим" TopicID попадают
// под меткой NoTopicLabel.
func TopicDistribution(log *StudyLog) []TopicSlice {
	minutesByName := make(map[string]int)
	for _, s := range log.Sessions {
		name := NoTopicLabel
		if topic, ok := log.TopicByID(s.TopicID); ok {
			name = topic.Name
		}
		minutesByName[name] += s.DurationMinutes
	}

	slices := make([]TopicSlice, 0, len(minutesByName))
	for name, minutes := range minutesByName {
		slices = append(slices, TopicSlice{
			Name:    name,
			Hours:   timeutil.RoundHours(minutes),
			Minutes: minutes,
		})
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Minutes != slices[j].Minutes {
			return slices[i].Minutes > slices[j].Minutes
		}
		return slices[i].Name < slices[j].Name
	})
	return slices
}

// TopTopics возвращает первые n тем распределения.
func TopTopics(log *StudyLog, n int) []TopicSlice {
	dist := TopicDistribution(log)
	if len(dist) > n {
		dist = dist[:n]
	}
	return dist
}

// HeatmapCell - один день тепловой карты.
type HeatmapCell struct {
	// Date - календарный день.
	Date shared.Day `json:"date"`

	// Minutes - минуты учёбы за день.
	Minutes int `json:"minutes"`

	// Intensity - интенсивность дня, целое в [0, 4].
	Intensity int `json:"intensity"`
}

// Heatmap возвращает тепловую карту за последний 91 день
// (сегодня и 90 дней до него), от старых дней к новым.
func Heatmap(sessions []Session, now time.Time) []HeatmapCell {
	today := shared.DayOf(now)

	minutesByDay := make(map[shared.Day]int)
	for _, s := range sessions {
		minutesByDay[s.Date] += s.DurationMinutes
	}

	cells := make([]HeatmapCell, 0, heatmapDays)
	for i := heatmapDays - 1; i >= 0; i-- {
		day := today.AddDays(-i)
		minutes := minutesByDay[day]
		cells = append(cells, HeatmapCell{
			Date:      day,
			Minutes:   minutes,
			Intensity: intensity(minutes),
		})
	}
	return cells
}

// intensity сводит минуты дня к корзине [0, 4].
func intensity(minutes int) int {
	if minutes <= 0 {
		return 0
	}
	hours := float64(minutes) / 60
	if hours > maxIntensity {
		hours = maxIntensity
	}
	return int(math.Ceil(hours))
}

// ══════════════════════════════════════════════════════════════════════════════
// TOTALS (Суммарная статистика)
// ══════════════════════════════════════════════════════════════════════════════

// Totals - накопленная статистика журнала.
type Totals struct {
	// TotalDays - количество уникальных учебных дней.
	TotalDays int `json:"totalDays"`

	// TotalHours - суммарные часы, округлённые до одного знака.
	TotalHours float64 `json:"totalHours"`

	// TotalMinutes - суммарные минуты.
	TotalMinutes int `json:"totalMinutes"`

	// TotalSessions - количество сессий.
	TotalSessions int `json:"totalSessions"`

	// TotalExercises - суммарные упражнения.
	TotalExercises int `json:"totalExercises"`

	// TotalPages - суммарные страницы.
	TotalPages int `json:"totalPages"`
}

// CalculateTotals вычисляет накопленную статистику журнала.
func CalculateTotals(sessions []Session) Totals {
	days := make(map[shared.Day]struct{})
	totals := Totals{TotalSessions: len(sessions)}
	for _, s := range sessions {
		days[s.Date] = struct{}{}
		totals.TotalMinutes += s.DurationMinutes
		totals.TotalExercises += s.Exercises
		totals.TotalPages += s.Pages
	}
	totals.TotalDays = len(days)
	totals.TotalHours = timeutil.RoundHours(totals.TotalMinutes)
	return totals
}

// SessionView - сессия вместе с отображаемым названием темы.
type SessionView struct {
	Session
	TopicName string `json:"topicName"`
}

// RecentSessions возвращает последние n сессий с названиями тем.
// "Висячие" ссылки на тему отображаются как NoTopicLabel.
func RecentSessions(log *StudyLog, n int) []SessionView {
	count := len(log.Sessions)
	if n > 0 && count > n {
		count = n
	}
	views := make([]SessionView, 0, count)
	for _, s := range log.Sessions[:count] {
		name := NoTopicLabel
		if topic, ok := log.TopicByID(s.TopicID); ok {
			name = topic.Name
		}
		views = append(views, SessionView{Session: s, TopicName: name})
	}
	return views
}

// SessionsSince возвращает сессии, чей день не раньше from.
func SessionsSince(sessions []Session, from shared.Day) []Session {
	var out []Session
	for _, s := range sessions {
		if !s.Date.Before(from) {
			out = append(out, s)
		}
	}
	return out
}
