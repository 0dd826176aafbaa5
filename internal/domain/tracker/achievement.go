package tracker

import "time"

// ══════════════════════════════════════════════════════════════════════════════
// ACHIEVEMENTS (Достижения)
// ══════════════════════════════════════════════════════════════════════════════

// MetricType представляет метрику, по которой разблокируется достижение.
type MetricType string

const (
	// MetricSessionCount - количество сессий в журнале.
	MetricSessionCount MetricType = "sessionCount"
	// MetricTotalMinutes - суммарные минуты учёбы.
	MetricTotalMinutes MetricType = "totalMinutes"
	// MetricTotalExercises - суммарные упражнения.
	MetricTotalExercises MetricType = "totalExercises"
	// MetricCurrentStreak - текущая серия дней.
	MetricCurrentStreak MetricType = "currentStreak"
)

// AchievementDefinition описывает одно достижение каталога.
type AchievementDefinition struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Metric      MetricType `json:"metric"`
	Threshold   int        `json:"threshold"`
}

// Catalog возвращает статический каталог достижений.
// Каталог фиксирован и не редактируется пользователем.
//
// Категория достижений по времени суток из исходного дизайна
// зарезервирована и сюда намеренно не входит.
func Catalog() []AchievementDefinition {
	return []AchievementDefinition{
		{"first-session", "Primeira Sessão", "Registre sua primeira sessão de estudo", "🎯", MetricSessionCount, 1},
		{"sessions-10", "Dedicação", "Registre 10 sessões de estudo", "📚", MetricSessionCount, 10},
		{"sessions-50", "Veterano", "Registre 50 sessões de estudo", "🎓", MetricSessionCount, 50},
		{"minutes-600", "10 Horas", "Acumule 10 horas de estudo", "⏰", MetricTotalMinutes, 600},
		{"minutes-3000", "50 Horas", "Acumule 50 horas de estudo", "🕐", MetricTotalMinutes, 3000},
		{"exercises-100", "Praticante", "Resolva 100 exercícios", "💪", MetricTotalExercises, 100},
		{"exercises-500", "Mestre dos Exercícios", "Resolva 500 exercícios", "🏆", MetricTotalExercises, 500},
		{"streak-3", "Consistência", "Estude 3 dias seguidos", "🔥", MetricCurrentStreak, 3},
		{"streak-7", "Semana Perfeita", "Estude 7 dias seguidos", "⚡", MetricCurrentStreak, 7},
		{"streak-30", "Imparável", "Estude 30 dias seguidos", "👑", MetricCurrentStreak, 30},
	}
}

// DefinitionByID возвращает определение достижения по идентификатору.
func DefinitionByID(id string) (AchievementDefinition, bool) {
	for _, def := range Catalog() {
		if def.ID == id {
			return def, true
		}
	}
	return AchievementDefinition{}, false
}

// ══════════════════════════════════════════════════════════════════════════════
// ACHIEVEMENT CHECKER
// ══════════════════════════════════════════════════════════════════════════════

// AchievementChecker проверяет условия разблокировки достижений.
type AchievementChecker struct {
	catalog []AchievementDefinition
}

// NewAchievementChecker создаёт проверщик со статическим каталогом.
func NewAchievementChecker() *AchievementChecker {
	return &AchievementChecker{catalog: Catalog()}
}

// CheckNewUnlocks возвращает достижения, чьи метрики впервые достигли
// порога. Уже разблокированные пропускаются независимо от текущего
// значения метрики, поэтому повторный вызов идемпотентен, а множество
// разблокированных монотонно растёт.
func (ac *AchievementChecker) CheckNewUnlocks(log *StudyLog, now time.Time) []AchievementDefinition {
	metrics := collectMetrics(log, now)

	var unlocked []AchievementDefinition
	for _, def := range ac.catalog {
		if log.IsUnlocked(def.ID) {
			continue
		}
		if metrics[def.Metric] >= def.Threshold {
			unlocked = append(unlocked, def)
		}
	}
	return unlocked
}

// collectMetrics вычисляет все метрики каталога за один проход.
func collectMetrics(log *StudyLog, now time.Time) map[MetricType]int {
	var totalMinutes, totalExercises int
	for _, s := range log.Sessions {
		totalMinutes += s.DurationMinutes
		totalExercises += s.Exercises
	}
	streak := CalculateStreak(log.Sessions, now)

	return map[MetricType]int{
		MetricSessionCount:   len(log.Sessions),
		MetricTotalMinutes:   totalMinutes,
		MetricTotalExercises: totalExercises,
		MetricCurrentStreak:  streak.Current,
	}
}

// AchievementView - элемент каталога вместе с состоянием разблокировки.
type AchievementView struct {
	AchievementDefinition
	Unlocked bool `json:"unlocked"`
}

// CatalogWithUnlocks возвращает каталог, объединённый с множеством
// разблокированных достижений аккаунта.
func CatalogWithUnlocks(log *StudyLog) []AchievementView {
	catalog := Catalog()
	views := make([]AchievementView, 0, len(catalog))
	for _, def := range catalog {
		views = append(views, AchievementView{
			AchievementDefinition: def,
			Unlocked:              log.IsUnlocked(def.ID),
		})
	}
	return views
}
