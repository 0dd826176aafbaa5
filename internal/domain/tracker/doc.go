// Package tracker содержит доменную модель личного трекера учёбы.
//
// Это ядро бизнес-логики системы. Пакет определяет:
//
//   - Сущности (Entities): Session, Topic, Goals, StudyLog
//   - Чистые вычисления: CalculateStreak, CalculateGoalsProgress,
//     WeekSeries, TopicDistribution, Heatmap, CalculateTotals
//   - Статический каталог достижений и AchievementChecker
//   - Интерфейсы репозиториев: SnapshotRepository, SnapshotCache
//
// # Архитектурные принципы
//
// Пакет следует принципам Clean Architecture и DDD:
//
//  1. Минимум внешних зависимостей - стандартная библиотека и shared
//  2. Dependency Inversion - интерфейсы хранилищ реализуются в infrastructure
//  3. Производные представления не кэшируются - всегда вычисляются из журнала
//
// # Основные операции
//
// Журнал учёбы - канонический агрегат аккаунта:
//
//	log := NewStudyLog()
//	session, err := log.AddSession(SessionInput{
//	    Date:            shared.DayOf(time.Now()),
//	    TopicID:         topic.ID,
//	    DurationMinutes: 45,
//	})
//
// Серия учебных дней вычисляется заново при каждом обращении:
//
//	streak := CalculateStreak(log.Sessions, time.Now())
//
// Достижения разблокируются монотонно и идемпотентно:
//
//	checker := NewAchievementChecker()
//	for _, def := range checker.CheckNewUnlocks(log, time.Now()) {
//	    log.MarkUnlocked(def.ID)
//	}
package tracker
