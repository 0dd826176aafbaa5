package tracker

import (
	"strings"

	"github.com/study-hub/study-tracker-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// TOPIC STATUS
// ══════════════════════════════════════════════════════════════════════════════

// TopicStatus представляет статус темы изучения.
type TopicStatus string

const (
	// StatusTodo - тема запланирована, изучение не начато.
	StatusTodo TopicStatus = "todo"
	// StatusInProgress - тема в процессе изучения.
	StatusInProgress TopicStatus = "inProgress"
	// StatusCompleted - тема завершена.
	StatusCompleted TopicStatus = "completed"
)

// IsValid проверяет корректность статуса.
func (s TopicStatus) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление статуса.
func (s TopicStatus) String() string {
	return string(s)
}

// Marker возвращает маркер статуса для текстовых отчётов.
func (s TopicStatus) Marker() string {
	switch s {
	case StatusCompleted:
		return "[x]"
	case StatusInProgress:
		return "[~]"
	default:
		return "[ ]"
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION (Учебная сессия)
// ══════════════════════════════════════════════════════════════════════════════

// NoTopic - значение TopicID для сессии без привязки к теме.
const NoTopic int64 = 0

// Session представляет одну записанную учебную сессию.
// Сессии неизменяемы: их можно только создать или удалить.
type Session struct {
	// ID - уникальный идентификатор сессии.
	ID int64 `json:"id"`

	// Date - календарный день сессии (без времени).
	Date shared.Day `json:"date"`

	// TopicID - ссылка на тему. Может быть "висячей" после удаления
	// темы; ноль означает отсутствие темы.
	TopicID int64 `json:"topicId"`

	// DurationMinutes - длительность в минутах.
	DurationMinutes int `json:"durationMinutes"`

	// Exercises - количество решённых упражнений.
	Exercises int `json:"exercises"`

	// Pages - количество прочитанных страниц.
	Pages int `json:"pages"`

	// Notes - заметки пользователя.
	Notes string `json:"notes"`
}

// SessionInput - данные для создания сессии (без идентификатора).
type SessionInput struct {
	Date            shared.Day
	TopicID         int64
	DurationMinutes int
	Exercises       int
	Pages           int
	Notes           string
}

// Validate проверяет корректность данных сессии.
func (in SessionInput) Validate() error {
	if in.Date.IsZero() {
		return shared.ErrInvalidSessionDate
	}
	if in.DurationMinutes < 0 {
		return shared.ErrNegativeDuration
	}
	if in.Exercises < 0 {
		return shared.ErrNegativeExercises
	}
	if in.Pages < 0 {
		return shared.ErrNegativePages
	}
	return nil
}

// NewSession создаёт сессию с присвоенным идентификатором.
func NewSession(id int64, in SessionInput) (Session, error) {
	if err := in.Validate(); err != nil {
		return Session{}, err
	}
	topicID := in.TopicID
	if topicID < 0 {
		topicID = NoTopic
	}
	return Session{
		ID:              id,
		Date:            in.Date,
		TopicID:         topicID,
		DurationMinutes: in.DurationMinutes,
		Exercises:       in.Exercises,
		Pages:           in.Pages,
		Notes:           strings.TrimSpace(in.Notes),
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// TOPIC (Тема изучения)
// ══════════════════════════════════════════════════════════════════════════════

// Topic представляет тему, по которой пользователь учится.
type Topic struct {
	// ID - уникальный идентификатор темы.
	ID int64 `json:"id"`

	// Name - название темы.
	Name string `json:"name"`

	// Category - категория (например, "Matemática").
	Category string `json:"category"`

	// Status - статус жизненного цикла темы.
	Status TopicStatus `json:"status"`

	// Color - токен цвета для отображения.
	Color string `json:"color"`
}

// TopicInput - данные для создания или полной замены темы.
type TopicInput struct {
	Name     string
	Category string
	Status   TopicStatus
	Color    string
}

// Validate проверяет корректность данных темы.
func (in TopicInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return shared.ErrEmptyTopicName
	}
	if in.Status != "" && !in.Status.IsValid() {
		return shared.ErrInvalidTopicStatus
	}
	return nil
}

// NewTopic создаёт тему с присвоенным идентификатором.
// Пустой статус трактуется как StatusTodo.
func NewTopic(id int64, in TopicInput) (Topic, error) {
	if err := in.Validate(); err != nil {
		return Topic{}, err
	}
	status := in.Status
	if status == "" {
		status = StatusTodo
	}
	return Topic{
		ID:       id,
		Name:     strings.TrimSpace(in.Name),
		Category: strings.TrimSpace(in.Category),
		Status:   status,
		Color:    in.Color,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GOALS (Цели по времени)
// ══════════════════════════════════════════════════════════════════════════════

// Значения целей по умолчанию.
const (
	DefaultDailyGoalMinutes  = 120
	DefaultWeeklyGoalMinutes = 600
)

// Goals представляет целевые бюджеты учебного времени.
// Синглтон на аккаунт.
type Goals struct {
	// DailyMinutes - целевое время в день, минуты.
	DailyMinutes int `json:"dailyMinutes"`

	// WeeklyMinutes - целевое время в неделю, минуты.
	WeeklyMinutes int `json:"weeklyMinutes"`
}

// DefaultGoals возвращает цели по умолчанию.
func DefaultGoals() Goals {
	return Goals{
		DailyMinutes:  DefaultDailyGoalMinutes,
		WeeklyMinutes: DefaultWeeklyGoalMinutes,
	}
}

// Validate проверяет корректность целей.
func (g Goals) Validate() error {
	if g.DailyMinutes < 0 || g.WeeklyMinutes < 0 {
		return shared.ErrNegativeGoal
	}
	return nil
}
