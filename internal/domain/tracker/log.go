package tracker

import (
	"sort"
	"time"

	"github.com/study-hub/study-tracker-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDY LOG (Журнал учёбы - канонический агрегат аккаунта)
// ══════════════════════════════════════════════════════════════════════════════

// StudyLog - каноническое состояние аккаунта: журнал сессий, темы, цели
// и множество разблокированных достижений. Производные представления
// (серии, прогресс целей, аналитика) здесь не хранятся - они всегда
// вычисляются заново из журнала.
type StudyLog struct {
	// Sessions - сессии, самая свежая первой.
	Sessions []Session

	// Topics - темы изучения.
	Topics []Topic

	// Goals - цели по времени.
	Goals Goals

	// unlocked - множество идентификаторов разблокированных достижений.
	// Только растёт, никогда не сокращается.
	unlocked map[string]struct{}
}

// NewStudyLog создаёт пустой журнал с целями по умолчанию.
func NewStudyLog() *StudyLog {
	return &StudyLog{
		Goals:    DefaultGoals(),
		unlocked: make(map[string]struct{}),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// AddSession присваивает свежий идентификатор и добавляет сессию
// в начало журнала.
func (l *StudyLog) AddSession(in SessionInput) (Session, error) {
	session, err := NewSession(l.nextSessionID(), in)
	if err != nil {
		return Session{}, err
	}
	l.Sessions = append([]Session{session}, l.Sessions...)
	return session, nil
}

// DeleteSession удаляет сессию по идентификатору.
// Отсутствующий идентификатор не является ошибкой.
func (l *StudyLog) DeleteSession(id int64) bool {
	for i, s := range l.Sessions {
		if s.ID == id {
			l.Sessions = append(l.Sessions[:i], l.Sessions[i+1:]...)
			return true
		}
	}
	return false
}

// nextSessionID возвращает свежий уникальный идентификатор сессии.
func (l *StudyLog) nextSessionID() int64 {
	var max int64
	for _, s := range l.Sessions {
		if s.ID > max {
			max = s.ID
		}
	}
	return max + 1
}

// ══════════════════════════════════════════════════════════════════════════════
// TOPIC OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// AddTopic присваивает свежий идентификатор и добавляет тему.
func (l *StudyLog) AddTopic(in TopicInput) (Topic, error) {
	topic, err := NewTopic(l.nextTopicID(), in)
	if err != nil {
		return Topic{}, err
	}
	l.Topics = append(l.Topics, topic)
	return topic, nil
}

// UpdateTopic полностью заменяет тему, сохраняя идентификатор.
func (l *StudyLog) UpdateTopic(id int64, in TopicInput) (Topic, error) {
	idx := l.topicIndex(id)
	if idx < 0 {
		return Topic{}, shared.ErrTopicNotFound
	}
	topic, err := NewTopic(id, in)
	if err != nil {
		return Topic{}, err
	}
	l.Topics[idx] = topic
	return topic, nil
}

// SetTopicStatus переводит тему в новый статус.
func (l *StudyLog) SetTopicStatus(id int64, status TopicStatus) (Topic, error) {
	if !status.IsValid() {
		return Topic{}, shared.ErrInvalidTopicStatus
	}
	idx := l.topicIndex(id)
	if idx < 0 {
		return Topic{}, shared.ErrTopicNotFound
	}
	l.Topics[idx].Status = status
	return l.Topics[idx], nil
}

// DeleteTopic удаляет тему. Сессии темы НЕ удаляются: их TopicID
// становится "висячим" и отображается как "без темы".
func (l *StudyLog) DeleteTopic(id int64) error {
	idx := l.topicIndex(id)
	if idx < 0 {
		return shared.ErrTopicNotFound
	}
	l.Topics = append(l.Topics[:idx], l.Topics[idx+1:]...)
	return nil
}

// TopicByID возвращает тему по идентификатору.
func (l *StudyLog) TopicByID(id int64) (Topic, bool) {
	idx := l.topicIndex(id)
	if idx < 0 {
		return Topic{}, false
	}
	return l.Topics[idx], true
}

// HasTopic проверяет существование темы.
func (l *StudyLog) HasTopic(id int64) bool {
	return l.topicIndex(id) >= 0
}

func (l *StudyLog) topicIndex(id int64) int {
	for i, t := range l.Topics {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (l *StudyLog) nextTopicID() int64 {
	var max int64
	for _, t := range l.Topics {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}

// ══════════════════════════════════════════════════════════════════════════════
// GOALS AND ACHIEVEMENTS
// ══════════════════════════════════════════════════════════════════════════════

// SetGoals заменяет цели аккаунта.
func (l *StudyLog) SetGoals(goals Goals) error {
	if err := goals.Validate(); err != nil {
		return err
	}
	l.Goals = goals
	return nil
}

// MarkUnlocked добавляет достижение в множество разблокированных.
// Повторная разблокировка - no-op.
func (l *StudyLog) MarkUnlocked(id string) {
	if l.unlocked == nil {
		l.unlocked = make(map[string]struct{})
	}
	l.unlocked[id] = struct{}{}
}

// IsUnlocked проверяет, разблокировано ли достижение.
func (l *StudyLog) IsUnlocked(id string) bool {
	_, ok := l.unlocked[id]
	return ok
}

// UnlockedIDs возвращает отсортированный список разблокированных
// достижений.
func (l *StudyLog) UnlockedIDs() []string {
	ids := make([]string, 0, len(l.unlocked))
	for id := range l.unlocked {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SetUnlocked заменяет множество разблокированных достижений.
// Используется только при загрузке снапшота.
func (l *StudyLog) SetUnlocked(ids []string) {
	l.unlocked = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		l.unlocked[id] = struct{}{}
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SNAPSHOT CONVERSION
// ══════════════════════════════════════════════════════════════════════════════

// Snapshot - персистентный документ аккаунта. Каждая запись во внешнее
// хранилище заменяет документ целиком.
// Goals хранятся указателем: документы, записанные до появления
// целей, не содержат поля goals, и его отсутствие отличимо от явно
// выставленных нулевых целей.
type Snapshot struct {
	Sessions     []Session `json:"sessions"`
	Topics       []Topic   `json:"topics"`
	Goals        *Goals    `json:"goals,omitempty"`
	Achievements []string  `json:"achievements"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// Snapshot собирает персистентный документ из текущего состояния.
func (l *StudyLog) Snapshot(now time.Time) Snapshot {
	sessions := make([]Session, len(l.Sessions))
	copy(sessions, l.Sessions)
	topics := make([]Topic, len(l.Topics))
	copy(topics, l.Topics)
	goals := l.Goals
	return Snapshot{
		Sessions:     sessions,
		Topics:       topics,
		Goals:        &goals,
		Achievements: l.UnlockedIDs(),
		LastUpdated:  now.UTC(),
	}
}

// FromSnapshot восстанавливает журнал из персистентного документа.
// Отсутствующие или некорректные цели заменяются целями по умолчанию;
// явно выставленные нулевые цели сохраняются.
func FromSnapshot(snap Snapshot) *StudyLog {
	log := NewStudyLog()
	log.Sessions = append(log.Sessions, snap.Sessions...)
	log.Topics = append(log.Topics, snap.Topics...)
	if snap.Goals != nil && snap.Goals.Validate() == nil {
		log.Goals = *snap.Goals
	}
	log.SetUnlocked(snap.Achievements)
	return log
}
