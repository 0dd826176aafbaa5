package tracker

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/study-hub/study-tracker-hub/internal/domain/shared"
)

func TestAddSessionAssignsIDAndPrepends(t *testing.T) {
	today := shared.NewDay(2026, 1, 15)
	log := NewStudyLog()

	first, err := log.AddSession(SessionInput{Date: today, DurationMinutes: 30})
	assert.NoError(t, err)
	second, err := log.AddSession(SessionInput{Date: today, DurationMinutes: 45})
	assert.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	// Newest session sits at the head of the journal.
	assert.Equal(t, second.ID, log.Sessions[0].ID)
	assert.Equal(t, first.ID, log.Sessions[1].ID)
}

func TestAddSessionIDNeverReused(t *testing.T) {
	today := shared.NewDay(2026, 1, 15)
	log := NewStudyLog()

	for i := 0; i < 3; i++ {
		_, err := log.AddSession(SessionInput{Date: today, DurationMinutes: 10})
		assert.NoError(t, err)
	}
	assert.True(t, log.DeleteSession(3))

	session, err := log.AddSession(SessionInput{Date: today, DurationMinutes: 10})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), session.ID)

	// Deleting the head keeps lower ids alive, so max+1 still moves on.
	assert.True(t, log.DeleteSession(1))
	session, err = log.AddSession(SessionInput{Date: today, DurationMinutes: 10})
	assert.NoError(t, err)
	assert.Equal(t, int64(4), session.ID)
}

func TestAddSessionValidation(t *testing.T) {
	log := NewStudyLog()

	_, err := log.AddSession(SessionInput{DurationMinutes: 30})
	assert.ErrorIs(t, err, shared.ErrInvalidSessionDate)

	_, err = log.AddSession(SessionInput{Date: shared.NewDay(2026, 1, 15), DurationMinutes: -5})
	assert.ErrorIs(t, err, shared.ErrNegativeDuration)

	assert.Empty(t, log.Sessions)
}

func TestAddSessionNegativeTopicBecomesNoTopic(t *testing.T) {
	log := NewStudyLog()

	session, err := log.AddSession(SessionInput{Date: shared.NewDay(2026, 1, 15), TopicID: -7, DurationMinutes: 30})

	assert.NoError(t, err)
	assert.Equal(t, NoTopic, session.TopicID)
}

func TestDeleteSessionAbsentID(t *testing.T) {
	log := NewStudyLog()

	assert.False(t, log.DeleteSession(42))
}

func TestTopicLifecycle(t *testing.T) {
	log := NewStudyLog()

	topic, err := log.AddTopic(TopicInput{Name: "  Geometria  ", Category: "Matemática"})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), topic.ID)
	assert.Equal(t, "Geometria", topic.Name)
	assert.Equal(t, StatusTodo, topic.Status)

	updated, err := log.UpdateTopic(topic.ID, TopicInput{Name: "Geometria Analítica", Status: StatusInProgress})
	assert.NoError(t, err)
	assert.Equal(t, topic.ID, updated.ID)
	assert.Equal(t, StatusInProgress, updated.Status)

	completed, err := log.SetTopicStatus(topic.ID, StatusCompleted)
	assert.NoError(t, err)
	assert.Equal(t, StatusCompleted, completed.Status)

	assert.NoError(t, log.DeleteTopic(topic.ID))
	assert.False(t, log.HasTopic(topic.ID))
}

func TestTopicOperationsOnMissingID(t *testing.T) {
	log := NewStudyLog()

	_, err := log.UpdateTopic(9, TopicInput{Name: "X"})
	assert.ErrorIs(t, err, shared.ErrTopicNotFound)

	_, err = log.SetTopicStatus(9, StatusCompleted)
	assert.ErrorIs(t, err, shared.ErrTopicNotFound)

	assert.ErrorIs(t, log.DeleteTopic(9), shared.ErrTopicNotFound)
}

func TestSetTopicStatusRejectsUnknownStatus(t *testing.T) {
	log := NewStudyLog()
	topic, err := log.AddTopic(TopicInput{Name: "Física"})
	assert.NoError(t, err)

	_, err = log.SetTopicStatus(topic.ID, TopicStatus("archived"))
	assert.ErrorIs(t, err, shared.ErrInvalidTopicStatus)
}

func TestDeleteTopicKeepsSessions(t *testing.T) {
	today := shared.NewDay(2026, 1, 15)
	log := NewStudyLog()
	topic, err := log.AddTopic(TopicInput{Name: "Química"})
	assert.NoError(t, err)
	session, err := log.AddSession(SessionInput{Date: today, TopicID: topic.ID, DurationMinutes: 30})
	assert.NoError(t, err)

	assert.NoError(t, log.DeleteTopic(topic.ID))

	// The session survives with its reference now dangling.
	assert.Len(t, log.Sessions, 1)
	assert.Equal(t, topic.ID, session.TopicID)
	_, found := log.TopicByID(session.TopicID)
	assert.False(t, found)
}

func TestSetGoalsValidates(t *testing.T) {
	log := NewStudyLog()

	assert.NoError(t, log.SetGoals(Goals{DailyMinutes: 60, WeeklyMinutes: 300}))
	assert.Equal(t, 60, log.Goals.DailyMinutes)

	assert.Error(t, log.SetGoals(Goals{DailyMinutes: -1}))
	assert.Equal(t, 60, log.Goals.DailyMinutes)
}

func TestUnlockedSetIsMonotonic(t *testing.T) {
	log := NewStudyLog()

	log.MarkUnlocked("first-session")
	log.MarkUnlocked("streak-3")
	log.MarkUnlocked("first-session")

	assert.True(t, log.IsUnlocked("first-session"))
	assert.False(t, log.IsUnlocked("streak-7"))
	assert.Equal(t, []string{"first-session", "streak-3"}, log.UnlockedIDs())
}

func TestSnapshotRoundTrip(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	today := shared.DayOf(now)

	log := NewStudyLog()
	topic, err := log.AddTopic(TopicInput{Name: "Inglês", Status: StatusInProgress})
	assert.NoError(t, err)
	_, err = log.AddSession(SessionInput{Date: today, TopicID: topic.ID, DurationMinutes: 45, Notes: "reading"})
	assert.NoError(t, err)
	assert.NoError(t, log.SetGoals(Goals{DailyMinutes: 90, WeeklyMinutes: 400}))
	log.MarkUnlocked("first-session")

	snap := log.Snapshot(now)
	assert.Equal(t, now, snap.LastUpdated)

	restored := FromSnapshot(snap)

	assert.Equal(t, log.Sessions, restored.Sessions)
	assert.Equal(t, log.Topics, restored.Topics)
	assert.Equal(t, log.Goals, restored.Goals)
	assert.True(t, restored.IsUnlocked("first-session"))
}

func TestSnapshotSurvivesJSON(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	log := NewStudyLog()
	_, err := log.AddSession(SessionInput{Date: shared.DayOf(now), DurationMinutes: 25})
	assert.NoError(t, err)
	log.MarkUnlocked("first-session")

	data, err := json.Marshal(log.Snapshot(now))
	assert.NoError(t, err)

	var decoded Snapshot
	assert.NoError(t, json.Unmarshal(data, &decoded))

	restored := FromSnapshot(decoded)
	assert.Equal(t, log.Sessions, restored.Sessions)
	assert.Equal(t, []string{"first-session"}, restored.UnlockedIDs())
}

func TestFromSnapshotInvalidGoalsFallBackToDefaults(t *testing.T) {
	restored := FromSnapshot(Snapshot{Goals: &Goals{DailyMinutes: -10}})

	assert.Equal(t, DefaultGoals(), restored.Goals)
}

func TestFromSnapshotAbsentGoalsFallBackToDefaults(t *testing.T) {
	// Documents written before goals existed carry no goals field.
	restored := FromSnapshot(Snapshot{})

	assert.Equal(t, DefaultGoals(), restored.Goals)
}

func TestFromSnapshotExplicitZeroGoalsKept(t *testing.T) {
	restored := FromSnapshot(Snapshot{Goals: &Goals{}})

	assert.Equal(t, Goals{}, restored.Goals)
}

func TestZeroGoalsSurviveSnapshotJSON(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	log := NewStudyLog()
	assert.NoError(t, log.SetGoals(Goals{}))

	data, err := json.Marshal(log.Snapshot(now))
	assert.NoError(t, err)

	var decoded Snapshot
	assert.NoError(t, json.Unmarshal(data, &decoded))

	restored := FromSnapshot(decoded)
	assert.Equal(t, Goals{}, restored.Goals)
}

func TestSnapshotCopiesSlices(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	log := NewStudyLog()
	_, err := log.AddSession(SessionInput{Date: shared.DayOf(now), DurationMinutes: 25})
	assert.NoError(t, err)

	snap := log.Snapshot(now)
	snap.Sessions[0].DurationMinutes = 999

	assert.Equal(t, 25, log.Sessions[0].DurationMinutes)
}
