package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-course-patterns/internal/models"
)

func newNotificationRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestNotificationRepositorySave(t *testing.T) {
	db, mock, cleanup := newNotificationRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	event := models.ScheduleEvent{
		ID:          "evt-1",
		Kind:        models.ScheduleEventCourseAdded,
		Course:      models.NewCourseBuilder().Subject("Math").Build(),
		Description: "Course: Math",
		OccurredAt:  time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO schedule_notifications").
		WithArgs("evt-1", "COURSE_ADDED", "Course: Math", nil, nil, 1.0, "audit", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Save(context.Background(), models.NewNotification(event, "audit")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryCreateError(t *testing.T) {
	db, mock, cleanup := newNotificationRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectExec("INSERT INTO schedule_notifications").WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), &models.Notification{Kind: models.ScheduleEventChanged, Recipient: "audit"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create schedule notification")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryListRecent(t *testing.T) {
	db, mock, cleanup := newNotificationRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "kind", "description", "note", "message", "hours", "recipient", "occurred_at", "created_at"}).
		AddRow("evt-2", "SCHEDULE_CHANGED", nil, nil, "C15 becomes C16", nil, "audit", now, now).
		AddRow("evt-1", "COURSE_MODIFIED", "Course: Math", "moved", nil, 1.5, "audit", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM schedule_notifications ORDER BY occurred_at DESC LIMIT 20")).
		WillReturnRows(rows)

	list, err := repo.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, models.ScheduleEventChanged, list[0].Kind)
	require.NotNil(t, list[0].Message)
	assert.Equal(t, "C15 becomes C16", *list[0].Message)
	assert.Nil(t, list[0].Hours)
	require.NotNil(t, list[1].Hours)
	assert.Equal(t, 1.5, *list[1].Hours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryListByEvent(t *testing.T) {
	db, mock, cleanup := newNotificationRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "kind", "description", "note", "message", "hours", "recipient", "occurred_at", "created_at"}).
		AddRow("evt-1", "COURSE_ADDED", "Course: Math", nil, nil, 1.0, "audit", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM schedule_notifications WHERE id = $1")).
		WithArgs("evt-1").
		WillReturnRows(rows)

	list, err := repo.ListByEvent(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "audit", list[0].Recipient)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryEnsureSchema(t *testing.T) {
	db, mock, cleanup := newNotificationRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schedule_notifications")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
