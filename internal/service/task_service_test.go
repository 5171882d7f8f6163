package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// recordingNotifier captures published events for assertions.
type recordingNotifier struct {
	mu       sync.Mutex
	events   []string
	payloads []any
}

func (n *recordingNotifier) Publish(event string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	n.payloads = append(n.payloads, payload)
}

func (n *recordingNotifier) Events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := repository.NewDB(dsn)
	require.NoError(t, err)
	return db
}

func newTestTaskService(t *testing.T) (*TaskService, *recordingNotifier, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	notifier := &recordingNotifier{}
	svc := NewTaskService(repository.NewTaskRepository(db), notifier)
	return svc, notifier, db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := model.User{Email: email, FullName: "Test User", Password: "hash"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func validInput() TaskInput {
	return TaskInput{
		Title:       "Write report",
		Description: "Quarterly numbers",
		Priority:    2,
		DueDate:     time.Now().Add(24 * time.Hour),
	}
}

func TestCreateTask_StatusAlwaysOpen(t *testing.T) {
	svc, notifier, db := newTestTaskService(t)
	owner := createTestUser(t, db, "a@example.com")

	task, err := svc.Create(context.Background(), owner.ID, validInput())
	require.NoError(t, err)

	assert.Equal(t, model.StatusOpen, task.Status)
	assert.Equal(t, owner.ID, task.OwnerID)
	require.NotNil(t, task.Owner)
	assert.Empty(t, task.Owner.Password)
	assert.Equal(t, []string{EventTaskCreated}, notifier.Events())
}

func TestCreateTask_PastDueDate(t *testing.T) {
	svc, notifier, db := newTestTaskService(t)
	owner := createTestUser(t, db, "a@example.com")

	input := validInput()
	input.DueDate = time.Now().Add(-time.Hour)

	_, err := svc.Create(context.Background(), owner.ID, input)
	assert.ErrorIs(t, err, ErrDueDateInPast)

	tasks, err := svc.List(context.Background(), repository.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks, "nothing should be persisted on validation failure")
	assert.Empty(t, notifier.Events())
}

func TestCreateTask_FieldValidation(t *testing.T) {
	svc, _, db := newTestTaskService(t)
	owner := createTestUser(t, db, "a@example.com")

	tests := []struct {
		name   string
		mutate func(*TaskInput)
	}{
		{"empty title", func(in *TaskInput) { in.Title = "" }},
		{"empty description", func(in *TaskInput) { in.Description = "" }},
		{"zero priority", func(in *TaskInput) { in.Priority = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)
			_, err := svc.Create(context.Background(), owner.ID, input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUpdateTask_OtherOwnerLooksMissing(t *testing.T) {
	svc, _, db := newTestTaskService(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	task, err := svc.Create(context.Background(), alice.ID, validInput())
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), task.ID, bob.ID, TaskPatch{Title: "stolen"})
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = svc.UpdateStatus(context.Background(), task.ID, bob.ID, model.StatusDone)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = svc.Delete(context.Background(), task.ID, bob.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	// Alice still sees her task untouched.
	got, err := svc.Get(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write report", got.Title)
}

func TestUpdateTask_FalsyPatchFieldsIgnored(t *testing.T) {
	svc, _, db := newTestTaskService(t)
	owner := createTestUser(t, db, "a@example.com")

	task, err := svc.Create(context.Background(), owner.ID, validInput())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), task.ID, owner.ID, TaskPatch{Title: "", Priority: 0})
	require.NoError(t, err)
	assert.Equal(t, "Write report", updated.Title)
	assert.Equal(t, 2, updated.Priority)
}

func TestUpdateTask_PastDueDateAbortsWholePatch(t *testing.T) {
	svc, _, db := newTestTaskService(t)
	owner := createTestUser(t, db, "a@example.com")

	task, err := svc.Create(context.Background(), owner.ID, validInput())
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	_, err = svc.Update(context.Background(), task.ID, owner.ID, TaskPatch{Title: "new title", DueDate: &past})
	assert.ErrorIs(t, err, ErrDueDateInPast)

	got, err := svc.Get(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write report", got.Title, "no partial field updates on failure")
}

func TestUpdateTask_AppliesProvidedFields(t *testing.T) {
	svc, notifier, db := newTestTaskService(t)
	owner := createTestUser(t, db, "a@example.com")

	task, err := svc.Create(context.Background(), owner.ID, validInput())
	require.NoError(t, err)

	due := time.Now().Add(48 * time.Hour)
	updated, err := svc.Update(context.Background(), task.ID, owner.ID, TaskPatch{
		Title:    "Ship release",
		Priority: 5,
		DueDate:  &due,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ship release", updated.Title)
	assert.Equal(t, "Quarterly numbers", updated.Description)
	assert.Equal(t, 5, updated.Priority)
	assert.Equal(t, []string{EventTaskCreated, EventTaskUpdated}, notifier.Events())
}

func TestUpdateStatus_TransitionTable(t *testing.T) {
	statuses := []model.TaskStatus{model.StatusOpen, model.StatusInProgress, model.StatusDone}
	allowed := map[[2]model.TaskStatus]bool{
		{model.StatusOpen, model.StatusInProgress}: true,
		{model.StatusOpen, model.StatusDone}:       true,
		{model.StatusInProgress, model.StatusDone}: true,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			t.Run(fmt.Sprintf("%s_to_%s", from, to), func(t *testing.T) {
				svc, _, db := newTestTaskService(t)
				owner := createTestUser(t, db, "a@example.com")

				task, err := svc.Create(context.Background(), owner.ID, validInput())
				require.NoError(t, err)
				require.NoError(t, db.Model(&model.Task{}).Where("id = ?", task.ID).Update("status", from).Error)

				updated, err := svc.UpdateStatus(context.Background(), task.ID, owner.ID, to)
				if allowed[[2]model.TaskStatus{from, to}] {
					require.NoError(t, err)
					assert.Equal(t, to, updated.Status)
				} else {
					require.Error(t, err)
					switch {
					case from == to:
						assert.ErrorIs(t, err, ErrSameStatus)
					case from == model.StatusDone:
						assert.ErrorIs(t, err, ErrTaskCompleted)
					default:
						assert.ErrorIs(t, err, ErrTaskInProgress)
					}
				}
			})
		}
	}
}

func TestDeleteTask(t *testing.T) {
	svc, notifier, db := newTestTaskService(t)
	owner := createTestUser(t, db, "a@example.com")

	task, err := svc.Create(context.Background(), owner.ID, validInput())
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), task.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, deleted.ID)
	assert.Equal(t, []string{EventTaskCreated, EventTaskDeleted}, notifier.Events())

	// Deleting again: already gone.
	_, err = svc.Delete(context.Background(), task.ID, owner.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = svc.Get(context.Background(), task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestListTasks_OrderedByPriorityThenDueDate(t *testing.T) {
	svc, _, db := newTestTaskService(t)
	owner := createTestUser(t, db, "a@example.com")

	due := time.Now().Add(72 * time.Hour)
	for _, priority := range []int{1, 5, 3} {
		input := validInput()
		input.Priority = priority
		input.DueDate = due
		_, err := svc.Create(context.Background(), owner.ID, input)
		require.NoError(t, err)
	}

	tasks, err := svc.List(context.Background(), repository.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, []int{5, 3, 1}, []int{tasks[0].Priority, tasks[1].Priority, tasks[2].Priority})

	for _, task := range tasks {
		require.NotNil(t, task.Owner)
		assert.Empty(t, task.Owner.Password)
	}
}

func TestListTasks_EqualPriorityEarlierDueDateFirst(t *testing.T) {
	svc, _, db := newTestTaskService(t)
	owner := createTestUser(t, db, "a@example.com")

	today := time.Now().Add(2 * time.Hour)
	tomorrow := time.Now().Add(26 * time.Hour)
	for _, due := range []time.Time{tomorrow, today} {
		input := validInput()
		input.DueDate = due
		_, err := svc.Create(context.Background(), owner.ID, input)
		require.NoError(t, err)
	}

	tasks, err := svc.List(context.Background(), repository.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.WithinDuration(t, today, tasks[0].DueDate, time.Second)
	assert.WithinDuration(t, tomorrow, tasks[1].DueDate, time.Second)
}

func TestListTasks_Filters(t *testing.T) {
	svc, _, db := newTestTaskService(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	aliceTask, err := svc.Create(context.Background(), alice.ID, validInput())
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), bob.ID, validInput())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), aliceTask.ID, alice.ID, model.StatusInProgress)
	require.NoError(t, err)

	byOwner, err := svc.List(context.Background(), repository.TaskFilter{OwnerID: alice.ID})
	require.NoError(t, err)
	require.Len(t, byOwner, 1)
	assert.Equal(t, aliceTask.ID, byOwner[0].ID)

	byStatus, err := svc.List(context.Background(), repository.TaskFilter{Status: model.StatusInProgress})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, aliceTask.ID, byStatus[0].ID)

	future := time.Now().Add(100 * time.Hour)
	none, err := svc.List(context.Background(), repository.TaskFilter{DueFrom: &future})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEveryMutationPublishesExactlyOnce(t *testing.T) {
	svc, notifier, db := newTestTaskService(t)
	owner := createTestUser(t, db, "a@example.com")

	task, err := svc.Create(context.Background(), owner.ID, validInput())
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), task.ID, owner.ID, TaskPatch{Title: "renamed"})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), task.ID, owner.ID, model.StatusDone)
	require.NoError(t, err)

	_, err = svc.Delete(context.Background(), task.ID, owner.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{EventTaskCreated, EventTaskUpdated, EventTaskUpdated, EventTaskDeleted}, notifier.Events())

	// Reads publish nothing.
	_, err = svc.List(context.Background(), repository.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, notifier.Events(), 4)
}
