package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aoigj100a/todo-fullstack-sub000/internal/models"
	"github.com/aoigj100a/todo-fullstack-sub000/internal/repository"
)

// TaskServiceTestSuite runs the CRUD semantics against an in-memory store.
type TaskServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *TaskService
}

func (suite *TaskServiceTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.Task{})
	suite.Require().NoError(err)

	suite.service = NewTaskService(repository.NewTaskRepository(suite.db))
}

func (suite *TaskServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskServiceTestSuite) TestCreateTaskDefaults() {
	task, err := suite.service.CreateTask(CreateTaskInput{Title: "Buy milk"})

	suite.NoError(err)
	suite.Equal("Buy milk", task.Title)
	suite.Equal(models.TaskStatusPending, task.Status)
	suite.Len(task.ID, 24)
	suite.Nil(task.CompletedAt)
	suite.False(task.CreatedAt.IsZero())
}

func (suite *TaskServiceTestSuite) TestCreateTaskEmptyTitleRejected() {
	_, err := suite.service.CreateTask(CreateTaskInput{Title: "   "})
	suite.ErrorIs(err, ErrTitleRequired)

	// no entity persisted
	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	suite.Equal(int64(0), count)
}

func (suite *TaskServiceTestSuite) TestCreateTaskTitleTooLong() {
	_, err := suite.service.CreateTask(CreateTaskInput{Title: strings.Repeat("x", 201)})
	suite.ErrorIs(err, ErrTitleTooLong)
}

func (suite *TaskServiceTestSuite) TestCreateTaskInvalidStatus() {
	_, err := suite.service.CreateTask(CreateTaskInput{Title: "A", Status: "done"})
	suite.ErrorIs(err, ErrInvalidStatus)
}

func (suite *TaskServiceTestSuite) TestCreateTaskStripsHTML() {
	task, err := suite.service.CreateTask(CreateTaskInput{
		Title:       "<b>Bold</b> move",
		Description: "<script>alert(1)</script>safe",
	})

	suite.NoError(err)
	suite.Equal("Bold move", task.Title)
	suite.Equal("alert(1)safe", task.Description)
}

func (suite *TaskServiceTestSuite) TestCreateCompletedTaskStampsCompletion() {
	task, err := suite.service.CreateTask(CreateTaskInput{Title: "A", Status: models.TaskStatusCompleted})

	suite.NoError(err)
	suite.Equal(models.TaskStatusCompleted, task.Status)
	suite.NotNil(task.CompletedAt)
}

func (suite *TaskServiceTestSuite) TestStatusRoundTrip() {
	task, err := suite.service.CreateTask(CreateTaskInput{Title: "A"})
	suite.Require().NoError(err)

	completed := models.TaskStatusCompleted
	updated, err := suite.service.UpdateTask(task.ID, UpdateTaskInput{Status: &completed})
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusCompleted, updated.Status)
	suite.Require().NotNil(updated.CompletedAt)

	// the list shows the completed task with its timestamp
	tasks, err := suite.service.ListTasks(ListTasksInput{})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	suite.Equal(models.TaskStatusCompleted, tasks[0].Status)
	suite.NotNil(tasks[0].CompletedAt)

	// moving away from completed clears the timestamp
	pending := models.TaskStatusPending
	reverted, err := suite.service.UpdateTask(task.ID, UpdateTaskInput{Status: &pending})
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusPending, reverted.Status)
	suite.Nil(reverted.CompletedAt)
}

func (suite *TaskServiceTestSuite) TestStatusTimestampInvariant() {
	task, err := suite.service.CreateTask(CreateTaskInput{Title: "A"})
	suite.Require().NoError(err)

	statuses := []models.TaskStatus{
		models.TaskStatusCompleted,
		models.TaskStatusInProgress,
		models.TaskStatusCompleted,
		models.TaskStatusPending,
	}
	for _, status := range statuses {
		s := status
		updated, err := suite.service.UpdateTask(task.ID, UpdateTaskInput{Status: &s})
		suite.Require().NoError(err)
		suite.Equal(status == models.TaskStatusCompleted, updated.CompletedAt != nil,
			"completedAt must be non-nil iff status is completed")
	}
}

func (suite *TaskServiceTestSuite) TestUpdateTaskPartialFields() {
	task, err := suite.service.CreateTask(CreateTaskInput{Title: "Old", Description: "Keep me"})
	suite.Require().NoError(err)

	title := "New"
	updated, err := suite.service.UpdateTask(task.ID, UpdateTaskInput{Title: &title})

	suite.NoError(err)
	suite.Equal("New", updated.Title)
	suite.Equal("Keep me", updated.Description)
	suite.Equal(models.TaskStatusPending, updated.Status)
}

func (suite *TaskServiceTestSuite) TestUpdateTaskEmptyTitleRejected() {
	task, err := suite.service.CreateTask(CreateTaskInput{Title: "A"})
	suite.Require().NoError(err)

	empty := "  "
	_, err = suite.service.UpdateTask(task.ID, UpdateTaskInput{Title: &empty})
	suite.ErrorIs(err, ErrTitleRequired)
}

func (suite *TaskServiceTestSuite) TestUpdateTaskNoFields() {
	task, err := suite.service.CreateTask(CreateTaskInput{Title: "A"})
	suite.Require().NoError(err)

	_, err = suite.service.UpdateTask(task.ID, UpdateTaskInput{})
	suite.ErrorIs(err, ErrNoFields)
}

func (suite *TaskServiceTestSuite) TestUpdateTaskUnknownID() {
	title := "x"
	_, err := suite.service.UpdateTask("000000000000000000000000", UpdateTaskInput{Title: &title})
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestUpdateTaskMalformedID() {
	title := "x"
	_, err := suite.service.UpdateTask("not-a-valid-id", UpdateTaskInput{Title: &title})
	suite.ErrorIs(err, ErrInvalidTaskID)
}

func (suite *TaskServiceTestSuite) TestDeleteTaskReturnsSnapshot() {
	task, err := suite.service.CreateTask(CreateTaskInput{Title: "Doomed", Description: "gone soon"})
	suite.Require().NoError(err)

	snapshot, err := suite.service.DeleteTask(task.ID)

	suite.NoError(err)
	suite.Equal(task.ID, snapshot.ID)
	suite.Equal("Doomed", snapshot.Title)

	_, err = suite.service.GetTask(task.ID)
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestDeleteTaskUnknownID() {
	_, err := suite.service.DeleteTask("000000000000000000000000")
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestListTasksOrderAndIdempotence() {
	first, err := suite.service.CreateTask(CreateTaskInput{Title: "first"})
	suite.Require().NoError(err)
	// force distinct creation instants on sqlite's timestamp resolution
	suite.db.Model(first).Update("created_at", time.Now().Add(-time.Hour))

	second, err := suite.service.CreateTask(CreateTaskInput{Title: "second"})
	suite.Require().NoError(err)

	tasks, err := suite.service.ListTasks(ListTasksInput{})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 2)
	suite.Equal(second.ID, tasks[0].ID, "most recent first")
	suite.Equal(first.ID, tasks[1].ID)

	again, err := suite.service.ListTasks(ListTasksInput{})
	suite.Require().NoError(err)
	suite.Equal(tasks, again, "reads are idempotent with no intervening writes")
}

func (suite *TaskServiceTestSuite) TestListTasksStatusFilter() {
	_, err := suite.service.CreateTask(CreateTaskInput{Title: "open"})
	suite.Require().NoError(err)
	_, err = suite.service.CreateTask(CreateTaskInput{Title: "closed", Status: models.TaskStatusCompleted})
	suite.Require().NoError(err)

	completed := models.TaskStatusCompleted
	tasks, err := suite.service.ListTasks(ListTasksInput{Status: &completed})
	suite.Require().NoError(err)
	suite.Len(tasks, 1)
	suite.Equal("closed", tasks[0].Title)

	bogus := models.TaskStatus("bogus")
	_, err = suite.service.ListTasks(ListTasksInput{Status: &bogus})
	suite.ErrorIs(err, ErrInvalidStatus)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
