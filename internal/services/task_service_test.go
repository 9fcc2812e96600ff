package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hmuro/productivity-tracker/internal/authz"
	"github.com/hmuro/productivity-tracker/internal/models"
	"github.com/hmuro/productivity-tracker/internal/repository"
)

// TaskServiceTestSuite exercises the task lifecycle manager against an
// in-memory database.
type TaskServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	service  *TaskService
	userRepo repository.UserRepository

	admin    *models.User
	employee *models.User
	other    *models.User
}

func (suite *TaskServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.User{}, &models.Task{}, &models.TaskComment{})
	suite.Require().NoError(err)

	taskRepo := repository.NewTaskRepository(suite.db)
	suite.userRepo = repository.NewUserRepository(suite.db)
	suite.service = NewTaskService(taskRepo, suite.userRepo)

	suite.admin = suite.createUser("Ada Boss", "ada@example.com", models.RoleAdmin)
	suite.employee = suite.createUser("Eli Worker", "eli@example.com", models.RoleEmployee)
	suite.other = suite.createUser("Omar Worker", "omar@example.com", models.RoleEmployee)
}

func (suite *TaskServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskServiceTestSuite) createUser(name, email string, role models.Role) *models.User {
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         role,
		IsActive:     true,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *TaskServiceTestSuite) adminPrincipal() authz.Principal {
	return authz.Principal{ID: suite.admin.ID, Role: models.RoleAdmin}
}

func (suite *TaskServiceTestSuite) employeePrincipal() authz.Principal {
	return authz.Principal{ID: suite.employee.ID, Role: models.RoleEmployee}
}

func (suite *TaskServiceTestSuite) otherPrincipal() authz.Principal {
	return authz.Principal{ID: suite.other.ID, Role: models.RoleEmployee}
}

func (suite *TaskServiceTestSuite) createTask(dueDate time.Time) *models.Task {
	task, err := suite.service.CreateTask(suite.adminPrincipal(), CreateTaskInput{
		Title:        "Quarterly report",
		Description:  "Prepare the quarterly report",
		AssignedToID: suite.employee.ID,
		DueDate:      dueDate,
	})
	suite.Require().NoError(err)
	return task
}

func (suite *TaskServiceTestSuite) reloadUser(id uint64) *models.User {
	user, err := suite.userRepo.FindByID(id)
	suite.Require().NoError(err)
	return user
}

func (suite *TaskServiceTestSuite) TestCreateTaskDefaults() {
	task := suite.createTask(time.Now().Add(5 * 24 * time.Hour))

	suite.Equal(models.TaskStatusPending, task.Status)
	suite.Equal(models.TaskPriorityMedium, task.Priority)
	suite.Equal(suite.employee.ID, task.AssignedToID)
	suite.Equal(suite.admin.ID, task.AssignedByID)
	suite.Nil(task.CompletedAt)
}

func (suite *TaskServiceTestSuite) TestCreateTaskValidation() {
	_, err := suite.service.CreateTask(suite.adminPrincipal(), CreateTaskInput{
		Description:  "no title",
		AssignedToID: suite.employee.ID,
		DueDate:      time.Now().Add(time.Hour),
	})
	var verr *ValidationError
	suite.ErrorAs(err, &verr)
	suite.Equal("title", verr.Field)

	_, err = suite.service.CreateTask(suite.adminPrincipal(), CreateTaskInput{
		Title:        "No due date",
		Description:  "missing due date",
		AssignedToID: suite.employee.ID,
	})
	suite.ErrorAs(err, &verr)
	suite.Equal("due_date", verr.Field)

	_, err = suite.service.CreateTask(suite.adminPrincipal(), CreateTaskInput{
		Title:        "Ghost assignee",
		Description:  "assignee does not exist",
		AssignedToID: 9999,
		DueDate:      time.Now().Add(time.Hour),
	})
	suite.ErrorAs(err, &verr)
	suite.Equal("assigned_to", verr.Field)
}

func (suite *TaskServiceTestSuite) TestCreateTaskRejectsInactiveAssignee() {
	suite.employee.IsActive = false
	suite.Require().NoError(suite.db.Save(suite.employee).Error)

	_, err := suite.service.CreateTask(suite.adminPrincipal(), CreateTaskInput{
		Title:        "For a disabled account",
		Description:  "should fail",
		AssignedToID: suite.employee.ID,
		DueDate:      time.Now().Add(time.Hour),
	})
	var verr *ValidationError
	suite.ErrorAs(err, &verr)
	suite.Equal("assigned_to", verr.Field)
}

func (suite *TaskServiceTestSuite) TestEmployeeCannotCreateTask() {
	_, err := suite.service.CreateTask(suite.employeePrincipal(), CreateTaskInput{
		Title:        "Self-assigned",
		Description:  "not allowed",
		AssignedToID: suite.employee.ID,
		DueDate:      time.Now().Add(time.Hour),
	})
	suite.ErrorIs(err, ErrPermissionDenied)
}

func (suite *TaskServiceTestSuite) TestCompleteTaskSetsTimestampAndCounter() {
	task := suite.createTask(time.Now().Add(5 * 24 * time.Hour))

	status := models.TaskStatusCompleted
	updated, err := suite.service.UpdateTask(suite.employeePrincipal(), task.ID, UpdateTaskInput{Status: &status})
	suite.Require().NoError(err)

	suite.Equal(models.TaskStatusCompleted, updated.Status)
	suite.Require().NotNil(updated.CompletedAt)
	suite.WithinDuration(time.Now(), *updated.CompletedAt, 5*time.Second)

	suite.Equal(uint64(1), suite.reloadUser(suite.employee.ID).TasksCompleted)
}

func (suite *TaskServiceTestSuite) TestRecompleteDoesNotDoubleIncrement() {
	task := suite.createTask(time.Now().Add(24 * time.Hour))

	status := models.TaskStatusCompleted
	_, err := suite.service.UpdateTask(suite.employeePrincipal(), task.ID, UpdateTaskInput{Status: &status})
	suite.Require().NoError(err)

	// Retrying the same complete request is a no-op, not an error.
	_, err = suite.service.UpdateTask(suite.employeePrincipal(), task.ID, UpdateTaskInput{Status: &status})
	suite.Require().NoError(err)

	suite.Equal(uint64(1), suite.reloadUser(suite.employee.ID).TasksCompleted)
}

func (suite *TaskServiceTestSuite) TestNoTransitionOutOfTerminalStates() {
	task := suite.createTask(time.Now().Add(24 * time.Hour))

	completed := models.TaskStatusCompleted
	_, err := suite.service.UpdateTask(suite.adminPrincipal(), task.ID, UpdateTaskInput{Status: &completed})
	suite.Require().NoError(err)

	pending := models.TaskStatusPending
	_, err = suite.service.UpdateTask(suite.adminPrincipal(), task.ID, UpdateTaskInput{Status: &pending})

	var terr *InvalidTransitionError
	suite.ErrorAs(err, &terr)
	suite.Equal(models.TaskStatusCompleted, terr.From)
	suite.Equal(models.TaskStatusPending, terr.To)

	// State is unchanged.
	fresh, err := suite.service.GetTask(suite.adminPrincipal(), task.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusCompleted, fresh.Status)
}

func (suite *TaskServiceTestSuite) TestCancelledTaskHasNoCompletedAt() {
	task := suite.createTask(time.Now().Add(24 * time.Hour))

	cancelled := models.TaskStatusCancelled
	updated, err := suite.service.UpdateTask(suite.adminPrincipal(), task.ID, UpdateTaskInput{Status: &cancelled})
	suite.Require().NoError(err)

	suite.Equal(models.TaskStatusCancelled, updated.Status)
	suite.Nil(updated.CompletedAt)
	suite.Equal(uint64(0), suite.reloadUser(suite.employee.ID).TasksCompleted)
}

func (suite *TaskServiceTestSuite) TestEmployeeCannotUpdateNonStatusFields() {
	task := suite.createTask(time.Now().Add(24 * time.Hour))

	title := "Renamed by the assignee"
	_, err := suite.service.UpdateTask(suite.employeePrincipal(), task.ID, UpdateTaskInput{Title: &title})
	suite.ErrorIs(err, ErrPermissionDenied)
}

func (suite *TaskServiceTestSuite) TestNonOwnerCannotUpdateStatus() {
	task := suite.createTask(time.Now().Add(24 * time.Hour))

	status := models.TaskStatusInProgress
	_, err := suite.service.UpdateTask(suite.otherPrincipal(), task.ID, UpdateTaskInput{Status: &status})
	suite.ErrorIs(err, ErrPermissionDenied)
}

func (suite *TaskServiceTestSuite) TestAdminPartialUpdate() {
	task := suite.createTask(time.Now().Add(24 * time.Hour))

	priority := models.TaskPriorityUrgent
	hours := 12.5
	updated, err := suite.service.UpdateTask(suite.adminPrincipal(), task.ID, UpdateTaskInput{
		Priority:       &priority,
		EstimatedHours: &hours,
		Tags:           []string{"reporting", "q3"},
	})
	suite.Require().NoError(err)

	suite.Equal(models.TaskPriorityUrgent, updated.Priority)
	suite.Equal(12.5, updated.EstimatedHours)
	suite.Equal([]string{"reporting", "q3"}, updated.Tags)
	// Untouched fields survive.
	suite.Equal("Quarterly report", updated.Title)
	suite.Equal(models.TaskStatusPending, updated.Status)
}

func (suite *TaskServiceTestSuite) TestMixedUpdateWithInvalidFieldMutatesNothing() {
	task := suite.createTask(time.Now().Add(24 * time.Hour))

	// A valid completion paired with a bad field must fail as a whole:
	// no status change, no completedAt, no counter increment.
	completed := models.TaskStatusCompleted
	bogus := models.TaskPriority("bogus")
	_, err := suite.service.UpdateTask(suite.adminPrincipal(), task.ID, UpdateTaskInput{
		Status:   &completed,
		Priority: &bogus,
	})

	var verr *ValidationError
	suite.ErrorAs(err, &verr)
	suite.Equal("priority", verr.Field)

	fresh, err := suite.service.GetTask(suite.adminPrincipal(), task.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusPending, fresh.Status)
	suite.Nil(fresh.CompletedAt)
	suite.Equal(uint64(0), suite.reloadUser(suite.employee.ID).TasksCompleted)
}

func (suite *TaskServiceTestSuite) TestGetTaskScoping() {
	task := suite.createTask(time.Now().Add(24 * time.Hour))

	// Owner and admin may read.
	_, err := suite.service.GetTask(suite.employeePrincipal(), task.ID)
	suite.NoError(err)
	_, err = suite.service.GetTask(suite.adminPrincipal(), task.ID)
	suite.NoError(err)

	// A non-owner employee gets a permission failure, never task data.
	_, err = suite.service.GetTask(suite.otherPrincipal(), task.ID)
	suite.ErrorIs(err, ErrPermissionDenied)

	// A missing task is missing for everyone.
	_, err = suite.service.GetTask(suite.adminPrincipal(), 404404)
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestListTasksScopesEmployees() {
	suite.createTask(time.Now().Add(24 * time.Hour))

	otherTask, err := suite.service.CreateTask(suite.adminPrincipal(), CreateTaskInput{
		Title:        "Someone else's work",
		Description:  "assigned to omar",
		AssignedToID: suite.other.ID,
		DueDate:      time.Now().Add(24 * time.Hour),
	})
	suite.Require().NoError(err)

	// The employee filter pointing at another user is overridden.
	tasks, total, err := suite.service.ListTasks(suite.employeePrincipal(), ListTasksInput{
		AssignedToID: &otherTask.AssignedToID,
	})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Require().Len(tasks, 1)
	suite.Equal(suite.employee.ID, tasks[0].AssignedToID)

	// Admins see everything.
	_, total, err = suite.service.ListTasks(suite.adminPrincipal(), ListTasksInput{})
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
}

func (suite *TaskServiceTestSuite) TestDeleteKeepsCompletionCounter() {
	task := suite.createTask(time.Now().Add(24 * time.Hour))

	status := models.TaskStatusCompleted
	_, err := suite.service.UpdateTask(suite.employeePrincipal(), task.ID, UpdateTaskInput{Status: &status})
	suite.Require().NoError(err)
	suite.Equal(uint64(1), suite.reloadUser(suite.employee.ID).TasksCompleted)

	// Deleting a completed task does not reverse the counter. The
	// counter is an audit trail, not a live aggregate.
	suite.Require().NoError(suite.service.DeleteTask(suite.adminPrincipal(), task.ID))

	_, err = suite.service.GetTask(suite.adminPrincipal(), task.ID)
	suite.ErrorIs(err, ErrTaskNotFound)
	suite.Equal(uint64(1), suite.reloadUser(suite.employee.ID).TasksCompleted)
}

func (suite *TaskServiceTestSuite) TestEmployeeCannotDelete() {
	task := suite.createTask(time.Now().Add(24 * time.Hour))
	err := suite.service.DeleteTask(suite.employeePrincipal(), task.ID)
	suite.ErrorIs(err, ErrPermissionDenied)
}

func (suite *TaskServiceTestSuite) TestAddCommentAppends() {
	task := suite.createTask(time.Now().Add(24 * time.Hour))

	updated, err := suite.service.AddComment(suite.employeePrincipal(), task.ID, "started on this")
	suite.Require().NoError(err)
	suite.Require().Len(updated.Comments, 1)
	suite.Equal(suite.employee.ID, updated.Comments[0].AuthorID)
	suite.Equal("started on this", updated.Comments[0].Text)

	updated, err = suite.service.AddComment(suite.adminPrincipal(), task.ID, "looks good")
	suite.Require().NoError(err)
	suite.Require().Len(updated.Comments, 2)

	// Earlier comments are untouched.
	suite.Equal("started on this", updated.Comments[0].Text)
	suite.Equal("looks good", updated.Comments[1].Text)
	suite.Equal(suite.admin.ID, updated.Comments[1].AuthorID)
}

func (suite *TaskServiceTestSuite) TestNonOwnerCannotComment() {
	task := suite.createTask(time.Now().Add(24 * time.Hour))

	_, err := suite.service.AddComment(suite.otherPrincipal(), task.ID, "drive-by comment")
	suite.ErrorIs(err, ErrPermissionDenied)
}

func (suite *TaskServiceTestSuite) TestCommentTextRequired() {
	task := suite.createTask(time.Now().Add(24 * time.Hour))

	_, err := suite.service.AddComment(suite.employeePrincipal(), task.ID, "   ")
	var verr *ValidationError
	suite.ErrorAs(err, &verr)
	suite.Equal("text", verr.Field)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
