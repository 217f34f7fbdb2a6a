package services

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
	"github.com/taskboardhq/taskboard-api/internal/broadcast"
	"github.com/taskboardhq/taskboard-api/internal/constants"
	"github.com/taskboardhq/taskboard-api/internal/database"
	"github.com/taskboardhq/taskboard-api/internal/dedup"
	"github.com/taskboardhq/taskboard-api/internal/events"
	"github.com/taskboardhq/taskboard-api/internal/models"
	"github.com/taskboardhq/taskboard-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// WorkflowServiceTestSuite defines the test suite for the delete workflow
type WorkflowServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	store    repository.Store
	bus      *events.Bus
	cache    *dedup.Cache
	hub      *broadcast.Hub
	workflow *WorkflowService
	notifier *Notifier
}

// SetupTest runs before each test
func (suite *WorkflowServiceTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = database.Migrate(suite.db)
	suite.Require().NoError(err)

	suite.store = repository.Store{
		Projects:      repository.NewProjectRepository(suite.db),
		Notifications: repository.NewNotificationRepository(suite.db),
		Users:         repository.NewUserRepository(suite.db),
	}

	suite.bus = events.NewBus(constants.EventQueueSize)
	suite.cache = dedup.New(constants.DedupeWindow)
	suite.hub = broadcast.NewHub()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	suite.workflow = NewWorkflowService(suite.store.Projects, suite.bus)
	suite.notifier = NewNotifier(suite.store, suite.bus, suite.cache, suite.hub, logger)
}

// TearDownTest runs after each test
func (suite *WorkflowServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper to create a project with embedded tasks
func (suite *WorkflowServiceTestSuite) createProject(id, leaderID string, members []string, tasks ...models.Task) *models.Project {
	project := &models.Project{
		ID:       id,
		Name:     "Test Project",
		LeaderID: leaderID,
		Members:  members,
		Status:   models.ProjectStatusActive,
		Tasks:    tasks,
	}
	suite.Require().NoError(suite.store.Projects.Create(project))
	return project
}

func testTask(id, title string, assignedTo string) models.Task {
	task := models.Task{
		ID:        id,
		Title:     title,
		Status:    models.TaskStatusTodo,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if assignedTo != "" {
		task.AssignedTo = &assignedTo
	}
	return task
}

// drainEvents feeds everything queued on the bus through the notifier
func (suite *WorkflowServiceTestSuite) drainEvents() {
	for {
		select {
		case ev := <-suite.bus.Events():
			suite.notifier.Dispatch(ev)
		default:
			return
		}
	}
}

func (suite *WorkflowServiceTestSuite) allNotifications() []models.Notification {
	notifications, err := suite.store.Notifications.List()
	suite.Require().NoError(err)
	return notifications
}

func (suite *WorkflowServiceTestSuite) TestRequestDeleteAttachesRequestAndSnapshot() {
	suite.createProject("p1", "1", []string{"1", "2", "3"}, testTask("5", "Ship it", "2"))

	result, err := suite.workflow.RequestDelete("p1", "5", "2")
	suite.Require().NoError(err)
	suite.Require().NotNil(result.TaskSnapshot)
	suite.Equal("Ship it", result.TaskSnapshot.Title)
	suite.Nil(result.TaskSnapshot.DeleteRequest)

	stored, err := suite.store.Projects.FindByID("p1")
	suite.Require().NoError(err)
	task := stored.FindTask("5")
	suite.Require().NotNil(task)
	suite.Require().NotNil(task.DeleteRequest)
	suite.Equal("2", task.DeleteRequest.UserID)
	suite.Require().NotNil(task.DeleteRequest.Snapshot)
	suite.Equal("Ship it", task.DeleteRequest.Snapshot.Title)
}

func (suite *WorkflowServiceTestSuite) TestRequestDeleteOverwritesPriorRequest() {
	suite.createProject("p1", "1", []string{"1", "2", "3"}, testTask("5", "Ship it", "2"))

	_, err := suite.workflow.RequestDelete("p1", "5", "2")
	suite.Require().NoError(err)
	_, err = suite.workflow.RequestDelete("p1", "5", "3")
	suite.Require().NoError(err)

	stored, _ := suite.store.Projects.FindByID("p1")
	task := stored.FindTask("5")
	suite.Require().NotNil(task.DeleteRequest)
	suite.Equal("3", task.DeleteRequest.UserID)
}

func (suite *WorkflowServiceTestSuite) TestRequestDeleteNotFound() {
	suite.createProject("p1", "1", []string{"1"}, testTask("5", "Ship it", ""))

	_, err := suite.workflow.RequestDelete("missing", "5", "1")
	suite.ErrorIs(err, ErrProjectNotFound)

	_, err = suite.workflow.RequestDelete("p1", "missing", "1")
	suite.ErrorIs(err, ErrTaskNotFound)
}

// Scenario: a member requests deletion, the leader is the only approver
func (suite *WorkflowServiceTestSuite) TestRequestDeleteFansOutToLeaderOnly() {
	suite.createProject("p1", "1", []string{"1", "2", "3"}, testTask("5", "Ship it", "2"))

	_, err := suite.workflow.RequestDelete("p1", "5", "2")
	suite.Require().NoError(err)
	suite.drainEvents()

	notifications := suite.allNotifications()
	suite.Require().Len(notifications, 1)
	n := notifications[0]
	suite.Equal(models.TypeTaskDeleteRequest, n.Type)
	suite.Require().NotNil(n.ToUserID)
	suite.Equal("1", *n.ToUserID)
	suite.Equal("request", n.Meta.Phase)
	suite.Equal("approver", n.Meta.Requires)
	suite.Require().NotNil(n.TaskSnapshot)
	suite.Equal("Ship it", n.TaskSnapshot.Title)
}

func (suite *WorkflowServiceTestSuite) TestRequestDeleteFansOutToAdminsToo() {
	project := suite.createProject("p1", "1", []string{"1", "2"}, testTask("5", "Ship it", ""))
	project.Admins = []string{"9"}
	suite.Require().NoError(suite.store.Projects.Replace(project))

	_, err := suite.workflow.RequestDelete("p1", "5", "2")
	suite.Require().NoError(err)
	suite.drainEvents()

	notifications := suite.allNotifications()
	suite.Require().Len(notifications, 2)
	recipients := map[string]bool{}
	for _, n := range notifications {
		suite.Require().NotNil(n.ToUserID)
		recipients[*n.ToUserID] = true
	}
	suite.True(recipients["1"])
	suite.True(recipients["9"])
}

// Scenario: an admin outside the member list approves; the task disappears
// and every party hears about it exactly once in its own voice
func (suite *WorkflowServiceTestSuite) TestConfirmDeleteApproveFanout() {
	suite.createProject("p1", "1", []string{"1", "2", "3"}, testTask("5", "Ship it", "2"))

	_, err := suite.workflow.RequestDelete("p1", "5", "2")
	suite.Require().NoError(err)
	suite.drainEvents()
	before := len(suite.allNotifications())

	result, err := suite.workflow.ConfirmDelete(ConfirmDeleteInput{
		ProjectID:    "p1",
		TaskID:       "5",
		ApproverID:   "9",
		ApproverName: "Niner",
		Approve:      true,
	})
	suite.Require().NoError(err)
	suite.True(result.Approved)
	suite.True(result.Deleted)

	stored, _ := suite.store.Projects.FindByID("p1")
	suite.Nil(stored.FindTask("5"))

	suite.drainEvents()
	notifications := suite.allNotifications()
	suite.Require().Len(notifications, before+4)

	byRecipient := map[string]models.Notification{}
	for _, n := range notifications {
		if n.Type == models.TypeTaskDeleteRequest {
			continue
		}
		suite.Require().NotNil(n.ToUserID)
		_, duplicate := byRecipient[*n.ToUserID]
		suite.False(duplicate, "recipient %s got more than one notification", *n.ToUserID)
		byRecipient[*n.ToUserID] = n
	}

	suite.Equal(models.TypeTaskDeletedTeam, byRecipient["1"].Type)
	suite.Equal(models.TypeTaskDeletedTeam, byRecipient["3"].Type)
	suite.Equal(models.TypeTaskDeleteApproved, byRecipient["2"].Type)
	suite.Equal(models.TypeTaskDeleteActorApproved, byRecipient["9"].Type)
	suite.Contains(byRecipient["2"].Message, "Niner")

	// the requester is also a member, so both tags stick
	suite.Contains(byRecipient["2"].Meta.Kinds, models.KindRequester)
	suite.Contains(byRecipient["2"].Meta.Kinds, models.KindTeam)
	suite.Equal([]string{models.KindActor}, byRecipient["9"].Meta.Kinds)

	for recipient, n := range byRecipient {
		suite.Require().NotNil(n.Meta.UndoUntil, "recipient %s is missing the undo deadline", recipient)
		suite.True(n.Meta.UndoUntil.After(n.CreatedAt))
	}
}

func (suite *WorkflowServiceTestSuite) TestConfirmDeleteRejectKeepsTask() {
	suite.createProject("p1", "1", []string{"1", "2"}, testTask("5", "Ship it", "2"))

	_, err := suite.workflow.RequestDelete("p1", "5", "2")
	suite.Require().NoError(err)

	result, err := suite.workflow.ConfirmDelete(ConfirmDeleteInput{
		ProjectID:    "p1",
		TaskID:       "5",
		ApproverID:   "1",
		ApproverName: "Lead",
		Approve:      false,
	})
	suite.Require().NoError(err)
	suite.False(result.Deleted)

	stored, _ := suite.store.Projects.FindByID("p1")
	task := stored.FindTask("5")
	suite.Require().NotNil(task)
	suite.Nil(task.DeleteRequest)

	suite.drainEvents()
	for _, n := range suite.allNotifications() {
		if n.ToUserID != nil && *n.ToUserID == "1" && n.Type != models.TypeTaskDeleteRequest {
			suite.Equal(models.TypeTaskDeleteActorRejected, n.Type)
			suite.Nil(n.Meta.UndoUntil)
		}
	}
}

func (suite *WorkflowServiceTestSuite) TestConfirmDeleteFallbackSnapshotWhenTaskGone() {
	suite.createProject("p1", "1", []string{"1", "2"})

	fallback := testTask("5", "Ship it", "2")
	fallback.DeleteRequest = &models.DeleteRequest{UserID: "2", RequestedAt: time.Now()}

	result, err := suite.workflow.ConfirmDelete(ConfirmDeleteInput{
		ProjectID:        "p1",
		TaskID:           "5",
		ApproverID:       "1",
		ApproverName:     "Lead",
		Approve:          true,
		FallbackSnapshot: &fallback,
	})
	suite.Require().NoError(err)
	suite.True(result.Deleted)
	suite.Require().NotNil(result.TaskSnapshot)
	suite.Equal("Ship it", result.TaskSnapshot.Title)

	suite.drainEvents()
	// the requester recovered from the fallback snapshot still hears back
	found := false
	for _, n := range suite.allNotifications() {
		if n.Type == models.TypeTaskDeleteApproved {
			suite.Require().NotNil(n.ToUserID)
			suite.Equal("2", *n.ToUserID)
			found = true
		}
	}
	suite.True(found)
}

func (suite *WorkflowServiceTestSuite) TestConfirmDeleteNotFoundWithoutFallback() {
	suite.createProject("p1", "1", []string{"1"})

	_, err := suite.workflow.ConfirmDelete(ConfirmDeleteInput{
		ProjectID:  "p1",
		TaskID:     "missing",
		ApproverID: "1",
		Approve:    true,
	})
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *WorkflowServiceTestSuite) TestAddTaskValidation() {
	suite.createProject("p1", "1", []string{"1"})

	_, err := suite.workflow.AddTask(AddTaskInput{ProjectID: "p1", CreatorID: "1"})
	suite.ErrorIs(err, ErrTitleRequired)

	start := time.Now()
	due := start.Add(-time.Hour)
	_, err = suite.workflow.AddTask(AddTaskInput{
		ProjectID: "p1",
		CreatorID: "1",
		Title:     "Backwards",
		StartAt:   &start,
		DueDate:   &due,
	})
	suite.ErrorIs(err, ErrDueBeforeStart)
}

func (suite *WorkflowServiceTestSuite) TestAddTaskFansOutOwnAndTeam() {
	suite.createProject("p1", "1", []string{"1", "2"})

	task, err := suite.workflow.AddTask(AddTaskInput{
		ProjectID: "p1",
		CreatorID: "1",
		Title:     "New work",
	})
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusTodo, task.Status)
	suite.NotEmpty(task.ID)

	suite.drainEvents()
	types := map[string]string{}
	for _, n := range suite.allNotifications() {
		suite.Require().NotNil(n.ToUserID)
		types[*n.ToUserID] = n.Type
	}
	suite.Equal(models.TypeTaskAddedOwn, types["1"])
	suite.Equal(models.TypeTaskAddedTeam, types["2"])
}

func TestWorkflowServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowServiceTestSuite))
}
