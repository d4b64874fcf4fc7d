package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/work-assignment-api/internal/models"
	"github.com/yukikurage/work-assignment-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// UserServiceTestSuite defines the test suite for UserService
type UserServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	userRepo repository.UserRepository
	service  *UserService

	admin  *models.User
	worker *models.User
}

// SetupTest runs before each test
func (suite *UserServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.User{}, &models.WorkItem{})
	suite.Require().NoError(err)

	suite.userRepo = repository.NewUserRepository(suite.db)
	suite.service = NewUserService(suite.userRepo)

	suite.admin = suite.createUser("admin@example.com", models.RoleAdmin, true)
	suite.worker = suite.createUser("worker@example.com", models.RoleWorker, true)
}

// TearDownTest runs after each test
func (suite *UserServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *UserServiceTestSuite) createUser(email string, role models.Role, active bool) *models.User {
	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         role,
		IsActive:     active,
	}
	suite.db.Create(user)
	return user
}

func (suite *UserServiceTestSuite) adminActor() Actor {
	return Actor{ID: suite.admin.ID, Role: models.RoleAdmin}
}

func (suite *UserServiceTestSuite) workerActor() Actor {
	return Actor{ID: suite.worker.ID, Role: models.RoleWorker}
}

func (suite *UserServiceTestSuite) TestListUsers_AdminOnly() {
	_, err := suite.service.ListUsers(suite.workerActor(), repository.UserFilter{})
	assert.ErrorIs(suite.T(), err, ErrAdminRequired)

	users, err := suite.service.ListUsers(suite.adminActor(), repository.UserFilter{})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), users, 2)
}

func (suite *UserServiceTestSuite) TestListUsers_RoleFilter() {
	role := models.RoleWorker
	users, err := suite.service.ListUsers(suite.adminActor(), repository.UserFilter{Role: &role})

	assert.NoError(suite.T(), err)
	suite.Require().Len(users, 1)
	assert.Equal(suite.T(), suite.worker.ID, users[0].ID)
}

func (suite *UserServiceTestSuite) TestGetUser_WorkerReadsSelfOnly() {
	_, err := suite.service.GetUser(suite.admin.ID, suite.workerActor())
	assert.ErrorIs(suite.T(), err, ErrAdminRequired)

	user, err := suite.service.GetUser(suite.worker.ID, suite.workerActor())
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.worker.Email, user.Email)
}

func (suite *UserServiceTestSuite) TestUpdateUser() {
	name := "Renamed"
	active := false
	user, err := suite.service.UpdateUser(UpdateUserInput{
		Actor:    suite.adminActor(),
		UserID:   suite.worker.ID,
		Name:     &name,
		IsActive: &active,
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Renamed", user.Name)
	assert.False(suite.T(), user.IsActive)
}

func (suite *UserServiceTestSuite) TestUpdateUser_EmailTaken() {
	email := "Admin@Example.com"
	_, err := suite.service.UpdateUser(UpdateUserInput{
		Actor:  suite.adminActor(),
		UserID: suite.worker.ID,
		Email:  &email,
	})

	assert.ErrorIs(suite.T(), err, ErrEmailTaken)
}

func (suite *UserServiceTestSuite) TestUpdateUser_NotAdmin() {
	name := "Renamed"
	_, err := suite.service.UpdateUser(UpdateUserInput{
		Actor:  suite.workerActor(),
		UserID: suite.worker.ID,
		Name:   &name,
	})

	assert.ErrorIs(suite.T(), err, ErrAdminRequired)
}

func (suite *UserServiceTestSuite) TestDeleteUser_CascadesWorkItems() {
	item := &models.WorkItem{
		WorkerID:     suite.worker.ID,
		Task:         "Task",
		Instructions: "Instructions",
		Status:       models.StatusPending,
		AssignedByID: suite.admin.ID,
	}
	suite.Require().NoError(suite.db.Create(item).Error)

	err := suite.service.DeleteUser(suite.worker.ID, suite.adminActor())
	assert.NoError(suite.T(), err)

	var itemCount, userCount int64
	suite.db.Model(&models.WorkItem{}).Count(&itemCount)
	suite.db.Model(&models.User{}).Where("id = ?", suite.worker.ID).Count(&userCount)
	assert.Equal(suite.T(), int64(0), itemCount)
	assert.Equal(suite.T(), int64(0), userCount)
}

func (suite *UserServiceTestSuite) TestDeleteUser_NotFound() {
	err := suite.service.DeleteUser(9999, suite.adminActor())
	assert.ErrorIs(suite.T(), err, ErrUserNotFound)
}

func (suite *UserServiceTestSuite) TestLinkAndUnlinkCalendar() {
	user, err := suite.service.LinkCalendar(suite.workerActor(), "access-token", "refresh-token")
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), user.HasCalendarLinked())

	user, err = suite.service.UnlinkCalendar(suite.workerActor())
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), user.HasCalendarLinked())
	assert.Nil(suite.T(), user.CalendarAccessToken)
	assert.Nil(suite.T(), user.CalendarRefreshToken)
}

func (suite *UserServiceTestSuite) TestLinkCalendar_RequiresAccessToken() {
	_, err := suite.service.LinkCalendar(suite.workerActor(), "  ", "")
	assert.Error(suite.T(), err)
}

// TestSuite runs the test suite
func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
