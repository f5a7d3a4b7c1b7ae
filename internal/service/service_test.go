package service

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/lshigami/Compiti/internal/model"
	"github.com/lshigami/Compiti/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// newTestDB opens a private in-memory sqlite database, migrated and named
// after the test so no two fixtures ever share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"), testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Assignment{}, &model.GroupMember{}))
	return db
}

type fixture struct {
	db *gorm.DB

	assignments AssignmentService
	eligibility EligibilityService
	stats       StatsService
	users       UserService

	teacher1 model.User
	teacher2 model.User
	students []model.User // anna, bruno, carla, dino, elena, fabio
}

// newFixture wires the services against a fresh database seeded with two
// teachers and six students.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	seed := []model.User{
		{Name: "Prof. Neri", Role: model.RoleTeacher, PasswordHash: "x"},
		{Name: "Prof. Viola", Role: model.RoleTeacher, PasswordHash: "x"},
		{Name: "Anna", Role: model.RoleStudent, PasswordHash: "x"},
		{Name: "Bruno", Role: model.RoleStudent, PasswordHash: "x"},
		{Name: "Carla", Role: model.RoleStudent, PasswordHash: "x"},
		{Name: "Dino", Role: model.RoleStudent, PasswordHash: "x"},
		{Name: "Elena", Role: model.RoleStudent, PasswordHash: "x"},
		{Name: "Fabio", Role: model.RoleStudent, PasswordHash: "x"},
	}
	require.NoError(t, db.Create(&seed).Error)

	userRepo := repository.NewUserRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	groupMemberRepo := repository.NewGroupMemberRepository(db)

	return &fixture{
		db:          db,
		assignments: NewAssignmentService(assignmentRepo, groupMemberRepo, userRepo, db),
		eligibility: NewEligibilityService(userRepo, groupMemberRepo),
		stats:       NewStatsService(assignmentRepo, userRepo),
		users:       NewUserService(userRepo),
		teacher1:    seed[0],
		teacher2:    seed[1],
		students:    seed[2:],
	}
}

// createGrouped creates an open assignment with the given group and returns
// its id.
func (f *fixture) createGrouped(t *testing.T, teacherID uint, studentIDs ...uint) uint {
	t.Helper()
	resp, err := f.assignments.Create(teacherID, "Describe the water cycle.", nil)
	require.NoError(t, err)
	require.NoError(t, f.assignments.AssignGroup(resp.ID, teacherID, studentIDs))
	return resp.ID
}

// evaluateWithScore submits an answer as the first group member and closes
// the assignment with the given score.
func (f *fixture) evaluateWithScore(t *testing.T, assignmentID, teacherID, studentID uint, score int) {
	t.Helper()
	answer := "final answer"
	_, err := f.assignments.SubmitAnswer(assignmentID, studentID, answer)
	require.NoError(t, err)
	_, err = f.assignments.Evaluate(assignmentID, teacherID, score, &answer)
	require.NoError(t, err)
}

func (f *fixture) teacherPrincipal() model.Principal {
	return model.Principal{UserID: f.teacher1.ID, Name: f.teacher1.Name, Role: f.teacher1.Role}
}

func (f *fixture) studentPrincipal(s model.User) model.Principal {
	return model.Principal{UserID: s.ID, Name: s.Name, Role: s.Role}
}
