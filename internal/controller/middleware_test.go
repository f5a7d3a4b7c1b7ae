package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Compiti/config"
	"github.com/lshigami/Compiti/internal/model"
	"github.com/lshigami/Compiti/internal/repository"
	"github.com/lshigami/Compiti/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthStack(t *testing.T) (service.AuthService, string, string) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))

	teacherHash, err := service.HashPassword("pw")
	require.NoError(t, err)
	studentHash, err := service.HashPassword("pw")
	require.NoError(t, err)
	require.NoError(t, db.Create(&[]model.User{
		{Name: "Teo", Role: model.RoleTeacher, PasswordHash: teacherHash},
		{Name: "Stu", Role: model.RoleStudent, PasswordHash: studentHash},
	}).Error)

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTLMinutes = 5
	authSvc := service.NewAuthService(repository.NewUserRepository(db), cfg)

	teacherLogin, err := authSvc.Login("Teo", "pw")
	require.NoError(t, err)
	studentLogin, err := authSvc.Login("Stu", "pw")
	require.NoError(t, err)
	return authSvc, teacherLogin.Token, studentLogin.Token
}

func newRouter(authSvc service.AuthService, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{Authenticated(authSvc)}, extra...)
	handlers = append(handlers, func(ctx *gin.Context) {
		principal := PrincipalFromContext(ctx)
		ctx.JSON(http.StatusOK, gin.H{"name": principal.Name})
	})
	r.GET("/probe", handlers...)
	return r
}

func TestAuthenticated(t *testing.T) {
	authSvc, teacherToken, _ := newAuthStack(t)
	router := newRouter(authSvc)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "missing header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "not a bearer token", authHeader: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer garbage", wantStatus: http.StatusUnauthorized},
		{name: "valid token", authHeader: "Bearer " + teacherToken, wantStatus: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRoleGates(t *testing.T) {
	authSvc, teacherToken, studentToken := newAuthStack(t)

	teacherOnly := newRouter(authSvc, RequireTeacher())
	studentOnly := newRouter(authSvc, RequireStudent())

	tests := []struct {
		name       string
		router     *gin.Engine
		token      string
		wantStatus int
	}{
		{name: "teacher passes teacher gate", router: teacherOnly, token: teacherToken, wantStatus: http.StatusOK},
		{name: "student blocked by teacher gate", router: teacherOnly, token: studentToken, wantStatus: http.StatusForbidden},
		{name: "student passes student gate", router: studentOnly, token: studentToken, wantStatus: http.StatusOK},
		{name: "teacher blocked by student gate", router: studentOnly, token: teacherToken, wantStatus: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			w := httptest.NewRecorder()
			tt.router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
