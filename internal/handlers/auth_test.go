package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aoigj100a/todo-fullstack-sub000/internal/dto"
	"github.com/aoigj100a/todo-fullstack-sub000/internal/middleware"
	"github.com/aoigj100a/todo-fullstack-sub000/internal/models"
	"github.com/aoigj100a/todo-fullstack-sub000/internal/repository"
	"github.com/aoigj100a/todo-fullstack-sub000/internal/services"
)

const loginAttemptLimit = 3

type AuthHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (suite *AuthHandlerTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.User{})
	suite.Require().NoError(err)

	tokens := services.NewTokenManager("test-secret", time.Hour)
	authService := services.NewAuthService(repository.NewUserRepository(suite.db), tokens)
	limiter := middleware.NewLoginLimiter(middleware.NewMemoryAttemptStore(), loginAttemptLimit, time.Minute, 5*time.Minute)
	handler := NewAuthHandler(authService, limiter)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	auth := suite.router.Group("/auth")
	{
		auth.POST("/register", handler.Register)
		auth.POST("/login", handler.Login)
		auth.GET("/me", middleware.RequireAuth(tokens), handler.GetCurrentUser)
	}
}

func (suite *AuthHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AuthHandlerTestSuite) post(url string, body any) (*httptest.ResponseRecorder, envelope) {
	raw, err := json.Marshal(body)
	suite.Require().NoError(err)

	req := httptest.NewRequest("POST", url, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var env envelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func (suite *AuthHandlerTestSuite) register(email, password string) dto.AuthResponse {
	w, env := suite.post("/auth/register", gin.H{"email": email, "password": password, "name": "Tester"})
	suite.Require().Equal(http.StatusCreated, w.Code)

	var resp dto.AuthResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &resp))
	return resp
}

func (suite *AuthHandlerTestSuite) TestRegisterIssuesToken() {
	resp := suite.register("a@b.com", "supersecret")

	suite.NotEmpty(resp.Token)
	suite.Equal("a@b.com", resp.User.Email)
	suite.Len(resp.User.ID, 24)
}

func (suite *AuthHandlerTestSuite) TestRegisterDuplicate() {
	suite.register("a@b.com", "supersecret")

	w, env := suite.post("/auth/register", gin.H{"email": "a@b.com", "password": "supersecret"})
	suite.Equal(http.StatusConflict, w.Code)
	suite.False(env.Success)
}

func (suite *AuthHandlerTestSuite) TestLoginSuccess() {
	suite.register("a@b.com", "supersecret")

	w, env := suite.post("/auth/login", gin.H{"email": "a@b.com", "password": "supersecret"})

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.AuthResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &resp))
	suite.NotEmpty(resp.Token)
}

func (suite *AuthHandlerTestSuite) TestLoginWrongPassword() {
	suite.register("a@b.com", "supersecret")

	w, env := suite.post("/auth/login", gin.H{"email": "a@b.com", "password": "nope"})
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.False(env.Success)
}

func (suite *AuthHandlerTestSuite) TestLoginLockoutAfterRepeatedFailures() {
	suite.register("a@b.com", "supersecret")

	for i := 0; i < loginAttemptLimit; i++ {
		w, _ := suite.post("/auth/login", gin.H{"email": "a@b.com", "password": "nope"})
		suite.Equal(http.StatusUnauthorized, w.Code)
	}

	// locked out now, even with the right password
	w, env := suite.post("/auth/login", gin.H{"email": "a@b.com", "password": "supersecret"})
	suite.Equal(http.StatusTooManyRequests, w.Code)
	suite.False(env.Success)
}

func (suite *AuthHandlerTestSuite) TestMe() {
	resp := suite.register("a@b.com", "supersecret")

	req := httptest.NewRequest("GET", "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var env envelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env))
	var user dto.UserDTO
	suite.Require().NoError(json.Unmarshal(env.Data, &user))
	suite.Equal(resp.User.ID, user.ID)
}

func (suite *AuthHandlerTestSuite) TestMeRejectsMissingOrBadToken() {
	req := httptest.NewRequest("GET", "/auth/me", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest("GET", "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}
