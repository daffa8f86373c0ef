package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aoigj100a/todo-fullstack-sub000/internal/models"
	"github.com/aoigj100a/todo-fullstack-sub000/internal/repository"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *AuthService
}

func (suite *AuthServiceTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.User{})
	suite.Require().NoError(err)

	tokens := NewTokenManager("test-secret", time.Hour)
	suite.service = NewAuthService(repository.NewUserRepository(suite.db), tokens)
}

func (suite *AuthServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AuthServiceTestSuite) TestRegisterAndLogin() {
	user, token, err := suite.service.Register(RegisterInput{
		Email:    "Alice@Example.com",
		Password: "supersecret",
		Name:     "Alice",
	})

	suite.Require().NoError(err)
	suite.Equal("alice@example.com", user.Email, "emails are normalized")
	suite.NotEmpty(token)
	suite.Len(user.ID, 24)
	suite.NotEqual("supersecret", user.PasswordHash)

	loggedIn, loginToken, err := suite.service.Login(LoginInput{
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	suite.Require().NoError(err)
	suite.Equal(user.ID, loggedIn.ID)
	suite.NotEmpty(loginToken)
}

func (suite *AuthServiceTestSuite) TestRegisterValidations() {
	_, _, err := suite.service.Register(RegisterInput{Email: "", Password: "supersecret"})
	suite.ErrorIs(err, ErrEmailRequired)

	_, _, err = suite.service.Register(RegisterInput{Email: "not-an-email", Password: "supersecret"})
	suite.ErrorIs(err, ErrInvalidEmail)

	_, _, err = suite.service.Register(RegisterInput{Email: "a@b.com", Password: "short"})
	suite.ErrorIs(err, ErrPasswordTooShort)
}

func (suite *AuthServiceTestSuite) TestRegisterDuplicateEmail() {
	_, _, err := suite.service.Register(RegisterInput{Email: "a@b.com", Password: "supersecret"})
	suite.Require().NoError(err)

	_, _, err = suite.service.Register(RegisterInput{Email: "a@b.com", Password: "othersecret"})
	suite.ErrorIs(err, ErrEmailTaken)
}

func (suite *AuthServiceTestSuite) TestLoginWrongPassword() {
	_, _, err := suite.service.Register(RegisterInput{Email: "a@b.com", Password: "supersecret"})
	suite.Require().NoError(err)

	_, _, err = suite.service.Login(LoginInput{Email: "a@b.com", Password: "wrong"})
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLoginUnknownEmail() {
	// unknown email and wrong password are indistinguishable to the caller
	_, _, err := suite.service.Login(LoginInput{Email: "ghost@b.com", Password: "whatever"})
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func TestTokenManagerRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	token, err := m.Generate("507f1f77bcf86cd799439011", "a@b.com")
	assert.NoError(t, err)

	claims, err := m.Validate(token)
	assert.NoError(t, err)
	assert.Equal(t, "507f1f77bcf86cd799439011", claims.Subject)
	assert.Equal(t, "a@b.com", claims.Email)
}

func TestTokenManagerRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Generate("id", "a@b.com")
	assert.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManagerRejectsExpired(t *testing.T) {
	m := NewTokenManager("secret", -time.Minute)

	token, err := m.Generate("id", "a@b.com")
	assert.NoError(t, err)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManagerRejectsGarbage(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	_, err := m.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
