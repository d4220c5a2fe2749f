package service

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/techforum-dev/techforum/internal/domain"
	"github.com/techforum-dev/techforum/internal/errors"
	"github.com/techforum-dev/techforum/internal/logger"
)

type UserService interface {
	Register(data domain.RegistrationData) (domain.UserId, error)
	Login(creds domain.Credentials) (string, domain.User, error)
	Get(id domain.UserId) (domain.User, error)
	GetAll() ([]domain.User, error)
}

type UserStorage interface {
	SaveUser(user domain.User) error
	User(id domain.UserId) (domain.User, error)
	UserByEmail(email domain.Email) (domain.User, error)
	Users() ([]domain.User, error)
}

type UserValidator interface {
	Username(username string) error
	Password(password domain.Password) error
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

type User struct {
	storage   UserStorage
	validator UserValidator
	jwt       Jwt
}

func NewUser(storage UserStorage, validator UserValidator, jwt Jwt) *User {
	return &User{storage, validator, jwt}
}

// Register hashes the password with a randomly salted bcrypt hash and
// persists the new user under a service-assigned id. New users are never
// moderators; that flag is flipped out of band.
func (u *User) Register(data domain.RegistrationData) (domain.UserId, error) {
	if err := u.validator.Username(data.Username); err != nil {
		return "", err
	}
	if err := u.validator.Password(data.Password); err != nil {
		return "", err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return "", err
	}

	user := domain.User{
		Id:       uuid.NewString(),
		Name:     data.Name,
		Username: data.Username,
		Email:    data.Email,
		PassHash: string(passHash),
	}
	if err := u.storage.SaveUser(user); err != nil {
		return "", err
	}

	logger.Log.Info("user registered", "user", user.Id, "username", user.Username)
	return user.Id, nil
}

// Login verifies credentials and returns a signed access token. Unknown
// email and wrong password are indistinguishable to the caller.
func (u *User) Login(creds domain.Credentials) (string, domain.User, error) {
	user, err := u.storage.UserByEmail(creds.Email)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", domain.User{}, errors.Unauthorized("Wrong email or password")
		}
		return "", domain.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(creds.Password)); err != nil {
		return "", domain.User{}, errors.Unauthorized("Wrong email or password")
	}

	token, err := u.jwt.NewToken(user)
	if err != nil {
		return "", domain.User{}, err
	}
	return token, user, nil
}

func (u *User) Get(id domain.UserId) (domain.User, error) {
	return u.storage.User(id)
}

func (u *User) GetAll() ([]domain.User, error) {
	return u.storage.Users()
}
