package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"social-hub/domain/model"
	"social-hub/usecase"
)

func TestUserUsecase_Login_Success(t *testing.T) {
	userRepo := new(MockUserRepo)
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	userRepo.On("GetByUserName", mock.Anything, "alice").
		Return(model.User{ID: 1, UserName: "alice", Password: string(hash)}, nil).
		Once()

	u := usecase.NewUserUsecase(userRepo, "secret")
	res := u.Login(context.Background(), model.ReqLogin{UserName: "alice", Password: "hunter2hunter2"})

	require.Equal(t, "200", res.ResponseCode)
	data := res.Data.(map[string]interface{})
	require.NotEmpty(t, data["token"])
	userRepo.AssertExpectations(t)
}

func TestUserUsecase_Login_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepo)
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)

	userRepo.On("GetByUserName", mock.Anything, "alice").
		Return(model.User{ID: 1, UserName: "alice", Password: string(hash)}, nil).
		Once()

	u := usecase.NewUserUsecase(userRepo, "secret")
	res := u.Login(context.Background(), model.ReqLogin{UserName: "alice", Password: "wrong"})

	require.Equal(t, "401", res.ResponseCode)
	require.Nil(t, res.Data)
}

func TestUserUsecase_Login_UnknownUser(t *testing.T) {
	userRepo := new(MockUserRepo)
	userRepo.On("GetByUserName", mock.Anything, "ghost").
		Return(model.User{}, model.ErrAccountNotFound).
		Once()

	u := usecase.NewUserUsecase(userRepo, "secret")
	res := u.Login(context.Background(), model.ReqLogin{UserName: "ghost", Password: "whatever"})

	require.Equal(t, "401", res.ResponseCode)
}

func TestUserUsecase_Register_HashesPassword(t *testing.T) {
	userRepo := new(MockUserRepo)
	userRepo.On("GetByUserName", mock.Anything, "bob").
		Return(model.User{}, model.ErrAccountNotFound).
		Once()
	userRepo.On("CreateUser", mock.Anything, mock.MatchedBy(func(user model.User) bool {
		// The plaintext never reaches the repository.
		return user.UserName == "bob" &&
			user.Password != "plaintext-pw" &&
			bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("plaintext-pw")) == nil
	})).Return(nil).Once()

	u := usecase.NewUserUsecase(userRepo, "secret")
	res := u.Register(context.Background(), model.ReqRegister{Name: "Bob", UserName: "bob", Password: "plaintext-pw"})

	require.Equal(t, "200", res.ResponseCode)
	userRepo.AssertExpectations(t)
}

func TestUserUsecase_Register_DuplicateUserName(t *testing.T) {
	userRepo := new(MockUserRepo)
	userRepo.On("GetByUserName", mock.Anything, "bob").
		Return(model.User{ID: 5, UserName: "bob"}, nil).
		Once()

	u := usecase.NewUserUsecase(userRepo, "secret")
	res := u.Register(context.Background(), model.ReqRegister{Name: "Bob", UserName: "bob", Password: "plaintext-pw"})

	require.Equal(t, "409", res.ResponseCode)
	userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}
