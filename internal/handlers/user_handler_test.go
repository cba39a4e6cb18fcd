package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"DocControl/internal/model"
)

func TestAuth_Register(t *testing.T) {
	env := newTestEnv(t)

	t.Run("ok", func(t *testing.T) {
		env.users.ExpectedCalls = nil
		env.users.On("GetUserByLogin", mock.Anything, "john").Return((*model.User)(nil), gorm.ErrRecordNotFound).Once()
		created := &model.User{ID: 42, Login: "john", Role: model.RoleUser}
		env.users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Login == "john" && u.Password != "" && u.Role == model.RoleUser
		})).Return(created, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"login":"john","password":"p"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := env.do(t, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var body struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
		}
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.Equal(t, "bearer", body.TokenType)

		// выданный токен резолвится в зарегистрированного пользователя
		sub, err := env.codec.Verify(body.AccessToken)
		assert.NoError(t, err)
		assert.Equal(t, "john", sub)
		env.users.AssertExpectations(t)
	})

	t.Run("conflict", func(t *testing.T) {
		env.users.ExpectedCalls = nil
		env.users.On("GetUserByLogin", mock.Anything, "john").Return(&model.User{ID: 1, Login: "john"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"login":"john","password":"p"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := env.do(t, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		env.users.AssertExpectations(t)
	})

	t.Run("bad body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"login":""}`))
		rr := env.do(t, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAuth_Login(t *testing.T) {
	env := newTestEnv(t)
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)

	t.Run("ok", func(t *testing.T) {
		env.users.ExpectedCalls = nil
		env.users.On("GetUserByLogin", mock.Anything, "alice").Return(&model.User{ID: 2, Login: "alice", Password: string(hash)}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"login":"alice","password":"secret"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := env.do(t, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var body struct {
			AccessToken string `json:"access_token"`
		}
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.NotEmpty(t, body.AccessToken)
		env.users.AssertExpectations(t)
	})

	t.Run("unauthorized", func(t *testing.T) {
		env.users.ExpectedCalls = nil
		env.users.On("GetUserByLogin", mock.Anything, "alice").Return(&model.User{ID: 2, Login: "alice", Password: string(hash)}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"login":"alice","password":"bad"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := env.do(t, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		env.users.AssertExpectations(t)
	})
}

// Тест: логин публичный, всё остальное закрыто шлюзом
func TestAuth_GateCoversAllRoutes(t *testing.T) {
	env := newTestEnv(t)

	for _, route := range []string{
		"/history",
		"/result/5",
		"/download/5",
		"/download_annotated/5",
		"/download_path?file_path=data/x.pdf",
		"/download_annotated_path?file_path=data/x.pdf",
	} {
		req := httptest.NewRequest(http.MethodGet, route, nil)
		rr := env.do(t, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "route %s", route)
	}

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	rr := env.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
