package authenticating

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/account-tracker-api/infrastructure/repository/mocks"
	"github.com/vfg2006/account-tracker-api/internal/config"
	"github.com/vfg2006/account-tracker-api/internal/domain"
	"github.com/vfg2006/account-tracker-api/pkg/log"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	log.SetupTestLogger()
}

func newAuthService(t *testing.T) (Authenticator, *mocks.MockUserRepository) {
	ctrl := gomock.NewController(t)
	userRepo := mocks.NewMockUserRepository(ctrl)

	cfg := &config.Config{SecretKey: "test-secret-key"}
	return NewService(userRepo, cfg), userRepo
}

func hashedUser(id int, email, password string, active bool) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &domain.User{
		ID:           id,
		Name:         "Maria",
		Lastname:     "Silva",
		Email:        email,
		PasswordHash: string(hash),
		Active:       active,
		RoleID:       2,
	}
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("normaliza o email, aplica hash e role padrão", func(t *testing.T) {
		service, userRepo := newAuthService(t)

		userRepo.EXPECT().GetUserByEmail(ctx, "maria@example.com").Return(nil, nil)
		userRepo.EXPECT().
			CreateUser(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, user *domain.User) (*domain.User, error) {
				assert.Equal(t, "maria@example.com", user.Email)
				assert.Equal(t, 3, user.RoleID)
				assert.False(t, user.Active)
				// a senha nunca é armazenada em claro
				assert.NotEqual(t, "Secret!123", user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Secret!123")))
				user.ID = 1
				return user, nil
			})

		user, err := service.CreateUser(ctx, &domain.User{
			Name:         "Maria",
			Lastname:     "Silva",
			Email:        " Maria@Example.com ",
			PasswordHash: "Secret!123",
		})

		require.NoError(t, err)
		assert.Equal(t, 1, user.ID)
	})

	t.Run("email já cadastrado é rejeitado", func(t *testing.T) {
		service, userRepo := newAuthService(t)

		userRepo.EXPECT().
			GetUserByEmail(ctx, "maria@example.com").
			Return(&domain.User{ID: 1, Email: "maria@example.com"}, nil)

		_, err := service.CreateUser(ctx, &domain.User{
			Name:         "Maria",
			Lastname:     "Silva",
			Email:        "maria@example.com",
			PasswordHash: "Secret!123",
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUserAlreadyExists))
	})
}

func TestLoginUser(t *testing.T) {
	ctx := context.Background()

	t.Run("login válido devolve um token verificável", func(t *testing.T) {
		service, userRepo := newAuthService(t)

		userRepo.EXPECT().
			GetUserByEmail(ctx, "maria@example.com").
			Return(hashedUser(1, "maria@example.com", "Secret!123", true), nil)

		token, err := service.LoginUser(ctx, "Maria@Example.com", "Secret!123")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := service.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, 1, claims.UserID)
		assert.Equal(t, "maria@example.com", claims.UserEmail)
		assert.Equal(t, 2, claims.UserRoleID)
	})

	t.Run("senha incorreta devolve credenciais inválidas", func(t *testing.T) {
		service, userRepo := newAuthService(t)

		userRepo.EXPECT().
			GetUserByEmail(ctx, "maria@example.com").
			Return(hashedUser(1, "maria@example.com", "Secret!123", true), nil)

		_, err := service.LoginUser(ctx, "maria@example.com", "wrong-password")

		require.Error(t, err)
		assert.True(t, IsCredentialsError(err))
	})

	t.Run("conta desativada não autentica", func(t *testing.T) {
		service, userRepo := newAuthService(t)

		userRepo.EXPECT().
			GetUserByEmail(ctx, "maria@example.com").
			Return(hashedUser(1, "maria@example.com", "Secret!123", false), nil)

		_, err := service.LoginUser(ctx, "maria@example.com", "Secret!123")

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUserDisabled))
	})
}

func TestValidateToken(t *testing.T) {
	service, _ := newAuthService(t)

	t.Run("token adulterado é rejeitado", func(t *testing.T) {
		_, err := service.ValidateToken("not.a.token")
		assert.Error(t, err)
	})

	t.Run("token assinado com outro segredo é rejeitado", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		otherRepo := mocks.NewMockUserRepository(ctrl)
		other := NewService(otherRepo, &config.Config{SecretKey: "other-secret"})

		otherRepo.EXPECT().
			GetUserByEmail(gomock.Any(), "maria@example.com").
			Return(hashedUser(1, "maria@example.com", "Secret!123", true), nil)

		token, err := other.LoginUser(context.Background(), "maria@example.com", "Secret!123")
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.Error(t, err)
	})
}

func TestValidatePasswordStrength(t *testing.T) {
	service, _ := newAuthService(t)

	assert.NoError(t, service.ValidatePasswordStrength("Secret!123"))

	weak := []string{
		"curta1!",     // menos de 8 caracteres
		"secret!123",  // sem maiúscula
		"SECRET!123",  // sem minúscula
		"Secretao!",   // sem número
		"Secret1234",  // sem caractere especial
	}
	for _, password := range weak {
		assert.Error(t, service.ValidatePasswordStrength(password), password)
	}
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("altera a senha após conferir a atual", func(t *testing.T) {
		service, userRepo := newAuthService(t)

		userRepo.EXPECT().
			GetUserByID(ctx, 1).
			Return(hashedUser(1, "maria@example.com", "Secret!123", true), nil)
		userRepo.EXPECT().
			UpdateUser(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, user *domain.User) error {
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("NewSecret!456")))
				return nil
			})

		assert.NoError(t, service.ChangePassword(ctx, 1, "Secret!123", "NewSecret!456"))
	})

	t.Run("senha atual incorreta é rejeitada", func(t *testing.T) {
		service, userRepo := newAuthService(t)

		userRepo.EXPECT().
			GetUserByID(ctx, 1).
			Return(hashedUser(1, "maria@example.com", "Secret!123", true), nil)

		err := service.ChangePassword(ctx, 1, "wrong", "NewSecret!456")

		require.Error(t, err)
		assert.True(t, IsCredentialsError(err))
	})

	t.Run("nova senha fraca é rejeitada", func(t *testing.T) {
		service, userRepo := newAuthService(t)

		userRepo.EXPECT().
			GetUserByID(ctx, 1).
			Return(hashedUser(1, "maria@example.com", "Secret!123", true), nil)

		err := service.ChangePassword(ctx, 1, "Secret!123", "weak")

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrWeakPassword))
	})
}
