package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
	"fittrack/internal/repository/memory"
	"fittrack/internal/token"
)

// testEnv wires every service over a fresh in-memory store.
type testEnv struct {
	store  *memory.Store
	uow    repository.UnitOfWork
	tokens *token.Manager
	files  *fakeFileStorage

	auth       AuthService
	categories CategoryService
	exercises  ExerciseService
	workouts   WorkoutService
	users      UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	uow := memory.NewUnitOfWork(store)
	tokens, err := token.NewManager("0123456789abcdef0123456789abcdef", "fittrack", "fittrack-api", time.Hour)
	require.NoError(t, err)
	files := &fakeFileStorage{objects: map[string]string{}}

	return &testEnv{
		store:      store,
		uow:        uow,
		tokens:     tokens,
		files:      files,
		auth:       NewAuthService(uow, tokens),
		categories: NewCategoryService(uow),
		exercises:  NewExerciseService(uow, files),
		workouts:   NewWorkoutService(uow),
		users:      NewUserService(uow),
	}
}

// register creates an account through the real registration path and returns
// its caller identity.
func (e *testEnv) register(t *testing.T, username, email string) domain.Caller {
	t.Helper()
	user, err := e.auth.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    email,
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return domain.Caller{UserID: user.ID, Username: user.Username, Roles: user.Roles}
}

// registerAdmin registers an account and grants it the admin role directly
// through the store.
func (e *testEnv) registerAdmin(t *testing.T, username, email string) domain.Caller {
	t.Helper()
	ctx := context.Background()
	caller := e.register(t, username, email)

	role, err := e.uow.Roles().FindOne(ctx, repository.Eq("name", domain.RoleAdmin))
	require.NoError(t, err)
	require.NoError(t, e.uow.UserRoles().Insert(ctx, &domain.UserRole{UserID: caller.UserID, RoleID: role.ID}))

	caller.Roles = append(caller.Roles, domain.RoleAdmin)
	return caller
}

// fakeFileStorage records presign and delete calls instead of talking to S3.
type fakeFileStorage struct {
	objects map[string]string
	deleted []string
}

func (f *fakeFileStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, contentType string, _ time.Duration) (string, error) {
	f.objects[objectKey] = contentType
	return "https://storage.test/upload/" + objectKey, nil
}

func (f *fakeFileStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://storage.test/download/" + objectKey, nil
}

func (f *fakeFileStorage) DeleteObject(_ context.Context, objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	delete(f.objects, objectKey)
	return nil
}
