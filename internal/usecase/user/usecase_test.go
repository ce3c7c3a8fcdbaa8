package user

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"

	domain "admin-panel-api/internal/domain/user"
	"admin-panel-api/pkg/auth"
	pkgerrors "admin-panel-api/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) (int64, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, u *domain.User) (int64, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, f domain.Filter) ([]domain.User, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

// Test helper to create a usecase with a mock repo
func setupTestUsecase(t *testing.T) (*Usecase, *MockRepository) {
	mockRepo := new(MockRepository)
	logger := zaptest.NewLogger(t)
	uc := New(mockRepo, logger)
	return uc, mockRepo
}

// ==================== CREATE USER TESTS ====================

func TestCreateUser_Success_Defaults(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:  "John Doe",
		Email: "john@example.com",
	}

	mockRepo.On("GetByEmail", ctx, req.Email).Return(nil, nil)
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == req.Name &&
			u.Email == req.Email &&
			u.Role == domain.RoleViewer &&
			u.Status == domain.StatusInvited &&
			u.PasswordHash == ""
	})).Return(int64(1), nil)

	resp, err := uc.CreateUser(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, int64(1), resp.ID)

	mockRepo.AssertExpectations(t)
}

func TestCreateUser_Success_ExplicitRoleAndPassword(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:     "Jane Admin",
		Email:    "jane@example.com",
		Role:     "admin",
		Status:   "active",
		Password: "panel-password-1",
	}

	mockRepo.On("GetByEmail", ctx, req.Email).Return(nil, nil)
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == domain.RoleAdmin &&
			u.Status == domain.StatusActive &&
			auth.CheckPassword(u.PasswordHash, req.Password)
	})).Return(int64(7), nil)

	resp, err := uc.CreateUser(ctx, req)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), resp.ID)

	mockRepo.AssertExpectations(t)
}

func TestCreateUser_NormalizesEmail(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:  "John Doe",
		Email: "  John@Example.COM ",
	}

	mockRepo.On("GetByEmail", ctx, "john@example.com").Return(nil, nil)
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "john@example.com"
	})).Return(int64(1), nil)

	_, err := uc.CreateUser(ctx, req)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestCreateUser_ValidationError_NameRequired(t *testing.T) {
	uc, _ := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:  "",
		Email: "john@example.com",
	}

	resp, err := uc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "Name is required")

	var verr *pkgerrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCreateUser_ValidationError_EmailInvalid(t *testing.T) {
	uc, _ := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:  "John Doe",
		Email: "invalid-email",
	}

	resp, err := uc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "Email must be a valid email")
}

func TestCreateUser_ValidationError_UnknownRole(t *testing.T) {
	uc, _ := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:  "John Doe",
		Email: "john@example.com",
		Role:  "superuser",
	}

	resp, err := uc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "Role must be one of")
}

func TestCreateUser_ValidationError_ShortPassword(t *testing.T) {
	uc, _ := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "short",
	}

	resp, err := uc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "Password must be at least 8 characters")
}

func TestCreateUser_SemanticValidation_EmailAlreadyExists(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:  "John Doe",
		Email: "john@example.com",
	}

	existingUser := &domain.User{ID: 2, Name: "Existing User", Email: "john@example.com"}
	mockRepo.On("GetByEmail", ctx, req.Email).Return(existingUser, nil)

	resp, err := uc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "email already exists")

	var cerr *pkgerrors.AlreadyExistsError
	assert.ErrorAs(t, err, &cerr)

	mockRepo.AssertExpectations(t)
}

// ==================== UPDATE USER TESTS ====================

func TestUpdateUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := UpdateUserRequest{
		ID:    1,
		Name:  "John Updated",
		Email: "john.updated@example.com",
	}

	current := &domain.User{
		ID:     1,
		Name:   "John Doe",
		Email:  "john@example.com",
		Role:   domain.RoleEditor,
		Status: domain.StatusActive,
	}

	mockRepo.On("GetByID", ctx, req.ID).Return(current, nil)
	mockRepo.On("GetByEmail", ctx, req.Email).Return(nil, nil)
	mockRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		// untouched fields keep their stored values
		return u.ID == req.ID &&
			u.Name == req.Name &&
			u.Email == req.Email &&
			u.Role == domain.RoleEditor &&
			u.Status == domain.StatusActive
	})).Return(int64(1), nil)

	resp, err := uc.UpdateUser(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, int64(1), resp.ID)

	mockRepo.AssertExpectations(t)
}

func TestUpdateUser_PartialUpdate_NameOnly(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := UpdateUserRequest{
		ID:   1,
		Name: "John Updated",
		// Email empty - stored email kept, no uniqueness check
	}

	current := &domain.User{ID: 1, Name: "John Doe", Email: "john@example.com", Role: domain.RoleViewer, Status: domain.StatusActive}

	mockRepo.On("GetByID", ctx, req.ID).Return(current, nil)
	mockRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == req.ID && u.Name == req.Name && u.Email == "john@example.com"
	})).Return(int64(1), nil)

	resp, err := uc.UpdateUser(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, int64(1), resp.ID)

	mockRepo.AssertExpectations(t)
}

func TestUpdateUser_NotFound(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := UpdateUserRequest{ID: 99, Name: "Nobody Here"}

	notFound := pkgerrors.NewNotFoundError("user", "")
	mockRepo.On("GetByID", ctx, req.ID).Return(nil, notFound)

	resp, err := uc.UpdateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)

	var nferr *pkgerrors.NotFoundError
	assert.ErrorAs(t, err, &nferr)

	mockRepo.AssertExpectations(t)
}

func TestUpdateUser_SemanticValidation_EmailAlreadyExists(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := UpdateUserRequest{
		ID:    1,
		Email: "taken@example.com",
	}

	current := &domain.User{ID: 1, Name: "John Doe", Email: "john@example.com"}
	conflicting := &domain.User{ID: 2, Name: "Existing User", Email: "taken@example.com"}

	mockRepo.On("GetByID", ctx, req.ID).Return(current, nil)
	mockRepo.On("GetByEmail", ctx, req.Email).Return(conflicting, nil)

	resp, err := uc.UpdateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "email already exists")

	mockRepo.AssertExpectations(t)
}

func TestUpdateUser_RehashesPassword(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := UpdateUserRequest{
		ID:       1,
		Password: "new-panel-password",
	}

	current := &domain.User{ID: 1, Name: "John Doe", Email: "john@example.com", PasswordHash: "old-hash"}

	mockRepo.On("GetByID", ctx, req.ID).Return(current, nil)
	mockRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.PasswordHash != "old-hash" && auth.CheckPassword(u.PasswordHash, req.Password)
	})).Return(int64(1), nil)

	resp, err := uc.UpdateUser(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, resp)

	mockRepo.AssertExpectations(t)
}

// ==================== DELETE USER TESTS ====================

func TestDeleteUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := DeleteUserRequest{ID: 1}

	mockRepo.On("Delete", ctx, req.ID).Return(int64(1), nil)

	resp, err := uc.DeleteUser(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, int64(1), resp.ID)

	mockRepo.AssertExpectations(t)
}

func TestDeleteUser_InvalidID(t *testing.T) {
	uc, _ := setupTestUsecase(t)
	ctx := context.Background()

	req := DeleteUserRequest{ID: 0}

	resp, err := uc.DeleteUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "invalid user id")
}

func TestDeleteUser_NotFound(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := DeleteUserRequest{ID: 404}

	notFound := pkgerrors.NewNotFoundError("user", "")
	mockRepo.On("Delete", ctx, req.ID).Return(int64(0), notFound)

	resp, err := uc.DeleteUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)

	var nferr *pkgerrors.NotFoundError
	assert.ErrorAs(t, err, &nferr)

	mockRepo.AssertExpectations(t)
}

// ==================== GET USER TESTS ====================

func TestGetUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := GetUserRequest{ID: 1}
	expectedUser := &domain.User{
		ID:           1,
		Name:         "John Doe",
		Email:        "john@example.com",
		Role:         domain.RoleEditor,
		Status:       domain.StatusActive,
		PasswordHash: "never-exposed",
	}

	mockRepo.On("GetByID", ctx, req.ID).Return(expectedUser, nil)

	resp, err := uc.GetUser(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, expectedUser.ID, resp.User.ID)
	assert.Equal(t, expectedUser.Name, resp.User.Name)
	assert.Equal(t, "editor", resp.User.Role)
	assert.Equal(t, "active", resp.User.Status)

	mockRepo.AssertExpectations(t)
}

func TestGetUser_InvalidID(t *testing.T) {
	uc, _ := setupTestUsecase(t)
	ctx := context.Background()

	req := GetUserRequest{ID: 0}

	resp, err := uc.GetUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "invalid user id")
}

// ==================== LIST USERS TESTS ====================

func TestListUsers_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := ListUsersRequest{
		Query: "john",
		Role:  "viewer",
		Page:  1,
		Limit: 10,
	}

	expectedUsers := []domain.User{
		{ID: 1, Name: "John Doe", Email: "john@example.com", Role: domain.RoleViewer, Status: domain.StatusActive},
		{ID: 2, Name: "John Smith", Email: "smith@example.com", Role: domain.RoleViewer, Status: domain.StatusInvited},
	}

	mockRepo.On("List", ctx, domain.Filter{
		Query: "john",
		Role:  domain.RoleViewer,
		Page:  1,
		Limit: 10,
	}).Return(expectedUsers, int64(12), nil)

	resp, err := uc.ListUsers(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Len(t, resp.Users, 2)
	assert.Equal(t, expectedUsers[0].ID, resp.Users[0].ID)
	assert.Equal(t, "viewer", resp.Users[0].Role)

	assert.NotNil(t, resp.Pagination)
	assert.Equal(t, int64(12), resp.Pagination.Total)
	assert.Equal(t, int64(1), resp.Pagination.Page)
	assert.Equal(t, int64(10), resp.Pagination.Limit)
	assert.Equal(t, int64(2), resp.Pagination.TotalPages)

	mockRepo.AssertExpectations(t)
}

func TestListUsers_ClampsPageAndLimit(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := ListUsersRequest{Page: -3, Limit: 5000}

	mockRepo.On("List", ctx, domain.Filter{Page: 1, Limit: 100}).Return([]domain.User{}, int64(0), nil)

	resp, err := uc.ListUsers(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Empty(t, resp.Users)

	mockRepo.AssertExpectations(t)
}

func TestListUsers_InvalidStatusFilter(t *testing.T) {
	uc, _ := setupTestUsecase(t)
	ctx := context.Background()

	req := ListUsersRequest{Status: "deleted"}

	resp, err := uc.ListUsers(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "Status must be one of")
}

// ==================== VALIDATION HELPER TESTS ====================

func TestFormatValidationError(t *testing.T) {
	validate := validator.New()

	type TestStruct struct {
		Name  string `validate:"required,min=3"`
		Email string `validate:"required,email"`
	}

	// Test multiple validation errors
	err := validate.Struct(&TestStruct{})
	formatted := formatValidationError(err)

	assert.Error(t, formatted)
	assert.Contains(t, formatted.Error(), "validation failed")
	assert.Contains(t, formatted.Error(), "Name is required")
	assert.Contains(t, formatted.Error(), "Email is required")
}

func TestFormatValidationError_SingleError(t *testing.T) {
	validate := validator.New()

	type TestStruct struct {
		Name  string `validate:"required,min=3"`
		Email string
	}

	// Test single validation error
	err := validate.Struct(&TestStruct{Email: "test@example.com"})
	formatted := formatValidationError(err)

	assert.Error(t, formatted)
	assert.Contains(t, formatted.Error(), "Name is required")
	assert.NotContains(t, formatted.Error(), "Email")
}

func TestFormatValidationError_NonValidationError(t *testing.T) {
	originalErr := errors.New("some other error")
	formatted := formatValidationError(originalErr)

	assert.Equal(t, originalErr, formatted)
}
