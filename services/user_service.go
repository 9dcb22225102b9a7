package services

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/lthoa462/homework/models"
	"github.com/lthoa462/homework/utils"
)

const (
	MinPasswordLength = 6
	// MaxPasswordLength is the most bcrypt will hash, in bytes.
	MaxPasswordLength = 72
	bcryptCost        = 10
)

const msgInvalidCredentials = "Tên đăng nhập hoặc mật khẩu không đúng."

type CreateUserInput struct {
	Username string  `json:"username" yaml:"username"`
	Password string  `json:"password" yaml:"password"`
	Role     string  `json:"role" yaml:"role"`
	FullName *string `json:"fullName" yaml:"fullName"`
	Email    *string `json:"email" yaml:"email"`
	Status   string  `json:"status" yaml:"status"`
}

// UpdateUserInput: nil pointers are left untouched. FullName and Email can
// also be cleared with an explicit JSON null.
type UpdateUserInput struct {
	Username *string              `json:"username"`
	Password *string              `json:"password"`
	Role     *string              `json:"role"`
	Status   *string              `json:"status"`
	FullName utils.NullableString `json:"fullName"`
	Email    utils.NullableString `json:"email"`
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// NewUserFromInput validates a create request and builds the row, hashing the
// password. Nothing is written.
func NewUserFromInput(in CreateUserInput) (*models.User, error) {
	username := utils.NormalizeText(in.Username)
	if username == "" {
		return nil, utils.BadRequest("Tên đăng nhập không được để trống.")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, utils.BadRequest("Mật khẩu phải có ít nhất 6 ký tự.")
	}
	if len(in.Password) > MaxPasswordLength {
		return nil, utils.BadRequest("Mật khẩu không được dài quá 72 byte.")
	}

	role := models.RoleStudent
	if in.Role != "" {
		role = models.UserRole(in.Role)
	}
	if !role.Valid() {
		return nil, utils.BadRequest("Vai trò không hợp lệ.")
	}

	status := models.StatusActive
	if in.Status != "" {
		status = models.UserStatus(in.Status)
	}
	if !status.Valid() {
		return nil, utils.BadRequest("Trạng thái không hợp lệ.")
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Password: hashed,
		Role:     role,
		Status:   status,
	}
	if in.FullName != nil {
		user.FullName = utils.NullIfEmpty(*in.FullName)
	}
	if in.Email != nil {
		user.Email = utils.NullIfEmpty(*in.Email)
	}
	return user, nil
}

// BuildUserUpdates turns a partial update into column assignments. An empty
// result is a BadRequest.
func BuildUserUpdates(in UpdateUserInput) (map[string]interface{}, error) {
	updates := make(map[string]interface{})

	if in.Username != nil {
		username := utils.NormalizeText(*in.Username)
		if username == "" {
			return nil, utils.BadRequest("Tên đăng nhập không được để trống.")
		}
		updates["username"] = username
	}

	if in.FullName.Set {
		if in.FullName.Value == nil {
			updates["full_name"] = nil
		} else {
			updates["full_name"] = utils.NullIfEmpty(*in.FullName.Value)
		}
	}

	if in.Email.Set {
		if in.Email.Value == nil {
			updates["email"] = nil
		} else {
			updates["email"] = utils.NullIfEmpty(*in.Email.Value)
		}
	}

	if in.Role != nil {
		role := models.UserRole(*in.Role)
		if !role.Valid() {
			return nil, utils.BadRequest("Vai trò không hợp lệ.")
		}
		updates["role"] = role
	}

	if in.Status != nil {
		status := models.UserStatus(*in.Status)
		if !status.Valid() {
			return nil, utils.BadRequest("Trạng thái không hợp lệ.")
		}
		updates["status"] = status
	}

	// An empty password means "keep the current one".
	if in.Password != nil && *in.Password != "" {
		if len(*in.Password) < MinPasswordLength {
			return nil, utils.BadRequest("Mật khẩu mới phải có ít nhất 6 ký tự.")
		}
		if len(*in.Password) > MaxPasswordLength {
			return nil, utils.BadRequest("Mật khẩu mới không được dài quá 72 byte.")
		}
		hashed, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hashed
	}

	if len(updates) == 0 {
		return nil, utils.BadRequest("Không có dữ liệu cập nhật.")
	}
	return updates, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", utils.Internal("Không thể mã hoá mật khẩu.", err)
	}
	return string(hashed), nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&users).Error; err != nil {
		return nil, utils.Internal("Không thể tải danh sách người dùng.", err)
	}
	return users, nil
}

func (s *UserService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFound("Người dùng không tồn tại.")
	}
	if err != nil {
		return nil, utils.Internal("Không thể tải người dùng.", err)
	}
	return &user, nil
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	user, err := NewUserFromInput(in)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if utils.IsUniqueViolation(err) {
			return nil, utils.Conflict("Tên đăng nhập hoặc email đã tồn tại.")
		}
		return nil, utils.Internal("Không thể tạo người dùng mới.", err)
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id uint, in UpdateUserInput) (*models.User, error) {
	updates, err := BuildUserUpdates(in)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&user, id).Error
	})
	switch {
	case err == nil:
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, utils.NotFound("Không tìm thấy người dùng để cập nhật.")
	case utils.IsUniqueViolation(err):
		return nil, utils.Conflict("Tên đăng nhập hoặc email đã tồn tại.")
	default:
		return nil, utils.Internal("Không thể cập nhật người dùng.", err)
	}
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return utils.Internal("Không thể xóa người dùng.", result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.NotFound("Người dùng không tồn tại.")
	}
	return nil
}

// Authenticate checks the bcrypt hash; unknown user and wrong password give
// the same answer.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	username = utils.NormalizeText(username)
	if username == "" || password == "" {
		return nil, utils.BadRequest("Vui lòng cung cấp đầy đủ tên đăng nhập và mật khẩu.")
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.Unauthorized(msgInvalidCredentials)
	}
	if err != nil {
		return nil, utils.Internal("Lỗi máy chủ trong quá trình đăng nhập.", err)
	}

	if err := CheckPassword(user.Password, password); err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, utils.Forbidden("Tài khoản đã bị tạm khóa.")
	}
	return &user, nil
}

// CheckPassword compares a stored bcrypt hash with a candidate password.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return utils.Unauthorized(msgInvalidCredentials)
	}
	return nil
}
