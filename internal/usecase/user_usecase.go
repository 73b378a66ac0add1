package usecase

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"mixmall_backend/internal/auth"
	"mixmall_backend/internal/domain"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var _ domain.UserUseCase = (*userUseCase)(nil)

type userUseCase struct {
	userRepo domain.UserRepository
	tokens   *auth.TokenManager
	log      *logrus.Logger
}

func NewUserUseCase(repo domain.UserRepository, tokens *auth.TokenManager, logger *logrus.Logger) domain.UserUseCase {
	return &userUseCase{
		userRepo: repo,
		tokens:   tokens,
		log:      logger,
	}
}

func (uc *userUseCase) Register(name, phone, email, password string) (*domain.AuthResult, error) {
	uc.log.Infof("Use Case: Attempting registration for phone: %s", phone)

	name = strings.TrimSpace(name)
	phone = normalizePhone(phone)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		uc.log.Warn("Use Case: Registration failed - empty name")
		return nil, errors.New("user name cannot be empty")
	}
	if !isValidPhone(phone) {
		uc.log.Warnf("Use Case: Registration failed - invalid phone format: %s", phone)
		return nil, errors.New("invalid phone format")
	}
	if email != "" && !isValidEmail(email) {
		uc.log.Warnf("Use Case: Registration failed - invalid email format: %s", email)
		return nil, errors.New("invalid email format")
	}
	if err := validatePassword(password); err != nil {
		uc.log.Warnf("Use Case: Registration failed - password validation error: %v", err)
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to hash password for %s: %v", phone, err)
		return nil, fmt.Errorf("internal error processing password: %w", err)
	}

	newUser := &domain.User{
		Name:         name,
		Phone:        phone,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleCustomer,
	}

	createdUser, err := uc.userRepo.CreateUser(newUser)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create user %s: %v", phone, err)
		return nil, err
	}

	token, err := uc.tokens.Issue(createdUser.ID, createdUser.Role)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to issue token for new user %d: %v", createdUser.ID, err)
		return nil, fmt.Errorf("internal error issuing token: %w", err)
	}

	uc.log.Infof("Use Case: User registered successfully. ID: %d, Phone: %s", createdUser.ID, createdUser.Phone)
	return &domain.AuthResult{Token: token, User: createdUser}, nil
}

func (uc *userUseCase) Login(phone, password string) (*domain.AuthResult, error) {
	phone = normalizePhone(phone)
	uc.log.Infof("Use Case: Attempting authentication for phone: %s", phone)

	if phone == "" || password == "" {
		return nil, errors.New("invalid phone or password")
	}

	user, err := uc.userRepo.GetUserByPhone(phone)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			uc.log.Warnf("Use Case: Auth failed - user not found: %s", phone)
			return nil, errors.New("invalid phone or password")
		}
		uc.log.Errorf("Use Case: Error retrieving user %s during auth: %v", phone, err)
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			uc.log.Warnf("Use Case: Auth failed - incorrect password for user %s (ID: %d)", phone, user.ID)
			return nil, errors.New("invalid phone or password")
		}
		uc.log.Errorf("Use Case: Error comparing password hash for user %s: %v", phone, err)
		return nil, fmt.Errorf("internal error during authentication: %w", err)
	}

	token, err := uc.tokens.Issue(user.ID, user.Role)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to issue token for user %d: %v", user.ID, err)
		return nil, fmt.Errorf("internal error issuing token: %w", err)
	}

	uc.log.Infof("Use Case: Authentication successful for user %s (ID: %d)", phone, user.ID)
	return &domain.AuthResult{Token: token, User: user}, nil
}

func (uc *userUseCase) GetProfile(userID int64) (*domain.User, error) {
	if userID <= 0 {
		return nil, errors.New("invalid user ID")
	}
	user, err := uc.userRepo.GetUserByID(userID)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get profile for ID %d: %v", userID, err)
		return nil, err
	}
	return user, nil
}

func (uc *userUseCase) UpdateProfile(userID int64, updates map[string]interface{}) (*domain.User, error) {
	if userID <= 0 {
		return nil, errors.New("invalid user ID")
	}

	validUpdates := make(map[string]interface{})
	for key, value := range updates {
		switch key {
		case "name":
			name, ok := value.(string)
			if !ok || strings.TrimSpace(name) == "" {
				return nil, errors.New("user name cannot be empty if provided for update")
			}
			validUpdates[key] = strings.TrimSpace(name)
		case "phone":
			phone, ok := value.(string)
			if !ok || !isValidPhone(normalizePhone(phone)) {
				return nil, errors.New("invalid phone format provided for update")
			}
			validUpdates[key] = normalizePhone(phone)
		case "email":
			email, ok := value.(string)
			if !ok {
				return nil, errors.New("invalid email provided for update")
			}
			email = strings.ToLower(strings.TrimSpace(email))
			if email != "" && !isValidEmail(email) {
				return nil, errors.New("invalid email format provided for update")
			}
			validUpdates[key] = email
		case "password":
			password, ok := value.(string)
			if !ok {
				return nil, errors.New("invalid password provided for update")
			}
			if err := validatePassword(password); err != nil {
				return nil, err
			}
			hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("internal error processing password: %w", err)
			}
			validUpdates["password_hash"] = string(hashed)
		default:
			uc.log.Warnf("Use Case: Skipping unknown field '%s' for profile update of user %d", key, userID)
		}
	}

	user, err := uc.userRepo.UpdateUser(userID, validUpdates)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to update profile for user %d: %v", userID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Profile updated for user %d", userID)
	return user, nil
}

func (uc *userUseCase) AddAddress(userID int64, address *domain.Address) (*domain.Address, error) {
	if userID <= 0 {
		return nil, errors.New("invalid user ID")
	}
	if strings.TrimSpace(address.Address) == "" {
		return nil, errors.New("address cannot be empty")
	}
	address.UserID = userID

	created, err := uc.userRepo.AddAddress(address)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to add address for user %d: %v", userID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Address %d added for user %d", created.ID, userID)
	return created, nil
}

func (uc *userUseCase) UpdateAddress(userID int64, address *domain.Address) (*domain.Address, error) {
	if userID <= 0 || address.ID <= 0 {
		return nil, errors.New("invalid address ID")
	}
	if strings.TrimSpace(address.Address) == "" {
		return nil, errors.New("address cannot be empty")
	}
	address.UserID = userID

	updated, err := uc.userRepo.UpdateAddress(address)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to update address %d for user %d: %v", address.ID, userID, err)
		return nil, err
	}
	return updated, nil
}

func (uc *userUseCase) DeleteAddress(userID, addressID int64) error {
	if userID <= 0 || addressID <= 0 {
		return errors.New("invalid address ID")
	}
	if err := uc.userRepo.DeleteAddress(userID, addressID); err != nil {
		uc.log.Errorf("Use Case: Repository failed to delete address %d for user %d: %v", addressID, userID, err)
		return err
	}
	return nil
}

func (uc *userUseCase) SetMainAddress(userID, addressID int64) error {
	if userID <= 0 || addressID <= 0 {
		return errors.New("invalid address ID")
	}
	if err := uc.userRepo.SetMainAddress(userID, addressID); err != nil {
		uc.log.Errorf("Use Case: Repository failed to set main address %d for user %d: %v", addressID, userID, err)
		return err
	}
	uc.log.Infof("Use Case: Main address set to %d for user %d", addressID, userID)
	return nil
}

func (uc *userUseCase) ListAdmins() ([]domain.User, error) {
	admins, err := uc.userRepo.ListUsersByRole(domain.RoleAdmin)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list admins: %v", err)
		return nil, err
	}
	return admins, nil
}

func (uc *userUseCase) CreateAdmin(name, phone, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	phone = normalizePhone(phone)

	if name == "" {
		return nil, errors.New("admin name cannot be empty")
	}
	if !isValidPhone(phone) {
		return nil, errors.New("invalid phone format")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("internal error processing password: %w", err)
	}

	admin := &domain.User{
		Name:         name,
		Phone:        phone,
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleAdmin,
	}
	created, err := uc.userRepo.CreateUser(admin)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create admin %s: %v", phone, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Admin created successfully. ID: %d, Phone: %s", created.ID, created.Phone)
	return created, nil
}

func (uc *userUseCase) DeleteAdmin(id int64) error {
	if id <= 0 {
		return errors.New("invalid admin ID")
	}

	user, err := uc.userRepo.GetUserByID(id)
	if err != nil {
		return err
	}
	if user.Role != domain.RoleAdmin {
		uc.log.Warnf("Use Case: Attempted to delete non-admin user %d via admin management", id)
		return fmt.Errorf("user with id %d is not an admin", id)
	}

	if err := uc.userRepo.DeleteUser(id); err != nil {
		uc.log.Errorf("Use Case: Repository failed to delete admin %d: %v", id, err)
		return err
	}
	uc.log.Infof("Use Case: Admin %d deleted", id)
	return nil
}

// --- Helper Functions ---

func normalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	var b strings.Builder
	for i, r := range phone {
		if unicode.IsDigit(r) || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isValidPhone(phone string) bool {
	digits := strings.TrimPrefix(phone, "+")
	if len(digits) < 9 || len(digits) > 15 {
		return false
	}
	for _, r := range digits {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// isValidEmail provides a basic check for email format.
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}
	domainParts := strings.Split(parts[1], ".")
	return len(domainParts) >= 2 && domainParts[0] != "" && domainParts[len(domainParts)-1] != ""
}

// validatePassword enforces basic password complexity rules.
func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}
	if !hasUpper {
		return errors.New("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return errors.New("password must contain at least one lowercase letter")
	}
	if !hasDigit {
		return errors.New("password must contain at least one digit")
	}
	return nil
}
