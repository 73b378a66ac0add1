package usecase

import (
	"testing"
	"time"

	"mixmall_backend/internal/auth"
	"mixmall_backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserEnv() (domain.UserUseCase, *fakeUserRepo) {
	store := newFakeStore()
	repo := &fakeUserRepo{s: store}
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewUserUseCase(repo, tokens, testLogger()), repo
}

func TestRegister(t *testing.T) {
	uc, _ := newUserEnv()

	result, err := uc.Register("Aziz", "+998901234567", "aziz@example.com", "Password1")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, domain.RoleCustomer, result.User.Role)
	assert.Equal(t, "+998901234567", result.User.Phone)

	// The issued token carries the user's identity.
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	claims, err := tokens.Parse(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, domain.RoleCustomer, claims.Role)
}

func TestRegisterValidation(t *testing.T) {
	uc, _ := newUserEnv()

	testCases := []struct {
		name     string
		userName string
		phone    string
		password string
		wantErr  string
	}{
		{"empty name", "", "+998901234567", "Password1", "name cannot be empty"},
		{"short phone", "Aziz", "+9989", "Password1", "invalid phone format"},
		{"overlong phone", "Aziz", "+99890123456789012345", "Password1", "invalid phone format"},
		{"short password", "Aziz", "+998901234567", "Pw1", "at least 8 characters"},
		{"no uppercase", "Aziz", "+998901234567", "password1", "uppercase"},
		{"no digit", "Aziz", "+998901234567", "Passwordd", "digit"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Register(tc.userName, tc.phone, "", tc.password)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	uc, _ := newUserEnv()

	_, err := uc.Register("Aziz", "+998901234567", "", "Password1")
	require.NoError(t, err)

	_, err = uc.Register("Bek", "+998901234567", "", "Password2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestLogin(t *testing.T) {
	uc, _ := newUserEnv()

	registered, err := uc.Register("Aziz", "+998901234567", "", "Password1")
	require.NoError(t, err)

	result, err := uc.Login("+998901234567", "Password1")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, result.User.ID)
	assert.NotEmpty(t, result.Token)
}

func TestLoginFailures(t *testing.T) {
	uc, _ := newUserEnv()

	_, err := uc.Register("Aziz", "+998901234567", "", "Password1")
	require.NoError(t, err)

	// Wrong password and unknown phone produce the same opaque error.
	_, err = uc.Login("+998901234567", "WrongPass1")
	require.Error(t, err)
	assert.EqualError(t, err, "invalid phone or password")

	_, err = uc.Login("+998900000000", "Password1")
	require.Error(t, err)
	assert.EqualError(t, err, "invalid phone or password")
}

func TestUpdateProfileRejectsUnknownAndInvalidFields(t *testing.T) {
	uc, _ := newUserEnv()
	registered, err := uc.Register("Aziz", "+998901234567", "", "Password1")
	require.NoError(t, err)

	_, err = uc.UpdateProfile(registered.User.ID, map[string]interface{}{"name": ""})
	require.Error(t, err)

	updated, err := uc.UpdateProfile(registered.User.ID, map[string]interface{}{
		"name":  "Azizbek",
		"email": "azizbek@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Azizbek", updated.Name)
	assert.Equal(t, "azizbek@example.com", updated.Email)
}

func TestFirstAddressBecomesMain(t *testing.T) {
	uc, _ := newUserEnv()
	registered, err := uc.Register("Aziz", "+998901234567", "", "Password1")
	require.NoError(t, err)
	userID := registered.User.ID

	first, err := uc.AddAddress(userID, &domain.Address{Address: "Amir Temur 42"})
	require.NoError(t, err)
	assert.True(t, first.IsMain)

	second, err := uc.AddAddress(userID, &domain.Address{Address: "Navoi 15"})
	require.NoError(t, err)
	assert.False(t, second.IsMain)

	// A caller-supplied flag does not smuggle in a second main address.
	third, err := uc.AddAddress(userID, &domain.Address{Address: "Chilonzor 9", IsMain: true})
	require.NoError(t, err)
	assert.False(t, third.IsMain)

	// Switching main clears the old flag.
	require.NoError(t, uc.SetMainAddress(userID, second.ID))
	profile, err := uc.GetProfile(userID)
	require.NoError(t, err)
	mainCount := 0
	for _, addr := range profile.Addresses {
		if addr.IsMain {
			mainCount++
			assert.Equal(t, second.ID, addr.ID)
		}
	}
	assert.Equal(t, 1, mainCount)
}

func TestAdminManagement(t *testing.T) {
	uc, _ := newUserEnv()

	admin, err := uc.CreateAdmin("Admin", "+998909999999", "Password1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)

	customer, err := uc.Register("Aziz", "+998901234567", "", "Password1")
	require.NoError(t, err)

	admins, err := uc.ListAdmins()
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, admin.ID, admins[0].ID)

	// A customer account cannot be deleted through admin management.
	err = uc.DeleteAdmin(customer.User.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not an admin")

	require.NoError(t, uc.DeleteAdmin(admin.ID))
	admins, err = uc.ListAdmins()
	require.NoError(t, err)
	assert.Empty(t, admins)
}
