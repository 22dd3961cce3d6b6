// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/blogspace/internal/core"
)

type fakeUserRepo struct {
	users map[string]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *User) error {
	for _, existing := range f.users {
		if existing.Phone == u.Phone || existing.Username == u.Username {
			return core.ErrDuplicateKey
		}
	}
	stored := *u
	f.users[u.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*User, error) {
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeUserRepo) GetActiveByPhone(
	_ context.Context,
	phone string,
) (*User, error) {
	for _, u := range f.users {
		if u.Phone == phone && u.IsActive {
			copied := *u
			return &copied, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeUserRepo) GetByUsername(
	_ context.Context,
	username string,
) (*User, error) {
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u *User) error {
	if _, ok := f.users[u.ID]; !ok {
		return core.ErrNotFound
	}
	stored := *u
	f.users[u.ID] = &stored
	return nil
}

func (f *fakeUserRepo) UpdatePassword(
	_ context.Context,
	id, passwordHash string,
) error {
	u, ok := f.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) Deactivate(_ context.Context, id string) error {
	u, ok := f.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.IsActive = false
	return nil
}

func (f *fakeUserRepo) List(
	_ context.Context,
	_ ListUsersParams,
) ([]User, int, error) {
	var out []User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func validRegistration() RegisterRequest {
	return RegisterRequest{
		Phone:     "09123456789",
		Email:     "Sara@Example.COM",
		Username:  "sara",
		Password:  "correct horse",
		Password2: "correct horse",
	}
}

func TestValidPhone(t *testing.T) {
	valid := []string{"09123456789", "09000000000", "09999999999"}
	for _, phone := range valid {
		assert.True(t, ValidPhone(phone), "phone %q", phone)
	}

	invalid := []string{
		"",
		"0912345678",    // too short
		"091234567890",  // too long
		"08123456789",   // wrong prefix
		"9123456789",    // missing leading zero
		"09abc456789",   // non-digit
		"+989123456789", // international form
	}
	for _, phone := range invalid {
		assert.False(t, ValidPhone(phone), "phone %q", phone)
	}
}

func TestRegisterRejectsInvalidPhone(t *testing.T) {
	svc := NewService(newFakeUserRepo())

	req := validRegistration()
	req.Phone = "12345678901"

	_, err := svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidPhone)
}

func TestRegisterHashesPasswordAndLowercasesEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	u, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	assert.Equal(t, "sara@example.com", u.Email)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "correct horse", u.PasswordHash)
	assert.NotEmpty(t, u.PasswordHash)
}

func TestRegisterDuplicatePhone(t *testing.T) {
	svc := NewService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	dup := validRegistration()
	dup.Username = "other"
	_, err = svc.Register(ctx, dup)
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestVerifyCredentials(t *testing.T) {
	svc := NewService(newFakeUserRepo())
	ctx := context.Background()

	registered, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	u, err := svc.VerifyCredentials(ctx, registered.Phone, "correct horse")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	_, err = svc.VerifyCredentials(ctx, registered.Phone, "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown phones fail the same way as bad passwords.
	_, err = svc.VerifyCredentials(ctx, "09999999999", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyCredentialsDeactivatedAccount(t *testing.T) {
	svc := NewService(newFakeUserRepo())
	ctx := context.Background()

	registered, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateUser(ctx, registered.ID))

	_, err = svc.VerifyCredentials(ctx, registered.Phone, "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateUserPartialFields(t *testing.T) {
	svc := NewService(newFakeUserRepo())
	ctx := context.Background()

	registered, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	email := "New@Example.com"
	updated, err := svc.UpdateUser(ctx, registered.ID, UpdateUserRequest{
		Email: &email,
	})
	require.NoError(t, err)

	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, registered.Username, updated.Username,
		"untouched fields survive a partial update")
}
