package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/user"
	emailsvc "github.com/trezcool/mahudhurio/services/email"
	inmemdb "github.com/trezcool/mahudhurio/storage/database/inmem"
	testutil "github.com/trezcool/mahudhurio/tests"
)

func newSvc(t *testing.T, repos ...user.Repository) (*user.Service, user.Repository) {
	t.Helper()

	repo := user.Repository(inmemdb.NewUserRepository(inmemdb.New()))
	if len(repos) > 0 {
		repo = repos[0]
	}

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	conf := testutil.NewConfig()
	return user.NewService(repo, emailsvc.NewConsoleService(conf), validate, conf), repo
}

func TestService_Register(t *testing.T) {
	svc, repo := newSvc(t)
	ctx := context.Background()

	nu := user.NewUser{FullName: "  Awe Lol ", Email: "AWE@Test.CD", Password: "secret"}
	if err := nu.Validate(ctx, svc); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if nu.FullName != "Awe Lol" {
		t.Errorf("full name not cleaned: %q", nu.FullName)
	}
	if nu.Email != "awe@test.cd" {
		t.Errorf("email not lowercased: %q", nu.Email)
	}
	if nu.Role != user.RoleStudent {
		t.Errorf("role = %q; want default %q", nu.Role, user.RoleStudent)
	}

	usr, err := svc.Register(ctx, nu)
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if usr.ID == "" {
		t.Error("no ID assigned")
	}
	if !usr.IsActive {
		t.Error("account is not active")
	}
	if err := usr.CheckPassword("secret"); err != nil {
		t.Errorf("CheckPassword() failed: %v", err)
	}
	if err := usr.CheckPassword("lol"); err == nil {
		t.Error("CheckPassword() accepted a wrong password")
	}

	// duplicate email is caught on validation
	dup := user.NewUser{FullName: "Other", Email: "awe@test.cd", Password: "secret"}
	err = dup.Validate(ctx, svc)
	if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
		t.Fatalf("Validate() error = %v, want ValidationError", err)
	}

	// the stored account can be fetched back
	if _, err := repo.GetUserByEmail(ctx, "awe@test.cd"); err != nil {
		t.Errorf("GetUserByEmail() failed: %v", err)
	}
}

func TestService_Authenticate(t *testing.T) {
	svc, repo := newSvc(t)
	ctx := context.Background()

	testutil.CreateUser(t, repo, "User", "awe@test.cd", "secret", user.RoleStudent, true)
	testutil.CreateUser(t, repo, "N Dog", "ndog@test.cd", "secret", user.RoleStudent, false)

	tests := []struct {
		name    string
		email   string
		pwd     string
		wantErr error
	}{
		{name: "unknown email", email: "lol@test.cd", pwd: "secret", wantErr: user.ErrInvalidCredentials},
		{name: "wrong password", email: "awe@test.cd", pwd: "lol", wantErr: user.ErrInvalidCredentials},
		{name: "inactive account", email: "ndog@test.cd", pwd: "secret", wantErr: user.ErrAccountInactive},
		{name: "email is case-insensitive", email: "AWE@Test.CD", pwd: "secret"},
		{name: "success", email: "awe@test.cd", pwd: "secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := svc.Authenticate(ctx, tt.email, tt.pwd)
			if errors.Cause(err) != tt.wantErr {
				t.Fatalf("Authenticate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && usr.LastLogin.IsZero() {
				t.Error("last login was not set")
			}
		})
	}
}

func TestService_Register_sendsWelcomeEmail(t *testing.T) {
	svc, _ := newSvc(t)

	nu := user.NewUser{FullName: "Awe Lol", Email: "welcome@test.cd", Password: "secret", Role: user.RoleStudent}
	if _, err := svc.Register(context.Background(), nu); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	// delivery is async
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, msg := range emailsvc.Sent() {
			for _, to := range msg.To {
				if to.Address == "welcome@test.cd" {
					return
				}
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("welcome email was not sent")
}

// cancelAwareRepo surfaces the caller's context state from the uniqueness check.
type cancelAwareRepo struct {
	user.Repository
}

func (repo cancelAwareRepo) CheckEmailUniqueness(ctx context.Context, _ string, _ ...user.User) error {
	return ctx.Err()
}

func TestNewUser_Validate_callerCancellation(t *testing.T) {
	svc, _ := newSvc(t, cancelAwareRepo{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	nu := user.NewUser{FullName: "Awe Lol", Email: "awe@test.cd", Password: "secret"}
	if err := nu.Validate(ctx, svc); errors.Cause(err) != context.Canceled {
		t.Errorf("Validate() error = %v, want context.Canceled", err)
	}
}
