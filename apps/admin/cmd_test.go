package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/mahudhurio/core/user"
	inmemdb "github.com/trezcool/mahudhurio/storage/database/inmem"
)

var usrRepo user.Repository

func setup(t *testing.T) *commandLine {
	t.Helper()

	usrRepo = inmemdb.NewUserRepository(inmemdb.New())
	return &commandLine{
		usrRepo: usrRepo,
	}
}

type cliTest struct {
	name    string
	args    []string // without program name
	wantErr error
	extra   interface{}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	var called bool
	migrateFunc = func(db *sqlx.DB) error {
		called = true
		return nil
	}

	if err := cli.run([]string{"admin", "migrate"}); err != nil {
		t.Fatalf("cli.run() unexpected error = %v", err)
	}
	if !called {
		t.Error("migrate was not invoked")
	}

	wantErr := errors.New("connection refused")
	migrateFunc = func(db *sqlx.DB) error { return wantErr }
	if err := cli.run([]string{"admin", "migrate"}); err != wantErr {
		t.Errorf("cli.run() error = %v, wantErr %v", err, wantErr)
	}
}

func Test_commandLine_addAdmin(t *testing.T) {
	cli := setup(t)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"addadmin"}, wantErr: errHelp},
		{name: "name but no email", args: []string{"addadmin", "-name", "Awe Lol"}, wantErr: errHelp},
		{name: "no password", args: []string{"addadmin", "-name", "Awe Lol", "-email", "awe@test.cd"}, wantErr: errHelp},
		{name: "create admin", args: []string{"addadmin", "-name", "Awe Lol", "-email", "awe@test.cd"}, extra: extra{pwd: "lol"}},
		{name: "update existing admin", args: []string{"addadmin", "-name", "Awe Lol", "-email", "awe@test.cd"}, extra: extra{pwd: "lmao"}},
	}

	var prevHash []byte
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				usr, err := usrRepo.GetUserByEmail(context.Background(), "awe@test.cd")
				if err != nil {
					t.Fatalf("GetUserByEmail() failed, %v", err)
				}
				if usr.Role != user.RoleAdmin {
					t.Errorf("role = %q, want %q", usr.Role, user.RoleAdmin)
				}
				if !usr.IsActive {
					t.Error("account is not active")
				}
				if bytes.Equal(usr.PasswordHash, prevHash) {
					t.Error("failed to set new password")
				}
				prevHash = usr.PasswordHash
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
