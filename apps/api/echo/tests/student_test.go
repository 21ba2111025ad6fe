package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/mahudhurio/core/student"
	"github.com/trezcool/mahudhurio/core/user"
	testutil "github.com/trezcool/mahudhurio/tests"
)

func Test_studentApi_create(t *testing.T) {
	resetDB(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin, true)
	hero := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent, true)
	adminToken := getToken(t, admin)

	newStd := func(id, name string) []byte {
		return marchallObj(t, student.NewStudent{StudentID: id, Name: name, Faculty: "Science", Department: "CS", Year: 2, Semester: 3})
	}

	tests := []httpTest{
		{name: "auth required", body: newStd("cs-001", "Awe Lol"), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "admin required", token: getToken(t, hero), body: newStd("cs-001", "Awe Lol"),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "empty payload", token: adminToken, body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"student_id": "this field is required",
				"name":       "this field is required",
				"faculty":    "this field is required",
				"department": "this field is required",
				"year":       "this field is required",
				"semester":   "this field is required",
			}),
		},
		{
			name: "student_id too short", token: adminToken, wantCode: http.StatusBadRequest,
			body:     marchallObj(t, student.NewStudent{StudentID: "cs", Name: "Awe Lol", Faculty: "Science", Department: "CS", Year: 2, Semester: 3}),
			wantData: marchallObj(t, map[string]string{"student_id": "student_id must be at least 3 characters in length"}),
		},
		{
			name: "year out of range", token: adminToken, wantCode: http.StatusBadRequest,
			body:     marchallObj(t, student.NewStudent{StudentID: "cs-001", Name: "Awe Lol", Faculty: "Science", Department: "CS", Year: 11, Semester: 3}),
			wantData: marchallObj(t, map[string]string{"year": "year must be 10 or less"}),
		},
		{name: "created; student_id is uppercased", token: adminToken, body: newStd("cs-001", "Awe Lol"), wantCode: http.StatusCreated, extra: "CS-001"},
		{
			name: "duplicate student_id", token: adminToken, body: newStd("CS-001", "Other"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"student_id": "a student with this student ID already exists"}),
		},
		{
			name: "duplicate ignores case", token: adminToken, body: newStd("cs-001", "Other"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"student_id": "a student with this student ID already exists"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/students", tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if wantID, ok := tt.extra.(string); ok {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body = %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var std student.Student
				if err := json.Unmarshal(rec.Body.Bytes(), &std); err != nil {
					t.Fatalf("unmarshaling response: %v", err)
				}
				if std.ID == "" {
					t.Error("response has no ID")
				}
				if std.StudentID != wantID {
					t.Errorf("student_id = %q; want %q", std.StudentID, wantID)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_queryAndRetrieve(t *testing.T) {
	resetDB(t)

	hero := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent, true)
	heroToken := getToken(t, hero)

	std1 := testutil.CreateStudent(t, stdRepo, "CS-001", "Awe Lol", "Science", "CS", 2, 3)
	std2 := testutil.CreateStudent(t, stdRepo, "EE-007", "King Kaka", "Engineering", "EE", 1, 1)

	t.Run("query all", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/students", heroToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, std2, std1)}, rec)
	})

	t.Run("retrieve", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/students/"+std1.ID, heroToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, std1)}, rec)
	})

	t.Run("retrieve unknown", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/students/lol", heroToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}, rec)
	})
}

func Test_studentApi_update(t *testing.T) {
	resetDB(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin, true)
	adminToken := getToken(t, admin)

	std1 := testutil.CreateStudent(t, stdRepo, "CS-001", "Awe Lol", "Science", "CS", 2, 3)
	testutil.CreateStudent(t, stdRepo, "EE-007", "King Kaka", "Engineering", "EE", 1, 1)

	upd := func(id, name string, year int) []byte {
		return marchallObj(t, student.UpdateStudent{StudentID: id, Name: name, Faculty: "Science", Department: "CS", Year: year, Semester: 3})
	}

	tests := []httpTest{
		{
			name: "unknown student", path: "/v1/students/lol", token: adminToken,
			body:     upd("cs-001", "New Name", 2),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "student_id conflict", path: "/v1/students/" + std1.ID, token: adminToken,
			body:     upd("ee-007", "Awe Lol", 2),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"student_id": "a student with this student ID already exists"}),
		},
		{
			name: "own student_id is not a conflict", path: "/v1/students/" + std1.ID, token: adminToken,
			body:     upd("cs-001", "Renamed", 3),
			wantCode: http.StatusOK, extra: "Renamed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if wantName, ok := tt.extra.(string); ok {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body = %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var std student.Student
				if err := json.Unmarshal(rec.Body.Bytes(), &std); err != nil {
					t.Fatalf("unmarshaling response: %v", err)
				}
				if std.Name != wantName {
					t.Errorf("name = %q; want %q", std.Name, wantName)
				}
				if std.Year != 3 {
					t.Errorf("year = %d; want 3", std.Year)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_destroy(t *testing.T) {
	resetDB(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin, true)
	hero := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent, true)
	adminToken := getToken(t, admin)

	std := testutil.CreateStudent(t, stdRepo, "CS-001", "Awe Lol", "Science", "CS", 2, 3)
	rec1 := testutil.CreateRecord(t, attRepo, "CS-001", "Awe Lol", "2026-04-01", "present")

	t.Run("admin required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/students/"+std.ID, getToken(t, hero))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"})}, rec)
	})

	t.Run("deleted", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/students/"+std.ID, adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("already deleted", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/students/"+std.ID, adminToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}, rec)
	})

	t.Run("ledger records survive the roster entry", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/attendance?date=2026-04-01", adminToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, rec1)}, rec)
	})
}
