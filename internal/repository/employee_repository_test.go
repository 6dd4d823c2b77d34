package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"

	"github.com/spec-kit/employee-service/internal/domain"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, EmployeeRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock, NewEmployeeRepository(mock)
}

func TestEmployeeRepository_Create(t *testing.T) {
	t.Parallel()

	mock, repo := newMockRepo(t)
	joined := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO employees").
		WithArgs("Alice", "alice@test.com", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "date_joined"}).AddRow(int64(1), joined))

	employee := &domain.Employee{Name: "Alice", Email: "alice@test.com"}
	if err := repo.Create(context.Background(), employee); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if employee.ID != 1 || !employee.DateJoined.Equal(joined) {
		t.Fatalf("expected assigned id and date_joined, got %+v", employee)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_GetByID_NoRows(t *testing.T) {
	t.Parallel()

	mock, repo := newMockRepo(t)

	mock.ExpectQuery("SELECT id, name, email, department, role, date_joined").
		WithArgs(int64(999)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 999)
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows, got %v", err)
	}
}

func TestEmployeeRepository_Update_NoRows(t *testing.T) {
	t.Parallel()

	mock, repo := newMockRepo(t)

	mock.ExpectExec("UPDATE employees").
		WithArgs("Alice", "alice@test.com", pgxmock.AnyArg(), pgxmock.AnyArg(), int64(999)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &domain.Employee{ID: 999, Name: "Alice", Email: "alice@test.com"})
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows for zero rows affected, got %v", err)
	}
}

func TestEmployeeRepository_Delete(t *testing.T) {
	t.Parallel()

	mock, repo := newMockRepo(t)

	mock.ExpectExec("DELETE FROM employees").
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM employees").
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.Delete(context.Background(), 5); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := repo.Delete(context.Background(), 5); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows on second delete, got %v", err)
	}
}

func TestEmployeeRepository_List_WithFilters(t *testing.T) {
	t.Parallel()

	mock, repo := newMockRepo(t)
	hr := "HR"
	manager := "Manager"
	joined := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{"id", "name", "email", "department", "role", "date_joined"}).
		AddRow(int64(2), "Bob", "bob@test.com", &hr, &manager, joined).
		AddRow(int64(1), "Alice", "alice@test.com", &hr, nil, joined.AddDate(0, 0, -1))

	mock.ExpectQuery("FROM employees WHERE 1=1 AND LOWER\\(department\\)=LOWER\\(\\$1\\) AND LOWER\\(role\\)=LOWER\\(\\$2\\)").
		WithArgs("hr", "manager").
		WillReturnRows(rows)

	dept, role := "hr", "manager"
	employees, err := repo.List(context.Background(), EmployeeFilter{
		Department: &dept,
		Role:       &role,
		Limit:      10,
	})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(employees) != 2 {
		t.Fatalf("expected 2 employees, got %d", len(employees))
	}
	if employees[0].Name != "Bob" || employees[0].Department == nil || *employees[0].Department != "HR" {
		t.Fatalf("unexpected first employee %+v", employees[0])
	}
	if employees[1].Role != nil {
		t.Fatalf("expected nil role, got %+v", employees[1].Role)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_Count(t *testing.T) {
	t.Parallel()

	mock, repo := newMockRepo(t)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM employees").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(25)))

	count, err := repo.Count(context.Background(), EmployeeFilter{})
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if count != 25 {
		t.Fatalf("expected 25, got %d", count)
	}
}

func TestEmployeeRepository_EmailExists(t *testing.T) {
	t.Parallel()

	mock, repo := newMockRepo(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("alice@test.com", int64(0)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.EmailExists(context.Background(), "alice@test.com", 0)
	if err != nil {
		t.Fatalf("EmailExists error: %v", err)
	}
	if !exists {
		t.Fatal("expected email to exist")
	}
}

func TestEmployeeRepository_DistinctDepartments(t *testing.T) {
	t.Parallel()

	mock, repo := newMockRepo(t)

	mock.ExpectQuery("SELECT DISTINCT department FROM employees").
		WillReturnRows(pgxmock.NewRows([]string{"department"}).AddRow("Engineering").AddRow("HR"))

	values, err := repo.DistinctDepartments(context.Background())
	if err != nil {
		t.Fatalf("DistinctDepartments error: %v", err)
	}
	if len(values) != 2 || values[0] != "Engineering" || values[1] != "HR" {
		t.Fatalf("unexpected values %v", values)
	}
}
