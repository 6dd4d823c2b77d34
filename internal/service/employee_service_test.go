package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/events"
	"github.com/spec-kit/employee-service/internal/repository"
	apperrors "github.com/spec-kit/employee-service/pkg/util"
)

type fakeEmployeeRepo struct {
	employees   map[int64]*domain.Employee
	sequence    int64
	now         time.Time
	forceUnique bool
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{
		employees: make(map[int64]*domain.Employee),
		now:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func cloneEmployee(e *domain.Employee) *domain.Employee {
	clone := *e
	if e.Department != nil {
		v := *e.Department
		clone.Department = &v
	}
	if e.Role != nil {
		v := *e.Role
		clone.Role = &v
	}
	return &clone
}

func (r *fakeEmployeeRepo) Create(_ context.Context, e *domain.Employee) error {
	if r.forceUnique {
		return &pgconn.PgError{Code: "23505"}
	}
	for _, existing := range r.employees {
		if existing.Email == e.Email {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	r.sequence++
	e.ID = r.sequence
	e.DateJoined = r.now.AddDate(0, 0, int(r.sequence))
	r.employees[e.ID] = cloneEmployee(e)
	return nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, e *domain.Employee) error {
	if _, ok := r.employees[e.ID]; !ok {
		return pgx.ErrNoRows
	}
	for _, existing := range r.employees {
		if existing.ID != e.ID && existing.Email == e.Email {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	stored := r.employees[e.ID]
	clone := cloneEmployee(e)
	clone.DateJoined = stored.DateJoined
	r.employees[e.ID] = clone
	return nil
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id int64) (*domain.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneEmployee(e), nil
}

func (r *fakeEmployeeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.employees[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.employees, id)
	return nil
}

func (r *fakeEmployeeRepo) matches(e *domain.Employee, filter repository.EmployeeFilter) bool {
	if filter.Department != nil {
		if e.Department == nil || !strings.EqualFold(*e.Department, *filter.Department) {
			return false
		}
	}
	if filter.Role != nil {
		if e.Role == nil || !strings.EqualFold(*e.Role, *filter.Role) {
			return false
		}
	}
	return true
}

func (r *fakeEmployeeRepo) filtered(filter repository.EmployeeFilter) []domain.Employee {
	var result []domain.Employee
	for _, e := range r.employees {
		if r.matches(e, filter) {
			result = append(result, *cloneEmployee(e))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].DateJoined.Equal(result[j].DateJoined) {
			return result[i].DateJoined.After(result[j].DateJoined)
		}
		return result[i].ID > result[j].ID
	})
	return result
}

func (r *fakeEmployeeRepo) List(_ context.Context, filter repository.EmployeeFilter) ([]domain.Employee, error) {
	all := r.filtered(filter)
	if filter.Offset >= len(all) {
		return nil, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[filter.Offset:end], nil
}

func (r *fakeEmployeeRepo) Count(_ context.Context, filter repository.EmployeeFilter) (int64, error) {
	return int64(len(r.filtered(filter))), nil
}

func (r *fakeEmployeeRepo) EmailExists(_ context.Context, email string, excludeID int64) (bool, error) {
	for _, e := range r.employees {
		if e.Email == email && e.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEmployeeRepo) DistinctDepartments(_ context.Context) ([]string, error) {
	return r.distinct(func(e *domain.Employee) *string { return e.Department })
}

func (r *fakeEmployeeRepo) DistinctRoles(_ context.Context) ([]string, error) {
	return r.distinct(func(e *domain.Employee) *string { return e.Role })
}

func (r *fakeEmployeeRepo) distinct(get func(*domain.Employee) *string) ([]string, error) {
	seen := map[string]struct{}{}
	values := []string{}
	for _, e := range r.employees {
		v := get(e)
		if v == nil || *v == "" {
			continue
		}
		if _, ok := seen[*v]; ok {
			continue
		}
		seen[*v] = struct{}{}
		values = append(values, *v)
	}
	sort.Strings(values)
	return values, nil
}

func assertErrType(t *testing.T, err error, wantType string) *apperrors.AppError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", wantType)
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Type != wantType {
		t.Fatalf("expected error type %s, got %s (%v)", wantType, appErr.Type, appErr)
	}
	return appErr
}

func TestEmployeeService_Create(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(repo, nil, 10)

	employee, err := svc.Create(context.Background(), events.Actor{}, EmployeeInput{
		Name:  strPtr("Alice"),
		Email: strPtr("alice@test.com"),
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if employee.ID == 0 {
		t.Fatal("expected an assigned id")
	}
	if employee.DateJoined.IsZero() {
		t.Fatal("expected an assigned date_joined")
	}
	if employee.Email != "alice@test.com" {
		t.Fatalf("unexpected email %q", employee.Email)
	}
}

func TestEmployeeService_Create_DuplicateEmail(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(repo, nil, 10)
	ctx := context.Background()

	if _, err := svc.Create(ctx, events.Actor{}, EmployeeInput{Name: strPtr("Alice"), Email: strPtr("alice@test.com")}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	_, err := svc.Create(ctx, events.Actor{}, EmployeeInput{Name: strPtr("Alice 2"), Email: strPtr("alice@test.com")})
	appErr := assertErrType(t, err, apperrors.TypeValidation)
	if len(appErr.Fields["email"]) == 0 {
		t.Fatalf("expected errors.email, got %v", appErr.Fields)
	}
	if len(repo.employees) != 1 {
		t.Fatalf("expected record count unchanged, got %d", len(repo.employees))
	}
}

func TestEmployeeService_Create_UniqueRaceIsIntegrityError(t *testing.T) {
	repo := newFakeEmployeeRepo()
	repo.forceUnique = true
	svc := NewEmployeeService(repo, nil, 10)

	_, err := svc.Create(context.Background(), events.Actor{}, EmployeeInput{Name: strPtr("Alice"), Email: strPtr("alice@test.com")})
	appErr := assertErrType(t, err, apperrors.TypeIntegrity)
	if appErr.HTTPStatus != 400 {
		t.Fatalf("expected 400, got %d", appErr.HTTPStatus)
	}
	if len(appErr.Fields["email"]) == 0 {
		t.Fatalf("expected errors.email, got %v", appErr.Fields)
	}
}

func TestEmployeeService_Create_AccumulatesAllViolations(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(repo, nil, 10)

	_, err := svc.Create(context.Background(), events.Actor{}, EmployeeInput{})
	appErr := assertErrType(t, err, apperrors.TypeValidation)
	if len(appErr.Fields["name"]) == 0 || len(appErr.Fields["email"]) == 0 {
		t.Fatalf("expected both name and email violations, got %v", appErr.Fields)
	}
}

func TestEmployeeService_Create_PublishesEvent(t *testing.T) {
	repo := newFakeEmployeeRepo()
	dispatcher := events.NewInMemoryDispatcher()

	var published []events.Event
	dispatcher.Subscribe(events.EventEmployeeCreated, func(_ context.Context, event events.Event) error {
		published = append(published, event)
		return nil
	})

	svc := NewEmployeeService(repo, dispatcher, 10)
	actor := events.Actor{UserID: 7, Username: "admin"}

	employee, err := svc.Create(context.Background(), actor, EmployeeInput{Name: strPtr("Alice"), Email: strPtr("alice@test.com")})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if len(published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(published))
	}
	if published[0].EmployeeID != employee.ID || published[0].Actor.Username != "admin" {
		t.Fatalf("unexpected event %+v", published[0])
	}
}

func TestEmployeeService_List_Pagination(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(repo, nil, 10)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		_, err := svc.Create(ctx, events.Actor{}, EmployeeInput{
			Name:  strPtr(fmt.Sprintf("Emp%d", i+1)),
			Email: strPtr(fmt.Sprintf("e%d@test.com", i+1)),
		})
		if err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}

	page1, err := svc.List(ctx, EmployeeListQuery{Page: 1})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if page1.Count != 25 || page1.TotalPages != 3 || page1.PageSize != 10 {
		t.Fatalf("unexpected pagination meta: %+v", page1)
	}
	if len(page1.Employees) != 10 {
		t.Fatalf("expected 10 employees on page 1, got %d", len(page1.Employees))
	}
	for i := 1; i < len(page1.Employees); i++ {
		prev, cur := page1.Employees[i-1], page1.Employees[i]
		if cur.DateJoined.After(prev.DateJoined) {
			t.Fatalf("expected date_joined descending, got %v before %v", prev.DateJoined, cur.DateJoined)
		}
	}

	page3, err := svc.List(ctx, EmployeeListQuery{Page: 3})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(page3.Employees) != 5 {
		t.Fatalf("expected 5 employees on page 3, got %d", len(page3.Employees))
	}
}

func TestEmployeeService_List_FilterCaseInsensitive(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(repo, nil, 10)
	ctx := context.Background()

	if _, err := svc.Create(ctx, events.Actor{}, EmployeeInput{Name: strPtr("HR Emp"), Email: strPtr("hr@test.com"), Department: strPtr("HR")}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := svc.Create(ctx, events.Actor{}, EmployeeInput{Name: strPtr("Tech Emp"), Email: strPtr("tech@test.com"), Department: strPtr("Engineering")}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	result, err := svc.List(ctx, EmployeeListQuery{Department: strPtr("hr")})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if result.Count != 1 || len(result.Employees) != 1 {
		t.Fatalf("expected exactly one HR employee, got %+v", result)
	}
	if result.Employees[0].Email != "hr@test.com" {
		t.Fatalf("unexpected employee %+v", result.Employees[0])
	}
}

func TestEmployeeService_Get_NotFound(t *testing.T) {
	svc := NewEmployeeService(newFakeEmployeeRepo(), nil, 10)

	_, err := svc.Get(context.Background(), 999)
	appErr := assertErrType(t, err, apperrors.TypeNotFound)
	if appErr.HTTPStatus != 404 {
		t.Fatalf("expected 404, got %d", appErr.HTTPStatus)
	}
}

func TestEmployeeService_Update_Partial(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(repo, nil, 10)
	ctx := context.Background()

	created, err := svc.Create(ctx, events.Actor{}, EmployeeInput{Name: strPtr("Old Name"), Email: strPtr("old@test.com")})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	updated, err := svc.Update(ctx, events.Actor{}, created.ID, EmployeeInput{Department: strPtr("Finance")})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Department == nil || *updated.Department != "Finance" {
		t.Fatalf("expected department Finance, got %+v", updated.Department)
	}
	if updated.Name != "Old Name" || updated.Email != "old@test.com" {
		t.Fatalf("expected unsupplied fields unchanged, got %+v", updated)
	}
	if updated.ID != created.ID || !updated.DateJoined.Equal(created.DateJoined) {
		t.Fatalf("expected id and date_joined invariant, got %+v", updated)
	}
}

func TestEmployeeService_Update_OwnEmailNoop(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(repo, nil, 10)
	ctx := context.Background()

	created, err := svc.Create(ctx, events.Actor{}, EmployeeInput{Name: strPtr("Alice"), Email: strPtr("alice@test.com")})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := svc.Update(ctx, events.Actor{}, created.ID, EmployeeInput{Email: strPtr("alice@test.com")}); err != nil {
		t.Fatalf("expected no-op email update to succeed: %v", err)
	}
}

func TestEmployeeService_Update_DuplicateEmail(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(repo, nil, 10)
	ctx := context.Background()

	if _, err := svc.Create(ctx, events.Actor{}, EmployeeInput{Name: strPtr("Alice"), Email: strPtr("alice@test.com")}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	bob, err := svc.Create(ctx, events.Actor{}, EmployeeInput{Name: strPtr("Bob"), Email: strPtr("bob@test.com")})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	_, err = svc.Update(ctx, events.Actor{}, bob.ID, EmployeeInput{Email: strPtr("alice@test.com")})
	appErr := assertErrType(t, err, apperrors.TypeValidation)
	if len(appErr.Fields["email"]) == 0 {
		t.Fatalf("expected errors.email, got %v", appErr.Fields)
	}
}

func TestEmployeeService_Update_NotFound(t *testing.T) {
	svc := NewEmployeeService(newFakeEmployeeRepo(), nil, 10)

	_, err := svc.Update(context.Background(), events.Actor{}, 999, EmployeeInput{Name: strPtr("New")})
	assertErrType(t, err, apperrors.TypeNotFound)
}

func TestEmployeeService_Delete(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(repo, nil, 10)
	ctx := context.Background()

	created, err := svc.Create(ctx, events.Actor{}, EmployeeInput{Name: strPtr("Delete Me"), Email: strPtr("delete@test.com")})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	snapshot, err := svc.Delete(ctx, events.Actor{}, created.ID)
	if err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if snapshot.ID != created.ID || snapshot.Name != "Delete Me" || snapshot.Email != "delete@test.com" {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}

	_, err = svc.Get(ctx, created.ID)
	assertErrType(t, err, apperrors.TypeNotFound)
}

func TestEmployeeService_Delete_NotFound(t *testing.T) {
	svc := NewEmployeeService(newFakeEmployeeRepo(), nil, 10)

	_, err := svc.Delete(context.Background(), events.Actor{}, 999)
	assertErrType(t, err, apperrors.TypeNotFound)
}

func TestEmployeeService_DistinctValues(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(repo, nil, 10)
	ctx := context.Background()

	inputs := []EmployeeInput{
		{Name: strPtr("A"), Email: strPtr("a@test.com"), Department: strPtr("HR"), Role: strPtr("Manager")},
		{Name: strPtr("B"), Email: strPtr("b@test.com"), Department: strPtr("HR"), Role: strPtr("Analyst")},
		{Name: strPtr("C"), Email: strPtr("c@test.com"), Department: strPtr("Engineering")},
	}
	for _, input := range inputs {
		if _, err := svc.Create(ctx, events.Actor{}, input); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}

	departments, err := svc.Departments(ctx)
	if err != nil {
		t.Fatalf("Departments error: %v", err)
	}
	if len(departments) != 2 {
		t.Fatalf("expected 2 distinct departments, got %v", departments)
	}

	roles, err := svc.Roles(ctx)
	if err != nil {
		t.Fatalf("Roles error: %v", err)
	}
	if len(roles) != 2 {
		t.Fatalf("expected 2 distinct roles, got %v", roles)
	}
}
