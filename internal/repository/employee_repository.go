package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/employee-service/internal/domain"
)

// EmployeeFilter captures list query parameters. Department and Role are
// matched case-insensitively as exact values; both set means AND.
type EmployeeFilter struct {
	Department *string
	Role       *string
	Limit      int
	Offset     int
}

// EmployeeRepository encapsulates employee persistence.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	Update(ctx context.Context, employee *domain.Employee) error
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, error)
	Count(ctx context.Context, filter EmployeeFilter) (int64, error)
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
	DistinctDepartments(ctx context.Context) ([]string, error)
	DistinctRoles(ctx context.Context) ([]string, error)
}

type employeeRepository struct {
	db Querier
}

// NewEmployeeRepository returns a Postgres-backed implementation.
func NewEmployeeRepository(db Querier) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	const query = `
        INSERT INTO employees (name, email, department, role)
        VALUES ($1, $2, $3, $4)
        RETURNING id, date_joined`

	return r.db.QueryRow(ctx, query,
		employee.Name,
		employee.Email,
		employee.Department,
		employee.Role,
	).Scan(&employee.ID, &employee.DateJoined)
}

func (r *employeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	const query = `
        UPDATE employees SET name=$1, email=$2, department=$3, role=$4
        WHERE id=$5`

	cmd, err := r.db.Exec(ctx, query,
		employee.Name,
		employee.Email,
		employee.Department,
		employee.Role,
		employee.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	const query = `
        SELECT id, name, email, department, role, date_joined
        FROM employees WHERE id=$1`

	var employee domain.Employee
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&employee.ID,
		&employee.Name,
		&employee.Email,
		&employee.Department,
		&employee.Role,
		&employee.DateJoined,
	); err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM employees WHERE id=$1`

	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, error) {
	base := `SELECT id, name, email, department, role, date_joined FROM employees`
	clauses, args := filterClauses(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY date_joined DESC, id DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEmployees(rows)
}

func (r *employeeRepository) Count(ctx context.Context, filter EmployeeFilter) (int64, error) {
	clauses, args := filterClauses(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM employees WHERE %s`, strings.Join(clauses, " AND "))

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *employeeRepository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM employees WHERE email=$1 AND id<>$2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *employeeRepository) DistinctDepartments(ctx context.Context) ([]string, error) {
	const query = `
        SELECT DISTINCT department FROM employees
        WHERE department IS NOT NULL AND department <> ''
        ORDER BY department`
	return r.distinctValues(ctx, query)
}

func (r *employeeRepository) DistinctRoles(ctx context.Context) ([]string, error) {
	const query = `
        SELECT DISTINCT role FROM employees
        WHERE role IS NOT NULL AND role <> ''
        ORDER BY role`
	return r.distinctValues(ctx, query)
}

func (r *employeeRepository) distinctValues(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, rows.Err()
}

func filterClauses(filter EmployeeFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("LOWER(department)=LOWER($%d)", len(args)))
	}
	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("LOWER(role)=LOWER($%d)", len(args)))
	}
	return clauses, args
}

func scanEmployees(rows pgx.Rows) ([]domain.Employee, error) {
	var result []domain.Employee
	for rows.Next() {
		var employee domain.Employee
		if err := rows.Scan(
			&employee.ID,
			&employee.Name,
			&employee.Email,
			&employee.Department,
			&employee.Role,
			&employee.DateJoined,
		); err != nil {
			return nil, err
		}
		result = append(result, employee)
	}
	return result, rows.Err()
}
