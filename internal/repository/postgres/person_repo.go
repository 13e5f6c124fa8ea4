package postgres

import (
	"context"
	"errors"
	"fmt"

	"matrimony-backend/internal/domain"
	"matrimony-backend/internal/filter"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type personRepo struct {
	db *pgxpool.Pool
}

func NewPersonRepository(db *pgxpool.Pool) domain.PersonRepository {
	return &personRepo{db: db}
}

const personColumns = `id, name, gender, marital_status, religion, gotra, area, state, height,
	complexion, native_place, date_of_birth, education, occupation, father_name, mother_name,
	contact_number, email, address, about, budget, budget_numeric, photos, status, source,
	created_by, created_at, updated_at`

func personArgs(p *domain.Person) []interface{} {
	return []interface{}{
		p.ID, p.Name, p.Gender, p.MaritalStatus, p.Religion, p.Gotra, p.Area, p.State, p.Height,
		p.Complexion, p.NativePlace, p.DateOfBirth, p.Education, p.Occupation, p.FatherName, p.MotherName,
		p.ContactNumber, p.Email, p.Address, p.About, p.Budget, p.BudgetNumeric, pq.Array(p.Photos), p.Status, p.Source,
		p.CreatedBy, p.CreatedAt, p.UpdatedAt,
	}
}

func scanPerson(row pgx.Row) (*domain.Person, error) {
	var p domain.Person
	err := row.Scan(
		&p.ID, &p.Name, &p.Gender, &p.MaritalStatus, &p.Religion, &p.Gotra, &p.Area, &p.State, &p.Height,
		&p.Complexion, &p.NativePlace, &p.DateOfBirth, &p.Education, &p.Occupation, &p.FatherName, &p.MotherName,
		&p.ContactNumber, &p.Email, &p.Address, &p.About, &p.Budget, &p.BudgetNumeric, pq.Array(&p.Photos), &p.Status, &p.Source,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Photos == nil {
		p.Photos = []string{}
	}
	return &p, nil
}

func (r *personRepo) Create(ctx context.Context, p *domain.Person) error {
	query := `INSERT INTO people (` + personColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
		        $21, $22, $23, $24, $25, $26, $27, $28)`
	if _, err := r.db.Exec(ctx, query, personArgs(p)...); err != nil {
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

func (r *personRepo) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	query := `SELECT ` + personColumns + ` FROM people WHERE id = $1`
	p, err := scanPerson(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}
	return p, nil
}

func (r *personRepo) Update(ctx context.Context, p *domain.Person) error {
	query := `UPDATE people SET
		name = $2, gender = $3, marital_status = $4, religion = $5, gotra = $6, area = $7, state = $8,
		height = $9, complexion = $10, native_place = $11, date_of_birth = $12, education = $13,
		occupation = $14, father_name = $15, mother_name = $16, contact_number = $17, email = $18,
		address = $19, about = $20, budget = $21, budget_numeric = $22, photos = $23, status = $24,
		source = $25, created_by = $26, created_at = $27, updated_at = $28
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, personArgs(p)...)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *personRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM people WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *personRepo) List(ctx context.Context, pred filter.Predicate, page, pageSize int) ([]domain.Person, int64, error) {
	query, countQuery, args, err := buildListQuery(pred, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args[:len(args)-pagingArgs(pageSize)]...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count people: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()

	people := []domain.Person{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan person: %w", err)
		}
		people = append(people, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate people: %w", err)
	}
	return people, total, nil
}

func pagingArgs(pageSize int) int {
	if pageSize > 0 {
		return 2
	}
	return 0
}

// buildListQuery returns the page query, the count query and the args for the
// page query. The count query uses every arg except the trailing LIMIT/OFFSET.
func buildListQuery(pred filter.Predicate, page, pageSize int) (string, string, []interface{}, error) {
	where, args, err := whereClause(pred, 1)
	if err != nil {
		return "", "", nil, err
	}
	if where != "" {
		where = " WHERE " + where
	}

	query := `SELECT ` + personColumns + ` FROM people` + where + ` ORDER BY created_at DESC, id DESC`
	countQuery := `SELECT COUNT(*) FROM people` + where

	if pageSize > 0 {
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, pageSize, (page-1)*pageSize)
	}
	return query, countQuery, args, nil
}
