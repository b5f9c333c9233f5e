package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/recetario/internal/models"
)

var ErrPersonNotFound = errors.New("person not found")

func scanPerson(row pgx.Row, p *models.Person) error {
	return row.Scan(&p.ID, &p.Name, &p.Calories, &p.Protein, &p.Carbs, &p.Fat, &p.Fiber, &p.Sugar, &p.CreatedAt)
}

// ListPersons returns all persons ordered by name
func (db *DB) ListPersons(ctx context.Context) ([]models.Person, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, calories, protein, carbs, fat, fiber, sugar, created_at
		FROM persons
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	persons := []models.Person{}
	for rows.Next() {
		var p models.Person
		if err := scanPerson(rows, &p); err != nil {
			return nil, err
		}
		persons = append(persons, p)
	}
	return persons, rows.Err()
}

// CreatePerson inserts a person with nutrition targets
func (db *DB) CreatePerson(ctx context.Context, req *models.SavePersonRequest) (*models.Person, error) {
	p := &models.Person{}
	n := req.Nutrition
	err := scanPerson(db.Pool.QueryRow(ctx, `
		INSERT INTO persons (id, name, calories, protein, carbs, fat, fiber, sugar, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, name, calories, protein, carbs, fat, fiber, sugar, created_at
	`, uuid.NewString(), req.Name, n.Calories, n.Protein, n.Carbs, n.Fat, n.Fiber, n.Sugar), p)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePerson replaces a person's name and targets
func (db *DB) UpdatePerson(ctx context.Context, id string, req *models.SavePersonRequest) (*models.Person, error) {
	p := &models.Person{}
	n := req.Nutrition
	err := scanPerson(db.Pool.QueryRow(ctx, `
		UPDATE persons
		SET name = $2, calories = $3, protein = $4, carbs = $5, fat = $6, fiber = $7, sugar = $8
		WHERE id = $1
		RETURNING id, name, calories, protein, carbs, fat, fiber, sugar, created_at
	`, id, req.Name, n.Calories, n.Protein, n.Carbs, n.Fat, n.Fiber, n.Sugar), p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}
	return p, nil
}

// DeletePerson deletes a person
func (db *DB) DeletePerson(ctx context.Context, id string) error {
	result, err := db.Pool.Exec(ctx, `DELETE FROM persons WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrPersonNotFound
	}
	return nil
}
