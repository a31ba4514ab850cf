package postgres

import (
	"context"

	"github.com/oksasatya/pet-adoption-api/internal/domain/entity"
	"github.com/oksasatya/pet-adoption-api/internal/domain/repository"
)

type ContactRepository struct {
	q querier
}

func (r *ContactRepository) Create(ctx context.Context, c *entity.Contact) error {
	row := r.q.QueryRow(ctx, `
		INSERT INTO contacts (name, email, subject, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, c.Name, c.Email, c.Subject, c.Message)
	return mapErr(row.Scan(&c.ID, &c.CreatedAt))
}

func (r *ContactRepository) List(ctx context.Context) ([]entity.Contact, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, email, subject, message, created_at
		FROM contacts
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	out := make([]entity.Contact, 0)
	for rows.Next() {
		var c entity.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message, &c.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, c)
	}
	return out, mapErr(rows.Err())
}

type FeedbackRepository struct {
	q querier
}

func (r *FeedbackRepository) Create(ctx context.Context, f *entity.Feedback) error {
	row := r.q.QueryRow(ctx, `INSERT INTO feedback (message) VALUES ($1) RETURNING id, created_at`, f.Message)
	return mapErr(row.Scan(&f.ID, &f.CreatedAt))
}

func (r *FeedbackRepository) List(ctx context.Context) ([]entity.Feedback, error) {
	rows, err := r.q.Query(ctx, `SELECT id, message, created_at FROM feedback ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	out := make([]entity.Feedback, 0)
	for rows.Next() {
		var f entity.Feedback
		if err := rows.Scan(&f.ID, &f.Message, &f.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, f)
	}
	return out, mapErr(rows.Err())
}

var (
	_ repository.ContactRepository  = (*ContactRepository)(nil)
	_ repository.FeedbackRepository = (*FeedbackRepository)(nil)
)
