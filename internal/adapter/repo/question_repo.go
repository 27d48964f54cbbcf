package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// QuestionRepositoryPG implements domain.QuestionRepository.
type QuestionRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a question bank repository backed by PostgreSQL.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepositoryPG {
	return &QuestionRepositoryPG{pool: pool}
}

// Add inserts a batch of accepted question records.
func (r *QuestionRepositoryPG) Add(ctx context.Context, questions []domain.QuestionRecord) error {
	if len(questions) == 0 {
		return nil
	}
	query := `
INSERT INTO question_bank (industry, role, question_text, question_type)
VALUES ($1, $2, $3, $4);
`
	batch := &pgx.Batch{}
	for _, q := range questions {
		batch.Queue(query, q.Industry, q.Role, q.Text, q.Type)
	}
	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range questions {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// CountByPair returns the question bank size for an industry/role pair.
func (r *QuestionRepositoryPG) CountByPair(ctx context.Context, industry, role string) (int, error) {
	query := `
SELECT COUNT(*)
FROM question_bank
WHERE industry = $1 AND role = $2;
`
	var count int
	if err := r.pool.QueryRow(ctx, query, industry, role).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// RandomByPair draws up to limit questions uniformly at random without replacement.
func (r *QuestionRepositoryPG) RandomByPair(ctx context.Context, industry, role string, limit int) ([]domain.QuestionRecord, error) {
	query := `
SELECT id, industry, role, question_text, question_type, created_at
FROM question_bank
WHERE industry = $1 AND role = $2
ORDER BY random()
LIMIT $3;
`
	rows, err := r.pool.Query(ctx, query, industry, role, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []domain.QuestionRecord
	for rows.Next() {
		var q domain.QuestionRecord
		if err := rows.Scan(&q.ID, &q.Industry, &q.Role, &q.Text, &q.Type, &q.CreatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

var _ domain.QuestionRepository = (*QuestionRepositoryPG)(nil)
