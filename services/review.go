package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"gotours/config"
	"gotours/models"
)

const reviewColumns = `id, review, rating, tour_id, user_id, created_at, updated_at`

func scanReview(row *sql.Row) (*models.Review, error) {
	var review models.Review
	err := row.Scan(
		&review.ID,
		&review.Review,
		&review.Rating,
		&review.TourID,
		&review.UserID,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return &review, nil
}

func CreateReview(review *models.Review) error {
	review.ID = uuid.NewString()
	now := time.Now().UTC()
	review.CreatedAt = now
	review.UpdatedAt = now

	insertQuery := `INSERT INTO reviews (id, review, rating, tour_id, user_id, created_at, updated_at)
					VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := config.DB.Exec(insertQuery,
		review.ID, review.Review, review.Rating, review.TourID, review.UserID, now, now)
	return err
}

func GetReview(id string) (*models.Review, error) {
	selectQuery := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = ?`
	return scanReview(config.DB.QueryRow(selectQuery, id))
}

func GetReviewsForTour(tourID string) ([]models.Review, error) {
	selectQuery := `SELECT ` + reviewColumns + ` FROM reviews WHERE tour_id = ? ORDER BY created_at`
	rows, err := config.DB.Query(selectQuery, tourID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var review models.Review
		if err := rows.Scan(
			&review.ID,
			&review.Review,
			&review.Rating,
			&review.TourID,
			&review.UserID,
			&review.CreatedAt,
			&review.UpdatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

// UpdateReview edits a review's text and rating, but only for its author.
func UpdateReview(id, userID, text string, rating float64) (bool, error) {
	updateQuery := `UPDATE reviews SET review = ?, rating = ?, updated_at = ?
					WHERE id = ? AND user_id = ?`
	res, err := config.DB.Exec(updateQuery, text, rating, time.Now().UTC(), id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteReview removes a review owned by userID, or any review when admin.
func DeleteReview(id, userID string, admin bool) (bool, error) {
	deleteQuery := `DELETE FROM reviews WHERE id = ? AND (user_id = ? OR ?)`
	res, err := config.DB.Exec(deleteQuery, id, userID, admin)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
