package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"gotours/config"
	"gotours/models"
)

const tourColumns = `id, name, duration, max_group_size, difficulty, ratings_average,
	ratings_quantity, price, discount, summary, description, image_cover, images,
	created_at, updated_at`

func scanTour(row *sql.Row) (*models.Tour, error) {
	var (
		tour   models.Tour
		images string
	)
	err := row.Scan(
		&tour.ID,
		&tour.Name,
		&tour.Duration,
		&tour.MaxGroupSize,
		&tour.Difficulty,
		&tour.RatingsAverage,
		&tour.RatingsQuantity,
		&tour.Price,
		&tour.Discount,
		&tour.Summary,
		&tour.Description,
		&tour.ImageCover,
		&images,
		&tour.CreatedAt,
		&tour.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	tour.Images = models.SplitImages(images)
	return &tour, nil
}

// CreateTour inserts the tour and fills in its generated id and timestamps.
func CreateTour(tour *models.Tour) error {
	tour.ID = uuid.NewString()
	now := time.Now().UTC()
	tour.CreatedAt = now
	tour.UpdatedAt = now
	if tour.RatingsAverage == 0 {
		tour.RatingsAverage = 4.5
	}

	insertQuery := `INSERT INTO tours
					(id, name, duration, max_group_size, difficulty, ratings_average, ratings_quantity,
					 price, discount, summary, description, image_cover, images, created_at, updated_at)
					VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := config.DB.Exec(insertQuery,
		tour.ID, tour.Name, tour.Duration, tour.MaxGroupSize, tour.Difficulty,
		tour.RatingsAverage, tour.RatingsQuantity, tour.Price, tour.Discount,
		tour.Summary, tour.Description, tour.ImageCover, models.JoinImages(tour.Images),
		now, now)
	return err
}

func GetTour(id string) (*models.Tour, error) {
	selectQuery := `SELECT ` + tourColumns + ` FROM tours WHERE id = ?`
	return scanTour(config.DB.QueryRow(selectQuery, id))
}

// GetAllTours lists tours with simple page/limit paging.
func GetAllTours(page, limit int) ([]models.Tour, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	selectQuery := `SELECT ` + tourColumns + ` FROM tours ORDER BY created_at LIMIT ? OFFSET ?`
	rows, err := config.DB.Query(selectQuery, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tours []models.Tour
	for rows.Next() {
		var (
			tour   models.Tour
			images string
		)
		if err := rows.Scan(
			&tour.ID,
			&tour.Name,
			&tour.Duration,
			&tour.MaxGroupSize,
			&tour.Difficulty,
			&tour.RatingsAverage,
			&tour.RatingsQuantity,
			&tour.Price,
			&tour.Discount,
			&tour.Summary,
			&tour.Description,
			&tour.ImageCover,
			&images,
			&tour.CreatedAt,
			&tour.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tour.Images = models.SplitImages(images)
		tours = append(tours, tour)
	}
	return tours, rows.Err()
}

// UpdateTour writes the mutable tour fields back by id. Reports whether a
// tour with that id existed.
func UpdateTour(tour *models.Tour) (bool, error) {
	updateQuery := `UPDATE tours SET name = ?, duration = ?, max_group_size = ?, difficulty = ?,
					price = ?, discount = ?, summary = ?, description = ?, image_cover = ?, images = ?,
					updated_at = ?
					WHERE id = ?`
	res, err := config.DB.Exec(updateQuery,
		tour.Name, tour.Duration, tour.MaxGroupSize, tour.Difficulty,
		tour.Price, tour.Discount, tour.Summary, tour.Description,
		tour.ImageCover, models.JoinImages(tour.Images), time.Now().UTC(), tour.ID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteTour removes the tour. Reports whether a tour with that id existed.
func DeleteTour(id string) (bool, error) {
	res, err := config.DB.Exec(`DELETE FROM tours WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// GetTourStats aggregates price statistics per difficulty over tours whose
// rating average is below the maximum.
func GetTourStats() ([]models.TourStats, error) {
	statsQuery := `SELECT difficulty, COUNT(*), MIN(price), MAX(price), AVG(price)
				   FROM tours WHERE ratings_average < 5
				   GROUP BY difficulty ORDER BY difficulty`

	rows, err := config.DB.Query(statsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.TourStats
	for rows.Next() {
		var s models.TourStats
		if err := rows.Scan(&s.Difficulty, &s.NumTours, &s.MinPrice, &s.MaxPrice, &s.AvgPrice); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
