package database

import (
	"log"

	"github.com/campusbook/booking-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Resource{}, &models.Booking{}, &models.Review{}); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Supports the active-booking conflict scan; cancelled, rejected and
	// completed rows stay out of the index.
	db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_booking_active
		ON bookings (resource_id, start_at, end_at)
		WHERE status IN ('pending', 'approved')
	`)

	// Database-level backstop for the admission path: two active bookings
	// on the same resource can never hold overlapping half-open intervals,
	// whatever path inserted them. Raises 23P01 on violation.
	db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`)
	db.Exec(`
		DO $$ BEGIN
			ALTER TABLE bookings ADD CONSTRAINT booking_no_overlap
			EXCLUDE USING gist (
				resource_id WITH =,
				tstzrange(start_at, end_at) WITH &&
			) WHERE (status IN ('pending', 'approved'));
		EXCEPTION WHEN duplicate_table OR duplicate_object THEN null;
		END $$
	`)

	// One review per user per booking.
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_review_per_booking
		ON reviews (reviewer_id, booking_id)
	`)

	return db
}
