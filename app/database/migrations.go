package database

import (
	"database/sql"
	"log"
)

// RunMigrations checks and applies necessary schema updates
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	// 1. Add version column to payment_requests if not exists
	if err := addVersionColumn(db); err != nil {
		return err
	}

	// 2. Add rating column to attendance_records if not exists
	if err := addRatingColumn(db); err != nil {
		return err
	}

	// 3. Ensure the attendance tuple unique constraint exists
	if err := addAttendanceTupleConstraint(db); err != nil {
		return err
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func addVersionColumn(db *sql.DB) error {
	query := `
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1
				FROM information_schema.columns
				WHERE table_name = 'payment_requests'
				AND column_name = 'version'
			) THEN
				ALTER TABLE payment_requests ADD COLUMN version INT NOT NULL DEFAULT 1;
				RAISE NOTICE 'Added version column to payment_requests';
			END IF;
		END $$;
	`
	_, err := db.Exec(query)
	if err != nil {
		log.Printf("Failed to run migration for version column: %v", err)
		return err
	}
	return nil
}

func addRatingColumn(db *sql.DB) error {
	query := `
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1
				FROM information_schema.columns
				WHERE table_name = 'attendance_records'
				AND column_name = 'rating'
			) THEN
				ALTER TABLE attendance_records ADD COLUMN rating INT;
				ALTER TABLE attendance_records ADD CONSTRAINT chk_attendance_rating CHECK (rating IS NULL OR (rating >= 1 AND rating <= 5));
				RAISE NOTICE 'Added rating column to attendance_records';
			END IF;
		END $$;
	`
	_, err := db.Exec(query)
	if err != nil {
		log.Printf("Failed to run migration for rating column: %v", err)
		return err
	}
	return nil
}

func addAttendanceTupleConstraint(db *sql.DB) error {
	query := `
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1
				FROM pg_constraint
				WHERE conname = 'uq_attendance_tuple'
			) THEN
				ALTER TABLE attendance_records ADD CONSTRAINT uq_attendance_tuple UNIQUE (worker_id, project_id, date);
				RAISE NOTICE 'Added attendance tuple unique constraint';
			END IF;
		END $$;
	`
	_, err := db.Exec(query)
	if err != nil {
		log.Printf("Failed to run migration for attendance tuple constraint: %v", err)
		return err
	}
	return nil
}
