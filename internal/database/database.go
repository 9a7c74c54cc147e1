package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Table Structure:
//
// CREATE TABLE IF NOT EXISTS job (
// 	id UUID NOT NULL UNIQUE,
// 	slug VARCHAR(255) NOT NULL UNIQUE,
// 	position VARCHAR(255) NOT NULL,
// 	organisation_name VARCHAR(255) NOT NULL,
// 	domain VARCHAR(255) NOT NULL,
// 	location VARCHAR(255) NOT NULL,
// 	about TEXT,
// 	job_description TEXT,
// 	compensation_range VARCHAR(255),
// 	pdf_url TEXT,
// 	apply_by TIMESTAMP DEFAULT NULL,
// 	status VARCHAR(20) NOT NULL DEFAULT 'active',
// 	created_at TIMESTAMP NOT NULL,
// 	updated_at TIMESTAMP NOT NULL,
// 	PRIMARY KEY(id)
// );
// CREATE INDEX job_status_idx ON job (status);

// CREATE TABLE IF NOT EXISTS application (
// 	id UUID NOT NULL UNIQUE,
// 	job_id UUID NOT NULL REFERENCES job (id),
// 	reference_number VARCHAR(40) NOT NULL UNIQUE,
// 	full_name VARCHAR(255) NOT NULL,
// 	batch VARCHAR(100) NOT NULL,
// 	gender VARCHAR(50) NOT NULL,
// 	email_official VARCHAR(255) NOT NULL,
// 	email_personal VARCHAR(255) NOT NULL,
// 	phone_number VARCHAR(50) NOT NULL,
// 	big_bet VARCHAR(255),
// 	fellowship_state VARCHAR(100) NOT NULL,
// 	home_state VARCHAR(100) NOT NULL,
// 	fpc_name VARCHAR(255),
// 	state_spoc_name VARCHAR(255),
// 	cover_letter TEXT,
// 	resume_url TEXT,
// 	status VARCHAR(50) NOT NULL DEFAULT 'new',
// 	archived BOOLEAN NOT NULL DEFAULT FALSE,
// 	custom_admin_fields JSONB NOT NULL DEFAULT '{"values": {}}',
// 	applied_at TIMESTAMP NOT NULL,
// 	PRIMARY KEY(id)
// );
// CREATE INDEX application_job_id_idx ON application (job_id);
// CREATE INDEX application_archived_idx ON application (archived);

// CREATE TABLE IF NOT EXISTS admin_column_definitions (
// 	id VARCHAR(255) NOT NULL UNIQUE,
// 	name VARCHAR(255) NOT NULL,
// 	type VARCHAR(20) NOT NULL,
// 	options JSONB NOT NULL DEFAULT '[]',
// 	width INTEGER NOT NULL DEFAULT 150,
// 	order_index INTEGER NOT NULL DEFAULT 0,
// 	is_custom BOOLEAN NOT NULL DEFAULT FALSE,
// 	show_in_form BOOLEAN NOT NULL DEFAULT FALSE,
// 	created_at TIMESTAMP NOT NULL,
// 	PRIMARY KEY(id)
// );

// CREATE TABLE IF NOT EXISTS admin_users (
// 	id UUID NOT NULL UNIQUE,
// 	email VARCHAR(255) NOT NULL UNIQUE,
// 	full_name VARCHAR(255) NOT NULL,
// 	password_digest CHAR(64) NOT NULL,
// 	created_at TIMESTAMP NOT NULL,
// 	PRIMARY KEY(id)
// );

// CREATE TABLE IF NOT EXISTS user_job_access (
// 	user_id UUID NOT NULL REFERENCES admin_users (id),
// 	job_id UUID DEFAULT NULL REFERENCES job (id),
// 	role VARCHAR(50) NOT NULL,
// 	employee_id VARCHAR(100),
// 	department VARCHAR(255),
// 	position VARCHAR(255),
// 	created_at TIMESTAMP NOT NULL
// );
// CREATE INDEX user_job_access_user_id_idx ON user_job_access (user_id);
// CREATE UNIQUE INDEX user_job_access_user_job_idx ON user_job_access (user_id, job_id);

func GetDbConn(databaseUser string, databasePassword string, databaseHost string, databasePort string, databaseName string, sslMode string) (*sql.DB, error) {
	databaseURL := fmt.Sprintf("postgres://%v:%v@%v:%v/%v?sslmode=%s",
		databaseUser,
		databasePassword,
		databaseHost,
		databasePort,
		databaseName,
		sslMode,
	)
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(20)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

func CloseDbConn(conn *sql.DB) {
	conn.Close()
}
