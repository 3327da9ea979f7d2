package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

type BBContext string

const (
	DBContextURL BBContext = "bb-backend-url"
)

// IsPostgres reports whether the DSN points to a PostgreSQL server.
// Everything else is treated as a path to a SQLite database file.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Connect opens the database, migrates the schema and configures the connection pool.
func Connect(dsn string) error {
	config := &gorm.Config{
		NowFunc: func() time.Time {
			return time.Now().In(time.UTC)
		},
		Logger: &logger{
			Logger: log.Logger,
		},
	}

	var db *gorm.DB
	var err error

	if IsPostgres(dsn) {
		db, err = connectPostgres(dsn, config)
	} else {
		db, err = connectSQLite(dsn, config)
	}
	if err != nil {
		return err
	}

	err = registerCallbacks(db)
	if err != nil {
		return err
	}

	DB = db
	return nil
}

func connectPostgres(dsn string, config *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = migrate(db)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetMaxOpenConns(10)

	return db, nil
}

func connectSQLite(dsn string, config *gorm.Config) (*gorm.DB, error) {
	// Migrate with foreign keys disabled as sqlite copies and
	// drops tables when altering columns
	db, err := gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = migrate(db)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}
	sqlDB.Close()

	// Reconnect with foreign keys enabled
	db, err = gorm.Open(sqlite.Open(fmt.Sprintf("%s?_pragma=foreign_keys(1)", dsn)), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err = db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	sqlDB.SetConnMaxLifetime(time.Hour)

	// A single connection prevents SQLITE_BUSY errors
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

func registerCallbacks(db *gorm.DB) error {
	callbacks := []struct {
		register func(string, func(*gorm.DB)) error
		name     string
		fn       func(*gorm.DB)
	}{
		{db.Callback().Query().After("*").Register, "budgetbook:after_query", queryCallback},
		{db.Callback().Query().After("*").Register, "budgetbook:after_query_general", generalCallback},
		{db.Callback().Create().After("*").Register, "budgetbook:after_create", createUpdateCallback},
		{db.Callback().Create().After("*").Register, "budgetbook:after_create_general", generalCallback},
		{db.Callback().Update().After("*").Register, "budgetbook:after_update", createUpdateCallback},
		{db.Callback().Update().After("*").Register, "budgetbook:after_update_general", generalCallback},
		{db.Callback().Delete().After("*").Register, "budgetbook:after_delete_general", generalCallback},
		{db.Callback().Raw().After("*").Register, "budgetbook:after_raw_general", generalCallback},
	}

	for _, c := range callbacks {
		if err := c.register(c.name, c.fn); err != nil {
			return fmt.Errorf("could not register callback %s: %w", c.name, err)
		}
	}

	return nil
}

// queryCallback replaces the generic "no record" error with a more user
// friendly one
func queryCallback(db *gorm.DB) {
	if errors.Is(db.Error, gorm.ErrRecordNotFound) {
		// The table name tells which kind of resource is missing
		name := strings.ReplaceAll(db.Statement.Table, "_", " ")
		name = strings.TrimPrefix(name, "expense ")
		name = regexp.MustCompile("ies$").ReplaceAllString(name, "y")
		name = strings.TrimSuffix(name, "s")

		db.Error = fmt.Errorf("%w %s matching your query", ErrResourceNotFound, name)
	}
}

// uniqueViolation maps a unique constraint to an error. Constraints are
// identified by the column list in sqlite errors and by the index name
// in postgres errors.
func uniqueViolation(constraint string) error {
	switch constraint {
	case "users.email", "idx_users_email":
		return ErrUserEmailNotUnique
	case "expense_main_categories.name", "idx_expense_main_categories_name":
		return ErrCategoryNameNotUnique
	case "expense_subcategories.main_category_id, expense_subcategories.name", "subcategory_name":
		return ErrSubcategoryNameNotUnique
	case "tag_categories.user_id, tag_categories.name", "tag_category_name":
		return ErrTagCategoryNameNotUnique
	case "tags.category_id, tags.name", "tag_name":
		return ErrTagNameNotUnique
	case "admin_users.user_id", "admin_users_pkey":
		return ErrAdminExists
	}

	return nil
}

// createUpdateCallback inspects errors returned by the database for create
// and update calls and replaces them with user friendly ones
func createUpdateCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	var pgErr *pgconn.PgError
	if errors.As(db.Error, &pgErr) {
		switch pgErr.Code {
		case "23505":
			if e := uniqueViolation(pgErr.ConstraintName); e != nil {
				db.Error = e
			}
		case "23503":
			db.Error = ErrReferenceNotFound
		}
		return
	}

	msg := db.Error.Error()
	if strings.Contains(msg, "UNIQUE constraint failed: ") {
		columns := msg[strings.Index(msg, "UNIQUE constraint failed: ")+len("UNIQUE constraint failed: "):]
		columns = strings.TrimSuffix(strings.SplitN(columns, " (", 2)[0], ")")
		if e := uniqueViolation(columns); e != nil {
			db.Error = e
		}
		return
	}

	if strings.Contains(msg, "FOREIGN KEY constraint failed") {
		db.Error = ErrReferenceNotFound
	}
}

// generalCallback handles unspecified errors.
//
// For these errors, we cannot provide the user with a helpful message.
// Instead, the error is logged and we return a general message to users.
func generalCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	var pgErr *pgconn.PgError

	// "sql: database is closed" is hard-coded in database/sql
	if db.Error.Error() == "sql: database is closed" ||
		reflect.TypeOf(db.Error) == reflect.TypeOf(&go_sqlite.Error{}) ||
		errors.As(db.Error, &pgErr) {
		log.Error().Msgf("%T: %v", db.Error, db.Error.Error())
		db.Error = ErrGeneral
	}
}

// migrate migrates all models to the schema defined in the code.
func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		User{},
		Profile{},
		AdminUser{},
		MainCategory{},
		Subcategory{},
		Transaction{},
		Allocation{},
		TagCategory{},
		Tag{},
		RevokedToken{},
	)
	if err != nil {
		return fmt.Errorf("error during DB migration: %w", err)
	}

	return nil
}
