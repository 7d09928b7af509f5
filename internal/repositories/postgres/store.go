package postgres

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

var procedureNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// Store is the raw-SQL access path shared by the repositories. Every value is
// passed as a bound parameter; only procedure names are interpolated and
// those are checked against an identifier pattern first.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Query runs a statement and scans the result rows into dest.
func (s *Store) Query(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(dest).Error; err != nil {
		return classifyError(err)
	}
	return nil
}

// Exec runs a data-modifying statement in autocommit mode and returns the affected row count.
func (s *Store) Exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	result := s.db.WithContext(ctx).Exec(query, args...)
	if result.Error != nil {
		return 0, classifyError(result.Error)
	}
	return result.RowsAffected, nil
}

// CallProcedure invokes a stored procedure for its side effects.
func (s *Store) CallProcedure(ctx context.Context, name string, args ...interface{}) error {
	stmt, err := procedureCall(name, len(args))
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Exec(stmt, args...).Error; err != nil {
		return classifyError(err)
	}
	return nil
}

// CallProcedureInto invokes a procedure with INOUT parameters and scans the
// returned row into dest.
func (s *Store) CallProcedureInto(ctx context.Context, dest interface{}, name string, args ...interface{}) error {
	stmt, err := procedureCall(name, len(args))
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Raw(stmt, args...).Scan(dest).Error; err != nil {
		return classifyError(err)
	}
	return nil
}

func procedureCall(name string, argc int) (string, error) {
	if !procedureNamePattern.MatchString(name) {
		return "", fmt.Errorf("invalid procedure name %q", name)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", argc), ", ")
	return fmt.Sprintf("CALL %s(%s)", name, placeholders), nil
}
