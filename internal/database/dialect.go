package database

import "fmt"

// Driver names a supported SQL engine and carries the few statements whose
// syntax differs between them.
type Driver string

const (
	SQLite Driver = "sqlite"
	MySQL  Driver = "mysql"
)

func (d Driver) sqlName() string {
	return string(d)
}

// ContainsExpr returns a case-sensitive substring predicate on col taking
// one placeholder for the needle. An empty needle matches every row.
func (d Driver) ContainsExpr(col string) string {
	if d == MySQL {
		return fmt.Sprintf("LOCATE(?, BINARY %s) > 0", col)
	}
	return fmt.Sprintf("instr(%s, ?) > 0", col)
}

// LinkInsert returns an insert into a two-column association table that is a
// no-op when the pair already exists. Foreign key violations still fail,
// unlike INSERT IGNORE on MySQL.
func (d Driver) LinkInsert(table, left, right string) string {
	if d == MySQL {
		return fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES (?, ?) ON DUPLICATE KEY UPDATE %s = %s",
			table, left, right, left, left)
	}
	return fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES (?, ?) ON CONFLICT DO NOTHING",
		table, left, right)
}
