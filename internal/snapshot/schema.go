package snapshot

// schemaStatements define the snapshot tables. The SQL is shared by SQLite
// and Dolt, so keys are bounded VARCHARs and statements run one at a time.
// Tables:
//   - classes: every known class and its direct superclass (NULL for none)
//   - methods: declared methods per class
//   - scan_meta: key/value description of the scan that produced the data
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS classes (
    name VARCHAR(512) NOT NULL PRIMARY KEY,
    superclass VARCHAR(512)
)`,
	`CREATE TABLE IF NOT EXISTS methods (
    class_name VARCHAR(512) NOT NULL,
    method_name VARCHAR(255) NOT NULL,
    descriptor VARCHAR(1024) NOT NULL,
    PRIMARY KEY (class_name, method_name, descriptor)
)`,
	`CREATE TABLE IF NOT EXISTS scan_meta (
    meta_key VARCHAR(64) NOT NULL PRIMARY KEY,
    meta_value TEXT NOT NULL
)`,
}

// initSchema creates the database tables if they don't exist.
func (s *Snapshot) initSchema() error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
