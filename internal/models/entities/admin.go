package entities

// TableInfo is one row of the public table listing.
type TableInfo struct {
	Name          string `db:"name" json:"name"`
	EstimatedRows int64  `db:"estimated_rows" json:"estimated_rows"`
}

// ColumnInfo describes one column of a public table.
type ColumnInfo struct {
	Name         string  `db:"name" json:"name"`
	DataType     string  `db:"data_type" json:"data_type"`
	Nullable     bool    `db:"nullable" json:"nullable"`
	DefaultValue *string `db:"default_value" json:"default_value"`
}

// QueryResult is the outcome of a row-returning or row-modifying statement.
// Rows keeps column order through Columns; each row maps column name to value.
type QueryResult struct {
	Columns      []string         `json:"columns"`
	Rows         []map[string]any `json:"rows"`
	RowsAffected int64            `json:"rows_affected"`
}

// DuplicateMemberID is a member_id that appears on more than one member row.
type DuplicateMemberID struct {
	MemberID    string `db:"member_id" gorm:"column:member_id" json:"member_id"`
	Occurrences int64  `db:"occurrences" gorm:"column:occurrences" json:"occurrences"`
	IDs         []uint `db:"-" gorm:"-" json:"ids"`
}
