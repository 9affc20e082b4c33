package constants

const (
	ListPublicTables = `
	SELECT t.table_name AS name,
	       GREATEST(COALESCE(c.reltuples, 0), 0)::bigint AS estimated_rows
	FROM information_schema.tables t
	LEFT JOIN pg_class c
	       ON c.relname = t.table_name
	      AND c.relnamespace = 'public'::regnamespace
	WHERE t.table_schema = 'public' AND t.table_type = 'BASE TABLE'
	ORDER BY t.table_name
	`

	PublicTableExists = `
	SELECT EXISTS (
		SELECT 1 FROM information_schema.tables
		WHERE table_schema = 'public' AND table_type = 'BASE TABLE' AND table_name = $1
	)
	`

	DescribePublicTable = `
	SELECT column_name AS name,
	       data_type,
	       is_nullable = 'YES' AS nullable,
	       column_default AS default_value
	FROM information_schema.columns
	WHERE table_schema = 'public' AND table_name = $1
	ORDER BY ordinal_position
	`

	DuplicateMemberIDs = `
	SELECT member_id, COUNT(*) AS occurrences
	FROM members
	GROUP BY member_id
	HAVING COUNT(*) > 1
	ORDER BY member_id
	`
)
