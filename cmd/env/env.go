package env

const (
	// Prefix is the prefix of every exilian environment variable
	Prefix = "EXILIAN"

	// DBURLSuffix is the suffix of the SQL cache DSN variable (EXILIAN_DB_URL)
	DBURLSuffix = "_DB_URL"
)
