package contextkeys

// Custom key type to avoid context collisions.
type contextKey string

// DBContextKey is the key under which the request-scoped *gorm.DB is stored.
// Integration tests use it to substitute a rollback-only transaction.
const DBContextKey = contextKey("db")
