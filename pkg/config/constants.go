package config

const EnvPrefix = "COURIER"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "COURIER_APP_ENV"
	EnvPort     = "COURIER_APP_PORT"
	EnvDBDSN    = "COURIER_DB_DSN"
	EnvDBHost   = "COURIER_DB_HOST"
	EnvDBUser   = "COURIER_DB_USER"
	EnvDBName   = "COURIER_DB_NAME"
	EnvRedisURL = "COURIER_REDIS_URL"

	EnvJWTSecret  = "COURIER_JWT_SECRET"
	EnvJWTIssuer  = "COURIER_JWT_ISSUER"
	EnvJWTExpMins = "COURIER_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
