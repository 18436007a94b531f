package config

const (
	EnvPrefix = "TAGDECK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "TAGDECK_DB_DSN"
	EnvDBHost = "TAGDECK_DB_HOST"
	EnvDBUser = "TAGDECK_DB_USER"
	EnvDBName = "TAGDECK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
