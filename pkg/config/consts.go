package config

// EnvPrefix is passed to envconfig; individual fields carry fully-qualified
// envconfig tags so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "ASINWATCH_DB_DSN"
	EnvDBHost = "ASINWATCH_DB_HOST"
	EnvDBUser = "ASINWATCH_DB_USER"
	EnvDBName = "ASINWATCH_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
