package config

// Environment names accepted in server.environment
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// IsProductionLike reports whether the environment enforces explicit configuration
func (c ServerConfig) IsProductionLike() bool {
	return c.Environment == EnvStaging || c.Environment == EnvProduction
}
