package common

// CommonConfig carries the knobs shared by every binary in this repo.
type CommonConfig struct {
	LightwalletAddress string `yaml:"lightwallet_address"`
	PromPort           string `yaml:"prom_port"`
	HealthCheckPort    string `yaml:"health_check_port"`
	PostgresConfig     string `yaml:"postgres"`
	RedisAddress       string `yaml:"redis_address"`
}
