package config

func loadTestConfig(cfg *Config) {
	cfg.Env = "test"
	cfg.DatabaseFilePath = ":memory:"
	cfg.CacheDir = ""
	cfg.ServerHost = "127.0.0.1"
	cfg.ServerPort = 0
}
