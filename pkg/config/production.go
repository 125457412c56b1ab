package config

func loadProductionConfig(cfg *Config) {
	cfg.Env = "production"
	cfg.DatabaseFilePath = "/data/recite.sqlite"
	cfg.CacheDir = "/data/cache"
	cfg.ServerHost = "0.0.0.0"
}
