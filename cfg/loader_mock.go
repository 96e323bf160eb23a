package cfg

type MockLoader struct{}

func NewMockLoader() (*MockLoader, error) {
	return &MockLoader{}, nil
}

func (ml *MockLoader) Load() (*Config, error) {
	return &Config{
		// App
		App: App{
			Name:    "xsmb-analyzer",
			Version: "0.1.0",
		},

		// Database
		Database: Database{
			Driver: "sqlite",
		},

		// Mysql
		Mysql: Mysql{
			Host:                  "127.0.0.1",
			Password:              "root",
			Username:              "root",
			Port:                  "3306",
			Database:              "xsmb",
			MaxIdleConnection:     10,
			MaxOpenConnection:     100,
			MaxLifeTimeConnection: 3600,
		},

		// Sqlite
		Sqlite: Sqlite{
			Path: "file::memory:?cache=shared",
		},

		// Xsmb
		Xsmb: Xsmb{
			BaseUrl:           "https://xoso.com.vn",
			UserAgent:         "Mozilla/5.0 (X11; Linux x86_64) xsmb-analyzer",
			RequestsPerSecond: 2,
			TimeoutSecond:     30,
			BackfillDays:      30,
		},

		// Kafka
		Kafka: Kafka{
			Brokers:   []string{"127.0.0.1:9092"},
			Topic:     "xsmb-ket-qua",
			GroupID:   "xsmb-ket-qua-consumer",
			BatchSize: 50,
		},

		Server: Server{Port: 8080},
		Log:    Log{Level: "info"},

		Analysis: DefaultAnalysis(),
	}, nil
}
