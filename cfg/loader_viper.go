package cfg

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var (
	cfgIns     *Config
	cfgInsOnce sync.Once
	cfgMutex   sync.RWMutex
)

type ViperLoader struct {
	ConfigPath            string
	ConfigName            string
	WatchChange           bool
	configChangeCallbacks []func(*Config)
}

func NewViperLoader() (*ViperLoader, error) {
	return &ViperLoader{
		ConfigPath:            "cfg/yaml",
		ConfigName:            "mode",
		WatchChange:           true,
		configChangeCallbacks: make([]func(*Config), 0),
	}, nil
}

func (vl *ViperLoader) Load() (*Config, error) {
	var err error
	cfgInsOnce.Do(func() {
		err = vl.loadConfig()
		if err == nil && vl.IsWatchChange() {
			viper.WatchConfig()
			viper.OnConfigChange(func(e fsnotify.Event) {
				fmt.Printf("[INFO][CONFIG] Config file changed: %s\n", e.Name)
				if errReload := vl.reloadConfig(); errReload != nil {
					fmt.Printf("[ERROR][CONFIG] Failed to reload config: %v\n", errReload)
				}
			})
		}
	})

	if err != nil {
		return nil, err
	}

	cfgMutex.RLock()
	defer cfgMutex.RUnlock()
	return cfgIns, nil
}

func (vl *ViperLoader) IsWatchChange() bool {
	return vl.WatchChange
}

func (vl *ViperLoader) RegisterConfigChangeCallback(callback func(*Config)) {
	cfgMutex.Lock()
	vl.configChangeCallbacks = append(vl.configChangeCallbacks, callback)
	cfgMutex.Unlock()
}

// setDefaults để file yaml chỉ cần khai báo những gì khác mặc định
func setDefaults(v *viper.Viper) {
	mock, _ := NewMockLoader()
	def, _ := mock.Load()

	v.SetDefault("app.name", def.App.Name)
	v.SetDefault("app.version", def.App.Version)
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("mysql.host", def.Mysql.Host)
	v.SetDefault("mysql.port", def.Mysql.Port)
	v.SetDefault("mysql.username", def.Mysql.Username)
	v.SetDefault("mysql.database", def.Mysql.Database)
	v.SetDefault("mysql.maxidleconnection", def.Mysql.MaxIdleConnection)
	v.SetDefault("mysql.maxopenconnection", def.Mysql.MaxOpenConnection)
	v.SetDefault("mysql.maxlifetimeconnection", def.Mysql.MaxLifeTimeConnection)
	v.SetDefault("sqlite.path", "xsmb.db")
	v.SetDefault("xsmb.baseurl", def.Xsmb.BaseUrl)
	v.SetDefault("xsmb.useragent", def.Xsmb.UserAgent)
	v.SetDefault("xsmb.requestspersecond", def.Xsmb.RequestsPerSecond)
	v.SetDefault("xsmb.timeoutsecond", def.Xsmb.TimeoutSecond)
	v.SetDefault("xsmb.backfilldays", def.Xsmb.BackfillDays)
	v.SetDefault("kafka.brokers", def.Kafka.Brokers)
	v.SetDefault("kafka.topic", def.Kafka.Topic)
	v.SetDefault("kafka.groupid", def.Kafka.GroupID)
	v.SetDefault("kafka.batchsize", def.Kafka.BatchSize)
	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("log.level", def.Log.Level)

	a := def.Analysis
	v.SetDefault("analysis.horizontalwindow", a.HorizontalWindow)
	v.SetDefault("analysis.crosswindow", a.CrossWindow)
	v.SetDefault("analysis.crossbuffer", a.CrossBuffer)
	v.SetDefault("analysis.recurrencewindow", a.RecurrenceWindow)
	v.SetDefault("analysis.chamwindow", a.ChamWindow)
	v.SetDefault("analysis.tailsumdays", a.TailSumDays)
	v.SetDefault("analysis.weekdaywindow", a.WeekdayWindow)
	v.SetDefault("analysis.periodicwindow", a.PeriodicWindow)
	v.SetDefault("analysis.periodicmaxstale", a.PeriodicMaxStale)
	v.SetDefault("analysis.runwindow", a.RunWindow)
	v.SetDefault("analysis.runmaxgap", a.RunMaxGap)
	v.SetDefault("analysis.raritywindow", a.RarityWindow)
	v.SetDefault("analysis.mlwindow", a.MLWindow)
	v.SetDefault("analysis.mlmindays", a.MLMinDays)
	v.SetDefault("analysis.topk", a.TopK)
	v.SetDefault("analysis.lrmaxiter", a.LRMaxIter)
	v.SetDefault("analysis.rftrees", a.RFTrees)
	v.SetDefault("analysis.randomseed", a.RandomSeed)
}

func (vl *ViperLoader) loadConfig() error {
	setDefaults(viper.GetViper())
	viper.SetEnvPrefix("XSMB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.AddConfigPath(vl.ConfigPath)
	viper.SetConfigName(vl.ConfigName)
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("[ERROR][CONFIG] failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("[ERROR][CONFIG] failed to unmarshal config: %w", err)
	}
	if err := cfg.Analysis.Validate(); err != nil {
		return err
	}

	cfgMutex.Lock()
	cfgIns = cfg
	cfgMutex.Unlock()

	return nil
}

func (vl *ViperLoader) reloadConfig() error {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("[ERROR][CONFIG] failed to unmarshal config during reload: %w", err)
	}
	// Giữ cấu hình cũ nếu file mới sai
	if err := cfg.Analysis.Validate(); err != nil {
		return err
	}

	cfgMutex.Lock()
	cfgIns = cfg

	callbacks := make([]func(*Config), len(vl.configChangeCallbacks))
	copy(callbacks, vl.configChangeCallbacks)
	cfgMutex.Unlock()
	for _, callback := range callbacks {
		go callback(cfg)
	}

	fmt.Println("[INFO][CONFIG] Configuration reloaded successfully")
	return nil
}
