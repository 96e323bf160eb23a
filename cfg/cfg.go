package cfg

import "fmt"

type (
	App struct {
		Name    string
		Version string
	}

	Database struct {
		// mysql | sqlite
		Driver string
	}

	Mysql struct {
		Host                  string
		Port                  string
		Username              string
		Password              string
		Database              string
		MaxIdleConnection     int
		MaxOpenConnection     int
		MaxLifeTimeConnection int
	}

	Sqlite struct {
		Path string
	}

	// Xsmb cấu hình cho crawler kết quả xổ số miền Bắc
	Xsmb struct {
		BaseUrl           string
		UserAgent         string
		RequestsPerSecond int
		TimeoutSecond     int
		BackfillDays      int
	}

	Kafka struct {
		Brokers   []string
		Topic     string
		GroupID   string
		BatchSize int
	}

	Server struct {
		Port int
	}

	Log struct {
		Level string
	}

	// Analysis chứa các cửa sổ ngày và tham số của bộ phân tích
	Analysis struct {
		HorizontalWindow int
		CrossWindow      int
		CrossBuffer      int
		RecurrenceWindow int
		ChamWindow       int
		TailSumDays      int
		WeekdayWindow    int
		PeriodicWindow   int
		PeriodicMaxStale int
		RunWindow        int
		RunMaxGap        int
		RarityWindow     int
		MLWindow         int
		MLMinDays        int
		TopK             int
		LRMaxIter        int
		RFTrees          int
		RandomSeed       int64
	}
)

type Config struct {
	App      App
	Database Database
	Mysql    Mysql
	Sqlite   Sqlite
	Xsmb     Xsmb
	Kafka    Kafka
	Server   Server
	Log      Log
	Analysis Analysis
}

// DefaultAnalysis trả về các giá trị mặc định giống bản gốc
func DefaultAnalysis() Analysis {
	return Analysis{
		HorizontalWindow: 7,
		CrossWindow:      7,
		CrossBuffer:      3,
		RecurrenceWindow: 100,
		ChamWindow:       7,
		TailSumDays:      7,
		WeekdayWindow:    30,
		PeriodicWindow:   30,
		PeriodicMaxStale: 7,
		RunWindow:        7,
		RunMaxGap:        3,
		RarityWindow:     30,
		MLWindow:         30,
		MLMinDays:        8,
		TopK:             10,
		LRMaxIter:        500,
		RFTrees:          100,
		RandomSeed:       42,
	}
}

func (a Analysis) Validate() error {
	windows := map[string]int{
		"HorizontalWindow": a.HorizontalWindow,
		"CrossWindow":      a.CrossWindow,
		"RecurrenceWindow": a.RecurrenceWindow,
		"ChamWindow":       a.ChamWindow,
		"TailSumDays":      a.TailSumDays,
		"WeekdayWindow":    a.WeekdayWindow,
		"PeriodicWindow":   a.PeriodicWindow,
		"PeriodicMaxStale": a.PeriodicMaxStale,
		"RunWindow":        a.RunWindow,
		"RunMaxGap":        a.RunMaxGap,
		"RarityWindow":     a.RarityWindow,
		"MLWindow":         a.MLWindow,
		"MLMinDays":        a.MLMinDays,
		"TopK":             a.TopK,
		"LRMaxIter":        a.LRMaxIter,
		"RFTrees":          a.RFTrees,
	}
	for name, v := range windows {
		if v <= 0 {
			return fmt.Errorf("[ERROR][CONFIG] analysis.%s must be positive, got %d", name, v)
		}
	}
	if a.CrossBuffer < 0 {
		return fmt.Errorf("[ERROR][CONFIG] analysis.CrossBuffer must not be negative, got %d", a.CrossBuffer)
	}
	return nil
}
