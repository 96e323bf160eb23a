package cfg

import (
	"errors"
	"fmt"
	"sync"
)

var (
	loader     Loader
	loaderOnce sync.Once
)

type Loader interface {
	Load() (*Config, error)
}

// NewLoader đăng ký loader dùng chung cho cả tiến trình, chỉ lần gọi đầu tiên có hiệu lực
func NewLoader(l Loader) (Loader, error) {
	if l == nil {
		return nil, errors.New("[ERROR][CONFIG] nil loader")
	}
	loaderOnce.Do(func() {
		loader = l
	})
	return loader, nil
}

// LoaderFor chọn loader theo tên cờ dòng lệnh: "viper" (mặc định) hoặc "mock"
func LoaderFor(name string) (Loader, error) {
	switch name {
	case "", "viper":
		vl, err := NewViperLoader()
		if err != nil {
			return nil, err
		}
		return NewLoader(vl)
	case "mock":
		ml, err := NewMockLoader()
		if err != nil {
			return nil, err
		}
		return NewLoader(ml)
	default:
		return nil, fmt.Errorf("[ERROR][CONFIG] unsupported loader: %s", name)
	}
}
