package crawler

import (
	"fmt"

	"github.com/thep200/xsmb-analyzer/cfg"
	"github.com/thep200/xsmb-analyzer/pkg/db"
	"github.com/thep200/xsmb-analyzer/pkg/kafka"
	"github.com/thep200/xsmb-analyzer/pkg/log"
)

func FactoryCrawler(version string, logger log.Logger, config *cfg.Config, database db.Database) (Crawler, error) {
	switch version {
	case "v1":
		return NewCrawlerV1(logger, config, database)
	case "v2":
		producer, err := kafka.NewProducer(config, logger)
		if err != nil {
			return nil, err
		}
		return NewCrawlerV2(logger, config, producer), nil
	default:
		return nil, fmt.Errorf("[ERROR] Unsupported crawler version: %s", version)
	}
}
