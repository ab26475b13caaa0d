package core

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/namsral/flag"
)

const (
	FormatJson = "json"
	FormatHar  = "har"
)

type Configuration = struct {
	Verbose             int
	Url                 string
	InputFile           string
	Category            string
	SavePath            string
	SaveFormat          string
	DevTools            string
	MetricsAddress      string
	SitesStatsFile      string
	AWSRegion           string
	CloudWatchNamespace string
	Summary             bool
	Settle              time.Duration
	NavigationTimeout   time.Duration
}

var Config Configuration

func ParseFlags() {
	flag.IntVar(&Config.Verbose, "verbose", 0, "print verbose information 0=nothing 5=all")
	flag.StringVar(&Config.Url, "url", "", "page to navigate to and capture")
	flag.StringVar(&Config.InputFile, "input-file", "", "process a saved performance log instead of driving a browser")
	flag.StringVar(&Config.Category, "category", "", "keep only requests of this category: xhr, document, script, image, css")
	flag.StringVar(&Config.SavePath, "save-path", "", "save the captured requests to this file or s3://bucket/key")
	flag.StringVar(&Config.SaveFormat, "save-format", FormatJson, "saved snapshot format: json or har")
	flag.StringVar(&Config.DevTools, "devtools", "127.0.0.1:9222", "chrome remote debugging host[:port]")
	flag.StringVar(&Config.MetricsAddress, "metrics-address", "", "serve pprof and prometheus metrics on this address. Empty to disable")
	flag.StringVar(&Config.SitesStatsFile, "sites-stats-file", "", "per host statistics CSV output file. Empty to disable")
	flag.StringVar(&Config.AWSRegion, "aws-region", "us-east-1", "AWS region for S3 and CloudWatch")
	flag.StringVar(&Config.CloudWatchNamespace, "cloudwatch-namespace", "", "publish capture metrics to this CloudWatch namespace. Empty to disable")
	flag.BoolVar(&Config.Summary, "summary", true, "print a colored requests summary to stderr")
	flag.DurationVar(&Config.Settle, "settle", 5*time.Second, "time to wait after navigation for asynchronous requests")
	flag.DurationVar(&Config.NavigationTimeout, "navigation-timeout", 0, "page load timeout. Zero to use twice the settle interval")

	flag.Parse()
	marshal, err := json.Marshal(Config)
	if err != nil {
		Fatal("marshal config failed: %v", err)
	}

	V5("V5 mode activated")
	V5("common configuration loaded: %v", string(marshal))

	err = ValidateConfig()
	if err != nil {
		Fatal("%v", err)
	}
}

func ValidateConfig() error {
	if Config.Url == "" && Config.InputFile == "" {
		return fmt.Errorf("url or input-file argument must be supplied")
	}
	if Config.SaveFormat != FormatJson && Config.SaveFormat != FormatHar {
		return fmt.Errorf("save-format must be %v or %v, got %v", FormatJson, FormatHar, Config.SaveFormat)
	}
	if Config.Settle < 0 {
		return fmt.Errorf("settle must not be negative")
	}
	return nil
}
