package config

import "time"

type Config struct {
	MaxImageBytes     int64
	MaxImageDimension int
	JPEGQuality       int
	AnalysisTimeout   time.Duration
	GenerationTimeout time.Duration
	SessionTimeout    time.Duration
	RecentScanLimit   int
	ScanRatePerMinute float64
	ScanRateBurst     int
}

func NewConfig() *Config {
	return &Config{
		MaxImageBytes:     5 * 1024 * 1024,
		MaxImageDimension: 1024,
		JPEGQuality:       80,
		AnalysisTimeout:   30 * time.Second,
		GenerationTimeout: 60 * time.Second,
		SessionTimeout:    30 * time.Minute,
		RecentScanLimit:   20,
		ScanRatePerMinute: 10,
		ScanRateBurst:     5,
	}
}
