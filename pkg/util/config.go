package util

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg"
	"github.com/spf13/viper"
)

type AlternativesConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	TargetCount  int     `mapstructure:"target_count" validate:"gte=1,lte=10"`
	WeightFactor float64 `mapstructure:"weight_factor" validate:"gte=1"`
	ShareFactor  float64 `mapstructure:"share_factor" validate:"gt=0,lte=1"`
	Penalty      float64 `mapstructure:"penalty" validate:"gt=1"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name" validate:"required_if=Enabled true"`
	SampleRatio float64 `mapstructure:"sample_ratio" validate:"gte=0,lte=1"`
}

// LastmileConfig. every tolerance the core needs, injected by the caller. lengths in metres.
type LastmileConfig struct {
	SnapToleranceMeters    float64            `mapstructure:"snap_tolerance_m" validate:"gte=0"`
	BufferToleranceMeters  float64            `mapstructure:"buffer_tolerance_m" validate:"gt=0"`
	MinSegmentLengthMeters float64            `mapstructure:"min_segment_length_m" validate:"gte=0"`
	Workers                int                `mapstructure:"workers" validate:"gte=1"`
	PathCacheSize          int                `mapstructure:"path_cache_size" validate:"gte=0"`
	LogLevel               string             `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	Alternatives           AlternativesConfig `mapstructure:"alternatives"`
	Tracing                TracingConfig      `mapstructure:"tracing"`
}

func DefaultConfig() LastmileConfig {
	return LastmileConfig{
		SnapToleranceMeters:    pkg.DEFAULT_SNAP_TOLERANCE,
		BufferToleranceMeters:  pkg.DEFAULT_BUFFER_TOLERANCE,
		MinSegmentLengthMeters: pkg.DEFAULT_MIN_SEGMENT_LENGTH,
		Workers:                runtime.NumCPU(),
		PathCacheSize:          pkg.DEFAULT_PATH_CACHE_SIZE,
		LogLevel:               "info",
		Alternatives: AlternativesConfig{
			Enabled:      false,
			TargetCount:  pkg.DEFAULT_ALTERNATIVE_TARGET_COUNT,
			WeightFactor: pkg.DEFAULT_ALTERNATIVE_WEIGHT_FACTOR,
			ShareFactor:  pkg.DEFAULT_ALTERNATIVE_SHARE_FACTOR,
			Penalty:      pkg.DEFAULT_ALTERNATIVE_PENALTY,
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "navigatorx-lastmile",
			SampleRatio: 1.0,
		},
	}
}

func SetDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("snap_tolerance_m", def.SnapToleranceMeters)
	v.SetDefault("buffer_tolerance_m", def.BufferToleranceMeters)
	v.SetDefault("min_segment_length_m", def.MinSegmentLengthMeters)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("path_cache_size", def.PathCacheSize)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("alternatives.enabled", def.Alternatives.Enabled)
	v.SetDefault("alternatives.target_count", def.Alternatives.TargetCount)
	v.SetDefault("alternatives.weight_factor", def.Alternatives.WeightFactor)
	v.SetDefault("alternatives.share_factor", def.Alternatives.ShareFactor)
	v.SetDefault("alternatives.penalty", def.Alternatives.Penalty)
	v.SetDefault("tracing.enabled", def.Tracing.Enabled)
	v.SetDefault("tracing.service_name", def.Tracing.ServiceName)
	v.SetDefault("tracing.sample_ratio", def.Tracing.SampleRatio)
}

// ReadConfig. reads path (or ./data/config.* when path is empty) into a validated LastmileConfig.
// a missing ./data/config file is not an error, defaults are used instead.
func ReadConfig(v *viper.Viper, path string) (LastmileConfig, error) {
	SetDefaults(v)
	v.SetEnvPrefix("LASTMILE")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./data/")
	}

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return LastmileConfig{}, fmt.Errorf("fatal error config file: %w", err)
		}
	}

	var cfg LastmileConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return LastmileConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return LastmileConfig{}, err
	}
	return cfg, nil
}

func (c LastmileConfig) Validate() error {
	validate := validator.New()
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return WrapErrorf(err, ErrBadParamInput, "invalid config")
	}

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(trans))
	}
	return WrapErrorf(err, ErrBadParamInput, "invalid config: %s", strings.Join(msgs, "; "))
}
