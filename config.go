package instrument

import (
	"runtime/debug"

	"github.com/ygrebnov/errorc"
)

// config holds Registry configuration.
type config struct {
	// Prefix is joined (with "_") in front of every registered metric name.
	// Default: "" (no prefix).
	Prefix string

	// BaseAttrs are stamped onto every registered descriptor. They win over
	// attributes set by the declarations themselves on key collision.
	BaseAttrs []Attr

	// NoBuildInfo suppresses the default "program" and "version" base
	// attributes derived from the binary's build info.
	// Default: false (attributes included when build info is available).
	NoBuildInfo bool

	// Logger receives debug records about registrations.
	// Default: no-op logger.
	Logger Logger
}

// defaultConfig centralizes default values for config.
func defaultConfig() config {
	return config{
		Prefix:      "",
		BaseAttrs:   nil,
		NoBuildInfo: false,
		Logger:      newNoopLogger(),
	}
}

// buildInfoAttrs derives the default base attributes from the binary's build
// info. It returns nil when build info is unavailable (e.g., binaries built
// without module support).
func buildInfoAttrs() []Attr {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi.Main.Path == "" {
		return nil
	}
	return []Attr{
		{Key: "program", Value: bi.Main.Path},
		{Key: "version", Value: bi.Main.Version},
	}
}

// Option configures a Registry. Use New(opts...) to construct a Registry via
// options. Options return an error on invalid input instead of panicking.
type Option func(*config) error

// WithPrefix sets a global name prefix joined in front of every registered
// metric name (must be non-empty).
func WithPrefix(p string) Option {
	return func(cfg *config) error {
		if p == "" {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithPrefix requires a non-empty prefix"))
		}
		cfg.Prefix = p
		return nil
	}
}

// WithBaseAttr stamps an attribute onto every descriptor the registry
// produces (the key must be non-empty). Repeated keys overwrite.
func WithBaseAttr(key, value string) Option {
	return func(cfg *config) error {
		if key == "" {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithBaseAttr requires a non-empty key"))
		}
		cfg.BaseAttrs = upsertAttr(cfg.BaseAttrs, key, value)
		return nil
	}
}

// WithoutBuildInfo drops the default "program" and "version" base attributes.
func WithoutBuildInfo() Option {
	return func(cfg *config) error { cfg.NoBuildInfo = true; return nil }
}

// WithLogger sets the logger used to report registrations (must be non-nil).
func WithLogger(l Logger) Option {
	return func(cfg *config) error {
		if l == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithLogger requires a non-nil logger"))
		}
		cfg.Logger = l
		return nil
	}
}

// registerConfig holds per-registration overrides.
type registerConfig struct {
	Prefix string
	Attrs  []Attr
}

// RegisterOption configures a single Register call.
type RegisterOption func(*registerConfig)

// WithAttr stamps an attribute onto every descriptor produced by this
// registration, in addition to the registry's base attributes. This is how
// several instances of one component type stay distinguishable:
//
//	reg.Register(a.metrics, instrument.WithAttr("instance", "a"))
//	reg.Register(b.metrics, instrument.WithAttr("instance", "b"))
//
// An empty key is a usage error and panics with ErrInvalidConfig.
func WithAttr(key, value string) RegisterOption {
	return func(rc *registerConfig) {
		if key == "" {
			panic(errorc.With(ErrInvalidConfig, errorc.String("", "WithAttr requires a non-empty key")))
		}
		rc.Attrs = upsertAttr(rc.Attrs, key, value)
	}
}

// WithRegisterPrefix adds a name prefix segment for this registration only,
// joined after the registry-wide prefix.
func WithRegisterPrefix(p string) RegisterOption {
	return func(rc *registerConfig) {
		if p == "" {
			panic(errorc.With(ErrInvalidConfig, errorc.String("", "WithRegisterPrefix requires a non-empty segment")))
		}
		rc.Prefix = joinName(rc.Prefix, p)
	}
}
