// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package stackful

// generatorConfig holds resolved Generator construction options.
type generatorConfig struct {
	stackSize uintptr
	metrics   *Metrics
}

// GeneratorOption configures a Generator at construction, following the
// teacher's LoopOption/loopOptionImpl functional-option pattern.
type GeneratorOption interface {
	applyGenerator(*generatorConfig)
}

type generatorOptionFunc func(*generatorConfig)

func (f generatorOptionFunc) applyGenerator(c *generatorConfig) { f(c) }

// WithStackSize overrides the default 2 MiB fiber stack size. The
// requested size is rounded up to a whole number of guard-page
// multiples (spec.md §4.1's guard region is exactly one system page)
// and never permitted below two pages (one guard, one usable). A
// non-default size bypasses the single-slot stack cache (§9's cache
// stays sized for the default), since a mixed-size cache would need to
// track size per slot for no benefit at this module's scale.
func WithStackSize(size uintptr) GeneratorOption {
	return generatorOptionFunc(func(c *generatorConfig) {
		if size == 0 {
			return
		}
		ps := pageSize()
		if rem := size % ps; rem != 0 {
			size += ps - rem
		}
		if size < ps*2 {
			size = ps * 2
		}
		c.stackSize = size
	})
}

// WithGeneratorMetrics attaches m to the constructed Generator, which
// will then record stack-cache hit/miss/alloc/free counts and
// fiber-switch latency into it (see metrics.go).
func WithGeneratorMetrics(m *Metrics) GeneratorOption {
	return generatorOptionFunc(func(c *generatorConfig) {
		c.metrics = m
	})
}

// resolveGeneratorOptions applies opts over the package default config.
func resolveGeneratorOptions(opts []GeneratorOption) *generatorConfig {
	cfg := &generatorConfig{stackSize: stackSize}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyGenerator(cfg)
	}
	return cfg
}

// bridgeConfig holds resolved RunSyncAsAsync/Wait construction options.
type bridgeConfig struct {
	executor BlockingExecutor
	logger   Logger
	metrics  *Metrics
	genOpts  []GeneratorOption
}

// BridgeOption configures RunSyncAsAsync's bridge, mirroring
// GeneratorOption's shape one layer up.
type BridgeOption interface {
	applyBridge(*bridgeConfig)
}

type bridgeOptionFunc func(*bridgeConfig)

func (f bridgeOptionFunc) applyBridge(c *bridgeConfig) { f(c) }

// WithBlockingExecutor overrides the fallback executor Wait delegates
// to when called outside any coroutine context. The package default is
// defaultBlockingExecutor (executor.go).
func WithBlockingExecutor(e BlockingExecutor) BridgeOption {
	return bridgeOptionFunc(func(c *bridgeConfig) {
		c.executor = e
	})
}

// WithBridgeLogger overrides the logger used for this bridge's
// lifecycle events, independent of the package-level logger installed
// via SetStructuredLogger.
func WithBridgeLogger(l Logger) BridgeOption {
	return bridgeOptionFunc(func(c *bridgeConfig) {
		c.logger = l
	})
}

// WithBridgeMetrics attaches m to the underlying Generator that drives
// this bridge, equivalent to passing WithGeneratorMetrics(m) to
// NewGenerator directly.
func WithBridgeMetrics(m *Metrics) BridgeOption {
	return bridgeOptionFunc(func(c *bridgeConfig) {
		c.metrics = m
	})
}

// WithBridgeStackSize is WithStackSize, threaded through to the
// underlying Generator.
func WithBridgeStackSize(size uintptr) BridgeOption {
	return bridgeOptionFunc(func(c *bridgeConfig) {
		c.genOpts = append(c.genOpts, WithStackSize(size))
	})
}

// resolveBridgeOptions applies opts over the package default config.
func resolveBridgeOptions(opts []BridgeOption) *bridgeConfig {
	cfg := &bridgeConfig{executor: defaultBlockingExecutor{}}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyBridge(cfg)
	}
	if cfg.metrics != nil {
		cfg.genOpts = append(cfg.genOpts, WithGeneratorMetrics(cfg.metrics))
	}
	return cfg
}
