package merrymem

// Config carries the construction-time knobs from spec.md §6. Defaults
// match the spec exactly: capacity 1024, overflow 10, stripe width 16,
// 10 optimistic find retries, 0.9 sequential-engine grow threshold.
type Config struct {
	Capacity                int
	OverflowSlots           int
	StripeWidth             int
	OptimisticFindRetries   int
	LoadFactorGrowThreshold float64
}

func defaultConfig() Config {
	return Config{
		Capacity:                1024,
		OverflowSlots:           10,
		StripeWidth:             defaultStripeWidth,
		OptimisticFindRetries:   10,
		LoadFactorGrowThreshold: 0.9,
	}
}

// Option configures a Table at construction time.
type Option func(*Config)

// WithCapacity sets the fixed capacity of the parallel engine. Must be a
// power of two.
func WithCapacity(capacity int) Option {
	return func(c *Config) { c.Capacity = capacity }
}

// WithOverflowSlots sets the size of the linear overflow tail appended
// after capacity, absorbing probe runs past the last home index.
func WithOverflowSlots(overflow int) Option {
	return func(c *Config) { c.OverflowSlots = overflow }
}

// WithStripeWidth sets the number of consecutive slots sharing one stripe
// lock and version counter.
func WithStripeWidth(width int) Option {
	return func(c *Config) { c.StripeWidth = width }
}

// WithOptimisticFindRetries bounds how many optimistic-read attempts Find
// makes before falling back to a locked probe.
func WithOptimisticFindRetries(retries int) Option {
	return func(c *Config) { c.OptimisticFindRetries = retries }
}

// WithLoadFactorGrowThreshold sets the load factor past which the
// sequential (single-threaded reference) engine grows. It has no effect on
// the parallel engine, which is fixed-capacity by design (spec §1
// Non-goals).
func WithLoadFactorGrowThreshold(threshold float64) Option {
	return func(c *Config) { c.LoadFactorGrowThreshold = threshold }
}

func (c Config) validate() error {
	if c.Capacity <= 0 || c.Capacity&(c.Capacity-1) != 0 {
		return newConfigError("Capacity", "must be a power of two")
	}
	if c.OverflowSlots <= 0 {
		return newConfigError("OverflowSlots", "must be positive")
	}
	if c.StripeWidth <= 0 {
		return newConfigError("StripeWidth", "must be positive")
	}
	if c.OptimisticFindRetries <= 0 {
		return newConfigError("OptimisticFindRetries", "must be positive")
	}
	if c.LoadFactorGrowThreshold <= 0 || c.LoadFactorGrowThreshold >= 1 {
		return newConfigError("LoadFactorGrowThreshold", "must be in (0,1)")
	}
	return nil
}
