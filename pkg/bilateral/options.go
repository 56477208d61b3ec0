package bilateral

// Option configures a single Filter call.
//
// Example:
//
//	out, err := bilateral.Filter(img, bilateral.DefaultParams(),
//	    bilateral.WithPolicies(bilateral.CorrectedPolicies()),
//	    bilateral.WithBorder(bilateral.BorderReflect),
//	    bilateral.WithWorkers(4))
type Option func(*options)

type options struct {
	policies  PolicyTable
	overrides map[Mode]ChannelPolicy
	border    Border
	workers   int
	cache     *KernelCache
}

func defaultOptions() options {
	return options{
		policies: DefaultPolicies(),
		border:   BorderExclude,
		cache:    defaultKernelCache,
	}
}

// WithPolicies replaces the whole mode-to-policy table.
func WithPolicies(t PolicyTable) Option {
	return func(o *options) {
		o.policies = t.Clone()
	}
}

// WithPolicy overrides the policy of a single mode, leaving the rest of the
// table alone. Later calls for the same mode win.
func WithPolicy(mode Mode, p ChannelPolicy) Option {
	return func(o *options) {
		if o.overrides == nil {
			o.overrides = make(map[Mode]ChannelPolicy)
		}
		o.overrides[mode] = p.clone()
	}
}

// WithBorder selects how window positions outside the image are handled.
// The default is BorderExclude.
func WithBorder(b Border) Option {
	return func(o *options) {
		o.border = b
	}
}

// WithWorkers limits how many row ranges are filtered concurrently.
// n <= 0 means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithKernelCache sets the cache spatial kernels are taken from. nil
// disables caching and builds a fresh kernel for the call.
func WithKernelCache(c *KernelCache) Option {
	return func(o *options) {
		o.cache = c
	}
}

func (o *options) policy(mode Mode) (ChannelPolicy, error) {
	if p, ok := o.overrides[mode]; ok && mode.Valid() {
		t := PolicyTable{mode: p}
		return t.Lookup(mode)
	}
	return o.policies.Lookup(mode)
}

func (o *options) spatialKernel(diameter int, sigmaSpace float64) *SpatialKernel {
	if o.cache == nil {
		return NewSpatialKernel(diameter, sigmaSpace)
	}
	return o.cache.Get(diameter, sigmaSpace)
}
