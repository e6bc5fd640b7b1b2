package bench

// Registration describes one test before it is normalized. Build it with Test,
// TestSync or TestAsync.
type Registration struct {
	fn     Func
	origin any // function whose symbol names the test
	name   string
	group  *string
	count  int
}

// TestOption configures a Registration.
type TestOption func(*Registration)

// Test registers fn. Without WithName, the test is named after fn.
func Test(fn Func, opts ...TestOption) Registration {
	r := Registration{fn: fn, origin: fn, count: 1}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// TestSync registers a plain function as a synchronous test named after fn.
func TestSync(fn func() error, opts ...TestOption) Registration {
	r := Test(nil, opts...)
	r.origin = fn
	if fn != nil {
		r.fn = Sync(fn)
	}
	return r
}

// TestAsync registers a plain function as an async test named after fn.
func TestAsync(fn func() error, opts ...TestOption) Registration {
	r := Test(nil, opts...)
	r.origin = fn
	if fn != nil {
		r.fn = Async(fn)
	}
	return r
}

// WithName sets the reported name of the test.
func WithName(name string) TestOption {
	return func(r *Registration) { r.name = name }
}

// WithGroup adds the test to a chart group. The group name is used as a file
// name and is validated on registration.
func WithGroup(group string) TestOption {
	return func(r *Registration) { r.group = &group }
}

// WithExecutionCount runs the test n times. Values below 1 mean 1.
func WithExecutionCount(n int) TestOption {
	return func(r *Registration) { r.count = n }
}
