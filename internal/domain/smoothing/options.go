package smoothing

// Option applies a configuration option to the Smoother.
type Option func(*Smoother)

// WithWindow sets the filter window size. The window is fixed at
// construction; non-positive values are ignored.
func WithWindow(window int) Option {
	return func(s *Smoother) {
		if window > 0 {
			s.window = window
		}
	}
}
