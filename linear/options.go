package linear

import "github.com/YuminosukeSato/tabml/pkg/log"

// Option configures a LinearRegression.
type Option func(*LinearRegression)

// WithL2 sets the ridge penalty added to the non-bias diagonal of XᵀX.
// Values below MinL2 are raised to MinL2.
func WithL2(l2 float64) Option {
	return func(lr *LinearRegression) {
		lr.l2 = l2
	}
}

// WithLogger overrides the component logger.
func WithLogger(l log.Logger) Option {
	return func(lr *LinearRegression) {
		lr.logger = l
	}
}
