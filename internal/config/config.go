package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	DatabaseURL string `env:"DATABASE_URL"`

	JWTSecret string `env:"JWT_SECRET,required"`

	Checkout Checkout `envPrefix:"CHECKOUT_"`
}

type Checkout struct {
	// Flat shipping fee regardless of order size or destination.
	ShippingFee string `env:"SHIPPING_FEE" envDefault:"30000"`
	// Tax applied to the pre-discount subtotal.
	TaxRate  string `env:"TAX_RATE" envDefault:"0.10"`
	Currency string `env:"CURRENCY" envDefault:"VND"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
