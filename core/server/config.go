package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// MaxUploadMB caps the size of a multipart upload in megabytes.
	MaxUploadMB int `mapstructure:"max_upload_mb" default:"64"`
}

const defaultMaxUploadMB = 64

// BodyLimit returns the request body limit in bytes.
func (c Config) BodyLimit() int {
	mb := c.MaxUploadMB
	if mb <= 0 {
		mb = defaultMaxUploadMB
	}
	return mb * 1024 * 1024
}

// IsProtected reports whether an API key has been configured.
func (c Config) IsProtected() bool {
	return c.ApiKey != ""
}
