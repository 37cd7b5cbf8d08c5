package storage

// Config holds configuration for the storage provider.
type Config struct {
	// Endpoint is the URL of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket is the name of the bucket holding sample logs and exports.
	Bucket string `mapstructure:"bucket" default:"logs"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxObjectBytes caps how much of an object is read into memory.
	MaxObjectBytes int64 `mapstructure:"max_object_bytes" default:"1048576"`
	// ListCacheSeconds is how long sample listings are cached. Zero disables the cache.
	ListCacheSeconds int `mapstructure:"list_cache_seconds" default:"5"`
}
