package storage

import "errors"

// MinIOConfig holds MinIO connection configuration
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// Validate reports the first missing required field.
func (c *MinIOConfig) Validate() error {
	switch {
	case c == nil || c.Endpoint == "":
		return errors.New("minio endpoint missing")
	case c.Bucket == "":
		return errors.New("minio bucket missing")
	}
	return nil
}
