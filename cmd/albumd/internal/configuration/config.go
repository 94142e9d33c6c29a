package configuration

import "github.com/adampresley/configinator"

type Config struct {
	AwsEndpointUrl           string `flag:"awsep" env:"AWS_ENDPOINT_URL" default:"http://localhost:4566" description:"AWS endpoint URL"`
	AwsRegion                string `flag:"awsregion" env:"AWS_REGION" default:"us-east-1" description:"AWS region"`
	AwsAccessKeyId           string `flag:"awsaccesskeyid" env:"AWS_ACCESS_KEY_ID" default:"test" description:"AWS access key ID"`
	AwsSecretAccessKey       string `flag:"awssecretaccesskey" env:"AWS_SECRET_ACCESS_KEY" default:"test" description:"AWS secret access key"`
	AwsBucket                string `flag:"awsbucket" env:"AWS_BUCKET" default:"photoalbums-images" description:"S3 bucket images are stored in"`
	DSN                      string `flag:"dsn" env:"DSN" default:"file:./data/photoalbums.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)" description:"Data source name"`
	Host                     string `flag:"host" env:"HOST" default:"localhost:8081" description:"The address and port to bind the HTTP server to"`
	LogLevel                 string `flag:"loglevel" env:"LOG_LEVEL" default:"debug" description:"The log level to use. Valid values are 'debug', 'info', 'warn', and 'error'"`
	MaxThumbnailWorkers      int    `flag:"mtw" env:"MAX_THUMBNAIL_WORKERS" default:"4" description:"Maximum number of concurrent thumbnail workers"`
	MaxUploadBytes           int    `flag:"mub" env:"MAX_UPLOAD_BYTES" default:"10485760" description:"Largest single image accepted, in bytes"`
	PresignExpirationMinutes int    `flag:"pem" env:"PRESIGN_EXPIRATION_MINUTES" default:"15" description:"Lifetime of presigned upload and download URLs"`
	QuotaMaxBytes            int    `flag:"qmb" env:"QUOTA_MAX_BYTES" default:"524288000" description:"Storage cap per user, in bytes"`
}

func LoadConfig() Config {
	config := Config{}
	configinator.Behold(&config)
	return config
}
