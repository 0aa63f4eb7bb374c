package utils

import "os"

var (
	HTTP_PORT = GetEnvOrDefault("HTTP_PORT", "8080")

	// DATA_STORE is where parquet files are read from, `disk` or `s3`
	DATA_STORE = GetEnvOrDefault("DATA_STORE", "disk")
	DISK_ROOT  = GetEnvOrDefault("DISK_ROOT", "./data")

	// META_STORE is where decoded footers are kept, `redis` or `crdb`
	META_STORE     = GetEnvOrDefault("META_STORE", "redis")
	REDIS_ADDR     = GetEnvOrDefault("REDIS_ADDR", "localhost:6379")
	REDIS_PASSWORD = os.Getenv("REDIS_PASSWORD")
	CRDB_DSN       = os.Getenv("CRDB_DSN")

	// AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY are read by the aws sdk
	AWS_DEFAULT_REGION = GetEnvOrDefault("AWS_DEFAULT_REGION", "us-east-1")

	S3_BUCKET_NAME = os.Getenv("S3_BUCKET_NAME")
	S3_ENDPOINT    = os.Getenv("S3_ENDPOINT")

	// 0 disables the limit
	MAX_FOOTER_BYTES = GetEnvOrDefaultInt("MAX_FOOTER_BYTES", 16<<20)

	// For load balancers needing some time to de-register the pod
	SHUTDOWN_SLEEP_SEC = GetEnvOrDefaultInt("SHUTDOWN_SLEEP_SEC", 0)
)
