package config

import (
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

var S3 s3iface.S3API

// ConnectS3 builds the long-lived S3 client shared by all requests.
func ConnectS3() {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}

	sess := session.Must(session.NewSessionWithOptions(session.Options{
		Config: aws.Config{
			Region:     aws.String(region),
			HTTPClient: &http.Client{Timeout: 30 * time.Second},
		},
		SharedConfigState: session.SharedConfigEnable,
	}))

	S3 = s3.New(sess)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func BucketName() string {
	return getenv("S3_BUCKET_NAME", "sales-notes-archive")
}

func CatalogServiceURL() string {
	return getenv("CATALOG_SERVICE_URL", "http://localhost:3001")
}

func NotificationServiceURL() string {
	return getenv("NOTIFICATION_SERVICE_URL", "http://localhost:3003")
}

func APIBaseURL() string {
	return getenv("API_BASE_URL", "http://localhost:3002")
}
