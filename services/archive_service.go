package services

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// Object metadata keys carried by every archived document. The names
// are part of the archive layout and must not change.
const (
	metaLastSent   = "hora-envio"
	metaDownloaded = "nota-descargada"
	metaSendCount  = "veces-enviado"
)

// ObjectTracking is the tracking state mirrored on the archived object.
// It is a best-effort copy of the record store's TrackingMetadata and
// is used for operational inspection only.
type ObjectTracking struct {
	SendCount  int
	Downloaded bool
	LastSentAt string
}

// Archive stores rendered documents in object storage and maintains the
// tracking metadata mirrored on each object.
type Archive interface {
	Store(key string, pdf []byte) error
	Fetch(key string) ([]byte, error)
	ReadMetadata(key string) (*ObjectTracking, error)
	MarkDownloaded(key string) error
	IncrementSendCount(key string) error
}

type ArchiveService struct {
	s3     s3iface.S3API
	bucket string
}

func NewArchiveService(client s3iface.S3API, bucket string) *ArchiveService {
	return &ArchiveService{s3: client, bucket: bucket}
}

func (s *ArchiveService) Store(key string, pdf []byte) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.s3.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(pdf),
		ContentType: aws.String("application/pdf"),
		Metadata: map[string]*string{
			metaLastSent:   aws.String(now),
			metaDownloaded: aws.String("false"),
			metaSendCount:  aws.String("1"),
		},
	})
	return err
}

func (s *ArchiveService) Fetch(key string) ([]byte, error) {
	out, err := s.s3.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrArtifactMissing
		}
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (s *ArchiveService) ReadMetadata(key string) (*ObjectTracking, error) {
	head, err := s.s3.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrArtifactMissing
		}
		return nil, err
	}
	return parseObjectTracking(head.Metadata), nil
}

func (s *ArchiveService) MarkDownloaded(key string) error {
	return s.rewriteMetadata(key, func(meta map[string]*string) {
		meta[metaDownloaded] = aws.String("true")
	})
}

func (s *ArchiveService) IncrementSendCount(key string) error {
	return s.rewriteMetadata(key, func(meta map[string]*string) {
		count := 1
		if v, ok := meta[metaSendCount]; ok && v != nil {
			if n, err := strconv.Atoi(*v); err == nil {
				count = n
			}
		}
		meta[metaSendCount] = aws.String(strconv.Itoa(count + 1))
		meta[metaLastSent] = aws.String(time.Now().UTC().Format(time.RFC3339))
	})
}

// rewriteMetadata is a head-then-copy read-modify-write: object
// metadata is not independently addressable, so the object is copied
// onto itself with the merged metadata replaced wholesale. Two
// concurrent rewrites race and the last writer wins.
func (s *ArchiveService) rewriteMetadata(key string, mutate func(map[string]*string)) error {
	head, err := s.s3.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return ErrArtifactMissing
		}
		return err
	}

	meta := map[string]*string{}
	for k, v := range head.Metadata {
		meta[k] = v
	}
	mutate(meta)

	_, err = s.s3.CopyObject(&s3.CopyObjectInput{
		Bucket:            aws.String(s.bucket),
		CopySource:        aws.String(s.bucket + "/" + key),
		Key:               aws.String(key),
		Metadata:          meta,
		MetadataDirective: aws.String(s3.MetadataDirectiveReplace),
	})
	return err
}

func parseObjectTracking(meta map[string]*string) *ObjectTracking {
	tracking := &ObjectTracking{SendCount: 1}
	if v, ok := meta[metaSendCount]; ok && v != nil {
		if n, err := strconv.Atoi(*v); err == nil {
			tracking.SendCount = n
		}
	}
	if v, ok := meta[metaDownloaded]; ok && v != nil {
		tracking.Downloaded = *v == "true"
	}
	if v, ok := meta[metaLastSent]; ok && v != nil {
		tracking.LastSentAt = *v
	}
	return tracking
}

func isNotFound(err error) bool {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return true
		}
	}
	return false
}
