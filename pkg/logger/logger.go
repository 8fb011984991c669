package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"hoopstats/pkg/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"
)

// ObjectPutter is the subset of the S3 client used for log uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Logger writes structured logs to stdout and to a temporary file that is shipped to a bucket.
type Logger struct {
	*logrus.Logger

	mu       sync.Mutex
	logFile  *os.File
	filePath string
	bucket   string
	s3Client ObjectPutter
}

// New creates the logger with a temporary file.
// The console output is only a copy, the file is the source for the bucket uploads.
func New(cfg *config.Config, console io.Writer) (*Logger, error) {
	f, err := os.CreateTemp("", "log-*.log")
	if err != nil {
		return nil, err
	}

	l := &Logger{
		Logger:   logrus.New(),
		logFile:  f,
		filePath: f.Name(),
	}

	if console == nil {
		console = os.Stdout
	}
	l.SetOutput(&lockedWriter{logger: l, console: console})

	if level, err := logrus.ParseLevel(strings.ToLower(cfg.Log.Level)); err == nil {
		l.SetLevel(level)
	} else {
		l.SetLevel(logrus.InfoLevel)
		l.WithField("invalid_level", cfg.Log.Level).Warn("Invalid LOG_LEVEL, using INFO")
	}

	if strings.ToLower(cfg.Log.Format) == "json" {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	}

	if cfg.HasBucket() {
		l.bucket = cfg.Bucket.LogBucket
		l.s3Client = newS3Client(cfg)
	}

	return l, nil
}

// Create the client for the S3 compatible bucket.
func newS3Client(cfg *config.Config) *s3.Client {
	awsCfg := aws.Config{
		Region: cfg.Bucket.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(
				cfg.Bucket.AccessKey,
				cfg.Bucket.AccessSecret,
				"",
			),
		),
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Bucket.Endpoint)
		o.UsePathStyle = true
	})
}

// WithPlayer returns an entry with the player context.
func (l *Logger) WithPlayer(playerID int, season string, seasonType string) *logrus.Entry {
	return l.WithFields(logrus.Fields{
		"player_id":   playerID,
		"season":      season,
		"season_type": seasonType,
	})
}

// FilePath returns the path of the temporary log file.
func (l *Logger) FilePath() string {
	return l.filePath
}

// CleanFile truncates the file contents.
func (l *Logger) CleanFile() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.cleanFile()
}

func (l *Logger) cleanFile() error {
	if err := l.logFile.Truncate(0); err != nil {
		return err
	}
	_, err := l.logFile.Seek(0, io.SeekStart)
	return err
}

// UploadToS3Bucket uploads the log file to the bucket and cleans it after sending.
// Without a bucket the file is only cleaned, the lines already went to the console.
func (l *Logger) UploadToS3Bucket(ctx context.Context, objectKey string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.s3Client == nil {
		return l.cleanFile()
	}

	if _, err := l.logFile.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind file: %w", err)
	}

	_, err := l.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(objectKey),
		Body:   l.logFile,
		ACL:    types.ObjectCannedACLPrivate,
	})
	if err != nil {
		// Keep appending to the end of the file, the next upload carries these lines too.
		l.logFile.Seek(0, io.SeekEnd)
		return fmt.Errorf("failed to upload %s to S3 bucket: %w", objectKey, err)
	}

	return l.cleanFile()
}

// Close removes the temporary file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logFile.Close()
	return os.Remove(l.filePath)
}

// lockedWriter shares the file mutex with the uploads.
type lockedWriter struct {
	logger  *Logger
	console io.Writer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.logger.mu.Lock()
	defer w.logger.mu.Unlock()

	w.console.Write(p)
	return w.logger.logFile.Write(p)
}
