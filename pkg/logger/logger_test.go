package logger

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"hoopstats/pkg/config"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	key  string
	body string
	err  error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.key = *params.Key
	f.body = string(body)
	return &s3.PutObjectOutput{}, nil
}

func newTestLogger(t *testing.T, level string) (*Logger, *bytes.Buffer) {
	t.Helper()

	console := &bytes.Buffer{}
	l, err := New(&config.Config{Log: config.LogConfiguration{Level: level, Format: "json"}}, console)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	return l, console
}

func TestNewLogger(t *testing.T) {
	l, console := newTestLogger(t, "debug")

	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	l.WithPlayer(201939, "2023-24", "Regular Season").Info("profile built")

	content, err := os.ReadFile(l.FilePath())
	require.NoError(t, err)
	assert.Contains(t, string(content), `"player_id":201939`)
	assert.Contains(t, console.String(), "profile built")
}

func TestInvalidLevel(t *testing.T) {
	l, console := newTestLogger(t, "loud")

	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.Contains(t, console.String(), "Invalid LOG_LEVEL")
}

func TestUploadToS3Bucket(t *testing.T) {
	l, _ := newTestLogger(t, "info")

	putter := &fakePutter{}
	l.s3Client = putter
	l.bucket = "logs"

	l.Info("first line")
	require.NoError(t, l.UploadToS3Bucket(context.Background(), "logs/fetcher.log"))

	assert.Equal(t, "logs/fetcher.log", putter.key)
	assert.Contains(t, putter.body, "first line")

	// The file is cleaned after a successful upload.
	content, err := os.ReadFile(l.FilePath())
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestUploadFailureKeepsLines(t *testing.T) {
	l, _ := newTestLogger(t, "info")
	l.s3Client = &fakePutter{err: errors.New("bucket down")}
	l.bucket = "logs"

	l.Info("kept line")
	err := l.UploadToS3Bucket(context.Background(), "logs/fetcher.log")
	assert.ErrorContains(t, err, "bucket down")

	l.Info("next line")
	content, err := os.ReadFile(l.FilePath())
	require.NoError(t, err)
	assert.Contains(t, string(content), "kept line")
	assert.Contains(t, string(content), "next line")
}

func TestCleanFile(t *testing.T) {
	l, _ := newTestLogger(t, "info")

	l.Info("to be removed")
	require.NoError(t, l.CleanFile())

	content, err := os.ReadFile(l.FilePath())
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestUploadWithoutBucketCleansFile(t *testing.T) {
	l, console := newTestLogger(t, "info")

	for i := 0; i < 1000; i++ {
		l.WithField("line", i).Info("profile served")
	}
	require.NoError(t, l.UploadToS3Bucket(context.Background(), "logs/none.log"))

	content, err := os.ReadFile(l.FilePath())
	require.NoError(t, err)
	assert.Empty(t, content)
	assert.Contains(t, console.String(), `"line":999`)

	// Writes keep going to the start of the truncated file.
	l.Info("after clean")
	content, err = os.ReadFile(l.FilePath())
	require.NoError(t, err)
	assert.Contains(t, string(content), "after clean")
	assert.NotContains(t, string(content), "\x00")
}
