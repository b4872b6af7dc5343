package artifacts

import (
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBucket = "e2e-artifacts"

func fakeS3(t *testing.T) *s3.Client {
	t.Helper()
	faker := gofakes3.New(s3mem.New())
	ts := httptest.NewServer(faker.Server())
	t.Cleanup(ts.Close)

	ctx := context.Background()
	sdkConfig, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test-key", "test-secret", "")),
	)
	require.NoError(t, err)
	client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(ts.URL)
		o.UsePathStyle = true
	})
	_, err = client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(testBucket)})
	require.NoError(t, err)
	return client
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func getObject(t *testing.T, client *s3.Client, key string) (string, string) {
	t.Helper()
	out, err := client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(testBucket),
		Key:    aws.String(key),
	})
	require.NoError(t, err)
	defer out.Body.Close()
	body, err := io.ReadAll(out.Body)
	require.NoError(t, err)
	return string(body), aws.ToString(out.ContentType)
}

func TestUploadDirCopiesEveryFileUnderTheRunPrefix(t *testing.T) {
	client := fakeS3(t)
	root := t.TempDir()
	writeFile(t, root, "report.xml", "<testsuites/>")
	writeFile(t, root, "report.json", `{"summary":{}}`)
	writeFile(t, root, "chromium/login-page-1/trace.zip", "PK")

	u := NewUploader(client, testBucket, "run-123")
	summary, err := u.UploadDir(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Files)
	assert.Equal(t, int64(len("<testsuites/>")+len(`{"summary":{}}`)+len("PK")), summary.Bytes)
	assert.Equal(t, "s3://e2e-artifacts/run-123/", summary.Location)

	body, ctype := getObject(t, client, "run-123/chromium/login-page-1/trace.zip")
	assert.Equal(t, "PK", body)
	assert.Equal(t, "application/zip", ctype)

	body, ctype = getObject(t, client, "run-123/report.xml")
	assert.Equal(t, "<testsuites/>", body)
	assert.Equal(t, "application/xml", ctype)
}

func TestUploadDirOfEmptyDirectory(t *testing.T) {
	u := NewUploader(fakeS3(t), testBucket, "run-empty")
	summary, err := u.UploadDir(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, summary.Files)
	assert.Contains(t, summary.String(), "0 files")
}

func TestUploadDirFailsForMissingBucket(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "report.json", "{}")
	u := NewUploader(fakeS3(t), "no-such-bucket", "run-1")
	_, err := u.UploadDir(context.Background(), root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report.json")
}

func TestUploadDirFailsForMissingRoot(t *testing.T) {
	u := NewUploader(fakeS3(t), testBucket, "run-1")
	_, err := u.UploadDir(context.Background(), filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}

func TestKeyUsesForwardSlashes(t *testing.T) {
	u := NewUploader(nil, testBucket, "/run-9/")
	assert.Equal(t, "run-9/webkit/a/screenshot.png", u.Key(filepath.Join("webkit", "a", "screenshot.png")))
	assert.Equal(t, "s3://e2e-artifacts/run-9/", u.Location())
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/zip", contentType("trace.zip"))
	assert.Equal(t, "image/png", contentType("shot.png"))
	assert.Equal(t, "application/octet-stream", contentType("noext"))
}
