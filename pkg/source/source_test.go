package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	abserrors "github.com/vango-dev/abs/internal/errors"
)

const page = `<html><body><div data-abs-component="Tabs"></div></body></html>`

type fakeS3 struct {
	objects map[string]string
	calls   []string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.calls = append(f.calls, key)
	body, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("NoSuchKey: %s", key)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestLoadLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte(page), 0644))

	doc, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	_, found := doc.QueryValue("data-abs-component", "Tabs")
	assert.True(t, found)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.html"))
	require.Error(t, err)
	assert.ErrorIs(t, err, abserrors.New("A020"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/page" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, page)
	}))
	defer srv.Close()

	l := NewLoader(WithHTTPClient(srv.Client()))

	doc, err := l.Load(context.Background(), srv.URL+"/page")
	require.NoError(t, err)
	_, found := doc.QueryValue("data-abs-component", "Tabs")
	assert.True(t, found)

	_, err = l.Load(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	var ae *abserrors.AbsError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "A020", ae.Code)
	assert.Contains(t, ae.Wrapped.Error(), "404")
}

func TestLoadS3(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{"site/pages/index.html": page}}
	l := NewLoader(WithS3Client(fake))

	doc, err := l.Load(context.Background(), "s3://site/pages/index.html")
	require.NoError(t, err)
	_, found := doc.QueryValue("data-abs-component", "Tabs")
	assert.True(t, found)
	assert.Equal(t, []string{"site/pages/index.html"}, fake.calls)

	_, err = l.Load(context.Background(), "s3://site/missing.html")
	assert.ErrorIs(t, err, abserrors.New("A020"))
}

func TestLoadUnsupportedScheme(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), "ftp://example.com/index.html")
	assert.ErrorIs(t, err, abserrors.New("A022"))
}

func TestParseS3(t *testing.T) {
	tests := []struct {
		ref     string
		bucket  string
		key     string
		wantErr bool
	}{
		{ref: "s3://b/k.html", bucket: "b", key: "k.html"},
		{ref: "s3://b/a/b/c.html", bucket: "b", key: "a/b/c.html"},
		{ref: "s3://b/", wantErr: true},
		{ref: "s3:///k", wantErr: true},
		{ref: "https://b/k", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			bucket, key, err := ParseS3(tt.ref)
			if tt.wantErr {
				assert.ErrorIs(t, err, abserrors.New("A022"))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestScheme(t *testing.T) {
	assert.Equal(t, "", scheme("pages/index.html"))
	assert.Equal(t, "", scheme(`C://pages`))
	assert.Equal(t, "https", scheme("HTTPS://example.com"))
	assert.Equal(t, "s3", scheme("s3://b/k"))
}

func TestNewS3ClientUsesSharedConfig(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config")
	credsFile := filepath.Join(dir, "credentials")
	require.NoError(t, os.WriteFile(configFile, []byte("[profile site]\nregion = ap-south-1\n"), 0600))
	require.NoError(t, os.WriteFile(credsFile, []byte("[site]\naws_access_key_id = AKIDSHARED\naws_secret_access_key = secret\n"), 0600))

	for _, key := range []string{"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "AWS_SESSION_TOKEN", "AWS_REGION", "AWS_DEFAULT_REGION"} {
		t.Setenv(key, "")
	}
	t.Setenv("AWS_CONFIG_FILE", configFile)
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", credsFile)
	t.Setenv("AWS_PROFILE", "site")

	ctx := context.Background()

	client, err := newS3Client(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "ap-south-1", client.Options().Region)

	creds, err := client.Options().Credentials.Retrieve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AKIDSHARED", creds.AccessKeyID)

	client, err = newS3Client(ctx, "eu-west-1")
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", client.Options().Region)
}
