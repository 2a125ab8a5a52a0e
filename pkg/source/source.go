package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/abs/internal/errors"
	"github.com/vango-dev/abs/pkg/htmldoc"
)

// DefaultHTTPTimeout bounds http(s) fetches when no client is configured.
const DefaultHTTPTimeout = 15 * time.Second

// S3GetObjectAPI is the subset of *s3.Client the loader needs.
type S3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Loader resolves document references to their contents.
type Loader struct {
	httpClient *http.Client
	s3Client   S3GetObjectAPI
	s3Region   string
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for http(s) references.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		l.httpClient = c
	}
}

// WithHTTPTimeout sets the timeout of the default HTTP client.
func WithHTTPTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithS3Client sets the client used for s3:// references.
func WithS3Client(c S3GetObjectAPI) Option {
	return func(l *Loader) {
		l.s3Client = c
	}
}

// WithS3Region sets the region of the S3 client built on first use.
// Without it the region comes from the AWS environment or shared config.
func WithS3Region(region string) Option {
	return func(l *Loader) {
		l.s3Region = region
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open returns a reader over the referenced document. The caller closes it.
func (l *Loader) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	switch scheme(ref) {
	case "":
		f, err := os.Open(ref)
		if err != nil {
			return nil, loadError(ref, err)
		}
		return f, nil
	case "http", "https":
		return l.openHTTP(ctx, ref)
	case "s3":
		return l.openS3(ctx, ref)
	default:
		return nil, errors.New("A022").WithSubject(ref)
	}
}

// Load reads and parses the referenced document.
func (l *Loader) Load(ctx context.Context, ref string) (*htmldoc.Document, error) {
	rc, err := l.Open(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	doc, err := htmldoc.Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref, err)
	}
	return doc, nil
}

func (l *Loader) openHTTP(ctx context.Context, ref string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, loadError(ref, err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, loadError(ref, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, loadError(ref, fmt.Errorf("unexpected status %s", resp.Status))
	}
	return resp.Body, nil
}

func (l *Loader) openS3(ctx context.Context, ref string) (io.ReadCloser, error) {
	bucket, key, err := ParseS3(ref)
	if err != nil {
		return nil, err
	}
	if l.s3Client == nil {
		client, err := newS3Client(ctx, l.s3Region)
		if err != nil {
			return nil, loadError(ref, err)
		}
		l.s3Client = client
	}

	out, err := l.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, loadError(ref, fmt.Errorf("s3 get object failed: %w", err))
	}
	return out.Body, nil
}

// ParseS3 splits an s3://bucket/key reference.
func ParseS3(ref string) (bucket, key string, err error) {
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "s3" {
		return "", "", errors.New("A022").WithSubject(ref)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", errors.New("A022").
			WithSubject(ref).
			WithSuggestion("use the form s3://bucket/path/to/page.html")
	}
	return u.Host, key, nil
}

// newS3Client builds a client from the default AWS credential chain:
// environment, shared config and credentials files, SSO and instance roles.
func newS3Client(ctx context.Context, region string) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// scheme returns the lowercase URL scheme of ref, or "" for local paths.
// Windows drive letters ("C:\") are treated as local paths.
func scheme(ref string) string {
	i := strings.Index(ref, "://")
	if i <= 1 {
		return ""
	}
	return strings.ToLower(ref[:i])
}

func loadError(ref string, err error) error {
	return errors.New("A020").WithSubject(ref).Wrap(err)
}
