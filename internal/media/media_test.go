package media

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	err    error
}

func (f *fakeS3) PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestDisabledWithoutConfig(t *testing.T) {
	svc := NewService(Config{})
	if svc.Enabled() {
		t.Error("service enabled without credentials")
	}

	_, err := svc.UploadProofPhoto(context.Background(), "fam", "assign", "image/jpeg", strings.NewReader("data"))
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("err = %v, want ErrDisabled", err)
	}
}

func TestUploadProofPhoto(t *testing.T) {
	fake := &fakeS3{}
	svc := &Service{
		cfg: Config{
			Bucket:        "chorezilla",
			PublicBaseURL: "https://cdn.example.com",
		},
		client: fake,
	}

	url, err := svc.UploadProofPhoto(context.Background(), "fam-1", "assign-1", "image/jpeg", strings.NewReader("photo-bytes"))
	if err != nil {
		t.Fatalf("upload proof photo: %v", err)
	}

	if len(fake.inputs) != 1 {
		t.Fatalf("PutObject calls = %d, want 1", len(fake.inputs))
	}
	input := fake.inputs[0]
	if *input.Bucket != "chorezilla" {
		t.Errorf("bucket = %q, want %q", *input.Bucket, "chorezilla")
	}
	if !strings.HasPrefix(*input.Key, "proofs/fam-1/assign-1/") {
		t.Errorf("key = %q, want proofs/fam-1/assign-1/ prefix", *input.Key)
	}
	if !strings.HasSuffix(*input.Key, ".jpg") {
		t.Errorf("key = %q, want .jpg suffix", *input.Key)
	}
	if *input.ContentType != "image/jpeg" {
		t.Errorf("content type = %q, want %q", *input.ContentType, "image/jpeg")
	}

	if !strings.HasPrefix(url, "https://cdn.example.com/proofs/fam-1/assign-1/") {
		t.Errorf("url = %q, want public base prefix", url)
	}
}

func TestUploadError(t *testing.T) {
	fake := &fakeS3{err: errors.New("bucket unavailable")}
	svc := &Service{cfg: Config{Bucket: "chorezilla"}, client: fake}

	_, err := svc.UploadProofPhoto(context.Background(), "fam", "assign", "image/png", strings.NewReader("x"))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestPublicURLFallsBackToEndpoint(t *testing.T) {
	svc := &Service{cfg: Config{
		Endpoint: "https://s3.example.com/",
		Bucket:   "chorezilla",
	}}
	got := svc.publicURL("proofs/f/a/x.jpg")
	want := "https://s3.example.com/chorezilla/proofs/f/a/x.jpg"
	if got != want {
		t.Errorf("url = %q, want %q", got, want)
	}
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"image/jpeg", ".jpg"},
		{"image/png", ".png"},
		{"image/webp", ".webp"},
		{"image/gif", ".gif"},
		{"application/octet-stream", ".bin"},
	}
	for _, tt := range tests {
		if got := extensionFor(tt.contentType); got != tt.want {
			t.Errorf("extensionFor(%q) = %q, want %q", tt.contentType, got, tt.want)
		}
	}
}
