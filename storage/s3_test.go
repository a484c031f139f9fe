package storage

import "testing"

func TestParseS3Path(t *testing.T) {
	tests := []struct {
		input      string
		wantBucket string
		wantPrefix string
	}{
		{"my-bucket", "my-bucket", ""},
		{"my-bucket/reqforge", "my-bucket", "reqforge"},
		{"my-bucket/a/b/c", "my-bucket", "a/b/c"},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			bucket, prefix := ParseS3Path(tt.input)
			if bucket != tt.wantBucket || prefix != tt.wantPrefix {
				t.Errorf("ParseS3Path(%q) = (%q, %q), want (%q, %q)", tt.input, bucket, prefix, tt.wantBucket, tt.wantPrefix)
			}
		})
	}
}

func TestNewS3_RequiresBucket(t *testing.T) {
	if _, err := NewS3(t.Context(), S3Config{}, Options{}); err == nil {
		t.Fatal("expected error without bucket")
	}
}
