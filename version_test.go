package srctl

import "testing"

func TestFullVersion(t *testing.T) {
	saved := GitCommit
	defer func() { GitCommit = saved }()

	tests := []struct {
		commit string
		want   string
	}{
		{"unknown", Version},
		{"", Version},
		{"abc", Version + "+abc"},
		{"0123456789abcdef", Version + "+0123456"},
	}

	for _, tt := range tests {
		GitCommit = tt.commit
		if got := FullVersion(); got != tt.want {
			t.Errorf("FullVersion() with commit %q = %q, want %q", tt.commit, got, tt.want)
		}
	}
}

func TestUserAgent(t *testing.T) {
	if got := UserAgent(); got != Name+"/"+Version {
		t.Errorf("UserAgent() = %q", got)
	}
}
