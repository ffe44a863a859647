package buildinfo

import (
	"runtime/debug"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromBuildInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		bi   debug.BuildInfo
		want Info
		str  string
	}{
		{
			name: "devel",
			bi:   debug.BuildInfo{GoVersion: "go1.25.0", Main: debug.Module{Version: "(devel)"}},
			want: Info{Version: "dev", GoVersion: "go1.25.0"},
			str:  "dev",
		},
		{
			name: "release_with_vcs",
			bi: debug.BuildInfo{
				Main: debug.Module{Version: "v1.2.0"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123456789abcdef"},
					{Key: "vcs.modified", Value: "true"},
					{Key: "-tags", Value: "netgo"},
				},
			},
			want: Info{Version: "v1.2.0", Revision: "0123456789abcdef", Modified: true, Tags: "netgo"},
			str:  "v1.2.0 (rev 01234567, dirty, tags: netgo)",
		},
		{
			name: "clean_checkout",
			bi: debug.BuildInfo{
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc"},
					{Key: "vcs.modified", Value: "false"},
				},
			},
			want: Info{Version: "dev", Revision: "abc"},
			str:  "dev (rev abc)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := fromBuildInfo(&tt.bi)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("fromBuildInfo mismatch (-want +got):\n%s", diff)
			}
			if got.String() != tt.str {
				t.Fatalf("String() = %q, want %q", got.String(), tt.str)
			}
		})
	}
}

func TestRead_Unavailable(t *testing.T) {
	orig := readBuildInfo
	t.Cleanup(func() { readBuildInfo = orig })
	readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }

	if got := Read(); got != (Info{Version: "dev"}) {
		t.Fatalf("Read() = %+v", got)
	}
}
