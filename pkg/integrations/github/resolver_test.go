package github

import (
	"context"
	"testing"

	"github.com/packdex/packdex/pkg/catalog"
)

func TestResolverResolve(t *testing.T) {
	tests := []struct {
		name string
		urls map[string]string
		want *catalog.RepositoryRef
	}{
		{
			name: "scm url",
			urls: map[string]string{"Source": "https://github.com/TypeLevel/Cats"},
			want: &catalog.RepositoryRef{Organization: "typelevel", Repository: "cats"},
		},
		{
			name: "git connection",
			urls: map[string]string{"Connection": "scm:git:git@github.com:acme/lib.git"},
			want: &catalog.RepositoryRef{Organization: "acme", Repository: "lib"},
		},
		{
			name: "homepage with path suffix",
			urls: map[string]string{"Homepage": "https://github.com/acme/lib/tree/main"},
			want: &catalog.RepositoryRef{Organization: "acme", Repository: "lib"},
		},
		{
			name: "no github url",
			urls: map[string]string{"Homepage": "https://acme.example.org"},
			want: nil,
		},
		{
			name: "no urls at all",
			urls: nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := (Resolver{}).Resolve(context.Background(), tt.urls)
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("Resolve() = %v, want nil", got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}
