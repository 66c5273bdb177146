package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectBackend(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
		want  Backend
	}{
		{
			"local wins over everything",
			Flags{LocalEnabled: true, GlobalEnabled: true, TenantEnabled: true, IncludeGeneralAI: true},
			BackendLocalRAG,
		},
		{
			"local wins with all other flags off",
			Flags{LocalEnabled: true},
			BackendLocalRAG,
		},
		{
			"hosted when globally and tenant enabled",
			Flags{GlobalEnabled: true, TenantEnabled: true},
			BackendOpenAI,
		},
		{
			"hosted beats web search",
			Flags{GlobalEnabled: true, TenantEnabled: true, IncludeGeneralAI: true},
			BackendOpenAI,
		},
		{
			"web search when disabled globally but general AI requested",
			Flags{TenantEnabled: true, IncludeGeneralAI: true},
			BackendWebSearch,
		},
		{
			"web search when tenant disabled but general AI requested",
			Flags{GlobalEnabled: true, IncludeGeneralAI: true},
			BackendWebSearch,
		},
		{
			"documents when tenant disabled and no general AI",
			Flags{GlobalEnabled: true},
			BackendDocuments,
		},
		{
			"documents when globally disabled and no general AI",
			Flags{TenantEnabled: true},
			BackendDocuments,
		},
		{
			"documents when everything is off",
			Flags{},
			BackendDocuments,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectBackend(tt.flags))
		})
	}
}
