package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/civitaslabs/planqd/internal/authz"
)

func TestRegistryAccessors(t *testing.T) {
	policy := authz.NewPolicy(authz.NewDefaultRegistry())
	reg := NewRegistry(Options{Policy: policy})

	assert.Same(t, policy, reg.Policy())
	assert.Nil(t, reg.Memory())
	assert.Nil(t, reg.VectorStore())
}

func TestRegistryCloseWithNilServices(t *testing.T) {
	reg := NewRegistry(Options{})
	assert.NoError(t, reg.Close(context.Background()))
}
