package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/darkroom/internal/adapters/catalog"
	"go.trai.ch/darkroom/internal/core/domain"
)

func TestBuiltin_Lookup(t *testing.T) {
	c := catalog.New()

	nt, err := c.Lookup(catalog.TypeBlend)
	require.NoError(t, err)
	assert.Equal(t, catalog.TypeBlend, nt.Name.String())

	maskPort, ok := nt.Port(domain.NewInternedString(catalog.PortMask), domain.PortInput)
	require.True(t, ok)
	assert.Equal(t, domain.RoleMask, maskPort.Role)

	_, err = c.Lookup("vignette")
	require.ErrorContains(t, err, domain.ErrUnknownNodeType.Error())
}

func TestBuiltin_TypesSorted(t *testing.T) {
	var names []string
	for _, nt := range catalog.New().Types() {
		names = append(names, nt.Name.String())
	}
	assert.Equal(t, []string{"blend", "blur", "hsl", "input", "output", "sharpen", "solid", "transform"}, names)
}

func TestBuiltin_DefaultsAreValid(t *testing.T) {
	for _, nt := range catalog.New().Types() {
		for _, def := range nt.Parameters {
			assert.NoError(t, def.Validate(def.Default), "%s.%s", nt.Name, def.Name)
		}
	}
}

func TestBuiltin_PrimaryStream(t *testing.T) {
	c := catalog.New()

	tests := []struct {
		typ     string
		wantIn  string
		wantOut string
		ok      bool
	}{
		{catalog.TypeBlur, catalog.PortImage, catalog.PortImage, true},
		{catalog.TypeBlend, catalog.PortBase, catalog.PortImage, true},
		{catalog.TypeInput, "", "", false},
		{catalog.TypeSolid, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			nt, err := c.Lookup(tt.typ)
			require.NoError(t, err)
			pin, pout, ok := nt.PrimaryStream()
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.wantIn, pin.Name.String())
				assert.Equal(t, tt.wantOut, pout.Name.String())
			}
		})
	}
}
