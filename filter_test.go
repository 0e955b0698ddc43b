package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPortFilter(t *testing.T) {
	f := DefaultPortFilter()

	assert.True(t, f.Drop(testSeg("10.0.0.1", 5555, "10.0.0.2", 443, "")))
	assert.True(t, f.Drop(testSeg("10.0.0.2", 443, "10.0.0.1", 5555, "")))
	assert.True(t, f.Drop(testSeg("10.0.0.1", 5223, "10.0.0.2", 80, "")))
	assert.True(t, f.Drop(testSeg("10.0.0.1", 1234, "10.0.0.2", 5228, "")))
	assert.False(t, f.Drop(testSeg("10.0.0.1", 1234, "10.0.0.2", 80, "")))
	assert.False(t, f.Drop(testSeg("10.0.0.1", 1234, "10.0.0.2", 8080, "")))
}

func TestPortFilterExclude(t *testing.T) {
	f := DefaultPortFilter()
	f.Exclude(6379, 5432)

	assert.True(t, f.Drop(testSeg("10.0.0.1", 1234, "10.0.0.2", 6379, "")))
	assert.True(t, f.Drop(testSeg("10.0.0.1", 5432, "10.0.0.2", 1234, "")))
	assert.False(t, f.Drop(testSeg("10.0.0.1", 1234, "10.0.0.2", 80, "")))
}
