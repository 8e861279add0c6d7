package main

import "testing"

// TestBuild verifies the package compiles and the entrypoint exists.
func TestBuild(t *testing.T) {
	t.Log("cmd/pluginhostctl package builds successfully")
}
