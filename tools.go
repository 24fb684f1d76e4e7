//go:build tools

package tools

// This file tracks versions of CLI tool dependencies.
// It is not compiled into the binary.
//
// - github.com/matryer/moq (service mocks are kept in its func-field style)
// - github.com/pressly/goose/v3/cmd/goose (ad-hoc journal migrations; `wordbuddy migrate` embeds them)
