package testutil

import (
	"context"

	"github.com/arthur-debert/buildsetup/pkg/types"
	"github.com/stretchr/testify/mock"
)

// MockPrompter is a testify mock of types.Prompter.
// Configure expectations with .On("YesNo", ...).Return(...).
type MockPrompter struct {
	mock.Mock
}

// YesNo mocks the YesNo method.
func (m *MockPrompter) YesNo(req types.YesNoRequest) (bool, error) {
	args := m.Called(req)
	return args.Bool(0), args.Error(1)
}

// MsgBox mocks the MsgBox method.
func (m *MockPrompter) MsgBox(title, text string) error {
	args := m.Called(title, text)
	return args.Error(0)
}

// InfoBox mocks the InfoBox method.
func (m *MockPrompter) InfoBox(title, text string) error {
	args := m.Called(title, text)
	return args.Error(0)
}

// Checklist mocks the Checklist method.
func (m *MockPrompter) Checklist(req types.ListRequest) ([]string, error) {
	args := m.Called(req)
	tags, _ := args.Get(0).([]string)
	return tags, args.Error(1)
}

// Radiolist mocks the Radiolist method.
func (m *MockPrompter) Radiolist(req types.ListRequest) (string, error) {
	args := m.Called(req)
	return args.String(0), args.Error(1)
}

// MockKeyTool is a testify mock of types.KeyTool.
type MockKeyTool struct {
	mock.Mock
}

// IsPresent mocks the IsPresent method.
func (m *MockKeyTool) IsPresent(ctx context.Context, key string) bool {
	args := m.Called(ctx, key)
	return args.Bool(0)
}

// Fingerprints mocks the Fingerprints method.
func (m *MockKeyTool) Fingerprints(ctx context.Context, key string) ([]string, error) {
	args := m.Called(ctx, key)
	lines, _ := args.Get(0).([]string)
	return lines, args.Error(1)
}

// ImportFromServer mocks the ImportFromServer method.
func (m *MockKeyTool) ImportFromServer(ctx context.Context, key, server string) error {
	args := m.Called(ctx, key, server)
	return args.Error(0)
}

// SetOwnerTrust mocks the SetOwnerTrust method.
func (m *MockKeyTool) SetOwnerTrust(ctx context.Context, key string, level int) error {
	args := m.Called(ctx, key, level)
	return args.Error(0)
}

// ImportFile mocks the ImportFile method.
func (m *MockKeyTool) ImportFile(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

// Compile-time interface checks
var (
	_ types.Prompter = (*MockPrompter)(nil)
	_ types.KeyTool  = (*MockKeyTool)(nil)
)
