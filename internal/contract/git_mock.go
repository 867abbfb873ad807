package contract

import (
	"context"

	"github.com/statscope/statscope/schema"
	"github.com/stretchr/testify/mock"
)

// MockGitClient is a testify mock for the GitClient type.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	mockArgs := []any{ctx, repoPath}
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

// ResolveCommit implements the GitClient interface.
func (m *MockGitClient) ResolveCommit(ctx context.Context, repoPath string, ref string) (string, error) {
	ret := m.Called(ctx, repoPath, ref)
	id, _ := ret.Get(0).(string)
	return id, ret.Error(1)
}

// HistoryLog implements the GitClient interface.
func (m *MockGitClient) HistoryLog(ctx context.Context, repoPath string, ref string, afterCommit string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, ref, afterCommit)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

// AuthorTimezones implements the GitClient interface.
func (m *MockGitClient) AuthorTimezones(ctx context.Context, repoPath string, ref string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, ref)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

// CommitGraph implements the GitClient interface.
func (m *MockGitClient) CommitGraph(ctx context.Context, repoPath string, tips []string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, tips)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

// ShortLog implements the GitClient interface.
func (m *MockGitClient) ShortLog(ctx context.Context, repoPath string, ref string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, ref)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

// ListTags implements the GitClient interface.
func (m *MockGitClient) ListTags(ctx context.Context, repoPath string) ([]schema.Tag, error) {
	ret := m.Called(ctx, repoPath)
	tags, _ := ret.Get(0).([]schema.Tag)
	return tags, ret.Error(1)
}

// DiffNumstat implements the GitClient interface.
func (m *MockGitClient) DiffNumstat(ctx context.Context, repoPath string, baseRef string, targetRef string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, baseRef, targetRef)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

// ListTree implements the GitClient interface.
func (m *MockGitClient) ListTree(ctx context.Context, repoPath string, ref string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, ref)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

// CatFileBatch implements the GitClient interface.
func (m *MockGitClient) CatFileBatch(ctx context.Context, repoPath string, ids []string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, ids)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

// ReadBlob implements the GitClient interface.
func (m *MockGitClient) ReadBlob(ctx context.Context, repoPath string, id string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, id)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}
