package git

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MockGitClient implements GitClient for testing with a linear commit history
type MockGitClient struct {
	mu      sync.RWMutex
	tags    map[string]*MockTag    // key: tag name
	commits map[string]*MockCommit // key: commit hash
	order   []string               // commit hashes, oldest first
	staged  []string
	head    string // current HEAD commit hash
	isRepo  bool
	ctx     context.Context

	// Hooks for testing error scenarios
	AddError       error
	CommitError    error
	CreateTagError error
	TagExistsError error
}

// MockTag represents a git tag
type MockTag struct {
	Name       string
	Message    string
	CommitHash string // which commit this tag points to
}

// MockCommit represents a git commit
type MockCommit struct {
	Hash    string
	Parent  string
	Message string
	Files   []string
}

// NewMockGitClient creates a new MockGitClient with an initial commit
func NewMockGitClient() *MockGitClient {
	mock := &MockGitClient{
		tags:    make(map[string]*MockTag),
		commits: make(map[string]*MockCommit),
		isRepo:  true,
		ctx:     context.Background(),
	}

	// Create initial commit (like real git init)
	mock.head = mock.recordCommit("Initial commit", nil)

	return mock
}

func (m *MockGitClient) recordCommit(message string, files []string) string {
	hash := generateCommitHash()
	m.commits[hash] = &MockCommit{
		Hash:    hash,
		Parent:  m.head,
		Message: message,
		Files:   files,
	}
	m.order = append(m.order, hash)
	return hash
}

// generateCommitHash generates a unique commit hash (7-char hex like git)
func generateCommitHash() string {
	hashCounterMu.Lock()
	defer hashCounterMu.Unlock()
	hashCounterValue++
	return fmt.Sprintf("%07x", hashCounterValue&0xFFFFFFF)
}

// Simple counter for unique commit hashes
var (
	hashCounterMu    sync.Mutex
	hashCounterValue uint64
)

// WithContext returns a client sharing this mock's state with the given context
func (m *MockGitClient) WithContext(ctx context.Context) GitClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ctx = ctx
	return m
}

// AddTag adds a tag at the current HEAD (for test setup)
func (m *MockGitClient) AddTag(tagName, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tags[tagName] = &MockTag{
		Name:       tagName,
		Message:    message,
		CommitHash: m.head,
	}
}

// SetIsRepo sets whether this is a git repository
func (m *MockGitClient) SetIsRepo(isRepo bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isRepo = isRepo
}

// Tag returns a tag by name, or nil.
func (m *MockGitClient) Tag(tagName string) *MockTag {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tags[tagName]
}

// TagNames returns all tag names, sorted.
func (m *MockGitClient) TagNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.tags))
	for name := range m.tags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Commits returns the history, oldest first, including the initial commit.
func (m *MockGitClient) Commits() []*MockCommit {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*MockCommit, 0, len(m.order))
	for _, hash := range m.order {
		out = append(out, m.commits[hash])
	}
	return out
}

// StagedFiles returns the paths staged since the last commit.
func (m *MockGitClient) StagedFiles() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.staged...)
}

func (m *MockGitClient) IsGitRepo() (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isRepo, nil
}

func (m *MockGitClient) HeadCommit() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.isRepo {
		return "", fmt.Errorf("not a git repository")
	}
	return m.head, nil
}

func (m *MockGitClient) Add(paths ...string) error {
	if m.AddError != nil {
		return m.AddError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.isRepo {
		return fmt.Errorf("not a git repository")
	}
	m.staged = append(m.staged, paths...)
	return nil
}

func (m *MockGitClient) Commit(message string) (string, error) {
	if m.CommitError != nil {
		return "", m.CommitError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.staged) == 0 {
		return "", fmt.Errorf("nothing to commit")
	}

	m.head = m.recordCommit(message, m.staged)
	m.staged = nil
	return m.head, nil
}

func (m *MockGitClient) CreateTag(tagName, message string, force bool) error {
	if m.CreateTagError != nil {
		return m.CreateTagError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Check if tag already exists
	if _, exists := m.tags[tagName]; exists && !force {
		return fmt.Errorf("tag %s already exists", tagName)
	}

	m.tags[tagName] = &MockTag{
		Name:       tagName,
		Message:    message,
		CommitHash: m.head, // Tag points to current HEAD
	}

	return nil
}

func (m *MockGitClient) TagExists(tagName string) (bool, error) {
	if m.TagExistsError != nil {
		return false, m.TagExistsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.tags[tagName]
	return exists, nil
}

var (
	_ GitClient = (*MockGitClient)(nil)
	_ GitClient = (*OSGitClient)(nil)
	_ GitClient = (*GoGitClient)(nil)
)
