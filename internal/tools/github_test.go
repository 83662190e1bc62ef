package tools

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/drewelewis/ai-prod-support-assistant/internal/github"
)

type fakeRepoService struct {
	lastOp string
	repos  []string
	files  []string
	issue  *github.Issue
	err    error
}

func (f *fakeRepoService) ListRepos(_ context.Context, user string) ([]string, error) {
	f.lastOp = "repos:" + user
	return f.repos, f.err
}

func (f *fakeRepoService) ListFiles(_ context.Context, repo string) ([]string, error) {
	f.lastOp = "files:" + repo
	return f.files, f.err
}

func (f *fakeRepoService) GetFileContent(_ context.Context, repo, path string) (string, error) {
	f.lastOp = fmt.Sprintf("content:%s:%s", repo, path)
	return "package main\n", f.err
}

func (f *fakeRepoService) CreateIssue(_ context.Context, repo, title, body string) (*github.Issue, error) {
	f.lastOp = fmt.Sprintf("issue:%s:%s", repo, title)
	return f.issue, f.err
}

func newRepoRegistry(svc *fakeRepoService, defaultUser string) *Registry {
	registry := NewRegistry(newTestLogger())
	registry.Register(GitHubTools(svc, defaultUser)...)
	return registry
}

func TestListReposTool_DefaultUserFallback(t *testing.T) {
	svc := &fakeRepoService{repos: []string{"drewelewis/ContosoBankAPI"}}
	registry := newRepoRegistry(svc, "drewelewis")

	out := dispatch(t, registry, "github_list_repos", `{}`)
	if svc.lastOp != "repos:drewelewis" {
		t.Errorf("expected default user, got %q", svc.lastOp)
	}
	if !strings.Contains(out, "- drewelewis/ContosoBankAPI") {
		t.Errorf("repo list output = %q", out)
	}

	dispatch(t, registry, "github_list_repos", `{"user": "someone-else"}`)
	if svc.lastOp != "repos:someone-else" {
		t.Errorf("explicit user must win, got %q", svc.lastOp)
	}
}

func TestListReposTool_NoDefaultUserRequiresParam(t *testing.T) {
	registry := newRepoRegistry(&fakeRepoService{}, "")

	out := dispatch(t, registry, "github_list_repos", `{}`)
	if out != "Error: 'user' parameter is required" {
		t.Errorf("expected required-parameter message, got %q", out)
	}
}

func TestGetFileTool_RendersContent(t *testing.T) {
	svc := &fakeRepoService{}
	registry := newRepoRegistry(svc, "")

	out := dispatch(t, registry, "github_get_file",
		`{"repo": "drewelewis/ContosoBankAPI", "path": "src/main.go"}`)
	if svc.lastOp != "content:drewelewis/ContosoBankAPI:src/main.go" {
		t.Errorf("dispatch = %q", svc.lastOp)
	}
	if !strings.HasPrefix(out, "Content of src/main.go:\n") {
		t.Errorf("content output = %q", out)
	}
}

func TestCreateIssueTool_RendersResult(t *testing.T) {
	svc := &fakeRepoService{issue: &github.Issue{
		Number: 42,
		URL:    "https://github.test/drewelewis/ContosoBankAPI/issues/42",
	}}
	registry := newRepoRegistry(svc, "")

	out := dispatch(t, registry, "github_create_issue",
		`{"repo": "drewelewis/ContosoBankAPI", "title": "login broken"}`)
	want := "Issue created successfully!\nIssue Number: 42\nURL: https://github.test/drewelewis/ContosoBankAPI/issues/42"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}

	out = dispatch(t, registry, "github_create_issue", `{"repo": "x/y"}`)
	if out != "Error: 'repo' and 'title' parameters are required" {
		t.Errorf("missing title: %q", out)
	}
}

func TestGitHubTools_RenderFailures(t *testing.T) {
	svc := &fakeRepoService{err: fmt.Errorf("GitHub API returned status 404")}
	registry := newRepoRegistry(svc, "drewelewis")

	out := dispatch(t, registry, "github_list_files", `{"repo": "drewelewis/gone"}`)
	if !strings.HasPrefix(out, "Error getting files for repository 'drewelewis/gone':") {
		t.Errorf("expected failure rendering, got %q", out)
	}
}
