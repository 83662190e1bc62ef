package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/drewelewis/ai-prod-support-assistant/internal/github"
)

// RepoService defines the source-hosting operations the GitHub tools need.
type RepoService interface {
	ListRepos(ctx context.Context, user string) ([]string, error)
	ListFiles(ctx context.Context, repo string) ([]string, error)
	GetFileContent(ctx context.Context, repo, path string) (string, error)
	CreateIssue(ctx context.Context, repo, title, body string) (*github.Issue, error)
}

// GitHubTools builds the source-hosting tool set. defaultUser is used
// when a tool call omits the user parameter; it may be empty.
func GitHubTools(svc RepoService, defaultUser string) []Tool {
	return []Tool{
		{
			Name:        "github_list_repos",
			Description: "List the repositories of a GitHub user account.",
			Parameters: stringParams(map[string]string{
				"user": "The GitHub username to list repositories for",
			}),
			Handler: func(ctx context.Context, args Args) (string, error) {
				user := args.String("user")
				if user == "" {
					user = defaultUser
				}
				if user == "" {
					return "Error: 'user' parameter is required", nil
				}
				repos, err := svc.ListRepos(ctx, user)
				if err != nil {
					return fmt.Sprintf("Error getting repositories for user '%s': %v", user, err), err
				}
				if len(repos) == 0 {
					return fmt.Sprintf("No repositories found for user '%s'", user), nil
				}
				var out strings.Builder
				fmt.Fprintf(&out, "Found %d repositories for user '%s':", len(repos), user)
				for _, repo := range repos {
					out.WriteString("\n- " + repo)
				}
				return out.String(), nil
			},
		},
		{
			Name:        "github_list_files",
			Description: "List the files in a GitHub repository (format 'username/repo_name'). Use this before fetching file content to see what is available.",
			Parameters: stringParams(map[string]string{
				"repo": "The repository in format 'username/repo_name'",
			}, "repo"),
			Handler: func(ctx context.Context, args Args) (string, error) {
				repo := args.String("repo")
				if repo == "" {
					return "Error: 'repo' parameter is required", nil
				}
				files, err := svc.ListFiles(ctx, repo)
				if err != nil {
					return fmt.Sprintf("Error getting files for repository '%s': %v", repo, err), err
				}
				if len(files) == 0 {
					return fmt.Sprintf("No files found in repository '%s'", repo), nil
				}
				var out strings.Builder
				fmt.Fprintf(&out, "Found %d files in repository '%s':", len(files), repo)
				for _, file := range files {
					out.WriteString("\n- " + file)
				}
				return out.String(), nil
			},
		},
		{
			Name:        "github_get_file",
			Description: "Get the content of a file in a GitHub repository.",
			Parameters: stringParams(map[string]string{
				"repo": "The repository in format 'username/repo_name'",
				"path": "Path of the file within the repository",
			}, "repo", "path"),
			Handler: func(ctx context.Context, args Args) (string, error) {
				repo, path := args.String("repo"), args.String("path")
				if repo == "" || path == "" {
					return "Error: 'repo' and 'path' parameters are required", nil
				}
				content, err := svc.GetFileContent(ctx, repo, path)
				if err != nil {
					return fmt.Sprintf("Error getting content of '%s' in '%s': %v", path, repo, err), err
				}
				return fmt.Sprintf("Content of %s:\n%s", path, content), nil
			},
		},
		{
			Name:        "github_create_issue",
			Description: "Create an issue in a GitHub repository. Use this when a user wants to report a bug or request a change in the source code.",
			Parameters: stringParams(map[string]string{
				"repo":  "The repository in format 'username/repo_name'",
				"title": "Issue title",
				"body":  "Issue body text",
			}, "repo", "title"),
			Handler: func(ctx context.Context, args Args) (string, error) {
				repo, title := args.String("repo"), args.String("title")
				if repo == "" || title == "" {
					return "Error: 'repo' and 'title' parameters are required", nil
				}
				issue, err := svc.CreateIssue(ctx, repo, title, args.String("body"))
				if err != nil {
					return fmt.Sprintf("Error creating issue in '%s': %v", repo, err), err
				}
				return fmt.Sprintf("Issue created successfully!\nIssue Number: %d\nURL: %s", issue.Number, issue.URL), nil
			},
		},
	}
}
