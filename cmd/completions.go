package cmd

import (
	"database/sql"
	"strings"

	"github.com/benoctopus/devflow/internal/config"
	"github.com/benoctopus/devflow/internal/db"
	"github.com/benoctopus/devflow/internal/template"
	"github.com/spf13/cobra"
)

// completeProjects completes project names that have at least one session
func completeProjects(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	names, err := withCompletionDB(db.GetProjectNames)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	return filterPrefix(names, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeTemplates completes template names for the first argument and paths after it
func completeTemplates(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveFilterDirs
	}

	names, err := withCompletionDB(template.Names)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	return filterPrefix(names, toComplete), cobra.ShellCompDirectiveDefault
}

// withCompletionDB runs a query against the configured database without
// the logging and session setup of a full command
func withCompletionDB(query func(*sql.DB) ([]string, error)) ([]string, error) {
	path := flagDBPath
	if path == "" {
		var err error
		if path, err = config.GetDBPath(); err != nil {
			return nil, err
		}
	}

	database, err := db.InitDB(path)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	return query(database)
}

func filterPrefix(items []string, prefix string) []string {
	var out []string
	for _, item := range items {
		if strings.HasPrefix(item, prefix) {
			out = append(out, item)
		}
	}
	return out
}
