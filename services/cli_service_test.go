package services

import (
	"context"
	"testing"

	"github.com/admin-concierge/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCommandsSearchIsCaseInsensitive(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	for _, term := range []string{"connector", "CONNECTOR", "Connect"} {
		commands, err := svc.CLI.ListCommands(ctx, "", term)
		require.NoError(t, err)
		require.Len(t, commands, 1, term)
		assert.Equal(t, "pac connector list", commands[0].Command)
	}

	commands, err := svc.CLI.ListCommands(ctx, "", "100%")
	require.NoError(t, err)
	assert.Empty(t, commands)
}

func TestListCommandsOrdersByCategoryAndName(t *testing.T) {
	svc, _ := newTestServices(t)

	commands, err := svc.CLI.ListCommands(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, commands, 5)

	for i := 1; i < len(commands); i++ {
		prev, cur := commands[i-1], commands[i]
		assert.True(t, prev.Category < cur.Category || (prev.Category == cur.Category && prev.Name <= cur.Name),
			"%s/%s before %s/%s", prev.Category, prev.Name, cur.Category, cur.Name)
	}
	for _, cmd := range commands {
		assert.NotNil(t, cmd.Tags)
	}
}

func TestListCommandsByCategory(t *testing.T) {
	svc, _ := newTestServices(t)

	commands, err := svc.CLI.ListCommands(context.Background(), "Environment Management", "")
	require.NoError(t, err)
	require.Len(t, commands, 2)
	assert.Equal(t, "List Environments", commands[0].Name)
	assert.Equal(t, "Show Environment Details", commands[1].Name)
}

func TestCommandCategories(t *testing.T) {
	svc, _ := newTestServices(t)

	categories, err := svc.CLI.CommandCategories(context.Background())
	require.NoError(t, err)

	counts := map[string]int{}
	for _, c := range categories {
		counts[c.Category] = c.CommandCount
		if c.Category == "Environment Management" {
			assert.Equal(t, "List Environments,Show Environment Details", c.SampleCommands)
		}
	}
	assert.Equal(t, 2, counts["Environment Management"])

	total := 0
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, 5, total)
}

func TestGroupedCommands(t *testing.T) {
	svc, _ := newTestServices(t)

	grouped, err := svc.CLI.GroupedCommands(context.Background())
	require.NoError(t, err)
	require.Contains(t, grouped, "Environment Management")
	assert.Len(t, grouped["Environment Management"], 2)
}

func TestGetCommand(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	commands, err := svc.CLI.ListCommands(ctx, "", "solution")
	require.NoError(t, err)
	require.Len(t, commands, 1)

	cmd, err := svc.CLI.GetCommand(ctx, commands[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "pac solution list", cmd.Command)
	require.Len(t, cmd.Parameters.Required, 1)

	_, err = svc.CLI.GetCommand(ctx, 9999)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	assert.Equal(t, "CLI command not found", err.Error())
}

func TestStaticReferenceContent(t *testing.T) {
	svc, _ := newTestServices(t)

	ref := svc.CLI.QuickReference()
	assert.Len(t, ref.Installation.Methods, 3)
	assert.Len(t, ref.Authentication.Commands, 3)
	assert.Len(t, ref.CommonWorkflows.Workflows, 3)
	assert.Len(t, ref.Troubleshooting.Tips, 4)

	practices := svc.CLI.BestPractices()
	for _, list := range [][]string{practices.Security, practices.Automation, practices.Monitoring, practices.Governance} {
		assert.Len(t, list, 5)
	}
}
