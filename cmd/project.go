package cmd

import (
	"os"
	"strconv"

	"github.com/emrgen/transmem/internal/service"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "project commands",
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	projectCmd.AddCommand(createProjectCmd())
	projectCmd.AddCommand(listProjectsCmd())
	projectCmd.AddCommand(getProjectCmd())
	projectCmd.AddCommand(deleteProjectCmd())
	projectCmd.AddCommand(updatePromptCmd())
}

func createProjectCmd() *cobra.Command {
	var name string
	var srcLang string
	var tgtLang string
	var prompt string

	var required = []string{"name", "src-lang", "tgt-lang"}

	command := &cobra.Command{
		Use:     "create",
		Short:   "create a project",
		Example: "transmem project create -n <name> -s en -t fr",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			project, err := apiClient().CreateProject(&service.CreateProjectRequest{
				Name:    name,
				SrcLang: srcLang,
				TgtLang: tgtLang,
				Prompt:  prompt,
			})
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("project created with id: %s", project.ID)
		},
	}

	command.Flags().StringVarP(&name, "name", "n", "", "project name (required)")
	command.Flags().StringVarP(&srcLang, "src-lang", "s", "", "source language (required)")
	command.Flags().StringVarP(&tgtLang, "tgt-lang", "t", "", "target language (required)")
	command.Flags().StringVarP(&prompt, "prompt", "r", "", "ai prompt")

	command.Flags().SortFlags = false

	return command
}

func listProjectsCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "list",
		Short: "list projects",
		Run: func(cmd *cobra.Command, args []string) {
			projects, err := apiClient().ListProjects()
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Name", "Languages"})
			for _, project := range projects {
				table.Append([]string{project.ID, project.Name, project.SrcLang + " -> " + project.TgtLang})
			}

			table.Render()
		},
	}

	return command
}

func getProjectCmd() *cobra.Command {
	var projectID string

	var required = []string{"project-id"}

	command := &cobra.Command{
		Use:   "get",
		Short: "get a project",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			project, err := apiClient().GetProject(projectID)
			if err != nil {
				logrus.Error(err)
				return
			}

			files, err := apiClient().ListFiles(projectID)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Name", "Segments", "Confirmed"})
			for _, file := range files {
				table.Append([]string{
					file.ID,
					file.Name,
					strconv.FormatInt(file.TotalSegments, 10),
					strconv.FormatInt(file.ConfirmedSegments, 10),
				})
			}
			table.Render()

			printField("Name", project.Name)
			printField("Languages", project.SrcLang+" -> "+project.TgtLang)
			printField("Prompt", project.Prompt)
		},
	}

	command.Flags().StringVarP(&projectID, "project-id", "p", "", "project id (required)")

	return command
}

func deleteProjectCmd() *cobra.Command {
	var projectID string

	var required = []string{"project-id"}

	command := &cobra.Command{
		Use:   "delete",
		Short: "delete a project",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			if err := apiClient().DeleteProject(projectID); err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("project deleted: %s", projectID)
		},
	}

	command.Flags().StringVarP(&projectID, "project-id", "p", "", "project id (required)")

	return command
}

func updatePromptCmd() *cobra.Command {
	var projectID string
	var prompt string

	var required = []string{"project-id", "prompt"}

	command := &cobra.Command{
		Use:   "prompt",
		Short: "update the project's ai prompt",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			project, err := apiClient().UpdatePrompt(projectID, prompt)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("prompt updated for project: %s", project.ID)
		},
	}

	command.Flags().StringVarP(&projectID, "project-id", "p", "", "project id (required)")
	command.Flags().StringVarP(&prompt, "prompt", "r", "", "ai prompt (required)")

	return command
}
