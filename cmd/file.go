package cmd

import (
	"os"
	"strconv"

	"github.com/emrgen/transmem/internal/service"
	"github.com/emrgen/transmem/internal/token"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "file commands",
}

func init() {
	rootCmd.AddCommand(fileCmd)
	fileCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	fileCmd.AddCommand(addFileCmd())
	fileCmd.AddCommand(listSegmentsCmd())
	fileCmd.AddCommand(exportFileCmd())
}

func addFileCmd() *cobra.Command {
	var projectID string
	var path string
	var name string

	var required = []string{"project-id", "file"}

	command := &cobra.Command{
		Use:     "add",
		Short:   "import a file into a project",
		Example: "transmem file add -p <project-id> -f <path>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			file, err := apiClient().AddFile(projectID, path, service.AddFileOptions{Name: name})
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("file imported with id: %s, segments: %d", file.ID, file.TotalSegments)
		},
	}

	command.Flags().StringVarP(&projectID, "project-id", "p", "", "project id (required)")
	command.Flags().StringVarP(&path, "file", "f", "", "file path (required)")
	command.Flags().StringVarP(&name, "name", "n", "", "file name")

	command.Flags().SortFlags = false

	return command
}

func listSegmentsCmd() *cobra.Command {
	var fileID string
	var offset int
	var limit int

	var required = []string{"file-id"}

	command := &cobra.Command{
		Use:   "segments",
		Short: "list segments of a file",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			page, err := apiClient().GetSegmentsPage(fileID, offset, limit)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"#", "ID", "Status", "Source", "Target"})
			for _, segment := range page.Segments {
				table.Append([]string{
					strconv.Itoa(segment.OrderIndex),
					segment.ID,
					string(segment.Status),
					token.Render(segment.SourceTokens),
					token.Render(segment.TargetTokens),
				})
			}
			table.Render()

			logrus.Infof("showing %d of %d segments", len(page.Segments), page.Total)
		},
	}

	command.Flags().StringVarP(&fileID, "file-id", "f", "", "file id (required)")
	command.Flags().IntVarP(&offset, "offset", "o", 0, "page offset")
	command.Flags().IntVarP(&limit, "limit", "l", 50, "page size")

	command.Flags().SortFlags = false

	return command
}

func exportFileCmd() *cobra.Command {
	var fileID string
	var output string
	var force bool

	var required = []string{"file-id", "output"}

	command := &cobra.Command{
		Use:   "export",
		Short: "export a file's segments as bilingual text",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			if err := apiClient().ExportFile(fileID, output, service.ExportOptions{}, force); err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("exported file %s to %s", fileID, output)
		},
	}

	command.Flags().StringVarP(&fileID, "file-id", "f", "", "file id (required)")
	command.Flags().StringVarP(&output, "output", "o", "", "output path (required)")
	command.Flags().BoolVarP(&force, "force", "F", false, "overwrite existing output")

	command.Flags().SortFlags = false

	return command
}
