package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/emrgen/transmem/internal/match"
	"github.com/emrgen/transmem/internal/model"
	"github.com/emrgen/transmem/internal/service"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var tmCmd = &cobra.Command{
	Use:   "tm",
	Short: "translation memory commands",
}

func init() {
	rootCmd.AddCommand(tmCmd)
	tmCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	tmCmd.AddCommand(createTMCmd())
	tmCmd.AddCommand(listTMsCmd())
	tmCmd.AddCommand(deleteTMCmd())
	tmCmd.AddCommand(mountTMCmd())
	tmCmd.AddCommand(unmountTMCmd())
	tmCmd.AddCommand(listMountsCmd())
	tmCmd.AddCommand(importTMCmd())
	tmCmd.AddCommand(commitTMCmd())
	tmCmd.AddCommand(exportTMCmd())
	tmCmd.AddCommand(matchesCmd())
	tmCmd.AddCommand(concordanceCmd())
}

func createTMCmd() *cobra.Command {
	var name string
	var kind string
	var srcLang string
	var tgtLang string

	var required = []string{"name", "src-lang", "tgt-lang"}

	command := &cobra.Command{
		Use:     "create",
		Short:   "create a translation memory",
		Example: "transmem tm create -n <name> -k main -s en -t fr",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			tm, err := apiClient().CreateTM(&service.CreateTMRequest{
				Name:    name,
				Kind:    kind,
				SrcLang: srcLang,
				TgtLang: tgtLang,
			})
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("tm created with id: %s", tm.ID)
		},
	}

	command.Flags().StringVarP(&name, "name", "n", "", "tm name (required)")
	command.Flags().StringVarP(&kind, "kind", "k", string(model.TMKindWorking), "tm kind, working or main")
	command.Flags().StringVarP(&srcLang, "src-lang", "s", "", "source language (required)")
	command.Flags().StringVarP(&tgtLang, "tgt-lang", "t", "", "target language (required)")

	command.Flags().SortFlags = false

	return command
}

func listTMsCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "list",
		Short: "list translation memories",
		Run: func(cmd *cobra.Command, args []string) {
			tms, err := apiClient().ListTMs()
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Name", "Kind", "Languages", "Entries"})
			for _, tm := range tms {
				table.Append([]string{
					tm.ID,
					tm.Name,
					tm.Kind,
					tm.SrcLang + " -> " + tm.TgtLang,
					strconv.FormatInt(tm.Entries, 10),
				})
			}

			table.Render()
		},
	}

	return command
}

func deleteTMCmd() *cobra.Command {
	var tmID string

	var required = []string{"tm-id"}

	command := &cobra.Command{
		Use:   "delete",
		Short: "delete a translation memory",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			if err := apiClient().DeleteTM(tmID); err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("tm deleted: %s", tmID)
		},
	}

	command.Flags().StringVarP(&tmID, "tm-id", "m", "", "tm id (required)")

	return command
}

func mountTMCmd() *cobra.Command {
	var projectID string
	var tmID string
	var priority int
	var readwrite bool

	var required = []string{"project-id", "tm-id"}

	command := &cobra.Command{
		Use:     "mount",
		Short:   "mount a tm to a project",
		Example: "transmem tm mount -p <project-id> -m <tm-id> -r 1 -w",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			permission := string(model.PermissionRead)
			if readwrite {
				permission = string(model.PermissionReadWrite)
			}

			mount, err := apiClient().Mount(projectID, tmID, priority, permission)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("mounted tm %s at priority %d (%s)", mount.Name, mount.Priority, mount.Permission)
		},
	}

	command.Flags().StringVarP(&projectID, "project-id", "p", "", "project id (required)")
	command.Flags().StringVarP(&tmID, "tm-id", "m", "", "tm id (required)")
	command.Flags().IntVarP(&priority, "priority", "r", 0, "mount priority, lower wins ties")
	command.Flags().BoolVarP(&readwrite, "readwrite", "w", false, "allow commits into this tm")

	command.Flags().SortFlags = false

	return command
}

func unmountTMCmd() *cobra.Command {
	var projectID string
	var tmID string

	var required = []string{"project-id", "tm-id"}

	command := &cobra.Command{
		Use:   "unmount",
		Short: "unmount a tm from a project",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			if err := apiClient().Unmount(projectID, tmID); err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("unmounted tm %s from project %s", tmID, projectID)
		},
	}

	command.Flags().StringVarP(&projectID, "project-id", "p", "", "project id (required)")
	command.Flags().StringVarP(&tmID, "tm-id", "m", "", "tm id (required)")

	command.Flags().SortFlags = false

	return command
}

func listMountsCmd() *cobra.Command {
	var projectID string

	var required = []string{"project-id"}

	command := &cobra.Command{
		Use:   "mounts",
		Short: "list the tms mounted to a project",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			mounts, err := apiClient().ListMounts(projectID)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"TM", "Name", "Kind", "Priority", "Permission"})
			for _, mount := range mounts {
				table.Append([]string{
					mount.TMID,
					mount.Name,
					mount.Kind,
					strconv.Itoa(mount.Priority),
					mount.Permission,
				})
			}

			table.Render()
		},
	}

	command.Flags().StringVarP(&projectID, "project-id", "p", "", "project id (required)")

	return command
}

func importTMCmd() *cobra.Command {
	var tmID string
	var path string
	var provenance string
	var preview bool

	var required = []string{"file"}

	command := &cobra.Command{
		Use:     "import",
		Short:   "import a tmx file into a tm",
		Example: "transmem tm import -m <tm-id> -f memories.tmx.gz",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			if preview {
				summary, err := apiClient().ImportPreview(path)
				if err != nil {
					logrus.Error(err)
					return
				}

				printField("Languages", summary.SrcLang+" -> "+summary.TgtLang)
				printField("Units", strconv.Itoa(summary.Units))
				for _, unit := range summary.Sample {
					fmt.Printf("  %s\t%s\n", unit.Source, unit.Target)
				}
				return
			}

			if tmID == "" {
				logrus.Error("missing: --tm-id, pass --preview to inspect without a target")
				return
			}

			inserted, err := apiClient().ImportExecute(tmID, path, service.ImportOptions{Provenance: provenance})
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("imported %d entries into tm %s", inserted, tmID)
		},
	}

	command.Flags().StringVarP(&tmID, "tm-id", "m", "", "target tm id")
	command.Flags().StringVarP(&path, "file", "f", "", "tmx file path (required)")
	command.Flags().StringVarP(&provenance, "provenance", "o", "", "recorded origin of the entries")
	command.Flags().BoolVarP(&preview, "preview", "P", false, "summarize the file without importing")

	command.Flags().SortFlags = false

	return command
}

func commitTMCmd() *cobra.Command {
	var tmID string
	var fileID string

	var required = []string{"tm-id", "file-id"}

	command := &cobra.Command{
		Use:     "commit",
		Short:   "promote a file's confirmed segments into a main tm",
		Example: "transmem tm commit -m <tm-id> -f <file-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			committed, err := apiClient().CommitToMain(tmID, fileID)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("committed %d segments into tm %s", committed, tmID)
		},
	}

	command.Flags().StringVarP(&tmID, "tm-id", "m", "", "main tm id (required)")
	command.Flags().StringVarP(&fileID, "file-id", "f", "", "file id (required)")

	command.Flags().SortFlags = false

	return command
}

func exportTMCmd() *cobra.Command {
	var tmID string
	var output string

	var required = []string{"tm-id", "output"}

	command := &cobra.Command{
		Use:   "export",
		Short: "export a tm as a tmx file",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			if err := apiClient().ExportTM(tmID, output); err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("exported tm %s to %s", tmID, output)
		},
	}

	command.Flags().StringVarP(&tmID, "tm-id", "m", "", "tm id (required)")
	command.Flags().StringVarP(&output, "output", "o", "", "output path, compressed by extension")

	command.Flags().SortFlags = false

	return command
}

func matchesCmd() *cobra.Command {
	var projectID string
	var segmentID string

	var required = []string{"project-id", "segment-id"}

	command := &cobra.Command{
		Use:     "matches",
		Short:   "show the ranked fuzzy matches for a segment",
		Example: "transmem tm matches -p <project-id> -g <segment-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			result, err := apiClient().GetMatches(projectID, segmentID)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Score", "Origin", "Source", "Target"})
			for _, candidate := range result.Candidates {
				origin := candidate.TMName
				if candidate.Origin == match.OriginInternal {
					origin = "this project"
				}
				table.Append([]string{
					strconv.Itoa(candidate.Score),
					origin,
					candidate.SourceText,
					candidate.TargetText,
				})
			}
			table.Render()

			for _, warning := range result.Warnings {
				logrus.Warn(warning)
			}
		},
	}

	command.Flags().StringVarP(&projectID, "project-id", "p", "", "project id (required)")
	command.Flags().StringVarP(&segmentID, "segment-id", "g", "", "segment id (required)")

	command.Flags().SortFlags = false

	return command
}

func concordanceCmd() *cobra.Command {
	var projectID string
	var query string

	var required = []string{"project-id", "query"}

	command := &cobra.Command{
		Use:   "concordance",
		Short: "search the mounted tms for free text",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			result, err := apiClient().Concordance(projectID, query)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"TM", "Source", "Target"})
			for _, hit := range result.Hits {
				table.Append([]string{hit.TMName, hit.SourceText, hit.TargetText})
			}
			table.Render()

			for _, warning := range result.Warnings {
				logrus.Warn(warning)
			}
		},
	}

	command.Flags().StringVarP(&projectID, "project-id", "p", "", "project id (required)")
	command.Flags().StringVarP(&query, "query", "q", "", "search text (required)")

	command.Flags().SortFlags = false

	return command
}
