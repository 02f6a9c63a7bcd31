package cmd

import (
	"github.com/emrgen/transmem/internal/service"
	"github.com/emrgen/transmem/internal/token"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var segmentCmd = &cobra.Command{
	Use:   "segment",
	Short: "segment commands",
}

func init() {
	rootCmd.AddCommand(segmentCmd)
	segmentCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	segmentCmd.AddCommand(setTargetCmd())
}

func setTargetCmd() *cobra.Command {
	var segmentID string
	var target string
	var status string

	var required = []string{"segment-id", "target"}

	command := &cobra.Command{
		Use:     "set",
		Short:   "set a segment's target text",
		Example: `transmem segment set -g <segment-id> -t "Bonjour <b>le monde</b>" -s confirmed`,
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			response, err := apiClient().UpdateTarget(&service.UpdateTargetRequest{
				SegmentID:    segmentID,
				TargetTokens: token.Tokenize(target),
				Status:       status,
			})
			if err != nil {
				logrus.Error(err)
				return
			}

			if response.TagMismatch {
				logrus.Warnf("target tags differ from the source for segment %s", segmentID)
			}
			logrus.Infof("segment %s is now %s", response.Segment.ID, response.Segment.Status)
		},
	}

	command.Flags().StringVarP(&segmentID, "segment-id", "g", "", "segment id (required)")
	command.Flags().StringVarP(&target, "target", "t", "", "target text with inline tags (required)")
	command.Flags().StringVarP(&status, "status", "s", "translated", "status to record")

	command.Flags().SortFlags = false

	return command
}
