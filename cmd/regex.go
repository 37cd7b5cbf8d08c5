package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"log-console/core/patternmatch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// regexCmd runs one pattern through the matcher.
var regexCmd = &cobra.Command{
	Use:   "regex",
	Short: "Test a pattern against a text",
	Long:  `Runs an ECMAScript regular expression against a text with the same matcher and timeout the server uses.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pattern, _ := cmd.Flags().GetString("pattern")
		text, _ := cmd.Flags().GetString("text")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Matcher.Timeout()+5*time.Second)
		defer cancel()

		matcher := patternmatch.New(cfg.Matcher, logg)
		matcher.Start(ctx)
		defer matcher.Close()

		resp, err := matcher.Match(ctx, patternmatch.Request{Pattern: pattern, Text: text})
		if err != nil {
			return err
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}

		switch {
		case resp.Error != "":
			logg.Warn("Pattern failed", zap.String("error", resp.Error))
		case resp.Result == nil:
			logg.Info("No match")
		default:
			logg.Info("Match found",
				zap.Int("index", resp.Result.Index),
				zap.Strings("groups", resp.Result.Groups),
				zap.Any("named", resp.Result.Named))
		}
		if resp.Error != "" {
			return fmt.Errorf("pattern failed: %s", resp.Error)
		}
		return nil
	},
}

func init() {
	regexCmd.Flags().String("pattern", "", "ECMAScript regular expression")
	regexCmd.Flags().String("text", "", "Text to match")
	regexCmd.Flags().Bool("json", false, "Print the raw matcher response")
	_ = regexCmd.MarkFlagRequired("pattern")
	RootCmd.AddCommand(regexCmd)
}
